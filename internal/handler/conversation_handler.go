package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/pazarmk/pazar-backend/internal/model"
	"github.com/pazarmk/pazar-backend/internal/service"
)

type ConversationHandler struct {
	svc service.ConversationService
}

func NewConversationHandler(svc service.ConversationService) *ConversationHandler {
	return &ConversationHandler{svc: svc}
}

type ConversationResponse struct {
	ConversationID uint64 `json:"conversationId"`
	ListingID      uint64 `json:"listingId"`
	BuyerUID       string `json:"buyerUid"`
	SellerUID      string `json:"sellerUid"`
	LastMessage    string `json:"lastMessage,omitempty"`
	UpdatedAt      string `json:"updatedAt"`
}

type MessageResponse struct {
	ID             uint64 `json:"id"`
	ConversationID uint64 `json:"conversationId"`
	SenderUID      string `json:"senderUid"`
	Content        string `json:"content"`
	IsRead         bool   `json:"isRead"`
	CreatedAt      string `json:"createdAt"`
}

type MessageRequest struct {
	Content string `json:"content"`
}

type ConversationListingSummary struct {
	ID              uint64  `json:"id"`
	Title           string  `json:"title"`
	Price           uint    `json:"price"`
	DefaultImageURL *string `json:"defaultImageUrl,omitempty"`
}

type ConversationParticipant struct {
	UID         string `json:"uid"`
	Username    string `json:"username"`
	DisplayName string `json:"displayName"`
}

type ConversationSummaryResponse struct {
	ConversationID uint64                      `json:"conversationId"`
	Listing        *ConversationListingSummary `json:"listing,omitempty"`
	Buyer          *ConversationParticipant    `json:"buyer,omitempty"`
	Seller         *ConversationParticipant    `json:"seller,omitempty"`
	LatestMessage  *MessageResponse            `json:"latestMessage,omitempty"`
	UnreadCount    int64                       `json:"unreadCount"`
	UpdatedAt      string                      `json:"updatedAt"`
}

func toConversationResponse(cv *model.Conversation) ConversationResponse {
	return ConversationResponse{
		ConversationID: cv.ID,
		ListingID:      cv.ListingID,
		BuyerUID:       cv.BuyerUID,
		SellerUID:      cv.SellerUID,
		LastMessage:    cv.LastMessage,
		UpdatedAt:      cv.UpdatedAt.Format(time.RFC3339),
	}
}

func toMessageResponse(m model.Message) MessageResponse {
	return MessageResponse{
		ID:             m.ID,
		ConversationID: m.ConversationID,
		SenderUID:      m.SenderUID,
		Content:        m.Content,
		IsRead:         m.IsRead,
		CreatedAt:      m.CreatedAt.Format(time.RFC3339),
	}
}

func toParticipant(p *model.UserProfile) *ConversationParticipant {
	if p == nil {
		return nil
	}
	return &ConversationParticipant{
		UID:         p.UID,
		Username:    p.Username,
		DisplayName: p.DisplayName,
	}
}

// CreateFromListing resolves the conversation between the caller and the
// listing's seller, creating it on first contact.
func (h *ConversationHandler) CreateFromListing(c echo.Context) error {
	uid, _ := c.Get("uid").(string)
	if uid == "" {
		return c.JSON(http.StatusUnauthorized, NewErrorResponse("unauthorized", "missing uid"))
	}
	listingID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid listing id"))
	}
	cv, err := h.svc.CreateOrGet(c.Request().Context(), listingID, uid)
	if err != nil {
		if err == service.ErrNotFound {
			return c.JSON(http.StatusNotFound, NewErrorResponse("not_found", "listing not found"))
		}
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", err.Error()))
	}
	return c.JSON(http.StatusOK, toConversationResponse(cv))
}

func (h *ConversationHandler) List(c echo.Context) error {
	uid, _ := c.Get("uid").(string)
	if uid == "" {
		return c.JSON(http.StatusUnauthorized, NewErrorResponse("unauthorized", "missing uid"))
	}
	summaries, err := h.svc.ListByUser(c.Request().Context(), uid)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, NewErrorResponse("internal_error", "failed to fetch conversations"))
	}
	resp := make([]ConversationSummaryResponse, 0, len(summaries))
	for _, s := range summaries {
		item := ConversationSummaryResponse{
			ConversationID: s.Conversation.ID,
			Buyer:          toParticipant(s.Buyer),
			Seller:         toParticipant(s.Seller),
			UnreadCount:    s.UnreadCount,
			UpdatedAt:      s.Conversation.UpdatedAt.Format(time.RFC3339),
		}
		if s.Listing != nil {
			item.Listing = &ConversationListingSummary{
				ID:              s.Listing.ID,
				Title:           s.Listing.Title,
				Price:           s.Listing.Price,
				DefaultImageURL: s.Listing.DefaultImageURL,
			}
		}
		if s.LatestMessage != nil {
			msg := toMessageResponse(*s.LatestMessage)
			item.LatestMessage = &msg
		}
		resp = append(resp, item)
	}
	return c.JSON(http.StatusOK, resp)
}

func (h *ConversationHandler) Get(c echo.Context) error {
	uid, _ := c.Get("uid").(string)
	if uid == "" {
		return c.JSON(http.StatusUnauthorized, NewErrorResponse("unauthorized", "missing uid"))
	}
	convID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid conversation id"))
	}
	cv, err := h.svc.Get(c.Request().Context(), convID, uid)
	if err != nil {
		switch err {
		case service.ErrNotFound:
			return c.JSON(http.StatusNotFound, NewErrorResponse("not_found", "conversation not found"))
		case service.ErrForbidden:
			return c.JSON(http.StatusForbidden, NewErrorResponse("forbidden", "not a participant"))
		}
		return c.JSON(http.StatusInternalServerError, NewErrorResponse("internal_error", "failed to fetch conversation"))
	}
	return c.JSON(http.StatusOK, toConversationResponse(cv))
}

func (h *ConversationHandler) ListMessages(c echo.Context) error {
	uid, _ := c.Get("uid").(string)
	if uid == "" {
		return c.JSON(http.StatusUnauthorized, NewErrorResponse("unauthorized", "missing uid"))
	}
	convID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid conversation id"))
	}
	msgs, err := h.svc.ListMessages(c.Request().Context(), convID, uid)
	if err != nil {
		switch err {
		case service.ErrNotFound:
			return c.JSON(http.StatusNotFound, NewErrorResponse("not_found", "conversation not found"))
		case service.ErrForbidden:
			return c.JSON(http.StatusForbidden, NewErrorResponse("forbidden", "not a participant"))
		}
		return c.JSON(http.StatusInternalServerError, NewErrorResponse("internal_error", "failed to fetch messages"))
	}
	resp := make([]MessageResponse, 0, len(msgs))
	for _, m := range msgs {
		resp = append(resp, toMessageResponse(m))
	}
	return c.JSON(http.StatusOK, resp)
}

func (h *ConversationHandler) CreateMessage(c echo.Context) error {
	uid, _ := c.Get("uid").(string)
	if uid == "" {
		return c.JSON(http.StatusUnauthorized, NewErrorResponse("unauthorized", "missing uid"))
	}
	convID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid conversation id"))
	}
	var req MessageRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid json"))
	}
	msg, err := h.svc.SendMessage(c.Request().Context(), convID, uid, req.Content)
	if err != nil {
		switch err {
		case service.ErrNotFound:
			return c.JSON(http.StatusNotFound, NewErrorResponse("not_found", "conversation not found"))
		case service.ErrForbidden:
			return c.JSON(http.StatusForbidden, NewErrorResponse("forbidden", "not a participant"))
		}
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", err.Error()))
	}
	return c.JSON(http.StatusCreated, toMessageResponse(*msg))
}

func (h *ConversationHandler) MarkRead(c echo.Context) error {
	uid, _ := c.Get("uid").(string)
	if uid == "" {
		return c.JSON(http.StatusUnauthorized, NewErrorResponse("unauthorized", "missing uid"))
	}
	convID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid conversation id"))
	}
	if err := h.svc.MarkRead(c.Request().Context(), convID, uid); err != nil {
		switch err {
		case service.ErrNotFound:
			return c.JSON(http.StatusNotFound, NewErrorResponse("not_found", "conversation not found"))
		case service.ErrForbidden:
			return c.JSON(http.StatusForbidden, NewErrorResponse("forbidden", "not a participant"))
		}
		return c.JSON(http.StatusInternalServerError, NewErrorResponse("internal_error", "failed to mark read"))
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

func (h *ConversationHandler) UnreadCount(c echo.Context) error {
	uid, _ := c.Get("uid").(string)
	if uid == "" {
		return c.JSON(http.StatusUnauthorized, NewErrorResponse("unauthorized", "missing uid"))
	}
	cnt, err := h.svc.UnreadCount(c.Request().Context(), uid)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, NewErrorResponse("internal_error", "failed to count unread"))
	}
	return c.JSON(http.StatusOK, map[string]int64{"unreadCount": cnt})
}

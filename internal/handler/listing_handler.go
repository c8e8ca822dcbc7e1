package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/pazarmk/pazar-backend/internal/service"
)

type ListingHandler struct {
	svc service.ListingService
}

func NewListingHandler(svc service.ListingService) *ListingHandler {
	return &ListingHandler{svc: svc}
}

type ListingImagePayload struct {
	URL        string `json:"url"`
	IsDefault  bool   `json:"isDefault"`
	OrderIndex int    `json:"orderIndex"`
}

type ListingRequest struct {
	Title           string                `json:"title"`
	Description     string                `json:"description"`
	Price           uint                  `json:"price"`
	CategoryID      uint64                `json:"categoryId"`
	LocationLat     *float64              `json:"locationLat"`
	LocationLng     *float64              `json:"locationLng"`
	LocationAddress *string               `json:"locationAddress"`
	Images          []ListingImagePayload `json:"images"`
}

type ListingImageResponse struct {
	ID         uint64 `json:"id"`
	ImageURL   string `json:"imageUrl"`
	IsDefault  bool   `json:"isDefault"`
	OrderIndex int    `json:"orderIndex"`
}

type ListingResponse struct {
	ID              uint64                 `json:"id"`
	SellerUID       string                 `json:"sellerUid"`
	Title           string                 `json:"title"`
	Description     string                 `json:"description"`
	Price           uint                   `json:"price"`
	CategoryID      uint64                 `json:"categoryId"`
	IsSold          bool                   `json:"isSold"`
	LocationLat     *float64               `json:"locationLat,omitempty"`
	LocationLng     *float64               `json:"locationLng,omitempty"`
	LocationAddress *string                `json:"locationAddress,omitempty"`
	Category        *CategoryResponse      `json:"category,omitempty"`
	Seller          *ProfileResponse       `json:"seller,omitempty"`
	Images          []ListingImageResponse `json:"images"`
	CreatedAt       string                 `json:"createdAt"`
	UpdatedAt       string                 `json:"updatedAt"`
}

type ListingListResponse struct {
	Listings []ListingResponse `json:"listings"`
	Total    int64             `json:"total"`
}

func toListingResponse(d *service.ListingDetail) ListingResponse {
	resp := ListingResponse{
		ID:              d.Listing.ID,
		SellerUID:       d.Listing.SellerUID,
		Title:           d.Listing.Title,
		Description:     d.Listing.Description,
		Price:           d.Listing.Price,
		CategoryID:      d.Listing.CategoryID,
		IsSold:          d.Listing.IsSold,
		LocationLat:     d.Listing.LocationLat,
		LocationLng:     d.Listing.LocationLng,
		LocationAddress: d.Listing.LocationAddress,
		Images:          make([]ListingImageResponse, 0, len(d.Images)),
		CreatedAt:       d.Listing.CreatedAt.Format(time.RFC3339),
		UpdatedAt:       d.Listing.UpdatedAt.Format(time.RFC3339),
	}
	if d.Category != nil {
		cat := toCategoryResponse(*d.Category)
		resp.Category = &cat
	}
	if d.Seller != nil {
		seller := toProfileResponse(d.Seller)
		resp.Seller = &seller
	}
	for _, img := range d.Images {
		resp.Images = append(resp.Images, ListingImageResponse{
			ID:         img.ID,
			ImageURL:   img.ImageURL,
			IsDefault:  img.IsDefault,
			OrderIndex: img.OrderIndex,
		})
	}
	return resp
}

func toNewListing(req ListingRequest) service.NewListing {
	in := service.NewListing{
		Title:           req.Title,
		Description:     req.Description,
		Price:           req.Price,
		CategoryID:      req.CategoryID,
		LocationLat:     req.LocationLat,
		LocationLng:     req.LocationLng,
		LocationAddress: req.LocationAddress,
	}
	for _, img := range req.Images {
		in.Images = append(in.Images, service.NewListingImage{
			URL:        img.URL,
			IsDefault:  img.IsDefault,
			OrderIndex: img.OrderIndex,
		})
	}
	return in
}

func (h *ListingHandler) Create(c echo.Context) error {
	uid, _ := c.Get("uid").(string)
	if uid == "" {
		return c.JSON(http.StatusUnauthorized, NewErrorResponse("unauthorized", "missing uid"))
	}
	var req ListingRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid json"))
	}
	d, err := h.svc.Create(c.Request().Context(), uid, toNewListing(req))
	if err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", err.Error()))
	}
	return c.JSON(http.StatusCreated, toListingResponse(d))
}

func (h *ListingHandler) Get(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid id"))
	}
	d, err := h.svc.Get(c.Request().Context(), id)
	if err != nil {
		if err == service.ErrNotFound {
			return c.JSON(http.StatusNotFound, NewErrorResponse("not_found", "listing not found"))
		}
		return c.JSON(http.StatusInternalServerError, NewErrorResponse("internal_error", "failed to fetch listing"))
	}
	return c.JSON(http.StatusOK, toListingResponse(d))
}

// GetMine returns one of the caller's own listings, sold included, for the
// edit view.
func (h *ListingHandler) GetMine(c echo.Context) error {
	uid, _ := c.Get("uid").(string)
	if uid == "" {
		return c.JSON(http.StatusUnauthorized, NewErrorResponse("unauthorized", "missing uid"))
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid id"))
	}
	d, err := h.svc.GetOwned(c.Request().Context(), id, uid)
	if err != nil {
		switch err {
		case service.ErrNotFound:
			return c.JSON(http.StatusNotFound, NewErrorResponse("not_found", "listing not found"))
		case service.ErrForbidden:
			return c.JSON(http.StatusForbidden, NewErrorResponse("forbidden", "not the seller"))
		}
		return c.JSON(http.StatusInternalServerError, NewErrorResponse("internal_error", "failed to fetch listing"))
	}
	return c.JSON(http.StatusOK, toListingResponse(d))
}

func (h *ListingHandler) List(c echo.Context) error {
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	offset, _ := strconv.Atoi(c.QueryParam("offset"))
	categoryID, _ := strconv.ParseUint(c.QueryParam("category"), 10, 64)
	search := c.QueryParam("search")

	details, total, err := h.svc.List(c.Request().Context(), search, categoryID, limit, offset)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, NewErrorResponse("internal_error", "failed to fetch listings"))
	}
	resp := ListingListResponse{
		Listings: make([]ListingResponse, 0, len(details)),
		Total:    total,
	}
	for i := range details {
		resp.Listings = append(resp.Listings, toListingResponse(&details[i]))
	}
	return c.JSON(http.StatusOK, resp)
}

func (h *ListingHandler) ListMine(c echo.Context) error {
	uid, _ := c.Get("uid").(string)
	if uid == "" {
		return c.JSON(http.StatusUnauthorized, NewErrorResponse("unauthorized", "missing uid"))
	}
	details, err := h.svc.ListMine(c.Request().Context(), uid)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, NewErrorResponse("internal_error", "failed to fetch listings"))
	}
	resp := make([]ListingResponse, 0, len(details))
	for i := range details {
		resp = append(resp, toListingResponse(&details[i]))
	}
	return c.JSON(http.StatusOK, resp)
}

func (h *ListingHandler) Update(c echo.Context) error {
	uid, _ := c.Get("uid").(string)
	if uid == "" {
		return c.JSON(http.StatusUnauthorized, NewErrorResponse("unauthorized", "missing uid"))
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid id"))
	}
	var req ListingRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid json"))
	}
	replaceImages := req.Images != nil
	d, err := h.svc.Update(c.Request().Context(), id, uid, toNewListing(req), replaceImages)
	if err != nil {
		switch err {
		case service.ErrNotFound:
			return c.JSON(http.StatusNotFound, NewErrorResponse("not_found", "listing not found"))
		case service.ErrForbidden:
			return c.JSON(http.StatusForbidden, NewErrorResponse("forbidden", "not the seller"))
		}
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", err.Error()))
	}
	return c.JSON(http.StatusOK, toListingResponse(d))
}

func (h *ListingHandler) MarkSold(c echo.Context) error {
	uid, _ := c.Get("uid").(string)
	if uid == "" {
		return c.JSON(http.StatusUnauthorized, NewErrorResponse("unauthorized", "missing uid"))
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid id"))
	}
	if err := h.svc.MarkSold(c.Request().Context(), id, uid); err != nil {
		switch err {
		case service.ErrNotFound:
			return c.JSON(http.StatusNotFound, NewErrorResponse("not_found", "listing not found"))
		case service.ErrForbidden:
			return c.JSON(http.StatusForbidden, NewErrorResponse("forbidden", "not the seller"))
		}
		return c.JSON(http.StatusInternalServerError, NewErrorResponse("internal_error", "failed to mark sold"))
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

func (h *ListingHandler) Delete(c echo.Context) error {
	uid, _ := c.Get("uid").(string)
	if uid == "" {
		return c.JSON(http.StatusUnauthorized, NewErrorResponse("unauthorized", "missing uid"))
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid id"))
	}
	if err := h.svc.Delete(c.Request().Context(), id, uid); err != nil {
		switch err {
		case service.ErrNotFound:
			return c.JSON(http.StatusNotFound, NewErrorResponse("not_found", "listing not found"))
		case service.ErrForbidden:
			return c.JSON(http.StatusForbidden, NewErrorResponse("forbidden", "not the seller"))
		}
		return c.JSON(http.StatusInternalServerError, NewErrorResponse("internal_error", "failed to delete listing"))
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

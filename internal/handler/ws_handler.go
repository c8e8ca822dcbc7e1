package handler

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/labstack/echo/v4"
	"github.com/pazarmk/pazar-backend/internal/realtime"
	"github.com/pazarmk/pazar-backend/internal/service"
)

const wsWriteTimeout = 5 * time.Second

// WSHandler bridges the realtime hub to websocket clients. Subscribers get
// message-insert events for one conversation, or for all of their
// conversations when the parameter is omitted. Missed events are not
// replayed; clients refetch after a reconnect.
type WSHandler struct {
	hub     *realtime.Hub
	convSvc service.ConversationService
}

func NewWSHandler(hub *realtime.Hub, convSvc service.ConversationService) *WSHandler {
	return &WSHandler{hub: hub, convSvc: convSvc}
}

func (h *WSHandler) Subscribe(c echo.Context) error {
	uid, _ := c.Get("uid").(string)
	if uid == "" {
		return c.JSON(http.StatusUnauthorized, NewErrorResponse("unauthorized", "missing uid"))
	}

	var convID uint64
	if p := c.QueryParam("conversation"); p != "" {
		parsed, err := strconv.ParseUint(p, 10, 64)
		if err != nil {
			return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid conversation id"))
		}
		// Participant check before the upgrade.
		if _, err := h.convSvc.Get(c.Request().Context(), parsed, uid); err != nil {
			switch err {
			case service.ErrNotFound:
				return c.JSON(http.StatusNotFound, NewErrorResponse("not_found", "conversation not found"))
			case service.ErrForbidden:
				return c.JSON(http.StatusForbidden, NewErrorResponse("forbidden", "not a participant"))
			}
			return c.JSON(http.StatusInternalServerError, NewErrorResponse("internal_error", "failed to fetch conversation"))
		}
		convID = parsed
	}

	conn, err := websocket.Accept(c.Response(), c.Request(), &websocket.AcceptOptions{
		OriginPatterns: []string{"*"},
	})
	if err != nil {
		return err
	}
	defer conn.CloseNow()

	sub := h.hub.Subscribe(uid, convID)
	defer h.hub.Unsubscribe(sub)

	// Reads are discarded; the returned context ends when the peer goes away.
	ctx := conn.CloseRead(c.Request().Context())

	for {
		select {
		case <-ctx.Done():
			conn.Close(websocket.StatusNormalClosure, "")
			return nil
		case <-sub.Done():
			conn.Close(websocket.StatusGoingAway, "unsubscribed")
			return nil
		case ev := <-sub.Send:
			wctx, cancel := context.WithTimeout(ctx, wsWriteTimeout)
			err := wsjson.Write(wctx, conn, ev)
			cancel()
			if err != nil {
				return nil
			}
		}
	}
}

// Package chat exposes the websocket endpoint and the chat history REST
// endpoints.
package chat

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/yarachoice/clinic-api/internal/chat"
	"github.com/yarachoice/clinic-api/internal/handler"
	"github.com/yarachoice/clinic-api/internal/middleware"
	apperrors "github.com/yarachoice/clinic-api/pkg/errors"
)

// inbound is what clients send over the socket.
type inbound struct {
	Type       string `json:"type"`
	ReceiverID string `json:"receiver_id,omitempty"`
	Content    string `json:"content,omitempty"`
	MessageID  string `json:"message_id,omitempty"`
}

const (
	inboundSendMessage = "send_message"
	inboundMarkRead    = "mark_read"
)

type Handler struct {
	hub      *chat.Hub
	chats    *chat.Service
	upgrader websocket.Upgrader
	logger   zerolog.Logger
}

func NewHandler(hub *chat.Hub, chats *chat.Service, allowOrigin func(r *http.Request) bool, logger zerolog.Logger) *Handler {
	return &Handler{
		hub:   hub,
		chats: chats,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     allowOrigin,
		},
		logger: logger.With().Str("handler", "chat").Logger(),
	}
}

// Connect upgrades to a websocket and pumps client events until the peer
// hangs up. The connection is registered under the authenticated user; a
// userId query parameter, when present, must name that same user.
func (h *Handler) Connect(c *gin.Context) {
	claims, ok := middleware.Claims(c)
	if !ok {
		handler.Error(c, apperrors.Unauthorized("missing authorization token"))
		return
	}
	if requested := c.Query("userId"); requested != "" && requested != claims.UserID {
		handler.Error(c, apperrors.Forbidden("cannot connect on behalf of another user"))
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Warn().Err(err).Msg("websocket upgrade failed")
		return
	}

	ctx := c.Request.Context()
	h.hub.Register(ctx, claims.UserID, conn)
	defer func() {
		h.hub.Unregister(ctx, claims.UserID, conn)
		conn.Close()
	}()

	for {
		var msg inbound
		if err := conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.logger.Warn().Err(err).Str("user_id", claims.UserID).Msg("websocket read failed")
			}
			return
		}

		switch msg.Type {
		case inboundSendMessage:
			if _, err := h.hub.SendMessage(ctx, claims.UserID, msg.ReceiverID, msg.Content); err != nil {
				h.writeError(conn, err)
			}
		case inboundMarkRead:
			if err := h.hub.MarkRead(ctx, claims.UserID, msg.MessageID); err != nil {
				h.writeError(conn, err)
			}
		default:
			h.writeError(conn, apperrors.Validation(map[string]string{"type": "unknown event type"}))
		}
	}
}

func (h *Handler) writeError(conn *websocket.Conn, err error) {
	appErr, ok := apperrors.As(err)
	if !ok {
		appErr = apperrors.Internal(err)
	}
	payload := map[string]any{"message": appErr.Message}
	if len(appErr.Fields) > 0 {
		payload["fields"] = appErr.Fields
	}
	if werr := conn.WriteJSON(chat.Event{Type: "error", Payload: payload}); werr != nil {
		h.logger.Warn().Err(werr).Msg("failed to write error event")
	}
}

// Conversations lists the caller's conversation summaries.
func (h *Handler) Conversations(c *gin.Context) {
	claims, ok := middleware.Claims(c)
	if !ok {
		handler.Error(c, apperrors.Unauthorized("missing authorization token"))
		return
	}

	convs, err := h.chats.Conversations(c.Request.Context(), claims.UserID)
	if err != nil {
		handler.Error(c, err)
		return
	}
	handler.JSON(c, http.StatusOK, convs)
}

// Messages returns the caller's history with one peer.
func (h *Handler) Messages(c *gin.Context) {
	claims, ok := middleware.Claims(c)
	if !ok {
		handler.Error(c, apperrors.Unauthorized("missing authorization token"))
		return
	}

	msgs, err := h.chats.Messages(c.Request.Context(), claims.UserID, c.Param("peer_id"))
	if err != nil {
		handler.Error(c, err)
		return
	}
	handler.JSON(c, http.StatusOK, msgs)
}

// Unread returns the caller's unread message count.
func (h *Handler) Unread(c *gin.Context) {
	claims, ok := middleware.Claims(c)
	if !ok {
		handler.Error(c, apperrors.Unauthorized("missing authorization token"))
		return
	}

	n, err := h.chats.UnreadCount(c.Request.Context(), claims.UserID)
	if err != nil {
		handler.Error(c, err)
		return
	}
	handler.JSON(c, http.StatusOK, gin.H{"unread": n})
}

package web

import (
	"log/slog"
	"net/http"

	"dm-lab/auth"
	"dm-lab/errors"
	"dm-lab/services"

	"github.com/labstack/echo/v4"
)

type ChatHandler struct {
	log            *slog.Logger
	messageService services.IMessageService
}

func NewChatHandler(log *slog.Logger, messageService services.IMessageService) *ChatHandler {
	return &ChatHandler{log: log, messageService: messageService}
}

type SendMessageRequest struct {
	To      string `json:"to"`
	Content string `json:"content"`
}

// SendMessage handles POST /messages. The sender is always the identity
// carried by the verified token, never a client-supplied field.
func (h *ChatHandler) SendMessage(c echo.Context) error {
	var in SendMessageRequest
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid json")
	}

	sender := auth.IdentityFromContext(c)
	message, err := h.messageService.SendMessage(sender, in.To, in.Content)
	if err != nil {
		h.log.Warn("send failed", "to", in.To, "error", err)
		return errors.MapToHTTPError(err)
	}

	return c.JSON(http.StatusCreated, toMessageResponse(message))
}

// ListConversations handles GET /users.
func (h *ChatHandler) ListConversations(c echo.Context) error {
	sender := auth.IdentityFromContext(c)
	conversations, err := h.messageService.ListConversations(sender)
	if err != nil {
		h.log.Warn("conversation listing failed", "error", err)
		return errors.MapToHTTPError(err)
	}

	return c.JSON(http.StatusOK, toConversationResponses(conversations))
}

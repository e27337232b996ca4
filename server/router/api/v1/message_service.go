package v1

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/samber/lo"

	"github.com/hrygo/converse/store"
)

type Message struct {
	ID             int32  `json:"id"`
	UID            string `json:"uid"`
	ConversationID int32  `json:"conversation_id"`
	Role           string `json:"role"`
	Text           string `json:"text"`
	CreatedTs      int64  `json:"created_ts"`
	UpdatedTs      int64  `json:"updated_ts"`
}

type CreateMessageRequest struct {
	ConversationID int32  `json:"conversation_id" validate:"required"`
	Role           string `json:"role" validate:"required,oneof=user assistant system"`
	Text           string `json:"text"`
}

type UpdateMessageRequest struct {
	Text *string `json:"text"`
}

type DeleteMessageResponse struct {
	MessageID int32  `json:"message_id"`
	Message   string `json:"message"`
}

func (s *APIV1Service) createMessage(c echo.Context) error {
	request := &CreateMessageRequest{}
	if err := c.Bind(request); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "malformed request body")
	}
	if err := c.Validate(request); err != nil {
		return err
	}

	slog.Debug("creating message",
		slog.Int64("conversation_id", int64(request.ConversationID)),
		slog.String("role", request.Role),
	)

	message, err := s.Store.CreateMessage(c.Request().Context(), &store.Message{
		ConversationID: request.ConversationID,
		Role:           store.Role(request.Role),
		Text:           request.Text,
	})
	if err != nil {
		slog.Warn("failed to create message",
			slog.Int64("conversation_id", int64(request.ConversationID)),
			slog.String("error", err.Error()),
		)
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, convertMessageFromStore(message))
}

func (s *APIV1Service) listMessages(c echo.Context) error {
	raw := c.QueryParam("conversation_id")
	if raw == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "conversation_id is required")
	}
	conversationID, err := strconv.ParseInt(raw, 10, 32)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "conversation_id must be an integer")
	}
	skip, err := queryInt(c, "skip", defaultListSkip)
	if err != nil {
		return err
	}
	limit, err := queryInt(c, "limit", defaultListLimit)
	if err != nil {
		return err
	}

	messages, err := s.Store.ListMessages(c.Request().Context(), int32(conversationID), skip, limit)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, lo.Map(messages, func(message *store.Message, _ int) *Message {
		return convertMessageFromStore(message)
	}))
}

func (s *APIV1Service) getMessage(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}

	message, err := s.Store.GetMessage(c.Request().Context(), id)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, convertMessageFromStore(message))
}

func (s *APIV1Service) updateMessage(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	request := &UpdateMessageRequest{}
	if err := c.Bind(request); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "malformed request body")
	}

	message, err := s.Store.UpdateMessage(c.Request().Context(), &store.UpdateMessage{
		ID:   id,
		Text: request.Text,
	})
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, convertMessageFromStore(message))
}

func (s *APIV1Service) deleteMessage(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}

	if err := s.Store.DeleteMessage(c.Request().Context(), id); err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, &DeleteMessageResponse{
		MessageID: id,
		Message:   "Message deleted successfully",
	})
}

func convertMessageFromStore(m *store.Message) *Message {
	return &Message{
		ID:             m.ID,
		UID:            m.UID,
		ConversationID: m.ConversationID,
		Role:           string(m.Role),
		Text:           m.Text,
		CreatedTs:      m.CreatedTs,
		UpdatedTs:      m.UpdatedTs,
	}
}

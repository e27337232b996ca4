package v1

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/samber/lo"

	"github.com/hrygo/converse/store"
)

const (
	defaultListSkip  = 0
	defaultListLimit = 10
)

type Conversation struct {
	ID        int32  `json:"id"`
	UID       string `json:"uid"`
	Title     string `json:"title"`
	CreatedTs int64  `json:"created_ts"`
	UpdatedTs int64  `json:"updated_ts"`
}

type CreateConversationRequest struct {
	Title string `json:"title"`
}

type UpdateConversationRequest struct {
	Title *string `json:"title"`
}

type DeleteConversationResponse struct {
	ConversationID int32  `json:"conversation_id"`
	Message        string `json:"message"`
}

func (s *APIV1Service) createConversation(c echo.Context) error {
	request := &CreateConversationRequest{}
	if err := c.Bind(request); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "malformed request body")
	}

	conversation, err := s.Store.CreateConversation(c.Request().Context(), &store.Conversation{
		Title: request.Title,
	})
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, convertConversationFromStore(conversation))
}

func (s *APIV1Service) listConversations(c echo.Context) error {
	skip, err := queryInt(c, "skip", defaultListSkip)
	if err != nil {
		return err
	}
	limit, err := queryInt(c, "limit", defaultListLimit)
	if err != nil {
		return err
	}

	conversations, err := s.Store.ListConversations(c.Request().Context(), skip, limit)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, lo.Map(conversations, func(conversation *store.Conversation, _ int) *Conversation {
		return convertConversationFromStore(conversation)
	}))
}

func (s *APIV1Service) getConversation(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}

	conversation, err := s.Store.GetConversation(c.Request().Context(), id)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, convertConversationFromStore(conversation))
}

func (s *APIV1Service) updateConversation(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	request := &UpdateConversationRequest{}
	if err := c.Bind(request); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "malformed request body")
	}

	conversation, err := s.Store.UpdateConversation(c.Request().Context(), &store.UpdateConversation{
		ID:    id,
		Title: request.Title,
	})
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, convertConversationFromStore(conversation))
}

func (s *APIV1Service) deleteConversation(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}

	if err := s.Store.DeleteConversation(c.Request().Context(), id); err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, &DeleteConversationResponse{
		ConversationID: id,
		Message:        "Conversation deleted successfully",
	})
}

func convertConversationFromStore(c *store.Conversation) *Conversation {
	return &Conversation{
		ID:        c.ID,
		UID:       c.UID,
		Title:     c.Title,
		CreatedTs: c.CreatedTs,
		UpdatedTs: c.UpdatedTs,
	}
}

// pathID parses the :id path parameter.
func pathID(c echo.Context) (int32, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 32)
	if err != nil {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "id must be an integer")
	}
	return int32(id), nil
}

// queryInt parses an optional integer query parameter.
func queryInt(c echo.Context, name string, defaultValue int) (int, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return defaultValue, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, echo.NewHTTPError(http.StatusBadRequest, name+" must be an integer")
	}
	return value, nil
}

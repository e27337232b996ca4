package v1

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
)

func createTestConversation(t *testing.T, echoServer *echo.Echo, title string) *Conversation {
	t.Helper()

	rec := doRequest(echoServer, http.MethodPost, "/api/v1/conversations", fmt.Sprintf(`{"title": %q}`, title))
	require.Equal(t, http.StatusOK, rec.Code)
	conversation := &Conversation{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), conversation))
	return conversation
}

func TestCreateMessage(t *testing.T) {
	_, echoServer := newTestService(t)
	conversation := createTestConversation(t, echoServer, "chat")

	body := fmt.Sprintf(`{"conversation_id": %d, "role": "user", "text": "hello"}`, conversation.ID)
	rec := doRequest(echoServer, http.MethodPost, "/api/v1/messages", body)
	require.Equal(t, http.StatusOK, rec.Code)

	message := &Message{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), message))
	require.Equal(t, conversation.ID, message.ConversationID)
	require.Equal(t, "user", message.Role)
	require.Equal(t, "hello", message.Text)
	require.NotEmpty(t, message.UID)
}

func TestCreateMessageMissingConversation(t *testing.T) {
	_, echoServer := newTestService(t)

	rec := doRequest(echoServer, http.MethodPost, "/api/v1/messages", `{"conversation_id": 999, "role": "user", "text": "orphan"}`)
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCreateMessageInvalidRole(t *testing.T) {
	_, echoServer := newTestService(t)
	conversation := createTestConversation(t, echoServer, "chat")

	body := fmt.Sprintf(`{"conversation_id": %d, "role": "robot", "text": "beep"}`, conversation.ID)
	rec := doRequest(echoServer, http.MethodPost, "/api/v1/messages", body)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateMessageMissingRole(t *testing.T) {
	_, echoServer := newTestService(t)
	conversation := createTestConversation(t, echoServer, "chat")

	body := fmt.Sprintf(`{"conversation_id": %d, "text": "no role"}`, conversation.ID)
	rec := doRequest(echoServer, http.MethodPost, "/api/v1/messages", body)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestListMessages(t *testing.T) {
	_, echoServer := newTestService(t)
	conversation := createTestConversation(t, echoServer, "chat")
	other := createTestConversation(t, echoServer, "other")

	for i := 0; i < 3; i++ {
		body := fmt.Sprintf(`{"conversation_id": %d, "role": "user", "text": "message %d"}`, conversation.ID, i)
		rec := doRequest(echoServer, http.MethodPost, "/api/v1/messages", body)
		require.Equal(t, http.StatusOK, rec.Code)
	}
	body := fmt.Sprintf(`{"conversation_id": %d, "role": "assistant", "text": "elsewhere"}`, other.ID)
	rec := doRequest(echoServer, http.MethodPost, "/api/v1/messages", body)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doRequest(echoServer, http.MethodGet, fmt.Sprintf("/api/v1/messages?conversation_id=%d", conversation.ID), "")
	require.Equal(t, http.StatusOK, rec.Code)

	messages := []*Message{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &messages))
	require.Len(t, messages, 3)
	// Most recently written first.
	require.Equal(t, "message 2", messages[0].Text)
	for _, message := range messages {
		require.Equal(t, conversation.ID, message.ConversationID)
	}
}

func TestListMessagesRequiresConversationID(t *testing.T) {
	_, echoServer := newTestService(t)

	rec := doRequest(echoServer, http.MethodGet, "/api/v1/messages", "")
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetMessageNotFound(t *testing.T) {
	_, echoServer := newTestService(t)

	rec := doRequest(echoServer, http.MethodGet, "/api/v1/messages/404", "")
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUpdateMessage(t *testing.T) {
	_, echoServer := newTestService(t)
	conversation := createTestConversation(t, echoServer, "chat")

	body := fmt.Sprintf(`{"conversation_id": %d, "role": "user", "text": "draft"}`, conversation.ID)
	rec := doRequest(echoServer, http.MethodPost, "/api/v1/messages", body)
	require.Equal(t, http.StatusOK, rec.Code)
	created := &Message{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), created))

	rec = doRequest(echoServer, http.MethodPatch, fmt.Sprintf("/api/v1/messages/%d", created.ID), `{"text": "final"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	updated := &Message{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), updated))
	require.Equal(t, "final", updated.Text)
	require.Equal(t, created.ID, updated.ID)
	require.Greater(t, updated.UpdatedTs, created.UpdatedTs)
}

func TestUpdateMessageNoFields(t *testing.T) {
	_, echoServer := newTestService(t)
	conversation := createTestConversation(t, echoServer, "chat")

	body := fmt.Sprintf(`{"conversation_id": %d, "role": "user", "text": "draft"}`, conversation.ID)
	rec := doRequest(echoServer, http.MethodPost, "/api/v1/messages", body)
	require.Equal(t, http.StatusOK, rec.Code)
	created := &Message{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), created))

	rec = doRequest(echoServer, http.MethodPatch, fmt.Sprintf("/api/v1/messages/%d", created.ID), `{}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDeleteMessage(t *testing.T) {
	_, echoServer := newTestService(t)
	conversation := createTestConversation(t, echoServer, "chat")

	body := fmt.Sprintf(`{"conversation_id": %d, "role": "user", "text": "bye"}`, conversation.ID)
	rec := doRequest(echoServer, http.MethodPost, "/api/v1/messages", body)
	require.Equal(t, http.StatusOK, rec.Code)
	created := &Message{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), created))

	rec = doRequest(echoServer, http.MethodDelete, fmt.Sprintf("/api/v1/messages/%d", created.ID), "")
	require.Equal(t, http.StatusOK, rec.Code)
	ack := &DeleteMessageResponse{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), ack))
	require.Equal(t, created.ID, ack.MessageID)
	require.Equal(t, "Message deleted successfully", ack.Message)

	rec = doRequest(echoServer, http.MethodGet, fmt.Sprintf("/api/v1/messages/%d", created.ID), "")
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDeleteConversationCascadesToMessages(t *testing.T) {
	_, echoServer := newTestService(t)
	conversation := createTestConversation(t, echoServer, "doomed")
	survivor := createTestConversation(t, echoServer, "survivor")

	for i := 0; i < 2; i++ {
		body := fmt.Sprintf(`{"conversation_id": %d, "role": "user", "text": "gone %d"}`, conversation.ID, i)
		rec := doRequest(echoServer, http.MethodPost, "/api/v1/messages", body)
		require.Equal(t, http.StatusOK, rec.Code)
	}
	body := fmt.Sprintf(`{"conversation_id": %d, "role": "user", "text": "kept"}`, survivor.ID)
	rec := doRequest(echoServer, http.MethodPost, "/api/v1/messages", body)
	require.Equal(t, http.StatusOK, rec.Code)
	kept := &Message{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), kept))

	rec = doRequest(echoServer, http.MethodDelete, fmt.Sprintf("/api/v1/conversations/%d", conversation.ID), "")
	require.Equal(t, http.StatusOK, rec.Code)

	// Listing under the removed conversation now reports it missing.
	rec = doRequest(echoServer, http.MethodGet, fmt.Sprintf("/api/v1/messages?conversation_id=%d", conversation.ID), "")
	require.Equal(t, http.StatusNotFound, rec.Code)

	rec = doRequest(echoServer, http.MethodGet, fmt.Sprintf("/api/v1/messages/%d", kept.ID), "")
	require.Equal(t, http.StatusOK, rec.Code)
}

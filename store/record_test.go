package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hrygo/converse/internal/errors"
)

func TestRoleValidate(t *testing.T) {
	for _, role := range []Role{RoleUser, RoleAssistant, RoleSystem} {
		assert.NoError(t, role.Validate(), "role %q should be valid", role)
	}

	for _, role := range []Role{"", "USER", "bot", "admin", "User"} {
		err := role.Validate()
		require.Error(t, err, "role %q should be rejected", role)
		assert.True(t, errors.IsCode(err, errors.ErrCodeValidation))
	}
}

func TestConversationRecordRoundTrip(t *testing.T) {
	conversation := &Conversation{
		ID:        42,
		UID:       "NxEGYa9WLcQvyQBHU4r2a",
		Title:     "Trip planning",
		CreatedTs: 1700000000000,
		UpdatedTs: 1700000001000,
	}

	got, err := ConversationFromRecord(conversation.Record())
	require.NoError(t, err)
	assert.Equal(t, conversation, got)
}

func TestMessageRecordRoundTrip(t *testing.T) {
	message := &Message{
		ID:             7,
		UID:            "c4F9hBWV3mkspRp2e7gDn",
		ConversationID: 42,
		Role:           RoleAssistant,
		Text:           "hello there",
		CreatedTs:      1700000000000,
		UpdatedTs:      1700000000000,
	}

	got, err := MessageFromRecord(message.Record())
	require.NoError(t, err)
	assert.Equal(t, message, got)

	// Empty text is legal and must survive the round trip.
	message.Text = ""
	got, err = MessageFromRecord(message.Record())
	require.NoError(t, err)
	assert.Equal(t, message, got)
}

func TestMessageRecordFromJSONNumbers(t *testing.T) {
	// JSON decoding hands back float64 for every number.
	record := Record{
		"id":              float64(7),
		"uid":             "c4F9hBWV3mkspRp2e7gDn",
		"conversation_id": float64(42),
		"role":            "user",
		"text":            "hi",
		"created_ts":      float64(1700000000000),
		"updated_ts":      float64(1700000000000),
	}

	message, err := MessageFromRecord(record)
	require.NoError(t, err)
	assert.Equal(t, int32(7), message.ID)
	assert.Equal(t, int32(42), message.ConversationID)
	assert.Equal(t, RoleUser, message.Role)
}

func TestConversationFromRecordRejectsBadFields(t *testing.T) {
	valid := Record{
		"id":         int32(1),
		"uid":        "NxEGYa9WLcQvyQBHU4r2a",
		"title":      "Trip planning",
		"created_ts": int64(1),
		"updated_ts": int64(2),
	}

	tests := []struct {
		name   string
		mutate func(Record)
	}{
		{"missing id", func(r Record) { delete(r, "id") }},
		{"string id", func(r Record) { r["id"] = "1" }},
		{"fractional id", func(r Record) { r["id"] = 1.5 }},
		{"id above int32 range", func(r Record) { r["id"] = int64(1) << 40 }},
		{"id below int32 range", func(r Record) { r["id"] = int64(-1) << 40 }},
		{"empty title", func(r Record) { r["title"] = "   " }},
		{"numeric title", func(r Record) { r["title"] = 3 }},
		{"string created_ts", func(r Record) { r["created_ts"] = "yesterday" }},
		{"missing updated_ts", func(r Record) { delete(r, "updated_ts") }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			record := Record{}
			for k, v := range valid {
				record[k] = v
			}
			tt.mutate(record)

			_, err := ConversationFromRecord(record)
			require.Error(t, err)
			assert.True(t, errors.IsCode(err, errors.ErrCodeValidation), "expected validation error, got %v", err)
		})
	}
}

func TestMessageFromRecordRejectsBadRole(t *testing.T) {
	record := Record{
		"id":              int32(7),
		"uid":             "c4F9hBWV3mkspRp2e7gDn",
		"conversation_id": int32(42),
		"role":            "moderator",
		"text":            "",
		"created_ts":      int64(1),
		"updated_ts":      int64(1),
	}

	_, err := MessageFromRecord(record)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeValidation))
}

func TestMessageValidate(t *testing.T) {
	message := &Message{
		ConversationID: 1,
		Role:           RoleUser,
		CreatedTs:      10,
		UpdatedTs:      5,
	}
	err := message.Validate()
	require.Error(t, err, "updated_ts before created_ts should be rejected")
	assert.True(t, errors.IsCode(err, errors.ErrCodeValidation))

	message.UpdatedTs = 10
	assert.NoError(t, message.Validate())

	message.ConversationID = 0
	err = message.Validate()
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeValidation))
}

package store

import (
	"math"
	"strings"

	"github.com/hrygo/converse/internal/errors"
)

// Record is the plain key-value representation of an entity, symmetric
// between serialization and reconstruction. Values round-trip through
// JSON, so integer fields accept float64 on the way back in.
type Record map[string]any

// Record returns the key-value representation of the conversation.
func (c *Conversation) Record() Record {
	return Record{
		"id":         c.ID,
		"uid":        c.UID,
		"title":      c.Title,
		"created_ts": c.CreatedTs,
		"updated_ts": c.UpdatedTs,
	}
}

// ConversationFromRecord reconstructs a conversation from its record
// representation. It fails with a validation error under the same
// conditions as direct construction.
func ConversationFromRecord(record Record) (*Conversation, error) {
	id, err := recordInt32(record, "id")
	if err != nil {
		return nil, err
	}
	uid, err := recordString(record, "uid")
	if err != nil {
		return nil, err
	}
	title, err := recordString(record, "title")
	if err != nil {
		return nil, err
	}
	createdTs, err := recordInt64(record, "created_ts")
	if err != nil {
		return nil, err
	}
	updatedTs, err := recordInt64(record, "updated_ts")
	if err != nil {
		return nil, err
	}

	conversation := &Conversation{
		ID:        id,
		UID:       uid,
		Title:     title,
		CreatedTs: createdTs,
		UpdatedTs: updatedTs,
	}
	if err := conversation.Validate(); err != nil {
		return nil, err
	}
	return conversation, nil
}

// Record returns the key-value representation of the message.
func (m *Message) Record() Record {
	return Record{
		"id":              m.ID,
		"uid":             m.UID,
		"conversation_id": m.ConversationID,
		"role":            string(m.Role),
		"text":            m.Text,
		"created_ts":      m.CreatedTs,
		"updated_ts":      m.UpdatedTs,
	}
}

// MessageFromRecord reconstructs a message from its record
// representation. It fails with a validation error under the same
// conditions as direct construction.
func MessageFromRecord(record Record) (*Message, error) {
	id, err := recordInt32(record, "id")
	if err != nil {
		return nil, err
	}
	uid, err := recordString(record, "uid")
	if err != nil {
		return nil, err
	}
	conversationID, err := recordInt32(record, "conversation_id")
	if err != nil {
		return nil, err
	}
	role, err := recordString(record, "role")
	if err != nil {
		return nil, err
	}
	// Text may be empty, only its type is checked.
	text, err := recordOptionalString(record, "text")
	if err != nil {
		return nil, err
	}
	createdTs, err := recordInt64(record, "created_ts")
	if err != nil {
		return nil, err
	}
	updatedTs, err := recordInt64(record, "updated_ts")
	if err != nil {
		return nil, err
	}

	message := &Message{
		ID:             id,
		UID:            uid,
		ConversationID: conversationID,
		Role:           Role(role),
		Text:           text,
		CreatedTs:      createdTs,
		UpdatedTs:      updatedTs,
	}
	if err := message.Validate(); err != nil {
		return nil, err
	}
	return message, nil
}

func recordInt64(record Record, key string) (int64, error) {
	value, ok := record[key]
	if !ok {
		return 0, errors.Validationf("record field %q is required", key)
	}
	switch v := value.(type) {
	case int64:
		return v, nil
	case int32:
		return int64(v), nil
	case int:
		return int64(v), nil
	case float64:
		if v != float64(int64(v)) {
			return 0, errors.Validationf("record field %q must be an integer", key)
		}
		return int64(v), nil
	default:
		return 0, errors.Validationf("record field %q must be an integer", key)
	}
}

func recordInt32(record Record, key string) (int32, error) {
	value, err := recordInt64(record, key)
	if err != nil {
		return 0, err
	}
	if value < math.MinInt32 || value > math.MaxInt32 {
		return 0, errors.Validationf("record field %q is out of range", key)
	}
	return int32(value), nil
}

func recordString(record Record, key string) (string, error) {
	value, err := recordOptionalString(record, key)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(value) == "" {
		return "", errors.Validationf("record field %q must not be empty", key)
	}
	return value, nil
}

func recordOptionalString(record Record, key string) (string, error) {
	value, ok := record[key]
	if !ok {
		return "", errors.Validationf("record field %q is required", key)
	}
	str, ok := value.(string)
	if !ok {
		return "", errors.Validationf("record field %q must be a string", key)
	}
	return str, nil
}

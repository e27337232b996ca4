package store

import (
	"github.com/hrygo/converse/internal/errors"
)

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
)

// Validate rejects any role outside the closed enumeration.
func (r Role) Validate() error {
	switch r {
	case RoleUser, RoleAssistant, RoleSystem:
		return nil
	default:
		return errors.Validationf("invalid role: %q", string(r))
	}
}

type Message struct {
	ID             int32
	UID            string
	ConversationID int32
	Role           Role
	Text           string
	CreatedTs      int64
	UpdatedTs      int64
}

type FindMessage struct {
	ID             *int32
	UID            *string
	ConversationID *int32

	// Pagination over the updated_ts-descending order.
	Limit  *int
	Offset *int
}

type UpdateMessage struct {
	ID        int32
	Text      *string
	UpdatedTs *int64
}

type DeleteMessage struct {
	ID             *int32
	ConversationID *int32
}

// Validate enforces field-level invariants independent of storage.
// Text may be empty; role and ownership may not.
func (m *Message) Validate() error {
	if err := m.Role.Validate(); err != nil {
		return err
	}
	if m.ConversationID == 0 {
		return errors.Validation("message conversation_id is required")
	}
	if m.UpdatedTs < m.CreatedTs {
		return errors.Validation("message updated_ts must not precede created_ts")
	}
	return nil
}

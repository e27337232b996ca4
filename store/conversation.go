package store

import (
	"strings"

	"github.com/hrygo/converse/internal/errors"
)

// DefaultConversationTitle is assigned when a conversation is created
// without a title.
const DefaultConversationTitle = "New Conversation"

type Conversation struct {
	ID        int32
	UID       string
	Title     string
	CreatedTs int64
	UpdatedTs int64
}

type FindConversation struct {
	ID  *int32
	UID *string

	// Pagination over the updated_ts-descending order.
	Limit  *int
	Offset *int
}

type UpdateConversation struct {
	ID        int32
	Title     *string
	UpdatedTs *int64
}

type DeleteConversation struct {
	ID int32
}

// Validate enforces field-level invariants independent of storage.
func (c *Conversation) Validate() error {
	if strings.TrimSpace(c.Title) == "" {
		return errors.Validation("conversation title must not be empty")
	}
	if c.UpdatedTs < c.CreatedTs {
		return errors.Validation("conversation updated_ts must not precede created_ts")
	}
	return nil
}

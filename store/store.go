package store

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/lithammer/shortuuid/v4"

	"github.com/hrygo/converse/internal/errors"
	"github.com/hrygo/converse/internal/profile"
)

// Store provides database access to all raw objects. It is the single
// point enforcing the conversation-existence precondition for messages
// and the pagination contract for list operations.
type Store struct {
	profile *profile.Profile
	driver  Driver

	// Timestamps order list results. Guard them for strict
	// monotonicity within this process so rapid successive writes
	// stay ordered even on a coarse clock.
	clockMu sync.Mutex
	lastTs  int64
}

// New creates a new instance of Store.
func New(driver Driver, profile *profile.Profile) *Store {
	return &Store{
		driver:  driver,
		profile: profile,
	}
}

func (s *Store) GetDriver() Driver {
	return s.driver
}

func (s *Store) Close() error {
	return s.driver.Close()
}

func (s *Store) now() int64 {
	s.clockMu.Lock()
	defer s.clockMu.Unlock()
	ts := time.Now().UnixMilli()
	if ts <= s.lastTs {
		ts = s.lastTs + 1
	}
	s.lastTs = ts
	return ts
}

// CreateConversation inserts a new conversation with a server-assigned
// id, uid and timestamps. An empty title defaults to
// DefaultConversationTitle.
func (s *Store) CreateConversation(ctx context.Context, create *Conversation) (*Conversation, error) {
	create.Title = strings.TrimSpace(create.Title)
	if create.Title == "" {
		create.Title = DefaultConversationTitle
	}
	create.UID = shortuuid.New()
	now := s.now()
	create.CreatedTs = now
	create.UpdatedTs = now

	if err := create.Validate(); err != nil {
		return nil, err
	}
	conversation, err := s.driver.CreateConversation(ctx, create)
	if err != nil {
		return nil, errors.Persistence("create conversation", err)
	}
	return conversation, nil
}

// GetConversation performs a point lookup by id.
func (s *Store) GetConversation(ctx context.Context, id int32) (*Conversation, error) {
	conversations, err := s.driver.ListConversations(ctx, &FindConversation{ID: &id})
	if err != nil {
		return nil, errors.Persistence("get conversation", err).WithContext("id", id)
	}
	if len(conversations) == 0 {
		return nil, errors.NotFound("conversation", id)
	}
	return conversations[0], nil
}

// ListConversations returns conversations ordered by updated_ts
// descending, ties broken by insertion order. Skip and limit apply to
// the ordered result.
func (s *Store) ListConversations(ctx context.Context, skip, limit int) ([]*Conversation, error) {
	if err := validatePagination(skip, limit); err != nil {
		return nil, err
	}
	conversations, err := s.driver.ListConversations(ctx, &FindConversation{
		Limit:  &limit,
		Offset: &skip,
	})
	if err != nil {
		return nil, errors.Persistence("list conversations", err)
	}
	return conversations, nil
}

// UpdateConversation applies the supplied mutable fields and refreshes
// updated_ts. Title is the only recognized mutable field.
func (s *Store) UpdateConversation(ctx context.Context, update *UpdateConversation) (*Conversation, error) {
	if update.Title == nil {
		return nil, errors.InvalidArgument("no fields to update").WithContext("kind", "conversation").WithContext("id", update.ID)
	}
	title := strings.TrimSpace(*update.Title)
	if title == "" {
		return nil, errors.Validation("conversation title must not be empty")
	}
	update.Title = &title

	if _, err := s.GetConversation(ctx, update.ID); err != nil {
		return nil, err
	}

	now := s.now()
	update.UpdatedTs = &now
	conversation, err := s.driver.UpdateConversation(ctx, update)
	if err != nil {
		return nil, errors.Persistence("update conversation", err).WithContext("id", update.ID)
	}
	return conversation, nil
}

// DeleteConversation deletes the conversation and all of its messages
// atomically in the same transaction.
func (s *Store) DeleteConversation(ctx context.Context, id int32) error {
	if _, err := s.GetConversation(ctx, id); err != nil {
		return err
	}
	if err := s.driver.DeleteConversation(ctx, &DeleteConversation{ID: id}); err != nil {
		return errors.Persistence("delete conversation", err).WithContext("id", id)
	}
	return nil
}

// CreateMessage inserts a new message under an existing conversation.
// It fails with a not-found error, performing no write, when the
// conversation does not exist.
func (s *Store) CreateMessage(ctx context.Context, create *Message) (*Message, error) {
	create.UID = shortuuid.New()
	now := s.now()
	create.CreatedTs = now
	create.UpdatedTs = now

	if err := create.Validate(); err != nil {
		return nil, err
	}
	if _, err := s.GetConversation(ctx, create.ConversationID); err != nil {
		return nil, err
	}
	message, err := s.driver.CreateMessage(ctx, create)
	if err != nil {
		return nil, errors.Persistence("create message", err).WithContext("conversation_id", create.ConversationID)
	}
	return message, nil
}

// GetMessage performs a point lookup by id.
func (s *Store) GetMessage(ctx context.Context, id int32) (*Message, error) {
	messages, err := s.driver.ListMessages(ctx, &FindMessage{ID: &id})
	if err != nil {
		return nil, errors.Persistence("get message", err).WithContext("id", id)
	}
	if len(messages) == 0 {
		return nil, errors.NotFound("message", id)
	}
	return messages[0], nil
}

// ListMessages returns the conversation's messages ordered by
// updated_ts descending, ties broken by insertion order.
func (s *Store) ListMessages(ctx context.Context, conversationID int32, skip, limit int) ([]*Message, error) {
	if err := validatePagination(skip, limit); err != nil {
		return nil, err
	}
	if _, err := s.GetConversation(ctx, conversationID); err != nil {
		return nil, err
	}
	messages, err := s.driver.ListMessages(ctx, &FindMessage{
		ConversationID: &conversationID,
		Limit:          &limit,
		Offset:         &skip,
	})
	if err != nil {
		return nil, errors.Persistence("list messages", err).WithContext("conversation_id", conversationID)
	}
	return messages, nil
}

// UpdateMessage applies the supplied mutable fields and refreshes
// updated_ts. Text is the only recognized mutable field.
func (s *Store) UpdateMessage(ctx context.Context, update *UpdateMessage) (*Message, error) {
	if update.Text == nil {
		return nil, errors.InvalidArgument("no fields to update").WithContext("kind", "message").WithContext("id", update.ID)
	}
	if _, err := s.GetMessage(ctx, update.ID); err != nil {
		return nil, err
	}

	now := s.now()
	update.UpdatedTs = &now
	message, err := s.driver.UpdateMessage(ctx, update)
	if err != nil {
		return nil, errors.Persistence("update message", err).WithContext("id", update.ID)
	}
	return message, nil
}

// DeleteMessage deletes a single message.
func (s *Store) DeleteMessage(ctx context.Context, id int32) error {
	if _, err := s.GetMessage(ctx, id); err != nil {
		return err
	}
	if err := s.driver.DeleteMessage(ctx, &DeleteMessage{ID: &id}); err != nil {
		return errors.Persistence("delete message", err).WithContext("id", id)
	}
	return nil
}

func validatePagination(skip, limit int) error {
	if skip < 0 || limit < 0 {
		return errors.InvalidArgument("skip and limit must not be negative")
	}
	return nil
}

package session

import (
	"time"

	"github.com/google/uuid"

	"github.com/k4doshh/bau-tribo/pkg/types"
)

// State is the lifecycle position of a Session.
type State string

// Session states. A session advances through the selection states and ends
// in exactly one of the terminal states.
const (
	StateCategorySelect State = "category_select"
	StateItemSelect     State = "item_select"
	StateAwaitingText   State = "awaiting_text"
	StateCommitted      State = "committed"
	StateCancelled      State = "cancelled"
	StateTimedOut       State = "timed_out"
)

// promptKind identifies what a session in StateAwaitingText expects from the
// next free-text message.
type promptKind int

const (
	promptNone promptKind = iota
	promptQuantity
	promptCreateCategory
	promptDeleteCategory
	promptManageCategory
	promptAddItem
	promptRemoveItem
)

// User identifies the person driving a session.
type User struct {
	ID   int64
	Name string
}

// Session is the ephemeral per-user state of one multi-step interaction.
// It holds only names into the store and re-validates their existence at
// every step; the store may have been altered by another session meanwhile.
type Session struct {
	ID       string
	User     User
	ChatID   int64
	Action   types.Action
	Category string
	Item     string
	State    State

	prompt   promptKind
	deadline *time.Timer
}

// newSessionID generates a UUID v7 session ID, falling back to v4 if v7
// generation fails.
func newSessionID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.New().String()
	}
	return id.String()
}

// stopDeadline cancels the pending deadline timer, if any.
func (s *Session) stopDeadline() {
	if s.deadline != nil {
		s.deadline.Stop()
		s.deadline = nil
	}
}

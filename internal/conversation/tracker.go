package conversation

import (
	"strings"
	"sync"
)

// Action is the kind of confirmation a session is waiting for.
type Action int

const (
	None Action = iota
	AwaitingBrainstormConfirm
	AwaitingDeleteConfirm
)

// Pending is the single outstanding confirmation for a session. At most one
// pending action exists per chat at a time.
type Pending struct {
	Action Action
	IdeaID int64
}

// Tracker holds the per-chat conversation state. State is ephemeral and
// session-scoped; distinct chats never share a flag.
type Tracker struct {
	mu       sync.Mutex
	sessions map[int64]Pending
}

func NewTracker() *Tracker {
	return &Tracker{sessions: make(map[int64]Pending)}
}

// Get returns the pending action for a chat, or a zero Pending when idle.
func (t *Tracker) Get(chatID int64) Pending {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.sessions[chatID]
}

func (t *Tracker) SetAwaitingBrainstorm(chatID, ideaID int64) {
	t.set(chatID, Pending{Action: AwaitingBrainstormConfirm, IdeaID: ideaID})
}

func (t *Tracker) SetAwaitingDelete(chatID, ideaID int64) {
	t.set(chatID, Pending{Action: AwaitingDeleteConfirm, IdeaID: ideaID})
}

func (t *Tracker) set(chatID int64, p Pending) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.sessions[chatID] = p
}

// Clear returns the chat to the idle state.
func (t *Tracker) Clear(chatID int64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.sessions, chatID)
}

// IsAffirmative reports whether text is a recognized yes reply.
func IsAffirmative(text string) bool {
	switch strings.ToLower(strings.TrimSpace(text)) {
	case "sim", "s", "yes", "y":
		return true
	}
	return false
}

// IsNegative reports whether text is a recognized no reply.
func IsNegative(text string) bool {
	switch strings.ToLower(strings.TrimSpace(text)) {
	case "não", "nao", "n", "no":
		return true
	}
	return false
}

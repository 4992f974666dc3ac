package conversation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTrackerStartsIdle(t *testing.T) {
	tracker := NewTracker()

	pending := tracker.Get(42)
	assert.Equal(t, None, pending.Action)
}

func TestTrackerSetAndClear(t *testing.T) {
	tracker := NewTracker()

	tracker.SetAwaitingBrainstorm(42, 7)
	pending := tracker.Get(42)
	assert.Equal(t, AwaitingBrainstormConfirm, pending.Action)
	assert.Equal(t, int64(7), pending.IdeaID)

	tracker.Clear(42)
	assert.Equal(t, None, tracker.Get(42).Action)
}

func TestTrackerOnePendingActionPerChat(t *testing.T) {
	tracker := NewTracker()

	tracker.SetAwaitingBrainstorm(42, 7)
	tracker.SetAwaitingDelete(42, 9)

	// The newer action replaces the older one, never accumulates
	pending := tracker.Get(42)
	assert.Equal(t, AwaitingDeleteConfirm, pending.Action)
	assert.Equal(t, int64(9), pending.IdeaID)
}

func TestTrackerSessionsAreIsolated(t *testing.T) {
	tracker := NewTracker()

	tracker.SetAwaitingBrainstorm(42, 7)

	assert.Equal(t, None, tracker.Get(43).Action)
	tracker.Clear(43)
	assert.Equal(t, AwaitingBrainstormConfirm, tracker.Get(42).Action)
}

func TestIsAffirmative(t *testing.T) {
	for _, reply := range []string{"sim", "SIM", " Sim ", "s", "yes", "y"} {
		assert.True(t, IsAffirmative(reply), "expected affirmative: %q", reply)
	}
	for _, reply := range []string{"não", "talvez", "", "sim claro"} {
		assert.False(t, IsAffirmative(reply), "expected not affirmative: %q", reply)
	}
}

func TestIsNegative(t *testing.T) {
	for _, reply := range []string{"não", "nao", "NÃO", "n", "no"} {
		assert.True(t, IsNegative(reply), "expected negative: %q", reply)
	}
	for _, reply := range []string{"sim", "nunca", ""} {
		assert.False(t, IsNegative(reply), "expected not negative: %q", reply)
	}
}

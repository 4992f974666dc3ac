package auth

import "log"

// Gate decides whether a chat may use the bot. A misconfigured (empty)
// allow-list denies everyone; the gate never fails open.
type Gate struct {
	allowed    map[int64]bool
	superusers map[int64]bool
}

func NewGate(allowedIDs, superuserIDs []int64) *Gate {
	gate := &Gate{
		allowed:    make(map[int64]bool),
		superusers: make(map[int64]bool),
	}
	for _, id := range allowedIDs {
		gate.allowed[id] = true
	}
	for _, id := range superuserIDs {
		gate.superusers[id] = true
		// superusers are implicitly allowed
		gate.allowed[id] = true
	}
	return gate
}

// IsAuthorized reports whether the chat is on the allow-list.
func (g *Gate) IsAuthorized(chatID int64) bool {
	if g.allowed[chatID] {
		return true
	}
	log.Printf("⚠️ Unauthorized access attempt from chat %d", chatID)
	return false
}

// IsSuperuser reports whether the chat may bypass per-owner filtering.
func (g *Gate) IsSuperuser(chatID int64) bool {
	return g.superusers[chatID]
}

package telegram

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitMessageShort(t *testing.T) {
	parts := splitMessage("uma resposta curta", maxMessageLen)
	assert.Equal(t, []string{"uma resposta curta"}, parts)
}

func TestSplitMessageExactLimit(t *testing.T) {
	text := strings.Repeat("a", maxMessageLen)
	parts := splitMessage(text, maxMessageLen)
	assert.Len(t, parts, 1)
}

func TestSplitMessageLong(t *testing.T) {
	text := strings.Repeat("b", 9000)
	parts := splitMessage(text, maxMessageLen)

	assert.Greater(t, len(parts), 1)
	for i, part := range parts {
		assert.LessOrEqual(t, len([]rune(part)), maxMessageLen, "part %d too long", i)
		if i > 0 {
			assert.True(t, strings.HasPrefix(part, "(parte "), "part %d missing continuation label", i)
		}
	}

	// No content lost: stripping the labels reassembles the original
	var sb strings.Builder
	for i, part := range parts {
		if i > 0 {
			_, rest, found := strings.Cut(part, "\n")
			assert.True(t, found)
			part = rest
		}
		sb.WriteString(part)
	}
	assert.Equal(t, text, sb.String())
}

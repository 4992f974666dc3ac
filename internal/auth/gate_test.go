package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEmptyAllowListDeniesEveryone(t *testing.T) {
	gate := NewGate(nil, nil)

	assert.False(t, gate.IsAuthorized(1))
	assert.False(t, gate.IsAuthorized(0))
	assert.False(t, gate.IsSuperuser(1))
}

func TestAllowedChat(t *testing.T) {
	gate := NewGate([]int64{10, 20}, nil)

	assert.True(t, gate.IsAuthorized(10))
	assert.True(t, gate.IsAuthorized(20))
	assert.False(t, gate.IsAuthorized(30))
	assert.False(t, gate.IsSuperuser(10))
}

func TestSuperuserIsImplicitlyAllowed(t *testing.T) {
	gate := NewGate([]int64{10}, []int64{99})

	assert.True(t, gate.IsAuthorized(99))
	assert.True(t, gate.IsSuperuser(99))
	assert.False(t, gate.IsSuperuser(10))
}

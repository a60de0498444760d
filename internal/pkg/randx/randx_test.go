package randx

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSessionID(t *testing.T) {
	a, b := SessionID(), SessionID()

	assert.NotEqual(t, a, b)
	assert.True(t, IsSessionID(a))
	assert.True(t, IsSessionID(b))
}

func TestIsSessionIDRejectsOtherValues(t *testing.T) {
	assert.False(t, IsSessionID(""))
	assert.False(t, IsSessionID("sess_"))
	assert.False(t, IsSessionID("user_0123456789abcdef0123456789abcdef"))
	assert.False(t, IsSessionID("sess_zzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzz"))
}

package chat

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ticketchat/internal/app/user"
	"ticketchat/internal/configs"
)

func TestRegistryReplaceAndStaleRemove(t *testing.T) {
	h := newTestHub(nil, configs.ReplaceSilently)
	r := NewRegistry()
	c1, c2 := connect(h), connect(h)

	assert.Nil(t, r.Register("u", c1))
	assert.Equal(t, c1, r.Register("u", c2))

	got, ok := r.Lookup("u")
	require.True(t, ok)
	assert.Same(t, c2, got)

	assert.False(t, r.Remove("u", c1), "stale connection must not unregister its successor")
	got, ok = r.Lookup("u")
	require.True(t, ok)
	assert.Same(t, c2, got)

	assert.True(t, r.Remove("u", c2))
	_, ok = r.Lookup("u")
	assert.False(t, ok)
	assert.Equal(t, 0, r.Len())
}

func TestRegistryRegisterSameClientTwice(t *testing.T) {
	h := newTestHub(nil, configs.ReplaceSilently)
	r := NewRegistry()
	c := connect(h)

	assert.Nil(t, r.Register("u", c))
	assert.Nil(t, r.Register("u", c))

	id, ok := c.UserID()
	assert.True(t, ok)
	assert.Equal(t, user.ID("u"), id)
}

func TestRegistrySnapshots(t *testing.T) {
	h := newTestHub(nil, configs.ReplaceSilently)
	r := NewRegistry()
	c1, c2 := connect(h), connect(h)

	r.Register("b", c1)
	r.Register("a", c2)

	assert.Equal(t, []user.ID{"a", "b"}, r.Identities())
	got, ok := r.Lookup("b")
	require.True(t, ok)
	assert.Same(t, c1, got)
	assert.Equal(t, 2, r.Len())
}

func TestRegistryConcurrentUse(t *testing.T) {
	h := newTestHub(nil, configs.ReplaceSilently)
	r := NewRegistry()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c := connect(h)
			r.Register("shared", c)
			r.Lookup("shared")
			r.Remove("shared", c)
		}()
	}
	wg.Wait()

	assert.LessOrEqual(t, r.Len(), 1)
}

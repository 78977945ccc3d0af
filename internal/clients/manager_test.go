package clients

import (
	"sync/atomic"
	"testing"

	"phonemouse/internal/session"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubConn struct {
	id     string
	closed atomic.Int32
}

func (c *stubConn) ID() string { return c.id }

func (c *stubConn) Close() error {
	c.closed.Add(1)
	return nil
}

func TestRemoveForgetsPairing(t *testing.T) {
	reg := session.NewRegistry("8900")
	m := NewManager(reg)
	c := &stubConn{id: "c1"}

	m.Add(c)
	require.True(t, reg.Pair("c1", "8900"))
	assert.Equal(t, 1, m.Len())

	m.Remove(c)
	assert.Zero(t, m.Len())
	assert.False(t, reg.IsAuthorized("c1"))
}

func TestRemoveIgnoresStaleConn(t *testing.T) {
	reg := session.NewRegistry("8900")
	m := NewManager(reg)
	old := &stubConn{id: "same"}
	cur := &stubConn{id: "same"}

	m.Add(old)
	m.Add(cur)
	require.True(t, reg.Pair("same", "8900"))

	m.Remove(old)
	assert.Equal(t, 1, m.Len())
	assert.True(t, reg.IsAuthorized("same"))
}

func TestCloseAll(t *testing.T) {
	m := NewManager(session.NewRegistry("8900"))
	a, b := &stubConn{id: "a"}, &stubConn{id: "b"}
	m.Add(a)
	m.Add(b)

	m.CloseAll()
	assert.EqualValues(t, 1, a.closed.Load())
	assert.EqualValues(t, 1, b.closed.Load())

	seen := map[string]bool{}
	m.ForEach(func(c Conn) { seen[c.ID()] = true })
	assert.Equal(t, map[string]bool{"a": true, "b": true}, seen)
}

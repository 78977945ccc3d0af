package session

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPair(t *testing.T) {
	tests := []struct {
		name     string
		secret   string
		supplied string
		want     bool
	}{
		{name: "matching pin accepted", secret: "8900", supplied: "8900", want: true},
		{name: "wrong pin denied", secret: "8900", supplied: "1234", want: false},
		{name: "empty pin denied", secret: "8900", supplied: "", want: false},
		{name: "prefix denied", secret: "8900", supplied: "890", want: false},
		{name: "empty secret never pairs", secret: "", supplied: "", want: false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			r := NewRegistry(tc.secret)
			assert.Equal(t, tc.want, r.Pair("c1", tc.supplied))
			assert.Equal(t, tc.want, r.IsAuthorized("c1"))
		})
	}
}

func TestPairIsIdempotent(t *testing.T) {
	r := NewRegistry("8900")
	require.True(t, r.Pair("c1", "8900"))
	require.True(t, r.Pair("c1", "8900"))
	assert.True(t, r.IsAuthorized("c1"))
	assert.Equal(t, 1, r.Len())
}

func TestWrongPinDoesNotTouchOthers(t *testing.T) {
	r := NewRegistry("8900")
	require.True(t, r.Pair("c1", "8900"))

	assert.False(t, r.Pair("c2", "0000"))
	assert.False(t, r.Pair("c1", "0000"))

	assert.True(t, r.IsAuthorized("c1"), "failed re-pair must not revoke")
	assert.False(t, r.IsAuthorized("c2"))
	assert.Equal(t, 1, r.Len())
}

func TestForget(t *testing.T) {
	r := NewRegistry("8900")
	require.True(t, r.Pair("c1", "8900"))
	r.Forget("c1")
	assert.False(t, r.IsAuthorized("c1"))
	assert.Zero(t, r.Len())

	r.Forget("never-seen")
	assert.Zero(t, r.Len())
}

func TestConcurrentAccess(t *testing.T) {
	r := NewRegistry("8900")
	const n = 64

	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		good := fmt.Sprintf("good-%d", i)
		bad := fmt.Sprintf("bad-%d", i)
		wg.Add(3)
		go func() {
			defer wg.Done()
			r.Pair(good, "8900")
		}()
		go func() {
			defer wg.Done()
			r.Pair(bad, "nope")
			r.IsAuthorized(bad)
		}()
		go func() {
			defer wg.Done()
			r.Forget(bad)
		}()
	}
	wg.Wait()

	for i := 0; i < n; i++ {
		assert.True(t, r.IsAuthorized(fmt.Sprintf("good-%d", i)))
		assert.False(t, r.IsAuthorized(fmt.Sprintf("bad-%d", i)))
	}
	assert.Equal(t, n, r.Len())
}

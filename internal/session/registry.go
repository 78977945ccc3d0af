// Package session tracks which connections have paired with the shared PIN.
package session

import (
	"crypto/subtle"
	"sync"
)

// Registry is the set of authorized connection ids. It is safe for
// concurrent use. An id enters the set only through a successful Pair on
// that id and leaves it only through Forget.
type Registry struct {
	secret string

	mu         sync.RWMutex
	authorized map[string]struct{}
}

func NewRegistry(secret string) *Registry {
	return &Registry{secret: secret, authorized: make(map[string]struct{})}
}

// Pair authorizes id when supplied equals the configured secret. A wrong
// secret leaves the set unchanged. Pairing an already authorized id again
// is harmless.
func (r *Registry) Pair(id, supplied string) bool {
	if r.secret == "" || subtle.ConstantTimeCompare([]byte(r.secret), []byte(supplied)) != 1 {
		return false
	}
	r.mu.Lock()
	r.authorized[id] = struct{}{}
	r.mu.Unlock()
	return true
}

func (r *Registry) IsAuthorized(id string) bool {
	r.mu.RLock()
	_, ok := r.authorized[id]
	r.mu.RUnlock()
	return ok
}

// Forget drops id. The transport calls it when the connection closes.
func (r *Registry) Forget(id string) {
	r.mu.Lock()
	delete(r.authorized, id)
	r.mu.Unlock()
}

// Len returns the number of authorized connections.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.authorized)
}

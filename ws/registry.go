package ws

import (
	"sync"
	"time"

	"cobfacil_backend/internal/logger"
)

// entry pairs a client with its bind time.
type entry struct {
	client      *Client
	connectedAt time.Time
}

// Registry maps a user id to at most one live connection. Binding a second
// connection for the same user silently supersedes the first; the old socket
// is not closed here — it unbinds itself on its own close/error event.
//
// The registry is an injectable object, not a package global, so tests can
// run isolated instances. Operations are plain map mutations under a mutex
// and never block.
type Registry struct {
	mu      sync.RWMutex
	clients map[string]entry
}

func NewRegistry() *Registry {
	return &Registry{
		clients: make(map[string]entry),
	}
}

// Bind registers the live connection for a user. Last bind wins.
func (r *Registry) Bind(userID string, client *Client) {
	r.mu.Lock()
	prev, existed := r.clients[userID]
	r.clients[userID] = entry{client: client, connectedAt: time.Now()}
	r.mu.Unlock()

	if existed && prev.client != client {
		logger.Debug("connection superseded", "user_id", userID)
	} else {
		logger.Debug("connection bound", "user_id", userID)
	}
}

// Unbind removes the user's entry. Safe to call when absent.
func (r *Registry) Unbind(userID string) {
	r.mu.Lock()
	delete(r.clients, userID)
	r.mu.Unlock()
}

// UnbindClient removes the entry only while it still points at the given
// client. A superseded socket closing late must not evict its replacement.
func (r *Registry) UnbindClient(userID string, client *Client) {
	r.mu.Lock()
	if e, ok := r.clients[userID]; ok && e.client == client {
		delete(r.clients, userID)
	}
	r.mu.Unlock()
}

// Get returns the current live connection for a user, or nil.
func (r *Registry) Get(userID string) *Client {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if e, ok := r.clients[userID]; ok {
		return e.client
	}
	return nil
}

// Push queues a payload for the user's live connection. Returns false when
// the user is offline or the connection cannot accept more frames. Never
// blocks; this is the best-effort half of the persist-then-push contract.
func (r *Registry) Push(userID string, payload any) bool {
	client := r.Get(userID)
	if client == nil {
		return false
	}
	return client.trySend(payload)
}

// Count returns the number of bound connections.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.clients)
}

// IsConnected reports whether a user has a bound connection.
func (r *Registry) IsConnected(userID string) bool {
	return r.Get(userID) != nil
}

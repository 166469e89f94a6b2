package server

import (
	"fmt"
	"sync"

	"github.com/ironsheep/accent-map-mcp/internal/capture"
	"github.com/ironsheep/accent-map-mcp/internal/geometry"
)

// capacityNotice is reported once per call that hit the shape limit.
const capacityNotice = "maximum number of areas reached"

// entry is a registered session with the notices raised since the last call.
type entry struct {
	mu      sync.Mutex
	session *capture.Session
	notices []string
}

// Registry owns the live capture sessions. Each session is used by one call
// at a time.
type Registry struct {
	mu      sync.Mutex
	entries map[string]*entry
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{entries: make(map[string]*entry)}
}

// Create starts a session on a canvas of the given view size.
func (r *Registry) Create(view geometry.Size, opts capture.Options) (*capture.Session, error) {
	e := &entry{}
	opts.OnCapacityReached = func(*capture.Session) {
		e.notices = append(e.notices, capacityNotice)
	}
	sess, err := capture.NewSession(view, opts)
	if err != nil {
		return nil, err
	}
	e.session = sess

	r.mu.Lock()
	r.entries[sess.ID()] = e
	r.mu.Unlock()
	return sess, nil
}

// With runs fn on the session with the given ID and returns the notices it
// raised.
func (r *Registry) With(id string, fn func(*capture.Session) (interface{}, error)) (interface{}, []string, error) {
	r.mu.Lock()
	e, ok := r.entries[id]
	r.mu.Unlock()
	if !ok {
		return nil, nil, fmt.Errorf("unknown session: %s", id)
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	e.notices = nil
	result, err := fn(e.session)
	return result, e.notices, err
}

// Close removes a session. It reports whether the session existed.
func (r *Registry) Close(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.entries[id]
	delete(r.entries, id)
	return ok
}

// Len returns the number of live sessions.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}

package device

import (
	"fmt"
	"sync"

	"github.com/use-agent/printprobe/models"
)

// Registry holds the configured sessions in configuration order.
// It is safe for concurrent use.
type Registry struct {
	mu        sync.RWMutex
	sessions  map[string]*Session
	order     []string
	observers []Observer
}

func NewRegistry() *Registry {
	return &Registry{sessions: make(map[string]*Session)}
}

// Add registers s and attaches the registry's observers to it.
func (r *Registry) Add(s *Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.sessions[s.ID()]; ok {
		return fmt.Errorf("device %q already registered", s.ID())
	}
	r.sessions[s.ID()] = s
	r.order = append(r.order, s.ID())
	for _, o := range r.observers {
		s.Observe(o)
	}
	return nil
}

// Observe attaches o to every current and future session.
func (r *Registry) Observe(o Observer) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.observers = append(r.observers, o)
	for _, s := range r.sessions {
		s.Observe(o)
	}
}

func (r *Registry) Get(id string) (*Session, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.sessions[id]
	return s, ok
}

// List returns the sessions in the order they were added.
func (r *Registry) List() []*Session {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*Session, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.sessions[id])
	}
	return out
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.order)
}

// Stats counts configured and currently available devices.
func (r *Registry) Stats() models.DeviceStats {
	var st models.DeviceStats
	for _, s := range r.List() {
		st.Total++
		if s.Available() {
			st.Available++
		}
	}
	return st
}

package stream

import (
	"context"
	"errors"
	"sync"

	"github.com/rs/zerolog/log"
)

// ErrDuplicateSession marks an attempt to open a session whose id is
// already in the open set. Dedup is desired behavior, not a failure: the
// attempt is logged and dropped, the existing session is untouched.
var ErrDuplicateSession = errors.New("session already open")

// Registry is the process-wide table of live stream sessions. It guards
// the open set and the pending-receive table; each session id has at most
// one in-flight receive at any instant, recorded here so Shutdown can
// cancel it.
type Registry struct {
	mu      sync.Mutex
	open    map[string]struct{}
	pending map[string]func()
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		open:    make(map[string]struct{}),
		pending: make(map[string]func()),
	}
}

// Start spawns the session's run loop unless its id is already open, in
// which case the start is an idempotent no-op.
func (r *Registry) Start(ctx context.Context, s *Session) {
	if r.IsOpen(s.ID()) {
		log.Warn().Str("session", s.ID()).Msg("session already open, start ignored")
		return
	}
	go func() {
		err := s.run(ctx, r)
		switch {
		case err == nil:
		case errors.Is(err, ErrDuplicateSession):
			log.Warn().Str("session", s.ID()).Msg("duplicate session discarded")
		default:
			log.Error().Err(err).Str("session", s.ID()).Msg("session terminated")
		}
	}()
}

// Shutdown cancels every pending receive and empties the open set so each
// loop observes closure on its next check. Best-effort: it does not wait
// for the loops to unwind.
func (r *Registry) Shutdown() {
	r.mu.Lock()
	cancels := r.pending
	n := len(r.open)
	r.pending = make(map[string]func())
	r.open = make(map[string]struct{})
	r.mu.Unlock()

	for id, cancel := range cancels {
		log.Debug().Str("session", id).Msg("cancelling pending receive")
		cancel()
	}
	log.Info().Int("sessions", n).Msg("all stream sessions closed")
}

// IsOpen reports whether the session id is in the open set. Session loops
// poll this as their run condition.
func (r *Registry) IsOpen(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.open[id]
	return ok
}

// register adds the id to the open set, reporting false if it was already
// present.
func (r *Registry) register(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.open[id]; ok {
		return false
	}
	r.open[id] = struct{}{}
	return true
}

// deregister removes the id and any pending receive record.
func (r *Registry) deregister(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.open, id)
	delete(r.pending, id)
}

// armPending records the cancel for the receive the session is about to
// issue. It refuses when the id has already left the open set, so a
// shutdown racing the loop's re-arm cannot leave a receive it never saw
// blocked until the next frame.
func (r *Registry) armPending(id string, cancel func()) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.open[id]; !ok {
		return false
	}
	r.pending[id] = cancel
	return true
}

// clearPending drops the record once the receive completes.
func (r *Registry) clearPending(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.pending, id)
}

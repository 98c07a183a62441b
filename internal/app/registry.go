package app

import (
	"context"
	"errors"
	"sync"

	"github.com/Harshita-Rupani29/MultiModal-Code-Debug-Assistant/internal/core"
	"github.com/Harshita-Rupani29/MultiModal-Code-Debug-Assistant/internal/domain"
	"github.com/rs/zerolog/log"
)

var (
	ErrAlreadyRegistered = errors.New("connection already registered")
	ErrNotRegistered     = errors.New("connection not registered")
)

// Entry is the per-connection record. Identity and Conn are fixed at
// Register; Room is the only field that changes afterwards.
type Entry struct {
	Identity domain.Identity
	Room     domain.SessionID
	Conn     core.SignalConnection

	cancel context.CancelFunc
}

// Registry is pure bookkeeping: it never broadcasts and never authorizes.
type Registry struct {
	mu    sync.RWMutex
	conns map[core.ConnID]*Entry
}

func NewRegistry() *Registry {
	return &Registry{
		conns: make(map[core.ConnID]*Entry),
	}
}

func (r *Registry) Register(id core.ConnID, identity domain.Identity, conn core.SignalConnection, cancel context.CancelFunc) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.conns[id]; ok {
		return ErrAlreadyRegistered
	}
	r.conns[id] = &Entry{Identity: identity, Conn: conn, cancel: cancel}
	log.Info().
		Str("module", "app.registry").
		Str("conn", string(id)).
		Bool("authenticated", identity.Authenticated).
		Str("user", string(identity.UserID)).
		Msg("registered connection")
	return nil
}

// Lookup returns a copy of the record.
func (r *Registry) Lookup(id core.ConnID) (Entry, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.conns[id]
	if !ok {
		return Entry{}, false
	}
	return *e, true
}

// SetRoom overwrites the membership field; an empty sid means no room.
func (r *Registry) SetRoom(id core.ConnID, sid domain.SessionID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.conns[id]
	if !ok {
		return ErrNotRegistered
	}
	e.Room = sid
	log.Debug().Str("module", "app.registry").Str("conn", string(id)).Str("room", string(sid)).Msg("updated room")
	return nil
}

func (r *Registry) RoomOf(id core.ConnID) (domain.SessionID, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.conns[id]
	if !ok || e.Room == "" {
		return "", false
	}
	return e.Room, true
}

// Unregister removes the record and returns it as it was at removal time.
// A second call for the same id reports false.
func (r *Registry) Unregister(id core.ConnID) (Entry, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.conns[id]
	if !ok {
		return Entry{}, false
	}
	delete(r.conns, id)
	log.Info().Str("module", "app.registry").Str("conn", string(id)).Str("last_room", string(e.Room)).Msg("unregistered connection")
	return *e, true
}

// Cancel stops the connection's pumps; its disconnect path does the cleanup.
func (r *Registry) Cancel(id core.ConnID) bool {
	r.mu.RLock()
	e, ok := r.conns[id]
	r.mu.RUnlock()
	if !ok {
		return false
	}
	if e.cancel != nil {
		e.cancel()
	}
	log.Info().Str("module", "app.registry").Str("conn", string(id)).Msg("canceled connection")
	return true
}

func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.conns)
}

// InRoom lists the connections whose recorded room is sid.
func (r *Registry) InRoom(sid domain.SessionID) []core.ConnID {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]core.ConnID, 0)
	for id, e := range r.conns {
		if e.Room == sid {
			out = append(out, id)
		}
	}
	return out
}

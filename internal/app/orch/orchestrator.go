// Package orch is the protocol-facing event dispatcher. It validates inbound
// events against connection state and drives the registry and the rooms.
package orch

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/Harshita-Rupani29/MultiModal-Code-Debug-Assistant/internal/app"
	"github.com/Harshita-Rupani29/MultiModal-Code-Debug-Assistant/internal/core"
	"github.com/Harshita-Rupani29/MultiModal-Code-Debug-Assistant/internal/domain"
	"github.com/Harshita-Rupani29/MultiModal-Code-Debug-Assistant/internal/metrics"
	"github.com/rs/zerolog/log"
)

// Authorizer answers whether a user may enter a session's room. It must
// fail closed.
type Authorizer interface {
	CanJoin(ctx context.Context, userID domain.UserID, sid domain.SessionID) bool
}

type Orchestrator struct {
	Registry *app.Registry
	Rooms    *app.Broadcaster
	Oracle   Authorizer
	Policy   app.Policy
	Metrics  *metrics.Collector

	// mu serializes membership transitions (write) against room-scoped
	// events (read) so Registry and Rooms never disagree.
	mu sync.RWMutex
}

// Connect registers a verified connection and acknowledges it.
func (o *Orchestrator) Connect(id core.ConnID, ident domain.Identity, conn core.SignalConnection, cancel context.CancelFunc) error {
	if err := o.Registry.Register(id, ident, conn, cancel); err != nil {
		return fmt.Errorf("connect %s: %w", id, err)
	}
	o.Metrics.SetConnections(o.Registry.Count())
	o.send(id, conn, Connected{
		Type:          TypeConnected,
		ConnectionID:  id,
		UserID:        userIDPtr(ident),
		Handle:        ident.Handle,
		Authenticated: ident.Authenticated,
	})
	log.Info().
		Str("module", "orch").
		Str("conn", string(id)).
		Str("handle", ident.Handle).
		Bool("authenticated", ident.Authenticated).
		Msg("connected")
	return nil
}

func (o *Orchestrator) Ping(id core.ConnID) {
	if entry, ok := o.Registry.Lookup(id); ok {
		o.send(id, entry.Conn, Pong{Type: TypePong})
	}
}

func (o *Orchestrator) WhoAmI(id core.ConnID) {
	entry, ok := o.Registry.Lookup(id)
	if !ok {
		return
	}
	o.send(id, entry.Conn, WhoAmI{
		Type:          TypeWhoAmI,
		ConnectionID:  id,
		UserID:        userIDPtr(entry.Identity),
		Handle:        entry.Identity.Handle,
		Authenticated: entry.Identity.Authenticated,
		SessionID:     entry.Room,
	})
}

// RejectJoin answers a join attempt that was refused before authorization.
func (o *Orchestrator) RejectJoin(id core.ConnID, message string) {
	entry, ok := o.Registry.Lookup(id)
	if !ok {
		return
	}
	o.Metrics.JoinDenied("rate_limited")
	o.Metrics.Event(TypeJoinSession, "denied")
	o.send(id, entry.Conn, AuthError{Type: TypeAuthError, Message: message})
}

// ProtocolError tells a client its frame could not be decoded.
func (o *Orchestrator) ProtocolError(id core.ConnID, reason string) {
	if entry, ok := o.Registry.Lookup(id); ok {
		o.send(id, entry.Conn, ProtocolError{Type: TypeError, Error: reason})
	}
}

func (o *Orchestrator) send(id core.ConnID, conn core.SignalConnection, v any) {
	b, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Str("module", "orch").Msg("send marshal")
		return
	}
	if err := conn.TrySend(b); err != nil {
		log.Warn().Err(err).Str("module", "orch").Str("conn", string(id)).Msg("direct send failed")
		o.Metrics.Delivered(0, 1)
		return
	}
	o.Metrics.Delivered(1, 0)
}

func (o *Orchestrator) broadcast(sid domain.SessionID, v any, exclude core.ConnID) {
	b, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Str("module", "orch").Msg("broadcast marshal")
		return
	}
	res := o.Rooms.Broadcast(sid, b, exclude)
	o.Metrics.Delivered(res.SentTo, len(res.Dropped))
	if o.Policy == nil {
		return
	}
	for _, slow := range res.Dropped {
		switch o.Policy.OnBackPressure(sid, slow) {
		case app.KickMember:
			log.Warn().Str("module", "orch").Str("session", string(sid)).Str("conn", string(slow)).Msg("kicking slow member")
			o.Registry.Cancel(slow)
		case app.NoAction:
		}
	}
}

package orch

import (
	"context"

	"github.com/Harshita-Rupani29/MultiModal-Code-Debug-Assistant/internal/app"
	"github.com/Harshita-Rupani29/MultiModal-Code-Debug-Assistant/internal/core"
	"github.com/Harshita-Rupani29/MultiModal-Code-Debug-Assistant/internal/domain"
	"github.com/rs/zerolog/log"
)

// JoinSession moves the connection into sid's room, leaving its previous
// room first. The authorization lookup runs without holding any lock.
func (o *Orchestrator) JoinSession(ctx context.Context, id core.ConnID, sid domain.SessionID) {
	entry, ok := o.Registry.Lookup(id)
	if !ok {
		return
	}
	ident := entry.Identity
	if !ident.Authenticated {
		log.Info().Str("module", "orch").Str("conn", string(id)).Str("session", string(sid)).Msg("join refused: not authenticated")
		o.denyJoin(id, entry.Conn, "unauthenticated", MsgLoginRequired)
		return
	}
	if !o.Oracle.CanJoin(ctx, ident.UserID, sid) {
		log.Info().Str("module", "orch").Str("conn", string(id)).Str("user", string(ident.UserID)).Str("session", string(sid)).Msg("join refused: not authorized")
		o.denyJoin(id, entry.Conn, "unauthorized", MsgUnauthorized)
		return
	}

	o.mu.Lock()
	defer o.mu.Unlock()

	// A disconnect may have won the race while the oracle was consulted.
	entry, ok = o.Registry.Lookup(id)
	if !ok {
		log.Info().Str("module", "orch").Str("conn", string(id)).Msg("join abandoned: connection gone")
		return
	}
	if entry.Room != "" && entry.Room != sid {
		o.leaveLocked(id, entry, entry.Room)
		log.Info().Str("module", "orch").Str("conn", string(id)).Str("from_room", string(entry.Room)).Msg("left previous room")
	}
	o.Rooms.Join(sid, id, entry.Conn)
	if err := o.Registry.SetRoom(id, sid); err != nil {
		log.Error().Err(err).Str("module", "orch").Str("conn", string(id)).Msg("set room")
		o.Rooms.Leave(sid, id)
		return
	}
	o.Metrics.SetRooms(o.Rooms.RoomCount())
	o.Metrics.Event(TypeJoinSession, "joined")
	log.Info().Str("module", "orch").Str("conn", string(id)).Str("session", string(sid)).Msg("joined room")

	o.broadcast(sid, UserJoinedSession{
		Type:         TypeUserJoinedSession,
		UserID:       ident.UserID,
		Handle:       ident.Handle,
		ConnectionID: id,
		Message:      ident.Handle + " has joined the session.",
	}, "")
}

// LeaveSession only acts when sid is exactly the connection's current room.
func (o *Orchestrator) LeaveSession(id core.ConnID, sid domain.SessionID) {
	o.mu.Lock()
	defer o.mu.Unlock()

	entry, ok := o.Registry.Lookup(id)
	if !ok || sid == "" || entry.Room != sid {
		log.Debug().Str("module", "orch").Str("conn", string(id)).Str("session", string(sid)).Msg("leave ignored: not in that room")
		o.Metrics.Event(TypeLeaveSession, "ignored")
		return
	}
	o.leaveLocked(id, entry, sid)
	o.Metrics.Event(TypeLeaveSession, "left")
	log.Info().Str("module", "orch").Str("conn", string(id)).Str("session", string(sid)).Msg("left room")
}

// Disconnect releases the connection's membership and announces it once.
func (o *Orchestrator) Disconnect(id core.ConnID) {
	o.mu.Lock()
	defer o.mu.Unlock()

	entry, ok := o.Registry.Unregister(id)
	if !ok {
		return
	}
	o.Metrics.SetConnections(o.Registry.Count())
	log.Info().Str("module", "orch").Str("conn", string(id)).Str("handle", entry.Identity.Handle).Msg("disconnected")
	if entry.Room == "" {
		return
	}
	o.Rooms.Leave(entry.Room, id)
	o.Metrics.SetRooms(o.Rooms.RoomCount())
	o.broadcast(entry.Room, userLeft(id, entry.Identity), "")
}

// leaveLocked must be called with o.mu held.
func (o *Orchestrator) leaveLocked(id core.ConnID, entry app.Entry, sid domain.SessionID) {
	o.Rooms.Leave(sid, id)
	if err := o.Registry.SetRoom(id, ""); err != nil {
		log.Error().Err(err).Str("module", "orch").Str("conn", string(id)).Msg("clear room")
	}
	o.Metrics.SetRooms(o.Rooms.RoomCount())
	o.broadcast(sid, userLeft(id, entry.Identity), "")
}

func (o *Orchestrator) denyJoin(id core.ConnID, conn core.SignalConnection, reason, message string) {
	o.Metrics.JoinDenied(reason)
	o.Metrics.Event(TypeJoinSession, "denied")
	o.send(id, conn, AuthError{Type: TypeAuthError, Message: message})
}

func userLeft(id core.ConnID, ident domain.Identity) UserLeftSession {
	return UserLeftSession{
		Type:         TypeUserLeftSession,
		UserID:       ident.UserID,
		Handle:       ident.Handle,
		ConnectionID: id,
	}
}

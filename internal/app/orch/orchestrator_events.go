package orch

import (
	"encoding/json"

	"github.com/Harshita-Rupani29/MultiModal-Code-Debug-Assistant/internal/app"
	"github.com/Harshita-Rupani29/MultiModal-Code-Debug-Assistant/internal/core"
	"github.com/Harshita-Rupani29/MultiModal-Code-Debug-Assistant/internal/domain"
	"github.com/rs/zerolog/log"
)

func (o *Orchestrator) CodeChange(id core.ConnID, ev CodeChange) {
	o.relay(id, ev.SessionID, TypeCodeChange, func(ident domain.Identity) any {
		return CodeUpdate{
			Type:        TypeCodeUpdate,
			CodeContent: ev.CodeContent,
			Language:    ev.Language,
			UserID:      ident.UserID,
			Handle:      ident.Handle,
		}
	})
}

func (o *Orchestrator) CursorActivity(id core.ConnID, sid domain.SessionID, position json.RawMessage) {
	o.relay(id, sid, TypeCursorActivity, func(ident domain.Identity) any {
		return CursorUpdate{
			Type:           TypeCursorUpdate,
			CursorPosition: position,
			UserID:         ident.UserID,
			Handle:         ident.Handle,
		}
	})
}

func (o *Orchestrator) SelectionChange(id core.ConnID, sid domain.SessionID, selection json.RawMessage) {
	o.relay(id, sid, TypeSelectionChange, func(ident domain.Identity) any {
		return SelectionUpdate{
			Type:      TypeSelectionUpdate,
			Selection: selection,
			UserID:    ident.UserID,
			Handle:    ident.Handle,
		}
	})
}

// relay forwards a room-scoped event to the other members of sid, or drops
// it when sid is not the sender's current room.
func (o *Orchestrator) relay(id core.ConnID, sid domain.SessionID, eventType string, build func(domain.Identity) any) {
	o.mu.RLock()
	defer o.mu.RUnlock()

	entry, ok := o.Registry.Lookup(id)
	if !inRoom(entry, ok, sid) {
		log.Debug().Str("module", "orch").Str("conn", string(id)).Str("session", string(sid)).Str("type", eventType).Msg("dropped out-of-room event")
		o.Metrics.Event(eventType, "dropped")
		return
	}
	o.broadcast(sid, build(entry.Identity), id)
	o.Metrics.Event(eventType, "relayed")
}

func inRoom(entry app.Entry, registered bool, sid domain.SessionID) bool {
	return registered && entry.Identity.Authenticated && sid != "" && entry.Room == sid
}

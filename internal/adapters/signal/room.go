package signal

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/Harshita-Rupani29/MultiModal-Code-Debug-Assistant/internal/app/orch"
	"github.com/Harshita-Rupani29/MultiModal-Code-Debug-Assistant/internal/core"
	"github.com/Harshita-Rupani29/MultiModal-Code-Debug-Assistant/internal/domain"
	"github.com/rs/zerolog/log"
)

type sessionPayload struct {
	Type      string `json:"type"`
	SessionID string `json:"sessionId"`
}

// sessionID parses the sessionId field. An empty id is passed through so
// the orchestrator can refuse it like any other unknown session.
func sessionID(raw string) (domain.SessionID, error) {
	sid, err := domain.ParseSessionID(raw)
	if errors.Is(err, domain.ErrSessionIDEmpty) {
		return "", nil
	}
	return sid, err
}

func (ctl *SignalWSController) handleJoin(ctx context.Context, id core.ConnID, data []byte) {
	var p sessionPayload
	if err := json.Unmarshal(data, &p); err != nil {
		ctl.badPayload(id, p.Type, err)
		return
	}
	sid, err := sessionID(p.SessionID)
	if err != nil {
		ctl.badPayload(id, p.Type, err)
		return
	}
	// Guests are refused by the orchestrator with the login message, so
	// only authenticated joins count against the limiter.
	if entry, ok := ctl.Orch.Registry.Lookup(id); ok && entry.Identity.Authenticated && !ctl.Limiter.Allow(id) {
		log.Warn().Str("module", "signal").Str("conn", string(id)).Msg("join rate limited")
		ctl.Orch.RejectJoin(id, orch.MsgTooManyAttempts)
		return
	}

	log.Info().Str("module", "signal").Str("conn", string(id)).Str("session", string(sid)).Msg("join")
	ctl.Orch.JoinSession(ctx, id, sid)
}

// handleLeave leaves the current room; the connection stays open.
func (ctl *SignalWSController) handleLeave(id core.ConnID, data []byte) {
	var p sessionPayload
	if err := json.Unmarshal(data, &p); err != nil {
		ctl.badPayload(id, p.Type, err)
		return
	}
	sid, err := sessionID(p.SessionID)
	if err != nil {
		ctl.badPayload(id, p.Type, err)
		return
	}
	log.Info().Str("module", "signal").Str("conn", string(id)).Str("session", string(sid)).Msg("leave")
	ctl.Orch.LeaveSession(id, sid)
}

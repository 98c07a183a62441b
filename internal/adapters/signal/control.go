package signal

import (
	"github.com/Harshita-Rupani29/MultiModal-Code-Debug-Assistant/internal/core"
	"github.com/rs/zerolog/log"
)

func (ctl *SignalWSController) handlePing(id core.ConnID) {
	ctl.Orch.Ping(id)
}

func (ctl *SignalWSController) badPayload(id core.ConnID, typ string, err error) {
	log.Error().Err(err).Str("module", "signal").Str("conn", string(id)).Str("type", typ).Msg("bad payload")
	ctl.Orch.ProtocolError(id, "bad_payload")
}

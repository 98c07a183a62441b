package signal

import (
	"context"

	"github.com/Harshita-Rupani29/MultiModal-Code-Debug-Assistant/internal/core"
	"github.com/Harshita-Rupani29/MultiModal-Code-Debug-Assistant/internal/domain"
	"github.com/rs/zerolog/log"
)

func (ctl *SignalWSController) authenticate(ctx context.Context, token string) (domain.Identity, error) {
	ident, err := ctl.Verifier.Verify(ctx, token)
	if err != nil {
		log.Info().Err(err).Str("module", "signal").Msg("handshake rejected")
		return domain.Identity{}, err
	}
	return ident, nil
}

func (ctl *SignalWSController) handleWhoAmI(id core.ConnID) {
	ctl.Orch.WhoAmI(id)
}

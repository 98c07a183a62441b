package signal

import (
	"encoding/json"

	"github.com/Harshita-Rupani29/MultiModal-Code-Debug-Assistant/internal/app/orch"
	"github.com/Harshita-Rupani29/MultiModal-Code-Debug-Assistant/internal/core"
	"github.com/Harshita-Rupani29/MultiModal-Code-Debug-Assistant/internal/domain"
)

func (ctl *SignalWSController) handleCodeChange(id core.ConnID, data []byte) {
	var p struct {
		SessionID   domain.SessionID `json:"sessionId"`
		CodeContent string           `json:"codeContent"`
		Language    string           `json:"language"`
	}
	if err := json.Unmarshal(data, &p); err != nil {
		ctl.badPayload(id, orch.TypeCodeChange, err)
		return
	}
	ctl.Orch.CodeChange(id, orch.CodeChange{
		SessionID:   p.SessionID,
		CodeContent: p.CodeContent,
		Language:    p.Language,
	})
}

func (ctl *SignalWSController) handleCursorActivity(id core.ConnID, data []byte) {
	var p struct {
		SessionID      domain.SessionID `json:"sessionId"`
		CursorPosition json.RawMessage  `json:"cursorPosition"`
	}
	if err := json.Unmarshal(data, &p); err != nil {
		ctl.badPayload(id, orch.TypeCursorActivity, err)
		return
	}
	ctl.Orch.CursorActivity(id, p.SessionID, p.CursorPosition)
}

func (ctl *SignalWSController) handleSelectionChange(id core.ConnID, data []byte) {
	var p struct {
		SessionID domain.SessionID `json:"sessionId"`
		Selection json.RawMessage  `json:"selection"`
	}
	if err := json.Unmarshal(data, &p); err != nil {
		ctl.badPayload(id, orch.TypeSelectionChange, err)
		return
	}
	ctl.Orch.SelectionChange(id, p.SessionID, p.Selection)
}

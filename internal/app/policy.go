package app

import (
	"github.com/Harshita-Rupani29/MultiModal-Code-Debug-Assistant/internal/core"
	"github.com/Harshita-Rupani29/MultiModal-Code-Debug-Assistant/internal/domain"
)

type BackpressureAction int

const (
	NoAction BackpressureAction = iota
	KickMember
)

// Policy decides what happens to a member whose send queue rejected a frame.
type Policy interface {
	OnBackPressure(sid domain.SessionID, member core.ConnID) BackpressureAction
}

// SimplePolicy kicks slow members.
type SimplePolicy struct{}

func (SimplePolicy) OnBackPressure(domain.SessionID, core.ConnID) BackpressureAction {
	return KickMember
}

// TolerantPolicy only drops the frame.
type TolerantPolicy struct{}

func (TolerantPolicy) OnBackPressure(domain.SessionID, core.ConnID) BackpressureAction {
	return NoAction
}

func PolicyFor(kickSlow bool) Policy {
	if kickSlow {
		return SimplePolicy{}
	}
	return TolerantPolicy{}
}

package core

import (
	"github.com/Harshita-Rupani29/MultiModal-Code-Debug-Assistant/internal/domain"
)

// PublishResult reports delivery stats/backpressure to orchestrator.
type PublishResult struct {
	SentTo  int
	Dropped []ConnID
}

// RoomService is the core-facing API of a room.
// It owns the membership set but never touches transport resources.
type RoomService interface {
	SessionID() domain.SessionID
	MemberCount() int
	Members() []ConnID
	Has(id ConnID) bool

	// AddMember reports false if id was already a member.
	AddMember(id ConnID, conn SignalConnection) bool
	// RemoveMember reports false if id was not a member.
	RemoveMember(id ConnID) bool
	// Broadcast delivers data to every member except exclude ("" excludes nobody).
	Broadcast(exclude ConnID, data Frame) PublishResult
}

type RoomInfo struct {
	SessionID   domain.SessionID `json:"session_id"`
	MemberCount int              `json:"member_count"`
}

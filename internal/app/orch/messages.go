package orch

import (
	"encoding/json"

	"github.com/Harshita-Rupani29/MultiModal-Code-Debug-Assistant/internal/core"
	"github.com/Harshita-Rupani29/MultiModal-Code-Debug-Assistant/internal/domain"
)

// Inbound frame types.
const (
	TypeJoinSession     = "joinSession"
	TypeLeaveSession    = "leaveSession"
	TypeCodeChange      = "codeChange"
	TypeCursorActivity  = "cursorActivity"
	TypeSelectionChange = "selectionChange"
	TypePing            = "ping"
	TypeWhoAmI          = "whoami"
)

// Outbound frame types.
const (
	TypeConnected         = "connected"
	TypeUserJoinedSession = "userJoinedSession"
	TypeUserLeftSession   = "userLeftSession"
	TypeAuthError         = "authError"
	TypeCodeUpdate        = "codeUpdate"
	TypeCursorUpdate      = "cursorUpdate"
	TypeSelectionUpdate   = "selectionUpdate"
	TypePong              = "pong"
	TypeError             = "error"
)

const (
	MsgLoginRequired   = "You must be logged in to join a session."
	MsgUnauthorized    = "Unauthorized to join this session."
	MsgTooManyAttempts = "Too many join attempts."
)

type Connected struct {
	Type          string         `json:"type"`
	ConnectionID  core.ConnID    `json:"connectionId"`
	UserID        *domain.UserID `json:"userId"`
	Handle        string         `json:"handle"`
	Authenticated bool           `json:"authenticated"`
}

type UserJoinedSession struct {
	Type         string        `json:"type"`
	UserID       domain.UserID `json:"userId"`
	Handle       string        `json:"handle"`
	ConnectionID core.ConnID   `json:"connectionId"`
	Message      string        `json:"message"`
}

type UserLeftSession struct {
	Type         string        `json:"type"`
	UserID       domain.UserID `json:"userId"`
	Handle       string        `json:"handle"`
	ConnectionID core.ConnID   `json:"connectionId"`
}

type AuthError struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

type CodeUpdate struct {
	Type        string        `json:"type"`
	CodeContent string        `json:"codeContent"`
	Language    string        `json:"language"`
	UserID      domain.UserID `json:"userId"`
	Handle      string        `json:"handle"`
}

type CursorUpdate struct {
	Type           string          `json:"type"`
	CursorPosition json.RawMessage `json:"cursorPosition"`
	UserID         domain.UserID   `json:"userId"`
	Handle         string          `json:"handle"`
}

type SelectionUpdate struct {
	Type      string          `json:"type"`
	Selection json.RawMessage `json:"selection"`
	UserID    domain.UserID   `json:"userId"`
	Handle    string          `json:"handle"`
}

type WhoAmI struct {
	Type          string           `json:"type"`
	ConnectionID  core.ConnID      `json:"connectionId"`
	UserID        *domain.UserID   `json:"userId"`
	Handle        string           `json:"handle"`
	Authenticated bool             `json:"authenticated"`
	SessionID     domain.SessionID `json:"sessionId,omitempty"`
}

type Pong struct {
	Type string `json:"type"`
}

type ProtocolError struct {
	Type  string `json:"type"`
	Error string `json:"error"`
}

// CodeChange is the decoded codeChange payload.
type CodeChange struct {
	SessionID   domain.SessionID
	CodeContent string
	Language    string
}

func userIDPtr(ident domain.Identity) *domain.UserID {
	if !ident.Authenticated {
		return nil
	}
	id := ident.UserID
	return &id
}

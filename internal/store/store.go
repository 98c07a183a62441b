// Package store reads debug sessions and user profiles. The realtime
// server only reads; sessions are created by the analysis API.
package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/Harshita-Rupani29/MultiModal-Code-Debug-Assistant/internal/domain"
)

var ErrNotFound = errors.New("not found")

type Session struct {
	ID          domain.SessionID `json:"id"`
	UserID      domain.UserID    `json:"user_id"`
	Title       string           `json:"title"`
	Description string           `json:"description,omitempty"`
	Status      string           `json:"status,omitempty"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   *time.Time       `json:"updated_at,omitempty"`
}

type CodeSnippet struct {
	ID          string           `json:"id"`
	SessionID   domain.SessionID `json:"session_id"`
	UserID      domain.UserID    `json:"user_id"`
	CodeContent string           `json:"code_content"`
	Language    string           `json:"language,omitempty"`
	FileName    string           `json:"file_name,omitempty"`
	CreatedAt   time.Time        `json:"created_at"`
}

type AnalyzedError struct {
	ID               string           `json:"id"`
	SessionID        domain.SessionID `json:"session_id"`
	ErrorType        string           `json:"error_type,omitempty"`
	RawErrorMessage  string           `json:"raw_error_message,omitempty"`
	AIClassification string           `json:"ai_classification,omitempty"`
	AIExplanation    string           `json:"ai_explanation,omitempty"`
	AISolution       string           `json:"ai_solution,omitempty"`
	Severity         string           `json:"severity,omitempty"`
	SuggestedCodeFix string           `json:"suggested_code_fix,omitempty"`
}

type Attachment struct {
	ID            string           `json:"id"`
	SessionID     domain.SessionID `json:"session_id"`
	UserID        domain.UserID    `json:"user_id"`
	FileName      string           `json:"file_name"`
	FileType      string           `json:"file_type,omitempty"`
	FilePath      string           `json:"file_path,omitempty"`
	ExtractedText string           `json:"extracted_text,omitempty"`
	UploadedAt    time.Time        `json:"uploaded_at"`
}

// SessionDetails is a session with everything recorded against it.
type SessionDetails struct {
	Session        Session         `json:"session"`
	CodeSnippets   []CodeSnippet   `json:"codeSnippets"`
	AnalyzedErrors []AnalyzedError `json:"analyzedErrors"`
	Attachments    []Attachment    `json:"attachments"`
}

// Lookups is what the realtime path needs: session ownership and profile
// names. Both return ErrNotFound for missing rows.
type Lookups interface {
	FindSessionOwner(ctx context.Context, sid domain.SessionID) (domain.UserID, error)
	DisplayName(ctx context.Context, uid domain.UserID) (string, error)
}

type Store interface {
	Lookups
	ListSessions(ctx context.Context, uid domain.UserID) ([]Session, error)
	SessionDetails(ctx context.Context, sid domain.SessionID) (SessionDetails, error)
	Ping(ctx context.Context) error
	Close() error
}

// displayName prefers the first name and falls back to the email.
func displayName(firstName, email string) string {
	if firstName != "" {
		return firstName
	}
	return email
}

func nullString(s sql.NullString) string {
	if !s.Valid {
		return ""
	}
	return s.String
}

func nullTime(t sql.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}
	v := t.Time
	return &v
}

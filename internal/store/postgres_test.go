package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/Harshita-Rupani29/MultiModal-Code-Debug-Assistant/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockPostgres(t *testing.T) (*Postgres, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewPostgres(db), mock
}

var sessionColumns = []string{"id", "user_id", "title", "description", "status", "created_at", "updated_at"}

func TestPostgresFindSessionOwner(t *testing.T) {
	ctx := context.Background()

	t.Run("Found", func(t *testing.T) {
		p, mock := newMockPostgres(t)
		mock.ExpectQuery("SELECT (.+) FROM debug_sessions WHERE id").
			WithArgs("S1").
			WillReturnRows(sqlmock.NewRows([]string{"user_id"}).AddRow("U1"))

		owner, err := p.FindSessionOwner(ctx, "S1")
		require.NoError(t, err)
		assert.Equal(t, domain.UserID("U1"), owner)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Missing", func(t *testing.T) {
		p, mock := newMockPostgres(t)
		mock.ExpectQuery("SELECT (.+) FROM debug_sessions WHERE id").
			WithArgs("nope").
			WillReturnRows(sqlmock.NewRows([]string{"user_id"}))

		_, err := p.FindSessionOwner(ctx, "nope")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("Failure", func(t *testing.T) {
		p, mock := newMockPostgres(t)
		boom := errors.New("connection reset")
		mock.ExpectQuery("SELECT (.+) FROM debug_sessions WHERE id").
			WithArgs("S1").
			WillReturnError(boom)

		_, err := p.FindSessionOwner(ctx, "S1")
		assert.ErrorIs(t, err, boom)
		assert.NotErrorIs(t, err, ErrNotFound)
	})
}

func TestPostgresDisplayName(t *testing.T) {
	ctx := context.Background()
	cases := []struct {
		name  string
		first any
		email any
		want  string
	}{
		{"FirstName", "Ada", "ada@example.com", "Ada"},
		{"EmailFallback", nil, "ada@example.com", "ada@example.com"},
		{"EmptyFirstName", "", "ada@example.com", "ada@example.com"},
		{"Nothing", nil, nil, ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p, mock := newMockPostgres(t)
			mock.ExpectQuery("SELECT first_name, email FROM users").
				WithArgs("U1").
				WillReturnRows(sqlmock.NewRows([]string{"first_name", "email"}).AddRow(tc.first, tc.email))

			name, err := p.DisplayName(ctx, "U1")
			require.NoError(t, err)
			assert.Equal(t, tc.want, name)
		})
	}

	t.Run("Missing", func(t *testing.T) {
		p, mock := newMockPostgres(t)
		mock.ExpectQuery("SELECT first_name, email FROM users").
			WithArgs("U9").
			WillReturnRows(sqlmock.NewRows([]string{"first_name", "email"}))

		_, err := p.DisplayName(ctx, "U9")
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestPostgresListSessions(t *testing.T) {
	p, mock := newMockPostgres(t)
	newer := time.Date(2024, 5, 2, 10, 0, 0, 0, time.UTC)
	older := newer.Add(-24 * time.Hour)
	mock.ExpectQuery("SELECT (.+) FROM debug_sessions WHERE user_id(.+) ORDER BY created_at DESC").
		WithArgs("U1").
		WillReturnRows(sqlmock.NewRows(sessionColumns).
			AddRow("S2", "U1", "Panic in handler", nil, "open", newer, nil).
			AddRow("S1", "U1", "Null pointer", "stack trace attached", "resolved", older, newer))

	sessions, err := p.ListSessions(context.Background(), "U1")
	require.NoError(t, err)
	require.Len(t, sessions, 2)
	assert.Equal(t, domain.SessionID("S2"), sessions[0].ID)
	assert.Empty(t, sessions[0].Description)
	assert.Nil(t, sessions[0].UpdatedAt)
	assert.Equal(t, "stack trace attached", sessions[1].Description)
	require.NotNil(t, sessions[1].UpdatedAt)
	assert.True(t, sessions[1].UpdatedAt.Equal(newer))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresSessionDetails(t *testing.T) {
	ctx := context.Background()
	at := time.Date(2024, 5, 2, 10, 0, 0, 0, time.UTC)

	t.Run("Found", func(t *testing.T) {
		p, mock := newMockPostgres(t)
		mock.ExpectQuery("SELECT (.+) FROM debug_sessions WHERE id").
			WithArgs("S1").
			WillReturnRows(sqlmock.NewRows(sessionColumns).AddRow("S1", "U1", "Crash", nil, "open", at, nil))
		mock.ExpectQuery("SELECT (.+) FROM code_snippets").
			WithArgs("S1").
			WillReturnRows(sqlmock.NewRows([]string{"id", "session_id", "user_id", "code_content", "language", "file_name", "created_at"}).
				AddRow("10", "S1", "U1", "x := nil", "go", nil, at))
		mock.ExpectQuery("SELECT (.+) FROM analyzed_errors").
			WithArgs("S1").
			WillReturnRows(sqlmock.NewRows([]string{"id", "session_id", "error_type", "raw_error_message", "ai_classification",
				"ai_explanation", "ai_solution", "severity", "suggested_code_fix"}).
				AddRow("20", "S1", "runtime", "nil map", "nil-deref", "map is nil", "make it", "high", nil))
		mock.ExpectQuery("SELECT (.+) FROM attachments").
			WithArgs("S1").
			WillReturnRows(sqlmock.NewRows([]string{"id", "session_id", "user_id", "file_name", "file_type", "file_path", "extracted_text", "uploaded_at"}))

		d, err := p.SessionDetails(ctx, "S1")
		require.NoError(t, err)
		assert.Equal(t, "Crash", d.Session.Title)
		require.Len(t, d.CodeSnippets, 1)
		assert.Equal(t, "go", d.CodeSnippets[0].Language)
		assert.Empty(t, d.CodeSnippets[0].FileName)
		require.Len(t, d.AnalyzedErrors, 1)
		assert.Equal(t, "high", d.AnalyzedErrors[0].Severity)
		assert.NotNil(t, d.Attachments)
		assert.Empty(t, d.Attachments)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Missing", func(t *testing.T) {
		p, mock := newMockPostgres(t)
		mock.ExpectQuery("SELECT (.+) FROM debug_sessions WHERE id").
			WithArgs("S9").
			WillReturnRows(sqlmock.NewRows(sessionColumns))

		_, err := p.SessionDetails(ctx, "S9")
		assert.ErrorIs(t, err, ErrNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Harshita-Rupani29/MultiModal-Code-Debug-Assistant/internal/domain"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/rs/zerolog/log"
)

type PostgresOptions struct {
	DSN             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	PingTimeout     time.Duration
}

// Postgres reads the debug_sessions, users and related tables. Ids are
// compared as text so uuid and serial schemas both work.
type Postgres struct {
	db *sql.DB
}

func OpenPostgres(ctx context.Context, opts PostgresOptions) (*Postgres, error) {
	db, err := sql.Open("pgx", opts.DSN)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if opts.MaxOpenConns > 0 {
		db.SetMaxOpenConns(opts.MaxOpenConns)
	}
	if opts.MaxIdleConns > 0 {
		db.SetMaxIdleConns(opts.MaxIdleConns)
	}
	if opts.ConnMaxLifetime > 0 {
		db.SetConnMaxLifetime(opts.ConnMaxLifetime)
	}

	timeout := opts.PingTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	log.Info().Str("module", "store").Int("max_open", opts.MaxOpenConns).Msg("postgres connected")
	return &Postgres{db: db}, nil
}

// NewPostgres wraps an existing handle.
func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

const (
	qSessionOwner = `SELECT user_id::text FROM debug_sessions WHERE id::text = $1`
	qUserName     = `SELECT first_name, email FROM users WHERE id::text = $1`
	qSessionByID  = `SELECT id::text, user_id::text, title, description, status, created_at, updated_at
		FROM debug_sessions WHERE id::text = $1`
	qSessionsByUser = `SELECT id::text, user_id::text, title, description, status, created_at, updated_at
		FROM debug_sessions WHERE user_id::text = $1 ORDER BY created_at DESC`
	qSnippets = `SELECT id::text, session_id::text, user_id::text, code_content, language, file_name, created_at
		FROM code_snippets WHERE session_id::text = $1 ORDER BY created_at ASC`
	qAnalyzedErrors = `SELECT id::text, session_id::text, error_type, raw_error_message, ai_classification,
		ai_explanation, ai_solution, severity, suggested_code_fix
		FROM analyzed_errors WHERE session_id::text = $1`
	qAttachments = `SELECT id::text, session_id::text, user_id::text, file_name, file_type, file_path, extracted_text, uploaded_at
		FROM attachments WHERE session_id::text = $1 ORDER BY uploaded_at ASC`
)

func (p *Postgres) FindSessionOwner(ctx context.Context, sid domain.SessionID) (domain.UserID, error) {
	var owner string
	err := p.db.QueryRowContext(ctx, qSessionOwner, string(sid)).Scan(&owner)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("find session owner %s: %w", sid, err)
	}
	return domain.UserID(owner), nil
}

func (p *Postgres) DisplayName(ctx context.Context, uid domain.UserID) (string, error) {
	var first, email sql.NullString
	err := p.db.QueryRowContext(ctx, qUserName, string(uid)).Scan(&first, &email)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("display name %s: %w", uid, err)
	}
	return displayName(nullString(first), nullString(email)), nil
}

func (p *Postgres) ListSessions(ctx context.Context, uid domain.UserID) ([]Session, error) {
	rows, err := p.db.QueryContext(ctx, qSessionsByUser, string(uid))
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	defer rows.Close()

	out := []Session{}
	for rows.Next() {
		s, err := scanSession(rows)
		if err != nil {
			return nil, fmt.Errorf("list sessions: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (p *Postgres) SessionDetails(ctx context.Context, sid domain.SessionID) (SessionDetails, error) {
	s, err := scanSession(p.db.QueryRowContext(ctx, qSessionByID, string(sid)))
	if errors.Is(err, sql.ErrNoRows) {
		return SessionDetails{}, ErrNotFound
	}
	if err != nil {
		return SessionDetails{}, fmt.Errorf("session %s: %w", sid, err)
	}

	d := SessionDetails{Session: s}
	if d.CodeSnippets, err = p.snippets(ctx, sid); err != nil {
		return SessionDetails{}, err
	}
	if d.AnalyzedErrors, err = p.analyzedErrors(ctx, sid); err != nil {
		return SessionDetails{}, err
	}
	if d.Attachments, err = p.attachments(ctx, sid); err != nil {
		return SessionDetails{}, err
	}
	return d, nil
}

func (p *Postgres) Ping(ctx context.Context) error {
	return p.db.PingContext(ctx)
}

func (p *Postgres) Close() error {
	return p.db.Close()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanSession(row scanner) (Session, error) {
	var (
		s           Session
		id, userID  string
		desc, state sql.NullString
		updated     sql.NullTime
	)
	if err := row.Scan(&id, &userID, &s.Title, &desc, &state, &s.CreatedAt, &updated); err != nil {
		return Session{}, err
	}
	s.ID = domain.SessionID(id)
	s.UserID = domain.UserID(userID)
	s.Description = nullString(desc)
	s.Status = nullString(state)
	s.UpdatedAt = nullTime(updated)
	return s, nil
}

func (p *Postgres) snippets(ctx context.Context, sid domain.SessionID) ([]CodeSnippet, error) {
	rows, err := p.db.QueryContext(ctx, qSnippets, string(sid))
	if err != nil {
		return nil, fmt.Errorf("code snippets: %w", err)
	}
	defer rows.Close()

	out := []CodeSnippet{}
	for rows.Next() {
		var (
			c                  CodeSnippet
			id, session, user  string
			language, fileName sql.NullString
		)
		if err := rows.Scan(&id, &session, &user, &c.CodeContent, &language, &fileName, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("code snippets: %w", err)
		}
		c.ID, c.SessionID, c.UserID = id, domain.SessionID(session), domain.UserID(user)
		c.Language, c.FileName = nullString(language), nullString(fileName)
		out = append(out, c)
	}
	return out, rows.Err()
}

func (p *Postgres) analyzedErrors(ctx context.Context, sid domain.SessionID) ([]AnalyzedError, error) {
	rows, err := p.db.QueryContext(ctx, qAnalyzedErrors, string(sid))
	if err != nil {
		return nil, fmt.Errorf("analyzed errors: %w", err)
	}
	defer rows.Close()

	out := []AnalyzedError{}
	for rows.Next() {
		var (
			a                                    AnalyzedError
			session                              string
			typ, raw, class, expl, sol, sev, fix sql.NullString
		)
		if err := rows.Scan(&a.ID, &session, &typ, &raw, &class, &expl, &sol, &sev, &fix); err != nil {
			return nil, fmt.Errorf("analyzed errors: %w", err)
		}
		a.SessionID = domain.SessionID(session)
		a.ErrorType = nullString(typ)
		a.RawErrorMessage = nullString(raw)
		a.AIClassification = nullString(class)
		a.AIExplanation = nullString(expl)
		a.AISolution = nullString(sol)
		a.Severity = nullString(sev)
		a.SuggestedCodeFix = nullString(fix)
		out = append(out, a)
	}
	return out, rows.Err()
}

func (p *Postgres) attachments(ctx context.Context, sid domain.SessionID) ([]Attachment, error) {
	rows, err := p.db.QueryContext(ctx, qAttachments, string(sid))
	if err != nil {
		return nil, fmt.Errorf("attachments: %w", err)
	}
	defer rows.Close()

	out := []Attachment{}
	for rows.Next() {
		var (
			a                    Attachment
			session, user        string
			typ, path, extracted sql.NullString
		)
		if err := rows.Scan(&a.ID, &session, &user, &a.FileName, &typ, &path, &extracted, &a.UploadedAt); err != nil {
			return nil, fmt.Errorf("attachments: %w", err)
		}
		a.SessionID, a.UserID = domain.SessionID(session), domain.UserID(user)
		a.FileType, a.FilePath, a.ExtractedText = nullString(typ), nullString(path), nullString(extracted)
		out = append(out, a)
	}
	return out, rows.Err()
}

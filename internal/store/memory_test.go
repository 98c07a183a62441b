package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	now := time.Now()
	m.PutSession(Session{ID: "S1", UserID: "U1", Title: "old", CreatedAt: now.Add(-time.Hour)})
	m.PutSession(Session{ID: "S2", UserID: "U1", Title: "new", CreatedAt: now})
	m.PutSession(Session{ID: "S3", UserID: "U2", Title: "other", CreatedAt: now})
	m.PutUser("U1", "", "u1@example.com")
	m.PutSnippet(CodeSnippet{ID: "c1", SessionID: "S1", CodeContent: "x"})

	owner, err := m.FindSessionOwner(ctx, "S3")
	require.NoError(t, err)
	assert.EqualValues(t, "U2", owner)
	_, err = m.FindSessionOwner(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	name, err := m.DisplayName(ctx, "U1")
	require.NoError(t, err)
	assert.Equal(t, "u1@example.com", name)
	_, err = m.DisplayName(ctx, "U2")
	assert.ErrorIs(t, err, ErrNotFound)

	sessions, err := m.ListSessions(ctx, "U1")
	require.NoError(t, err)
	require.Len(t, sessions, 2)
	assert.Equal(t, "new", sessions[0].Title)

	d, err := m.SessionDetails(ctx, "S1")
	require.NoError(t, err)
	assert.Len(t, d.CodeSnippets, 1)
	assert.Empty(t, d.Attachments)
	_, err = m.SessionDetails(ctx, "S9")
	assert.ErrorIs(t, err, ErrNotFound)
}

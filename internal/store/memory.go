package store

import (
	"context"
	"sort"
	"sync"

	"github.com/Harshita-Rupani29/MultiModal-Code-Debug-Assistant/internal/domain"
)

type memoryUser struct {
	firstName string
	email     string
}

// Memory is an in-process Store for development and tests.
type Memory struct {
	mu          sync.RWMutex
	sessions    map[domain.SessionID]Session
	users       map[domain.UserID]memoryUser
	snippets    map[domain.SessionID][]CodeSnippet
	errors      map[domain.SessionID][]AnalyzedError
	attachments map[domain.SessionID][]Attachment
}

func NewMemory() *Memory {
	return &Memory{
		sessions:    make(map[domain.SessionID]Session),
		users:       make(map[domain.UserID]memoryUser),
		snippets:    make(map[domain.SessionID][]CodeSnippet),
		errors:      make(map[domain.SessionID][]AnalyzedError),
		attachments: make(map[domain.SessionID][]Attachment),
	}
}

func (m *Memory) PutSession(s Session) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[s.ID] = s
}

func (m *Memory) PutUser(uid domain.UserID, firstName, email string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users[uid] = memoryUser{firstName: firstName, email: email}
}

func (m *Memory) PutSnippet(c CodeSnippet) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.snippets[c.SessionID] = append(m.snippets[c.SessionID], c)
}

func (m *Memory) PutAnalyzedError(a AnalyzedError) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errors[a.SessionID] = append(m.errors[a.SessionID], a)
}

func (m *Memory) PutAttachment(a Attachment) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.attachments[a.SessionID] = append(m.attachments[a.SessionID], a)
}

func (m *Memory) FindSessionOwner(_ context.Context, sid domain.SessionID) (domain.UserID, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[sid]
	if !ok {
		return "", ErrNotFound
	}
	return s.UserID, nil
}

func (m *Memory) DisplayName(_ context.Context, uid domain.UserID) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	u, ok := m.users[uid]
	if !ok {
		return "", ErrNotFound
	}
	return displayName(u.firstName, u.email), nil
}

func (m *Memory) ListSessions(_ context.Context, uid domain.UserID) ([]Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := []Session{}
	for _, s := range m.sessions {
		if s.UserID == uid {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (m *Memory) SessionDetails(_ context.Context, sid domain.SessionID) (SessionDetails, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[sid]
	if !ok {
		return SessionDetails{}, ErrNotFound
	}
	return SessionDetails{
		Session:        s,
		CodeSnippets:   append([]CodeSnippet{}, m.snippets[sid]...),
		AnalyzedErrors: append([]AnalyzedError{}, m.errors[sid]...),
		Attachments:    append([]Attachment{}, m.attachments[sid]...),
	}, nil
}

func (m *Memory) Ping(context.Context) error { return nil }

func (m *Memory) Close() error { return nil }

package store

import (
	"fmt"
	"time"

	"github.com/Harshita-Rupani29/MultiModal-Code-Debug-Assistant/internal/domain"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

type seedFile struct {
	Users []struct {
		ID        string `mapstructure:"id"`
		FirstName string `mapstructure:"first_name"`
		Email     string `mapstructure:"email"`
	} `mapstructure:"users"`
	Sessions []struct {
		ID          string `mapstructure:"id"`
		UserID      string `mapstructure:"user_id"`
		Title       string `mapstructure:"title"`
		Description string `mapstructure:"description"`
		Status      string `mapstructure:"status"`
		CreatedAt   string `mapstructure:"created_at"`
		Snippets    []struct {
			ID          string `mapstructure:"id"`
			CodeContent string `mapstructure:"code_content"`
			Language    string `mapstructure:"language"`
			FileName    string `mapstructure:"file_name"`
		} `mapstructure:"snippets"`
	} `mapstructure:"sessions"`
}

// LoadSeed fills m with the users and sessions listed in a yaml or json
// file. Sessions without created_at are stamped with the load time.
func LoadSeed(m *Memory, path string) error {
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("read seed %s: %w", path, err)
	}
	var f seedFile
	if err := v.Unmarshal(&f); err != nil {
		return fmt.Errorf("decode seed %s: %w", path, err)
	}

	now := time.Now()
	for _, u := range f.Users {
		if u.ID == "" {
			return fmt.Errorf("seed %s: user without id", path)
		}
		m.PutUser(domain.UserID(u.ID), u.FirstName, u.Email)
	}
	for _, s := range f.Sessions {
		sid, err := domain.ParseSessionID(s.ID)
		if err != nil {
			return fmt.Errorf("seed %s: session %q: %w", path, s.ID, err)
		}
		if s.UserID == "" {
			return fmt.Errorf("seed %s: session %q has no user_id", path, s.ID)
		}
		created := now
		if s.CreatedAt != "" {
			if created, err = time.Parse(time.RFC3339, s.CreatedAt); err != nil {
				return fmt.Errorf("seed %s: session %q created_at: %w", path, s.ID, err)
			}
		}
		m.PutSession(Session{
			ID:          sid,
			UserID:      domain.UserID(s.UserID),
			Title:       s.Title,
			Description: s.Description,
			Status:      s.Status,
			CreatedAt:   created,
		})
		for i, c := range s.Snippets {
			id := c.ID
			if id == "" {
				id = fmt.Sprintf("%s-%d", sid, i+1)
			}
			m.PutSnippet(CodeSnippet{
				ID:          id,
				SessionID:   sid,
				UserID:      domain.UserID(s.UserID),
				CodeContent: c.CodeContent,
				Language:    c.Language,
				FileName:    c.FileName,
				CreatedAt:   created,
			})
		}
	}
	log.Info().
		Str("module", "store").
		Str("path", path).
		Int("users", len(f.Users)).
		Int("sessions", len(f.Sessions)).
		Msg("seeded memory store")
	return nil
}

package http

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/Harshita-Rupani29/MultiModal-Code-Debug-Assistant/internal/domain"
	"github.com/Harshita-Rupani29/MultiModal-Code-Debug-Assistant/internal/store"
	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

const identityKey = "identity"

type handlers struct {
	deps Deps
}

type SessionDetailsResponse struct {
	store.SessionDetails
	Viewers int `json:"viewers"`
}

func (h *handlers) health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()
	status, code := "ok", http.StatusOK
	if err := h.deps.Store.Ping(ctx); err != nil {
		log.Warn().Err(err).Str("module", "adapters.http").Msg("health: store unreachable")
		status, code = "degraded", http.StatusServiceUnavailable
	}
	c.JSON(code, gin.H{
		"status":      status,
		"connections": h.deps.Orch.Registry.Count(),
		"rooms":       h.deps.Orch.Rooms.RoomCount(),
		"sessions":    h.deps.Orch.Rooms.List(),
	})
}

// requireUser rejects requests without a valid bearer token for a user.
func (h *handlers) requireUser(c *gin.Context) {
	ident, err := h.deps.Verifier.Verify(c.Request.Context(), bearerToken(c))
	if err != nil || !ident.Authenticated {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Authentication failed!"})
		return
	}
	c.Set(identityKey, ident)
	c.Next()
}

func identity(c *gin.Context) domain.Identity {
	ident, _ := c.MustGet(identityKey).(domain.Identity)
	return ident
}

// storeToken keeps a verified bearer token in the cookie session so a
// browser can open the websocket without putting it in the URL.
func (h *handlers) storeToken(c *gin.Context) {
	token := bearerToken(c)
	ident, err := h.deps.Verifier.Verify(c.Request.Context(), token)
	if err != nil || !ident.Authenticated {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Authentication failed: Invalid token."})
		return
	}
	s := sessions.Default(c)
	s.Set(sessionTokenKey, token)
	if err := s.Save(); err != nil {
		log.Error().Err(err).Str("module", "adapters.http").Msg("save session")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to store token."})
		return
	}
	c.JSON(http.StatusOK, gin.H{"userId": ident.UserID, "handle": ident.Handle})
}

// clearToken always forgets the stored token. It revokes the token only
// when it verifies as a user's token, so forged tokens never reach redis.
func (h *handlers) clearToken(c *gin.Context) {
	s := sessions.Default(c)
	token, _ := s.Get(sessionTokenKey).(string)
	if bt := bearerToken(c); bt != "" {
		token = bt
	}
	s.Delete(sessionTokenKey)
	if err := s.Save(); err != nil {
		log.Error().Err(err).Str("module", "adapters.http").Msg("save session")
	}
	if token == "" {
		c.Status(http.StatusNoContent)
		return
	}

	ident, err := h.deps.Verifier.Verify(c.Request.Context(), token)
	if err != nil || !ident.Authenticated {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Authentication failed: Invalid token."})
		return
	}
	if h.deps.Revoker != nil {
		if err := h.deps.Revoker.Revoke(c.Request.Context(), token); err != nil {
			log.Warn().Err(err).Str("module", "adapters.http").Msg("revoke token")
		}
	}
	c.Status(http.StatusNoContent)
}

func (h *handlers) listSessions(c *gin.Context) {
	list, err := h.deps.Store.ListSessions(c.Request.Context(), identity(c).UserID)
	if err != nil {
		log.Error().Err(err).Str("module", "adapters.http").Msg("list sessions")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to fetch debug sessions."})
		return
	}
	c.JSON(http.StatusOK, gin.H{"sessions": list})
}

func (h *handlers) sessionDetails(c *gin.Context) {
	notFound := gin.H{"message": "Session not found or unauthorized."}
	sid, err := domain.ParseSessionID(c.Param("sessionId"))
	if err != nil {
		c.JSON(http.StatusNotFound, notFound)
		return
	}

	d, err := h.deps.Store.SessionDetails(c.Request.Context(), sid)
	switch {
	case errors.Is(err, store.ErrNotFound):
		c.JSON(http.StatusNotFound, notFound)
		return
	case err != nil:
		log.Error().Err(err).Str("module", "adapters.http").Str("session", string(sid)).Msg("session details")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to fetch debug session details."})
		return
	}
	if d.Session.UserID != identity(c).UserID {
		c.JSON(http.StatusNotFound, notFound)
		return
	}

	c.JSON(http.StatusOK, SessionDetailsResponse{
		SessionDetails: d,
		Viewers:        h.deps.Orch.Rooms.MemberCount(sid),
	})
}

package http

import (
	"context"
	"net/http"
	"strings"

	"github.com/Harshita-Rupani29/MultiModal-Code-Debug-Assistant/internal/adapters/signal"
	"github.com/Harshita-Rupani29/MultiModal-Code-Debug-Assistant/internal/app/orch"
	"github.com/Harshita-Rupani29/MultiModal-Code-Debug-Assistant/internal/config"
	"github.com/Harshita-Rupani29/MultiModal-Code-Debug-Assistant/internal/metrics"
	"github.com/Harshita-Rupani29/MultiModal-Code-Debug-Assistant/internal/store"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

const sessionTokenKey = "ws_token"

// Revoker blacklists a token on logout.
type Revoker interface {
	Revoke(ctx context.Context, token string) error
}

type Deps struct {
	Config   *config.Config
	Orch     *orch.Orchestrator
	Signal   *signal.SignalWSController
	Verifier signal.TokenVerifier
	Store    store.Store
	Revoker  Revoker
	Metrics  *metrics.Collector
}

func bearerToken(c *gin.Context) string {
	h := c.GetHeader("Authorization")
	if len(h) > 7 && strings.EqualFold(h[:7], "Bearer ") {
		return strings.TrimSpace(h[7:])
	}
	return ""
}

// WSTokenMiddleware picks the handshake token from the token query
// parameter, the Authorization header or the cookie session, in that order.
func WSTokenMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.Query("token")
		if token == "" {
			token = bearerToken(c)
		}
		if token == "" {
			if v, ok := sessions.Default(c).Get(sessionTokenKey).(string); ok {
				token = v
			}
		}
		c.Set(signal.TokenKey, token)
		c.Next()
	}
}

func SetupRouter(ctx context.Context, d Deps) *gin.Engine {
	cfg := d.Config
	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	if cfg.Server.Mode == "debug" {
		r.Use(gin.Logger())
	}
	r.Use(gin.Recovery())

	secret := cfg.Auth.CookieSecret
	if secret == "" {
		secret = cfg.Auth.Secret
	}
	cookies := cookie.NewStore([]byte(secret))
	cookies.Options(sessions.Options{
		Path:     "/",
		MaxAge:   3600 * 24 * 7,
		HttpOnly: true,
		Secure:   cfg.Server.Mode == "release",
		SameSite: http.SameSiteLaxMode,
	})
	r.Use(sessions.Sessions("DebugCollabSessions", cookies))

	h := &handlers{deps: d}

	r.GET("/healthz", h.health)
	r.GET("/metrics", gin.WrapH(d.Metrics.Handler()))

	api := r.Group("/api")

	ws := api.Group("/ws")
	ws.GET("", WSTokenMiddleware(), func(c *gin.Context) {
		log.Debug().Str("module", "adapters.http").Msg("ws endpoint hit")
		d.Signal.HandleSignal(ctx, c)
	})
	ws.POST("/token", h.storeToken)
	ws.DELETE("/token", h.clearToken)

	debug := api.Group("/debug", h.requireUser)
	debug.GET("/sessions", h.listSessions)
	debug.GET("/sessions/:sessionId", h.sessionDetails)

	log.Info().Str("module", "adapters.http").Str("mode", cfg.Server.Mode).Msg("router setup")
	return r
}

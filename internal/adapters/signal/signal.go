package signal

import (
	"context"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/Harshita-Rupani29/MultiModal-Code-Debug-Assistant/internal/app/orch"
	"github.com/Harshita-Rupani29/MultiModal-Code-Debug-Assistant/internal/core"
	"github.com/Harshita-Rupani29/MultiModal-Code-Debug-Assistant/internal/domain"
	"github.com/Harshita-Rupani29/MultiModal-Code-Debug-Assistant/internal/metrics"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

// TokenKey is the gin context key holding the handshake token.
const TokenKey = "ws_token"

// TokenVerifier resolves a handshake token to an identity.
type TokenVerifier interface {
	Verify(ctx context.Context, token string) (domain.Identity, error)
}

type Options struct {
	ReadLimit     int64
	PingPeriod    time.Duration
	PongWait      time.Duration
	WriteWait     time.Duration
	SendBuffer    int
	AllowedOrigin string
}

func (o Options) withDefaults() Options {
	if o.ReadLimit <= 0 {
		o.ReadLimit = 32768
	}
	if o.PongWait <= 0 {
		o.PongWait = 60 * time.Second
	}
	if o.PingPeriod <= 0 || o.PingPeriod >= o.PongWait {
		o.PingPeriod = o.PongWait * 9 / 10
	}
	if o.WriteWait <= 0 {
		o.WriteWait = 5 * time.Second
	}
	if o.SendBuffer <= 0 {
		o.SendBuffer = 64
	}
	return o
}

type SignalWSController struct {
	Orch     *orch.Orchestrator
	Verifier TokenVerifier
	Limiter  *JoinRateLimiter
	Metrics  *metrics.Collector

	opts     Options
	upgrader websocket.Upgrader
}

func NewSignalWSController(o *orch.Orchestrator, v TokenVerifier, limiter *JoinRateLimiter, m *metrics.Collector, opts Options) *SignalWSController {
	opts = opts.withDefaults()
	return &SignalWSController{
		Orch:     o,
		Verifier: v,
		Limiter:  limiter,
		Metrics:  m,
		opts:     opts,
		upgrader: websocket.Upgrader{CheckOrigin: originChecker(opts.AllowedOrigin)},
	}
}

// originChecker accepts requests without an Origin header and, when an
// origin is configured, only that origin.
func originChecker(allowed string) func(r *http.Request) bool {
	allowed = strings.TrimRight(allowed, "/")
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if allowed == "" || allowed == "*" || origin == "" {
			return true
		}
		return strings.EqualFold(strings.TrimRight(origin, "/"), allowed)
	}
}

type WsSignalConn struct {
	conn *websocket.Conn
	send chan core.Frame

	mu     sync.RWMutex
	closed bool
}

func newWsSignalConn(ws *websocket.Conn, buffer int) *WsSignalConn {
	return &WsSignalConn{
		conn: ws,
		send: make(chan core.Frame, buffer),
	}
}

func (c *WsSignalConn) TrySend(f core.Frame) error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.closed {
		return core.ErrClosed
	}
	select {
	case c.send <- f:
	default:
		return core.ErrBackpressure
	}
	return nil
}

func (c *WsSignalConn) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	close(c.send)
	_ = c.conn.Close()
	c.mu.Unlock()
}

// HandleSignal authenticates the handshake, upgrades and starts the pumps.
// A bad token is answered with 401 before any upgrade.
func (ctl *SignalWSController) HandleSignal(ctx context.Context, c *gin.Context) {
	ident, err := ctl.authenticate(c.Request.Context(), c.GetString(TokenKey))
	if err != nil {
		ctl.Metrics.Handshake("rejected")
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Authentication failed: Invalid token."})
		return
	}

	ws, err := ctl.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		ctl.Metrics.Handshake("upgrade_failed")
		log.Error().Err(err).Str("module", "signal").Msg("ws upgrade")
		return
	}
	ws.SetReadLimit(ctl.opts.ReadLimit)

	id := core.ConnID(uuid.NewString())
	conn := newWsSignalConn(ws, ctl.opts.SendBuffer)
	ctx, cancel := context.WithCancel(ctx)
	if err := ctl.Orch.Connect(id, ident, conn, cancel); err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("connect")
		cancel()
		conn.Close()
		return
	}
	if ident.Authenticated {
		ctl.Metrics.Handshake("authenticated")
	} else {
		ctl.Metrics.Handshake("guest")
	}
	log.Info().Str("module", "signal").Str("conn", string(id)).Msg("new WS connection")

	go ctl.writePump(ctx, conn)
	go ctl.readPump(ctx, cancel, id, conn)
}

package app

import (
	"crypto/sha256"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"
	"github.com/unrolled/secure"
	"golang.org/x/crypto/bcrypt"

	"github.com/wardline/wardline/internal/observability"
	"github.com/wardline/wardline/internal/platform/httpx"
)

// APIKeyHeader carries the caller's API key.
const APIKeyHeader = "X-API-Key"

// MiddlewareConfig aggregates dependencies shared by the middleware stack.
type MiddlewareConfig struct {
	Logger  *slog.Logger
	Config  *Config
	Metrics *observability.Metrics
}

// MiddlewareStack installs the wardline middleware chain.
func MiddlewareStack(cfg MiddlewareConfig) []func(http.Handler) http.Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	secureMiddleware := secure.New(secure.Options{
		FrameDeny:             true,
		ContentTypeNosniff:    true,
		BrowserXssFilter:      true,
		ReferrerPolicy:        "strict-origin-when-cross-origin",
		ContentSecurityPolicy: "default-src 'none'; style-src 'unsafe-inline'",
		SSLRedirect:           cfg.Config.IsProduction(),
		SSLProxyHeaders:       map[string]string{"X-Forwarded-Proto": "https"},
		IsDevelopment:         !cfg.Config.IsProduction(),
	})

	timeout := 20 * time.Second
	if cfg.Config != nil && cfg.Config.AppRequestTimeout > 0 {
		timeout = cfg.Config.AppRequestTimeout
	}

	middlewares := []func(http.Handler) http.Handler{
		middleware.RealIP,
		middleware.RequestID,
		middleware.Recoverer,
		middleware.Timeout(timeout),
		func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if err := secureMiddleware.Process(w, r); err != nil {
					logger.Warn("secure headers blocked request", slog.Any("error", err))
					http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
					return
				}
				next.ServeHTTP(w, r)
			})
		},
		middleware.Compress(5),
		httprate.Limit(120, time.Minute, httprate.WithKeyFuncs(httprate.KeyByIP)),
	}
	if cfg.Metrics != nil {
		middlewares = append(middlewares, cfg.Metrics.Middleware)
	}
	return middlewares
}

// APIKeyGuard rejects requests whose API key matches none of the bcrypt
// hashes. With no hashes configured every request passes.
type APIKeyGuard struct {
	hashes [][]byte
	logger *slog.Logger

	// verified remembers digests of keys that already matched so bcrypt runs
	// once per key.
	verified sync.Map
}

// NewAPIKeyGuard builds a guard from bcrypt hashes.
func NewAPIKeyGuard(hashes []string, logger *slog.Logger) *APIKeyGuard {
	if logger == nil {
		logger = slog.Default()
	}
	g := &APIKeyGuard{logger: logger}
	for _, h := range hashes {
		if h = strings.TrimSpace(h); h != "" {
			g.hashes = append(g.hashes, []byte(h))
		}
	}
	return g
}

// Enabled reports whether any key is configured.
func (g *APIKeyGuard) Enabled() bool {
	return g != nil && len(g.hashes) > 0
}

// Middleware enforces the guard.
func (g *APIKeyGuard) Middleware(next http.Handler) http.Handler {
	if !g.Enabled() {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := apiKey(r)
		if key == "" {
			httpx.RespondError(w, httpx.ErrUnauthorized)
			return
		}
		if !g.allow(key) {
			g.logger.Warn("api key rejected", slog.String("path", r.URL.Path), slog.String("remote", r.RemoteAddr))
			httpx.RespondError(w, httpx.ErrForbidden)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (g *APIKeyGuard) allow(key string) bool {
	digest := sha256.Sum256([]byte(key))
	if _, ok := g.verified.Load(digest); ok {
		return true
	}
	for _, hash := range g.hashes {
		if bcrypt.CompareHashAndPassword(hash, []byte(key)) == nil {
			g.verified.Store(digest, struct{}{})
			return true
		}
	}
	return false
}

func apiKey(r *http.Request) string {
	if key := strings.TrimSpace(r.Header.Get(APIKeyHeader)); key != "" {
		return key
	}
	auth := r.Header.Get("Authorization")
	if token, ok := strings.CutPrefix(auth, "Bearer "); ok {
		return strings.TrimSpace(token)
	}
	return ""
}

package handlers

import (
	"io/fs"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"bemine/internal/session"
)

// RouterConfig is what NewRouter needs besides the store.
type RouterConfig struct {
	BaseURL        string
	RequestTimeout time.Duration
	Static         fs.FS
}

// NewRouter wires every route. The event stream stays outside the request
// timeout.
func NewRouter(store *session.Store, log *zap.Logger, cfg RouterConfig) chi.Router {
	if log == nil {
		log = zap.NewNop()
	}
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(RequestLogger(log))
	r.Use(middleware.Recoverer)

	if cfg.Static != nil {
		r.Mount("/static", http.StripPrefix("/static", http.FileServer(http.FS(cfg.Static))))
	}

	homeHandler := NewHomeHandler(store, log, cfg.BaseURL)
	prankHandler := NewPrankHandler(store, log, cfg.BaseURL)

	prankHandler.RegisterStream(r)
	r.Group(func(r chi.Router) {
		if cfg.RequestTimeout > 0 {
			r.Use(middleware.Timeout(cfg.RequestTimeout))
		}
		homeHandler.RegisterRoutes(r)
		prankHandler.RegisterRoutes(r)
	})
	return r
}

// RequestLogger logs one line per request with zap. Successful evade and
// pointer calls arrive several times a second per visitor and log at debug.
func RequestLogger(log *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			defer func() {
				level := zapcore.InfoLevel
				if ww.Status() < http.StatusBadRequest && isFrequent(r.URL.Path) {
					level = zapcore.DebugLevel
				}
				ce := log.Check(level, "request")
				if ce == nil {
					return
				}
				ce.Write(
					zap.String("method", r.Method),
					zap.String("path", r.URL.Path),
					zap.Int("status", ww.Status()),
					zap.Int("bytes", ww.BytesWritten()),
					zap.Duration("duration", time.Since(start)),
					zap.String("request_id", middleware.GetReqID(r.Context())),
				)
			}()
			next.ServeHTTP(ww, r)
		})
	}
}

func isFrequent(path string) bool {
	return strings.HasSuffix(path, "/pointer") || strings.HasSuffix(path, "/evade")
}

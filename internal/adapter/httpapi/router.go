package httpapi

import (
	"net/http"

	"webclone/internal/application/port/input"
	"webclone/internal/application/port/output"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httplog"
)

const DefaultMaxBodyBytes int64 = 64 << 20

type Config struct {
	MaxBodyBytes int64
	// AccessLog enables per-request logging through httplog.
	AccessLog bool
	LogLevel  string
}

type Handler struct {
	capture input.CaptureExecutor
	synth   input.CloneSynthesizer
	logger  output.LoggerPort
	cfg     Config
}

func NewHandler(capture input.CaptureExecutor, synth input.CloneSynthesizer, logger output.LoggerPort, cfg Config) *Handler {
	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = DefaultMaxBodyBytes
	}
	return &Handler{
		capture: capture,
		synth:   synth,
		logger:  logger,
		cfg:     cfg,
	}
}

func (h *Handler) Routes() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	if h.cfg.AccessLog {
		level := h.cfg.LogLevel
		if level == "" {
			level = "info"
		}
		r.Use(httplog.RequestLogger(httplog.NewLogger("webclone", httplog.Options{
			JSON:     true,
			Concise:  true,
			LogLevel: level,
		})))
	}
	r.Use(middleware.Recoverer)

	r.Get("/healthz", h.handleHealth)

	r.Route("/api", func(r chi.Router) {
		r.Use(h.limitBody)
		r.Post("/fetch-site", h.handleFetchSite)
		r.Post("/generate-clone", h.handleGenerateClone)
		r.Post("/preview", h.handlePreview)
	})

	return r
}

func (h *Handler) limitBody(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, h.cfg.MaxBodyBytes)
		next.ServeHTTP(w, r)
	})
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

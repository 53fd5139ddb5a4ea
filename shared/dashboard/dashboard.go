// Package dashboard serves the audit history over a local HTTP API and a
// single Chart.js page.
package dashboard

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
	"github.com/thirukguru/aws-edge-audit/service/storage"
)

// Defaults of the trend and audit list endpoints.
const (
	DefaultTrendDays  = 30
	DefaultAuditLimit = 50
	shutdownTimeout   = 10 * time.Second
)

type handler struct {
	store     storage.Service
	accountID string
}

// NewRouter builds the dashboard routes. accountID, when set, filters the
// trend and audit endpoints unless a request overrides it.
func NewRouter(logger zerolog.Logger, store storage.Service, accountID string) http.Handler {
	h := &handler{store: store, accountID: accountID}

	router := chi.NewRouter()
	router.Use(requestLogger(&logger))
	router.Use(middleware.Recoverer)

	router.Get("/", h.index)
	router.Route("/api", func(r chi.Router) {
		r.Get("/trends", h.trends)
		r.Get("/audits", h.audits)
		r.Get("/findings", h.findings)
	})
	return router
}

// Serve listens on addr until ctx is cancelled, then shuts down gracefully.
func Serve(ctx context.Context, logger zerolog.Logger, addr string, handler http.Handler) error {
	server := &http.Server{Addr: addr, Handler: handler, ReadHeaderTimeout: 5 * time.Second}

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info().Str("addr", addr).Msg("starting dashboard")
		serverErrors <- server.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		logger.Info().Msg("shutdown initiated")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error().Err(err).Msg("graceful shutdown failed")
			return server.Close()
		}
		return nil
	}
}

func (h *handler) index(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte(indexPage))
}

func (h *handler) trends(w http.ResponseWriter, r *http.Request) {
	days, err := intParam(r, "days", DefaultTrendDays)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	points, err := h.store.GetTrends(r.Context(), h.account(r), days)
	if points == nil {
		points = []storage.TrendPoint{}
	}
	writeJSON(w, r, points, err)
}

func (h *handler) audits(w http.ResponseWriter, r *http.Request) {
	limit, err := intParam(r, "limit", DefaultAuditLimit)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	audits, err := h.store.GetRecentAudits(r.Context(), h.account(r), limit)
	if audits == nil {
		audits = []storage.AuditSummary{}
	}
	writeJSON(w, r, audits, err)
}

func (h *handler) findings(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("audit_id")
	if raw == "" {
		http.Error(w, "audit_id is required", http.StatusBadRequest)
		return
	}
	auditID, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		http.Error(w, "audit_id must be an integer", http.StatusBadRequest)
		return
	}
	findings, err := h.store.ListFindings(r.Context(), auditID)
	if findings == nil {
		findings = []storage.FindingSnapshot{}
	}
	writeJSON(w, r, findings, err)
}

func (h *handler) account(r *http.Request) string {
	if v := r.URL.Query().Get("account_id"); v != "" {
		return v
	}
	return h.accountID
}

func intParam(r *http.Request, name string, def int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v <= 0 {
		return 0, errors.New(name + " must be a positive integer")
	}
	return v, nil
}

func writeJSON(w http.ResponseWriter, r *http.Request, v any, err error) {
	if err != nil {
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("dashboard query failed")
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func requestLogger(logger *zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			start := time.Now()
			reqLogger := logger.With().
				Str("method", req.Method).
				Str("path", req.URL.Path).
				Str("remote_ip", req.RemoteAddr).
				Logger()

			ww := middleware.NewWrapResponseWriter(w, req.ProtoMajor)
			next.ServeHTTP(ww, req.WithContext(reqLogger.WithContext(req.Context())))

			reqLogger.Debug().Int("status", ww.Status()).Dur("duration", time.Since(start)).Msg("request")
		})
	}
}

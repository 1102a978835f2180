package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
	"github.com/rs/zerolog"

	"surebet-scanner/internal/config"
	"surebet-scanner/internal/report"
	"surebet-scanner/internal/version"
)

// Source is the scan cache the server reads and refreshes.
type Source interface {
	Latest() []report.Report
	LatestFor(sport string) (report.Report, bool)
	Updated() time.Time
	ScanAll(ctx context.Context) (map[string]report.Report, error)
}

// Server exposes the latest reports over HTTP.
type Server struct {
	cfg    config.APIConfig
	source Source
	logger zerolog.Logger

	refreshing atomic.Bool
	// base is the lifetime context for background refreshes.
	base    context.Context
	wg      sync.WaitGroup
	errMu   sync.RWMutex
	lastErr string
}

// NewServer constructs the API server.
func NewServer(cfg config.APIConfig, source Source, logger zerolog.Logger) *Server {
	return &Server{
		cfg:    cfg,
		source: source,
		logger: logger.With().Str("component", "api").Logger(),
		base:   context.Background(),
	}
}

// Handler builds the routed, CORS-wrapped handler.
func (s *Server) Handler() http.Handler {
	router := mux.NewRouter()

	api := router.PathPrefix("/api").Subrouter()
	api.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)
	api.HandleFunc("/surebets", s.handleSurebets).Methods(http.MethodGet)
	api.HandleFunc("/matches", s.handleMatches).Methods(http.MethodGet)
	api.HandleFunc("/refresh", s.handleRefresh).Methods(http.MethodPost)

	origins := s.cfg.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	c := cors.New(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"*"},
	})
	return c.Handler(router)
}

// Serve listens until ctx is cancelled, then shuts down gracefully.
func (s *Server) Serve(ctx context.Context) error {
	s.base = ctx
	srv := &http.Server{
		Addr:         s.cfg.Addr,
		Handler:      s.Handler(),
		ReadTimeout:  s.cfg.ReadTimeout,
		WriteTimeout: s.cfg.WriteTimeout,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info().Str("addr", s.cfg.Addr).Msg("api listening")
		errCh <- srv.ListenAndServe()
	}()
	if s.cfg.ScanOnStart {
		s.Refresh()
	}

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		s.logger.Error().Err(err).Msg("api shutdown error")
	}
	s.wg.Wait()
	return nil
}

// Refresh starts a background scan unless one is already running. It
// reports whether a new scan was started.
func (s *Server) Refresh() bool {
	if !s.refreshing.CompareAndSwap(false, true) {
		return false
	}
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer s.refreshing.Store(false)

		_, err := s.source.ScanAll(s.base)
		s.errMu.Lock()
		s.lastErr = ""
		if err != nil {
			s.lastErr = err.Error()
		}
		s.errMu.Unlock()
		if err != nil {
			s.logger.Error().Err(err).Msg("refresh finished with errors")
		}
	}()
	return true
}

// Wait blocks until a running refresh has finished.
func (s *Server) Wait() {
	s.wg.Wait()
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	matches, surebets := 0, 0
	for _, rep := range s.source.Latest() {
		matches += rep.TotalMatches
		surebets += len(rep.Surebets)
	}

	var updated *time.Time
	if t := s.source.Updated(); !t.IsZero() {
		updated = &t
	}
	s.errMu.RLock()
	lastErr := s.lastErr
	s.errMu.RUnlock()

	writeJSON(w, http.StatusOK, map[string]any{
		"status":     "ok",
		"version":    version.String(),
		"updated_at": updated,
		"refreshing": s.refreshing.Load(),
		"matches":    matches,
		"surebets":   surebets,
		"error":      lastErr,
	})
}

func (s *Server) handleSurebets(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	minProfit := 0.0
	if raw := query.Get("min_profit"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil || v < 0 {
			writeError(w, http.StatusBadRequest, "min_profit must be a non-negative number")
			return
		}
		minProfit = v
	}

	reports, ok := s.reports(w, query.Get("sport"))
	if !ok {
		return
	}
	surebets := make([]report.SurebetRecord, 0)
	for _, rep := range reports {
		surebets = append(surebets, rep.Filter(minProfit)...)
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"generated_at": generatedAt(reports),
		"count":        len(surebets),
		"surebets":     surebets,
	})
}

func (s *Server) handleMatches(w http.ResponseWriter, r *http.Request) {
	reports, ok := s.reports(w, r.URL.Query().Get("sport"))
	if !ok {
		return
	}
	type sportMatch struct {
		Sport string `json:"sport"`
		report.MatchView
	}
	matches := make([]sportMatch, 0)
	for _, rep := range reports {
		for _, m := range rep.Matches {
			matches = append(matches, sportMatch{Sport: rep.Sport, MatchView: m})
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"generated_at": generatedAt(reports),
		"count":        len(matches),
		"matches":      matches,
	})
}

func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	status := "triggered"
	if !s.Refresh() {
		status = "already running"
	}
	writeJSON(w, http.StatusAccepted, map[string]string{"status": status})
}

// reports selects the cached reports, answering 503 while the cache is
// empty and 404 for a sport without a report.
func (s *Server) reports(w http.ResponseWriter, sport string) ([]report.Report, bool) {
	if sport != "" {
		rep, ok := s.source.LatestFor(sport)
		if !ok {
			if len(s.source.Latest()) == 0 {
				writeError(w, http.StatusServiceUnavailable, "cache not ready")
			} else {
				writeError(w, http.StatusNotFound, "no report for sport "+sport)
			}
			return nil, false
		}
		return []report.Report{rep}, true
	}
	reports := s.source.Latest()
	if len(reports) == 0 {
		writeError(w, http.StatusServiceUnavailable, "cache not ready")
		return nil, false
	}
	return reports, true
}

func generatedAt(reports []report.Report) time.Time {
	var latest time.Time
	for _, r := range reports {
		if r.GeneratedAt.After(latest) {
			latest = r.GeneratedAt
		}
	}
	return latest
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}

// Package server exposes the analysis engine over HTTP: batch analysis,
// single-bond quote validation, health, and Prometheus metrics.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"bond-rv-analyzer/internal/config"
	"bond-rv-analyzer/internal/engine"
	"bond-rv-analyzer/internal/marketdata"
	"bond-rv-analyzer/internal/metrics"
	"bond-rv-analyzer/internal/service"
	"bond-rv-analyzer/internal/version"
)

const maxRequestBody = 1 << 20 // 1 MiB

var decimalBps = decimal.NewFromInt(10000)

// Server is the HTTP front end.
type Server struct {
	cfg      config.ServerConfig
	analyzer *service.Analyzer
	resolver *marketdata.Resolver
	metrics  *metrics.Metrics
	logger   zerolog.Logger
	router   chi.Router
}

// New wires the router, middleware, and handlers.
func New(cfg config.ServerConfig, analyzer *service.Analyzer, resolver *marketdata.Resolver, m *metrics.Metrics, logger zerolog.Logger) *Server {
	s := &Server{
		cfg:      cfg,
		analyzer: analyzer,
		resolver: resolver,
		metrics:  m,
		logger:   logger.With().Str("component", "http").Logger(),
	}
	s.router = s.buildRouter()
	return s
}

// Router exposes the handler tree, mainly for tests.
func (s *Server) Router() http.Handler {
	return s.router
}

// Run serves until ctx is cancelled, then drains connections within the
// configured shutdown window.
func (s *Server) Run(ctx context.Context) error {
	httpSrv := &http.Server{
		Addr:         s.cfg.Addr,
		Handler:      s.router,
		ReadTimeout:  s.cfg.ReadTimeout,
		WriteTimeout: s.cfg.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info().Str("addr", s.cfg.Addr).Msg("HTTP 服务启动")
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	s.logger.Info().Msg("shutting down HTTP server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http shutdown: %w", err)
	}
	return nil
}

func (s *Server) buildRouter() chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	origins := []string{"*"}
	if len(s.cfg.AllowedOrigins) > 0 {
		origins = s.cfg.AllowedOrigins
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders: []string{"X-Request-ID"},
		MaxAge:         300,
	}))

	r.Get("/healthz", s.handleHealth)
	r.Method(http.MethodGet, "/metrics", s.metrics.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/analyze", s.instrument("analyze", s.handleAnalyze))
		r.Post("/bonds", s.instrument("bonds", s.handleValidateBond))
	})

	return r
}

func (s *Server) instrument(route string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next(w, r)
		s.metrics.ObserveRequest(route, time.Since(start))
	}
}

// analyzeRequest is the analyze payload: a bond batch plus optional
// caller-supplied market data overriding the server's tables.
type analyzeRequest struct {
	Bonds      []engine.Bond      `json:"bonds"`
	MarketData *marketdata.Bundle `json:"market_data,omitempty"`
}

type analyzeResponse struct {
	Results    []service.Outcome `json:"results"`
	DataSource string            `json:"data_source"`
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	var req analyzeRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if len(req.Bonds) == 0 {
		writeError(w, http.StatusBadRequest, "bonds list is empty")
		return
	}

	outcomes := s.analyzer.AnalyzeBatch(r.Context(), req.Bonds, req.MarketData)

	source := s.batchSource(req.MarketData)
	s.logger.Info().Int("bonds", len(req.Bonds)).Str("data_source", source).Msg("batch analyzed")
	writeJSON(w, http.StatusOK, analyzeResponse{Results: outcomes, DataSource: source})
}

func (s *Server) batchSource(override *marketdata.Bundle) string {
	if override != nil && !override.Empty() {
		return marketdata.SourceRequest
	}
	_, source := s.resolver.Snapshot()
	return source
}

type validateBondResponse struct {
	Status    string `json:"status"`
	Name      string `json:"name"`
	Benchmark string `json:"benchmark,omitempty"`
	SpreadBps string `json:"spread_bps,omitempty"`
}

// handleValidateBond accepts a single bond and checks its quote against
// the spread grammar without running the full analysis.
func (s *Server) handleValidateBond(w http.ResponseWriter, r *http.Request) {
	var bond engine.Bond
	if err := decodeJSON(w, r, &bond); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if bond.Name == "" {
		writeError(w, http.StatusBadRequest, "bond name is required")
		return
	}
	if bond.Tenor <= 0 {
		writeError(w, http.StatusBadRequest, "tenor must be a positive number of years")
		return
	}

	resp := validateBondResponse{Status: "accepted", Name: bond.Name}
	if engine.HasSofrEquivalentMarker(bond) {
		resp.Benchmark = string(engine.BenchmarkSOFR)
	} else {
		benchmark, spread, err := engine.ParseSpread(bond.SpreadText)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		resp.Benchmark = string(benchmark)
		resp.SpreadBps = spread.Mul(decimalBps).Round(0).String()
	}

	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	bundle, source := s.resolver.Snapshot()
	writeJSON(w, http.StatusOK, map[string]any{
		"status":      "ok",
		"version":     version.Version,
		"data_source": source,
		"curves":      len(bundle.FairValueCurves),
	})
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBody)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("invalid request body: %w", err)
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

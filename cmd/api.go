package main

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/sells-group/buyer-match/internal/dedupe"
	"github.com/sells-group/buyer-match/internal/geo"
	"github.com/sells-group/buyer-match/internal/match"
	"github.com/sells-group/buyer-match/internal/metrics"
	"github.com/sells-group/buyer-match/internal/model"
	"github.com/sells-group/buyer-match/internal/servicefit"
	"github.com/sells-group/buyer-match/internal/store"
)

type api struct {
	env *env
}

// newRouter builds the HTTP API over e.
func newRouter(e *env, allowedOrigins []string) http.Handler {
	a := &api{env: e}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))
	r.Use(observe)

	r.Get("/health", a.health)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/v1", func(r chi.Router) {
		r.Post("/geography/normalize", a.normalize)
		r.Post("/score/geography", a.scoreGeography)
		r.Post("/score/service", a.scoreService)

		r.Route("/deals/{dealID}", func(r chi.Router) {
			r.Post("/score", a.scoreDeal)
			r.Post("/decisions", a.recordDecision)
			r.Get("/adjustments", a.getAdjustments)
			r.Post("/adjustments", a.recalculate)
			r.Delete("/adjustments", a.resetAdjustments)
		})

		r.Route("/trackers/{trackerID}/duplicates", func(r chi.Router) {
			r.Get("/", a.findDuplicates)
			r.Post("/merge", a.mergeDuplicates)
		})
	})
	return r
}

// observe records request latency by route pattern.
func observe(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := r.URL.Path
		if rc := chi.RouteContext(r.Context()); rc != nil && rc.RoutePattern() != "" {
			route = rc.RoutePattern()
		}
		metrics.HTTPDuration.
			WithLabelValues(route, r.Method, strconv.Itoa(ww.Status())).
			Observe(time.Since(start).Seconds())
	})
}

type normalizeRequest struct {
	Entries []string `json:"entries"`
}

// health reports store reachability and, when AI scoring is on, the state
// of its circuit breaker.
func (a *api) health(w http.ResponseWriter, r *http.Request) {
	body := map[string]string{"status": "ok"}
	if a.env.Store != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := a.env.Store.Ping(ctx); err != nil {
			zap.L().Warn("api: store ping failed", zap.Error(err))
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
			return
		}
	}
	if a.env.Semantic != nil {
		body["ai_circuit"] = a.env.Semantic.CircuitState().String()
	}
	writeJSON(w, http.StatusOK, body)
}

func (a *api) normalize(w http.ResponseWriter, r *http.Request) {
	var req normalizeRequest
	if !decode(w, r, &req) {
		return
	}
	writeJSON(w, http.StatusOK, normalizeResult{
		States:    geo.Normalize(req.Entries...),
		Provinces: geo.NormalizeProvinces(req.Entries...),
	})
}

func (a *api) scoreGeography(w http.ResponseWriter, r *http.Request) {
	var req geoScoreRequest
	if !decode(w, r, &req) {
		return
	}
	writeJSON(w, http.StatusOK, a.env.Geo.ScoreBuyer(req.Buyer, req.DealStates, max(req.LocationCount, 1)))
}

func (a *api) scoreService(w http.ResponseWriter, r *http.Request) {
	var in servicefit.Input
	if !decode(w, r, &in) {
		return
	}
	writeJSON(w, http.StatusOK, a.env.Service.Score(r.Context(), in))
}

func (a *api) scoreDeal(w http.ResponseWriter, r *http.Request) {
	matches, err := a.env.Match.ScoreDeal(r.Context(), chi.URLParam(r, "dealID"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, matches)
}

type decisionRequest struct {
	BuyerID string `json:"buyer_id"`
	model.Decision
}

func (a *api) recordDecision(w http.ResponseWriter, r *http.Request) {
	var req decisionRequest
	if !decode(w, r, &req) {
		return
	}
	if req.BuyerID == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("buyer_id is required"))
		return
	}
	adj, err := a.env.Match.RecordDecision(r.Context(), req.BuyerID, chi.URLParam(r, "dealID"), req.Decision)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, adj)
}

func (a *api) getAdjustments(w http.ResponseWriter, r *http.Request) {
	adj, err := a.env.Adjust.Get(r.Context(), chi.URLParam(r, "dealID"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, adj)
}

func (a *api) recalculate(w http.ResponseWriter, r *http.Request) {
	adj, err := a.env.Adjust.Recalculate(r.Context(), chi.URLParam(r, "dealID"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, adj)
}

func (a *api) resetAdjustments(w http.ResponseWriter, r *http.Request) {
	if err := a.env.Adjust.Reset(r.Context(), chi.URLParam(r, "dealID")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (a *api) findDuplicates(w http.ResponseWriter, r *http.Request) {
	groups, err := a.env.Dedupe.FindDuplicateGroups(r.Context(), chi.URLParam(r, "trackerID"))
	if err != nil {
		writeError(w, err)
		return
	}
	if groups == nil {
		groups = []dedupe.Group{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"groups": groups})
}

func (a *api) mergeDuplicates(w http.ResponseWriter, r *http.Request) {
	groups, err := a.env.Dedupe.FindDuplicateGroups(r.Context(), chi.URLParam(r, "trackerID"))
	if err != nil {
		writeError(w, err)
		return
	}
	report := a.env.Dedupe.Merge(r.Context(), groups)
	writeJSON(w, http.StatusOK, report)
}

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid request body"))
		return false
	}
	return true
}

func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorBody("not found"))
	case errors.Is(err, match.ErrInvalidDecision):
		writeJSON(w, http.StatusBadRequest, errorBody("action must be approve or pass"))
	default:
		zap.L().Error("api: request failed", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
	}
}

func errorBody(msg string) map[string]string {
	return map[string]string{"error": msg}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck
}

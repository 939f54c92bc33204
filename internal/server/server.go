// Package server is the thin HTTP adapter over the scoring engine. It speaks
// the wire contract the frontend depends on and adds nothing else: no auth,
// no rate limiting, no persistence.
package server

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/placepulse/livability/internal/aggregate"
	"github.com/placepulse/livability/internal/engine"
	"github.com/placepulse/livability/internal/model"
)

// New builds the router.
func New(eng *engine.Engine, allowedOrigins []string) http.Handler {
	r := chi.NewRouter()
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	}))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Get("/v1/pillars", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string][]string{"pillars": eng.Pillars()})
	})

	r.Post("/v1/score", func(w http.ResponseWriter, req *http.Request) {
		var sr model.ScoreRequest
		if err := json.NewDecoder(req.Body).Decode(&sr); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
			return
		}

		result, err := eng.Score(req.Context(), &sr)
		if err != nil {
			status := http.StatusInternalServerError
			// Caller-contract violations map to 400; data degradation never
			// reaches here (it is absorbed into confidence metadata).
			if eris.Is(err, aggregate.ErrInvalidAllocation) || eris.Is(err, aggregate.ErrUnknownPillar) || eris.Is(err, engine.ErrInvalidArea) {
				status = http.StatusBadRequest
			}
			if status == http.StatusInternalServerError {
				zap.L().Error("score request failed", zap.Error(err))
			}
			writeJSON(w, status, map[string]string{"error": err.Error()})
			return
		}

		writeJSON(w, http.StatusOK, result)
	})

	return r
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zap.L().Warn("write response failed", zap.Error(err))
	}
}

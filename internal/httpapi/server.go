// Package httpapi exposes a read-only observability surface for the
// assistant process: slot states, budget accounting, and prometheus
// metrics. It owns no request-processing endpoints.
package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"assistd/pkg/types"
)

// Service defines the methods required by the HTTP layer.
type Service interface {
	Status() types.StatusResponse
}

// NewRouter builds the chi router for the sidecar.
func NewRouter(svc Service, models []types.Model, log zerolog.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET"},
	}))
	r.Use(MetricsMiddleware)

	// Healthz godoc
	// @Summary Liveness probe
	// @Produce plain
	// @Success 200 {string} string "ok"
	// @Router /healthz [get]
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	// Status godoc
	// @Summary Slot table and budget accounting
	// @Produce json
	// @Success 200 {object} types.StatusResponse
	// @Router /status [get]
	r.Get("/status", func(w http.ResponseWriter, _ *http.Request) {
		st := svc.Status()
		slotMemUsed.Set(float64(st.UsedMB))
		writeJSON(w, log, st)
	})

	// Models godoc
	// @Summary Discovered model registry
	// @Produce json
	// @Success 200 {object} types.ModelsResponse
	// @Router /models [get]
	r.Get("/models", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, log, types.ModelsResponse{Models: models})
	})

	r.Handle("/metrics", promhttp.Handler())
	MountSwagger(r)
	return r
}

func writeJSON(w http.ResponseWriter, log zerolog.Logger, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("encode response")
	}
}

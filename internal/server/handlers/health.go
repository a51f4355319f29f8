package handlers

import (
	"log/slog"
	"net/http"

	"github.com/information-sharing-networks/blog-demo/internal/blog"
	"github.com/information-sharing-networks/blog-demo/internal/logger"
	"github.com/information-sharing-networks/blog-demo/internal/store"
)

// HandleHealth godoc
//
//	@Summary		Health (liveness) Check
//	@Description	Check if the HTTP service is alive and responding.
//	@Tags			Common
//	@Produce		plain
//
//	@Success		200	{string}	string	"OK"
//
//	@Router			/health/live [get]
func HandleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

// ReadinessResponse is returned by /health/ready
type ReadinessResponse struct {
	Status  string `json:"status" example:"ready"`
	Backend string `json:"backend" example:"postgres"`
	Reason  string `json:"reason,omitempty" example:"database unavailable"`
}

// HandleReadiness godoc
//
//	@Summary		Readiness Check
//	@Description	Checks the service can reach its store. Load balancers should stop routing to the instance on 503.
//	@Tags			Common
//	@Produce		json
//	@Success		200	{object}	ReadinessResponse	"status ready"
//	@Failure		503	{object}	ReadinessResponse	"status not ready"
//	@Router			/health/ready [get]
func HandleReadiness(s store.PostStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := s.Ping(r.Context()); err != nil {
			logger.ContextRequestLogger(r.Context()).Warn("readiness check failed",
				slog.String("backend", s.Backend()),
				slog.String("error", err.Error()),
			)
			blog.RespondWithJSONPayload(w, http.StatusServiceUnavailable, ReadinessResponse{
				Status:  "not ready",
				Backend: s.Backend(),
				Reason:  "database unavailable",
			})
			return
		}

		blog.RespondWithJSONPayload(w, http.StatusOK, ReadinessResponse{
			Status:  "ready",
			Backend: s.Backend(),
		})
	}
}

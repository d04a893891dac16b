package system

import (
	"net/http"
	"rentwheels/infras/postgres"
	"rentwheels/transport/http/response"

	"github.com/go-chi/chi/v5"

	"github.com/rs/zerolog/log"
)

// State mirrors the server lifecycle so the health endpoint can report
// shutdown progress without importing the transport package.
type State int

const (
	StateReady State = iota + 1
	StateInGracePeriod
	StateInCleanupPeriod
)

type Handler struct {
	db    *postgres.Connection
	state func() State
}

func New(db *postgres.Connection) Handler {
	return Handler{
		db: db,
		state: func() State {
			return StateReady
		},
	}
}

// BindState points the health endpoint at the live server state. Called by
// the HTTP server during setup.
func (h *Handler) BindState(state func() State) {
	h.state = state
}

func (h *Handler) Router(router chi.Router) {
	router.Get("/health", h.HealthCheck)
}

// HealthCheck reports whether the service can take traffic.
// @Summary Health check
// @Description Report service health. Returns 503 while shutting down or when the database is unreachable.
// @Tags System
// @Accept json
// @Produce json
// @Success 200 {object} response.Message "OK"
// @Failure 503 {object} response.Message
// @Router /v1/health [get]
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	if h.state() != StateReady {
		response.WithPreparingShutdown(w)

		return
	}

	if err := h.db.Read.PingContext(r.Context()); err != nil {
		log.Error().Err(err).Msg("health check failed to ping database")

		response.WithUnhealthy(w)

		return
	}

	response.WithMessage(w, http.StatusOK, "OK")
}

package stats

import (
	"net/http"
	"rentwheels/infras/otel"
	"rentwheels/internal/domains/stats/service"
	"rentwheels/shared/constant"
	"rentwheels/transport/http/response"

	"github.com/go-chi/chi/v5"

	"github.com/rs/zerolog/log"
)

type Handler struct {
	service service.Stats
	otel    otel.Otel
}

func New(service service.Stats, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/stats", func(routerGroup chi.Router) {
		routerGroup.Get("/summary", handler.GetSummary)
		routerGroup.Get("/mysummary", handler.GetMySummary)
		routerGroup.Get("/export", handler.ExportSummary)
	})
}

// GetSummary returns the dashboard aggregate.
// @Summary Get dashboard statistics
// @Description Aggregate bookings, payments and fleet utilization for the admin dashboard. All amounts are in minor currency units.
// @Tags Stats
// @Accept json
// @Produce json
// @Success 200 {object} response.Data[dto.SummaryResponse] "Dashboard summary"
// @Failure 500 {object} response.Error
// @Router /v1/stats/summary [get]
// @Security BearerAuth
func (handler *Handler) GetSummary(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetSummary")
	defer scope.End()

	summary, err := handler.service.Summary(ctx)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get stats summary")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Stats summary retrieved successfully")

	response.WithJSON(w, http.StatusOK, summary)
}

// GetMySummary returns the calling user's dashboard aggregate.
// @Summary Get my dashboard statistics
// @Description Aggregate the calling user's bookings and payments for the user dashboard. All amounts are in minor currency units.
// @Tags Stats
// @Accept json
// @Produce json
// @Success 200 {object} response.Data[dto.MySummaryResponse] "User dashboard summary"
// @Failure 500 {object} response.Error
// @Router /v1/stats/mysummary [get]
// @Security BearerAuth
func (handler *Handler) GetMySummary(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetMySummary")
	defer scope.End()

	userID, _ := ctx.Value(constant.ContextKeyUserID).(string)

	summary, err := handler.service.MySummary(ctx, userID)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get user stats summary")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("User stats summary retrieved successfully")

	response.WithJSON(w, http.StatusOK, summary)
}

// ExportSummary downloads the dashboard aggregate as CSV.
// @Summary Export dashboard statistics
// @Description Download the dashboard summary as a CSV file for offline reporting.
// @Tags Stats
// @Accept json
// @Produce text/csv
// @Success 200 {file} binary "Summary CSV"
// @Failure 500 {object} response.Error
// @Router /v1/stats/export [get]
// @Security BearerAuth
func (handler *Handler) ExportSummary(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".ExportSummary")
	defer scope.End()

	doc, fileName, err := handler.service.ExportCSV(ctx)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to export stats summary")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Stats summary exported successfully")

	response.WithFile(w, constant.ContentTypeCSV, fileName, doc)
}

package dashboard

import (
	"net/http"
	"pms/infras/otel"
	"pms/internal/domains/dashboard/model/dto"
	"pms/internal/domains/dashboard/service"
	"pms/shared/constant"
	"pms/shared/failure"
	"pms/shared/timezone"
	"pms/shared/validator"
	"pms/transport/http/response"

	"github.com/go-chi/chi/v5"

	"github.com/rs/zerolog/log"
)

type Handler struct {
	service service.Dashboard
	otel    otel.Otel
}

func New(service service.Dashboard, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/dashboard", func(routerGroup chi.Router) {
		routerGroup.Get("/", handler.GetDashboard)
		routerGroup.Post("/reports", handler.ExportReport)
	})
}

// GetDashboard returns the front desk counters of a day.
// @Summary Get dashboard
// @Description New bookings, arrivals, departures, invoiced amount and occupancy of a day. Defaults to today.
// @Tags Dashboard
// @Produce json
// @Param date query string false "Day (YYYY-MM-DD)"
// @Success 200 {object} response.Data[dto.DashboardResponse] "Dashboard"
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/dashboard [get]
func (handler *Handler) GetDashboard(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetDashboard")
	defer scope.End()

	day := timezone.Today()

	if value := r.URL.Query().Get(constant.RequestParamDate); value != "" {
		parsed, err := timezone.ParseDate(value)
		if err != nil {
			scope.TraceError(err)
			response.WithError(w, failure.BadRequestFromString("date must use the YYYY-MM-DD format"))

			return
		}

		day = parsed
	}

	dashboard, err := handler.service.Get(ctx, day)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get dashboard")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, dashboard)
}

// ExportReport builds the booking spreadsheet of a period and returns where it was stored.
// @Summary Export bookings report
// @Description Bookings with checkin in [from, to) as an xlsx workbook uploaded to object storage.
// @Tags Dashboard
// @Accept json
// @Produce json
// @Param request body dto.ReportRequest true "Report period"
// @Success 201 {object} response.Data[dto.ReportResponse] "Report location"
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/dashboard/reports [post]
func (handler *Handler) ExportReport(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".ExportReport")
	defer scope.End()

	req := dto.ReportRequest{}

	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	report, err := handler.service.ExportReport(ctx, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to export report")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusCreated, report)
}

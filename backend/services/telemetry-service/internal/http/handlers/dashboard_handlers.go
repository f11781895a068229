package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"water360/backend/libs/httpx"
	"water360/backend/services/telemetry-service/internal/service"
)

// DashboardHandlers serves the aggregate views.
type DashboardHandlers struct {
	service *service.ReadingService
	logger  *zap.Logger
}

// NewDashboardHandlers returns handler struct.
func NewDashboardHandlers(svc *service.ReadingService, logger *zap.Logger) *DashboardHandlers {
	return &DashboardHandlers{service: svc, logger: logger}
}

// Stats handles GET /data/dashboard/stats.
func (h *DashboardHandlers) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.service.DashboardStats(r.Context())
	if err != nil {
		writeServiceError(w, h.logger, "load dashboard stats", err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, stats)
}

// Series handles GET /data/series.
func (h *DashboardHandlers) Series(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	query := service.SeriesQuery{
		Metric:    queryValue(q, "metric", "dataType"),
		Location:  q.Get("location"),
		StartDate: queryValue(q, "start_date", "startDate"),
		EndDate:   queryValue(q, "end_date", "endDate"),
	}
	points, err := h.service.TimeSeries(r.Context(), query)
	if err != nil {
		writeServiceError(w, h.logger, "load time series", err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"metric":   query.Metric,
		"location": query.Location,
		"data":     points,
	})
}

// Compare handles GET /data/series/compare.
func (h *DashboardHandlers) Compare(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	query := service.CompareQuery{
		Metric:    queryValue(q, "metric", "dataType"),
		Locations: queryList(r, "locations"),
		StartDate: queryValue(q, "start_date", "startDate"),
		EndDate:   queryValue(q, "end_date", "endDate"),
	}
	series, err := h.service.CompareSeries(r.Context(), query)
	if err != nil {
		writeServiceError(w, h.logger, "load comparison", err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"metric": query.Metric,
		"data":   series,
	})
}

// HighestValues handles GET /data/highest-values.
func (h *DashboardHandlers) HighestValues(w http.ResponseWriter, r *http.Request) {
	highest, err := h.service.HighestValues(r.Context())
	if err != nil {
		writeServiceError(w, h.logger, "load highest values", err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, highest)
}

// Warnings handles GET /data/warnings.
func (h *DashboardHandlers) Warnings(w http.ResponseWriter, r *http.Request) {
	warnings, err := h.service.Warnings(r.Context())
	if err != nil {
		writeServiceError(w, h.logger, "evaluate warnings", err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, warnings)
}

// Correlation handles GET /data/correlation.
func (h *DashboardHandlers) Correlation(w http.ResponseWriter, r *http.Request) {
	data, err := h.service.Correlation(r.Context(), r.URL.Query().Get("location"))
	if err != nil {
		writeServiceError(w, h.logger, "load correlation data", err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, data)
}

// Insights handles GET /data/insights.
func (h *DashboardHandlers) Insights(w http.ResponseWriter, r *http.Request) {
	insights, err := h.service.SummaryInsights(r.Context())
	if err != nil {
		writeServiceError(w, h.logger, "load summary insights", err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, insights)
}

// Recent handles GET /data/recent.
func (h *DashboardHandlers) Recent(w http.ResponseWriter, r *http.Request) {
	rows, err := h.service.Recent(r.Context())
	if err != nil {
		writeServiceError(w, h.logger, "load recent readings", err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, listResponse{Count: len(rows), Data: rows})
}

// Last24Hours handles GET /data/last-24-hours.
func (h *DashboardHandlers) Last24Hours(w http.ResponseWriter, r *http.Request) {
	rows, err := h.service.Last24Hours(r.Context())
	if err != nil {
		writeServiceError(w, h.logger, "load last 24 hours", err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, listResponse{Count: len(rows), Data: rows})
}

// Locations handles GET /data/locations.
func (h *DashboardHandlers) Locations(w http.ResponseWriter, r *http.Request) {
	counts, err := h.service.LocationCounts(r.Context())
	if err != nil {
		writeServiceError(w, h.logger, "load locations", err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, counts)
}

package analytics

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/oncentra/registry/pkg/auth"
	"github.com/oncentra/registry/pkg/cache"
	"github.com/oncentra/registry/pkg/common/apperr"
	"github.com/oncentra/registry/pkg/common/logger"
	"github.com/oncentra/registry/pkg/common/models"
)

type Handler struct {
	service *Service
	cache   *cache.Service
}

func NewHandler(service *Service, cacheSvc *cache.Service) *Handler {
	return &Handler{service: service, cache: cacheSvc}
}

// Register mounts the analytics routes. The parent router carries authn plus
// the analytics-view permission.
func (h *Handler) Register(r *mux.Router) {
	r.HandleFunc("/dashboard/executive", h.handleExecutiveDashboard).Methods(http.MethodGet)
	r.HandleFunc("/aggregates", h.handleAggregates).Methods(http.MethodGet)
	r.HandleFunc("/predictions/incidence", h.handlePredictIncidence).Methods(http.MethodGet)
	r.HandleFunc("/research-impact", h.handleResearchImpact).Methods(http.MethodGet)

	r.HandleFunc("/cache/invalidate", h.handleInvalidateAll).Methods(http.MethodPost)
	r.HandleFunc("/cache/invalidate/center/{id}", h.handleInvalidateCenter).Methods(http.MethodPost)
	r.HandleFunc("/cache/invalidate/patient/{id}", h.handleInvalidatePatient).Methods(http.MethodPost)
}

// RegisterPopulation mounts the population-health routes.
func (h *Handler) RegisterPopulation(r *mux.Router) {
	r.HandleFunc("/geographic", h.handleGeographic).Methods(http.MethodGet)
}

func (h *Handler) handleExecutiveDashboard(w http.ResponseWriter, r *http.Request) {
	centerID := r.URL.Query().Get("center_id")
	timeRange := r.URL.Query().Get("time_range")

	claims := auth.ClaimsFromContext(r.Context())
	if claims == nil {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	// Center-scoped callers only see their own center's dashboard.
	if !auth.HasPermission(claims.Permissions, auth.PermAdminAll) && centerID == "" {
		centerID = claims.CenterID.String()
	}

	dashboard, err := h.service.ExecutiveDashboard(r.Context(), centerID, timeRange)
	if err != nil {
		logger.Log.WithError(err).Error("failed to build executive dashboard")
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, dashboard)
}

func (h *Handler) handleAggregates(w http.ResponseWriter, r *http.Request) {
	query := models.AggregateQuery{
		CenterID:   r.URL.Query().Get("center_id"),
		CancerType: r.URL.Query().Get("cancer_type"),
		Sex:        r.URL.Query().Get("sex"),
		AgeBand:    r.URL.Query().Get("age_band"),
		GroupBy:    r.URL.Query().Get("group_by"),
	}
	query.YearFrom, _ = strconv.Atoi(r.URL.Query().Get("year_from"))
	query.YearTo, _ = strconv.Atoi(r.URL.Query().Get("year_to"))

	rows, suppressed, err := h.service.QueryAggregates(r.Context(), query)
	if err != nil {
		logger.Log.WithError(err).Error("aggregate query failed")
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"data":       rows,
		"suppressed": suppressed,
	})
}

func (h *Handler) handleGeographic(w http.ResponseWriter, r *http.Request) {
	query := models.GeographicQuery{
		CancerType: r.URL.Query().Get("cancer_type"),
		Region:     r.URL.Query().Get("region"),
	}
	query.Year, _ = strconv.Atoi(r.URL.Query().Get("year"))
	query.Page, _ = strconv.Atoi(r.URL.Query().Get("page"))
	query.PageSize, _ = strconv.Atoi(r.URL.Query().Get("page_size"))

	page, err := h.service.GeographicData(r.Context(), query)
	if err != nil {
		logger.Log.WithError(err).Error("geographic query failed")
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

func (h *Handler) handlePredictIncidence(w http.ResponseWriter, r *http.Request) {
	cancerType := r.URL.Query().Get("cancer_type")
	yearsAhead, _ := strconv.Atoi(r.URL.Query().Get("years"))

	forecast, err := h.service.PredictIncidence(r.Context(), cancerType, yearsAhead)
	if err != nil {
		logger.Log.WithError(err).Warn("incidence forecast failed")
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, forecast)
}

func (h *Handler) handleResearchImpact(w http.ResponseWriter, r *http.Request) {
	summary, err := h.service.ResearchImpact(r.Context(), r.URL.Query().Get("center_id"))
	if err != nil {
		logger.Log.WithError(err).Error("research impact summary failed")
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

func (h *Handler) handleInvalidateAll(w http.ResponseWriter, r *http.Request) {
	if !h.requireInvalidate(w, r) {
		return
	}
	removed := h.cache.InvalidateAllAnalyticsCache(r.Context())
	writeJSON(w, http.StatusOK, map[string]interface{}{"removed": removed})
}

func (h *Handler) handleInvalidateCenter(w http.ResponseWriter, r *http.Request) {
	if !h.requireInvalidate(w, r) {
		return
	}
	removed := h.cache.InvalidateCenterCache(r.Context(), mux.Vars(r)["id"])
	writeJSON(w, http.StatusOK, map[string]interface{}{"removed": removed})
}

func (h *Handler) handleInvalidatePatient(w http.ResponseWriter, r *http.Request) {
	if !h.requireInvalidate(w, r) {
		return
	}
	removed := h.cache.InvalidatePatientCache(r.Context(), mux.Vars(r)["id"])
	writeJSON(w, http.StatusOK, map[string]interface{}{"removed": removed})
}

func (h *Handler) requireInvalidate(w http.ResponseWriter, r *http.Request) bool {
	claims := auth.ClaimsFromContext(r.Context())
	if claims == nil {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return false
	}
	if !auth.HasPermission(claims.Permissions, auth.PermInvalidateCache) {
		http.Error(w, "forbidden", http.StatusForbidden)
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logger.Log.WithError(err).Error("failed to encode response")
	}
}

func writeError(w http.ResponseWriter, err error) {
	status := apperr.HTTPStatus(err)
	if status == http.StatusInternalServerError {
		http.Error(w, "internal error", status)
		return
	}
	http.Error(w, err.Error(), status)
}

package research

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/oncentra/registry/pkg/auth"
	"github.com/oncentra/registry/pkg/common/apperr"
	"github.com/oncentra/registry/pkg/common/logger"
	"github.com/oncentra/registry/pkg/common/models"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Register mounts the research workflow routes. All of them require an
// authenticated caller, so the parent router carries the authn middleware.
func (h *Handler) Register(r *mux.Router) {
	r.HandleFunc("", h.handleCreateRequest).Methods(http.MethodPost)
	r.HandleFunc("", h.handleListRequests).Methods(http.MethodGet)
	r.HandleFunc("/{id}", h.handleGetRequest).Methods(http.MethodGet)
	r.HandleFunc("/{id}", h.handleUpdateRequest).Methods(http.MethodPut)
	r.HandleFunc("/{id}/submit", h.handleSubmitRequest).Methods(http.MethodPost)
	r.HandleFunc("/{id}/complete", h.handleCompleteRequest).Methods(http.MethodPost)

	r.HandleFunc("/{id}/approvals", h.handleListApprovals).Methods(http.MethodGet)
	r.HandleFunc("/{id}/approvals", h.handleCreateApproval).Methods(http.MethodPost)
	r.HandleFunc("/approvals/{id}", h.handleUpdateApproval).Methods(http.MethodPut)

	r.HandleFunc("/{id}/collaborations", h.handleListCollaborations).Methods(http.MethodGet)
	r.HandleFunc("/{id}/collaborations", h.handleCreateCollaboration).Methods(http.MethodPost)
	r.HandleFunc("/collaborations/{id}", h.handleUpdateCollaboration).Methods(http.MethodPut)

	r.HandleFunc("/{id}/sessions", h.handleListSessions).Methods(http.MethodGet)
	r.HandleFunc("/{id}/sessions", h.handleOpenSession).Methods(http.MethodPost)
	r.HandleFunc("/sessions/{id}/close", h.handleCloseSession).Methods(http.MethodPost)

	r.HandleFunc("/{id}/publications", h.handleListPublications).Methods(http.MethodGet)
	r.HandleFunc("/{id}/publications", h.handleCreatePublication).Methods(http.MethodPost)
	r.HandleFunc("/{id}/impact-metrics", h.handleRecordImpactMetric).Methods(http.MethodPost)
}

func (h *Handler) handleCreateRequest(w http.ResponseWriter, r *http.Request) {
	claims := auth.ClaimsFromContext(r.Context())
	if claims == nil {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	var req models.CreateResearchRequestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid payload", http.StatusBadRequest)
		return
	}

	request, err := h.service.CreateRequest(r.Context(), claims, req)
	if err != nil {
		logger.Log.WithError(err).Warn("failed to create research request")
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, request)
}

func (h *Handler) handleListRequests(w http.ResponseWriter, r *http.Request) {
	claims := auth.ClaimsFromContext(r.Context())
	if claims == nil {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	filter := RequestFilter{
		Status: r.URL.Query().Get("status"),
	}
	if r.URL.Query().Get("mine") == "true" {
		filter.CreatedBy = claims.UserID
	}
	if limit, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil {
		filter.Limit = limit
	}
	// Callers without broad research access only see their own center.
	if !auth.HasPermission(claims.Permissions, auth.PermManageResearch) {
		filter.CenterID = claims.CenterID
	}

	requests, err := h.service.ListRequests(r.Context(), filter)
	if err != nil {
		logger.Log.WithError(err).Error("failed to list research requests")
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"data": requests})
}

func (h *Handler) handleGetRequest(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	request, err := h.service.GetRequest(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, request)
}

func (h *Handler) handleUpdateRequest(w http.ResponseWriter, r *http.Request) {
	claims, id, ok := claimsAndID(w, r)
	if !ok {
		return
	}

	var upd models.UpdateResearchRequestRequest
	if err := json.NewDecoder(r.Body).Decode(&upd); err != nil {
		http.Error(w, "invalid payload", http.StatusBadRequest)
		return
	}

	request, err := h.service.UpdateRequest(r.Context(), claims, id, upd)
	if err != nil {
		logger.Log.WithError(err).Warn("failed to update research request")
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, request)
}

func (h *Handler) handleSubmitRequest(w http.ResponseWriter, r *http.Request) {
	claims, id, ok := claimsAndID(w, r)
	if !ok {
		return
	}
	request, err := h.service.SubmitRequest(r.Context(), claims, id)
	if err != nil {
		logger.Log.WithError(err).Warn("failed to submit research request")
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, request)
}

func (h *Handler) handleCompleteRequest(w http.ResponseWriter, r *http.Request) {
	claims, id, ok := claimsAndID(w, r)
	if !ok {
		return
	}
	request, err := h.service.CompleteRequest(r.Context(), claims, id)
	if err != nil {
		logger.Log.WithError(err).Warn("failed to complete research request")
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, request)
}

func (h *Handler) handleListApprovals(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	approvals, err := h.service.ListApprovals(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"data": approvals})
}

func (h *Handler) handleCreateApproval(w http.ResponseWriter, r *http.Request) {
	claims, id, ok := claimsAndID(w, r)
	if !ok {
		return
	}

	var req models.CreateApprovalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid payload", http.StatusBadRequest)
		return
	}

	approval, err := h.service.CreateApproval(r.Context(), claims, id, req)
	if err != nil {
		logger.Log.WithError(err).Warn("failed to record approval")
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, approval)
}

func (h *Handler) handleUpdateApproval(w http.ResponseWriter, r *http.Request) {
	claims, id, ok := claimsAndID(w, r)
	if !ok {
		return
	}

	var upd models.UpdateApprovalRequest
	if err := json.NewDecoder(r.Body).Decode(&upd); err != nil {
		http.Error(w, "invalid payload", http.StatusBadRequest)
		return
	}

	approval, err := h.service.UpdateApproval(r.Context(), claims, id, upd)
	if err != nil {
		logger.Log.WithError(err).Warn("failed to update approval")
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, approval)
}

func (h *Handler) handleListCollaborations(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	collaborations, err := h.service.ListCollaborations(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"data": collaborations})
}

func (h *Handler) handleCreateCollaboration(w http.ResponseWriter, r *http.Request) {
	claims, id, ok := claimsAndID(w, r)
	if !ok {
		return
	}

	var req models.CreateCollaborationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid payload", http.StatusBadRequest)
		return
	}

	collaboration, err := h.service.CreateCollaboration(r.Context(), claims, id, req)
	if err != nil {
		logger.Log.WithError(err).Warn("failed to create collaboration")
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, collaboration)
}

func (h *Handler) handleUpdateCollaboration(w http.ResponseWriter, r *http.Request) {
	claims, id, ok := claimsAndID(w, r)
	if !ok {
		return
	}

	var req models.UpdateCollaborationStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid payload", http.StatusBadRequest)
		return
	}

	collaboration, err := h.service.UpdateCollaborationStatus(r.Context(), claims, id, req.Status)
	if err != nil {
		logger.Log.WithError(err).Warn("failed to update collaboration")
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, collaboration)
}

func (h *Handler) handleListSessions(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	sessions, err := h.service.ListSessions(r.Context(), id, limit)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"data": sessions})
}

func (h *Handler) handleOpenSession(w http.ResponseWriter, r *http.Request) {
	claims, id, ok := claimsAndID(w, r)
	if !ok {
		return
	}

	var req models.OpenSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid payload", http.StatusBadRequest)
		return
	}

	session, err := h.service.OpenSession(r.Context(), claims, id, req.AccessLevel)
	if err != nil {
		logger.Log.WithError(err).Warn("failed to open data-access session")
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, session)
}

func (h *Handler) handleCloseSession(w http.ResponseWriter, r *http.Request) {
	claims, id, ok := claimsAndID(w, r)
	if !ok {
		return
	}

	var req models.CloseSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid payload", http.StatusBadRequest)
		return
	}

	session, err := h.service.CloseSession(r.Context(), claims, id, req)
	if err != nil {
		logger.Log.WithError(err).Warn("failed to close data-access session")
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, session)
}

func (h *Handler) handleListPublications(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	publications, err := h.service.ListPublications(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"data": publications})
}

func (h *Handler) handleCreatePublication(w http.ResponseWriter, r *http.Request) {
	claims, id, ok := claimsAndID(w, r)
	if !ok {
		return
	}

	var req models.CreatePublicationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid payload", http.StatusBadRequest)
		return
	}

	publication, err := h.service.CreatePublication(r.Context(), claims, id, req)
	if err != nil {
		logger.Log.WithError(err).Warn("failed to record publication")
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, publication)
}

func (h *Handler) handleRecordImpactMetric(w http.ResponseWriter, r *http.Request) {
	claims, id, ok := claimsAndID(w, r)
	if !ok {
		return
	}

	var req struct {
		MetricType string  `json:"metric_type"`
		Value      float64 `json:"value"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid payload", http.StatusBadRequest)
		return
	}

	metric, err := h.service.RecordImpactMetric(r.Context(), claims, id, req.MetricType, req.Value)
	if err != nil {
		logger.Log.WithError(err).Warn("failed to record impact metric")
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, metric)
}

func pathID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return uuid.Nil, false
	}
	return id, true
}

func claimsAndID(w http.ResponseWriter, r *http.Request) (*auth.Claims, uuid.UUID, bool) {
	claims := auth.ClaimsFromContext(r.Context())
	if claims == nil {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return nil, uuid.Nil, false
	}
	id, ok := pathID(w, r)
	if !ok {
		return nil, uuid.Nil, false
	}
	return claims, id, true
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

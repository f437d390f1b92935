package audit

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/oncentra/registry/pkg/common/logger"
)

type Handler struct {
	repo *Repository
}

func NewHandler(repo *Repository) *Handler {
	return &Handler{repo: repo}
}

// Register mounts the audit read routes. The parent router enforces the
// admin permission.
func (h *Handler) Register(r *mux.Router) {
	r.HandleFunc("/events/{entity}/{id}", h.handleListByEntity).Methods(http.MethodGet)
}

func (h *Handler) handleListByEntity(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	events, err := h.repo.ListByEntity(r.Context(), vars["entity"], vars["id"], limit)
	if err != nil {
		logger.Log.WithError(err).Error("failed to list audit events")
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(map[string]interface{}{"data": events}); err != nil {
		logger.Log.WithError(err).Error("failed to encode response")
	}
}

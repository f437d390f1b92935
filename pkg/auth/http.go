package auth

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/oncentra/registry/pkg/common/apperr"
	"github.com/oncentra/registry/pkg/common/logger"
	"github.com/oncentra/registry/pkg/common/models"
)

type Handler struct {
	service *Service
	tokens  *JWTManager
	oidc    *OIDCAuthenticator
}

func NewHandler(service *Service, tokens *JWTManager, oidc *OIDCAuthenticator) *Handler {
	return &Handler{service: service, tokens: tokens, oidc: oidc}
}

// Register mounts the /auth routes. The authn middleware comes from the
// caller so this package stays free of the middleware dependency.
func (h *Handler) Register(r *mux.Router, authn mux.MiddlewareFunc) {
	r.HandleFunc("/bootstrap", h.handleBootstrap).Methods(http.MethodPost)
	r.HandleFunc("/login", h.handleLogin).Methods(http.MethodPost)
	r.HandleFunc("/mfa/verify", h.handleVerifyMFA).Methods(http.MethodPost)

	if h.oidc != nil {
		r.HandleFunc("/sso/login", h.handleSSOLogin).Methods(http.MethodGet)
		r.HandleFunc("/sso/callback", h.handleSSOCallback).Methods(http.MethodGet)
	}

	protected := r.NewRoute().Subrouter()
	protected.Use(authn)
	protected.HandleFunc("/me", h.handleMe).Methods(http.MethodGet)
	protected.HandleFunc("/centers", h.handleListCenters).Methods(http.MethodGet)
	protected.HandleFunc("/register", h.handleRegister).Methods(http.MethodPost)
	protected.HandleFunc("/mfa/enroll", h.handleEnrollMFA).Methods(http.MethodPost)
	protected.HandleFunc("/mfa/activate", h.handleActivateMFA).Methods(http.MethodPost)
}

func (h *Handler) handleBootstrap(w http.ResponseWriter, r *http.Request) {
	var req models.BootstrapRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid payload", http.StatusBadRequest)
		return
	}

	center, user, err := h.service.Bootstrap(r.Context(), req)
	if err != nil {
		logger.Log.WithError(err).Warn("bootstrap failed")
		writeError(w, err)
		return
	}

	token, err := h.issueFor(user)
	if err != nil {
		logger.Log.WithError(err).Error("issue token failed during bootstrap")
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"token":  token,
		"user":   user,
		"center": center,
	})
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid payload", http.StatusBadRequest)
		return
	}

	user, mfaRequired, ticket, err := h.service.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		logger.Log.WithError(err).Warn("authentication failed")
		writeError(w, err)
		return
	}

	if mfaRequired {
		writeJSON(w, http.StatusOK, models.AuthResponse{MFARequired: true, Ticket: ticket})
		return
	}

	token, err := h.issueFor(user)
	if err != nil {
		logger.Log.WithError(err).Error("failed issuing token")
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, models.AuthResponse{Token: token, User: &user})
}

func (h *Handler) handleVerifyMFA(w http.ResponseWriter, r *http.Request) {
	var req models.VerifyMFARequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid payload", http.StatusBadRequest)
		return
	}
	if req.Ticket == "" || req.Code == "" {
		http.Error(w, "ticket and code are required", http.StatusBadRequest)
		return
	}

	user, err := h.service.VerifyMFA(r.Context(), req.Ticket, req.Code)
	if err != nil {
		logger.Log.WithError(err).Warn("mfa verification failed")
		writeError(w, err)
		return
	}

	token, err := h.issueToken(user, true)
	if err != nil {
		logger.Log.WithError(err).Error("failed issuing token after mfa")
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, models.AuthResponse{Token: token, User: &user})
}

func (h *Handler) handleMe(w http.ResponseWriter, r *http.Request) {
	claims := ClaimsFromContext(r.Context())
	if claims == nil {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	user, err := h.service.GetUser(r.Context(), claims.UserID)
	if err != nil {
		logger.Log.WithError(err).Error("failed to load current user")
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"user":        user,
		"permissions": claims.Permissions,
	})
}

func (h *Handler) handleListCenters(w http.ResponseWriter, r *http.Request) {
	centers, err := h.service.ListCenters(r.Context())
	if err != nil {
		logger.Log.WithError(err).Error("failed to list centers")
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"data": centers})
}

func (h *Handler) handleRegister(w http.ResponseWriter, r *http.Request) {
	claims := ClaimsFromContext(r.Context())
	if claims == nil {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	var req models.RegisterUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid payload", http.StatusBadRequest)
		return
	}
	if req.Email == "" || req.Password == "" {
		http.Error(w, "email and password are required", http.StatusBadRequest)
		return
	}

	user, err := h.service.RegisterUser(r.Context(), claims, req)
	if err != nil {
		logger.Log.WithError(err).Warn("failed to register user")
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]interface{}{"user": user})
}

func (h *Handler) handleEnrollMFA(w http.ResponseWriter, r *http.Request) {
	claims := ClaimsFromContext(r.Context())
	if claims == nil {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	enrollment, err := h.service.EnrollMFA(r.Context(), claims.UserID)
	if err != nil {
		logger.Log.WithError(err).Warn("mfa enrollment failed")
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, enrollment)
}

func (h *Handler) handleActivateMFA(w http.ResponseWriter, r *http.Request) {
	claims := ClaimsFromContext(r.Context())
	if claims == nil {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	var req models.ActivateMFARequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid payload", http.StatusBadRequest)
		return
	}

	if err := h.service.ActivateMFA(r.Context(), claims.UserID, req.Code); err != nil {
		logger.Log.WithError(err).Warn("mfa activation failed")
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleSSOLogin(w http.ResponseWriter, r *http.Request) {
	state := uuid.NewString()
	http.Redirect(w, r, h.oidc.AuthURL(state), http.StatusFound)
}

func (h *Handler) handleSSOCallback(w http.ResponseWriter, r *http.Request) {
	code := r.URL.Query().Get("code")
	if code == "" {
		http.Error(w, "missing code", http.StatusBadRequest)
		return
	}

	email, err := h.oidc.ExchangeCode(r.Context(), code)
	if err != nil {
		logger.Log.WithError(err).Warn("sso exchange failed")
		http.Error(w, "sso login failed", http.StatusUnauthorized)
		return
	}

	row, err := h.service.repo.getUserRow(r.Context(), email)
	if err != nil {
		logger.Log.WithField("email", email).Warn("sso login for unknown user")
		http.Error(w, "no local account for identity", http.StatusUnauthorized)
		return
	}

	token, err := h.issueFor(toUser(row))
	if err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, models.AuthResponse{Token: token})
}

func (h *Handler) issueFor(user models.User) (string, error) {
	return h.issueToken(user, false)
}

func (h *Handler) issueToken(user models.User, mfaVerified bool) (string, error) {
	return h.tokens.IssueToken(user, h.service.PermissionsFor(user.Role), mfaVerified)
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

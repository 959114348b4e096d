package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"minisocial/internal/app/service"
	"minisocial/internal/common"

	"github.com/go-chi/chi/v5"
)

type AuthHandler struct {
	authService *service.AuthService
	logger      *slog.Logger
}

func NewAuthHandler(authService *service.AuthService, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{authService: authService, logger: logger}
}

func (h *AuthHandler) RegisterRoutes(r chi.Router) {
	r.Post("/signup", h.signup)
	r.Post("/login", h.login)
	r.Post("/follow", h.follow)
}

// signup and login answer with {"message": ...} on every outcome.
func (h *AuthHandler) signup(w http.ResponseWriter, r *http.Request) {
	var req service.SignupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondWithMessage(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	msg, err := h.authService.Signup(r.Context(), req)
	if err != nil {
		status := logFailure(r, h.logger, "signup failed", err)
		common.RespondWithMessage(w, status, common.PublicMessage(err))
		return
	}

	h.logger.InfoContext(r.Context(), "user registered", slog.String("username", req.Username))
	common.RespondWithMessage(w, http.StatusCreated, msg)
}

func (h *AuthHandler) login(w http.ResponseWriter, r *http.Request) {
	var req service.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondWithMessage(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	resp, err := h.authService.Login(r.Context(), req)
	if err != nil {
		status := logFailure(r, h.logger, "login failed", err)
		common.RespondWithMessage(w, status, common.PublicMessage(err))
		return
	}
	common.RespondWithJSON(w, http.StatusOK, resp)
}

func (h *AuthHandler) follow(w http.ResponseWriter, r *http.Request) {
	err := h.authService.Follow(r.Context())
	common.RespondWithMessage(w, common.HTTPStatusFromError(err), common.PublicMessage(err))
}

// logFailure picks the status for err and logs it; server-side failures
// keep their full detail in the log only.
func logFailure(r *http.Request, logger *slog.Logger, msg string, err error) int {
	status := common.HTTPStatusFromError(err)
	if status >= http.StatusInternalServerError {
		logger.ErrorContext(r.Context(), msg, slog.Any("error", err))
	} else {
		logger.WarnContext(r.Context(), msg, slog.String("reason", common.PublicMessage(err)))
	}
	return status
}

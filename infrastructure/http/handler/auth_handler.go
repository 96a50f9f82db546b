package handler

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"github.com/verdeo/auth-service/application/port/inbound"
	"github.com/verdeo/auth-service/application/usecase"
	"github.com/verdeo/auth-service/infrastructure/http/middleware"
	"github.com/verdeo/auth-service/infrastructure/http/response"
	"github.com/verdeo/auth-service/infrastructure/http/validator"
)

type AuthHandler struct {
	auth           inbound.AuthUseCase
	authMiddleware *middleware.AuthMiddleware
}

func NewAuthHandler(auth inbound.AuthUseCase, authMiddleware *middleware.AuthMiddleware) *AuthHandler {
	return &AuthHandler{auth: auth, authMiddleware: authMiddleware}
}

func (h *AuthHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/auth/login", h.Login).Methods(http.MethodPost)
	router.HandleFunc("/auth/refresh", h.Refresh).Methods(http.MethodPost)
	router.HandleFunc("/auth/logout", h.authMiddleware.RequireAuth(h.Logout)).Methods(http.MethodPost)
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req inbound.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}

	if !validator.ValidateEmail(req.Email) {
		response.UnprocessableEntity(w, "invalid email format")
		return
	}
	if !validator.ValidateRequired(req.Password) {
		response.UnprocessableEntity(w, "password is required")
		return
	}

	ctx := usecase.WithClientIP(r.Context(), clientIP(r))
	result, err := h.auth.Login(ctx, req)
	if err != nil {
		response.FromAppError(w, err)
		return
	}

	response.Success(w, http.StatusOK, "login successful", result)
}

func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	var req inbound.RefreshRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}
	if !validator.ValidateRequired(req.RefreshToken) {
		response.UnprocessableEntity(w, "refresh token is required")
		return
	}

	result, err := h.auth.Refresh(r.Context(), req)
	if err != nil {
		response.FromAppError(w, err)
		return
	}

	response.Success(w, http.StatusOK, "tokens refreshed", result)
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFrom(r.Context())
	if !ok {
		response.Unauthorized(w, "authentication required")
		return
	}

	if err := h.auth.Logout(r.Context(), claims.AccountID); err != nil {
		response.FromAppError(w, err)
		return
	}

	response.Success(w, http.StatusOK, "logout successful", nil)
}

// clientIP resolves the caller address, preferring proxy headers.
func clientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		if parts := strings.Split(xff, ","); len(parts) > 0 {
			return strings.TrimSpace(parts[0])
		}
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}
	ip := r.RemoteAddr
	if idx := strings.LastIndex(ip, ":"); idx != -1 {
		ip = ip[:idx]
	}
	return ip
}

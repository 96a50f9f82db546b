package handler

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/verdeo/auth-service/application/port/inbound"
	"github.com/verdeo/auth-service/application/usecase"
	"github.com/verdeo/auth-service/domain/entity"
	"github.com/verdeo/auth-service/infrastructure/http/response"
	"github.com/verdeo/auth-service/infrastructure/http/validator"
)

// OrganizationHandler serves the kind-specific registration and login
// endpoints for organization accounts.
type OrganizationHandler struct {
	auth inbound.AuthUseCase
}

func NewOrganizationHandler(auth inbound.AuthUseCase) *OrganizationHandler {
	return &OrganizationHandler{auth: auth}
}

func (h *OrganizationHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/organizations/register", h.Register).Methods(http.MethodPost)
	router.HandleFunc("/organizations/login", h.Login).Methods(http.MethodPost)
}

func (h *OrganizationHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req inbound.RegisterOrganizationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}

	if !validator.ValidateEmail(req.Email) {
		response.UnprocessableEntity(w, "invalid email format")
		return
	}
	if !validator.ValidatePassword(req.Password) {
		response.UnprocessableEntity(w, "password must be at least 8 characters")
		return
	}
	if !validator.ValidateName(req.Name) {
		response.UnprocessableEntity(w, "organization name must be at least 2 characters")
		return
	}

	result, err := h.auth.RegisterOrganization(r.Context(), req)
	if err != nil {
		response.FromAppError(w, err)
		return
	}

	response.Success(w, http.StatusCreated, "organization registered", result)
}

func (h *OrganizationHandler) Login(w http.ResponseWriter, r *http.Request) {
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
	result, err := h.auth.LoginTyped(ctx, req, entity.AccountKindOrganization)
	if err != nil {
		response.FromAppError(w, err)
		return
	}

	response.Success(w, http.StatusOK, "login successful", result)
}

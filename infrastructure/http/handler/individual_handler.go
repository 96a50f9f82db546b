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

// IndividualHandler serves the kind-specific registration and login endpoints
// for individual accounts.
type IndividualHandler struct {
	auth inbound.AuthUseCase
}

func NewIndividualHandler(auth inbound.AuthUseCase) *IndividualHandler {
	return &IndividualHandler{auth: auth}
}

func (h *IndividualHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/individuals/register", h.Register).Methods(http.MethodPost)
	router.HandleFunc("/individuals/login", h.Login).Methods(http.MethodPost)
}

func (h *IndividualHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req inbound.RegisterIndividualRequest
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
	if !validator.ValidateName(req.FullName) {
		response.UnprocessableEntity(w, "full name must be at least 2 characters")
		return
	}

	result, err := h.auth.RegisterIndividual(r.Context(), req)
	if err != nil {
		response.FromAppError(w, err)
		return
	}

	response.Success(w, http.StatusCreated, "individual registered", result)
}

func (h *IndividualHandler) Login(w http.ResponseWriter, r *http.Request) {
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
	result, err := h.auth.LoginTyped(ctx, req, entity.AccountKindIndividual)
	if err != nil {
		response.FromAppError(w, err)
		return
	}

	response.Success(w, http.StatusOK, "login successful", result)
}

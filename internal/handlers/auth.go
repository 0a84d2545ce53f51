package handlers

import (
	"net/http"

	"github.com/optima-platform/ledger/internal/service"
)

// Register handles POST /api/v1/auth/register
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var body registerRequest
	if err := h.decodeBody(w, r, &body); err != nil {
		writeValidationError(w, err.Error())
		return
	}

	session, err := h.authenticator.Register(r.Context(), service.RegisterRequest{
		FirstName: body.FirstName,
		LastName:  body.LastName,
		Email:     string(body.Email),
		Password:  body.Password,
	})
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, session)
}

// Login handles POST /api/v1/auth/login
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var body loginRequest
	if err := h.decodeBody(w, r, &body); err != nil {
		writeValidationError(w, err.Error())
		return
	}

	session, err := h.authenticator.Login(r.Context(), string(body.Email), body.Password)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, session)
}

// AdminLogin handles POST /api/v1/auth/admin/login
func (h *Handler) AdminLogin(w http.ResponseWriter, r *http.Request) {
	var body loginRequest
	if err := h.decodeBody(w, r, &body); err != nil {
		writeValidationError(w, err.Error())
		return
	}

	session, err := h.authenticator.AdminLogin(r.Context(), string(body.Email), body.Password)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, session)
}

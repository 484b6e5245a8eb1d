package handler

import (
	"net/http"

	"github.com/conduit/conduit-api/internal/middleware"
	"github.com/conduit/conduit-api/internal/models"
)

type registerRequest struct {
	User struct {
		Username string `json:"username" validate:"required"`
		Email    string `json:"email" validate:"required,email"`
		Password string `json:"password" validate:"required"`
	} `json:"user" validate:"required"`
}

type loginRequest struct {
	User struct {
		Email    string `json:"email" validate:"required"`
		Password string `json:"password" validate:"required"`
	} `json:"user" validate:"required"`
}

type updateUserRequest struct {
	User struct {
		Email    *string `json:"email" validate:"omitempty,email"`
		Username *string `json:"username" validate:"omitempty,min=1"`
		Password *string `json:"password" validate:"omitempty,min=1"`
		Image    *string `json:"image"`
		Bio      *string `json:"bio"`
	} `json:"user"`
}

type userResponse struct {
	User *models.AuthenticatedUser `json:"user"`
}

// Register handles user registration
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := h.decode(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	user, err := h.svc.Register(r.Context(), req.User.Username, req.User.Email, req.User.Password)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, userResponse{User: user})
}

// Login handles user authentication
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := h.decode(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	user, err := h.svc.Login(r.Context(), req.User.Email, req.User.Password)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, userResponse{User: user})
}

// CurrentUser returns the caller's account
func (h *Handler) CurrentUser(w http.ResponseWriter, r *http.Request) {
	user, err := h.svc.CurrentUser(r.Context(), middleware.UserFromContext(r.Context()))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, userResponse{User: user})
}

// UpdateUser applies a partial update to the caller's account
func (h *Handler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	var req updateUserRequest
	if err := h.decode(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	upd := models.UserUpdate{
		Email:    req.User.Email,
		Username: req.User.Username,
		Password: req.User.Password,
		Bio:      req.User.Bio,
		Image:    req.User.Image,
	}
	user, err := h.svc.UpdateUser(r.Context(), middleware.UserFromContext(r.Context()), upd)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, userResponse{User: user})
}

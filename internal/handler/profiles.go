package handler

import (
	"net/http"

	"github.com/conduit/conduit-api/internal/middleware"
	"github.com/conduit/conduit-api/internal/models"
	"github.com/gorilla/mux"
)

type profileResponse struct {
	Profile *models.Profile `json:"profile"`
}

func (h *Handler) GetProfile(w http.ResponseWriter, r *http.Request) {
	profile, err := h.svc.GetProfile(r.Context(), mux.Vars(r)["username"], middleware.UserFromContext(r.Context()))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, profileResponse{Profile: profile})
}

func (h *Handler) FollowUser(w http.ResponseWriter, r *http.Request) {
	profile, err := h.svc.FollowUser(r.Context(), middleware.UserFromContext(r.Context()), mux.Vars(r)["username"])
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, profileResponse{Profile: profile})
}

func (h *Handler) UnfollowUser(w http.ResponseWriter, r *http.Request) {
	profile, err := h.svc.UnfollowUser(r.Context(), middleware.UserFromContext(r.Context()), mux.Vars(r)["username"])
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, profileResponse{Profile: profile})
}

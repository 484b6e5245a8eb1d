package handler

import (
	"net/http"

	"github.com/conduit/conduit-api/internal/models"
)

type createTagRequest struct {
	Name string `json:"name" validate:"required"`
}

func (h *Handler) ListTags(w http.ResponseWriter, r *http.Request) {
	tags, err := h.svc.ListTags(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string][]models.Tag{"tags": tags})
}

func (h *Handler) CreateTag(w http.ResponseWriter, r *http.Request) {
	var req createTagRequest
	if err := h.decode(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	tag, err := h.svc.CreateTag(r.Context(), req.Name)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, tag)
}

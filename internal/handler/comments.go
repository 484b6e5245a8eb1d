package handler

import (
	"net/http"
	"strconv"

	"github.com/conduit/conduit-api/internal/middleware"
	"github.com/conduit/conduit-api/internal/models"
	"github.com/conduit/conduit-api/internal/service"
	"github.com/gorilla/mux"
)

type createCommentRequest struct {
	Comment struct {
		Body string `json:"body" validate:"required"`
	} `json:"comment" validate:"required"`
}

type commentResponse struct {
	Comment *models.CommentView `json:"comment"`
}

func (h *Handler) AddComment(w http.ResponseWriter, r *http.Request) {
	var req createCommentRequest
	if err := h.decode(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	comment, err := h.svc.AddComment(r.Context(), middleware.UserFromContext(r.Context()), mux.Vars(r)["slug"], req.Comment.Body)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, commentResponse{Comment: comment})
}

func (h *Handler) ListComments(w http.ResponseWriter, r *http.Request) {
	comments, err := h.svc.ListComments(r.Context(), mux.Vars(r)["slug"], middleware.UserFromContext(r.Context()))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string][]models.CommentView{"comments": comments})
}

func (h *Handler) DeleteComment(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	id, err := strconv.ParseInt(vars["id"], 10, 64)
	if err != nil {
		writeError(w, r, service.BadRequest("comment id must be an integer"))
		return
	}
	comment, err := h.svc.DeleteComment(r.Context(), middleware.UserFromContext(r.Context()), vars["slug"], id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, commentResponse{Comment: comment})
}

package handler

import (
	"net/http"

	"github.com/conduit/conduit-api/internal/middleware"
	"github.com/conduit/conduit-api/internal/service"
	"github.com/gorilla/mux"
)

// route binds one endpoint to its handler. requiresIdentity decides whether
// the guard rejects anonymous callers or lets them through.
type route struct {
	method           string
	path             string
	requiresIdentity bool
	handler          http.HandlerFunc
}

func (h *Handler) routes() []route {
	return []route{
		{http.MethodPost, "/users", false, h.Register},
		{http.MethodPost, "/users/login", false, h.Login},
		{http.MethodGet, "/user", true, h.CurrentUser},
		{http.MethodPut, "/user", true, h.UpdateUser},

		{http.MethodGet, "/profiles/{username}", false, h.GetProfile},
		{http.MethodPost, "/profiles/{username}/follow", true, h.FollowUser},
		{http.MethodDelete, "/profiles/{username}/follow", true, h.UnfollowUser},

		// feed is registered before {slug} so it is not taken for a slug
		{http.MethodGet, "/articles/feed", true, h.FeedArticles},
		{http.MethodGet, "/articles", false, h.ListArticles},
		{http.MethodPost, "/articles", true, h.CreateArticle},
		{http.MethodGet, "/articles/{slug}", false, h.GetArticle},
		{http.MethodPut, "/articles/{slug}", true, h.UpdateArticle},
		{http.MethodDelete, "/articles/{slug}", true, h.DeleteArticle},
		{http.MethodPost, "/articles/{slug}/favorite", true, h.FavoriteArticle},
		{http.MethodDelete, "/articles/{slug}/favorite", true, h.UnfavoriteArticle},

		{http.MethodGet, "/articles/{slug}/comments", false, h.ListComments},
		{http.MethodPost, "/articles/{slug}/comments", true, h.AddComment},
		{http.MethodDelete, "/articles/{slug}/comments/{id}", true, h.DeleteComment},

		{http.MethodGet, "/tags", false, h.ListTags},
		{http.MethodPost, "/tags", false, h.CreateTag},
	}
}

// observe wraps next in request logging and panic recovery. The logger sits
// outside the recoverer so a recovered panic is still logged as a 500.
func (h *Handler) observe(next http.Handler) http.Handler {
	return middleware.RequestLogger(h.log)(middleware.Recoverer(h.log)(next))
}

// Router builds the HTTP surface under /api. Every route passes through the
// auth guard with its own requiresIdentity flag.
func (h *Handler) Router() *mux.Router {
	r := mux.NewRouter()
	r.Use(h.observe)
	// mux only runs r.Use middleware on matched routes
	r.NotFoundHandler = h.observe(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, r, service.NotFound("route not found"))
	}))
	r.MethodNotAllowedHandler = h.observe(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]errorBody{
			"errors": {Kind: service.KindBadRequest, Message: "method not allowed"},
		})
	}))

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/healthz", h.Health).Methods(http.MethodGet)
	for _, rt := range h.routes() {
		guard := middleware.Guard(h.svc, rt.requiresIdentity, writeError)
		api.Handle(rt.path, guard(rt.handler)).Methods(rt.method)
	}
	return r
}

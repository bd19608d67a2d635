package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/inkwellhq/inkwell/internal/blog/service"
	"github.com/inkwellhq/inkwell/internal/blog/store"
	"github.com/inkwellhq/inkwell/pkg/httpx"
	"github.com/inkwellhq/inkwell/pkg/slogx"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	buildVersion string
	startTime    time.Time
	logger       *slog.Logger
	store        store.Store

	UserService       *service.UserService
	CredentialService *service.CredentialService
	PostService       *service.PostService
	FeedService       *service.FeedService
}

func NewRouter(buildVersion string, st store.Store, logger *slog.Logger) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		buildVersion: buildVersion,
		startTime:    time.Now(),
		logger:       logger,
		store:        st,
	}

	// Set default middleware chain
	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerUsers()
	r.registerActivations()
	r.registerPasswordResets()
	r.registerPosts()
	r.registerFeeds()
	r.registerSystem()
}

// ServeHTTP implements http.Handler for Router and applies the global
// middleware chain.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

func (r *Router) registerUsers() {
	h := &UsersHandler{UserService: r.UserService}

	r.Mux.Handle("POST /v1/users", http.HandlerFunc(h.HandleCreate))
	r.Mux.Handle("GET /v1/users", http.HandlerFunc(h.HandleList))
	r.Mux.Handle("GET /v1/users/{id}", http.HandlerFunc(h.HandleGet))
	r.Mux.Handle("DELETE /v1/users/{id}", http.HandlerFunc(h.HandleDelete))
}

func (r *Router) registerActivations() {
	h := &ActivationsHandler{
		UserService:       r.UserService,
		CredentialService: r.CredentialService,
	}

	r.Mux.Handle("POST /v1/activations", h)
}

func (r *Router) registerPasswordResets() {
	h := &PasswordResetsHandler{
		UserService:       r.UserService,
		CredentialService: r.CredentialService,
	}

	r.Mux.Handle("POST /v1/password_resets", http.HandlerFunc(h.HandleRequest))
	r.Mux.Handle("PUT /v1/password_resets", http.HandlerFunc(h.HandleConsume))
}

func (r *Router) registerPosts() {
	h := &PostsHandler{PostService: r.PostService}

	r.Mux.Handle("POST /v1/posts", http.HandlerFunc(h.HandleCreate))
	r.Mux.Handle("GET /v1/posts", http.HandlerFunc(h.HandleList))
	r.Mux.Handle("GET /v1/posts/{id}", http.HandlerFunc(h.HandleGet))
	r.Mux.Handle("DELETE /v1/posts/{id}", http.HandlerFunc(h.HandleDelete))
	r.Mux.Handle("POST /v1/posts/{id}/comments", http.HandlerFunc(h.HandleAddComment))
	r.Mux.Handle("GET /v1/posts/{id}/comments", http.HandlerFunc(h.HandleListComments))
}

func (r *Router) registerFeeds() {
	h := &FeedsHandler{FeedService: r.FeedService}

	r.Mux.Handle("GET /v1/users/{id}/activities", http.HandlerFunc(h.HandleActivities))
	r.Mux.Handle("GET /v1/users/{id}/notifications", http.HandlerFunc(h.HandleNotifications))
	r.Mux.Handle("POST /v1/notifications/{id}/read", http.HandlerFunc(h.HandleMarkRead))
}

func (r *Router) registerSystem() {
	r.Mux.Handle("GET /livez", LivezHandler(r.startTime, r.buildVersion))
	r.Mux.Handle("GET /readyz", ReadyzHandler(r.startTime, r.buildVersion, r.store))
}

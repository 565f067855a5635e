package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/nordveil/tblog/internal/auth"
	"github.com/nordveil/tblog/internal/resolver"
	"github.com/nordveil/tblog/internal/sse"
)

// NewRouter creates a chi router with all API routes mounted.
// authEnabled controls whether the admin routes require a Bearer JWT;
// signer may be nil when auth is disabled.
// broker, if non-nil, handles GET /events and receives article.updated
// events from successful title changes.
func NewRouter(res *resolver.Resolver, authEnabled bool, signer *auth.Signer, broker *sse.Broker) chi.Router {
	h := NewHandler(res, broker)

	r := chi.NewRouter()
	r.Use(AuthMiddleware(authEnabled, signer))

	// Public reads.
	r.Get("/articles", h.ListArticles)
	r.Get("/articles/{slug}", h.GetArticle)
	r.Get("/tags", h.ListTags)

	// Admin mutations.
	r.With(RequireRole(authEnabled, auth.RoleAdmin)).Patch("/articles/{id}/title", h.UpdateTitle)

	// SSE endpoint.
	if broker != nil {
		r.Method(http.MethodGet, "/events", broker)
	}

	return r
}

// Package server provides the optional read-only introspection HTTP
// server for the ticket acquisition core: liveness, cache stats, and
// the registered platform list. It never exposes a way to fetch or
// mutate a ticket over HTTP — that surface is the CLI's (cmd/
// ticketctl get) and the embedding Go program's (ticketservice.Service
// directly). Grounded on the teacher's pkg/server/server.go +
// internal/api/router.go + internal/api/middleware, trimmed to the
// handful of routes this core actually needs.
package server

import (
	"encoding/json"
	"net/http"
	"os"
	"strings"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/amiad5298/ingot/internal/cache"
	"github.com/amiad5298/ingot/internal/config"
	"github.com/amiad5298/ingot/internal/providers"
	pkgmw "github.com/amiad5298/ingot/pkg/middleware"
)

// Server wraps the introspection routes and the components they
// report on.
type Server struct {
	Handler http.Handler
	Config  *config.Config
}

// New builds the introspection server around an already-composed
// Registry and Cache. cfg is only stored on the returned Server; CORS
// origins come from TICKETCTL_CORS_ORIGINS, and the caller binds the
// listen port.
func New(cfg *config.Config, reg *providers.Registry, c cache.Cache) *Server {
	r := chi.NewRouter()

	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(pkgmw.RequestID)
	r.Use(pkgmw.Logger)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: corsOrigins(),
		AllowedMethods: []string{http.MethodGet},
		AllowedHeaders: []string{"Accept", pkgmw.RequestIDHeader},
		MaxAge:         300,
	}))

	r.Get("/healthz", healthHandler)
	r.Route("/v1", func(r chi.Router) {
		r.Get("/cache/stats", cacheStatsHandler(c))
		r.Get("/platforms", platformsHandler(reg))
	})

	return &Server{Handler: r, Config: cfg}
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func cacheStatsHandler(c cache.Cache) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if c == nil {
			writeJSON(w, http.StatusOK, cache.Stats{})
			return
		}
		writeJSON(w, http.StatusOK, c.Stats())
	}
}

func platformsHandler(reg *providers.Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"platforms": reg.RegisteredPlatforms()})
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// corsOrigins mirrors the teacher's env-configurable origin list
// (TICKETCTL_CORS_ORIGINS), defaulting to "*" since this server has no
// cookies/credentials to leak.
func corsOrigins() []string {
	raw := os.Getenv("TICKETCTL_CORS_ORIGINS")
	if raw == "" {
		return []string{"*"}
	}
	var origins []string
	for _, o := range strings.Split(raw, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	if len(origins) == 0 {
		return []string{"*"}
	}
	return origins
}

package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/athenaeum/portal/internal/auth"
	"github.com/athenaeum/portal/pkg/portal"
	"github.com/athenaeum/portal/pkg/portal/signing"
	"github.com/athenaeum/portal/pkg/portal/storage"
)

// RouterConfig collects the dependencies for the full HTTP surface.
type RouterConfig struct {
	Service    portal.Service
	Gate       *auth.Gate
	Store      storage.BlobStore
	Signer     *signing.Signer
	UploadDir  string
	CORSOrigin string
}

// NewRouter assembles the portal router: auth, content, file delivery,
// the admin ping, health, and Prometheus metrics.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(MetricsMiddleware())

	if cfg.CORSOrigin != "" {
		r.Use(corsMiddleware(cfg.CORSOrigin))
	}

	r.Get("/health", handleHealth)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Mount("/auth", NewAuthHandler(cfg.Gate).Routes())
		r.Mount("/content", NewContentHandler(cfg.Service, cfg.Gate, cfg.UploadDir).Routes())
		r.Mount("/files", NewFilesHandler(cfg.Store, cfg.Signer).Routes())

		r.Group(func(r chi.Router) {
			r.Use(cfg.Gate.Verifier())
			r.Use(RequireAdmin(cfg.Gate))
			r.Get("/admin/ping", handleAdminPing)
		})
	})

	return r
}

func corsMiddleware(origin string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
			w.Header().Set("Access-Control-Allow-Credentials", "true")

			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusOK)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, map[string]string{"status": "healthy"})
}

// handleAdminPing confirms a valid admin session; the console uses it to
// re-check the token on navigation.
func handleAdminPing(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())
	render.JSON(w, r, map[string]string{
		"message": "pong",
		"email":   user.Email,
	})
}

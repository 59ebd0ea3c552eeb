package http

import (
	stdhttp "net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/rawa7/hightech/internal/handler"
	"github.com/rawa7/hightech/internal/httputil"
	corsmw "github.com/rawa7/hightech/internal/transport/http/middleware"
)

// RouterConfig holds the dependencies needed to create routes
type RouterConfig struct {
	TokenHandler  *handler.TokenHandler
	AllowedOrigin string
}

// NewRouter creates and configures a new Chi router
func NewRouter(cfg RouterConfig) chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(corsmw.CORS(cfg.AllowedOrigin))

	// Health check endpoint (useful for deployment/monitoring)
	r.Get("/health", func(w stdhttp.ResponseWriter, req *stdhttp.Request) {
		httputil.WriteJSON(w, 200, map[string]string{"status": "ok"})
	})

	// Device token registry. Dispatch happens on the ?action= parameter, so
	// the route is registered for every method.
	r.Handle("/api/fcm-tokens", stdhttp.HandlerFunc(cfg.TokenHandler.Handle))

	return r
}

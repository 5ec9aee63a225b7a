package middleware

import (
	"net/http"

	"github.com/go-chi/cors"

	"github.com/carspace/carspace-backend/pkg/config"
)

// CORS returns middleware that applies the configured allowed origin
// policy. The default origin is the local Vite dev server.
func CORS(cfg config.CORSConfig) func(http.Handler) http.Handler {
	return cors.New(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Requested-With"},
		ExposedHeaders:   []string{"X-Request-Id"},
		AllowCredentials: true,
		MaxAge:           300,
	}).Handler
}

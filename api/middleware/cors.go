package middleware

import (
	"net/http"

	"github.com/go-chi/cors"
	"github.com/lopeshyago/fusionbackapp/pkg/config"
)

// AuthTokenHeader carries a freshly minted token on login and registration.
const AuthTokenHeader = "X-Auth-Token"

// CORS lets the configured front-end origins call the API with bearer tokens
// and read the minted token and request id headers.
func CORS(cfg config.CORSConfig) func(http.Handler) http.Handler {
	return cors.Handler(cors.Options{
		AllowedOrigins: cfg.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", requestIDHeader},
		ExposedHeaders: []string{requestIDHeader, AuthTokenHeader},
		MaxAge:         int(cfg.MaxAge.Seconds()),
		// Tokens travel in the Authorization header, never in cookies.
		AllowCredentials: false,
	})
}

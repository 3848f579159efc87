package admin

import (
	"net/http"
	"os"
)

const defaultAllowedOrigin = "*"

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

// Cors adds CORS headers and answers preflight requests. The allowed origin
// comes from CORS_ALLOWED_ORIGIN as set when the middleware is built.
func Cors(next http.Handler) http.Handler {
	allowedOrigin := getEnv("CORS_ALLOWED_ORIGIN", defaultAllowedOrigin)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", allowedOrigin)
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		w.Header().Set("Access-Control-Max-Age", "3600")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}

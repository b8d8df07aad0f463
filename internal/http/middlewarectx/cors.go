package middlewarectx

import (
	"net/http"

	"github.com/go-chi/cors"
)

// CORS разрешает кросс-доменные запросы с перечисленных источников.
// Запросы передаются с учётными данными, поэтому "*" в списке игнорируется;
// если явных источников не осталось, кросс-доменные запросы запрещены.
func CORS(origins []string) func(http.Handler) http.Handler {
	explicit := make([]string, 0, len(origins))
	for _, o := range origins {
		if o != "*" {
			explicit = append(explicit, o)
		}
	}

	opts := cors.Options{
		AllowedOrigins:   explicit,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-Id"},
		ExposedHeaders:   []string{"X-Request-Id"},
		AllowCredentials: true,
		MaxAge:           300,
	}
	if len(explicit) == 0 {
		opts.AllowOriginFunc = func(_ *http.Request, _ string) bool { return false }
	}
	return cors.Handler(opts)
}

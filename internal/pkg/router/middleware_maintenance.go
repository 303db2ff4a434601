package router

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/shandysiswandi/newsletter/internal/pkg/config"
)

// healthPath stays reachable during full maintenance so orchestrators do not
// restart the service.
const healthPath = "/health_check"

// middlewareMaintenance answers 503 for the routes listed in
// app.maintenance.endpoints, or for every route but the health check when
// app.maintenance.enabled is set.
func middlewareMaintenance(cfg config.Config) Middleware {
	var (
		all        bool
		retryAfter int
		blocked    = map[string]bool{}
	)
	if cfg != nil {
		all = cfg.GetBool("app.maintenance.enabled")
		retryAfter = cfg.GetInt("app.maintenance.retry_after_seconds")
		for _, endpoint := range cfg.GetArray("app.maintenance.endpoints") {
			blocked[strings.TrimSpace(endpoint)] = true
		}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			route := matchedRoutePath(r)
			if (all && route != healthPath) || blocked[route] {
				if retryAfter > 0 {
					w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
				}
				writeJSON(w, errorResponse{Message: "service is under maintenance"}, http.StatusServiceUnavailable)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

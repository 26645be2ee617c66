package restapi

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// rateLimitAndValidateAPIKey combines rate limiting, API key validation, and compression
func rateLimitAndValidateAPIKey(api *RestAPI, finalHandler http.HandlerFunc) http.Handler {
	// Create the handler chain: API key validation -> rate limiting -> compression -> final handler
	finalHandlerHttp := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		finalHandler(w, r)
	})

	// Apply compression first (innermost)
	compressedHandler := CompressionMiddleware(finalHandlerHttp)

	// Then rate limiting - use the shared rate limiter instance
	var rateLimitedHandler http.Handler
	if api.rateLimiter != nil {
		rateLimitedHandler = api.rateLimiter.Handler()(compressedHandler)
	} else {
		// Fallback for tests that don't use NewRestAPI constructor
		rateLimitedHandler = compressedHandler
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// First validate API key
		if api.RequestHasInvalidAPIKey(r) {
			api.invalidAPIKeyResponse(w, r)
			return
		}
		// Then apply rate limiting and compression
		rateLimitedHandler.ServeHTTP(w, r)
	})
}

// withFreshResponse disables intermediary caching for detection results,
// which change whenever the underlying records do.
func withFreshResponse(api *RestAPI, handler http.HandlerFunc) http.Handler {
	return CacheControlMiddleware(0, rateLimitAndValidateAPIKey(api, handler))
}

// SetRoutes registers all API endpoints
func (api *RestAPI) SetRoutes(mux *http.ServeMux) {
	// Health check and metrics endpoints - no authentication required
	mux.HandleFunc("GET /healthz", api.healthHandler)
	mux.Handle("GET /metrics", promhttp.HandlerFor(api.Metrics.Registry(), promhttp.HandlerOpts{}))

	mux.Handle("GET /api/v1/customers/{id}/duplicates", withFreshResponse(api, api.customerDuplicatesHandler))
	mux.Handle("GET /api/v1/buildings/{id}/duplicates", withFreshResponse(api, api.buildingDuplicatesHandler))
	mux.Handle("GET /api/v1/customers/duplicate-groups", withFreshResponse(api, api.customerDuplicateGroupsHandler))
	mux.Handle("GET /api/v1/buildings/duplicate-groups", withFreshResponse(api, api.buildingDuplicateGroupsHandler))

	mux.Handle("GET /api/v1/customers/{id}/merges", rateLimitAndValidateAPIKey(api, api.customerMergeHistoryHandler))
	mux.Handle("GET /api/v1/merges/{id}", rateLimitAndValidateAPIKey(api, api.mergeRecordHandler))
	mux.Handle("POST /api/v1/customers/merge", rateLimitAndValidateAPIKey(api, api.mergeCustomersHandler))
	mux.Handle("POST /api/v1/merges/{id}/undo", rateLimitAndValidateAPIKey(api, api.undoMergeHandler))
	mux.Handle("POST /api/v1/duplicates/dismiss", rateLimitAndValidateAPIKey(api, api.dismissDuplicateHandler))
}

// SetupAPIRoutes creates and configures the API router with all middleware applied globally
func (api *RestAPI) SetupAPIRoutes() http.Handler {
	// Create the base router
	mux := http.NewServeMux()

	// Register all API routes
	api.SetRoutes(mux)

	// Apply global middleware chain: security headers -> request id -> routes
	return securityHeaders(RequestIDMiddleware(mux))
}

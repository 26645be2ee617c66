package restapi

import (
	"net/http"

	"bukken.rehub.jp/internal/models"
)

// healthHandler reports whether the service can reach its database.
func (api *RestAPI) healthHandler(w http.ResponseWriter, r *http.Request) {
	if err := api.DB.DB.PingContext(r.Context()); err != nil {
		api.Logger.Error("health check failed", "error", err)
		response := models.NewResponseWithClock(http.StatusServiceUnavailable, map[string]string{"status": "unhealthy"}, "database unreachable", api.Clock)
		api.sendResponse(w, r, response)
		return
	}

	response := models.NewOKResponseWithClock(map[string]string{"status": "healthy"}, api.Clock)
	api.sendResponse(w, r, response)
}

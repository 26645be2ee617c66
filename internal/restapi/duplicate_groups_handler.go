package restapi

import (
	"net/http"

	"bukken.rehub.jp/internal/models"
)

// customerDuplicateGroupsHandler scans a whole tenant for customer duplicate
// groups sharing a normalized phone number.
func (api *RestAPI) customerDuplicateGroupsHandler(w http.ResponseWriter, r *http.Request) {
	tenantID, err := queryTenantID(r)
	if err != nil {
		api.validationErrorResponse(w, r, err.Error())
		return
	}

	timer := api.startSearchTimer()
	clusters, err := api.CustomerDetector.FindTenantClusters(r.Context(), tenantID)
	timer.observe()
	if err != nil {
		api.serverErrorResponse(w, r, err)
		return
	}

	response := models.NewListResponseWithClock(models.NewCustomerClusterList(clusters), api.Clock)
	api.sendResponse(w, r, response)
}

// buildingDuplicateGroupsHandler scans a whole tenant for building duplicate
// groups sharing a normalized name.
func (api *RestAPI) buildingDuplicateGroupsHandler(w http.ResponseWriter, r *http.Request) {
	tenantID, err := queryTenantID(r)
	if err != nil {
		api.validationErrorResponse(w, r, err.Error())
		return
	}

	timer := api.startSearchTimer()
	clusters, err := api.BuildingDetector.FindTenantClusters(r.Context(), tenantID)
	timer.observe()
	if err != nil {
		api.serverErrorResponse(w, r, err)
		return
	}

	response := models.NewListResponseWithClock(models.NewBuildingClusterList(clusters), api.Clock)
	api.sendResponse(w, r, response)
}

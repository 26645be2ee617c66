package restapi

import (
	"database/sql"
	"errors"
	"net/http"

	"bukken.rehub.jp/coredb"
	"bukken.rehub.jp/internal/match"
	"bukken.rehub.jp/internal/models"
)

// buildingDuplicatesHandler returns the ranked duplicate candidates for one
// building.
func (api *RestAPI) buildingDuplicatesHandler(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		api.validationErrorResponse(w, r, err.Error())
		return
	}

	building, err := api.DB.Queries.GetBuilding(r.Context(), id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			api.sendNotFound(w, r)
			return
		}
		api.serverErrorResponse(w, r, err)
		return
	}

	api.Metrics.CandidateLookups.WithLabelValues(match.EntityTypeBuilding).Inc()
	timer := api.startSearchTimer()

	candidates, err := api.BuildingDetector.Find(r.Context(), coredb.BuildingView(building))
	timer.observe()
	if err != nil {
		api.serverErrorResponse(w, r, err)
		return
	}

	response := models.NewListResponseWithClock(models.NewBuildingCandidateList(candidates), api.Clock)
	api.sendResponse(w, r, response)
}

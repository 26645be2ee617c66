package restapi

import (
	"net/http"

	"bukken.rehub.jp/internal/models"
)

// customerMergeHistoryHandler lists the merge records where the given
// customer was the primary, newest first.
func (api *RestAPI) customerMergeHistoryHandler(w http.ResponseWriter, r *http.Request) {
	customerID, err := pathID(r)
	if err != nil {
		api.validationErrorResponse(w, r, "invalid customer id")
		return
	}

	records, err := api.DB.Queries.ListMergeRecordsByPrimary(r.Context(), customerID)
	if err != nil {
		api.serverErrorResponse(w, r, err)
		return
	}

	results := make([]models.MergeResult, 0, len(records))
	for _, record := range records {
		results = append(results, models.NewMergeResult(record))
	}

	response := models.NewListResponseWithClock(results, api.Clock)
	api.sendResponse(w, r, response)
}

package restapi

import (
	"database/sql"
	"errors"
	"net/http"

	"bukken.rehub.jp/coredb"
	"bukken.rehub.jp/internal/match"
	"bukken.rehub.jp/internal/models"
)

// customerDuplicatesHandler returns the ranked duplicate candidates for one
// customer.
func (api *RestAPI) customerDuplicatesHandler(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		api.validationErrorResponse(w, r, err.Error())
		return
	}

	customer, err := api.DB.Queries.GetCustomer(r.Context(), id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			api.sendNotFound(w, r)
			return
		}
		api.serverErrorResponse(w, r, err)
		return
	}

	api.Metrics.CandidateLookups.WithLabelValues(match.EntityTypeCustomer).Inc()
	timer := api.startSearchTimer()

	candidates, err := api.CustomerDetector.Find(r.Context(), coredb.CustomerView(customer))
	timer.observe()
	if err != nil {
		api.serverErrorResponse(w, r, err)
		return
	}

	response := models.NewListResponseWithClock(models.NewCustomerCandidateList(candidates), api.Clock)
	api.sendResponse(w, r, response)
}

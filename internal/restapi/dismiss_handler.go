package restapi

import (
	"net/http"

	"bukken.rehub.jp/coredb"
	"bukken.rehub.jp/internal/match"
	"bukken.rehub.jp/internal/models"
)

type dismissRequestBody struct {
	TenantID   int64  `json:"tenantId"`
	EntityType string `json:"entityType"`
	IDA        int64  `json:"idA"`
	IDB        int64  `json:"idB"`
}

// dismissDuplicateHandler marks a candidate pair as not-a-duplicate so it is
// excluded from future detection results.
func (api *RestAPI) dismissDuplicateHandler(w http.ResponseWriter, r *http.Request) {
	var body dismissRequestBody
	if err := decodeJSONBody(r, &body); err != nil {
		api.validationErrorResponse(w, r, err.Error())
		return
	}

	if body.TenantID <= 0 {
		api.validationErrorResponse(w, r, "tenantId is required")
		return
	}
	if body.EntityType != match.EntityTypeCustomer && body.EntityType != match.EntityTypeBuilding {
		api.validationErrorResponse(w, r, "entityType must be customer or building")
		return
	}
	if body.IDA <= 0 || body.IDB <= 0 || body.IDA == body.IDB {
		api.validationErrorResponse(w, r, "idA and idB must be two distinct entity ids")
		return
	}

	err := api.DB.Queries.UpsertDismissedPair(r.Context(), coredb.UpsertDismissedPairParams{
		TenantID:   body.TenantID,
		EntityType: body.EntityType,
		IDA:        body.IDA,
		IDB:        body.IDB,
	})
	if err != nil {
		api.serverErrorResponse(w, r, err)
		return
	}

	api.Metrics.DismissalsTotal.Inc()

	response := models.NewOKResponseWithClock(map[string]string{"status": "dismissed"}, api.Clock)
	api.sendResponse(w, r, response)
}

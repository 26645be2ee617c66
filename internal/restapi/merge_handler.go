package restapi

import (
	"net/http"

	"bukken.rehub.jp/internal/mergeengine"
	"bukken.rehub.jp/internal/models"
)

type mergeRequestBody struct {
	PrimaryID   int64             `json:"primaryId"`
	SecondaryID int64             `json:"secondaryId"`
	Resolutions map[string]string `json:"resolutions"`
	Operator    string            `json:"operator"`
	Reason      string            `json:"reason"`
}

// mergeCustomersHandler merges the secondary customer into the primary and
// returns the resulting merge record.
func (api *RestAPI) mergeCustomersHandler(w http.ResponseWriter, r *http.Request) {
	var body mergeRequestBody
	if err := decodeJSONBody(r, &body); err != nil {
		api.validationErrorResponse(w, r, err.Error())
		return
	}

	if body.PrimaryID <= 0 || body.SecondaryID <= 0 {
		api.validationErrorResponse(w, r, "primaryId and secondaryId are required")
		return
	}
	if body.Operator == "" {
		api.validationErrorResponse(w, r, "operator is required")
		return
	}

	resolutions := make(mergeengine.Resolutions, len(body.Resolutions))
	for field, choice := range body.Resolutions {
		resolutions[mergeengine.FieldKey(field)] = mergeengine.Choice(choice)
	}

	record, err := api.Merges.Merge(r.Context(), mergeengine.MergeRequest{
		PrimaryID:   body.PrimaryID,
		SecondaryID: body.SecondaryID,
		Resolutions: resolutions,
		Operator:    body.Operator,
		Reason:      body.Reason,
	})
	if err != nil {
		api.mergeErrorResponse(w, r, err)
		return
	}

	response := models.NewEntryResponseWithClock(models.NewMergeResult(*record), api.Clock)
	api.sendResponse(w, r, response)
}

package restapi

import (
	"database/sql"
	"errors"
	"net/http"

	"bukken.rehub.jp/internal/models"
)

type undoRequestBody struct {
	Operator string `json:"operator"`
}

// undoMergeHandler reverses a completed merge, restoring the secondary
// customer and returning the updated merge record.
func (api *RestAPI) undoMergeHandler(w http.ResponseWriter, r *http.Request) {
	mergeRecordID := r.PathValue("id")
	if mergeRecordID == "" {
		api.validationErrorResponse(w, r, "merge record id is required")
		return
	}

	var body undoRequestBody
	if err := decodeJSONBody(r, &body); err != nil {
		api.validationErrorResponse(w, r, err.Error())
		return
	}
	if body.Operator == "" {
		api.validationErrorResponse(w, r, "operator is required")
		return
	}

	if err := api.Merges.Undo(r.Context(), mergeRecordID, body.Operator); err != nil {
		api.mergeErrorResponse(w, r, err)
		return
	}

	record, err := api.DB.Queries.GetMergeRecord(r.Context(), mergeRecordID)
	if err != nil {
		api.serverErrorResponse(w, r, err)
		return
	}

	response := models.NewEntryResponseWithClock(models.NewMergeResult(record), api.Clock)
	api.sendResponse(w, r, response)
}

// mergeRecordHandler returns one merge record by id.
func (api *RestAPI) mergeRecordHandler(w http.ResponseWriter, r *http.Request) {
	mergeRecordID := r.PathValue("id")
	if mergeRecordID == "" {
		api.validationErrorResponse(w, r, "merge record id is required")
		return
	}

	record, err := api.DB.Queries.GetMergeRecord(r.Context(), mergeRecordID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			api.sendNotFound(w, r)
			return
		}
		api.serverErrorResponse(w, r, err)
		return
	}

	response := models.NewEntryResponseWithClock(models.NewMergeResult(record), api.Clock)
	api.sendResponse(w, r, response)
}

package restapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"bukken.rehub.jp/internal/mergeengine"
	"bukken.rehub.jp/internal/models"
)

func (api *RestAPI) sendResponse(w http.ResponseWriter, r *http.Request, response models.ResponseModel) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(response.Code)

	if err := json.NewEncoder(w).Encode(response); err != nil {
		api.Logger.Error("unable to encode response", "error", err, "path", r.URL.Path)
	}
}

func (api *RestAPI) invalidAPIKeyResponse(w http.ResponseWriter, r *http.Request) {
	response := models.NewResponseWithClock(http.StatusUnauthorized, nil, "permission denied", api.Clock)
	api.sendResponse(w, r, response)
}

func (api *RestAPI) sendNotFound(w http.ResponseWriter, r *http.Request) {
	response := models.NewResponseWithClock(http.StatusNotFound, nil, "resource not found", api.Clock)
	api.sendResponse(w, r, response)
}

func (api *RestAPI) validationErrorResponse(w http.ResponseWriter, r *http.Request, text string) {
	response := models.NewResponseWithClock(http.StatusBadRequest, nil, text, api.Clock)
	api.sendResponse(w, r, response)
}

func (api *RestAPI) serverErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	api.Logger.Error("internal server error", "error", err, "path", r.URL.Path, "method", r.Method)
	response := models.NewResponseWithClock(http.StatusInternalServerError, nil, "internal server error", api.Clock)
	api.sendResponse(w, r, response)
}

// mergeErrorResponse maps a merge validation failure onto an HTTP status.
// Anything that is not a MergeError is treated as a server error.
func (api *RestAPI) mergeErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	var mergeErr *mergeengine.MergeError
	if !errors.As(err, &mergeErr) {
		api.serverErrorResponse(w, r, err)
		return
	}

	status := http.StatusUnprocessableEntity
	switch mergeErr.Reason {
	case mergeengine.ReasonNotFound:
		status = http.StatusNotFound
	case mergeengine.ReasonUniqueCollision, mergeengine.ReasonAlreadyUndone:
		status = http.StatusConflict
	case mergeengine.ReasonInvalidResolution:
		status = http.StatusBadRequest
	}

	response := models.NewResponseWithClock(status, map[string]string{"reason": mergeErr.Reason}, mergeErr.Message, api.Clock)
	api.sendResponse(w, r, response)
}

type searchTimer struct {
	api   *RestAPI
	start int64
}

func (api *RestAPI) startSearchTimer() *searchTimer {
	return &searchTimer{api: api, start: api.Clock.Now().UnixNano()}
}

func (t *searchTimer) observe() {
	if t.api.Metrics == nil {
		return
	}
	elapsed := float64(t.api.Clock.Now().UnixNano()-t.start) / 1e9
	t.api.Metrics.CandidateSearchTime.Observe(elapsed)
}

// pathID parses the {id} path segment as a positive integer.
func pathID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, errors.New("id must be a positive integer")
	}
	return id, nil
}

// queryTenantID parses the required tenantId query parameter.
func queryTenantID(r *http.Request) (int64, error) {
	raw := r.URL.Query().Get("tenantId")
	if raw == "" {
		return 0, errors.New("tenantId query parameter is required")
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, errors.New("tenantId must be a positive integer")
	}
	return id, nil
}

// decodeJSONBody decodes the request body into dst, rejecting unknown fields.
func decodeJSONBody(r *http.Request, dst interface{}) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return errors.New("request body is not valid JSON")
	}
	return nil
}

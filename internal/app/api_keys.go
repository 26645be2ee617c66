package app

import (
	"net/http"
	"slices"
)

// IsInvalidAPIKey reports whether the supplied key is not one of the
// configured API keys. A blank key is always invalid.
func (app *Application) IsInvalidAPIKey(key string) bool {
	if key == "" {
		return true
	}
	return !slices.Contains(app.Config.ApiKeys, key)
}

// RequestHasInvalidAPIKey checks the "key" query parameter of the request
// against the configured API keys.
func (app *Application) RequestHasInvalidAPIKey(r *http.Request) bool {
	return app.IsInvalidAPIKey(r.URL.Query().Get("key"))
}

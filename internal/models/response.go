package models

import (
	"bukken.rehub.jp/internal/clock"
)

// ResponseModel is the base JSON envelope returned by every API endpoint.
type ResponseModel struct {
	Code        int         `json:"code"`
	CurrentTime int64       `json:"currentTime"`
	Data        interface{} `json:"data,omitempty"`
	Text        string      `json:"text"`
	Version     int         `json:"version"`
}

// NewResponseWithClock creates a response envelope stamped with the provided clock.
func NewResponseWithClock(code int, data interface{}, text string, c clock.Clock) ResponseModel {
	return ResponseModel{
		Code:        code,
		CurrentTime: c.Now().UnixMilli(),
		Data:        data,
		Text:        text,
		Version:     1,
	}
}

// NewOKResponseWithClock creates a successful response using the provided clock.
func NewOKResponseWithClock(data interface{}, c clock.Clock) ResponseModel {
	return NewResponseWithClock(200, data, "OK", c)
}

// NewListResponseWithClock wraps a list payload in the standard envelope.
func NewListResponseWithClock(list interface{}, c clock.Clock) ResponseModel {
	data := map[string]interface{}{
		"limitExceeded": false,
		"list":          list,
	}
	return NewOKResponseWithClock(data, c)
}

// NewEntryResponseWithClock wraps a single-entry payload in the standard envelope.
func NewEntryResponseWithClock(entry interface{}, c clock.Clock) ResponseModel {
	data := map[string]interface{}{
		"entry": entry,
	}
	return NewOKResponseWithClock(data, c)
}

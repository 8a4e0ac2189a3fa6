package api

import "github.com/cockroachdb/errors"

// Backend errors classified by HTTP status. This classification is for
// the view layer and is independent of the playback error taxonomy.
var (
	ErrBadRequest   = errors.New("bad request")
	ErrUnauthorized = errors.New("unauthorized")
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrServer       = errors.New("server error")
	ErrUnavailable  = errors.New("service unavailable")
)

// classifyStatus maps an HTTP status code to a category error. Only
// called for status >= 400.
func classifyStatus(status int) error {
	switch status {
	case 401, 403:
		return ErrUnauthorized
	case 404:
		return ErrNotFound
	case 409:
		return ErrConflict
	case 502, 503, 504:
		return ErrUnavailable
	}
	if status >= 500 {
		return ErrServer
	}
	return ErrBadRequest
}

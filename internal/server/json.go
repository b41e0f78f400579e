package server

import (
	"encoding/json"
	"net/http"

	"github.com/nodewire/nodewire/pkg/errors"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

type errResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

func errorBody(err error) errResponse {
	return errResponse{
		Error: errors.UserMessage(err),
		Code:  string(errors.GetCode(err)),
	}
}

// errorStatus maps an error code to its HTTP status.
func errorStatus(err error) int {
	switch errors.GetCode(err) {
	case errors.ErrCodeNotFound, errors.ErrCodeAliasNotFound:
		return http.StatusNotFound
	case errors.ErrCodeMalformedDocument, errors.ErrCodeInvalidInput:
		return http.StatusBadRequest
	case errors.ErrCodeUnsupportedVersion:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, errorStatus(err), errorBody(err))
}

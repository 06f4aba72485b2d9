package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/quill-labs/paperdesk/internal/core/domain"
	"github.com/quill-labs/paperdesk/internal/logger"
)

// errorPayload is the JSON shape of every error response.
type errorPayload struct {
	ErrorKind string `json:"error_kind"`
	Message   string `json:"message"`
}

// writeJSON writes v with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("encoding response: %v", err)
	}
}

// writeError maps a domain error onto a status and error kind.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	kind := "internal"

	var storageErr *domain.StorageError
	switch {
	case errors.Is(err, domain.ErrNotFound):
		status, kind = http.StatusNotFound, "not_found"
	case errors.Is(err, domain.ErrInvalidInput):
		status, kind = http.StatusBadRequest, "invalid_input"
	case errors.Is(err, domain.ErrTimeout):
		status, kind = http.StatusGatewayTimeout, "timeout"
	case errors.Is(err, domain.ErrLLMUnavailable), errors.Is(err, domain.ErrEmbeddingUnavailable):
		status, kind = http.StatusServiceUnavailable, "unavailable"
	case errors.As(err, &storageErr):
		status, kind = http.StatusInternalServerError, "storage"
	}

	if status == http.StatusInternalServerError {
		logger.Error("request failed: %v", err)
	}
	writeJSON(w, status, errorPayload{ErrorKind: kind, Message: err.Error()})
}

// decodeJSON decodes the request body into v, rejecting unknown fields.
func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("%w: malformed JSON body: %v", domain.ErrInvalidInput, err)
	}
	return nil
}

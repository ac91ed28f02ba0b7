// Package httpx holds the JSON request/response helpers shared by every
// module handler.
package httpx

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-logr/logr"

	"github.com/georgemunganga/storefront-backend/internal/apperr"
)

// maxBodyBytes bounds request bodies.
const maxBodyBytes = 1 << 20

// Respond writes body as JSON with the given status.
func Respond(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

// Decode reads a JSON body into dst. Malformed JSON is a validation error.
func Decode(r *http.Request, dst interface{}) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return apperr.Validation("request body is required")
		}
		return apperr.Validation("invalid JSON body").Wrap(err)
	}
	return nil
}

// ErrorWriter translates errors into HTTP responses.
type ErrorWriter struct {
	// ExposeDetail adds the internal error text to 500 responses.
	ExposeDetail bool
}

// Write sends the status and user-facing message for err. Internal errors
// are logged with the request-scoped logger.
func (ew ErrorWriter) Write(w http.ResponseWriter, r *http.Request, err error) {
	kind := apperr.KindOf(err)
	body := map[string]string{"error": apperr.MessageOf(err)}
	if kind == apperr.KindInternal {
		logr.FromContextOrDiscard(r.Context()).Error(err, "request failed",
			"method", r.Method, "path", r.URL.Path)
		if ew.ExposeDetail {
			body["detail"] = err.Error()
		}
	}
	Respond(w, kind.Status(), body)
}

package server

import (
	"encoding/json"
	"net/http"
	"strconv"

	"tourney/domain"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	log "github.com/sirupsen/logrus"
)

// retryAfterSeconds is sent with 503 responses for retryable failures
const retryAfterSeconds = "2"

type errorResponse struct {
	Code  string `json:"code"`
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.WithError(err).Warn("Failed to encode response")
	}
}

// statusFor maps an error kind to its HTTP status
func statusFor(kind domain.Kind) int {
	switch kind {
	case domain.KindNotFound:
		return http.StatusNotFound
	case domain.KindConflict, domain.KindAlreadyProcessed:
		return http.StatusConflict
	case domain.KindInvalidInput:
		return http.StatusBadRequest
	case domain.KindInsufficientResources:
		return http.StatusUnprocessableEntity
	case domain.KindForbidden:
		return http.StatusForbidden
	default:
		return http.StatusServiceUnavailable
	}
}

// writeError renders err with the status of its kind. Store failures are
// logged with their cause and reported with a generic message.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	kind := domain.KindOf(err)
	switch kind {
	case domain.KindRetryable:
		w.Header().Set("Retry-After", retryAfterSeconds)
	case domain.KindStorageUnavailable:
		log.WithFields(log.Fields{
			"path":      r.URL.Path,
			"requestID": middleware.GetReqID(r.Context()),
		}).WithError(err).Error("Request failed on storage")
	}
	writeJSON(w, statusFor(kind), errorResponse{Code: domain.CodeOf(err), Error: domain.MessageOf(err)})
}

// decodeJSON reads the request body into dst
func decodeJSON(r *http.Request, dst interface{}) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return domain.ErrInvalidInput.WithMessage("Malformed request body")
	}
	return nil
}

// pathID parses the {id} URL parameter
func pathID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, domain.ErrInvalidInput.WithMessage("Invalid id")
	}
	return id, nil
}

// queryLimit parses the optional limit query parameter
func queryLimit(r *http.Request, fallback int) int {
	limit, err := strconv.Atoi(r.URL.Query().Get("limit"))
	if err != nil || limit <= 0 {
		return fallback
	}
	return limit
}

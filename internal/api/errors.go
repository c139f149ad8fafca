package api

import (
	"errors"
	"log"
	"net/http"
)

// errorKind classifies a request failure. Every kind maps to exactly one
// HTTP status in statusByKind, so handlers never pick status codes inline.
type errorKind int

const (
	errMissingIdentifier errorKind = iota
	errMissingFields
	errMalformedDate
	errMissingCredential
	errInvalidCredential
	errForbidden
	errNotFound
)

var statusByKind = map[errorKind]int{
	errMissingIdentifier: http.StatusBadRequest,
	errMissingFields:     http.StatusBadRequest,
	errMalformedDate:     http.StatusBadRequest,
	errMissingCredential: http.StatusUnauthorized,
	errInvalidCredential: http.StatusUnauthorized,
	errForbidden:         http.StatusForbidden,
	errNotFound:          http.StatusNotFound,
}

// apiError is a request failure with a client-facing message.
type apiError struct {
	kind    errorKind
	message string
}

func (e *apiError) Error() string {
	return e.message
}

func missingIdentifier(name string) error {
	return &apiError{kind: errMissingIdentifier, message: name + " required"}
}

func missingFields(message string) error {
	return &apiError{kind: errMissingFields, message: message}
}

func malformedDate(message string) error {
	return &apiError{kind: errMalformedDate, message: message}
}

func missingCredential(message string) error {
	return &apiError{kind: errMissingCredential, message: message}
}

func invalidCredential(message string) error {
	return &apiError{kind: errInvalidCredential, message: message}
}

func forbidden(message string) error {
	return &apiError{kind: errForbidden, message: message}
}

func notFound(message string) error {
	return &apiError{kind: errNotFound, message: message}
}

// respondError maps a pipeline failure to its HTTP response. Client-input
// failures return their message; anything unclassified is logged in full and
// returned as a generic 500.
func respondError(w http.ResponseWriter, r *http.Request, err error) {
	var apiErr *apiError
	if errors.As(err, &apiErr) {
		log.Printf("ERROR: %s %s: %s", r.Method, r.URL.Path, apiErr.message)
		writeJSON(w, statusByKind[apiErr.kind], map[string]string{"error": apiErr.message})
		return
	}

	log.Printf("ERROR: %s %s: internal error: %v", r.Method, r.URL.Path, err)
	writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Internal server error"})
}

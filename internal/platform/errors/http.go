package errors

import (
	"errors"
	"net/http"
)

// HTTPStatus maps domain codes to HTTP status codes for the JSON API.
func (c Code) HTTPStatus() int {
	switch {
	case c == CodeNotFound:
		return http.StatusNotFound
	case c == CodeDuplicateIdentity:
		return http.StatusConflict
	case c == CodeChainBroken, c == CodeHashMismatch:
		// Integrity violations surface as a server-side data fault.
		return http.StatusInternalServerError
	case c.IsValidation():
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// GetCode extracts the error code from any error.
// Returns CodeUnknown if the error is not a domain error.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return CodeUnknown
}

// IsCode checks if the error has the specified code.
func IsCode(err error, code Code) bool {
	return GetCode(err) == code
}

// GetMetadata extracts metadata from an error if present.
// Returns nil if the error is not a domain error or has no metadata.
func GetMetadata(err error) map[string]string {
	var e *Error
	if errors.As(err, &e) {
		return e.Metadata
	}
	return nil
}

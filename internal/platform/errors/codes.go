// Package errors provides structured error handling for the models service.
package errors

import "net/http"

// Code is a machine-readable error code.
type Code string

const (
	// CodeUnknown represents an unknown error.
	CodeUnknown Code = "UNKNOWN"

	// Request errors
	CodeInvalidArgument   Code = "INVALID_ARGUMENT"
	CodeEntityKindInvalid Code = "ENTITY_KIND_INVALID"
	CodeEntityIDInvalid   Code = "ENTITY_ID_INVALID"

	// Lookup errors
	CodeEntityNotFound Code = "ENTITY_NOT_FOUND"

	// Data lake errors
	CodeCatalogDecodeFailed    Code = "CATALOG_DECODE_FAILED"
	CodeEntityInfoDecodeFailed Code = "ENTITY_INFO_DECODE_FAILED"

	// Storage errors
	CodeStorageUnavailable Code = "STORAGE_UNAVAILABLE"
)

// HTTPStatus maps domain codes to HTTP status codes.
func (c Code) HTTPStatus() int {
	switch c {
	case CodeInvalidArgument,
		CodeEntityKindInvalid,
		CodeEntityIDInvalid:
		return http.StatusBadRequest

	case CodeEntityNotFound:
		return http.StatusNotFound

	// Bad source data is the wiki's fault, not the caller's.
	case CodeCatalogDecodeFailed,
		CodeEntityInfoDecodeFailed:
		return http.StatusUnprocessableEntity

	case CodeStorageUnavailable:
		return http.StatusServiceUnavailable

	default:
		return http.StatusInternalServerError
	}
}

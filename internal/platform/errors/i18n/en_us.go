package i18n

// Error codes must match the codes defined in internal/platform/errors/codes.go.
// These are duplicated as strings to avoid an import cycle.
const (
	CodeUnknown                = "UNKNOWN"
	CodeInvalidArgument        = "INVALID_ARGUMENT"
	CodeEntityKindInvalid      = "ENTITY_KIND_INVALID"
	CodeEntityIDInvalid        = "ENTITY_ID_INVALID"
	CodeEntityNotFound         = "ENTITY_NOT_FOUND"
	CodeCatalogDecodeFailed    = "CATALOG_DECODE_FAILED"
	CodeEntityInfoDecodeFailed = "ENTITY_INFO_DECODE_FAILED"
	CodeStorageUnavailable     = "STORAGE_UNAVAILABLE"
)

var enUSMessages = map[Code]string{
	CodeUnknown:                "Something went wrong.",
	CodeInvalidArgument:        "The request is invalid.",
	CodeEntityKindInvalid:      `"{{.Kind}}" is not a hero or boss listing.`,
	CodeEntityIDInvalid:        `"{{.ID}}" is not a valid {{.Kind}} id.`,
	CodeEntityNotFound:         "No {{.Kind}} named {{.ID}}.",
	CodeCatalogDecodeFailed:    "The models for {{.Kind}} {{.ID}} could not be read.",
	CodeEntityInfoDecodeFailed: "The info record for {{.Kind}} {{.ID}} could not be read.",
	CodeStorageUnavailable:     "Model data is temporarily unavailable.",
}

package contract

import "errors"

var (
	ErrStorageUnavailable   = errors.New("order storage unavailable")
	ErrRetrievalUnavailable = errors.New("faq retrieval unavailable")
	ErrModelInvoke          = errors.New("model invoke failed")
	ErrSchemaViolation      = errors.New("model response violates schema")
	ErrPromptMissing        = errors.New("required prompt is missing")
	ErrValidation           = errors.New("validation failed")
)

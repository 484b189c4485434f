package contract

import "errors"

var (
	ErrModelInvoke     = errors.New("model invoke failed")
	ErrSchemaViolation = errors.New("model response violates schema")
	ErrActorNotFound   = errors.New("actor not found")
	ErrValidation      = errors.New("validation failed")
)

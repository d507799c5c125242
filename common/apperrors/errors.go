package apperrors

import "errors"

// Sentinel errors shared by the engine and the HTTP layer.
// Handlers map them with errors.Is; everything else is a 500.
var (
	ErrInvalidInput    = errors.New("invalid input")
	ErrNotFound        = errors.New("not found")
	ErrUnknownPartType = errors.New("unknown part type")
)

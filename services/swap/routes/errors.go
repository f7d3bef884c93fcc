package routes

import (
	"github.com/0xCicerax/IGNIS-Frontend-sub001/errors"
)

// Error codes here are part of the frontend contract; details carry the
// concrete reason.
var (
	ErrMalformedRoute = &errors.DomainError{
		Code:        errors.ErrorCode("MalformedRoute"),
		Details:     "malformed route",
		UserMessage: "This swap route is invalid. Refresh the quote and try again.",
	}
)

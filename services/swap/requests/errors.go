package requests

import (
	"github.com/0xCicerax/IGNIS-Frontend-sub001/errors"
)

// Pre-flight guard errors. Codes are stable identifiers shared with the
// frontend; UserMessage is what ends up on screen.
var (
	ErrInvalidRequest = &errors.DomainError{
		Code:        errors.ErrorCode("InvalidRequest"),
		Details:     "invalid swap request",
		UserMessage: "The swap request is incomplete.",
	}
	ErrZeroAmount = &errors.DomainError{
		Code:        errors.ErrorCode("ZeroAmount"),
		Details:     "amount must be positive",
		UserMessage: "Enter an amount greater than zero.",
	}
	ErrZeroAmountIn = &errors.DomainError{
		Code:        errors.ErrorCode("ZeroAmountIn"),
		Details:     "input amount must be positive",
		UserMessage: "Enter an amount greater than zero.",
	}
	ErrZeroMinAmountOut = &errors.DomainError{
		Code:        errors.ErrorCode("ZeroMinOutput"),
		Details:     "minimum amount out must be positive",
		UserMessage: "The quote expired. Refresh and try again.",
	}
	ErrDeadlineExpired = &errors.DomainError{
		Code:        errors.ErrorCode("DeadlineExpired"),
		Details:     "deadline %d is in the past (now %d)",
		UserMessage: "This quote has expired. Refresh and try again.",
		Retryable:   true,
	}
	ErrDeadlineTooSoon = &errors.DomainError{
		Code:        errors.ErrorCode("DeadlineTooSoon"),
		Details:     "deadline %d leaves less than %ds to execute (now %d)",
		UserMessage: "The transaction deadline is too tight.",
	}
	ErrDeadlineTooFar = &errors.DomainError{
		Code:        errors.ErrorCode("DeadlineTooFar"),
		Details:     "deadline %d exceeds the %ds window (now %d)",
		UserMessage: "The transaction deadline is too far in the future.",
	}
	ErrInvalidSlippage = &errors.DomainError{
		Code:        errors.ErrorCode("InvalidSlippage"),
		Details:     "slippage %d bps is negative",
		UserMessage: "Slippage tolerance is invalid.",
	}
	ErrSlippageTooHigh = &errors.DomainError{
		Code:        errors.ErrorCode("SlippageTooHigh"),
		Details:     "slippage %d bps exceeds the %d bps maximum",
		UserMessage: "Slippage tolerance is above the allowed maximum.",
	}
	ErrRouteTokenMismatch = &errors.DomainError{
		Code:        errors.ErrorCode("RouteTokenMismatch"),
		Details:     "route %s token %s does not match request token %s",
		UserMessage: "The route does not match the selected tokens. Refresh the quote.",
	}
)

// Warning codes.
const (
	WarningLowMinimumOutput = "LowMinimumOutput"
	WarningHighSlippage     = "HighSlippage"
	WarningStaleQuote       = "StaleQuote"
)

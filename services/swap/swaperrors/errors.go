package swaperrors

import (
	"github.com/0xCicerax/IGNIS-Frontend-sub001/errors"
)

// The closed taxonomy every execution failure is mapped onto. Codes are the
// stable contract with the frontend; contract reverts keep the on-chain error
// name as their code and are built in classifier.go.
var (
	ErrUserRejected = &errors.DomainError{
		Code:          errors.ErrorCode("UserRejected"),
		Details:       "transaction rejected in the wallet",
		UserMessage:   "You declined the transaction in your wallet.",
		UserRejection: true,
		Retryable:     true,
	}
	ErrExecutionReverted = &errors.DomainError{
		Code:        errors.ErrorCode("ExecutionReverted"),
		Details:     "execution reverted",
		UserMessage: "The transaction was rejected on chain.",
	}
	ErrInsufficientBalance = &errors.DomainError{
		Code:        errors.ErrorCode("InsufficientBalance"),
		Details:     "account balance cannot cover the transaction",
		UserMessage: "Your balance cannot cover this swap and its gas fee.",
	}
	ErrNonceError = &errors.DomainError{
		Code:        errors.ErrorCode("NonceError"),
		Details:     "transaction nonce conflict",
		UserMessage: "Another pending transaction is in the way. Try again in a moment.",
		Retryable:   true,
	}
	ErrGasPriceError = &errors.DomainError{
		Code:        errors.ErrorCode("GasPriceError"),
		Details:     "gas price rejected by the network",
		UserMessage: "The network fee moved. Try again.",
		Retryable:   true,
	}
	ErrNetworkError = &errors.DomainError{
		Code:        errors.ErrorCode("NetworkError"),
		Details:     "network request failed",
		UserMessage: "The network connection failed. Check your connection and try again.",
		Retryable:   true,
	}
	ErrTxTimeout = &errors.DomainError{
		Code:        errors.ErrorCode("TxTimeout"),
		Details:     "transaction not confirmed within the tracking window",
		UserMessage: "Confirmation is taking longer than expected. The swap may still complete; check the transaction before retrying.",
	}
	ErrSwapReverted = &errors.DomainError{
		Code:        errors.ErrorCode("SwapReverted"),
		Details:     "swap transaction reverted",
		UserMessage: "The swap failed on chain. No tokens were exchanged.",
	}
	ErrWrapReverted = &errors.DomainError{
		Code:        errors.ErrorCode("WrapReverted"),
		Details:     "wrap transaction reverted",
		UserMessage: "Wrapping failed on chain. Your balance is unchanged.",
	}
	ErrUnwrapReverted = &errors.DomainError{
		Code:        errors.ErrorCode("UnwrapReverted"),
		Details:     "unwrap transaction reverted",
		UserMessage: "Unwrapping failed on chain. Your balance is unchanged.",
	}
	ErrApprovalReverted = &errors.DomainError{
		Code:        errors.ErrorCode("ApprovalReverted"),
		Details:     "approval transaction reverted",
		UserMessage: "The token approval failed on chain.",
	}
	ErrUnknown = &errors.DomainError{
		Code:        errors.ErrorCode("UnknownError"),
		Details:     "unclassified error",
		UserMessage: "Something went wrong. Please try again.",
	}
)

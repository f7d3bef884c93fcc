package swaperrors

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/vm"
	"github.com/ethereum/go-ethereum/rpc"

	"github.com/0xCicerax/IGNIS-Frontend-sub001/contracts/swaprouter"
	ignisErrors "github.com/0xCicerax/IGNIS-Frontend-sub001/errors"
	"github.com/0xCicerax/IGNIS-Frontend-sub001/transactions"
)

// Solidity builtin revert selectors: Error(string) and Panic(uint256).
var (
	errorStringSelector = [4]byte{0x08, 0xc3, 0x79, 0xa0}
	panicSelector       = [4]byte{0x4e, 0x48, 0x7b, 0x71}
)

// retryableReverts are contract failures a fresh quote can get past.
var retryableReverts = map[string]bool{
	"DeadlineExpired":    true,
	"InsufficientOutput": true,
	"InsufficientBuffer": true,
}

// userMessages overrides the default revert message for failures the user can
// actually reason about.
var userMessages = map[string]string{
	"DeadlineExpired":       "The swap took too long and its deadline passed. Refresh the quote and try again.",
	"InsufficientOutput":    "The price moved beyond your slippage tolerance. Refresh the quote and try again.",
	"InsufficientLiquidity": "There is not enough liquidity for this trade right now.",
	"PoolNotInitialized":    "One of the pools on this route does not exist yet. Refresh the quote.",
	"PriceLimitExceeded":    "The trade would push the pool past its price limit. Try a smaller amount.",
	"InsufficientBuffer":    "The vault buffer is too shallow for this amount right now. Try again or use a smaller amount.",
	"BufferNotInitialized":  "The vault buffer for this token is not set up yet.",
	"ExceedsMaxDeposit":     "The vault cannot accept a deposit of this size.",
	"ExceedsMaxWithdraw":    "The vault cannot serve a withdrawal of this size.",
	"RouterPaused":          "Trading is temporarily paused.",
	"StakingPaused":         "Staking is temporarily paused.",
	"Unauthorized":          "This account is not allowed to perform the operation.",
	"InvalidPath":           "The swap route is invalid. Refresh the quote.",
}

const defaultRevertUserMessage = "The swap could not be completed on chain."

var rejectionPhrases = []string{
	"user rejected",
	"user denied",
	"rejected by user",
	"request rejected",
	"user cancelled",
	"user canceled",
}

var panicReasons = map[uint64]string{
	0x00: "generic compiler panic",
	0x01: "assertion failed",
	0x11: "arithmetic overflow or underflow",
	0x12: "division or modulo by zero",
	0x21: "invalid enum value",
	0x22: "storage byte array incorrectly encoded",
	0x31: "pop on empty array",
	0x32: "array index out of bounds",
	0x41: "out of memory",
	0x51: "call to a zero-initialized function variable",
}

// vmErrors mark failures raised by the EVM itself rather than the transport.
var vmErrors = []error{
	vm.ErrOutOfGas,
	vm.ErrCodeStoreOutOfGas,
	vm.ErrDepth,
	vm.ErrInsufficientBalance,
	vm.ErrContractAddressCollision,
	vm.ErrExecutionReverted,
	vm.ErrMaxCodeSizeExceeded,
	vm.ErrInvalidJump,
	vm.ErrWriteProtection,
	vm.ErrReturnDataOutOfBounds,
	vm.ErrGasUintOverflow,
	vm.ErrInvalidCode,
	vm.ErrNonceUintOverflow,
}

// Classify maps any failure from the execution pipeline onto the closed
// domain taxonomy. Already classified errors pass through untouched.
func Classify(err error) *ignisErrors.DomainError {
	if err == nil {
		return nil
	}
	var domain *ignisErrors.DomainError
	if errors.As(err, &domain) {
		return domain
	}
	if isUserRejection(err) {
		return ErrUserRejected.WithDetails(err.Error())
	}
	if data, ok := revertData(err); ok {
		return classifyRevertData(data)
	}

	message := err.Error()
	if strings.Contains(strings.ToLower(message), "revert") {
		if name, ok := revertNameInMessage(message); ok {
			return revertError(name)
		}
		return ErrExecutionReverted.WithDetails(truncate(message))
	}
	return classifyInfra(err)
}

// IsRevert reports whether the error is the EVM saying no, rather than the
// transport failing. Gas estimation falls back to constants only when this
// returns false.
func IsRevert(err error) bool {
	if err == nil {
		return false
	}
	if _, ok := revertData(err); ok {
		return true
	}
	message := strings.ToLower(err.Error())
	if strings.Contains(message, "revert") {
		return true
	}
	for _, vmErr := range vmErrors {
		if strings.Contains(message, vmErr.Error()) {
			return true
		}
	}
	return false
}

// IsRetryable reports whether retrying with a fresh quote can succeed.
func IsRetryable(err error) bool {
	classified := Classify(err)
	return classified != nil && classified.Retryable
}

// IsUserRejection reports whether the user declined in the wallet.
func IsUserRejection(err error) bool {
	classified := Classify(err)
	return classified != nil && classified.UserRejection
}

func isUserRejection(err error) bool {
	if errors.Is(err, transactions.ErrUserRejected) {
		return true
	}
	message := strings.ToLower(err.Error())
	for _, phrase := range rejectionPhrases {
		if strings.Contains(message, phrase) {
			return true
		}
	}
	return false
}

// revertData digs the raw revert payload out of an rpc error, when present.
func revertData(err error) ([]byte, bool) {
	var dataErr rpc.DataError
	if !errors.As(err, &dataErr) {
		return nil, false
	}
	switch v := dataErr.ErrorData().(type) {
	case string:
		if decoded, decodeErr := hexutil.Decode(v); decodeErr == nil {
			return decoded, true
		}
	case hexutil.Bytes:
		return v, true
	case []byte:
		return v, true
	}
	return nil, false
}

func classifyRevertData(data []byte) *ignisErrors.DomainError {
	if len(data) < 4 {
		return ErrExecutionReverted.WithDetails(fmt.Sprintf("revert data too short: %s", hexutil.Encode(data)))
	}
	var selector [4]byte
	copy(selector[:], data[:4])

	switch selector {
	case errorStringSelector:
		reason, unpackErr := abi.UnpackRevert(data)
		if unpackErr != nil {
			return ErrExecutionReverted.WithDetails("undecodable Error(string) payload")
		}
		if name, ok := revertNameInMessage(reason); ok {
			return revertError(name)
		}
		return ErrExecutionReverted.WithDetails(reason)
	case panicSelector:
		return ErrExecutionReverted.WithDetails(panicDetails(data))
	}

	if entry, ok := swaprouter.RevertBySelector(selector); ok {
		return revertError(entry.Name)
	}
	return ErrExecutionReverted.WithDetails(fmt.Sprintf("unknown revert selector %s", hexutil.Encode(selector[:])))
}

func revertError(name string) *ignisErrors.DomainError {
	userMessage, ok := userMessages[name]
	if !ok {
		userMessage = defaultRevertUserMessage
	}
	return &ignisErrors.DomainError{
		Code:        ignisErrors.ErrorCode(name),
		Details:     fmt.Sprintf("contract reverted with %s", name),
		UserMessage: userMessage,
		Retryable:   retryableReverts[name],
	}
}

func revertNameInMessage(message string) (string, bool) {
	for _, entry := range swaprouter.Reverts() {
		if strings.Contains(message, entry.Name) {
			return entry.Name, true
		}
	}
	return "", false
}

func panicDetails(data []byte) string {
	if len(data) < 4+32 {
		return "malformed Panic(uint256) payload"
	}
	code := new(big.Int).SetBytes(data[4 : 4+32]).Uint64()
	if reason, ok := panicReasons[code]; ok {
		return fmt.Sprintf("panic 0x%02x: %s", code, reason)
	}
	return fmt.Sprintf("panic 0x%02x", code)
}

func classifyInfra(err error) *ignisErrors.DomainError {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return ErrNetworkError.WithDetails(err.Error())
	}

	message := err.Error()
	lower := strings.ToLower(message)
	switch {
	case strings.Contains(lower, "insufficient funds"),
		strings.Contains(lower, "insufficient balance"):
		return ErrInsufficientBalance.WithDetails(truncate(message))
	case strings.Contains(lower, "underpriced"),
		strings.Contains(lower, "fee cap"),
		strings.Contains(lower, "tip cap"),
		strings.Contains(lower, "max fee per gas"):
		return ErrGasPriceError.WithDetails(truncate(message))
	case strings.Contains(lower, "nonce too low"),
		strings.Contains(lower, "nonce too high"),
		strings.Contains(lower, "invalid nonce"),
		strings.Contains(lower, "already known"):
		return ErrNonceError.WithDetails(truncate(message))
	case isNetworkMessage(lower):
		return ErrNetworkError.WithDetails(truncate(message))
	}
	return ErrUnknown.WithDetails(truncate(message))
}

var networkPhrases = []string{
	"connection refused",
	"connection reset",
	"timeout",
	"timed out",
	"deadline exceeded",
	"no such host",
	"network is unreachable",
	"too many requests",
	"service unavailable",
	"bad gateway",
	"broken pipe",
	"eof",
}

func isNetworkMessage(lower string) bool {
	for _, phrase := range networkPhrases {
		if strings.Contains(lower, phrase) {
			return true
		}
	}
	return false
}

const maxDetailLength = 256

func truncate(message string) string {
	if len(message) <= maxDetailLength {
		return message
	}
	return message[:maxDetailLength] + "..."
}

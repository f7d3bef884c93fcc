package transactions

import (
	"errors"
	"fmt"
)

var (
	// ErrUserRejected is returned by a Signer when the user declines the
	// signature prompt in their wallet.
	ErrUserRejected = errors.New("user rejected transaction")

	// ErrInvalidSendTxArgs is returned when the transaction arguments are invalid.
	ErrInvalidSendTxArgs = errors.New("transaction arguments are invalid")

	// ErrInvalidSignatureSize is returned if a signature is not 65 bytes to avoid panic from go-ethereum
	ErrInvalidSignatureSize = errors.New("signature size must be 65")
)

type ErrBadNonce struct {
	nonce         uint64
	expectedNonce uint64
}

func (e *ErrBadNonce) Error() string {
	return fmt.Sprintf("bad nonce. expected %d, got %d", e.expectedNonce, e.nonce)
}

package swapevent

import (
	"github.com/ethereum/go-ethereum/common"
)

// EventType type for event types.
type EventType string

const (
	// EventExecutionStateChanged fires on every transition of a swap
	// execution. Message carries the serialized execution status.
	EventExecutionStateChanged EventType = "swap-execution-state-changed"

	// EventExecutionCompleted fires once per execution, when it reaches a
	// terminal state.
	EventExecutionCompleted EventType = "swap-execution-completed"
)

// Event is a type for swap execution events.
type Event struct {
	Type     EventType        `json:"type"`
	ChainID  uint64           `json:"chainId"`
	Accounts []common.Address `json:"accounts"`
	Message  string           `json:"message"`
	At       int64            `json:"at"`
}

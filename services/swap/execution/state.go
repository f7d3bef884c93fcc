package execution

import (
	"github.com/ethereum/go-ethereum/common"

	"github.com/0xCicerax/IGNIS-Frontend-sub001/errors"
)

// State names one step of the execution machine. The string values are part
// of the frontend contract and are serialized as-is.
type State string

const (
	StateIdle               State = "idle"
	StatePreparing          State = "preparing"
	StateAwaitingApproval   State = "awaitingApproval"
	StateApproving          State = "approving"
	StatePreparingExecution State = "preparingExecution"
	StateAwaitingSignature  State = "awaitingSignature"
	StatePending            State = "pending"
	StateConfirming         State = "confirming"
	StateSuccess            State = "success"
	StateFailed             State = "failed"
	StateRejected           State = "rejected"
)

// Terminal reports whether the state ends a run. Only idle and terminal
// states accept a reset.
func (s State) Terminal() bool {
	return s == StateSuccess || s == StateFailed || s == StateRejected
}

// Status is a point-in-time snapshot of one execution. Transaction hashes,
// once set, survive every later transition, including failures.
type Status struct {
	Uuid            string              `json:"uuid"`
	State           State               `json:"state"`
	TransactionHash *common.Hash        `json:"transactionHash,omitempty"`
	ApprovalHash    *common.Hash        `json:"approvalHash,omitempty"`
	Error           *errors.DomainError `json:"error,omitempty"`
}

// Observer receives every state change synchronously, in transition order,
// on the goroutine driving the execution.
type Observer func(status Status)

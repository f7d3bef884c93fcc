package transactions

import (
	"bytes"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

// SendTxArgs carries a transaction before it is signed. JSON names follow
// the eth_sendTransaction wire format so frontend payloads map over as is.
type SendTxArgs struct {
	From                 common.Address  `json:"from"`
	To                   *common.Address `json:"to"`
	Gas                  *hexutil.Uint64 `json:"gas"`
	GasPrice             *hexutil.Big    `json:"gasPrice"`
	Value                *hexutil.Big    `json:"value"`
	Nonce                *hexutil.Uint64 `json:"nonce"`
	MaxFeePerGas         *hexutil.Big    `json:"maxFeePerGas"`
	MaxPriorityFeePerGas *hexutil.Big    `json:"maxPriorityFeePerGas"`
	// Both fields name the calldata; older callers still send "data",
	// newer ones "input".
	Input hexutil.Bytes `json:"input"`
	Data  hexutil.Bytes `json:"data"`
}

// Valid reports whether the calldata fields are coherent. When both are
// set they must carry the same payload.
func (args SendTxArgs) Valid() bool {
	if len(args.Input) == 0 || len(args.Data) == 0 {
		return true
	}
	return bytes.Equal(args.Input, args.Data)
}

// IsDynamicFeeTx reports whether the args ask for an EIP-1559 transaction.
func (args SendTxArgs) IsDynamicFeeTx() bool {
	return args.MaxFeePerGas != nil && args.MaxPriorityFeePerGas != nil
}

// GetInput returns the calldata, preferring Input over Data.
func (args SendTxArgs) GetInput() []byte {
	if len(args.Input) > 0 {
		return args.Input
	}
	return args.Data
}

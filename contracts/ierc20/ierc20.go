package ierc20

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
)

// IERC20ABI covers the ERC-20 calls the swap flow needs.
const IERC20ABI = `[
	{"constant":true,"inputs":[{"name":"owner","type":"address"},{"name":"spender","type":"address"}],"name":"allowance","outputs":[{"name":"","type":"uint256"}],"type":"function"},
	{"constant":false,"inputs":[{"name":"spender","type":"address"},{"name":"amount","type":"uint256"}],"name":"approve","outputs":[{"name":"","type":"bool"}],"type":"function"},
	{"constant":true,"inputs":[{"name":"account","type":"address"}],"name":"balanceOf","outputs":[{"name":"","type":"uint256"}],"type":"function"}
]`

func parsedABI() (abi.ABI, error) {
	return abi.JSON(strings.NewReader(IERC20ABI))
}

// PackAllowance builds calldata for allowance(owner, spender).
func PackAllowance(owner, spender common.Address) ([]byte, error) {
	erc20ABI, err := parsedABI()
	if err != nil {
		return nil, err
	}
	return erc20ABI.Pack("allowance", owner, spender)
}

// UnpackAllowance reads the uint256 result of an allowance call.
func UnpackAllowance(output []byte) (*big.Int, error) {
	erc20ABI, err := parsedABI()
	if err != nil {
		return nil, err
	}
	results, err := erc20ABI.Unpack("allowance", output)
	if err != nil {
		return nil, err
	}
	allowance, ok := results[0].(*big.Int)
	if !ok {
		return nil, fmt.Errorf("unexpected allowance result type %T", results[0])
	}
	return allowance, nil
}

// PackApprove builds calldata for approve(spender, amount).
func PackApprove(spender common.Address, amount *big.Int) ([]byte, error) {
	erc20ABI, err := parsedABI()
	if err != nil {
		return nil, err
	}
	return erc20ABI.Pack("approve", spender, amount)
}

// PackBalanceOf builds calldata for balanceOf(account).
func PackBalanceOf(account common.Address) ([]byte, error) {
	erc20ABI, err := parsedABI()
	if err != nil {
		return nil, err
	}
	return erc20ABI.Pack("balanceOf", account)
}

// UnpackBalanceOf reads the uint256 result of a balanceOf call.
func UnpackBalanceOf(output []byte) (*big.Int, error) {
	erc20ABI, err := parsedABI()
	if err != nil {
		return nil, err
	}
	results, err := erc20ABI.Unpack("balanceOf", output)
	if err != nil {
		return nil, err
	}
	balance, ok := results[0].(*big.Int)
	if !ok {
		return nil, fmt.Errorf("unexpected balance result type %T", results[0])
	}
	return balance, nil
}

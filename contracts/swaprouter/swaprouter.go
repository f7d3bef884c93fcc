package swaprouter

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
)

// SwapRouterABI covers the router entry point the execution flow drives.
// The route argument is the packed route blob.
const SwapRouterABI = `[
	{"inputs":[{"name":"route","type":"bytes"},{"name":"amountIn","type":"uint256"},{"name":"minAmountOut","type":"uint256"},{"name":"deadline","type":"uint256"}],"name":"execute","outputs":[{"name":"amountOut","type":"uint256"}],"stateMutability":"payable","type":"function"}
]`

func parsedABI() (abi.ABI, error) {
	return abi.JSON(strings.NewReader(SwapRouterABI))
}

// PackExecute builds calldata for execute(route, amountIn, minAmountOut, deadline).
func PackExecute(route []byte, amountIn, minAmountOut, deadline *big.Int) ([]byte, error) {
	routerABI, err := parsedABI()
	if err != nil {
		return nil, err
	}
	return routerABI.Pack("execute", route, amountIn, minAmountOut, deadline)
}

// UnpackExecuteResult reads the amountOut a simulated execute call returned.
func UnpackExecuteResult(output []byte) (*big.Int, error) {
	routerABI, err := parsedABI()
	if err != nil {
		return nil, err
	}
	results, err := routerABI.Unpack("execute", output)
	if err != nil {
		return nil, err
	}
	amountOut, ok := results[0].(*big.Int)
	if !ok {
		return nil, fmt.Errorf("unexpected execute result type %T", results[0])
	}
	return amountOut, nil
}

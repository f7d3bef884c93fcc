package routes

import (
	"bytes"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"github.com/0xCicerax/IGNIS-Frontend-sub001/services/swap/bigint"
)

// Action identifies what a single hop does on chain.
type Action uint8

const (
	ActionSwapCL  Action = 0x00 // concentrated-liquidity pool swap
	ActionSwapBin Action = 0x01 // bin-liquidity pool swap
	ActionWrap    Action = 0x02 // wrap into a vault share
	ActionUnwrap  Action = 0x03 // unwrap a vault share
)

func (a Action) Valid() bool {
	return a <= ActionUnwrap
}

func (a Action) IsSwap() bool {
	return a == ActionSwapCL || a == ActionSwapBin
}

func (a Action) String() string {
	switch a {
	case ActionSwapCL:
		return "SWAP_CL"
	case ActionSwapBin:
		return "SWAP_BIN"
	case ActionWrap:
		return "WRAP"
	case ActionUnwrap:
		return "UNWRAP"
	}
	return fmt.Sprintf("UNKNOWN(0x%02x)", uint8(a))
}

func (a Action) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

// CLPoolParams are the pool parameters of a concentrated-liquidity hop.
type CLPoolParams struct {
	Token0      common.Address `json:"token0"`
	Token1      common.Address `json:"token1"`
	FeeTier     uint32         `json:"feeTier"`
	TickSpacing int32          `json:"tickSpacing"`
	Hooks       common.Address `json:"hooks"`
	ZeroForOne  bool           `json:"zeroForOne"`
}

// BinPoolParams are the pool parameters of a bin-liquidity hop.
type BinPoolParams struct {
	Token0     common.Address `json:"token0"`
	Token1     common.Address `json:"token1"`
	BinStep    uint16         `json:"binStep"`
	Hooks      common.Address `json:"hooks"`
	ZeroForOne bool           `json:"zeroForOne"`
}

// VaultParams are the parameters of a wrap or unwrap hop.
type VaultParams struct {
	Vault     common.Address `json:"vault"`
	UseBuffer bool           `json:"useBuffer"`
}

// Hop is one decoded step of a route. Exactly one of the params fields is set,
// matching the action.
type Hop struct {
	Action   Action         `json:"action"`
	TokenIn  common.Address `json:"tokenIn"`
	TokenOut common.Address `json:"tokenOut"`
	CL       *CLPoolParams  `json:"clParams,omitempty"`
	Bin      *BinPoolParams `json:"binParams,omitempty"`
	Vault    *VaultParams   `json:"vaultParams,omitempty"`
}

// SubRoute is an ordered hop chain. Split routes carry the slice of the input
// amount routed through each sub-route; single routes leave AmountIn nil.
type SubRoute struct {
	Hops     []Hop          `json:"hops"`
	AmountIn *bigint.BigInt `json:"amountIn,omitempty"`
}

// DecodedRoute is the typed form of the packed route calldata.
type DecodedRoute struct {
	Split     bool       `json:"split"`
	SubRoutes []SubRoute `json:"subRoutes"`
}

// AllHops returns every hop across all sub-routes, in order.
func (r *DecodedRoute) AllHops() []Hop {
	var hops []Hop
	for _, sub := range r.SubRoutes {
		hops = append(hops, sub.Hops...)
	}
	return hops
}

func (r *DecodedRoute) HopCount() int {
	count := 0
	for _, sub := range r.SubRoutes {
		count += len(sub.Hops)
	}
	return count
}

func (r *DecodedRoute) ContainsSwap() bool {
	for _, hop := range r.AllHops() {
		if hop.Action.IsSwap() {
			return true
		}
	}
	return false
}

// FirstAction returns the leading hop's action, used to attribute reverts of
// wrap-only and unwrap-only routes.
func (r *DecodedRoute) FirstAction() Action {
	if len(r.SubRoutes) == 0 || len(r.SubRoutes[0].Hops) == 0 {
		return ActionSwapCL
	}
	return r.SubRoutes[0].Hops[0].Action
}

// InputToken is the token the route consumes. All sub-routes share it.
func (r *DecodedRoute) InputToken() common.Address {
	if len(r.SubRoutes) == 0 || len(r.SubRoutes[0].Hops) == 0 {
		return common.Address{}
	}
	return r.SubRoutes[0].Hops[0].TokenIn
}

// OutputToken is the token the route produces. All sub-routes share it.
func (r *DecodedRoute) OutputToken() common.Address {
	if len(r.SubRoutes) == 0 || len(r.SubRoutes[0].Hops) == 0 {
		return common.Address{}
	}
	hops := r.SubRoutes[0].Hops
	return hops[len(hops)-1].TokenOut
}

// TotalAllocation sums the split allocations. It returns nil for single routes.
func (r *DecodedRoute) TotalAllocation() *big.Int {
	if !r.Split {
		return nil
	}
	total := new(big.Int)
	for _, sub := range r.SubRoutes {
		if sub.AmountIn != nil && sub.AmountIn.Int != nil {
			total.Add(total, sub.AmountIn.Int)
		}
	}
	return total
}

// Validate checks the structural invariants an executable route must hold:
// hop chaining, shared endpoints, pool params matching the hop tokens, and
// positive split allocations. When expectedTotal is non-nil the split
// allocations must sum to it exactly.
func (r *DecodedRoute) Validate(expectedTotal *big.Int) error {
	if len(r.SubRoutes) == 0 {
		return ErrMalformedRoute.WithDetails("no sub-routes")
	}
	if !r.Split && len(r.SubRoutes) != 1 {
		return ErrMalformedRoute.WithDetails("single route carries multiple sub-routes")
	}

	routeIn := r.InputToken()
	routeOut := r.OutputToken()
	total := new(big.Int)
	for si, sub := range r.SubRoutes {
		if len(sub.Hops) == 0 {
			return ErrMalformedRoute.WithDetails(fmt.Sprintf("sub-route %d: no hops", si))
		}
		for i := 0; i+1 < len(sub.Hops); i++ {
			if sub.Hops[i].TokenOut != sub.Hops[i+1].TokenIn {
				return ErrMalformedRoute.WithDetails(fmt.Sprintf(
					"sub-route %d: hop %d output %s does not feed hop %d input %s",
					si, i, sub.Hops[i].TokenOut.Hex(), i+1, sub.Hops[i+1].TokenIn.Hex()))
			}
		}
		if sub.Hops[0].TokenIn != routeIn {
			return ErrMalformedRoute.WithDetails(fmt.Sprintf("sub-route %d: input token diverges", si))
		}
		if sub.Hops[len(sub.Hops)-1].TokenOut != routeOut {
			return ErrMalformedRoute.WithDetails(fmt.Sprintf("sub-route %d: output token diverges", si))
		}
		for hi, hop := range sub.Hops {
			if err := validateHop(si, hi, hop); err != nil {
				return err
			}
		}
		if r.Split {
			if sub.AmountIn == nil || sub.AmountIn.Int == nil || sub.AmountIn.Sign() <= 0 {
				return ErrMalformedRoute.WithDetails(fmt.Sprintf("sub-route %d: non-positive allocation", si))
			}
			total.Add(total, sub.AmountIn.Int)
		}
	}
	if r.Split && expectedTotal != nil && total.Cmp(expectedTotal) != 0 {
		return ErrMalformedRoute.WithDetails(fmt.Sprintf("allocations sum to %s, expected %s", total, expectedTotal))
	}
	return nil
}

func validateHop(si, hi int, hop Hop) error {
	switch hop.Action {
	case ActionSwapCL:
		if hop.CL == nil {
			return ErrMalformedRoute.WithDetails(fmt.Sprintf("sub-route %d: hop %d misses cl params", si, hi))
		}
		return validatePoolPair(si, hi, hop, hop.CL.Token0, hop.CL.Token1, hop.CL.ZeroForOne)
	case ActionSwapBin:
		if hop.Bin == nil {
			return ErrMalformedRoute.WithDetails(fmt.Sprintf("sub-route %d: hop %d misses bin params", si, hi))
		}
		return validatePoolPair(si, hi, hop, hop.Bin.Token0, hop.Bin.Token1, hop.Bin.ZeroForOne)
	case ActionWrap, ActionUnwrap:
		if hop.Vault == nil {
			return ErrMalformedRoute.WithDetails(fmt.Sprintf("sub-route %d: hop %d misses vault params", si, hi))
		}
		if hop.Vault.Vault == (common.Address{}) {
			return ErrMalformedRoute.WithDetails(fmt.Sprintf("sub-route %d: hop %d references the zero vault", si, hi))
		}
		return nil
	}
	return ErrMalformedRoute.WithDetails(fmt.Sprintf("sub-route %d: hop %d has unknown action", si, hi))
}

// Pool pairs are stored sorted; the direction flag ties the hop tokens to the
// pair order.
func validatePoolPair(si, hi int, hop Hop, token0, token1 common.Address, zeroForOne bool) error {
	if bytes.Compare(token0.Bytes(), token1.Bytes()) >= 0 {
		return ErrMalformedRoute.WithDetails(fmt.Sprintf("sub-route %d: hop %d pool pair not sorted", si, hi))
	}
	expectedIn, expectedOut := token0, token1
	if !zeroForOne {
		expectedIn, expectedOut = token1, token0
	}
	if hop.TokenIn != expectedIn || hop.TokenOut != expectedOut {
		return ErrMalformedRoute.WithDetails(fmt.Sprintf(
			"sub-route %d: hop %d tokens disagree with pool pair and direction", si, hi))
	}
	return nil
}

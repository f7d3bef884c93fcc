package swaprouter

import (
	"github.com/ethereum/go-ethereum/crypto"
)

// RevertError identifies one custom error the on-chain contracts can raise.
type RevertError struct {
	Name      string
	Signature string
}

// revertList is the single source of truth for the custom errors of the
// router, the pools, the vault buffer, and the staker. Selectors and name
// lookups both derive from it.
var revertList = []RevertError{
	// router
	{"DeadlineExpired", "DeadlineExpired(uint256,uint256)"},
	{"InsufficientOutput", "InsufficientOutput(uint256,uint256)"},
	{"ExcessiveInput", "ExcessiveInput(uint256,uint256)"},
	{"InvalidPath", "InvalidPath()"},
	{"InvalidRecipient", "InvalidRecipient(address)"},
	{"CurrencyNotSettled", "CurrencyNotSettled()"},
	{"LockHeld", "LockHeld()"},
	{"Unauthorized", "Unauthorized()"},
	{"ZeroSwapAmount", "ZeroSwapAmount()"},
	{"NativeTransferFailed", "NativeTransferFailed()"},
	{"RouterPaused", "RouterPaused()"},

	// pools and quoter
	{"PoolNotInitialized", "PoolNotInitialized()"},
	{"PriceLimitExceeded", "PriceLimitExceeded(uint160)"},
	{"InsufficientLiquidity", "InsufficientLiquidity()"},
	{"InvalidFeeTier", "InvalidFeeTier(uint24)"},
	{"InvalidTickSpacing", "InvalidTickSpacing(int24)"},
	{"TickOutOfRange", "TickOutOfRange(int24)"},
	{"InvalidBinStep", "InvalidBinStep(uint16)"},
	{"BinOutOfLiquidity", "BinOutOfLiquidity(uint24)"},
	{"InvalidHookResponse", "InvalidHookResponse(address)"},
	{"HookCallFailed", "HookCallFailed(address)"},
	{"SwapAmountOverflow", "SwapAmountOverflow()"},

	// vault buffer
	{"InsufficientBuffer", "InsufficientBuffer(address,uint256,uint256)"},
	{"BufferNotInitialized", "BufferNotInitialized(address)"},
	{"ExceedsMaxDeposit", "ExceedsMaxDeposit(address,uint256,uint256)"},
	{"ExceedsMaxWithdraw", "ExceedsMaxWithdraw(address,uint256,uint256)"},
	{"VaultNotRegistered", "VaultNotRegistered(address)"},
	{"WrapAmountTooSmall", "WrapAmountTooSmall(uint256)"},
	{"BufferSharesLocked", "BufferSharesLocked()"},

	// staker
	{"StakingPaused", "StakingPaused()"},
	{"NothingToClaim", "NothingToClaim(address)"},
	{"InvalidRewardToken", "InvalidRewardToken(address)"},
	{"StakeLocked", "StakeLocked(uint256,uint256)"},
}

var (
	selectorToRevert map[[4]byte]RevertError
	nameToRevert     map[string]RevertError
)

func init() {
	selectorToRevert = make(map[[4]byte]RevertError, len(revertList))
	nameToRevert = make(map[string]RevertError, len(revertList))
	for _, entry := range revertList {
		selectorToRevert[keccak4(entry.Signature)] = entry
		nameToRevert[entry.Name] = entry
	}
}

func keccak4(signature string) [4]byte {
	hash := crypto.Keccak256([]byte(signature))
	var selector [4]byte
	copy(selector[:], hash[:4])
	return selector
}

// Reverts returns every known contract error.
func Reverts() []RevertError {
	return revertList
}

// RevertBySelector resolves a 4-byte revert selector to the contract error.
func RevertBySelector(selector [4]byte) (RevertError, bool) {
	entry, ok := selectorToRevert[selector]
	return entry, ok
}

// RevertByName resolves a contract error by its bare name.
func RevertByName(name string) (RevertError, bool) {
	entry, ok := nameToRevert[name]
	return entry, ok
}

// Selector returns the 4-byte selector of the entry's signature.
func (r RevertError) Selector() [4]byte {
	return keccak4(r.Signature)
}

package bigint

import (
	"encoding/json"
	"fmt"
	"math/big"
	"strings"
)

// BigInt is a big.Int wrapper marshalling to and from a decimal JSON string,
// so uint256 amounts survive JavaScript clients untouched.
type BigInt struct {
	*big.Int
}

func (b BigInt) MarshalJSON() ([]byte, error) {
	if b.Int == nil {
		return []byte(`"0"`), nil
	}
	return json.Marshal(b.Int.String())
}

func (b *BigInt) UnmarshalJSON(input []byte) error {
	var raw string
	if err := json.Unmarshal(input, &raw); err != nil {
		// tolerate bare JSON numbers
		raw = string(input)
	}
	value, ok := new(big.Int).SetString(raw, 10)
	if !ok {
		return fmt.Errorf("invalid decimal big int %q", raw)
	}
	b.Int = value
	return nil
}

// HexBigInt is a big.Int wrapper marshalling to and from a 0x-prefixed hex
// JSON string. Unlike hexutil it tolerates leading zero digits.
type HexBigInt struct {
	*big.Int
}

func (b HexBigInt) MarshalJSON() ([]byte, error) {
	if b.Int == nil {
		return json.Marshal("0x0")
	}
	return json.Marshal("0x" + b.Int.Text(16))
}

func (b *HexBigInt) UnmarshalJSON(input []byte) error {
	var raw string
	if err := json.Unmarshal(input, &raw); err != nil {
		return err
	}
	if !strings.HasPrefix(raw, "0x") && !strings.HasPrefix(raw, "0X") {
		return fmt.Errorf("hex big int %q misses 0x prefix", raw)
	}
	value, ok := new(big.Int).SetString(raw[2:], 16)
	if !ok {
		return fmt.Errorf("invalid hex big int %q", raw)
	}
	b.Int = value
	return nil
}

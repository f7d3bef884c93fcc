package routes

import (
	"encoding/binary"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"github.com/0xCicerax/IGNIS-Frontend-sub001/errors"
	"github.com/0xCicerax/IGNIS-Frontend-sub001/services/swap/bigint"
)

// Packed route layout. All integers big-endian, addresses raw 20 bytes,
// payload fields packed as ABI-style 32-byte words.
//
// single route:   hopCount uint8, then per hop
//                 action uint8 | tokenIn 20B | tokenOut 20B | payloadLen uint16 | payload
// split route:    0xFFFF marker, subRouteCount uint8, then per sub-route
//                 blobLen uint16 | single-route blob | allocation 32B
const (
	splitMarkerByte = 0xFF

	wordLen      = 32
	addrLen      = 20
	hopHeaderLen = 1 + 2*addrLen + 2

	clPayloadLen    = 6 * wordLen
	binPayloadLen   = 5 * wordLen
	vaultPayloadLen = 2 * wordLen

	allocationLen = 32

	maxFeeTier     = 1<<24 - 1
	maxTickSpacing = 1<<23 - 1
	minTickSpacing = -(1 << 23)
)

// Decode parses packed route calldata into its typed form. The blob must be
// exact: trailing bytes, truncations, unknown actions, and payload length
// mismatches all fail with MalformedRoute.
func Decode(data []byte) (*DecodedRoute, error) {
	if len(data) == 0 {
		return nil, ErrMalformedRoute.WithDetails("empty route")
	}
	if len(data) >= 2 && data[0] == splitMarkerByte && data[1] == splitMarkerByte {
		return decodeSplit(data)
	}
	hops, consumed, err := decodeHops(data)
	if err != nil {
		return nil, err
	}
	if consumed != len(data) {
		return nil, ErrMalformedRoute.WithDetails(fmt.Sprintf("%d trailing bytes", len(data)-consumed))
	}
	return &DecodedRoute{SubRoutes: []SubRoute{{Hops: hops}}}, nil
}

func decodeSplit(data []byte) (*DecodedRoute, error) {
	if len(data) < 3 {
		return nil, ErrMalformedRoute.WithDetails("truncated split header")
	}
	count := int(data[2])
	if count == 0 {
		return nil, ErrMalformedRoute.WithDetails("zero sub-route count")
	}
	offset := 3
	subRoutes := make([]SubRoute, 0, count)
	for i := 0; i < count; i++ {
		if len(data)-offset < 2 {
			return nil, ErrMalformedRoute.WithDetails(fmt.Sprintf("sub-route %d: truncated length", i))
		}
		blobLen := int(binary.BigEndian.Uint16(data[offset : offset+2]))
		offset += 2
		if len(data)-offset < blobLen+allocationLen {
			return nil, ErrMalformedRoute.WithDetails(fmt.Sprintf("sub-route %d: truncated body", i))
		}
		hops, consumed, err := decodeHops(data[offset : offset+blobLen])
		if err != nil {
			if de, ok := err.(*errors.DomainError); ok {
				return nil, ErrMalformedRoute.WithDetails(fmt.Sprintf("sub-route %d: %s", i, de.Details))
			}
			return nil, err
		}
		if consumed != blobLen {
			return nil, ErrMalformedRoute.WithDetails(fmt.Sprintf("sub-route %d: %d trailing bytes", i, blobLen-consumed))
		}
		offset += blobLen
		amount := new(big.Int).SetBytes(data[offset : offset+allocationLen])
		offset += allocationLen
		subRoutes = append(subRoutes, SubRoute{Hops: hops, AmountIn: &bigint.BigInt{Int: amount}})
	}
	if offset != len(data) {
		return nil, ErrMalformedRoute.WithDetails(fmt.Sprintf("%d trailing bytes", len(data)-offset))
	}
	return &DecodedRoute{Split: true, SubRoutes: subRoutes}, nil
}

func decodeHops(data []byte) ([]Hop, int, error) {
	if len(data) == 0 {
		return nil, 0, ErrMalformedRoute.WithDetails("empty hop block")
	}
	hopCount := int(data[0])
	if hopCount == 0 {
		return nil, 0, ErrMalformedRoute.WithDetails("zero hop count")
	}
	offset := 1
	hops := make([]Hop, 0, hopCount)
	for i := 0; i < hopCount; i++ {
		if len(data)-offset < hopHeaderLen {
			return nil, 0, ErrMalformedRoute.WithDetails(fmt.Sprintf("hop %d: truncated header", i))
		}
		action := Action(data[offset])
		if !action.Valid() {
			return nil, 0, ErrMalformedRoute.WithDetails(fmt.Sprintf("hop %d: unknown action 0x%02x", i, data[offset]))
		}
		hop := Hop{
			Action:   action,
			TokenIn:  common.BytesToAddress(data[offset+1 : offset+1+addrLen]),
			TokenOut: common.BytesToAddress(data[offset+1+addrLen : offset+1+2*addrLen]),
		}
		payloadLen := int(binary.BigEndian.Uint16(data[offset+hopHeaderLen-2 : offset+hopHeaderLen]))
		offset += hopHeaderLen
		if len(data)-offset < payloadLen {
			return nil, 0, ErrMalformedRoute.WithDetails(fmt.Sprintf("hop %d: truncated payload", i))
		}
		payload := data[offset : offset+payloadLen]
		offset += payloadLen

		var err error
		switch action {
		case ActionSwapCL:
			hop.CL, err = decodeCLParams(payload)
		case ActionSwapBin:
			hop.Bin, err = decodeBinParams(payload)
		case ActionWrap, ActionUnwrap:
			hop.Vault, err = decodeVaultParams(payload)
		}
		if err != nil {
			return nil, 0, ErrMalformedRoute.WithDetails(fmt.Sprintf("hop %d: %s", i, err))
		}
		hops = append(hops, hop)
	}
	return hops, offset, nil
}

func decodeCLParams(payload []byte) (*CLPoolParams, error) {
	if len(payload) != clPayloadLen {
		return nil, fmt.Errorf("cl params need %d bytes, got %d", clPayloadLen, len(payload))
	}
	token0, err := wordAddress(word(payload, 0))
	if err != nil {
		return nil, fmt.Errorf("token0: %s", err)
	}
	token1, err := wordAddress(word(payload, 1))
	if err != nil {
		return nil, fmt.Errorf("token1: %s", err)
	}
	feeTier, err := wordUint(word(payload, 2), 3)
	if err != nil {
		return nil, fmt.Errorf("fee tier: %s", err)
	}
	tickSpacing, err := wordInt24(word(payload, 3))
	if err != nil {
		return nil, fmt.Errorf("tick spacing: %s", err)
	}
	hooks, err := wordAddress(word(payload, 4))
	if err != nil {
		return nil, fmt.Errorf("hooks: %s", err)
	}
	zeroForOne, err := wordBool(word(payload, 5))
	if err != nil {
		return nil, fmt.Errorf("direction: %s", err)
	}
	return &CLPoolParams{
		Token0:      token0,
		Token1:      token1,
		FeeTier:     uint32(feeTier),
		TickSpacing: tickSpacing,
		Hooks:       hooks,
		ZeroForOne:  zeroForOne,
	}, nil
}

func decodeBinParams(payload []byte) (*BinPoolParams, error) {
	if len(payload) != binPayloadLen {
		return nil, fmt.Errorf("bin params need %d bytes, got %d", binPayloadLen, len(payload))
	}
	token0, err := wordAddress(word(payload, 0))
	if err != nil {
		return nil, fmt.Errorf("token0: %s", err)
	}
	token1, err := wordAddress(word(payload, 1))
	if err != nil {
		return nil, fmt.Errorf("token1: %s", err)
	}
	binStep, err := wordUint(word(payload, 2), 2)
	if err != nil {
		return nil, fmt.Errorf("bin step: %s", err)
	}
	hooks, err := wordAddress(word(payload, 3))
	if err != nil {
		return nil, fmt.Errorf("hooks: %s", err)
	}
	zeroForOne, err := wordBool(word(payload, 4))
	if err != nil {
		return nil, fmt.Errorf("direction: %s", err)
	}
	return &BinPoolParams{
		Token0:     token0,
		Token1:     token1,
		BinStep:    uint16(binStep),
		Hooks:      hooks,
		ZeroForOne: zeroForOne,
	}, nil
}

func decodeVaultParams(payload []byte) (*VaultParams, error) {
	if len(payload) != vaultPayloadLen {
		return nil, fmt.Errorf("vault params need %d bytes, got %d", vaultPayloadLen, len(payload))
	}
	vault, err := wordAddress(word(payload, 0))
	if err != nil {
		return nil, fmt.Errorf("vault: %s", err)
	}
	useBuffer, err := wordBool(word(payload, 1))
	if err != nil {
		return nil, fmt.Errorf("buffer flag: %s", err)
	}
	return &VaultParams{Vault: vault, UseBuffer: useBuffer}, nil
}

// Encode produces the packed calldata for a decoded route, the exact inverse
// of Decode.
func Encode(route *DecodedRoute) ([]byte, error) {
	if route == nil || len(route.SubRoutes) == 0 {
		return nil, ErrMalformedRoute.WithDetails("no sub-routes")
	}
	if !route.Split {
		if len(route.SubRoutes) != 1 {
			return nil, ErrMalformedRoute.WithDetails("single route carries multiple sub-routes")
		}
		return encodeHops(route.SubRoutes[0].Hops)
	}

	if len(route.SubRoutes) > 255 {
		return nil, ErrMalformedRoute.WithDetails("too many sub-routes")
	}
	out := []byte{splitMarkerByte, splitMarkerByte, byte(len(route.SubRoutes))}
	for i, sub := range route.SubRoutes {
		blob, err := encodeHops(sub.Hops)
		if err != nil {
			return nil, err
		}
		if len(blob) > 1<<16-1 {
			return nil, ErrMalformedRoute.WithDetails(fmt.Sprintf("sub-route %d: blob too long", i))
		}
		if sub.AmountIn == nil || sub.AmountIn.Int == nil || sub.AmountIn.Sign() < 0 || sub.AmountIn.BitLen() > 256 {
			return nil, ErrMalformedRoute.WithDetails(fmt.Sprintf("sub-route %d: allocation out of range", i))
		}
		out = binary.BigEndian.AppendUint16(out, uint16(len(blob)))
		out = append(out, blob...)
		allocation := make([]byte, allocationLen)
		sub.AmountIn.FillBytes(allocation)
		out = append(out, allocation...)
	}
	return out, nil
}

func encodeHops(hops []Hop) ([]byte, error) {
	if len(hops) == 0 {
		return nil, ErrMalformedRoute.WithDetails("no hops")
	}
	if len(hops) > 255 {
		return nil, ErrMalformedRoute.WithDetails("too many hops")
	}
	out := []byte{byte(len(hops))}
	for i, hop := range hops {
		payload, err := encodeHopPayload(hop)
		if err != nil {
			return nil, ErrMalformedRoute.WithDetails(fmt.Sprintf("hop %d: %s", i, err))
		}
		out = append(out, byte(hop.Action))
		out = append(out, hop.TokenIn.Bytes()...)
		out = append(out, hop.TokenOut.Bytes()...)
		out = binary.BigEndian.AppendUint16(out, uint16(len(payload)))
		out = append(out, payload...)
	}
	return out, nil
}

func encodeHopPayload(hop Hop) ([]byte, error) {
	switch hop.Action {
	case ActionSwapCL:
		if hop.CL == nil {
			return nil, fmt.Errorf("missing cl params")
		}
		if hop.CL.FeeTier > maxFeeTier {
			return nil, fmt.Errorf("fee tier overflows uint24")
		}
		if hop.CL.TickSpacing > maxTickSpacing || hop.CL.TickSpacing < minTickSpacing {
			return nil, fmt.Errorf("tick spacing overflows int24")
		}
		payload := make([]byte, 0, clPayloadLen)
		payload = append(payload, addressWord(hop.CL.Token0)...)
		payload = append(payload, addressWord(hop.CL.Token1)...)
		payload = append(payload, uintWord(uint64(hop.CL.FeeTier))...)
		payload = append(payload, int24Word(hop.CL.TickSpacing)...)
		payload = append(payload, addressWord(hop.CL.Hooks)...)
		payload = append(payload, boolWord(hop.CL.ZeroForOne)...)
		return payload, nil
	case ActionSwapBin:
		if hop.Bin == nil {
			return nil, fmt.Errorf("missing bin params")
		}
		payload := make([]byte, 0, binPayloadLen)
		payload = append(payload, addressWord(hop.Bin.Token0)...)
		payload = append(payload, addressWord(hop.Bin.Token1)...)
		payload = append(payload, uintWord(uint64(hop.Bin.BinStep))...)
		payload = append(payload, addressWord(hop.Bin.Hooks)...)
		payload = append(payload, boolWord(hop.Bin.ZeroForOne)...)
		return payload, nil
	case ActionWrap, ActionUnwrap:
		if hop.Vault == nil {
			return nil, fmt.Errorf("missing vault params")
		}
		payload := make([]byte, 0, vaultPayloadLen)
		payload = append(payload, addressWord(hop.Vault.Vault)...)
		payload = append(payload, boolWord(hop.Vault.UseBuffer)...)
		return payload, nil
	}
	return nil, fmt.Errorf("unknown action 0x%02x", uint8(hop.Action))
}

func word(payload []byte, i int) []byte {
	return payload[i*wordLen : (i+1)*wordLen]
}

func allZero(b []byte) bool {
	for _, v := range b {
		if v != 0 {
			return false
		}
	}
	return true
}

func wordAddress(w []byte) (common.Address, error) {
	if !allZero(w[:wordLen-addrLen]) {
		return common.Address{}, fmt.Errorf("address word has dirty upper bytes")
	}
	return common.BytesToAddress(w[wordLen-addrLen:]), nil
}

func wordUint(w []byte, width int) (uint64, error) {
	if !allZero(w[:wordLen-width]) {
		return 0, fmt.Errorf("integer word has dirty upper bytes")
	}
	var v uint64
	for _, b := range w[wordLen-width:] {
		v = v<<8 | uint64(b)
	}
	return v, nil
}

func wordBool(w []byte) (bool, error) {
	if !allZero(w[:wordLen-1]) || w[wordLen-1] > 1 {
		return false, fmt.Errorf("bool word must be 0 or 1")
	}
	return w[wordLen-1] == 1, nil
}

// wordInt24 reads a sign-extended int24 from the low 3 bytes of the word.
func wordInt24(w []byte) (int32, error) {
	raw := uint32(w[wordLen-3])<<16 | uint32(w[wordLen-2])<<8 | uint32(w[wordLen-1])
	v := int32(raw)
	pad := byte(0x00)
	if raw&0x800000 != 0 {
		v = int32(raw | 0xFF000000)
		pad = 0xFF
	}
	for _, b := range w[:wordLen-3] {
		if b != pad {
			return 0, fmt.Errorf("int24 word has dirty sign padding")
		}
	}
	return v, nil
}

func addressWord(addr common.Address) []byte {
	w := make([]byte, wordLen)
	copy(w[wordLen-addrLen:], addr.Bytes())
	return w
}

func uintWord(v uint64) []byte {
	w := make([]byte, wordLen)
	binary.BigEndian.PutUint64(w[wordLen-8:], v)
	return w
}

func boolWord(v bool) []byte {
	w := make([]byte, wordLen)
	if v {
		w[wordLen-1] = 1
	}
	return w
}

func int24Word(v int32) []byte {
	w := make([]byte, wordLen)
	if v < 0 {
		for i := range w {
			w[i] = 0xFF
		}
	}
	w[wordLen-3] = byte(v >> 16)
	w[wordLen-2] = byte(v >> 8)
	w[wordLen-1] = byte(v)
	return w
}

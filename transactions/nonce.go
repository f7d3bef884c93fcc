package transactions

import (
	"context"
	"sync"

	"github.com/ethereum/go-ethereum/common"
)

// UnlockNonceFunc releases the sender's nonce lock. inc records n+1 as the
// next local nonce first; pass false when the transaction never went out.
type UnlockNonceFunc func(inc bool, n uint64)

// Nonce hands out send nonces for one chain, serializing concurrent sends
// from the same address. The local cache covers the window where a sent
// transaction is not yet reflected in the node's pending count.
type Nonce struct {
	locker AddrLocker
	mu     sync.Mutex
	next   map[common.Address]uint64
}

func NewNonce() *Nonce {
	return &Nonce{next: make(map[common.Address]uint64)}
}

// Next reserves the nonce for from and keeps the address locked until
// unlock is called.
func (n *Nonce) Next(ctx context.Context, client ChainCaller, from common.Address) (uint64, UnlockNonceFunc, error) {
	n.locker.LockAddr(from)
	current, err := n.current(ctx, client, from)
	if err != nil {
		n.locker.UnlockAddr(from)
		return 0, nil, err
	}

	unlock := func(inc bool, nonce uint64) {
		if inc {
			n.mu.Lock()
			n.next[from] = nonce + 1
			n.mu.Unlock()
		}
		n.locker.UnlockAddr(from)
	}
	return current, unlock, nil
}

func (n *Nonce) current(ctx context.Context, client ChainCaller, from common.Address) (uint64, error) {
	remote, err := client.PendingNonceAt(ctx, from)
	if err != nil {
		return 0, err
	}

	n.mu.Lock()
	local := n.next[from]
	n.mu.Unlock()

	// The node wins when it is ahead; another wallet may have sent from
	// this account in the meantime.
	if remote > local {
		return remote, nil
	}
	return local, nil
}

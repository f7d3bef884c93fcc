package history

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/stretchr/testify/require"

	"github.com/0xCicerax/IGNIS-Frontend-sub001/appdatabase"
	"github.com/0xCicerax/IGNIS-Frontend-sub001/services/swap/bigint"
	"github.com/0xCicerax/IGNIS-Frontend-sub001/services/swap/execution"
)

var (
	historyAccount = common.HexToAddress("0x00000000000000000000000000000000000000a1")
	otherAccount   = common.HexToAddress("0x00000000000000000000000000000000000000b2")
	tokenInAddr    = common.HexToAddress("0x00000000000000000000000000000000000000d1")
	tokenOutAddr   = common.HexToAddress("0x00000000000000000000000000000000000000e5")
)

func setupTestStore(t *testing.T) *Store {
	db, err := appdatabase.InitializeDB(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, db.Close())
	})

	store, err := NewStore(db)
	require.NoError(t, err)
	return store
}

func sampleRecord(uuid string) *Record {
	return &Record{
		Uuid:           uuid,
		ChainID:        1,
		Account:        historyAccount,
		TokenIn:        tokenInAddr,
		TokenInSymbol:  "USDC",
		TokenOut:       tokenOutAddr,
		TokenOutSymbol: "WETH",
		AmountIn:       &bigint.BigInt{Int: big.NewInt(50_000_000)},
		MinAmountOut:   &bigint.BigInt{Int: big.NewInt(24_000_000_000_000_000)},
		RouteBytes:     hexutil.Bytes{0x00, 0x00, 0x00, 0x01},
		State:          execution.StatePending,
		CreatedAt:      1700000000,
		UpdatedAt:      1700000000,
	}
}

func TestStorePutAndGet(t *testing.T) {
	store := setupTestStore(t)

	record := sampleRecord("exec-1")
	txHash := common.HexToHash("0x01")
	approvalHash := common.HexToHash("0x02")
	record.TxHash = &txHash
	record.ApprovalHash = &approvalHash
	require.NoError(t, store.Put(record))

	loaded, err := store.Get("exec-1")
	require.NoError(t, err)
	require.Equal(t, record, loaded)

	missing, err := store.Get("unknown")
	require.NoError(t, err)
	require.Nil(t, missing)
}

func TestStorePutWithoutHashes(t *testing.T) {
	store := setupTestStore(t)

	require.NoError(t, store.Put(sampleRecord("exec-1")))

	loaded, err := store.Get("exec-1")
	require.NoError(t, err)
	require.Nil(t, loaded.TxHash)
	require.Nil(t, loaded.ApprovalHash)
}

func TestStorePutReplacesByUuid(t *testing.T) {
	store := setupTestStore(t)

	record := sampleRecord("exec-1")
	require.NoError(t, store.Put(record))

	txHash := common.HexToHash("0x01")
	record.TxHash = &txHash
	record.State = execution.StateSuccess
	record.UpdatedAt = 1700000090
	require.NoError(t, store.Put(record))

	loaded, err := store.Get("exec-1")
	require.NoError(t, err)
	require.Equal(t, execution.StateSuccess, loaded.State)
	require.Equal(t, &txHash, loaded.TxHash)
	require.Equal(t, int64(1700000090), loaded.UpdatedAt)

	records, err := store.ListByAccount(1, historyAccount, 0)
	require.NoError(t, err)
	require.Len(t, records, 1)
}

func TestStoreListByAccount(t *testing.T) {
	store := setupTestStore(t)

	first := sampleRecord("exec-1")
	first.CreatedAt = 1700000000
	second := sampleRecord("exec-2")
	second.CreatedAt = 1700000100
	foreign := sampleRecord("exec-3")
	foreign.Account = otherAccount
	otherChain := sampleRecord("exec-4")
	otherChain.ChainID = 10
	for _, record := range []*Record{first, second, foreign, otherChain} {
		require.NoError(t, store.Put(record))
	}

	records, err := store.ListByAccount(1, historyAccount, 0)
	require.NoError(t, err)
	require.Len(t, records, 2)
	// Newest first.
	require.Equal(t, "exec-2", records[0].Uuid)
	require.Equal(t, "exec-1", records[1].Uuid)

	records, err = store.ListByAccount(1, historyAccount, 1)
	require.NoError(t, err)
	require.Len(t, records, 1)
	require.Equal(t, "exec-2", records[0].Uuid)

	records, err = store.ListByAccount(1, otherAccount, 0)
	require.NoError(t, err)
	require.Len(t, records, 1)
	require.Equal(t, "exec-3", records[0].Uuid)
}

func TestStoreGetByTransactionHash(t *testing.T) {
	store := setupTestStore(t)

	record := sampleRecord("exec-1")
	txHash := common.HexToHash("0xab")
	record.TxHash = &txHash
	require.NoError(t, store.Put(record))

	loaded, err := store.GetByTransactionHash(1, txHash)
	require.NoError(t, err)
	require.Equal(t, "exec-1", loaded.Uuid)

	// Same hash on another chain is a different transaction.
	missing, err := store.GetByTransactionHash(10, txHash)
	require.NoError(t, err)
	require.Nil(t, missing)

	missing, err = store.GetByTransactionHash(1, common.HexToHash("0xcd"))
	require.NoError(t, err)
	require.Nil(t, missing)
}

func TestStoreListUnresolved(t *testing.T) {
	store := setupTestStore(t)

	hashFor := func(uuid string) *common.Hash {
		hash := common.BytesToHash([]byte(uuid))
		return &hash
	}

	pending := sampleRecord("exec-pending")
	pending.TxHash = hashFor(pending.Uuid)
	pending.State = execution.StatePending

	confirming := sampleRecord("exec-confirming")
	confirming.TxHash = hashFor(confirming.Uuid)
	confirming.State = execution.StateConfirming
	confirming.UpdatedAt = 1700000050

	timedOut := sampleRecord("exec-timed-out")
	timedOut.TxHash = hashFor(timedOut.Uuid)
	timedOut.State = execution.StateFailed
	timedOut.ErrorCode = "TxTimeout"

	succeeded := sampleRecord("exec-succeeded")
	succeeded.TxHash = hashFor(succeeded.Uuid)
	succeeded.State = execution.StateSuccess

	reverted := sampleRecord("exec-reverted")
	reverted.TxHash = hashFor(reverted.Uuid)
	reverted.State = execution.StateFailed
	reverted.ErrorCode = "SwapReverted"

	neverSent := sampleRecord("exec-never-sent")
	neverSent.State = execution.StatePending

	stale := sampleRecord("exec-stale")
	stale.TxHash = hashFor(stale.Uuid)
	stale.State = execution.StatePending
	stale.UpdatedAt = 1600000000

	for _, record := range []*Record{pending, confirming, timedOut, succeeded, reverted, neverSent, stale} {
		require.NoError(t, store.Put(record))
	}

	records, err := store.ListUnresolved(1690000000, 0)
	require.NoError(t, err)
	require.Len(t, records, 3)

	uuids := make([]string, 0, len(records))
	for _, record := range records {
		uuids = append(uuids, record.Uuid)
	}
	require.ElementsMatch(t, []string{"exec-pending", "exec-confirming", "exec-timed-out"}, uuids)
}

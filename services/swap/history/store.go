package history

import (
	"database/sql"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/pkg/errors"

	"github.com/0xCicerax/IGNIS-Frontend-sub001/services/swap/bigint"
	"github.com/0xCicerax/IGNIS-Frontend-sub001/services/swap/execution"
	"github.com/0xCicerax/IGNIS-Frontend-sub001/services/swap/swaperrors"
)

const defaultListLimit = 100

// Record is one row of the swap execution history.
type Record struct {
	Uuid           string          `json:"uuid"`
	ChainID        uint64          `json:"chainId"`
	Account        common.Address  `json:"account"`
	TokenIn        common.Address  `json:"tokenIn"`
	TokenInSymbol  string          `json:"tokenInSymbol"`
	TokenOut       common.Address  `json:"tokenOut"`
	TokenOutSymbol string          `json:"tokenOutSymbol"`
	AmountIn       *bigint.BigInt  `json:"amountIn"`
	MinAmountOut   *bigint.BigInt  `json:"minAmountOut"`
	RouteBytes     hexutil.Bytes   `json:"routeBytes"`
	TxHash         *common.Hash    `json:"txHash,omitempty"`
	ApprovalHash   *common.Hash    `json:"approvalHash,omitempty"`
	State          execution.State `json:"state"`
	ErrorCode      string          `json:"errorCode,omitempty"`
	CreatedAt      int64           `json:"createdAt"`
	UpdatedAt      int64           `json:"updatedAt"`
}

var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS swap_executions (
		uuid TEXT PRIMARY KEY,
		chain_id UNSIGNED BIGINT NOT NULL,
		account BLOB NOT NULL,
		token_in BLOB NOT NULL,
		token_in_symbol TEXT NOT NULL DEFAULT '',
		token_out BLOB NOT NULL,
		token_out_symbol TEXT NOT NULL DEFAULT '',
		amount_in TEXT NOT NULL,
		min_amount_out TEXT NOT NULL,
		route_bytes BLOB,
		tx_hash BLOB,
		approval_hash BLOB,
		state TEXT NOT NULL,
		error_code TEXT NOT NULL DEFAULT '',
		created_at INTEGER NOT NULL,
		updated_at INTEGER NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS swap_executions_by_account
		ON swap_executions (account, chain_id, created_at)`,
	`CREATE INDEX IF NOT EXISTS swap_executions_by_tx_hash
		ON swap_executions (chain_id, tx_hash)`,
}

const selectColumns = `SELECT uuid, chain_id, account, token_in, token_in_symbol,
	token_out, token_out_symbol, amount_in, min_amount_out, route_bytes,
	tx_hash, approval_hash, state, error_code, created_at, updated_at
	FROM swap_executions`

// Store persists swap executions across restarts. Amounts are stored as
// decimal strings, addresses and hashes as raw blobs.
type Store struct {
	db *sql.DB
}

// NewStore bootstraps the schema and returns a store over db.
func NewStore(db *sql.DB) (*Store, error) {
	for _, statement := range schemaStatements {
		if _, err := db.Exec(statement); err != nil {
			return nil, errors.Wrap(err, "bootstrapping swap executions schema")
		}
	}
	return &Store{db: db}, nil
}

// Put inserts the record, or replaces the whole row stored under its uuid.
func (s *Store) Put(record *Record) error {
	_, err := s.db.Exec(`INSERT OR REPLACE INTO swap_executions
		(uuid, chain_id, account, token_in, token_in_symbol, token_out, token_out_symbol,
		amount_in, min_amount_out, route_bytes, tx_hash, approval_hash, state, error_code,
		created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		record.Uuid, record.ChainID, record.Account, record.TokenIn, record.TokenInSymbol,
		record.TokenOut, record.TokenOutSymbol, amountString(record.AmountIn),
		amountString(record.MinAmountOut), []byte(record.RouteBytes), record.TxHash,
		record.ApprovalHash, string(record.State), record.ErrorCode,
		record.CreatedAt, record.UpdatedAt)
	return errors.Wrap(err, "storing swap execution")
}

// Get returns the record stored under uuid, or nil when there is none.
func (s *Store) Get(uuid string) (*Record, error) {
	record, err := scanRecord(s.db.QueryRow(selectColumns+" WHERE uuid = ?", uuid))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "reading swap execution")
	}
	return record, nil
}

// GetByTransactionHash returns the execution that submitted the given
// transaction, or nil when the hash is unknown.
func (s *Store) GetByTransactionHash(chainID uint64, hash common.Hash) (*Record, error) {
	record, err := scanRecord(s.db.QueryRow(selectColumns+" WHERE chain_id = ? AND tx_hash = ?", chainID, hash))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "reading swap execution by hash")
	}
	return record, nil
}

// ListByAccount returns the account's executions on a chain, newest first.
func (s *Store) ListByAccount(chainID uint64, account common.Address, limit int) ([]*Record, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	rows, err := s.db.Query(selectColumns+` WHERE chain_id = ? AND account = ?
		ORDER BY created_at DESC, uuid DESC LIMIT ?`, chainID, account, limit)
	if err != nil {
		return nil, errors.Wrap(err, "listing swap executions")
	}
	defer rows.Close()
	return collectRecords(rows)
}

// ListUnresolved returns executions whose on-chain outcome is still unknown:
// runs that stopped tracking before a receipt arrived, or were cut short
// mid-confirmation by a restart. Rows untouched since the cutoff are left
// alone. Oldest first, so the longest-waiting rows resolve first.
func (s *Store) ListUnresolved(updatedSince int64, limit int) ([]*Record, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	rows, err := s.db.Query(selectColumns+` WHERE tx_hash IS NOT NULL
		AND (state IN (?, ?) OR (state = ? AND error_code = ?))
		AND updated_at >= ?
		ORDER BY updated_at ASC LIMIT ?`,
		string(execution.StatePending), string(execution.StateConfirming),
		string(execution.StateFailed), string(swaperrors.ErrTxTimeout.Code),
		updatedSince, limit)
	if err != nil {
		return nil, errors.Wrap(err, "listing unresolved swap executions")
	}
	defer rows.Close()
	return collectRecords(rows)
}

func collectRecords(rows *sql.Rows) ([]*Record, error) {
	records := make([]*Record, 0)
	for rows.Next() {
		record, err := scanRecord(rows)
		if err != nil {
			return nil, errors.Wrap(err, "scanning swap execution")
		}
		records = append(records, record)
	}
	return records, nil
}

func scanRecord(row interface{ Scan(dest ...interface{}) error }) (*Record, error) {
	record := &Record{}
	var amountIn, minAmountOut, state string
	var routeBytes, txHash, approvalHash []byte
	err := row.Scan(&record.Uuid, &record.ChainID, &record.Account,
		&record.TokenIn, &record.TokenInSymbol, &record.TokenOut, &record.TokenOutSymbol,
		&amountIn, &minAmountOut, &routeBytes, &txHash, &approvalHash,
		&state, &record.ErrorCode, &record.CreatedAt, &record.UpdatedAt)
	if err != nil {
		return nil, err
	}
	record.AmountIn = parseAmount(amountIn)
	record.MinAmountOut = parseAmount(minAmountOut)
	record.RouteBytes = routeBytes
	record.State = execution.State(state)
	if len(txHash) == common.HashLength {
		hash := common.BytesToHash(txHash)
		record.TxHash = &hash
	}
	if len(approvalHash) == common.HashLength {
		hash := common.BytesToHash(approvalHash)
		record.ApprovalHash = &hash
	}
	return record, nil
}

func amountString(amount *bigint.BigInt) string {
	if amount == nil || amount.Int == nil {
		return "0"
	}
	return amount.String()
}

func parseAmount(value string) *bigint.BigInt {
	amount, ok := new(big.Int).SetString(value, 10)
	if !ok {
		amount = big.NewInt(0)
	}
	return &bigint.BigInt{Int: amount}
}

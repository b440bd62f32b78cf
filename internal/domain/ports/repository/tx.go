package repository

import (
	"context"

	"github.com/jackc/pgx/v4"
)

// Tx is an opaque transaction handle threaded through repository calls.
// The concrete type is infra-defined (pgx.Tx for Postgres); repositories
// must gracefully accept nil for the non-transactional path.
type Tx interface{}

// NoTX is passed where a call should run outside any transaction.
var NoTX Tx

// TransactionManager executes a function inside a database transaction,
// handing the tx handle to the callback. Keeping the handle opaque stops
// transaction types from leaking into use-case signatures.
type TransactionManager interface {
	WithTx(ctx context.Context, txOpt pgx.TxOptions, fn func(ctx context.Context, tx Tx) error) error
}

// Copyright (c) 2026 Ledgermaster Team
// Ledgermaster - multi-owner account ledger
// This source code is licensed under the MIT license found in the LICENSE file.

package db

import (
	"context"

	"github.com/toeirei/ledgermaster/internal/model"
)

// Store defines the interface for all database operations in Ledgermaster.
// This allows for multiple database backends to be implemented.
//
// Lookups return ErrNotFound when nothing matches. Inserts that hit a unique
// constraint return ErrDuplicate.
type Store interface {
	// Account methods
	GetAccount(ctx context.Context, id int64) (model.Account, error)
	GetAccountByNumber(ctx context.Context, number string) (model.Account, error)
	GetAccountsByOwner(ctx context.Context, owner string) ([]model.Account, error)
	GetDefaultAccount(ctx context.Context, owner string) (model.Account, error)
	GetAllAccounts(ctx context.Context) ([]model.Account, error)
	SearchAccounts(ctx context.Context, query string) ([]model.Account, error)
	// CreateAccount inserts the account. When IsDefault is set, the owner's
	// previous default is cleared in the same transaction.
	CreateAccount(ctx context.Context, a model.Account) (model.Account, error)
	UpdateAccount(ctx context.Context, id int64, name string, kind model.AccountKind) (model.Account, error)
	// SetDefaultAccount makes id the only default account of its owner.
	SetDefaultAccount(ctx context.Context, id int64) error
	// DeleteAccount removes the account and its grants. Transactions keep
	// their dangling references.
	DeleteAccount(ctx context.Context, id int64) error
	// AdjustBalance adds delta to the balance with a single conditional
	// update and returns the new balance. It fails with ErrInsufficientFunds
	// instead of going below zero.
	AdjustBalance(ctx context.Context, id int64, delta int64) (int64, error)
	// LockAccounts takes row locks on the given accounts in id order. It only
	// has an effect inside RunInTx on engines with row-level locking.
	LockAccounts(ctx context.Context, ids ...int64) error

	// Grant methods
	CreateGrant(ctx context.Context, g model.SharedGrant) (model.SharedGrant, error)
	// DeleteGrant reports whether a grant was removed.
	DeleteGrant(ctx context.Context, accountID int64, user string) (bool, error)
	GetGrant(ctx context.Context, accountID int64, user string) (model.SharedGrant, error)
	ListGrantsByUser(ctx context.Context, user string) ([]model.GrantWithAccount, error)
	ListGrantsByAccount(ctx context.Context, accountID int64) ([]model.SharedGrant, error)

	// Transaction methods
	CreateTransaction(ctx context.Context, t model.Transaction) (model.Transaction, error)
	GetTransactionByIdentifier(ctx context.Context, identifier string) (model.Transaction, error)
	ListTransactions(ctx context.Context, accountID int64, limit, offset int) ([]model.Transaction, error)

	// Audit Log methods
	LogAction(ctx context.Context, actor, action, details string) error
	GetAllAuditLogEntries(ctx context.Context) ([]model.AuditLogEntry, error)

	// Backup methods
	ExportDataForBackup(ctx context.Context) (*model.BackupData, error)
	ImportDataFromBackup(ctx context.Context, backup *model.BackupData) error
	IntegrateDataFromBackup(ctx context.Context, backup *model.BackupData) error

	// RunInTx runs fn inside one database transaction. The Store passed to fn
	// is bound to that transaction; nested calls join it. Any error returned
	// by fn, or a cancelled ctx, rolls everything back.
	RunInTx(ctx context.Context, fn func(ctx context.Context, tx Store) error) error

	// Type returns the engine name ("sqlite", "postgres", "mysql").
	Type() string
	Close() error
}

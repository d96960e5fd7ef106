// Copyright (c) 2026 Ledgermaster Team
// Ledgermaster - multi-owner account ledger
// This source code is licensed under the MIT license found in the LICENSE file.

package db

import (
	"context"
	"fmt"
	"slices"

	"github.com/toeirei/ledgermaster/internal/model"
	"github.com/uptrace/bun"
)

// bunStore implements Store on top of Bun. The engine types embed it and
// set the hooks that differ between databases.
type bunStore struct {
	db     bun.IDB // *bun.DB, or bun.Tx inside RunInTx
	root   *bun.DB
	dbType string
	// rowLocks is set for engines that support SELECT ... FOR UPDATE.
	rowLocks bool
	// afterImport runs inside the import transaction after rows with
	// explicit ids were written.
	afterImport func(ctx context.Context, tx bun.IDB) error
}

func (s *bunStore) idb() bun.IDB { return s.db }

func (s *bunStore) inTx() bool {
	_, ok := s.db.(bun.Tx)
	return ok
}

// Type returns the engine name.
func (s *bunStore) Type() string { return s.dbType }

// Close releases the connection pool. It is a no-op on a transaction-bound store.
func (s *bunStore) Close() error {
	if s.inTx() || s.root == nil {
		return nil
	}
	return s.root.Close()
}

// RunInTx runs fn inside one transaction; nested calls join the outer one.
func (s *bunStore) RunInTx(ctx context.Context, fn func(ctx context.Context, tx Store) error) error {
	if s.inTx() {
		return fn(ctx, s)
	}
	return s.root.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		txStore := *s
		txStore.db = tx
		return fn(ctx, &txStore)
	})
}

// GetAccount retrieves a single account by id.
func (s *bunStore) GetAccount(ctx context.Context, id int64) (model.Account, error) {
	return GetAccountByIDBun(ctx, s.db, id)
}

// GetAccountByNumber retrieves a single account by its unique number.
func (s *bunStore) GetAccountByNumber(ctx context.Context, number string) (model.Account, error) {
	return GetAccountByNumberBun(ctx, s.db, number)
}

// GetAccountsByOwner returns every account owned by owner.
func (s *bunStore) GetAccountsByOwner(ctx context.Context, owner string) ([]model.Account, error) {
	return GetAccountsByOwnerBun(ctx, s.db, owner)
}

// GetDefaultAccount returns the owner's default account.
func (s *bunStore) GetDefaultAccount(ctx context.Context, owner string) (model.Account, error) {
	return GetDefaultAccountBun(ctx, s.db, owner)
}

// GetAllAccounts retrieves all accounts from the database.
func (s *bunStore) GetAllAccounts(ctx context.Context) ([]model.Account, error) {
	return GetAllAccountsBun(ctx, s.db)
}

// SearchAccounts matches the query tokens against number, name and owner.
func (s *bunStore) SearchAccounts(ctx context.Context, query string) ([]model.Account, error) {
	return SearchAccountsBun(ctx, s.db, query)
}

func (s *bunStore) CreateAccount(ctx context.Context, a model.Account) (model.Account, error) {
	return CreateAccountBun(ctx, s.db, a)
}

func (s *bunStore) UpdateAccount(ctx context.Context, id int64, name string, kind model.AccountKind) (model.Account, error) {
	return UpdateAccountBun(ctx, s.db, id, name, kind)
}

func (s *bunStore) SetDefaultAccount(ctx context.Context, id int64) error {
	return SetDefaultAccountBun(ctx, s.db, id)
}

func (s *bunStore) DeleteAccount(ctx context.Context, id int64) error {
	return DeleteAccountBun(ctx, s.db, id)
}

func (s *bunStore) AdjustBalance(ctx context.Context, id int64, delta int64) (int64, error) {
	return AdjustBalanceBun(ctx, s.db, id, delta)
}

// LockAccounts is a no-op outside a transaction and on engines without row locks.
func (s *bunStore) LockAccounts(ctx context.Context, ids ...int64) error {
	if !s.rowLocks || !s.inTx() {
		return nil
	}
	return LockAccountsBun(ctx, s.db, sortedUnique(ids))
}

func (s *bunStore) CreateGrant(ctx context.Context, g model.SharedGrant) (model.SharedGrant, error) {
	return CreateGrantBun(ctx, s.db, g)
}

func (s *bunStore) DeleteGrant(ctx context.Context, accountID int64, user string) (bool, error) {
	return DeleteGrantBun(ctx, s.db, accountID, user)
}

func (s *bunStore) GetGrant(ctx context.Context, accountID int64, user string) (model.SharedGrant, error) {
	return GetGrantBun(ctx, s.db, accountID, user)
}

func (s *bunStore) ListGrantsByUser(ctx context.Context, user string) ([]model.GrantWithAccount, error) {
	return ListGrantsByUserBun(ctx, s.db, user)
}

func (s *bunStore) ListGrantsByAccount(ctx context.Context, accountID int64) ([]model.SharedGrant, error) {
	return ListGrantsByAccountBun(ctx, s.db, accountID)
}

func (s *bunStore) CreateTransaction(ctx context.Context, t model.Transaction) (model.Transaction, error) {
	return CreateTransactionBun(ctx, s.db, t)
}

func (s *bunStore) GetTransactionByIdentifier(ctx context.Context, identifier string) (model.Transaction, error) {
	return GetTransactionByIdentifierBun(ctx, s.db, identifier)
}

func (s *bunStore) ListTransactions(ctx context.Context, accountID int64, limit, offset int) ([]model.Transaction, error) {
	return ListTransactionsBun(ctx, s.db, accountID, limit, offset)
}

// LogAction records an audit trail event.
func (s *bunStore) LogAction(ctx context.Context, actor, action, details string) error {
	return LogActionBun(ctx, s.db, actor, action, details)
}

// GetAllAuditLogEntries retrieves all entries from the audit log, most recent first.
func (s *bunStore) GetAllAuditLogEntries(ctx context.Context) ([]model.AuditLogEntry, error) {
	return GetAllAuditLogEntriesBun(ctx, s.db)
}

// ExportDataForBackup retrieves all data from the database for a backup.
func (s *bunStore) ExportDataForBackup(ctx context.Context) (*model.BackupData, error) {
	return ExportDataForBackupBun(ctx, s.db)
}

// ImportDataFromBackup wipes all tables and restores the backup.
func (s *bunStore) ImportDataFromBackup(ctx context.Context, backup *model.BackupData) error {
	if backup == nil {
		return fmt.Errorf("nil backup")
	}
	return WithTx(ctx, s.db, func(ctx context.Context, tx bun.IDB) error {
		if err := ImportDataFromBackupBun(ctx, tx, backup); err != nil {
			return err
		}
		if s.afterImport != nil {
			return s.afterImport(ctx, tx)
		}
		return nil
	})
}

// IntegrateDataFromBackup restores the backup without touching existing rows.
func (s *bunStore) IntegrateDataFromBackup(ctx context.Context, backup *model.BackupData) error {
	if backup == nil {
		return fmt.Errorf("nil backup")
	}
	return WithTx(ctx, s.db, func(ctx context.Context, tx bun.IDB) error {
		if err := IntegrateDataFromBackupBun(ctx, tx, backup); err != nil {
			return err
		}
		if s.afterImport != nil {
			return s.afterImport(ctx, tx)
		}
		return nil
	})
}

// sortedUnique returns ids in ascending order without duplicates so
// concurrent lockers always acquire rows in the same order.
func sortedUnique(ids []int64) []int64 {
	out := make([]int64, 0, len(ids))
	seen := map[int64]bool{}
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	slices.Sort(out)
	return out
}

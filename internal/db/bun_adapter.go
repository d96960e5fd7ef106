// Copyright (c) 2026 Ledgermaster Team
// Ledgermaster - multi-owner account ledger
// This source code is licensed under the MIT license found in the LICENSE file.

package db

import (
	"context"
	"errors"
	"fmt"
	"os/user"
	"strings"
	"time"

	"github.com/toeirei/ledgermaster/internal/model"
	"github.com/uptrace/bun"
)

// AccountModel maps the `accounts` table for Bun queries.
type AccountModel struct {
	bun.BaseModel   `bun:"table:accounts,alias:a"`
	ID              int64     `bun:"id,pk,autoincrement"`
	Number          string    `bun:"number"`
	Name            string    `bun:"name"`
	OwnerIdentifier string    `bun:"owner_identifier"`
	IsDefault       bool      `bun:"is_default"`
	Balance         int64     `bun:"balance"`
	Kind            string    `bun:"kind"`
	CreatedAt       time.Time `bun:"created_at"`
	UpdatedAt       time.Time `bun:"updated_at"`
}

// SharedGrantModel maps the `shared_grants` table. Account is populated by
// the joined grant listing.
type SharedGrantModel struct {
	bun.BaseModel  `bun:"table:shared_grants,alias:g"`
	ID             int64         `bun:"id,pk,autoincrement"`
	AccountID      int64         `bun:"account_id"`
	UserIdentifier string        `bun:"user_identifier"`
	Role           string        `bun:"role"`
	CreatedAt      time.Time     `bun:"created_at"`
	Account        *AccountModel `bun:"rel:belongs-to,join:account_id=id"`
}

// TransactionModel maps the `transactions` table.
type TransactionModel struct {
	bun.BaseModel `bun:"table:transactions,alias:t"`
	ID            int64     `bun:"id,pk,autoincrement"`
	Identifier    string    `bun:"identifier"`
	Message       string    `bun:"message"`
	Amount        int64     `bun:"amount"`
	FromAccount   *int64    `bun:"from_account"`
	ToAccount     *int64    `bun:"to_account"`
	Kind          string    `bun:"kind"`
	CreatedAt     time.Time `bun:"created_at"`
}

// AuditLogModel maps the audit_log table.
type AuditLogModel struct {
	bun.BaseModel `bun:"table:audit_log,alias:al"`
	ID            int64     `bun:"id,pk,autoincrement"`
	CreatedAt     time.Time `bun:"created_at"`
	Actor         string    `bun:"actor"`
	Action        string    `bun:"action"`
	Details       string    `bun:"details"`
}

// --- Mapping helpers (centralized conversions) ---

func accountModelToModel(a AccountModel) model.Account {
	return model.Account{
		ID:              a.ID,
		Number:          a.Number,
		Name:            a.Name,
		OwnerIdentifier: a.OwnerIdentifier,
		IsDefault:       a.IsDefault,
		Balance:         a.Balance,
		Kind:            model.AccountKind(a.Kind),
		CreatedAt:       a.CreatedAt,
		UpdatedAt:       a.UpdatedAt,
	}
}

func accountToModel(a model.Account) AccountModel {
	return AccountModel{
		ID:              a.ID,
		Number:          a.Number,
		Name:            a.Name,
		OwnerIdentifier: a.OwnerIdentifier,
		IsDefault:       a.IsDefault,
		Balance:         a.Balance,
		Kind:            string(a.Kind),
		CreatedAt:       a.CreatedAt,
		UpdatedAt:       a.UpdatedAt,
	}
}

func grantModelToModel(g SharedGrantModel) model.SharedGrant {
	return model.SharedGrant{
		ID:        g.ID,
		AccountID: g.AccountID,
		User:      g.UserIdentifier,
		Role:      model.Role(g.Role),
		CreatedAt: g.CreatedAt,
	}
}

func grantToModel(g model.SharedGrant) SharedGrantModel {
	return SharedGrantModel{
		ID:             g.ID,
		AccountID:      g.AccountID,
		UserIdentifier: g.User,
		Role:           string(g.Role),
		CreatedAt:      g.CreatedAt,
	}
}

func transactionModelToModel(t TransactionModel) model.Transaction {
	return model.Transaction{
		ID:          t.ID,
		Identifier:  t.Identifier,
		Message:     t.Message,
		Amount:      t.Amount,
		FromAccount: t.FromAccount,
		ToAccount:   t.ToAccount,
		Kind:        model.TransferKind(t.Kind),
		CreatedAt:   t.CreatedAt,
	}
}

func transactionToModel(t model.Transaction) TransactionModel {
	return TransactionModel{
		ID:          t.ID,
		Identifier:  t.Identifier,
		Message:     t.Message,
		Amount:      t.Amount,
		FromAccount: t.FromAccount,
		ToAccount:   t.ToAccount,
		Kind:        string(t.Kind),
		CreatedAt:   t.CreatedAt,
	}
}

func auditModelToModel(a AuditLogModel) model.AuditLogEntry {
	return model.AuditLogEntry{ID: a.ID, CreatedAt: a.CreatedAt, Actor: a.Actor, Action: a.Action, Details: a.Details}
}

func accountsToModels(am []AccountModel) []model.Account {
	out := make([]model.Account, 0, len(am))
	for _, a := range am {
		out = append(out, accountModelToModel(a))
	}
	return out
}

func now() time.Time {
	return time.Now().UTC()
}

// --- Account helpers ---

// GetAccountByIDBun returns a single account or ErrNotFound.
func GetAccountByIDBun(ctx context.Context, idb bun.IDB, id int64) (model.Account, error) {
	var am AccountModel
	if err := idb.NewSelect().Model(&am).Where("a.id = ?", id).Limit(1).Scan(ctx); err != nil {
		return model.Account{}, MapDBError(err)
	}
	return accountModelToModel(am), nil
}

// GetAccountByNumberBun returns the account with the given number or ErrNotFound.
func GetAccountByNumberBun(ctx context.Context, idb bun.IDB, number string) (model.Account, error) {
	var am AccountModel
	if err := idb.NewSelect().Model(&am).Where("a.number = ?", number).Limit(1).Scan(ctx); err != nil {
		return model.Account{}, MapDBError(err)
	}
	return accountModelToModel(am), nil
}

// GetAccountsByOwnerBun returns the owner's accounts, default first.
func GetAccountsByOwnerBun(ctx context.Context, idb bun.IDB, owner string) ([]model.Account, error) {
	var am []AccountModel
	err := idb.NewSelect().Model(&am).
		Where("a.owner_identifier = ?", owner).
		OrderExpr("a.is_default DESC, a.id ASC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return accountsToModels(am), nil
}

// GetDefaultAccountBun returns the owner's default account or ErrNotFound.
func GetDefaultAccountBun(ctx context.Context, idb bun.IDB, owner string) (model.Account, error) {
	var am AccountModel
	err := idb.NewSelect().Model(&am).
		Where("a.owner_identifier = ?", owner).
		Where("a.is_default = ?", true).
		Limit(1).
		Scan(ctx)
	if err != nil {
		return model.Account{}, MapDBError(err)
	}
	return accountModelToModel(am), nil
}

// GetAllAccountsBun returns all accounts ordered by owner and name.
func GetAllAccountsBun(ctx context.Context, idb bun.IDB) ([]model.Account, error) {
	var am []AccountModel
	if err := idb.NewSelect().Model(&am).OrderExpr("a.owner_identifier, a.name, a.id").Scan(ctx); err != nil {
		return nil, err
	}
	return accountsToModels(am), nil
}

// SearchAccountsBun performs a portable fuzzy search over accounts using
// simple tokenized LIKE matching across number, name and owner.
func SearchAccountsBun(ctx context.Context, idb bun.IDB, q string) ([]model.Account, error) {
	tokens := TokenizeSearchQuery(q)
	var am []AccountModel
	qb := idb.NewSelect().Model(&am)
	// AND of ORs: every token has to match one of the columns.
	for _, tok := range tokens {
		like := "%" + tok + "%"
		qb = qb.Where("(LOWER(a.number) LIKE ? OR LOWER(a.name) LIKE ? OR LOWER(a.owner_identifier) LIKE ?)", like, like, like)
	}
	if err := qb.OrderExpr("a.owner_identifier, a.name, a.id").Scan(ctx); err != nil {
		return nil, err
	}
	return accountsToModels(am), nil
}

// clearDefaultBun unsets the default flag on every account of owner except keep.
func clearDefaultBun(ctx context.Context, idb bun.IDB, owner string, keep int64, ts time.Time) error {
	_, err := ExecRaw(ctx, idb,
		"UPDATE accounts SET is_default = ?, updated_at = ? WHERE owner_identifier = ? AND is_default = ? AND id <> ?",
		false, ts, owner, true, keep)
	return err
}

// CreateAccountBun inserts an account, clearing any previous default of the
// owner first when the new account is the default.
func CreateAccountBun(ctx context.Context, idb bun.IDB, a model.Account) (model.Account, error) {
	ts := now()
	if a.CreatedAt.IsZero() {
		a.CreatedAt = ts
	}
	if a.UpdatedAt.IsZero() {
		a.UpdatedAt = a.CreatedAt
	}
	am := accountToModel(a)
	am.ID = 0
	err := WithTx(ctx, idb, func(ctx context.Context, tx bun.IDB) error {
		if am.IsDefault {
			if err := clearDefaultBun(ctx, tx, am.OwnerIdentifier, 0, ts); err != nil {
				return err
			}
		}
		if _, err := tx.NewInsert().Model(&am).Exec(ctx); err != nil {
			return MapDBError(err)
		}
		return nil
	})
	if err != nil {
		return model.Account{}, err
	}
	return accountModelToModel(am), nil
}

// UpdateAccountBun changes name and kind and returns the updated account.
func UpdateAccountBun(ctx context.Context, idb bun.IDB, id int64, name string, kind model.AccountKind) (model.Account, error) {
	var out model.Account
	err := WithTx(ctx, idb, func(ctx context.Context, tx bun.IDB) error {
		res, err := ExecRaw(ctx, tx, "UPDATE accounts SET name = ?, kind = ?, updated_at = ? WHERE id = ?", name, string(kind), now(), id)
		if err != nil {
			return MapDBError(err)
		}
		if rowsAffected(res) == 0 {
			// MySQL reports zero for unchanged rows, so confirm the miss.
			if _, err := GetAccountByIDBun(ctx, tx, id); err != nil {
				return err
			}
		}
		out, err = GetAccountByIDBun(ctx, tx, id)
		return err
	})
	return out, err
}

// SetDefaultAccountBun makes id the only default account of its owner.
func SetDefaultAccountBun(ctx context.Context, idb bun.IDB, id int64) error {
	return WithTx(ctx, idb, func(ctx context.Context, tx bun.IDB) error {
		acc, err := GetAccountByIDBun(ctx, tx, id)
		if err != nil {
			return err
		}
		ts := now()
		if err := clearDefaultBun(ctx, tx, acc.OwnerIdentifier, id, ts); err != nil {
			return err
		}
		_, err = ExecRaw(ctx, tx, "UPDATE accounts SET is_default = ?, updated_at = ? WHERE id = ?", true, ts, id)
		return MapDBError(err)
	})
}

// DeleteAccountBun removes the grants of the account, then the account.
func DeleteAccountBun(ctx context.Context, idb bun.IDB, id int64) error {
	return WithTx(ctx, idb, func(ctx context.Context, tx bun.IDB) error {
		if _, err := ExecRaw(ctx, tx, "DELETE FROM shared_grants WHERE account_id = ?", id); err != nil {
			return err
		}
		res, err := ExecRaw(ctx, tx, "DELETE FROM accounts WHERE id = ?", id)
		if err != nil {
			return MapDBError(err)
		}
		if rowsAffected(res) == 0 {
			return ErrNotFound
		}
		return nil
	})
}

// AdjustBalanceBun applies delta with one conditional UPDATE and reads the
// new balance back in the same transaction. It never computes the balance
// on the application side.
func AdjustBalanceBun(ctx context.Context, idb bun.IDB, id int64, delta int64) (int64, error) {
	var balance int64
	err := WithTx(ctx, idb, func(ctx context.Context, tx bun.IDB) error {
		if delta != 0 {
			res, err := ExecRaw(ctx, tx,
				"UPDATE accounts SET balance = balance + ?, updated_at = ? WHERE id = ? AND balance + ? >= 0",
				delta, now(), id, delta)
			if err != nil {
				return MapDBError(err)
			}
			if rowsAffected(res) == 0 {
				var n int
				if err := QueryRawInto(ctx, tx, &n, "SELECT COUNT(*) FROM accounts WHERE id = ?", id); err != nil {
					return err
				}
				if n == 0 {
					return ErrNotFound
				}
				return ErrInsufficientFunds
			}
		}
		if err := QueryRawInto(ctx, tx, &balance, "SELECT balance FROM accounts WHERE id = ?", id); err != nil {
			return MapDBError(err)
		}
		return nil
	})
	return balance, err
}

// LockAccountsBun takes row locks on the accounts in ascending id order.
func LockAccountsBun(ctx context.Context, idb bun.IDB, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}
	var locked []int64
	return QueryRawInto(ctx, idb, &locked, "SELECT id FROM accounts WHERE id IN (?) ORDER BY id FOR UPDATE", bun.In(ids))
}

// --- Grant helpers ---

// CreateGrantBun inserts a grant. The (account_id, user_identifier) unique
// index rejects a second grant with ErrDuplicate.
func CreateGrantBun(ctx context.Context, idb bun.IDB, g model.SharedGrant) (model.SharedGrant, error) {
	if g.CreatedAt.IsZero() {
		g.CreatedAt = now()
	}
	gm := grantToModel(g)
	gm.ID = 0
	err := WithTx(ctx, idb, func(ctx context.Context, tx bun.IDB) error {
		if _, err := GetAccountByIDBun(ctx, tx, gm.AccountID); err != nil {
			return err
		}
		_, err := tx.NewInsert().Model(&gm).Exec(ctx)
		return MapDBError(err)
	})
	if err != nil {
		if errors.Is(err, ErrForeignKey) {
			return model.SharedGrant{}, ErrNotFound
		}
		return model.SharedGrant{}, err
	}
	return grantModelToModel(gm), nil
}

// DeleteGrantBun removes the grant if present and reports whether it existed.
func DeleteGrantBun(ctx context.Context, idb bun.IDB, accountID int64, user string) (bool, error) {
	res, err := ExecRaw(ctx, idb, "DELETE FROM shared_grants WHERE account_id = ? AND user_identifier = ?", accountID, user)
	if err != nil {
		return false, err
	}
	return rowsAffected(res) > 0, nil
}

// GetGrantBun returns the grant of user on the account or ErrNotFound.
func GetGrantBun(ctx context.Context, idb bun.IDB, accountID int64, user string) (model.SharedGrant, error) {
	var gm SharedGrantModel
	err := idb.NewSelect().Model(&gm).
		Where("g.account_id = ?", accountID).
		Where("g.user_identifier = ?", user).
		Limit(1).
		Scan(ctx)
	if err != nil {
		return model.SharedGrant{}, MapDBError(err)
	}
	return grantModelToModel(gm), nil
}

// ListGrantsByUserBun returns the user's grants joined with their accounts
// in a single query.
func ListGrantsByUserBun(ctx context.Context, idb bun.IDB, user string) ([]model.GrantWithAccount, error) {
	var gms []SharedGrantModel
	err := idb.NewSelect().Model(&gms).
		Relation("Account").
		Where("g.user_identifier = ?", user).
		OrderExpr("g.id ASC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]model.GrantWithAccount, 0, len(gms))
	for _, g := range gms {
		if g.Account == nil {
			continue
		}
		out = append(out, model.GrantWithAccount{Grant: grantModelToModel(g), Account: accountModelToModel(*g.Account)})
	}
	return out, nil
}

// ListGrantsByAccountBun returns every grant on the account.
func ListGrantsByAccountBun(ctx context.Context, idb bun.IDB, accountID int64) ([]model.SharedGrant, error) {
	var gms []SharedGrantModel
	if err := idb.NewSelect().Model(&gms).Where("g.account_id = ?", accountID).OrderExpr("g.id ASC").Scan(ctx); err != nil {
		return nil, err
	}
	out := make([]model.SharedGrant, 0, len(gms))
	for _, g := range gms {
		out = append(out, grantModelToModel(g))
	}
	return out, nil
}

// --- Transaction helpers ---

// CreateTransactionBun appends a transaction record. A reused identifier
// returns ErrDuplicate.
func CreateTransactionBun(ctx context.Context, idb bun.IDB, t model.Transaction) (model.Transaction, error) {
	if t.CreatedAt.IsZero() {
		t.CreatedAt = now()
	}
	tm := transactionToModel(t)
	tm.ID = 0
	if _, err := idb.NewInsert().Model(&tm).Exec(ctx); err != nil {
		return model.Transaction{}, MapDBError(err)
	}
	return transactionModelToModel(tm), nil
}

// GetTransactionByIdentifierBun returns the transaction or ErrNotFound.
func GetTransactionByIdentifierBun(ctx context.Context, idb bun.IDB, identifier string) (model.Transaction, error) {
	var tm TransactionModel
	if err := idb.NewSelect().Model(&tm).Where("t.identifier = ?", identifier).Limit(1).Scan(ctx); err != nil {
		return model.Transaction{}, MapDBError(err)
	}
	return transactionModelToModel(tm), nil
}

// ListTransactionsBun returns the account's transactions, newest first.
// A limit of zero or less returns everything.
func ListTransactionsBun(ctx context.Context, idb bun.IDB, accountID int64, limit, offset int) ([]model.Transaction, error) {
	var tms []TransactionModel
	qb := idb.NewSelect().Model(&tms).
		Where("(t.from_account = ? OR t.to_account = ?)", accountID, accountID).
		OrderExpr("t.id DESC")
	if limit > 0 {
		qb = qb.Limit(limit)
		if offset > 0 {
			qb = qb.Offset(offset)
		}
	}
	if err := qb.Scan(ctx); err != nil {
		return nil, err
	}
	out := make([]model.Transaction, 0, len(tms))
	for _, t := range tms {
		out = append(out, transactionModelToModel(t))
	}
	return out, nil
}

// --- Audit helpers ---

// GetAllAuditLogEntriesBun retrieves audit log entries, most recent first.
func GetAllAuditLogEntriesBun(ctx context.Context, idb bun.IDB) ([]model.AuditLogEntry, error) {
	var am []AuditLogModel
	if err := idb.NewSelect().Model(&am).OrderExpr("al.created_at DESC, al.id DESC").Scan(ctx); err != nil {
		return nil, err
	}
	out := make([]model.AuditLogEntry, 0, len(am))
	for _, a := range am {
		out = append(out, auditModelToModel(a))
	}
	return out, nil
}

// currentOSUser returns the local account name without a Windows domain prefix.
func currentOSUser() string {
	curUser, err := user.Current()
	if err != nil {
		return "unknown"
	}
	if parts := strings.Split(curUser.Username, `\`); len(parts) > 1 {
		return parts[1]
	}
	return curUser.Username
}

// LogActionBun inserts an audit log entry. An empty actor is recorded as the
// current OS user.
func LogActionBun(ctx context.Context, idb bun.IDB, actor, action, details string) error {
	if actor == "" {
		actor = currentOSUser()
	}
	_, err := idb.NewInsert().Model(&AuditLogModel{CreatedAt: now(), Actor: actor, Action: action, Details: details}).Exec(ctx)
	return MapDBError(err)
}

// --- Backup helpers ---

// ExportDataForBackupBun exports all tables into a model.BackupData inside
// one transaction so the snapshot is consistent.
func ExportDataForBackupBun(ctx context.Context, idb bun.IDB) (*model.BackupData, error) {
	var backup *model.BackupData
	err := WithTx(ctx, idb, func(ctx context.Context, tx bun.IDB) error {
		backup = &model.BackupData{SchemaVersion: 1}

		var accounts []AccountModel
		if err := tx.NewSelect().Model(&accounts).OrderExpr("a.id").Scan(ctx); err != nil {
			return err
		}
		backup.Accounts = accountsToModels(accounts)

		var grants []SharedGrantModel
		if err := tx.NewSelect().Model(&grants).OrderExpr("g.id").Scan(ctx); err != nil {
			return err
		}
		for _, g := range grants {
			backup.SharedGrants = append(backup.SharedGrants, grantModelToModel(g))
		}

		var txs []TransactionModel
		if err := tx.NewSelect().Model(&txs).OrderExpr("t.id").Scan(ctx); err != nil {
			return err
		}
		for _, t := range txs {
			backup.Transactions = append(backup.Transactions, transactionModelToModel(t))
		}

		var als []AuditLogModel
		if err := tx.NewSelect().Model(&als).OrderExpr("al.id").Scan(ctx); err != nil {
			return err
		}
		for _, a := range als {
			backup.AuditLogEntries = append(backup.AuditLogEntries, auditModelToModel(a))
		}
		return nil
	})
	return backup, err
}

// insertBackupRows inserts every row of the backup keeping the original ids.
// With ignore set, rows conflicting with existing data are skipped, and
// grants pointing at accounts that did not make it in are dropped.
func insertBackupRows(ctx context.Context, tx bun.IDB, backup *model.BackupData, ignore bool) error {
	if len(backup.Accounts) > 0 {
		rows := make([]AccountModel, 0, len(backup.Accounts))
		for _, a := range backup.Accounts {
			rows = append(rows, accountToModel(a))
		}
		q := tx.NewInsert().Model(&rows).Returning("NULL")
		if ignore {
			q = q.Ignore()
		}
		if _, err := q.Exec(ctx); err != nil {
			return fmt.Errorf("insert accounts: %w", MapDBError(err))
		}
	}

	if len(backup.SharedGrants) > 0 {
		present := map[int64]bool{}
		if ignore {
			var ids []int64
			if err := QueryRawInto(ctx, tx, &ids, "SELECT id FROM accounts"); err != nil {
				return err
			}
			for _, id := range ids {
				present[id] = true
			}
		}
		rows := make([]SharedGrantModel, 0, len(backup.SharedGrants))
		for _, g := range backup.SharedGrants {
			if ignore && !present[g.AccountID] {
				continue
			}
			rows = append(rows, grantToModel(g))
		}
		if len(rows) > 0 {
			q := tx.NewInsert().Model(&rows).Returning("NULL")
			if ignore {
				q = q.Ignore()
			}
			if _, err := q.Exec(ctx); err != nil {
				return fmt.Errorf("insert shared grants: %w", MapDBError(err))
			}
		}
	}

	if len(backup.Transactions) > 0 {
		rows := make([]TransactionModel, 0, len(backup.Transactions))
		for _, t := range backup.Transactions {
			rows = append(rows, transactionToModel(t))
		}
		q := tx.NewInsert().Model(&rows).Returning("NULL")
		if ignore {
			q = q.Ignore()
		}
		if _, err := q.Exec(ctx); err != nil {
			return fmt.Errorf("insert transactions: %w", MapDBError(err))
		}
	}

	if len(backup.AuditLogEntries) > 0 {
		rows := make([]AuditLogModel, 0, len(backup.AuditLogEntries))
		for _, a := range backup.AuditLogEntries {
			rows = append(rows, AuditLogModel{ID: a.ID, CreatedAt: a.CreatedAt, Actor: a.Actor, Action: a.Action, Details: a.Details})
		}
		q := tx.NewInsert().Model(&rows).Returning("NULL")
		if ignore {
			q = q.Ignore()
		}
		if _, err := q.Exec(ctx); err != nil {
			return fmt.Errorf("insert audit log: %w", MapDBError(err))
		}
	}
	return nil
}

// ImportDataFromBackupBun performs a full wipe-and-replace in one transaction.
func ImportDataFromBackupBun(ctx context.Context, idb bun.IDB, backup *model.BackupData) error {
	return WithTx(ctx, idb, func(ctx context.Context, tx bun.IDB) error {
		for _, t := range []string{"shared_grants", "transactions", "audit_log", "accounts"} {
			if _, err := ExecRaw(ctx, tx, fmt.Sprintf("DELETE FROM %s", t)); err != nil {
				return err
			}
		}
		return insertBackupRows(ctx, tx, backup, false)
	})
}

// IntegrateDataFromBackupBun performs a non-destructive restore that skips
// rows colliding with existing data.
func IntegrateDataFromBackupBun(ctx context.Context, idb bun.IDB, backup *model.BackupData) error {
	return WithTx(ctx, idb, func(ctx context.Context, tx bun.IDB) error {
		return insertBackupRows(ctx, tx, backup, true)
	})
}

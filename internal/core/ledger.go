// Copyright (c) 2026 Ledgermaster Team
// Ledgermaster - multi-owner account ledger
// This source code is licensed under the MIT license found in the LICENSE file.

package core

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/toeirei/ledgermaster/internal/apperrors"
	"github.com/toeirei/ledgermaster/internal/db"
	"github.com/toeirei/ledgermaster/internal/model"
)

// DefaultPageSize is used when ListTransactions is called without a limit.
const DefaultPageSize = 50

// Ledger owns account state. AdjustBalance is the only way a balance changes.
type Ledger struct {
	store   db.Store
	auth    *Authorizer
	numbers NumberSource
}

// NewLedger returns a Ledger generating numbers with the policy's clearing
// number.
func NewLedger(st db.Store, auth *Authorizer, p Policy) *Ledger {
	return &Ledger{store: st, auth: auth, numbers: RandomNumbers(p.ClearingNumber)}
}

// SetNumberSource replaces the account number generator.
func (l *Ledger) SetNumberSource(src NumberSource) { l.numbers = src }

// GetAccount returns the account or a NOT_FOUND error.
func (l *Ledger) GetAccount(ctx context.Context, id int64) (model.Account, error) {
	acc, err := l.store.GetAccount(ctx, id)
	return acc, storeErr("get account", err)
}

// GetByOwner lists the accounts owned by identifier, default first.
func (l *Ledger) GetByOwner(ctx context.Context, identifier string) ([]model.Account, error) {
	accs, err := l.store.GetAccountsByOwner(ctx, identifier)
	return accs, storeErr("get accounts by owner", err)
}

// GetDefaultForOwner returns the owner's default account.
func (l *Ledger) GetDefaultForOwner(ctx context.Context, identifier string) (model.Account, error) {
	acc, err := l.store.GetDefaultAccount(ctx, identifier)
	return acc, storeErr("get default account", err)
}

// GetByNumber looks an account up by its human-facing number.
func (l *Ledger) GetByNumber(ctx context.Context, number string) (model.Account, error) {
	acc, err := l.store.GetAccountByNumber(ctx, number)
	return acc, storeErr("get account by number", err)
}

// ListAccounts returns every account, optionally filtered by a search query.
func (l *Ledger) ListAccounts(ctx context.Context, query string) ([]model.Account, error) {
	if strings.TrimSpace(query) == "" {
		accs, err := l.store.GetAllAccounts(ctx)
		return accs, storeErr("list accounts", err)
	}
	accs, err := l.store.SearchAccounts(ctx, query)
	return accs, storeErr("search accounts", err)
}

// AdjustBalance adds delta to the balance atomically and returns the new
// balance. A result below zero fails with INSUFFICIENT_FUNDS.
func (l *Ledger) AdjustBalance(ctx context.Context, accountID, delta int64) (int64, error) {
	bal, err := l.store.AdjustBalance(ctx, accountID, delta)
	return bal, storeErr("adjust balance", err)
}

// CreateAccount validates the input and inserts the account. An empty
// number is generated; collisions of generated numbers are retried.
func (l *Ledger) CreateAccount(ctx context.Context, in model.CreateAccountInput) (model.Account, error) {
	const op = "create account"
	in.Name = strings.TrimSpace(in.Name)
	in.OwnerIdentifier = strings.TrimSpace(in.OwnerIdentifier)
	in.Number = strings.TrimSpace(in.Number)
	if in.Name == "" {
		return model.Account{}, apperrors.New(apperrors.CodeInvalidArgument, op, "name is required")
	}
	if in.OwnerIdentifier == "" {
		return model.Account{}, apperrors.New(apperrors.CodeInvalidArgument, op, "owner is required")
	}
	if in.Kind == "" {
		in.Kind = model.KindPersonal
	}
	if !in.Kind.Valid() {
		return model.Account{}, apperrors.Newf(apperrors.CodeInvalidArgument, op, "unknown account kind %q", in.Kind)
	}
	if in.Balance < 0 {
		return model.Account{}, apperrors.New(apperrors.CodeInvalidArgument, op, "opening balance must not be negative")
	}

	acc := model.Account{
		Number:          in.Number,
		Name:            in.Name,
		OwnerIdentifier: in.OwnerIdentifier,
		IsDefault:       in.IsDefault,
		Balance:         in.Balance,
		Kind:            in.Kind,
	}
	generated := acc.Number == ""
	attempts := 1
	if generated {
		attempts = maxNumberAttempts
	}
	var err error
	for i := 0; i < attempts; i++ {
		if generated {
			acc.Number = l.numbers()
		}
		var created model.Account
		created, err = l.store.CreateAccount(ctx, acc)
		if err == nil {
			audit(ctx, l.store, in.OwnerIdentifier, ActionAccountCreate, "id=%d number=%q owner=%q default=%t", created.ID, created.Number, created.OwnerIdentifier, created.IsDefault)
			return created, nil
		}
		if !errors.Is(err, db.ErrDuplicate) {
			break
		}
	}
	if errors.Is(err, db.ErrDuplicate) {
		return model.Account{}, apperrors.Wrap(apperrors.CodeAlreadyExists, op, fmt.Errorf("account number %q: %w", acc.Number, err))
	}
	return model.Account{}, storeErr(op, err)
}

// EditAccount renames an account or changes its kind. Only the owner may
// edit.
func (l *Ledger) EditAccount(ctx context.Context, actor string, in model.EditAccountInput) (model.Account, error) {
	const op = "edit account"
	acc, err := l.auth.AuthorizeOwner(ctx, in.AccountID, actor)
	if err != nil {
		return model.Account{}, err
	}
	name, kind := acc.Name, acc.Kind
	if in.Name != nil {
		name = strings.TrimSpace(*in.Name)
		if name == "" {
			return model.Account{}, apperrors.New(apperrors.CodeInvalidArgument, op, "name must not be empty")
		}
	}
	if in.Kind != nil {
		if !in.Kind.Valid() {
			return model.Account{}, apperrors.Newf(apperrors.CodeInvalidArgument, op, "unknown account kind %q", *in.Kind)
		}
		kind = *in.Kind
	}
	updated, err := l.store.UpdateAccount(ctx, acc.ID, name, kind)
	if err != nil {
		return model.Account{}, storeErr(op, err)
	}
	audit(ctx, l.store, actor, ActionAccountEdit, "id=%d name=%q kind=%s", updated.ID, updated.Name, updated.Kind)
	return updated, nil
}

// SetDefault makes the account its owner's default.
func (l *Ledger) SetDefault(ctx context.Context, actor string, accountID int64) error {
	if _, err := l.auth.AuthorizeOwner(ctx, accountID, actor); err != nil {
		return err
	}
	if err := l.store.SetDefaultAccount(ctx, accountID); err != nil {
		return storeErr("set default account", err)
	}
	audit(ctx, l.store, actor, ActionSetDefault, "id=%d", accountID)
	return nil
}

// DeleteAccount removes the account and its grants. Transactions that
// reference it are kept.
func (l *Ledger) DeleteAccount(ctx context.Context, actor string, accountID int64) error {
	acc, err := l.auth.AuthorizeOwner(ctx, accountID, actor)
	if err != nil {
		return err
	}
	if err := l.store.DeleteAccount(ctx, accountID); err != nil {
		return storeErr("delete account", err)
	}
	audit(ctx, l.store, actor, ActionAccountDelete, "id=%d number=%q balance=%d", acc.ID, acc.Number, acc.Balance)
	return nil
}

// ListTransactions pages through an account's history, newest first.
func (l *Ledger) ListTransactions(ctx context.Context, accountID int64, limit, offset int) ([]model.Transaction, error) {
	if limit <= 0 {
		limit = DefaultPageSize
	}
	if offset < 0 {
		offset = 0
	}
	txs, err := l.store.ListTransactions(ctx, accountID, limit, offset)
	return txs, storeErr("list transactions", err)
}

// GetTransaction finds a transaction by identifier. Callers use it to
// confirm whether a retried transfer already committed.
func (l *Ledger) GetTransaction(ctx context.Context, identifier string) (model.Transaction, error) {
	tx, err := l.store.GetTransactionByIdentifier(ctx, identifier)
	return tx, storeErr("get transaction", err)
}

// AuditLog returns the audit entries, newest first.
func (l *Ledger) AuditLog(ctx context.Context) ([]model.AuditLogEntry, error) {
	entries, err := l.store.GetAllAuditLogEntries(ctx)
	return entries, storeErr("audit log", err)
}

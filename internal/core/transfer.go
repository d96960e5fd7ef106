// Copyright (c) 2026 Ledgermaster Team
// Ledgermaster - multi-owner account ledger
// This source code is licensed under the MIT license found in the LICENSE file.

package core

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/toeirei/ledgermaster/internal/apperrors"
	"github.com/toeirei/ledgermaster/internal/db"
	"github.com/toeirei/ledgermaster/internal/logging"
	"github.com/toeirei/ledgermaster/internal/model"
)

// Target is the classified destination of a transfer.
type Target struct {
	Kind model.TransferKind
	// AccountID is set for internal targets.
	AccountID int64
	// Number is set for external targets.
	Number string
}

// ClassifyTarget decodes a destination id. Ids below 1 address an external
// account whose number is the id times ten; anything else is an account id.
func ClassifyTarget(toID int64) Target {
	if toID < 1 {
		return Target{Kind: model.TransferExternal, Number: strconv.FormatInt(toID*10, 10)}
	}
	return Target{Kind: model.TransferInternal, AccountID: toID}
}

// MovementInput credits or debits a single account from outside the ledger.
type MovementInput struct {
	Actor     string
	AccountID int64
	Amount    int64
	Message   string
	// Identifier is an optional caller-supplied idempotency token.
	Identifier string
}

// TransferEngine moves money. Every movement changes balances and appends
// its Transaction in one store transaction.
type TransferEngine struct {
	store  db.Store
	auth   *Authorizer
	policy Policy
	clock  Clock
}

// NewTransferEngine returns an engine authorizing debits with the policy's
// debit roles.
func NewTransferEngine(st db.Store, auth *Authorizer, p Policy) *TransferEngine {
	return &TransferEngine{store: st, auth: auth, policy: p, clock: SystemClock()}
}

// SetClock replaces the clock stamping new transactions.
func (e *TransferEngine) SetClock(c Clock) { e.clock = c }

// Transfer validates, authorizes and applies a transfer and returns the
// recorded Transaction. On any failure nothing is persisted.
func (e *TransferEngine) Transfer(ctx context.Context, in model.TransferInput) (model.Transaction, error) {
	const op = "transfer"

	if in.Amount <= 0 {
		return model.Transaction{}, apperrors.Newf(apperrors.CodeInvalidTransfer, op, "amount must be positive, got %d", in.Amount)
	}
	if in.FromAccountID == in.ToAccountID {
		return model.Transaction{}, apperrors.New(apperrors.CodeInvalidTransfer, op, "source and destination are the same account")
	}
	from, err := e.store.GetAccount(ctx, in.FromAccountID)
	if err != nil {
		return model.Transaction{}, e.unresolvable(op, "source", err)
	}

	target := ClassifyTarget(in.ToAccountID)
	var to model.Account
	if target.Kind == model.TransferExternal {
		to, err = e.store.GetAccountByNumber(ctx, target.Number)
	} else {
		to, err = e.store.GetAccount(ctx, target.AccountID)
	}
	if err != nil {
		return model.Transaction{}, e.unresolvable(op, "destination", err)
	}
	if to.ID == from.ID {
		return model.Transaction{}, apperrors.New(apperrors.CodeInvalidTransfer, op, "source and destination are the same account")
	}

	if _, err := e.auth.AuthorizeOwnerOrRole(ctx, from.ID, in.Actor, e.policy.DebitRoles); err != nil {
		return model.Transaction{}, err
	}

	fromID, toID := from.ID, to.ID
	rec := model.Transaction{
		Identifier:  e.identifier(in.Identifier),
		Message:     strings.TrimSpace(in.Message),
		Amount:      in.Amount,
		FromAccount: &fromID,
		ToAccount:   &toID,
		Kind:        target.Kind,
		CreatedAt:   e.clock.Now(),
	}

	var out model.Transaction
	err = e.store.RunInTx(ctx, func(ctx context.Context, tx db.Store) error {
		if err := tx.LockAccounts(ctx, fromID, toID); err != nil {
			return err
		}
		if _, err := tx.AdjustBalance(ctx, fromID, -in.Amount); err != nil {
			return err
		}
		if _, err := tx.AdjustBalance(ctx, toID, in.Amount); err != nil {
			return err
		}
		var err error
		out, err = tx.CreateTransaction(ctx, rec)
		return err
	})
	if err != nil {
		return model.Transaction{}, storeErr(op, err)
	}
	logging.With("identifier", out.Identifier, "kind", out.Kind).Debugf("transfer %d -> %d amount=%d", fromID, toID, in.Amount)
	return out, nil
}

// Credit adds money to an account from outside the ledger.
func (e *TransferEngine) Credit(ctx context.Context, in MovementInput) (model.Transaction, error) {
	return e.move(ctx, "credit", in, in.Amount, model.TransferDeposit)
}

// Debit removes money from an account to outside the ledger. It never
// overdraws.
func (e *TransferEngine) Debit(ctx context.Context, in MovementInput) (model.Transaction, error) {
	return e.move(ctx, "debit", in, -in.Amount, model.TransferWithdrawal)
}

func (e *TransferEngine) move(ctx context.Context, op string, in MovementInput, delta int64, kind model.TransferKind) (model.Transaction, error) {
	if in.Amount <= 0 {
		return model.Transaction{}, apperrors.Newf(apperrors.CodeInvalidTransfer, op, "amount must be positive, got %d", in.Amount)
	}
	id := in.AccountID
	rec := model.Transaction{
		Identifier: e.identifier(in.Identifier),
		Message:    strings.TrimSpace(in.Message),
		Amount:     in.Amount,
		Kind:       kind,
		CreatedAt:  e.clock.Now(),
	}
	if delta > 0 {
		rec.ToAccount = &id
	} else {
		rec.FromAccount = &id
	}
	var out model.Transaction
	err := e.store.RunInTx(ctx, func(ctx context.Context, tx db.Store) error {
		if _, err := tx.AdjustBalance(ctx, id, delta); err != nil {
			return err
		}
		var err error
		out, err = tx.CreateTransaction(ctx, rec)
		return err
	})
	if err != nil {
		return model.Transaction{}, storeErr(op, err)
	}
	return out, nil
}

// SetBalance moves the balance to target and records the difference as a
// deposit or withdrawal. When the balance already matches, nothing is
// recorded and the zero Transaction is returned.
func (e *TransferEngine) SetBalance(ctx context.Context, actor string, accountID, target int64, message string) (model.Transaction, error) {
	const op = "set balance"
	if target < 0 {
		return model.Transaction{}, apperrors.New(apperrors.CodeInvalidArgument, op, "balance must not be negative")
	}
	var out model.Transaction
	var before int64
	err := e.store.RunInTx(ctx, func(ctx context.Context, tx db.Store) error {
		if err := tx.LockAccounts(ctx, accountID); err != nil {
			return err
		}
		acc, err := tx.GetAccount(ctx, accountID)
		if err != nil {
			return err
		}
		before = acc.Balance
		diff := target - acc.Balance
		if diff == 0 {
			return nil
		}
		if _, err := tx.AdjustBalance(ctx, accountID, diff); err != nil {
			return err
		}
		id := accountID
		rec := model.Transaction{
			Identifier: e.identifier(""),
			Message:    strings.TrimSpace(message),
			Kind:       model.TransferDeposit,
			Amount:     diff,
			ToAccount:  &id,
			CreatedAt:  e.clock.Now(),
		}
		if diff < 0 {
			rec.Kind = model.TransferWithdrawal
			rec.Amount = -diff
			rec.ToAccount, rec.FromAccount = nil, &id
		}
		out, err = tx.CreateTransaction(ctx, rec)
		return err
	})
	if err != nil {
		return model.Transaction{}, storeErr(op, err)
	}
	if out.ID != 0 {
		audit(ctx, e.store, actor, ActionSetBalance, "id=%d from=%d to=%d", accountID, before, target)
	}
	return out, nil
}

// identifier returns the caller token or a fresh uuid.
func (e *TransferEngine) identifier(token string) string {
	if t := strings.TrimSpace(token); t != "" {
		return t
	}
	return uuid.NewString()
}

// unresolvable turns a failed account lookup into INVALID_TRANSFER, keeping
// store failures as INTERNAL.
func (e *TransferEngine) unresolvable(op, side string, err error) error {
	if errors.Is(err, db.ErrNotFound) {
		return &apperrors.Error{Code: apperrors.CodeInvalidTransfer, Op: op, Message: side + " account not found", Cause: err}
	}
	return storeErr(op, err)
}

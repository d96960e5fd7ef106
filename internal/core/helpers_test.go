// Copyright (c) 2026 Ledgermaster Team
// Ledgermaster - multi-owner account ledger
// This source code is licensed under the MIT license found in the LICENSE file.

package core

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/toeirei/ledgermaster/internal/apperrors"
	"github.com/toeirei/ledgermaster/internal/db"
	"github.com/toeirei/ledgermaster/internal/model"
)

// newTestServices wires every component to a private in-memory SQLite store.
func newTestServices(t *testing.T) *Services {
	t.Helper()
	return newServicesOn(t, ":memory:", DefaultPolicy())
}

func newServicesOn(t *testing.T, dsn string, p Policy) *Services {
	t.Helper()
	st, err := db.NewStoreFromDSN("sqlite", dsn)
	if err != nil {
		t.Fatalf("NewStoreFromDSN failed: %v", err)
	}
	t.Cleanup(func() { _ = st.Close() })
	return NewServices(st, p)
}

// mustAccount creates an account with the given owner and balance.
func mustAccount(t *testing.T, s *Services, owner string, balance int64) model.Account {
	t.Helper()
	acc, err := s.Ledger.CreateAccount(context.Background(), model.CreateAccountInput{
		Name:            owner + " account",
		OwnerIdentifier: owner,
		Balance:         balance,
	})
	if err != nil {
		t.Fatalf("CreateAccount(%s) failed: %v", owner, err)
	}
	return acc
}

// balanceOf reads the current balance straight from the store.
func balanceOf(t *testing.T, s *Services, id int64) int64 {
	t.Helper()
	acc, err := s.Store.GetAccount(context.Background(), id)
	if err != nil {
		t.Fatalf("GetAccount(%d) failed: %v", id, err)
	}
	return acc.Balance
}

// expectCode fails the test unless err carries code.
func expectCode(t *testing.T, err error, code apperrors.Code) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %s error, got nil", code)
	}
	if got := apperrors.CodeOf(err); got != code {
		t.Fatalf("expected code %s, got %s (%v)", code, got, err)
	}
}

type fixedClock struct{ t time.Time }

func (c fixedClock) Now() time.Time { return c.t }

// failingStore injects an error into CreateTransaction, including inside
// transactions.
type failingStore struct {
	db.Store
	err error
}

func (f *failingStore) RunInTx(ctx context.Context, fn func(ctx context.Context, tx db.Store) error) error {
	return f.Store.RunInTx(ctx, func(ctx context.Context, tx db.Store) error {
		return fn(ctx, &failingStore{Store: tx, err: f.err})
	})
}

func (f *failingStore) CreateTransaction(ctx context.Context, t model.Transaction) (model.Transaction, error) {
	if f.err != nil {
		return model.Transaction{}, f.err
	}
	return f.Store.CreateTransaction(ctx, t)
}

var errInjected = errors.New("injected failure")

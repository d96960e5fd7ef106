// Copyright (c) 2026 Ledgermaster Team
// Ledgermaster - multi-owner account ledger
// This source code is licensed under the MIT license found in the LICENSE file.

package db

import (
	"context"
	"testing"

	"github.com/toeirei/ledgermaster/internal/model"
)

// newTestStore opens a migrated private in-memory SQLite store that is closed
// when the test ends.
func newTestStore(t *testing.T) *SqliteStore {
	t.Helper()
	s, err := NewStoreFromDSN("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("NewStoreFromDSN failed: %v", err)
	}
	ss, ok := s.(*SqliteStore)
	if !ok {
		t.Fatalf("store is not *SqliteStore, got %T", s)
	}
	t.Cleanup(func() { _ = ss.Close() })
	return ss
}

// mustCreateAccount inserts an account or fails the test.
func mustCreateAccount(t *testing.T, s Store, number, owner string, balance int64, isDefault bool) model.Account {
	t.Helper()
	a, err := s.CreateAccount(context.Background(), model.Account{
		Number:          number,
		Name:            "acct " + number,
		OwnerIdentifier: owner,
		IsDefault:       isDefault,
		Balance:         balance,
		Kind:            model.KindPersonal,
	})
	if err != nil {
		t.Fatalf("CreateAccount(%s) failed: %v", number, err)
	}
	return a
}

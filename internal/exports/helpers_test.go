// Copyright (c) 2026 Ledgermaster Team
// Ledgermaster - multi-owner account ledger
// This source code is licensed under the MIT license found in the LICENSE file.

package exports

import (
	"context"
	"errors"
	"testing"

	"github.com/toeirei/ledgermaster/internal/apperrors"
	"github.com/toeirei/ledgermaster/internal/core"
	"github.com/toeirei/ledgermaster/internal/db"
)

// newTestService wires a Service to a private in-memory store. The start
// balance of new players is 1000.
func newTestService(t *testing.T, cash CashProvider, opts ...Option) *Service {
	t.Helper()
	st, err := db.NewStoreFromDSN("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("NewStoreFromDSN failed: %v", err)
	}
	t.Cleanup(func() { _ = st.Close() })
	p := core.DefaultPolicy()
	p.StartBalance = 1000
	return New(core.NewServices(st, p), nil, cash, opts...)
}

// mustLoad registers a player session and fails the test on error.
func mustLoad(t *testing.T, s *Service, source int, identifier string) {
	t.Helper()
	if _, err := s.LoadPlayer(context.Background(), source, identifier, identifier); err != nil {
		t.Fatalf("LoadPlayer(%d, %s) failed: %v", source, identifier, err)
	}
}

func expectCode(t *testing.T, err error, code apperrors.Code) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %s error, got nil", code)
	}
	if got := apperrors.CodeOf(err); got != code {
		t.Fatalf("expected code %s, got %s (%v)", code, got, err)
	}
}

// brokenCash accepts removals but refuses to pay cash out.
type brokenCash struct{ *MemoryCash }

var errCashDown = errors.New("cash provider down")

func (b brokenCash) AddCash(ctx context.Context, identifier string, amount int64) (int64, error) {
	return 0, errCashDown
}

// cancelOnRemove cancels the caller's context once cash has been taken, so
// the following ledger credit fails.
type cancelOnRemove struct {
	*MemoryCash
	cancel context.CancelFunc
}

func (c *cancelOnRemove) RemoveCash(ctx context.Context, identifier string, amount int64) (int64, error) {
	n, err := c.MemoryCash.RemoveCash(ctx, identifier, amount)
	c.cancel()
	return n, err
}

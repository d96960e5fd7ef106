// Copyright (c) 2026 Ledgermaster Team
// Ledgermaster - multi-owner account ledger
// This source code is licensed under the MIT license found in the LICENSE file.

package db

import (
	"context"
	"errors"
	"testing"

	"github.com/uptrace/bun"
)

func TestWithTx_CommitAndRollback(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if err := WithTx(ctx, s.root, func(ctx context.Context, tx bun.IDB) error {
		_, err := ExecRaw(ctx, tx, "INSERT INTO audit_log (created_at, actor, action, details) VALUES (?, ?, ?, ?)", now(), "tester", "commit", "d")
		return err
	}); err != nil {
		t.Fatalf("WithTx failed: %v", err)
	}

	boom := errors.New("boom")
	err := WithTx(ctx, s.root, func(ctx context.Context, tx bun.IDB) error {
		if _, err := ExecRaw(ctx, tx, "INSERT INTO audit_log (created_at, actor, action, details) VALUES (?, ?, ?, ?)", now(), "tester", "rollback", "d"); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom from WithTx, got %v", err)
	}

	var n int
	if err := QueryRawInto(ctx, s.root, &n, "SELECT COUNT(*) FROM audit_log"); err != nil {
		t.Fatalf("count audit_log failed: %v", err)
	}
	if n != 1 {
		t.Fatalf("expected only the committed row, got %d rows", n)
	}
}

func TestWithTx_JoinsOuterTransaction(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	err := s.root.RunInTx(ctx, nil, func(ctx context.Context, outer bun.Tx) error {
		return WithTx(ctx, outer, func(ctx context.Context, inner bun.IDB) error {
			if _, ok := inner.(bun.Tx); !ok {
				t.Fatalf("expected inner handle to be the outer bun.Tx, got %T", inner)
			}
			return nil
		})
	})
	if err != nil {
		t.Fatalf("RunInTx failed: %v", err)
	}
}

func TestRowsAffected_Nil(t *testing.T) {
	if got := rowsAffected(nil); got != 0 {
		t.Fatalf("rowsAffected(nil) = %d; want 0", got)
	}
}

// Copyright (c) 2026 Ledgermaster Team
// Ledgermaster - multi-owner account ledger
// This source code is licensed under the MIT license found in the LICENSE file.

package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/uptrace/bun"
)

// PostgresStore is the PostgreSQL implementation of the Store interface.
type PostgresStore struct {
	bunStore
}

func newPostgresStore(bdb *bun.DB) *PostgresStore {
	s := &PostgresStore{bunStore{db: bdb, root: bdb, dbType: "postgres", rowLocks: true}}
	s.afterImport = repairPostgresSequences
	return s
}

// serialTables lists the tables whose BIGSERIAL ids are written explicitly
// during a restore.
var serialTables = []string{"accounts", "shared_grants", "transactions", "audit_log"}

// repairPostgresSequences moves every id sequence past the highest restored
// id so later inserts do not collide.
func repairPostgresSequences(ctx context.Context, tx bun.IDB) error {
	for _, t := range serialTables {
		q := fmt.Sprintf("SELECT setval(pg_get_serial_sequence('%s', 'id'), COALESCE((SELECT MAX(id) FROM %s), 0) + 1, false)", t, t)
		if _, err := ExecRaw(ctx, tx, q); err != nil {
			return fmt.Errorf("repair sequence for %s: %w", t, err)
		}
	}
	return nil
}

// classifyPgError maps SQLSTATE codes to store sentinels.
func classifyPgError(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return nil
	}
	switch pgErr.Code {
	case "23505":
		return ErrDuplicate
	case "23503":
		return ErrForeignKey
	case "23514":
		// balance >= 0 check constraint
		if pgErr.ConstraintName == "accounts_balance_check" {
			return ErrInsufficientFunds
		}
	}
	return nil
}

func init() {
	driverClassifiers = append(driverClassifiers, classifyPgError)
}

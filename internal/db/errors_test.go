// Copyright (c) 2026 Ledgermaster Team
// Ledgermaster - multi-owner account ledger
// This source code is licensed under the MIT license found in the LICENSE file.

package db

import (
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
)

func TestMapDBError_DuplicateStrings(t *testing.T) {
	cases := []struct {
		name string
		err  error
	}{
		{"mysql duplicate entry", errors.New("Error 1062: Duplicate entry 'x' for key 'number'")},
		{"postgres unique violation", errors.New("ERROR: duplicate key value violates unique constraint \"accounts_number_key\" (SQLSTATE 23505)")},
		{"sqlite unique constraint", errors.New("constraint failed: UNIQUE constraint failed: shared_grants.account_id, shared_grants.user_identifier (2067)")},
		{"generic duplicate word", errors.New("duplicate row")},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			mapped := MapDBError(c.err)
			if !errors.Is(mapped, ErrDuplicate) {
				t.Fatalf("expected ErrDuplicate for case %s, got: %v", c.name, mapped)
			}
		})
	}
}

func TestMapDBError_ForeignKey(t *testing.T) {
	cases := []error{
		errors.New("constraint failed: FOREIGN KEY constraint failed (787)"),
		errors.New("ERROR: insert or update on table \"shared_grants\" violates foreign key constraint (SQLSTATE 23503)"),
		errors.New("Error 1452: Cannot add or update a child row"),
	}
	for _, e := range cases {
		if got := MapDBError(e); !errors.Is(got, ErrForeignKey) {
			t.Fatalf("expected ErrForeignKey for %q, got %v", e, got)
		}
	}
}

func TestMapDBError_NoRows(t *testing.T) {
	if got := MapDBError(fmt.Errorf("scan: %w", sql.ErrNoRows)); !errors.Is(got, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", got)
	}
}

func TestMapDBError_NonDuplicatePassthrough(t *testing.T) {
	e := errors.New("some network error")
	mapped := MapDBError(e)
	if mapped == nil {
		t.Fatalf("expected non-nil error for non-duplicate input")
	}
	if errors.Is(mapped, ErrDuplicate) || errors.Is(mapped, ErrNotFound) {
		t.Fatalf("did not expect a sentinel for unrelated error")
	}
	if mapped.Error() != e.Error() {
		t.Fatalf("expected original error to be returned unchanged, got: %v", mapped)
	}
	if MapDBError(nil) != nil {
		t.Fatalf("nil must map to nil")
	}
}

func TestMapDBError_DriverTypedErrors(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want error
	}{
		{"pg unique", &pgconn.PgError{Code: "23505", Message: "x"}, ErrDuplicate},
		{"pg foreign key", &pgconn.PgError{Code: "23503", Message: "x"}, ErrForeignKey},
		{"pg balance check", &pgconn.PgError{Code: "23514", ConstraintName: "accounts_balance_check"}, ErrInsufficientFunds},
		{"mysql duplicate", &mysql.MySQLError{Number: 1062, Message: "Duplicate entry"}, ErrDuplicate},
		{"mysql fk parent", &mysql.MySQLError{Number: 1451, Message: "Cannot delete"}, ErrForeignKey},
		{"mysql fk child", &mysql.MySQLError{Number: 1452, Message: "Cannot add"}, ErrForeignKey},
		{"mysql check", &mysql.MySQLError{Number: 3819, Message: "Check constraint"}, ErrInsufficientFunds},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			wrapped := fmt.Errorf("exec: %w", tc.err)
			if got := MapDBError(wrapped); !errors.Is(got, tc.want) {
				t.Fatalf("MapDBError(%v) = %v; want %v", tc.err, got, tc.want)
			}
		})
	}
}

// Copyright (c) 2026 Ledgermaster Team
// Ledgermaster - multi-owner account ledger
// This source code is licensed under the MIT license found in the LICENSE file.

package db

import (
	"database/sql"
	"errors"
	"strings"
)

var (
	// ErrDuplicate is returned when attempting to insert a record that already exists.
	ErrDuplicate = errors.New("duplicate record")
	// ErrNotFound is returned when a lookup or targeted update matches no row.
	ErrNotFound = errors.New("record not found")
	// ErrInsufficientFunds is returned when a balance adjustment would go below zero.
	ErrInsufficientFunds = errors.New("insufficient funds")
	// ErrForeignKey is returned when a referenced row does not exist or is
	// still referenced.
	ErrForeignKey = errors.New("foreign key violation")
)

// driverClassifiers translate typed driver errors. Engine files register
// theirs in init.
var driverClassifiers []func(error) error

// MapDBError inspects low-level driver errors and maps common constraint
// violations to package-level sentinel errors. This is a conservative,
// string-based mapping to avoid importing SQL driver packages into this file.
func MapDBError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	for _, classify := range driverClassifiers {
		if mapped := classify(err); mapped != nil {
			return mapped
		}
	}
	le := strings.ToLower(err.Error())
	// Postgres 23503, MySQL 1451/1452, SQLite "FOREIGN KEY constraint failed"
	if strings.Contains(le, "foreign key") || strings.Contains(le, "23503") || strings.Contains(le, "error 1451") || strings.Contains(le, "error 1452") {
		return ErrForeignKey
	}
	// MySQL duplicate entry, Postgres unique violation (23505), SQLite unique constraint
	if strings.Contains(le, "duplicate") || strings.Contains(le, "unique") || strings.Contains(le, "23505") || strings.Contains(le, "1062") {
		return ErrDuplicate
	}
	return err
}

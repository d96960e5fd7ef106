// Copyright (c) 2026 Ledgermaster Team
// Ledgermaster - multi-owner account ledger
// This source code is licensed under the MIT license found in the LICENSE file.

package db

import (
	"errors"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/uptrace/bun"
)

// MySQLStore is the MySQL implementation of the Store interface.
type MySQLStore struct {
	bunStore
}

func newMySQLStore(bdb *bun.DB) *MySQLStore {
	return &MySQLStore{bunStore{db: bdb, root: bdb, dbType: "mysql", rowLocks: true}}
}

// mysqlDSN forces parseTime so DATETIME columns scan into time.Time, and UTC
// so timestamps round-trip unchanged.
func mysqlDSN(dsn string) string {
	cfg, err := mysql.ParseDSN(dsn)
	if err != nil {
		// Leave it to the driver to report the malformed DSN.
		return dsn
	}
	cfg.ParseTime = true
	if cfg.Loc == nil {
		cfg.Loc = time.UTC
	}
	return cfg.FormatDSN()
}

// classifyMySQLError maps MySQL error numbers to store sentinels.
func classifyMySQLError(err error) error {
	var myErr *mysql.MySQLError
	if !errors.As(err, &myErr) {
		return nil
	}
	switch myErr.Number {
	case 1062:
		return ErrDuplicate
	case 1451, 1452:
		return ErrForeignKey
	case 3819:
		// check constraint violated
		return ErrInsufficientFunds
	}
	return nil
}

func init() {
	driverClassifiers = append(driverClassifiers, classifyMySQLError)
}

// Copyright (c) 2026 Ledgermaster Team
// Ledgermaster - multi-owner account ledger
// This source code is licensed under the MIT license found in the LICENSE file.

package db

import (
	"strings"

	"github.com/uptrace/bun"
	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// SqliteStore is the SQLite implementation of the Store interface.
//
// SQLite has no row locks. Writers are serialized by the database lock:
// transactions begin IMMEDIATE and wait on a busy timeout instead of failing
// with SQLITE_BUSY.
type SqliteStore struct {
	bunStore
}

func newSqliteStore(bdb *bun.DB) *SqliteStore {
	return &SqliteStore{bunStore{db: bdb, root: bdb, dbType: "sqlite"}}
}

// sqliteDSN appends the connection options the store relies on unless the
// caller already set them.
func sqliteDSN(dsn string) string {
	opts := []struct{ key, value string }{
		{"busy_timeout", "_pragma=busy_timeout(5000)"},
		{"foreign_keys", "_pragma=foreign_keys(1)"},
		{"_txlock", "_txlock=immediate"},
	}
	if !isMemoryDSN(dsn) {
		opts = append(opts, struct{ key, value string }{"journal_mode", "_pragma=journal_mode(WAL)"})
	}
	var extra []string
	for _, o := range opts {
		if !strings.Contains(dsn, o.key) {
			extra = append(extra, o.value)
		}
	}
	if len(extra) == 0 {
		return dsn
	}
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	return dsn + sep + strings.Join(extra, "&")
}

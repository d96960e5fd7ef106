// Copyright (c) 2026 Ledgermaster Team
// Ledgermaster - multi-owner account ledger
// This source code is licensed under the MIT license found in the LICENSE file.

// Layout
//   - `store.go` declares the Store interface the ledger core depends on.
//   - `bun_adapter.go` holds the Bun models and the free `XxxBun` query
//     functions. They accept a bun.IDB so the same code runs on a *bun.DB or
//     inside a bun.Tx.
//   - `bun_store.go` implements Store once on top of those functions;
//     `sqlite.go`, `postgres.go` and `mysql.go` embed it and add the engine
//     specifics (DSN options, row locks, sequence repair, error codes).
//
// Balances
//   - AdjustBalance is the only statement that writes `balance`. It is a
//     single conditional UPDATE, so concurrent adjustments on one account are
//     serialized by the engine and can never drive a balance negative.
//   - Inside RunInTx, LockAccounts takes row locks in ascending id order on
//     Postgres and MySQL so paired debits and credits cannot deadlock.
//
// Testing notes
//   - Prefer `NewStoreFromDSN("sqlite", ":memory:")` in tests that need real DB
//     semantics and migrations. The store pins itself to one connection.
//   - Engine specific SQL is covered with go-sqlmock through `sqlOpenFunc`.
package db

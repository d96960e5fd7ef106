// Copyright (c) 2026 Ledgermaster Team
// Ledgermaster - multi-owner account ledger
// This source code is licensed under the MIT license found in the LICENSE file.

// debug_export prints the JSON inside a ledgermaster backup file. Without an
// argument it seeds a throwaway in-memory ledger and prints its snapshot,
// which is handy when working on the backup format.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/toeirei/ledgermaster/internal/core"
	"github.com/toeirei/ledgermaster/internal/db"
	"github.com/toeirei/ledgermaster/internal/model"
)

func main() {
	if err := run(context.Background(), os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "debug_export: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, out io.Writer) error {
	var data *model.BackupData
	if len(args) > 0 {
		f, err := os.Open(args[0])
		if err != nil {
			return err
		}
		defer func() { _ = f.Close() }()
		if data, err = core.ReadBackup(f); err != nil {
			return err
		}
	} else {
		var err error
		if data, err = demoSnapshot(ctx); err != nil {
			return err
		}
	}
	fmt.Fprintf(out, "accounts: %d, grants: %d, transactions: %d, audit entries: %d\n",
		len(data.Accounts), len(data.SharedGrants), len(data.Transactions), len(data.AuditLogEntries))
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}

// demoSnapshot builds a small ledger in memory and round-trips it through
// the backup codec.
func demoSnapshot(ctx context.Context) (*model.BackupData, error) {
	st, err := db.NewStoreFromDSN("sqlite", ":memory:")
	if err != nil {
		return nil, err
	}
	defer func() { _ = st.Close() }()
	svc := core.NewServices(st, core.DefaultPolicy())

	alice, err := svc.Ledger.CreateAccount(ctx, model.CreateAccountInput{Name: "Alice", OwnerIdentifier: "alice", IsDefault: true, Balance: 5000})
	if err != nil {
		return nil, err
	}
	bob, err := svc.Ledger.CreateAccount(ctx, model.CreateAccountInput{Name: "Bob", OwnerIdentifier: "bob", IsDefault: true})
	if err != nil {
		return nil, err
	}
	if _, err := svc.Registry.Grant(ctx, alice.ID, "bob", model.RoleContributor); err != nil {
		return nil, err
	}
	if _, err := svc.Transfers.Transfer(ctx, model.TransferInput{Actor: "alice", FromAccountID: alice.ID, ToAccountID: bob.ID, Amount: 2000, Message: "rent"}); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if _, err := core.Backup(ctx, st, &buf); err != nil {
		return nil, err
	}
	return core.ReadBackup(&buf)
}

// Copyright (c) 2026 Ledgermaster Team
// Ledgermaster - multi-owner account ledger
// This source code is licensed under the MIT license found in the LICENSE file.

package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/toeirei/ledgermaster/internal/apperrors"
	"github.com/toeirei/ledgermaster/internal/core"
	"github.com/toeirei/ledgermaster/internal/db"
	"github.com/toeirei/ledgermaster/internal/i18n"
)

func newBackupCmd(a *app) *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "backup",
		Short: "Write a compressed snapshot of the whole ledger",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if out == "" {
				out = fmt.Sprintf("ledgermaster-backup-%s.json.zst", time.Now().UTC().Format("20060102-150405"))
			}
			if err := os.MkdirAll(filepath.Dir(out), 0o700); err != nil {
				return err
			}
			// 0600: the snapshot holds every balance.
			f, err := os.OpenFile(out, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o600)
			if err != nil {
				return err
			}
			data, err := core.Backup(ctxOf(cmd), a.store, f)
			if cerr := f.Close(); err == nil {
				err = cerr
			}
			if err != nil {
				_ = os.Remove(out)
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), i18n.T("cli.backup_written", out, len(data.Accounts), len(data.Transactions)))
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "output file (default ledgermaster-backup-<timestamp>.json.zst)")
	return cmd
}

func newRestoreCmd(a *app) *cobra.Command {
	var full bool
	cmd := &cobra.Command{
		Use:   "restore <file>",
		Short: "Restore a snapshot written by backup",
		Long: `Restores a snapshot. By default rows missing from the database are
added and existing rows are kept. --full replaces every table.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if full && !a.confirm(cmd, i18n.T("cli.confirm_full_restore")) {
				return errAborted
			}
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer func() { _ = f.Close() }()
			if err := core.Restore(ctxOf(cmd), f, core.RestoreOptions{Full: full, Actor: a.actor}, a.store); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), i18n.T("cli.restore_done", args[0]))
			return nil
		},
	}
	cmd.Flags().BoolVar(&full, "full", false, "replace all data instead of merging")
	return cmd
}

func newMigrateCmd(a *app) *cobra.Command {
	var toType, toDsn string
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Copy the ledger into another database",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if toType == "" || toDsn == "" {
				return apperrors.New(apperrors.CodeInvalidArgument, "migrate", i18n.T("cli.error_migrate_target"))
			}
			if !a.confirm(cmd, i18n.T("cli.confirm_migrate", toType)) {
				return errAborted
			}
			factory := core.StoreFactoryFunc(db.NewStoreFromDSN)
			if err := core.Migrate(ctxOf(cmd), factory, a.store, toType, toDsn); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), i18n.T("cli.migrate_done", toType))
			return nil
		},
	}
	cmd.Flags().StringVar(&toType, "to-type", "", `target database type ("sqlite", "postgres", "mysql")`)
	cmd.Flags().StringVar(&toDsn, "to-dsn", "", "target database DSN")
	return cmd
}

func newDBCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "db",
		Short: "Database housekeeping",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "maintain",
		Short: "Run engine-specific maintenance (VACUUM, OPTIMIZE, ...)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := db.RunDBMaintenance(ctxOf(cmd), a.cfg.Database.Type, a.cfg.Database.Dsn); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), i18n.T("cli.maintenance_done"))
			return nil
		},
	})
	return cmd
}

// Copyright (c) 2026 Ledgermaster Team
// Ledgermaster - multi-owner account ledger
// This source code is licensed under the MIT license found in the LICENSE file.

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/toeirei/ledgermaster/internal/core"
	"github.com/toeirei/ledgermaster/internal/i18n"
	"github.com/toeirei/ledgermaster/internal/model"
)

func newTxCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "tx",
		Aliases: []string{"transactions"},
		Short:   "Inspect recorded transactions",
	}
	cmd.AddCommand(newTxListCmd(a), newTxShowCmd(a))
	return cmd
}

func newTxListCmd(a *app) *cobra.Command {
	var limit, offset int
	cmd := &cobra.Command{
		Use:   "list <account-id>",
		Short: "List an account's transactions, newest first",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := ctxOf(cmd)
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if a.actor != "" {
				if _, err := a.svc.Authorizer.AuthorizeView(ctx, id, a.actor); err != nil {
					return err
				}
			}
			txs, err := a.svc.Ledger.ListTransactions(ctx, id, limit, offset)
			if err != nil {
				return err
			}
			printTransactions(cmd.OutOrStdout(), txs)
			return nil
		},
	}
	cmd.Flags().IntVar(&limit, "limit", core.DefaultPageSize, "maximum number of rows")
	cmd.Flags().IntVar(&offset, "offset", 0, "rows to skip")
	return cmd
}

func newTxShowCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show <identifier>",
		Short: "Show one transaction",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tx, err := a.svc.Ledger.GetTransaction(ctxOf(cmd), args[0])
			if err != nil {
				return err
			}
			printTransactions(cmd.OutOrStdout(), []model.Transaction{tx})
			return nil
		},
	}
}

func newAuditCmd(a *app) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "audit",
		Short: "Show the audit log, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			entries, err := a.svc.Ledger.AuditLog(ctxOf(cmd))
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(entries) == 0 {
				fmt.Fprintln(out, i18n.T("cli.no_audit_entries"))
				return nil
			}
			if limit > 0 && len(entries) > limit {
				entries = entries[:limit]
			}
			tw := newTable(out)
			fmt.Fprintln(tw, i18n.T("cli.audit_header"))
			for _, e := range entries {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", e.CreatedAt.Format(timeLayout), e.Actor, e.Action, e.Details)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 0, "maximum number of rows (0 for all)")
	return cmd
}

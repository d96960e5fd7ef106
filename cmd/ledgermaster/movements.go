// Copyright (c) 2026 Ledgermaster Team
// Ledgermaster - multi-owner account ledger
// This source code is licensed under the MIT license found in the LICENSE file.

package main

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/toeirei/ledgermaster/internal/core"
	"github.com/toeirei/ledgermaster/internal/i18n"
	"github.com/toeirei/ledgermaster/internal/model"
	"github.com/toeirei/ledgermaster/internal/money"
)

func printReceipt(w io.Writer, tx model.Transaction) {
	fmt.Fprintln(w, i18n.T("cli.transaction_recorded", tx.Kind, money.Format(tx.Amount), tx.Identifier))
}

func newTransferCmd(a *app) *cobra.Command {
	var message, identifier string
	cmd := &cobra.Command{
		Use:   "transfer <from-account-id> <to-account-id> <amount>",
		Short: "Move money between two accounts",
		Long: `Moves money from one account to another on behalf of --as. A target
id below 1 addresses an external account by number (id times ten).
The optional --identifier makes the transfer idempotent.`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			actor, err := a.requireActor()
			if err != nil {
				return err
			}
			from, err := parseID(args[0])
			if err != nil {
				return err
			}
			to, err := parseID(args[1])
			if err != nil {
				return err
			}
			amount, err := parseAmount(args[2])
			if err != nil {
				return err
			}
			tx, err := a.svc.Transfers.Transfer(ctxOf(cmd), model.TransferInput{
				Actor:         actor,
				FromAccountID: from,
				ToAccountID:   to,
				Amount:        amount,
				Message:       message,
				Identifier:    identifier,
			})
			if err != nil {
				return err
			}
			printReceipt(cmd.OutOrStdout(), tx)
			return nil
		},
	}
	cmd.Flags().StringVarP(&message, "message", "m", "", "transfer message")
	cmd.Flags().StringVar(&identifier, "identifier", "", "idempotency token (generated when empty)")
	return cmd
}

type moveFunc func(context.Context, core.MovementInput) (model.Transaction, error)

// newMovementCmd builds deposit and withdraw, which differ only in direction.
func newMovementCmd(a *app, use, short string, pick func(*core.TransferEngine) moveFunc) *cobra.Command {
	var message, identifier string
	cmd := &cobra.Command{
		Use:   use + " <account-id> <amount>",
		Short: short,
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			amount, err := parseAmount(args[1])
			if err != nil {
				return err
			}
			tx, err := pick(a.svc.Transfers)(ctxOf(cmd), core.MovementInput{
				Actor:      a.actor,
				AccountID:  id,
				Amount:     amount,
				Message:    message,
				Identifier: identifier,
			})
			if err != nil {
				return err
			}
			printReceipt(cmd.OutOrStdout(), tx)
			return nil
		},
	}
	cmd.Flags().StringVarP(&message, "message", "m", "", "transaction message")
	cmd.Flags().StringVar(&identifier, "identifier", "", "idempotency token (generated when empty)")
	return cmd
}

func newDepositCmd(a *app) *cobra.Command {
	return newMovementCmd(a, "deposit", "Credit an account from outside the ledger",
		func(e *core.TransferEngine) moveFunc { return e.Credit })
}

func newWithdrawCmd(a *app) *cobra.Command {
	return newMovementCmd(a, "withdraw", "Debit an account to outside the ledger",
		func(e *core.TransferEngine) moveFunc { return e.Debit })
}

func newSetBalanceCmd(a *app) *cobra.Command {
	var message string
	cmd := &cobra.Command{
		Use:   "set-balance <account-id> <amount>",
		Short: "Set an account balance, recording the difference",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			target, err := parseAmount(args[1])
			if err != nil {
				return err
			}
			if !a.confirm(cmd, i18n.T("cli.confirm_set_balance", id, money.Format(target))) {
				return errAborted
			}
			tx, err := a.svc.Transfers.SetBalance(ctxOf(cmd), a.actor, id, target, message)
			if err != nil {
				return err
			}
			if tx.Identifier == "" {
				fmt.Fprintln(cmd.OutOrStdout(), i18n.T("cli.balance_unchanged"))
				return nil
			}
			printReceipt(cmd.OutOrStdout(), tx)
			return nil
		},
	}
	cmd.Flags().StringVarP(&message, "message", "m", "", "transaction message")
	return cmd
}

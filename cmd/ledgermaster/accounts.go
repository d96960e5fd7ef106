// Copyright (c) 2026 Ledgermaster Team
// Ledgermaster - multi-owner account ledger
// This source code is licensed under the MIT license found in the LICENSE file.

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/toeirei/ledgermaster/internal/db"
	"github.com/toeirei/ledgermaster/internal/i18n"
	"github.com/toeirei/ledgermaster/internal/model"
)

func newAccountCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "account",
		Aliases: []string{"accounts"},
		Short:   "Manage accounts",
	}
	cmd.AddCommand(
		newAccountListCmd(a),
		newAccountShowCmd(a),
		newAccountCreateCmd(a),
		newAccountEditCmd(a),
		newAccountDefaultCmd(a),
		newAccountDeleteCmd(a),
	)
	return cmd
}

func newAccountListCmd(a *app) *cobra.Command {
	var search, filter, owner string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List accounts",
		Long: `Lists accounts. --search runs a database-side search over number,
name and owner; --filter narrows the listing in memory by all given tokens.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := ctxOf(cmd)
			var (
				accs []model.Account
				err  error
			)
			if owner != "" {
				accs, err = a.svc.Ledger.GetByOwner(ctx, owner)
			} else {
				accs, err = a.svc.Ledger.ListAccounts(ctx, search)
			}
			if err != nil {
				return err
			}
			accs = db.FilterAccountsByTokens(accs, db.TokenizeSearchQuery(filter))
			printAccounts(cmd.OutOrStdout(), accs)
			return nil
		},
	}
	cmd.Flags().StringVar(&search, "search", "", "search number, name and owner")
	cmd.Flags().StringVar(&filter, "filter", "", "only show accounts matching every token")
	cmd.Flags().StringVar(&owner, "owner", "", "only show accounts of this owner")
	return cmd
}

func newAccountShowCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show <account-id>",
		Short: "Show an account and its grants",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := ctxOf(cmd)
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			var acc model.Account
			if a.actor != "" {
				acc, err = a.svc.Authorizer.AuthorizeView(ctx, id, a.actor)
			} else {
				acc, err = a.svc.Ledger.GetAccount(ctx, id)
			}
			if err != nil {
				return err
			}
			grants, err := a.svc.Registry.ListGrantsForAccount(ctx, id)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			printAccount(out, acc)
			fmt.Fprintln(out)
			printGrants(out, grants)
			return nil
		},
	}
}

func newAccountCreateCmd(a *app) *cobra.Command {
	var (
		owner, name, kind, number, balance string
		isDefault                          bool
	)
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create an account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			in := model.CreateAccountInput{
				Number:          number,
				Name:            name,
				OwnerIdentifier: owner,
				IsDefault:       isDefault,
				Kind:            model.AccountKind(kind),
			}
			if balance != "" {
				v, err := parseAmount(balance)
				if err != nil {
					return err
				}
				in.Balance = v
			}
			acc, err := a.svc.Ledger.CreateAccount(ctxOf(cmd), in)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), i18n.T("cli.account_created", acc.ID, acc.Number))
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVar(&owner, "owner", "", "owner identifier (required)")
	f.StringVar(&name, "name", "", "display name (required)")
	f.StringVar(&kind, "kind", string(model.KindPersonal), `account kind ("personal", "shared", "business")`)
	f.StringVar(&number, "number", "", "account number (generated when empty)")
	f.StringVar(&balance, "balance", "", "opening balance, e.g. 12.50")
	f.BoolVar(&isDefault, "default", false, "make this the owner's default account")
	_ = cmd.MarkFlagRequired("owner")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

func newAccountEditCmd(a *app) *cobra.Command {
	var name, kind string
	cmd := &cobra.Command{
		Use:   "edit <account-id>",
		Short: "Rename an account or change its kind",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			actor, err := a.requireActor()
			if err != nil {
				return err
			}
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			in := model.EditAccountInput{AccountID: id}
			if cmd.Flags().Changed("name") {
				in.Name = &name
			}
			if cmd.Flags().Changed("kind") {
				k := model.AccountKind(kind)
				in.Kind = &k
			}
			acc, err := a.svc.Ledger.EditAccount(ctxOf(cmd), actor, in)
			if err != nil {
				return err
			}
			printAccount(cmd.OutOrStdout(), acc)
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "new display name")
	cmd.Flags().StringVar(&kind, "kind", "", "new account kind")
	return cmd
}

func newAccountDefaultCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "default <account-id>",
		Short: "Make an account the owner's default",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			actor, err := a.requireActor()
			if err != nil {
				return err
			}
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if err := a.svc.Ledger.SetDefault(ctxOf(cmd), actor, id); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), i18n.T("cli.account_default_set", id))
			return nil
		},
	}
}

func newAccountDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <account-id>",
		Short: "Delete an account and its grants",
		Long:  `Deletes an account. Its grants go with it; transactions are kept.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			actor, err := a.requireActor()
			if err != nil {
				return err
			}
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if !a.confirm(cmd, i18n.T("cli.confirm_delete", id)) {
				return errAborted
			}
			if err := a.svc.Ledger.DeleteAccount(ctxOf(cmd), actor, id); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), i18n.T("cli.account_deleted", id))
			return nil
		},
	}
}

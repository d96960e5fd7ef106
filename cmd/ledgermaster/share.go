// Copyright (c) 2026 Ledgermaster Team
// Ledgermaster - multi-owner account ledger
// This source code is licensed under the MIT license found in the LICENSE file.

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/toeirei/ledgermaster/internal/apperrors"
	"github.com/toeirei/ledgermaster/internal/i18n"
	"github.com/toeirei/ledgermaster/internal/model"
	"github.com/toeirei/ledgermaster/util/slicest"
)

func newShareCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "share",
		Short: "Share accounts with other identities",
		Long: `Grants and revokes access to accounts. With --as the acting user must
hold a role allowed to share; without it the command runs as administrator.`,
	}
	cmd.AddCommand(newShareGrantCmd(a), newShareRevokeCmd(a), newShareListCmd(a))
	return cmd
}

func newShareGrantCmd(a *app) *cobra.Command {
	var role string
	cmd := &cobra.Command{
		Use:   "grant <account-id> <user>",
		Short: "Grant a user a role on an account",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			var g model.SharedGrant
			if a.actor != "" {
				g, err = a.svc.Registry.GrantAs(ctxOf(cmd), a.actor, id, args[1], model.ParseRole(role))
			} else {
				g, err = a.svc.Registry.Grant(ctxOf(cmd), id, args[1], model.ParseRole(role))
			}
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), i18n.T("cli.grant_added", g.User, g.Role, g.AccountID))
			return nil
		},
	}
	cmd.Flags().StringVar(&role, "role", string(model.RoleContributor), `role to grant ("admin", "contributor", ...)`)
	return cmd
}

func newShareRevokeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "revoke <account-id> <user>",
		Short: "Revoke a user's grant on an account",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if a.actor != "" {
				err = a.svc.Registry.RevokeAs(ctxOf(cmd), a.actor, id, args[1])
			} else {
				err = a.svc.Registry.Revoke(ctxOf(cmd), id, args[1])
			}
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), i18n.T("cli.grant_revoked", args[1], id))
			return nil
		},
	}
}

func newShareListCmd(a *app) *cobra.Command {
	var (
		accountID int64
		user      string
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List grants of an account or of a user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := ctxOf(cmd)
			out := cmd.OutOrStdout()
			switch {
			case accountID > 0:
				grants, err := a.svc.Registry.ListGrantsForAccount(ctx, accountID)
				if err != nil {
					return err
				}
				printGrants(out, grants)
			case user != "":
				joined, err := a.svc.Registry.ListGrantsForUser(ctx, user)
				if err != nil {
					return err
				}
				printAccounts(out, slicest.Map(joined, func(j model.GrantWithAccount) model.Account { return j.Account }))
			default:
				return apperrors.New(apperrors.CodeInvalidArgument, "share list", i18n.T("cli.error_share_list_target"))
			}
			return nil
		},
	}
	cmd.Flags().Int64Var(&accountID, "account", 0, "list the grants on this account")
	cmd.Flags().StringVar(&user, "user", "", "list the accounts shared with this user")
	return cmd
}

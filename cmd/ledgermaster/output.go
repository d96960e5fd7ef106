// Copyright (c) 2026 Ledgermaster Team
// Ledgermaster - multi-owner account ledger
// This source code is licensed under the MIT license found in the LICENSE file.

package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/toeirei/ledgermaster/internal/apperrors"
	"github.com/toeirei/ledgermaster/internal/i18n"
	"github.com/toeirei/ledgermaster/internal/model"
	"github.com/toeirei/ledgermaster/internal/money"
)

const timeLayout = "2006-01-02 15:04:05"

func secs(n int) time.Duration { return time.Duration(n) * time.Second }

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
}

func printAccounts(w io.Writer, accs []model.Account) {
	if len(accs) == 0 {
		fmt.Fprintln(w, i18n.T("cli.no_accounts"))
		return
	}
	tw := newTable(w)
	fmt.Fprintln(tw, i18n.T("cli.accounts_header"))
	for _, a := range accs {
		def := ""
		if a.IsDefault {
			def = "*"
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\t%s\n", a.ID, a.Number, a.Name, a.OwnerIdentifier, a.Kind, money.Format(a.Balance), def)
	}
	_ = tw.Flush()
}

func printAccount(w io.Writer, a model.Account) {
	tw := newTable(w)
	fmt.Fprintf(tw, "%s\t%d\n", i18n.T("cli.field_id"), a.ID)
	fmt.Fprintf(tw, "%s\t%s\n", i18n.T("cli.field_number"), a.Number)
	fmt.Fprintf(tw, "%s\t%s\n", i18n.T("cli.field_name"), a.Name)
	fmt.Fprintf(tw, "%s\t%s\n", i18n.T("cli.field_owner"), a.OwnerIdentifier)
	fmt.Fprintf(tw, "%s\t%s\n", i18n.T("cli.field_kind"), a.Kind)
	fmt.Fprintf(tw, "%s\t%s\n", i18n.T("cli.field_balance"), money.Format(a.Balance))
	fmt.Fprintf(tw, "%s\t%t\n", i18n.T("cli.field_default"), a.IsDefault)
	fmt.Fprintf(tw, "%s\t%s\n", i18n.T("cli.field_created"), a.CreatedAt.Format(timeLayout))
	_ = tw.Flush()
}

func printTransactions(w io.Writer, txs []model.Transaction) {
	if len(txs) == 0 {
		fmt.Fprintln(w, i18n.T("cli.no_transactions"))
		return
	}
	tw := newTable(w)
	fmt.Fprintln(tw, i18n.T("cli.transactions_header"))
	for _, t := range txs {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			t.CreatedAt.Format(timeLayout), t.Identifier, t.Kind,
			accountRef(t.FromAccount), accountRef(t.ToAccount), money.Format(t.Amount), t.Message)
	}
	_ = tw.Flush()
}

func accountRef(id *int64) string {
	if id == nil {
		return "-"
	}
	return strconv.FormatInt(*id, 10)
}

func printGrants(w io.Writer, grants []model.SharedGrant) {
	if len(grants) == 0 {
		fmt.Fprintln(w, i18n.T("cli.no_grants"))
		return
	}
	tw := newTable(w)
	fmt.Fprintln(tw, i18n.T("cli.grants_header"))
	for _, g := range grants {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", g.AccountID, g.User, g.Role, g.CreatedAt.Format(timeLayout))
	}
	_ = tw.Flush()
}

// parseID parses a positional account id.
func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0, apperrors.Newf(apperrors.CodeInvalidArgument, "cli", "invalid account id %q", s)
	}
	return id, nil
}

// parseAmount parses a major-unit amount such as "12.50".
func parseAmount(s string) (int64, error) {
	v, err := money.Parse(s)
	if err != nil {
		return 0, apperrors.Wrap(apperrors.CodeInvalidArgument, "cli", err)
	}
	return v, nil
}

// confirm asks a yes/no question when stdin is a terminal. --yes and
// non-interactive input skip the prompt.
func (a *app) confirm(cmd *cobra.Command, question string) bool {
	if a.yes {
		return true
	}
	f, ok := a.stdin.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return true
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s [y/N]: ", question)
	line, _ := bufio.NewReader(f).ReadString('\n')
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes", "j", "ja":
		return true
	}
	return false
}

// errAborted is returned when the user declines a confirmation.
var errAborted = errors.New("aborted")

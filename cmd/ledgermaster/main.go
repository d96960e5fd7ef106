// Copyright (c) 2026 Ledgermaster Team
// Ledgermaster - multi-owner account ledger
// This source code is licensed under the MIT license found in the LICENSE file.

// main.go sets up the ledgermaster command-line interface using Cobra. It
// defines the root command, loads configuration, opens the store and wires
// the ledger services every subcommand works with.

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/toeirei/ledgermaster/buildvars"
	"github.com/toeirei/ledgermaster/internal/apperrors"
	"github.com/toeirei/ledgermaster/internal/config"
	"github.com/toeirei/ledgermaster/internal/core"
	"github.com/toeirei/ledgermaster/internal/db"
	"github.com/toeirei/ledgermaster/internal/i18n"
	"github.com/toeirei/ledgermaster/internal/logging"
)

func main() {
	if err := execute(os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, i18n.T("cli.error", errorText(err)))
		os.Exit(1)
	}
}

// execute runs one command line and releases the store afterwards, also
// when the command failed.
func execute(args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	cmd, a := newRootCmd()
	a.stdin = stdin
	cmd.SetArgs(args)
	cmd.SetIn(stdin)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	defer a.close()
	return cmd.Execute()
}

// errorText renders err for the terminal. Domain errors are shown by their
// translated code; anything else by its message.
func errorText(err error) string {
	var e *apperrors.Error
	if errors.As(err, &e) {
		if e.Message != "" {
			return fmt.Sprintf("%s (%s)", apperrors.Localize(err), e.Message)
		}
		return apperrors.Localize(err)
	}
	return err.Error()
}

// app carries the per-invocation state shared by subcommands.
type app struct {
	cfgFile string
	actor   string
	yes     bool

	cfg   config.Config
	store db.Store
	svc   *core.Services
	stdin io.Reader
}

// skipStore lists commands that run without opening the database.
var skipStore = map[string]bool{
	"version":  true,
	"maintain": true,
	"help":     true,
}

// NewRootCmd builds a fresh command tree.
func NewRootCmd() *cobra.Command {
	cmd, _ := newRootCmd()
	return cmd
}

func newRootCmd() (*cobra.Command, *app) {
	a := &app{stdin: os.Stdin}

	cmd := &cobra.Command{
		Use:   "ledgermaster",
		Short: "Ledgermaster is a multi-owner account ledger.",
		Long: `Ledgermaster keeps accounts, their balances and who may use them.
Accounts belong to one owner and can be shared with other identities
through role grants. Every balance movement is recorded as an
append-only transaction.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
	}
	cmd.Version = buildvars.Info()

	pf := cmd.PersistentFlags()
	pf.StringVar(&a.cfgFile, "config", "", "config file (default is ledgermaster.yaml in the user config dir or ./)")
	pf.String("database.type", "sqlite", `database type ("sqlite", "postgres", "mysql")`)
	pf.String("database.dsn", "./ledgermaster.db", "database connection string (DSN)")
	pf.String("language", "en", `output language ("en", "de")`)
	pf.BoolP("verbose", "v", false, "enable debug logging")
	pf.String("log-format", "", `log format ("text", "json", "logfmt")`)
	pf.StringVar(&a.actor, "as", "", "identifier of the acting user")
	pf.BoolVarP(&a.yes, "yes", "y", false, "do not ask for confirmation")

	cmd.AddCommand(
		newAccountCmd(a),
		newShareCmd(a),
		newTransferCmd(a),
		newDepositCmd(a),
		newWithdrawCmd(a),
		newSetBalanceCmd(a),
		newTxCmd(a),
		newAuditCmd(a),
		newBackupCmd(a),
		newRestoreCmd(a),
		newMigrateCmd(a),
		newDBCmd(a),
		newVersionCmd(),
	)
	return cmd, a
}

func (a *app) close() {
	if a.store == nil {
		return
	}
	if err := a.store.Close(); err != nil {
		logging.Warnf("closing store: %v", err)
	}
	a.store = nil
}

// setup loads the configuration and, unless the command does not need it,
// opens the store.
func (a *app) setup(cmd *cobra.Command) error {
	c, err := config.LoadConfig[config.Config](cmd, config.Defaults(), &a.cfgFile)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if v, ok := changedFlag(cmd.Flags(), "log-format"); ok {
		c.Log.Format = v
	}
	if err := c.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	a.cfg = c

	i18n.Init(c.Language)
	if err := logging.SetLevel(c.Log.Level); err != nil {
		return err
	}
	if err := logging.SetFormat(c.Log.Format); err != nil {
		return err
	}
	if v, _ := cmd.Flags().GetBool("verbose"); v {
		logging.SetDebug(true)
		db.SetDebug(true)
	}

	if skipStore[cmd.Name()] {
		return nil
	}
	st, err := db.NewStoreWithPool(c.Database.Type, c.Database.Dsn, poolConfig(c.Database))
	if err != nil {
		return fmt.Errorf("%s: %w", i18n.T("cli.error_open_db"), err)
	}
	a.store = st
	a.svc = core.NewServices(st, core.PolicyFromConfig(c.Ledger))
	logging.Debugf("opened %s store", st.Type())
	return nil
}

// changedFlag returns the value of a flag the user set explicitly.
func changedFlag(fs *pflag.FlagSet, name string) (string, bool) {
	f := fs.Lookup(name)
	if f == nil || !f.Changed {
		return "", false
	}
	return f.Value.String(), true
}

func poolConfig(d config.Database) db.PoolConfig {
	p := db.DefaultPoolConfig()
	if d.MaxOpenConns > 0 {
		p.MaxOpenConns = d.MaxOpenConns
	}
	if d.MaxIdleConns > 0 {
		p.MaxIdleConns = d.MaxIdleConns
	}
	if d.ConnMaxLifetimeSeconds > 0 {
		p.ConnMaxLifetime = secs(d.ConnMaxLifetimeSeconds)
	}
	return p
}

// requireActor returns the --as identifier or a usage error.
func (a *app) requireActor() (string, error) {
	if a.actor == "" {
		return "", apperrors.New(apperrors.CodeInvalidArgument, "cli", i18n.T("cli.error_actor_required"))
	}
	return a.actor, nil
}

func ctxOf(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), "ledgermaster "+buildvars.Info())
		},
	}
}

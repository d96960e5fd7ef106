// Copyright (c) 2026 Ledgermaster Team
// Ledgermaster - multi-owner account ledger
// This source code is licensed under the MIT license found in the LICENSE file.

// Package exports is the typed operation surface other systems call into.
// Callers address players by session source; the ...ByIdentifier variants
// take the stable identity directly.
package exports

import (
	"context"
	"errors"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/toeirei/ledgermaster/internal/apperrors"
	"github.com/toeirei/ledgermaster/internal/core"
	"github.com/toeirei/ledgermaster/internal/logging"
	"github.com/toeirei/ledgermaster/internal/model"
	"github.com/toeirei/ledgermaster/util/slicest"
)

// Service implements the export surface on top of the ledger core.
type Service struct {
	core     *core.Services
	players  PlayerDirectory
	cash     CashProvider
	invoices InvoiceProvider
	// pending tracks asynchronous operations so Wait can drain them.
	pending sync.WaitGroup
}

// Option configures a Service.
type Option func(*Service)

// WithInvoices plugs in an invoice backend.
func WithInvoices(p InvoiceProvider) Option {
	return func(s *Service) { s.invoices = p }
}

// New returns a Service. Nil collaborators are replaced by the in-memory
// implementations.
func New(svc *core.Services, players PlayerDirectory, cash CashProvider, opts ...Option) *Service {
	if players == nil {
		players = NewMemoryPlayers()
	}
	if cash == nil {
		cash = NewMemoryCash()
	}
	s := &Service{core: svc, players: players, cash: cash}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Wait blocks until every asynchronous operation started so far finished.
func (s *Service) Wait() { s.pending.Wait() }

func (s *Service) identifierOf(op string, source int) (string, error) {
	p, ok := s.players.Get(source)
	if !ok {
		return "", apperrors.Newf(apperrors.CodeNotFound, op, "no player loaded for source %d", source)
	}
	return p.Identifier, nil
}

// --- Sessions ---

// LoadPlayer registers the session and makes sure the player has a default
// personal account, seeded with the configured start balance.
func (s *Service) LoadPlayer(ctx context.Context, source int, identifier, name string) (model.Account, error) {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" {
		return model.Account{}, apperrors.New(apperrors.CodeInvalidArgument, "load player", "identifier is required")
	}
	acc, err := s.core.Ledger.GetDefaultForOwner(ctx, identifier)
	if errors.Is(err, apperrors.ErrNotFound) {
		if name == "" {
			name = identifier
		}
		acc, err = s.core.Ledger.CreateAccount(ctx, model.CreateAccountInput{
			Name:            name,
			OwnerIdentifier: identifier,
			IsDefault:       true,
			Kind:            model.KindPersonal,
			Balance:         s.core.Policy.StartBalance,
		})
	}
	if err != nil {
		return model.Account{}, err
	}
	s.players.Put(Player{Source: source, Identifier: identifier, Name: name})
	logging.With("source", source, "identifier", identifier).Debugf("player loaded, default account %s", acc.Number)
	return acc, nil
}

// UnloadPlayer drops the session. Accounts are untouched.
func (s *Service) UnloadPlayer(_ context.Context, source int) {
	s.players.Delete(source)
}

// --- Cash ---

// GetCash returns the cash the player carries.
func (s *Service) GetCash(ctx context.Context, source int) (int64, error) {
	id, err := s.identifierOf("get cash", source)
	if err != nil {
		return 0, err
	}
	return s.cash.GetCash(ctx, id)
}

// AddCash gives the player cash and returns the new amount.
func (s *Service) AddCash(ctx context.Context, source int, amount int64) (int64, error) {
	id, err := s.identifierOf("add cash", source)
	if err != nil {
		return 0, err
	}
	return s.cash.AddCash(ctx, id, amount)
}

// RemoveCash takes cash from the player and returns the new amount.
func (s *Service) RemoveCash(ctx context.Context, source int, amount int64) (int64, error) {
	id, err := s.identifierOf("remove cash", source)
	if err != nil {
		return 0, err
	}
	return s.cash.RemoveCash(ctx, id, amount)
}

// DepositCash moves cash into the player's default account. When the
// credit fails the cash is handed back.
func (s *Service) DepositCash(ctx context.Context, source int, amount int64) (model.Transaction, error) {
	const op = "deposit cash"
	id, err := s.identifierOf(op, source)
	if err != nil {
		return model.Transaction{}, err
	}
	acc, err := s.core.Ledger.GetDefaultForOwner(ctx, id)
	if err != nil {
		return model.Transaction{}, err
	}
	if _, err := s.cash.RemoveCash(ctx, id, amount); err != nil {
		return model.Transaction{}, err
	}
	tx, err := s.core.Transfers.Credit(ctx, core.MovementInput{Actor: id, AccountID: acc.ID, Amount: amount, Message: "cash deposit"})
	if err != nil {
		if _, rerr := s.cash.AddCash(ctx, id, amount); rerr != nil {
			logging.Errorf("%s: refund of %d cash to %s failed: %v", op, amount, id, rerr)
		}
		return model.Transaction{}, err
	}
	return tx, nil
}

// WithdrawCash moves money from the player's default account into cash.
// When the cash cannot be paid out the debit is reversed.
func (s *Service) WithdrawCash(ctx context.Context, source int, amount int64) (model.Transaction, error) {
	const op = "withdraw cash"
	id, err := s.identifierOf(op, source)
	if err != nil {
		return model.Transaction{}, err
	}
	acc, err := s.core.Ledger.GetDefaultForOwner(ctx, id)
	if err != nil {
		return model.Transaction{}, err
	}
	tx, err := s.core.Transfers.Debit(ctx, core.MovementInput{Actor: id, AccountID: acc.ID, Amount: amount, Message: "cash withdrawal"})
	if err != nil {
		return model.Transaction{}, err
	}
	if _, err := s.cash.AddCash(ctx, id, amount); err != nil {
		if _, rerr := s.core.Transfers.Credit(ctx, core.MovementInput{Actor: id, AccountID: acc.ID, Amount: amount, Message: "cash withdrawal reversal"}); rerr != nil {
			logging.Errorf("%s: reversal of %d on account %d failed: %v", op, amount, acc.ID, rerr)
		}
		return model.Transaction{}, err
	}
	return tx, nil
}

// --- Bank balances ---

// GetTotalBankBalance sums the balances of every account the player owns.
func (s *Service) GetTotalBankBalance(ctx context.Context, source int) (int64, error) {
	id, err := s.identifierOf("get total bank balance", source)
	if err != nil {
		return 0, err
	}
	return s.GetTotalBankBalanceByIdentifier(ctx, id)
}

// GetTotalBankBalanceByIdentifier is GetTotalBankBalance for an identity.
func (s *Service) GetTotalBankBalanceByIdentifier(ctx context.Context, identifier string) (int64, error) {
	accs, err := s.core.Ledger.GetByOwner(ctx, identifier)
	if err != nil {
		return 0, err
	}
	return slicest.ReduceD(accs, int64(0), func(a model.Account, sum int64) int64 { return sum + a.Balance }), nil
}

// GetDefaultAccountBalance returns the balance of the player's default account.
func (s *Service) GetDefaultAccountBalance(ctx context.Context, source int) (int64, error) {
	id, err := s.identifierOf("get default account balance", source)
	if err != nil {
		return 0, err
	}
	acc, err := s.core.Ledger.GetDefaultForOwner(ctx, id)
	if err != nil {
		return 0, err
	}
	return acc.Balance, nil
}

// SetBankBalance sets the balance of the player's default account.
func (s *Service) SetBankBalance(ctx context.Context, source int, amount int64) (int64, error) {
	id, err := s.identifierOf("set bank balance", source)
	if err != nil {
		return 0, err
	}
	return s.SetBankBalanceByIdentifier(ctx, id, amount)
}

// SetBankBalanceByIdentifier is SetBankBalance for an identity.
func (s *Service) SetBankBalanceByIdentifier(ctx context.Context, identifier string, amount int64) (int64, error) {
	acc, err := s.core.Ledger.GetDefaultForOwner(ctx, identifier)
	if err != nil {
		return 0, err
	}
	if _, err := s.core.Transfers.SetBalance(ctx, identifier, acc.ID, amount, "balance set"); err != nil {
		return 0, err
	}
	return amount, nil
}

// AddBankBalance credits the player's default account and returns the new balance.
func (s *Service) AddBankBalance(ctx context.Context, source int, amount int64, message string) (int64, error) {
	id, err := s.identifierOf("add bank balance", source)
	if err != nil {
		return 0, err
	}
	return s.AddBankBalanceByIdentifier(ctx, id, amount, message)
}

// AddBankBalanceByIdentifier is AddBankBalance for an identity.
func (s *Service) AddBankBalanceByIdentifier(ctx context.Context, identifier string, amount int64, message string) (int64, error) {
	return s.moveDefault(ctx, identifier, amount, message, s.core.Transfers.Credit)
}

// RemoveBankBalance debits the player's default account and returns the new balance.
func (s *Service) RemoveBankBalance(ctx context.Context, source int, amount int64, message string) (int64, error) {
	id, err := s.identifierOf("remove bank balance", source)
	if err != nil {
		return 0, err
	}
	return s.RemoveBankBalanceByIdentifier(ctx, id, amount, message)
}

// RemoveBankBalanceByIdentifier is RemoveBankBalance for an identity.
func (s *Service) RemoveBankBalanceByIdentifier(ctx context.Context, identifier string, amount int64, message string) (int64, error) {
	return s.moveDefault(ctx, identifier, amount, message, s.core.Transfers.Debit)
}

func (s *Service) moveDefault(ctx context.Context, identifier string, amount int64, message string, move func(context.Context, core.MovementInput) (model.Transaction, error)) (int64, error) {
	acc, err := s.core.Ledger.GetDefaultForOwner(ctx, identifier)
	if err != nil {
		return 0, err
	}
	if _, err := move(ctx, core.MovementInput{Actor: identifier, AccountID: acc.ID, Amount: amount, Message: message}); err != nil {
		return 0, err
	}
	acc, err = s.core.Ledger.GetAccount(ctx, acc.ID)
	if err != nil {
		return 0, err
	}
	return acc.Balance, nil
}

// Transfer moves money on behalf of the player.
func (s *Service) Transfer(ctx context.Context, source int, fromID, toID, amount int64, message string) (model.Transaction, error) {
	id, err := s.identifierOf("transfer", source)
	if err != nil {
		return model.Transaction{}, err
	}
	return s.core.Transfers.Transfer(ctx, model.TransferInput{Actor: id, FromAccountID: fromID, ToAccountID: toID, Amount: amount, Message: message})
}

// --- Asynchronous money movements ---

// WithdrawMoney debits the player's default account in the background. The
// returned channel yields exactly one Response; cb, when set, receives the
// same Response before the channel does.
func (s *Service) WithdrawMoney(ctx context.Context, source int, amount int64, cb Callback) <-chan Response {
	return s.async(func() Response {
		bal, err := s.RemoveBankBalance(ctx, source, amount, "withdrawal")
		return NewResponse(bal, err)
	}, cb)
}

// DepositMoney credits the player's default account in the background.
func (s *Service) DepositMoney(ctx context.Context, source int, amount int64, cb Callback) <-chan Response {
	return s.async(func() Response {
		bal, err := s.AddBankBalance(ctx, source, amount, "deposit")
		return NewResponse(bal, err)
	}, cb)
}

func (s *Service) async(run func() Response, cb Callback) <-chan Response {
	out := make(chan Response, 1)
	s.pending.Add(1)
	go func() {
		defer s.pending.Done()
		defer close(out)
		resp := run()
		if cb != nil {
			cb(resp)
		}
		out <- resp
	}()
	return out
}

// --- Invoices ---

func (s *Service) invoiceProvider(op string) (InvoiceProvider, error) {
	if s.invoices == nil {
		return nil, apperrors.New(apperrors.CodeUnavailable, op, "no invoice provider configured")
	}
	return s.invoices, nil
}

// GetInvoices lists the player's invoices.
func (s *Service) GetInvoices(ctx context.Context, source int) ([]Invoice, error) {
	p, err := s.invoiceProvider("get invoices")
	if err != nil {
		return nil, err
	}
	id, err := s.identifierOf("get invoices", source)
	if err != nil {
		return nil, err
	}
	return p.GetInvoices(ctx, id)
}

// GetUnpaidInvoices lists the player's open invoices.
func (s *Service) GetUnpaidInvoices(ctx context.Context, source int) ([]Invoice, error) {
	p, err := s.invoiceProvider("get unpaid invoices")
	if err != nil {
		return nil, err
	}
	id, err := s.identifierOf("get unpaid invoices", source)
	if err != nil {
		return nil, err
	}
	return p.GetUnpaidInvoices(ctx, id)
}

// CreateInvoice stores a new invoice.
func (s *Service) CreateInvoice(ctx context.Context, inv Invoice) (Invoice, error) {
	p, err := s.invoiceProvider("create invoice")
	if err != nil {
		return Invoice{}, err
	}
	if inv.Amount <= 0 {
		return Invoice{}, apperrors.New(apperrors.CodeInvalidArgument, "create invoice", "amount must be positive")
	}
	return p.CreateInvoice(ctx, inv)
}

// --- Accounts ---

// GetAccounts returns the accounts the player owns followed by the ones
// shared with them.
func (s *Service) GetAccounts(ctx context.Context, source int) ([]model.Account, error) {
	id, err := s.identifierOf("get accounts", source)
	if err != nil {
		return nil, err
	}
	return s.GetAccountsByIdentifier(ctx, id)
}

// GetAccountsByIdentifier is GetAccounts for an identity.
func (s *Service) GetAccountsByIdentifier(ctx context.Context, identifier string) ([]model.Account, error) {
	var (
		owned  []model.Account
		shared []model.GrantWithAccount
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		owned, err = s.core.Ledger.GetByOwner(gctx, identifier)
		return err
	})
	g.Go(func() error {
		var err error
		shared, err = s.core.Registry.ListGrantsForUser(gctx, identifier)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	seen := slicest.ToMap(owned, func(a model.Account) (int64, bool) { return a.ID, true })
	extra := slicest.Filter(slicest.Map(shared, func(g model.GrantWithAccount) model.Account { return g.Account }),
		func(a model.Account) bool { return !seen[a.ID] })
	return append(owned, extra...), nil
}

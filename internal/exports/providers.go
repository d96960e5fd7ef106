// Copyright (c) 2026 Ledgermaster Team
// Ledgermaster - multi-owner account ledger
// This source code is licensed under the MIT license found in the LICENSE file.

package exports

import (
	"context"
	"sync"
	"time"

	"github.com/toeirei/ledgermaster/internal/apperrors"
)

// Player is a connected session. Source is the transport's session handle;
// Identifier is the stable identity that owns accounts.
type Player struct {
	Source     int
	Identifier string
	Name       string
}

// PlayerDirectory maps session handles to players.
type PlayerDirectory interface {
	Put(p Player)
	Get(source int) (Player, bool)
	Delete(source int)
}

// CashProvider holds the cash a player carries outside the bank.
type CashProvider interface {
	GetCash(ctx context.Context, identifier string) (int64, error)
	AddCash(ctx context.Context, identifier string, amount int64) (int64, error)
	RemoveCash(ctx context.Context, identifier string, amount int64) (int64, error)
}

// Invoice is a payment request from one identity to another.
type Invoice struct {
	ID        string    `json:"id"`
	Sender    string    `json:"sender"`
	Recipient string    `json:"recipient"`
	Amount    int64     `json:"amount"`
	Message   string    `json:"message"`
	Paid      bool      `json:"paid"`
	CreatedAt time.Time `json:"created_at"`
}

// InvoiceProvider stores invoices. The ledger does not implement one.
type InvoiceProvider interface {
	GetInvoices(ctx context.Context, identifier string) ([]Invoice, error)
	GetUnpaidInvoices(ctx context.Context, identifier string) ([]Invoice, error)
	CreateInvoice(ctx context.Context, inv Invoice) (Invoice, error)
}

// MemoryPlayers is a concurrency-safe in-memory PlayerDirectory.
type MemoryPlayers struct {
	mu      sync.RWMutex
	players map[int]Player
}

// NewMemoryPlayers returns an empty directory.
func NewMemoryPlayers() *MemoryPlayers {
	return &MemoryPlayers{players: map[int]Player{}}
}

func (m *MemoryPlayers) Put(p Player) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.players[p.Source] = p
}

func (m *MemoryPlayers) Get(source int) (Player, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.players[source]
	return p, ok
}

func (m *MemoryPlayers) Delete(source int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.players, source)
}

// MemoryCash is a concurrency-safe in-memory CashProvider.
type MemoryCash struct {
	mu   sync.Mutex
	cash map[string]int64
}

// NewMemoryCash returns a provider where everybody starts with no cash.
func NewMemoryCash() *MemoryCash {
	return &MemoryCash{cash: map[string]int64{}}
}

func (m *MemoryCash) GetCash(_ context.Context, identifier string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.cash[identifier], nil
}

func (m *MemoryCash) AddCash(_ context.Context, identifier string, amount int64) (int64, error) {
	if amount <= 0 {
		return 0, apperrors.New(apperrors.CodeInvalidArgument, "add cash", "amount must be positive")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cash[identifier] += amount
	return m.cash[identifier], nil
}

func (m *MemoryCash) RemoveCash(_ context.Context, identifier string, amount int64) (int64, error) {
	if amount <= 0 {
		return 0, apperrors.New(apperrors.CodeInvalidArgument, "remove cash", "amount must be positive")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.cash[identifier] < amount {
		return m.cash[identifier], apperrors.New(apperrors.CodeInsufficientFunds, "remove cash", "not enough cash")
	}
	m.cash[identifier] -= amount
	return m.cash[identifier], nil
}

// Copyright (c) 2026 Ledgermaster Team
// Ledgermaster - multi-owner account ledger
// This source code is licensed under the MIT license found in the LICENSE file.

// Package model defines the plain data records shared by the store, the
// ledger core and the export surface.
package model

import (
	"fmt"
	"time"
)

// AccountKind classifies an account.
type AccountKind string

const (
	KindPersonal AccountKind = "personal"
	KindShared   AccountKind = "shared"
	KindBusiness AccountKind = "business"
)

// Valid reports whether k is one of the known kinds.
func (k AccountKind) Valid() bool {
	switch k {
	case KindPersonal, KindShared, KindBusiness:
		return true
	}
	return false
}

// Account holds a balance in the smallest currency unit. It is owned by a
// single identity and may be shared with others through grants.
type Account struct {
	ID              int64       `json:"id"`
	Number          string      `json:"number"`
	Name            string      `json:"name"`
	OwnerIdentifier string      `json:"owner_identifier"`
	IsDefault       bool        `json:"is_default"`
	Balance         int64       `json:"balance"`
	Kind            AccountKind `json:"kind"`
	CreatedAt       time.Time   `json:"created_at"`
	UpdatedAt       time.Time   `json:"updated_at"`
}

// String returns the "name (number)" representation.
func (a Account) String() string {
	return fmt.Sprintf("%s (%s)", a.Name, a.Number)
}

// IsOwnedBy reports whether identifier owns the account.
func (a Account) IsOwnedBy(identifier string) bool {
	return identifier != "" && a.OwnerIdentifier == identifier
}

// SharedGrant gives a non-owner access to an account with a role.
type SharedGrant struct {
	ID        int64     `json:"id"`
	AccountID int64     `json:"account_id"`
	User      string    `json:"user"`
	Role      Role      `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

// GrantWithAccount pairs a grant with the account it points at.
type GrantWithAccount struct {
	Grant   SharedGrant `json:"grant"`
	Account Account     `json:"account"`
}

// TransferKind classifies a transaction record.
type TransferKind string

const (
	// TransferInternal moves money between two accounts addressed by id.
	TransferInternal TransferKind = "internal"
	// TransferExternal moves money to an account addressed by number.
	TransferExternal TransferKind = "external"
	// TransferDeposit credits a single account from outside the ledger.
	TransferDeposit TransferKind = "deposit"
	// TransferWithdrawal debits a single account to outside the ledger.
	TransferWithdrawal TransferKind = "withdrawal"
)

// Transaction is an append-only record of a completed balance movement.
// FromAccount and ToAccount are weak references; the account may be gone.
type Transaction struct {
	ID          int64        `json:"id"`
	Identifier  string       `json:"identifier"`
	Message     string       `json:"message"`
	Amount      int64        `json:"amount"`
	FromAccount *int64       `json:"from_account,omitempty"`
	ToAccount   *int64       `json:"to_account,omitempty"`
	Kind        TransferKind `json:"kind"`
	CreatedAt   time.Time    `json:"created_at"`
}

// AuditLogEntry represents a single administrative event.
type AuditLogEntry struct {
	ID        int64     `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	Actor     string    `json:"actor"`
	Action    string    `json:"action"`
	Details   string    `json:"details"`
}

// CreateAccountInput describes a new account. An empty Number asks the
// ledger to generate one.
type CreateAccountInput struct {
	Number          string
	Name            string
	OwnerIdentifier string
	IsDefault       bool
	Kind            AccountKind
	Balance         int64
}

// EditAccountInput carries the mutable account fields. Nil fields are left
// unchanged.
type EditAccountInput struct {
	AccountID int64
	Name      *string
	Kind      *AccountKind
}

// TransferInput is a request to move Amount from one account to another.
// ToAccountID below 1 addresses an external account by number.
type TransferInput struct {
	Actor         string
	FromAccountID int64
	ToAccountID   int64
	Amount        int64
	Message       string
	// Identifier is an optional caller-supplied idempotency token.
	Identifier string
}

// BackupData is a snapshot of every table.
type BackupData struct {
	SchemaVersion   int             `json:"schema_version"`
	Accounts        []Account       `json:"accounts"`
	SharedGrants    []SharedGrant   `json:"shared_grants"`
	Transactions    []Transaction   `json:"transactions"`
	AuditLogEntries []AuditLogEntry `json:"audit_log_entries"`
}

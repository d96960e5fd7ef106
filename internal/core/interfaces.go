// Copyright (c) 2026 Ledgermaster Team
// Ledgermaster - multi-owner account ledger
// This source code is licensed under the MIT license found in the LICENSE file.

// Package core is the ledger itself: account balances, shared access, the
// authorization check and the transfer engine. Every type here is constructed
// explicitly around a db.Store; there is no package-level store.
package core

import (
	"time"

	"github.com/toeirei/ledgermaster/internal/config"
	"github.com/toeirei/ledgermaster/internal/db"
	"github.com/toeirei/ledgermaster/internal/model"
)

// Clock provides an abstraction over time.Now for testability.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now().UTC() }

// SystemClock returns the wall clock in UTC.
func SystemClock() Clock { return systemClock{} }

// StoreFactory opens a migrated store for an engine and DSN.
type StoreFactory interface {
	NewStoreFromDSN(dbType, dsn string) (db.Store, error)
}

// StoreFactoryFunc adapts a plain function to StoreFactory.
type StoreFactoryFunc func(dbType, dsn string) (db.Store, error)

// NewStoreFromDSN calls f.
func (f StoreFactoryFunc) NewStoreFromDSN(dbType, dsn string) (db.Store, error) {
	return f(dbType, dsn)
}

// Policy holds the authorization and numbering rules of the ledger.
type Policy struct {
	// DebitRoles may move money out of an account the actor does not own.
	DebitRoles []model.Role
	// ShareRoles may grant and revoke access on an account the actor does not own.
	ShareRoles []model.Role
	// ViewRoles may read an account the actor does not own.
	ViewRoles []model.Role
	// ImplicitRole is assigned to actors holding no grant.
	ImplicitRole model.Role
	// ClearingNumber prefixes generated account numbers.
	ClearingNumber string
	// StartBalance seeds accounts created for new players.
	StartBalance int64
}

// DefaultPolicy only lets owners debit and share; grant holders of any
// built-in role may view.
func DefaultPolicy() Policy {
	return Policy{
		DebitRoles:     []model.Role{model.RoleOwner},
		ShareRoles:     []model.Role{model.RoleOwner},
		ViewRoles:      []model.Role{model.RoleOwner, model.RoleAdmin, model.RoleContributor},
		ImplicitRole:   model.RoleNone,
		ClearingNumber: "920",
	}
}

// PolicyFromConfig converts the ledger section of the configuration. Empty
// settings keep their defaults.
func PolicyFromConfig(c config.Ledger) Policy {
	p := DefaultPolicy()
	if len(c.DebitRoles) > 0 {
		p.DebitRoles = model.ParseRoles(c.DebitRoles)
	}
	if len(c.ShareRoles) > 0 {
		p.ShareRoles = model.ParseRoles(c.ShareRoles)
	}
	if len(c.ViewRoles) > 0 {
		p.ViewRoles = model.ParseRoles(c.ViewRoles)
	}
	if c.ImplicitRole != "" {
		p.ImplicitRole = model.ParseRole(c.ImplicitRole)
	}
	if c.ClearingNumber != "" {
		p.ClearingNumber = c.ClearingNumber
	}
	if c.StartBalance > 0 {
		p.StartBalance = c.StartBalance
	}
	return p
}

// Services bundles the ledger components wired to one store.
type Services struct {
	Store      db.Store
	Policy     Policy
	Authorizer *Authorizer
	Ledger     *Ledger
	Registry   *Registry
	Transfers  *TransferEngine
}

// NewServices wires every component to st.
func NewServices(st db.Store, p Policy) *Services {
	auth := NewAuthorizer(st, p)
	ledger := NewLedger(st, auth, p)
	return &Services{
		Store:      st,
		Policy:     p,
		Authorizer: auth,
		Ledger:     ledger,
		Registry:   NewRegistry(st, auth, p),
		Transfers:  NewTransferEngine(st, auth, p),
	}
}

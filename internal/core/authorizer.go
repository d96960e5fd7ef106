// Copyright (c) 2026 Ledgermaster Team
// Ledgermaster - multi-owner account ledger
// This source code is licensed under the MIT license found in the LICENSE file.

package core

import (
	"context"
	"errors"

	"github.com/toeirei/ledgermaster/internal/apperrors"
	"github.com/toeirei/ledgermaster/internal/db"
	"github.com/toeirei/ledgermaster/internal/model"
)

// Authorizer decides whether an identity may act on an account.
type Authorizer struct {
	store  db.Store
	policy Policy
}

// NewAuthorizer returns an Authorizer reading accounts and grants from st.
func NewAuthorizer(st db.Store, p Policy) *Authorizer {
	if p.ImplicitRole == "" {
		p.ImplicitRole = model.RoleNone
	}
	return &Authorizer{store: st, policy: p}
}

// RoleOf returns the role identifier holds on acc: owner for the owner, the
// granted role for grant holders and the implicit role otherwise.
func (a *Authorizer) RoleOf(ctx context.Context, acc model.Account, identifier string) (model.Role, error) {
	if acc.IsOwnedBy(identifier) {
		return model.RoleOwner, nil
	}
	if identifier == "" {
		return a.policy.ImplicitRole, nil
	}
	g, err := a.store.GetGrant(ctx, acc.ID, identifier)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return a.policy.ImplicitRole, nil
		}
		return "", storeErr("authorize", err)
	}
	return g.Role, nil
}

// AuthorizeOwnerOrRole returns the account when identifier owns it or holds
// a role listed in allowed. Owners pass regardless of allowed.
func (a *Authorizer) AuthorizeOwnerOrRole(ctx context.Context, accountID int64, identifier string, allowed []model.Role) (model.Account, error) {
	acc, err := a.store.GetAccount(ctx, accountID)
	if err != nil {
		return model.Account{}, storeErr("authorize", err)
	}
	if acc.IsOwnedBy(identifier) {
		return acc, nil
	}
	role, err := a.RoleOf(ctx, acc, identifier)
	if err != nil {
		return model.Account{}, err
	}
	if !role.In(allowed) {
		return model.Account{}, apperrors.Newf(apperrors.CodeForbidden, "authorize", "%q with role %s may not act on account %d", identifier, role, accountID)
	}
	return acc, nil
}

// AuthorizeOwner is AuthorizeOwnerOrRole with an empty allow-list.
func (a *Authorizer) AuthorizeOwner(ctx context.Context, accountID int64, identifier string) (model.Account, error) {
	return a.AuthorizeOwnerOrRole(ctx, accountID, identifier, nil)
}

// AuthorizeView checks identifier against the configured view roles.
func (a *Authorizer) AuthorizeView(ctx context.Context, accountID int64, identifier string) (model.Account, error) {
	return a.AuthorizeOwnerOrRole(ctx, accountID, identifier, a.policy.ViewRoles)
}

// Copyright (c) 2026 Ledgermaster Team
// Ledgermaster - multi-owner account ledger
// This source code is licensed under the MIT license found in the LICENSE file.

package core

import (
	"context"
	"strings"

	"github.com/toeirei/ledgermaster/internal/apperrors"
	"github.com/toeirei/ledgermaster/internal/db"
	"github.com/toeirei/ledgermaster/internal/model"
)

// Registry manages shared-access grants.
type Registry struct {
	store  db.Store
	auth   *Authorizer
	policy Policy
}

// NewRegistry returns a Registry on st.
func NewRegistry(st db.Store, auth *Authorizer, p Policy) *Registry {
	return &Registry{store: st, auth: auth, policy: p}
}

// ListGrantsForUser returns the user's grants together with their accounts.
func (r *Registry) ListGrantsForUser(ctx context.Context, identifier string) ([]model.GrantWithAccount, error) {
	gs, err := r.store.ListGrantsByUser(ctx, identifier)
	return gs, storeErr("list grants for user", err)
}

// ListGrantsForAccount returns every grant on the account.
func (r *Registry) ListGrantsForAccount(ctx context.Context, accountID int64) ([]model.SharedGrant, error) {
	if _, err := r.store.GetAccount(ctx, accountID); err != nil {
		return nil, storeErr("list grants for account", err)
	}
	gs, err := r.store.ListGrantsByAccount(ctx, accountID)
	return gs, storeErr("list grants for account", err)
}

// Grant gives user a role on the account. An empty role means contributor.
// A second grant for the same user fails with ALREADY_EXISTS; it is never
// merged into the existing one.
func (r *Registry) Grant(ctx context.Context, accountID int64, user string, role model.Role) (model.SharedGrant, error) {
	return r.grant(ctx, "", accountID, user, role)
}

// GrantAs is Grant on behalf of actor, who must own the account or hold one
// of the share roles.
func (r *Registry) GrantAs(ctx context.Context, actor string, accountID int64, user string, role model.Role) (model.SharedGrant, error) {
	if _, err := r.auth.AuthorizeOwnerOrRole(ctx, accountID, actor, r.policy.ShareRoles); err != nil {
		return model.SharedGrant{}, err
	}
	return r.grant(ctx, actor, accountID, user, role)
}

func (r *Registry) grant(ctx context.Context, actor string, accountID int64, user string, role model.Role) (model.SharedGrant, error) {
	const op = "grant"
	user = strings.TrimSpace(user)
	if user == "" {
		return model.SharedGrant{}, apperrors.New(apperrors.CodeInvalidArgument, op, "user is required")
	}
	role = model.ParseRole(string(role))
	if role == model.RoleNone {
		role = model.RoleContributor
	}
	if role == model.RoleOwner {
		return model.SharedGrant{}, apperrors.New(apperrors.CodeInvalidArgument, op, "ownership cannot be granted")
	}
	acc, err := r.store.GetAccount(ctx, accountID)
	if err != nil {
		return model.SharedGrant{}, storeErr(op, err)
	}
	if acc.IsOwnedBy(user) {
		return model.SharedGrant{}, apperrors.Newf(apperrors.CodeInvalidArgument, op, "%q already owns account %d", user, accountID)
	}
	g, err := r.store.CreateGrant(ctx, model.SharedGrant{AccountID: accountID, User: user, Role: role})
	if err != nil {
		return model.SharedGrant{}, storeErr(op, err)
	}
	audit(ctx, r.store, actor, ActionGrant, "account=%d user=%q role=%s", accountID, user, role)
	return g, nil
}

// Revoke removes the user's grant on the account if present. A missing
// grant is not an error.
func (r *Registry) Revoke(ctx context.Context, accountID int64, user string) error {
	return r.revoke(ctx, "", accountID, user)
}

// RevokeAs is Revoke on behalf of actor. Grant holders may always revoke
// their own grant.
func (r *Registry) RevokeAs(ctx context.Context, actor string, accountID int64, user string) error {
	if actor != user {
		if _, err := r.auth.AuthorizeOwnerOrRole(ctx, accountID, actor, r.policy.ShareRoles); err != nil {
			return err
		}
	}
	return r.revoke(ctx, actor, accountID, user)
}

func (r *Registry) revoke(ctx context.Context, actor string, accountID int64, user string) error {
	removed, err := r.store.DeleteGrant(ctx, accountID, user)
	if err != nil {
		return storeErr("revoke", err)
	}
	if removed {
		audit(ctx, r.store, actor, ActionRevoke, "account=%d user=%q", accountID, user)
	}
	return nil
}

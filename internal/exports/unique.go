// Copyright (c) 2026 Ledgermaster Team
// Ledgermaster - multi-owner account ledger
// This source code is licensed under the MIT license found in the LICENSE file.

package exports

import (
	"context"
	"errors"
	"strings"

	"github.com/toeirei/ledgermaster/internal/apperrors"
	"github.com/toeirei/ledgermaster/internal/model"
)

// UniqueAccountInput describes an account owned by a non-player identity,
// such as a job or a business.
type UniqueAccountInput struct {
	Identifier string
	Name       string
	Kind       model.AccountKind
	Balance    int64
}

// CreateUniqueAccount creates the default account of a non-player identity.
// Each identity has at most one.
func (s *Service) CreateUniqueAccount(ctx context.Context, in UniqueAccountInput) (model.Account, error) {
	const op = "create unique account"
	in.Identifier = strings.TrimSpace(in.Identifier)
	if in.Identifier == "" {
		return model.Account{}, apperrors.New(apperrors.CodeInvalidArgument, op, "identifier is required")
	}
	if _, err := s.core.Ledger.GetDefaultForOwner(ctx, in.Identifier); err == nil {
		return model.Account{}, apperrors.Newf(apperrors.CodeAlreadyExists, op, "%q already has an account", in.Identifier)
	} else if !errors.Is(err, apperrors.ErrNotFound) {
		return model.Account{}, err
	}
	if in.Kind == "" {
		in.Kind = model.KindShared
	}
	if in.Name == "" {
		in.Name = in.Identifier
	}
	return s.core.Ledger.CreateAccount(ctx, model.CreateAccountInput{
		Name:            in.Name,
		OwnerIdentifier: in.Identifier,
		IsDefault:       true,
		Kind:            in.Kind,
		Balance:         in.Balance,
	})
}

// GetUniqueAccount returns the account of a non-player identity.
func (s *Service) GetUniqueAccount(ctx context.Context, identifier string) (model.Account, error) {
	return s.core.Ledger.GetDefaultForOwner(ctx, identifier)
}

// AddUserToUniqueAccount grants user a role on the identity's account.
func (s *Service) AddUserToUniqueAccount(ctx context.Context, identifier, user string, role model.Role) (model.SharedGrant, error) {
	acc, err := s.core.Ledger.GetDefaultForOwner(ctx, identifier)
	if err != nil {
		return model.SharedGrant{}, err
	}
	return s.core.Registry.Grant(ctx, acc.ID, user, role)
}

// RemoveUserFromUniqueAccount revokes the user's grant, if any.
func (s *Service) RemoveUserFromUniqueAccount(ctx context.Context, identifier, user string) error {
	acc, err := s.core.Ledger.GetDefaultForOwner(ctx, identifier)
	if err != nil {
		return err
	}
	return s.core.Registry.Revoke(ctx, acc.ID, user)
}

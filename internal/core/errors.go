// Copyright (c) 2026 Ledgermaster Team
// Ledgermaster - multi-owner account ledger
// This source code is licensed under the MIT license found in the LICENSE file.

package core

import (
	"context"
	"errors"

	"github.com/toeirei/ledgermaster/internal/apperrors"
	"github.com/toeirei/ledgermaster/internal/db"
)

// storeErr translates store sentinels into coded errors. Errors that already
// carry a code pass through unchanged.
func storeErr(op string, err error) error {
	if err == nil {
		return nil
	}
	var coded *apperrors.Error
	if errors.As(err, &coded) {
		return err
	}
	switch {
	case errors.Is(err, db.ErrNotFound):
		return apperrors.Wrap(apperrors.CodeNotFound, op, err)
	case errors.Is(err, db.ErrDuplicate):
		return apperrors.Wrap(apperrors.CodeAlreadyExists, op, err)
	case errors.Is(err, db.ErrInsufficientFunds):
		return apperrors.Wrap(apperrors.CodeInsufficientFunds, op, err)
	case errors.Is(err, db.ErrForeignKey):
		return apperrors.Wrap(apperrors.CodeConflict, op, err)
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return &apperrors.Error{Code: apperrors.CodeInternal, Op: op, Message: "cancelled", Cause: err}
	}
	return apperrors.Wrap(apperrors.CodeInternal, op, err)
}

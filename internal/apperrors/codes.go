// Copyright (c) 2026 Ledgermaster Team
// Ledgermaster - multi-owner account ledger
// This source code is licensed under the MIT license found in the LICENSE file.

package apperrors

import "strings"

// Code is a stable, machine-readable error kind. Callers branch on it instead
// of parsing messages.
type Code string

const (
	// CodeNotFound is returned when an entity lookup misses.
	CodeNotFound Code = "NOT_FOUND"
	// CodeForbidden is returned when the actor is not allowed to act on an account.
	CodeForbidden Code = "FORBIDDEN"
	// CodeAlreadyExists covers duplicate grants, account numbers and transaction identifiers.
	CodeAlreadyExists Code = "ALREADY_EXISTS"
	// CodeInvalidTransfer covers bad amounts, same-account and unresolvable transfers.
	CodeInvalidTransfer Code = "INVALID_TRANSFER"
	// CodeInsufficientFunds is returned when a debit would drive a balance negative.
	CodeInsufficientFunds Code = "INSUFFICIENT_FUNDS"
	// CodeConflict is returned when referential state blocks an operation.
	CodeConflict Code = "CONFLICT"
	// CodeInvalidArgument covers input validation outside of transfers.
	CodeInvalidArgument Code = "INVALID_ARGUMENT"
	// CodeUnavailable is returned when an optional collaborator is not configured.
	CodeUnavailable Code = "UNAVAILABLE"
	// CodeInternal wraps store and transport failures.
	CodeInternal Code = "INTERNAL"
)

// MessageID returns the i18n message id used for the user-facing text of c.
func (c Code) MessageID() string {
	return "error." + strings.ToLower(string(c))
}

// Codes lists every known code. Used by tests and the CLI error table.
func Codes() []Code {
	return []Code{
		CodeNotFound,
		CodeForbidden,
		CodeAlreadyExists,
		CodeInvalidTransfer,
		CodeInsufficientFunds,
		CodeConflict,
		CodeInvalidArgument,
		CodeUnavailable,
		CodeInternal,
	}
}

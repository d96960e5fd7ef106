// Copyright (c) 2026 Ledgermaster Team
// Ledgermaster - multi-owner account ledger
// This source code is licensed under the MIT license found in the LICENSE file.

// Package apperrors provides the typed error taxonomy returned by the ledger
// core. Every failure carries a Code so callers can tell "insufficient funds"
// apart from "not allowed" without string matching.
package apperrors

import (
	"errors"
	"fmt"

	"github.com/toeirei/ledgermaster/internal/i18n"
)

// Error is the domain error type.
type Error struct {
	Code    Code   // Machine-readable kind
	Op      string // Operation that failed, e.g. "transfer"
	Message string // Internal message for logs
	Cause   error  // Wrapped underlying error
}

// Sentinels for errors.Is. They match any *Error with the same code.
var (
	ErrNotFound          = &Error{Code: CodeNotFound}
	ErrForbidden         = &Error{Code: CodeForbidden}
	ErrAlreadyExists     = &Error{Code: CodeAlreadyExists}
	ErrInvalidTransfer   = &Error{Code: CodeInvalidTransfer}
	ErrInsufficientFunds = &Error{Code: CodeInsufficientFunds}
	ErrConflict          = &Error{Code: CodeConflict}
	ErrInvalidArgument   = &Error{Code: CodeInvalidArgument}
	ErrUnavailable       = &Error{Code: CodeUnavailable}
	ErrInternal          = &Error{Code: CodeInternal}
)

// New returns an error with the given code, operation and message.
func New(code Code, op, msg string) *Error {
	return &Error{Code: code, Op: op, Message: msg}
}

// Newf is New with fmt-style formatting of the message.
func Newf(code Code, op, format string, args ...any) *Error {
	return &Error{Code: code, Op: op, Message: fmt.Sprintf(format, args...)}
}

// Wrap attaches a code and operation to cause. A nil cause yields nil.
func Wrap(code Code, op string, cause error) error {
	if cause == nil {
		return nil
	}
	return &Error{Code: code, Op: op, Cause: cause}
}

// Error implements the error interface.
func (e *Error) Error() string {
	msg := e.Message
	if msg == "" {
		msg = string(e.Code)
	}
	if e.Op != "" {
		msg = e.Op + ": " + msg
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying cause for error chain traversal.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target is an *Error with the same code.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// CodeOf returns the code of the outermost *Error in err's chain. Errors that
// carry no code are reported as CodeInternal; nil yields the empty code.
func CodeOf(err error) Code {
	if err == nil {
		return ""
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return CodeInternal
}

// Localize renders the user-facing message for err in the active language.
// Internal details never leak; only the code's translation is returned.
func Localize(err error) string {
	if err == nil {
		return ""
	}
	return i18n.T(CodeOf(err).MessageID())
}

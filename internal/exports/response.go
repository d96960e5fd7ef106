// Copyright (c) 2026 Ledgermaster Team
// Ledgermaster - multi-owner account ledger
// This source code is licensed under the MIT license found in the LICENSE file.

package exports

import "github.com/toeirei/ledgermaster/internal/apperrors"

// Response statuses.
const (
	StatusOK    = "ok"
	StatusError = "error"
)

// Response is the result envelope of the asynchronous operations.
type Response struct {
	Status    string `json:"status"`
	Data      any    `json:"data,omitempty"`
	ErrorCode string `json:"errorCode,omitempty"`
	ErrorMsg  string `json:"errorMsg,omitempty"`
}

// Callback receives the same Response the future resolves to.
type Callback func(Response)

// NewResponse wraps a result. Errors carry their code and the localized
// message; internal details never reach the caller.
func NewResponse(data any, err error) Response {
	if err != nil {
		return Response{
			Status:    StatusError,
			ErrorCode: string(apperrors.CodeOf(err)),
			ErrorMsg:  apperrors.Localize(err),
		}
	}
	return Response{Status: StatusOK, Data: data}
}

// OK reports whether the response is a success.
func (r Response) OK() bool { return r.Status == StatusOK }

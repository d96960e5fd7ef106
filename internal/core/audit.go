// Copyright (c) 2026 Ledgermaster Team
// Ledgermaster - multi-owner account ledger
// This source code is licensed under the MIT license found in the LICENSE file.

package core

import (
	"context"
	"fmt"

	"github.com/toeirei/ledgermaster/internal/db"
	"github.com/toeirei/ledgermaster/internal/logging"
)

// Audit actions written to the audit log.
const (
	ActionAccountCreate = "ACCOUNT_CREATE"
	ActionAccountEdit   = "ACCOUNT_EDIT"
	ActionAccountDelete = "ACCOUNT_DELETE"
	ActionSetDefault    = "ACCOUNT_SET_DEFAULT"
	ActionGrant         = "GRANT_ADD"
	ActionRevoke        = "GRANT_REVOKE"
	ActionSetBalance    = "BALANCE_SET"
	ActionRestore       = "BACKUP_RESTORE"
)

// audit records an action. Failures are logged and otherwise ignored so an
// audit outage never undoes a committed change.
func audit(ctx context.Context, st db.Store, actor, action, format string, args ...any) {
	details := fmt.Sprintf(format, args...)
	if err := st.LogAction(ctx, actor, action, details); err != nil {
		logging.Warnf("audit %s failed: %v", action, err)
	}
}

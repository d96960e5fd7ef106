// Copyright (c) 2026 Ledgermaster Team
// Ledgermaster - multi-owner account ledger
// This source code is licensed under the MIT license found in the LICENSE file.

package db

import (
	"strings"

	"github.com/toeirei/ledgermaster/internal/model"
)

// FilterAccountsByTokens returns the subset of accounts that match all tokens.
// Matching is case-insensitive and tests number, name and owner for substring
// containment. If tokens is empty, the original slice is returned.
func FilterAccountsByTokens(accounts []model.Account, tokens []string) []model.Account {
	if len(tokens) == 0 {
		return accounts
	}
	out := make([]model.Account, 0, len(accounts))
	for _, a := range accounts {
		number := strings.ToLower(a.Number)
		name := strings.ToLower(a.Name)
		owner := strings.ToLower(a.OwnerIdentifier)

		matchedAll := true
		for _, tok := range tokens {
			tok = strings.ToLower(strings.TrimSpace(tok))
			if tok == "" {
				continue
			}
			if !strings.Contains(number, tok) && !strings.Contains(name, tok) && !strings.Contains(owner, tok) {
				matchedAll = false
				break
			}
		}
		if matchedAll {
			out = append(out, a)
		}
	}
	return out
}

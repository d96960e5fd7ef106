// Copyright (c) 2026 Ledgermaster Team
// Ledgermaster - multi-owner account ledger
// This source code is licensed under the MIT license found in the LICENSE file.

package core

import (
	"fmt"
	"math/rand/v2"
)

// maxNumberAttempts bounds retries when a generated number collides.
const maxNumberAttempts = 5

// NumberSource produces candidate account numbers.
type NumberSource func() string

// RandomNumbers generates numbers of the form "<clearing>, NNNN-NNNN-NNNN".
func RandomNumbers(clearing string) NumberSource {
	return func() string {
		return fmt.Sprintf("%s, %04d-%04d-%04d", clearing, rand.IntN(10000), rand.IntN(10000), rand.IntN(10000))
	}
}

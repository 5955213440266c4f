// Package store persists the payment flags and the ledger across restarts.
// Two implementations share one contract: a JSON file store and a Postgres
// store. Either way a Save is all-or-nothing per store, so a crash mid-write
// cannot leave a half-updated record behind.
package store

import (
	"context"

	"github.com/kiprotich-dev/bahatibot/internal/ledger"
)

type Store interface {
	// Load reads the persisted payment flags and ledger state, returning
	// empty defaults when nothing has been saved yet.
	Load(ctx context.Context) (map[string]bool, ledger.State, error)

	// Save durably writes both records.
	Save(ctx context.Context, paid map[string]bool, ls ledger.State) error

	Close()
}

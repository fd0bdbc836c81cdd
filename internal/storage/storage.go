// Package storage defines the persistence boundary for tracker state.
//
// Persistence is whole-state: the engine reads the entire blob at startup
// and writes the entire blob after every mutation. Two concurrent writers
// would race with last-writer-wins semantics; the engine assumes a single
// authoritative process.
package storage

import (
	"context"

	"github.com/louisbranch/lorekeeper/internal/research/domain"
	"github.com/louisbranch/lorekeeper/internal/research/journal"
)

// State is the full persisted tracker state.
type State struct {
	Topics  []domain.Topic  `json:"topics"`
	Journal []journal.Entry `json:"log"`
}

// StateStore persists the tracker state blob.
type StateStore interface {
	LoadState(ctx context.Context) (State, error)
	SaveState(ctx context.Context, state State) error
}

// Package tracker hosts the authoritative research progress store.
//
// The service owns the in-memory topic collection and journal, persists the
// whole state after every mutation, and drives reveal automation. It is
// designed for a single authoritative writer (the GM process); the mutex
// only serializes operations and keeps concurrent readers safe, it does not
// implement multi-writer conflict resolution.
package tracker

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/louisbranch/lorekeeper/internal/notify"
	"github.com/louisbranch/lorekeeper/internal/notify/render"
	"github.com/louisbranch/lorekeeper/internal/platform/id"
	"github.com/louisbranch/lorekeeper/internal/research/domain"
	"github.com/louisbranch/lorekeeper/internal/research/journal"
	"github.com/louisbranch/lorekeeper/internal/storage"
)

// Config wires the service dependencies. Store is required; everything else
// has a usable default.
type Config struct {
	Store     storage.StateStore
	Notifier  notify.Notifier
	Localizer render.Localizer
	Clock     func() time.Time
	NewID     func() (string, error)
	Logger    *log.Logger
}

// Service is the authoritative research progress store.
type Service struct {
	mu      sync.Mutex
	topics  []domain.Topic
	entries []journal.Entry
	loaded  bool

	store     storage.StateStore
	notifier  notify.Notifier
	localizer render.Localizer
	clock     func() time.Time
	newID     func() (string, error)
	logger    *log.Logger
}

// notification is a reveal dispatch deferred until after persistence.
type notification struct {
	audience notify.Audience
	title    string
	body     string
}

// New constructs a tracker service.
func New(cfg Config) (*Service, error) {
	if cfg.Store == nil {
		return nil, fmt.Errorf("state store is required")
	}
	svc := &Service{
		store:     cfg.Store,
		notifier:  cfg.Notifier,
		localizer: cfg.Localizer,
		clock:     cfg.Clock,
		newID:     cfg.NewID,
		logger:    cfg.Logger,
	}
	if svc.clock == nil {
		svc.clock = time.Now
	}
	if svc.newID == nil {
		svc.newID = id.NewID
	}
	if svc.localizer == nil {
		svc.localizer = render.Printer("en")
	}
	if svc.logger == nil {
		svc.logger = log.Default()
	}
	return svc, nil
}

// Load reads persisted state, normalizes it, and forces a one-time re-save
// when the persisted data still uses the legacy location shape. Calling
// Load again is a no-op.
func (s *Service) Load(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.loaded {
		return nil
	}

	state, err := s.store.LoadState(ctx)
	if err != nil {
		return fmt.Errorf("load state: %w", err)
	}

	legacy := hasLegacyShape(state.Topics)

	s.topics = make([]domain.Topic, len(state.Topics))
	for i, topic := range state.Topics {
		s.topics[i] = domain.NormalizeTopic(topic, s.idFunc())
	}
	s.entries = journal.Clone(state.Journal)
	journal.Sort(s.entries)
	s.loaded = true

	if legacy {
		s.logger.Printf("migrating legacy location shape to checks list")
		if err := s.persistLocked(ctx); err != nil {
			return err
		}
	}
	return nil
}

// hasLegacyShape reports whether any persisted location still carries only
// the single skill/dc fields instead of the checks list.
func hasLegacyShape(topics []domain.Topic) bool {
	for _, topic := range topics {
		for _, loc := range topic.Locations {
			if len(loc.Checks) == 0 && loc.Skill != "" {
				return true
			}
		}
	}
	return false
}

// Topics returns normalized copies of every topic. Mutating the result
// never affects the store.
func (s *Service) Topics() []domain.Topic {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]domain.Topic, len(s.topics))
	for i, topic := range s.topics {
		out[i] = topic.Clone()
	}
	return out
}

// Topic returns a copy of the topic with the given id.
func (s *Service) Topic(topicID string) (domain.Topic, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx, ok := s.topicIndexLocked(topicID)
	if !ok {
		return domain.Topic{}, false
	}
	return s.topics[idx].Clone(), true
}

// Journal returns a copy of every journal entry in timestamp order.
func (s *Service) Journal() []journal.Entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return journal.Clone(s.entries)
}

// JournalForTopic returns copies of the entries referencing one topic.
func (s *Service) JournalForTopic(topicID string) []journal.Entry {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []journal.Entry
	for _, entry := range s.entries {
		if entry.TopicID == topicID {
			out = append(out, entry.Clone())
		}
	}
	return out
}

// RecordJournal appends one entry, re-sorts the journal, and persists.
// Blank ids and zero timestamps are filled in.
func (s *Service) RecordJournal(ctx context.Context, entry journal.Entry) (journal.Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if entry.ID == "" {
		entry.ID = s.idFunc()()
	}
	if entry.Timestamp.IsZero() {
		entry.Timestamp = s.now()
	}

	prevEntries := journal.Clone(s.entries)
	s.entries = append(s.entries, entry.Clone())
	journal.Sort(s.entries)

	if err := s.persistLocked(ctx); err != nil {
		s.entries = prevEntries
		return journal.Entry{}, err
	}
	return entry, nil
}

func (s *Service) topicIndexLocked(topicID string) (int, bool) {
	for i := range s.topics {
		if s.topics[i].ID == topicID {
			return i, true
		}
	}
	return 0, false
}

// persistLocked writes the full state. Persistence failure is the one error
// class that propagates to callers; mutators roll the in-memory state back
// on failure so a retried operation starts clean.
func (s *Service) persistLocked(ctx context.Context) error {
	state := storage.State{
		Topics:  make([]domain.Topic, len(s.topics)),
		Journal: journal.Clone(s.entries),
	}
	for i, topic := range s.topics {
		state.Topics[i] = topic.Clone()
	}
	if err := s.store.SaveState(ctx, state); err != nil {
		return fmt.Errorf("save state: %w", err)
	}
	return nil
}

// dispatch sends reveal notifications after the state is durably saved.
// Notification failures are logged, never propagated.
func (s *Service) dispatch(ctx context.Context, pending []notification) {
	if s.notifier == nil {
		return
	}
	for _, n := range pending {
		if err := s.notifier.Notify(ctx, n.audience, n.title, n.body); err != nil {
			s.logger.Printf("notify %s failed: %v", n.audience, err)
		}
	}
}

func (s *Service) now() time.Time {
	return s.clock().UTC()
}

// idFunc adapts the id generator for the normalizer, which cannot fail.
func (s *Service) idFunc() domain.IDFunc {
	return func() string {
		value, err := s.newID()
		if err != nil {
			// Random source failure; a clock-derived id keeps the
			// operation total.
			return fmt.Sprintf("id-%d", s.clock().UnixNano())
		}
		return value
	}
}

func (s *Service) appendEntryLocked(entry journal.Entry) {
	s.entries = append(s.entries, entry)
	journal.Sort(s.entries)
}

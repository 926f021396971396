// Package memory is an in-process implementation of every repository the
// engine needs. Transactions copy the state on begin and swap it in on commit,
// and only one transaction is open at a time, which gives serializable
// semantics without any row locking.
package memory

import (
	"context"
	"maps"
	"slices"
	"sync"
	"time"

	"github.com/osse101/BrandishIdle_Go/internal/domain"
	"github.com/osse101/BrandishIdle_Go/internal/repository"
)

// Balance is an owner's currency balance
type Balance struct {
	Coins int64
	Gems  int64
}

// ProductionStat holds the progress counters of one assignment stream
type ProductionStat struct {
	Ticks     int64
	Coins     int64
	Gems      int64
	Criticals int64
}

type state struct {
	available map[int64]domain.AvailableEntry
	nextRowID int64
	assigned  map[domain.AssignmentKey]domain.AssignedEntry
	grants    map[domain.AssignmentKey]int

	buildings map[string]map[domain.BuildingKind]int
	boosts    map[string][]domain.ActiveBoost
	seasons   map[string]domain.SeasonState
	prestige  map[string]int
	upgrades  map[string]int

	balances map[string]Balance
	stats    map[domain.AssignmentKey]ProductionStat
	flags    map[string]time.Time
}

func newState() *state {
	return &state{
		available: make(map[int64]domain.AvailableEntry),
		assigned:  make(map[domain.AssignmentKey]domain.AssignedEntry),
		grants:    make(map[domain.AssignmentKey]int),
		buildings: make(map[string]map[domain.BuildingKind]int),
		boosts:    make(map[string][]domain.ActiveBoost),
		seasons:   make(map[string]domain.SeasonState),
		prestige:  make(map[string]int),
		upgrades:  make(map[string]int),
		balances:  make(map[string]Balance),
		stats:     make(map[domain.AssignmentKey]ProductionStat),
		flags:     make(map[string]time.Time),
	}
}

func (s *state) clone() *state {
	c := &state{
		available: maps.Clone(s.available),
		nextRowID: s.nextRowID,
		assigned:  maps.Clone(s.assigned),
		grants:    maps.Clone(s.grants),
		buildings: make(map[string]map[domain.BuildingKind]int, len(s.buildings)),
		boosts:    make(map[string][]domain.ActiveBoost, len(s.boosts)),
		seasons:   maps.Clone(s.seasons),
		prestige:  maps.Clone(s.prestige),
		upgrades:  maps.Clone(s.upgrades),
		balances:  maps.Clone(s.balances),
		stats:     maps.Clone(s.stats),
		flags:     maps.Clone(s.flags),
	}
	for owner, levels := range s.buildings {
		c.buildings[owner] = maps.Clone(levels)
	}
	for owner, boosts := range s.boosts {
		c.boosts[owner] = slices.Clone(boosts)
	}
	return c
}

// Store is the in-memory backend
type Store struct {
	// writer is held for the whole life of a transaction
	writer sync.Mutex

	mu    sync.RWMutex
	state *state

	faultMu sync.Mutex
	faults  map[string]error

	// the journal is append-only and lives outside transactions
	journalMu   sync.Mutex
	journal     []repository.EventLogEntry
	nextEventID int64
}

var (
	_ repository.Ledger         = (*Store)(nil)
	_ repository.Production     = (*Store)(nil)
	_ repository.Maintenance    = (*Store)(nil)
	_ repository.Multipliers    = (*Store)(nil)
	_ repository.Ownership      = (*Store)(nil)
	_ repository.CapacitySource = (*Store)(nil)
	_ repository.EventLog       = (*Store)(nil)
)

// NewStore creates an empty store
func NewStore() *Store {
	return &Store{
		state:  newState(),
		faults: make(map[string]error),
	}
}

// Ping always succeeds unless a fault is injected
func (s *Store) Ping(ctx context.Context) error {
	return s.fault("Ping")
}

// Fail makes every later call of the named operation return err until cleared.
// Operation names are the method names, e.g. "OwnsAny" or "Commit".
func (s *Store) Fail(op string, err error) {
	s.faultMu.Lock()
	defer s.faultMu.Unlock()
	s.faults[op] = err
}

// ClearFaults removes every injected failure
func (s *Store) ClearFaults() {
	s.faultMu.Lock()
	defer s.faultMu.Unlock()
	clear(s.faults)
}

func (s *Store) fault(op string) error {
	s.faultMu.Lock()
	defer s.faultMu.Unlock()
	return s.faults[op]
}

// read runs fn against the committed state
func (s *Store) read(fn func(st *state)) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	fn(s.state)
}

// update runs fn in its own transaction and commits it
func (s *Store) update(ctx context.Context, fn func(st *state) error) error {
	t, err := s.begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = t.Rollback(ctx) }()

	if err := fn(t.st); err != nil {
		return err
	}
	return t.Commit(ctx)
}

func (s *Store) begin(ctx context.Context) (*tx, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := s.fault("Begin"); err != nil {
		return nil, err
	}
	s.writer.Lock()

	s.mu.RLock()
	st := s.state.clone()
	s.mu.RUnlock()

	return &tx{store: s, st: st}, nil
}

// tx is one open transaction. It implements LedgerTx, ProductionTx and MaintenanceTx.
type tx struct {
	store  *Store
	st     *state
	closed bool
}

// Commit publishes the transaction's state
func (t *tx) Commit(ctx context.Context) error {
	if t.closed {
		return repository.ErrTxClosed
	}
	if err := t.store.fault("Commit"); err != nil {
		return err
	}
	t.closed = true

	t.store.mu.Lock()
	t.store.state = t.st
	t.store.mu.Unlock()

	t.store.writer.Unlock()
	return nil
}

// Rollback discards the transaction's state
func (t *tx) Rollback(ctx context.Context) error {
	if t.closed {
		return repository.ErrTxClosed
	}
	t.closed = true
	t.store.writer.Unlock()
	return nil
}

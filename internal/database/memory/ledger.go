package memory

import (
	"cmp"
	"context"
	"fmt"
	"slices"

	"github.com/osse101/BrandishIdle_Go/internal/domain"
	"github.com/osse101/BrandishIdle_Go/internal/repository"
)

func sortAvailable(rows []domain.AvailableEntry) {
	slices.SortFunc(rows, func(a, b domain.AvailableEntry) int {
		if c := cmp.Compare(a.OwnerID, b.OwnerID); c != 0 {
			return c
		}
		if c := cmp.Compare(a.Variant.Key(), b.Variant.Key()); c != 0 {
			return c
		}
		return cmp.Compare(a.RowID, b.RowID)
	})
}

func sortAssigned(entries []domain.AssignedEntry) {
	slices.SortFunc(entries, func(a, b domain.AssignedEntry) int {
		if c := cmp.Compare(a.OwnerID, b.OwnerID); c != 0 {
			return c
		}
		return cmp.Compare(a.Variant.Key(), b.Variant.Key())
	})
}

func (st *state) availableRows(ownerID, variantKey string) []domain.AvailableEntry {
	var rows []domain.AvailableEntry
	for _, row := range st.available {
		if row.OwnerID == ownerID && (variantKey == "" || row.Variant.Key() == variantKey) {
			rows = append(rows, row)
		}
	}
	sortAvailable(rows)
	return rows
}

func (st *state) assignedOf(ownerID string) []domain.AssignedEntry {
	var entries []domain.AssignedEntry
	for key, entry := range st.assigned {
		if ownerID == "" || key.OwnerID == ownerID {
			entries = append(entries, entry)
		}
	}
	sortAssigned(entries)
	return entries
}

func (st *state) assignedEntry(ownerID, variantKey string) *domain.AssignedEntry {
	entry, ok := st.assigned[domain.AssignmentKey{OwnerID: ownerID, VariantKey: variantKey}]
	if !ok {
		return nil
	}
	return &entry
}

func (st *state) sumAssigned(ownerID string) int {
	total := 0
	for key, entry := range st.assigned {
		if key.OwnerID == ownerID {
			total += entry.Quantity
		}
	}
	return total
}

// ListAvailable returns every Available row of an owner
func (s *Store) ListAvailable(ctx context.Context, ownerID string) ([]domain.AvailableEntry, error) {
	if err := s.fault("ListAvailable"); err != nil {
		return nil, err
	}
	var rows []domain.AvailableEntry
	s.read(func(st *state) { rows = st.availableRows(ownerID, "") })
	return rows, nil
}

// ListAssigned returns the Assigned entries of an owner
func (s *Store) ListAssigned(ctx context.Context, ownerID string) ([]domain.AssignedEntry, error) {
	if err := s.fault("ListAssigned"); err != nil {
		return nil, err
	}
	var entries []domain.AssignedEntry
	s.read(func(st *state) { entries = st.assignedOf(ownerID) })
	return entries, nil
}

// GetAssigned returns one Assigned entry, or nil when none exists
func (s *Store) GetAssigned(ctx context.Context, ownerID, variantKey string) (*domain.AssignedEntry, error) {
	if err := s.fault("GetAssigned"); err != nil {
		return nil, err
	}
	var entry *domain.AssignedEntry
	s.read(func(st *state) { entry = st.assignedEntry(ownerID, variantKey) })
	return entry, nil
}

// ListAllAssigned returns every Assigned entry
func (s *Store) ListAllAssigned(ctx context.Context) ([]domain.AssignedEntry, error) {
	if err := s.fault("ListAllAssigned"); err != nil {
		return nil, err
	}
	var entries []domain.AssignedEntry
	s.read(func(st *state) { entries = st.assignedOf("") })
	return entries, nil
}

// SumAssigned returns the total assigned quantity of an owner
func (s *Store) SumAssigned(ctx context.Context, ownerID string) (int, error) {
	if err := s.fault("SumAssigned"); err != nil {
		return 0, err
	}
	var total int
	s.read(func(st *state) { total = st.sumAssigned(ownerID) })
	return total, nil
}

// BeginTx starts a ledger transaction
func (s *Store) BeginTx(ctx context.Context) (repository.LedgerTx, error) {
	return s.begin(ctx)
}

// LockOwner is a no-op: the open transaction already excludes every other writer
func (t *tx) LockOwner(ctx context.Context, ownerID string) error {
	return t.store.fault("LockOwner")
}

func (t *tx) GetAvailableRowsForUpdate(ctx context.Context, ownerID, variantKey string) ([]domain.AvailableEntry, error) {
	if err := t.store.fault("GetAvailableRowsForUpdate"); err != nil {
		return nil, err
	}
	return t.st.availableRows(ownerID, variantKey), nil
}

func (t *tx) ListAvailableForUpdate(ctx context.Context, ownerID string) ([]domain.AvailableEntry, error) {
	if err := t.store.fault("ListAvailableForUpdate"); err != nil {
		return nil, err
	}
	return t.st.availableRows(ownerID, ""), nil
}

func (t *tx) UpdateAvailableRow(ctx context.Context, rowID int64, quantity int) error {
	if err := t.store.fault("UpdateAvailableRow"); err != nil {
		return err
	}
	row, ok := t.st.available[rowID]
	if !ok {
		return fmt.Errorf("available row %d not found", rowID)
	}
	row.Quantity = quantity
	t.st.available[rowID] = row
	return nil
}

func (t *tx) DeleteAvailableRow(ctx context.Context, rowID int64) error {
	if err := t.store.fault("DeleteAvailableRow"); err != nil {
		return err
	}
	delete(t.st.available, rowID)
	return nil
}

func (t *tx) InsertAvailableRow(ctx context.Context, entry domain.AvailableEntry) (int64, error) {
	if err := t.store.fault("InsertAvailableRow"); err != nil {
		return 0, err
	}
	t.st.nextRowID++
	entry.RowID = t.st.nextRowID
	t.st.available[entry.RowID] = entry
	return entry.RowID, nil
}

func (t *tx) GetAssignedForUpdate(ctx context.Context, ownerID, variantKey string) (*domain.AssignedEntry, error) {
	if err := t.store.fault("GetAssignedForUpdate"); err != nil {
		return nil, err
	}
	return t.st.assignedEntry(ownerID, variantKey), nil
}

func (t *tx) ListAssignedForUpdate(ctx context.Context, ownerID string) ([]domain.AssignedEntry, error) {
	if err := t.store.fault("ListAssignedForUpdate"); err != nil {
		return nil, err
	}
	return t.st.assignedOf(ownerID), nil
}

func (t *tx) SumAssigned(ctx context.Context, ownerID string) (int, error) {
	if err := t.store.fault("SumAssigned"); err != nil {
		return 0, err
	}
	return t.st.sumAssigned(ownerID), nil
}

func (t *tx) UpsertAssigned(ctx context.Context, entry domain.AssignedEntry) error {
	if err := t.store.fault("UpsertAssigned"); err != nil {
		return err
	}
	if entry.Quantity <= 0 {
		return fmt.Errorf("assigned quantity must be positive, got %d", entry.Quantity)
	}
	t.st.assigned[entry.Key()] = entry
	return nil
}

func (t *tx) DeleteAssigned(ctx context.Context, ownerID, variantKey string) error {
	if err := t.store.fault("DeleteAssigned"); err != nil {
		return err
	}
	delete(t.st.assigned, domain.AssignmentKey{OwnerID: ownerID, VariantKey: variantKey})
	return nil
}

package ledger

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/osse101/BrandishIdle_Go/internal/concurrency"
	"github.com/osse101/BrandishIdle_Go/internal/domain"
	"github.com/osse101/BrandishIdle_Go/internal/event"
	"github.com/osse101/BrandishIdle_Go/internal/logger"
	"github.com/osse101/BrandishIdle_Go/internal/metrics"
	"github.com/osse101/BrandishIdle_Go/internal/repository"
)

// Service defines the transfer operations between the Available and Assigned ledgers
type Service interface {
	TransferIn(ctx context.Context, req domain.TransferRequest) (*domain.TransferResult, error)
	TransferOut(ctx context.Context, req domain.TransferRequest) (*domain.TransferResult, error)
	TransferAll(ctx context.Context, ownerID string) (*domain.BulkTransferResult, error)
	AssignByRarity(ctx context.Context, ownerID string, rarity domain.Rarity) (*domain.BulkTransferResult, error)

	ListAssigned(ctx context.Context, ownerID string) ([]domain.AssignedEntry, error)
	ListAvailable(ctx context.Context, ownerID string) ([]domain.AvailableEntry, error)
	CurrentCapacityUsed(ctx context.Context, ownerID string) (int, error)
	Capacity(ctx context.Context, ownerID string) (domain.CapacityInfo, error)

	// WithOwnerLock runs fn while no other compound operation of the same owner runs
	WithOwnerLock(ownerID string, fn func() error) error
}

// Scheduler starts and stops production tasks
type Scheduler interface {
	Ensure(key domain.AssignmentKey) bool
	Cancel(key domain.AssignmentKey) bool
	Has(key domain.AssignmentKey) bool
}

// CapacityProvider resolves an owner's slot limit
type CapacityProvider interface {
	Capacity(ctx context.Context, ownerID string) (domain.CapacityInfo, error)
}

// RateTable returns the base per-tick rates cached on an assignment
type RateTable interface {
	BaseRates(v domain.Variant) (coins, gems int64)
}

type service struct {
	repo      repository.Ledger
	capacity  CapacityProvider
	rates     RateTable
	scheduler Scheduler
	bus       event.Bus
	locks     *concurrency.LockManager
	validate  *validator.Validate
	now       func() time.Time
}

// NewService creates a new ledger service. Committed transfers are published
// on bus when it is not nil.
func NewService(repo repository.Ledger, capacity CapacityProvider, rates RateTable, scheduler Scheduler, bus event.Bus) Service {
	return &service{
		repo:      repo,
		capacity:  capacity,
		rates:     rates,
		scheduler: scheduler,
		bus:       bus,
		locks:     concurrency.NewLockManager(),
		validate:  validator.New(validator.WithRequiredStructEnabled()),
		now:       time.Now,
	}
}

// TransferIn moves producers from Available to Assigned and starts production
func (s *service) TransferIn(ctx context.Context, req domain.TransferRequest) (*domain.TransferResult, error) {
	variant, err := s.validateRequest(req)
	if err != nil {
		return nil, s.finish(ctx, OpTransferIn, err)
	}
	key := domain.NewAssignmentKey(req.OwnerID, variant)

	// 1. Resolve the slot limit before taking any row locks
	capInfo, err := s.capacity.Capacity(ctx, req.OwnerID)
	if err != nil {
		return nil, s.finish(ctx, OpTransferIn, fmt.Errorf("%s: %w", ErrMsgFailedToGetCapacity, err))
	}

	tx, err := s.repo.BeginTx(ctx)
	if err != nil {
		return nil, s.finish(ctx, OpTransferIn, txFailure(ErrMsgFailedToBeginTx, err))
	}
	defer repository.SafeRollback(ctx, tx)

	if err := tx.LockOwner(ctx, req.OwnerID); err != nil {
		return nil, s.finish(ctx, OpTransferIn, txFailure(ErrMsgFailedToLockOwner, err))
	}

	// 2. Stock check against the whole pool of rows
	rows, err := tx.GetAvailableRowsForUpdate(ctx, req.OwnerID, variant.Key())
	if err != nil {
		return nil, s.finish(ctx, OpTransferIn, txFailure(ErrMsgFailedToReadAvailable, err))
	}
	stock := SumQuantity(rows)
	if stock < req.Quantity {
		return nil, s.finish(ctx, OpTransferIn, fmt.Errorf("%w: %s has %d, requested %d",
			domain.ErrInsufficientStock, variant.Key(), stock, req.Quantity))
	}

	// 3. Capacity check under the owner lock
	used, err := tx.SumAssigned(ctx, req.OwnerID)
	if err != nil {
		return nil, s.finish(ctx, OpTransferIn, txFailure(ErrMsgFailedToReadAssigned, err))
	}
	capInfo.Used = used
	qty, err := fitCapacity(capInfo, req.Quantity, req.AllowPartial)
	if err != nil {
		return nil, s.finish(ctx, OpTransferIn, err)
	}

	// 4. Move the units
	if _, err := DeductAvailable(ctx, tx, rows, qty); err != nil {
		return nil, s.finish(ctx, OpTransferIn, txFailure(ErrMsgFailedToUpdateAvailable, err))
	}
	assigned, err := s.addAssigned(ctx, tx, req.OwnerID, variant, qty)
	if err != nil {
		return nil, s.finish(ctx, OpTransferIn, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, s.finish(ctx, OpTransferIn, txFailure(ErrMsgFailedToCommit, err))
	}

	// 5. Scheduling happens only once the rows are durable
	result := &domain.TransferResult{
		OwnerID:     req.OwnerID,
		Variant:     variant,
		Requested:   req.Quantity,
		Transferred: qty,
		Remaining:   assigned,
		Scheduled:   s.ensure(ctx, key),
	}

	metrics.ProducersTransferred.WithLabelValues(metrics.DirectionIn).Add(float64(qty))
	s.finish(ctx, OpTransferIn, nil)
	s.publish(ctx, OpTransferIn, true, result)
	logger.FromContext(ctx).Info(LogMsgTransferInCompleted,
		"owner_id", req.OwnerID,
		"variant", variant.Key(),
		"requested", req.Quantity,
		"transferred", qty,
		"assigned", assigned)
	return result, nil
}

// TransferOut moves producers from Assigned back to Available. Production
// stops when the assignment reaches zero.
func (s *service) TransferOut(ctx context.Context, req domain.TransferRequest) (*domain.TransferResult, error) {
	variant, err := s.validateRequest(req)
	if err != nil {
		return nil, s.finish(ctx, OpTransferOut, err)
	}
	key := domain.NewAssignmentKey(req.OwnerID, variant)

	tx, err := s.repo.BeginTx(ctx)
	if err != nil {
		return nil, s.finish(ctx, OpTransferOut, txFailure(ErrMsgFailedToBeginTx, err))
	}
	defer repository.SafeRollback(ctx, tx)

	if err := tx.LockOwner(ctx, req.OwnerID); err != nil {
		return nil, s.finish(ctx, OpTransferOut, txFailure(ErrMsgFailedToLockOwner, err))
	}

	entry, err := tx.GetAssignedForUpdate(ctx, req.OwnerID, variant.Key())
	if err != nil {
		return nil, s.finish(ctx, OpTransferOut, txFailure(ErrMsgFailedToReadAssigned, err))
	}
	held := 0
	if entry != nil {
		held = entry.Quantity
	}
	if held < req.Quantity {
		return nil, s.finish(ctx, OpTransferOut, fmt.Errorf("%w: %s has %d assigned, requested %d",
			domain.ErrInsufficientStock, variant.Key(), held, req.Quantity))
	}

	remaining := held - req.Quantity
	if remaining == 0 {
		if err := tx.DeleteAssigned(ctx, req.OwnerID, variant.Key()); err != nil {
			return nil, s.finish(ctx, OpTransferOut, txFailure(ErrMsgFailedToDeleteAssigned, err))
		}
	} else {
		updated := *entry
		updated.Quantity = remaining
		if err := tx.UpsertAssigned(ctx, updated); err != nil {
			return nil, s.finish(ctx, OpTransferOut, txFailure(ErrMsgFailedToUpsertAssigned, err))
		}
	}

	if err := ReturnAvailable(ctx, tx, req.OwnerID, variant, req.Quantity); err != nil {
		return nil, s.finish(ctx, OpTransferOut, txFailure(ErrMsgFailedToUpdateAvailable, err))
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, s.finish(ctx, OpTransferOut, txFailure(ErrMsgFailedToCommit, err))
	}

	result := &domain.TransferResult{
		OwnerID:     req.OwnerID,
		Variant:     variant,
		Requested:   req.Quantity,
		Transferred: req.Quantity,
		Remaining:   remaining,
	}
	if remaining == 0 {
		result.Cancelled = s.scheduler.Cancel(key)
	}

	metrics.ProducersTransferred.WithLabelValues(metrics.DirectionOut).Add(float64(req.Quantity))
	s.finish(ctx, OpTransferOut, nil)
	s.publish(ctx, OpTransferOut, false, result)
	logger.FromContext(ctx).Info(LogMsgTransferOutCompleted,
		"owner_id", req.OwnerID,
		"variant", variant.Key(),
		"transferred", req.Quantity,
		"assigned", remaining)
	return result, nil
}

// TransferAll returns every assigned producer of an owner to Available in one
// atomic unit and stops all of the owner's production tasks
func (s *service) TransferAll(ctx context.Context, ownerID string) (*domain.BulkTransferResult, error) {
	if err := s.validateOwner(ownerID); err != nil {
		return nil, s.finish(ctx, OpTransferAll, err)
	}

	tx, err := s.repo.BeginTx(ctx)
	if err != nil {
		return nil, s.finish(ctx, OpTransferAll, txFailure(ErrMsgFailedToBeginTx, err))
	}
	defer repository.SafeRollback(ctx, tx)

	if err := tx.LockOwner(ctx, ownerID); err != nil {
		return nil, s.finish(ctx, OpTransferAll, txFailure(ErrMsgFailedToLockOwner, err))
	}

	entries, err := tx.ListAssignedForUpdate(ctx, ownerID)
	if err != nil {
		return nil, s.finish(ctx, OpTransferAll, txFailure(ErrMsgFailedToReadAssigned, err))
	}

	result := &domain.BulkTransferResult{OwnerID: ownerID, Variants: make([]domain.TransferResult, 0, len(entries))}
	for _, entry := range entries {
		if err := tx.DeleteAssigned(ctx, ownerID, entry.Variant.Key()); err != nil {
			return nil, s.finish(ctx, OpTransferAll, txFailure(ErrMsgFailedToDeleteAssigned, err))
		}
		if err := ReturnAvailable(ctx, tx, ownerID, entry.Variant, entry.Quantity); err != nil {
			return nil, s.finish(ctx, OpTransferAll, txFailure(ErrMsgFailedToUpdateAvailable, err))
		}
		result.Transferred += entry.Quantity
		result.Variants = append(result.Variants, domain.TransferResult{
			OwnerID:     ownerID,
			Variant:     entry.Variant,
			Requested:   entry.Quantity,
			Transferred: entry.Quantity,
		})
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, s.finish(ctx, OpTransferAll, txFailure(ErrMsgFailedToCommit, err))
	}

	for i := range result.Variants {
		result.Variants[i].Cancelled = s.scheduler.Cancel(domain.NewAssignmentKey(ownerID, result.Variants[i].Variant))
		s.publish(ctx, OpTransferAll, false, &result.Variants[i])
	}

	metrics.ProducersTransferred.WithLabelValues(metrics.DirectionOut).Add(float64(result.Transferred))
	s.finish(ctx, OpTransferAll, nil)
	logger.FromContext(ctx).Info(LogMsgTransferAllCompleted,
		"owner_id", ownerID,
		"variants", len(result.Variants),
		"transferred", result.Transferred)
	return result, nil
}

// AssignByRarity assigns every Available producer of a rarity, largest pools
// first, until the owner runs out of capacity. Variants that do not fit are
// left in Available.
func (s *service) AssignByRarity(ctx context.Context, ownerID string, rarity domain.Rarity) (*domain.BulkTransferResult, error) {
	if err := s.validateOwner(ownerID); err != nil {
		return nil, s.finish(ctx, OpAssignByRarity, err)
	}
	if !rarity.IsValid() {
		return nil, s.finish(ctx, OpAssignByRarity, fmt.Errorf("%w: rarity %q", domain.ErrInvalidVariant, rarity))
	}

	capInfo, err := s.capacity.Capacity(ctx, ownerID)
	if err != nil {
		return nil, s.finish(ctx, OpAssignByRarity, fmt.Errorf("%s: %w", ErrMsgFailedToGetCapacity, err))
	}

	tx, err := s.repo.BeginTx(ctx)
	if err != nil {
		return nil, s.finish(ctx, OpAssignByRarity, txFailure(ErrMsgFailedToBeginTx, err))
	}
	defer repository.SafeRollback(ctx, tx)

	if err := tx.LockOwner(ctx, ownerID); err != nil {
		return nil, s.finish(ctx, OpAssignByRarity, txFailure(ErrMsgFailedToLockOwner, err))
	}

	rows, err := tx.ListAvailableForUpdate(ctx, ownerID)
	if err != nil {
		return nil, s.finish(ctx, OpAssignByRarity, txFailure(ErrMsgFailedToReadAvailable, err))
	}
	pools := poolsOfRarity(rows, rarity)
	if len(pools) == 0 {
		return nil, s.finish(ctx, OpAssignByRarity, fmt.Errorf("%w: %s %s",
			domain.ErrInsufficientStock, ErrMsgNothingToAssignForRarity, rarity))
	}

	used, err := tx.SumAssigned(ctx, ownerID)
	if err != nil {
		return nil, s.finish(ctx, OpAssignByRarity, txFailure(ErrMsgFailedToReadAssigned, err))
	}
	capInfo.Used = used
	if capInfo.Remaining() == 0 {
		return nil, s.finish(ctx, OpAssignByRarity, fmt.Errorf("%w: %d of %d slots used",
			domain.ErrCapacityExceeded, capInfo.Used, capInfo.Total))
	}

	result := &domain.BulkTransferResult{OwnerID: ownerID}
	free := capInfo.Remaining()
	for _, pool := range pools {
		if free == 0 {
			break
		}
		qty := min(pool.total, free)
		if _, err := DeductAvailable(ctx, tx, pool.rows, qty); err != nil {
			return nil, s.finish(ctx, OpAssignByRarity, txFailure(ErrMsgFailedToUpdateAvailable, err))
		}
		assigned, err := s.addAssigned(ctx, tx, ownerID, pool.variant, qty)
		if err != nil {
			return nil, s.finish(ctx, OpAssignByRarity, err)
		}
		free -= qty
		result.Transferred += qty
		result.Variants = append(result.Variants, domain.TransferResult{
			OwnerID:     ownerID,
			Variant:     pool.variant,
			Requested:   pool.total,
			Transferred: qty,
			Remaining:   assigned,
		})
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, s.finish(ctx, OpAssignByRarity, txFailure(ErrMsgFailedToCommit, err))
	}

	for i := range result.Variants {
		result.Variants[i].Scheduled = s.ensure(ctx, domain.NewAssignmentKey(ownerID, result.Variants[i].Variant))
		s.publish(ctx, OpAssignByRarity, true, &result.Variants[i])
	}

	metrics.ProducersTransferred.WithLabelValues(metrics.DirectionIn).Add(float64(result.Transferred))
	s.finish(ctx, OpAssignByRarity, nil)
	logger.FromContext(ctx).Info(LogMsgAssignByRarityCompleted,
		"owner_id", ownerID,
		"rarity", rarity,
		"variants", len(result.Variants),
		"transferred", result.Transferred)
	return result, nil
}

// ListAssigned returns the owner's Assigned entries
func (s *service) ListAssigned(ctx context.Context, ownerID string) ([]domain.AssignedEntry, error) {
	if err := s.validateOwner(ownerID); err != nil {
		return nil, err
	}
	entries, err := s.repo.ListAssigned(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToReadAssigned, err)
	}
	return entries, nil
}

// ListAvailable returns the owner's Available pools with split rows merged,
// one entry per variant ordered by variant key
func (s *service) ListAvailable(ctx context.Context, ownerID string) ([]domain.AvailableEntry, error) {
	if err := s.validateOwner(ownerID); err != nil {
		return nil, err
	}
	rows, err := s.repo.ListAvailable(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToReadAvailable, err)
	}
	return Coalesce(rows), nil
}

// CurrentCapacityUsed returns the owner's total assigned quantity
func (s *service) CurrentCapacityUsed(ctx context.Context, ownerID string) (int, error) {
	if err := s.validateOwner(ownerID); err != nil {
		return 0, err
	}
	used, err := s.repo.SumAssigned(ctx, ownerID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", ErrMsgFailedToReadAssigned, err)
	}
	return used, nil
}

// Capacity returns the owner's slot breakdown including the used count
func (s *service) Capacity(ctx context.Context, ownerID string) (domain.CapacityInfo, error) {
	if err := s.validateOwner(ownerID); err != nil {
		return domain.CapacityInfo{}, err
	}
	info, err := s.capacity.Capacity(ctx, ownerID)
	if err != nil {
		return domain.CapacityInfo{}, fmt.Errorf("%s: %w", ErrMsgFailedToGetCapacity, err)
	}
	if info.Used, err = s.CurrentCapacityUsed(ctx, ownerID); err != nil {
		return domain.CapacityInfo{}, err
	}
	return info, nil
}

// WithOwnerLock serialises compound operations of one owner within this process
func (s *service) WithOwnerLock(ownerID string, fn func() error) error {
	return s.locks.WithLock(ownerID, fn)
}

// addAssigned grows (or creates) an assignment by qty, refreshing its cached
// rates from the rate table. It returns the new assigned quantity.
func (s *service) addAssigned(ctx context.Context, tx repository.LedgerTx, ownerID string, variant domain.Variant, qty int) (int, error) {
	existing, err := tx.GetAssignedForUpdate(ctx, ownerID, variant.Key())
	if err != nil {
		return 0, txFailure(ErrMsgFailedToReadAssigned, err)
	}

	coins, gems := s.rates.BaseRates(variant)
	entry := domain.AssignedEntry{
		OwnerID:    ownerID,
		Variant:    variant,
		Quantity:   qty,
		CoinRate:   coins,
		GemRate:    gems,
		AssignedAt: s.now().UTC(),
	}
	if existing != nil {
		entry.Quantity += existing.Quantity
		entry.AssignedAt = existing.AssignedAt
	}

	if err := tx.UpsertAssigned(ctx, entry); err != nil {
		return 0, txFailure(ErrMsgFailedToUpsertAssigned, err)
	}
	return entry.Quantity, nil
}

// ensure makes sure key has a production task and reports whether one runs
func (s *service) ensure(ctx context.Context, key domain.AssignmentKey) bool {
	if s.scheduler.Ensure(key) || s.scheduler.Has(key) {
		return true
	}
	logger.FromContext(ctx).Warn(LogMsgScheduleNotCreated, "key", key.String())
	return false
}

// publish announces a committed transfer. Publish failures never undo it.
func (s *service) publish(ctx context.Context, op string, in bool, res *domain.TransferResult) {
	if s.bus == nil {
		return
	}
	if err := s.bus.Publish(ctx, event.NewTransferEvent(op, in, *res)); err != nil {
		logger.FromContext(ctx).Warn(LogMsgPublishFailed, "operation", op, "error", err)
	}
}

func (s *service) validateRequest(req domain.TransferRequest) (domain.Variant, error) {
	if err := s.validate.Struct(req); err != nil {
		return domain.Variant{}, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	variant := domain.NewVariant(req.Variant.Type, req.Variant.Rarity, req.Variant.Trait)
	if err := variant.Validate(); err != nil {
		return domain.Variant{}, err
	}
	return variant, nil
}

func (s *service) validateOwner(ownerID string) error {
	if err := s.validate.Var(ownerID, "required,max=128"); err != nil {
		return fmt.Errorf("%w: %s", domain.ErrInvalidInput, ErrMsgOwnerRequired)
	}
	return nil
}

// finish records the outcome of an operation and passes err through
func (s *service) finish(ctx context.Context, op string, err error) error {
	switch {
	case err == nil:
		metrics.TransfersTotal.WithLabelValues(op, metrics.ResultSuccess).Inc()
	case domain.IsCallerError(err):
		metrics.TransfersTotal.WithLabelValues(op, metrics.ResultRejected).Inc()
		logger.FromContext(ctx).Debug(LogMsgTransferRejected, "operation", op, "error", err)
	default:
		metrics.TransfersTotal.WithLabelValues(op, metrics.ResultError).Inc()
		logger.FromContext(ctx).Error(LogMsgTransferFailed, "operation", op, "error", err)
	}
	return err
}

// fitCapacity returns how many of the requested units fit in the free slots
func fitCapacity(capInfo domain.CapacityInfo, requested int, allowPartial bool) (int, error) {
	free := capInfo.Remaining()
	if requested <= free {
		return requested, nil
	}
	if allowPartial && free > 0 {
		return free, nil
	}
	return 0, fmt.Errorf("%w: %d of %d slots used, requested %d",
		domain.ErrCapacityExceeded, capInfo.Used, capInfo.Total, requested)
}

func txFailure(msg string, err error) error {
	if errors.Is(err, domain.ErrTransactionFailure) {
		return err
	}
	return fmt.Errorf("%w: %s: %w", domain.ErrTransactionFailure, msg, err)
}

type variantPool struct {
	variant domain.Variant
	rows    []domain.AvailableEntry
	total   int
}

// poolsOfRarity groups rows of one rarity by variant, largest pools first
func poolsOfRarity(rows []domain.AvailableEntry, rarity domain.Rarity) []variantPool {
	byKey := make(map[string]*variantPool)
	for _, row := range rows {
		if row.Variant.Rarity != rarity || row.Quantity <= 0 {
			continue
		}
		pool, ok := byKey[row.Variant.Key()]
		if !ok {
			pool = &variantPool{variant: row.Variant}
			byKey[row.Variant.Key()] = pool
		}
		pool.rows = append(pool.rows, row)
		pool.total += row.Quantity
	}

	pools := make([]variantPool, 0, len(byKey))
	for _, pool := range byKey {
		pools = append(pools, *pool)
	}
	slices.SortFunc(pools, func(a, b variantPool) int {
		if c := cmp.Compare(b.total, a.total); c != 0 {
			return c
		}
		return cmp.Compare(a.variant.Key(), b.variant.Key())
	})
	return pools
}

// Coalesce merges split Available rows into one entry per owner and variant.
// Merged entries carry RowID 0.
func Coalesce(rows []domain.AvailableEntry) []domain.AvailableEntry {
	type poolKey struct {
		owner   string
		variant string
	}
	merged := make(map[poolKey]*domain.AvailableEntry)
	var order []poolKey
	for _, row := range rows {
		k := poolKey{owner: row.OwnerID, variant: row.Variant.Key()}
		entry, ok := merged[k]
		if !ok {
			entry = &domain.AvailableEntry{OwnerID: row.OwnerID, Variant: row.Variant}
			merged[k] = entry
			order = append(order, k)
		}
		entry.Quantity += row.Quantity
	}

	out := make([]domain.AvailableEntry, 0, len(order))
	for _, k := range order {
		if merged[k].Quantity > 0 {
			out = append(out, *merged[k])
		}
	}
	slices.SortFunc(out, func(a, b domain.AvailableEntry) int {
		if c := cmp.Compare(a.OwnerID, b.OwnerID); c != 0 {
			return c
		}
		return cmp.Compare(a.Variant.Key(), b.Variant.Key())
	})
	return out
}

package domain

import "time"

// AvailableEntry is one physical row of unassigned producers.
// Several rows may exist for the same owner and variant; together they form one pool.
type AvailableEntry struct {
	RowID    int64   `json:"row_id"`
	OwnerID  string  `json:"owner_id"`
	Variant  Variant `json:"variant"`
	Quantity int     `json:"quantity"`
}

// AssignedEntry is the set of producers of one variant an owner has put to work.
// It only exists while Quantity > 0.
type AssignedEntry struct {
	OwnerID    string    `json:"owner_id"`
	Variant    Variant   `json:"variant"`
	Quantity   int       `json:"quantity"`
	CoinRate   int64     `json:"coin_rate"`
	GemRate    int64     `json:"gem_rate"`
	AssignedAt time.Time `json:"assigned_at"`
}

// Key returns the scheduler key of the entry
func (e AssignedEntry) Key() AssignmentKey {
	return NewAssignmentKey(e.OwnerID, e.Variant)
}

// TransferRequest asks to move producers from Available to Assigned (or back)
type TransferRequest struct {
	OwnerID  string  `json:"owner_id" validate:"required,max=128"`
	Variant  Variant `json:"variant" validate:"required"`
	Quantity int     `json:"quantity" validate:"gt=0"`

	// AllowPartial transfers min(Quantity, remaining capacity) instead of failing
	AllowPartial bool `json:"allow_partial"`
}

// TransferResult reports the outcome of a single-variant transfer
type TransferResult struct {
	OwnerID     string  `json:"owner_id"`
	Variant     Variant `json:"variant"`
	Requested   int     `json:"requested"`
	Transferred int     `json:"transferred"`
	Remaining   int     `json:"remaining"` // assigned quantity after the transfer
	Scheduled   bool    `json:"scheduled"`
	Cancelled   bool    `json:"cancelled"`
}

// BulkTransferResult reports a multi-variant transfer
type BulkTransferResult struct {
	OwnerID     string           `json:"owner_id"`
	Transferred int              `json:"transferred"`
	Variants    []TransferResult `json:"variants"`
}

// CapacityInfo describes an owner's assignment slots
type CapacityInfo struct {
	OwnerID       string `json:"owner_id"`
	Base          int    `json:"base"`
	UpgradeBonus  int    `json:"upgrade_bonus"`
	PrestigeBonus int    `json:"prestige_bonus"`
	Total         int    `json:"total"`
	Used          int    `json:"used"`
}

// Remaining returns the number of free slots, never negative
func (c CapacityInfo) Remaining() int {
	if c.Used >= c.Total {
		return 0
	}
	return c.Total - c.Used
}

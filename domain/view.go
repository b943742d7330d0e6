/*
view.go - Read-only accessor interface over the ERP data

PURPOSE:
  Defines the boundary between the engine and whatever stores the
  business data. The generator consumes exactly these six accessors
  and nothing else. Implementations must return data as a consistent
  read snapshot; the engine takes no locks of its own.

RANGE SEMANTICS:
  Every *Between accessor is inclusive on both ends and filters by the
  date named in its aggregate (receival date, emission date, confirm
  date, close date).

IMPLEMENTATIONS:
  - memory.go: In-memory view for tests and demos
  - store/sqlite: SQLite-backed view

SEE ALSO:
  - generator/generator.go: The only consumer
*/
package domain

import (
	"context"
	"errors"
	"time"
)

// ErrSellableNotFound is returned by SellableMaster for a code absent
// from the catalogue.
var ErrSellableNotFound = errors.New("sellable not found")

// View is the read-only window over one reporting period's data.
type View interface {
	// BranchFacts returns the filing branch identity.
	BranchFacts(ctx context.Context) (BranchFacts, error)

	// ReceivedOrdersBetween returns purchase orders received in
	// [start, end].
	ReceivedOrdersBetween(ctx context.Context, start, end time.Time) ([]ReceivingOrder, error)

	// FiscalDayHistoryBetween returns Z-reductions emitted in
	// [start, end], with their tax entries attached.
	FiscalDayHistoryBetween(ctx context.Context, start, end time.Time) ([]FiscalDaySummary, error)

	// SalesBetween returns sales confirmed in [start, end] whose status
	// is confirmed or paid.
	SalesBetween(ctx context.Context, start, end time.Time) ([]Sale, error)

	// InventoriesClosedBetween returns inventories closed in
	// [start, end].
	InventoriesClosedBetween(ctx context.Context, start, end time.Time) ([]Inventory, error)

	// SellableMaster returns catalogue data for one sellable code.
	// Returns ErrSellableNotFound for unknown codes.
	SellableMaster(ctx context.Context, code string) (SellableMaster, error)
}

// inRange reports start <= t <= end at day granularity.
func inRange(t, start, end time.Time) bool {
	return !t.Before(start) && !t.After(end)
}

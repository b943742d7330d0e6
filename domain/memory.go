/*
memory.go - In-memory View (for testing/dev)

PURPOSE:
  A View backed by plain slices. Tests build one fixture struct and
  hand it to the generator; the demo server uses it when no database
  is configured.

SEE ALSO:
  - view.go: Interface definition
  - store/sqlite: Production implementation
*/
package domain

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// Memory is an in-memory View. Safe for concurrent reads; populate it
// fully before handing it to a generator.
type Memory struct {
	mu sync.RWMutex

	Branch      BranchFacts
	Orders      []ReceivingOrder
	FiscalDays  []FiscalDaySummary
	Sales       []Sale
	Inventories []Inventory
	Sellables   map[string]SellableMaster
}

// NewMemory returns an empty in-memory view.
func NewMemory() *Memory {
	return &Memory{Sellables: make(map[string]SellableMaster)}
}

// AddSellable registers catalogue master data.
func (m *Memory) AddSellable(s SellableMaster) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Sellables[s.Code] = s
}

func (m *Memory) BranchFacts(_ context.Context) (BranchFacts, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.Branch, nil
}

func (m *Memory) ReceivedOrdersBetween(_ context.Context, start, end time.Time) ([]ReceivingOrder, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []ReceivingOrder
	for _, o := range m.Orders {
		if inRange(o.ReceivalDate, start, end) {
			out = append(out, o)
		}
	}
	return out, nil
}

func (m *Memory) FiscalDayHistoryBetween(_ context.Context, start, end time.Time) ([]FiscalDaySummary, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []FiscalDaySummary
	for _, d := range m.FiscalDays {
		if inRange(d.EmissionDate, start, end) {
			out = append(out, d)
		}
	}
	return out, nil
}

func (m *Memory) SalesBetween(_ context.Context, start, end time.Time) ([]Sale, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []Sale
	for _, s := range m.Sales {
		if s.Status.Countable() && inRange(s.ConfirmDate, start, end) {
			out = append(out, s)
		}
	}
	return out, nil
}

func (m *Memory) InventoriesClosedBetween(_ context.Context, start, end time.Time) ([]Inventory, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []Inventory
	for _, inv := range m.Inventories {
		if inRange(inv.CloseDate, start, end) {
			out = append(out, inv)
		}
	}
	return out, nil
}

func (m *Memory) SellableMaster(_ context.Context, code string) (SellableMaster, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.Sellables[code]
	if !ok {
		return SellableMaster{}, fmt.Errorf("code %q: %w", code, ErrSellableNotFound)
	}
	return s, nil
}

package sqlite_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/sintegra-engine/domain"
	"github.com/warp/sintegra-engine/generator"
	"github.com/warp/sintegra-engine/store/sqlite"
)

var (
	periodStart = time.Date(2007, time.June, 1, 0, 0, 0, 0, time.UTC)
	periodEnd   = time.Date(2007, time.June, 30, 0, 0, 0, 0, time.UTC)
)

func money(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func newStore(t *testing.T) *sqlite.Store {
	t.Helper()
	store, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func seedBranch(t *testing.T, store *sqlite.Store) {
	t.Helper()
	require.NoError(t, store.SaveBranch(context.Background(), domain.BranchFacts{
		CGC:               3852461000143,
		StateRegistration: "110042490114",
		Company:           "Warp Retail Ltda",
		City:              "Sao Carlos",
		State:             "SP",
		Street:            "Rua Episcopal",
		StreetNumber:      2416,
		District:          "Centro",
		PostalCode:        13560049,
		Manager:           "Maria Aparecida",
		Phone:             1633643377,
	}))
}

func TestStore_BranchFacts_RoundTrip(t *testing.T) {
	store := newStore(t)
	seedBranch(t, store)

	facts, err := store.BranchFacts(context.Background())
	require.NoError(t, err)
	assert.EqualValues(t, 3852461000143, facts.CGC)
	assert.Equal(t, "110042490114", facts.StateRegistration)
	assert.Equal(t, "Warp Retail Ltda", facts.Company)
	assert.Equal(t, "Centro", facts.District)
}

func TestStore_BranchFacts_MissingFails(t *testing.T) {
	store := newStore(t)

	_, err := store.BranchFacts(context.Background())
	assert.Error(t, err)
}

func TestStore_SaveBranch_ReplacesPreviousRow(t *testing.T) {
	store := newStore(t)
	seedBranch(t, store)

	require.NoError(t, store.SaveBranch(context.Background(), domain.BranchFacts{
		CGC:               3852461000143,
		StateRegistration: "110042490114",
		Company:           "Warp Retail Filial Ltda",
		City:              "Sao Carlos",
		State:             "SP",
		Street:            "Rua Episcopal",
		District:          "Centro",
	}))

	facts, err := store.BranchFacts(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Warp Retail Filial Ltda", facts.Company)
}

func TestStore_ReceivingOrders_PeriodFilterAndLineOrder(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()

	order := domain.ReceivingOrder{
		Supplier: domain.Supplier{
			Name:              "Distribuidora Boa Vista",
			CNPJ:              22222222000191,
			StateRegistration: "220004123115",
		},
		ReceivalDate: periodStart.AddDate(0, 0, 11),
		State:        "SP",
		Model:        1,
		Serial:       "1",
		Number:       4277,
		CFOP:         "5.949",
		Emitter:      "P",
		Situation:    "N",
		GoodsTotal:   money("100.00"),
		Freight:      money("6.00"),
		Insurance:    money("6.00"),
		Expense:      money("12.00"),
		Discount:     money("10.00"),
		Items: []domain.OrderItem{
			{SellableCode: "42", ICMSRate: money("18"), Quantity: money("2"), GrossValue: money("50.00")},
			{SellableCode: "43", ICMSRate: money("0"), Quantity: money("1"), GrossValue: money("50.00")},
		},
	}
	require.NoError(t, store.SaveReceivingOrder(ctx, "order-1", order))

	outside := order
	outside.ReceivalDate = periodEnd.AddDate(0, 1, 0)
	outside.Number = 4278
	require.NoError(t, store.SaveReceivingOrder(ctx, "order-2", outside))

	orders, err := store.ReceivedOrdersBetween(ctx, periodStart, periodEnd)
	require.NoError(t, err)
	require.Len(t, orders, 1, "orders outside the period stay out")

	got := orders[0]
	assert.Equal(t, "Distribuidora Boa Vista", got.Supplier.Name)
	assert.EqualValues(t, 22222222000191, got.Supplier.CNPJ)
	assert.Equal(t, "5.949", got.CFOP)
	assert.True(t, got.GoodsTotal.Equal(money("100.00")))
	assert.True(t, got.Discount.Equal(money("10.00")))

	require.Len(t, got.Items, 2)
	assert.Equal(t, "42", got.Items[0].SellableCode, "line order preserved")
	assert.True(t, got.Items[0].ICMSRate.Equal(money("18")))
	assert.Equal(t, "43", got.Items[1].SellableCode)
}

func TestStore_FiscalDays_TaxOrderPreserved(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()

	require.NoError(t, store.SaveFiscalDay(ctx, "day-1", domain.FiscalDaySummary{
		EmissionDate:  periodStart.AddDate(0, 0, 11),
		PrinterSerial: "6B012345678901234567",
		PrinterID:     1,
		CouponStart:   1,
		CouponEnd:     180,
		CRZ:           77,
		CRO:           2,
		PeriodTotal:   money("456.00"),
		Total:         money("123141.00"),
		Taxes: []domain.TaxEntry{
			{Code: "2500", Value: money("123.00"), Kind: domain.TaxICMS},
			{Code: "0000", Value: money("789.00"), Kind: domain.TaxISS},
		},
	}))

	days, err := store.FiscalDayHistoryBetween(ctx, periodStart, periodEnd)
	require.NoError(t, err)
	require.Len(t, days, 1)

	day := days[0]
	assert.Equal(t, "6B012345678901234567", day.PrinterSerial)
	assert.EqualValues(t, 77, day.CRZ)
	assert.True(t, day.PeriodTotal.Equal(money("456.00")))
	require.Len(t, day.Taxes, 2)
	assert.Equal(t, "2500", day.Taxes[0].Code)
	assert.Equal(t, domain.TaxISS, day.Taxes[1].Kind)
}

func TestStore_Sales_OnlyCountableStatuses(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()

	item := []domain.SaleItem{{SellableCode: "42", Quantity: money("1"), GrossValue: money("10.00")}}
	require.NoError(t, store.SaveSale(ctx, "sale-1", domain.Sale{
		ConfirmDate: periodStart, Status: domain.SaleConfirmed, Discount: decimal.Zero, Items: item}))
	require.NoError(t, store.SaveSale(ctx, "sale-2", domain.Sale{
		ConfirmDate: periodStart, Status: domain.SalePaid, Discount: decimal.Zero, Items: item}))
	require.NoError(t, store.SaveSale(ctx, "sale-3", domain.Sale{
		ConfirmDate: periodStart, Status: domain.SaleCanceled, Discount: decimal.Zero, Items: item}))

	sales, err := store.SalesBetween(ctx, periodStart, periodEnd)
	require.NoError(t, err)
	assert.Len(t, sales, 2, "cancelled sales never reach the file")
	for _, sale := range sales {
		assert.True(t, sale.Status.Countable())
		require.Len(t, sale.Items, 1)
	}
}

func TestStore_Inventories_RoundTrip(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()

	require.NoError(t, store.SaveInventory(ctx, "inv-1", domain.Inventory{
		CloseDate: periodEnd,
		State:     "SP",
		Items: []domain.InventoryItem{{
			SellableCode:           "42",
			Quantity:               money("12"),
			TotalCost:              money("360.00"),
			HasRecordedCost:        true,
			Ownership:              domain.OwnershipThirdParty,
			OwnerCGC:               99999999000199,
			OwnerStateRegistration: "110042490114",
		}},
	}))

	inventories, err := store.InventoriesClosedBetween(ctx, periodStart, periodEnd)
	require.NoError(t, err)
	require.Len(t, inventories, 1)
	require.Len(t, inventories[0].Items, 1)

	item := inventories[0].Items[0]
	assert.True(t, item.HasRecordedCost)
	assert.True(t, item.TotalCost.Equal(money("360.00")))
	assert.Equal(t, int64(domain.OwnershipThirdParty), item.Ownership)
	assert.EqualValues(t, 99999999000199, item.OwnerCGC)
}

func TestStore_SellableMaster_UpsertAndNotFound(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()

	master := domain.SellableMaster{
		Code:        "42",
		NCM:         "85167100",
		Description: "Cafeteira Eletrica",
		Unit:        "un",
		ICMSRate:    money("18"),
	}
	require.NoError(t, store.SaveSellable(ctx, master))

	master.Description = "Cafeteira Eletrica 110V"
	require.NoError(t, store.SaveSellable(ctx, master))

	got, err := store.SellableMaster(ctx, "42")
	require.NoError(t, err)
	assert.Equal(t, "Cafeteira Eletrica 110V", got.Description)
	assert.True(t, got.ICMSRate.Equal(money("18")))

	_, err = store.SellableMaster(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrSellableNotFound)
}

func TestStore_Reset_ClearsEverything(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()
	seedBranch(t, store)
	require.NoError(t, store.SaveSellable(ctx, domain.SellableMaster{Code: "42", Description: "X"}))

	require.NoError(t, store.Reset(ctx))

	_, err := store.BranchFacts(ctx)
	assert.Error(t, err)
	_, err = store.SellableMaster(ctx, "42")
	assert.ErrorIs(t, err, domain.ErrSellableNotFound)
}

func TestStore_DrivesGeneratorEndToEnd(t *testing.T) {
	// GIVEN: a seeded store with one purchase and its catalog entries
	// WHEN: the generator runs against the store as its view
	// THEN: a complete closed file comes out

	store := newStore(t)
	ctx := context.Background()
	seedBranch(t, store)

	require.NoError(t, store.SaveSellable(ctx, domain.SellableMaster{
		Code: "42", NCM: "85167100", Description: "Cafeteira", Unit: "un", ICMSRate: money("18")}))
	require.NoError(t, store.SaveReceivingOrder(ctx, "order-1", domain.ReceivingOrder{
		Supplier: domain.Supplier{
			Name: "Distribuidora Boa Vista", CNPJ: 22222222000191, StateRegistration: "220004123115"},
		ReceivalDate: periodStart.AddDate(0, 0, 5),
		State:        "SP",
		Model:        1,
		Serial:       "1",
		Number:       4277,
		CFOP:         "5.949",
		Emitter:      "P",
		Situation:    "N",
		GoodsTotal:   money("50.00"),
		Items: []domain.OrderItem{
			{SellableCode: "42", ICMSRate: money("18"), Quantity: money("1"), GrossValue: money("50.00")},
		},
	}))

	data, err := generator.Generate(ctx, store, periodStart, periodEnd)
	require.NoError(t, err)

	lines := 0
	for i := 0; i+1 < len(data); i++ {
		if data[i] == '\r' && data[i+1] == '\n' {
			lines++
		}
	}
	// 10, 11, 50, 54, 75 plus five summaries and the totaliser
	assert.Equal(t, 11, lines)
}

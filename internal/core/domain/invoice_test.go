package domain_test

import (
	"testing"

	"github.com/SscSPs/billing_app/internal/apperrors"
	"github.com/SscSPs/billing_app/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestInvoice(t *testing.T, tax, discount string) *domain.Invoice {
	t.Helper()
	inv, err := domain.NewInvoice("user_123", "ACME Corp", decimal.RequireFromString(tax), decimal.RequireFromString(discount), "USD")
	require.NoError(t, err)
	return inv
}

func mustItem(t *testing.T, name, price string, qty int64) domain.LineItem {
	t.Helper()
	item, err := domain.NewLineItem(name, decimal.RequireFromString(price), qty)
	require.NoError(t, err)
	return item
}

func TestNewInvoice_Validation(t *testing.T) {
	tests := []struct {
		name         string
		userID       string
		customerName string
		tax          string
		discount     string
		currency     domain.CurrencyCode
		wantErr      bool
		errMsg       string
	}{
		{name: "valid invoice", userID: "u1", customerName: "ACME", tax: "10", discount: "2.00", currency: "USD"},
		{name: "tax lower bound", userID: "u1", customerName: "ACME", tax: "0", discount: "0", currency: "USD"},
		{name: "tax upper bound", userID: "u1", customerName: "ACME", tax: "100", discount: "0", currency: "USD"},
		{name: "empty customer", userID: "u1", customerName: "", tax: "10", discount: "0", currency: "USD", wantErr: true, errMsg: "customer name is required"},
		{name: "negative tax", userID: "u1", customerName: "ACME", tax: "-1", discount: "0", currency: "USD", wantErr: true, errMsg: "tax percentage must be between 0 and 100"},
		{name: "tax above 100", userID: "u1", customerName: "ACME", tax: "100.01", discount: "0", currency: "USD", wantErr: true, errMsg: "tax percentage must be between 0 and 100"},
		{name: "negative discount", userID: "u1", customerName: "ACME", tax: "10", discount: "-5", currency: "USD", wantErr: true, errMsg: "discount amount must not be negative"},
		{name: "empty currency", userID: "u1", customerName: "ACME", tax: "10", discount: "0", currency: "", wantErr: true, errMsg: "currency is required"},
		{name: "missing owner", userID: "", customerName: "ACME", tax: "10", discount: "0", currency: "USD", wantErr: true, errMsg: "user ID is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inv, err := domain.NewInvoice(tt.userID, tt.customerName, decimal.RequireFromString(tt.tax), decimal.RequireFromString(tt.discount), tt.currency)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, apperrors.ErrValidation)
				assert.Contains(t, err.Error(), tt.errMsg)
				assert.Nil(t, inv)
				return
			}
			require.NoError(t, err)
			assert.NotEmpty(t, inv.InvoiceID())
			assert.Equal(t, domain.Unpaid, inv.Status())
			assert.Empty(t, inv.Items())
		})
	}
}

func TestNewInvoice_StartsWithZeroTotalWithoutDiscount(t *testing.T) {
	inv := newTestInvoice(t, "18", "0")
	assertDecimal(t, "0", inv.Total())
}

func TestInvoice_TotalScenario(t *testing.T) {
	inv := newTestInvoice(t, "10", "2.00")
	inv.AddItem(mustItem(t, "Widget", "10.00", 2))
	inv.AddItem(mustItem(t, "Gadget", "5.00", 1))

	assertDecimal(t, "25.00", inv.Subtotal())
	assertDecimal(t, "2.50", inv.TaxAmount())
	assertDecimal(t, "25.50", inv.Total())
	assert.False(t, inv.IsOverDiscounted())
}

func TestInvoice_TotalFormula(t *testing.T) {
	tests := []struct {
		name     string
		tax      string
		discount string
		items    [][2]string // price, qty
		want     string
	}{
		{name: "no items", tax: "10", discount: "0", want: "0"},
		{name: "no tax", tax: "0", discount: "1", items: [][2]string{{"3.33", "3"}}, want: "8.99"},
		{name: "fractional tax", tax: "12.5", discount: "0", items: [][2]string{{"19.99", "1"}}, want: "22.48875"},
		{name: "full tax", tax: "100", discount: "0", items: [][2]string{{"7.25", "2"}}, want: "29.00"},
		{name: "zero quantity counts nothing", tax: "10", discount: "0", items: [][2]string{{"100", "0"}}, want: "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inv := newTestInvoice(t, tt.tax, tt.discount)
			for _, it := range tt.items {
				qty := decimal.RequireFromString(it[1]).IntPart()
				inv.AddItem(mustItem(t, "item", it[0], qty))
			}
			assertDecimal(t, tt.want, inv.Total())
		})
	}
}

func TestInvoice_NegativeTotalIsNotClamped(t *testing.T) {
	inv := newTestInvoice(t, "0", "50.00")
	inv.AddItem(mustItem(t, "Service", "20.00", 1))

	assertDecimal(t, "-30.00", inv.Total())
	assert.True(t, inv.IsOverDiscounted())
}

func TestInvoice_AddThenRemoveRestoresTotal(t *testing.T) {
	inv := newTestInvoice(t, "7.5", "1.10")
	inv.AddItem(mustItem(t, "A", "0.10", 3))
	inv.AddItem(mustItem(t, "B", "19.99", 7))
	before := inv.Total()

	extra := mustItem(t, "C", "0.01", 13)
	inv.AddItem(extra)
	assert.False(t, before.Equal(inv.Total()))

	_, err := inv.RemoveItem(extra.ItemID())
	require.NoError(t, err)
	assert.True(t, before.Equal(inv.Total()), "expected %s, got %s", before, inv.Total())
}

func TestInvoice_RemoveItemNotFoundLeavesInvoiceUnchanged(t *testing.T) {
	inv := newTestInvoice(t, "10", "0")
	inv.AddItem(mustItem(t, "Widget", "10.00", 1))
	before := inv.Record()

	_, err := inv.RemoveItem("missing")
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.Equal(t, before, inv.Record())
}

func TestInvoice_ItemsKeepInsertionOrder(t *testing.T) {
	inv := newTestInvoice(t, "0", "0")
	a := mustItem(t, "A", "1", 1)
	b := mustItem(t, "B", "2", 1)
	c := mustItem(t, "C", "3", 1)
	inv.AddItem(a)
	inv.AddItem(b)
	inv.AddItem(c)

	_, err := inv.RemoveItem(b.ItemID())
	require.NoError(t, err)

	items := inv.Items()
	require.Len(t, items, 2)
	assert.Equal(t, a.ItemID(), items[0].ItemID())
	assert.Equal(t, c.ItemID(), items[1].ItemID())
}

func TestInvoice_ItemsReturnsCopy(t *testing.T) {
	inv := newTestInvoice(t, "0", "0")
	inv.AddItem(mustItem(t, "A", "5", 1))

	items := inv.Items()
	items[0] = mustItem(t, "Injected", "999", 1)

	assert.Equal(t, "A", inv.Items()[0].Name())
	assertDecimal(t, "5", inv.Total())
}

func TestInvoice_UpdateDetails(t *testing.T) {
	inv := newTestInvoice(t, "10", "2.00")
	inv.AddItem(mustItem(t, "Widget", "10.00", 2))
	inv.AddItem(mustItem(t, "Gadget", "5.00", 1))

	tax := decimal.RequireFromString("20")
	err := inv.UpdateDetails(domain.InvoiceDetailsUpdate{TaxPercentage: &tax})
	require.NoError(t, err)

	assert.Equal(t, "ACME Corp", inv.CustomerName())
	assert.Equal(t, domain.CurrencyCode("USD"), inv.Currency())
	assertDecimal(t, "2.00", inv.DiscountAmount())
	assertDecimal(t, "28.00", inv.Total())

	name := "Globex"
	currency := domain.CurrencyCode("EUR")
	discount := decimal.Zero
	err = inv.UpdateDetails(domain.InvoiceDetailsUpdate{CustomerName: &name, Currency: &currency, DiscountAmount: &discount})
	require.NoError(t, err)
	assert.Equal(t, "Globex", inv.CustomerName())
	assert.Equal(t, currency, inv.Currency())
	assertDecimal(t, "30.00", inv.Total())
}

func TestInvoice_UpdateDetailsIsAllOrNothing(t *testing.T) {
	inv := newTestInvoice(t, "10", "0")
	inv.AddItem(mustItem(t, "Widget", "10.00", 1))
	before := inv.Record()

	name := "New Name"
	badTax := decimal.NewFromInt(101)
	err := inv.UpdateDetails(domain.InvoiceDetailsUpdate{CustomerName: &name, TaxPercentage: &badTax})

	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrValidation)
	assert.Equal(t, before, inv.Record())
}

func TestInvoice_StatusTransitions(t *testing.T) {
	inv := newTestInvoice(t, "0", "0")
	inv.AddItem(mustItem(t, "Widget", "10", 1))

	evt, changed := inv.MarkPaid()
	assert.True(t, changed)
	assert.Equal(t, domain.EventStatusChanged, evt.Type)
	assert.Equal(t, domain.Paid, evt.Status)
	assert.Equal(t, domain.Paid, inv.Status())

	_, changed = inv.MarkPaid()
	assert.False(t, changed)
	assert.Equal(t, domain.Paid, inv.Status())

	evt, changed = inv.MarkUnpaid()
	assert.True(t, changed)
	assert.Equal(t, domain.Unpaid, evt.Status)
	assert.Equal(t, domain.Unpaid, inv.Status())

	_, changed = inv.MarkUnpaid()
	assert.False(t, changed)
}

func TestInvoice_ItemEvents(t *testing.T) {
	inv := newTestInvoice(t, "10", "0")
	item := mustItem(t, "Widget", "10", 1)

	added, err := inv.AddItem(item)
	require.NoError(t, err)
	assert.Equal(t, domain.EventItemAdded, added.Type)
	assert.Equal(t, inv.InvoiceID(), added.InvoiceID)
	assert.Equal(t, "user_123", added.UserID)
	assert.Equal(t, item.ItemID(), added.ItemID)
	assertDecimal(t, "11", added.Total)
	assert.False(t, added.OccurredAt.IsZero())

	removed, err := inv.RemoveItem(item.ItemID())
	require.NoError(t, err)
	assert.Equal(t, domain.EventItemRemoved, removed.Type)
	assert.Equal(t, item.ItemID(), removed.ItemID)
	assertDecimal(t, "0", removed.Total)
}

func TestInvoice_PaymentDetails(t *testing.T) {
	inv := newTestInvoice(t, "10", "2.00")
	inv.AddItem(mustItem(t, "Widget", "10.00", 2))
	inv.AddItem(mustItem(t, "Gadget", "5.00", 1))

	pd := inv.PaymentDetails()
	assert.Equal(t, inv.InvoiceID(), pd.InvoiceID)
	assert.Equal(t, domain.CurrencyCode("USD"), pd.Currency)
	assertDecimal(t, "25.50", pd.Total)
}

func TestRestoreInvoice_RecomputesTotal(t *testing.T) {
	inv := newTestInvoice(t, "10", "2.00")
	inv.AddItem(mustItem(t, "Widget", "10.00", 2))
	inv.MarkPaid()

	rec := inv.Record()
	rec.Total = decimal.NewFromInt(1_000_000)

	restored, err := domain.RestoreInvoice(rec)
	require.NoError(t, err)
	assertDecimal(t, "20.00", restored.Total())
	assert.Equal(t, domain.Paid, restored.Status())
	assert.Equal(t, inv.InvoiceID(), restored.InvoiceID())
	assert.Len(t, restored.Items(), 1)
}

func TestRestoreInvoice_Validation(t *testing.T) {
	valid := newTestInvoice(t, "10", "0").Record()

	tests := []struct {
		name   string
		mutate func(r *domain.InvoiceRecord)
	}{
		{name: "missing id", mutate: func(r *domain.InvoiceRecord) { r.InvoiceID = "" }},
		{name: "missing user", mutate: func(r *domain.InvoiceRecord) { r.UserID = "" }},
		{name: "bad status", mutate: func(r *domain.InvoiceRecord) { r.Status = "VOID" }},
		{name: "bad tax", mutate: func(r *domain.InvoiceRecord) { r.TaxPercentage = decimal.NewFromInt(-3) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := valid
			tt.mutate(&rec)
			_, err := domain.RestoreInvoice(rec)
			assert.ErrorIs(t, err, apperrors.ErrValidation)
		})
	}
}

func TestInvoice_AddItemRejectsItemAlreadyOnInvoice(t *testing.T) {
	inv := newTestInvoice(t, "10", "0")
	item := mustItem(t, "Widget", "10", 1)
	_, err := inv.AddItem(item)
	require.NoError(t, err)

	_, err = inv.AddItem(item)

	assert.ErrorIs(t, err, apperrors.ErrValidation)
	assert.Len(t, inv.Items(), 1)
	assertDecimal(t, "11", inv.Total())

	// same name and price under a fresh ID is a separate item
	_, err = inv.AddItem(mustItem(t, "Widget", "10", 1))
	require.NoError(t, err)
	assert.Len(t, inv.Items(), 2)
}

func TestRestoreInvoice_RejectsDuplicateItemIDs(t *testing.T) {
	item := mustItem(t, "Widget", "10", 1)

	_, err := domain.RestoreInvoice(domain.InvoiceRecord{
		InvoiceID:    "inv-1",
		UserID:       "user_123",
		CustomerName: "Acme",
		Items:        []domain.LineItem{item, item},
		Currency:     "USD",
		Status:       domain.Unpaid,
	})

	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

package stats

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsCreditTriggers(t *testing.T) {
	cases := []struct {
		name string
		rec  Record
		want bool
	}{
		{name: "explicit flag", rec: Record{CreditFlag: true}, want: true},
		{name: "payment method credit", rec: Record{PaymentMethod: "Credit"}, want: true},
		{name: "payment method credit padded", rec: Record{PaymentMethod: "  CREDIT "}, want: true},
		{name: "payment status credit", rec: Record{PaymentStatus: "credit"}, want: true},
		{name: "unpaid with customer", rec: Record{PaymentStatus: "Unpaid", CustomerID: 9}, want: true},
		{name: "pending with customer", rec: Record{PaymentStatus: "pending", CustomerID: 1}, want: true},
		{name: "unpaid without customer", rec: Record{PaymentStatus: "unpaid"}, want: false},
		{name: "pending without customer", rec: Record{PaymentStatus: "pending", CustomerID: 0}, want: false},
		{name: "paid with customer", rec: Record{PaymentStatus: "paid", CustomerID: 9}, want: false},
		{name: "cash sale", rec: Record{PaymentMethod: "Cash"}, want: false},
		{name: "empty record", rec: Record{}, want: false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, IsCredit(tc.rec))
		})
	}
}

func TestIsCreditMonotonic(t *testing.T) {
	// Once any single signal fires, piling on unrelated fields must not
	// flip the classification back to false.
	base := Record{PaymentStatus: "credit"}
	assert.True(t, IsCredit(base))

	loaded := base
	loaded.PaymentMethod = "Cash"
	loaded.PaymentMode = "Card"
	loaded.CustomerID = 3
	loaded.Status = "completed"
	assert.True(t, IsCredit(loaded))

	flagged := Record{CreditFlag: true, PaymentStatus: "paid", PaymentMethod: "Cash"}
	assert.True(t, IsCredit(flagged))
}

func TestEachPredicateIndependentlyFires(t *testing.T) {
	recs := []Record{
		{CreditFlag: true},
		{PaymentMethod: "credit"},
		{PaymentStatus: "credit"},
		{PaymentStatus: "unpaid", CustomerID: 7},
	}
	for i, rec := range recs {
		assert.True(t, CreditPredicates[i].Test(rec), CreditPredicates[i].Name)
	}
}

func TestPaymentDisplay(t *testing.T) {
	assert.Equal(t, "Credit", PaymentDisplay(Record{CreditFlag: true, PaymentMethod: "Cash"}))
	assert.Equal(t, "Credit", PaymentDisplay(Record{PaymentStatus: "unpaid", CustomerID: 2, PaymentMethod: "Card"}))
	assert.Equal(t, "Cash", PaymentDisplay(Record{PaymentMethod: "Cash"}))
	assert.Equal(t, "Card", PaymentDisplay(Record{PaymentMode: "Card"}))
	assert.Equal(t, "paid", PaymentDisplay(Record{PaymentStatus: "paid"}))
	assert.Empty(t, PaymentDisplay(Record{}))
}

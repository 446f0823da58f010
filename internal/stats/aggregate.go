package stats

import (
	"time"

	"github.com/shopspring/decimal"
)

// excludedStatuses never contribute to revenue: customer-registration-only
// records carry no sale, and cancelled records were unwound.
var excludedStatuses = map[string]struct{}{
	"customer register":     {},
	"customer_register":     {},
	"customer registration": {},
	"cancelled":             {},
	"canceled":              {},
}

// openOrderStatuses mark an order as operationally current. Running orders
// deliberately ignore the accounting cutoff: the kitchen queue does not
// reset when a manager closes the day.
var openOrderStatuses = map[string]struct{}{
	"pending":   {},
	"preparing": {},
	"ready":     {},
	"confirmed": {},
}

// Totals are the per-branch aggregates computed from a merged record set.
type Totals struct {
	DailySales       decimal.Decimal
	CompleteBills    int
	RunningOrders    int
	CreditSalesTotal decimal.Decimal
}

// Aggregate sums and classifies the deduplicated, branch-filtered record set.
// ordersOnly is the raw orders-source list before merging; when it yields a
// nonzero in-period count it supersedes the bill count, since bills may lag
// order creation.
func Aggregate(merged, ordersOnly []Record, cutoff Cutoff, now time.Time) Totals {
	t := Totals{DailySales: decimal.Zero, CreditSalesTotal: decimal.Zero}

	for _, rec := range merged {
		if _, open := openOrderStatuses[rec.Status]; open {
			t.RunningOrders++
		}
		if !cutoff.InPeriod(rec.OccurredAt, now) {
			continue
		}
		if _, excluded := excludedStatuses[rec.Status]; excluded {
			continue
		}
		t.DailySales = t.DailySales.Add(rec.Amount)
		if rec.Amount.IsPositive() {
			t.CompleteBills++
		}
		if IsCredit(rec) {
			t.CreditSalesTotal = t.CreditSalesTotal.Add(rec.Amount)
		}
	}

	ordersToday := 0
	for _, rec := range ordersOnly {
		if !cutoff.InPeriod(rec.OccurredAt, now) {
			continue
		}
		if _, excluded := excludedStatuses[rec.Status]; excluded {
			continue
		}
		if rec.Amount.IsPositive() {
			ordersToday++
		}
	}
	if ordersToday > 0 {
		t.CompleteBills = ordersToday
	}

	return t
}

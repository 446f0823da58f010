// Package stats implements the branch sales and statistics reconciliation
// engine. It merges records from the sales, bills, and orders upstream
// sources into per-branch dashboard statistics, honoring the day-end
// accounting cutoff of each branch.
package stats

import (
	"time"

	"github.com/shopspring/decimal"
)

// Source identifies which upstream produced a record. It participates in
// merge ordering only, never in business logic.
type Source string

const (
	SourceSales  Source = "sales"
	SourceBills  Source = "bills"
	SourceOrders Source = "orders"
)

// Branch is one entry of the branch directory the engine fans out over.
type Branch struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Record is a sales/bill/order record after field-name normalization.
//
// An empty ID means the record carries no usable identity and is never
// deduplicated. An empty BranchID means the record cannot be proven to
// belong to any branch and is rejected by the isolation filter. A zero
// OccurredAt excludes the record from every cutoff-filtered aggregate.
type Record struct {
	ID            string
	BranchID      string
	OccurredAt    time.Time
	Amount        decimal.Decimal
	Status        string
	PaymentMethod string
	PaymentStatus string
	PaymentMode   string
	CustomerID    int64
	CreditFlag    bool
	Source        Source
}

// DateRange bounds the sales and bills fetches. Zero values mean unbounded.
type DateRange struct {
	From time.Time
	To   time.Time
}

// Snapshot is the reconciled statistics of a single branch. Error marks a
// zeroed placeholder produced when the branch pipeline failed; it never
// aborts sibling branches.
type Snapshot struct {
	BranchID         string          `json:"branch_id"`
	BranchName       string          `json:"branch_name"`
	DailySales       decimal.Decimal `json:"daily_sales"`
	RunningOrders    int             `json:"running_orders"`
	CompleteBills    int             `json:"complete_bills"`
	CreditSalesTotal decimal.Decimal `json:"credit_sales_total"`
	Error            bool            `json:"error"`
}

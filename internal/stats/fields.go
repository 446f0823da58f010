package stats

import (
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// FieldCandidates is an ordered list of raw field names tried for one
// canonical field. The first present, non-empty value wins; the order is a
// business decision (grand_total outranks total because it already carries
// service charge and discount adjustments), not an implementation detail.
type FieldCandidates []string

var (
	identityFields  = FieldCandidates{"id", "order_id", "bill_id", "orderId", "billId", "sale_id"}
	branchFields    = FieldCandidates{"branch_id", "branchId", "branch", "restaurant_branch_id"}
	amountFields    = FieldCandidates{"grand_total", "net_total", "total", "amount", "total_amount", "bill_amount", "paid_amount"}
	timestampFields = FieldCandidates{"created_at", "order_date", "bill_date", "date", "createdAt", "timestamp", "updated_at"}
	statusFields    = FieldCandidates{"status", "order_status", "bill_status"}
	methodFields    = FieldCandidates{"payment_method", "paymentMethod", "payment_type"}
	payStateFields  = FieldCandidates{"payment_status", "paymentStatus"}
	modeFields      = FieldCandidates{"payment_mode", "paymentMode"}
	customerFields  = FieldCandidates{"customer_id", "customerId", "customer", "client_id"}
	creditFields    = FieldCandidates{"is_credit", "credit", "is_credit_sale", "credit_sale"}
)

// First returns the first present, non-empty candidate value.
func (c FieldCandidates) First(row map[string]any) (any, bool) {
	for _, name := range c {
		v, present := row[name]
		if !present || v == nil {
			continue
		}
		if s, isString := v.(string); isString && strings.TrimSpace(s) == "" {
			continue
		}
		return v, true
	}
	return nil, false
}

// MapRecord normalizes an arbitrary raw record into the canonical schema.
func MapRecord(row map[string]any, origin Source) Record {
	rec := Record{Source: origin, Amount: decimal.Zero}
	if v, ok := identityFields.First(row); ok {
		rec.ID = stringValue(v)
	}
	if v, ok := branchFields.First(row); ok {
		rec.BranchID = stringValue(v)
	}
	if v, ok := amountFields.First(row); ok {
		rec.Amount = decimalValue(v)
	}
	if v, ok := timestampFields.First(row); ok {
		rec.OccurredAt = timeValue(v)
	}
	if v, ok := statusFields.First(row); ok {
		rec.Status = strings.ToLower(strings.TrimSpace(stringValue(v)))
	}
	if v, ok := methodFields.First(row); ok {
		rec.PaymentMethod = strings.TrimSpace(stringValue(v))
	}
	if v, ok := payStateFields.First(row); ok {
		rec.PaymentStatus = strings.TrimSpace(stringValue(v))
	}
	if v, ok := modeFields.First(row); ok {
		rec.PaymentMode = strings.TrimSpace(stringValue(v))
	}
	if v, ok := customerFields.First(row); ok {
		rec.CustomerID = int64Value(v)
	}
	if v, ok := creditFields.First(row); ok {
		rec.CreditFlag = truthy(v)
	}
	return rec
}

func stringValue(v any) string {
	switch val := v.(type) {
	case string:
		return strings.TrimSpace(val)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(val)
	default:
		return ""
	}
}

func decimalValue(v any) decimal.Decimal {
	switch val := v.(type) {
	case float64:
		return decimal.NewFromFloat(val)
	case string:
		d, err := decimal.NewFromString(strings.TrimSpace(val))
		if err != nil {
			return decimal.Zero
		}
		return d
	default:
		return decimal.Zero
	}
}

// timestampLayouts are tried in order for string timestamps. Layouts without
// a zone are interpreted in local time, matching how branch terminals report.
var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

func timeValue(v any) time.Time {
	switch val := v.(type) {
	case string:
		s := strings.TrimSpace(val)
		for _, layout := range timestampLayouts {
			if layout == time.RFC3339 {
				if t, err := time.Parse(layout, s); err == nil {
					return t
				}
				continue
			}
			if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
				return t
			}
		}
	case float64:
		// Unix seconds, seen on one of the order exports.
		if val > 1e9 {
			return time.Unix(int64(val), 0)
		}
	}
	return time.Time{}
}

func int64Value(v any) int64 {
	switch val := v.(type) {
	case float64:
		return int64(val)
	case string:
		n, err := strconv.ParseInt(strings.TrimSpace(val), 10, 64)
		if err != nil {
			return 0
		}
		return n
	default:
		return 0
	}
}

// truthy accepts boolean true, integer 1, and string "1"/"true".
func truthy(v any) bool {
	switch val := v.(type) {
	case bool:
		return val
	case float64:
		return val == 1
	case string:
		s := strings.ToLower(strings.TrimSpace(val))
		return s == "1" || s == "true"
	default:
		return false
	}
}

package stats

import "strings"

// CreditPredicate is one independent signal that a record is a credit sale.
// No single upstream field flags credit reliably across all sources, so
// classification is a disjunction: any one signal suffices, none is
// individually necessary.
type CreditPredicate struct {
	Name string
	Test func(Record) bool
}

// CreditPredicates in evaluation order.
var CreditPredicates = []CreditPredicate{
	{
		Name: "explicit credit flag",
		Test: func(r Record) bool { return r.CreditFlag },
	},
	{
		Name: "payment method is credit",
		Test: func(r Record) bool { return foldEqual(r.PaymentMethod, "credit") },
	},
	{
		Name: "payment status is credit",
		Test: func(r Record) bool { return foldEqual(r.PaymentStatus, "credit") },
	},
	{
		Name: "unpaid or pending with a registered customer",
		Test: func(r Record) bool {
			s := strings.ToLower(strings.TrimSpace(r.PaymentStatus))
			return (s == "unpaid" || s == "pending") && r.CustomerID > 0
		},
	},
}

// IsCredit reports whether the record represents a credit (customer-billed,
// unpaid at time of sale) transaction.
func IsCredit(r Record) bool {
	for _, p := range CreditPredicates {
		if p.Test(r) {
			return true
		}
	}
	return false
}

// PaymentDisplay returns the label shown for the record's payment method.
// Credit sales always display "Credit" regardless of the raw value;
// otherwise the first non-empty of method, mode, and status is shown verbatim.
func PaymentDisplay(r Record) string {
	if IsCredit(r) {
		return "Credit"
	}
	for _, v := range []string{r.PaymentMethod, r.PaymentMode, r.PaymentStatus} {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

func foldEqual(v, want string) bool {
	return strings.EqualFold(strings.TrimSpace(v), want)
}

package stats

// MergeSources deduplicates records across sources by identity. Lists must
// be passed in source-priority order (sales first, then bills, then orders):
// the first source seen for an identity is authoritative and later copies
// only backfill fields it left empty. Records without an identity are never
// deduplicated.
func MergeSources(lists ...[]Record) []Record {
	total := 0
	for _, list := range lists {
		total += len(list)
	}
	merged := make([]Record, 0, total)
	seen := make(map[string]int, total)

	for _, list := range lists {
		for _, rec := range list {
			if rec.ID == "" {
				merged = append(merged, rec)
				continue
			}
			idx, dup := seen[rec.ID]
			if !dup {
				seen[rec.ID] = len(merged)
				merged = append(merged, rec)
				continue
			}
			backfill(&merged[idx], rec)
		}
	}
	return merged
}

// backfill copies values from src into dst only where dst has none. Existing
// values are never overwritten, so on conflict the first source wins.
func backfill(dst *Record, src Record) {
	if dst.CustomerID == 0 && src.CustomerID != 0 {
		dst.CustomerID = src.CustomerID
	}
	if dst.PaymentMethod == "" && src.PaymentMethod != "" {
		dst.PaymentMethod = src.PaymentMethod
	}
	if dst.PaymentStatus == "" && src.PaymentStatus != "" {
		dst.PaymentStatus = src.PaymentStatus
	}
	if dst.PaymentMode == "" && src.PaymentMode != "" {
		dst.PaymentMode = src.PaymentMode
	}
	if dst.Status == "" && src.Status != "" {
		dst.Status = src.Status
	}
	if dst.OccurredAt.IsZero() && !src.OccurredAt.IsZero() {
		dst.OccurredAt = src.OccurredAt
	}
	if dst.Amount.IsZero() && !src.Amount.IsZero() {
		dst.Amount = src.Amount
	}
	if !dst.CreditFlag && src.CreditFlag {
		dst.CreditFlag = true
	}
}

package stats

import "strings"

// BelongsToBranch reports whether the record can be proven to belong to the
// target branch. Records without a branch id are rejected outright: losing a
// legitimately-owned record is preferred over leaking another branch's data
// into this branch's totals.
func BelongsToBranch(r Record, branchID string) bool {
	rec := strings.TrimSpace(r.BranchID)
	if rec == "" {
		return false
	}
	return rec == strings.TrimSpace(branchID)
}

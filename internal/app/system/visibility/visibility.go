// Package visibility computes which reports a user may open. It is a pure
// projection over the current report list and the user's grant set. It
// holds no state and must be re-run whenever either input changes.
package visibility

import "github.com/edsonjmoreira/bi-portal/internal/domain/models"

// VisibleReports returns the reports that are globally visible AND granted
// to the user, preserving the order of the reports slice (the registry's
// publish order).
func VisibleReports(u *models.User, reports []models.Report) []models.Report {
	if u == nil {
		return nil
	}
	var out []models.Report
	for _, r := range reports {
		if r.IsVisible && u.HasGrant(r.ID) {
			out = append(out, r)
		}
	}
	return out
}

// CanOpen reports whether the user may open one specific report: it must
// be globally visible and in the user's grant set.
func CanOpen(u *models.User, r *models.Report) bool {
	if u == nil || r == nil {
		return false
	}
	return r.IsVisible && u.HasGrant(r.ID)
}

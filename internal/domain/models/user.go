// internal/domain/models/user.go
package models

import "time"

// User account statuses. New registrations start as StatusPending and stay
// there until an administrator approves or suspends the account.
const (
	StatusPending   = "PENDING"
	StatusApproved  = "APPROVED"
	StatusSuspended = "SUSPENDED"
)

// ValidStatus reports whether s is one of the known account statuses.
func ValidStatus(s string) bool {
	return s == StatusPending || s == StatusApproved || s == StatusSuspended
}

// User is a portal account created through self-registration.
//
// Usernames are unique case-insensitively: UsernameCI holds the folded form
// and is the field lookups and the uniqueness index run against. Usernames
// are immutable after registration, so uniqueness is only checked there.
//
// VisibleReportIDs is the set of reports an administrator has explicitly
// granted to this user. Membership is set-like (no duplicates); a report id
// is pruned from every user when the report itself is deleted.
type User struct {
	ID               string   `bson:"_id" json:"id"`
	Username         string   `bson:"username" json:"username"`
	UsernameCI       string   `bson:"username_ci" json:"username_ci"` // lowercase, trimmed
	PasswordHash     string   `bson:"password_hash" json:"-"`
	Status           string   `bson:"status" json:"status"`
	VisibleReportIDs []string `bson:"visible_report_ids" json:"visible_report_ids"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// HasGrant reports whether the user has been granted the given report.
func (u *User) HasGrant(reportID string) bool {
	for _, id := range u.VisibleReportIDs {
		if id == reportID {
			return true
		}
	}
	return false
}

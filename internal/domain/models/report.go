// internal/domain/models/report.go
package models

import "time"

// Report is a published embed link to an externally hosted BI report.
//
// Src is always a canonical absolute URL; the registry resolves it from
// whatever the administrator pasted (an <iframe> snippet or a bare link)
// before a Report is ever created.
//
// IsVisible is the global publish flag. A member sees a report only when it
// is globally visible AND present in their grant set.
type Report struct {
	ID        string `bson:"_id" json:"id"`
	Title     string `bson:"title" json:"title"`
	Src       string `bson:"src" json:"src"`
	IsVisible bool   `bson:"is_visible" json:"is_visible"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// Package htmlsanitize strips unsafe markup from administrator-supplied
// HTML before it is rendered into pages (footer text, header subtitle).
package htmlsanitize

import (
	"html/template"

	"github.com/microcosm-cc/bluemonday"
)

var policy = bluemonday.UGCPolicy()

// Sanitize returns s with scripts, event handlers, and javascript: URLs
// removed. Safe formatting tags and links survive.
func Sanitize(s string) string {
	return policy.Sanitize(s)
}

// SanitizeHTML sanitizes s and marks the result safe for template
// interpolation.
func SanitizeHTML(s string) template.HTML {
	return template.HTML(policy.Sanitize(s))
}

// internal/app/system/reportreg/parse.go
package reportreg

import (
	"errors"
	"net/url"
	"regexp"
	"strings"
)

var (
	// ErrMissingSrc is returned for iframe input without a src attribute.
	ErrMissingSrc = errors.New(`the iframe embed code has no "src" attribute`)
	// ErrUnrecognizedInput is returned when the input is neither an
	// iframe snippet nor a link.
	ErrUnrecognizedInput = errors.New("paste the HTML embed code or a public report link")
	// ErrInvalidURL is returned when the extracted string is not a
	// well-formed absolute URL.
	ErrInvalidURL = errors.New("the extracted report URL is not valid")
)

var srcAttr = regexp.MustCompile(`src="([^"]*)"`)

// ParseEmbedInput resolves what an administrator pasted into a canonical
// absolute URL. Rules, in order:
//
//  1. input starting with "<iframe": the value of its src="..." attribute
//  2. input starting with "http": the whole trimmed input
//  3. anything else is rejected
//
// Whatever rule matched, the result must parse as an absolute URL.
func ParseEmbedInput(rawInput string) (string, error) {
	trimmed := strings.TrimSpace(rawInput)

	var src string
	switch {
	case strings.HasPrefix(trimmed, "<iframe"):
		m := srcAttr.FindStringSubmatch(trimmed)
		if m == nil || m[1] == "" {
			return "", ErrMissingSrc
		}
		src = m[1]
	case strings.HasPrefix(trimmed, "http"):
		src = trimmed
	default:
		return "", ErrUnrecognizedInput
	}

	u, err := url.Parse(src)
	if err != nil || !u.IsAbs() || u.Host == "" {
		return "", ErrInvalidURL
	}
	return src, nil
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}

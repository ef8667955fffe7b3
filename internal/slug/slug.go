// Package slug derives URL-safe post identifiers from titles.
package slug

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"
)

var nonAlnum = regexp.MustCompile(`[^a-z0-9]+`)

// Make normalizes a title into its base slug: lowercase, every run of
// characters outside [a-z0-9] collapsed to a single hyphen, and leading or
// trailing hyphens stripped. A title made entirely of such characters
// yields "".
func Make(title string) string {
	s := strings.ToLower(title)
	s = nonAlnum.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

// WithSuffix appends the collision counter to a base slug.
func WithSuffix(base string, n int) string {
	return fmt.Sprintf("%s-%d", base, n)
}

// Fallback returns a generated slug for titles that normalize to an empty
// string (for example a title of only punctuation).
func Fallback() string {
	return "post-" + strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
}

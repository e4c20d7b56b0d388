package detectors

import (
	"regexp"
	"strings"
)

var reEmail = regexp.MustCompile(`[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}`)

// Allower reports whether a lower-cased email address is intentionally public.
type Allower interface {
	Allows(email string) bool
}

// FirstEmail returns the first email-like string in text that allow does not
// exempt. The match is returned as it appears in the text. A nil allow
// exempts nothing.
func FirstEmail(text string, allow Allower) (string, bool) {
	for _, m := range reEmail.FindAllString(text, -1) {
		if allow != nil && allow.Allows(strings.ToLower(strings.TrimSpace(m))) {
			continue
		}
		return m, true
	}
	return "", false
}

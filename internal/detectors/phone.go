package detectors

import (
	"regexp"
	"strings"
	"unicode"
)

// Candidate matcher; a candidate is only reported when it survives the
// suppression checks in SuppressPhone. Digits and whitespace are
// Unicode-aware, so fullwidth digits and no-break spaces match like their
// ASCII forms.
var (
	rePhoneCandidate = regexp.MustCompile(`\+?\p{Nd}[\p{Nd}\s\p{Zs}\v\x{1c}-\x{1f}\x{85}\x{2028}\x{2029}().-]{7,}\p{Nd}`)
	reDate           = regexp.MustCompile(`^\p{Nd}{4}(?:-\p{Nd}{2}-|/\p{Nd}{2}/|\.\p{Nd}{2}\.)\p{Nd}{2}$`)
	reIPv4           = regexp.MustCompile(`^\p{Nd}{1,3}(?:\.\p{Nd}{1,3}){3}$`)
)

// minPhoneDigits is the fewest digits a candidate needs to be reported.
const minPhoneDigits = 10

// Suppression names why a phone candidate was not reported.
type Suppression string

const (
	NotSuppressed    Suppression = ""
	SuppressDate     Suppression = "date"
	SuppressIPv4     Suppression = "ipv4"
	SuppressNoPunct  Suppression = "no-punctuation"
	SuppressTooShort Suppression = "too-few-digits"
)

// LooksLikeDate reports whether s is a YYYY-MM-DD style date using one of
// '-', '/' or '.' as a consistent separator.
func LooksLikeDate(s string) bool {
	return reDate.MatchString(strings.TrimSpace(s))
}

// LooksLikeIPv4 reports whether s is a dotted quad such as 127.0.0.1.
func LooksLikeIPv4(s string) bool {
	return reIPv4.MatchString(strings.TrimSpace(s))
}

// HasPhonePunctuation reports whether s contains any of + ( ) -.
// A bare digit run (account or order numbers) does not.
func HasPhonePunctuation(s string) bool {
	return strings.ContainsAny(s, "+()-")
}

// CountDigits returns the number of decimal digits in s, in any script.
func CountDigits(s string) int {
	n := 0
	for _, r := range s {
		if unicode.IsDigit(r) {
			n++
		}
	}
	return n
}

// SuppressPhone returns the first reason candidate is not phone-like, in
// order: date, IPv4, missing punctuation, too few digits.
func SuppressPhone(candidate string) Suppression {
	s := strings.TrimSpace(candidate)
	switch {
	case LooksLikeDate(s):
		return SuppressDate
	case LooksLikeIPv4(s):
		return SuppressIPv4
	case !HasPhonePunctuation(s):
		return SuppressNoPunct
	case CountDigits(s) < minPhoneDigits:
		return SuppressTooShort
	}
	return NotSuppressed
}

// PhoneCandidates returns every phone-shaped run in text, left to right,
// before suppression.
func PhoneCandidates(text string) []string {
	return rePhoneCandidate.FindAllString(text, -1)
}

// FirstPhone returns the first phone-like candidate in text that is not
// suppressed, trimmed of surrounding whitespace.
func FirstPhone(text string) (string, bool) {
	for _, c := range PhoneCandidates(text) {
		if SuppressPhone(c) == NotSuppressed {
			return strings.TrimSpace(c), true
		}
	}
	return "", false
}

package types

import "fmt"

// Kind classifies a problem reported by the audit.
type Kind string

const (
	KindForbiddenPath      Kind = "forbidden-path"
	KindForbiddenExtension Kind = "forbidden-extension"
	KindEmailLeak          Kind = "email-leak"
	KindPhoneLeak          Kind = "phone-leak"
	KindReadError          Kind = "read-error"
)

// Kinds lists every problem kind in report order.
func Kinds() []Kind {
	return []Kind{KindForbiddenPath, KindForbiddenExtension, KindEmailLeak, KindPhoneLeak, KindReadError}
}

// Problem is one violation found in the publishable file set. Path is
// relative to the audited root and slash-separated.
type Problem struct {
	Kind   Kind   `json:"kind"`
	Path   string `json:"path"`
	Match  string `json:"match,omitempty"`  // offending text for content leaks
	Detail string `json:"detail,omitempty"` // error text for read failures
}

// String renders the problem as a single human-readable line.
func (p Problem) String() string {
	switch p.Kind {
	case KindForbiddenPath:
		return "Forbidden path in public repo: " + p.Path
	case KindForbiddenExtension:
		return "Forbidden file type in public repo: " + p.Path
	case KindEmailLeak:
		return fmt.Sprintf("Email-like string found in %s: %s", p.Path, p.Match)
	case KindPhoneLeak:
		return fmt.Sprintf("Phone-like string found in %s: %s", p.Path, p.Match)
	case KindReadError:
		return fmt.Sprintf("Could not read %s: %s", p.Path, p.Detail)
	default:
		return fmt.Sprintf("%s: %s", p.Kind, p.Path)
	}
}

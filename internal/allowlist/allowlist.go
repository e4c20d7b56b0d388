// Package allowlist loads the set of intentionally public email addresses and
// domains that the audit must not flag.
package allowlist

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// DefaultPath is the allowlist location relative to the audited root.
const DefaultPath = "tools/privacy_allowlist.json"

// Allowlist holds lower-cased emails and email domains exempt from reporting.
// The zero value allows nothing.
type Allowlist struct {
	Emails  map[string]bool
	Domains map[string]bool
}

// Empty returns an allowlist that exempts nothing.
func Empty() Allowlist {
	return Allowlist{Emails: map[string]bool{}, Domains: map[string]bool{}}
}

// Allows reports whether email (already lower-cased) is exempt, either as an
// exact address or through its domain.
func (a Allowlist) Allows(email string) bool {
	if a.Emails[email] {
		return true
	}
	if _, domain, ok := strings.Cut(email, "@"); ok && a.Domains[domain] {
		return true
	}
	return false
}

// Len returns the total number of entries.
func (a Allowlist) Len() int { return len(a.Emails) + len(a.Domains) }

// Load reads the allowlist at DefaultPath under root. A missing file yields an
// empty allowlist; an unreadable or malformed file is an error.
func Load(root string) (Allowlist, error) {
	return LoadFile(filepath.Join(root, filepath.FromSlash(DefaultPath)))
}

// LoadFile reads the allowlist at path. A missing file yields an empty
// allowlist.
func LoadFile(path string) (Allowlist, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Empty(), nil
		}
		return Allowlist{}, fmt.Errorf("read allowlist %s: %w", path, err)
	}
	al, err := Parse(b)
	if err != nil {
		return Allowlist{}, fmt.Errorf("parse allowlist %s: %w", path, err)
	}
	return al, nil
}

// Parse decodes allowlist JSON of the form
//
//	{"allowed_emails": [...], "allowed_email_domains": [...]}
//
// Both fields are optional but must be arrays when present. Entries are
// coerced to strings, trimmed and lower-cased; null and blank entries are
// dropped.
func Parse(b []byte) (Allowlist, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(b, &raw); err != nil {
		return Allowlist{}, err
	}
	if raw == nil {
		return Allowlist{}, errors.New("top-level value must be an object")
	}
	emails, err := stringSet(raw, "allowed_emails")
	if err != nil {
		return Allowlist{}, err
	}
	domains, err := stringSet(raw, "allowed_email_domains")
	if err != nil {
		return Allowlist{}, err
	}
	return Allowlist{Emails: emails, Domains: domains}, nil
}

func stringSet(raw map[string]json.RawMessage, key string) (map[string]bool, error) {
	out := map[string]bool{}
	msg, ok := raw[key]
	if !ok {
		return out, nil
	}
	if bytes.Equal(bytes.TrimSpace(msg), []byte("null")) {
		return nil, fmt.Errorf("%s must be an array, got null", key)
	}
	var items []any
	dec := json.NewDecoder(bytes.NewReader(msg))
	dec.UseNumber()
	if err := dec.Decode(&items); err != nil {
		return nil, fmt.Errorf("%s must be an array: %w", key, err)
	}
	for _, it := range items {
		s := strings.ToLower(strings.TrimSpace(coerce(it)))
		if s != "" {
			out[s] = true
		}
	}
	return out, nil
}

func coerce(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case json.Number:
		return x.String()
	case bool:
		if x {
			return "true"
		}
		return "false"
	default:
		b, _ := json.Marshal(x)
		return string(b)
	}
}

// Skeleton is the content written for a new, empty allowlist.
func Skeleton() []byte {
	return []byte("{\n  \"allowed_emails\": [],\n  \"allowed_email_domains\": []\n}\n")
}

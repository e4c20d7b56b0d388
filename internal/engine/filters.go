package engine

import (
	"fmt"
	"path"
	"strings"

	doublestar "github.com/bmatcuk/doublestar/v4"
)

// DefaultForbiddenDirs are top-level directories that must never be published.
var DefaultForbiddenDirs = []string{"cv"}

// DefaultForbiddenExtensions are document formats that are unsafe to
// content-scan and likely to carry personal data.
var DefaultForbiddenExtensions = []string{".pdf", ".doc", ".docx"}

// DefaultTextExtensions are scanned for emails and phone numbers.
var DefaultTextExtensions = []string{
	".html", ".css", ".js", ".ts", ".md", ".txt",
	".json", ".xml", ".yml", ".yaml", ".svg",
}

// rules is the compiled form of the denylist and scan-set configuration.
type rules struct {
	dirs  map[string]bool
	exts  map[string]bool
	text  map[string]bool
	globs []string
}

func newRules(cfg Config) (rules, error) {
	r := rules{
		dirs: set(orDefault(cfg.ForbiddenDirs, DefaultForbiddenDirs), false),
		exts: set(orDefault(cfg.ForbiddenExtensions, DefaultForbiddenExtensions), true),
		text: set(orDefault(cfg.TextExtensions, DefaultTextExtensions), true),
	}
	for _, g := range cfg.ForbiddenGlobs {
		g = strings.TrimSpace(g)
		if g == "" {
			continue
		}
		if !doublestar.ValidatePattern(g) {
			return rules{}, fmt.Errorf("invalid forbidden glob %q", g)
		}
		r.globs = append(r.globs, g)
	}
	return r, nil
}

func orDefault(v, def []string) []string {
	if v == nil {
		return def
	}
	return v
}

// set builds a lookup set. Extensions are lower-cased and given a leading dot;
// directory names stay exact.
func set(items []string, ext bool) map[string]bool {
	out := make(map[string]bool, len(items))
	for _, it := range items {
		it = strings.TrimSpace(it)
		if it == "" {
			continue
		}
		if ext {
			it = strings.ToLower(it)
			if !strings.HasPrefix(it, ".") {
				it = "." + it
			}
		}
		out[it] = true
	}
	return out
}

// forbiddenPath reports whether rel (slash-separated) sits under a forbidden
// top-level directory or matches a forbidden glob.
func (r rules) forbiddenPath(rel string) bool {
	first, _, _ := strings.Cut(rel, "/")
	if r.dirs[first] {
		return true
	}
	for _, g := range r.globs {
		if ok, _ := doublestar.Match(g, rel); ok {
			return true
		}
	}
	return false
}

func (r rules) forbiddenExt(rel string) bool { return r.exts[Ext(rel)] }

func (r rules) scannable(rel string) bool { return r.text[Ext(rel)] }

// Ext returns the lower-cased final suffix of the last path element,
// including the dot. Dotfiles such as ".bashrc" and names ending in a dot
// have no extension.
func Ext(rel string) string {
	base := path.Base(rel)
	i := strings.LastIndexByte(base, '.')
	if i <= 0 || i == len(base)-1 {
		return ""
	}
	return strings.ToLower(base[i:])
}

package engine

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/redactyl/privaudit/internal/allowlist"
	"github.com/redactyl/privaudit/internal/detectors"
	"github.com/redactyl/privaudit/internal/git"
	"github.com/redactyl/privaudit/internal/types"
)

// DefaultGitTimeout bounds the git listing subprocess.
const DefaultGitTimeout = 30 * time.Second

var (
	// ErrRootNotFound is returned when the audit root does not exist.
	ErrRootNotFound = errors.New("path does not exist")
	// ErrRootNotDir is returned when the audit root is not a directory.
	ErrRootNotDir = errors.New("path is not a directory")
)

var defaultListFiles = git.ListFiles

// Config controls what is enumerated, which paths are forbidden and which
// files are scanned. Nil slices select the built-in defaults; an empty
// non-nil slice disables that rule.
type Config struct {
	Root string
	// AllowlistPath overrides <Root>/tools/privacy_allowlist.json. Relative
	// paths resolve against Root.
	AllowlistPath       string
	ForbiddenDirs       []string
	ForbiddenExtensions []string
	ForbiddenGlobs      []string
	TextExtensions      []string
	GitTimeout          time.Duration
	Logger              *zap.Logger

	// ListFiles replaces the git listing; nil uses git ls-files.
	ListFiles func(ctx context.Context, root string) ([]string, error)
}

func (c Config) gitTimeout() time.Duration {
	if c.GitTimeout <= 0 {
		return DefaultGitTimeout
	}
	return c.GitTimeout
}

func (c Config) logger() *zap.Logger {
	if c.Logger == nil {
		return zap.NewNop()
	}
	return c.Logger
}

// AllowlistFile resolves the allowlist location against Root.
func (c Config) AllowlistFile() string {
	if c.AllowlistPath == "" {
		return filepath.Join(c.Root, filepath.FromSlash(allowlist.DefaultPath))
	}
	if filepath.IsAbs(c.AllowlistPath) {
		return c.AllowlistPath
	}
	return filepath.Join(c.Root, c.AllowlistPath)
}

// Result contains problems and basic audit statistics.
type Result struct {
	Root         string
	Problems     []types.Problem
	Source       Source
	FilesListed  int
	FilesScanned int
	Duration     time.Duration
}

// Failed reports whether any problem was found.
func (r Result) Failed() bool { return len(r.Problems) > 0 }

// CheckRoot verifies root exists and is a directory.
func CheckRoot(root string) error {
	st, err := os.Stat(root)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("%w: %s", ErrRootNotFound, root)
		}
		return fmt.Errorf("stat %s: %w", root, err)
	}
	if !st.IsDir() {
		return fmt.Errorf("%w: %s", ErrRootNotDir, root)
	}
	return nil
}

// Run audits cfg.Root. Configuration problems (missing root, malformed
// allowlist, invalid glob) are returned as errors before any file is read;
// everything found in the file set is returned as problems.
func Run(ctx context.Context, cfg Config) (Result, error) {
	start := time.Now()
	log := cfg.logger()
	res := Result{Root: cfg.Root}

	if err := CheckRoot(cfg.Root); err != nil {
		return res, err
	}
	// A symlinked root is audited through its target; the walk would
	// otherwise see a single link and list nothing.
	resolved, err := filepath.EvalSymlinks(cfg.Root)
	if err != nil {
		return res, fmt.Errorf("resolve %s: %w", cfg.Root, err)
	}
	cfg.Root = resolved
	r, err := newRules(cfg)
	if err != nil {
		return res, err
	}
	allow, err := allowlist.LoadFile(cfg.AllowlistFile())
	if err != nil {
		return res, err
	}
	log.Debug("allowlist loaded",
		zap.Int("emails", len(allow.Emails)),
		zap.Int("domains", len(allow.Domains)))

	listing, err := Enumerate(ctx, cfg)
	if err != nil {
		return res, err
	}
	if listing.Source == SourceWalk {
		log.Debug("git listing unavailable, walked the tree instead", zap.Error(listing.Fallback))
	}
	log.Debug("enumerated files", zap.String("source", string(listing.Source)), zap.Int("files", len(listing.Files)))
	res.Source = listing.Source
	res.FilesListed = len(listing.Files)

	// Path and type checks run over the whole list before any content is
	// read, so they lead the report.
	skip := map[string]bool{}
	for _, rel := range listing.Files {
		switch {
		case r.forbiddenPath(rel):
			res.Problems = append(res.Problems, types.Problem{Kind: types.KindForbiddenPath, Path: rel})
			skip[rel] = true
		case r.forbiddenExt(rel):
			res.Problems = append(res.Problems, types.Problem{Kind: types.KindForbiddenExtension, Path: rel})
		}
	}

	for _, rel := range listing.Files {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		if skip[rel] || !r.scannable(rel) {
			continue
		}
		res.FilesScanned++
		res.Problems = append(res.Problems, ScanFile(cfg.Root, rel, allow)...)
	}

	res.Duration = time.Since(start)
	log.Debug("audit finished",
		zap.Int("problems", len(res.Problems)),
		zap.Int("scanned", res.FilesScanned),
		zap.Duration("duration", res.Duration))
	return res, nil
}

// ScanFile reads root/rel and reports at most one email and one phone
// problem. A read failure is reported as a single read-error problem.
func ScanFile(root, rel string, allow detectors.Allower) []types.Problem {
	b, err := os.ReadFile(filepath.Join(root, filepath.FromSlash(rel)))
	if err != nil {
		return []types.Problem{{Kind: types.KindReadError, Path: rel, Detail: readErrorDetail(err)}}
	}
	return ScanText(rel, b, allow)
}

// ScanText scans already-loaded content. Invalid UTF-8 sequences are dropped
// before matching.
func ScanText(rel string, data []byte, allow detectors.Allower) []types.Problem {
	text := strings.ToValidUTF8(string(data), "")
	var out []types.Problem
	if m, ok := detectors.FirstEmail(text, allow); ok {
		out = append(out, types.Problem{Kind: types.KindEmailLeak, Path: rel, Match: m})
	}
	if m, ok := detectors.FirstPhone(text); ok {
		out = append(out, types.Problem{Kind: types.KindPhoneLeak, Path: rel, Match: m})
	}
	return out
}

func readErrorDetail(err error) string {
	var pe *os.PathError
	if errors.As(err, &pe) {
		return pe.Op + ": " + pe.Err.Error()
	}
	return err.Error()
}

package engine

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
)

// Source names how the candidate file list was produced.
type Source string

const (
	// SourceGit lists tracked plus untracked-but-not-ignored files.
	SourceGit Source = "git"
	// SourceWalk lists every file under the root; ignore rules are not
	// honored.
	SourceWalk Source = "walk"
)

// Listing is the outcome of enumeration. Fallback holds the reason the git
// listing was abandoned when Source is SourceWalk.
type Listing struct {
	Files    []string
	Source   Source
	Fallback error
}

// Enumerate returns the publishable files under cfg.Root, preferring the git
// listing and falling back to a full walk when it is unavailable.
func Enumerate(ctx context.Context, cfg Config) (Listing, error) {
	list := cfg.ListFiles
	if list == nil {
		list = defaultListFiles
	}

	gctx, cancel := context.WithTimeout(ctx, cfg.gitTimeout())
	files, err := list(gctx, cfg.Root)
	cancel()
	if err == nil {
		return Listing{Files: dedupe(files), Source: SourceGit}, nil
	}
	if ctx.Err() != nil {
		return Listing{}, ctx.Err()
	}

	files, werr := Walk(ctx, cfg.Root)
	if werr != nil {
		return Listing{}, werr
	}
	return Listing{Files: files, Source: SourceWalk, Fallback: err}, nil
}

// Walk returns every regular file under root, relative and slash-separated,
// skipping any directory named .git. Unreadable directories are skipped. A
// symlinked root is followed.
func Walk(ctx context.Context, root string) ([]string, error) {
	if r, err := filepath.EvalSymlinks(root); err == nil {
		root = r
	}
	var out []string
	err := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err != nil {
			return nil
		}
		if d.IsDir() {
			if d.Name() == ".git" {
				return filepath.SkipDir
			}
			return nil
		}
		if d.Type()&fs.ModeSymlink != 0 {
			if st, err := os.Stat(p); err == nil && st.IsDir() {
				return nil
			}
		}
		// a regular file named .git marks a worktree or submodule link
		if d.Name() == ".git" {
			return nil
		}
		rel, err := filepath.Rel(root, p)
		if err != nil {
			return nil
		}
		out = append(out, filepath.ToSlash(rel))
		return nil
	})
	return out, err
}

func dedupe(files []string) []string {
	seen := make(map[string]bool, len(files))
	out := files[:0]
	for _, f := range files {
		f = filepath.ToSlash(f)
		if seen[f] {
			continue
		}
		seen[f] = true
		out = append(out, f)
	}
	return out
}

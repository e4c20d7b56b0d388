package git

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// validateRoot validates and normalizes a git repository root path.
// Returns the cleaned absolute path or an error if invalid.
func validateRoot(root string) (string, error) {
	// Check for null bytes (potential injection)
	if strings.ContainsRune(root, 0) {
		return "", fmt.Errorf("invalid path: contains null byte")
	}

	cleaned := filepath.Clean(root)
	abs, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("invalid path %q: %w", root, err)
	}

	info, err := os.Stat(abs)
	if err != nil {
		return "", fmt.Errorf("cannot access path %q: %w", root, err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("path is not a directory: %s", root)
	}

	return abs, nil
}

// ListFiles returns the files git would publish from root: tracked files plus
// untracked files that are not excluded by .gitignore, .git/info/exclude or
// the global excludes file. Paths are relative to root and slash-separated.
//
// Any failure (git missing, root outside a work tree, non-zero exit) is
// returned as an error; callers are expected to fall back to a plain walk.
func ListFiles(ctx context.Context, root string) ([]string, error) {
	validRoot, err := validateRoot(root)
	if err != nil {
		return nil, err
	}

	// -z keeps names verbatim; without it git C-quotes names holding quotes,
	// backslashes or control characters even with core.quotepath=off.
	cmd := exec.CommandContext(ctx, "git", "-C", validRoot, "-c", "core.quotepath=off", "ls-files", "-z", "-co", "--exclude-standard")
	out, err := cmd.Output()
	if err != nil {
		var ee *exec.ExitError
		if errors.As(err, &ee) && len(ee.Stderr) > 0 {
			return nil, fmt.Errorf("git ls-files: %w: %s", err, strings.TrimSpace(string(ee.Stderr)))
		}
		return nil, fmt.Errorf("git ls-files: %w", err)
	}
	return parseFileList(string(out)), nil
}

// parseFileList splits NUL-terminated ls-files output. Names are kept
// byte-for-byte, including leading or trailing spaces.
func parseFileList(out string) []string {
	var files []string
	for _, name := range strings.Split(out, "\x00") {
		if name == "" {
			continue
		}
		files = append(files, name)
	}
	return files
}

package privaudit

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, root, rel, content string) {
	t.Helper()
	p := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
}

// isolate keeps the developer's global config out of the run.
func isolate(t *testing.T) string {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	return t.TempDir()
}

func run(t *testing.T, opts auditOptions) (int, string, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := executeAudit(context.Background(), opts, &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func TestExecuteAudit_Passes(t *testing.T) {
	dir := isolate(t)
	writeFile(t, dir, "README.md", "# Site\n\nNothing private here. Built 2024-05-01.\n")

	code, stdout, stderr := run(t, auditOptions{Path: dir})
	assert.Equal(t, exitOK, code)
	assert.Equal(t, "Privacy audit passed.\n", stdout)
	assert.Empty(t, stderr)
}

func TestExecuteAudit_FailsWithProblems(t *testing.T) {
	dir := isolate(t)
	writeFile(t, dir, "notes.txt", "Contact: jane.doe@example.com\n")
	writeFile(t, dir, "cv/resume.md", "call +1 (555) 123-4567\n")

	code, stdout, stderr := run(t, auditOptions{Path: dir})
	assert.Equal(t, exitProblems, code)
	assert.Empty(t, stdout)
	assert.True(t, strings.HasPrefix(stderr, "PRIVACY AUDIT FAILED:\n\n"), stderr)
	assert.Contains(t, stderr, "- Forbidden path in public repo: cv/resume.md\n")
	assert.Contains(t, stderr, "- Email-like string found in notes.txt: jane.doe@example.com\n")
	assert.NotContains(t, stderr, "Phone-like")
	assert.NotContains(t, stderr, "passed")
}

func TestExecuteAudit_MissingRoot(t *testing.T) {
	dir := isolate(t)
	missing := filepath.Join(dir, "nope")

	code, stdout, stderr := run(t, auditOptions{Path: missing})
	assert.Equal(t, exitFatal, code)
	assert.Empty(t, stdout)
	assert.Equal(t, "error: path does not exist: "+missing+"\n", stderr)
}

func TestExecuteAudit_RootIsFile(t *testing.T) {
	dir := isolate(t)
	writeFile(t, dir, "file.txt", "x")

	code, _, stderr := run(t, auditOptions{Path: filepath.Join(dir, "file.txt")})
	assert.Equal(t, exitFatal, code)
	assert.Contains(t, stderr, "not a directory")
}

func TestExecuteAudit_MalformedAllowlistIsFatal(t *testing.T) {
	dir := isolate(t)
	writeFile(t, dir, "tools/privacy_allowlist.json", "{not json")
	writeFile(t, dir, "notes.txt", "jane@example.com")

	code, stdout, stderr := run(t, auditOptions{Path: dir})
	assert.Equal(t, exitFatal, code)
	assert.Empty(t, stdout)
	assert.True(t, strings.HasPrefix(stderr, "error: "), stderr)
	assert.NotContains(t, stderr, "PRIVACY AUDIT FAILED")
}

func TestExecuteAudit_AllowlistFlag(t *testing.T) {
	dir := isolate(t)
	writeFile(t, dir, "notes.txt", "Write to hello@studio.example\n")
	writeFile(t, dir, "meta/allow.json", `{"allowed_email_domains": ["STUDIO.example"]}`)

	code, _, _ := run(t, auditOptions{Path: dir})
	assert.Equal(t, exitProblems, code)

	code, stdout, _ := run(t, auditOptions{Path: dir, Allowlist: "meta/allow.json"})
	assert.Equal(t, exitOK, code)
	assert.Equal(t, "Privacy audit passed.\n", stdout)
}

func TestExecuteAudit_LocalConfig(t *testing.T) {
	dir := isolate(t)
	writeFile(t, dir, ".privaudit.yml", "forbidden_dirs: [private]\nforbidden_globs: [\"**/*.key\"]\n")
	writeFile(t, dir, "private/a.txt", "nothing")
	writeFile(t, dir, "cv/b.txt", "nothing")
	writeFile(t, dir, "deploy/site.key", "nothing")

	code, _, stderr := run(t, auditOptions{Path: dir})
	assert.Equal(t, exitProblems, code)
	assert.Contains(t, stderr, "Forbidden path in public repo: private/a.txt")
	assert.Contains(t, stderr, "Forbidden path in public repo: deploy/site.key")
	assert.NotContains(t, stderr, "cv/b.txt")
}

func TestExecuteAudit_MalformedConfigIsFatal(t *testing.T) {
	dir := isolate(t)
	writeFile(t, dir, ".privaudit.yml", "forbidden_dirs: [unterminated\n")

	code, _, stderr := run(t, auditOptions{Path: dir})
	assert.Equal(t, exitFatal, code)
	assert.Contains(t, stderr, "error: config:")
}

func TestExecuteAudit_BadGitTimeoutIsFatal(t *testing.T) {
	dir := isolate(t)
	writeFile(t, dir, ".privaudit.yml", "git_timeout: soon\n")

	code, _, stderr := run(t, auditOptions{Path: dir})
	assert.Equal(t, exitFatal, code)
	assert.Contains(t, stderr, "git_timeout")
}

func TestExecuteAudit_JSON(t *testing.T) {
	dir := isolate(t)
	writeFile(t, dir, "index.html", "<p>+44 (20) 7946-0958</p>")
	writeFile(t, dir, "docs/paper.pdf", "%PDF")

	code, stdout, stderr := run(t, auditOptions{Path: dir, Format: formatJSON})
	assert.Equal(t, exitProblems, code)
	assert.Empty(t, stderr)

	var doc struct {
		Root     string `json:"root"`
		Passed   bool   `json:"passed"`
		Problems []struct {
			Kind    string `json:"kind"`
			Path    string `json:"path"`
			Message string `json:"message"`
		} `json:"problems"`
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &doc), stdout)
	assert.Equal(t, dir, doc.Root)
	assert.False(t, doc.Passed)
	require.Len(t, doc.Problems, 2)
	assert.Equal(t, "forbidden-extension", doc.Problems[0].Kind)
	assert.Equal(t, "docs/paper.pdf", doc.Problems[0].Path)
	assert.Equal(t, "phone-leak", doc.Problems[1].Kind)
	assert.Equal(t, "Phone-like string found in index.html: +44 (20) 7946-0958", doc.Problems[1].Message)
}

func TestExecuteAudit_JSONPassedHasEmptyProblems(t *testing.T) {
	dir := isolate(t)
	writeFile(t, dir, "a.md", "clean")

	code, stdout, _ := run(t, auditOptions{Path: dir, Format: formatJSON})
	assert.Equal(t, exitOK, code)
	assert.Contains(t, stdout, `"problems": []`)
	assert.Contains(t, stdout, `"passed": true`)
}

func TestExecuteAudit_SARIF(t *testing.T) {
	dir := isolate(t)
	writeFile(t, dir, "a.txt", "me@example.org")

	code, stdout, _ := run(t, auditOptions{Path: dir, Format: formatSARIF})
	assert.Equal(t, exitProblems, code)
	var doc map[string]any
	require.NoError(t, json.Unmarshal([]byte(stdout), &doc), stdout)
	assert.Equal(t, "2.1.0", doc["version"])
}

func TestExecuteAudit_Table(t *testing.T) {
	dir := isolate(t)
	writeFile(t, dir, "a.txt", "me@example.org")

	code, stdout, stderr := run(t, auditOptions{Path: dir, Format: formatTable})
	assert.Equal(t, exitProblems, code)
	assert.Empty(t, stdout)
	assert.Contains(t, stderr, "KIND")
	assert.Contains(t, stderr, "me@example.org")
	assert.Contains(t, stderr, "Problems: 1")
}

func TestExecuteAudit_VerboseLogsToStderr(t *testing.T) {
	dir := isolate(t)
	writeFile(t, dir, "a.md", "clean")

	code, stdout, stderr := run(t, auditOptions{Path: dir, Verbose: true})
	assert.Equal(t, exitOK, code)
	assert.Equal(t, "Privacy audit passed.\n", stdout)
	assert.Contains(t, stderr, "enumerated files")
}

func TestExecuteAudit_SymlinkedRoot(t *testing.T) {
	dir := isolate(t)
	writeFile(t, dir, "index.html", "<a>jane@home.org</a>")
	writeFile(t, dir, "cv/resume.pdf", "%PDF")
	link := filepath.Join(t.TempDir(), "site")
	if err := os.Symlink(dir, link); err != nil {
		t.Skipf("symlinks unavailable: %v", err)
	}

	code, stdout, stderr := run(t, auditOptions{Path: link})
	assert.Equal(t, exitProblems, code)
	assert.Empty(t, stdout)
	assert.Contains(t, stderr, "- Forbidden path in public repo: cv/resume.pdf\n")
	assert.Contains(t, stderr, "- Email-like string found in index.html: jane@home.org\n")
}

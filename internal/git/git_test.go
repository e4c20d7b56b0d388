package git

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"sort"
	"testing"
)

func requireGit(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not installed")
	}
}

func initRepo(t *testing.T) (string, func(args ...string)) {
	t.Helper()
	requireGit(t)
	dir := t.TempDir()
	run := func(args ...string) {
		cmd := exec.Command("git", args...)
		cmd.Dir = dir
		if out, err := cmd.CombinedOutput(); err != nil {
			t.Fatalf("git %v: %v\n%s", args, err, string(out))
		}
	}
	run("init", ".")
	run("config", "user.email", "test@example.com")
	run("config", "user.name", "tester")
	run("config", "commit.gpgsign", "false")
	return dir, run
}

func write(t *testing.T, dir, name, body string) {
	t.Helper()
	p := filepath.Join(dir, filepath.FromSlash(name))
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(p, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestListFiles_HonorsIgnore(t *testing.T) {
	dir, run := initRepo(t)
	write(t, dir, "index.html", "<p>hi</p>")
	write(t, dir, ".gitignore", "cv/\n")
	run("add", "index.html", ".gitignore")
	run("commit", "-m", "init")
	write(t, dir, "notes/draft.md", "untracked but publishable")
	write(t, dir, "cv/resume.pdf", "kept local")

	files, err := ListFiles(context.Background(), dir)
	if err != nil {
		t.Fatalf("ListFiles: %v", err)
	}
	sort.Strings(files)
	want := []string{".gitignore", "index.html", "notes/draft.md"}
	if len(files) != len(want) {
		t.Fatalf("files=%v want %v", files, want)
	}
	for i := range want {
		if files[i] != want[i] {
			t.Fatalf("files=%v want %v", files, want)
		}
	}
}

func TestListFiles_NotARepo(t *testing.T) {
	requireGit(t)
	dir := t.TempDir()
	// keep git from discovering a repository above the temp dir
	t.Setenv("GIT_CEILING_DIRECTORIES", filepath.Dir(dir))
	if _, err := ListFiles(context.Background(), dir); err == nil {
		t.Fatal("expected error outside a git work tree")
	}
}

func TestListFiles_MissingRoot(t *testing.T) {
	if _, err := ListFiles(context.Background(), filepath.Join(t.TempDir(), "nope")); err == nil {
		t.Fatal("expected error for missing root")
	}
}

func TestParseFileList(t *testing.T) {
	got := parseFileList("a.txt\x00 b/c.md \x00cv/my\"cv.pdf\x00")
	want := []string{"a.txt", " b/c.md ", `cv/my"cv.pdf`}
	if len(got) != len(want) {
		t.Fatalf("unexpected parse: %#v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("unexpected parse: %#v", got)
		}
	}
}

func TestListFiles_UnusualNamesVerbatim(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("quote characters are not valid in Windows file names")
	}
	dir, run := initRepo(t)
	write(t, dir, `cv/my"cv.pdf`, "%PDF")
	write(t, dir, `notes".md`, "jane@home.org")
	write(t, dir, "tab\tname.txt", "x")
	run("add", ".")

	files, err := ListFiles(context.Background(), dir)
	if err != nil {
		t.Fatalf("ListFiles: %v", err)
	}
	sort.Strings(files)
	want := []string{`cv/my"cv.pdf`, `notes".md`, "tab\tname.txt"}
	sort.Strings(want)
	if len(files) != len(want) {
		t.Fatalf("files=%q want %q", files, want)
	}
	for i := range want {
		if files[i] != want[i] {
			t.Fatalf("files=%q want %q", files, want)
		}
	}
}

func TestRepoMetadata(t *testing.T) {
	dir, run := initRepo(t)
	run("commit", "--allow-empty", "-m", "init")
	run("remote", "add", "origin", "git@github.com:acme/site.git")

	repo, commit, branch := RepoMetadata(dir)
	if commit == "" {
		t.Fatalf("expected non-empty commit")
	}
	if branch == "" {
		t.Fatalf("expected non-empty branch")
	}
	if repo != "acme/site" {
		t.Fatalf("expected acme/site, got %q", repo)
	}
}

func TestRepoMetadata_NotARepo(t *testing.T) {
	dir := t.TempDir()
	repo, commit, branch := RepoMetadata(dir)
	if repo != "" || commit != "" || branch != "" {
		t.Fatalf("expected empty metadata, got %q %q %q", repo, commit, branch)
	}
}

func TestShortRepoName(t *testing.T) {
	cases := map[string]string{
		"git@github.com:acme/site.git":  "acme/site",
		"https://github.com/acme/site":  "acme/site",
		"https://gitlab.com/acme/site":  "https://gitlab.com/acme/site",
		"git@gitlab.example:group/proj": "group/proj",
	}
	for in, want := range cases {
		if got := shortRepoName(in); got != want {
			t.Fatalf("shortRepoName(%q)=%q want %q", in, got, want)
		}
	}
}

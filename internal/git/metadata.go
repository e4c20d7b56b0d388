package git

import (
	"strings"

	gogit "github.com/go-git/go-git/v5"
)

// RepoMetadata returns (repo, commit, branch) best-effort for the given root.
// Empty strings are returned for anything that cannot be determined. Only the
// repository files are read; git itself is not invoked.
func RepoMetadata(root string) (string, string, string) {
	validRoot, err := validateRoot(root)
	if err != nil {
		return "", "", ""
	}
	repo, err := gogit.PlainOpenWithOptions(validRoot, &gogit.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return "", "", ""
	}

	name := ""
	if remote, err := repo.Remote("origin"); err == nil {
		if urls := remote.Config().URLs; len(urls) > 0 {
			name = shortRepoName(urls[0])
		}
	}

	commit, branch := "", ""
	if head, err := repo.Head(); err == nil {
		commit = head.Hash().String()
		if head.Name().IsBranch() {
			branch = head.Name().Short()
		}
	}
	return name, commit, branch
}

// shortRepoName trims a remote URL to owner/name when possible.
func shortRepoName(url string) string {
	s := strings.TrimSpace(url)
	s = strings.TrimSuffix(s, ".git")
	if i := strings.Index(s, "github.com/"); i >= 0 {
		return s[i+len("github.com/"):]
	}
	if i := strings.LastIndex(s, ":"); i >= 0 && !strings.Contains(s[i:], "//") {
		s = s[i+1:]
	}
	return s
}

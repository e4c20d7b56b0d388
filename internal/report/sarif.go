package report

import (
	"encoding/json"
	"fmt"
	"io"

	xxhash "github.com/cespare/xxhash/v2"

	"github.com/redactyl/privaudit/internal/types"
)

type sarif struct {
	Schema  string     `json:"$schema"`
	Version string     `json:"version"`
	Runs    []sarifRun `json:"runs"`
}

type sarifRun struct {
	Tool               sarifTool          `json:"tool"`
	Results            []sarifResult      `json:"results"`
	VersionControlProv []sarifVersionProv `json:"versionControlProvenance,omitempty"`
}

type sarifTool struct {
	Driver sarifDriver `json:"driver"`
}

type sarifDriver struct {
	Name    string      `json:"name"`
	Version string      `json:"version"`
	Rules   []sarifRule `json:"rules"`
}

type sarifRule struct {
	ID               string       `json:"id"`
	ShortDescription sarifMessage `json:"shortDescription"`
}

type sarifResult struct {
	RuleID              string            `json:"ruleId"`
	RuleIndex           int               `json:"ruleIndex"`
	Level               string            `json:"level"`
	Message             sarifMessage      `json:"message"`
	Locations           []sarifLoc        `json:"locations"`
	PartialFingerprints map[string]string `json:"partialFingerprints"`
}

type sarifMessage struct {
	Text string `json:"text"`
}

type sarifLoc struct {
	PhysicalLocation sarifPhys `json:"physicalLocation"`
}

type sarifPhys struct {
	ArtifactLocation sarifArt `json:"artifactLocation"`
}

type sarifArt struct {
	URI string `json:"uri"`
}

type sarifVersionProv struct {
	RepositoryURI string `json:"repositoryUri"`
	RevisionID    string `json:"revisionId,omitempty"`
	Branch        string `json:"branch,omitempty"`
}

var ruleText = map[types.Kind]string{
	types.KindForbiddenPath:      "File under a path that must not be published",
	types.KindForbiddenExtension: "Document type that must not be published",
	types.KindEmailLeak:          "Email address not on the allowlist",
	types.KindPhoneLeak:          "Phone number",
	types.KindReadError:          "File could not be read for scanning",
}

// Fingerprint returns a stable hash of the problem's kind, path and match,
// used by code-scanning services to track a result across runs.
func Fingerprint(p types.Problem) string {
	return fmt.Sprintf("%016x", xxhash.Sum64String(string(p.Kind)+"|"+p.Path+"|"+p.Match))
}

// WriteSARIF writes problems as SARIF 2.1.0 to the provided writer.
func WriteSARIF(w io.Writer, version string, meta Meta, problems []types.Problem) error {
	driver := sarifDriver{Name: "privaudit", Version: version}
	index := map[types.Kind]int{}
	for i, k := range types.Kinds() {
		index[k] = i
		driver.Rules = append(driver.Rules, sarifRule{ID: string(k), ShortDescription: sarifMessage{Text: ruleText[k]}})
	}

	run := sarifRun{Tool: sarifTool{Driver: driver}, Results: []sarifResult{}}
	if meta.Repo != "" {
		run.VersionControlProv = []sarifVersionProv{{RepositoryURI: meta.Repo, RevisionID: meta.Commit, Branch: meta.Branch}}
	}
	for _, p := range problems {
		run.Results = append(run.Results, sarifResult{
			RuleID:    string(p.Kind),
			RuleIndex: index[p.Kind],
			Level:     "error",
			Message:   sarifMessage{Text: p.String()},
			Locations: []sarifLoc{{
				PhysicalLocation: sarifPhys{ArtifactLocation: sarifArt{URI: p.Path}},
			}},
			PartialFingerprints: map[string]string{"privaudit/v1": Fingerprint(p)},
		})
	}
	doc := sarif{
		Schema:  "https://json.schemastore.org/sarif-2.1.0.json",
		Version: "2.1.0",
		Runs:    []sarifRun{run},
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}

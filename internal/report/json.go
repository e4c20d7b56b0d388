package report

import (
	"encoding/json"
	"io"

	"github.com/redactyl/privaudit/internal/types"
)

// Meta describes the audited tree for machine-readable reports.
type Meta struct {
	Root         string
	Source       string
	Repo         string
	Commit       string
	Branch       string
	FilesListed  int
	FilesScanned int
}

type jsonDoc struct {
	Root         string        `json:"root"`
	Source       string        `json:"source"`
	Repo         string        `json:"repo,omitempty"`
	Commit       string        `json:"commit,omitempty"`
	Branch       string        `json:"branch,omitempty"`
	FilesChecked int           `json:"files_checked"`
	FilesScanned int           `json:"files_scanned"`
	Passed       bool          `json:"passed"`
	Problems     []jsonProblem `json:"problems"`
}

type jsonProblem struct {
	types.Problem
	Message string `json:"message"`
}

// WriteJSON writes the audit result as an indented JSON document.
func WriteJSON(w io.Writer, meta Meta, problems []types.Problem) error {
	doc := jsonDoc{
		Root:         meta.Root,
		Source:       meta.Source,
		Repo:         meta.Repo,
		Commit:       meta.Commit,
		Branch:       meta.Branch,
		FilesChecked: meta.FilesListed,
		FilesScanned: meta.FilesScanned,
		Passed:       len(problems) == 0,
		Problems:     make([]jsonProblem, 0, len(problems)), // no `null` in JSON
	}
	for _, p := range problems {
		doc.Problems = append(doc.Problems, jsonProblem{Problem: p, Message: p.String()})
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}

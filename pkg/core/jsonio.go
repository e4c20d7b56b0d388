package core

import (
	"encoding/json"
	"io"
)

// MarshalProblems pretty-prints problems as JSON for humans or pipelines.
func MarshalProblems(w io.Writer, problems []Problem) error {
	if problems == nil {
		problems = []Problem{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(problems)
}

// UnmarshalProblems decodes problems JSON, useful for ingestion tests.
func UnmarshalProblems(r io.Reader) ([]Problem, error) {
	var ps []Problem
	if err := json.NewDecoder(r).Decode(&ps); err != nil {
		return nil, err
	}
	return ps, nil
}

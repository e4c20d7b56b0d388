// Package core provides a small, stable facade over privaudit's internal
// engine for external integrations such as pre-publish hooks written in Go.
//
// Example:
//
//	problems, err := core.Audit(ctx, core.Config{Root: "."})
//	if err != nil { /* handle */ }
//	_ = core.MarshalProblems(os.Stdout, problems)
package core

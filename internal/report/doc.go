// Package report renders audit problems as a bulleted text report, a table,
// JSON or SARIF.
package report

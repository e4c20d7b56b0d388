// Package engine contains the core audit logic. It enumerates the publishable
// file set, applies the path and extension denylists, scans text files for
// personal identifiers and returns the accumulated problems. This package is
// internal; external consumers should use the facade in pkg/core.
package engine

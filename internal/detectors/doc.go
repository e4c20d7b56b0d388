// Package detectors implements the personal-identifier detectors used by the
// audit. Each detector reports at most the first non-suppressed match in a
// file's text, so a report shows that a leak exists rather than every
// occurrence.
package detectors

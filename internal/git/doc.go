// Package git wraps the few git operations the audit needs: listing the
// publishable file set and reading repository metadata for reports.
package git

package privaudit

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"
)

var (
	flagPath       string
	flagAllowlist  string
	flagJSON       bool
	flagSARIF      bool
	flagTable      bool
	flagNoColor    bool
	flagVerbose    bool
	flagGitTimeout time.Duration

	version = "0.1.0"
)

// Exit codes returned by the audit.
const (
	exitOK       = 0
	exitProblems = 1
	exitFatal    = 2
)

// rootCmd is the base Cobra command for the privaudit CLI. Run without a
// subcommand it audits --path.
var rootCmd = &cobra.Command{
	Use:   "privaudit",
	Short: "Check a repo for personal data before publishing it",
	Long: "privaudit scans the files a repository would publish for email addresses, phone numbers,\n" +
		"forbidden directories and document types, and fails when any are found.",
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runAudit,
}

// exitError carries a process exit code out of a command. The report has
// already been written when err is nil.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string {
	if e.err != nil {
		return e.err.Error()
	}
	return fmt.Sprintf("exit status %d", e.code)
}

func (e *exitError) Unwrap() error { return e.err }

// Execute runs the privaudit CLI. It should be called by the main package.
func Execute() {
	// Ctrl-C cancels the git subprocess and the content pass.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		var ee *exitError
		if errors.As(err, &ee) {
			os.Exit(ee.code)
		}
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(exitFatal)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&flagPath, "path", "p", ".", "repo root to audit")
	rootCmd.PersistentFlags().StringVar(&flagAllowlist, "allowlist", "", "allowlist JSON (default <path>/tools/privacy_allowlist.json)")
	rootCmd.PersistentFlags().BoolVar(&flagNoColor, "no-color", false, "disable colorized output")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "log enumeration and scan details to stderr")

	rootCmd.Flags().BoolVar(&flagJSON, "json", false, "emit JSON to stdout")
	rootCmd.Flags().BoolVar(&flagSARIF, "sarif", false, "emit SARIF 2.1.0 to stdout")
	rootCmd.Flags().BoolVar(&flagTable, "table", false, "print problems as a table")
	rootCmd.Flags().DurationVar(&flagGitTimeout, "git-timeout", 0, "time limit for listing files with git (0 = config or 30s)")
	rootCmd.MarkFlagsMutuallyExclusive("json", "sarif", "table")
}

package privaudit

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/redactyl/privaudit/internal/config"
	"github.com/redactyl/privaudit/internal/engine"
	"github.com/redactyl/privaudit/internal/git"
	"github.com/redactyl/privaudit/internal/logging"
	"github.com/redactyl/privaudit/internal/report"
)

type outputFormat int

const (
	formatText outputFormat = iota
	formatTable
	formatJSON
	formatSARIF
)

// auditOptions is what the CLI flags ask for before config files are merged.
type auditOptions struct {
	Path       string
	Allowlist  string
	Format     outputFormat
	NoColor    bool
	Verbose    bool
	GitTimeout time.Duration
}

func runAudit(cmd *cobra.Command, _ []string) error {
	opts := auditOptions{
		Path:       flagPath,
		Allowlist:  flagAllowlist,
		NoColor:    flagNoColor,
		Verbose:    flagVerbose,
		GitTimeout: flagGitTimeout,
	}
	switch {
	case flagJSON:
		opts.Format = formatJSON
	case flagSARIF:
		opts.Format = formatSARIF
	case flagTable:
		opts.Format = formatTable
	}
	if code := executeAudit(cmd.Context(), opts, cmd.OutOrStdout(), cmd.ErrOrStderr()); code != exitOK {
		return &exitError{code: code}
	}
	return nil
}

// executeAudit runs one audit and returns the process exit code. Fatal
// errors are written to stderr.
func executeAudit(ctx context.Context, opts auditOptions, stdout, stderr io.Writer) int {
	if ctx == nil {
		ctx = context.Background()
	}
	root, err := filepath.Abs(opts.Path)
	if err != nil {
		fmt.Fprintln(stderr, "error:", err)
		return exitFatal
	}
	if err := engine.CheckRoot(root); err != nil {
		fmt.Fprintln(stderr, "error:", err)
		return exitFatal
	}

	local, global, err := config.Load(root)
	if err != nil {
		fmt.Fprintln(stderr, "error: config:", err)
		return exitFatal
	}
	timeout, err := pickDuration(opts.GitTimeout, local.GitTimeout, global.GitTimeout)
	if err != nil {
		fmt.Fprintln(stderr, "error: config: git_timeout:", err)
		return exitFatal
	}

	log := logging.New(stderr, opts.Verbose)
	defer func() { _ = log.Sync() }()

	cfg := engine.Config{
		Root:                root,
		AllowlistPath:       pickString(opts.Allowlist, local.Allowlist, global.Allowlist),
		ForbiddenDirs:       pickStrings(local.ForbiddenDirs, global.ForbiddenDirs),
		ForbiddenExtensions: pickStrings(local.ForbiddenExtensions, global.ForbiddenExtensions),
		ForbiddenGlobs:      pickStrings(local.ForbiddenGlobs, global.ForbiddenGlobs),
		TextExtensions:      pickStrings(local.TextExtensions, global.TextExtensions),
		GitTimeout:          timeout,
		Logger:              log,
	}
	log.Debug("starting audit", zap.String("root", root), zap.String("allowlist", cfg.AllowlistPath))

	res, err := engine.Run(ctx, cfg)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			fmt.Fprintln(stderr, "error: audit interrupted")
		} else {
			fmt.Fprintln(stderr, "error:", err)
		}
		return exitFatal
	}

	noColor := pickBool(opts.NoColor, local.NoColor, global.NoColor) || !isTerminal(stderr)
	if err := writeReport(stdout, stderr, opts.Format, res, noColor); err != nil {
		fmt.Fprintln(stderr, "error: report:", err)
		return exitFatal
	}
	if res.Failed() {
		return exitProblems
	}
	return exitOK
}

func writeReport(stdout, stderr io.Writer, format outputFormat, res engine.Result, noColor bool) error {
	popts := report.PrintOptions{NoColor: noColor}
	switch format {
	case formatJSON, formatSARIF:
		meta := report.Meta{
			Root:         res.Root,
			Source:       string(res.Source),
			FilesListed:  res.FilesListed,
			FilesScanned: res.FilesScanned,
		}
		meta.Repo, meta.Commit, meta.Branch = git.RepoMetadata(res.Root)
		if format == formatSARIF {
			return report.WriteSARIF(stdout, version, meta, res.Problems)
		}
		return report.WriteJSON(stdout, meta, res.Problems)
	case formatTable:
		report.PrintTable(stdout, stderr, res.Problems, popts)
	default:
		report.PrintText(stdout, stderr, res.Problems, popts)
	}
	return nil
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

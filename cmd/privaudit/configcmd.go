package privaudit

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/redactyl/privaudit/internal/allowlist"
	"github.com/redactyl/privaudit/internal/config"
	"github.com/redactyl/privaudit/internal/engine"
)

var (
	cfgOutput  string
	cfgForce   bool
	cfgNoColor bool
)

func init() {
	cfgCmd := &cobra.Command{Use: "config", Short: "Configuration helpers"}
	rootCmd.AddCommand(cfgCmd)

	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Generate a .privaudit.yml populated with the built-in defaults",
		Args:  cobra.NoArgs,
		RunE:  runConfigInit,
	}
	cfgCmd.AddCommand(initCmd)

	initCmd.Flags().StringVar(&cfgOutput, "output", ".privaudit.yml", "output file path, relative to --path")
	initCmd.Flags().BoolVar(&cfgForce, "force", false, "overwrite an existing file")
	initCmd.Flags().BoolVar(&cfgNoColor, "no-color", false, "disable color output by default")
}

func runConfigInit(cmd *cobra.Command, _ []string) error {
	b, err := starterConfig(cfgNoColor)
	if err != nil {
		return err
	}
	out, err := configOutputPath(flagPath, cfgOutput)
	if err != nil {
		return err
	}
	if !cfgForce {
		if _, err := os.Stat(out); err == nil {
			return fmt.Errorf("%s already exists (use --force to overwrite)", out)
		} else if !errors.Is(err, fs.ErrNotExist) {
			return err
		}
	}
	if err := os.WriteFile(out, b, 0o644); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), "Wrote", out)
	return nil
}

// configOutputPath resolves a relative --output against --path, the same
// root allowlist init writes under.
func configOutputPath(root, output string) (string, error) {
	if filepath.IsAbs(output) {
		return output, nil
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return "", err
	}
	return filepath.Join(abs, output), nil
}

func starterConfig(noColor bool) ([]byte, error) {
	fc := config.FileConfig{
		ForbiddenDirs:       engine.DefaultForbiddenDirs,
		ForbiddenExtensions: engine.DefaultForbiddenExtensions,
		TextExtensions:      engine.DefaultTextExtensions,
		Allowlist:           strPtr(allowlist.DefaultPath),
		NoColor:             boolPtr(noColor),
		GitTimeout:          strPtr(engine.DefaultGitTimeout.String()),
	}
	return yaml.Marshal(&fc)
}

func strPtr(s string) *string { return &s }
func boolPtr(v bool) *bool    { return &v }

package privaudit

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/redactyl/privaudit/internal/allowlist"
	"github.com/redactyl/privaudit/internal/config"
	"github.com/redactyl/privaudit/internal/engine"
)

var allowInitForce bool

func init() {
	alCmd := &cobra.Command{Use: "allowlist", Short: "Manage the email allowlist"}
	rootCmd.AddCommand(alCmd)

	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Write an empty allowlist to tools/privacy_allowlist.json",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			root, err := filepath.Abs(flagPath)
			if err != nil {
				return err
			}
			p, err := resolveAllowlist(root)
			if err != nil {
				return err
			}
			if err := writeAllowlistSkeleton(p, allowInitForce); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Wrote", p)
			return nil
		},
	}
	initCmd.Flags().BoolVar(&allowInitForce, "force", false, "overwrite an existing allowlist")
	alCmd.AddCommand(initCmd)

	alCmd.AddCommand(&cobra.Command{
		Use:   "check EMAIL...",
		Short: "Report whether each address is allowlisted",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			root, err := filepath.Abs(flagPath)
			if err != nil {
				return err
			}
			p, err := resolveAllowlist(root)
			if err != nil {
				return err
			}
			al, err := allowlist.LoadFile(p)
			if err != nil {
				return err
			}
			for _, line := range checkEmails(al, args) {
				fmt.Fprintln(cmd.OutOrStdout(), line)
			}
			return nil
		},
	})
}

// resolveAllowlist applies the --allowlist > local > global precedence used
// by the audit itself.
func resolveAllowlist(root string) (string, error) {
	local, global, err := config.Load(root)
	if err != nil {
		return "", err
	}
	cfg := engine.Config{Root: root, AllowlistPath: pickString(flagAllowlist, local.Allowlist, global.Allowlist)}
	return cfg.AllowlistFile(), nil
}

func writeAllowlistSkeleton(path string, force bool) error {
	if !force {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("%s already exists (use --force to overwrite)", path)
		} else if !errors.Is(err, fs.ErrNotExist) {
			return err
		}
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, allowlist.Skeleton(), 0o644)
}

func checkEmails(al allowlist.Allowlist, emails []string) []string {
	out := make([]string, 0, len(emails))
	for _, e := range emails {
		norm := strings.ToLower(strings.TrimSpace(e))
		status := "flagged"
		if al.Allows(norm) {
			status = "allowed"
		}
		out = append(out, fmt.Sprintf("%s\t%s", status, e))
	}
	return out
}

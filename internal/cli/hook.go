package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/dshills/locguard/internal/gitctx"
	"github.com/spf13/cobra"
)

const (
	hookMarkerStart = "# >>> locguard pre-commit hook >>>"
	hookMarkerEnd   = "# <<< locguard pre-commit hook <<<"
)

var (
	hookFailOn string
	hookFormat string
)

var hookCmd = &cobra.Command{
	Use:   "hook",
	Short: "Manage git pre-commit hook",
}

var hookInstallCmd = &cobra.Command{
	Use:   "install",
	Short: "Install locguard as a git pre-commit hook",
	Run: func(cmd *cobra.Command, args []string) {
		hookPath, err := getHookPath(cmd)
		if err != nil {
			fail(ExitRuntimeError, err)
			return
		}

		section := generateHookScript(hookFailOn, hookFormat)

		existing, err := os.ReadFile(hookPath)
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			fail(ExitRuntimeError, fmt.Errorf("reading hook file: %w", err))
			return
		}

		var content string
		if len(existing) == 0 {
			content = "#!/bin/sh\n" + section
		} else {
			content = replaceHookSection(string(existing), section)
		}

		if err := os.MkdirAll(filepath.Dir(hookPath), 0o755); err != nil {
			fail(ExitRuntimeError, fmt.Errorf("creating hooks directory: %w", err))
			return
		}
		if err := os.WriteFile(hookPath, []byte(content), 0o755); err != nil {
			fail(ExitRuntimeError, fmt.Errorf("writing hook file: %w", err))
			return
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Installed locguard pre-commit hook at %s\n", hookPath)
	},
}

var hookUninstallCmd = &cobra.Command{
	Use:   "uninstall",
	Short: "Remove locguard pre-commit hook",
	Run: func(cmd *cobra.Command, args []string) {
		hookPath, err := getHookPath(cmd)
		if err != nil {
			fail(ExitRuntimeError, err)
			return
		}

		existing, err := os.ReadFile(hookPath)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				fmt.Fprintln(cmd.OutOrStdout(), "No pre-commit hook found.")
				return
			}
			fail(ExitRuntimeError, fmt.Errorf("reading hook file: %w", err))
			return
		}

		content := removeHookSection(string(existing))

		// Only the shebang left: delete the file.
		trimmed := strings.TrimSpace(content)
		if trimmed == "" || trimmed == "#!/bin/sh" || trimmed == "#!/bin/bash" {
			if err := os.Remove(hookPath); err != nil {
				fail(ExitRuntimeError, fmt.Errorf("removing hook file: %w", err))
				return
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed locguard pre-commit hook at %s\n", hookPath)
			return
		}

		if err := os.WriteFile(hookPath, []byte(content), 0o755); err != nil {
			fail(ExitRuntimeError, fmt.Errorf("writing hook file: %w", err))
			return
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Removed locguard section from %s\n", hookPath)
	},
}

func getHookPath(cmd *cobra.Command) (string, error) {
	gitDir, err := gitctx.GitDir(cmd.Context(), "")
	if err != nil {
		return "", err
	}
	return filepath.Join(gitDir, "hooks", "pre-commit"), nil
}

func generateHookScript(failOn, format string) string {
	var b strings.Builder
	b.WriteString(hookMarkerStart + "\n")
	fmt.Fprintf(&b, "locguard check staged --fail-on %s --format %s\n", failOn, format)
	b.WriteString("LOCGUARD_EXIT=$?\n")
	b.WriteString("if [ $LOCGUARD_EXIT -eq 1 ]; then\n")
	b.WriteString("  echo \"locguard: localization warnings above threshold, commit blocked\"\n")
	b.WriteString("  exit 1\n")
	b.WriteString("elif [ $LOCGUARD_EXIT -ge 2 ]; then\n")
	b.WriteString("  echo \"locguard: check failed (exit $LOCGUARD_EXIT), allowing commit\"\n")
	b.WriteString("fi\n")
	b.WriteString(hookMarkerEnd + "\n")
	return b.String()
}

func replaceHookSection(existing, section string) string {
	startIdx := strings.Index(existing, hookMarkerStart)
	endIdx := strings.Index(existing, hookMarkerEnd)

	if startIdx == -1 || endIdx == -1 {
		if !strings.HasSuffix(existing, "\n") {
			existing += "\n"
		}
		return existing + section
	}

	before := existing[:startIdx]
	after := strings.TrimPrefix(existing[endIdx+len(hookMarkerEnd):], "\n")
	return before + section + after
}

func removeHookSection(existing string) string {
	startIdx := strings.Index(existing, hookMarkerStart)
	endIdx := strings.Index(existing, hookMarkerEnd)

	if startIdx == -1 || endIdx == -1 {
		return existing
	}

	before := existing[:startIdx]
	after := strings.TrimPrefix(existing[endIdx+len(hookMarkerEnd):], "\n")
	return before + after
}

func init() {
	hookCmd.AddCommand(hookInstallCmd)
	hookCmd.AddCommand(hookUninstallCmd)
	hookInstallCmd.Flags().StringVar(&hookFailOn, "fail-on", "medium", "Fail on severity threshold (none, low, medium, high)")
	hookInstallCmd.Flags().StringVar(&hookFormat, "format", "text", "Output format (text, json, markdown, sarif)")
}

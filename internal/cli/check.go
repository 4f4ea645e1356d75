package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dshills/locguard/internal/config"
	"github.com/dshills/locguard/internal/gitctx"
	"github.com/dshills/locguard/internal/github"
	"github.com/dshills/locguard/internal/l10n"
	"github.com/dshills/locguard/internal/output"
	"github.com/dshills/locguard/internal/review"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// Shared check flags
var (
	flagPaths        string
	flagExclude      string
	flagContextLines int
	flagFormat       string
	flagOut          string
	flagFailOn       string
	flagRules        string
	flagScope        string
)

func addCheckFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&flagPaths, "paths", "", "Include file path globs (comma-separated)")
	cmd.Flags().StringVar(&flagExclude, "exclude", "", "Exclude file path globs (comma-separated)")
	cmd.Flags().IntVar(&flagContextLines, "context-lines", 0, "Number of context lines in each patch")
	cmd.Flags().StringVar(&flagFormat, "format", "", "Output format (text, json, markdown, sarif)")
	cmd.Flags().StringVar(&flagOut, "out", "", "Output file path (default: stdout)")
	cmd.Flags().StringVar(&flagFailOn, "fail-on", "", "Fail on severity threshold (none, low, medium, high)")
	cmd.Flags().StringVar(&flagRules, "rules", "", "Category rules file (YAML)")
	cmd.Flags().StringVar(&flagScope, "scope", "", "Pairing scope for deleted and added keys (global, file)")
}

func buildOverrides() map[string]string {
	m := make(map[string]string)
	if flagFormat != "" {
		m["format"] = flagFormat
	}
	if flagFailOn != "" {
		m["failOn"] = flagFailOn
	}
	if flagScope != "" {
		m["scope"] = flagScope
	}
	if flagContextLines > 0 {
		m["contextLines"] = fmt.Sprintf("%d", flagContextLines)
	}
	if flagRules != "" {
		m["rulesFile"] = flagRules
	}
	return m
}

func buildGitOpts(cfg config.Config) gitctx.Options {
	opts := gitctx.Options{
		ContextLines: cfg.ContextLines,
		Include:      cfg.Include,
		Exclude:      cfg.Exclude,
	}
	if flagPaths != "" {
		opts.Include = config.SplitList(flagPaths)
	}
	if flagExclude != "" {
		opts.Exclude = append(append([]string(nil), opts.Exclude...), config.SplitList(flagExclude)...)
	}
	return opts
}

// loadConfig merges configuration with the flags and records a usage error
// when it is invalid.
func loadConfig() (config.Config, bool) {
	cfg, err := config.Load(buildOverrides())
	if err != nil {
		fail(ExitUsageError, err)
		return config.Config{}, false
	}
	return cfg, true
}

// runCheck classifies cs, writes the report and sets the exit code. It
// returns the report, or nil when the run failed.
func runCheck(ctx context.Context, cs review.ChangeSet, cfg config.Config, inputs review.InputInfo, repo review.RepoInfo) *review.Report {
	rules, err := review.LoadRules(cfg.RulesFile)
	if err != nil {
		fail(ExitRuntimeError, fmt.Errorf("loading rules: %w", err))
		return nil
	}
	scope, err := l10n.ParseScope(cfg.Scope)
	if err != nil {
		fail(ExitUsageError, err)
		return nil
	}

	opts := review.ApplyRules(review.Options{Scope: scope, Repo: repo, Inputs: inputs}, rules)

	var sink review.Sink
	if flagOut != "" {
		// The report goes to a file; surface warnings on the console too.
		sink = review.SinkFunc(func(message string) {
			first, _, _ := strings.Cut(message, "\n")
			log.Warn().Msg(first)
		})
	}

	report, err := review.Run(ctx, cs, opts, sink)
	if err != nil {
		code := ExitRuntimeError
		if errors.Is(err, github.ErrAuth) {
			code = ExitAuthError
		}
		fail(code, err)
		return nil
	}

	if err := output.WriteReport(report, cfg.Format, flagOut); err != nil {
		fail(ExitRuntimeError, fmt.Errorf("writing output: %w", err))
		return nil
	}

	if report.Exceeds(cfg.FailOn) {
		exitCode = ExitFindings
	}
	return report
}

// checkLocal runs a check over a local git change set.
func checkLocal(cmd *cobra.Command, cs *gitctx.ChangeSet, cfg config.Config) {
	ctx := cmd.Context()
	meta, err := gitctx.GetRepoMeta(ctx, "")
	if err != nil {
		fail(ExitRuntimeError, err)
		return
	}
	inputs := review.InputInfo{Mode: string(cs.Mode()), Range: cs.Range()}
	repo := review.RepoInfo{Root: meta.Root, Head: meta.Head, Branch: meta.Branch}
	runCheck(ctx, cs, cfg, inputs, repo)
}

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Check localization changes",
	Long:  "Check the Localizable.strings changes of a local git change. Use subcommands to choose what to compare.",
}

var checkUnstagedCmd = &cobra.Command{
	Use:   "unstaged",
	Short: "Check unstaged changes (working tree vs index)",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, ok := loadConfig()
		if !ok {
			return
		}
		checkLocal(cmd, gitctx.Unstaged(buildGitOpts(cfg)), cfg)
	},
}

var checkStagedCmd = &cobra.Command{
	Use:   "staged",
	Short: "Check staged changes (index vs HEAD)",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, ok := loadConfig()
		if !ok {
			return
		}
		checkLocal(cmd, gitctx.Staged(buildGitOpts(cfg)), cfg)
	},
}

var flagParent string

var checkCommitCmd = &cobra.Command{
	Use:   "commit <sha>",
	Short: "Check a specific commit",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfg, ok := loadConfig()
		if !ok {
			return
		}
		checkLocal(cmd, gitctx.Commit(args[0], flagParent, buildGitOpts(cfg)), cfg)
	},
}

var flagMergeBase bool

var checkRangeCmd = &cobra.Command{
	Use:   "range <revRange>",
	Short: "Check a revision range (e.g., origin/main..HEAD)",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfg, ok := loadConfig()
		if !ok {
			return
		}
		checkLocal(cmd, gitctx.Range(args[0], flagMergeBase, buildGitOpts(cfg)), cfg)
	},
}

func init() {
	checkCmd.AddCommand(checkUnstagedCmd)
	checkCmd.AddCommand(checkStagedCmd)
	checkCmd.AddCommand(checkCommitCmd)
	checkCmd.AddCommand(checkRangeCmd)

	for _, cmd := range []*cobra.Command{
		checkUnstagedCmd,
		checkStagedCmd,
		checkCommitCmd,
		checkRangeCmd,
	} {
		addCheckFlags(cmd)
	}

	checkCommitCmd.Flags().StringVar(&flagParent, "parent", "", "Override parent SHA (for merge commits)")
	checkRangeCmd.Flags().BoolVar(&flagMergeBase, "merge-base", true, "Use merge base for branch comparisons")
}

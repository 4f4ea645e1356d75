package cli

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/dshills/locguard/internal/github"
	"github.com/dshills/locguard/internal/review"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var (
	flagGHOwner  string
	flagGHRepo   string
	flagGHDryRun bool
)

var githubCmd = &cobra.Command{
	Use:   "github <pr-number>",
	Short: "Check a GitHub pull request",
	Long:  "Fetch a PR's changed files from GitHub, check them, and post the warnings as a PR review.",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		prNumber, err := strconv.Atoi(args[0])
		if err != nil || prNumber <= 0 {
			fail(ExitUsageError, fmt.Errorf("invalid PR number %q", args[0]))
			return
		}

		cfg, ok := loadConfig()
		if !ok {
			return
		}
		ctx := cmd.Context()

		owner, repo := flagGHOwner, flagGHRepo
		if owner == "" || repo == "" {
			detectedOwner, detectedRepo, err := github.DetectRepo(ctx, "")
			if err != nil {
				fail(ExitRuntimeError, fmt.Errorf("%w (use --owner and --repo to specify manually)", err))
				return
			}
			if owner == "" {
				owner = detectedOwner
			}
			if repo == "" {
				repo = detectedRepo
			}
		}

		client, err := github.NewClient()
		if err != nil {
			fail(ExitAuthError, err)
			return
		}

		log.Info().Int("pr", prNumber).Str("repo", owner+"/"+repo).Msg("Fetching pull request files")
		opts := buildGitOpts(cfg)
		cs := github.NewPRChangeSet(client, owner, repo, prNumber, opts.Include, opts.Exclude)
		inputs := review.InputInfo{Mode: "github-pr", Range: fmt.Sprintf("#%d", prNumber)}
		report := runCheck(ctx, cs, cfg, inputs, review.RepoInfo{Root: owner + "/" + repo})
		if report == nil {
			return
		}

		if flagGHDryRun {
			log.Info().Int("warnings", len(report.Annotations)).Msg("Dry run, not posting to GitHub")
			return
		}
		if len(report.Annotations) == 0 {
			log.Info().Msg("No warnings, nothing to post")
			return
		}

		if err := client.PostReview(ctx, owner, repo, prNumber, github.BuildGitHubReview(report)); err != nil {
			code := ExitRuntimeError
			if errors.Is(err, github.ErrAuth) {
				code = ExitAuthError
			}
			fail(code, err)
			return
		}
		log.Info().Int("pr", prNumber).Msg("Review posted")
	},
}

func init() {
	addCheckFlags(githubCmd)
	githubCmd.Flags().StringVar(&flagGHOwner, "owner", "", "GitHub repository owner (auto-detected if omitted)")
	githubCmd.Flags().StringVar(&flagGHRepo, "repo", "", "GitHub repository name (auto-detected if omitted)")
	githubCmd.Flags().BoolVar(&flagGHDryRun, "dry-run", false, "Check the PR but don't post to GitHub")
}

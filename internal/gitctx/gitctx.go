package gitctx

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/rs/zerolog/log"
)

// Mode names which two trees a ChangeSet compares.
type Mode string

const (
	ModeUnstaged Mode = "unstaged"
	ModeStaged   Mode = "staged"
	ModeCommit   Mode = "commit"
	ModeRange    Mode = "range"
)

// Options controls how changes are gathered.
type Options struct {
	// Dir is the working directory git runs in. Empty means the process
	// working directory.
	Dir          string
	ContextLines int
	Include      []string
	Exclude      []string
}

// RepoMeta contains git repository metadata.
type RepoMeta struct {
	Root   string
	Head   string
	Branch string
}

// ChangeSet is the set of file changes between two trees.
type ChangeSet struct {
	mode Mode
	rng  string
	revs []string
	// showRev is set for a single commit so a root commit, which has no
	// parent to diff against, can fall back to git show.
	showRev string
	opts    Options

	listed   bool
	deleted  []string
	added    []string
	modified []string
}

// Unstaged compares the working tree with the index.
func Unstaged(opts Options) *ChangeSet {
	return &ChangeSet{mode: ModeUnstaged, opts: opts}
}

// Staged compares the index with HEAD.
func Staged(opts Options) *ChangeSet {
	return &ChangeSet{mode: ModeStaged, revs: []string{"--cached"}, opts: opts}
}

// Commit compares sha with parent, or with its first parent when parent is
// empty.
func Commit(sha, parent string, opts Options) *ChangeSet {
	cs := &ChangeSet{mode: ModeCommit, rng: sha, opts: opts}
	if parent != "" {
		cs.revs = []string{parent, sha}
	} else {
		cs.revs = []string{sha + "~1", sha}
		cs.showRev = sha
	}
	return cs
}

// Range compares the two ends of revRange. With mergeBase set, "a..b" is
// compared from the merge base of a and b.
func Range(revRange string, mergeBase bool, opts Options) *ChangeSet {
	diffRange := revRange
	if mergeBase && strings.Contains(revRange, "..") && !strings.Contains(revRange, "...") {
		diffRange = strings.Replace(revRange, "..", "...", 1)
	}
	return &ChangeSet{mode: ModeRange, rng: revRange, revs: []string{diffRange}, opts: opts}
}

// Mode returns the comparison mode.
func (c *ChangeSet) Mode() Mode { return c.mode }

// Range returns the commit or revision range, if any.
func (c *ChangeSet) Range() string { return c.rng }

// DeletedFiles returns the paths removed by the change.
func (c *ChangeSet) DeletedFiles(ctx context.Context) ([]string, error) {
	if err := c.list(ctx); err != nil {
		return nil, err
	}
	return c.deleted, nil
}

// AddedFiles returns the paths created by the change.
func (c *ChangeSet) AddedFiles(ctx context.Context) ([]string, error) {
	if err := c.list(ctx); err != nil {
		return nil, err
	}
	return c.added, nil
}

// ModifiedFiles returns the paths whose content changed.
func (c *ChangeSet) ModifiedFiles(ctx context.Context) ([]string, error) {
	if err := c.list(ctx); err != nil {
		return nil, err
	}
	return c.modified, nil
}

// Patch returns the unified diff of one path.
func (c *ChangeSet) Patch(ctx context.Context, path string) (string, error) {
	var flags []string
	if c.opts.ContextLines >= 0 {
		flags = append(flags, fmt.Sprintf("-U%d", c.opts.ContextLines))
	}
	out, err := c.diff(ctx, flags, path)
	if err != nil {
		return "", fmt.Errorf("patch for %s: %w", path, err)
	}
	return out, nil
}

func (c *ChangeSet) list(ctx context.Context) error {
	if c.listed {
		return nil
	}
	out, err := c.diff(ctx, []string{"--name-status", "--no-renames"})
	if err != nil {
		return fmt.Errorf("git diff --name-status: %w", err)
	}
	c.deleted, c.added, c.modified = parseNameStatus(out, c.opts.Include, c.opts.Exclude)
	c.listed = true
	log.Debug().
		Str("mode", string(c.mode)).
		Int("deleted", len(c.deleted)).
		Int("added", len(c.added)).
		Int("modified", len(c.modified)).
		Msg("Listed changed files")
	return nil
}

// diff runs git diff with flags over the change's revisions, limited to
// paths when given.
func (c *ChangeSet) diff(ctx context.Context, flags []string, paths ...string) (string, error) {
	args := append([]string{"diff"}, flags...)
	args = append(args, c.revs...)
	args = append(args, "--")
	args = append(args, paths...)
	out, err := gitOutput(ctx, c.opts.Dir, args...)
	if err == nil || c.showRev == "" {
		return out, err
	}
	// Root commit.
	showArgs := append([]string{"show", "--format="}, flags...)
	showArgs = append(showArgs, c.showRev, "--")
	showArgs = append(showArgs, paths...)
	out, showErr := gitOutput(ctx, c.opts.Dir, showArgs...)
	if showErr != nil {
		return "", errors.Join(err, showErr)
	}
	return out, nil
}

// parseNameStatus splits `git diff --name-status` output into deleted,
// added and modified paths, keeping those that pass the filters.
func parseNameStatus(out string, include, exclude []string) (deleted, added, modified []string) {
	for line := range strings.Lines(out) {
		status, path, ok := strings.Cut(strings.TrimRight(line, "\r\n"), "\t")
		if !ok || status == "" || !Keep(path, include, exclude) {
			continue
		}
		switch status[0] {
		case 'A':
			added = append(added, path)
		case 'D':
			deleted = append(deleted, path)
		case 'M', 'T':
			modified = append(modified, path)
		}
	}
	return deleted, added, modified
}

// Keep reports whether path passes the include and exclude patterns. An
// empty include list keeps everything not excluded.
func Keep(path string, include, exclude []string) bool {
	if len(include) > 0 && !MatchesAny(path, include) {
		return false
	}
	return !MatchesAny(path, exclude)
}

// MatchesAny returns true if the path matches any of the given doublestar
// patterns. A pattern starting with "**/" also matches at the root.
func MatchesAny(path string, patterns []string) bool {
	for _, pattern := range patterns {
		if ok, err := doublestar.Match(pattern, path); err == nil && ok {
			return true
		}
	}
	return false
}

// GetRepoMeta collects repository metadata from git.
func GetRepoMeta(ctx context.Context, dir string) (RepoMeta, error) {
	root, err := gitOutput(ctx, dir, "rev-parse", "--show-toplevel")
	if err != nil {
		return RepoMeta{}, fmt.Errorf("not a git repository: %w", err)
	}
	// Both fail in a repository with no commits.
	head, _ := gitOutput(ctx, dir, "rev-parse", "HEAD")
	branch, _ := gitOutput(ctx, dir, "rev-parse", "--abbrev-ref", "HEAD")
	return RepoMeta{
		Root:   strings.TrimSpace(root),
		Head:   strings.TrimSpace(head),
		Branch: strings.TrimSpace(branch),
	}, nil
}

// RemoteURL returns the fetch URL of the named remote.
func RemoteURL(ctx context.Context, dir, remote string) (string, error) {
	out, err := gitOutput(ctx, dir, "remote", "get-url", remote)
	if err != nil {
		return "", fmt.Errorf("git remote get-url %s: %w", remote, err)
	}
	return strings.TrimSpace(out), nil
}

// GitDir returns the repository's .git directory.
func GitDir(ctx context.Context, dir string) (string, error) {
	out, err := gitOutput(ctx, dir, "rev-parse", "--git-dir")
	if err != nil {
		return "", fmt.Errorf("not a git repository: %w", err)
	}
	return strings.TrimSpace(out), nil
}

func gitOutput(ctx context.Context, dir string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = dir
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	out, err := cmd.Output()
	if err != nil {
		return string(out), fmt.Errorf("%w: %s", err, strings.TrimSpace(stderr.String()))
	}
	return string(out), nil
}

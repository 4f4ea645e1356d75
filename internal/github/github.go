package github

import (
	"context"
	"errors"
	"fmt"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/dshills/locguard/internal/gitctx"
	"github.com/dshills/locguard/internal/review"
	"github.com/goccy/go-json"
	"github.com/imroc/req/v3"
)

const (
	defaultAPIURL = "https://api.github.com"
	filesPerPage  = 100
	// GitHub stops listing pull request files after 3000.
	maxFilePages = 30
	maxRetries   = 3
)

// Backoff bounds for rate-limited requests.
var (
	retryMinBackoff = time.Second
	retryMaxBackoff = 8 * time.Second
)

// ErrAuth is returned when the token is missing or rejected.
var ErrAuth = errors.New("github authentication failed")

// APIError is the error body GitHub returns.
type APIError struct {
	Message          string `json:"message"`
	DocumentationURL string `json:"documentation_url"`
}

func (e *APIError) Error() string { return e.Message }

// Client provides access to the GitHub REST API.
type Client struct {
	http *req.Client
}

// NewClient creates a client from GITHUB_TOKEN and GITHUB_API_URL.
func NewClient() (*Client, error) {
	return newClient(os.Getenv("GITHUB_TOKEN"), os.Getenv("GITHUB_API_URL"))
}

func newClient(token, apiURL string) (*Client, error) {
	if token == "" {
		return nil, fmt.Errorf("%w: GITHUB_TOKEN environment variable is not set", ErrAuth)
	}
	if apiURL == "" {
		apiURL = defaultAPIURL
	}
	http := req.C().
		SetBaseURL(strings.TrimRight(apiURL, "/")).
		SetUserAgent("locguard").
		SetTimeout(60*time.Second).
		SetCommonBearerAuthToken(token).
		SetCommonHeader("Accept", "application/vnd.github+json").
		SetCommonHeader("X-GitHub-Api-Version", "2022-11-28").
		SetCommonErrorResult(&APIError{}).
		SetJsonMarshal(json.Marshal).
		SetJsonUnmarshal(json.Unmarshal).
		SetCommonRetryCount(maxRetries).
		SetCommonRetryBackoffInterval(retryMinBackoff, retryMaxBackoff).
		SetCommonRetryCondition(rateLimited)
	return &Client{http: http}, nil
}

// rateLimited reports whether a response should be retried. Only rate limit
// responses are retried; auth failures and other errors surface immediately.
func rateLimited(resp *req.Response, err error) bool {
	if err != nil || resp == nil || resp.Response == nil {
		return false
	}
	switch resp.StatusCode {
	case 429:
		return true
	case 403:
		return resp.Header.Get("X-RateLimit-Remaining") == "0"
	}
	return false
}

// PRFile is one file changed in a pull request. Patch is empty for binary
// files and for diffs GitHub considers too large.
type PRFile struct {
	Filename         string `json:"filename"`
	Status           string `json:"status"`
	Patch            string `json:"patch"`
	PreviousFilename string `json:"previous_filename"`
}

// ListPRFiles fetches every file changed in a pull request.
func (c *Client) ListPRFiles(ctx context.Context, owner, repo string, prNumber int) ([]PRFile, error) {
	var all []PRFile
	for page := 1; page <= maxFilePages; page++ {
		var files []PRFile
		resp, err := c.http.R().
			SetContext(ctx).
			SetPathParam("owner", owner).
			SetPathParam("repo", repo).
			SetPathParam("number", fmt.Sprint(prNumber)).
			SetQueryParam("per_page", fmt.Sprint(filesPerPage)).
			SetQueryParam("page", fmt.Sprint(page)).
			SetSuccessResult(&files).
			Get("/repos/{owner}/{repo}/pulls/{number}/files")
		if err := checkResponse(resp, err, fmt.Sprintf("listing files of PR #%d in %s/%s", prNumber, owner, repo)); err != nil {
			return nil, err
		}
		all = append(all, files...)
		if len(files) < filesPerPage {
			break
		}
	}
	return all, nil
}

// ReviewRequest represents a PR review to post.
type ReviewRequest struct {
	Body  string `json:"body"`
	Event string `json:"event"`
}

// PostReview posts a pull request review.
func (c *Client) PostReview(ctx context.Context, owner, repo string, prNumber int, review ReviewRequest) error {
	resp, err := c.http.R().
		SetContext(ctx).
		SetPathParam("owner", owner).
		SetPathParam("repo", repo).
		SetPathParam("number", fmt.Sprint(prNumber)).
		SetBody(review).
		Post("/repos/{owner}/{repo}/pulls/{number}/reviews")
	return checkResponse(resp, err, fmt.Sprintf("posting review to PR #%d", prNumber))
}

func checkResponse(resp *req.Response, requestErr error, operation string) error {
	if requestErr != nil {
		return fmt.Errorf("%s: %w", operation, requestErr)
	}
	if !resp.IsErrorState() {
		return nil
	}
	msg := resp.Status
	if apiErr, ok := resp.ErrorResult().(*APIError); ok && apiErr.Message != "" {
		msg = apiErr.Message
	}
	switch resp.StatusCode {
	case 401, 403:
		return fmt.Errorf("%s: %w: %s", operation, ErrAuth, msg)
	case 404:
		return fmt.Errorf("%s: not found", operation)
	case 422:
		return fmt.Errorf("%s: GitHub rejected request (422): %s", operation, msg)
	default:
		return fmt.Errorf("%s: GitHub API error (status %d): %s", operation, resp.StatusCode, msg)
	}
}

// BuildGitHubReview renders a report as a COMMENT review whose body holds
// the warnings in a Danger-style table.
func BuildGitHubReview(report *review.Report) ReviewRequest {
	var sb strings.Builder
	sb.WriteString("## Localization check\n\n")
	if len(report.Annotations) == 0 {
		sb.WriteString("No localization warnings.\n")
	} else {
		noun := "Warnings"
		if len(report.Annotations) == 1 {
			noun = "Warning"
		}
		sb.WriteString("<table>\n  <thead>\n    <tr>\n      <th width=\"50\"></th>\n")
		fmt.Fprintf(&sb, "      <th width=\"100%%\" data-danger-table=\"true\">%d %s</th>\n", len(report.Annotations), noun)
		sb.WriteString("    </tr>\n  </thead>\n  <tbody>\n")
		for _, a := range report.Annotations {
			sb.WriteString("<tr>\n  <td>:warning:</td>\n  <td>\n\n")
			sb.WriteString(a.Message)
			sb.WriteString("\n\n  </td>\n</tr>\n")
		}
		sb.WriteString("  </tbody>\n</table>\n")
	}
	fmt.Fprintf(&sb, "\n<sub>%d deleted, %d added, %d modified localizations</sub>\n",
		len(report.Deleted), len(report.Added), len(report.Modified))
	return ReviewRequest{Body: sb.String(), Event: "COMMENT"}
}

// PRChangeSet presents a pull request's files as a review.ChangeSet. The
// file list is fetched once, on first use.
type PRChangeSet struct {
	client  *Client
	owner   string
	repo    string
	number  int
	include []string
	exclude []string

	loaded   bool
	deleted  []string
	added    []string
	modified []string
	patches  map[string]string
}

var _ review.ChangeSet = (*PRChangeSet)(nil)

// NewPRChangeSet returns the change set of one pull request. Paths are kept
// when they pass the include and exclude patterns.
func NewPRChangeSet(client *Client, owner, repo string, number int, include, exclude []string) *PRChangeSet {
	return &PRChangeSet{
		client:  client,
		owner:   owner,
		repo:    repo,
		number:  number,
		include: include,
		exclude: exclude,
	}
}

func (p *PRChangeSet) load(ctx context.Context) error {
	if p.loaded {
		return nil
	}
	files, err := p.client.ListPRFiles(ctx, p.owner, p.repo, p.number)
	if err != nil {
		return err
	}
	p.patches = make(map[string]string)
	keep := func(path string) bool { return gitctx.Keep(path, p.include, p.exclude) }
	for _, f := range files {
		switch f.Status {
		case "added", "copied":
			if keep(f.Filename) {
				p.added = append(p.added, f.Filename)
			}
		case "removed":
			if keep(f.Filename) {
				p.deleted = append(p.deleted, f.Filename)
			}
		case "modified", "changed":
			if keep(f.Filename) {
				p.modified = append(p.modified, f.Filename)
				p.patches[f.Filename] = f.Patch
			}
		case "renamed":
			if f.PreviousFilename != "" && keep(f.PreviousFilename) {
				p.deleted = append(p.deleted, f.PreviousFilename)
			}
			if keep(f.Filename) {
				p.added = append(p.added, f.Filename)
			}
		}
	}
	p.loaded = true
	return nil
}

// DeletedFiles returns the paths removed by the pull request.
func (p *PRChangeSet) DeletedFiles(ctx context.Context) ([]string, error) {
	if err := p.load(ctx); err != nil {
		return nil, err
	}
	return p.deleted, nil
}

// AddedFiles returns the paths created by the pull request.
func (p *PRChangeSet) AddedFiles(ctx context.Context) ([]string, error) {
	if err := p.load(ctx); err != nil {
		return nil, err
	}
	return p.added, nil
}

// ModifiedFiles returns the paths changed in place.
func (p *PRChangeSet) ModifiedFiles(ctx context.Context) ([]string, error) {
	if err := p.load(ctx); err != nil {
		return nil, err
	}
	return p.modified, nil
}

// Patch returns the patch GitHub reported for path.
func (p *PRChangeSet) Patch(ctx context.Context, path string) (string, error) {
	if err := p.load(ctx); err != nil {
		return "", err
	}
	patch, ok := p.patches[path]
	if !ok {
		return "", fmt.Errorf("%s is not modified in PR #%d", path, p.number)
	}
	if patch == "" {
		return "", fmt.Errorf("no patch for %s: file is binary or its diff is too large", path)
	}
	return patch, nil
}

var (
	httpsRemoteRe = regexp.MustCompile(`https?://[^/]+/([^/]+)/([^/.\s]+)`)
	sshRemoteRe   = regexp.MustCompile(`[^@]+@[^:]+:([^/]+)/([^/.\s]+)`)
)

// DetectRepo parses owner/repo from the origin remote of the repository in
// dir.
func DetectRepo(ctx context.Context, dir string) (owner, repo string, err error) {
	url, err := gitctx.RemoteURL(ctx, dir, "origin")
	if err != nil {
		return "", "", fmt.Errorf("cannot detect repo: %w", err)
	}
	return ParseRemoteURL(url)
}

// ParseRemoteURL extracts owner/repo from a git remote URL.
func ParseRemoteURL(url string) (owner, repo string, err error) {
	url = strings.TrimSuffix(url, ".git")
	if m := httpsRemoteRe.FindStringSubmatch(url); len(m) == 3 {
		return m[1], m[2], nil
	}
	if m := sshRemoteRe.FindStringSubmatch(url); len(m) == 3 {
		return m[1], m[2], nil
	}
	return "", "", fmt.Errorf("cannot parse owner/repo from remote URL: %s", url)
}

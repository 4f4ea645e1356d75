package review

import (
	"context"
	"crypto/sha256"
	"fmt"
	"strings"
	"time"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/dshills/locguard/internal/l10n"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const (
	toolName    = "locguard"
	toolVersion = "1.0"
)

// DefaultBanner prefixes the new-translations warning.
const DefaultBanner = "New localization strings were added. Don't forget to run the following commands to upload translations to Smartling:\n"

// ChangeSet lists the files of one change and serves their patches.
type ChangeSet interface {
	DeletedFiles(ctx context.Context) ([]string, error)
	AddedFiles(ctx context.Context) ([]string, error)
	ModifiedFiles(ctx context.Context) ([]string, error)
	// Patch returns the unified-diff body of one modified file.
	Patch(ctx context.Context, path string) (string, error)
}

// Sink receives each warning as it is produced.
type Sink interface {
	Warn(message string)
}

// SinkFunc adapts a function to a Sink.
type SinkFunc func(message string)

func (f SinkFunc) Warn(message string) { f(message) }

// Options controls a run.
type Options struct {
	Categories l10n.Categories
	Scope      l10n.Scope
	Banner     string
	Repo       RepoInfo
	Inputs     InputInfo
}

// Run classifies the translation changes in cs. Warnings go to sink (which
// may be nil) in the order they appear in the report. A patch that cannot
// be fetched is logged and skipped.
func Run(ctx context.Context, cs ChangeSet, opts Options, sink Sink) (*Report, error) {
	startTime := time.Now()
	opts = ApplyRules(opts, nil)

	var gitElapsed time.Duration
	list := func(name string, fn func(context.Context) ([]string, error)) ([]string, error) {
		t := time.Now()
		files, err := fn(ctx)
		gitElapsed += time.Since(t)
		if err != nil {
			return nil, fmt.Errorf("listing %s files: %w", name, err)
		}
		return filterTranslationFiles(files), nil
	}

	deletedFiles, err := list("deleted", cs.DeletedFiles)
	if err != nil {
		return nil, err
	}
	addedFiles, err := list("added", cs.AddedFiles)
	if err != nil {
		return nil, err
	}
	modifiedFiles, err := list("modified", cs.ModifiedFiles)
	if err != nil {
		return nil, err
	}

	log.Debug().
		Int("deleted", len(deletedFiles)).
		Int("added", len(addedFiles)).
		Int("modified", len(modifiedFiles)).
		Msg("Collected translation files")

	e := &emitter{sink: sink}

	for _, file := range deletedFiles {
		e.emit(Annotation{
			Kind:    KindDeletedFile,
			Message: fmt.Sprintf("Resource file %s was deleted", file),
			Paths:   []string{file},
		})
	}

	rec := l10n.NewReconciler(opts.Scope)
	for _, file := range modifiedFiles {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		t := time.Now()
		patch, err := cs.Patch(ctx, file)
		gitElapsed += time.Since(t)
		if err != nil {
			log.Warn().Err(err).Str("file", file).Msg("Skipping file, patch unavailable")
			continue
		}
		n := rec.FeedPatch(file, strings.Lines(patch))
		log.Debug().Str("file", file).Int("entries", n).Msg("Reconciled patch")
	}

	for _, key := range rec.Keys() {
		deleted := rec.DeletedByKey(key)
		if len(deleted) == 0 {
			continue
		}
		lines := make([]string, 0, len(deleted))
		paths := make([]string, 0, len(deleted))
		for _, d := range deleted {
			lines = append(lines, "(-)Deleted from "+italic(d.FileName))
			paths = append(paths, d.FileName)
		}
		e.emit(Annotation{
			Kind:    KindDeletedKey,
			Key:     key,
			Message: "Resource " + bold(key) + ": \n" + strings.Join(lines, "\n "),
			Paths:   paths,
		})
	}

	hinted := append(append([]string(nil), addedFiles...), rec.AddedFiles()...)
	hinted = dedup(hinted)
	hints := CommandHints(hinted, opts.Categories)
	if len(hinted) > 0 {
		banner := opts.Banner
		if !strings.HasSuffix(banner, "\n") {
			banner += "\n"
		}
		e.emit(Annotation{
			Kind:    KindNewTranslations,
			Message: banner + strings.Join(hints, "\n"),
			Paths:   hinted,
		})
	}

	deleted, added, modified := rec.Deleted(), rec.Added(), rec.Modified()
	annotations := e.annotations
	if annotations == nil {
		annotations = []Annotation{}
	}

	report := &Report{
		Tool:    toolName,
		Version: toolVersion,
		RunID:   uuid.NewString(),
		Repo:    opts.Repo,
		Inputs:  opts.Inputs,
		Files: FileSet{
			Deleted:  nonNil(deletedFiles),
			Added:    nonNil(addedFiles),
			Modified: nonNil(modifiedFiles),
		},
		Summary:     ComputeSummary(annotations, len(deleted), len(added), len(modified)),
		Annotations: annotations,
		Hints:       hints,
		Deleted:     nonNilEntries(deleted),
		Added:       nonNilEntries(added),
		Modified:    nonNilEntries(modified),
		Timing: Timing{
			GitMs:   gitElapsed.Milliseconds(),
			TotalMs: time.Since(startTime).Milliseconds(),
		},
	}
	report.Inputs.Scope = opts.Scope
	if report.Inputs.Scope == "" {
		report.Inputs.Scope = l10n.ScopeGlobal
	}

	log.Info().
		Int("warnings", len(annotations)).
		Int("deleted", len(deleted)).
		Int("added", len(added)).
		Int("modified", len(modified)).
		Msg("Localization check complete")

	return report, nil
}

// CommandHints returns the deduplicated hint commands for files, in file
// order and then category order. A file may yield several hints.
func CommandHints(files []string, categories l10n.Categories) []string {
	var hints []string
	seen := mapset.NewThreadUnsafeSet[string]()
	for _, file := range files {
		for _, c := range categories.Match(file) {
			if c.Hint == "" {
				continue
			}
			if seen.Add(c.Hint) {
				hints = append(hints, c.Hint)
			}
		}
	}
	return hints
}

type emitter struct {
	sink        Sink
	annotations []Annotation
}

func (e *emitter) emit(a Annotation) {
	a.Severity = a.Kind.Severity()
	a.ID = annotationID(a)
	e.annotations = append(e.annotations, a)
	if e.sink != nil {
		e.sink.Warn(a.Message)
	}
}

func annotationID(a Annotation) string {
	data := fmt.Sprintf("%s:%s:%s", a.Kind, a.Key, strings.Join(a.Paths, ","))
	h := sha256.Sum256([]byte(data))
	return fmt.Sprintf("%x", h[:8])
}

func filterTranslationFiles(files []string) []string {
	var out []string
	for _, f := range files {
		if l10n.IsTranslationFile(f) {
			out = append(out, f)
		}
	}
	return out
}

func dedup(items []string) []string {
	var out []string
	seen := mapset.NewThreadUnsafeSet[string]()
	for _, s := range items {
		if seen.Add(s) {
			out = append(out, s)
		}
	}
	return out
}

func bold(s string) string   { return "**" + s + "**" }
func italic(s string) string { return "_" + s + "_" }

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func nonNilEntries(s []l10n.Entry) []l10n.Entry {
	if s == nil {
		return []l10n.Entry{}
	}
	return s
}

package l10n

import (
	"fmt"
	"iter"
	"slices"
	"strings"

	mapset "github.com/deckarep/golang-set/v2"
)

// Entry is one translation key's state in a diff. OldValue is set only for
// modified entries and holds the value before the change.
type Entry struct {
	Key      string  `json:"resourceKey"`
	Value    string  `json:"resourceValue"`
	FileName string  `json:"fileName"`
	OldValue *string `json:"oldValue,omitempty"`
}

// Scope controls which pending entries a line may be paired with.
type Scope string

const (
	// ScopeGlobal pairs lines across every file fed during a run, so a key
	// moved from one file to another is reported as modified.
	ScopeGlobal Scope = "global"
	// ScopeFile only pairs lines that belong to the same file.
	ScopeFile Scope = "file"
)

// ParseScope validates a scope name. An empty name selects ScopeGlobal.
func ParseScope(s string) (Scope, error) {
	switch Scope(s) {
	case "", ScopeGlobal:
		return ScopeGlobal, nil
	case ScopeFile:
		return ScopeFile, nil
	default:
		return "", fmt.Errorf("unknown reconcile scope %q (want global or file)", s)
	}
}

// Reconciler classifies patch lines into added, deleted and modified entries.
// Pending sets persist across files for the lifetime of the Reconciler. It is
// not safe for concurrent use.
type Reconciler struct {
	scope    Scope
	added    []Entry
	deleted  []Entry
	modified []Entry
	keys     []string
	seen     mapset.Set[string]
}

// NewReconciler returns an empty Reconciler. An empty scope means ScopeGlobal.
func NewReconciler(scope Scope) *Reconciler {
	if scope == "" {
		scope = ScopeGlobal
	}
	return &Reconciler{
		scope: scope,
		seen:  mapset.NewThreadUnsafeSet[string](),
	}
}

// Scope returns the pairing scope.
func (r *Reconciler) Scope() Scope { return r.scope }

// Feed classifies one patch line of file. It reports whether the line was a
// parseable localization entry; everything else is ignored.
func (r *Reconciler) Feed(file, line string) bool {
	switch {
	case strings.HasPrefix(line, `-"`):
		key, value, ok := ParseLine(line)
		if !ok {
			return false
		}
		r.touch(key)
		if i := r.find(r.added, key, file); i >= 0 {
			added := r.added[i]
			r.added = slices.Delete(r.added, i, i+1)
			old := value
			r.modified = append(r.modified, Entry{Key: key, Value: added.Value, OldValue: &old, FileName: file})
		} else if key != "" {
			r.deleted = append(r.deleted, Entry{Key: key, Value: value, FileName: file})
		}
		return true
	case strings.HasPrefix(line, `+"`):
		key, value, ok := ParseLine(line)
		if !ok {
			return false
		}
		r.touch(key)
		if i := r.find(r.deleted, key, file); i >= 0 {
			deleted := r.deleted[i]
			r.deleted = slices.Delete(r.deleted, i, i+1)
			old := deleted.Value
			r.modified = append(r.modified, Entry{Key: key, Value: value, OldValue: &old, FileName: file})
		} else if key != "" {
			r.added = append(r.added, Entry{Key: key, Value: value, FileName: file})
		}
		return true
	}
	return false
}

// FeedPatch feeds every line of a file's patch in order and returns the
// number of localization lines it classified.
func (r *Reconciler) FeedPatch(file string, lines iter.Seq[string]) int {
	n := 0
	for line := range lines {
		if r.Feed(file, strings.TrimRight(line, "\r\n")) {
			n++
		}
	}
	return n
}

// find returns the index of the first pending entry with key, or -1.
func (r *Reconciler) find(pending []Entry, key, file string) int {
	return slices.IndexFunc(pending, func(e Entry) bool {
		if e.Key != key {
			return false
		}
		return r.scope != ScopeFile || e.FileName == file
	})
}

func (r *Reconciler) touch(key string) {
	if key == "" || r.seen.Contains(key) {
		return
	}
	r.seen.Add(key)
	r.keys = append(r.keys, key)
}

// Added returns the entries that were added and never paired.
func (r *Reconciler) Added() []Entry { return slices.Clone(r.added) }

// Deleted returns the entries that were removed and never paired.
func (r *Reconciler) Deleted() []Entry { return slices.Clone(r.deleted) }

// Modified returns the paired entries in the order they were completed.
func (r *Reconciler) Modified() []Entry { return slices.Clone(r.modified) }

// Keys returns every key seen so far, deduplicated, in first-seen order.
func (r *Reconciler) Keys() []string { return slices.Clone(r.keys) }

// DeletedByKey returns the unpaired deleted entries for key.
func (r *Reconciler) DeletedByKey(key string) []Entry {
	var out []Entry
	for _, e := range r.deleted {
		if e.Key == key {
			out = append(out, e)
		}
	}
	return out
}

// AddedFiles returns the distinct files holding unpaired added entries, in
// first-seen order.
func (r *Reconciler) AddedFiles() []string {
	var files []string
	seen := mapset.NewThreadUnsafeSet[string]()
	for _, e := range r.added {
		if seen.Add(e.FileName) {
			files = append(files, e.FileName)
		}
	}
	return files
}

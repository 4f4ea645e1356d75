package review

import "github.com/dshills/locguard/internal/l10n"

// Severity represents the severity level of an annotation.
type Severity string

const (
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

// SeverityRank returns a numeric rank for sorting (higher = more severe).
func SeverityRank(s Severity) int {
	switch s {
	case SeverityHigh:
		return 3
	case SeverityMedium:
		return 2
	case SeverityLow:
		return 1
	default:
		return 0
	}
}

// MeetsThreshold returns true if severity is at or above the threshold.
func MeetsThreshold(s Severity, threshold string) bool {
	if threshold == "none" || threshold == "" {
		return false
	}
	return SeverityRank(s) >= SeverityRank(Severity(threshold))
}

// Kind identifies which check produced an annotation.
type Kind string

const (
	KindDeletedFile     Kind = "deleted-file"
	KindDeletedKey      Kind = "deleted-key"
	KindNewTranslations Kind = "new-translations"
)

// Severity returns the fixed severity of annotations of this kind.
func (k Kind) Severity() Severity {
	switch k {
	case KindDeletedFile:
		return SeverityHigh
	case KindDeletedKey:
		return SeverityMedium
	default:
		return SeverityLow
	}
}

// Title returns a short human-readable label.
func (k Kind) Title() string {
	switch k {
	case KindDeletedFile:
		return "Resource file deleted"
	case KindDeletedKey:
		return "Translation deleted"
	case KindNewTranslations:
		return "New translations"
	default:
		return string(k)
	}
}

// Annotation is one advisory warning sent to the review surface.
type Annotation struct {
	ID       string   `json:"id"`
	Kind     Kind     `json:"kind"`
	Severity Severity `json:"severity"`
	Message  string   `json:"message"`
	Key      string   `json:"key,omitempty"`
	Paths    []string `json:"paths,omitempty"`
}

// RepoInfo contains repository metadata.
type RepoInfo struct {
	Root   string `json:"root"`
	Head   string `json:"head"`
	Branch string `json:"branch"`
}

// InputInfo describes what was checked.
type InputInfo struct {
	Mode  string     `json:"mode"`
	Range string     `json:"range,omitempty"`
	Scope l10n.Scope `json:"scope"`
}

// FileSet lists the translation files of a change set by status.
type FileSet struct {
	Deleted  []string `json:"deleted"`
	Added    []string `json:"added"`
	Modified []string `json:"modified"`
}

// SeverityCounts holds counts by severity level.
type SeverityCounts struct {
	Low    int `json:"low"`
	Medium int `json:"medium"`
	High   int `json:"high"`
}

// Summary provides an overview of the run.
type Summary struct {
	Counts          SeverityCounts `json:"counts"`
	HighestSeverity Severity       `json:"highestSeverity"`
	Deleted         int            `json:"deleted"`
	Added           int            `json:"added"`
	Modified        int            `json:"modified"`
}

// Timing contains performance metrics.
type Timing struct {
	GitMs   int64 `json:"gitMs"`
	TotalMs int64 `json:"totalMs"`
}

// Report is the top-level output structure.
type Report struct {
	Tool        string       `json:"tool"`
	Version     string       `json:"version"`
	RunID       string       `json:"runId"`
	Repo        RepoInfo     `json:"repo"`
	Inputs      InputInfo    `json:"inputs"`
	Files       FileSet      `json:"files"`
	Summary     Summary      `json:"summary"`
	Annotations []Annotation `json:"annotations"`
	Hints       []string     `json:"hints,omitempty"`
	Deleted     []l10n.Entry `json:"deletedLocalizations"`
	Added       []l10n.Entry `json:"addedLocalizations"`
	Modified    []l10n.Entry `json:"modifiedLocalizations"`
	Timing      Timing       `json:"timing"`
}

// ComputeSummary calculates the summary from annotations and entry counts.
func ComputeSummary(annotations []Annotation, deleted, added, modified int) Summary {
	s := Summary{Deleted: deleted, Added: added, Modified: modified}
	for _, a := range annotations {
		switch a.Severity {
		case SeverityLow:
			s.Counts.Low++
		case SeverityMedium:
			s.Counts.Medium++
		case SeverityHigh:
			s.Counts.High++
		}
		if SeverityRank(a.Severity) > SeverityRank(s.HighestSeverity) {
			s.HighestSeverity = a.Severity
		}
	}
	return s
}

// Exceeds reports whether any annotation meets the fail-on threshold.
func (r *Report) Exceeds(threshold string) bool {
	for _, a := range r.Annotations {
		if MeetsThreshold(a.Severity, threshold) {
			return true
		}
	}
	return false
}

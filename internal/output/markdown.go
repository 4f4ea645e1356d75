package output

import (
	"io"
	"strings"

	"github.com/dshills/locguard/internal/l10n"
	"github.com/dshills/locguard/internal/review"
)

// MarkdownWriter outputs a PR-comment-friendly markdown report.
type MarkdownWriter struct{}

func (m *MarkdownWriter) Write(w io.Writer, report *review.Report) error {
	ew := &errWriter{w: w}
	total := totalCount(report)

	ew.printf("## Localization Check\n\n")
	ew.printf("| Severity | Count |\n")
	ew.printf("|----------|-------|\n")
	ew.printf("| High     | %d    |\n", report.Summary.Counts.High)
	ew.printf("| Medium   | %d    |\n", report.Summary.Counts.Medium)
	ew.printf("| Low      | %d    |\n", report.Summary.Counts.Low)
	ew.printf("| **Total** | **%d** |\n\n", total)

	if total == 0 {
		ew.println("No localization warnings. :white_check_mark:")
	} else {
		ew.printf("| | %d Warnings |\n", total)
		ew.printf("|---|---|\n")
		grouped := bySeverity(report.Annotations)
		for _, sev := range severityOrder {
			for _, a := range grouped[sev] {
				ew.printf("| %s | %s |\n", mdSeverityIcon(sev), mdCell(a.Message))
			}
		}
	}

	mdEntries(ew, "Deleted localizations", report.Deleted)
	mdEntries(ew, "Added localizations", report.Added)
	mdEntries(ew, "Modified localizations", report.Modified)

	ew.printf("\n*Checked in %dms (git: %dms)*\n", report.Timing.TotalMs, report.Timing.GitMs)
	return ew.err
}

func mdEntries(ew *errWriter, title string, entries []l10n.Entry) {
	if len(entries) == 0 {
		return
	}
	ew.printf("\n<details>\n<summary>%s (%d)</summary>\n\n", title, len(entries))
	ew.println("| Key | Value | Previous | File |")
	ew.println("|-----|-------|----------|------|")
	for _, e := range entries {
		prev := ""
		if e.OldValue != nil {
			prev = mdCell(*e.OldValue)
		}
		ew.printf("| `%s` | %s | %s | `%s` |\n", e.Key, mdCell(e.Value), prev, e.FileName)
	}
	ew.printf("\n</details>\n")
}

// mdCell makes s safe inside a single table cell.
func mdCell(s string) string {
	s = strings.TrimRight(s, "\n")
	s = strings.ReplaceAll(s, "|", `\|`)
	return strings.ReplaceAll(s, "\n", "<br>")
}

func mdSeverityIcon(s review.Severity) string {
	switch s {
	case review.SeverityHigh:
		return ":red_circle:"
	case review.SeverityMedium:
		return ":orange_circle:"
	case review.SeverityLow:
		return ":warning:"
	default:
		return ":white_circle:"
	}
}

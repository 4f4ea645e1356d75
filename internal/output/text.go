package output

import (
	"io"
	"strings"
	"text/tabwriter"

	"github.com/dshills/locguard/internal/l10n"
	"github.com/dshills/locguard/internal/review"
)

// TextWriter outputs a human-readable text report.
type TextWriter struct{}

func (t *TextWriter) Write(w io.Writer, report *review.Report) error {
	ew := &errWriter{w: w}

	total := totalCount(report)
	ew.printf("Localization Check: %s mode (%s scope)\n", report.Inputs.Mode, report.Inputs.Scope)
	if report.Inputs.Range != "" {
		ew.printf("Range: %s\n", report.Inputs.Range)
	}
	if report.Repo.Root != "" {
		ew.printf("Repository: %s (branch: %s)\n", report.Repo.Root, report.Repo.Branch)
	}
	ew.println(strings.Repeat("─", 60))
	ew.printf("Warnings: %d total", total)
	if total > 0 {
		ew.printf(" (%d high, %d medium, %d low)",
			report.Summary.Counts.High,
			report.Summary.Counts.Medium,
			report.Summary.Counts.Low,
		)
	}
	ew.println("")
	ew.printf("Localizations: %d deleted, %d added, %d modified\n",
		report.Summary.Deleted, report.Summary.Added, report.Summary.Modified)
	ew.println(strings.Repeat("─", 60))

	if total == 0 {
		ew.println("\nNo localization warnings.")
	}

	grouped := bySeverity(report.Annotations)
	for _, sev := range severityOrder {
		annotations := grouped[sev]
		if len(annotations) == 0 {
			continue
		}
		ew.printf("\n%s %s\n", severityIcon(sev), strings.ToUpper(string(sev)))
		ew.println(strings.Repeat("─", 40))
		for _, a := range annotations {
			ew.printf("\n  %s\n", a.Kind.Title())
			for line := range strings.Lines(a.Message) {
				ew.printf("    %s\n", strings.TrimRight(line, "\n"))
			}
		}
	}

	if ew.err == nil {
		ew.err = writeEntryTable(w, "Deleted", report.Deleted)
	}
	if ew.err == nil {
		ew.err = writeEntryTable(w, "Added", report.Added)
	}
	if ew.err == nil {
		ew.err = writeEntryTable(w, "Modified", report.Modified)
	}

	ew.printf("\n%s\n", strings.Repeat("─", 60))
	ew.printf("Completed in %dms (git: %dms)\n", report.Timing.TotalMs, report.Timing.GitMs)

	return ew.err
}

func writeEntryTable(w io.Writer, title string, entries []l10n.Entry) error {
	if len(entries) == 0 {
		return nil
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	ew := &errWriter{w: tw}
	ew.printf("\n%s localizations (%d)\n", title, len(entries))
	ew.println("  KEY\tVALUE\tFILE")
	for _, e := range entries {
		value := e.Value
		if e.OldValue != nil {
			value = *e.OldValue + " -> " + e.Value
		}
		ew.printf("  %s\t%s\t%s\n", e.Key, value, e.FileName)
	}
	if ew.err != nil {
		return ew.err
	}
	return tw.Flush()
}

func severityIcon(s review.Severity) string {
	switch s {
	case review.SeverityHigh:
		return "[!!]"
	case review.SeverityMedium:
		return "[!]"
	case review.SeverityLow:
		return "[-]"
	default:
		return "[?]"
	}
}

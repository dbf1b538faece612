// Package render turns run results into terminal output: a styled
// per-file report for humans, and glamour-rendered markdown for the
// rules documentation.
package render

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/ormasoftchile/ngslint/pkg/diagnostic"
	"github.com/ormasoftchile/ngslint/pkg/session"
)

var (
	styleError   = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	styleWarning = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	styleInfo    = lipgloss.NewStyle().Foreground(lipgloss.Color("12"))
	stylePass    = lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true)
	styleFile    = lipgloss.NewStyle().Bold(true)
	styleDim     = lipgloss.NewStyle().Faint(true)
)

func severityLabel(s diagnostic.Severity) string {
	switch s {
	case diagnostic.SeverityError:
		return styleError.Render("error")
	case diagnostic.SeverityWarning:
		return styleWarning.Render("warning")
	default:
		return styleInfo.Render("info")
	}
}

// Report renders a whole run for the terminal.
func Report(run *session.RunResult) string {
	var b strings.Builder
	for _, res := range run.Results {
		b.WriteString(fileReport(res))
	}
	b.WriteString(summaryLine(run.Summary))
	return b.String()
}

func fileReport(res *session.ValidationResult) string {
	var b strings.Builder

	name := res.RelativePath
	if res.IsFolderAudit {
		name = fmt.Sprintf("%s (folder audit)", name)
	}
	status := stylePass.Render("PASS")
	if res.Status == session.StatusFail {
		status = styleError.Render("FAIL")
	}
	fmt.Fprintf(&b, "%s  %s %s\n", status, styleFile.Render(name),
		styleDim.Render(string(res.ArtifactKind)))

	all := append(append([]*diagnostic.Diagnostic{}, res.Diagnostics...), res.Warnings...)
	if len(all) == 0 {
		return b.String()
	}

	// Align messages past the widest severity/path gutter.
	gutter := 0
	for _, d := range all {
		if w := runewidth.StringWidth(gutterText(d)); w > gutter {
			gutter = w
		}
	}
	for _, d := range all {
		g := gutterText(d)
		pad := strings.Repeat(" ", gutter-runewidth.StringWidth(g))
		fmt.Fprintf(&b, "  %s %s%s  %s\n", severityLabel(d.Severity), styleDim.Render(g), pad, d.Message)
		if d.Suggestion != "" {
			fmt.Fprintf(&b, "  %s suggestion: %s\n", strings.Repeat(" ", 7), d.Suggestion)
		}
	}
	b.WriteString("\n")
	return b.String()
}

// gutterText is the location column: logical path plus line number when
// the locator resolved one.
func gutterText(d *diagnostic.Diagnostic) string {
	path := d.FieldPath
	if path == "" {
		path = "-"
	}
	if d.Location != nil {
		return fmt.Sprintf("%s:%d", path, d.Location.LineNumber)
	}
	return path
}

func summaryLine(s session.Summary) string {
	text := fmt.Sprintf("%d files, %d passed, %d failed, %d errors, %d warnings",
		s.Files, s.Passed, s.Failed, s.Errors, s.Warnings)
	if s.Failed > 0 {
		return styleError.Render(text) + "\n"
	}
	return stylePass.Render(text) + "\n"
}

// Markdown renders markdown for the terminal, falling back to the raw
// text when glamour is unavailable.
func Markdown(md string) string {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(100),
	)
	if err != nil {
		return md
	}
	out, err := r.Render(md)
	if err != nil {
		return md
	}
	return strings.TrimRight(out, "\n") + "\n"
}

// RulesDoc builds the markdown documentation for one kind or, with an
// empty argument, the whole taxonomy.
func RulesDoc(kind string) (string, error) {
	if kind != "" {
		def, ok := diagnostic.Lookup(diagnostic.Kind(kind))
		if !ok {
			return "", fmt.Errorf("unknown diagnostic kind %q", kind)
		}
		return kindDoc(def), nil
	}
	var b strings.Builder
	b.WriteString("# ngslint diagnostic kinds\n\n")
	for _, k := range diagnostic.Kinds() {
		def, _ := diagnostic.Lookup(k)
		b.WriteString(kindDoc(def))
	}
	return b.String(), nil
}

func kindDoc(def diagnostic.Definition) string {
	return fmt.Sprintf("## `%s` (%s)\n\n%s\n\n%s\n\n",
		def.Kind, def.DefaultSeverity, def.Summary, def.Doc)
}

// Package console печатает ход генерации и итоговую историю в терминал.
package console

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"

	"github.com/kitbuilder587/bedtime-stories/internal/domain"
	"github.com/kitbuilder587/bedtime-stories/internal/service"
)

type styles struct {
	heading lipgloss.Style
	ok      lipgloss.Style
	warn    lipgloss.Style
	muted   lipgloss.Style
}

// Printer пишет в out. Трассировка (методы Observer) печатается только при verbose.
type Printer struct {
	out     io.Writer
	verbose bool
	styles  styles
}

func NewPrinter(out io.Writer, verbose bool) *Printer {
	r := lipgloss.NewRenderer(out)
	return &Printer{
		out:     out,
		verbose: verbose,
		styles: styles{
			heading: r.NewStyle().Bold(true).Foreground(lipgloss.Color("63")),
			ok:      r.NewStyle().Foreground(lipgloss.Color("42")),
			warn:    r.NewStyle().Foreground(lipgloss.Color("214")),
			muted:   r.NewStyle().Foreground(lipgloss.Color("245")),
		},
	}
}

// RunInfo - то, что показываем в шапке
type RunInfo struct {
	Provider string
	Model    string
	Request  domain.StoryRequest
}

func (p *Printer) Banner(info RunInfo) {
	req := info.Request
	fmt.Fprintln(p.out, p.styles.heading.Render("Starting story generation..."))
	fmt.Fprintf(p.out, "   Topic: %s\n", req.Topic)
	fmt.Fprintf(p.out, "   Age: %d\n", req.Age)
	fmt.Fprintf(p.out, "   Style: %s\n", req.Style)
	fmt.Fprintf(p.out, "   Moral: %s\n", req.Moral)
	fmt.Fprintf(p.out, "   Score Threshold: %.1f/5\n", req.Threshold)
	fmt.Fprintf(p.out, "   Max Revisions: %d\n", req.MaxLoops)
	if info.Provider != "" {
		fmt.Fprintf(p.out, "   %s\n", p.styles.muted.Render(fmt.Sprintf("Provider: %s (%s)", info.Provider, info.Model)))
	}
	fmt.Fprintln(p.out)
}

func (p *Printer) DraftCreated(words int) {
	if !p.verbose {
		return
	}
	fmt.Fprintf(p.out, "Draft word count: %d\n\n", words)
}

func (p *Printer) LengthFixStarted(hint string) {
	if !p.verbose {
		return
	}
	fmt.Fprintf(p.out, "Length off on first draft; applying one length-aware revision: %s\n", hint)
}

func (p *Printer) LengthFixApplied(words int) {
	if !p.verbose {
		return
	}
	fmt.Fprintf(p.out, "Post-length-fix word count: %d\n\n", words)
}

func (p *Printer) Judged(round int, report *domain.JudgeReport) {
	if !p.verbose {
		return
	}
	fmt.Fprintf(p.out, "Judge report, round %d (JSON):\n", round)
	fmt.Fprintln(p.out, formatReport(report))
	fmt.Fprintln(p.out)
}

func (p *Printer) RevisionStarted(loop, maxLoops int) {
	if !p.verbose {
		return
	}
	fmt.Fprintf(p.out, "\n%s\n", p.styles.muted.Render(fmt.Sprintf("Revision loop %d / %d", loop, maxLoops)))
}

// Result печатает итог: статус, историю и оценки
func (p *Printer) Result(result *domain.StoryResult) {
	heading := "=== FINAL STORY ==="
	switch {
	case result.Outcome == domain.OutcomeBestEffort:
		fmt.Fprintln(p.out)
		fmt.Fprintln(p.out, p.styles.warn.Render("Max revisions reached. Returning latest draft."))
		heading = "=== FINAL STORY (BEST EFFORT) ==="
	case result.AcceptedOnFirstPass():
		fmt.Fprintln(p.out, p.styles.ok.Render("Threshold met on first pass."))
	default:
		fmt.Fprintln(p.out)
		fmt.Fprintln(p.out, p.styles.ok.Render("Threshold met."))
	}

	fmt.Fprintln(p.out)
	fmt.Fprintln(p.out, p.styles.heading.Render(heading))
	fmt.Fprintln(p.out)
	fmt.Fprintln(p.out, result.Story)
	fmt.Fprintln(p.out)
	fmt.Fprintln(p.out, p.styles.heading.Render("=== SCORES ==="))
	fmt.Fprintln(p.out, formatReport(result.Report))
}

func formatReport(report *domain.JudgeReport) string {
	if report == nil {
		return "{}"
	}
	body, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Sprintf("%+v", *report)
	}
	return string(body)
}

var _ service.Observer = (*Printer)(nil)

package report

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

type textFormatter struct {
	name   lipgloss.Style
	failed lipgloss.Style
	bold   lipgloss.Style
}

func newText(color bool) *textFormatter {
	r := lipgloss.NewRenderer(io.Discard)
	if color {
		r.SetColorProfile(termenv.ANSI256)
	} else {
		r.SetColorProfile(termenv.Ascii)
	}

	return &textFormatter{
		name:   r.NewStyle().Foreground(lipgloss.Color("39")).Bold(true),
		failed: r.NewStyle().Foreground(lipgloss.Color("204")).Bold(true),
		bold:   r.NewStyle().Bold(true),
	}
}

func (f *textFormatter) Banner(w io.Writer, b Banner) {
	fmt.Fprintf(w, ">%s %s@%s iter:%d samples:%d\n", b.Document, b.Runtime, b.Version, b.Iterations, b.Samples)
}

func (f *textFormatter) Result(w io.Writer, r Result) {
	if r.Failed() {
		fmt.Fprintf(w, "%s |\n %s\n", f.failed.Render(r.Name), r.Error)
		return
	}
	fmt.Fprintf(w, "%s | %s (std. %s o. %d%%)\n",
		f.name.Render(r.Name),
		f.bold.Render(Unit(float64(r.Stats.Mean))),
		Unit(float64(r.Stats.Std)),
		r.Stats.Outliers,
	)
}

func (f *textFormatter) Failure(w io.Writer, document, text string) {
	fmt.Fprintf(w, "%s: %s at %s\n", f.failed.Render("Error"), text, document)
}

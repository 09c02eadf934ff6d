package report

import (
	"fmt"
	"io"
	"strings"
)

const (
	markdownHeader    = "| name | mean | std | outliers |"
	markdownSeparator = "|------|------|-----|----------|"
)

var cellReplacer = strings.NewReplacer("|", `\|`, "\r\n", " ", "\n", " ")

type markdownFormatter struct {
	table bool
}

func (f *markdownFormatter) Banner(w io.Writer, b Banner) {
	fmt.Fprintf(w, "### *%s*, %s@%s\n", b.Document, b.Runtime, b.Version)
	fmt.Fprintf(w, "iter:%d samples:%d\n\n", b.Iterations, b.Samples)
	if f.table {
		fmt.Fprintln(w, markdownHeader)
		fmt.Fprintln(w, markdownSeparator)
	}
}

func (f *markdownFormatter) Result(w io.Writer, r Result) {
	if r.Failed() {
		fmt.Fprintf(w, "| %s | error: %s | | |\n", cell(r.Name), cell(r.Error))
		return
	}
	fmt.Fprintf(w, "| %s | %s | %s | %d%% |\n",
		cell(r.Name), Unit(float64(r.Stats.Mean)), Unit(float64(r.Stats.Std)), r.Stats.Outliers)
}

func (f *markdownFormatter) Failure(w io.Writer, document, text string) {
	fmt.Fprintf(w, "**Error**: %s at *%s*\n", text, document)
}

func cell(s string) string {
	return cellReplacer.Replace(s)
}

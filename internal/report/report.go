// Package report renders benchmark results for humans and machines.
package report

import (
	"errors"
	"fmt"
	"io"
	"math"
	"math/big"
	"strings"

	"github.com/vk/jsbm/internal/stats"
)

// Output formats understood by New.
const (
	FormatText     = "text"
	FormatMarkdown = "markdown"
	FormatJSON     = "json"
)

// ErrUnknownFormat is returned by New for formats it cannot render.
var ErrUnknownFormat = errors.New("unknown report format")

// Formats lists every supported output format.
func Formats() []string {
	return []string{FormatText, FormatMarkdown, FormatJSON}
}

// Result is the outcome of one snippet on one runtime. Exactly one of Stats
// and Error is meaningful: a nil Stats marks a failed snippet.
type Result struct {
	Document string       `json:"document"`
	Runtime  string       `json:"runtime,omitempty"`
	Name     string       `json:"name,omitempty"`
	Stats    *stats.Stats `json:"stats,omitempty"`
	Error    string       `json:"error,omitempty"`
}

// Failed reports whether the snippet threw instead of producing statistics.
func (r Result) Failed() bool {
	return r.Stats == nil
}

// Banner introduces the results of one document on one runtime.
type Banner struct {
	Document   string
	Runtime    string
	Version    string
	Iterations int
	Samples    int
}

// Formatter writes banners, results and document-level failures.
type Formatter interface {
	Banner(w io.Writer, b Banner)
	Result(w io.Writer, r Result)
	Failure(w io.Writer, document, text string)
}

// New returns the formatter for format. color enables ANSI styling in text
// output. table makes the markdown banner open a results table; leave it off
// when the script prints its own table header.
func New(format string, color, table bool) (Formatter, error) {
	switch format {
	case FormatText:
		return newText(color), nil
	case FormatMarkdown:
		return &markdownFormatter{table: table}, nil
	case FormatJSON:
		return jsonFormatter{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}

// Unit renders a duration given in microseconds with the largest unit that
// keeps it readable: whole microseconds below a millisecond, then
// milliseconds and seconds with two decimals.
func Unit(micros float64) string {
	switch {
	case micros < 1_000:
		return toFixed(micros, 0) + "μs"
	case micros < 1_000_000:
		return toFixed(micros/1_000, 2) + "ms"
	default:
		return toFixed(micros/1_000_000, 2) + "s"
	}
}

// toFixed formats x with digits decimals like Number.prototype.toFixed: the
// exact binary value of x is rounded to the nearest decimal, and a true tie
// goes to the larger candidate. 1.285 is stored below the tie and gives
// "1.28"; 1.125 is a tie and gives "1.13".
func toFixed(x float64, digits int) string {
	switch {
	case math.IsNaN(x):
		return "NaN"
	case math.IsInf(x, 1):
		return "Infinity"
	case math.IsInf(x, -1):
		return "-Infinity"
	}

	sign := ""
	if x < 0 {
		sign, x = "-", -x
	}

	// 128 bits hold x times a small power of ten exactly.
	scale := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(digits)), nil)
	y := new(big.Float).SetPrec(128).SetFloat64(x)
	y.Mul(y, new(big.Float).SetPrec(128).SetInt(scale))

	n, _ := y.Int(nil)
	frac := new(big.Float).SetPrec(128).Sub(y, new(big.Float).SetPrec(128).SetInt(n))
	if frac.Cmp(big.NewFloat(0.5)) >= 0 {
		n.Add(n, big.NewInt(1))
	}

	s := n.String()
	if digits == 0 {
		return sign + s
	}
	if len(s) <= digits {
		s = strings.Repeat("0", digits-len(s)+1) + s
	}
	return sign + s[:len(s)-digits] + "." + s[len(s)-digits:]
}

package report

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/jsbm/internal/stats"
)

func TestUnit(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		micros float64
		want   string
	}{
		{micros: 0, want: "0μs"},
		{micros: 42, want: "42μs"},
		{micros: 999, want: "999μs"},
		{micros: 1000, want: "1.00ms"},
		{micros: 1125, want: "1.13ms"},
		{micros: 1285, want: "1.28ms"},
		{micros: 1565, want: "1.56ms"},
		{micros: 1605, want: "1.60ms"},
		{micros: 0.5, want: "1μs"},
		{micros: 2.5, want: "3μs"},
		{micros: 1005, want: "1.00ms"},
		{micros: 28000, want: "28.00ms"},
		{micros: 999_999, want: "1000.00ms"},
		{micros: 1_000_000, want: "1.00s"},
		{micros: 2_345_678, want: "2.35s"},
	}

	for _, tc := range testCases {
		assert.Equal(t, tc.want, Unit(tc.micros), "Unit(%v)", tc.micros)
	}
}

func TestNew_UnknownFormat(t *testing.T) {
	t.Parallel()

	f, err := New("yaml", false, false)

	require.ErrorIs(t, err, ErrUnknownFormat)
	assert.Nil(t, f)
}

func TestText(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	f, err := New(FormatText, false, false)
	require.NoError(t, err)
	var buf bytes.Buffer

	// --- Act ---
	f.Banner(&buf, Banner{Document: "bench.js", Runtime: "node", Version: "22.1.0", Iterations: 1, Samples: 1000})
	f.Result(&buf, Result{Name: "map", Stats: &stats.Stats{Mean: 28000, Std: 36000, Outliers: 0}})
	f.Result(&buf, Result{Name: "boom", Error: "Error: x"})
	f.Failure(&buf, "bad.js", "failed parsing")

	// --- Assert ---
	want := ">bench.js node@22.1.0 iter:1 samples:1000\n" +
		"map | 28.00ms (std. 36.00ms o. 0%)\n" +
		"boom |\n Error: x\n" +
		"Error: failed parsing at bad.js\n"
	assert.Equal(t, want, buf.String())
}

func TestText_Color(t *testing.T) {
	t.Parallel()

	f, err := New(FormatText, true, false)
	require.NoError(t, err)
	var buf bytes.Buffer

	f.Result(&buf, Result{Name: "map", Stats: &stats.Stats{Mean: 5, Std: 1}})
	f.Result(&buf, Result{Name: "boom", Error: "x"})

	out := buf.String()
	assert.Contains(t, out, "\x1b[")
	assert.Contains(t, out, "38;5;39")
	assert.Contains(t, out, "38;5;204")
	assert.Contains(t, out, "5μs")
}

func TestMarkdown(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	f, err := New(FormatMarkdown, true, true)
	require.NoError(t, err)
	var buf bytes.Buffer

	// --- Act ---
	f.Banner(&buf, Banner{Document: "a.ts", Runtime: "bun", Version: "1.1.0", Iterations: 10, Samples: 50})
	f.Result(&buf, Result{Name: "a|b", Stats: &stats.Stats{Mean: 1500, Std: 20, Outliers: 3}})
	f.Result(&buf, Result{Name: "boom", Error: "Error: x\n    at y"})

	// --- Assert ---
	want := "### *a.ts*, bun@1.1.0\n" +
		"iter:10 samples:50\n\n" +
		"| name | mean | std | outliers |\n" +
		"|------|------|-----|----------|\n" +
		"| a\\|b | 1.50ms | 20μs | 3% |\n" +
		"| boom | error: Error: x     at y | | |\n"
	assert.Equal(t, want, buf.String())
	assert.NotContains(t, buf.String(), "\x1b[")
}

func TestMarkdown_BannerWithoutTable(t *testing.T) {
	t.Parallel()

	f, err := New(FormatMarkdown, false, false)
	require.NoError(t, err)
	var buf bytes.Buffer

	f.Banner(&buf, Banner{Document: "a.js", Runtime: "node", Version: "20.0.0", Iterations: 1, Samples: 1})

	assert.NotContains(t, buf.String(), markdownHeader)
}

func TestJSON(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	f, err := New(FormatJSON, true, false)
	require.NoError(t, err)
	var buf bytes.Buffer

	// --- Act ---
	f.Banner(&buf, Banner{Document: "a.js"})
	f.Result(&buf, Result{Document: "a.js", Runtime: "node", Name: "map", Stats: &stats.Stats{Mean: 7, Std: 1, Outliers: 2}})
	f.Failure(&buf, "b.js", "failed reading")

	// --- Assert ---
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.JSONEq(t, `{"document":"a.js","runtime":"node","name":"map","stats":{"mean_us":7,"std_us":1,"outliers_pct":2}}`, lines[0])
	assert.JSONEq(t, `{"document":"b.js","error":"failed reading"}`, lines[1])

	var decoded Result
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &decoded))
	assert.False(t, decoded.Failed())
}

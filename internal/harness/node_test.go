package harness_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"math/rand/v2"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"slices"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/jsbm/internal/document"
	"github.com/vk/jsbm/internal/harness"
	"github.com/vk/jsbm/internal/host"
	"github.com/vk/jsbm/internal/report"
	"github.com/vk/jsbm/internal/stats"
)

// runNode writes script to a temporary file, runs it with node and returns
// its stdout lines. The test is skipped when node is not installed.
func runNode(t *testing.T, script string) []string {
	t.Helper()
	node, err := exec.LookPath("node")
	if err != nil {
		t.Skip("node is not installed")
	}

	path := filepath.Join(t.TempDir(), "bench.jsbm.js")
	require.NoError(t, os.WriteFile(path, []byte(script), 0o644))

	var stderr bytes.Buffer
	var lines []string
	err = host.NewRunner(&stderr).Execute(context.Background(), node, path, func(line string) {
		lines = append(lines, line)
	})
	require.NoError(t, err, "stderr: %s", stderr.String())
	return lines
}

// lineIndex returns the index of the first line starting with prefix, or -1.
func lineIndex(lines []string, prefix string) int {
	return slices.IndexFunc(lines, func(l string) bool { return strings.HasPrefix(l, prefix) })
}

var failingDocument = []document.Item{
	document.Content{Text: "let counter = 0;"},
	document.Snippet{Name: "boom", Code: "throw new Error('x');"},
	document.Snippet{Name: "after", Code: "counter++;"},
	document.Snippet{Name: "str", Code: "throw 'plain';"},
	document.Snippet{Name: "nul", Code: "throw null;"},
}

func TestScript_FailingSnippetDoesNotStopTheNext(t *testing.T) {
	t.Parallel()

	statLine := regexp.MustCompile(`^after \| \d+(\.\d{2})?(μs|ms|s) \(std\. \d+(\.\d{2})?(μs|ms|s) o\. \d+%\)$`)
	mdRow := regexp.MustCompile(`^\| after \| \S+ \| \S+ \| \d+% \|$`)

	testCases := []struct {
		name      string
		mode      harness.Mode
		failLines []string
		okLine    *regexp.Regexp
	}{
		{
			name:      "text",
			mode:      harness.ModeText,
			failLines: []string{"boom |", "str |", "nul |"},
			okLine:    statLine,
		},
		{
			name:      "markdown",
			mode:      harness.ModeMarkdown,
			failLines: []string{"| boom | error: Error: x", "| str | error: plain", "| nul | error: null"},
			okLine:    mdRow,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			// --- Arrange ---
			g, err := harness.NewGenerator(harness.Options{Samples: 5, Iterations: 2, Mode: tc.mode})
			require.NoError(t, err)

			// --- Act ---
			lines := runNode(t, g.Script(failingDocument))

			// --- Assert ---
			boom := lineIndex(lines, tc.failLines[0])
			after := slices.IndexFunc(lines, tc.okLine.MatchString)
			str := lineIndex(lines, tc.failLines[1])
			nul := lineIndex(lines, tc.failLines[2])
			require.True(t, boom >= 0 && after >= 0 && str >= 0 && nul >= 0, "output:\n%s", strings.Join(lines, "\n"))
			assert.Less(t, boom, after)
			assert.Less(t, after, str)
			assert.Less(t, str, nul)
		})
	}
}

func TestScript_StructuredRecords(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	g, err := harness.NewGenerator(harness.Options{Samples: 7, Iterations: 3, Mode: harness.ModeStructured})
	require.NoError(t, err)

	// --- Act ---
	lines := runNode(t, g.Script(failingDocument))

	// --- Assert ---
	var records []report.Record
	for _, line := range lines {
		rec, ok, err := report.DecodeRecord(line)
		require.True(t, ok, "unexpected line %q", line)
		require.NoError(t, err)
		records = append(records, rec)
	}
	require.Len(t, records, 4)

	assert.Equal(t, "boom", records[0].Name)
	assert.Nil(t, records[0].Samples)
	assert.True(t, strings.HasPrefix(records[0].Error, "Error: x"), records[0].Error)

	assert.Equal(t, "after", records[1].Name)
	assert.Len(t, records[1].Samples, 7)
	assert.Empty(t, records[1].Error)
	res := records[1].Resolve("bench.js", "node")
	assert.False(t, res.Failed())

	assert.Equal(t, "plain", records[2].Error)
	assert.Equal(t, "null", records[3].Error)
}

func TestScript_StatisticsMatchReduce(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	rng := rand.New(rand.NewPCG(7, 11))
	sets := [][]float64{
		{10, 10, 10, 10, 100},
		{1},
		{0.25, 4},
		{1, 2, 3},
		{1, 1, 1, 1, 1, 1, 1, 50},
	}
	for range 300 {
		set := make([]float64, 1+rng.IntN(40))
		for i := range set {
			set[i] = rng.Float64() * 5
			if rng.IntN(10) == 0 {
				set[i] *= 40
			}
		}
		sets = append(sets, set)
	}

	var script strings.Builder
	script.WriteString(harness.Helpers(harness.ModeText, false) + "\n")
	for _, set := range sets {
		b, err := json.Marshal(set)
		require.NoError(t, err)
		fmt.Fprintf(&script, "console.log(JSON.stringify(_jsbm_snd(%s)));\n", b)
	}

	// --- Act ---
	lines := runNode(t, script.String())

	// --- Assert ---
	require.Len(t, lines, len(sets))
	for i, set := range sets {
		var got struct{ Mean, Std, Outliers int64 }
		require.NoError(t, json.Unmarshal([]byte(lines[i]), &got))

		want, err := stats.Reduce(set)
		require.NoError(t, err)
		assert.Equal(t, want, stats.Stats{Mean: got.Mean, Std: got.Std, Outliers: got.Outliers}, "samples %v", set)
	}
}

func TestScript_UnitMatchesReport(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	var micros []float64
	for v := 0; v < 20_000; v++ {
		micros = append(micros, float64(v))
	}
	for v := 995_000; v < 1_005_000; v += 7 {
		micros = append(micros, float64(v))
	}
	for v := 1_000_000; v < 60_000_000; v += 4_999 {
		micros = append(micros, float64(v))
	}
	b, err := json.Marshal(micros)
	require.NoError(t, err)
	script := harness.Helpers(harness.ModeText, false) + "\n" +
		fmt.Sprintf("for (const v of %s) console.log(_jsbm_unit(v));\n", b)

	// --- Act ---
	lines := runNode(t, script)

	// --- Assert ---
	require.Len(t, lines, len(micros))
	var mismatches []string
	for i, v := range micros {
		if got := report.Unit(v); got != lines[i] {
			mismatches = append(mismatches, fmt.Sprintf("%v: go=%s js=%s", v, got, lines[i]))
		}
	}
	assert.Empty(t, mismatches)
}

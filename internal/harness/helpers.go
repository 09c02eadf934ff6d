package harness

import (
	"fmt"
	"strings"
)

// Mode selects how a generated script reports its results.
type Mode int

const (
	// ModeText prints one colored line per snippet.
	ModeText Mode = iota
	// ModeMarkdown prints a markdown table with one row per snippet.
	ModeMarkdown
	// ModeStructured prints one "@jsbm" JSON record per snippet with the raw
	// samples or the thrown error.
	ModeStructured
)

func (m Mode) String() string {
	switch m {
	case ModeText:
		return "text"
	case ModeMarkdown:
		return "markdown"
	case ModeStructured:
		return "structured"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

func (m Mode) valid() bool {
	return m >= ModeText && m <= ModeStructured
}

// RecordPrefix starts every line printed by a ModeStructured script.
const RecordPrefix = "@jsbm "

// Reduces samples exactly like stats.Reduce, in milliseconds in and
// microseconds out.
const jsStatistics = `const _jsbm_snd = (samples) => {
samples.sort((a, b) => a - b);
const fq = samples.length / 4;
const t = Math.min(Math.ceil(fq * 3), samples.length - 1);
const b = Math.floor(fq);
const mqr = (samples[t] - samples[b]) * 1.5;
const arr = [];
samples.forEach((v) => {
if (v <= samples[t] + mqr && v >= samples[b] - mqr) {
arr.push(v);
};});
let mean = 0;
arr.forEach((v) => { mean += v });
mean = mean / arr.length;
let std = 0;
arr.forEach((v) => { std += (v - mean) ** 2 });
return {
mean: Math.round(mean * 1000),
std: Math.round(Math.sqrt(std / arr.length) * 1000),
outliers: Math.round(100 - (arr.length * 100 / samples.length)),
};};`

const jsFormatting = `const _jsbm_ansi = (text, color) => {
if (!_jsbm_color) return String(text);
switch (color) {
case 'red': return '\x1b[38;5;204;1m' + text + '\x1b[0m';
case 'blue': return '\x1b[38;5;39;1m' + text + '\x1b[0m';
default: return '\x1b[1m' + text + '\x1b[0m';
}};
const _jsbm_unit = (micros) => {
if (micros < 1_000) {
return micros.toFixed(0) + 'μs';
} else if (micros < 1_000_000) {
return (micros / 1_000).toFixed(2) + 'ms';
} else {
return (micros / 1_000_000).toFixed(2) + 's';
}};
const _jsbm_fmt_res = (res) => {
return _jsbm_ansi(_jsbm_unit(res.mean)) +
' (std. ' + _jsbm_unit(res.std) + ' o. ' + res.outliers + '%)';
};
const _jsbm_ok = (res) => res !== null && typeof res === 'object' && 'std' in res;`

const jsTextLog = `const _jsbm_log = (name, res) => {
if (_jsbm_ok(res)) {
console.log(_jsbm_ansi(name, 'blue') + ' | ' + _jsbm_fmt_res(res));
} else {
console.log(_jsbm_ansi(name, 'red') + ' |\n', res);
}};`

const jsMarkdownLog = `const _jsbm_md = (text) => String(text).replace(/\|/g, '\\|').replace(/\r?\n/g, ' ');
const _jsbm_log = (name, res) => {
if (_jsbm_ok(res)) {
console.log('| ' + _jsbm_md(name) + ' | ' + _jsbm_unit(res.mean) + ' | ' + _jsbm_unit(res.std) + ' | ' + res.outliers + '% |');
} else {
let text;
try { text = _jsbm_md(res); } catch { text = 'unprintable value'; }
console.log('| ' + _jsbm_md(name) + ' | error: ' + text + ' | | |');
}};
console.log('| name | mean | std | outliers |');
console.log('|------|------|-----|----------|');`

const jsStructured = `const _jsbm_snd = (samples) => ({ samples });
const _jsbm_log = (name, res) => {
if (res !== null && typeof res === 'object' && Array.isArray(res.samples)) {
console.log('@jsbm ' + JSON.stringify({ name, samples: res.samples }));
} else {
let error;
try { error = res instanceof Error && res.stack ? res.stack : String(res); } catch { error = 'unprintable value'; }
console.log('@jsbm ' + JSON.stringify({ name, error }));
}};`

// Helpers returns the helper library for mode. color only affects ModeText
// and ModeMarkdown; structured records never carry escape codes.
func Helpers(mode Mode, color bool) string {
	if mode == ModeStructured {
		return jsStructured
	}

	var b strings.Builder
	fmt.Fprintf(&b, "const _jsbm_color = %t;\n", color)
	b.WriteString(jsStatistics)
	b.WriteByte('\n')
	b.WriteString(jsFormatting)
	b.WriteByte('\n')
	if mode == ModeMarkdown {
		b.WriteString(jsMarkdownLog)
	} else {
		b.WriteString(jsTextLog)
	}
	return b.String()
}

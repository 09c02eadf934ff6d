// Package harness turns parsed documents into self-timing JavaScript.
//
// A generated script is a provenance heading, the helper library and then the
// document's items in order: content is copied verbatim and every snippet is
// replaced by a timing block. Each block runs the snippet's code for a fixed
// number of iterations per sample, records one duration per sample with
// performance.now() and hands the samples to _jsbm_log. The block is wrapped
// in its own try/catch so that a throwing snippet reports an error line and
// the remaining blocks still run.
//
// Helpers come in three modes. ModeText and ModeMarkdown compute statistics
// and print results inside the runtime. ModeStructured prints one "@jsbm"
// JSON record per snippet carrying the raw samples, which the caller reduces
// and renders itself.
package harness

package report

import (
	"encoding/json"
	"io"
)

type jsonFormatter struct{}

// Banner is a no-op: every JSON result carries its document and runtime.
func (jsonFormatter) Banner(io.Writer, Banner) {}

func (jsonFormatter) Result(w io.Writer, r Result) {
	_ = json.NewEncoder(w).Encode(r)
}

func (jsonFormatter) Failure(w io.Writer, document, text string) {
	_ = json.NewEncoder(w).Encode(Result{Document: document, Error: text})
}

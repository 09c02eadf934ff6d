package report

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/vk/jsbm/internal/harness"
	"github.com/vk/jsbm/internal/stats"
)

// Record is one structured line printed by a generated script: the raw
// samples of a snippet, in milliseconds, or the value it threw.
type Record struct {
	Name    string    `json:"name"`
	Samples []float64 `json:"samples"`
	Error   string    `json:"error"`
}

// DecodeRecord parses line if it is a structured record. ok is false for
// any other output, which callers pass through unchanged.
func DecodeRecord(line string) (rec Record, ok bool, err error) {
	payload, found := strings.CutPrefix(line, harness.RecordPrefix)
	if !found {
		return Record{}, false, nil
	}
	if err := json.Unmarshal([]byte(payload), &rec); err != nil {
		return Record{}, true, fmt.Errorf("failed decoding result record: %w", err)
	}
	return rec, true, nil
}

// Resolve reduces the record's samples into a Result for document on
// runtime. A record without samples resolves to a failed result.
func (rec Record) Resolve(document, runtime string) Result {
	res := Result{Document: document, Runtime: runtime, Name: rec.Name}
	if rec.Samples == nil {
		res.Error = rec.Error
		return res
	}

	s, err := stats.Reduce(rec.Samples)
	if err != nil {
		res.Error = err.Error()
		return res
	}
	res.Stats = &s
	return res
}

package harness

import (
	"encoding/json"
	"fmt"

	"github.com/vk/jsbm/internal/document"
)

const blockTemplate = `try {
const _results = Array(%[2]d);
for (let _sample = 0; _sample < %[2]d; _sample++) {
let _iteration = %[3]d;
const _start = performance.now();
while (_iteration--) {
%[4]s
};
_results[_sample] = performance.now() - _start;
}
_jsbm_log(%[1]s, _jsbm_snd(_results));
} catch (error) {
_jsbm_log(%[1]s, error);
};`

const headingTemplate = `/*
auto-generated using jsbm

samples: %d
iterations: %d
*/`

// Wrap returns the timing block for a single snippet. The block allocates one
// slot per sample, counts the iterations down to zero inside each sample and
// reports either the statistics of the samples or the value thrown while
// running them.
func Wrap(s document.Snippet, samples, iterations int) string {
	return fmt.Sprintf(blockTemplate, jsString(s.Name), samples, iterations, s.Code)
}

// Heading returns the block comment placed at the top of every generated
// script.
func Heading(iterations, samples int) string {
	return fmt.Sprintf(headingTemplate, samples, iterations)
}

// jsString quotes name as a JavaScript string literal. JSON string syntax is
// a subset of it, and the encoder escapes U+2028 and U+2029.
func jsString(name string) string {
	b, err := json.Marshal(name)
	if err != nil {
		// Strings always marshal; invalid UTF-8 is coerced.
		panic(err)
	}
	return string(b)
}

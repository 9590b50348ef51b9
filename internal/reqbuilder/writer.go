// Package reqbuilder provides the generic redaction-tracking byte
// writer that provider request builders use to emit an HTTP/1.1
// request while recording which byte ranges carry credential-derived
// values (spec §4.2 "Request builder & redaction planner").
package reqbuilder

import (
	"bytes"
	"fmt"

	"github.com/summitto/tlsn-wise-attestor/internal/planner"
)

// Writer accumulates request bytes and a parallel SentPlan. Every
// write call states up front whether the bytes it emits are
// credential-derived (Secret) or not (Public); the Writer is
// responsible for keeping the two in lockstep so the plan always
// matches the buffer byte-for-byte (spec §3 invariant: plan
// concatenation exactly covers the transcript).
type Writer struct {
	buf     bytes.Buffer
	builder planner.Builder
}

// Public writes s and marks it reveal-capable.
func (w *Writer) Public(s string) {
	w.buf.WriteString(s)
	w.builder.Reveal(len(s))
}

// Publicf is a Printf-style convenience over Public.
func (w *Writer) Publicf(format string, args ...interface{}) {
	w.Public(fmt.Sprintf(format, args...))
}

// Secret writes s and marks it redact-only: the byte range carries
// credential material and can never be revealed by a Presentation
// (spec §4.2 step 2, §3 invariant on credential bytes).
func (w *Writer) Secret(s string) {
	w.buf.WriteString(s)
	w.builder.Redact(len(s))
}

// Bytes returns the accumulated request bytes.
func (w *Writer) Bytes() []byte { return w.buf.Bytes() }

// Plan returns the SentPlan built so far.
func (w *Writer) Plan() planner.Plan { return w.builder.Plan() }

// Len returns the number of bytes written so far.
func (w *Writer) Len() int { return w.builder.Cursor() }

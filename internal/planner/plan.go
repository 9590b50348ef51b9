// Package planner implements the transcript plan: an owned, ordered,
// non-overlapping, full-coverage span list labeling each byte of a
// transcript half as reveal or redact (spec §3 "SentPlan"/"RecvPlan",
// §9 "Plans as interval lists").
package planner

import (
	"fmt"

	"github.com/summitto/tlsn-wise-attestor/internal/pipeerr"
)

// Disclosure is the label carried by a Span.
type Disclosure int

const (
	Redact Disclosure = iota
	Reveal
)

func (d Disclosure) String() string {
	if d == Reveal {
		return "reveal"
	}
	return "redact"
}

// Span is a half-open byte range [Start, End) with a disclosure label.
// An optional Name identifies the semantic field the span backs (set
// by the response parser; empty for request-side spans).
type Span struct {
	Start      int
	End        int
	Disclosure Disclosure
	Name       string
}

func (s Span) Len() int { return s.End - s.Start }

// Plan is an ordered span list covering one half of a transcript.
type Plan []Span

// Validate enforces non-overlap, strict ordering, and full coverage
// of [0, total) — spec §3 invariant and §8 property 2.
func (p Plan) Validate(total int) error {
	cursor := 0
	for i, s := range p {
		if s.Start != cursor {
			return pipeerr.New(pipeerr.Policy, fmt.Sprintf("plan span %d starts at %d, expected %d (gap or overlap)", i, s.Start, cursor))
		}
		if s.End < s.Start {
			return pipeerr.New(pipeerr.Policy, fmt.Sprintf("plan span %d has end %d before start %d", i, s.End, s.Start))
		}
		cursor = s.End
	}
	if cursor != total {
		return pipeerr.New(pipeerr.Policy, fmt.Sprintf("plan covers %d bytes, expected %d", cursor, total))
	}
	return nil
}

// RevealSpans returns the subset of spans marked Reveal.
func (p Plan) RevealSpans() Plan {
	var out Plan
	for _, s := range p {
		if s.Disclosure == Reveal {
			out = append(out, s)
		}
	}
	return out
}

// Intersects reports whether any span in p overlaps [start, end).
func (p Plan) Intersects(start, end int) bool {
	for _, s := range p {
		if s.Start < end && start < s.End {
			return true
		}
	}
	return false
}

// Builder accumulates spans in order while tracking the write cursor,
// mirroring how the teacher's request/response code emits fields
// sequentially into a byte buffer.
type Builder struct {
	cursor int
	spans  Plan
}

// Reveal appends a reveal span covering the next n bytes.
func (b *Builder) Reveal(n int) { b.append(n, Reveal, "") }

// RevealNamed appends a reveal span covering the next n bytes, naming
// the semantic field it backs.
func (b *Builder) RevealNamed(n int, name string) { b.append(n, Reveal, name) }

// Redact appends a redact span covering the next n bytes.
func (b *Builder) Redact(n int) { b.append(n, Redact, "") }

func (b *Builder) append(n int, d Disclosure, name string) {
	if n <= 0 {
		return
	}
	start := b.cursor
	b.cursor += n
	if len(b.spans) > 0 {
		last := &b.spans[len(b.spans)-1]
		if last.Disclosure == d && last.Name == name {
			last.End = b.cursor
			return
		}
	}
	b.spans = append(b.spans, Span{Start: start, End: b.cursor, Disclosure: d, Name: name})
}

// Plan returns the accumulated plan.
func (b *Builder) Plan() Plan { return b.spans }

// Cursor returns the number of bytes accounted for so far.
func (b *Builder) Cursor() int { return b.cursor }

// Package respparse locates provider-specific JSON fields inside a
// received HTTP response body and computes the byte ranges that back
// them (spec §4.6 "Response parser"). It operates on the raw received
// bytes — it never re-serializes the JSON — so the emitted ranges
// match exactly what the MPC-TLS prover core committed to.
package respparse

import (
	"fmt"
	"sort"

	"github.com/tidwall/gjson"

	"github.com/summitto/tlsn-wise-attestor/internal/pipeerr"
	"github.com/summitto/tlsn-wise-attestor/internal/planner"
	"github.com/summitto/tlsn-wise-attestor/internal/provider"
)

// Locate parses body (the exact bytes of the JSON response payload)
// and returns a RecvPlan: reveal spans for every field in catalog,
// named after the locator's semantic field name, and redact spans for
// everything else (spec §4.6).
//
// gjson.Result.Index gives the byte offset of a matched value within
// the original string for plain dot-path queries (no wildcards or
// modifiers are used here), and Result.Raw is the exact matched
// substring — quotes included for strings, balanced braces/brackets
// included for objects/arrays — so (Index, Index+len(Raw)) is already
// the span spec §4.6 calls for.
func Locate(body []byte, catalog []provider.FieldLocator) (planner.Plan, error) {
	text := string(body)

	type match struct {
		name  string
		start int
		end   int
	}
	matches := make([]match, 0, len(catalog))

	for _, loc := range catalog {
		result := gjson.Get(text, loc.Path)
		if !result.Exists() {
			return nil, pipeerr.New(pipeerr.Parse, fmt.Sprintf("FieldMissing: %s", loc.Name))
		}

		start := int(result.Index)
		if start <= 0 {
			// gjson did not resolve a reliable offset (e.g. Index==0
			// coincidentally, or the path traversed a reconstructed
			// value); fall back to the lexically first literal
			// occurrence of the matched raw text, per spec §4.6's
			// ambiguity rule.
			found := firstOccurrence(text, result.Raw)
			if found < 0 {
				return nil, pipeerr.New(pipeerr.Parse, fmt.Sprintf("FieldMissing: %s", loc.Name))
			}
			start = found
		}
		end := start + len(result.Raw)
		if end > len(body) {
			return nil, pipeerr.New(pipeerr.Parse, fmt.Sprintf("FieldMissing: %s", loc.Name))
		}
		matches = append(matches, match{name: loc.Name, start: start, end: end})
	}

	sort.Slice(matches, func(i, j int) bool { return matches[i].start < matches[j].start })

	var b planner.Builder
	cursor := 0
	for _, m := range matches {
		if m.start < cursor {
			// Two catalog entries resolved to overlapping ranges; the
			// profile is misconfigured. Skip the overlap rather than
			// double-count bytes already claimed by an earlier field.
			continue
		}
		if m.start > cursor {
			b.Redact(m.start - cursor)
		}
		b.RevealNamed(m.end-m.start, m.name)
		cursor = m.end
	}
	if cursor < len(body) {
		b.Redact(len(body) - cursor)
	}

	return b.Plan(), nil
}

func firstOccurrence(haystack, needle string) int {
	if needle == "" {
		return -1
	}
	for i := 0; i+len(needle) <= len(haystack); i++ {
		if haystack[i:i+len(needle)] == needle {
			return i
		}
	}
	return -1
}

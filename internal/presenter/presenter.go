// Package presenter builds a Presentation from an Attestation, its
// Secrets, and a caller-chosen whitelist of field names to disclose
// (spec §4.8 "Presenter"). It is the only place that ever copies an
// Opening out of Secrets into a publishable artifact, and it enforces
// that only spans already marked reveal-capable at commit time can be
// disclosed, no matter what the caller asks for.
package presenter

import (
	"fmt"

	"github.com/summitto/tlsn-wise-attestor/internal/attestation"
	"github.com/summitto/tlsn-wise-attestor/internal/commitment"
	"github.com/summitto/tlsn-wise-attestor/internal/pipeerr"
	"github.com/summitto/tlsn-wise-attestor/internal/planner"
)

// Build selects, from a.RecvCommitments, every named span whose Name
// appears in whitelist, and produces a Presentation disclosing
// exactly those spans of the response plus every reveal-capable span
// of the request (credential bytes are never reveal-capable to begin
// with, so RevealedSent always discloses only the non-secret
// scaffolding the request builder marked Reveal).
func Build(a *attestation.Attestation, s *attestation.Secrets, whitelist []string, disclosable map[string]bool) (*attestation.Presentation, error) {
	for _, name := range whitelist {
		if !disclosable[name] {
			return nil, pipeerr.New(pipeerr.Policy, fmt.Sprintf("PolicyViolation: %s", name))
		}
	}

	revealedSent, err := revealSpans(a.SentCommitments, s.SentOpenings, s.Transcript.Sent, nil)
	if err != nil {
		return nil, err
	}

	whitelistSet := make(map[string]bool, len(whitelist))
	for _, name := range whitelist {
		whitelistSet[name] = true
	}
	revealedRecv, err := revealSpans(a.RecvCommitments, s.RecvOpenings, s.Transcript.Recv, whitelistSet)
	if err != nil {
		return nil, err
	}

	for _, name := range whitelist {
		found := false
		for _, rs := range revealedRecv {
			if rs.Name == name {
				found = true
				break
			}
		}
		if !found {
			return nil, pipeerr.New(pipeerr.Policy, fmt.Sprintf("RedactionViolation: %s", name))
		}
	}

	return &attestation.Presentation{
		ProtocolVersion: attestation.ProtocolVersion,
		Attestation:     *a,
		RevealedSent:    revealedSent,
		RevealedRecv:    revealedRecv,
		ServerIdentity:  s.ServerIdentity,
	}, nil
}

// revealSpans walks commits/openings in lockstep (they share index
// order by construction, see notaryclient.commitSpans) and discloses
// a span when it is Reveal and, if filter is non-nil, its Name is in
// filter.
func revealSpans(commits []attestation.SpanCommitment, openings []commitment.Opening, data []byte, filter map[string]bool) ([]attestation.RevealedSpan, error) {
	if len(commits) != len(openings) {
		return nil, pipeerr.New(pipeerr.Policy, "commitment/opening length mismatch")
	}

	var out []attestation.RevealedSpan
	for i, c := range commits {
		if c.Disclosure != planner.Reveal {
			continue
		}
		if filter != nil && !filter[c.Name] {
			continue
		}
		if c.End > len(data) || c.Start < 0 || c.Start > c.End {
			return nil, pipeerr.New(pipeerr.Policy, fmt.Sprintf("span %q out of bounds for transcript", c.Name))
		}
		out = append(out, attestation.RevealedSpan{
			Name:    c.Name,
			Start:   c.Start,
			End:     c.End,
			Value:   append([]byte(nil), data[c.Start:c.End]...),
			Opening: openings[i],
		})
	}
	return out, nil
}

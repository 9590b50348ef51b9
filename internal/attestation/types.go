// Package attestation defines the Notary-signed Attestation, the
// Prover-only Secrets, and the derived Presentation and
// VerificationResult (spec §3). Encoding lives in codec.go.
package attestation

import (
	"github.com/summitto/tlsn-wise-attestor/internal/commitment"
	"github.com/summitto/tlsn-wise-attestor/internal/planner"
	"github.com/summitto/tlsn-wise-attestor/internal/transcript"
)

// ProtocolVersion is the current on-the-wire version of the
// Attestation/Secrets/Presentation artifacts.
const ProtocolVersion uint8 = 1

// SpanCommitment is one committed byte range of a transcript half.
// Start/End are public (they describe the shape of the request or
// response, not its content); Commitment hides the content unless an
// Opening for it later appears in a Presentation.
type SpanCommitment struct {
	Name       string
	Start      int
	End        int
	Disclosure planner.Disclosure
	Commitment commitment.Commitment
}

// Attestation is the Notary-signed artifact committing to the full
// TLS transcript and server identity of one session (spec §3).
// Immutable after notarization: any mutation invalidates
// NotarySignature.
type Attestation struct {
	ProtocolVersion    uint8
	ServerIdentityHash [32]byte
	SentCommitments    []SpanCommitment
	RecvCommitments    []SpanCommitment
	SentLength         int
	RecvLength         int
	NotaryKeyID        string
	NotaryPublicKeyPEM []byte
	NotarySignature    []byte
	CreatedAtUnix      int64
}

// Secrets is the Prover-only witness material: the raw transcript
// bytes, an opening for every committed span (named or not), and the
// server certificate data needed to later prove identity against
// ServerIdentityHash. Secrets and Attestation are always produced
// together (spec §3 invariant); neither is useful alone. A later,
// possibly out-of-process, Presenter invocation needs the raw
// transcript to recover a revealed span's plaintext — the
// Attestation alone only carries hiding commitments to it.
type Secrets struct {
	ServerIdentity transcript.ServerIdentity
	Transcript     transcript.Transcript
	SentOpenings   []commitment.Opening
	RecvOpenings   []commitment.Opening
}

// RevealedSpan is one disclosed byte range: its plaintext bytes and
// the opening that lets a verifier recompute the matching commitment.
type RevealedSpan struct {
	Name    string
	Start   int
	End     int
	Value   []byte
	Opening commitment.Opening
}

// Presentation is the publishable selective-disclosure artifact
// derived from an Attestation + Secrets + whitelist (spec §3). Spans
// that are not in RevealedSent/RevealedRecv remain committed but
// carry no opening here — only revealed spans ever disclose their
// Opening, so a Presentation can never be used to open a redacted
// span (this resolves the ambiguous "redacted spans (opening only)"
// wording in spec §3; see DESIGN.md).
type Presentation struct {
	ProtocolVersion uint8
	Attestation     Attestation
	RevealedSent    []RevealedSpan
	RevealedRecv    []RevealedSpan
	ServerIdentity  transcript.ServerIdentity
}

// DisclosedField is one (name, value) pair recovered by the Verifier.
type DisclosedField struct {
	Name  string
	Value string
}

// VerificationResult is the outcome of a successful Verify call
// (spec §3).
type VerificationResult struct {
	ServerIdentity      string
	DisclosedSent       []DisclosedField
	DisclosedRecv       []DisclosedField
	NotaryKeyID         string
	TimestampRangeStart int64
	TimestampRangeEnd   int64
}

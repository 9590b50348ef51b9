package notaryclient

import (
	"context"
	"time"

	"github.com/summitto/tlsn-wise-attestor/internal/attestation"
	"github.com/summitto/tlsn-wise-attestor/internal/commitment"
	"github.com/summitto/tlsn-wise-attestor/internal/planner"
)

// Finalize closes the MPC-TLS engine, commits every span of sentPlan
// and recvPlan against the recorded transcript, and has the Notary
// (simulated locally via the session's signer) sign the resulting
// Attestation (spec §4.4, §4.7). It returns the Attestation and the
// Prover-only Secrets together, as the two are never produced apart.
func (s *Session) Finalize(ctx context.Context, sentPlan, recvPlan planner.Plan) (*attestation.Attestation, *attestation.Secrets, error) {
	result, err := s.engine.Finalize(ctx)
	if err != nil {
		return nil, nil, err
	}

	if err := sentPlan.Validate(len(result.Transcript.Sent)); err != nil {
		return nil, nil, err
	}
	if err := recvPlan.Validate(len(result.Transcript.Recv)); err != nil {
		return nil, nil, err
	}

	sentCommits, sentOpenings := commitSpans(sentPlan, result.Transcript.Sent)
	recvCommits, recvOpenings := commitSpans(recvPlan, result.Transcript.Recv)

	identityHash := attestation.HashServerIdentity(result.ServerIdentity)

	a := &attestation.Attestation{
		ProtocolVersion:    attestation.ProtocolVersion,
		ServerIdentityHash: identityHash,
		SentCommitments:    sentCommits,
		RecvCommitments:    recvCommits,
		SentLength:         len(result.Transcript.Sent),
		RecvLength:         len(result.Transcript.Recv),
		NotaryKeyID:        s.signer.keyID,
		CreatedAtUnix:      time.Now().Unix(),
	}

	pubPEM, err := s.signer.PublicKeyPEM()
	if err != nil {
		return nil, nil, err
	}
	a.NotaryPublicKeyPEM = pubPEM

	digest := attestation.Digest(a)
	sig, err := s.signer.Sign(digest)
	if err != nil {
		return nil, nil, err
	}
	a.NotarySignature = sig

	secrets := &attestation.Secrets{
		ServerIdentity: result.ServerIdentity,
		Transcript:     result.Transcript,
		SentOpenings:   sentOpenings,
		RecvOpenings:   recvOpenings,
	}

	return a, secrets, nil
}

func commitSpans(plan planner.Plan, data []byte) ([]attestation.SpanCommitment, []commitment.Opening) {
	commits := make([]attestation.SpanCommitment, len(plan))
	openings := make([]commitment.Opening, len(plan))
	for i, span := range plan {
		c, op := commitment.Commit(data[span.Start:span.End])
		commits[i] = attestation.SpanCommitment{
			Name:       span.Name,
			Start:      span.Start,
			End:        span.End,
			Disclosure: span.Disclosure,
			Commitment: c,
		}
		openings[i] = op
	}
	return commits, openings
}

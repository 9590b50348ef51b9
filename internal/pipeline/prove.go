// Package pipeline wires the session config, provider profile, and
// the notaryclient/httpdriver/respparse/presenter/verifier packages
// together into the three operations the CLI exposes: Prove, Present
// and Verify (spec §2 "Flow", §5 "Ordering constraints").
package pipeline

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/summitto/tlsn-wise-attestor/internal/artifact"
	"github.com/summitto/tlsn-wise-attestor/internal/attestation"
	"github.com/summitto/tlsn-wise-attestor/internal/config"
	"github.com/summitto/tlsn-wise-attestor/internal/credentials"
	"github.com/summitto/tlsn-wise-attestor/internal/httpdriver"
	"github.com/summitto/tlsn-wise-attestor/internal/notaryclient"
	"github.com/summitto/tlsn-wise-attestor/internal/pipeerr"
	"github.com/summitto/tlsn-wise-attestor/internal/planner"
	"github.com/summitto/tlsn-wise-attestor/internal/provider"
	"github.com/summitto/tlsn-wise-attestor/internal/respparse"
)

// ProveRequest names the provider, builder template, and credentials
// for one notarization run, plus where to persist the resulting
// artifacts (spec §4.1, §6 "Persistent artifacts").
type ProveRequest struct {
	ProviderID    provider.ID
	BuilderName   string
	Credentials   credentials.Credentials
	ArtifactDir   string
	ExpectStatus  int
	ExpectContent string
}

// Prove runs the full notary→provider→finalize sequence the spec's
// §2 flow describes, in order: notary connect, provider connect and
// handshake, request write, response read, finalize. The response
// parser runs before Finalize, on the body the HTTP driver read,
// because Finalize commits to the spans of the RecvPlan built from
// the parser's output.
func Prove(ctx context.Context, cfg *config.SessionConfig, req ProveRequest, log zerolog.Logger) (*attestation.Attestation, *attestation.Secrets, error) {
	profile, err := provider.Lookup(req.ProviderID)
	if err != nil {
		return nil, nil, err
	}
	builder, ok := profile.RequestBuilders[req.BuilderName]
	if !ok {
		return nil, nil, pipeerr.New(pipeerr.Config, fmt.Sprintf("BuilderUnknown: %s", req.BuilderName))
	}

	lock, err := artifact.AcquireScopeLock(req.ArtifactDir, profile.ID.String())
	if err != nil {
		return nil, nil, err
	}
	defer lock.Release()

	reqBytes, sentPlan, err := builder(req.Credentials, cfg.UserAgent)
	req.Credentials.Wipe()
	if err != nil {
		return nil, nil, err
	}
	if err := sentPlan.Validate(len(reqBytes)); err != nil {
		return nil, nil, err
	}

	session, stream, err := notaryclient.Dial(ctx, cfg, profile, log)
	if err != nil {
		return nil, nil, err
	}
	defer session.Abort()

	result, err := httpdriver.Do(stream, reqBytes, profile.AllowChunked)
	if err != nil {
		return nil, nil, err
	}
	if err := httpdriver.ValidateResponse(result.Response, req.ExpectStatus, req.ExpectContent); err != nil {
		return nil, nil, err
	}

	bodyPlan, err := respparse.Locate(result.Response.Body, profile.FieldCatalog)
	if err != nil {
		return nil, nil, err
	}
	recvPlan := buildRecvPlan(result, bodyPlan)

	a, secrets, err := session.Finalize(ctx, sentPlan, recvPlan)
	if err != nil {
		return nil, nil, err
	}

	frames := map[string][]byte{}
	attestationFrame, err := attestation.EncodeAttestation(a)
	if err != nil {
		return nil, nil, err
	}
	secretsFrame, err := attestation.EncodeSecrets(secrets)
	if err != nil {
		return nil, nil, err
	}
	frames[artifact.AttestationPath(req.ArtifactDir, profile.ID.String())] = attestationFrame
	frames[artifact.SecretsPath(req.ArtifactDir, profile.ID.String())] = secretsFrame

	if err := artifact.WriteAllOrNothing(frames); err != nil {
		return nil, nil, err
	}

	return a, secrets, nil
}

// buildRecvPlan assembles the full RecvPlan over the raw response
// bytes: the status-line-and-header block is always reveal-capable
// (it carries no credential material), followed by bodyPlan's spans
// translated into raw-byte offsets.
//
// For a Content-Length or read-to-EOF body (result.ChunkMap == nil),
// bodyPlan's offsets already line up with raw bytes after a flat
// shift by result.BodyOffset. For a chunked body, bodyPlan's offsets
// are relative to the dechunked Response.Body, which is not a
// contiguous slice of the raw wire bytes (chunk-size lines and CRLF
// terminators sit between chunks in raw but not in Body) — each
// bodyPlan span is instead translated chunk by chunk via
// result.ChunkMap, splitting a span that straddles a chunk boundary
// into one raw span per chunk it touches, and the inter-chunk framing
// bytes are folded in as anonymous Redact spans so the plan still
// covers every raw byte (spec §5 full-coverage invariant).
func buildRecvPlan(result *httpdriver.Result, bodyPlan planner.Plan) planner.Plan {
	var b planner.Builder
	if result.BodyOffset > 0 {
		b.Reveal(result.BodyOffset)
	}

	if result.ChunkMap == nil {
		for _, span := range bodyPlan {
			appendSpan(&b, span.Disclosure, span.Name, span.Len())
		}
		return b.Plan()
	}

	rawCursor := result.BodyOffset
	for _, chunk := range result.ChunkMap {
		if chunk.RawStart > rawCursor {
			b.Redact(chunk.RawStart - rawCursor)
			rawCursor = chunk.RawStart
		}
		chunkEnd := chunk.BodyStart + chunk.Length
		for _, span := range bodyPlan {
			lo, hi := span.Start, span.End
			if lo < chunk.BodyStart {
				lo = chunk.BodyStart
			}
			if hi > chunkEnd {
				hi = chunkEnd
			}
			if lo >= hi {
				continue
			}
			appendSpan(&b, span.Disclosure, span.Name, hi-lo)
		}
		rawCursor += chunk.Length
	}
	if rawCursor < len(result.Raw) {
		b.Redact(len(result.Raw) - rawCursor)
	}
	return b.Plan()
}

func appendSpan(b *planner.Builder, disclosure planner.Disclosure, name string, n int) {
	switch {
	case disclosure == planner.Reveal && name != "":
		b.RevealNamed(n, name)
	case disclosure == planner.Reveal:
		b.Reveal(n)
	default:
		b.Redact(n)
	}
}

package pipeline

import (
	"github.com/summitto/tlsn-wise-attestor/internal/artifact"
	"github.com/summitto/tlsn-wise-attestor/internal/attestation"
	"github.com/summitto/tlsn-wise-attestor/internal/verifier"
)

// Verify loads the Presentation persisted for scope and checks it
// against trustStore and expectedHostname (spec §4.9, §6).
func Verify(artifactDir, scope, expectedHostname string, trustStore verifier.TrustStore) (*attestation.VerificationResult, error) {
	frame, err := artifact.Read(artifact.PresentationPath(artifactDir, scope))
	if err != nil {
		return nil, err
	}
	pres, err := attestation.DecodePresentation(frame)
	if err != nil {
		return nil, err
	}
	return verifier.Verify(pres, expectedHostname, trustStore, nil)
}

package pipeline

import (
	"github.com/summitto/tlsn-wise-attestor/internal/artifact"
	"github.com/summitto/tlsn-wise-attestor/internal/attestation"
	"github.com/summitto/tlsn-wise-attestor/internal/presenter"
	"github.com/summitto/tlsn-wise-attestor/internal/provider"
)

// Present loads the Attestation and Secrets persisted by Prove for
// the given provider scope, builds a Presentation disclosing exactly
// whitelist's fields, and persists it (spec §4.8, §6).
func Present(artifactDir string, providerID provider.ID, whitelist []string) (*attestation.Presentation, error) {
	profile, err := provider.Lookup(providerID)
	if err != nil {
		return nil, err
	}
	scope := profile.ID.String()

	aFrame, err := artifact.Read(artifact.AttestationPath(artifactDir, scope))
	if err != nil {
		return nil, err
	}
	a, err := attestation.DecodeAttestation(aFrame)
	if err != nil {
		return nil, err
	}

	sFrame, err := artifact.Read(artifact.SecretsPath(artifactDir, scope))
	if err != nil {
		return nil, err
	}
	secrets, err := attestation.DecodeSecrets(sFrame)
	if err != nil {
		return nil, err
	}

	pres, err := presenter.Build(a, secrets, whitelist, profile.Disclosable)
	if err != nil {
		return nil, err
	}

	frame, err := attestation.EncodePresentation(pres)
	if err != nil {
		return nil, err
	}
	if err := artifact.WriteAtomic(artifact.PresentationPath(artifactDir, scope), frame); err != nil {
		return nil, err
	}

	return pres, nil
}

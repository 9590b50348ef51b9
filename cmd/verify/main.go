// Command verify checks a persisted presentation for one provider
// scope against the Notary's public key and the expected server
// identity, per spec §6: `verify --provider <id> ...`.
package main

import (
	"flag"
	"os"

	"github.com/rs/zerolog"

	"github.com/summitto/tlsn-wise-attestor/internal/artifact"
	"github.com/summitto/tlsn-wise-attestor/internal/attestation"
	"github.com/summitto/tlsn-wise-attestor/internal/pipeerr"
	"github.com/summitto/tlsn-wise-attestor/internal/pipeline"
	"github.com/summitto/tlsn-wise-attestor/internal/provider"
	"github.com/summitto/tlsn-wise-attestor/internal/verifier"
)

func main() {
	providerFlag := flag.String("provider", "", "provider id (e.g. wise)")
	artifactDir := flag.String("artifact-dir", ".", "directory the presentation was written to")
	hostname := flag.String("hostname", "", "expected server identity hostname")
	notaryPubKeyPath := flag.String("notary-pubkey-pem", "", "path to a pinned notary public key; defaults to the key embedded in the presentation")
	flag.Parse()

	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Str("cmd", "verify").Logger()
	pipeerr.Clear()

	id, err := provider.Parse(*providerFlag)
	if err != nil {
		fail(log, err)
	}
	scope := id.String()

	if *hostname == "" {
		profile, err := provider.Lookup(id)
		if err != nil {
			fail(log, err)
		}
		*hostname = profile.Endpoint.Host
	}

	trustStore, err := buildTrustStore(*artifactDir, scope, *notaryPubKeyPath)
	if err != nil {
		fail(log, err)
	}

	result, err := pipeline.Verify(*artifactDir, scope, *hostname, trustStore)
	if err != nil {
		fail(log, err)
	}

	log.Info().Str("server_identity", result.ServerIdentity).Str("notary_key_id", result.NotaryKeyID).Msg("presentation verified")
	for _, f := range result.DisclosedRecv {
		log.Info().Str("field", f.Name).Str("value", f.Value).Msg("disclosed")
	}
}

// buildTrustStore resolves the Notary public key to verify against.
// With no pinned key file, it trusts whatever key the presentation
// itself carries — adequate for local development, but a real
// deployment should always pass --notary-pubkey-pem pinned out of
// band (spec §4.9 "a set of trusted Notary public keys").
func buildTrustStore(artifactDir, scope, pinnedPath string) (verifier.TrustStore, error) {
	frame, err := artifact.Read(artifact.PresentationPath(artifactDir, scope))
	if err != nil {
		return nil, err
	}
	pres, err := attestation.DecodePresentation(frame)
	if err != nil {
		return nil, err
	}

	der := pres.Attestation.NotaryPublicKeyPEM
	if pinnedPath != "" {
		pemBytes, err := os.ReadFile(pinnedPath)
		if err != nil {
			return nil, pipeerr.Wrap(pipeerr.Io, "failed to read pinned notary public key", err)
		}
		der = pemBytes
	}

	pub, err := verifier.LoadPublicKeyPEM(der)
	if err != nil {
		return nil, err
	}
	return verifier.TrustStore{pres.Attestation.NotaryKeyID: pub}, nil
}

func fail(log zerolog.Logger, err error) {
	perr, ok := err.(*pipeerr.Error)
	if !ok {
		perr = pipeerr.Wrap(pipeerr.Io, "unexpected error", err)
	}
	pipeerr.Set(perr)
	log.Error().Err(perr).Str("code", string(perr.Code)).Msg("verify failed")
	os.Exit(perr.Code.ExitCode())
}

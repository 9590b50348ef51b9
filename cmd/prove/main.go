// Command prove drives the notarization pipeline against a payment
// provider, per spec §6's CLI surface: `prove --mode
// {prove|present|prove-to-present} --provider <id> ...`. The command
// surface itself is explicitly out of scope for the core's
// correctness guarantees (spec §1) — this file only parses flags,
// calls into internal/pipeline, and maps pipeerr codes to process
// exit codes.
package main

import (
	"context"
	"flag"
	"os"
	"strings"

	"github.com/rs/zerolog"

	"github.com/summitto/tlsn-wise-attestor/internal/config"
	"github.com/summitto/tlsn-wise-attestor/internal/credentials"
	"github.com/summitto/tlsn-wise-attestor/internal/pipeerr"
	"github.com/summitto/tlsn-wise-attestor/internal/pipeline"
	"github.com/summitto/tlsn-wise-attestor/internal/provider"
)

func main() {
	mode := flag.String("mode", "prove-to-present", "one of prove, present, prove-to-present")
	providerFlag := flag.String("provider", "", "provider id (e.g. wise)")
	builderFlag := flag.String("builder", "transaction_detail", "request builder template name")
	transactionID := flag.String("transaction-id", "", "provider transaction identifier")
	profileID := flag.String("profile-id", "", "provider profile identifier")
	cookie := flag.String("cookie", "", "session cookie credential")
	accessToken := flag.String("access-token", "", "bearer access token credential")
	whitelistFlag := flag.String("whitelist", "", "comma-separated field names to disclose")
	artifactDir := flag.String("artifact-dir", ".", "directory to read/write artifacts in")
	expectStatus := flag.Int("expect-status", 200, "expected HTTP status code from the provider")
	expectContentType := flag.String("expect-content-type", "application/json", "expected response Content-Type prefix")
	flag.Parse()

	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Str("cmd", "prove").Logger()
	pipeerr.Clear()

	id, err := provider.Parse(*providerFlag)
	if err != nil {
		fail(log, err)
	}

	cfg, err := config.Load()
	if err != nil {
		fail(log, err)
	}

	runProve := *mode == "prove" || *mode == "prove-to-present"
	runPresent := *mode == "present" || *mode == "prove-to-present"

	if runProve {
		creds := credentials.Credentials{
			ProfileID:     *profileID,
			TransactionID: *transactionID,
			Cookie:        []byte(*cookie),
			AccessToken:   []byte(*accessToken),
		}
		req := pipeline.ProveRequest{
			ProviderID:    id,
			BuilderName:   *builderFlag,
			Credentials:   creds,
			ArtifactDir:   *artifactDir,
			ExpectStatus:  *expectStatus,
			ExpectContent: *expectContentType,
		}
		if _, _, err := pipeline.Prove(context.Background(), cfg, req, log); err != nil {
			fail(log, err)
		}
		log.Info().Str("provider", id.String()).Msg("attestation and secrets written")
	}

	if runPresent {
		var whitelist []string
		if *whitelistFlag != "" {
			for _, f := range strings.Split(*whitelistFlag, ",") {
				whitelist = append(whitelist, strings.TrimSpace(f))
			}
		}
		if _, err := pipeline.Present(*artifactDir, id, whitelist); err != nil {
			fail(log, err)
		}
		log.Info().Str("provider", id.String()).Msg("presentation written")
	}
}

func fail(log zerolog.Logger, err error) {
	perr, ok := err.(*pipeerr.Error)
	if !ok {
		perr = pipeerr.Wrap(pipeerr.Io, "unexpected error", err)
	}
	pipeerr.Set(perr)
	log.Error().Err(perr).Str("code", string(perr.Code)).Msg("prove failed")
	os.Exit(perr.Code.ExitCode())
}

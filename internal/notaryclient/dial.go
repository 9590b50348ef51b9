// Package notaryclient owns the control-channel relationship with the
// Notary (spec §4.3): connecting, the (simulated) MPC-TLS key
// negotiation, and finalizing the session into a signed Attestation
// plus the Prover's Secrets.
package notaryclient

import (
	"context"
	"errors"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/summitto/tlsn-wise-attestor/internal/config"
	"github.com/summitto/tlsn-wise-attestor/internal/mpctls"
	"github.com/summitto/tlsn-wise-attestor/internal/pipeerr"
	"github.com/summitto/tlsn-wise-attestor/internal/provider"
)

// sessionIdleTimeout is how long a Session may sit open without being
// finalized before Expired reports it as stale (SPEC_FULL.md
// "Supplemented features: stale-run cleanup"). Nothing aborts an
// expired session automatically; the caller checks Expired and calls
// Abort.
const sessionIdleTimeout = 2 * time.Minute

// retryBackoff is the single bounded wait before retrying a
// NotaryUnreachable dial, per spec §4.3.
const retryBackoff = 500 * time.Millisecond

// Session is one notarization session: a control-channel handle to
// the Notary plus the MPC-TLS engine it authorizes, from dial through
// Finalize.
type Session struct {
	ID        string
	cfg       *config.SessionConfig
	profile   *provider.Profile
	engine    mpctls.Engine
	stream    mpctls.Stream
	signer    *notarySigner
	startedAt time.Time
	log       zerolog.Logger
}

// Dial opens the control channel to the Notary, negotiates the
// simulated PMS share, then opens the MPC-TLS stream to the
// provider's endpoint. On NotaryUnreachable it retries exactly once
// after retryBackoff (spec §4.3).
func Dial(ctx context.Context, cfg *config.SessionConfig, profile *provider.Profile, log zerolog.Logger) (*Session, mpctls.Stream, error) {
	sessionID := uuid.NewString()
	log = log.With().Str("session_id", sessionID).Str("provider", profile.ID.String()).Logger()

	if err := dialControlChannel(ctx, cfg); err != nil {
		var perr *pipeerr.Error
		if !errors.As(err, &perr) || !strings.HasPrefix(perr.Message, "NotaryUnreachable") {
			return nil, nil, err
		}
		log.Warn().Err(err).Msg("notary control channel unreachable, retrying once")
		select {
		case <-time.After(retryBackoff):
		case <-ctx.Done():
			return nil, nil, pipeerr.Wrap(pipeerr.Notary, "NotaryUnreachable", ctx.Err())
		}
		if err := dialControlChannel(ctx, cfg); err != nil {
			return nil, nil, err
		}
	}

	if _, err := negotiatePMSShare(); err != nil {
		return nil, nil, err
	}

	signer, err := newNotarySigner()
	if err != nil {
		return nil, nil, err
	}

	endpoint := resolveEndpoint(cfg, profile)
	engine := mpctls.NewEngine()
	stream, err := engine.Open(ctx, endpoint.Host, endpoint.Port, cfg.MaxSentData, cfg.MaxRecvData)
	if err != nil {
		return nil, nil, err
	}

	s := &Session{
		ID:        sessionID,
		cfg:       cfg,
		profile:   profile,
		engine:    engine,
		stream:    stream,
		signer:    signer,
		startedAt: time.Now(),
		log:       log,
	}
	return s, stream, nil
}

// Expired reports whether the session has sat open past
// sessionIdleTimeout without being finalized (SUPPLEMENTED FEATURES:
// stale-run cleanup).
func (s *Session) Expired() bool {
	return time.Since(s.startedAt) > sessionIdleTimeout
}

// Abort tears the underlying MPC-TLS connection down without
// producing a transcript, used when the session expires or the caller
// gives up before Finalize.
func (s *Session) Abort() {
	s.engine.Abort()
}

func resolveEndpoint(cfg *config.SessionConfig, profile *provider.Profile) provider.Endpoint {
	if override, ok := cfg.ProviderOverride[providerEnvPrefix(profile.ID)]; ok {
		return provider.Endpoint{Host: override.Host, Port: override.Port}
	}
	return profile.Endpoint
}

func providerEnvPrefix(id provider.ID) string {
	switch id {
	case provider.Wise:
		return "WISE"
	case provider.Mock:
		return "MOCK"
	default:
		return ""
	}
}

// dialControlChannel performs the short setup roundtrip with the
// Notary's control port: it announces the session and reads back a
// single acknowledgement byte, mirroring the teacher's notary.go
// accept loop on the other end of the wire.
func dialControlChannel(ctx context.Context, cfg *config.SessionConfig) error {
	addr := net.JoinHostPort(cfg.Notary.Host, strconv.Itoa(int(cfg.Notary.Port)))
	d := &net.Dialer{}
	conn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return pipeerr.Wrap(pipeerr.Notary, "NotaryUnreachable", err)
	}
	defer conn.Close()

	if deadline, ok := ctx.Deadline(); ok {
		conn.SetDeadline(deadline)
	}

	if _, err := conn.Write([]byte{1}); err != nil {
		return pipeerr.Wrap(pipeerr.Notary, "NotaryUnreachable: failed to announce session", err)
	}
	ack := make([]byte, 1)
	if _, err := conn.Read(ack); err != nil {
		return pipeerr.Wrap(pipeerr.Notary, "NotaryUnreachable: no acknowledgement from notary", err)
	}
	if ack[0] != 1 {
		return pipeerr.New(pipeerr.Notary, "NotaryRejected: notary refused session")
	}
	return nil
}

// Package config resolves the frozen SessionConfig from environment
// variables (spec §6 "Environment configuration").
package config

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
	"github.com/summitto/tlsn-wise-attestor/internal/pipeerr"
)

// NotaryEndpoint is the Notary's connection target.
type NotaryEndpoint struct {
	Host string `envconfig:"NOTARY_HOST" default:"127.0.0.1"`
	Port uint16 `envconfig:"NOTARY_PORT" default:"10011"`
	TLS  bool   `envconfig:"NOTARY_TLS" default:"false"`
}

// ProviderEndpoint overrides a provider's host/port. Keys are built
// per-provider at load time (e.g. WISE_HOST, WISE_PORT) since envconfig
// cannot express a dynamic prefix; see Load.
type ProviderEndpoint struct {
	Host string
	Port uint16
}

// SessionConfig is the immutable, per-invocation configuration
// produced by Load. Once built it is read-only for the remainder of
// the run (spec §3).
type SessionConfig struct {
	Notary          NotaryEndpoint
	ProviderOverride map[string]ProviderEndpoint
	MaxSentData     uint32 `envconfig:"MAX_SENT_DATA" default:"4096"`
	MaxRecvData     uint32 `envconfig:"MAX_RECV_DATA" default:"65536"`
	UserAgent       string `envconfig:"USER_AGENT" default:"tlsn-wise-attestor/1.0"`
}

type envShape struct {
	NotaryEndpoint
	MaxSentData uint32 `envconfig:"MAX_SENT_DATA" default:"4096"`
	MaxRecvData uint32 `envconfig:"MAX_RECV_DATA" default:"65536"`
	UserAgent   string `envconfig:"USER_AGENT" default:"tlsn-wise-attestor/1.0"`
}

// knownProviders lists the provider ids whose <PROVIDER>_HOST /
// <PROVIDER>_PORT overrides Load will look for. The registry is the
// source of truth for default endpoints; this list only drives which
// environment-variable prefixes are consulted.
var knownProviders = []string{"WISE", "MOCK"}

// Load resolves a SessionConfig from the process environment.
func Load() (*SessionConfig, error) {
	var shape envShape
	if err := envconfig.Process("", &shape); err != nil {
		return nil, pipeerr.Wrap(pipeerr.Config, "failed to resolve session configuration from environment", err)
	}

	if shape.MaxSentData == 0 || shape.MaxRecvData == 0 {
		return nil, pipeerr.New(pipeerr.Config, "MAX_SENT_DATA and MAX_RECV_DATA must be positive")
	}

	cfg := &SessionConfig{
		Notary:           shape.NotaryEndpoint,
		ProviderOverride: make(map[string]ProviderEndpoint),
		MaxSentData:      shape.MaxSentData,
		MaxRecvData:      shape.MaxRecvData,
		UserAgent:        shape.UserAgent,
	}

	for _, p := range knownProviders {
		var override struct {
			Host string `envconfig:"HOST"`
			Port uint16 `envconfig:"PORT"`
		}
		if err := envconfig.Process(p, &override); err != nil {
			return nil, pipeerr.Wrap(pipeerr.Config, fmt.Sprintf("failed to resolve %s endpoint override", p), err)
		}
		if override.Host != "" || override.Port != 0 {
			cfg.ProviderOverride[p] = ProviderEndpoint{Host: override.Host, Port: override.Port}
		}
	}

	return cfg, nil
}

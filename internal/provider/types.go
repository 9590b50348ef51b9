// Package provider is the closed-set registry of payment providers
// (spec §4.1). Adding a provider is a source-level change; the core
// never loads profiles dynamically.
package provider

import (
	"github.com/summitto/tlsn-wise-attestor/internal/credentials"
	"github.com/summitto/tlsn-wise-attestor/internal/planner"
)

// ID is the tagged-variant provider identifier (spec §9 "Provider
// dispatch").
type ID int

const (
	Unknown ID = iota
	Wise
	// Mock is a test-only provider exercising the registry's closed
	// dispatch without needing a live endpoint (SPEC_FULL.md
	// "Supplemented features").
	Mock
)

func (id ID) String() string {
	switch id {
	case Wise:
		return "wise"
	case Mock:
		return "mock"
	default:
		return "unknown"
	}
}

// FieldLocator names a semantic field and the dot-separated JSON path
// that locates it in the response body (spec §4.1 "field_catalog").
// Path segments that parse as non-negative integers index into JSON
// arrays; all other segments index into JSON objects.
type FieldLocator struct {
	Name string
	Path string
}

// Endpoint is the host/port this provider's HTTPS endpoint is
// reached at, absent any SessionConfig override.
type Endpoint struct {
	Host string
	Port uint16
}

// RequestBuilder consumes Credentials and the session's user agent
// and returns the raw request bytes plus the SentPlan marking every
// credential-derived byte range as redact (spec §4.2).
type RequestBuilder func(creds credentials.Credentials, userAgent string) ([]byte, planner.Plan, error)

// Profile is the complete, compile-time description of one provider
// (spec §3 "ProviderProfile", §4.1).
type Profile struct {
	ID              ID
	Endpoint        Endpoint
	RequestBuilders map[string]RequestBuilder
	FieldCatalog    []FieldLocator
	Disclosable     map[string]bool
	// AllowChunked declares whether this provider's responses may use
	// "Transfer-Encoding: chunked" framing; permitted only if the
	// provider profile declares it (spec §4.5). Profiles that leave
	// this false reject a chunked response outright.
	AllowChunked bool
}

// RequiredCredentials names the credential fields a given builder
// needs, used to surface BuilderInputMissing before the builder runs.
func (p *Profile) RequiredCredentials(builderName string) []string {
	switch builderName {
	case "echo":
		return []string{"transaction_id", "cookie"}
	default:
		return []string{"profile_id", "transaction_id", "cookie", "access_token"}
	}
}

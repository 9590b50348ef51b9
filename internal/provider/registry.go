package provider

import (
	"fmt"
	"strings"

	"github.com/summitto/tlsn-wise-attestor/internal/pipeerr"
)

var registry = map[ID]*Profile{
	Wise: wiseProfile(),
	Mock: mockProfile(),
}

// Lookup resolves id to its Profile, or returns ProviderUnknown
// (spec §4.1).
func Lookup(id ID) (*Profile, error) {
	p, ok := registry[id]
	if !ok {
		return nil, pipeerr.New(pipeerr.Config, fmt.Sprintf("ProviderUnknown: %s", id))
	}
	return p, nil
}

// Parse maps the CLI's --provider string onto an ID.
func Parse(s string) (ID, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "wise":
		return Wise, nil
	case "mock":
		return Mock, nil
	default:
		return Unknown, pipeerr.New(pipeerr.Config, fmt.Sprintf("ProviderUnknown: %q", s))
	}
}

package provider

import (
	"fmt"

	"github.com/summitto/tlsn-wise-attestor/internal/credentials"
	"github.com/summitto/tlsn-wise-attestor/internal/pipeerr"
	"github.com/summitto/tlsn-wise-attestor/internal/planner"
	"github.com/summitto/tlsn-wise-attestor/internal/reqbuilder"
)

// mockProfile exercises the registry's closed dispatch and the
// request-builder contract in tests without a live endpoint.
func mockProfile() *Profile {
	p := &Profile{
		ID:       Mock,
		Endpoint: Endpoint{Host: "127.0.0.1", Port: 0},
		FieldCatalog: []FieldLocator{
			{Name: "status", Path: "status"},
			{Name: "amount", Path: "amount"},
		},
		Disclosable: map[string]bool{
			"status": true,
			"amount": true,
		},
	}
	p.RequestBuilders = map[string]RequestBuilder{
		"echo": buildMockEcho,
	}
	return p
}

func buildMockEcho(creds credentials.Credentials, userAgent string) ([]byte, planner.Plan, error) {
	if missing := creds.Missing("transaction_id", "cookie"); len(missing) > 0 {
		return nil, nil, pipeerr.New(pipeerr.Config, fmt.Sprintf("BuilderInputMissing: %v", missing))
	}

	var w reqbuilder.Writer
	w.RequestLine("GET", fmt.Sprintf("/echo/%s", creds.TransactionID))
	w.PublicHeader("Host", "127.0.0.1")
	w.PublicHeader("User-Agent", userAgent)
	w.PublicHeader("Connection", "close")
	w.SecretHeader("Cookie", string(creds.Cookie))
	w.EndHeaders()

	return w.Bytes(), w.Plan(), nil
}

package provider

import (
	"fmt"

	"github.com/summitto/tlsn-wise-attestor/internal/credentials"
	"github.com/summitto/tlsn-wise-attestor/internal/pipeerr"
	"github.com/summitto/tlsn-wise-attestor/internal/planner"
	"github.com/summitto/tlsn-wise-attestor/internal/reqbuilder"
)

const wiseHost = "api.wise.com"
const wisePort = 443

func wiseProfile() *Profile {
	p := &Profile{
		ID:       Wise,
		Endpoint: Endpoint{Host: wiseHost, Port: wisePort},
		FieldCatalog: []FieldLocator{
			{Name: "resource.id", Path: "resource.id"},
			{Name: "primary_amount", Path: "primaryAmount"},
			{Name: "currency", Path: "sourceCurrency"},
			{Name: "visible_on", Path: "visibleOn"},
			{Name: "title", Path: "title"},
			{Name: "status", Path: "status"},
		},
		Disclosable: map[string]bool{
			"resource.id":    true,
			"primary_amount": true,
			"currency":       true,
			"visible_on":     true,
			"title":          true,
			"status":         true,
		},
	}
	p.RequestBuilders = map[string]RequestBuilder{
		"transaction_detail": buildWiseTransactionDetail,
	}
	return p
}

// buildWiseTransactionDetail implements spec §4.2's algorithm for the
// "transaction_detail" template: request line and path carry the
// (non-secret) profile/transaction identifiers, the Cookie and
// Authorization headers carry credential material and are redacted.
func buildWiseTransactionDetail(creds credentials.Credentials, userAgent string) ([]byte, planner.Plan, error) {
	if missing := creds.Missing("profile_id", "transaction_id", "cookie", "access_token"); len(missing) > 0 {
		return nil, nil, pipeerr.New(pipeerr.Config, fmt.Sprintf("BuilderInputMissing: %v", missing))
	}

	var w reqbuilder.Writer
	target := fmt.Sprintf("/gateway/v3/profiles/%s/transfers/%s", creds.ProfileID, creds.TransactionID)
	w.RequestLine("GET", target)
	w.PublicHeader("Host", wiseHost)
	w.PublicHeader("User-Agent", userAgent)
	w.PublicHeader("Accept", "*/*")
	w.PublicHeader("Accept-Encoding", "identity")
	w.PublicHeader("Connection", "close")
	w.SecretHeader("Cookie", string(creds.Cookie))
	w.MixedHeader("Authorization", "Bearer ", string(creds.AccessToken), "")
	w.EndHeaders()

	return w.Bytes(), w.Plan(), nil
}

// Package transcript holds the full recorded bytes of an MPC-TLS
// session, produced by the prover core at session close (spec §3
// "Transcript").
package transcript

// Transcript is the full recorded bytes of one HTTP exchange over the
// MPC-TLS stream: the exact bytes written to the wire (sent) and the
// exact decrypted bytes read back (recv).
type Transcript struct {
	Sent []byte
	Recv []byte
}

// ServerIdentity is the handshake's binding to the provider's
// certificate chain, carried alongside the Transcript into the
// Attestation (spec §4.4 "server-identity commitment").
type ServerIdentity struct {
	Hostname    string
	LeafCertDER []byte
	ChainDER    [][]byte
}

// Package verifier checks a Presentation against a set of trusted
// Notary public keys and an expected server hostname, then recovers
// the disclosed fields (spec §4.9 "Verifier").
package verifier

import (
	"crypto/ecdsa"
	"crypto/x509"
	"encoding/pem"
	"fmt"

	"github.com/summitto/tlsn-wise-attestor/internal/attestation"
	"github.com/summitto/tlsn-wise-attestor/internal/commitment"
	"github.com/summitto/tlsn-wise-attestor/internal/pipeerr"
	"github.com/summitto/tlsn-wise-attestor/internal/planner"
)

// verifyCertChain parses id's leaf and intermediate certificates and
// checks the chain against roots for expectedHostname (spec §4.9 step
// 2: "that chain must validate against the system trust store and the
// leaf must match the expected hostname"). A nil roots pool means the
// system trust store (Verify's normal, production path); tests pass a
// pool seeded with a test CA instead.
func verifyCertChain(leafCertDER []byte, chainDER [][]byte, expectedHostname string, roots *x509.CertPool) error {
	leaf, err := x509.ParseCertificate(leafCertDER)
	if err != nil {
		return pipeerr.Wrap(pipeerr.Crypto, "ServerIdentityMismatch: failed to parse leaf certificate", err)
	}

	intermediates := x509.NewCertPool()
	for _, der := range chainDER {
		cert, err := x509.ParseCertificate(der)
		if err != nil {
			return pipeerr.Wrap(pipeerr.Crypto, "ServerIdentityMismatch: failed to parse chain certificate", err)
		}
		intermediates.AddCert(cert)
	}

	if roots == nil {
		sysRoots, err := x509.SystemCertPool()
		if err != nil {
			return pipeerr.Wrap(pipeerr.Crypto, "ServerIdentityMismatch: failed to load system trust store", err)
		}
		roots = sysRoots
	}

	opts := x509.VerifyOptions{
		DNSName:       expectedHostname,
		Roots:         roots,
		Intermediates: intermediates,
	}
	if _, err := leaf.Verify(opts); err != nil {
		return pipeerr.Wrap(pipeerr.Crypto, "ServerIdentityMismatch: certificate chain does not validate", err)
	}
	return nil
}

// TrustStore maps a Notary key ID to the public key the Verifier
// accepts signatures from. A Verifier that trusts no keys rejects
// every Presentation.
type TrustStore map[string]*ecdsa.PublicKey

// Verify checks p's Notary signature against trustStore, checks the
// server-identity binding against expectedHostname (including the
// certificate chain against roots, or the system trust store when
// roots is nil), re-derives every disclosed commitment from its
// Opening, and returns the recovered fields (spec §4.9).
func Verify(p *attestation.Presentation, expectedHostname string, trustStore TrustStore, roots *x509.CertPool) (*attestation.VerificationResult, error) {
	pub, ok := trustStore[p.Attestation.NotaryKeyID]
	if !ok {
		return nil, pipeerr.New(pipeerr.Crypto, "NotarySignatureInvalid: unknown notary key id")
	}

	digest := attestation.Digest(&p.Attestation)
	if !ecdsa.VerifyASN1(pub, digest, p.Attestation.NotarySignature) {
		return nil, pipeerr.New(pipeerr.Crypto, "NotarySignatureInvalid: signature does not verify")
	}

	if p.ServerIdentity.Hostname != expectedHostname {
		return nil, pipeerr.New(pipeerr.Crypto, fmt.Sprintf("ServerIdentityMismatch: got %q, expected %q", p.ServerIdentity.Hostname, expectedHostname))
	}
	wantHash := attestation.HashServerIdentity(p.ServerIdentity)
	if wantHash != p.Attestation.ServerIdentityHash {
		return nil, pipeerr.New(pipeerr.Crypto, "ServerIdentityMismatch: identity does not match attested hash")
	}
	if err := verifyCertChain(p.ServerIdentity.LeafCertDER, p.ServerIdentity.ChainDER, expectedHostname, roots); err != nil {
		return nil, err
	}

	if err := verifyOpenings(p.RevealedSent, p.Attestation.SentCommitments); err != nil {
		return nil, err
	}
	if err := verifyOpenings(p.RevealedRecv, p.Attestation.RecvCommitments); err != nil {
		return nil, err
	}

	var disclosedSent, disclosedRecv []attestation.DisclosedField
	for _, rs := range p.RevealedSent {
		disclosedSent = append(disclosedSent, attestation.DisclosedField{Name: rs.Name, Value: string(rs.Value)})
	}
	for _, rs := range p.RevealedRecv {
		disclosedRecv = append(disclosedRecv, attestation.DisclosedField{Name: rs.Name, Value: string(rs.Value)})
	}

	return &attestation.VerificationResult{
		ServerIdentity:      p.ServerIdentity.Hostname,
		DisclosedSent:       disclosedSent,
		DisclosedRecv:       disclosedRecv,
		NotaryKeyID:         p.Attestation.NotaryKeyID,
		TimestampRangeStart: p.Attestation.CreatedAtUnix,
		TimestampRangeEnd:   p.Attestation.CreatedAtUnix,
	}, nil
}

// verifyOpenings re-commits every RevealedSpan's value under its
// claimed opening and checks the result against the matching
// attestation commitment found by (Start, End).
func verifyOpenings(revealed []attestation.RevealedSpan, commits []attestation.SpanCommitment) error {
	byRange := make(map[[2]int]attestation.SpanCommitment, len(commits))
	for _, c := range commits {
		byRange[[2]int{c.Start, c.End}] = c
	}

	for _, rs := range revealed {
		c, ok := byRange[[2]int{rs.Start, rs.End}]
		if !ok {
			return pipeerr.New(pipeerr.Crypto, fmt.Sprintf("CommitmentOpeningInvalid: no commitment for span %q", rs.Name))
		}
		if c.Disclosure != planner.Reveal {
			return pipeerr.New(pipeerr.Crypto, fmt.Sprintf("DisclosurePolicyViolation: span %q was not committed as reveal-capable", rs.Name))
		}
		if !commitment.Open(c.Commitment, rs.Value, rs.Opening) {
			return pipeerr.New(pipeerr.Crypto, fmt.Sprintf("CommitmentOpeningInvalid: opening does not match commitment for %q", rs.Name))
		}
	}
	return nil
}

// LoadPublicKeyPEM parses a PEM-encoded SubjectPublicKeyInfo, as
// stored in Attestation.NotaryPublicKeyPEM, into the key type Verify
// expects.
func LoadPublicKeyPEM(pemBytes []byte) (*ecdsa.PublicKey, error) {
	block, _ := pem.Decode(pemBytes)
	if block == nil {
		return nil, pipeerr.New(pipeerr.Crypto, "NotarySignatureInvalid: not a PEM-encoded public key")
	}
	key, err := x509.ParsePKIXPublicKey(block.Bytes)
	if err != nil {
		return nil, pipeerr.Wrap(pipeerr.Crypto, "NotarySignatureInvalid: failed to parse notary public key", err)
	}
	pub, ok := key.(*ecdsa.PublicKey)
	if !ok {
		return nil, pipeerr.New(pipeerr.Crypto, "NotarySignatureInvalid: notary public key is not ECDSA")
	}
	return pub, nil
}

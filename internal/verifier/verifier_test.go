package verifier

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/x509"
	"crypto/x509/pkix"
	"math/big"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/summitto/tlsn-wise-attestor/internal/attestation"
	"github.com/summitto/tlsn-wise-attestor/internal/commitment"
	"github.com/summitto/tlsn-wise-attestor/internal/planner"
	"github.com/summitto/tlsn-wise-attestor/internal/transcript"
)

// testCertChain builds a minimal CA + leaf pair for hostname, valid
// under a CertPool containing only the returned CA, so verifyCertChain
// can be exercised without reaching the real system trust store.
func testCertChain(t *testing.T, hostname string) (leafDER []byte, roots *x509.CertPool) {
	t.Helper()

	caKey, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)
	caTmpl := &x509.Certificate{
		SerialNumber:          big.NewInt(1),
		Subject:               pkix.Name{CommonName: "test CA"},
		NotBefore:             time.Unix(0, 0),
		NotAfter:              time.Unix(0, 0).Add(100 * 365 * 24 * time.Hour),
		IsCA:                  true,
		KeyUsage:              x509.KeyUsageCertSign | x509.KeyUsageDigitalSignature,
		BasicConstraintsValid: true,
	}
	caDER, err := x509.CreateCertificate(rand.Reader, caTmpl, caTmpl, &caKey.PublicKey, caKey)
	require.NoError(t, err)
	caCert, err := x509.ParseCertificate(caDER)
	require.NoError(t, err)

	leafKey, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)
	leafTmpl := &x509.Certificate{
		SerialNumber: big.NewInt(2),
		Subject:      pkix.Name{CommonName: hostname},
		DNSNames:     []string{hostname},
		NotBefore:    time.Unix(0, 0),
		NotAfter:     time.Unix(0, 0).Add(100 * 365 * 24 * time.Hour),
		KeyUsage:     x509.KeyUsageDigitalSignature,
	}
	leafDER, err = x509.CreateCertificate(rand.Reader, leafTmpl, caCert, &leafKey.PublicKey, caKey)
	require.NoError(t, err)

	roots = x509.NewCertPool()
	roots.AddCert(caCert)
	return leafDER, roots
}

func buildSignedAttestation(t *testing.T, recvData []byte, recvPlan planner.Plan) (*attestation.Attestation, *attestation.Secrets, *ecdsa.PrivateKey, *x509.CertPool) {
	t.Helper()

	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)

	leafDER, roots := testCertChain(t, "api.wise.com")
	identity := transcript.ServerIdentity{Hostname: "api.wise.com", LeafCertDER: leafDER}

	commits := make([]attestation.SpanCommitment, len(recvPlan))
	openings := make([]commitment.Opening, len(recvPlan))
	for i, s := range recvPlan {
		c, op := commitment.Commit(recvData[s.Start:s.End])
		commits[i] = attestation.SpanCommitment{Name: s.Name, Start: s.Start, End: s.End, Disclosure: s.Disclosure, Commitment: c}
		openings[i] = op
	}

	a := &attestation.Attestation{
		ProtocolVersion:    attestation.ProtocolVersion,
		ServerIdentityHash: attestation.HashServerIdentity(identity),
		RecvCommitments:    commits,
		RecvLength:         len(recvData),
		NotaryKeyID:        "test-key",
	}
	digest := attestation.Digest(a)
	sig, err := ecdsa.SignASN1(rand.Reader, key, digest)
	require.NoError(t, err)
	a.NotarySignature = sig

	secrets := &attestation.Secrets{ServerIdentity: identity, RecvOpenings: openings}
	return a, secrets, key, roots
}

func TestVerifyAcceptsValidPresentation(t *testing.T) {
	recvData := []byte(`{"status":"done"}`)
	recvPlan := planner.Plan{{Start: 0, End: len(recvData), Disclosure: planner.Reveal, Name: "status"}}

	a, secrets, key, roots := buildSignedAttestation(t, recvData, recvPlan)

	pres := &attestation.Presentation{
		ProtocolVersion: attestation.ProtocolVersion,
		Attestation:     *a,
		RevealedRecv: []attestation.RevealedSpan{
			{Name: "status", Start: 0, End: len(recvData), Value: recvData, Opening: secrets.RecvOpenings[0]},
		},
		ServerIdentity: secrets.ServerIdentity,
	}

	result, err := Verify(pres, "api.wise.com", TrustStore{"test-key": &key.PublicKey}, roots)
	require.NoError(t, err)
	require.Equal(t, "api.wise.com", result.ServerIdentity)
	require.Len(t, result.DisclosedRecv, 1)
	require.Equal(t, `{"status":"done"}`, result.DisclosedRecv[0].Value)
}

func TestVerifyRejectsUnknownNotaryKey(t *testing.T) {
	recvData := []byte(`{"a":1}`)
	recvPlan := planner.Plan{{Start: 0, End: len(recvData), Disclosure: planner.Reveal, Name: "a"}}
	a, _, _, roots := buildSignedAttestation(t, recvData, recvPlan)

	pres := &attestation.Presentation{Attestation: *a}
	_, err := Verify(pres, "api.wise.com", TrustStore{}, roots)
	require.Error(t, err)
}

func TestVerifyRejectsTamperedOpening(t *testing.T) {
	recvData := []byte(`{"status":"done"}`)
	recvPlan := planner.Plan{{Start: 0, End: len(recvData), Disclosure: planner.Reveal, Name: "status"}}
	a, secrets, key, roots := buildSignedAttestation(t, recvData, recvPlan)

	tampered := secrets.RecvOpenings[0]
	tampered.Blinding[0] ^= 0xff

	pres := &attestation.Presentation{
		Attestation: *a,
		RevealedRecv: []attestation.RevealedSpan{
			{Name: "status", Start: 0, End: len(recvData), Value: recvData, Opening: tampered},
		},
		ServerIdentity: secrets.ServerIdentity,
	}

	_, err := Verify(pres, "api.wise.com", TrustStore{"test-key": &key.PublicKey}, roots)
	require.Error(t, err)
}

func TestVerifyRejectsUntrustedCertChain(t *testing.T) {
	recvData := []byte(`{"status":"done"}`)
	recvPlan := planner.Plan{{Start: 0, End: len(recvData), Disclosure: planner.Reveal, Name: "status"}}
	a, secrets, key, _ := buildSignedAttestation(t, recvData, recvPlan)

	pres := &attestation.Presentation{
		Attestation: *a,
		RevealedRecv: []attestation.RevealedSpan{
			{Name: "status", Start: 0, End: len(recvData), Value: recvData, Opening: secrets.RecvOpenings[0]},
		},
		ServerIdentity: secrets.ServerIdentity,
	}

	// No roots pool trusts the test CA, so the chain must not validate.
	_, err := Verify(pres, "api.wise.com", TrustStore{"test-key": &key.PublicKey}, x509.NewCertPool())
	require.Error(t, err)
}

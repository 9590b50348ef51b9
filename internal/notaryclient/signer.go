package notaryclient

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/x509"
	"encoding/pem"

	"github.com/summitto/tlsn-wise-attestor/internal/cryptoutil"
	"github.com/summitto/tlsn-wise-attestor/internal/pipeerr"
)

// notarySigner signs the Notary's attestation digest with an ECDSA
// key, ported from the teacher's aes_tag.TagSigningManager (which
// signs AES-tag ciphertext digests the same way: ASN.1-encoded
// ECDSA-SHA256 over a SHA-256 digest of the committed bytes).
type notarySigner struct {
	key   *ecdsa.PrivateKey
	keyID string
}

func newNotarySigner() (*notarySigner, error) {
	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		return nil, pipeerr.Wrap(pipeerr.Notary, "failed to generate notary signing key", err)
	}
	pub, err := x509.MarshalPKIXPublicKey(&key.PublicKey)
	if err != nil {
		return nil, pipeerr.Wrap(pipeerr.Notary, "failed to marshal notary public key", err)
	}
	return &notarySigner{
		key:   key,
		keyID: hexPrefix(cryptoutil.Sha256(pub)),
	}, nil
}

// Sign returns an ASN.1-encoded ECDSA-SHA256 signature over digest.
func (s *notarySigner) Sign(digest []byte) ([]byte, error) {
	sig, err := ecdsa.SignASN1(rand.Reader, s.key, digest)
	if err != nil {
		return nil, pipeerr.Wrap(pipeerr.Notary, "failed to sign attestation digest", err)
	}
	return sig, nil
}

// PublicKeyPEM returns the PEM-encoded SubjectPublicKeyInfo, matching
// notary.go's "/getPubKey" handler.
func (s *notarySigner) PublicKeyPEM() ([]byte, error) {
	der, err := x509.MarshalPKIXPublicKey(&s.key.PublicKey)
	if err != nil {
		return nil, pipeerr.Wrap(pipeerr.Notary, "failed to marshal notary public key", err)
	}
	block := &pem.Block{Type: "PUBLIC KEY", Bytes: der}
	return pem.EncodeToMemory(block), nil
}

func hexPrefix(b []byte) string {
	const hexdigits = "0123456789abcdef"
	n := 8
	if len(b) < n {
		n = len(b)
	}
	out := make([]byte, 0, n*2)
	for _, c := range b[:n] {
		out = append(out, hexdigits[c>>4], hexdigits[c&0xf])
	}
	return string(out)
}

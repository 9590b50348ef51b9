package attestation

import (
	"fmt"

	"github.com/summitto/tlsn-wise-attestor/internal/cryptoutil"
	"github.com/summitto/tlsn-wise-attestor/internal/transcript"
)

// HashServerIdentity derives the binding ServerIdentityHash stores:
// a SHA-256 of the hostname concatenated with the leaf certificate's
// DER bytes. Both notaryclient (producing an Attestation) and
// verifier (checking one) must compute this identically.
func HashServerIdentity(id transcript.ServerIdentity) [32]byte {
	var buf [32]byte
	copy(buf[:], cryptoutil.Sha256(append([]byte(id.Hostname), id.LeafCertDER...)))
	return buf
}

// Digest is the SHA-256 the Notary signs. It covers every field of the
// Attestation except NotarySignature: the protocol version, the
// server-identity hash, every sent and recv span commitment (name,
// range, disclosure label and point, in order), the transcript
// lengths, the creation time, and the Notary key id and public key.
// Signing the commitments rather than the raw transcript keeps the
// Attestation self-contained — a verifier never needs the transcript
// itself.
func Digest(a *Attestation) []byte {
	buf := fmt.Appendf(nil, "%d|%d|%d|", a.ProtocolVersion, len(a.SentCommitments), len(a.RecvCommitments))
	buf = append(buf, a.ServerIdentityHash[:]...)
	for _, c := range a.SentCommitments {
		buf = fmt.Appendf(buf, "%d:%s|%d|%d|%d|", len(c.Name), c.Name, c.Start, c.End, int(c.Disclosure))
		buf = append(buf, c.Commitment[:]...)
	}
	for _, c := range a.RecvCommitments {
		buf = fmt.Appendf(buf, "%d:%s|%d|%d|%d|", len(c.Name), c.Name, c.Start, c.End, int(c.Disclosure))
		buf = append(buf, c.Commitment[:]...)
	}
	buf = fmt.Appendf(buf, "%d|%d|%d|%d:%s|", a.SentLength, a.RecvLength, a.CreatedAtUnix, len(a.NotaryKeyID), a.NotaryKeyID)
	buf = append(buf, a.NotaryPublicKeyPEM...)
	return cryptoutil.Sha256(buf)
}

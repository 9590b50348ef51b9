package attestation

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/summitto/tlsn-wise-attestor/internal/commitment"
)

func sampleAttestation() *Attestation {
	c, _ := commitment.Commit([]byte("hello"))
	return &Attestation{
		ProtocolVersion: ProtocolVersion,
		SentCommitments: []SpanCommitment{{Name: "", Start: 0, End: 5, Commitment: c}},
		SentLength:      5,
		RecvLength:      0,
		NotaryKeyID:     "key-1",
		CreatedAtUnix:   1700000000,
	}
}

func TestAttestationRoundTrip(t *testing.T) {
	a := sampleAttestation()
	frame, err := EncodeAttestation(a)
	require.NoError(t, err)

	decoded, err := DecodeAttestation(frame)
	require.NoError(t, err)
	require.Equal(t, a, decoded)
}

func TestDecodeRejectsUnknownVersion(t *testing.T) {
	a := sampleAttestation()
	frame, err := EncodeAttestation(a)
	require.NoError(t, err)
	frame[0] = 0xFF

	_, err = DecodeAttestation(frame)
	require.Error(t, err)
}

func TestDecodeRejectsEmptyFrame(t *testing.T) {
	_, err := DecodeAttestation(nil)
	require.Error(t, err)
}

func TestSecretsRoundTrip(t *testing.T) {
	_, op := commitment.Commit([]byte("value"))
	s := &Secrets{SentOpenings: []commitment.Opening{op}}
	frame, err := EncodeSecrets(s)
	require.NoError(t, err)

	decoded, err := DecodeSecrets(frame)
	require.NoError(t, err)
	require.Equal(t, s, decoded)
}

package attestation

import (
	"github.com/vmihailenco/msgpack/v5"

	"github.com/summitto/tlsn-wise-attestor/internal/pipeerr"
)

// EncodeAttestation serializes an Attestation as a version-prefixed
// msgpack frame: one version byte followed by the encoded body
// (spec §4.7).
func EncodeAttestation(a *Attestation) ([]byte, error) {
	return encodeFrame(a.ProtocolVersion, a)
}

// DecodeAttestation parses a version-prefixed frame produced by
// EncodeAttestation, rejecting any version it does not recognize.
func DecodeAttestation(frame []byte) (*Attestation, error) {
	var a Attestation
	if err := decodeFrame(frame, &a); err != nil {
		return nil, err
	}
	return &a, nil
}

// EncodeSecrets / DecodeSecrets mirror the Attestation codec for the
// Secrets artifact.
func EncodeSecrets(s *Secrets) ([]byte, error) {
	return encodeFrame(ProtocolVersion, s)
}

func DecodeSecrets(frame []byte) (*Secrets, error) {
	var s Secrets
	if err := decodeFrame(frame, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

// EncodePresentation / DecodePresentation mirror the Attestation codec
// for the Presentation artifact.
func EncodePresentation(p *Presentation) ([]byte, error) {
	return encodeFrame(p.ProtocolVersion, p)
}

func DecodePresentation(frame []byte) (*Presentation, error) {
	var p Presentation
	if err := decodeFrame(frame, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func encodeFrame(version uint8, body interface{}) ([]byte, error) {
	payload, err := msgpack.Marshal(body)
	if err != nil {
		return nil, pipeerr.Wrap(pipeerr.Io, "failed to encode artifact body", err)
	}
	frame := make([]byte, 0, len(payload)+1)
	frame = append(frame, version)
	frame = append(frame, payload...)
	return frame, nil
}

func decodeFrame(frame []byte, body interface{}) error {
	if len(frame) < 1 {
		return pipeerr.New(pipeerr.Io, "artifact frame is empty")
	}
	version := frame[0]
	if version != ProtocolVersion {
		return pipeerr.New(pipeerr.Io, "ArtifactVersionUnsupported")
	}
	if err := msgpack.Unmarshal(frame[1:], body); err != nil {
		return pipeerr.Wrap(pipeerr.Io, "failed to decode artifact body", err)
	}
	return nil
}

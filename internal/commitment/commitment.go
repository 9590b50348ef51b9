// Package commitment implements the Pedersen-style commitments used
// to bind transcript spans to an Attestation: a blinded point that can
// later be opened (revealed) or left unopened (redacted), per spec §3
// "Presentation may reveal only spans that are already marked
// reveal-capable in the attestation's commitment structure".
//
// Grounded on the teacher's choice of github.com/bwesterb/go-ristretto
// (the same dependency notary/session.go pulls in for its salted
// per-circuit commitments) rather than a hand-rolled hash commitment.
package commitment

import (
	"bytes"

	"github.com/bwesterb/go-ristretto"
	"github.com/summitto/tlsn-wise-attestor/internal/cryptoutil"
)

// secondGenerator is a nothing-up-my-sleeve point H, independent of
// the standard base point G, derived by hashing a fixed domain tag
// into a scalar and multiplying it onto the base point. Any verifier
// recomputes the same H deterministically.
var secondGenerator ristretto.Point

func init() {
	var hScalar ristretto.Scalar
	digest := cryptoutil.Blake2b256([]byte("tlsn-wise-attestor/pedersen-generator-h"))
	var buf [32]byte
	copy(buf[:], digest)
	hScalar.SetBytes(&buf)
	secondGenerator.ScalarMultBase(&hScalar)
}

// Opening is the prover-only witness for a commitment: the blinding
// factor used at commit time. Secrets stores one Opening per span.
// Opening does NOT carry the committed value — Open takes the
// candidate plaintext as an explicit argument so a verifier's check
// actually binds the disclosed bytes to the commitment, rather than
// trusting a value the Presentation asserts out-of-band.
type Opening struct {
	Blinding [32]byte
}

// Commitment is the publishable binding: a single Ristretto point
// encoded as 32 bytes. Attestation stores one Commitment per span.
type Commitment [32]byte

// Commit hashes value down to a scalar and returns (commitment,
// opening) for a freshly sampled blinding factor.
func Commit(value []byte) (Commitment, Opening) {
	var blinding ristretto.Scalar
	blinding.Rand()

	point := computePoint(valueScalar(value), &blinding)

	var c Commitment
	pointBytes := *point.Bytes()
	copy(c[:], pointBytes[:])

	var op Opening
	blindingBytes := *blinding.Bytes()
	copy(op.Blinding[:], blindingBytes[:])
	return c, op
}

// Open reports whether value and op together reproduce c: the only
// way a Presentation can make a span's plaintext verifiable is by
// supplying both, so a tampered value or a mismatched opening both
// fail this check.
func Open(c Commitment, value []byte, op Opening) bool {
	var blinding ristretto.Scalar
	blinding.SetBytes(&op.Blinding)

	point := computePoint(valueScalar(value), &blinding)
	pointBytes := *point.Bytes()
	return bytes.Equal(c[:], pointBytes[:])
}

func valueScalar(value []byte) *ristretto.Scalar {
	var s ristretto.Scalar
	var buf [32]byte
	copy(buf[:], cryptoutil.Blake2b256(value))
	s.SetBytes(&buf)
	return &s
}

func computePoint(value, blinding *ristretto.Scalar) *ristretto.Point {
	var blindedBase, valueTerm, sum ristretto.Point
	blindedBase.ScalarMultBase(blinding)
	valueTerm.ScalarMult(&secondGenerator, value)
	sum.Add(&blindedBase, &valueTerm)
	return &sum
}

// Package cryptoutil carries the small set of hashing helpers the
// pipeline needs, ported from the teacher's notary/utils package and
// trimmed to SHA-256, a 32-byte Blake2b hash, and random bytes.
package cryptoutil

import (
	"crypto/rand"
	"crypto/sha256"

	"golang.org/x/crypto/blake2b"
)

// Sha256 ports notary/utils.Sha256.
func Sha256(data []byte) []byte {
	sum := sha256.Sum256(data)
	return sum[:]
}

// Blake2b256 ports notary/utils.Generichash at a fixed 32-byte output,
// used to derive the second Pedersen generator in internal/commitment.
func Blake2b256(msg []byte) []byte {
	h, err := blake2b.New256(nil)
	if err != nil {
		panic("cryptoutil: blake2b.New256 failed: " + err.Error())
	}
	if _, err := h.Write(msg); err != nil {
		panic("cryptoutil: blake2b write failed: " + err.Error())
	}
	return h.Sum(nil)
}

// Random returns n cryptographically random bytes.
func Random(n int) []byte {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		panic("cryptoutil: rand.Read failed: " + err.Error())
	}
	return buf
}

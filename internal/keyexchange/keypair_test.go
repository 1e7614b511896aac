package keyexchange

import (
	"math/big"
	"testing"

	"courier/backend/internal/keyexchange/domain"
	"courier/backend/internal/security"
)

func TestGenerateKeyPair(t *testing.T) {
	params, err := generateParams(testPrimeBits)
	if err != nil {
		t.Fatalf("generateParams: %v", err)
	}

	kp, err := GenerateKeyPair(params)
	if err != nil {
		t.Fatalf("GenerateKeyPair: %v", err)
	}

	p := new(big.Int).SetBytes(params.Prime)
	g := new(big.Int).SetBytes(params.Generator)
	priv := new(big.Int).SetBytes(kp.Private)
	pub := new(big.Int).SetBytes(kp.Public)

	if priv.Cmp(big.NewInt(2)) < 0 || priv.Cmp(new(big.Int).Sub(p, big.NewInt(2))) > 0 {
		t.Errorf("private key %v outside [2, p-2]", priv)
	}
	// Public key must be reproducible from the private key and the domain.
	if want := new(big.Int).Exp(g, priv, p); pub.Cmp(want) != 0 {
		t.Error("public key is not g^priv mod p")
	}
}

func TestGenerateKeyPair_RejectsInvalidParams(t *testing.T) {
	bad := &domain.Params{
		Prime:     big.NewInt(4).Bytes(),
		Generator: big.NewInt(1).Bytes(),
	}
	if _, err := GenerateKeyPair(bad); err == nil {
		t.Fatal("invalid domain parameters accepted")
	}
}

func TestPublicKeyFromPassword_Deterministic(t *testing.T) {
	codec, err := security.NewCodec("base64")
	if err != nil {
		t.Fatalf("NewCodec: %v", err)
	}

	first, err := PublicKeyFromPassword("hunter2", codec)
	if err != nil {
		t.Fatalf("PublicKeyFromPassword: %v", err)
	}
	second, err := PublicKeyFromPassword("hunter2", codec)
	if err != nil {
		t.Fatalf("PublicKeyFromPassword: %v", err)
	}
	if first != second {
		t.Error("same password produced different public keys")
	}

	other, err := PublicKeyFromPassword("hunter3", codec)
	if err != nil {
		t.Fatalf("PublicKeyFromPassword: %v", err)
	}
	if other == first {
		t.Error("different passwords produced the same public key")
	}
}

func TestPublicKeyFromPassword_RejectsEmpty(t *testing.T) {
	codec, _ := security.NewCodec("base64")
	if _, err := PublicKeyFromPassword("", codec); err == nil {
		t.Fatal("empty password accepted")
	}
}

func TestPasswordPrime_IsSafePrime(t *testing.T) {
	if passwordPrime.BitLen() != 512 {
		t.Fatalf("password prime has %d bits, want 512", passwordPrime.BitLen())
	}
	if !passwordPrime.ProbablyPrime(40) {
		t.Fatal("password prime is not prime")
	}
	q := new(big.Int).Rsh(new(big.Int).Sub(passwordPrime, big.NewInt(1)), 1)
	if !q.ProbablyPrime(40) {
		t.Fatal("password prime is not a safe prime")
	}
}

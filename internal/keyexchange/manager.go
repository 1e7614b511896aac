// Package keyexchange owns the Diffie-Hellman bootstrap: the lazily generated,
// persisted domain parameters shared by all clients, and key pair derivation
// against those parameters or from a user password.
package keyexchange

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"log"
	"math/big"

	"courier/backend/internal/keyexchange/domain"
	"courier/backend/internal/keyexchange/repository"
)

// ErrGeneration is returned when the prime or key generation fails (entropy or
// crypto failure). At startup this is fatal: the service must not advertise key
// exchange without parameters.
var ErrGeneration = errors.New("keyexchange: parameter generation failed")

var (
	one = big.NewInt(1)
	two = big.NewInt(2)
)

// Manager ensures exactly one (prime, generator) pair exists service-wide.
type Manager struct {
	repo      repository.Repository
	primeBits int
}

// NewManager returns a Manager generating primes of primeBits bits.
func NewManager(repo repository.Repository, primeBits int) *Manager {
	return &Manager{repo: repo, primeBits: primeBits}
}

// EnsureParams makes sure domain parameters exist, generating and persisting
// them when absent. Idempotent: when parameters are already stored it does
// nothing. Safe under concurrent startup; a lost insert race leaves the
// winner's parameters in place.
func (m *Manager) EnsureParams(ctx context.Context) error {
	params, err := m.repo.Get(ctx)
	if err != nil {
		return err
	}
	if params != nil {
		return nil
	}

	log.Printf("keyexchange: no DH parameters found, generating a %d-bit safe prime", m.primeBits)
	params, err = generateParams(m.primeBits)
	if err != nil {
		return err
	}
	log.Printf("keyexchange: finished generating DH parameters")

	return m.repo.Set(ctx, params)
}

// Params returns the shared domain parameters. When none are stored yet it
// generates and persists them inline before replying, so a caller never
// observes "no parameters" as a terminal condition. After a lost insert race
// the stored winner is returned.
func (m *Manager) Params(ctx context.Context) (*domain.Params, error) {
	params, err := m.repo.Get(ctx)
	if err != nil {
		return nil, err
	}
	if params != nil {
		return params, nil
	}

	if err := m.EnsureParams(ctx); err != nil {
		return nil, err
	}
	params, err = m.repo.Get(ctx)
	if err != nil {
		return nil, err
	}
	if params == nil {
		return nil, fmt.Errorf("%w: parameters missing after generation", ErrGeneration)
	}
	return params, nil
}

// generateParams produces a safe prime p = 2q+1 of the given bit length with
// generator 2. Matches the standard DH safe-prime construction; at 2048 bits
// this takes a while, which is why generation happens once and is persisted.
func generateParams(bits int) (*domain.Params, error) {
	for {
		q, err := rand.Prime(rand.Reader, bits-1)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrGeneration, err)
		}
		p := new(big.Int).Lsh(q, 1)
		p.Add(p, one)
		if p.BitLen() != bits {
			continue
		}
		if p.ProbablyPrime(20) {
			return &domain.Params{
				Prime:     p.Bytes(),
				Generator: two.Bytes(),
			}, nil
		}
	}
}

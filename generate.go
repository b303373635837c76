package optimus

import (
	"crypto/rand"
	"fmt"
	"io"
	"math/big"
)

// primeRounds is the number of Miller-Rabin rounds for candidate primes.
const primeRounds = 20

var (
	minPrime   = new(big.Int).SetUint64(1 << 30)
	primeRange = new(big.Int).SetUint64(MaxInt - 1<<30)
)

// GeneratePrime draws a random prime in [2^30, 2^31 - 1) from r.
// A nil r uses crypto/rand.Reader.
func GeneratePrime(r io.Reader) (uint64, error) {
	if r == nil {
		r = rand.Reader
	}
	for {
		n, err := rand.Int(r, primeRange)
		if err != nil {
			return 0, fmt.Errorf("optimus: draw prime candidate: %w", err)
		}
		n.Add(n, minPrime)
		n.SetBit(n, 0, 1)
		if n.Uint64() >= MaxInt {
			continue
		}
		if n.ProbablyPrime(primeRounds) {
			return n.Uint64(), nil
		}
	}
}

// Generate returns an Optimus with a random prime and random mask, both
// drawn from r. Persist its Config to decode values later.
func Generate(r io.Reader) (*Optimus, error) {
	if r == nil {
		r = rand.Reader
	}
	p, err := GeneratePrime(r)
	if err != nil {
		return nil, err
	}
	return New(Config{Prime: p, Rand: r})
}

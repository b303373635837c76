// Package optimus obfuscates non-negative integers below 2^31, such as
// database auto-increment IDs, into other integers of the same range.
//
// The mapping is a bijection built from multiplication by a prime modulo
// 2^31 followed by an XOR with a random mask, so it can be reversed with the
// prime's modular inverse and no lookup table. It hides sequence, it does
// not encrypt: anyone who learns the three parameters can invert it.
package optimus

import (
	"crypto/rand"
	"errors"
	"fmt"
	"io"
	"math/big"
)

const (
	// MaxInt is the largest value Encode and Decode accept and produce.
	MaxInt uint64 = 1<<31 - 1

	// MinRandom is the lower bound of a randomly drawn XOR mask.
	MinRandom uint64 = 1 << 20
)

var (
	// ErrInvalidPrime is returned when the prime is outside [2, MaxInt) or even (other than 2).
	ErrInvalidPrime = errors.New("optimus: invalid prime")
	// ErrInvalidRandom is returned when a supplied random mask is not below 2^31.
	ErrInvalidRandom = errors.New("optimus: invalid random mask")
	// ErrNoModularInverse is returned when the prime has no inverse modulo 2^31.
	ErrNoModularInverse = errors.New("optimus: no modular inverse")
	// ErrInverseMismatch is returned by New when Config.VerifyInverse is set
	// and the supplied ModInverse is not the inverse of Prime.
	ErrInverseMismatch = errors.New("optimus: mod inverse does not match prime")
)

// Config holds the parameters of an Optimus.
//
// Prime is required. ModInverse and Random are optional: nil means "derive
// it", any non-nil value (zero included) is used as given. A supplied
// ModInverse is trusted unless VerifyInverse is set, so that precomputed
// parameters can be loaded without recomputation.
type Config struct {
	Prime      uint64
	ModInverse *uint64
	Random     *uint64

	// Rand is the source used to draw Random when it is nil.
	// Defaults to crypto/rand.Reader.
	Rand io.Reader

	// VerifyInverse checks a supplied ModInverse against Prime.
	VerifyInverse bool
}

// Uint64 returns a pointer to v, for the optional Config fields.
func Uint64(v uint64) *uint64 {
	return &v
}

// Optimus encodes and decodes integers in [0, 2^31).
// It is immutable and safe for concurrent use.
type Optimus struct {
	prime      uint64
	modInverse uint64
	random     uint64
}

// New validates cfg and returns an Optimus.
func New(cfg Config) (*Optimus, error) {
	p := cfg.Prime
	if p < 2 || p >= MaxInt || (p != 2 && p&1 != 1) {
		return nil, fmt.Errorf("%w: %d", ErrInvalidPrime, p)
	}
	if cfg.Random != nil && *cfg.Random > MaxInt {
		return nil, fmt.Errorf("%w: %d", ErrInvalidRandom, *cfg.Random)
	}

	var inv uint64
	if cfg.ModInverse == nil {
		var ok bool
		if inv, ok = ModInverse(p); !ok {
			return nil, fmt.Errorf("%w: %d", ErrNoModularInverse, p)
		}
	} else {
		inv = *cfg.ModInverse
		if cfg.VerifyInverse && (p*inv)&MaxInt != 1 {
			return nil, fmt.Errorf("%w: %d * %d", ErrInverseMismatch, p, inv)
		}
	}

	var random uint64
	if cfg.Random == nil {
		r := cfg.Rand
		if r == nil {
			r = rand.Reader
		}
		var err error
		if random, err = randomMask(r); err != nil {
			return nil, err
		}
	} else {
		random = *cfg.Random
	}

	return &Optimus{prime: p, modInverse: inv, random: random}, nil
}

// NewOptimus is New with positional parameters. A zero modInverse or random
// is derived rather than used; build a Config to supply an explicit zero mask.
func NewOptimus(prime, modInverse, random uint64) (*Optimus, error) {
	cfg := Config{Prime: prime}
	if modInverse != 0 {
		cfg.ModInverse = &modInverse
	}
	if random != 0 {
		cfg.Random = &random
	}
	return New(cfg)
}

// Must panics if err is not nil.
func Must(o *Optimus, err error) *Optimus {
	if err != nil {
		panic(err)
	}
	return o
}

// randomMask draws uniformly from [MinRandom, 2^31).
func randomMask(r io.Reader) (uint64, error) {
	n, err := rand.Int(r, new(big.Int).SetUint64(MaxInt+1-MinRandom))
	if err != nil {
		return 0, fmt.Errorf("optimus: draw random mask: %w", err)
	}
	return n.Uint64() + MinRandom, nil
}

// Encode obfuscates n. n must be in [0, 2^31); larger values wrap.
func (o *Optimus) Encode(n uint64) uint64 {
	return ((n * o.prime) & MaxInt) ^ o.random
}

// Decode reverses Encode.
func (o *Optimus) Decode(n uint64) uint64 {
	return ((n ^ o.random) * o.modInverse) & MaxInt
}

// Prime returns the multiplier. Persist it with ModInverse and Random to
// decode previously encoded values in another process.
func (o *Optimus) Prime() uint64 { return o.prime }

// ModInverse returns the inverse of Prime modulo 2^31 used by Decode.
func (o *Optimus) ModInverse() uint64 { return o.modInverse }

// Random returns the XOR mask, which is drawn at construction unless supplied.
func (o *Optimus) Random() uint64 { return o.random }

// Config returns the parameters that rebuild an identical Optimus with New.
func (o *Optimus) Config() Config {
	return Config{Prime: o.prime, ModInverse: Uint64(o.modInverse), Random: Uint64(o.random)}
}

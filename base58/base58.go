// Package base58 encodes uint64 values with the Bitcoin alphabet, which
// leaves out 0, O, I and l so encoded IDs can be read aloud and retyped.
package base58

import (
	"errors"
	"math"
)

const alphabet = "123456789ABCDEFGHJKLMNPQRSTUVWXYZabcdefghijkmnopqrstuvwxyz"

// MaxLen is the length of the longest encoding (math.MaxUint64).
const MaxLen = 11

var decode [256]int8

func init() {
	for i := range decode {
		decode[i] = -1
	}
	for i := 0; i < len(alphabet); i++ {
		decode[alphabet[i]] = int8(i)
	}
}

var (
	// ErrInvalid is returned when decoding a string with characters outside the alphabet.
	ErrInvalid = errors.New("optimus: invalid base58 character")
	// ErrOverflow is returned when the decoded value does not fit in a uint64.
	ErrOverflow = errors.New("optimus: base58 value overflows uint64")
)

// Encode returns the base58 encoding of n.
func Encode(n uint64) string {
	return string(Append(make([]byte, 0, MaxLen), n))
}

// Append appends the base58 encoding of n to dst.
func Append(dst []byte, n uint64) []byte {
	var buf [MaxLen]byte
	i := len(buf)
	for {
		i--
		buf[i] = alphabet[n%58]
		n /= 58
		if n == 0 {
			break
		}
	}
	return append(dst, buf[i:]...)
}

// Decode parses a base58 string.
func Decode(s string) (uint64, error) {
	var n uint64
	for i := 0; i < len(s); i++ {
		v := decode[s[i]]
		if v < 0 {
			return 0, ErrInvalid
		}
		if n > (math.MaxUint64-uint64(v))/58 {
			return 0, ErrOverflow
		}
		n = n*58 + uint64(v)
	}
	return n, nil
}

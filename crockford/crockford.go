// Package crockford encodes uint64 values in Crockford base32.
// The alphabet leaves out I, L, O and U; decoding is case-insensitive,
// reads I and L as 1 and O as 0, and skips hyphens.
package crockford

import "errors"

const alphabet = "0123456789abcdefghjkmnpqrstvwxyz"

// MaxLen is the length of the longest encoding (math.MaxUint64).
const MaxLen = 13

var decode [256]int8

func init() {
	for i := range decode {
		decode[i] = -1
	}
	for i := 0; i < len(alphabet); i++ {
		c := alphabet[i]
		decode[c] = int8(i)
		if c >= 'a' && c <= 'z' {
			decode[c-'a'+'A'] = int8(i)
		}
	}
	for _, c := range "IiLl" {
		decode[c] = 1
	}
	decode['O'] = 0
	decode['o'] = 0
}

var (
	// ErrInvalid is returned when decoding a string with invalid characters.
	ErrInvalid = errors.New("optimus: invalid crockford character")
	// ErrOverflow is returned when the decoded value does not fit in a uint64.
	ErrOverflow = errors.New("optimus: crockford value overflows uint64")
	// ErrEmpty is returned when the string holds no digits, hyphens aside.
	ErrEmpty = errors.New("optimus: empty crockford string")
)

// Encode returns the Crockford base32 encoding of n.
func Encode(n uint64) string {
	return string(Append(make([]byte, 0, MaxLen), n))
}

// Append appends the Crockford base32 encoding of n to dst.
func Append(dst []byte, n uint64) []byte {
	var buf [MaxLen]byte
	i := len(buf)
	for {
		i--
		buf[i] = alphabet[n&0x1f]
		n >>= 5
		if n == 0 {
			break
		}
	}
	return append(dst, buf[i:]...)
}

// Decode parses a Crockford base32 string.
func Decode(s string) (uint64, error) {
	var (
		n      uint64
		digits int
	)
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c == '-' {
			continue
		}
		v := decode[c]
		if v < 0 {
			return 0, ErrInvalid
		}
		if n>>59 != 0 {
			return 0, ErrOverflow
		}
		n = n<<5 | uint64(v)
		digits++
	}
	if digits == 0 {
		return 0, ErrEmpty
	}
	return n, nil
}

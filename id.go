package optimus

import (
	"database/sql"
	"database/sql/driver"
	"encoding"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/paraglidehq/optimus/base58"
	"github.com/paraglidehq/optimus/crockford"
)

// Compile-time interface checks for ID
var (
	_ fmt.Stringer             = ID(0)
	_ driver.Valuer            = ID(0)
	_ sql.Scanner              = (*ID)(nil)
	_ encoding.TextMarshaler   = ID(0)
	_ encoding.TextUnmarshaler = (*ID)(nil)
	_ json.Marshaler           = ID(0)
	_ json.Unmarshaler         = (*ID)(nil)
)

// Format names a textual encoding of an obfuscated ID.
type Format string

const (
	FormatBase58    Format = "base58"
	FormatCrockford Format = "crockford"
	FormatDecimal   Format = "decimal"
	FormatHex       Format = "hex"
)

// Valid reports whether f is one of the known formats.
func (f Format) Valid() bool {
	switch f {
	case FormatBase58, FormatCrockford, FormatDecimal, FormatHex:
		return true
	}
	return false
}

// DefaultFormat is used by String and Parse.
var DefaultFormat = FormatBase58

var (
	// ErrOutOfRange is returned for values that are not in [0, 2^31).
	ErrOutOfRange = errors.New("optimus: value out of range")
	// ErrUnknownFormat is returned by ParseFormat for a Format that is not Valid.
	ErrUnknownFormat = errors.New("optimus: unknown format")
	errEmpty         = errors.New("optimus: empty string")
)

// ID is a raw database identifier in [0, 2^31) whose external
// representations are obfuscated by DefaultOptimus. Use FromInt64 to
// convert untrusted integers; larger values wrap when obfuscated.
type ID uint64

var Nil ID = 0

// FromInt64 returns n as an ID, rejecting values outside [0, 2^31).
func FromInt64(n int64) (ID, error) {
	if n < 0 || uint64(n) > MaxInt {
		return Nil, fmt.Errorf("%w: %d", ErrOutOfRange, n)
	}
	return ID(n), nil
}

func (id ID) Uint64() uint64 {
	return uint64(id)
}

func (id ID) Int64() int64 {
	return int64(id)
}

func (id ID) IsNil() bool {
	return id == Nil
}

func (id ID) String() string {
	return id.Format(DefaultFormat)
}

// Format returns the obfuscated ID in format f.
func (id ID) Format(f Format) string {
	return string(id.AppendFormat(nil, f))
}

// AppendFormat appends the obfuscated ID in format f to b.
// An unknown format is written as base58; check Valid first when f is user input.
func (id ID) AppendFormat(b []byte, f Format) []byte {
	n := obfuscate(id)
	switch f {
	case FormatDecimal:
		return strconv.AppendUint(b, n, 10)
	case FormatHex:
		return strconv.AppendUint(b, n, 16)
	case FormatCrockford:
		return crockford.Append(b, n)
	default:
		return base58.Append(b, n)
	}
}

// Parse parses a string into an ID using DefaultFormat.
func Parse(s string) (ID, error) {
	return ParseFormat(s, DefaultFormat)
}

// ParseFormat parses an obfuscated ID in format f.
func ParseFormat(s string, f Format) (ID, error) {
	if !f.Valid() {
		return Nil, fmt.Errorf("%w: %q", ErrUnknownFormat, f)
	}
	if len(s) == 0 {
		return Nil, errEmpty
	}
	var (
		n   uint64
		err error
	)
	switch f {
	case FormatDecimal:
		n, err = strconv.ParseUint(s, 10, 64)
	case FormatHex:
		n, err = strconv.ParseUint(s, 16, 64)
	case FormatCrockford:
		n, err = crockford.Decode(s)
		if errors.Is(err, crockford.ErrEmpty) {
			return Nil, errEmpty
		}
	default:
		n, err = base58.Decode(s)
	}
	if err != nil {
		return Nil, fmt.Errorf("optimus: parse %s %q: %w", f, s, err)
	}
	return deobfuscate(n)
}

// MustParse is like Parse but panics on error.
func MustParse(s string) ID {
	id, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return id
}

// ParseOrNil returns Nil when s does not parse.
func ParseOrNil(s string) ID {
	id, err := Parse(s)
	if err != nil {
		return Nil
	}
	return id
}

// MarshalText implements encoding.TextMarshaler
func (id ID) MarshalText() ([]byte, error) {
	return id.AppendFormat(nil, DefaultFormat), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (id *ID) UnmarshalText(b []byte) error {
	parsed, err := Parse(string(b))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

// MarshalJSON implements json.Marshaler
func (id ID) MarshalJSON() ([]byte, error) {
	b := append(make([]byte, 0, 16), '"')
	b = id.AppendFormat(b, DefaultFormat)
	return append(b, '"'), nil
}

// UnmarshalJSON implements json.Unmarshaler.
// A bare JSON number is taken as a raw, unobfuscated ID.
func (id *ID) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*id = Nil
		return nil
	}
	if len(b) > 0 && b[0] != '"' {
		n, err := strconv.ParseInt(string(b), 10, 64)
		if err != nil {
			return errors.New("optimus: invalid JSON value")
		}
		parsed, err := FromInt64(n)
		if err != nil {
			return err
		}
		*id = parsed
		return nil
	}
	if len(b) < 2 || b[len(b)-1] != '"' {
		return errors.New("optimus: invalid JSON string")
	}
	return id.UnmarshalText(b[1 : len(b)-1])
}

// Value implements driver.Valuer. Databases store the raw ID.
func (id ID) Value() (driver.Value, error) {
	return int64(id), nil
}

// Scan implements sql.Scanner. Integers are raw IDs, and so are bytes made
// only of decimal digits, which is how text-protocol drivers such as MySQL's
// deliver integer columns. Other bytes and all strings are parsed as
// obfuscated text in DefaultFormat.
func (id *ID) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*id = Nil
		return nil
	case ID:
		*id = v
		return nil
	case int64:
		parsed, err := FromInt64(v)
		if err != nil {
			return err
		}
		*id = parsed
		return nil
	case []byte:
		if isDecimal(v) {
			n, err := strconv.ParseInt(string(v), 10, 64)
			if err != nil {
				return fmt.Errorf("%w: %s", ErrOutOfRange, v)
			}
			return id.Scan(n)
		}
		return id.UnmarshalText(v)
	case string:
		return id.UnmarshalText([]byte(v))
	default:
		return fmt.Errorf("optimus: cannot scan %T", src)
	}
}

func isDecimal(b []byte) bool {
	if len(b) == 0 {
		return false
	}
	for _, c := range b {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

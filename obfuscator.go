package optimus

// DefaultOptimus, when set, obfuscates all external representations of an
// ID (String, Format, JSON, text) while keeping SQL and integer values raw.
// Set this once at startup before formatting or parsing IDs.
var DefaultOptimus *Optimus

// SetDefault builds DefaultOptimus from cfg.
// Call once at startup to enable obfuscation.
func SetDefault(cfg Config) error {
	o, err := New(cfg)
	if err != nil {
		return err
	}
	DefaultOptimus = o
	return nil
}

// obfuscate applies DefaultOptimus if set.
func obfuscate(id ID) uint64 {
	if DefaultOptimus != nil {
		return DefaultOptimus.Encode(uint64(id))
	}
	return uint64(id)
}

// deobfuscate reverses obfuscation if DefaultOptimus is set.
// Values outside the encoded range cannot come from Encode.
func deobfuscate(n uint64) (ID, error) {
	if DefaultOptimus == nil {
		return ID(n), nil
	}
	if n > MaxInt {
		return Nil, ErrOutOfRange
	}
	return ID(DefaultOptimus.Decode(n)), nil
}

package optimus

import (
	"database/sql"
	"database/sql/driver"
	"encoding/json"
)

// NullID is an ID that may be NULL in the database or null in JSON.
type NullID struct {
	ID    ID
	Valid bool
}

var (
	_ driver.Valuer    = NullID{}
	_ sql.Scanner      = (*NullID)(nil)
	_ json.Marshaler   = NullID{}
	_ json.Unmarshaler = (*NullID)(nil)
)

// NewNullID returns a valid NullID holding id.
func NewNullID(id ID) NullID {
	return NullID{ID: id, Valid: true}
}

// Value implements driver.Valuer.
func (n NullID) Value() (driver.Value, error) {
	if n.Valid {
		return n.ID.Value()
	}
	return nil, nil
}

// Scan implements sql.Scanner.
func (n *NullID) Scan(src interface{}) error {
	*n = NullID{}
	if src == nil {
		return nil
	}
	if err := n.ID.Scan(src); err != nil {
		return err
	}
	n.Valid = true
	return nil
}

// MarshalJSON writes null for an invalid NullID and the obfuscated ID otherwise.
func (n NullID) MarshalJSON() ([]byte, error) {
	if n.Valid {
		return n.ID.MarshalJSON()
	}
	return []byte("null"), nil
}

// UnmarshalJSON implements json.Unmarshaler.
func (n *NullID) UnmarshalJSON(b []byte) error {
	*n = NullID{}
	if string(b) == "null" {
		return nil
	}
	if err := n.ID.UnmarshalJSON(b); err != nil {
		return err
	}
	n.Valid = true
	return nil
}

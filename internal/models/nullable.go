package models

import (
	"encoding/json"
	"time"
)

// NullableString is a string field that distinguishes the three JSON states
// a plain *string cannot:
//   - absent:         Set=false, Valid=false
//   - present, null:  Set=true,  Valid=false
//   - present, value: Set=true,  Valid=true
//
// Combined with the `omitzero` tag option, an unset NullableString is omitted
// from request bodies entirely, while a null one is serialized as an explicit
// null so the backend clears the column.
type NullableString struct {
	Value string
	Valid bool // Value is meaningful
	Set   bool // field appeared in JSON / was assigned
}

// String returns a set, non-null NullableString.
func String(v string) NullableString {
	return NullableString{Value: v, Valid: true, Set: true}
}

// NullString returns a set NullableString carrying an explicit null.
func NullString() NullableString {
	return NullableString{Set: true}
}

// IsZero reports whether the field was never set, letting `omitzero` drop it.
func (ns NullableString) IsZero() bool {
	return !ns.Set
}

func (ns *NullableString) UnmarshalJSON(data []byte) error {
	ns.Set = true
	if string(data) == "null" {
		ns.Valid = false
		ns.Value = ""
		return nil
	}
	if err := json.Unmarshal(data, &ns.Value); err != nil {
		return err
	}
	ns.Valid = true
	return nil
}

func (ns NullableString) MarshalJSON() ([]byte, error) {
	if !ns.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(ns.Value)
}

// Ptr converts to *string: nil when null or unset.
func (ns NullableString) Ptr() *string {
	if !ns.Valid {
		return nil
	}
	v := ns.Value
	return &v
}

// NullableTime is the time.Time counterpart of NullableString. It is used
// for clearable timestamps such as reminder_at and completed_at, where
// "absent" means leave alone and "null" means clear.
type NullableTime struct {
	Value time.Time
	Valid bool
	Set   bool
}

// Time returns a set, non-null NullableTime.
func Time(v time.Time) NullableTime {
	return NullableTime{Value: v, Valid: true, Set: true}
}

// NullTime returns a set NullableTime carrying an explicit null.
func NullTime() NullableTime {
	return NullableTime{Set: true}
}

// IsZero reports whether the field was never set, letting `omitzero` drop it.
func (nt NullableTime) IsZero() bool {
	return !nt.Set
}

func (nt *NullableTime) UnmarshalJSON(data []byte) error {
	nt.Set = true
	if string(data) == "null" {
		nt.Valid = false
		nt.Value = time.Time{}
		return nil
	}
	if err := json.Unmarshal(data, &nt.Value); err != nil {
		return err
	}
	nt.Valid = true
	return nil
}

func (nt NullableTime) MarshalJSON() ([]byte, error) {
	if !nt.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(nt.Value)
}

// Ptr converts to *time.Time: nil when null or unset.
func (nt NullableTime) Ptr() *time.Time {
	if !nt.Valid {
		return nil
	}
	v := nt.Value
	return &v
}

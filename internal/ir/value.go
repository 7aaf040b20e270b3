package ir

import (
	"encoding/json"
	"fmt"
)

// Value is a sealed interface over the constant value types a program may
// declare. Only IntValue, StringValue, BoolValue, and CoordValue implement
// it. There is deliberately no float variant: all core arithmetic is
// integer-only so that results reproduce bit-for-bit across platforms.
type Value interface {
	value() // sealed
}

// IntValue is a 64-bit integer constant.
type IntValue int64

func (IntValue) value() {}

// StringValue is a string constant.
type StringValue string

func (StringValue) value() {}

// BoolValue is a boolean constant.
type BoolValue bool

func (BoolValue) value() {}

// CoordValue is a coordinate constant.
type CoordValue Coord

func (CoordValue) value() {}

// FieldType enumerates the types a process or event field may carry.
type FieldType string

const (
	TypeInt    FieldType = "int"
	TypeString FieldType = "string"
	TypeBool   FieldType = "bool"
	TypeCoord  FieldType = "coord"
)

// ParseFieldType converts a type name into a FieldType.
func ParseFieldType(s string) (FieldType, error) {
	switch FieldType(s) {
	case TypeInt, TypeString, TypeBool, TypeCoord:
		return FieldType(s), nil
	default:
		return "", fmt.Errorf("unsupported field type %q", s)
	}
}

// ZeroValue returns the default value for a field type.
func ZeroValue(t FieldType) Value {
	switch t {
	case TypeString:
		return StringValue("")
	case TypeBool:
		return BoolValue(false)
	case TypeCoord:
		return CoordValue(Coord{})
	default:
		return IntValue(0)
	}
}

// MarshalJSON implements json.Marshaler for IntValue.
func (v IntValue) MarshalJSON() ([]byte, error) {
	return json.Marshal(int64(v))
}

// MarshalJSON implements json.Marshaler for StringValue.
func (v StringValue) MarshalJSON() ([]byte, error) {
	return json.Marshal(string(v))
}

// MarshalJSON implements json.Marshaler for BoolValue.
func (v BoolValue) MarshalJSON() ([]byte, error) {
	return json.Marshal(bool(v))
}

// MarshalJSON implements json.Marshaler for CoordValue.
func (v CoordValue) MarshalJSON() ([]byte, error) {
	return json.Marshal(Coord(v))
}

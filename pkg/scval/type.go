package scval

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Type is the tag of a Value. The tag fully determines the payload shape.
type Type int

// UnknownType is the sentinel produced by failed type parsing, it never
// appears in a Value.
const UnknownType Type = -1

// A list of supported Value types. VoidType is deliberately the zero
// tag, making the zero Value void. The hint-only entries (OptionType and
// below) never appear in an encoded Value, they're only accepted as type
// hints by MakeWithType and DecodeWithType.
const (
	VoidType Type = iota
	BoolType
	U32Type
	I32Type
	U64Type
	I64Type
	U128Type
	I128Type
	U256Type
	I256Type
	F32Type
	F64Type
	BytesType
	StringType
	SymbolType
	AddressType
	VecType
	MapType

	// Hint-only types.
	OptionType
	ResultType
	SetType
	TupleType
)

// typeNames is the canonical wire spelling of every type, used by both
// String and ParseType.
var typeNames = map[Type]string{
	VoidType:    "void",
	BoolType:    "bool",
	U32Type:     "u32",
	I32Type:     "i32",
	U64Type:     "u64",
	I64Type:     "i64",
	U128Type:    "u128",
	I128Type:    "i128",
	U256Type:    "u256",
	I256Type:    "i256",
	F32Type:     "f32",
	F64Type:     "f64",
	BytesType:   "bytes",
	StringType:  "string",
	SymbolType:  "symbol",
	AddressType: "address",
	VecType:     "vec",
	MapType:     "map",
	OptionType:  "option",
	ResultType:  "result",
	SetType:     "set",
	TupleType:   "tuple",
}

// String implements the fmt.Stringer interface.
func (t Type) String() string {
	if s, ok := typeNames[t]; ok {
		return s
	}
	return ""
}

// ParseType is a case-insensitive string to Type converter. Anything
// that's not a known type name produces an error.
func ParseType(s string) (Type, error) {
	ls := strings.ToLower(s)
	for t, name := range typeNames {
		if name == ls {
			return t, nil
		}
	}
	return UnknownType, fmt.Errorf("%w: %q", ErrUnknownTag, s)
}

// HintOnly tells whether the type is only usable as an encoding hint and
// can't be the tag of a wire Value.
func (t Type) HintOnly() bool {
	return t >= OptionType
}

// MarshalJSON implements the json.Marshaler interface.
func (t Type) MarshalJSON() ([]byte, error) {
	s := t.String()
	if s == "" {
		return nil, fmt.Errorf("%w: %d", ErrUnknownTag, int(t))
	}
	return json.Marshal(s)
}

// UnmarshalJSON implements the json.Unmarshaler interface.
func (t *Type) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	p, err := ParseType(s)
	if err != nil {
		return err
	}
	*t = p
	return nil
}

// MarshalYAML implements the yaml.Marshaler interface.
func (t Type) MarshalYAML() (interface{}, error) {
	return t.String(), nil
}

// UnmarshalYAML implements the yaml.Unmarshaler interface.
func (t *Type) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var name string
	if err := unmarshal(&name); err != nil {
		return err
	}
	p, err := ParseType(name)
	if err != nil {
		return err
	}
	*t = p
	return nil
}

/*
Package scval implements the tagged-union value model exchanged with the
Galaxy contract VM and a bidirectional codec between it and dynamic Go
values. Encoding is strict (bad input shapes produce errors), generic
decoding is total for known tags, and hinted decoding is deliberately
quiet: a tag mismatch yields nil instead of an error, which is what
callers working with optional or union-shaped contract returns rely on.
*/
package scval

import (
	"bytes"
	"errors"
	"fmt"
	"math/big"
)

var (
	// ErrUnsupportedType is returned when a dynamic value can't be mapped
	// to any wire type.
	ErrUnsupportedType = errors.New("unsupported value type")
	// ErrInvalidShape is returned when an explicitly hinted encoding gets
	// an input of the wrong shape (like a vec hint with a non-slice value).
	ErrInvalidShape = errors.New("invalid value shape for type")
	// ErrArgCountMismatch is returned by MakeArgs when the hints list
	// length differs from the values list length.
	ErrArgCountMismatch = errors.New("argument/type count mismatch")
	// ErrUnknownTag is returned when decoding a Value with an unrecognized
	// type tag.
	ErrUnknownTag = errors.New("unknown type tag")
)

// Value is a single tagged wire value. The zero Value is void. Value trees
// are owned by the call that produced them and are never shared.
type Value struct {
	typ   Type
	value interface{}
}

// Pair is a single key-value entry of a map Value. Both the key and the
// value are full Values, keys are not restricted to primitives.
type Pair struct {
	Key   Value
	Value Value
}

// Void returns the void Value.
func Void() Value {
	return Value{typ: VoidType}
}

// NewBool returns a bool Value.
func NewBool(v bool) Value {
	return Value{typ: BoolType, value: v}
}

// NewU32 returns a u32 Value.
func NewU32(v uint32) Value {
	return Value{typ: U32Type, value: v}
}

// NewI32 returns an i32 Value.
func NewI32(v int32) Value {
	return Value{typ: I32Type, value: v}
}

// NewU64 returns a u64 Value.
func NewU64(v uint64) Value {
	return Value{typ: U64Type, value: v}
}

// NewI64 returns an i64 Value.
func NewI64(v int64) Value {
	return Value{typ: I64Type, value: v}
}

// NewBigInt returns a big integer Value of the given width type (u128,
// i128, u256 or i256). The value is copied.
func NewBigInt(t Type, v *big.Int) Value {
	return Value{typ: t, value: new(big.Int).Set(v)}
}

// NewF32 returns an f32 Value.
func NewF32(v float32) Value {
	return Value{typ: F32Type, value: v}
}

// NewF64 returns an f64 Value.
func NewF64(v float64) Value {
	return Value{typ: F64Type, value: v}
}

// NewBytes returns a bytes Value. The slice is used as is without copying.
func NewBytes(v []byte) Value {
	return Value{typ: BytesType, value: v}
}

// NewString returns a string Value.
func NewString(v string) Value {
	return Value{typ: StringType, value: v}
}

// NewSymbol returns a symbol Value.
func NewSymbol(v string) Value {
	return Value{typ: SymbolType, value: v}
}

// NewAddress returns an address Value holding a strkey string.
func NewAddress(v string) Value {
	return Value{typ: AddressType, value: v}
}

// NewVec returns a vec Value. The slice is used as is without copying.
func NewVec(v []Value) Value {
	return Value{typ: VecType, value: v}
}

// NewMap returns a map Value. The slice is used as is without copying,
// entry order is preserved on the wire.
func NewMap(v []Pair) Value {
	return Value{typ: MapType, value: v}
}

// Type returns the tag of the Value.
func (v Value) Type() Type {
	return v.typ
}

// IsVoid tells whether the Value is void.
func (v Value) IsVoid() bool {
	return v.typ == VoidType
}

// TryBool converts the Value to a boolean.
func (v Value) TryBool() (bool, error) {
	b, ok := v.value.(bool)
	if !ok {
		return false, fmt.Errorf("%w: %s is not a bool", ErrInvalidShape, v.typ)
	}
	return b, nil
}

// TryInteger converts any integer-tagged Value to a big.Int.
func (v Value) TryInteger() (*big.Int, error) {
	switch val := v.value.(type) {
	case uint32:
		return big.NewInt(int64(val)), nil
	case int32:
		return big.NewInt(int64(val)), nil
	case uint64:
		return new(big.Int).SetUint64(val), nil
	case int64:
		return big.NewInt(val), nil
	case *big.Int:
		return new(big.Int).Set(val), nil
	default:
		return nil, fmt.Errorf("%w: %s is not an integer", ErrInvalidShape, v.typ)
	}
}

// TryBytes converts the Value to a byte slice. The underlying slice is
// returned as is without copying.
func (v Value) TryBytes() ([]byte, error) {
	b, ok := v.value.([]byte)
	if !ok {
		return nil, fmt.Errorf("%w: %s is not bytes", ErrInvalidShape, v.typ)
	}
	return b, nil
}

// TryString converts a string, symbol or address Value to a string.
func (v Value) TryString() (string, error) {
	s, ok := v.value.(string)
	if !ok {
		return "", fmt.Errorf("%w: %s is not a string", ErrInvalidShape, v.typ)
	}
	return s, nil
}

// TryAddress returns the strkey string of an address Value.
func (v Value) TryAddress() (string, error) {
	if v.typ != AddressType {
		return "", fmt.Errorf("%w: %s is not an address", ErrInvalidShape, v.typ)
	}
	return v.value.(string), nil
}

// Vec returns the elements of a vec Value or nil if the Value is not a
// vec.
func (v Value) Vec() []Value {
	if v.typ != VecType {
		return nil
	}
	return v.value.([]Value)
}

// Map returns the entries of a map Value (in wire order) or nil if the
// Value is not a map.
func (v Value) Map() []Pair {
	if v.typ != MapType {
		return nil
	}
	return v.value.([]Pair)
}

// Equals checks two Values for deep equality, including the tag.
func (v Value) Equals(other Value) bool {
	if v.typ != other.typ {
		return false
	}
	switch val := v.value.(type) {
	case *big.Int:
		o, ok := other.value.(*big.Int)
		return ok && val.Cmp(o) == 0
	case []byte:
		o, ok := other.value.([]byte)
		return ok && bytes.Equal(val, o)
	case []Value:
		o, ok := other.value.([]Value)
		if !ok || len(val) != len(o) {
			return false
		}
		for i := range val {
			if !val[i].Equals(o[i]) {
				return false
			}
		}
		return true
	case []Pair:
		o, ok := other.value.([]Pair)
		if !ok || len(val) != len(o) {
			return false
		}
		for i := range val {
			if !val[i].Key.Equals(o[i].Key) || !val[i].Value.Equals(o[i].Value) {
				return false
			}
		}
		return true
	default:
		return v.value == other.value
	}
}

// String implements the fmt.Stringer interface.
func (v Value) String() string {
	switch v.typ {
	case VoidType:
		return "void"
	case VecType:
		return fmt.Sprintf("vec(%d)", len(v.value.([]Value)))
	case MapType:
		return fmt.Sprintf("map(%d)", len(v.value.([]Pair)))
	default:
		return fmt.Sprintf("%s(%v)", v.typ, v.value)
	}
}

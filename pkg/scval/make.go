package scval

import (
	"fmt"
	"math"
	"math/big"

	"github.com/holiman/uint256"
	"github.com/salazarsebas/Galaxy-DevKit/pkg/address"
)

// Make tries to build an appropriate Value from the provided dynamic
// value without any type hint. The mapping is a closed probe over the
// supported Go kinds: nil becomes void, integers that fit 32 bits become
// i32 and wider ones i64 or i128 (via the big integer path), 56-character
// strings with a valid strkey sigil and checksum become addresses with a
// fallback to plain strings, slices and string-keyed maps recurse.
// Anything else is a caller bug reported as ErrUnsupportedType.
func Make(v interface{}) (Value, error) {
	switch val := v.(type) {
	case nil:
		return Void(), nil
	case Value:
		return val, nil
	case bool:
		return NewBool(val), nil
	case int:
		return makeInt(int64(val)), nil
	case int8:
		return makeInt(int64(val)), nil
	case int16:
		return makeInt(int64(val)), nil
	case int32:
		return NewI32(val), nil
	case int64:
		return makeInt(val), nil
	case uint:
		return makeUint(uint64(val)), nil
	case uint8:
		return makeUint(uint64(val)), nil
	case uint16:
		return makeUint(uint64(val)), nil
	case uint32:
		return NewU32(val), nil
	case uint64:
		return makeUint(val), nil
	case *big.Int:
		return makeBig(val)
	case float32:
		return NewF32(val), nil
	case float64:
		return NewF64(val), nil
	case string:
		if len(val) == address.EncodedLength && (val[0] == 'C' || val[0] == 'G') && address.IsValid(val) {
			return NewAddress(val), nil
		}
		return NewString(val), nil
	case []byte:
		return NewBytes(val), nil
	case []Value:
		return NewVec(val), nil
	case []interface{}:
		return makeVec(val)
	case []string:
		elems := make([]interface{}, len(val))
		for i := range val {
			elems[i] = val[i]
		}
		return makeVec(elems)
	case []int:
		elems := make([]interface{}, len(val))
		for i := range val {
			elems[i] = val[i]
		}
		return makeVec(elems)
	case map[string]interface{}:
		pairs := make([]Pair, 0, len(val))
		for _, k := range sortedKeys(val) {
			ev, err := Make(val[k])
			if err != nil {
				return Value{}, err
			}
			pairs = append(pairs, Pair{Key: NewString(k), Value: ev})
		}
		return NewMap(pairs), nil
	case []Pair:
		return NewMap(val), nil
	default:
		return Value{}, fmt.Errorf("%w: %T", ErrUnsupportedType, v)
	}
}

// makeInt picks the narrowest signed wire type for a native integer.
func makeInt(v int64) Value {
	if v >= math.MinInt32 && v <= math.MaxInt32 {
		return NewI32(int32(v))
	}
	return NewI64(v)
}

// makeUint picks the narrowest unsigned wire type for a native integer.
func makeUint(v uint64) Value {
	if v <= math.MaxUint32 {
		return NewU32(uint32(v))
	}
	return NewU64(v)
}

// makeBig maps an arbitrary-precision integer to the narrowest wide wire
// type that holds it.
func makeBig(v *big.Int) (Value, error) {
	if v.IsInt64() {
		return makeInt(v.Int64()), nil
	}
	if v.IsUint64() {
		return NewU64(v.Uint64()), nil
	}
	if fitsSigned(v, 128) {
		return NewBigInt(I128Type, v), nil
	}
	if fitsSigned(v, 256) {
		return NewBigInt(I256Type, v), nil
	}
	return Value{}, fmt.Errorf("%w: integer exceeds 256 bits", ErrUnsupportedType)
}

func makeVec(elems []interface{}) (Value, error) {
	res := make([]Value, len(elems))
	for i := range elems {
		ev, err := Make(elems[i])
		if err != nil {
			return Value{}, fmt.Errorf("element %d: %w", i, err)
		}
		res[i] = ev
	}
	return NewVec(res), nil
}

// MakeWithType builds a Value of exactly the hinted type, performing a
// direct non-heuristic conversion. An input that doesn't match the
// required shape produces ErrInvalidShape. Option hints map nil to void
// and anything else through Make, vec/tuple/set hints require a slice,
// map hints require a string-keyed map or a Pair slice.
func MakeWithType(v interface{}, t Type) (Value, error) {
	switch t {
	case VoidType:
		if v != nil {
			return Value{}, fmt.Errorf("%w: void accepts only nil", ErrInvalidShape)
		}
		return Void(), nil
	case OptionType:
		if v == nil {
			return Void(), nil
		}
		return Make(v)
	case BoolType:
		b, ok := v.(bool)
		if !ok {
			return Value{}, shapeErr(t, v)
		}
		return NewBool(b), nil
	case U32Type, I32Type, U64Type, I64Type, U128Type, I128Type, U256Type, I256Type:
		return makeSizedInt(v, t)
	case F32Type:
		switch f := v.(type) {
		case float32:
			return NewF32(f), nil
		case float64:
			return NewF32(float32(f)), nil
		default:
			return Value{}, shapeErr(t, v)
		}
	case F64Type:
		switch f := v.(type) {
		case float64:
			return NewF64(f), nil
		case float32:
			return NewF64(float64(f)), nil
		default:
			return Value{}, shapeErr(t, v)
		}
	case BytesType:
		b, ok := v.([]byte)
		if !ok {
			return Value{}, shapeErr(t, v)
		}
		return NewBytes(b), nil
	case StringType:
		s, ok := v.(string)
		if !ok {
			return Value{}, shapeErr(t, v)
		}
		return NewString(s), nil
	case SymbolType:
		s, ok := v.(string)
		if !ok {
			return Value{}, shapeErr(t, v)
		}
		return NewSymbol(s), nil
	case AddressType:
		s, ok := v.(string)
		if !ok || !address.IsValid(s) {
			return Value{}, shapeErr(t, v)
		}
		return NewAddress(s), nil
	case VecType, TupleType, SetType:
		switch elems := v.(type) {
		case []Value:
			return NewVec(elems), nil
		case []interface{}:
			return makeVec(elems)
		default:
			return Value{}, shapeErr(t, v)
		}
	case MapType:
		switch m := v.(type) {
		case []Pair:
			return NewMap(m), nil
		case map[string]interface{}:
			return Make(m)
		default:
			return Value{}, shapeErr(t, v)
		}
	case ResultType:
		// A bare result hint carries no branch information, route through
		// the heuristic path.
		return Make(v)
	default:
		return Value{}, fmt.Errorf("%w: %d", ErrUnknownTag, int(t))
	}
}

// makeSizedInt converts any native or big integer to the exact integer
// wire type requested, range-checking the target width.
func makeSizedInt(v interface{}, t Type) (Value, error) {
	b, err := toBig(v)
	if err != nil {
		return Value{}, shapeErr(t, v)
	}
	switch t {
	case U32Type:
		if b.Sign() < 0 || b.BitLen() > 32 {
			return Value{}, rangeErr(t, b)
		}
		return NewU32(uint32(b.Uint64())), nil
	case I32Type:
		if !fitsSigned(b, 32) {
			return Value{}, rangeErr(t, b)
		}
		return NewI32(int32(b.Int64())), nil
	case U64Type:
		if b.Sign() < 0 || !b.IsUint64() {
			return Value{}, rangeErr(t, b)
		}
		return NewU64(b.Uint64()), nil
	case I64Type:
		if !b.IsInt64() {
			return Value{}, rangeErr(t, b)
		}
		return NewI64(b.Int64()), nil
	case U128Type:
		if b.Sign() < 0 || b.BitLen() > 128 {
			return Value{}, rangeErr(t, b)
		}
		return NewBigInt(U128Type, b), nil
	case I128Type:
		if !fitsSigned(b, 128) {
			return Value{}, rangeErr(t, b)
		}
		return NewBigInt(I128Type, b), nil
	case U256Type:
		if _, overflow := uint256.FromBig(b); overflow || b.Sign() < 0 {
			return Value{}, rangeErr(t, b)
		}
		return NewBigInt(U256Type, b), nil
	case I256Type:
		if !fitsSigned(b, 256) {
			return Value{}, rangeErr(t, b)
		}
		return NewBigInt(I256Type, b), nil
	default:
		return Value{}, fmt.Errorf("%w: %s", ErrUnknownTag, t)
	}
}

// toBig widens any accepted integer representation to big.Int.
func toBig(v interface{}) (*big.Int, error) {
	switch n := v.(type) {
	case int:
		return big.NewInt(int64(n)), nil
	case int8:
		return big.NewInt(int64(n)), nil
	case int16:
		return big.NewInt(int64(n)), nil
	case int32:
		return big.NewInt(int64(n)), nil
	case int64:
		return big.NewInt(n), nil
	case uint:
		return new(big.Int).SetUint64(uint64(n)), nil
	case uint8:
		return big.NewInt(int64(n)), nil
	case uint16:
		return big.NewInt(int64(n)), nil
	case uint32:
		return big.NewInt(int64(n)), nil
	case uint64:
		return new(big.Int).SetUint64(n), nil
	case *big.Int:
		return new(big.Int).Set(n), nil
	default:
		return nil, fmt.Errorf("%w: %T is not an integer", ErrInvalidShape, v)
	}
}

// fitsSigned reports whether v fits a signed two's-complement integer of
// the given bit width.
func fitsSigned(v *big.Int, bits int) bool {
	if v.Sign() >= 0 {
		return v.BitLen() <= bits-1
	}
	// The most negative value -2^(bits-1) has BitLen of bits.
	neg := new(big.Int).Neg(v)
	if neg.BitLen() < bits {
		return true
	}
	return neg.BitLen() == bits && neg.TrailingZeroBits() == uint(bits-1)
}

// MakeArgs encodes an ordered argument list. The types slice may be nil
// (full auto-detection); when present its length must match the values
// length exactly, a mismatch produces ErrArgCountMismatch.
func MakeArgs(values []interface{}, types []Type) ([]Value, error) {
	if types != nil && len(types) != len(values) {
		return nil, fmt.Errorf("%w: %d values, %d types", ErrArgCountMismatch, len(values), len(types))
	}
	res := make([]Value, len(values))
	for i := range values {
		var (
			v   Value
			err error
		)
		if types != nil {
			v, err = MakeWithType(values[i], types[i])
		} else {
			v, err = Make(values[i])
		}
		if err != nil {
			return nil, fmt.Errorf("argument %d: %w", i, err)
		}
		res[i] = v
	}
	return res, nil
}

func shapeErr(t Type, v interface{}) error {
	return fmt.Errorf("%w: %T can't encode as %s", ErrInvalidShape, v, t)
}

func rangeErr(t Type, b *big.Int) error {
	return fmt.Errorf("%w: %s out of %s range", ErrInvalidShape, b, t)
}

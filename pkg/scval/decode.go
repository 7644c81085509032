package scval

import (
	"fmt"
	"sort"
)

// Decode converts a Value back to a dynamic Go value, the inverse of
// Make. Vecs decode recursively into []interface{} and maps into
// map[string]interface{} with non-string keys rendered through their
// string form. Note that decoding a map does NOT preserve wire entry
// order, which is an observable property of this codec rather than a
// defect; use Value.Map when order matters. An unrecognized tag produces
// ErrUnknownTag.
func Decode(v Value) (interface{}, error) {
	switch v.typ {
	case VoidType:
		return nil, nil
	case BoolType, U32Type, I32Type, U64Type, I64Type, F32Type, F64Type,
		BytesType, StringType, SymbolType, AddressType:
		return v.value, nil
	case U128Type, I128Type, U256Type, I256Type:
		return v.TryInteger()
	case VecType:
		elems := v.value.([]Value)
		res := make([]interface{}, len(elems))
		for i := range elems {
			d, err := Decode(elems[i])
			if err != nil {
				return nil, fmt.Errorf("element %d: %w", i, err)
			}
			res[i] = d
		}
		return res, nil
	case MapType:
		pairs := v.value.([]Pair)
		res := make(map[string]interface{}, len(pairs))
		for i := range pairs {
			d, err := Decode(pairs[i].Value)
			if err != nil {
				return nil, fmt.Errorf("entry %d: %w", i, err)
			}
			res[mapKeyString(pairs[i].Key)] = d
		}
		return res, nil
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnknownTag, int(v.typ))
	}
}

// DecodeWithType converts a Value expected to be of the hinted type. In
// contrast with the loud encode path, a tag mismatch here quietly yields
// nil: contract methods returning optional or union-shaped values make
// the caller probe with several hints and pick the one that sticks.
func DecodeWithType(v Value, t Type) interface{} {
	switch t {
	case OptionType:
		if v.typ == VoidType {
			return nil
		}
		d, err := Decode(v)
		if err != nil {
			return nil
		}
		return d
	case VecType, TupleType, SetType:
		if v.typ != VecType {
			return nil
		}
	case MapType:
		if v.typ != MapType {
			return nil
		}
	case ResultType:
		d, err := Decode(v)
		if err != nil {
			return nil
		}
		return d
	case StringType, SymbolType, AddressType:
		if v.typ != t {
			return nil
		}
	default:
		if v.typ != t {
			return nil
		}
	}
	d, err := Decode(v)
	if err != nil {
		return nil
	}
	return d
}

// mapKeyString renders a map key Value as the host-side map key.
func mapKeyString(k Value) string {
	switch k.typ {
	case StringType, SymbolType, AddressType:
		return k.value.(string)
	default:
		return k.String()
	}
}

// sortedKeys returns the keys of a string-keyed map in lexicographic
// order, keeping auto-detected map encoding deterministic.
func sortedKeys(m map[string]interface{}) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

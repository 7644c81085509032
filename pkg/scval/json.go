package scval

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
	"strconv"

	ojson "github.com/nspcc-dev/go-ordered-json"
)

// rawValue is the tagged JSON form of a Value exchanged with RPC servers.
type rawValue struct {
	Type  Type            `json:"type"`
	Value json.RawMessage `json:"value,omitempty"`
}

// rawPair is the JSON form of a single map entry.
type rawPair struct {
	Key   Value `json:"key"`
	Value Value `json:"value"`
}

// MarshalJSON implements the json.Marshaler interface. Integers wider
// than 64 bits are emitted as decimal strings, bytes as base64, maps as
// ordered key/value pair arrays.
func (v Value) MarshalJSON() ([]byte, error) {
	var (
		raw json.RawMessage
		err error
	)
	switch v.typ {
	case VoidType:
		return json.Marshal(rawValue{Type: VoidType})
	case BoolType, U32Type, I32Type, F32Type, F64Type, StringType, SymbolType, AddressType:
		raw, err = json.Marshal(v.value)
	case U64Type:
		raw = json.RawMessage(`"` + strconv.FormatUint(v.value.(uint64), 10) + `"`)
	case I64Type:
		raw = json.RawMessage(`"` + strconv.FormatInt(v.value.(int64), 10) + `"`)
	case U128Type, I128Type, U256Type, I256Type:
		raw = json.RawMessage(`"` + v.value.(*big.Int).String() + `"`)
	case BytesType:
		raw, err = json.Marshal(base64.StdEncoding.EncodeToString(v.value.([]byte)))
	case VecType:
		raw, err = json.Marshal(v.value.([]Value))
	case MapType:
		pairs := v.value.([]Pair)
		rps := make([]rawPair, len(pairs))
		for i := range pairs {
			rps[i] = rawPair{Key: pairs[i].Key, Value: pairs[i].Value}
		}
		raw, err = json.Marshal(rps)
	default:
		err = fmt.Errorf("%w: %d", ErrUnknownTag, int(v.typ))
	}
	if err != nil {
		return nil, err
	}
	return json.Marshal(rawValue{Type: v.typ, Value: raw})
}

// UnmarshalJSON implements the json.Unmarshaler interface.
func (v *Value) UnmarshalJSON(data []byte) error {
	var r rawValue
	if err := json.Unmarshal(data, &r); err != nil {
		return err
	}
	if r.Type == VoidType || len(r.Value) == 0 || bytes.Equal(r.Value, []byte("null")) {
		*v = Void()
		return nil
	}
	switch r.Type {
	case BoolType:
		var b bool
		if err := json.Unmarshal(r.Value, &b); err != nil {
			return err
		}
		*v = NewBool(b)
	case U32Type:
		var n uint32
		if err := json.Unmarshal(r.Value, &n); err != nil {
			return err
		}
		*v = NewU32(n)
	case I32Type:
		var n int32
		if err := json.Unmarshal(r.Value, &n); err != nil {
			return err
		}
		*v = NewI32(n)
	case U64Type:
		s, err := numericString(r.Value)
		if err != nil {
			return err
		}
		n, err := strconv.ParseUint(s, 10, 64)
		if err != nil {
			return err
		}
		*v = NewU64(n)
	case I64Type:
		s, err := numericString(r.Value)
		if err != nil {
			return err
		}
		n, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return err
		}
		*v = NewI64(n)
	case U128Type, I128Type, U256Type, I256Type:
		s, err := numericString(r.Value)
		if err != nil {
			return err
		}
		b, ok := new(big.Int).SetString(s, 10)
		if !ok {
			return fmt.Errorf("%w: %q is not an integer", ErrInvalidShape, s)
		}
		*v = NewBigInt(r.Type, b)
	case F32Type:
		var f float32
		if err := json.Unmarshal(r.Value, &f); err != nil {
			return err
		}
		*v = NewF32(f)
	case F64Type:
		var f float64
		if err := json.Unmarshal(r.Value, &f); err != nil {
			return err
		}
		*v = NewF64(f)
	case BytesType:
		var s string
		if err := json.Unmarshal(r.Value, &s); err != nil {
			return err
		}
		b, err := base64.StdEncoding.DecodeString(s)
		if err != nil {
			return err
		}
		*v = NewBytes(b)
	case StringType, SymbolType, AddressType:
		var s string
		if err := json.Unmarshal(r.Value, &s); err != nil {
			return err
		}
		*v = Value{typ: r.Type, value: s}
	case VecType:
		var elems []Value
		if err := json.Unmarshal(r.Value, &elems); err != nil {
			return err
		}
		*v = NewVec(elems)
	case MapType:
		var rps []rawPair
		if err := json.Unmarshal(r.Value, &rps); err != nil {
			return err
		}
		pairs := make([]Pair, len(rps))
		for i := range rps {
			pairs[i] = Pair{Key: rps[i].Key, Value: rps[i].Value}
		}
		*v = NewMap(pairs)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownTag, r.Type.String())
	}
	return nil
}

// ToJSON renders a Value as plain (untagged) JSON the way a contract
// consumer would see it: bytes become base64 strings, wide integers
// decimal strings, vecs arrays and maps objects. Unlike Decode, map
// entry order IS preserved here thanks to ordered object rendering.
func ToJSON(v Value) ([]byte, error) {
	obj, err := toPlain(v)
	if err != nil {
		return nil, err
	}
	return ojson.Marshal(obj)
}

func toPlain(v Value) (interface{}, error) {
	switch v.typ {
	case VoidType:
		return nil, nil
	case BoolType, U32Type, I32Type, F32Type, F64Type, StringType, SymbolType, AddressType:
		return v.value, nil
	case U64Type:
		return strconv.FormatUint(v.value.(uint64), 10), nil
	case I64Type:
		return strconv.FormatInt(v.value.(int64), 10), nil
	case U128Type, I128Type, U256Type, I256Type:
		return v.value.(*big.Int).String(), nil
	case BytesType:
		return base64.StdEncoding.EncodeToString(v.value.([]byte)), nil
	case VecType:
		elems := v.value.([]Value)
		res := make([]interface{}, len(elems))
		for i := range elems {
			p, err := toPlain(elems[i])
			if err != nil {
				return nil, err
			}
			res[i] = p
		}
		return res, nil
	case MapType:
		pairs := v.value.([]Pair)
		obj := make(ojson.OrderedObject, 0, len(pairs))
		for i := range pairs {
			p, err := toPlain(pairs[i].Value)
			if err != nil {
				return nil, err
			}
			obj = append(obj, ojson.Member{Key: mapKeyString(pairs[i].Key), Value: p})
		}
		return obj, nil
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnknownTag, int(v.typ))
	}
}

// numericString accepts both "123" and 123 JSON spellings of a number.
func numericString(raw json.RawMessage) (string, error) {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s, nil
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err != nil {
		return "", errors.New("neither a string nor a number")
	}
	return n.String(), nil
}

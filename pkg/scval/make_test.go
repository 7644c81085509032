package scval

import (
	"math"
	"math/big"
	"testing"

	"github.com/salazarsebas/Galaxy-DevKit/pkg/address"
	"github.com/stretchr/testify/require"
)

func testContractKey(t *testing.T) string {
	t.Helper()
	var id [address.PayloadLength]byte
	for i := range id {
		id[i] = byte(i * 3)
	}
	return address.EncodeContract(id)
}

func TestMakeAutoDetect(t *testing.T) {
	t.Run("nil", func(t *testing.T) {
		v, err := Make(nil)
		require.NoError(t, err)
		require.True(t, v.IsVoid())
	})
	t.Run("bool", func(t *testing.T) {
		v, err := Make(true)
		require.NoError(t, err)
		require.Equal(t, BoolType, v.Type())
	})
	t.Run("narrow int", func(t *testing.T) {
		v, err := Make(42)
		require.NoError(t, err)
		require.Equal(t, I32Type, v.Type())

		v, err = Make(-42)
		require.NoError(t, err)
		require.Equal(t, I32Type, v.Type())
	})
	t.Run("wide int", func(t *testing.T) {
		v, err := Make(int64(math.MaxInt32) + 1)
		require.NoError(t, err)
		require.Equal(t, I64Type, v.Type())
	})
	t.Run("big int", func(t *testing.T) {
		b, _ := new(big.Int).SetString("170141183460469231731687303715884105727", 10) // 2^127-1
		v, err := Make(b)
		require.NoError(t, err)
		require.Equal(t, I128Type, v.Type())
	})
	t.Run("too big int", func(t *testing.T) {
		b := new(big.Int).Lsh(big.NewInt(1), 300)
		_, err := Make(b)
		require.ErrorIs(t, err, ErrUnsupportedType)
	})
	t.Run("address string", func(t *testing.T) {
		key := testContractKey(t)
		v, err := Make(key)
		require.NoError(t, err)
		require.Equal(t, AddressType, v.Type())

		a, err := v.TryAddress()
		require.NoError(t, err)
		require.Equal(t, key, a)
	})
	t.Run("wrong sigil falls back to string", func(t *testing.T) {
		key := testContractKey(t)
		broken := "A" + key[1:]
		v, err := Make(broken)
		require.NoError(t, err)
		require.Equal(t, StringType, v.Type())
	})
	t.Run("mangled address falls back to string", func(t *testing.T) {
		key := testContractKey(t)
		mangled := key[:55] + "A"
		if mangled == key {
			mangled = key[:55] + "B"
		}
		v, err := Make(mangled)
		require.NoError(t, err)
		require.Equal(t, StringType, v.Type())
	})
	t.Run("bytes", func(t *testing.T) {
		v, err := Make([]byte{1, 2, 3})
		require.NoError(t, err)
		require.Equal(t, BytesType, v.Type())
	})
	t.Run("slice", func(t *testing.T) {
		v, err := Make([]interface{}{1, "two", true})
		require.NoError(t, err)
		require.Equal(t, VecType, v.Type())
		require.Len(t, v.Vec(), 3)
	})
	t.Run("map", func(t *testing.T) {
		v, err := Make(map[string]interface{}{"b": 2, "a": 1})
		require.NoError(t, err)
		require.Equal(t, MapType, v.Type())
		pairs := v.Map()
		require.Len(t, pairs, 2)
		// Auto-detected maps are encoded with sorted keys.
		k, err := pairs[0].Key.TryString()
		require.NoError(t, err)
		require.Equal(t, "a", k)
	})
	t.Run("unsupported", func(t *testing.T) {
		_, err := Make(make(chan int))
		require.ErrorIs(t, err, ErrUnsupportedType)
	})
}

func TestMakeWithType(t *testing.T) {
	t.Run("u64 ignores native signedness", func(t *testing.T) {
		v, err := MakeWithType(7, U64Type)
		require.NoError(t, err)
		require.Equal(t, U64Type, v.Type())

		i, err := v.TryInteger()
		require.NoError(t, err)
		require.Equal(t, int64(7), i.Int64())
	})
	t.Run("u64 range", func(t *testing.T) {
		_, err := MakeWithType(-1, U64Type)
		require.ErrorIs(t, err, ErrInvalidShape)
	})
	t.Run("u32 range", func(t *testing.T) {
		_, err := MakeWithType(uint64(math.MaxUint32)+1, U32Type)
		require.ErrorIs(t, err, ErrInvalidShape)
	})
	t.Run("i128 bounds", func(t *testing.T) {
		min := new(big.Int).Neg(new(big.Int).Lsh(big.NewInt(1), 127))
		_, err := MakeWithType(min, I128Type)
		require.NoError(t, err)

		_, err = MakeWithType(new(big.Int).Sub(min, big.NewInt(1)), I128Type)
		require.ErrorIs(t, err, ErrInvalidShape)
	})
	t.Run("u256 bounds", func(t *testing.T) {
		max := new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 256), big.NewInt(1))
		_, err := MakeWithType(max, U256Type)
		require.NoError(t, err)

		_, err = MakeWithType(new(big.Int).Add(max, big.NewInt(1)), U256Type)
		require.ErrorIs(t, err, ErrInvalidShape)
	})
	t.Run("option", func(t *testing.T) {
		v, err := MakeWithType(nil, OptionType)
		require.NoError(t, err)
		require.True(t, v.IsVoid())

		v, err = MakeWithType("x", OptionType)
		require.NoError(t, err)
		require.Equal(t, StringType, v.Type())
	})
	t.Run("vec requires slice", func(t *testing.T) {
		_, err := MakeWithType(42, VecType)
		require.ErrorIs(t, err, ErrInvalidShape)

		_, err = MakeWithType(42, TupleType)
		require.ErrorIs(t, err, ErrInvalidShape)

		_, err = MakeWithType(42, SetType)
		require.ErrorIs(t, err, ErrInvalidShape)
	})
	t.Run("map requires map", func(t *testing.T) {
		_, err := MakeWithType([]interface{}{1}, MapType)
		require.ErrorIs(t, err, ErrInvalidShape)
	})
	t.Run("symbol", func(t *testing.T) {
		v, err := MakeWithType("transfer", SymbolType)
		require.NoError(t, err)
		require.Equal(t, SymbolType, v.Type())
	})
	t.Run("address rejects junk", func(t *testing.T) {
		_, err := MakeWithType("not-a-key", AddressType)
		require.ErrorIs(t, err, ErrInvalidShape)
	})
}

func TestMakeArgs(t *testing.T) {
	_, err := MakeArgs([]interface{}{1, 2}, []Type{U32Type})
	require.ErrorIs(t, err, ErrArgCountMismatch)

	args, err := MakeArgs([]interface{}{1, 2}, []Type{U32Type, U64Type})
	require.NoError(t, err)
	require.Len(t, args, 2)
	require.Equal(t, U32Type, args[0].Type())
	require.Equal(t, U64Type, args[1].Type())

	args, err = MakeArgs([]interface{}{1, "x"}, nil)
	require.NoError(t, err)
	require.Equal(t, I32Type, args[0].Type())
	require.Equal(t, StringType, args[1].Type())
}

func TestRoundTrip(t *testing.T) {
	key := testContractKey(t)
	vals := []Value{
		Void(),
		NewBool(false),
		NewBool(true),
		NewU32(0),
		NewI32(-1),
		NewU64(math.MaxUint64),
		NewI64(math.MinInt64),
		NewBigInt(U128Type, new(big.Int).Lsh(big.NewInt(1), 100)),
		NewBigInt(I256Type, new(big.Int).Neg(new(big.Int).Lsh(big.NewInt(1), 200))),
		NewF32(1.5),
		NewF64(-2.25),
		NewBytes([]byte{}),
		NewBytes([]byte{0, 1, 2}),
		NewString(""),
		NewSymbol("swap"),
		NewAddress(key),
		NewVec(nil),
		NewVec([]Value{NewU32(1), NewVec([]Value{NewString("nested")})}),
		NewMap(nil),
		NewMap([]Pair{{Key: NewSymbol("k"), Value: NewMap([]Pair{{Key: NewU32(1), Value: NewBool(true)}})}}),
	}
	for _, v := range vals {
		t.Run(v.String(), func(t *testing.T) {
			d, err := Decode(v)
			require.NoError(t, err)
			back, err := Make(d)
			require.NoError(t, err)
			// Narrowing heuristics may change the integer tag, compare
			// through the integer value in that case.
			if bi, err := v.TryInteger(); err == nil {
				rb, err := back.TryInteger()
				require.NoError(t, err)
				require.Zero(t, bi.Cmp(rb))
				return
			}
			if v.Type() == SymbolType {
				// Heuristic re-encode can't tell a symbol from a string.
				s, err := back.TryString()
				require.NoError(t, err)
				require.Equal(t, d, s)
				return
			}
			if v.Type() == MapType {
				// Map decode goes through an unordered Go map.
				require.Equal(t, MapType, back.Type())
				require.Len(t, back.Map(), len(v.Map()))
				return
			}
			require.True(t, v.Equals(back), "%s != %s", v, back)
		})
	}
}

func TestDecodeWithTypeAsymmetry(t *testing.T) {
	// Mismatched hints never error, they yield nil.
	require.Nil(t, DecodeWithType(NewString("x"), U64Type))
	require.Nil(t, DecodeWithType(NewU32(5), MapType))
	require.Nil(t, DecodeWithType(NewU32(5), VecType))
	require.Nil(t, DecodeWithType(NewBool(true), AddressType))

	// Matched hints decode.
	require.Equal(t, "x", DecodeWithType(NewString("x"), StringType))
	require.Nil(t, DecodeWithType(Void(), OptionType))
	require.Equal(t, uint32(5), DecodeWithType(NewU32(5), OptionType))

	d := DecodeWithType(NewVec([]Value{NewU32(1)}), VecType)
	require.Equal(t, []interface{}{uint32(1)}, d)
}

func TestDecodeUnknownTag(t *testing.T) {
	_, err := Decode(Value{typ: Type(99), value: "?"})
	require.ErrorIs(t, err, ErrUnknownTag)
}

/*
Package unwrap provides a set of proxy methods to extract typed values
from simulation results. Their primary use case is to compose with
[Invoker.Simulate]-like calls:

	balance, err := unwrap.BigInt(inv.Simulate(ctx, token, "balance", args))

Methods accept and pass through errors, so a failed simulation surfaces
from the unwrapping call and the caller checks a single error.
*/
package unwrap

import (
	"errors"
	"math/big"

	"github.com/salazarsebas/Galaxy-DevKit/pkg/rpc/result"
	"github.com/salazarsebas/Galaxy-DevKit/pkg/scval"
)

// ErrNoValue is returned when the invoked method returned nothing to
// unwrap.
var ErrNoValue = errors.New("method returned no value")

// errMismatch signals the return value had a different type than the
// caller expected.
var errMismatch = errors.New("unexpected return value type")

// Value extracts the raw return value from the simulation.
func Value(s *result.Simulation, err error) (scval.Value, error) {
	if err != nil {
		return scval.Void(), err
	}
	if s.ReturnValue == nil {
		return scval.Void(), ErrNoValue
	}
	return *s.ReturnValue, nil
}

// Bool expects a boolean return value.
func Bool(s *result.Simulation, err error) (bool, error) {
	v, err := Value(s, err)
	if err != nil {
		return false, err
	}
	return v.TryBool()
}

// BigInt expects an integer return value of any width.
func BigInt(s *result.Simulation, err error) (*big.Int, error) {
	v, err := Value(s, err)
	if err != nil {
		return nil, err
	}
	return v.TryInteger()
}

// Int64 expects an integer return value fitting into int64.
func Int64(s *result.Simulation, err error) (int64, error) {
	b, err := BigInt(s, err)
	if err != nil {
		return 0, err
	}
	if !b.IsInt64() {
		return 0, errMismatch
	}
	return b.Int64(), nil
}

// Bytes expects a byte slice return value.
func Bytes(s *result.Simulation, err error) ([]byte, error) {
	v, err := Value(s, err)
	if err != nil {
		return nil, err
	}
	return v.TryBytes()
}

// UTF8String expects a string or symbol return value.
func UTF8String(s *result.Simulation, err error) (string, error) {
	v, err := Value(s, err)
	if err != nil {
		return "", err
	}
	return v.TryString()
}

// Address expects a contract or account address return value.
func Address(s *result.Simulation, err error) (string, error) {
	v, err := Value(s, err)
	if err != nil {
		return "", err
	}
	return v.TryAddress()
}

// Vec expects a vector return value and returns its elements.
func Vec(s *result.Simulation, err error) ([]scval.Value, error) {
	v, err := Value(s, err)
	if err != nil {
		return nil, err
	}
	if v.Type() != scval.VecType {
		return nil, errMismatch
	}
	return v.Vec(), nil
}

// Map expects a map return value and returns its entries in wire order.
func Map(s *result.Simulation, err error) ([]scval.Pair, error) {
	v, err := Value(s, err)
	if err != nil {
		return nil, err
	}
	if v.Type() != scval.MapType {
		return nil, errMismatch
	}
	return v.Map(), nil
}

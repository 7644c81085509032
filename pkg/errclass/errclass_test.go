package errclass

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/salazarsebas/Galaxy-DevKit/pkg/scval"
	"github.com/stretchr/testify/require"
)

func TestFromCode(t *testing.T) {
	for code, tag := range map[int64]Tag{
		1:  ContractPanic,
		2:  ArithmeticOverflow,
		3:  DivisionByZero,
		4:  InvalidArithmetic,
		5:  InvalidInput,
		6:  IndexOutOfBounds,
		7:  MemoryAccessViolation,
		8:  InvalidConversion,
		9:  MissingValue,
		10: ExpectedError,
		11: HostContextError,
	} {
		e := FromCode(code)
		require.Equal(t, tag, e.Tag)
		require.Equal(t, code, e.Code)
		require.NotEmpty(t, e.Message)
	}

	e := FromCode(42)
	require.Equal(t, UnknownCode, e.Tag)
	require.Equal(t, int64(42), e.Code)
}

func TestClassify(t *testing.T) {
	require.Equal(t, InsufficientBalance, Classify("error: insufficient balance for op").Tag)
	require.Equal(t, InsufficientFee, Classify("Insufficient Fee: got 100").Tag)
	require.Equal(t, ContractNotFound, Classify("contract not found").Tag)
	require.Equal(t, MethodNotFound, Classify("method not found: transfer").Tag)
	require.Equal(t, InvalidArgument, Classify("invalid argument #2").Tag)
	require.Equal(t, SimulationError, Classify("something else entirely").Tag)
}

func TestClassifyErr(t *testing.T) {
	require.Nil(t, ClassifyErr(nil))
	require.Equal(t, Timeout, ClassifyErr(context.DeadlineExceeded).Tag)
	require.Equal(t, NetworkError, ClassifyErr(errors.New("dial tcp: connection refused")).Tag)

	orig := New(ContractNotFound, "gone")
	require.Same(t, orig, ClassifyErr(fmt.Errorf("wrapped: %w", orig)))
}

func TestShouldRetry(t *testing.T) {
	// InsufficientBalance is recoverable but never retried.
	require.True(t, Recoverable(InsufficientBalance))
	require.False(t, ShouldRetry(InsufficientBalance, 1))

	require.True(t, ShouldRetry(InsufficientFee, 1))
	require.True(t, ShouldRetry(InsufficientFee, 2))
	require.False(t, ShouldRetry(InsufficientFee, 3))

	require.True(t, ShouldRetry(NetworkError, 1))
	require.True(t, ShouldRetry(Timeout, 2))

	require.False(t, ShouldRetry(ContractNotFound, 1))
	require.False(t, ShouldRetry(ContractPanic, 1))
	require.False(t, ShouldRetry(SimulationError, 1))
}

func TestBackoff(t *testing.T) {
	require.Equal(t, 2*time.Second, Backoff(InsufficientFee, 1))
	require.Equal(t, 4*time.Second, Backoff(InsufficientFee, 2))
	require.Equal(t, 5*time.Second, Backoff(NetworkError, 1))
	require.Equal(t, 10*time.Second, Backoff(NetworkError, 2))
	require.Equal(t, 3*time.Second, Backoff(Timeout, 1))
	require.Equal(t, time.Second, Backoff(SimulationError, 1))
	require.Equal(t, 4*time.Second, Backoff(SimulationError, 3))
	require.Equal(t, time.Second, Backoff(Unknown, 0))
}

func TestErrorString(t *testing.T) {
	e := New(MethodNotFound, "no such method").WithContext("CABC", "transfer")
	require.Equal(t, "MethodNotFound: no such method (contract CABC, method transfer)", e.Error())
	require.ErrorIs(t, e, New(MethodNotFound, "other text"))
	require.NotErrorIs(t, e, New(ContractNotFound, "other text"))
}

func TestFromValue(t *testing.T) {
	t.Run("numeric code", func(t *testing.T) {
		e := FromValue(scval.NewU32(3))
		require.Equal(t, DivisionByZero, e.Tag)
		require.Equal(t, int64(3), e.Code)
	})
	t.Run("message", func(t *testing.T) {
		e := FromValue(scval.NewString("host: contract not found"))
		require.Equal(t, ContractNotFound, e.Tag)
	})
	t.Run("code with message", func(t *testing.T) {
		e := FromValue(scval.NewVec([]scval.Value{
			scval.NewU32(5),
			scval.NewString("amount must be positive"),
		}))
		require.Equal(t, InvalidInput, e.Tag)
		require.Equal(t, int64(5), e.Code)
		require.Equal(t, "amount must be positive", e.Message)
	})
	t.Run("unrecognized shape", func(t *testing.T) {
		e := FromValue(scval.NewBool(true))
		require.Equal(t, Unknown, e.Tag)
	})
}

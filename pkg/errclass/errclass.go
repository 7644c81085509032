/*
Package errclass maps raw contract platform failures onto a closed error
taxonomy and decides whether and when an operation is worth retrying.
Classification inputs come in three shapes: platform-assigned numeric
codes, free-text diagnostic messages and decoded error payload values.
The message rules are plain substring matches evaluated in a fixed
priority order; overlapping phrases resolve to whichever rule comes
first in the table.
*/
package errclass

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Tag is a taxonomy label classifying an error's nature.
type Tag string

// The closed set of taxonomy tags.
const (
	ContractPanic         Tag = "ContractPanic"
	ArithmeticOverflow    Tag = "ArithmeticOverflow"
	DivisionByZero        Tag = "DivisionByZero"
	InvalidArithmetic     Tag = "InvalidArithmetic"
	InvalidInput          Tag = "InvalidInput"
	IndexOutOfBounds      Tag = "IndexOutOfBounds"
	MemoryAccessViolation Tag = "MemoryAccessViolation"
	InvalidConversion     Tag = "InvalidConversion"
	MissingValue          Tag = "MissingValue"
	ExpectedError         Tag = "ExpectedError"
	HostContextError      Tag = "HostContextError"
	UnknownCode           Tag = "UnknownCode"
	InsufficientFee       Tag = "InsufficientFee"
	InsufficientBalance   Tag = "InsufficientBalance"
	ContractNotFound      Tag = "ContractNotFound"
	MethodNotFound        Tag = "MethodNotFound"
	InvalidArgument       Tag = "InvalidArgument"
	SimulationError       Tag = "SimulationError"
	TransactionFailed     Tag = "TransactionFailed"
	ParseError            Tag = "ParseError"
	NetworkError          Tag = "NetworkError"
	Timeout               Tag = "Timeout"
	Unknown               Tag = "Unknown"
	UnsupportedType       Tag = "UnsupportedType"
	InvalidArgumentShape  Tag = "InvalidArgumentShape"
	ArgumentCountMismatch Tag = "ArgumentCountMismatch"
	UnknownWireTag        Tag = "UnknownWireTag"
)

// Error is a classified contract platform error. Code 0 means the
// platform assigned no numeric code and the message is free-form.
type Error struct {
	// Message is the human-readable description of the failure.
	Message string
	// Code is the platform-assigned numeric code, if any.
	Code int64
	// Tag is the taxonomy label.
	Tag Tag
	// Contract is the strkey of the contract involved, if known.
	Contract string
	// Method is the contract method involved, if known.
	Method string
	// Raw is the server result payload the failure was derived from,
	// kept for diagnosis.
	Raw json.RawMessage
}

// Error implements the error interface.
func (e *Error) Error() string {
	s := fmt.Sprintf("%s: %s", e.Tag, e.Message)
	if e.Contract != "" {
		s += " (contract " + e.Contract
		if e.Method != "" {
			s += ", method " + e.Method
		}
		s += ")"
	}
	return s
}

// Is makes errors.Is match any *Error carrying the same Tag.
func (e *Error) Is(target error) bool {
	var other *Error
	if !errors.As(target, &other) {
		return false
	}
	return e.Tag == other.Tag
}

// New creates a classified error with the given tag and message.
func New(tag Tag, msg string) *Error {
	return &Error{Message: msg, Tag: tag}
}

// WithContext returns a copy of the error annotated with contract and
// method context.
func (e *Error) WithContext(contract, method string) *Error {
	cp := *e
	cp.Contract = contract
	cp.Method = method
	return &cp
}

// WithRaw returns a copy of the error carrying the raw server payload
// it was derived from.
func (e *Error) WithRaw(raw json.RawMessage) *Error {
	cp := *e
	cp.Raw = raw
	return &cp
}

// codeTags is the fixed mapping of platform error codes 1-11.
var codeTags = map[int64]Tag{
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
}

// codeMessages provides default messages for the coded errors.
var codeMessages = map[Tag]string{
	ContractPanic:         "contract panicked",
	ArithmeticOverflow:    "arithmetic overflow",
	DivisionByZero:        "division by zero",
	InvalidArithmetic:     "invalid arithmetic operation",
	InvalidInput:          "invalid input",
	IndexOutOfBounds:      "index out of bounds",
	MemoryAccessViolation: "memory access violation",
	InvalidConversion:     "invalid conversion",
	MissingValue:          "missing optional value",
	ExpectedError:         "unexpected success/failure mismatch",
	HostContextError:      "host context error",
}

// FromCode classifies a platform-assigned numeric error code. Codes
// outside the known 1-11 range map to UnknownCode, the original number
// is retained either way.
func FromCode(code int64) *Error {
	if tag, ok := codeTags[code]; ok {
		return &Error{Message: codeMessages[tag], Code: code, Tag: tag}
	}
	return &Error{
		Message: fmt.Sprintf("unknown error code %d", code),
		Code:    code,
		Tag:     UnknownCode,
	}
}

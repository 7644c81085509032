package errclass

import (
	"errors"
	"strings"

	"github.com/salazarsebas/Galaxy-DevKit/pkg/scval"
)

// messageRule maps a known diagnostic substring to a taxonomy tag.
type messageRule struct {
	substr string
	tag    Tag
}

// messageRules is evaluated top to bottom, first match wins. The order is
// part of the contract: "insufficient fee" and "insufficient balance"
// share a prefix with other platform phrases and changing the order
// changes which tag wins on overlapping messages.
var messageRules = []messageRule{
	{"insufficient fee", InsufficientFee},
	{"insufficient balance", InsufficientBalance},
	{"contract not found", ContractNotFound},
	{"method not found", MethodNotFound},
	{"invalid argument", InvalidArgument},
}

// Classify maps a free-text diagnostic message to a classified error.
// Messages matching no rule fall back to SimulationError.
func Classify(msg string) *Error {
	lower := strings.ToLower(msg)
	for _, r := range messageRules {
		if strings.Contains(lower, r.substr) {
			return &Error{Message: msg, Tag: r.tag}
		}
	}
	return &Error{Message: msg, Tag: SimulationError}
}

// ClassifyErr wraps an arbitrary error into a classified one. Classified
// errors pass through unchanged, context/timeout errors get their own
// tags and everything else goes through the message rule table.
func ClassifyErr(err error) *Error {
	if err == nil {
		return nil
	}
	var ce *Error
	if errors.As(err, &ce) {
		return ce
	}
	msg := err.Error()
	lower := strings.ToLower(msg)
	switch {
	case strings.Contains(lower, "context deadline exceeded"), strings.Contains(lower, "timeout"):
		return &Error{Message: msg, Tag: Timeout}
	case strings.Contains(lower, "connection refused"), strings.Contains(lower, "no such host"),
		strings.Contains(lower, "network"):
		return &Error{Message: msg, Tag: NetworkError}
	}
	return Classify(msg)
}

// FromValue classifies a decoded error payload. Contracts report
// failures as a bare numeric code, a diagnostic string or a
// [code, message] vector; any other shape keeps its rendering under the
// Unknown tag.
func FromValue(v scval.Value) *Error {
	if code, err := v.TryInteger(); err == nil && code.IsInt64() {
		return FromCode(code.Int64())
	}
	if msg, err := v.TryString(); err == nil {
		return Classify(msg)
	}
	if elems := v.Vec(); len(elems) == 2 {
		code, cerr := elems[0].TryInteger()
		msg, merr := elems[1].TryString()
		if cerr == nil && merr == nil && code.IsInt64() {
			e := FromCode(code.Int64())
			e.Message = msg
			return e
		}
	}
	return &Error{Message: v.String(), Tag: Unknown}
}

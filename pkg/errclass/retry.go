package errclass

import "time"

// MaxRetryAttempts caps retries regardless of classification, attempts
// are 1-based.
const MaxRetryAttempts = 3

// recoverable is the set of tags representing conditions that can clear
// up on their own.
var recoverable = map[Tag]bool{
	InsufficientFee:     true,
	InsufficientBalance: true,
	NetworkError:        true,
	Timeout:             true,
}

// neverRetry lists tags excluded from retrying even when classified
// recoverable: retrying can't possibly help until the world changes in a
// way the caller has to arrange first.
var neverRetry = map[Tag]bool{
	InsufficientBalance: true,
	ContractNotFound:    true,
}

// Recoverable tells whether errors with the given tag represent
// transient conditions.
func Recoverable(tag Tag) bool {
	return recoverable[tag]
}

// ShouldRetry decides whether an operation that failed with the given
// tag is worth another attempt. attempt is the 1-based number of the
// attempt that just failed; the third attempt is the last one.
func ShouldRetry(tag Tag, attempt int) bool {
	if attempt >= MaxRetryAttempts {
		return false
	}
	if neverRetry[tag] {
		return false
	}
	return recoverable[tag]
}

// backoffBase holds tag-specific base delays, anything else backs off
// from one second.
var backoffBase = map[Tag]time.Duration{
	InsufficientFee: 2 * time.Second,
	NetworkError:    5 * time.Second,
	Timeout:         3 * time.Second,
}

// Backoff returns the delay to wait before the next attempt: the
// tag-specific base delay doubled for every failed attempt past the
// first.
func Backoff(tag Tag, attempt int) time.Duration {
	base, ok := backoffBase[tag]
	if !ok {
		base = time.Second
	}
	if attempt < 1 {
		attempt = 1
	}
	return base << (attempt - 1)
}

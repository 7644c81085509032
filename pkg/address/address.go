/*
Package address implements the strkey encoding used for Galaxy account and
contract identities. A strkey is a version byte followed by a 32-byte key
payload and a two-byte CRC16-XModem checksum, all encoded with unpadded
base32 which gives a fixed 56-character string. The version byte determines
the leading character of the encoded form: G for accounts, C for contracts.
*/
package address

import (
	"encoding/base32"
	"encoding/binary"
	"errors"
	"fmt"
)

// Version bytes for supported strkey kinds. The values are chosen so that
// the first base32 character of the encoded key matches the kind's sigil.
const (
	VersionAccount  byte = 6 << 3 // 'G'
	VersionContract byte = 2 << 3 // 'C'
)

// EncodedLength is the length of any valid strkey string.
const EncodedLength = 56

// PayloadLength is the length of the raw key material inside a strkey.
const PayloadLength = 32

var (
	// ErrInvalidLength is returned when a strkey string or payload has a
	// wrong length.
	ErrInvalidLength = errors.New("invalid strkey length")
	// ErrInvalidChecksum is returned when the embedded CRC16 checksum
	// doesn't match the decoded data.
	ErrInvalidChecksum = errors.New("invalid strkey checksum")
	// ErrInvalidVersion is returned when the version byte is not one of the
	// supported kinds.
	ErrInvalidVersion = errors.New("invalid strkey version")
)

var b32 = base32.StdEncoding.WithPadding(base32.NoPadding)

// Encode returns the strkey form of the given 32-byte payload using the
// given version byte.
func Encode(version byte, payload []byte) (string, error) {
	if len(payload) != PayloadLength {
		return "", fmt.Errorf("%w: %d bytes of payload", ErrInvalidLength, len(payload))
	}
	raw := make([]byte, 0, PayloadLength+3)
	raw = append(raw, version)
	raw = append(raw, payload...)
	raw = binary.LittleEndian.AppendUint16(raw, crc16(raw))
	return b32.EncodeToString(raw), nil
}

// Decode parses a strkey string and returns its version byte and payload.
func Decode(s string) (byte, []byte, error) {
	if len(s) != EncodedLength {
		return 0, nil, fmt.Errorf("%w: %d characters", ErrInvalidLength, len(s))
	}
	raw, err := b32.DecodeString(s)
	if err != nil {
		return 0, nil, err
	}
	payload := raw[1 : len(raw)-2]
	sum := binary.LittleEndian.Uint16(raw[len(raw)-2:])
	if crc16(raw[:len(raw)-2]) != sum {
		return 0, nil, ErrInvalidChecksum
	}
	switch raw[0] {
	case VersionAccount, VersionContract:
	default:
		return 0, nil, fmt.Errorf("%w: %#x", ErrInvalidVersion, raw[0])
	}
	return raw[0], payload, nil
}

// EncodeContract returns the C-prefixed strkey for the given contract id.
func EncodeContract(id [PayloadLength]byte) string {
	s, _ := Encode(VersionContract, id[:]) // Can't fail, length is exact.
	return s
}

// DecodeContract parses a C-prefixed strkey into a raw contract id.
func DecodeContract(s string) ([PayloadLength]byte, error) {
	var id [PayloadLength]byte
	v, payload, err := Decode(s)
	if err != nil {
		return id, err
	}
	if v != VersionContract {
		return id, fmt.Errorf("%w: not a contract key", ErrInvalidVersion)
	}
	copy(id[:], payload)
	return id, nil
}

// EncodeAccount returns the G-prefixed strkey for the given account key.
func EncodeAccount(key [PayloadLength]byte) string {
	s, _ := Encode(VersionAccount, key[:])
	return s
}

// IsValid checks whether the given string is a well-formed strkey of any
// supported kind.
func IsValid(s string) bool {
	_, _, err := Decode(s)
	return err == nil
}

// IsContract checks whether the given string is a well-formed contract
// strkey.
func IsContract(s string) bool {
	v, _, err := Decode(s)
	return err == nil && v == VersionContract
}

// IsAccount checks whether the given string is a well-formed account
// strkey.
func IsAccount(s string) bool {
	v, _, err := Decode(s)
	return err == nil && v == VersionAccount
}

// crc16 computes the CRC16-XModem checksum (polynomial 0x1021, zero
// initial value) of the given data.
func crc16(data []byte) uint16 {
	var crc uint16
	for _, b := range data {
		crc ^= uint16(b) << 8
		for i := 0; i < 8; i++ {
			if crc&0x8000 != 0 {
				crc = crc<<1 ^ 0x1021
			} else {
				crc <<= 1
			}
		}
	}
	return crc
}

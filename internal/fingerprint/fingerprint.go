// Package fingerprint provides the identifier type used to refer to programs
// by the hash of their canonical encoding.
//
// It is based on the ID type in go.brendoncarroll.net/state/cadata.
package fingerprint

import (
	"bytes"
	"database/sql/driver"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
)

var _ driver.Value = FP{}

const (
	// Size is the length of an FP in bytes.
	Size = 32
	// Base64Alphabet is used when encoding FPs as base64 strings.
	// It is a URL and filepath safe encoding, which maintains ordering.
	Base64Alphabet = "-0123456789" + "ABCDEFGHIJKLMNOPQRSTUVWXYZ" + "_" + "abcdefghijklmnopqrstuvwxyz"
)

// FP is a program fingerprint.
type FP [Size]byte

func FromBytes(x []byte) FP {
	fp := FP{}
	copy(fp[:], x)
	return fp
}

var enc = base64.NewEncoding(Base64Alphabet).WithPadding(base64.NoPadding)

func (fp FP) String() string {
	return enc.EncodeToString(fp[:])
}

// MarshalBase64 encodes FP using Base64Alphabet
func (fp FP) MarshalBase64() ([]byte, error) {
	buf := make([]byte, enc.EncodedLen(len(fp)))
	enc.Encode(buf, fp[:])
	return buf, nil
}

// UnmarshalBase64 decodes data into the FP using Base64Alphabet
func (fp *FP) UnmarshalBase64(data []byte) error {
	n, err := enc.Decode(fp[:], data)
	if err != nil {
		return err
	}
	if n != Size {
		return errors.New("base64 string is too short")
	}
	return nil
}

func (a FP) Equals(b FP) bool {
	return a.Compare(b) == 0
}

func (a FP) Compare(b FP) int {
	return bytes.Compare(a[:], b[:])
}

func (fp FP) IsZero() bool {
	return fp == (FP{})
}

func (fp FP) MarshalJSON() ([]byte, error) {
	s := enc.EncodeToString(fp[:])
	return json.Marshal(s)
}

func (fp *FP) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	_, err := enc.Decode(fp[:], []byte(s))
	return err
}

func (fp *FP) Scan(x interface{}) error {
	switch x := x.(type) {
	case []byte:
		if len(x) != Size {
			return fmt.Errorf("wrong length for fingerprint.FP HAVE: %d WANT: %d", len(x), Size)
		}
		*fp = FromBytes(x)
		return nil
	default:
		return fmt.Errorf("cannot scan type %T", x)
	}
}

func (fp FP) Value() (driver.Value, error) {
	return fp[:], nil
}

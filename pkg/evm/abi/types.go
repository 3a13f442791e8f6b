/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package abi

import (
	"bytes"
	"fmt"
	"math/big"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/fish1208/chainmaker-sdk-go/pkg/evm"
)

// TypeTag is a normalized elementary ABI type name such as uint256, address or bytes32
type TypeTag string

// Common type tags
const (
	TypeUint256 TypeTag = "uint256"
	TypeInt256  TypeTag = "int256"
	TypeAddress TypeTag = "address"
	TypeBool    TypeTag = "bool"
	TypeString  TypeTag = "string"
	TypeBytes   TypeTag = "bytes"
	TypeBytes32 TypeTag = "bytes32"
)

type kind int

const (
	kindInvalid kind = iota
	kindUint
	kindInt
	kindAddress
	kindBool
	kindString
	kindBytes
	kindFixedBytes
)

// TypeUint returns the uintN tag
func TypeUint(bits int) TypeTag {
	return TypeTag("uint" + strconv.Itoa(bits))
}

// TypeInt returns the intN tag
func TypeInt(bits int) TypeTag {
	return TypeTag("int" + strconv.Itoa(bits))
}

// TypeFixedBytes returns the bytesN tag
func TypeFixedBytes(size int) TypeTag {
	return TypeTag("bytes" + strconv.Itoa(size))
}

// ParseTypeTag normalizes s: "uint" becomes "uint256", "int" becomes
// "int256" and "byte" becomes "bytes1". Only elementary types are accepted.
func ParseTypeTag(s string) (TypeTag, error) {
	t := TypeTag(strings.TrimSpace(s))
	switch t {
	case "uint":
		t = TypeUint256
	case "int":
		t = TypeInt256
	case "byte":
		t = TypeFixedBytes(1)
	}
	if _, _, err := t.parse(); err != nil {
		return "", err
	}
	return t, nil
}

// Dynamic reports whether values of this type are encoded out-of-line
func (t TypeTag) Dynamic() bool {
	k, _, _ := t.parse()
	return k == kindString || k == kindBytes
}

func (t TypeTag) parse() (kind, int, error) {
	s := string(t)
	switch {
	case s == "address":
		return kindAddress, 160, nil
	case s == "bool":
		return kindBool, 8, nil
	case s == "string":
		return kindString, 0, nil
	case s == "bytes":
		return kindBytes, 0, nil
	case strings.HasPrefix(s, "uint"):
		bits, err := parseBits(s[4:])
		return kindUint, bits, errors.WithMessagef(err, "invalid type %s", s)
	case strings.HasPrefix(s, "int"):
		bits, err := parseBits(s[3:])
		return kindInt, bits, errors.WithMessagef(err, "invalid type %s", s)
	case strings.HasPrefix(s, "bytes"):
		n, err := strconv.Atoi(s[5:])
		if err != nil || n < 1 || n > 32 {
			return kindInvalid, 0, errors.Errorf("invalid type %s", s)
		}
		return kindFixedBytes, n, nil
	default:
		return kindInvalid, 0, errors.Errorf("unsupported type %q", s)
	}
}

func parseBits(s string) (int, error) {
	bits, err := strconv.Atoi(s)
	if err != nil || bits < 8 || bits > 256 || bits%8 != 0 {
		return 0, errors.Errorf("bit size must be a multiple of 8 between 8 and 256")
	}
	return bits, nil
}

// TypedValue is an ABI value tagged with its type
type TypedValue struct {
	Type  TypeTag
	value interface{}
}

// Uint256 returns a uint256 value
func Uint256(v *big.Int) TypedValue {
	return Uint(256, v)
}

// Uint returns a uintN value
func Uint(bits int, v *big.Int) TypedValue {
	return TypedValue{Type: TypeUint(bits), value: new(big.Int).Set(v)}
}

// Int returns an intN value
func Int(bits int, v *big.Int) TypedValue {
	return TypedValue{Type: TypeInt(bits), value: new(big.Int).Set(v)}
}

// Address returns an address value
func Address(a evm.Address) TypedValue {
	return TypedValue{Type: TypeAddress, value: a}
}

// String returns a string value
func String(s string) TypedValue {
	return TypedValue{Type: TypeString, value: s}
}

// Bool returns a bool value
func Bool(b bool) TypedValue {
	return TypedValue{Type: TypeBool, value: b}
}

// Bytes returns a dynamic bytes value
func Bytes(b []byte) TypedValue {
	return TypedValue{Type: TypeBytes, value: append([]byte{}, b...)}
}

// FixedBytes returns a bytesN value where N is len(b)
func FixedBytes(b []byte) TypedValue {
	return TypedValue{Type: TypeFixedBytes(len(b)), value: append([]byte{}, b...)}
}

// Value returns the Go value: *big.Int, evm.Address, string, bool or []byte
func (v TypedValue) Value() interface{} {
	return v.value
}

// BigInt returns the integer held by uint and int values
func (v TypedValue) BigInt() (*big.Int, bool) {
	i, ok := v.value.(*big.Int)
	if !ok {
		return nil, false
	}
	return new(big.Int).Set(i), true
}

// Address returns the address held by an address value
func (v TypedValue) Address() (evm.Address, bool) {
	a, ok := v.value.(evm.Address)
	return a, ok
}

// Text returns the string held by a string value
func (v TypedValue) Text() (string, bool) {
	s, ok := v.value.(string)
	return s, ok
}

// Bool returns the boolean held by a bool value
func (v TypedValue) Bool() (bool, bool) {
	b, ok := v.value.(bool)
	return b, ok
}

// Bytes returns the bytes held by bytes and bytesN values
func (v TypedValue) Bytes() ([]byte, bool) {
	b, ok := v.value.([]byte)
	if !ok {
		return nil, false
	}
	return append([]byte{}, b...), true
}

// Equal compares type and value
func (v TypedValue) Equal(o TypedValue) bool {
	if v.Type != o.Type {
		return false
	}
	switch a := v.value.(type) {
	case *big.Int:
		b, ok := o.value.(*big.Int)
		return ok && a.Cmp(b) == 0
	case []byte:
		b, ok := o.value.([]byte)
		return ok && bytes.Equal(a, b)
	default:
		return v.value == o.value
	}
}

func (v TypedValue) String() string {
	switch a := v.value.(type) {
	case []byte:
		return fmt.Sprintf("%s(0x%x)", v.Type, a)
	default:
		return fmt.Sprintf("%s(%v)", v.Type, a)
	}
}

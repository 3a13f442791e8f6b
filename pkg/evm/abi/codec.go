/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package abi encodes contract calls and decodes their results using the
// Ethereum contract ABI. Encoding is deterministic: identical inputs always
// produce identical bytes, which endorsement signatures depend on.
package abi

import (
	"encoding/hex"
	"math/big"

	ffabi "github.com/hyperledger/firefly-signer/pkg/abi"
	"github.com/pkg/errors"

	"github.com/fish1208/chainmaker-sdk-go/pkg/common/errors/status"
	"github.com/fish1208/chainmaker-sdk-go/pkg/common/logging"
	"github.com/fish1208/chainmaker-sdk-go/pkg/evm"
)

var logger = logging.NewLogger("chainsdk/evm")

// SelectorLength is the byte length of a function selector
const SelectorLength = 4

const wordSize = 32

var wordModulus = new(big.Int).Lsh(big.NewInt(1), 8*wordSize)

// Signature returns the canonical signature, e.g. "transfer(address,uint256)"
func Signature(method string, types []TypeTag) (string, error) {
	entry, err := functionEntry(method, types)
	if err != nil {
		return "", err
	}
	sig, err := entry.Signature()
	if err != nil {
		return "", malformed(err, "invalid signature for %s", method)
	}
	return sig, nil
}

// Selector returns the first 4 bytes of keccak256 of the canonical signature
func Selector(method string, types []TypeTag) ([SelectorLength]byte, error) {
	var sel [SelectorLength]byte
	entry, err := functionEntry(method, types)
	if err != nil {
		return sel, err
	}
	copy(sel[:], entry.FunctionSelectorBytes())
	return sel, nil
}

// Encode returns selector || encoded arguments for a call to method
func Encode(method string, args []TypedValue) ([]byte, error) {
	entry, err := functionEntry(method, typesOf(args))
	if err != nil {
		return nil, err
	}
	values, err := externalValues(args)
	if err != nil {
		return nil, err
	}
	data, err := entry.EncodeCallDataValues(values)
	if err != nil {
		return nil, malformed(err, "failed to encode call to %s", method)
	}
	logger.Debugf("encoded call %s: %d bytes", method, len(data))
	return data, nil
}

// EncodeArgs returns the encoded arguments without a selector, as used for
// constructor arguments
func EncodeArgs(args []TypedValue) ([]byte, error) {
	params, err := parameters(typesOf(args))
	if err != nil {
		return nil, err
	}
	values, err := externalValues(args)
	if err != nil {
		return nil, err
	}
	data, err := params.EncodeABIDataValues(values)
	if err != nil {
		return nil, malformed(err, "failed to encode arguments")
	}
	return data, nil
}

// Decode decodes data as a sequence of values of the given types. It fails
// with MalformedABIData if a head word or dynamic offset points beyond data,
// or if a static word holds a value outside the range of its type.
func Decode(types []TypeTag, data []byte) ([]TypedValue, error) {
	if len(types) == 0 {
		return []TypedValue{}, nil
	}
	params, err := parameters(types)
	if err != nil {
		return nil, err
	}
	cv, err := params.DecodeABIData(data, 0)
	if err != nil {
		return nil, malformed(err, "failed to decode %d bytes", len(data))
	}
	if len(cv.Children) != len(types) || len(data) < wordSize*len(types) {
		return nil, malformed(nil, "decoded %d values, expected %d", len(cv.Children), len(types))
	}

	out := make([]TypedValue, len(types))
	for i, t := range types {
		var v TypedValue
		if t.Dynamic() {
			v, err = dynamicValue(t, cv.Children[i].Value)
		} else {
			v, err = staticValue(t, data[i*wordSize:(i+1)*wordSize])
		}
		if err != nil {
			return nil, errors.WithMessagef(err, "value %d", i)
		}
		out[i] = v
	}
	return out, nil
}

func functionEntry(method string, types []TypeTag) (*ffabi.Entry, error) {
	if method == "" {
		return nil, malformed(nil, "method name is required")
	}
	params, err := parameters(types)
	if err != nil {
		return nil, err
	}
	return &ffabi.Entry{
		Type:            ffabi.Function,
		Name:            method,
		Inputs:          params,
		Outputs:         ffabi.ParameterArray{},
		StateMutability: "nonpayable",
	}, nil
}

func parameters(types []TypeTag) (ffabi.ParameterArray, error) {
	params := make(ffabi.ParameterArray, len(types))
	for i, t := range types {
		if _, _, err := t.parse(); err != nil {
			return nil, malformed(err, "argument %d", i)
		}
		params[i] = &ffabi.Parameter{Type: string(t)}
	}
	return params, nil
}

func typesOf(args []TypedValue) []TypeTag {
	types := make([]TypeTag, len(args))
	for i, a := range args {
		types[i] = a.Type
	}
	return types
}

// externalValues renders args in the input forms the ABI encoder accepts
func externalValues(args []TypedValue) ([]interface{}, error) {
	values := make([]interface{}, len(args))
	for i, a := range args {
		k, _, err := a.Type.parse()
		if err != nil {
			return nil, malformed(err, "argument %d", i)
		}
		var ok bool
		switch k {
		case kindUint, kindInt:
			var v *big.Int
			v, ok = a.value.(*big.Int)
			if ok {
				values[i] = v.String()
			}
		case kindAddress:
			var v evm.Address
			v, ok = a.value.(evm.Address)
			values[i] = v.Hex()
		case kindBool:
			values[i], ok = a.value.(bool)
		case kindString:
			values[i], ok = a.value.(string)
		case kindBytes, kindFixedBytes:
			var v []byte
			v, ok = a.value.([]byte)
			values[i] = "0x" + hex.EncodeToString(v)
		}
		if !ok {
			return nil, malformed(nil, "argument %d: value %T does not match type %s", i, a.value, a.Type)
		}
	}
	return values, nil
}

// staticValue reads the head word of a static type. Integers must fit the
// declared bit size (signed words sign-extended), addresses and bools must
// be zero-padded on the left and bytesN on the right.
func staticValue(t TypeTag, word []byte) (TypedValue, error) {
	k, size, _ := t.parse()
	switch k {
	case kindUint:
		v := new(big.Int).SetBytes(word)
		if v.BitLen() > size {
			return TypedValue{}, malformed(nil, "word 0x%x overflows %s", word, t)
		}
		return TypedValue{Type: t, value: v}, nil
	case kindInt:
		v := new(big.Int).SetBytes(word)
		if word[0]&0x80 != 0 {
			v.Sub(v, wordModulus)
		}
		limit := new(big.Int).Lsh(big.NewInt(1), uint(size-1))
		if v.Cmp(limit) >= 0 || v.Cmp(new(big.Int).Neg(limit)) < 0 {
			return TypedValue{}, malformed(nil, "word 0x%x overflows %s", word, t)
		}
		return TypedValue{Type: t, value: v}, nil
	case kindAddress:
		pad := wordSize - evm.AddressLength
		if !zero(word[:pad]) {
			return TypedValue{}, malformed(nil, "address word 0x%x has non-zero padding", word)
		}
		return Address(evm.BytesToAddress(word[pad:])), nil
	case kindBool:
		if !zero(word[:wordSize-1]) || word[wordSize-1] > 1 {
			return TypedValue{}, malformed(nil, "invalid bool word 0x%x", word)
		}
		return Bool(word[wordSize-1] == 1), nil
	case kindFixedBytes:
		if !zero(word[size:]) {
			return TypedValue{}, malformed(nil, "%s word 0x%x has non-zero padding", t, word)
		}
		return TypedValue{Type: t, value: append([]byte{}, word[:size]...)}, nil
	}
	return TypedValue{}, malformed(nil, "unsupported static type %s", t)
}

func dynamicValue(t TypeTag, raw interface{}) (TypedValue, error) {
	switch v := raw.(type) {
	case string:
		if t == TypeString {
			return String(v), nil
		}
	case []byte:
		if t == TypeBytes {
			return Bytes(v), nil
		}
	}
	return TypedValue{}, malformed(nil, "unexpected decoded value %T for type %s", raw, t)
}

func zero(b []byte) bool {
	for _, c := range b {
		if c != 0 {
			return false
		}
	}
	return true
}

func malformed(cause error, format string, args ...interface{}) error {
	err := errors.Errorf(format, args...)
	if cause != nil {
		err = errors.WithMessage(cause, err.Error())
	}
	return status.New(status.CodecStatus, status.MalformedABIData.ToInt32(), err.Error(), nil)
}

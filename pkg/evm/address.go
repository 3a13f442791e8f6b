/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package evm maps identities and contract names onto the EVM-compatible
// identifiers used on chain.
package evm

import (
	"crypto/ecdsa"
	"crypto/x509"
	"encoding/hex"
	"encoding/pem"

	"github.com/hyperledger/firefly-signer/pkg/ethtypes"
	"github.com/pkg/errors"
	"golang.org/x/crypto/sha3"

	"github.com/fish1208/chainmaker-sdk-go/pkg/common/errors/status"
	"github.com/fish1208/chainmaker-sdk-go/pkg/common/logging"
)

var logger = logging.NewLogger("chainsdk/evm")

// AddressLength is the byte length of an account address
const AddressLength = 20

// Address is a 20 byte account address
type Address [AddressLength]byte

// ParseAddress parses a 40 hex character address, with or without 0x prefix
func ParseAddress(s string) (Address, error) {
	a, err := ethtypes.NewAddress(s)
	if err != nil {
		return Address{}, errors.WithMessagef(err, "invalid address [%s]", s)
	}
	return Address(*a), nil
}

// BytesToAddress uses the last 20 bytes of b, left padding when b is shorter
func BytesToAddress(b []byte) Address {
	var a Address
	if len(b) > AddressLength {
		b = b[len(b)-AddressLength:]
	}
	copy(a[AddressLength-len(b):], b)
	return a
}

// Hex returns the 0x prefixed, lower case, 40 hex character form
func (a Address) Hex() string {
	return ethtypes.Address0xHex(a).String()
}

func (a Address) String() string {
	return a.Hex()
}

// Bytes returns a copy of the address bytes
func (a Address) Bytes() []byte {
	return append([]byte(nil), a[:]...)
}

// IsZero reports whether a is the zero address
func (a Address) IsZero() bool {
	return a == Address{}
}

// DeriveAddress returns the account address bound to a certificate. For ECDSA
// keys it is the last 20 bytes of keccak256(X || Y); for other key types the
// last 20 bytes of keccak256 over the DER SubjectPublicKeyInfo.
// certBytes may be PEM or DER.
func DeriveAddress(certBytes []byte) (Address, error) {
	der := certBytes
	if block, _ := pem.Decode(certBytes); block != nil {
		if block.Type != "CERTIFICATE" {
			return Address{}, invalidCertificate(errors.Errorf("unexpected PEM block type %s", block.Type))
		}
		der = block.Bytes
	}

	cert, err := x509.ParseCertificate(der)
	if err != nil {
		return Address{}, invalidCertificate(err)
	}

	var material []byte
	if pub, ok := cert.PublicKey.(*ecdsa.PublicKey); ok {
		ecdhKey, err := pub.ECDH()
		if err != nil {
			return Address{}, invalidCertificate(err)
		}
		// strip the 0x04 uncompressed point marker
		material = ecdhKey.Bytes()[1:]
	} else {
		material = cert.RawSubjectPublicKeyInfo
	}

	addr := BytesToAddress(keccak256(material))
	logger.Debugf("derived address %s for certificate subject [%s]", addr, cert.Subject.CommonName)
	return addr, nil
}

// CalcContractName returns the EVM-compatible on-chain name for a contract:
// the last 20 bytes of keccak256(name) as 40 hex characters. Creation and
// invocation of an EVM contract must both use this name.
func CalcContractName(name string) string {
	return hex.EncodeToString(keccak256([]byte(name))[12:])
}

func invalidCertificate(err error) error {
	return status.New(status.ClientStatus, status.InvalidCertificate.ToInt32(), err.Error(), nil)
}

func keccak256(b []byte) []byte {
	h := sha3.NewLegacyKeccak256()
	h.Write(b)
	return h.Sum(nil)
}

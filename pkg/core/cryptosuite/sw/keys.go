/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package sw

import (
	"crypto/ecdsa"

	"github.com/hyperledger/firefly-signer/pkg/ethtypes"
	"github.com/hyperledger/firefly-signer/pkg/secp256k1"

	"github.com/fish1208/chainmaker-sdk-go/pkg/common/providers/core"
)

const (
	// ECDSA names keys signed over SHA-256 with ASN.1 encoded signatures
	ECDSA = "ECDSA"
	// SECP256K1 names keys signed over Keccak-256 with compact recoverable signatures
	SECP256K1 = "SECP256K1"
)

type ecdsaPrivateKey struct {
	privKey *ecdsa.PrivateKey
}

func (k *ecdsaPrivateKey) Private() bool { return true }

func (k *ecdsaPrivateKey) Algorithm() string { return ECDSA }

func (k *ecdsaPrivateKey) PublicKey() (core.Key, error) {
	return &ecdsaPublicKey{pubKey: &k.privKey.PublicKey}, nil
}

type ecdsaPublicKey struct {
	pubKey *ecdsa.PublicKey
}

func (k *ecdsaPublicKey) Private() bool { return false }

func (k *ecdsaPublicKey) Algorithm() string { return ECDSA }

func (k *ecdsaPublicKey) PublicKey() (core.Key, error) { return k, nil }

type secp256k1PrivateKey struct {
	keyPair *secp256k1.KeyPair
}

func (k *secp256k1PrivateKey) Private() bool { return true }

func (k *secp256k1PrivateKey) Algorithm() string { return SECP256K1 }

func (k *secp256k1PrivateKey) PublicKey() (core.Key, error) {
	return &addressKey{address: k.keyPair.Address}, nil
}

// Address returns the 0x account address of the key pair
func (k *secp256k1PrivateKey) Address() string { return k.keyPair.Address.String() }

// addressKey is the public half of a secp256k1 key. Signatures are checked
// by recovering the signer address.
type addressKey struct {
	address ethtypes.Address0xHex
}

func (k *addressKey) Private() bool { return false }

func (k *addressKey) Algorithm() string { return SECP256K1 }

func (k *addressKey) PublicKey() (core.Key, error) { return k, nil }

// Address returns the 0x account address
func (k *addressKey) Address() string { return k.address.String() }

// AddressKey is implemented by keys that identify an account address
type AddressKey interface {
	core.Key
	Address() string
}

// Address returns the 0x account address of a secp256k1 key, public or private.
func Address(k core.Key) (string, bool) {
	if ak, ok := k.(AddressKey); ok {
		return ak.Address(), true
	}
	return "", false
}

// ECDSAPublicKey returns the underlying public key of an ECDSA key.
func ECDSAPublicKey(k core.Key) (*ecdsa.PublicKey, bool) {
	switch key := k.(type) {
	case *ecdsaPrivateKey:
		return &key.privKey.PublicKey, true
	case *ecdsaPublicKey:
		return key.pubKey, true
	default:
		return nil, false
	}
}

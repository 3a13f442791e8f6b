/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package core

// ConfigBackend backend for all config types in SDK
type ConfigBackend interface {
	Lookup(key string) (interface{}, bool)
}

// ConfigProvider provides config backend for SDK
type ConfigProvider func() ([]ConfigBackend, error)

// HashType selects a digest algorithm
type HashType int

const (
	// SHA256 is used for certificate-backed signatures
	SHA256 HashType = iota
	// Keccak256 is used for selectors, addresses and secp256k1 signatures
	Keccak256
)

func (h HashType) String() string {
	switch h {
	case SHA256:
		return "SHA256"
	case Keccak256:
		return "KECCAK256"
	default:
		return "UNKNOWN"
	}
}

// Key represents a cryptographic key
type Key interface {

	// Private returns true if this key is a private key
	Private() bool

	// PublicKey returns the corresponding public key part of a private key
	PublicKey() (Key, error)

	// Algorithm names the signature scheme the key belongs to
	Algorithm() string
}

// CryptoSuite hashes, signs and verifies on behalf of identities.
//
// Sign and Verify take the raw message; the suite picks the digest that
// belongs to the key's algorithm.
type CryptoSuite interface {

	// KeyImport imports a PEM private key, a PEM or DER certificate,
	// or a hex encoded secp256k1 private key
	KeyImport(raw []byte) (Key, error)

	// Hash hashes messages msg using the requested algorithm
	Hash(msg []byte, h HashType) ([]byte, error)

	// Sign signs msg using key k
	Sign(k Key, msg []byte) ([]byte, error)

	// Verify verifies signature against key k and message msg
	Verify(k Key, signature, msg []byte) error
}

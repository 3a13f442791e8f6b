/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package sw is the software CryptoSuite. It signs with ECDSA keys loaded from
// PEM files and with raw secp256k1 keys given as hex strings.
package sw

import (
	"bytes"
	"context"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/sha256"
	"crypto/x509"
	"encoding/asn1"
	"encoding/hex"
	"encoding/pem"
	"math/big"
	"strings"

	"github.com/hyperledger/firefly-signer/pkg/ethtypes"
	"github.com/hyperledger/firefly-signer/pkg/secp256k1"
	"github.com/pkg/errors"
	"golang.org/x/crypto/sha3"

	"github.com/fish1208/chainmaker-sdk-go/pkg/common/providers/core"
)

// curveHalfOrders is used to normalize signatures to low-S
var curveHalfOrders = map[elliptic.Curve]*big.Int{
	elliptic.P224(): new(big.Int).Rsh(elliptic.P224().Params().N, 1),
	elliptic.P256(): new(big.Int).Rsh(elliptic.P256().Params().N, 1),
	elliptic.P384(): new(big.Int).Rsh(elliptic.P384().Params().N, 1),
	elliptic.P521(): new(big.Int).Rsh(elliptic.P521().Params().N, 1),
}

type ecdsaSignature struct {
	R, S *big.Int
}

// CryptoSuite is the software implementation of core.CryptoSuite
type CryptoSuite struct{}

// NewCryptoSuite returns a software crypto suite
func NewCryptoSuite() *CryptoSuite {
	return &CryptoSuite{}
}

// KeyImport imports a PEM private key, a PEM or DER certificate, a hex
// secp256k1 private key or a 0x account address.
func (c *CryptoSuite) KeyImport(raw []byte) (core.Key, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return nil, errors.New("empty key material")
	}

	if block, _ := pem.Decode(trimmed); block != nil {
		return importPEM(block)
	}

	if k, ok, err := importHex(string(trimmed)); ok {
		return k, err
	}

	cert, err := x509.ParseCertificate(trimmed)
	if err != nil {
		return nil, errors.Wrap(err, "unrecognized key material")
	}
	return publicKeyFromCert(cert)
}

func importPEM(block *pem.Block) (core.Key, error) {
	switch block.Type {
	case "CERTIFICATE":
		cert, err := x509.ParseCertificate(block.Bytes)
		if err != nil {
			return nil, errors.Wrap(err, "failed to parse certificate")
		}
		return publicKeyFromCert(cert)
	case "EC PRIVATE KEY":
		priv, err := x509.ParseECPrivateKey(block.Bytes)
		if err != nil {
			return nil, errors.Wrap(err, "failed to parse EC private key")
		}
		return &ecdsaPrivateKey{privKey: priv}, nil
	case "PRIVATE KEY":
		priv, err := x509.ParsePKCS8PrivateKey(block.Bytes)
		if err != nil {
			return nil, errors.Wrap(err, "failed to parse PKCS#8 private key")
		}
		ecPriv, ok := priv.(*ecdsa.PrivateKey)
		if !ok {
			return nil, errors.Errorf("unsupported private key type %T", priv)
		}
		return &ecdsaPrivateKey{privKey: ecPriv}, nil
	case "PUBLIC KEY":
		pub, err := x509.ParsePKIXPublicKey(block.Bytes)
		if err != nil {
			return nil, errors.Wrap(err, "failed to parse public key")
		}
		ecPub, ok := pub.(*ecdsa.PublicKey)
		if !ok {
			return nil, errors.Errorf("unsupported public key type %T", pub)
		}
		return &ecdsaPublicKey{pubKey: ecPub}, nil
	default:
		return nil, errors.Errorf("unsupported PEM block type %s", block.Type)
	}
}

// importHex returns ok=false when s is not hex at all
func importHex(s string) (core.Key, bool, error) {
	s = strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X")
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, false, nil
	}
	switch len(b) {
	case 32:
		return &secp256k1PrivateKey{keyPair: secp256k1.KeyPairFromBytes(b)}, true, nil
	case 20:
		var addr ethtypes.Address0xHex
		copy(addr[:], b)
		return &addressKey{address: addr}, true, nil
	default:
		return nil, true, errors.Errorf("hex key material must be 20 or 32 bytes, got %d", len(b))
	}
}

func publicKeyFromCert(cert *x509.Certificate) (core.Key, error) {
	pub, ok := cert.PublicKey.(*ecdsa.PublicKey)
	if !ok {
		return nil, errors.Errorf("unsupported certificate key type %T", cert.PublicKey)
	}
	return &ecdsaPublicKey{pubKey: pub}, nil
}

// Hash hashes msg with the requested algorithm
func (c *CryptoSuite) Hash(msg []byte, h core.HashType) ([]byte, error) {
	switch h {
	case core.SHA256:
		digest := sha256.Sum256(msg)
		return digest[:], nil
	case core.Keccak256:
		hash := sha3.NewLegacyKeccak256()
		hash.Write(msg)
		return hash.Sum(nil), nil
	default:
		return nil, errors.Errorf("unsupported hash type %s", h)
	}
}

// Sign signs msg. ECDSA keys produce an ASN.1 low-S signature over SHA-256(msg);
// secp256k1 keys produce a 65 byte R||S||V signature over Keccak-256(msg).
func (c *CryptoSuite) Sign(k core.Key, msg []byte) ([]byte, error) {
	switch key := k.(type) {
	case *ecdsaPrivateKey:
		return signECDSA(key.privKey, msg)
	case *secp256k1PrivateKey:
		sig, err := key.keyPair.SignDirect(msg)
		if err != nil {
			return nil, errors.Wrap(err, "secp256k1 signing failed")
		}
		return sig.CompactRSV(), nil
	case nil:
		return nil, errors.New("key must not be nil")
	default:
		return nil, errors.Errorf("key of type %T cannot sign", k)
	}
}

// Verify checks signature over msg against k
func (c *CryptoSuite) Verify(k core.Key, signature, msg []byte) error {
	if k == nil {
		return errors.New("key must not be nil")
	}
	if pub, ok := ECDSAPublicKey(k); ok {
		return verifyECDSA(pub, signature, msg)
	}
	expected, ok := Address(k)
	if !ok {
		return errors.Errorf("key of type %T cannot verify", k)
	}
	sig, err := secp256k1.DecodeCompactRSV(context.Background(), signature)
	if err != nil {
		return errors.Wrap(err, "malformed secp256k1 signature")
	}
	signer, err := sig.RecoverDirect(msg, 0)
	if err != nil {
		return errors.Wrap(err, "failed to recover signer")
	}
	if signer.String() != expected {
		return errors.Errorf("signature was produced by %s, expected %s", signer, expected)
	}
	return nil
}

func signECDSA(k *ecdsa.PrivateKey, msg []byte) ([]byte, error) {
	digest := sha256.Sum256(msg)
	r, s, err := ecdsa.Sign(rand.Reader, k, digest[:])
	if err != nil {
		return nil, errors.Wrap(err, "ECDSA signing failed")
	}
	s, err = toLowS(&k.PublicKey, s)
	if err != nil {
		return nil, err
	}
	return asn1.Marshal(ecdsaSignature{R: r, S: s})
}

func verifyECDSA(k *ecdsa.PublicKey, signature, msg []byte) error {
	sig := &ecdsaSignature{}
	rest, err := asn1.Unmarshal(signature, sig)
	if err != nil {
		return errors.Wrap(err, "malformed ECDSA signature")
	}
	if len(rest) != 0 {
		return errors.New("trailing bytes after ECDSA signature")
	}
	if sig.R == nil || sig.S == nil || sig.R.Sign() <= 0 || sig.S.Sign() <= 0 {
		return errors.New("invalid ECDSA signature values")
	}
	lowS, err := isLowS(k, sig.S)
	if err != nil {
		return err
	}
	if !lowS {
		return errors.New("ECDSA signature S value is not low-S")
	}
	digest := sha256.Sum256(msg)
	if !ecdsa.Verify(k, digest[:], sig.R, sig.S) {
		return errors.New("ECDSA signature verification failed")
	}
	return nil
}

func isLowS(k *ecdsa.PublicKey, s *big.Int) (bool, error) {
	halfOrder, ok := curveHalfOrders[k.Curve]
	if !ok {
		return false, errors.Errorf("curve not recognized [%s]", k.Curve.Params().Name)
	}
	return s.Cmp(halfOrder) != 1, nil
}

func toLowS(k *ecdsa.PublicKey, s *big.Int) (*big.Int, error) {
	lowS, err := isLowS(k, s)
	if err != nil {
		return nil, err
	}
	if !lowS {
		// s = N - s
		s.Sub(k.Params().N, s)
	}
	return s, nil
}

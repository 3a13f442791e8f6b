/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package mockmsp

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/hex"
	"encoding/pem"
	"math/big"
	"time"

	"github.com/hyperledger/firefly-signer/pkg/secp256k1"
	"github.com/pkg/errors"

	"github.com/fish1208/chainmaker-sdk-go/pkg/core/cryptosuite/sw"
	"github.com/fish1208/chainmaker-sdk-go/pkg/msp"
)

// NewIdentity returns a throwaway Cert identity for orgID. The sign and TLS
// credentials are distinct self-signed P-256 certificates.
func NewIdentity(orgID string) (*msp.Identity, error) {
	signKey, signCert, err := NewCertKeyPair(orgID, "client1.sign")
	if err != nil {
		return nil, err
	}
	tlsKey, tlsCert, err := NewCertKeyPair(orgID, "client1.tls")
	if err != nil {
		return nil, err
	}
	return msp.NewIdentity(orgID, signKey, signCert, tlsKey, tlsCert)
}

// NewSecp256k1Identity returns a throwaway PublicKey identity for orgID
func NewSecp256k1Identity(orgID string) (*msp.Identity, error) {
	kp, err := secp256k1.GenerateSecp256k1KeyPair()
	if err != nil {
		return nil, err
	}
	return msp.NewIdentity(orgID, []byte(hex.EncodeToString(kp.PrivateKeyBytes())), nil, nil, nil)
}

// NewSigningIdentity returns a throwaway signing identity backed by the software suite
func NewSigningIdentity(orgID string) (*msp.SigningIdentity, error) {
	id, err := NewIdentity(orgID)
	if err != nil {
		return nil, err
	}
	return msp.NewSigningIdentity(id, sw.NewCryptoSuite())
}

// NewSigningIdentities returns one signing identity per org, in order
func NewSigningIdentities(orgIDs ...string) ([]*msp.SigningIdentity, error) {
	ids := make([]*msp.SigningIdentity, 0, len(orgIDs))
	for _, org := range orgIDs {
		id, err := NewSigningIdentity(org)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// NewCertKeyPair returns a PEM EC private key and a matching self-signed PEM certificate
func NewCertKeyPair(orgID, commonName string) (keyPEM, certPEM []byte, err error) {
	priv, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		return nil, nil, errors.Wrap(err, "failed to generate key")
	}

	serial, err := rand.Int(rand.Reader, new(big.Int).Lsh(big.NewInt(1), 64))
	if err != nil {
		return nil, nil, err
	}
	template := &x509.Certificate{
		SerialNumber: serial,
		Subject: pkix.Name{
			Organization: []string{orgID},
			CommonName:   commonName,
		},
		DNSNames:              []string{"localhost"},
		NotBefore:             time.Now().Add(-time.Hour),
		NotAfter:              time.Now().Add(24 * time.Hour),
		KeyUsage:              x509.KeyUsageDigitalSignature | x509.KeyUsageCertSign,
		ExtKeyUsage:           []x509.ExtKeyUsage{x509.ExtKeyUsageServerAuth, x509.ExtKeyUsageClientAuth},
		BasicConstraintsValid: true,
		IsCA:                  true,
	}
	der, err := x509.CreateCertificate(rand.Reader, template, template, &priv.PublicKey, priv)
	if err != nil {
		return nil, nil, errors.Wrap(err, "failed to create certificate")
	}

	keyDER, err := x509.MarshalECPrivateKey(priv)
	if err != nil {
		return nil, nil, err
	}

	keyPEM = pem.EncodeToMemory(&pem.Block{Type: "EC PRIVATE KEY", Bytes: keyDER})
	certPEM = pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: der})
	return keyPEM, certPEM, nil
}

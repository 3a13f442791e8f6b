/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package msp_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	providersmsp "github.com/fish1208/chainmaker-sdk-go/pkg/common/providers/msp"
	"github.com/fish1208/chainmaker-sdk-go/pkg/core/cryptosuite/sw"
	"github.com/fish1208/chainmaker-sdk-go/pkg/msp"
	"github.com/fish1208/chainmaker-sdk-go/pkg/msp/test/mockmsp"
)

const orgID = "wx-org1.chainmaker.org"

func TestNewIdentity(t *testing.T) {
	key, cert, err := mockmsp.NewCertKeyPair(orgID, "client1")
	require.NoError(t, err)

	id, err := msp.NewIdentity(orgID, key, cert, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, orgID, id.OrgID())
	assert.Equal(t, providersmsp.Cert, id.MemberType())
	assert.Equal(t, cert, id.SignCert())
	assert.Nil(t, id.TLSCert())

	// mutating the caller's slice or a returned copy leaves the identity unchanged
	cert[0] = 'X'
	assert.NotEqual(t, cert, id.SignCert())
	got := id.SignKey()
	got[0] = 'X'
	assert.Equal(t, byte('-'), id.SignKey()[0])
}

func TestNewIdentityErrors(t *testing.T) {
	key, cert, err := mockmsp.NewCertKeyPair(orgID, "client1")
	require.NoError(t, err)

	_, err = msp.NewIdentity("", key, cert, nil, nil)
	assert.Error(t, err)

	_, err = msp.NewIdentity(orgID, nil, cert, nil, nil)
	assert.Error(t, err)

	// a PEM key without a certificate cannot identify a member
	_, err = msp.NewIdentity(orgID, key, nil, nil, nil)
	assert.Error(t, err)
}

func TestSigningIdentityCert(t *testing.T) {
	id, err := mockmsp.NewIdentity(orgID)
	require.NoError(t, err)

	signer, err := msp.NewSigningIdentity(id, sw.NewCryptoSuite())
	require.NoError(t, err)
	assert.Equal(t, orgID, signer.OrgID())
	assert.Equal(t, providersmsp.Cert, signer.MemberType())

	info, err := signer.Serialize()
	require.NoError(t, err)
	assert.Equal(t, id.SignCert(), info)

	msg := []byte("payload")
	sig, err := signer.Sign(msg)
	require.NoError(t, err)
	assert.NoError(t, signer.Verify(msg, sig))
	assert.Error(t, signer.Verify([]byte("other"), sig))
}

func TestSigningIdentitySecp256k1(t *testing.T) {
	id, err := mockmsp.NewSecp256k1Identity(orgID)
	require.NoError(t, err)
	assert.Equal(t, providersmsp.PublicKey, id.MemberType())

	signer, err := msp.NewSigningIdentity(id, sw.NewCryptoSuite())
	require.NoError(t, err)

	info, err := signer.Serialize()
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(info), "0x"))
	assert.Len(t, string(info), 42)

	sig, err := signer.Sign([]byte("payload"))
	require.NoError(t, err)
	assert.NoError(t, signer.Verify([]byte("payload"), sig))
}

func TestNewSigningIdentityErrors(t *testing.T) {
	_, err := msp.NewSigningIdentity(nil, sw.NewCryptoSuite())
	assert.Error(t, err)

	id, err := mockmsp.NewIdentity(orgID)
	require.NoError(t, err)
	_, err = msp.NewSigningIdentity(id, nil)
	assert.Error(t, err)

	// a certificate in place of the sign key is not a private key
	bad, err := msp.NewIdentity(orgID, id.SignCert(), id.SignCert(), nil, nil)
	require.NoError(t, err)
	_, err = msp.NewSigningIdentity(bad, sw.NewCryptoSuite())
	assert.Error(t, err)
}

func TestLoadIdentity(t *testing.T) {
	dir := t.TempDir()
	signKey, signCert, err := mockmsp.NewCertKeyPair(orgID, "client1.sign")
	require.NoError(t, err)
	tlsKey, tlsCert, err := mockmsp.NewCertKeyPair(orgID, "client1.tls")
	require.NoError(t, err)

	files := msp.IdentityFiles{
		OrgID:        orgID,
		SignKeyPath:  writeFile(t, dir, "client1.sign.key", signKey),
		SignCertPath: writeFile(t, dir, "client1.sign.crt", signCert),
		TLSKeyPath:   writeFile(t, dir, "client1.tls.key", tlsKey),
		TLSCertPath:  writeFile(t, dir, "client1.tls.crt", tlsCert),
	}

	id, err := msp.LoadIdentity(files)
	require.NoError(t, err)
	assert.Equal(t, signCert, id.SignCert())
	assert.Equal(t, tlsCert, id.TLSCert())
	assert.Equal(t, tlsKey, id.TLSKey())

	files.SignCertPath = filepath.Join(dir, "missing.crt")
	_, err = msp.LoadIdentity(files)
	assert.Error(t, err)

	_, err = msp.LoadIdentity(msp.IdentityFiles{OrgID: orgID})
	assert.Error(t, err)
}

func writeFile(t *testing.T, dir, name string, content []byte) string {
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, content, 0600))
	return p
}

/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package endpoint

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testPEM = `-----BEGIN CERTIFICATE-----
MIIBAzCBqqADAgECAgEBMAoGCCqGSM49BAMCMAAwHhcNMjQwMTAxMDAwMDAwWhcN
-----END CERTIFICATE-----
`

func TestIsTLSEnabled(t *testing.T) {
	assert.True(t, IsTLSEnabled("grpcs://127.0.0.1:12301"))
	assert.True(t, IsTLSEnabled("HTTPS://node1"))
	assert.False(t, IsTLSEnabled("grpc://127.0.0.1:12301"))
	assert.False(t, IsTLSEnabled("127.0.0.1:12301"))
}

func TestLoadBytes(t *testing.T) {
	cfg := TLSConfig{Pem: testPEM, Path: "/does/not/exist"}
	require.NoError(t, cfg.LoadBytes())
	assert.Equal(t, []byte(testPEM), cfg.Bytes())

	dir := t.TempDir()
	path := filepath.Join(dir, "ca.pem")
	require.NoError(t, os.WriteFile(path, []byte(testPEM), 0600))
	fromFile := TLSConfig{Path: path}
	require.NoError(t, fromFile.LoadBytes())
	assert.Equal(t, []byte(testPEM), fromFile.Bytes())

	empty := TLSConfig{}
	require.NoError(t, empty.LoadBytes())
	assert.Nil(t, empty.Bytes())

	notPEM := TLSConfig{Pem: "plain text"}
	assert.Error(t, notPEM.LoadBytes())

	missing := TLSConfig{Path: filepath.Join(dir, "missing.pem")}
	assert.Error(t, missing.LoadBytes())
}

func TestLoadPEMFiles(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.pem")
	require.NoError(t, os.WriteFile(a, []byte(testPEM), 0600))

	out, err := LoadPEMFiles(a, a)
	require.NoError(t, err)
	assert.Len(t, out, 2)

	out, err = LoadPEMFiles()
	require.NoError(t, err)
	assert.Empty(t, out)

	_, err = LoadPEMFiles(a, filepath.Join(dir, "b.pem"))
	assert.Error(t, err)
}

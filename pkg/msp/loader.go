/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package msp

import (
	"os"
	"path/filepath"

	"github.com/pkg/errors"

	"github.com/fish1208/chainmaker-sdk-go/pkg/common/logging"
)

var logger = logging.NewLogger("chainsdk/msp")

// IdentityFiles locates the key material of one identity on disk.
// TLS paths are optional.
type IdentityFiles struct {
	OrgID        string `mapstructure:"org_id"`
	SignKeyPath  string `mapstructure:"sign_key_file_path"`
	SignCertPath string `mapstructure:"sign_crt_file_path"`
	TLSKeyPath   string `mapstructure:"tls_key_file_path"`
	TLSCertPath  string `mapstructure:"tls_crt_file_path"`
}

// LoadIdentity reads the files named by f and builds an Identity
func LoadIdentity(f IdentityFiles) (*Identity, error) {
	logger.Debugf("loading identity for org [%s] from [%s]", f.OrgID, filepath.Dir(f.SignKeyPath))

	signKey, err := readFile(f.SignKeyPath, true)
	if err != nil {
		return nil, err
	}
	signCert, err := readFile(f.SignCertPath, false)
	if err != nil {
		return nil, err
	}
	tlsKey, err := readFile(f.TLSKeyPath, false)
	if err != nil {
		return nil, err
	}
	tlsCert, err := readFile(f.TLSCertPath, false)
	if err != nil {
		return nil, err
	}

	return NewIdentity(f.OrgID, signKey, signCert, tlsKey, tlsCert)
}

func readFile(path string, required bool) ([]byte, error) {
	if path == "" {
		if required {
			return nil, errors.New("sign key file path is required")
		}
		return nil, nil
	}
	b, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read [%s]", path)
	}
	return b, nil
}

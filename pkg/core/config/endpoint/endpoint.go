/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package endpoint

import (
	"encoding/pem"
	"os"
	"path/filepath"
	"regexp"

	"github.com/pkg/errors"
)

var securedScheme = regexp.MustCompile(`^(?i)(https|grpcs)://`)

// IsTLSEnabled reports whether url names a TLS scheme (https or grpcs)
func IsTLSEnabled(url string) bool {
	return securedScheme.MatchString(url)
}

// TLSConfig locates a PEM file either by Path or inline as Pem.
// Pem takes precedence over Path.
type TLSConfig struct {
	Path string `mapstructure:"path"`
	Pem  string `mapstructure:"pem"`

	bytes []byte
}

// Bytes returns the bytes loaded by LoadBytes
func (cfg *TLSConfig) Bytes() []byte {
	return cfg.bytes
}

// LoadBytes preloads bytes from Pem or Path and checks they hold a PEM block
func (cfg *TLSConfig) LoadBytes() error {
	switch {
	case cfg.Pem != "":
		cfg.bytes = []byte(cfg.Pem)
	case cfg.Path != "":
		b, err := os.ReadFile(filepath.Clean(os.ExpandEnv(cfg.Path)))
		if err != nil {
			return errors.Wrapf(err, "failed to load pem bytes from path %s", cfg.Path)
		}
		cfg.bytes = b
	default:
		return nil
	}

	if block, _ := pem.Decode(cfg.bytes); block == nil {
		return errors.Errorf("no PEM data found in [%s]", cfg.Path)
	}
	return nil
}

// LoadPEMFiles reads every path and returns the PEM contents in order
func LoadPEMFiles(paths ...string) ([][]byte, error) {
	var out [][]byte
	for _, p := range paths {
		cfg := TLSConfig{Path: p}
		if err := cfg.LoadBytes(); err != nil {
			return nil, err
		}
		out = append(out, cfg.Bytes())
	}
	return out, nil
}

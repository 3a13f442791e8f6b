/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package cryptosuite

import (
	"sync"
	"sync/atomic"

	"github.com/pkg/errors"

	"github.com/fish1208/chainmaker-sdk-go/pkg/common/logging"
	"github.com/fish1208/chainmaker-sdk-go/pkg/common/providers/core"
	"github.com/fish1208/chainmaker-sdk-go/pkg/core/cryptosuite/sw"
)

var logger = logging.NewLogger("chainsdk/core")

var initOnce sync.Once
var defaultCryptoSuite core.CryptoSuite
var initialized int32

func initSuite(defaultSuite core.CryptoSuite) error {
	if defaultSuite == nil {
		return errors.New("attempting to set invalid default suite")
	}
	initOnce.Do(func() {
		defaultCryptoSuite = defaultSuite
		atomic.StoreInt32(&initialized, 1)
	})
	return nil
}

// GetDefault returns default core
func GetDefault() core.CryptoSuite {
	if atomic.LoadInt32(&initialized) > 0 {
		return defaultCryptoSuite
	}
	logger.Debug("No default cryptosuite found, using default SW implementation")

	if err := initSuite(sw.NewCryptoSuite()); err != nil {
		logger.Panicf("Could not set default cryptosuite: %s", err)
	}

	return defaultCryptoSuite
}

// SetDefault sets default suite if one is not already set or created
// Make sure you set default suite before very first call to GetDefault(),
// otherwise this function will return an error
func SetDefault(newDefaultSuite core.CryptoSuite) error {
	if atomic.LoadInt32(&initialized) > 0 {
		return errors.New("default crypto suite is already set")
	}
	return initSuite(newDefaultSuite)
}

// DefaultInitialized returns true if a default suite has already been
// set.
func DefaultInitialized() bool {
	return atomic.LoadInt32(&initialized) > 0
}

// Keccak256 hashes msg with the default suite
func Keccak256(msg []byte) []byte {
	digest, err := GetDefault().Hash(msg, core.Keccak256)
	if err != nil {
		logger.Panicf("keccak256 unavailable: %s", err)
	}
	return digest
}

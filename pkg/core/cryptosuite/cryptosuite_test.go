/*
Copyright SecureKey Technologies Inc. All Rights Reserved.
SPDX-License-Identifier: Apache-2.0
*/

package cryptosuite

import (
	"encoding/hex"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/fish1208/chainmaker-sdk-go/pkg/common/providers/core"
	"github.com/fish1208/chainmaker-sdk-go/pkg/core/cryptosuite/sw"
)

const (
	setDefAlreadySetErrorMsg   = "default crypto suite is already set"
	InvalidDefSuiteSetErrorMsg = "attempting to set invalid default suite"
)

func resetDefault() {
	defaultCryptoSuite = nil
	initOnce = sync.Once{}
	atomic.StoreInt32(&initialized, 0)
}

func TestGetDefault(t *testing.T) {
	resetDefault()
	defer resetDefault()

	//At the beginning default suite is nil if no attempts have been made to set or get one
	assert.Empty(t, defaultCryptoSuite, "default suite should be nil if no attempts have been made to set or get one")
	assert.False(t, DefaultInitialized())

	//Now try to get default, it will create one and return
	defSuite := GetDefault()
	assert.NotEmpty(t, defSuite, "Not supposed to be nil defaultCryptSuite")
	assert.True(t, DefaultInitialized(), "'initialized' flag supposed to be set to 1")

	hashbytes, err := defSuite.Hash([]byte("Sample message"), core.SHA256)
	assert.NoError(t, err)
	assert.Len(t, hashbytes, 32)

	//Now attempt to set default suite
	err = SetDefault(nil)
	assert.EqualError(t, err, setDefAlreadySetErrorMsg)

	resetDefault()

	//Now attempt to set invalid default suite
	err = SetDefault(nil)
	assert.EqualError(t, err, InvalidDefSuiteSetErrorMsg)

	err = SetDefault(sw.NewCryptoSuite())
	assert.NoError(t, err, "Not supposed to get error when valid default suite is set")
	assert.True(t, DefaultInitialized())
}

func TestKeccak256(t *testing.T) {
	// keccak256("") is a well known constant
	assert.Equal(t, "c5d2460186f7233c927e7db2dcc703c0e500b653ca82273b7bfad8045d85a470", hex.EncodeToString(Keccak256(nil)))
	assert.Equal(t, "a9059cbb", hex.EncodeToString(Keccak256([]byte("transfer(address,uint256)"))[:4]))
}

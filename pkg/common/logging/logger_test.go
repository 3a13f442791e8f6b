/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/
package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/fish1208/chainmaker-sdk-go/pkg/core/logging/modlog"
)

var moduleName = "module-xyz"

func TestLoggingForCustomProvider(t *testing.T) {
	unsafeReset()
	defer unsafeReset()

	core, logs := observer.New(zap.DebugLevel)
	Initialize(modlog.NewProvider(zap.New(core)))

	SetLevel(moduleName, INFO)
	logger := NewLogger(moduleName)

	logger.Infof("hello %s", "world")
	logger.Debug("hidden")
	logger.Warn("careful")

	assert.Equal(t, 1, logs.FilterMessage("hello world").Len())
	assert.Equal(t, 0, logs.FilterMessage("hidden").Len())
	assert.Equal(t, 1, logs.FilterMessage("careful").Len())

	// a second Initialize is ignored once a provider is in place
	otherCore, otherLogs := observer.New(zap.DebugLevel)
	Initialize(modlog.NewProvider(zap.New(otherCore)))
	NewLogger(moduleName).Error("still first")
	assert.Equal(t, 1, logs.FilterMessage("still first").Len())
	assert.Equal(t, 0, otherLogs.Len())
}

func TestLevels(t *testing.T) {
	SetLevel("module-levels", DEBUG)
	assert.Equal(t, DEBUG, GetLevel("module-levels"))
	assert.True(t, IsEnabledFor("module-levels", DEBUG))

	SetLevel("module-levels", ERROR)
	assert.False(t, IsEnabledFor("module-levels", WARNING))

	l, err := LogLevel("critical")
	require.NoError(t, err)
	assert.Equal(t, CRITICAL, l)

	_, err = LogLevel("bogus")
	assert.Error(t, err)
}

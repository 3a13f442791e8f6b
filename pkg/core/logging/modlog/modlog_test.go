/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package modlog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/fish1208/chainmaker-sdk-go/pkg/core/logging/api"
)

func TestModuleLevelFiltering(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	provider := NewProvider(zap.New(core))

	const module = "modlog-test-filter"
	logger := provider.GetLogger(module)

	SetLevel(module, api.WARNING)
	assert.Equal(t, api.WARNING, GetLevel(module))

	logger.Debugf("debug %d", 1)
	logger.Info("info")
	logger.Warnf("warn %d", 2)
	logger.Error("error")

	entries := logs.All()
	if assert.Len(t, entries, 2) {
		assert.Equal(t, "warn 2", entries[0].Message)
		assert.Equal(t, zapcore.WarnLevel, entries[0].Level)
		assert.Equal(t, module, entries[0].LoggerName)
		assert.Equal(t, "error", entries[1].Message)
	}

	SetLevel(module, api.DEBUG)
	logger.Debug("now visible")
	assert.Equal(t, 1, logs.FilterMessage("now visible").Len())
}

func TestPanicLogs(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	logger := NewProvider(zap.New(core)).GetLogger("modlog-test-panic")

	assert.Panics(t, func() { logger.Panicf("boom %s", "now") })
	assert.Equal(t, 1, logs.FilterMessage("boom now").Len())
}

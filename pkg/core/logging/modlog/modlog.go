/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package modlog is the default module logger implementation. Module log levels are
// evaluated here and the surviving entries are handed to a zap logger named after the module.
package modlog

import (
	"os"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/fish1208/chainmaker-sdk-go/pkg/core/logging/api"
	"github.com/fish1208/chainmaker-sdk-go/pkg/core/logging/metadata"
)

var rwmutex = &sync.RWMutex{}
var moduleLevels = &metadata.ModuleLevels{}

// Provider is the default logger implementation
type Provider struct {
	base *zap.Logger
}

// LoggerProvider returns a provider writing console-encoded entries to stdout
func LoggerProvider() api.LoggerProvider {
	encCfg := zap.NewProductionEncoderConfig()
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	encCfg.EncodeLevel = zapcore.CapitalLevelEncoder

	// zap itself accepts everything, filtering happens per module
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(encCfg), zapcore.Lock(os.Stdout), zap.DebugLevel)
	return NewProvider(zap.New(core))
}

// NewProvider returns a provider backed by the given zap logger
func NewProvider(base *zap.Logger) *Provider {
	return &Provider{base: base}
}

// GetLogger returns SDK logger implementation
func (p *Provider) GetLogger(module string) api.Logger {
	return &Log{
		module: module,
		sugar:  p.base.Named(module).Sugar(),
	}
}

// SetLevel - setting log level for given module
func SetLevel(module string, level api.Level) {
	rwmutex.Lock()
	defer rwmutex.Unlock()
	moduleLevels.SetLevel(module, level)
}

// GetLevel - getting log level for given module
func GetLevel(module string) api.Level {
	rwmutex.RLock()
	defer rwmutex.RUnlock()
	return moduleLevels.GetLevel(module)
}

// IsEnabledFor - Check if given log level is enabled for given module
func IsEnabledFor(module string, level api.Level) bool {
	rwmutex.RLock()
	defer rwmutex.RUnlock()
	return moduleLevels.IsEnabledFor(module, level)
}

// Log is a standard SDK logger implementation
type Log struct {
	module string
	sugar  *zap.SugaredLogger
}

// Fatal is CRITICAL log followed by a call to os.Exit(1).
func (l *Log) Fatal(args ...interface{}) {
	l.sugar.Fatal(args...)
}

// Fatalf is CRITICAL log formatted followed by a call to os.Exit(1).
func (l *Log) Fatalf(format string, args ...interface{}) {
	l.sugar.Fatalf(format, args...)
}

// Panic is CRITICAL log followed by a call to panic()
func (l *Log) Panic(args ...interface{}) {
	l.sugar.Panic(args...)
}

// Panicf is CRITICAL log formatted followed by a call to panic()
func (l *Log) Panicf(format string, args ...interface{}) {
	l.sugar.Panicf(format, args...)
}

// Debug logs when the module level allows it.
func (l *Log) Debug(args ...interface{}) {
	if IsEnabledFor(l.module, api.DEBUG) {
		l.sugar.Debug(args...)
	}
}

// Debugf logs when the module level allows it.
func (l *Log) Debugf(format string, args ...interface{}) {
	if IsEnabledFor(l.module, api.DEBUG) {
		l.sugar.Debugf(format, args...)
	}
}

// Info logs when the module level allows it.
func (l *Log) Info(args ...interface{}) {
	if IsEnabledFor(l.module, api.INFO) {
		l.sugar.Info(args...)
	}
}

// Infof logs when the module level allows it.
func (l *Log) Infof(format string, args ...interface{}) {
	if IsEnabledFor(l.module, api.INFO) {
		l.sugar.Infof(format, args...)
	}
}

// Warn logs when the module level allows it.
func (l *Log) Warn(args ...interface{}) {
	if IsEnabledFor(l.module, api.WARNING) {
		l.sugar.Warn(args...)
	}
}

// Warnf logs when the module level allows it.
func (l *Log) Warnf(format string, args ...interface{}) {
	if IsEnabledFor(l.module, api.WARNING) {
		l.sugar.Warnf(format, args...)
	}
}

// Error logs when the module level allows it.
func (l *Log) Error(args ...interface{}) {
	if IsEnabledFor(l.module, api.ERROR) {
		l.sugar.Error(args...)
	}
}

// Errorf logs when the module level allows it.
func (l *Log) Errorf(format string, args ...interface{}) {
	if IsEnabledFor(l.module, api.ERROR) {
		l.sugar.Errorf(format, args...)
	}
}

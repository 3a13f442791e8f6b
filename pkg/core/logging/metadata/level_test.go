/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/
package metadata

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fish1208/chainmaker-sdk-go/pkg/core/logging/api"
)

func TestLogLevels(t *testing.T) {

	mlevel := ModuleLevels{}

	mlevel.SetLevel("module-xyz-info", api.INFO)
	mlevel.SetLevel("module-xyz-debug", api.DEBUG)
	mlevel.SetLevel("module-xyz-error", api.ERROR)

	//Run info level checks
	assert.True(t, mlevel.IsEnabledFor("module-xyz-info", api.INFO))
	assert.False(t, mlevel.IsEnabledFor("module-xyz-info", api.DEBUG))
	assert.True(t, mlevel.IsEnabledFor("module-xyz-info", api.ERROR))

	//Run debug level checks
	assert.True(t, mlevel.IsEnabledFor("module-xyz-debug", api.DEBUG))
	assert.True(t, mlevel.IsEnabledFor("module-xyz-debug", api.WARNING))

	//Run error level checks
	assert.False(t, mlevel.IsEnabledFor("module-xyz-error", api.INFO))
	assert.False(t, mlevel.IsEnabledFor("module-xyz-error", api.WARNING))
	assert.True(t, mlevel.IsEnabledFor("module-xyz-error", api.CRITICAL))

	// unknown module falls back to INFO
	assert.True(t, mlevel.IsEnabledFor("module-unknown", api.INFO))
	assert.False(t, mlevel.IsEnabledFor("module-unknown", api.DEBUG))

	// default module level
	mlevel.SetLevel("", api.DEBUG)
	assert.True(t, mlevel.IsEnabledFor("module-unknown", api.DEBUG))
}

func TestParseLevel(t *testing.T) {
	l, err := ParseLevel("debug")
	require.NoError(t, err)
	assert.Equal(t, api.DEBUG, l)

	l, err = ParseLevel("Warning")
	require.NoError(t, err)
	assert.Equal(t, api.WARNING, l)

	_, err = ParseLevel("verbose")
	assert.Error(t, err)

	assert.Equal(t, "INFO", ParseString(api.INFO))
	assert.Equal(t, "UNKNOWN", ParseString(api.Level(42)))
}

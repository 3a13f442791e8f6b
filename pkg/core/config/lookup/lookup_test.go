/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package lookup

import (
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fish1208/chainmaker-sdk-go/pkg/core/mocks"
)

type kv = map[string]interface{}

func backend(values kv) *mocks.MockConfigBackend {
	return mocks.NewMockConfigBackend(values)
}

func TestLookupPrecedence(t *testing.T) {
	first := backend(kv{"chain_id": "chain1"})
	second := backend(kv{"chain_id": "chain2", "org_id": "org1"})
	l := New(nil, first, second)

	assert.Equal(t, "chain1", l.GetString("chain_id"))
	assert.Equal(t, "org1", l.GetString("org_id"))
	_, ok := l.Lookup("missing")
	assert.False(t, ok)
}

func TestTypedGetters(t *testing.T) {
	l := New(backend(kv{
		"enable_tls": "true",
		"conn_cnt":   "3",
		"runtime":    "evm",
		"request":    "1500ms",
		"result":     20,
		"orgs":       []interface{}{"org1", "org2"},
	}))

	assert.True(t, l.GetBool("enable_tls"))
	assert.False(t, l.GetBool("missing"))
	assert.Equal(t, 3, l.GetInt("conn_cnt"))
	assert.Zero(t, l.GetInt("missing"))
	assert.Equal(t, "EVM", l.GetUpperString("runtime"))
	assert.Equal(t, 1500*time.Millisecond, l.GetDuration("request"))
	assert.Equal(t, 20*time.Second, l.GetDuration("result"))
	assert.Zero(t, l.GetDuration("missing"))
	assert.Equal(t, []string{"org1", "org2"}, l.GetStringSlice("orgs"))
	assert.Nil(t, l.GetStringSlice("missing"))
}

type node struct {
	Addr    string        `mapstructure:"node_addr"`
	Roots   []string      `mapstructure:"trust_root_paths"`
	Timeout time.Duration `mapstructure:"timeout"`
	ConnCnt int           `mapstructure:"conn_cnt"`
}

func TestUnmarshalKey(t *testing.T) {
	l := New(backend(kv{
		"node": map[string]interface{}{
			"node_addr":        "127.0.0.1:12301",
			"trust_root_paths": "a.crt,b.crt",
			"timeout":          "5s",
			"conn_cnt":         "2",
		},
	}))

	n := node{}
	require.NoError(t, l.UnmarshalKey("node", &n))
	assert.Equal(t, "127.0.0.1:12301", n.Addr)
	assert.Equal(t, []string{"a.crt", "b.crt"}, n.Roots)
	assert.Equal(t, 5*time.Second, n.Timeout)
	assert.Equal(t, 2, n.ConnCnt)

	untouched := node{Addr: "keep"}
	require.NoError(t, l.UnmarshalKey("missing", &untouched))
	assert.Equal(t, "keep", untouched.Addr)
}

func TestUnmarshalHook(t *testing.T) {
	l := New(backend(kv{"node": kv{"node_addr": "NODE1"}}))
	lower := func(from reflect.Type, to reflect.Type, data interface{}) (interface{}, error) {
		if s, ok := data.(string); ok {
			return strings.ToLower(s), nil
		}
		return data, nil
	}

	n := node{}
	require.NoError(t, l.UnmarshalKey("node", &n, WithUnmarshalHookFunction(lower)))
	assert.Equal(t, "node1", n.Addr)
}

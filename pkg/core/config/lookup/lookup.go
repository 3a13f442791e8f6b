/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package lookup

import (
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/cast"

	"github.com/fish1208/chainmaker-sdk-go/pkg/common/providers/core"
)

// New returns a lookup over backends. Earlier backends take precedence.
func New(coreBackends ...core.ConfigBackend) *ConfigLookup {
	return &ConfigLookup{backends: coreBackends}
}

type unmarshalOpts struct {
	hooks []mapstructure.DecodeHookFunc
}

// UnmarshalOption describes a functional parameter unmarshaling
type UnmarshalOption func(o *unmarshalOpts)

// WithUnmarshalHookFunction adds a decode hook applied after the defaults
func WithUnmarshalHookFunction(hookFunction mapstructure.DecodeHookFunc) UnmarshalOption {
	return func(o *unmarshalOpts) {
		o.hooks = append(o.hooks, hookFunction)
	}
}

// ConfigLookup performs typed key lookups over one or more config backends
type ConfigLookup struct {
	backends []core.ConfigBackend
}

// Lookup returns the value of key from the first backend that has it
func (c *ConfigLookup) Lookup(key string) (interface{}, bool) {
	for _, backend := range c.backends {
		if backend == nil {
			continue
		}
		val, ok := backend.Lookup(key)
		if ok {
			return val, true
		}
	}
	return nil, false
}

// GetBool returns bool value for given key
func (c *ConfigLookup) GetBool(key string) bool {
	value, ok := c.Lookup(key)
	if !ok {
		return false
	}
	return cast.ToBool(value)
}

// GetString returns string value for given key
func (c *ConfigLookup) GetString(key string) string {
	value, ok := c.Lookup(key)
	if !ok {
		return ""
	}
	return cast.ToString(value)
}

// GetUpperString returns the upper case string value for given key
func (c *ConfigLookup) GetUpperString(key string) string {
	return strings.ToUpper(c.GetString(key))
}

// GetInt returns int value for given key
func (c *ConfigLookup) GetInt(key string) int {
	value, ok := c.Lookup(key)
	if !ok {
		return 0
	}
	return cast.ToInt(value)
}

// GetStringSlice returns the string list for given key
func (c *ConfigLookup) GetStringSlice(key string) []string {
	value, ok := c.Lookup(key)
	if !ok {
		return nil
	}
	return cast.ToStringSlice(value)
}

// GetDuration returns time.Duration value for given key. Plain numbers are
// read as seconds.
func (c *ConfigLookup) GetDuration(key string) time.Duration {
	value, ok := c.Lookup(key)
	if !ok {
		return 0
	}
	switch v := value.(type) {
	case int, int32, int64, float64:
		return time.Duration(cast.ToFloat64(v) * float64(time.Second))
	}
	return cast.ToDuration(value)
}

// UnmarshalKey decodes the value of key into rawVal. A missing key leaves
// rawVal untouched.
func (c *ConfigLookup) UnmarshalKey(key string, rawVal interface{}, opts ...UnmarshalOption) error {
	value, ok := c.Lookup(key)
	if !ok {
		return nil
	}

	unmarshalHooks := []mapstructure.DecodeHookFunc{
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
	}

	unmarshalOptions := unmarshalOpts{}
	for _, param := range opts {
		param(&unmarshalOptions)
	}

	hookFn := mapstructure.ComposeDecodeHookFunc(append(unmarshalHooks, unmarshalOptions.hooks...)...)

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:       hookFn,
		WeaklyTypedInput: true,
		Result:           rawVal,
	})
	if err != nil {
		return err
	}

	return decoder.Decode(value)
}

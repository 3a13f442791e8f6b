/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package mocks

// MockConfigBackend is an in-memory config backend for unit tests
type MockConfigBackend struct {
	// KeyValueMap holds the values served by Lookup, keyed by full config key
	KeyValueMap map[string]interface{}
}

// NewMockConfigBackend returns a backend serving kv
func NewMockConfigBackend(kv map[string]interface{}) *MockConfigBackend {
	return &MockConfigBackend{KeyValueMap: kv}
}

// Lookup returns the value stored for key
func (b *MockConfigBackend) Lookup(key string) (interface{}, bool) {
	v, ok := b.KeyValueMap[key]
	return v, ok
}

/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package txn

import (
	"strings"

	"github.com/pkg/errors"
)

// RuntimeType is the virtual machine a contract runs on
type RuntimeType int32

// Runtime types
const (
	RuntimeInvalid RuntimeType = iota
	RuntimeNative
	RuntimeWASMER
	RuntimeWXVM
	RuntimeGASM
	RuntimeEVM
	RuntimeDockerGo
)

var runtimeTypeName = map[RuntimeType]string{
	RuntimeInvalid:  "INVALID",
	RuntimeNative:   "NATIVE",
	RuntimeWASMER:   "WASMER",
	RuntimeWXVM:     "WXVM",
	RuntimeGASM:     "GASM",
	RuntimeEVM:      "EVM",
	RuntimeDockerGo: "DOCKER_GO",
}

func (r RuntimeType) String() string {
	if s, ok := runtimeTypeName[r]; ok {
		return s
	}
	return "INVALID"
}

// ParseRuntimeType parses a runtime type name such as "EVM" or "wasmer"
func ParseRuntimeType(s string) (RuntimeType, error) {
	name := strings.ToUpper(strings.TrimSpace(s))
	for r, n := range runtimeTypeName {
		if n == name && r != RuntimeInvalid {
			return r, nil
		}
	}
	return RuntimeInvalid, errors.Errorf("unknown runtime type %q", s)
}

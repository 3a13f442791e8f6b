/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package comm

import (
	"github.com/pkg/errors"
)

// CodecName is the content subtype negotiated with nodes
const CodecName = "proto"

// Codec is a gRPC codec for Message values. It is installed per call
// with grpc.ForceCodec on the client and grpc.ForceServerCodec on mock servers.
type Codec struct{}

// Marshal encodes v, which must be a Message
func (Codec) Marshal(v interface{}) ([]byte, error) {
	m, ok := v.(Message)
	if !ok {
		return nil, errors.Errorf("cannot marshal %T: not a wire message", v)
	}
	return m.Marshal()
}

// Unmarshal decodes data into v, which must be a Message
func (Codec) Unmarshal(data []byte, v interface{}) error {
	m, ok := v.(Message)
	if !ok {
		return errors.Errorf("cannot unmarshal into %T: not a wire message", v)
	}
	return m.Unmarshal(data)
}

// Name returns the codec name
func (Codec) Name() string {
	return CodecName
}

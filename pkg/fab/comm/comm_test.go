/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package comm

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/encoding/protowire"

	"github.com/fish1208/chainmaker-sdk-go/pkg/msp/test/mockmsp"
)

type testMessage struct {
	name  string
	count uint64
	data  []byte
}

func (m *testMessage) Marshal() ([]byte, error) {
	var b []byte
	b = AppendString(b, 1, m.name)
	b = AppendVarint(b, 2, m.count)
	b = AppendBytes(b, 3, m.data)
	return b, nil
}

func (m *testMessage) Unmarshal(b []byte) error {
	return ConsumeFields(b, func(f Field) error {
		switch f.Num {
		case 1:
			m.name = string(f.Bytes)
		case 2:
			m.count = f.Varint
		case 3:
			m.data = append([]byte{}, f.Bytes...)
		}
		return nil
	})
}

func TestCodecRoundTrip(t *testing.T) {
	in := &testMessage{name: "node1", count: 42, data: []byte{1, 2, 3}}

	codec := Codec{}
	assert.Equal(t, CodecName, codec.Name())

	b, err := codec.Marshal(in)
	require.NoError(t, err)

	out := &testMessage{}
	require.NoError(t, codec.Unmarshal(b, out))
	assert.Equal(t, in, out)

	_, err = codec.Marshal("not a message")
	assert.Error(t, err)
	assert.Error(t, codec.Unmarshal(b, new(string)))
}

func TestZeroFieldsOmitted(t *testing.T) {
	b, err := (&testMessage{}).Marshal()
	require.NoError(t, err)
	assert.Empty(t, b)

	assert.NotEmpty(t, AppendMessage(nil, 1, nil))
}

func TestConsumeFieldsSkipsUnknownTypes(t *testing.T) {
	var b []byte
	b = protowire.AppendTag(b, 9, protowire.Fixed64Type)
	b = protowire.AppendFixed64(b, 7)
	b = AppendString(b, 1, "after")

	out := &testMessage{}
	require.NoError(t, out.Unmarshal(b))
	assert.Equal(t, "after", out.name)

	err := out.Unmarshal([]byte{0x0a, 0x05, 'a'})
	assert.Error(t, err)
}

func TestToAddress(t *testing.T) {
	assert.Equal(t, "127.0.0.1:12301", ToAddress("grpcs://127.0.0.1:12301"))
	assert.Equal(t, "127.0.0.1:12301", ToAddress("grpc://127.0.0.1:12301"))
	assert.Equal(t, "127.0.0.1:12301", ToAddress("127.0.0.1:12301"))
}

func TestTLSConfig(t *testing.T) {
	keyPEM, certPEM, err := mockmsp.NewCertKeyPair("org1", "node1")
	require.NoError(t, err)

	p := defaultParams()
	for _, opt := range []ConnectionOpt{
		WithTLS(certPEM),
		WithHostOverride("chainmaker.org"),
		WithClientCertificate(keyPEM, certPEM),
		WithMaxRecvMsgSize(0),
	} {
		opt(p)
	}
	assert.Equal(t, DefaultMaxRecvMsgSize, p.maxRecvMsgSize)

	config, err := newTLSConfig(p)
	require.NoError(t, err)
	assert.Equal(t, "chainmaker.org", config.ServerName)
	assert.Len(t, config.Certificates, 1)

	WithTLS([]byte("garbage"))(p)
	_, err = newTLSConfig(p)
	assert.Error(t, err)
}

func TestDialRequiresURL(t *testing.T) {
	_, err := Dial(context.Background(), "")
	assert.Error(t, err)
}

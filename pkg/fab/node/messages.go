/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package node

import (
	"github.com/pkg/errors"

	"github.com/fish1208/chainmaker-sdk-go/pkg/common/providers/fab"
	"github.com/fish1208/chainmaker-sdk-go/pkg/fab/comm"
	"github.com/fish1208/chainmaker-sdk-go/pkg/fab/txn"
)

// RPC method names served by nodes
const (
	MethodSendRequest  = "/api.RpcNode/SendRequest"
	MethodQueryRequest = "/api.RpcNode/QueryRequest"
	MethodSubscribe    = "/api.RpcNode/Subscribe"
)

// RequestMessage carries a signed request on the wire
type RequestMessage struct {
	Request *fab.TxRequest
}

// Marshal encodes the request
func (m *RequestMessage) Marshal() ([]byte, error) {
	return txn.MarshalTxRequest(m.Request)
}

// Unmarshal decodes a request
func (m *RequestMessage) Unmarshal(b []byte) error {
	req, err := txn.UnmarshalTxRequest(b)
	if err != nil {
		return err
	}
	m.Request = req
	return nil
}

// ResponseMessage carries a node's answer to a request
type ResponseMessage struct {
	Response *fab.TxResponse
}

// Marshal encodes the response
func (m *ResponseMessage) Marshal() ([]byte, error) {
	return txn.MarshalTxResponse(m.Response)
}

// Unmarshal decodes a response. A success code paired with a failed contract
// result is reported as ContractFail.
func (m *ResponseMessage) Unmarshal(b []byte) error {
	r, err := txn.UnmarshalTxResponse(b)
	if err != nil {
		return err
	}
	m.Response = r
	return nil
}

// EventMessage carries one contract event on a subscription stream
type EventMessage struct {
	Event *fab.ContractEvent
}

// Marshal encodes the event
func (m *EventMessage) Marshal() ([]byte, error) {
	e := m.Event
	if e == nil {
		return nil, errors.New("event is nil")
	}
	var b []byte
	b = comm.AppendString(b, 1, e.Topic)
	b = comm.AppendString(b, 2, e.TxID)
	b = comm.AppendString(b, 3, e.ContractName)
	b = comm.AppendVarint(b, 4, e.BlockHeight)
	for _, d := range e.EventData {
		b = comm.AppendMessage(b, 5, []byte(d))
	}
	return b, nil
}

// Unmarshal decodes an event
func (m *EventMessage) Unmarshal(b []byte) error {
	e := &fab.ContractEvent{}
	err := comm.ConsumeFields(b, func(f comm.Field) error {
		switch f.Num {
		case 1:
			e.Topic = string(f.Bytes)
		case 2:
			e.TxID = string(f.Bytes)
		case 3:
			e.ContractName = string(f.Bytes)
		case 4:
			e.BlockHeight = f.Varint
		case 5:
			e.EventData = append(e.EventData, string(f.Bytes))
		}
		return nil
	})
	if err != nil {
		return errors.WithMessage(err, "unmarshal event failed")
	}
	m.Event = e
	return nil
}

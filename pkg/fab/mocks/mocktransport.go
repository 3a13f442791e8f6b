/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package mocks

import (
	"context"
	"sync"
	"time"

	"github.com/fish1208/chainmaker-sdk-go/pkg/common/providers/fab"
)

// MockTransport is a scriptable fab.Node.
//
// NeverAck makes SubmitTransaction block until its context is done, the
// "never acknowledged" case. NeverFinalize makes AwaitFinalization block the
// same way after a successful acknowledgment, the "acked but never
// finalized" case. Configure the fields before first use.
type MockTransport struct {
	NodeURL string

	NeverAck      bool
	AckDelay      time.Duration
	Ack           *fab.Ack
	SubmitErr     error
	NeverFinalize bool
	FinalizeDelay time.Duration
	Result        *fab.TxResponse
	FinalizeErr   error
	QueryResult   *fab.TxResponse
	QueryErr      error
	Events        []*fab.ContractEvent

	mutex      sync.Mutex
	submitted  []*fab.TxRequest
	queried    []*fab.TxRequest
	subscribed []*fab.TxRequest
	awaited    []string
	closed     bool
}

// NewMockTransport returns a transport that acknowledges and finalizes every
// transaction successfully
func NewMockTransport(url string) *MockTransport {
	return &MockTransport{NodeURL: url}
}

// URL returns the node URL
func (m *MockTransport) URL() string {
	return m.NodeURL
}

// Close marks the transport closed
func (m *MockTransport) Close() error {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.closed = true
	return nil
}

// Closed reports whether Close was called
func (m *MockTransport) Closed() bool {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	return m.closed
}

// SubmitTransaction records req and answers with the scripted acknowledgment
func (m *MockTransport) SubmitTransaction(ctx context.Context, req *fab.TxRequest) (*fab.Ack, error) {
	m.mutex.Lock()
	m.submitted = append(m.submitted, req)
	m.mutex.Unlock()

	if m.NeverAck {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	if err := sleep(ctx, m.AckDelay); err != nil {
		return nil, err
	}
	if m.SubmitErr != nil {
		return nil, m.SubmitErr
	}

	ack := &fab.Ack{TxID: req.Payload.TxID, Code: fab.Success}
	if m.Ack != nil {
		ack.Code = m.Ack.Code
		ack.Message = m.Ack.Message
	}
	return ack, nil
}

// AwaitFinalization answers with the scripted result for txID
func (m *MockTransport) AwaitFinalization(ctx context.Context, txID string) (*fab.TxResponse, error) {
	m.mutex.Lock()
	m.awaited = append(m.awaited, txID)
	m.mutex.Unlock()

	if m.NeverFinalize {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	if err := sleep(ctx, m.FinalizeDelay); err != nil {
		return nil, err
	}
	if m.FinalizeErr != nil {
		return nil, m.FinalizeErr
	}
	return withTxID(m.Result, txID), nil
}

// QueryState records req and answers with the scripted query result
func (m *MockTransport) QueryState(ctx context.Context, req *fab.TxRequest) (*fab.TxResponse, error) {
	m.mutex.Lock()
	m.queried = append(m.queried, req)
	m.mutex.Unlock()

	if err := sleep(ctx, m.AckDelay); err != nil {
		return nil, err
	}
	if m.QueryErr != nil {
		return nil, m.QueryErr
	}
	return withTxID(m.QueryResult, req.Payload.TxID), nil
}

// SubscribeContractEvents streams the scripted events then closes the channel
func (m *MockTransport) SubscribeContractEvents(ctx context.Context, req *fab.TxRequest) (<-chan *fab.ContractEvent, error) {
	m.mutex.Lock()
	m.subscribed = append(m.subscribed, req)
	events := append([]*fab.ContractEvent{}, m.Events...)
	m.mutex.Unlock()

	ch := make(chan *fab.ContractEvent)
	go func() {
		defer close(ch)
		for _, e := range events {
			select {
			case ch <- e:
			case <-ctx.Done():
				return
			}
		}
	}()
	return ch, nil
}

// Submitted returns the requests received by SubmitTransaction
func (m *MockTransport) Submitted() []*fab.TxRequest {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	return append([]*fab.TxRequest{}, m.submitted...)
}

// Queried returns the requests received by QueryState
func (m *MockTransport) Queried() []*fab.TxRequest {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	return append([]*fab.TxRequest{}, m.queried...)
}

// Subscribed returns the requests received by SubscribeContractEvents
func (m *MockTransport) Subscribed() []*fab.TxRequest {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	return append([]*fab.TxRequest{}, m.subscribed...)
}

// Awaited returns the transaction ids passed to AwaitFinalization
func (m *MockTransport) Awaited() []string {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	return append([]string{}, m.awaited...)
}

func withTxID(tmpl *fab.TxResponse, txID string) *fab.TxResponse {
	res := &fab.TxResponse{Code: fab.Success}
	if tmpl != nil {
		c := *tmpl
		res = &c
	}
	res.TxID = txID
	return res
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

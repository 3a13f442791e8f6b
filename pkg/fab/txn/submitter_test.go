/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package txn_test

import (
	"context"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fish1208/chainmaker-sdk-go/pkg/common/errors/status"
	"github.com/fish1208/chainmaker-sdk-go/pkg/common/providers/fab"
	"github.com/fish1208/chainmaker-sdk-go/pkg/fab/mocks"
	"github.com/fish1208/chainmaker-sdk-go/pkg/fab/txn"
	"github.com/fish1208/chainmaker-sdk-go/pkg/msp"
	"github.com/fish1208/chainmaker-sdk-go/pkg/msp/test/mockmsp"
)

const (
	shortTimeout = 50 * time.Millisecond
	longTimeout  = 5 * time.Second
)

func newSubmitter(t *testing.T, nodes ...fab.Transport) *txn.Submitter {
	s, _ := newSubmitterWithSender(t, nodes...)
	return s
}

func newSubmitterWithSender(t *testing.T, nodes ...fab.Transport) (*txn.Submitter, *msp.SigningIdentity) {
	sender, err := mockmsp.NewSigningIdentity("org1")
	require.NoError(t, err)
	s, err := txn.NewSubmitter(sender, nodes...)
	require.NoError(t, err)
	return s, sender
}

func newPayload(t *testing.T, query bool) *fab.Payload {
	b := newBuilder(t)
	var p *fab.Payload
	var err error
	if query {
		p, err = b.BuildQuery("fact", "find", nil, txn.VersionMetadata{})
	} else {
		p, err = b.Build("fact", "save", nil, txn.VersionMetadata{})
	}
	require.NoError(t, err)
	return p
}

func TestNewSubmitter(t *testing.T) {
	_, err := txn.NewSubmitter(nil, mocks.NewMockTransport("node1"))
	assert.Error(t, err)

	sender, err := mockmsp.NewSigningIdentity("org1")
	require.NoError(t, err)
	_, err = txn.NewSubmitter(sender)
	assert.True(t, status.IsCode(err, status.NoNodesFound))
}

func TestSubmitFinalized(t *testing.T) {
	node := mocks.NewMockTransport("node1")
	node.Result = &fab.TxResponse{Code: fab.Success, Result: []byte("ok"), BlockHeight: 7}
	s, sender := newSubmitterWithSender(t, node)

	p := newPayload(t, false)
	endorsement := &fab.EndorsementEntry{OrgID: "org2", Signature: []byte{1}}
	res, err := s.Submit(context.Background(), p, []*fab.EndorsementEntry{endorsement}, longTimeout, longTimeout)
	require.NoError(t, err)
	assert.Equal(t, p.TxID, res.TxID)
	assert.Equal(t, []byte("ok"), res.Result)
	assert.Equal(t, uint64(7), res.BlockHeight)

	submitted := node.Submitted()
	require.Len(t, submitted, 1)
	req := submitted[0]
	assert.Same(t, p, req.Payload)
	assert.Equal(t, []*fab.EndorsementEntry{endorsement}, req.Endorsers)
	require.NotNil(t, req.Sender)
	assert.Equal(t, "org1", req.Sender.OrgID)

	// the sender's signature covers the canonical payload bytes
	b, err := txn.MarshalPayload(p)
	require.NoError(t, err)
	assert.NoError(t, sender.Verify(b, req.Sender.Signature))
	info, err := sender.Serialize()
	require.NoError(t, err)
	assert.Equal(t, info, req.Sender.MemberInfo)

	assert.Equal(t, []string{p.TxID}, node.Awaited())
	assert.Empty(t, node.Queried())
}

func TestSubmitContractOutcomes(t *testing.T) {
	for _, code := range []fab.TxStatusCode{fab.ContractFail, fab.OutOfGas, fab.ContractPanic} {
		node := mocks.NewMockTransport("node1")
		node.Result = &fab.TxResponse{Code: code, ContractMessage: "boom"}
		s := newSubmitter(t, node)

		res, err := s.Submit(context.Background(), newPayload(t, false), nil, longTimeout, longTimeout)
		require.NoError(t, err)
		assert.Equal(t, code, res.Code)
		assert.False(t, res.Succeeded())
	}
}

func TestSubmitTimeoutSeparation(t *testing.T) {
	t.Run("never acknowledged", func(t *testing.T) {
		node := mocks.NewMockTransport("node1")
		node.NeverAck = true
		s := newSubmitter(t, node)

		_, err := s.Submit(context.Background(), newPayload(t, false), nil, shortTimeout, longTimeout)
		require.Error(t, err)
		assert.True(t, status.IsCode(err, status.SubmissionTimeout), "unexpected error: %v", err)
		assert.False(t, status.IsCode(err, status.ResultTimeout))
		assert.Empty(t, node.Awaited())
	})

	t.Run("acknowledged but never finalized", func(t *testing.T) {
		node := mocks.NewMockTransport("node1")
		node.NeverFinalize = true
		s := newSubmitter(t, node)

		_, err := s.Submit(context.Background(), newPayload(t, false), nil, longTimeout, shortTimeout)
		require.Error(t, err)
		assert.True(t, status.IsCode(err, status.ResultTimeout), "unexpected error: %v", err)
		assert.False(t, status.IsCode(err, status.SubmissionTimeout))
		assert.Len(t, node.Awaited(), 1)
	})
}

func TestSubmitWithoutWaiting(t *testing.T) {
	node := mocks.NewMockTransport("node1")
	node.NeverFinalize = true
	s := newSubmitter(t, node)

	p := newPayload(t, false)
	res, err := s.Submit(context.Background(), p, nil, longTimeout, 0)
	require.NoError(t, err)
	assert.Equal(t, fab.Success, res.Code)
	assert.Equal(t, p.TxID, res.TxID)
	assert.Empty(t, node.Awaited())
}

func TestSubmitRejectedAck(t *testing.T) {
	node := mocks.NewMockTransport("node1")
	node.Ack = &fab.Ack{Code: fab.DuplicateTxID, Message: "tx id exists"}
	s := newSubmitter(t, node)

	res, err := s.Submit(context.Background(), newPayload(t, false), nil, longTimeout, longTimeout)
	require.NoError(t, err)
	assert.Equal(t, fab.DuplicateTxID, res.Code)
	assert.Equal(t, "tx id exists", res.Message)
	assert.Empty(t, node.Awaited())
}

func TestSubmitCancelled(t *testing.T) {
	node := mocks.NewMockTransport("node1")
	node.NeverFinalize = true
	s := newSubmitter(t, node)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(shortTimeout)
		cancel()
	}()

	_, err := s.Submit(ctx, newPayload(t, false), nil, longTimeout, longTimeout)
	assert.True(t, status.IsCode(err, status.Cancelled), "unexpected error: %v", err)
}

func TestSubmitFailover(t *testing.T) {
	bad := mocks.NewMockTransport("bad")
	bad.SubmitErr = errors.New("connection refused")
	good := mocks.NewMockTransport("good")
	s := newSubmitter(t, bad, good)

	for i := 0; i < 10; i++ {
		res, err := s.Submit(context.Background(), newPayload(t, false), nil, longTimeout, longTimeout)
		require.NoError(t, err)
		assert.Equal(t, fab.Success, res.Code)
	}
	assert.Len(t, good.Submitted(), 10)
	assert.Len(t, good.Awaited(), 10)
	assert.Empty(t, bad.Awaited())
}

func TestSubmitAllNodesFail(t *testing.T) {
	n1 := mocks.NewMockTransport("node1")
	n1.SubmitErr = errors.New("connection refused")
	n2 := mocks.NewMockTransport("node2")
	n2.SubmitErr = errors.New("connection reset")
	s := newSubmitter(t, n1, n2)

	_, err := s.Submit(context.Background(), newPayload(t, false), nil, longTimeout, longTimeout)
	require.Error(t, err)
	assert.True(t, status.IsCode(err, status.ConnectionFailed), "unexpected error: %v", err)

	st, ok := status.FromError(err)
	require.True(t, ok)
	assert.Len(t, st.Details, 2)
	assert.Contains(t, err.Error(), "node [node1]")
	assert.Contains(t, err.Error(), "node [node2]")
}

func TestSubmitRejectsQueryPayload(t *testing.T) {
	s := newSubmitter(t, mocks.NewMockTransport("node1"))
	_, err := s.Submit(context.Background(), newPayload(t, true), nil, longTimeout, longTimeout)
	assert.True(t, status.IsCode(err, status.InvalidPayload))

	_, err = s.Submit(context.Background(), nil, nil, longTimeout, longTimeout)
	assert.True(t, status.IsCode(err, status.InvalidPayload))
}

func TestQueryRouting(t *testing.T) {
	node := mocks.NewMockTransport("node1")
	node.QueryResult = &fab.TxResponse{Code: fab.Success, Result: []byte("42")}
	s := newSubmitter(t, node)

	p := newPayload(t, true)
	res, err := s.Query(context.Background(), p, longTimeout)
	require.NoError(t, err)
	assert.Equal(t, []byte("42"), res.Result)

	queried := node.Queried()
	require.Len(t, queried, 1)
	assert.Empty(t, queried[0].Endorsers)
	assert.Empty(t, node.Submitted())
	assert.Empty(t, node.Awaited())

	_, err = s.Query(context.Background(), newPayload(t, false), longTimeout)
	assert.True(t, status.IsCode(err, status.InvalidPayload))
	assert.Len(t, node.Queried(), 1)
}

func TestQueryTimeout(t *testing.T) {
	node := mocks.NewMockTransport("node1")
	node.AckDelay = longTimeout
	s := newSubmitter(t, node)

	_, err := s.Query(context.Background(), newPayload(t, true), shortTimeout)
	assert.True(t, status.IsCode(err, status.SubmissionTimeout), "unexpected error: %v", err)
}

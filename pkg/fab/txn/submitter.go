/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package txn

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/pkg/errors"

	"github.com/fish1208/chainmaker-sdk-go/pkg/common/errors/multi"
	"github.com/fish1208/chainmaker-sdk-go/pkg/common/errors/status"
	"github.com/fish1208/chainmaker-sdk-go/pkg/common/providers/fab"
	"github.com/fish1208/chainmaker-sdk-go/pkg/common/providers/msp"
)

// Submitter signs requests as the sender and delivers them to nodes
type Submitter struct {
	sender msp.SigningIdentity
	nodes  []fab.Transport
}

// NewSubmitter returns a submitter that signs as sender and sends to nodes
func NewSubmitter(sender msp.SigningIdentity, nodes ...fab.Transport) (*Submitter, error) {
	if sender == nil {
		return nil, errors.New("sender identity is required")
	}
	if len(nodes) == 0 {
		return nil, status.New(status.ClientStatus, status.NoNodesFound.ToInt32(), "no nodes to submit to", nil)
	}
	return &Submitter{sender: sender, nodes: nodes}, nil
}

// Submit sends a state-changing payload with its endorsements.
//
// requestTimeout bounds the wait for a node to acknowledge the transaction
// and expiry fails with SubmissionTimeout. resultTimeout then bounds the wait
// for finalization and expiry fails with ResultTimeout. If resultTimeout is
// not positive the acknowledgment is returned without waiting. A rejected
// acknowledgment is returned as a TxResponse carrying the node's code.
func (s *Submitter) Submit(ctx context.Context, payload *fab.Payload, endorsements []*fab.EndorsementEntry, requestTimeout, resultTimeout time.Duration) (*fab.TxResponse, error) {
	if payload != nil && payload.TxType == fab.QueryContract {
		return nil, invalidPayload("query payloads must be sent with Query")
	}
	req, err := s.NewRequest(payload, endorsements)
	if err != nil {
		return nil, err
	}

	reqCtx, cancel := withTimeout(ctx, requestTimeout)
	defer cancel()

	var ack *fab.Ack
	node, err := s.tryNodes(reqCtx, func(t fab.Transport) error {
		a, err := t.SubmitTransaction(reqCtx, req)
		if err == nil && a == nil {
			err = errors.New("node returned no acknowledgment")
		}
		ack = a
		return err
	})
	if err != nil {
		return nil, phaseError(ctx, reqCtx, err, status.SubmissionTimeout, payload.TxID)
	}

	if !ack.Accepted() {
		logger.Debugf("transaction [%s] rejected with %s: %s", payload.TxID, ack.Code, ack.Message)
		return &fab.TxResponse{TxID: payload.TxID, Code: ack.Code, Message: ack.Message}, nil
	}
	if resultTimeout <= 0 {
		return &fab.TxResponse{TxID: payload.TxID, Code: fab.Success, Message: ack.Message}, nil
	}

	resCtx, cancelRes := context.WithTimeout(ctx, resultTimeout)
	defer cancelRes()

	res, err := node.AwaitFinalization(resCtx, payload.TxID)
	if err != nil {
		return nil, phaseError(ctx, resCtx, err, status.ResultTimeout, payload.TxID)
	}
	if res == nil {
		return nil, errors.Errorf("node returned no result for transaction [%s]", payload.TxID)
	}
	logger.Debugf("transaction [%s] finalized with %s", payload.TxID, res.Code)
	return res, nil
}

// Query sends a read-only payload. It carries no endorsements and is served
// by QueryState only.
func (s *Submitter) Query(ctx context.Context, payload *fab.Payload, requestTimeout time.Duration) (*fab.TxResponse, error) {
	if payload != nil && payload.TxType != fab.QueryContract {
		return nil, invalidPayload("payload of type %s cannot be sent as a query", payload.TxType)
	}
	req, err := s.NewRequest(payload, nil)
	if err != nil {
		return nil, err
	}

	reqCtx, cancel := withTimeout(ctx, requestTimeout)
	defer cancel()

	var res *fab.TxResponse
	_, err = s.tryNodes(reqCtx, func(t fab.Transport) error {
		r, err := t.QueryState(reqCtx, req)
		if err == nil && r == nil {
			err = errors.New("node returned no query result")
		}
		res = r
		return err
	})
	if err != nil {
		return nil, phaseError(ctx, reqCtx, err, status.SubmissionTimeout, payload.TxID)
	}
	return res, nil
}

// NewRequest signs payload as the sender and attaches endorsements
func (s *Submitter) NewRequest(payload *fab.Payload, endorsements []*fab.EndorsementEntry) (*fab.TxRequest, error) {
	if payload == nil {
		return nil, invalidPayload("payload is nil")
	}
	if payload.TxID == "" {
		return nil, invalidPayload("payload has no transaction id")
	}

	b, err := MarshalPayload(payload)
	if err != nil {
		return nil, err
	}
	sig, err := s.sender.Sign(b)
	if err != nil {
		return nil, errors.WithMessage(err, "signing of payload failed")
	}
	info, err := s.sender.Serialize()
	if err != nil {
		return nil, errors.WithMessage(err, "sender serialization failed")
	}

	return &fab.TxRequest{
		Payload: payload,
		Sender: &fab.EndorsementEntry{
			OrgID:      s.sender.OrgID(),
			MemberType: s.sender.MemberType(),
			MemberInfo: info,
			Signature:  sig,
		},
		Endorsers: endorsements,
	}, nil
}

// tryNodes calls send on each node in random order until one succeeds.
// It stops early once ctx is done.
func (s *Submitter) tryNodes(ctx context.Context, send func(t fab.Transport) error) (fab.Transport, error) {
	var errs error
	for _, i := range rand.Perm(len(s.nodes)) {
		node := s.nodes[i]
		err := send(node)
		if err == nil {
			return node, nil
		}
		logger.Debugf("node %s failed: %s", nodeName(node, i), err)
		errs = multi.Append(errs, multi.ForNode(nodeName(node, i), err))
		if ctx.Err() != nil {
			break
		}
	}
	return nil, errs
}

// phaseError classifies a failure in one phase. The caller's own
// cancellation wins, then expiry of the phase deadline, then the node errors.
func phaseError(parent, phase context.Context, err error, timeoutCode status.Code, txID string) error {
	if parent.Err() != nil {
		return status.New(status.ClientStatus, status.Cancelled.ToInt32(),
			fmt.Sprintf("transaction [%s]: %s", txID, parent.Err()), []interface{}{err})
	}
	if errors.Is(phase.Err(), context.DeadlineExceeded) {
		return status.New(status.ClientStatus, timeoutCode.ToInt32(),
			fmt.Sprintf("transaction [%s]: %s", txID, timeoutCode), []interface{}{err})
	}
	if m, ok := errors.Cause(err).(multi.Errors); ok {
		details := make([]interface{}, len(m))
		for i, e := range m {
			details[i] = e
		}
		return status.New(status.ClientStatus, status.ConnectionFailed.ToInt32(), m.Error(), details)
	}
	if _, ok := status.FromError(err); ok {
		return err
	}
	return status.New(status.ClientStatus, status.ConnectionFailed.ToInt32(), err.Error(), []interface{}{txID})
}

func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}

type named interface {
	URL() string
}

func nodeName(t fab.Transport, i int) string {
	if n, ok := t.(named); ok {
		return n.URL()
	}
	return fmt.Sprintf("node-%d", i)
}

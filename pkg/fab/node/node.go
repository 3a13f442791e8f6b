/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package node implements the transport to chain nodes over gRPC.
package node

import (
	"context"
	"io"
	"time"

	"github.com/pkg/errors"
	"google.golang.org/grpc"
	grpcstatus "google.golang.org/grpc/status"

	"github.com/fish1208/chainmaker-sdk-go/pkg/common/errors/status"
	"github.com/fish1208/chainmaker-sdk-go/pkg/common/logging"
	"github.com/fish1208/chainmaker-sdk-go/pkg/common/providers/fab"
	"github.com/fish1208/chainmaker-sdk-go/pkg/common/providers/msp"
	"github.com/fish1208/chainmaker-sdk-go/pkg/fab/comm"
	"github.com/fish1208/chainmaker-sdk-go/pkg/fab/txn"
)

var logger = logging.NewLogger("chainsdk/fab")

// DefaultPollInterval is the default delay between finalization lookups
const DefaultPollInterval = 500 * time.Millisecond

// Node is a connection to a single chain node
type Node struct {
	url          string
	chainID      string
	conn         *grpc.ClientConn
	connOpts     []comm.ConnectionOpt
	pollInterval time.Duration
	lookups      *txn.Builder
	lookupSender *txn.Submitter
}

// Option describes a functional parameter for the New constructor
type Option func(*Node) error

// WithConnectionOpts sets the options used to dial the node
func WithConnectionOpts(opts ...comm.ConnectionOpt) Option {
	return func(n *Node) error {
		n.connOpts = append(n.connOpts, opts...)
		return nil
	}
}

// WithPollInterval sets the delay between finalization lookups
func WithPollInterval(d time.Duration) Option {
	return func(n *Node) error {
		if d <= 0 {
			return errors.New("poll interval must be positive")
		}
		n.pollInterval = d
		return nil
	}
}

// WithConn uses an existing client connection instead of dialing
func WithConn(conn *grpc.ClientConn) Option {
	return func(n *Node) error {
		n.conn = conn
		return nil
	}
}

// New connects to the node at url. Finalization lookups are signed by signer.
func New(ctx context.Context, url, chainID string, signer msp.SigningIdentity, opts ...Option) (*Node, error) {
	n := &Node{url: url, chainID: chainID, pollInterval: DefaultPollInterval}
	for _, opt := range opts {
		if err := opt(n); err != nil {
			return nil, err
		}
	}

	lookups, err := txn.NewBuilder(chainID)
	if err != nil {
		return nil, err
	}
	n.lookups = lookups

	if n.conn == nil {
		conn, err := comm.Dial(ctx, url, n.connOpts...)
		if err != nil {
			return nil, status.New(status.ClientStatus, status.ConnectionFailed.ToInt32(), err.Error(), []interface{}{url})
		}
		n.conn = conn
	}

	n.lookupSender, err = txn.NewSubmitter(signer, n)
	if err != nil {
		if cerr := n.closeConn(); cerr != nil {
			logger.Warnf("%s", cerr)
		}
		return nil, err
	}

	logger.Debugf("connected to node [%s] for chain [%s]", url, chainID)
	return n, nil
}

// URL returns the node address
func (n *Node) URL() string {
	return n.url
}

// Close closes the connection to the node
func (n *Node) Close() error {
	return n.closeConn()
}

func (n *Node) closeConn() error {
	if err := n.conn.Close(); err != nil {
		return errors.Wrapf(err, "error closing connection to %s", n.url)
	}
	return nil
}

// SubmitTransaction sends req on the state-changing path
func (n *Node) SubmitTransaction(ctx context.Context, req *fab.TxRequest) (*fab.Ack, error) {
	resp := &ResponseMessage{}
	if err := n.conn.Invoke(ctx, MethodSendRequest, &RequestMessage{Request: req}, resp); err != nil {
		return nil, transportError(err)
	}
	return &fab.Ack{TxID: req.Payload.TxID, Code: resp.Response.Code, Message: resp.Response.Message}, nil
}

// QueryState sends req on the read-only path
func (n *Node) QueryState(ctx context.Context, req *fab.TxRequest) (*fab.TxResponse, error) {
	resp := &ResponseMessage{}
	if err := n.conn.Invoke(ctx, MethodQueryRequest, &RequestMessage{Request: req}, resp); err != nil {
		return nil, transportError(err)
	}
	if resp.Response.TxID == "" {
		resp.Response.TxID = req.Payload.TxID
	}
	return resp.Response, nil
}

// AwaitFinalization looks txID up until the node reports it in a committed
// block or ctx is done. Lookups answered with "not found" are retried.
func (n *Node) AwaitFinalization(ctx context.Context, txID string) (*fab.TxResponse, error) {
	params := []fab.KeyValuePair{{Key: txn.KeyTxID, Value: []byte(txID)}}
	timer := time.NewTimer(0)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-timer.C:
		}

		payload, err := n.lookups.BuildChainQuery(txn.MethodGetTxByTxID, params, txn.VersionMetadata{})
		if err != nil {
			return nil, err
		}
		res, err := n.lookupSender.Query(ctx, payload, 0)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			return nil, errors.WithMessagef(err, "lookup of transaction [%s] failed", txID)
		}

		switch {
		case txn.NotFound(res):
		case !res.Succeeded():
			return nil, status.NewFromTxResponse(res, n.url)
		case len(res.Result) > 0:
			return finalized(txID, res.Result)
		}

		logger.Debugf("transaction [%s] not yet committed on [%s]", txID, n.url)
		timer.Reset(n.pollInterval)
	}
}

func finalized(txID string, b []byte) (*fab.TxResponse, error) {
	info, err := txn.UnmarshalTransactionInfo(b)
	if err != nil {
		return nil, errors.WithMessagef(err, "invalid result for transaction [%s]", txID)
	}
	if info.Transaction.Result == nil {
		return nil, errors.Errorf("transaction [%s] has no result", txID)
	}
	res := *info.Transaction.Result
	res.TxID = txID
	if res.BlockHeight == 0 {
		res.BlockHeight = info.BlockHeight
	}
	return &res, nil
}

// SubscribeContractEvents opens an event stream for the subscription in req.
// The channel is closed when the stream ends or ctx is done.
func (n *Node) SubscribeContractEvents(ctx context.Context, req *fab.TxRequest) (<-chan *fab.ContractEvent, error) {
	desc := &grpc.StreamDesc{StreamName: "Subscribe", ServerStreams: true}
	stream, err := n.conn.NewStream(ctx, desc, MethodSubscribe)
	if err != nil {
		return nil, transportError(err)
	}
	if err := stream.SendMsg(&RequestMessage{Request: req}); err != nil {
		return nil, transportError(err)
	}
	if err := stream.CloseSend(); err != nil {
		return nil, transportError(err)
	}

	events := make(chan *fab.ContractEvent)
	go func() {
		defer close(events)
		for {
			msg := &EventMessage{}
			if err := stream.RecvMsg(msg); err != nil {
				if err != io.EOF && ctx.Err() == nil {
					logger.Warnf("event stream from [%s] ended: %s", n.url, err)
				}
				return
			}
			select {
			case events <- msg.Event:
			case <-ctx.Done():
				return
			}
		}
	}()
	return events, nil
}

func transportError(err error) error {
	if s, ok := grpcstatus.FromError(err); ok {
		return status.NewFromGRPCStatus(s)
	}
	return errors.Wrap(err, "node call failed")
}

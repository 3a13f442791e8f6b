/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package fab

import (
	"context"
)

// Transport sends requests to blockchain nodes.
//
// SubmitTransaction returns once the node has acknowledged the request.
// AwaitFinalization blocks until the transaction is committed or ctx is done.
// QueryState is the read-only path and must never be served by SubmitTransaction.
type Transport interface {
	SubmitTransaction(ctx context.Context, req *TxRequest) (*Ack, error)
	QueryState(ctx context.Context, req *TxRequest) (*TxResponse, error)
	AwaitFinalization(ctx context.Context, txID string) (*TxResponse, error)
}

// EventSubscriber is implemented by transports that can stream contract events
type EventSubscriber interface {
	SubscribeContractEvents(ctx context.Context, req *TxRequest) (<-chan *ContractEvent, error)
}

// Node is a transport bound to a single node address
type Node interface {
	Transport
	URL() string
	Close() error
}

/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package node

import (
	"context"
	"math/rand"

	"github.com/pkg/errors"

	"github.com/fish1208/chainmaker-sdk-go/pkg/common/errors/multi"
	"github.com/fish1208/chainmaker-sdk-go/pkg/common/errors/status"
	"github.com/fish1208/chainmaker-sdk-go/pkg/common/providers/fab"
	"github.com/fish1208/chainmaker-sdk-go/pkg/common/providers/msp"
	"github.com/fish1208/chainmaker-sdk-go/pkg/fab/comm"
)

// Endpoint describes one node and how many connections to open to it
type Endpoint struct {
	URL      string
	ConnCnt  int
	ConnOpts []comm.ConnectionOpt
}

// Pool holds the connections a chain client uses
type Pool struct {
	nodes []fab.Node
}

// NewPool returns a pool over nodes
func NewPool(nodes ...fab.Node) (*Pool, error) {
	if len(nodes) == 0 {
		return nil, status.New(status.ClientStatus, status.NoNodesFound.ToInt32(), "no nodes configured", nil)
	}
	return &Pool{nodes: nodes}, nil
}

// Dial opens ConnCnt connections to every endpoint. Either all connections
// are opened or none are kept.
func Dial(ctx context.Context, chainID string, signer msp.SigningIdentity, endpoints []Endpoint, opts ...Option) (*Pool, error) {
	var nodes []fab.Node
	for _, ep := range endpoints {
		count := ep.ConnCnt
		if count <= 0 {
			count = 1
		}
		for i := 0; i < count; i++ {
			nodeOpts := append([]Option{WithConnectionOpts(ep.ConnOpts...)}, opts...)
			n, err := New(ctx, ep.URL, chainID, signer, nodeOpts...)
			if err != nil {
				if cerr := closeAll(nodes); cerr != nil {
					logger.Warnf("%s", cerr)
				}
				return nil, errors.WithMessagef(err, "failed to connect to node [%s]", ep.URL)
			}
			nodes = append(nodes, n)
		}
	}
	return NewPool(nodes...)
}

// Transports returns every connection in the pool
func (p *Pool) Transports() []fab.Transport {
	transports := make([]fab.Transport, len(p.nodes))
	for i, n := range p.nodes {
		transports[i] = n
	}
	return transports
}

// SubscribeContractEvents opens the subscription on the first node, in random
// order, that accepts it
func (p *Pool) SubscribeContractEvents(ctx context.Context, req *fab.TxRequest) (<-chan *fab.ContractEvent, error) {
	var errs error
	for _, i := range rand.Perm(len(p.nodes)) {
		sub, ok := p.nodes[i].(fab.EventSubscriber)
		if !ok {
			continue
		}
		events, err := sub.SubscribeContractEvents(ctx, req)
		if err == nil {
			return events, nil
		}
		errs = multi.Append(errs, multi.ForNode(p.nodes[i].URL(), err))
	}
	if errs == nil {
		return nil, errors.New("no node supports event subscriptions")
	}
	return nil, errs
}

// Close closes every connection in the pool
func (p *Pool) Close() error {
	return closeAll(p.nodes)
}

func closeAll(nodes []fab.Node) error {
	var errs error
	for _, n := range nodes {
		if err := n.Close(); err != nil {
			errs = multi.Append(errs, err)
		}
	}
	return errs
}

/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package chainsdk

import (
	"context"

	"github.com/pkg/errors"

	"github.com/fish1208/chainmaker-sdk-go/pkg/client/chain"
	"github.com/fish1208/chainmaker-sdk-go/pkg/common/providers/core"
	"github.com/fish1208/chainmaker-sdk-go/pkg/common/providers/fab"
	mspapi "github.com/fish1208/chainmaker-sdk-go/pkg/common/providers/msp"
	"github.com/fish1208/chainmaker-sdk-go/pkg/core/config"
	"github.com/fish1208/chainmaker-sdk-go/pkg/core/cryptosuite"
	"github.com/fish1208/chainmaker-sdk-go/pkg/fab/comm"
	"github.com/fish1208/chainmaker-sdk-go/pkg/fab/node"
	"github.com/fish1208/chainmaker-sdk-go/pkg/msp"
)

// chainEntry is the connected state of one chain. It is the chain.Context
// of the chain's client.
type chainEntry struct {
	chainID   string
	signer    *msp.SigningIdentity
	endorsers []mspapi.SigningIdentity
	pool      *node.Pool
	client    *chain.Client
}

func (e *chainEntry) ChainID() string {
	return e.chainID
}

func (e *chainEntry) SigningIdentity() mspapi.SigningIdentity {
	return e.signer
}

func (e *chainEntry) Transports() []fab.Transport {
	return e.pool.Transports()
}

func (e *chainEntry) SubscribeContractEvents(ctx context.Context, req *fab.TxRequest) (<-chan *fab.ContractEvent, error) {
	return e.pool.SubscribeContractEvents(ctx, req)
}

func newChainEntry(ctx context.Context, cfg *config.ChainClientConfig, connOpts []comm.ConnectionOpt, nodeOpts []node.Option) (*chainEntry, error) {
	suite := cryptosuite.GetDefault()

	signer, err := loadSigningIdentity(cfg.UserIdentityFiles(), suite)
	if err != nil {
		return nil, errors.WithMessage(err, "failed to load user identity")
	}

	var endorsers []mspapi.SigningIdentity
	for _, f := range cfg.Endorsers {
		id, err := loadSigningIdentity(f, suite)
		if err != nil {
			return nil, errors.WithMessagef(err, "failed to load endorser of org [%s]", f.OrgID)
		}
		endorsers = append(endorsers, id)
	}

	endpoints, err := nodeEndpoints(cfg, signer.Identity(), connOpts)
	if err != nil {
		return nil, err
	}
	pool, err := node.Dial(ctx, cfg.ChainID, signer, endpoints, nodeOpts...)
	if err != nil {
		return nil, err
	}

	return &chainEntry{
		chainID:   cfg.ChainID,
		signer:    signer,
		endorsers: endorsers,
		pool:      pool,
	}, nil
}

func loadSigningIdentity(f msp.IdentityFiles, suite core.CryptoSuite) (*msp.SigningIdentity, error) {
	id, err := msp.LoadIdentity(f)
	if err != nil {
		return nil, err
	}
	return msp.NewSigningIdentity(id, suite)
}

// nodeEndpoints translates the node settings into dial endpoints. TLS nodes
// present the user's TLS key pair when one is configured.
func nodeEndpoints(cfg *config.ChainClientConfig, user *msp.Identity, connOpts []comm.ConnectionOpt) ([]node.Endpoint, error) {
	endpoints := make([]node.Endpoint, 0, len(cfg.Nodes))
	for _, n := range cfg.Nodes {
		opts := []comm.ConnectionOpt{comm.WithMaxRecvMsgSize(cfg.MaxReceiveMessageBytes())}
		if n.TLSEnabled() {
			roots, err := n.TrustRoots()
			if err != nil {
				return nil, errors.WithMessagef(err, "node [%s]", n.NodeAddr)
			}
			opts = append(opts, comm.WithTLS(roots...))
			if n.TLSHostName != "" {
				opts = append(opts, comm.WithHostOverride(n.TLSHostName))
			}
			if len(user.TLSKey()) > 0 && len(user.TLSCert()) > 0 {
				opts = append(opts, comm.WithClientCertificate(user.TLSKey(), user.TLSCert()))
			}
		}
		opts = append(opts, connOpts...)

		endpoints = append(endpoints, node.Endpoint{URL: n.NodeAddr, ConnCnt: n.ConnCnt, ConnOpts: opts})
	}
	return endpoints, nil
}

/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package chain enables access to one chain through its nodes.
//
// A chain client invokes and queries contracts, manages their lifecycle and
// subscribes to their events. An application that works with several chains
// creates one client per chain.
package chain

import (
	"time"

	"github.com/pkg/errors"

	"github.com/fish1208/chainmaker-sdk-go/pkg/chainsdk/metrics"
	"github.com/fish1208/chainmaker-sdk-go/pkg/common/logging"
	"github.com/fish1208/chainmaker-sdk-go/pkg/common/providers/fab"
	"github.com/fish1208/chainmaker-sdk-go/pkg/common/providers/msp"
	"github.com/fish1208/chainmaker-sdk-go/pkg/fab/endorsement"
	"github.com/fish1208/chainmaker-sdk-go/pkg/fab/txn"
)

var logger = logging.NewLogger("chainsdk/client")

// Default phase timeouts
const (
	DefaultRequestTimeout = 10 * time.Second
	DefaultResultTimeout  = 10 * time.Second
)

// Context supplies the chain, identity and nodes a client works with.
// A Context that also implements fab.EventSubscriber serves event
// subscriptions.
type Context interface {
	ChainID() string
	SigningIdentity() msp.SigningIdentity
	Transports() []fab.Transport
}

// ContextProvider returns a Context
type ContextProvider func() (Context, error)

// Client enables access to a chain
type Client struct {
	chainID    string
	signer     msp.SigningIdentity
	builder    *txn.Builder
	ids        *txn.IDRegistry
	submitter  *txn.Submitter
	subscriber fab.EventSubscriber

	endorsers      []msp.SigningIdentity
	policy         *endorsement.Policy
	requestTimeout time.Duration
	resultTimeout  time.Duration
	builderOpts    []txn.BuilderOption
	metrics        *metrics.ClientMetrics
}

// ClientOption describes a functional parameter for the New constructor
type ClientOption func(*Client) error

// WithDefaultTimeouts sets the timeouts used by requests without WithTimeouts
func WithDefaultTimeouts(request, result time.Duration) ClientOption {
	return func(c *Client) error {
		if request < 0 || result < 0 {
			return errors.New("timeouts must not be negative")
		}
		c.requestTimeout = request
		c.resultTimeout = result
		return nil
	}
}

// WithDefaultEndorsers sets the identities that endorse contract management
// requests
func WithDefaultEndorsers(ids ...msp.SigningIdentity) ClientOption {
	return func(c *Client) error {
		for _, id := range ids {
			if id == nil {
				return errors.New("endorser identity is nil")
			}
		}
		c.endorsers = ids
		return nil
	}
}

// WithEndorsementPolicy checks contract management endorsements against p
// before they are sent
func WithEndorsementPolicy(p endorsement.Policy) ClientOption {
	return func(c *Client) error {
		c.policy = &p
		return nil
	}
}

// WithIDRegistry shares a transaction id registry between clients
func WithIDRegistry(ids *txn.IDRegistry) ClientOption {
	return func(c *Client) error {
		c.ids = ids
		return nil
	}
}

// WithBuilderOptions passes options to the payload builder
func WithBuilderOptions(opts ...txn.BuilderOption) ClientOption {
	return func(c *Client) error {
		c.builderOpts = append(c.builderOpts, opts...)
		return nil
	}
}

// WithMetrics records client calls in m
func WithMetrics(m *metrics.ClientMetrics) ClientOption {
	return func(c *Client) error {
		c.metrics = m
		return nil
	}
}

// New returns a Client instance.
func New(ctxProvider ContextProvider, opts ...ClientOption) (*Client, error) {
	chainCtx, err := ctxProvider()
	if err != nil {
		return nil, errors.WithMessage(err, "failed to create chain context")
	}

	c := &Client{
		chainID:        chainCtx.ChainID(),
		signer:         chainCtx.SigningIdentity(),
		requestTimeout: DefaultRequestTimeout,
		resultTimeout:  DefaultResultTimeout,
	}
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, errors.WithMessage(err, "invalid client option")
		}
	}

	if c.ids == nil {
		c.ids = txn.NewIDRegistry(txn.DefaultRecentIDs)
	}
	if c.metrics == nil {
		c.metrics = metrics.NewDiscardMetrics()
	}

	builderOpts := append([]txn.BuilderOption{txn.WithIDRegistry(c.ids)}, c.builderOpts...)
	c.builder, err = txn.NewBuilder(c.chainID, builderOpts...)
	if err != nil {
		return nil, err
	}

	c.submitter, err = txn.NewSubmitter(c.signer, chainCtx.Transports()...)
	if err != nil {
		return nil, errors.WithMessage(err, "transaction submitter creation failed")
	}

	if s, ok := chainCtx.(fab.EventSubscriber); ok {
		c.subscriber = s
	}

	logger.Debugf("chain client created for chain [%s]", c.chainID)
	return c, nil
}

// ChainID returns the chain the client is bound to
func (c *Client) ChainID() string {
	return c.chainID
}

// Builder returns the payload builder of the client, for callers that build
// and endorse payloads themselves
func (c *Client) Builder() *txn.Builder {
	return c.builder
}

// Endorse collects one endorsement of payload per identity
func (c *Client) Endorse(payload *fab.Payload, ids ...msp.SigningIdentity) ([]*fab.EndorsementEntry, error) {
	return endorsement.Collect(payload, ids...)
}

func (c *Client) prepareOptsFromOptions(options ...RequestOption) (requestOptions, error) {
	o := requestOptions{
		RequestTimeout: c.requestTimeout,
		ResultTimeout:  c.resultTimeout,
	}
	for _, option := range options {
		if err := option(&o); err != nil {
			return o, errors.WithMessage(err, "Failed to read opts")
		}
	}
	return o, nil
}

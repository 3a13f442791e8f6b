/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package chainsdk keeps the chain clients of an application, one per
// configured chain.
//
// Clients are created on first use from the chain's configuration and are
// reused until Close:
//
//	sdk, err := chainsdk.New(config.FromFile("sdk_config.yml"))
//	if err != nil {
//		return err
//	}
//	defer sdk.Close()
//
//	client, err := sdk.ChainClient("chain1")
package chainsdk

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/bluele/gcache"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/fish1208/chainmaker-sdk-go/pkg/chainsdk/metrics"
	"github.com/fish1208/chainmaker-sdk-go/pkg/client/chain"
	"github.com/fish1208/chainmaker-sdk-go/pkg/common/errors/multi"
	"github.com/fish1208/chainmaker-sdk-go/pkg/common/logging"
	"github.com/fish1208/chainmaker-sdk-go/pkg/common/providers/core"
	"github.com/fish1208/chainmaker-sdk-go/pkg/core/config"
	"github.com/fish1208/chainmaker-sdk-go/pkg/fab/comm"
	"github.com/fish1208/chainmaker-sdk-go/pkg/fab/node"
	"github.com/fish1208/chainmaker-sdk-go/pkg/fab/txn"
)

var logger = logging.NewLogger("chainsdk")

// DefaultDialTimeout bounds the connection of all nodes of one chain
const DefaultDialTimeout = 10 * time.Second

// ChainSDK provides the chain clients of the configured chains
type ChainSDK struct {
	opts    options
	configs map[string]*config.ChainClientConfig
	ids     *txn.IDRegistry
	metrics *metrics.ClientMetrics
	clients gcache.Cache

	mutex  sync.RWMutex
	closed bool
}

type options struct {
	registerer  prometheus.Registerer
	dialTimeout time.Duration
	nodeOpts    []node.Option
	connOpts    []comm.ConnectionOpt
	clientOpts  []chain.ClientOption
}

// Option configures the SDK
type Option func(opts *options) error

// WithMetricsRegisterer records client calls as prometheus metrics on r
func WithMetricsRegisterer(r prometheus.Registerer) Option {
	return func(opts *options) error {
		if r == nil {
			return errors.New("registerer is nil")
		}
		opts.registerer = r
		return nil
	}
}

// WithDialTimeout bounds the time to connect the nodes of a chain
func WithDialTimeout(d time.Duration) Option {
	return func(opts *options) error {
		if d <= 0 {
			return errors.New("dial timeout must be positive")
		}
		opts.dialTimeout = d
		return nil
	}
}

// WithNodeOptions passes options to every node connection
func WithNodeOptions(nodeOpts ...node.Option) Option {
	return func(opts *options) error {
		opts.nodeOpts = append(opts.nodeOpts, nodeOpts...)
		return nil
	}
}

// WithConnectionOpts adds gRPC connection options to every node
func WithConnectionOpts(connOpts ...comm.ConnectionOpt) Option {
	return func(opts *options) error {
		opts.connOpts = append(opts.connOpts, connOpts...)
		return nil
	}
}

// WithClientOptions passes options to every chain client
func WithClientOptions(clientOpts ...chain.ClientOption) Option {
	return func(opts *options) error {
		opts.clientOpts = append(opts.clientOpts, clientOpts...)
		return nil
	}
}

// New reads the chain client configuration from configProvider
func New(configProvider core.ConfigProvider, opts ...Option) (*ChainSDK, error) {
	if configProvider == nil {
		return nil, errors.New("config provider is required")
	}
	backends, err := configProvider()
	if err != nil {
		return nil, errors.WithMessage(err, "failed to load configuration")
	}
	configs, err := config.ChainClientsFromBackend(backends...)
	if err != nil {
		return nil, errors.WithMessage(err, "invalid chain client configuration")
	}

	sdk := &ChainSDK{
		opts:    options{dialTimeout: DefaultDialTimeout},
		configs: make(map[string]*config.ChainClientConfig, len(configs)),
		ids:     txn.NewIDRegistry(txn.DefaultRecentIDs),
	}
	for _, opt := range opts {
		if err := opt(&sdk.opts); err != nil {
			return nil, errors.WithMessage(err, "error in option passed to New")
		}
	}
	for _, c := range configs {
		sdk.configs[c.ChainID] = c
	}

	if sdk.opts.registerer != nil {
		sdk.metrics, err = metrics.NewClientMetrics(sdk.opts.registerer)
		if err != nil {
			return nil, err
		}
	} else {
		sdk.metrics = metrics.NewDiscardMetrics()
	}

	sdk.clients = gcache.New(0).LoaderFunc(func(key interface{}) (interface{}, error) {
		return sdk.newChainEntry(key.(string))
	}).Build()

	logger.Infof("chain SDK configured for chains %v", sdk.ChainIDs())
	return sdk, nil
}

// ChainIDs returns the configured chain ids in sorted order
func (sdk *ChainSDK) ChainIDs() []string {
	ids := make([]string, 0, len(sdk.configs))
	for id := range sdk.configs {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// ChainClient returns the client of chainID, connecting to its nodes on
// first use
func (sdk *ChainSDK) ChainClient(chainID string) (*chain.Client, error) {
	sdk.mutex.RLock()
	defer sdk.mutex.RUnlock()

	if sdk.closed {
		return nil, errors.New("SDK is closed")
	}
	if _, ok := sdk.configs[chainID]; !ok {
		return nil, errors.Errorf("chain [%s] is not configured", chainID)
	}

	e, err := sdk.clients.Get(chainID)
	if err != nil {
		return nil, err
	}
	return e.(*chainEntry).client, nil
}

// Close disconnects every chain client. Clients returned earlier must not be
// used afterwards.
func (sdk *ChainSDK) Close() error {
	sdk.mutex.Lock()
	defer sdk.mutex.Unlock()

	if sdk.closed {
		return nil
	}
	sdk.closed = true

	logger.Debug("Closing chain clients...")
	var errs error
	for _, key := range sdk.clients.Keys(false) {
		e, err := sdk.clients.GetIFPresent(key)
		if err != nil {
			logger.Warnf("Unable to close client for chain [%s]", key)
			continue
		}
		logger.Debugf("... closing client for chain [%s]", key)
		errs = multi.Append(errs, e.(*chainEntry).pool.Close())
	}
	sdk.clients.Purge()
	return errs
}

func (sdk *ChainSDK) newChainEntry(chainID string) (*chainEntry, error) {
	cfg := sdk.configs[chainID]

	ctx, cancel := context.WithTimeout(context.Background(), sdk.opts.dialTimeout)
	defer cancel()

	e, err := newChainEntry(ctx, cfg, sdk.opts.connOpts, sdk.opts.nodeOpts)
	if err != nil {
		return nil, errors.WithMessagef(err, "failed to set up chain [%s]", chainID)
	}

	clientOpts := []chain.ClientOption{
		chain.WithDefaultTimeouts(cfg.Timeouts.Request, cfg.Timeouts.Result),
		chain.WithIDRegistry(sdk.ids),
		chain.WithMetrics(sdk.metrics),
	}
	if len(e.endorsers) > 0 {
		clientOpts = append(clientOpts, chain.WithDefaultEndorsers(e.endorsers...))
	}
	if cfg.EndorsementPolicy != nil {
		clientOpts = append(clientOpts, chain.WithEndorsementPolicy(*cfg.EndorsementPolicy))
	}
	clientOpts = append(clientOpts, sdk.opts.clientOpts...)

	e.client, err = chain.New(func() (chain.Context, error) { return e, nil }, clientOpts...)
	if err != nil {
		if cerr := e.pool.Close(); cerr != nil {
			logger.Warnf("%s", cerr)
		}
		return nil, err
	}
	return e, nil
}

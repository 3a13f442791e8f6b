/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package config

import (
	"fmt"
	"reflect"
	"time"

	"github.com/pkg/errors"

	"github.com/fish1208/chainmaker-sdk-go/pkg/common/providers/core"
	"github.com/fish1208/chainmaker-sdk-go/pkg/core/config/endpoint"
	"github.com/fish1208/chainmaker-sdk-go/pkg/core/config/lookup"
	"github.com/fish1208/chainmaker-sdk-go/pkg/fab/endorsement"
	"github.com/fish1208/chainmaker-sdk-go/pkg/msp"
)

// Defaults applied to missing chain client settings
const (
	DefaultRequestTimeout        = 10 * time.Second
	DefaultResultTimeout         = 10 * time.Second
	DefaultConnCnt               = 1
	DefaultMaxReceiveMessageSize = 16
)

const (
	chainClientKey  = "chain_client"
	chainClientsKey = "chain_clients"
)

// NodeConfig describes one node of the chain
type NodeConfig struct {
	NodeAddr       string   `mapstructure:"node_addr"`
	ConnCnt        int      `mapstructure:"conn_cnt"`
	EnableTLS      bool     `mapstructure:"enable_tls"`
	TrustRootPaths []string `mapstructure:"trust_root_paths"`
	TLSHostName    string   `mapstructure:"tls_host_name"`
}

// TLSEnabled reports whether the node is reached over TLS, either because
// enable_tls is set or the address has a grpcs scheme
func (n NodeConfig) TLSEnabled() bool {
	return n.EnableTLS || endpoint.IsTLSEnabled(n.NodeAddr)
}

// TrustRoots reads the PEM trust roots of the node
func (n NodeConfig) TrustRoots() ([][]byte, error) {
	return endpoint.LoadPEMFiles(n.TrustRootPaths...)
}

// RPCClientConfig holds gRPC client limits
type RPCClientConfig struct {
	// MaxReceiveMessageSize in MiB
	MaxReceiveMessageSize int `mapstructure:"max_receive_message_size"`
}

// TimeoutConfig holds the default phase timeouts of a chain client
type TimeoutConfig struct {
	Request time.Duration `mapstructure:"request"`
	Result  time.Duration `mapstructure:"result"`
}

// ChainClientConfig is the chain_client section of the SDK configuration
type ChainClientConfig struct {
	ChainID             string `mapstructure:"chain_id"`
	OrgID               string `mapstructure:"org_id"`
	UserKeyFilePath     string `mapstructure:"user_key_file_path"`
	UserCrtFilePath     string `mapstructure:"user_crt_file_path"`
	UserSignKeyFilePath string `mapstructure:"user_sign_key_file_path"`
	UserSignCrtFilePath string `mapstructure:"user_sign_crt_file_path"`

	Nodes     []NodeConfig    `mapstructure:"nodes"`
	RPCClient RPCClientConfig `mapstructure:"rpc_client"`
	Timeouts  TimeoutConfig   `mapstructure:"timeouts"`

	Endorsers         []msp.IdentityFiles `mapstructure:"endorsers"`
	EndorsementPolicy *endorsement.Policy `mapstructure:"endorsement_policy"`
}

// UserIdentityFiles locates the client user's key material. The signing
// pair falls back to the TLS pair when it is not configured.
func (c *ChainClientConfig) UserIdentityFiles() msp.IdentityFiles {
	f := msp.IdentityFiles{
		OrgID:        c.OrgID,
		SignKeyPath:  c.UserSignKeyFilePath,
		SignCertPath: c.UserSignCrtFilePath,
		TLSKeyPath:   c.UserKeyFilePath,
		TLSCertPath:  c.UserCrtFilePath,
	}
	if f.SignKeyPath == "" {
		f.SignKeyPath = c.UserKeyFilePath
		f.SignCertPath = c.UserCrtFilePath
	}
	return f
}

// MaxReceiveMessageBytes returns the receive limit in bytes
func (c *ChainClientConfig) MaxReceiveMessageBytes() int {
	return c.RPCClient.MaxReceiveMessageSize * 1024 * 1024
}

// Validate checks the settings a chain client cannot run without
func (c *ChainClientConfig) Validate() error {
	if c.ChainID == "" {
		return errors.New("chain_id is required")
	}
	if c.UserSignKeyFilePath == "" && c.UserKeyFilePath == "" {
		return errors.Errorf("chain [%s]: a user key file path is required", c.ChainID)
	}
	if len(c.Nodes) == 0 {
		return errors.Errorf("chain [%s]: at least one node is required", c.ChainID)
	}
	for i, n := range c.Nodes {
		if n.NodeAddr == "" {
			return errors.Errorf("chain [%s]: node %d has no node_addr", c.ChainID, i)
		}
		if n.ConnCnt < 0 {
			return errors.Errorf("chain [%s]: node [%s] has a negative conn_cnt", c.ChainID, n.NodeAddr)
		}
	}
	for _, e := range c.Endorsers {
		if e.OrgID == "" || e.SignKeyPath == "" {
			return errors.Errorf("chain [%s]: endorsers need org_id and sign_key_file_path", c.ChainID)
		}
	}
	if c.Timeouts.Request < 0 || c.Timeouts.Result < 0 {
		return errors.Errorf("chain [%s]: timeouts must not be negative", c.ChainID)
	}
	return nil
}

func (c *ChainClientConfig) applyDefaults() {
	for i := range c.Nodes {
		if c.Nodes[i].ConnCnt == 0 {
			c.Nodes[i].ConnCnt = DefaultConnCnt
		}
	}
	if c.RPCClient.MaxReceiveMessageSize <= 0 {
		c.RPCClient.MaxReceiveMessageSize = DefaultMaxReceiveMessageSize
	}
	if c.Timeouts.Request == 0 {
		c.Timeouts.Request = DefaultRequestTimeout
	}
	if c.Timeouts.Result == 0 {
		c.Timeouts.Result = DefaultResultTimeout
	}
}

// ChainClientFromBackend decodes the chain_client section
func ChainClientFromBackend(backends ...core.ConfigBackend) (*ChainClientConfig, error) {
	l := lookup.New(backends...)
	if _, ok := l.Lookup(chainClientKey); !ok {
		return nil, errors.Errorf("%s section not found", chainClientKey)
	}
	return decodeChainClient(l, chainClientKey)
}

// ChainClientsFromBackend decodes every configured chain client. Both the
// single chain_client section and the chain_clients list are read.
func ChainClientsFromBackend(backends ...core.ConfigBackend) ([]*ChainClientConfig, error) {
	l := lookup.New(backends...)

	var configs []*ChainClientConfig
	if _, ok := l.Lookup(chainClientKey); ok {
		c, err := decodeChainClient(l, chainClientKey)
		if err != nil {
			return nil, err
		}
		configs = append(configs, c)
	}

	var list []interface{}
	if err := l.UnmarshalKey(chainClientsKey, &list); err != nil {
		return nil, errors.Wrapf(err, "failed to decode %s", chainClientsKey)
	}
	for i := range list {
		c, err := decodeChainClient(l, fmt.Sprintf("%s.%d", chainClientsKey, i), list[i])
		if err != nil {
			return nil, err
		}
		configs = append(configs, c)
	}

	if len(configs) == 0 {
		return nil, errors.New("no chain client configured")
	}
	seen := make(map[string]struct{}, len(configs))
	for _, c := range configs {
		if _, ok := seen[c.ChainID]; ok {
			return nil, errors.Errorf("chain [%s] is configured more than once", c.ChainID)
		}
		seen[c.ChainID] = struct{}{}
	}
	return configs, nil
}

// decodeChainClient decodes the section at key. When raw is given it is
// decoded instead of looking key up.
func decodeChainClient(l *lookup.ConfigLookup, key string, raw ...interface{}) (*ChainClientConfig, error) {
	c := &ChainClientConfig{}
	src := l
	if len(raw) > 0 {
		src = lookup.New(rawBackend{key: key, value: raw[0]})
	}
	if err := src.UnmarshalKey(key, c, lookup.WithUnmarshalHookFunction(secondsHook)); err != nil {
		return nil, errors.Wrapf(err, "failed to decode %s", key)
	}

	c.applyDefaults()
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

type rawBackend struct {
	key   string
	value interface{}
}

func (b rawBackend) Lookup(key string) (interface{}, bool) {
	if key != b.key {
		return nil, false
	}
	return b.value, true
}

// secondsHook reads plain numbers as seconds when decoding durations
func secondsHook(from reflect.Type, to reflect.Type, data interface{}) (interface{}, error) {
	if to != reflect.TypeOf(time.Duration(0)) {
		return data, nil
	}
	switch from.Kind() {
	case reflect.Int, reflect.Int32, reflect.Int64:
		return time.Duration(reflect.ValueOf(data).Int()) * time.Second, nil
	case reflect.Float32, reflect.Float64:
		return time.Duration(reflect.ValueOf(data).Float() * float64(time.Second)), nil
	}
	return data, nil
}

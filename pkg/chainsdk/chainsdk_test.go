/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package chainsdk

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fish1208/chainmaker-sdk-go/pkg/client/chain"
	"github.com/fish1208/chainmaker-sdk-go/pkg/common/providers/core"
	"github.com/fish1208/chainmaker-sdk-go/pkg/common/providers/fab"
	"github.com/fish1208/chainmaker-sdk-go/pkg/core/config"
	"github.com/fish1208/chainmaker-sdk-go/pkg/fab/comm"
	"github.com/fish1208/chainmaker-sdk-go/pkg/fab/mocks"
	"github.com/fish1208/chainmaker-sdk-go/pkg/fab/node"
	"github.com/fish1208/chainmaker-sdk-go/pkg/fab/txn"
	"github.com/fish1208/chainmaker-sdk-go/pkg/msp/test/mockmsp"
)

const configTemplate = `
chain_client:
  chain_id: chain1
  org_id: org1
  user_key_file_path: %[1]s/user.key
  user_crt_file_path: %[1]s/user.crt
  nodes:
    - node_addr: %[2]s
      conn_cnt: 2
  timeouts:
    request: 5
    result: 5s
  endorsers:
    - org_id: org1
      sign_key_file_path: %[1]s/org1.key
      sign_crt_file_path: %[1]s/org1.crt
    - org_id: org2
      sign_key_file_path: %[1]s/org2.key
      sign_crt_file_path: %[1]s/org2.crt
  endorsement_policy:
    threshold: 2

chain_clients:
  - chain_id: chain2
    org_id: org1
    user_sign_key_file_path: %[1]s/user.key
    user_sign_crt_file_path: %[1]s/user.crt
    nodes:
      - node_addr: %[3]s
`

type fixture struct {
	dir    string
	nodes  []*mocks.MockNodeServer
	config core.ConfigProvider
}

func writeKeyPair(t *testing.T, dir, name, org string) {
	key, cert, err := mockmsp.NewCertKeyPair(org, name)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, name+".key"), key, 0600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, name+".crt"), cert, 0600))
}

func newFixture(t *testing.T) *fixture {
	f := &fixture{dir: t.TempDir()}
	writeKeyPair(t, f.dir, "user", "org1")
	writeKeyPair(t, f.dir, "org1", "org1")
	writeKeyPair(t, f.dir, "org2", "org2")

	var addrs []interface{}
	for i := 0; i < 2; i++ {
		srv := &mocks.MockNodeServer{Result: &fab.TxResponse{Code: fab.Success, Result: []byte("done")}}
		addrs = append(addrs, srv.Start("127.0.0.1:0"))
		t.Cleanup(srv.Stop)
		f.nodes = append(f.nodes, srv)
	}

	raw := fmt.Sprintf(configTemplate, append([]interface{}{f.dir}, addrs...)...)
	f.config = config.FromRaw([]byte(raw), "yaml")
	return f
}

func newSDK(t *testing.T, f *fixture, opts ...Option) *ChainSDK {
	opts = append([]Option{WithNodeOptions(node.WithPollInterval(10 * time.Millisecond))}, opts...)
	sdk, err := New(f.config, opts...)
	require.NoError(t, err)
	t.Cleanup(func() { assert.NoError(t, sdk.Close()) })
	return sdk
}

func TestNew(t *testing.T) {
	_, err := New(nil)
	assert.Error(t, err)

	_, err = New(func() ([]core.ConfigBackend, error) { return nil, errors.New("no config") })
	assert.Error(t, err)

	_, err = New(config.FromRaw([]byte("client:\n  logging:\n    level: info\n"), "yaml"))
	assert.Error(t, err)

	f := newFixture(t)
	_, err = New(f.config, WithDialTimeout(0))
	assert.Error(t, err)
	_, err = New(f.config, WithMetricsRegisterer(nil))
	assert.Error(t, err)

	sdk := newSDK(t, f)
	assert.Equal(t, []string{"chain1", "chain2"}, sdk.ChainIDs())
}

func TestChainClient(t *testing.T) {
	f := newFixture(t)
	sdk := newSDK(t, f)

	client, err := sdk.ChainClient("chain1")
	require.NoError(t, err)
	assert.Equal(t, "chain1", client.ChainID())

	again, err := sdk.ChainClient("chain1")
	require.NoError(t, err)
	assert.Same(t, client, again)

	res, err := client.InvokeContract(context.Background(), chain.Request{
		ContractName: "fact",
		Method:       "save",
		Params:       map[string][]byte{"file_hash": []byte("ab12")},
	})
	require.NoError(t, err)
	assert.Equal(t, []byte("done"), res.Result)
	require.Len(t, f.nodes[0].Submitted(), 1)
	assert.Empty(t, f.nodes[1].Submitted())

	other, err := sdk.ChainClient("chain2")
	require.NoError(t, err)
	assert.Equal(t, "chain2", other.ChainID())
	_, err = other.QueryContract(context.Background(), chain.Request{ContractName: "fact", Method: "find"})
	require.NoError(t, err)
	require.Len(t, f.nodes[1].Queried(), 1)
	assert.Equal(t, "chain2", f.nodes[1].Queried()[0].Payload.ChainID)

	_, err = sdk.ChainClient("chain3")
	assert.Error(t, err)
}

func TestConfiguredEndorsers(t *testing.T) {
	f := newFixture(t)
	sdk := newSDK(t, f)

	client, err := sdk.ChainClient("chain1")
	require.NoError(t, err)
	_, err = client.FreezeContract(context.Background(), "fact")
	require.NoError(t, err)

	submitted := f.nodes[0].Submitted()
	require.Len(t, submitted, 1)
	assert.Equal(t, txn.MethodFreezeContract, submitted[0].Payload.Method)
	require.Len(t, submitted[0].Endorsers, 2)
	assert.Equal(t, "org1", submitted[0].Endorsers[0].OrgID)
	assert.Equal(t, "org2", submitted[0].Endorsers[1].OrgID)
}

func TestClose(t *testing.T) {
	f := newFixture(t)
	sdk, err := New(f.config)
	require.NoError(t, err)

	_, err = sdk.ChainClient("chain1")
	require.NoError(t, err)

	require.NoError(t, sdk.Close())
	require.NoError(t, sdk.Close())
	_, err = sdk.ChainClient("chain1")
	assert.Error(t, err)
}

func TestMetrics(t *testing.T) {
	f := newFixture(t)
	reg := prometheus.NewRegistry()
	sdk := newSDK(t, f, WithMetricsRegisterer(reg))

	for _, id := range sdk.ChainIDs() {
		client, err := sdk.ChainClient(id)
		require.NoError(t, err)
		_, err = client.QueryContract(context.Background(), chain.Request{ContractName: "fact", Method: "find"})
		require.NoError(t, err)
	}
	assert.Equal(t, 1, testutil.CollectAndCount(reg, "chain_client_queries_received"))
}

func TestChainSetupFailure(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, os.Remove(filepath.Join(f.dir, "org2.key")))
	sdk := newSDK(t, f)

	_, err := sdk.ChainClient("chain1")
	assert.Error(t, err)

	sdk = newSDK(t, newFixtureWithoutNodes(t, f), WithConnectionOpts(comm.WithConnectTimeout(100*time.Millisecond)))
	_, err = sdk.ChainClient("chain2")
	assert.Error(t, err)
}

// newFixtureWithoutNodes points every chain of f at closed ports
func newFixtureWithoutNodes(t *testing.T, f *fixture) *fixture {
	writeKeyPair(t, f.dir, "org2", "org2")
	raw := fmt.Sprintf(configTemplate, f.dir, "127.0.0.1:1", "127.0.0.1:1")
	return &fixture{dir: f.dir, config: config.FromRaw([]byte(raw), "yaml")}
}

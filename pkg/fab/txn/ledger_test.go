/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package txn_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fish1208/chainmaker-sdk-go/pkg/common/providers/fab"
	"github.com/fish1208/chainmaker-sdk-go/pkg/common/providers/msp"
	"github.com/fish1208/chainmaker-sdk-go/pkg/fab/txn"
)

func sampleTransaction() *fab.Transaction {
	p := samplePayload()
	p.Parameters = txn.Params(map[string][]byte{"file_hash": {0xab}, "time": []byte("1")})
	return &fab.Transaction{
		Payload: p,
		Sender:  &fab.EndorsementEntry{OrgID: "org1", MemberType: msp.Cert, MemberInfo: []byte("cert"), Signature: []byte("sig")},
		Endorsers: []*fab.EndorsementEntry{
			{OrgID: "org2", MemberType: msp.PublicKey, MemberInfo: []byte("0x01"), Signature: []byte("sig2")},
		},
		Result: &fab.TxResponse{Code: fab.Success, Result: []byte("ok"), GasUsed: 3, TxID: "tx1", BlockHeight: 9},
	}
}

func TestTransactionInfoRoundTrip(t *testing.T) {
	info := &fab.TransactionInfo{Transaction: sampleTransaction(), BlockHeight: 9, BlockHash: []byte{0xbe, 0xef}, TxIndex: 2}
	b, err := txn.MarshalTransactionInfo(info)
	require.NoError(t, err)

	decoded, err := txn.UnmarshalTransactionInfo(b)
	require.NoError(t, err)
	assert.Equal(t, info, decoded)

	_, err = txn.MarshalTransactionInfo(&fab.TransactionInfo{})
	assert.Error(t, err)
	_, err = txn.UnmarshalTransactionInfo(nil)
	assert.Error(t, err, "a lookup answer without a transaction is rejected")
	_, err = txn.UnmarshalTransactionInfo([]byte{0x0a, 0x05})
	assert.Error(t, err)
}

func TestBlockInfoRoundTrip(t *testing.T) {
	info := &fab.BlockInfo{
		Block: &fab.Block{
			Header: &fab.BlockHeader{
				ChainID:        "chain1",
				BlockHeight:    9,
				PreBlockHash:   []byte{1},
				BlockHash:      []byte{2},
				TxRoot:         []byte{3},
				BlockTimestamp: 1700000000,
				TxCount:        1,
				Proposer:       "node1",
			},
			Txs: []*fab.Transaction{sampleTransaction()},
		},
		RWSets: []*fab.TxRWSet{{
			TxID:   "tx1",
			Reads:  []fab.StateEntry{{ContractName: "fact", Key: []byte("k"), Value: []byte("old")}},
			Writes: []fab.StateEntry{{ContractName: "fact", Key: []byte("k"), Value: []byte("new")}},
		}},
	}
	b, err := txn.MarshalBlockInfo(info)
	require.NoError(t, err)

	decoded, err := txn.UnmarshalBlockInfo(b)
	require.NoError(t, err)
	assert.Equal(t, info, decoded)

	_, err = txn.MarshalBlockInfo(&fab.BlockInfo{Block: &fab.Block{}})
	assert.Error(t, err)
	_, err = txn.UnmarshalBlockInfo(nil)
	assert.Error(t, err, "a block without a header is rejected")
}

func TestChainInfoRoundTrip(t *testing.T) {
	info := &fab.ChainInfo{BlockHeight: 42, Nodes: []fab.NodeInfo{
		{NodeID: "QmNode1", Address: "/ip4/127.0.0.1/tcp/11301"},
		{NodeID: "QmNode2", Address: "/ip4/127.0.0.1/tcp/11302"},
	}}
	b, err := txn.MarshalChainInfo(info)
	require.NoError(t, err)

	decoded, err := txn.UnmarshalChainInfo(b)
	require.NoError(t, err)
	assert.Equal(t, info, decoded)

	_, err = txn.MarshalChainInfo(nil)
	assert.Error(t, err)
}

func TestNotFound(t *testing.T) {
	assert.True(t, txn.NotFound(&fab.TxResponse{Code: fab.ContractFail, ContractMessage: "no such block"}))
	assert.False(t, txn.NotFound(&fab.TxResponse{Code: fab.Success}))
	assert.False(t, txn.NotFound(&fab.TxResponse{Code: fab.NoPermission}))
	assert.False(t, txn.NotFound(nil))
}

func TestBuildChainQuery(t *testing.T) {
	b, err := txn.NewBuilder("chain1")
	require.NoError(t, err)

	params := txn.Params(map[string][]byte{txn.KeyBlockHeight: []byte("3"), txn.KeyWithRWSet: []byte("true")})
	p, err := b.BuildChainQuery(txn.MethodGetBlockByHeight, params, txn.VersionMetadata{})
	require.NoError(t, err)
	assert.Equal(t, fab.QueryContract, p.TxType)
	assert.Equal(t, txn.ChainQueryName, p.ContractName)
	assert.Equal(t, txn.MethodGetBlockByHeight, p.Method)
	height, ok := p.Param(txn.KeyBlockHeight)
	require.True(t, ok)
	assert.Equal(t, "3", string(height))
}

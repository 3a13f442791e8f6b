/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package txn

import (
	"github.com/pkg/errors"
	"google.golang.org/protobuf/encoding/protowire"

	"github.com/fish1208/chainmaker-sdk-go/pkg/common/providers/fab"
	"github.com/fish1208/chainmaker-sdk-go/pkg/fab/comm"
)

// System contract and parameter names of ledger queries
const (
	ChainQueryName = "CHAIN_QUERY"

	MethodGetTxByTxID      = "GET_TX_BY_TX_ID"
	MethodGetBlockByHeight = "GET_BLOCK_BY_HEIGHT"
	MethodGetBlockByHash   = "GET_BLOCK_BY_HASH"
	MethodGetBlockByTxID   = "GET_BLOCK_BY_TX_ID"
	MethodGetLastBlock     = "GET_LAST_BLOCK"
	MethodGetChainInfo     = "GET_CHAIN_INFO"

	KeyTxID        = "txId"
	KeyBlockHeight = "blockHeight"
	KeyBlockHash   = "blockHash"
	KeyWithRWSet   = "withRWSet"
)

// BuildChainQuery creates a read-only call to the ledger query contract
func (b *Builder) BuildChainQuery(method string, params []fab.KeyValuePair, meta VersionMetadata) (*fab.Payload, error) {
	return b.BuildQuery(ChainQueryName, method, params, meta)
}

// NotFound reports whether a ledger query answer means the transaction or
// block asked for is not on the ledger (yet). The query contract reports
// unknown keys as a failed contract result.
func NotFound(res *fab.TxResponse) bool {
	return res != nil && res.Code == fab.ContractFail
}

func appendTransaction(b []byte, tx *fab.Transaction) []byte {
	if tx.Payload != nil {
		b = comm.AppendMessage(b, 1, appendPayload(nil, tx.Payload))
	}
	if tx.Sender != nil {
		b = comm.AppendMessage(b, 2, appendEndorsement(nil, tx.Sender))
	}
	for _, e := range tx.Endorsers {
		b = comm.AppendMessage(b, 3, appendEndorsement(nil, e))
	}
	if tx.Result != nil {
		b = comm.AppendMessage(b, 4, appendTxResponse(nil, tx.Result))
	}
	return b
}

func consumeTransaction(b []byte) (*fab.Transaction, error) {
	tx := &fab.Transaction{}
	err := comm.ConsumeFields(b, func(f comm.Field) error {
		var err error
		switch f.Num {
		case 1:
			tx.Payload, err = UnmarshalPayload(f.Bytes)
		case 2:
			tx.Sender, err = consumeEndorsement(f.Bytes)
		case 3:
			var e *fab.EndorsementEntry
			if e, err = consumeEndorsement(f.Bytes); err == nil {
				tx.Endorsers = append(tx.Endorsers, e)
			}
		case 4:
			tx.Result, err = UnmarshalTxResponse(f.Bytes)
		}
		return err
	})
	if err != nil {
		return nil, errors.WithMessage(err, "unmarshal transaction failed")
	}
	return tx, nil
}

// MarshalTransactionInfo encodes a committed transaction and its position
func MarshalTransactionInfo(info *fab.TransactionInfo) ([]byte, error) {
	if info == nil || info.Transaction == nil {
		return nil, errors.New("transaction info has no transaction")
	}
	var b []byte
	b = comm.AppendMessage(b, 1, appendTransaction(nil, info.Transaction))
	b = comm.AppendVarint(b, 2, info.BlockHeight)
	b = comm.AppendBytes(b, 3, info.BlockHash)
	return comm.AppendVarint(b, 4, uint64(info.TxIndex)), nil
}

// UnmarshalTransactionInfo decodes bytes produced by MarshalTransactionInfo
func UnmarshalTransactionInfo(b []byte) (*fab.TransactionInfo, error) {
	info := &fab.TransactionInfo{}
	err := comm.ConsumeFields(b, func(f comm.Field) error {
		var err error
		switch f.Num {
		case 1:
			info.Transaction, err = consumeTransaction(f.Bytes)
		case 2:
			info.BlockHeight = f.Varint
		case 3:
			info.BlockHash = append([]byte{}, f.Bytes...)
		case 4:
			info.TxIndex = uint32(f.Varint)
		}
		return err
	})
	if err != nil {
		return nil, errors.WithMessage(err, "unmarshal transaction info failed")
	}
	if info.Transaction == nil {
		return nil, errors.New("transaction info has no transaction")
	}
	return info, nil
}

func appendHeader(b []byte, h *fab.BlockHeader) []byte {
	b = comm.AppendString(b, 1, h.ChainID)
	b = comm.AppendVarint(b, 2, h.BlockHeight)
	b = comm.AppendBytes(b, 3, h.PreBlockHash)
	b = comm.AppendBytes(b, 4, h.BlockHash)
	b = comm.AppendBytes(b, 5, h.TxRoot)
	b = comm.AppendVarint(b, 6, uint64(h.BlockTimestamp))
	b = comm.AppendVarint(b, 7, uint64(h.TxCount))
	return comm.AppendString(b, 8, h.Proposer)
}

func consumeHeader(b []byte) (*fab.BlockHeader, error) {
	h := &fab.BlockHeader{}
	err := comm.ConsumeFields(b, func(f comm.Field) error {
		switch f.Num {
		case 1:
			h.ChainID = string(f.Bytes)
		case 2:
			h.BlockHeight = f.Varint
		case 3:
			h.PreBlockHash = append([]byte{}, f.Bytes...)
		case 4:
			h.BlockHash = append([]byte{}, f.Bytes...)
		case 5:
			h.TxRoot = append([]byte{}, f.Bytes...)
		case 6:
			h.BlockTimestamp = int64(f.Varint)
		case 7:
			h.TxCount = uint32(f.Varint)
		case 8:
			h.Proposer = string(f.Bytes)
		}
		return nil
	})
	if err != nil {
		return nil, errors.WithMessage(err, "unmarshal block header failed")
	}
	return h, nil
}

func appendStateEntry(b []byte, num protowire.Number, e fab.StateEntry) []byte {
	var m []byte
	m = comm.AppendString(m, 1, e.ContractName)
	m = comm.AppendBytes(m, 2, e.Key)
	m = comm.AppendBytes(m, 3, e.Value)
	return comm.AppendMessage(b, num, m)
}

func consumeStateEntry(b []byte) (fab.StateEntry, error) {
	e := fab.StateEntry{}
	err := comm.ConsumeFields(b, func(f comm.Field) error {
		switch f.Num {
		case 1:
			e.ContractName = string(f.Bytes)
		case 2:
			e.Key = append([]byte{}, f.Bytes...)
		case 3:
			e.Value = append([]byte{}, f.Bytes...)
		}
		return nil
	})
	return e, err
}

func appendRWSet(b []byte, rw *fab.TxRWSet) []byte {
	b = comm.AppendString(b, 1, rw.TxID)
	for _, e := range rw.Reads {
		b = appendStateEntry(b, 2, e)
	}
	for _, e := range rw.Writes {
		b = appendStateEntry(b, 3, e)
	}
	return b
}

func consumeRWSet(b []byte) (*fab.TxRWSet, error) {
	rw := &fab.TxRWSet{}
	err := comm.ConsumeFields(b, func(f comm.Field) error {
		switch f.Num {
		case 1:
			rw.TxID = string(f.Bytes)
		case 2, 3:
			e, err := consumeStateEntry(f.Bytes)
			if err != nil {
				return err
			}
			if f.Num == 2 {
				rw.Reads = append(rw.Reads, e)
			} else {
				rw.Writes = append(rw.Writes, e)
			}
		}
		return nil
	})
	if err != nil {
		return nil, errors.WithMessage(err, "unmarshal read-write set failed")
	}
	return rw, nil
}

// MarshalBlockInfo encodes a block with its optional read-write sets
func MarshalBlockInfo(info *fab.BlockInfo) ([]byte, error) {
	if info == nil || info.Block == nil || info.Block.Header == nil {
		return nil, errors.New("block info has no block header")
	}
	block := comm.AppendMessage(nil, 1, appendHeader(nil, info.Block.Header))
	for _, tx := range info.Block.Txs {
		block = comm.AppendMessage(block, 2, appendTransaction(nil, tx))
	}

	b := comm.AppendMessage(nil, 1, block)
	for _, rw := range info.RWSets {
		b = comm.AppendMessage(b, 2, appendRWSet(nil, rw))
	}
	return b, nil
}

// UnmarshalBlockInfo decodes bytes produced by MarshalBlockInfo
func UnmarshalBlockInfo(b []byte) (*fab.BlockInfo, error) {
	info := &fab.BlockInfo{}
	err := comm.ConsumeFields(b, func(f comm.Field) error {
		switch f.Num {
		case 1:
			block, err := consumeBlock(f.Bytes)
			if err != nil {
				return err
			}
			info.Block = block
		case 2:
			rw, err := consumeRWSet(f.Bytes)
			if err != nil {
				return err
			}
			info.RWSets = append(info.RWSets, rw)
		}
		return nil
	})
	if err != nil {
		return nil, errors.WithMessage(err, "unmarshal block info failed")
	}
	if info.Block == nil || info.Block.Header == nil {
		return nil, errors.New("block info has no block header")
	}
	return info, nil
}

func consumeBlock(b []byte) (*fab.Block, error) {
	block := &fab.Block{}
	err := comm.ConsumeFields(b, func(f comm.Field) error {
		var err error
		switch f.Num {
		case 1:
			block.Header, err = consumeHeader(f.Bytes)
		case 2:
			var tx *fab.Transaction
			if tx, err = consumeTransaction(f.Bytes); err == nil {
				block.Txs = append(block.Txs, tx)
			}
		}
		return err
	})
	return block, err
}

// MarshalChainInfo encodes the chain height and node list
func MarshalChainInfo(info *fab.ChainInfo) ([]byte, error) {
	if info == nil {
		return nil, errors.New("chain info is nil")
	}
	b := comm.AppendVarint(nil, 1, info.BlockHeight)
	for _, n := range info.Nodes {
		var m []byte
		m = comm.AppendString(m, 1, n.NodeID)
		m = comm.AppendString(m, 2, n.Address)
		b = comm.AppendMessage(b, 2, m)
	}
	return b, nil
}

// UnmarshalChainInfo decodes bytes produced by MarshalChainInfo
func UnmarshalChainInfo(b []byte) (*fab.ChainInfo, error) {
	info := &fab.ChainInfo{}
	err := comm.ConsumeFields(b, func(f comm.Field) error {
		switch f.Num {
		case 1:
			info.BlockHeight = f.Varint
		case 2:
			n := fab.NodeInfo{}
			err := comm.ConsumeFields(f.Bytes, func(nf comm.Field) error {
				switch nf.Num {
				case 1:
					n.NodeID = string(nf.Bytes)
				case 2:
					n.Address = string(nf.Bytes)
				}
				return nil
			})
			if err != nil {
				return err
			}
			info.Nodes = append(info.Nodes, n)
		}
		return nil
	})
	if err != nil {
		return nil, errors.WithMessage(err, "unmarshal chain info failed")
	}
	return info, nil
}

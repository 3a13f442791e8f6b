/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package fab

// Transaction is a request as recorded in a block, together with its outcome
type Transaction struct {
	Payload   *Payload
	Sender    *EndorsementEntry
	Endorsers []*EndorsementEntry
	Result    *TxResponse
}

// TransactionInfo locates a committed transaction in the ledger
type TransactionInfo struct {
	Transaction *Transaction
	BlockHeight uint64
	BlockHash   []byte
	TxIndex     uint32
}

// BlockHeader describes a committed block
type BlockHeader struct {
	ChainID        string
	BlockHeight    uint64
	PreBlockHash   []byte
	BlockHash      []byte
	TxRoot         []byte
	BlockTimestamp int64
	TxCount        uint32
	Proposer       string
}

// Block is a committed block and its transactions
type Block struct {
	Header *BlockHeader
	Txs    []*Transaction
}

// StateEntry is one key read or written by a transaction
type StateEntry struct {
	ContractName string
	Key          []byte
	Value        []byte
}

// TxRWSet is the state read and written by one transaction
type TxRWSet struct {
	TxID   string
	Reads  []StateEntry
	Writes []StateEntry
}

// BlockInfo is a block as returned by ledger queries. RWSets is only
// populated when requested.
type BlockInfo struct {
	Block  *Block
	RWSets []*TxRWSet
}

// NodeInfo identifies a node of the chain
type NodeInfo struct {
	NodeID  string
	Address string
}

// ChainInfo is the chain's current height and the nodes serving it
type ChainInfo struct {
	BlockHeight uint64
	Nodes       []NodeInfo
}

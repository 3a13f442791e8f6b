/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package chain

import (
	"context"
	"encoding/hex"
	"strconv"

	"github.com/pkg/errors"

	"github.com/fish1208/chainmaker-sdk-go/pkg/common/providers/fab"
	"github.com/fish1208/chainmaker-sdk-go/pkg/fab/txn"
)

// GetTxByTxID queries the ledger for a committed transaction.
//
//	Parameters:
//	txID is the id of the transaction
//	options hold optional request options
//
//	Returns:
//	the transaction, its result and its position in the ledger
//
// A transaction that is not on the ledger yet fails with
// ContractExecutionFailed.
func (c *Client) GetTxByTxID(ctx context.Context, txID string, options ...RequestOption) (*fab.TransactionInfo, error) {
	res, err := c.chainQuery(ctx, txn.MethodGetTxByTxID, map[string][]byte{txn.KeyTxID: []byte(txID)}, options...)
	if err != nil {
		return nil, errors.WithMessage(err, "GetTxByTxID failed")
	}
	info, err := txn.UnmarshalTransactionInfo(res.Result)
	if err != nil {
		return nil, errors.WithMessage(err, "GetTxByTxID failed")
	}
	return info, nil
}

// GetBlockHeightByTxID returns the height of the block holding txID
func (c *Client) GetBlockHeightByTxID(ctx context.Context, txID string, options ...RequestOption) (uint64, error) {
	info, err := c.GetTxByTxID(ctx, txID, options...)
	if err != nil {
		return 0, err
	}
	return info.BlockHeight, nil
}

// GetBlockByHeight queries the ledger for a block by its height.
//
//	Parameters:
//	height is the block height
//	withRWSet asks for the read-write sets of the block's transactions
//	options hold optional request options
//
//	Returns:
//	block information
func (c *Client) GetBlockByHeight(ctx context.Context, height uint64, withRWSet bool, options ...RequestOption) (*fab.BlockInfo, error) {
	return c.queryBlock(ctx, "GetBlockByHeight", txn.MethodGetBlockByHeight,
		txn.KeyBlockHeight, []byte(strconv.FormatUint(height, 10)), withRWSet, options...)
}

// GetBlockByHash queries the ledger for a block by its hash
func (c *Client) GetBlockByHash(ctx context.Context, hash []byte, withRWSet bool, options ...RequestOption) (*fab.BlockInfo, error) {
	return c.queryBlock(ctx, "GetBlockByHash", txn.MethodGetBlockByHash,
		txn.KeyBlockHash, []byte(hex.EncodeToString(hash)), withRWSet, options...)
}

// GetBlockByTxID queries the ledger for the block holding a transaction
func (c *Client) GetBlockByTxID(ctx context.Context, txID string, withRWSet bool, options ...RequestOption) (*fab.BlockInfo, error) {
	return c.queryBlock(ctx, "GetBlockByTxID", txn.MethodGetBlockByTxID,
		txn.KeyTxID, []byte(txID), withRWSet, options...)
}

// GetLastBlock queries the ledger for the latest committed block
func (c *Client) GetLastBlock(ctx context.Context, withRWSet bool, options ...RequestOption) (*fab.BlockInfo, error) {
	return c.queryBlock(ctx, "GetLastBlock", txn.MethodGetLastBlock, "", nil, withRWSet, options...)
}

// GetCurrentBlockHeight returns the height of the latest committed block
func (c *Client) GetCurrentBlockHeight(ctx context.Context, options ...RequestOption) (uint64, error) {
	block, err := c.GetLastBlock(ctx, false, options...)
	if err != nil {
		return 0, err
	}
	return block.Block.Header.BlockHeight, nil
}

// GetChainInfo queries the chain's current height and the nodes serving it.
//
//	Parameters:
//	options are optional request options
//
//	Returns:
//	chain information
func (c *Client) GetChainInfo(ctx context.Context, options ...RequestOption) (*fab.ChainInfo, error) {
	res, err := c.chainQuery(ctx, txn.MethodGetChainInfo, nil, options...)
	if err != nil {
		return nil, errors.WithMessage(err, "GetChainInfo failed")
	}
	info, err := txn.UnmarshalChainInfo(res.Result)
	if err != nil {
		return nil, errors.WithMessage(err, "GetChainInfo failed")
	}
	return info, nil
}

func (c *Client) queryBlock(ctx context.Context, op, method, key string, value []byte, withRWSet bool, options ...RequestOption) (*fab.BlockInfo, error) {
	params := map[string][]byte{txn.KeyWithRWSet: []byte(strconv.FormatBool(withRWSet))}
	if key != "" {
		params[key] = value
	}
	res, err := c.chainQuery(ctx, method, params, options...)
	if err != nil {
		return nil, errors.WithMessage(err, op+" failed")
	}
	block, err := txn.UnmarshalBlockInfo(res.Result)
	if err != nil {
		return nil, errors.WithMessage(err, op+" failed")
	}
	return block, nil
}

func (c *Client) chainQuery(ctx context.Context, method string, params map[string][]byte, options ...RequestOption) (*fab.TxResponse, error) {
	return callQuery(c, txn.ChainQueryName, method, func(o requestOptions) (*fab.TxResponse, error) {
		return c.query(ctx, o, func(meta txn.VersionMetadata) (*fab.Payload, error) {
			return c.builder.BuildChainQuery(method, txn.Params(params), meta)
		})
	}, options...)
}

/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package chain

import (
	"context"

	"github.com/pkg/errors"

	"github.com/fish1208/chainmaker-sdk-go/pkg/common/providers/fab"
	"github.com/fish1208/chainmaker-sdk-go/pkg/evm/abi"
	"github.com/fish1208/chainmaker-sdk-go/pkg/fab/txn"
)

// InvokeEVM encodes call, submits it to the EVM contract deployed under name
// and decodes the finalized result into call.Returns.
func (c *Client) InvokeEVM(ctx context.Context, name string, call *abi.CallSpec, options ...RequestOption) (*EVMResponse, error) {
	if call == nil {
		return nil, errors.New("call is required")
	}
	res, err := callInvoke(c, name, call.Method, func(o requestOptions) (*fab.TxResponse, error) {
		return c.submitWithRetry(ctx, o, func(meta txn.VersionMetadata) (*fab.Payload, error) {
			return c.builder.BuildEVMCall(name, call, meta)
		}, false)
	}, options...)
	return decodeEVM(res, err, call)
}

// QueryEVM calls the EVM contract deployed under name read-only and decodes
// the result into call.Returns.
func (c *Client) QueryEVM(ctx context.Context, name string, call *abi.CallSpec, options ...RequestOption) (*EVMResponse, error) {
	if call == nil {
		return nil, errors.New("call is required")
	}
	res, err := callQuery(c, name, call.Method, func(o requestOptions) (*fab.TxResponse, error) {
		return c.query(ctx, o, func(meta txn.VersionMetadata) (*fab.Payload, error) {
			return c.builder.BuildEVMQuery(name, call, meta)
		})
	}, options...)
	return decodeEVM(res, err, call)
}

func decodeEVM(res *fab.TxResponse, err error, call *abi.CallSpec) (*EVMResponse, error) {
	if res == nil {
		return nil, err
	}
	out := &EVMResponse{TxResponse: res}
	if err != nil || len(call.Returns) == 0 {
		return out, err
	}
	out.Values, err = abi.DecodeResult(res, call.Returns)
	if err != nil {
		return out, err
	}
	return out, nil
}

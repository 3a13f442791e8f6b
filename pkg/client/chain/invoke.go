/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package chain

import (
	"context"

	"github.com/fish1208/chainmaker-sdk-go/pkg/common/errors/retry"
	"github.com/fish1208/chainmaker-sdk-go/pkg/common/errors/status"
	"github.com/fish1208/chainmaker-sdk-go/pkg/common/providers/fab"
	"github.com/fish1208/chainmaker-sdk-go/pkg/fab/txn"
)

// buildFunc creates the payload of one attempt
type buildFunc func(meta txn.VersionMetadata) (*fab.Payload, error)

// InvokeContract submits a state-changing call of request.Method and waits
// for its finalization.
//
// A finalized transaction with a non-success code is returned together with
// an error describing the outcome.
func (c *Client) InvokeContract(ctx context.Context, request Request, options ...RequestOption) (*fab.TxResponse, error) {
	return callInvoke(c, request.ContractName, request.Method, func(o requestOptions) (*fab.TxResponse, error) {
		return c.submitWithRetry(ctx, o, func(meta txn.VersionMetadata) (*fab.Payload, error) {
			return c.builder.Build(request.ContractName, request.Method, txn.Params(request.Params), meta)
		}, false)
	}, options...)
}

// QueryContract calls request.Method read-only
func (c *Client) QueryContract(ctx context.Context, request Request, options ...RequestOption) (*fab.TxResponse, error) {
	return callQuery(c, request.ContractName, request.Method, func(o requestOptions) (*fab.TxResponse, error) {
		return c.query(ctx, o, func(meta txn.VersionMetadata) (*fab.Payload, error) {
			return c.builder.BuildQuery(request.ContractName, request.Method, txn.Params(request.Params), meta)
		})
	}, options...)
}

// submitWithRetry runs one submission per attempt. The caller's tx id is
// only used by the first attempt.
func (c *Client) submitWithRetry(ctx context.Context, o requestOptions, build buildFunc, endorse bool) (*fab.TxResponse, error) {
	attempt := func(n int) (interface{}, error) {
		meta := txn.VersionMetadata{Sequence: o.Sequence, Version: o.Version}
		if n == 1 {
			meta.TxID = o.TxID
		}
		payload, err := build(meta)
		if err != nil {
			return nil, err
		}

		var endorsements []*fab.EndorsementEntry
		if endorse {
			endorsements, err = c.endorseManagement(payload, o.Endorsers)
			if err != nil {
				c.ids.Release(payload.TxID)
				return nil, err
			}
		}
		return c.submitter.Submit(ctx, payload, endorsements, o.RequestTimeout, o.ResultTimeout)
	}

	var (
		res interface{}
		err error
	)
	if o.Retry == nil {
		res, err = attempt(1)
	} else {
		res, err = retry.NewInvoker(retry.New(*o.Retry)).Invoke(ctx, attempt)
	}
	if err != nil {
		return nil, err
	}
	return outcome(res.(*fab.TxResponse))
}

func (c *Client) query(ctx context.Context, o requestOptions, build buildFunc) (*fab.TxResponse, error) {
	payload, err := build(txn.VersionMetadata{TxID: o.TxID, Sequence: o.Sequence, Version: o.Version})
	if err != nil {
		return nil, err
	}
	res, err := c.submitter.Query(ctx, payload, o.RequestTimeout)
	if err != nil {
		return nil, err
	}
	return outcome(res)
}

// outcome turns a non-success response into an error while still returning
// the response
func outcome(res *fab.TxResponse) (*fab.TxResponse, error) {
	if res.Succeeded() {
		return res, nil
	}
	switch res.Code {
	case fab.ContractFail, fab.ContractPanic, fab.OutOfGas:
		return res, status.NewContractExecutionFailed(res)
	default:
		return res, status.NewFromTxResponse(res, "")
	}
}

/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package chain

import (
	"context"

	"github.com/pkg/errors"

	"github.com/fish1208/chainmaker-sdk-go/pkg/common/providers/fab"
	"github.com/fish1208/chainmaker-sdk-go/pkg/common/providers/msp"
	"github.com/fish1208/chainmaker-sdk-go/pkg/evm/abi"
	"github.com/fish1208/chainmaker-sdk-go/pkg/fab/endorsement"
	"github.com/fish1208/chainmaker-sdk-go/pkg/fab/txn"
)

// CreateContract installs a contract. The payload is endorsed by the
// request's endorsers, else the client's, else the sender alone.
func (c *Client) CreateContract(ctx context.Context, request ContractRequest, options ...RequestOption) (*fab.TxResponse, error) {
	return c.manage(ctx, txn.MethodInitContract, func(meta txn.VersionMetadata) (*fab.Payload, error) {
		return c.builder.BuildContractCreate(request.Name, request.Version, request.Runtime, request.Bytecode, txn.Params(request.Params), meta)
	}, options...)
}

// UpgradeContract replaces the code of an installed contract
func (c *Client) UpgradeContract(ctx context.Context, request ContractRequest, options ...RequestOption) (*fab.TxResponse, error) {
	return c.manage(ctx, txn.MethodUpgradeContract, func(meta txn.VersionMetadata) (*fab.Payload, error) {
		return c.builder.BuildContractUpgrade(request.Name, request.Version, request.Runtime, request.Bytecode, txn.Params(request.Params), meta)
	}, options...)
}

// CreateEVMContract installs EVM bytecode under the contract name derived
// from name, passing constructorArgs to the constructor.
func (c *Client) CreateEVMContract(ctx context.Context, name, version string, bytecode []byte, constructorArgs []abi.TypedValue, options ...RequestOption) (*fab.TxResponse, error) {
	return c.manage(ctx, txn.MethodInitContract, func(meta txn.VersionMetadata) (*fab.Payload, error) {
		return c.builder.BuildEVMContractCreate(name, version, bytecode, constructorArgs, meta)
	}, options...)
}

// FreezeContract suspends a contract
func (c *Client) FreezeContract(ctx context.Context, name string, options ...RequestOption) (*fab.TxResponse, error) {
	return c.manage(ctx, txn.MethodFreezeContract, func(meta txn.VersionMetadata) (*fab.Payload, error) {
		return c.builder.BuildContractFreeze(name, meta)
	}, options...)
}

// UnfreezeContract resumes a frozen contract
func (c *Client) UnfreezeContract(ctx context.Context, name string, options ...RequestOption) (*fab.TxResponse, error) {
	return c.manage(ctx, txn.MethodUnfreezeContract, func(meta txn.VersionMetadata) (*fab.Payload, error) {
		return c.builder.BuildContractUnfreeze(name, meta)
	}, options...)
}

// RevokeContract permanently disables a contract
func (c *Client) RevokeContract(ctx context.Context, name string, options ...RequestOption) (*fab.TxResponse, error) {
	return c.manage(ctx, txn.MethodRevokeContract, func(meta txn.VersionMetadata) (*fab.Payload, error) {
		return c.builder.BuildContractRevoke(name, meta)
	}, options...)
}

// SendContractManageRequest submits a management payload the caller built
// and endorsed. The endorsements are checked against the client's policy
// first. The request is sent once; WithRetry does not apply since the
// payload cannot be rebuilt.
func (c *Client) SendContractManageRequest(ctx context.Context, payload *fab.Payload, endorsements []*fab.EndorsementEntry, options ...RequestOption) (*fab.TxResponse, error) {
	if payload == nil {
		return nil, errors.New("payload is required")
	}
	if payload.TxType != fab.ContractManage {
		return nil, errors.Errorf("payload of type %s is not a contract management request", payload.TxType)
	}
	return callInvoke(c, payload.ContractName, payload.Method, func(o requestOptions) (*fab.TxResponse, error) {
		if err := c.evaluate(endorsements); err != nil {
			return nil, err
		}
		res, err := c.submitter.Submit(ctx, payload, endorsements, o.RequestTimeout, o.ResultTimeout)
		if err != nil {
			return nil, err
		}
		return outcome(res)
	}, options...)
}

func (c *Client) manage(ctx context.Context, method string, build buildFunc, options ...RequestOption) (*fab.TxResponse, error) {
	return callInvoke(c, txn.ContractManageName, method, func(o requestOptions) (*fab.TxResponse, error) {
		return c.submitWithRetry(ctx, o, build, true)
	}, options...)
}

// endorseManagement collects the endorsements of a management payload and
// checks them against the policy
func (c *Client) endorseManagement(payload *fab.Payload, override []msp.SigningIdentity) ([]*fab.EndorsementEntry, error) {
	ids := override
	if len(ids) == 0 {
		ids = c.endorsers
	}
	if len(ids) == 0 {
		ids = []msp.SigningIdentity{c.signer}
	}

	entries, err := endorsement.Collect(payload, ids...)
	if err != nil {
		return nil, err
	}
	if err := c.evaluate(entries); err != nil {
		return nil, err
	}
	return entries, nil
}

func (c *Client) evaluate(entries []*fab.EndorsementEntry) error {
	if c.policy == nil {
		return nil
	}
	return c.policy.Evaluate(entries)
}

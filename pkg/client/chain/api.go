/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package chain

import (
	"time"

	"github.com/pkg/errors"

	"github.com/fish1208/chainmaker-sdk-go/pkg/common/errors/retry"
	"github.com/fish1208/chainmaker-sdk-go/pkg/common/providers/fab"
	"github.com/fish1208/chainmaker-sdk-go/pkg/common/providers/msp"
	"github.com/fish1208/chainmaker-sdk-go/pkg/evm/abi"
	"github.com/fish1208/chainmaker-sdk-go/pkg/fab/txn"
)

// requestOptions allows the user to specify more advanced options
type requestOptions struct {
	RequestTimeout time.Duration
	ResultTimeout  time.Duration
	TxID           string
	Sequence       uint64
	Version        string
	Retry          *retry.Opts
	Endorsers      []msp.SigningIdentity
}

// RequestOption func for each Opts argument
type RequestOption func(opts *requestOptions) error

// Request contains the parameters of a contract invocation or query
type Request struct {
	ContractName string
	Method       string
	Params       map[string][]byte
}

// ContractRequest describes a contract to install or upgrade
type ContractRequest struct {
	Name     string
	Version  string
	Runtime  txn.RuntimeType
	Bytecode []byte
	Params   map[string][]byte
}

// EVMResponse is a transaction outcome together with the decoded return values
type EVMResponse struct {
	*fab.TxResponse
	Values []abi.TypedValue
}

// WithTimeouts bounds the acknowledgment wait by request and the
// finalization wait by result. A result timeout of zero returns as soon as a
// node acknowledges the transaction.
func WithTimeouts(request, result time.Duration) RequestOption {
	return func(o *requestOptions) error {
		if request < 0 || result < 0 {
			return errors.New("timeouts must not be negative")
		}
		o.RequestTimeout = request
		o.ResultTimeout = result
		return nil
	}
}

// WithTxID uses id as the transaction id of the first attempt
func WithTxID(id string) RequestOption {
	return func(o *requestOptions) error {
		if id == "" {
			return errors.New("transaction id is empty")
		}
		o.TxID = id
		return nil
	}
}

// WithSequence sets the payload sequence number
func WithSequence(seq uint64) RequestOption {
	return func(o *requestOptions) error {
		o.Sequence = seq
		return nil
	}
}

// WithVersion sets the payload version string
func WithVersion(version string) RequestOption {
	return func(o *requestOptions) error {
		o.Version = version
		return nil
	}
}

// WithRetry resubmits on SubmissionTimeout and connection failures. Every
// attempt is a new transaction with a new transaction id.
func WithRetry(retryOpt retry.Opts) RequestOption {
	return func(o *requestOptions) error {
		o.Retry = &retryOpt
		return nil
	}
}

// WithEndorsers endorses the payload with ids instead of the client's
// configured endorsers
func WithEndorsers(ids ...msp.SigningIdentity) RequestOption {
	return func(o *requestOptions) error {
		for _, id := range ids {
			if id == nil {
				return errors.New("endorser identity is nil")
			}
		}
		o.Endorsers = ids
		return nil
	}
}

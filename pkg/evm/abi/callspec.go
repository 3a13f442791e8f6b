/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package abi

import (
	"encoding/hex"

	"github.com/fish1208/chainmaker-sdk-go/pkg/common/errors/status"
	"github.com/fish1208/chainmaker-sdk-go/pkg/common/providers/fab"
)

// CallSpec describes one contract call. Args are positional and must match
// the contract's declared signature; Returns lists the expected result types.
type CallSpec struct {
	Method  string
	Args    []TypedValue
	Returns []TypeTag
}

// NewCallSpec returns a CallSpec for method
func NewCallSpec(method string, args []TypedValue, returns ...TypeTag) *CallSpec {
	return &CallSpec{Method: method, Args: args, Returns: returns}
}

// Signature returns the canonical method signature
func (c *CallSpec) Signature() (string, error) {
	return Signature(c.Method, typesOf(c.Args))
}

// Selector returns the 4 byte method selector
func (c *CallSpec) Selector() ([SelectorLength]byte, error) {
	return Selector(c.Method, typesOf(c.Args))
}

// SelectorHex returns the selector as 8 hex characters without 0x
func (c *CallSpec) SelectorHex() (string, error) {
	sel, err := c.Selector()
	if err != nil {
		return "", err
	}
	return hex.EncodeToString(sel[:]), nil
}

// Encode returns the encoded call: selector followed by the arguments
func (c *CallSpec) Encode() ([]byte, error) {
	return Encode(c.Method, c.Args)
}

// DecodeReturns decodes raw result bytes using Returns
func (c *CallSpec) DecodeReturns(data []byte) ([]TypedValue, error) {
	return Decode(c.Returns, data)
}

// DecodeResult decodes the result of a finalized or queried transaction.
// Results of calls that did not succeed are refused with
// ContractExecutionFailed, since their bytes are not return values.
func DecodeResult(tx *fab.TxResponse, types []TypeTag) ([]TypedValue, error) {
	if tx == nil {
		return nil, status.New(status.ClientStatus, status.InvalidPayload.ToInt32(), "transaction response is nil", nil)
	}
	if !tx.Succeeded() {
		return nil, status.NewContractExecutionFailed(tx)
	}
	return Decode(types, tx.Result)
}

/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package fab

import "strconv"

// TxStatusCode is the outcome reported by a node for a transaction
type TxStatusCode int32

const (
	// Success the transaction executed and the contract reported success
	Success TxStatusCode = 0
	// Timeout the node timed out processing the transaction
	Timeout TxStatusCode = 1
	// InvalidParameter the node rejected the request parameters
	InvalidParameter TxStatusCode = 2
	// NoPermission the sender or endorsers are not authorized
	NoPermission TxStatusCode = 3
	// ContractFail the contract ran and reported a business failure
	ContractFail TxStatusCode = 4
	// InternalError the node failed internally
	InternalError TxStatusCode = 5
	// ContractPanic the contract aborted at runtime
	ContractPanic TxStatusCode = 6
	// OutOfGas the contract exhausted its resource allowance
	OutOfGas TxStatusCode = 7
	// DuplicateTxID the ledger already holds a transaction with this id
	DuplicateTxID TxStatusCode = 8
)

// TxStatusCodeName maps node status codes to human-readable strings
var TxStatusCodeName = map[int32]string{
	0: "SUCCESS",
	1: "TIMEOUT",
	2: "INVALID_PARAMETER",
	3: "NO_PERMISSION",
	4: "CONTRACT_FAIL",
	5: "INTERNAL_ERROR",
	6: "CONTRACT_PANIC",
	7: "OUT_OF_GAS",
	8: "TX_ID_DUPLICATE",
}

func (c TxStatusCode) String() string {
	if s, ok := TxStatusCodeName[int32(c)]; ok {
		return s
	}
	return strconv.Itoa(int(c))
}

// Ack is a node's acknowledgment that a transaction entered its pending pool
type Ack struct {
	TxID    string
	Code    TxStatusCode
	Message string
}

// Accepted reports whether the node accepted the transaction for ordering.
func (a *Ack) Accepted() bool {
	return a != nil && a.Code == Success
}

// TxResponse is the outcome of a submitted or queried transaction
type TxResponse struct {
	TxID            string
	Code            TxStatusCode
	Message         string
	Result          []byte
	ContractMessage string
	GasUsed         uint64
	BlockHeight     uint64
}

// Succeeded reports whether the contract call finished successfully.
func (r *TxResponse) Succeeded() bool {
	return r != nil && r.Code == Success
}

// ContractEvent is an event emitted by a contract in a committed block
type ContractEvent struct {
	Topic        string
	TxID         string
	ContractName string
	BlockHeight  uint64
	EventData    []string
}

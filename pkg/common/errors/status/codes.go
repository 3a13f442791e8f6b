/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package status

import (
	"strconv"

	grpcCodes "google.golang.org/grpc/codes"

	"github.com/fish1208/chainmaker-sdk-go/pkg/common/providers/fab"
)

// Code represents a status code
type Code uint32

const (
	// OK is returned on success.
	OK Code = 0

	// Unknown represents status codes that are uncategorized or unknown to the SDK
	Unknown Code = 1

	// ConnectionFailed is returned when a network connection attempt from the SDK fails
	ConnectionFailed Code = 2

	// SubmissionTimeout the node did not acknowledge the transaction in time.
	// The transaction may still be accepted later.
	SubmissionTimeout Code = 3

	// ResultTimeout the transaction was acknowledged but not finalized in time
	ResultTimeout Code = 4

	// NoNodesFound no nodes were configured
	NoNodesFound Code = 5

	// MultipleErrors multiple errors occurred
	MultipleErrors Code = 6

	// MalformedABIData ABI data does not match the declared types
	MalformedABIData Code = 7

	// EndorsementFailure an identity could not produce an endorsement
	EndorsementFailure Code = 8

	// InvalidCertificate certificate bytes could not be parsed
	InvalidCertificate Code = 9

	// ContractExecutionFailed the contract ran and reported a non-success outcome
	ContractExecutionFailed Code = 10

	// DuplicateTransactionID a caller supplied transaction id was already used
	DuplicateTransactionID Code = 11

	// SignatureVerificationFailed is when signature fails verification
	SignatureVerificationFailed Code = 12

	// InvalidPayload the payload is missing required fields
	InvalidPayload Code = 13

	// Cancelled the caller cancelled the operation
	Cancelled Code = 14

	// PolicyNotSatisfied the endorsements do not satisfy the endorsement policy
	PolicyNotSatisfied Code = 15

	// GenericTransient is generally used by tests to indicate that a retry is possible
	GenericTransient Code = 16
)

// CodeName maps the codes in this packages to human-readable strings
var CodeName = map[int32]string{
	0:  "OK",
	1:  "UNKNOWN",
	2:  "CONNECTION_FAILED",
	3:  "SUBMISSION_TIMEOUT",
	4:  "RESULT_TIMEOUT",
	5:  "NO_NODES_FOUND",
	6:  "MULTIPLE_ERRORS",
	7:  "MALFORMED_ABI_DATA",
	8:  "ENDORSEMENT_FAILURE",
	9:  "INVALID_CERTIFICATE",
	10: "CONTRACT_EXECUTION_FAILED",
	11: "DUPLICATE_TRANSACTION_ID",
	12: "SIGNATURE_VERIFICATION_FAILED",
	13: "INVALID_PAYLOAD",
	14: "CANCELLED",
	15: "POLICY_NOT_SATISFIED",
	16: "GENERIC_TRANSIENT",
}

// ToInt32 cast to int32
func (c Code) ToInt32() int32 {
	return int32(c)
}

// String representation of the code
func (c Code) String() string {
	if s, ok := CodeName[c.ToInt32()]; ok {
		return s
	}
	return strconv.Itoa(int(c))
}

// ToSDKStatusCode cast to SDK status code
func ToSDKStatusCode(c int32) Code {
	return Code(c)
}

// ToGRPCStatusCode cast to gRPC status code
func ToGRPCStatusCode(c int32) grpcCodes.Code {
	return grpcCodes.Code(c)
}

// ToTxStatusCode cast to node transaction status code
func ToTxStatusCode(c int32) fab.TxStatusCode {
	return fab.TxStatusCode(c)
}

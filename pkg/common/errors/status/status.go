/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package status defines metadata for errors returned by the chain SDK. Callers
// branch on the Group and Code of a Status to tell apart failures whose
// consequences differ, e.g. a submission that was never acknowledged versus
// one that was acknowledged but not finalized in time.
//
// Status codes are divided by group, where each group represents the component
// that produced them.
package status

import (
	stderrors "errors"
	"fmt"

	"github.com/pkg/errors"
	grpcstatus "google.golang.org/grpc/status"

	"github.com/fish1208/chainmaker-sdk-go/pkg/common/errors/multi"
	"github.com/fish1208/chainmaker-sdk-go/pkg/common/providers/fab"
)

// Status provides additional information about an unsuccessful operation
// performed by the SDK. Essentially, this object contains metadata about
// an error returned by the SDK.
type Status struct {
	// Group status group
	Group Group
	// Code status code
	Code int32
	// Message status message
	Message string
	// Details any additional status details
	Details []interface{}
}

// Group of status to help users infer status codes from various components
type Group int32

const (
	// UnknownStatus unknown status group
	UnknownStatus Group = iota

	// GRPCTransportStatus is the status associated with requests made over
	// gRPC connections
	GRPCTransportStatus

	// NodeServerStatus is a transaction status reported by a node. Codes in
	// this group are fab.TxStatusCode values
	NodeServerStatus

	// ClientStatus is a generic status inferred by the SDK, e.g. timeouts
	ClientStatus

	// CodecStatus is returned by the ABI codec and the payload encoder
	CodecStatus

	// EndorsementStatus is returned while collecting or verifying endorsements
	EndorsementStatus

	// ContractStatus is returned when a contract ran but did not succeed
	ContractStatus

	// TestStatus is used by tests to create retry codes.
	TestStatus
)

// GroupName maps the groups in this packages to human-readable strings
var GroupName = map[int32]string{
	0: "Unknown",
	1: "gRPC Transport Status",
	2: "Node Server Status",
	3: "Client Status",
	4: "Codec Status",
	5: "Endorsement Status",
	6: "Contract Status",
	7: "Test status",
}

func (g Group) String() string {
	if s, ok := GroupName[int32(g)]; ok {
		return s
	}
	return UnknownStatus.String()
}

// FromError returns a Status representing err if available,
// otherwise it returns nil, false.
func FromError(err error) (s *Status, ok bool) {
	if err == nil {
		return &Status{Code: int32(OK)}, true
	}
	if s, ok := err.(*Status); ok {
		return s, true
	}
	unwrappedErr := errors.Cause(err)
	if s, ok := unwrappedErr.(*Status); ok {
		return s, true
	}
	if m, ok := unwrappedErr.(multi.Errors); ok {
		// Return all of the errors in the details
		var errs []interface{}
		for _, err := range m {
			errs = append(errs, err)
		}
		return New(ClientStatus, MultipleErrors.ToInt32(), m.Error(), errs), true
	}
	var target *Status
	if stderrors.As(err, &target) {
		return target, true
	}

	return nil, false
}

// IsCode returns true if err carries the given SDK code. Transport and
// node-reported statuses use their own code spaces and never match.
func IsCode(err error, code Code) bool {
	s, ok := FromError(err)
	if !ok || err == nil {
		return false
	}
	switch s.Group {
	case GRPCTransportStatus, NodeServerStatus:
		return false
	}
	return s.Code == code.ToInt32()
}

func (s *Status) Error() string {
	return fmt.Sprintf("%s Code: (%d) %s. Description: %s", s.Group.String(), s.Code, s.codeString(), s.Message)
}

func (s *Status) codeString() string {
	switch s.Group {
	case GRPCTransportStatus:
		return ToGRPCStatusCode(s.Code).String()
	case NodeServerStatus:
		return ToTxStatusCode(s.Code).String()
	case ClientStatus, CodecStatus, EndorsementStatus, ContractStatus, TestStatus:
		return ToSDKStatusCode(s.Code).String()
	default:
		return Unknown.String()
	}
}

// New returns a Status with the given parameters
func New(group Group, code int32, msg string, details []interface{}) *Status {
	return &Status{Group: group, Code: code, Message: msg, Details: details}
}

// NewFromTxResponse creates a status from a node-reported transaction outcome
func NewFromTxResponse(res *fab.TxResponse, node string) *Status {
	if res == nil {
		return nil
	}
	details := []interface{}{node, res.TxID, res.Result}

	return New(NodeServerStatus, int32(res.Code), res.Message, details)
}

// NewFromGRPCStatus new Status from gRPC status response
func NewFromGRPCStatus(s *grpcstatus.Status) *Status {
	if s == nil {
		return nil
	}
	details := make([]interface{}, len(s.Proto().Details))
	for i, detail := range s.Proto().Details {
		details[i] = detail
	}

	return &Status{Group: GRPCTransportStatus, Code: s.Proto().Code,
		Message: s.Message(), Details: details}
}

// NewContractExecutionFailed returns Status when a finalized transaction
// carries a non-success contract outcome
func NewContractExecutionFailed(res *fab.TxResponse) *Status {
	msg := "contract execution failed"
	var details []interface{}
	if res != nil {
		msg = fmt.Sprintf("contract execution failed with %s: %s", res.Code, res.ContractMessage)
		details = []interface{}{res.TxID, res.Code}
	}
	return New(ContractStatus, ContractExecutionFailed.ToInt32(), msg, details)
}

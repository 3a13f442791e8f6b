/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package status

import (
	"fmt"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	grpccodes "google.golang.org/grpc/codes"
	grpcstatus "google.golang.org/grpc/status"

	"github.com/fish1208/chainmaker-sdk-go/pkg/common/errors/multi"
	"github.com/fish1208/chainmaker-sdk-go/pkg/common/providers/fab"
)

func TestStatusConstructors(t *testing.T) {
	s := New(ClientStatus, ConnectionFailed.ToInt32(), "test", nil)
	assert.NotNil(t, s, "Expected status to be constructed")
	assert.EqualValues(t, ConnectionFailed, ToSDKStatusCode(s.Code))
	assert.Equal(t, ClientStatus, s.Group)
	assert.Equal(t, "test", s.Message, "Expected test message")

	s = NewFromGRPCStatus(nil)
	assert.Nil(t, s)
	s = NewFromGRPCStatus(grpcstatus.New(grpccodes.DeadlineExceeded, "test"))
	assert.NotNil(t, s, "Expected status to be constructed")
	assert.EqualValues(t, grpccodes.DeadlineExceeded, ToGRPCStatusCode(s.Code))
	assert.Equal(t, GRPCTransportStatus, s.Group)
	assert.Equal(t, "test", s.Message, "Expected test message")

	s = NewFromTxResponse(nil, "")
	assert.Nil(t, s)
	s = NewFromTxResponse(&fab.TxResponse{TxID: "abc", Code: fab.NoPermission, Message: "test"}, "node1:12301")
	assert.NotNil(t, s, "Expected status to be constructed")
	assert.Equal(t, fab.NoPermission, ToTxStatusCode(s.Code))
	assert.Equal(t, NodeServerStatus, s.Group)
	assert.Equal(t, "test", s.Message, "Expected test message")
	assert.Equal(t, "node1:12301", s.Details[0].(string))

}

func TestFromError(t *testing.T) {
	s := New(ClientStatus, ConnectionFailed.ToInt32(), "test", nil)
	derivedStatus, ok := FromError(s)
	assert.True(t, ok)
	assert.Equal(t, s, derivedStatus)

	// Test unwrap
	s1 := errors.Wrap(s, "test")
	derivedStatus, ok = FromError(s1)
	assert.True(t, ok)
	assert.Equal(t, s, derivedStatus)

	s2 := fmt.Errorf("outer: %w", s)
	derivedStatus, ok = FromError(s2)
	assert.True(t, ok)
	assert.Equal(t, s, derivedStatus)

	s, ok = FromError(nil)
	assert.True(t, ok)
	assert.EqualValues(t, OK.ToInt32(), s.Code)

	_, ok = FromError(fmt.Errorf("Test"))
	assert.False(t, ok)

	errs := multi.Errors{}
	errs = append(errs, fmt.Errorf("Test"))
	s, ok = FromError(errs)
	assert.True(t, ok)
	assert.Equal(t, ClientStatus, s.Group)
	assert.EqualValues(t, MultipleErrors.ToInt32(), s.Code)
	assert.Equal(t, errs.Error(), s.Message)
}

func TestIsCode(t *testing.T) {
	err := errors.WithMessage(New(ClientStatus, ResultTimeout.ToInt32(), "waiting", nil), "submit")
	assert.True(t, IsCode(err, ResultTimeout))
	assert.False(t, IsCode(err, SubmissionTimeout))

	// gRPC code 4 is DeadlineExceeded and must not be read as ResultTimeout
	grpcErr := NewFromGRPCStatus(grpcstatus.New(grpccodes.DeadlineExceeded, "deadline"))
	assert.False(t, IsCode(grpcErr, ResultTimeout))

	assert.False(t, IsCode(nil, OK))
	assert.False(t, IsCode(fmt.Errorf("plain"), Unknown))
}

func TestStatusToError(t *testing.T) {
	s := New(EndorsementStatus, EndorsementFailure.ToInt32(), "test", nil)
	assert.Equal(t, "Endorsement Status Code: (8) ENDORSEMENT_FAILURE. Description: test", s.Error())
}

func TestStatusCodeConversion(t *testing.T) {
	s := OK.String()
	assert.Equal(t, CodeName[OK.ToInt32()], s)

	invalidCode25999 := Code(25999)
	assert.Equal(t, "25999", invalidCode25999.String())
}

func TestStatusCodeString(t *testing.T) {
	s := Status{Group: GRPCTransportStatus, Code: int32(grpccodes.Aborted)}
	assert.Equal(t, grpccodes.Aborted.String(), s.codeString())

	s = Status{Group: NodeServerStatus, Code: int32(fab.ContractFail)}
	assert.Equal(t, "CONTRACT_FAIL", s.codeString())

	s = Status{Group: CodecStatus, Code: int32(MalformedABIData)}
	assert.Equal(t, "MALFORMED_ABI_DATA", s.codeString())

	unknownCode45779 := 45779
	s = Status{Code: int32(unknownCode45779)}
	assert.Equal(t, Unknown.String(), s.codeString())
}

func TestStatusGroupString(t *testing.T) {
	unknownGroup77377 := Group(73777)
	assert.Equal(t, UnknownStatus.String(), unknownGroup77377.String())
}

func TestContractExecutionFailed(t *testing.T) {
	s := NewContractExecutionFailed(&fab.TxResponse{TxID: "t1", Code: fab.ContractPanic, ContractMessage: "revert"})
	assert.Equal(t, ContractStatus, s.Group)
	assert.True(t, IsCode(s, ContractExecutionFailed))
	assert.Contains(t, s.Message, "CONTRACT_PANIC")
	assert.Contains(t, s.Message, "revert")

	s = NewContractExecutionFailed(nil)
	assert.Equal(t, "contract execution failed", s.Message)
}

/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package mockfab

import (
	"github.com/golang/mock/gomock"
	"github.com/pkg/errors"

	"github.com/fish1208/chainmaker-sdk-go/pkg/common/providers/fab"
)

// ErrorMessage is a mock error message
const ErrorMessage = "default error message"

// DefaultMockNode returns a node that acknowledges, finalizes and answers
// queries successfully
func DefaultMockNode(mockCtrl *gomock.Controller, url string) *MockNode {
	n := NewMockNode(mockCtrl)

	n.EXPECT().URL().Return(url).AnyTimes()
	n.EXPECT().Close().Return(nil).AnyTimes()
	n.EXPECT().SubmitTransaction(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ interface{}, req *fab.TxRequest) (*fab.Ack, error) {
			return &fab.Ack{TxID: req.Payload.TxID, Code: fab.Success}, nil
		}).AnyTimes()
	n.EXPECT().AwaitFinalization(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ interface{}, txID string) (*fab.TxResponse, error) {
			return &fab.TxResponse{TxID: txID, Code: fab.Success}, nil
		}).AnyTimes()
	n.EXPECT().QueryState(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ interface{}, req *fab.TxRequest) (*fab.TxResponse, error) {
			return &fab.TxResponse{TxID: req.Payload.TxID, Code: fab.Success}, nil
		}).AnyTimes()

	return n
}

// BadMockNode returns a node whose every call fails with ErrorMessage
func BadMockNode(mockCtrl *gomock.Controller, url string) *MockNode {
	n := NewMockNode(mockCtrl)

	n.EXPECT().URL().Return(url).AnyTimes()
	n.EXPECT().Close().Return(errors.New(ErrorMessage)).AnyTimes()
	n.EXPECT().SubmitTransaction(gomock.Any(), gomock.Any()).Return(nil, errors.New(ErrorMessage)).AnyTimes()
	n.EXPECT().AwaitFinalization(gomock.Any(), gomock.Any()).Return(nil, errors.New(ErrorMessage)).AnyTimes()
	n.EXPECT().QueryState(gomock.Any(), gomock.Any()).Return(nil, errors.New(ErrorMessage)).AnyTimes()

	return n
}

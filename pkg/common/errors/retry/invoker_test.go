/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package retry

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/fish1208/chainmaker-sdk-go/pkg/common/errors/multi"
	"github.com/fish1208/chainmaker-sdk-go/pkg/common/errors/status"
)

var fastOpts = Opts{
	Attempts:       3,
	BackoffFactor:  2,
	InitialBackoff: 1 * time.Millisecond,
	MaxBackoff:     1 * time.Second,
}

func TestInvokeSuccess(t *testing.T) {
	var attempts []int
	expectedResp := "invoked"
	invoker := NewInvoker(New(fastOpts))
	resp, err := invoker.Invoke(context.Background(),
		func(attempt int) (interface{}, error) {
			attempts = append(attempts, attempt)
			if attempt == 1 {
				return nil, status.New(status.ClientStatus, status.SubmissionTimeout.ToInt32(), "", nil)
			}
			return expectedResp, nil
		},
	)

	assert.NoError(t, err, "Not expecting error")
	assert.Equal(t, expectedResp, resp)
	assert.Equal(t, []int{1, 2}, attempts)
}

func TestInvokeError(t *testing.T) {
	attempt := 0
	expectedResp := "invoked"
	firstErr := status.New(status.ClientStatus, status.ConnectionFailed.ToInt32(), "", nil)
	expectedErr := status.New(status.ContractStatus, status.ContractExecutionFailed.ToInt32(), "", nil)
	invoker := NewInvoker(New(fastOpts))
	resp, err := invoker.Invoke(context.Background(),
		func(int) (interface{}, error) {
			attempt++
			if attempt == 1 {
				return nil, firstErr
			}
			if attempt == 2 {
				return nil, expectedErr
			}
			return expectedResp, nil
		},
	)

	assert.EqualError(t, err, expectedErr.Error())
	assert.Nil(t, resp)
	assert.Equal(t, 2, attempt)
}

func TestInvokeMultiErrors(t *testing.T) {
	attempt := 0
	invoker := NewInvoker(New(fastOpts))
	_, err := invoker.Invoke(context.Background(),
		func(int) (interface{}, error) {
			attempt++
			return nil, multi.New(
				status.New(status.ClientStatus, status.InvalidPayload.ToInt32(), "", nil),
				status.New(status.ClientStatus, status.ConnectionFailed.ToInt32(), "", nil),
			)
		},
	)

	assert.Error(t, err)
	assert.Equal(t, fastOpts.Attempts+1, attempt)
}

func TestInvokeWithBeforeRetry(t *testing.T) {
	beforeRetryHandlerCalled := 0
	attempt := 0
	expectedResp := "invoked"
	invoker := NewInvoker(New(fastOpts), WithBeforeRetry(
		func(err error) {
			beforeRetryHandlerCalled++
		},
	))
	resp, err := invoker.Invoke(context.Background(),
		func(int) (interface{}, error) {
			attempt++
			if attempt == 1 {
				return nil, status.New(status.ClientStatus, status.SubmissionTimeout.ToInt32(), "", nil)
			}
			return expectedResp, nil
		},
	)

	assert.NoError(t, err, "Not expecting error")
	assert.Equal(t, expectedResp, resp)
	assert.Equal(t, 2, attempt)
	assert.Equal(t, 1, beforeRetryHandlerCalled)
}

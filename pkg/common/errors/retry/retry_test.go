/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package retry

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	grpcCodes "google.golang.org/grpc/codes"

	"github.com/fish1208/chainmaker-sdk-go/pkg/common/errors/status"
)

func TestRetryRequired(t *testing.T) {
	ctx := context.Background()
	attempts := 3
	transientErr := status.New(status.ClientStatus, status.SubmissionTimeout.ToInt32(), "", nil)
	nonTransientErr := status.New(status.ClientStatus, status.ResultTimeout.ToInt32(), "", nil)
	unknownErr := fmt.Errorf("Unknown")

	r := New(Opts{
		Attempts:       attempts,
		BackoffFactor:  2,
		InitialBackoff: 1 * time.Millisecond,
		MaxBackoff:     1 * time.Second,
	})
	for i := 1; i <= attempts; i++ {
		assert.True(t, r.Required(ctx, transientErr), "Expected retry to be required on transient error")
	}
	assert.False(t, r.Required(ctx, transientErr), "Expected retry to not be required after exhausting attempts")
	r = WithDefaults()
	assert.False(t, r.Required(ctx, nonTransientErr), "Expected retry to not be required on result timeout")
	r = WithAttempts(2)
	assert.False(t, r.Required(ctx, unknownErr), "Expected retry to not be required on unknown error")

	unavailable := status.New(status.GRPCTransportStatus, int32(grpcCodes.Unavailable), "", nil)
	r = New(Opts{Attempts: 1, InitialBackoff: time.Millisecond, MaxBackoff: time.Millisecond})
	assert.True(t, r.Required(ctx, unavailable))
}

func TestRetryRequiredCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	r := New(Opts{
		Attempts:       3,
		BackoffFactor:  2,
		InitialBackoff: time.Minute,
		MaxBackoff:     time.Minute,
	})
	transientErr := status.New(status.ClientStatus, status.ConnectionFailed.ToInt32(), "", nil)
	assert.False(t, r.Required(ctx, transientErr), "Expected no retry once the context is done")
}

func TestBackoffPeriod(t *testing.T) {
	testAttempts := 10
	testBackoffFactor := 3.34
	testInitialBackoff := 2 * time.Second
	floatInitBackoff := float64(testInitialBackoff)
	testMaxBackoff := 30 * time.Second
	r := New(Opts{
		Attempts:       testAttempts,
		BackoffFactor:  testBackoffFactor,
		InitialBackoff: testInitialBackoff,
		MaxBackoff:     testMaxBackoff,
	})
	i := r.(*impl)
	assert.Equal(t, testInitialBackoff, i.backoffPeriod(), "Expected initial backoff on first attempt")
	i.retries = 1
	assert.Equal(t, time.Duration(floatInitBackoff*testBackoffFactor), i.backoffPeriod(),
		"Expected initial backoff multiplied by backoff factor on second attempt")
	i.retries = 2
	assert.Equal(t, time.Duration(floatInitBackoff*testBackoffFactor*testBackoffFactor),
		i.backoffPeriod(), "Expected exponential backoff")
	i.retries = 3
	assert.Equal(t, testMaxBackoff, i.backoffPeriod(), "Expected max backoff")
}

/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package retry

import (
	"time"

	grpcCodes "google.golang.org/grpc/codes"

	"github.com/fish1208/chainmaker-sdk-go/pkg/common/errors/status"
)

const (
	// DefaultAttempts number of retry attempts made by default
	DefaultAttempts = 3
	// DefaultInitialBackoff default initial backoff
	DefaultInitialBackoff = 500 * time.Millisecond
	// DefaultMaxBackoff default maximum backoff
	DefaultMaxBackoff = 60 * time.Second
	// DefaultBackoffFactor default backoff factor
	DefaultBackoffFactor = 2.0
)

// DefaultOpts default retry options
var DefaultOpts = Opts{
	Attempts:       DefaultAttempts,
	InitialBackoff: DefaultInitialBackoff,
	MaxBackoff:     DefaultMaxBackoff,
	BackoffFactor:  DefaultBackoffFactor,
	RetryableCodes: DefaultRetryableCodes,
}

// DefaultRetryableCodes these are the error codes, grouped by source of error,
// that are considered to be transient error conditions by default.
// ResultTimeout is never retryable since the transaction is already pending.
var DefaultRetryableCodes = map[status.Group][]status.Code{
	status.ClientStatus: {
		status.SubmissionTimeout,
		status.ConnectionFailed,
	},
	status.GRPCTransportStatus: {
		status.Code(grpcCodes.Unavailable),
	},
}

// TestRetryableCodes are used by tests to determine error situations that can be retried.
var TestRetryableCodes = map[status.Group][]status.Code{
	status.TestStatus: {
		status.GenericTransient,
	},
	status.ClientStatus: {
		status.SubmissionTimeout,
		status.ConnectionFailed,
	},
}

const (
	// TestAttempts number of retry attempts made by default
	TestAttempts = 10
	// TestInitialBackoff default initial backoff
	TestInitialBackoff = 2 * time.Millisecond
	// TestMaxBackoff default maximum backoff
	TestMaxBackoff = 50 * time.Millisecond
	// TestBackoffFactor default backoff factor
	TestBackoffFactor = 1.75
)

// TestRetryOpts are used by tests to determine retry parameters.
var TestRetryOpts = Opts{
	Attempts:       TestAttempts,
	InitialBackoff: TestInitialBackoff,
	MaxBackoff:     TestMaxBackoff,
	BackoffFactor:  TestBackoffFactor,
	RetryableCodes: TestRetryableCodes,
}

/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package comm

import (
	"time"

	"google.golang.org/grpc/keepalive"
)

// DefaultMaxRecvMsgSize is the default maximum message size a client accepts
const DefaultMaxRecvMsgSize = 16 * 1024 * 1024

type params struct {
	enableTLS       bool
	hostOverride    string
	trustRoots      [][]byte
	clientKey       []byte
	clientCert      []byte
	keepAliveParams keepalive.ClientParameters
	maxRecvMsgSize  int
	connectTimeout  time.Duration
}

func defaultParams() *params {
	return &params{
		maxRecvMsgSize: DefaultMaxRecvMsgSize,
		connectTimeout: 3 * time.Second,
		keepAliveParams: keepalive.ClientParameters{
			Time:                time.Minute,
			Timeout:             20 * time.Second,
			PermitWithoutStream: true,
		},
	}
}

// ConnectionOpt configures a node connection
type ConnectionOpt func(p *params)

// WithTLS enables TLS using the given PEM trust roots
func WithTLS(trustRoots ...[]byte) ConnectionOpt {
	return func(p *params) {
		p.enableTLS = true
		p.trustRoots = append(p.trustRoots, trustRoots...)
	}
}

// WithHostOverride sets the host name that will be used to verify the node's TLS certificate
func WithHostOverride(value string) ConnectionOpt {
	return func(p *params) {
		p.hostOverride = value
	}
}

// WithClientCertificate sets the PEM key pair presented for mutual TLS
func WithClientCertificate(keyPEM, certPEM []byte) ConnectionOpt {
	return func(p *params) {
		p.clientKey = keyPEM
		p.clientCert = certPEM
	}
}

// WithKeepAliveParams sets the GRPC keep-alive parameters
func WithKeepAliveParams(value keepalive.ClientParameters) ConnectionOpt {
	return func(p *params) {
		p.keepAliveParams = value
	}
}

// WithMaxRecvMsgSize sets the maximum size of a response message in bytes
func WithMaxRecvMsgSize(value int) ConnectionOpt {
	return func(p *params) {
		if value > 0 {
			p.maxRecvMsgSize = value
		}
	}
}

// WithConnectTimeout sets the time allowed for the initial connection
func WithConnectTimeout(value time.Duration) ConnectionOpt {
	return func(p *params) {
		p.connectTimeout = value
	}
}

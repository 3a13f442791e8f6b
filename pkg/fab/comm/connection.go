/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package comm dials nodes and encodes the messages exchanged with them.
package comm

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"strings"

	"github.com/pkg/errors"
	"google.golang.org/grpc"
	"google.golang.org/grpc/connectivity"
	"google.golang.org/grpc/credentials"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/fish1208/chainmaker-sdk-go/pkg/common/logging"
)

var logger = logging.NewLogger("chainsdk/fab")

// Dial creates a client connection to the node at url and waits up to the
// connect timeout for it to become ready
func Dial(ctx context.Context, url string, opts ...ConnectionOpt) (*grpc.ClientConn, error) {
	if url == "" {
		return nil, errors.New("server URL not specified")
	}

	p := defaultParams()
	for _, opt := range opts {
		opt(p)
	}

	dialOpts, err := newDialOpts(url, p)
	if err != nil {
		return nil, err
	}

	conn, err := grpc.NewClient(ToAddress(url), dialOpts...)
	if err != nil {
		return nil, errors.Wrapf(err, "could not connect to %s", url)
	}

	if p.connectTimeout > 0 {
		if err := waitReady(ctx, conn, p); err != nil {
			if cerr := conn.Close(); cerr != nil {
				logger.Warnf("error closing GRPC connection: %s", cerr)
			}
			return nil, errors.Wrapf(err, "could not connect to %s", url)
		}
	}
	return conn, nil
}

func waitReady(ctx context.Context, conn *grpc.ClientConn, p *params) error {
	ctx, cancel := context.WithTimeout(ctx, p.connectTimeout)
	defer cancel()

	conn.Connect()
	for {
		state := conn.GetState()
		switch state {
		case connectivity.Ready:
			return nil
		case connectivity.Shutdown:
			return errors.New("connection shut down")
		}
		if !conn.WaitForStateChange(ctx, state) {
			return ctx.Err()
		}
	}
}

func newDialOpts(url string, p *params) ([]grpc.DialOption, error) {
	var dialOpts []grpc.DialOption

	if p.keepAliveParams.Time > 0 || p.keepAliveParams.Timeout > 0 {
		dialOpts = append(dialOpts, grpc.WithKeepaliveParams(p.keepAliveParams))
	}

	dialOpts = append(dialOpts, grpc.WithDefaultCallOptions(
		grpc.MaxCallRecvMsgSize(p.maxRecvMsgSize),
		grpc.ForceCodec(Codec{}),
	))

	if p.enableTLS || strings.HasPrefix(url, "grpcs://") {
		tlsConfig, err := newTLSConfig(p)
		if err != nil {
			return nil, err
		}
		dialOpts = append(dialOpts, grpc.WithTransportCredentials(credentials.NewTLS(tlsConfig)))
		logger.Debugf("Creating a secure connection to [%s] with TLS HostOverride [%s]", url, p.hostOverride)
	} else {
		logger.Debugf("Creating an insecure connection [%s]", url)
		dialOpts = append(dialOpts, grpc.WithTransportCredentials(insecure.NewCredentials()))
	}

	return dialOpts, nil
}

// newTLSConfig returns the client TLS configuration for the connection parameters
func newTLSConfig(p *params) (*tls.Config, error) {
	pool := x509.NewCertPool()
	for i, root := range p.trustRoots {
		if !pool.AppendCertsFromPEM(root) {
			return nil, errors.Errorf("trust root %d contains no PEM certificates", i)
		}
	}

	config := &tls.Config{
		RootCAs:    pool,
		ServerName: p.hostOverride,
		MinVersion: tls.VersionTLS12,
	}

	if len(p.clientCert) > 0 {
		cert, err := tls.X509KeyPair(p.clientCert, p.clientKey)
		if err != nil {
			return nil, errors.Wrap(err, "failed to load client TLS key pair")
		}
		config.Certificates = []tls.Certificate{cert}
	}
	return config, nil
}

// ToAddress strips the grpc:// or grpcs:// scheme from url
func ToAddress(url string) string {
	for _, prefix := range []string{"grpcs://", "grpc://"} {
		if strings.HasPrefix(url, prefix) {
			return strings.TrimPrefix(url, prefix)
		}
	}
	return url
}

/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package metrics

import (
	"github.com/go-kit/kit/metrics"
	"github.com/go-kit/kit/metrics/discard"
	kitprometheus "github.com/go-kit/kit/metrics/prometheus"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "chain_client"

var (
	invocationsReceived = prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "invocations_received",
		Help:      "The number of chain client invocations received.",
	}
	invocationsFailed = prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "invocations_failed",
		Help:      "The number of chain client invocations that failed (timeouts excluded).",
	}
	invocationTimeouts = prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "invocation_timeouts",
		Help:      "The number of chain client invocations that failed due to time out.",
	}
	invocationDuration = prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "invocation_duration",
		Help:      "The time to complete a chain client invocation.",
		Buckets:   prometheus.DefBuckets,
	}
	queriesReceived = prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "queries_received",
		Help:      "The number of chain client queries received.",
	}
	queriesFailed = prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "queries_failed",
		Help:      "The number of chain client queries that failed (timeouts excluded).",
	}
	queryTimeouts = prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "query_timeouts",
		Help:      "The number of chain client queries that failed due to time out.",
	}
	queryDuration = prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "query_duration",
		Help:      "The time to complete a chain client query.",
		Buckets:   prometheus.DefBuckets,
	}
)

// Label names
const (
	LabelContract = "contract"
	LabelMethod   = "method"
	LabelFail     = "fail"
)

var (
	callLabels = []string{LabelContract, LabelMethod}
	failLabels = []string{LabelContract, LabelMethod, LabelFail}
)

// ClientMetrics contains the metrics recorded by chain clients
type ClientMetrics struct {
	InvocationsReceived metrics.Counter
	InvocationsFailed   metrics.Counter
	InvocationTimeouts  metrics.Counter
	InvocationDuration  metrics.Histogram
	QueriesReceived     metrics.Counter
	QueriesFailed       metrics.Counter
	QueryTimeouts       metrics.Counter
	QueryDuration       metrics.Histogram
}

// NewClientMetrics registers the chain client metrics on r
func NewClientMetrics(r prometheus.Registerer) (*ClientMetrics, error) {
	if r == nil {
		return nil, errors.New("registerer is required")
	}
	reg := &registrar{r: r}

	m := &ClientMetrics{
		InvocationsReceived: reg.counter(invocationsReceived, callLabels),
		InvocationsFailed:   reg.counter(invocationsFailed, failLabels),
		InvocationTimeouts:  reg.counter(invocationTimeouts, failLabels),
		InvocationDuration:  reg.histogram(invocationDuration, callLabels),
		QueriesReceived:     reg.counter(queriesReceived, callLabels),
		QueriesFailed:       reg.counter(queriesFailed, failLabels),
		QueryTimeouts:       reg.counter(queryTimeouts, failLabels),
		QueryDuration:       reg.histogram(queryDuration, callLabels),
	}
	if reg.err != nil {
		return nil, reg.err
	}
	return m, nil
}

// NewDiscardMetrics returns metrics that record nothing
func NewDiscardMetrics() *ClientMetrics {
	return &ClientMetrics{
		InvocationsReceived: discard.NewCounter(),
		InvocationsFailed:   discard.NewCounter(),
		InvocationTimeouts:  discard.NewCounter(),
		InvocationDuration:  discard.NewHistogram(),
		QueriesReceived:     discard.NewCounter(),
		QueriesFailed:       discard.NewCounter(),
		QueryTimeouts:       discard.NewCounter(),
		QueryDuration:       discard.NewHistogram(),
	}
}

// registrar registers collectors and keeps the first error
type registrar struct {
	r   prometheus.Registerer
	err error
}

func (g *registrar) register(c prometheus.Collector, name string) prometheus.Collector {
	if err := g.r.Register(c); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			return are.ExistingCollector
		}
		if g.err == nil {
			g.err = errors.Wrapf(err, "failed to register metric %s", name)
		}
	}
	return c
}

func (g *registrar) counter(opts prometheus.CounterOpts, labels []string) metrics.Counter {
	vec := prometheus.NewCounterVec(opts, labels)
	if existing, ok := g.register(vec, opts.Name).(*prometheus.CounterVec); ok {
		vec = existing
	}
	return kitprometheus.NewCounter(vec)
}

func (g *registrar) histogram(opts prometheus.HistogramOpts, labels []string) metrics.Histogram {
	vec := prometheus.NewHistogramVec(opts, labels)
	if existing, ok := g.register(vec, opts.Name).(*prometheus.HistogramVec); ok {
		vec = existing
	}
	return kitprometheus.NewHistogram(vec)
}

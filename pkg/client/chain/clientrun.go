/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package chain

import (
	"fmt"
	"time"

	"github.com/fish1208/chainmaker-sdk-go/pkg/chainsdk/metrics"
	"github.com/fish1208/chainmaker-sdk-go/pkg/common/errors/status"
	"github.com/fish1208/chainmaker-sdk-go/pkg/common/providers/fab"
)

type callFunc func(o requestOptions) (*fab.TxResponse, error)

func callQuery(c *Client, contract, method string, call callFunc, options ...RequestOption) (*fab.TxResponse, error) {
	o, err := c.prepareOptsFromOptions(options...)
	if err != nil {
		return nil, err
	}

	meterLabels := []string{
		metrics.LabelContract, contract,
		metrics.LabelMethod, method,
	}
	c.metrics.QueriesReceived.With(meterLabels...).Add(1)
	startTime := time.Now()
	r, err := call(o)
	if err != nil {
		if isTimeout(err) {
			c.metrics.QueryTimeouts.With(append(meterLabels, metrics.LabelFail, failLabel(err))...).Add(1)
			return r, err
		}
		c.metrics.QueriesFailed.With(append(meterLabels, metrics.LabelFail, failLabel(err))...).Add(1)
		return r, err
	}
	c.metrics.QueryDuration.With(meterLabels...).Observe(time.Since(startTime).Seconds())
	return r, nil
}

func callInvoke(c *Client, contract, method string, call callFunc, options ...RequestOption) (*fab.TxResponse, error) {
	o, err := c.prepareOptsFromOptions(options...)
	if err != nil {
		return nil, err
	}

	meterLabels := []string{
		metrics.LabelContract, contract,
		metrics.LabelMethod, method,
	}
	c.metrics.InvocationsReceived.With(meterLabels...).Add(1)
	startTime := time.Now()
	r, err := call(o)
	if err != nil {
		if isTimeout(err) {
			c.metrics.InvocationTimeouts.With(append(meterLabels, metrics.LabelFail, failLabel(err))...).Add(1)
			return r, err
		}
		c.metrics.InvocationsFailed.With(append(meterLabels, metrics.LabelFail, failLabel(err))...).Add(1)
		return r, err
	}
	c.metrics.InvocationDuration.With(meterLabels...).Observe(time.Since(startTime).Seconds())
	return r, nil
}

func isTimeout(err error) bool {
	return status.IsCode(err, status.SubmissionTimeout) || status.IsCode(err, status.ResultTimeout)
}

func failLabel(err error) string {
	s, ok := status.FromError(err)
	if !ok {
		return "Error - Generic"
	}
	if isTimeout(err) {
		return status.Code(s.Code).String()
	}
	return fmt.Sprintf("Error - Group:%s - Code:%d", s.Group, s.Code)
}

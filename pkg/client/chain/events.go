/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package chain

import (
	"context"

	"github.com/fish1208/chainmaker-sdk-go/pkg/common/errors/status"
	"github.com/fish1208/chainmaker-sdk-go/pkg/common/providers/fab"
	"github.com/fish1208/chainmaker-sdk-go/pkg/fab/txn"
)

// SubscribeContractEvents streams the events contractName emits under topic.
// An empty topic receives every topic. The channel is closed when ctx is
// done or the node ends the stream.
func (c *Client) SubscribeContractEvents(ctx context.Context, contractName, topic string) (<-chan *fab.ContractEvent, error) {
	if c.subscriber == nil {
		return nil, status.New(status.ClientStatus, status.NoNodesFound.ToInt32(),
			"no node of this chain serves event subscriptions", []interface{}{c.chainID})
	}

	payload, err := c.builder.BuildContractEventSubscribe(contractName, topic, txn.VersionMetadata{})
	if err != nil {
		return nil, err
	}
	req, err := c.submitter.NewRequest(payload, nil)
	if err != nil {
		return nil, err
	}

	logger.Debugf("subscribing to events of contract [%s] topic [%s]", contractName, topic)
	return c.subscriber.SubscribeContractEvents(ctx, req)
}

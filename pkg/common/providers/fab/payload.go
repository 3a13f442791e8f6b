/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package fab

import (
	"github.com/fish1208/chainmaker-sdk-go/pkg/common/providers/msp"
)

// TxType identifies the kind of operation a payload carries
type TxType int32

const (
	// InvokeContract is a state-changing contract call
	InvokeContract TxType = iota
	// QueryContract is a read-only contract call
	QueryContract
	// ContractManage creates, upgrades, freezes, unfreezes or revokes a contract
	ContractManage
	// Subscribe opens an event subscription
	Subscribe
)

var txTypeName = map[TxType]string{
	InvokeContract: "INVOKE_CONTRACT",
	QueryContract:  "QUERY_CONTRACT",
	ContractManage: "CONTRACT_MANAGE",
	Subscribe:      "SUBSCRIBE",
}

func (t TxType) String() string {
	if s, ok := txTypeName[t]; ok {
		return s
	}
	return "UNKNOWN"
}

// KeyValuePair is a single named payload parameter
type KeyValuePair struct {
	Key   string
	Value []byte
}

// Payload is the canonical, unsigned description of an operation.
// A Payload must not be modified once it has been endorsed; every
// endorsement signs its canonical bytes.
type Payload struct {
	ChainID        string
	TxType         TxType
	TxID           string
	Timestamp      int64
	ExpirationTime int64
	ContractName   string
	Method         string
	Parameters     []KeyValuePair
	Sequence       uint64
	Version        string
}

// Param returns the value of the named parameter.
func (p *Payload) Param(key string) ([]byte, bool) {
	for _, kv := range p.Parameters {
		if kv.Key == key {
			return kv.Value, true
		}
	}
	return nil, false
}

// EndorsementEntry is one organization's signature over a payload
type EndorsementEntry struct {
	OrgID      string
	MemberType msp.MemberType
	MemberInfo []byte
	Signature  []byte
}

// TxRequest is a payload together with the submitter's signature and any endorsements.
type TxRequest struct {
	Payload   *Payload
	Sender    *EndorsementEntry
	Endorsers []*EndorsementEntry
}

/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package txn

import (
	"sort"

	"github.com/pkg/errors"

	"github.com/fish1208/chainmaker-sdk-go/pkg/common/errors/status"
	"github.com/fish1208/chainmaker-sdk-go/pkg/common/providers/fab"
	"github.com/fish1208/chainmaker-sdk-go/pkg/common/providers/msp"
	"github.com/fish1208/chainmaker-sdk-go/pkg/fab/comm"
)

// Payload fields
const (
	payloadChainID = iota + 1
	payloadTxType
	payloadTxID
	payloadTimestamp
	payloadExpirationTime
	payloadContractName
	payloadMethod
	payloadParameters
	payloadSequence
	payloadVersion
)

// MarshalPayload returns the canonical bytes of p. Fields are written in
// field-number order, zero values are omitted and parameters are sorted by
// key, so equal payloads always produce equal bytes.
func MarshalPayload(p *fab.Payload) ([]byte, error) {
	if p == nil {
		return nil, status.New(status.ClientStatus, status.InvalidPayload.ToInt32(), "payload is nil", nil)
	}
	return appendPayload(nil, p), nil
}

func appendPayload(b []byte, p *fab.Payload) []byte {
	b = comm.AppendString(b, payloadChainID, p.ChainID)
	b = comm.AppendVarint(b, payloadTxType, uint64(p.TxType))
	b = comm.AppendString(b, payloadTxID, p.TxID)
	b = comm.AppendVarint(b, payloadTimestamp, uint64(p.Timestamp))
	b = comm.AppendVarint(b, payloadExpirationTime, uint64(p.ExpirationTime))
	b = comm.AppendString(b, payloadContractName, p.ContractName)
	b = comm.AppendString(b, payloadMethod, p.Method)
	for _, kv := range sortedParams(p.Parameters) {
		var m []byte
		m = comm.AppendString(m, 1, kv.Key)
		m = comm.AppendBytes(m, 2, kv.Value)
		b = comm.AppendMessage(b, payloadParameters, m)
	}
	b = comm.AppendVarint(b, payloadSequence, p.Sequence)
	b = comm.AppendString(b, payloadVersion, p.Version)
	return b
}

// UnmarshalPayload decodes canonical payload bytes
func UnmarshalPayload(b []byte) (*fab.Payload, error) {
	p := &fab.Payload{}
	err := comm.ConsumeFields(b, func(f comm.Field) error {
		switch f.Num {
		case payloadChainID:
			p.ChainID = string(f.Bytes)
		case payloadTxType:
			p.TxType = fab.TxType(f.Varint)
		case payloadTxID:
			p.TxID = string(f.Bytes)
		case payloadTimestamp:
			p.Timestamp = int64(f.Varint)
		case payloadExpirationTime:
			p.ExpirationTime = int64(f.Varint)
		case payloadContractName:
			p.ContractName = string(f.Bytes)
		case payloadMethod:
			p.Method = string(f.Bytes)
		case payloadParameters:
			kv := fab.KeyValuePair{}
			err := comm.ConsumeFields(f.Bytes, func(pf comm.Field) error {
				switch pf.Num {
				case 1:
					kv.Key = string(pf.Bytes)
				case 2:
					kv.Value = append([]byte{}, pf.Bytes...)
				}
				return nil
			})
			if err != nil {
				return errors.WithMessage(err, "invalid parameter")
			}
			p.Parameters = append(p.Parameters, kv)
		case payloadSequence:
			p.Sequence = f.Varint
		case payloadVersion:
			p.Version = string(f.Bytes)
		}
		return nil
	})
	if err != nil {
		return nil, errors.WithMessage(err, "unmarshal payload failed")
	}
	return p, nil
}

func sortedParams(params []fab.KeyValuePair) []fab.KeyValuePair {
	sorted := make([]fab.KeyValuePair, len(params))
	copy(sorted, params)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Key < sorted[j].Key
	})
	return sorted
}

func appendEndorsement(b []byte, e *fab.EndorsementEntry) []byte {
	var member []byte
	member = comm.AppendString(member, 1, e.OrgID)
	member = comm.AppendVarint(member, 2, uint64(e.MemberType))
	member = comm.AppendBytes(member, 3, e.MemberInfo)

	b = comm.AppendMessage(b, 1, member)
	return comm.AppendBytes(b, 2, e.Signature)
}

func consumeEndorsement(b []byte) (*fab.EndorsementEntry, error) {
	e := &fab.EndorsementEntry{}
	err := comm.ConsumeFields(b, func(f comm.Field) error {
		switch f.Num {
		case 1:
			return comm.ConsumeFields(f.Bytes, func(mf comm.Field) error {
				switch mf.Num {
				case 1:
					e.OrgID = string(mf.Bytes)
				case 2:
					e.MemberType = msp.MemberType(mf.Varint)
				case 3:
					e.MemberInfo = append([]byte{}, mf.Bytes...)
				}
				return nil
			})
		case 2:
			e.Signature = append([]byte{}, f.Bytes...)
		}
		return nil
	})
	if err != nil {
		return nil, errors.WithMessage(err, "unmarshal endorsement failed")
	}
	return e, nil
}

// MarshalTxRequest encodes a request: the payload, the sender's entry and
// every endorsement in order
func MarshalTxRequest(req *fab.TxRequest) ([]byte, error) {
	if req == nil || req.Payload == nil {
		return nil, status.New(status.ClientStatus, status.InvalidPayload.ToInt32(), "request has no payload", nil)
	}

	b := comm.AppendMessage(nil, 1, appendPayload(nil, req.Payload))
	if req.Sender != nil {
		b = comm.AppendMessage(b, 2, appendEndorsement(nil, req.Sender))
	}
	for _, e := range req.Endorsers {
		b = comm.AppendMessage(b, 3, appendEndorsement(nil, e))
	}
	return b, nil
}

// UnmarshalTxRequest decodes bytes produced by MarshalTxRequest
func UnmarshalTxRequest(b []byte) (*fab.TxRequest, error) {
	req := &fab.TxRequest{}
	err := comm.ConsumeFields(b, func(f comm.Field) error {
		var err error
		switch f.Num {
		case 1:
			req.Payload, err = UnmarshalPayload(f.Bytes)
		case 2:
			req.Sender, err = consumeEndorsement(f.Bytes)
		case 3:
			var e *fab.EndorsementEntry
			e, err = consumeEndorsement(f.Bytes)
			if err == nil {
				req.Endorsers = append(req.Endorsers, e)
			}
		}
		return err
	})
	if err != nil {
		return nil, errors.WithMessage(err, "unmarshal request failed")
	}
	if req.Payload == nil {
		return nil, errors.New("request has no payload")
	}
	return req, nil
}

// contract result codes
const (
	contractOK   = 0
	contractFail = 1
)

// MarshalTxResponse encodes a node's answer to a request
func MarshalTxResponse(r *fab.TxResponse) ([]byte, error) {
	if r == nil {
		return nil, errors.New("response is nil")
	}
	return appendTxResponse(nil, r), nil
}

func appendTxResponse(b []byte, r *fab.TxResponse) []byte {
	var result []byte
	if r.Code == fab.ContractFail {
		result = comm.AppendVarint(result, 1, contractFail)
	}
	result = comm.AppendBytes(result, 2, r.Result)
	result = comm.AppendString(result, 3, r.ContractMessage)
	result = comm.AppendVarint(result, 4, r.GasUsed)

	b = comm.AppendVarint(b, 1, uint64(r.Code))
	b = comm.AppendString(b, 2, r.Message)
	if len(result) > 0 {
		b = comm.AppendMessage(b, 3, result)
	}
	b = comm.AppendString(b, 4, r.TxID)
	return comm.AppendVarint(b, 5, r.BlockHeight)
}

// UnmarshalTxResponse decodes a response. A success code paired with a
// failed contract result is reported as ContractFail.
func UnmarshalTxResponse(b []byte) (*fab.TxResponse, error) {
	r := &fab.TxResponse{}
	var contractCode uint64
	err := comm.ConsumeFields(b, func(f comm.Field) error {
		switch f.Num {
		case 1:
			r.Code = fab.TxStatusCode(f.Varint)
		case 2:
			r.Message = string(f.Bytes)
		case 3:
			return comm.ConsumeFields(f.Bytes, func(cf comm.Field) error {
				switch cf.Num {
				case 1:
					contractCode = cf.Varint
				case 2:
					r.Result = append([]byte{}, cf.Bytes...)
				case 3:
					r.ContractMessage = string(cf.Bytes)
				case 4:
					r.GasUsed = cf.Varint
				}
				return nil
			})
		case 4:
			r.TxID = string(f.Bytes)
		case 5:
			r.BlockHeight = f.Varint
		}
		return nil
	})
	if err != nil {
		return nil, errors.WithMessage(err, "unmarshal response failed")
	}
	if r.Code == fab.Success && contractCode != contractOK {
		r.Code = fab.ContractFail
	}
	return r, nil
}

/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package mocks

import (
	"encoding/hex"
	"fmt"
	"net"
	"strconv"
	"sync"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials"
	grpcstatus "google.golang.org/grpc/status"

	"github.com/fish1208/chainmaker-sdk-go/pkg/common/logging"
	"github.com/fish1208/chainmaker-sdk-go/pkg/common/providers/fab"
	"github.com/fish1208/chainmaker-sdk-go/pkg/fab/comm"
	"github.com/fish1208/chainmaker-sdk-go/pkg/fab/node"
	"github.com/fish1208/chainmaker-sdk-go/pkg/fab/txn"
)

var logger = logging.NewLogger("chainsdk/mocks")

// MockNodeServer is an in-process chain node speaking the node RPC methods.
//
// Submitted transactions are reported as not found for PendingLookups
// lookups and then finalized with Result. Ledger queries are answered from
// Blocks and ChainInfo. Configure the fields before Start.
type MockNodeServer struct {
	Creds credentials.TransportCredentials

	SubmitCode     fab.TxStatusCode
	SubmitError    error
	PendingLookups int
	LookupCode     fab.TxStatusCode
	Result         *fab.TxResponse
	QueryResult    *fab.TxResponse
	QueryError     error
	Events         []*fab.ContractEvent
	Blocks         []*fab.BlockInfo
	ChainInfo      *fab.ChainInfo

	mutex     sync.Mutex
	submitted []*fab.TxRequest
	queried   []*fab.TxRequest
	lookups   map[string]int
	txs       map[string]*fab.TxRequest
	wg        sync.WaitGroup
	srv       *grpc.Server
}

// Start serves on address and returns the bound address
func (m *MockNodeServer) Start(address string) string {
	if m.srv != nil {
		panic("MockNodeServer already started")
	}

	opts := []grpc.ServerOption{
		grpc.ForceServerCodec(comm.Codec{}),
		grpc.UnknownServiceHandler(m.handle),
	}
	if m.Creds != nil {
		opts = append(opts, grpc.Creds(m.Creds))
	}
	m.srv = grpc.NewServer(opts...)
	m.lookups = make(map[string]int)
	m.txs = make(map[string]*fab.TxRequest)

	lis, err := net.Listen("tcp", address)
	if err != nil {
		panic(fmt.Sprintf("Error starting MockNodeServer %s", err))
	}
	addr := lis.Addr().String()

	logger.Debugf("Starting MockNodeServer [%s]", addr)
	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		if err := m.srv.Serve(lis); err != nil {
			logger.Debugf("MockNodeServer stopped [%s]", err)
		}
	}()

	return addr
}

// Stop the server and wait for completion
func (m *MockNodeServer) Stop() {
	if m.srv == nil {
		panic("MockNodeServer not started")
	}
	m.srv.Stop()
	m.wg.Wait()
	m.srv = nil
}

// Submitted returns the requests received on the submit path
func (m *MockNodeServer) Submitted() []*fab.TxRequest {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	return append([]*fab.TxRequest{}, m.submitted...)
}

// Queried returns the queries received, excluding transaction lookups
func (m *MockNodeServer) Queried() []*fab.TxRequest {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	return append([]*fab.TxRequest{}, m.queried...)
}

// Lookups returns how many finalization lookups were made for txID
func (m *MockNodeServer) Lookups(txID string) int {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	return m.lookups[txID]
}

func (m *MockNodeServer) handle(_ interface{}, stream grpc.ServerStream) error {
	method, _ := grpc.MethodFromServerStream(stream)

	in := &node.RequestMessage{}
	if err := stream.RecvMsg(in); err != nil {
		return err
	}

	switch method {
	case node.MethodSendRequest:
		resp, err := m.submit(in.Request)
		if err != nil {
			return err
		}
		return stream.SendMsg(&node.ResponseMessage{Response: resp})
	case node.MethodQueryRequest:
		resp, err := m.query(in.Request)
		if err != nil {
			return err
		}
		return stream.SendMsg(&node.ResponseMessage{Response: resp})
	case node.MethodSubscribe:
		for _, e := range m.Events {
			if err := stream.SendMsg(&node.EventMessage{Event: e}); err != nil {
				return err
			}
		}
		return nil
	default:
		return grpcstatus.Errorf(codes.Unimplemented, "unknown method %s", method)
	}
}

func (m *MockNodeServer) submit(req *fab.TxRequest) (*fab.TxResponse, error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	m.submitted = append(m.submitted, req)
	if m.SubmitError != nil {
		return nil, m.SubmitError
	}
	if m.SubmitCode == fab.Success {
		m.lookups[req.Payload.TxID] = 0
		m.txs[req.Payload.TxID] = req
	}
	return &fab.TxResponse{TxID: req.Payload.TxID, Code: m.SubmitCode}, nil
}

func (m *MockNodeServer) query(req *fab.TxRequest) (*fab.TxResponse, error) {
	p := req.Payload
	if p.ContractName == txn.ChainQueryName && p.Method == txn.MethodGetTxByTxID {
		txID, _ := p.Param(txn.KeyTxID)
		return m.lookup(string(txID))
	}

	m.mutex.Lock()
	m.queried = append(m.queried, req)
	m.mutex.Unlock()

	if m.QueryError != nil {
		return nil, m.QueryError
	}
	if p.ContractName == txn.ChainQueryName {
		return m.chainQuery(p)
	}

	res := &fab.TxResponse{}
	if m.QueryResult != nil {
		*res = *m.QueryResult
	}
	res.TxID = p.TxID
	return res, nil
}

func notFound(what string) *fab.TxResponse {
	return &fab.TxResponse{Code: fab.ContractFail, ContractMessage: what + " not found"}
}

func (m *MockNodeServer) lookup(txID string) (*fab.TxResponse, error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if m.LookupCode != fab.Success {
		return &fab.TxResponse{Code: m.LookupCode, Message: "lookup refused"}, nil
	}
	count, ok := m.lookups[txID]
	if !ok {
		return notFound("transaction"), nil
	}
	m.lookups[txID] = count + 1
	if count < m.PendingLookups {
		return notFound("transaction"), nil
	}

	final := &fab.TxResponse{}
	if m.Result != nil {
		*final = *m.Result
	}
	final.TxID = txID
	req := m.txs[txID]
	info := &fab.TransactionInfo{
		Transaction: &fab.Transaction{Payload: req.Payload, Sender: req.Sender, Endorsers: req.Endorsers, Result: final},
		BlockHeight: final.BlockHeight,
	}
	b, err := txn.MarshalTransactionInfo(info)
	if err != nil {
		return nil, err
	}
	return &fab.TxResponse{Code: fab.Success, Result: b}, nil
}

func (m *MockNodeServer) chainQuery(p *fab.Payload) (*fab.TxResponse, error) {
	var (
		b   []byte
		err error
	)
	switch p.Method {
	case txn.MethodGetChainInfo:
		if m.ChainInfo == nil {
			return notFound("chain info"), nil
		}
		b, err = txn.MarshalChainInfo(m.ChainInfo)
	default:
		block := m.findBlock(p)
		if block == nil {
			return notFound("block"), nil
		}
		if withRWSet, _ := p.Param(txn.KeyWithRWSet); string(withRWSet) != "true" {
			block = &fab.BlockInfo{Block: block.Block}
		}
		b, err = txn.MarshalBlockInfo(block)
	}
	if err != nil {
		return nil, err
	}
	return &fab.TxResponse{TxID: p.TxID, Code: fab.Success, Result: b}, nil
}

func (m *MockNodeServer) findBlock(p *fab.Payload) *fab.BlockInfo {
	height, _ := p.Param(txn.KeyBlockHeight)
	hash, _ := p.Param(txn.KeyBlockHash)
	txID, _ := p.Param(txn.KeyTxID)

	var last *fab.BlockInfo
	for _, b := range m.Blocks {
		h := b.Block.Header
		switch p.Method {
		case txn.MethodGetBlockByHeight:
			if strconv.FormatUint(h.BlockHeight, 10) == string(height) {
				return b
			}
		case txn.MethodGetBlockByHash:
			if hex.EncodeToString(h.BlockHash) == string(hash) {
				return b
			}
		case txn.MethodGetBlockByTxID:
			for _, tx := range b.Block.Txs {
				if tx.Payload != nil && tx.Payload.TxID == string(txID) {
					return b
				}
			}
		case txn.MethodGetLastBlock:
			if last == nil || h.BlockHeight > last.Block.Header.BlockHeight {
				last = b
			}
		}
	}
	return last
}

/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package txn builds transaction payloads and submits them to chain nodes.
package txn

import (
	"encoding/hex"
	"sort"
	"time"

	"github.com/pkg/errors"

	"github.com/fish1208/chainmaker-sdk-go/pkg/common/errors/status"
	"github.com/fish1208/chainmaker-sdk-go/pkg/common/logging"
	"github.com/fish1208/chainmaker-sdk-go/pkg/common/providers/fab"
	"github.com/fish1208/chainmaker-sdk-go/pkg/evm"
	"github.com/fish1208/chainmaker-sdk-go/pkg/evm/abi"
)

var logger = logging.NewLogger("chainsdk/fab")

// System contract and parameter names used by contract management
const (
	ContractManageName = "CONTRACT_MANAGE"

	MethodInitContract     = "INIT_CONTRACT"
	MethodUpgradeContract  = "UPGRADE_CONTRACT"
	MethodFreezeContract   = "FREEZE_CONTRACT"
	MethodUnfreezeContract = "UNFREEZE_CONTRACT"
	MethodRevokeContract   = "REVOKE_CONTRACT"

	KeyContractName        = "CONTRACT_NAME"
	KeyContractVersion     = "CONTRACT_VERSION"
	KeyContractRuntimeType = "CONTRACT_RUNTIME_TYPE"
	KeyContractBytecode    = "CONTRACT_BYTECODE"

	// KeyEVMData carries hex encoded ABI data for EVM contracts
	KeyEVMData = "data"
)

// System contract and parameter names used by event subscriptions
const (
	SubscribeManageName          = "SUBSCRIBE_MANAGE"
	MethodSubscribeContractEvent = "SUBSCRIBE_CONTRACT_EVENT"
	KeyTopic                     = "TOPIC"
)

// VersionMetadata carries the caller controlled fields of a payload.
// An empty TxID asks the builder to generate one.
type VersionMetadata struct {
	TxID     string
	Sequence uint64
	Version  string
}

// Builder creates payloads for a single chain
type Builder struct {
	chainID    string
	clock      func() time.Time
	ids        *IDRegistry
	expiration time.Duration
}

// BuilderOption configures a Builder
type BuilderOption func(b *Builder)

// WithClock sets the time source used for payload timestamps
func WithClock(clock func() time.Time) BuilderOption {
	return func(b *Builder) {
		b.clock = clock
	}
}

// WithIDRegistry shares a transaction id registry between builders
func WithIDRegistry(ids *IDRegistry) BuilderOption {
	return func(b *Builder) {
		b.ids = ids
	}
}

// WithExpiration sets how long after its timestamp a payload stays valid.
// Zero means payloads never expire.
func WithExpiration(d time.Duration) BuilderOption {
	return func(b *Builder) {
		b.expiration = d
	}
}

// NewBuilder returns a payload builder for chainID
func NewBuilder(chainID string, opts ...BuilderOption) (*Builder, error) {
	if chainID == "" {
		return nil, errors.New("chain ID is required")
	}
	b := &Builder{chainID: chainID, clock: time.Now}
	for _, opt := range opts {
		opt(b)
	}
	if b.ids == nil {
		b.ids = NewIDRegistry(DefaultRecentIDs)
	}
	return b, nil
}

// ChainID returns the chain the builder creates payloads for
func (b *Builder) ChainID() string {
	return b.chainID
}

// Build creates a state-changing contract invocation
func (b *Builder) Build(contractName, method string, params []fab.KeyValuePair, meta VersionMetadata) (*fab.Payload, error) {
	return b.build(fab.InvokeContract, contractName, method, params, meta)
}

// BuildQuery creates a read-only contract call
func (b *Builder) BuildQuery(contractName, method string, params []fab.KeyValuePair, meta VersionMetadata) (*fab.Payload, error) {
	return b.build(fab.QueryContract, contractName, method, params, meta)
}

// BuildEVMCall creates an invocation of an EVM contract deployed under name.
// The payload targets the derived contract name, the method is the selector
// hex and the data parameter holds the full encoded call.
func (b *Builder) BuildEVMCall(name string, call *abi.CallSpec, meta VersionMetadata) (*fab.Payload, error) {
	return b.buildEVM(fab.InvokeContract, name, call, meta)
}

// BuildEVMQuery creates a read-only call to an EVM contract deployed under name
func (b *Builder) BuildEVMQuery(name string, call *abi.CallSpec, meta VersionMetadata) (*fab.Payload, error) {
	return b.buildEVM(fab.QueryContract, name, call, meta)
}

func (b *Builder) buildEVM(txType fab.TxType, name string, call *abi.CallSpec, meta VersionMetadata) (*fab.Payload, error) {
	if call == nil {
		return nil, invalidPayload("call is required")
	}
	data, err := call.Encode()
	if err != nil {
		return nil, err
	}
	method := hex.EncodeToString(data[:abi.SelectorLength])
	params := []fab.KeyValuePair{{Key: KeyEVMData, Value: []byte(hex.EncodeToString(data))}}
	return b.build(txType, evm.CalcContractName(name), method, params, meta)
}

// BuildContractCreate creates a payload that installs a contract
func (b *Builder) BuildContractCreate(name, version string, runtime RuntimeType, bytecode []byte, params []fab.KeyValuePair, meta VersionMetadata) (*fab.Payload, error) {
	return b.buildInstall(MethodInitContract, name, version, runtime, bytecode, params, meta)
}

// BuildContractUpgrade creates a payload that replaces a contract's code
func (b *Builder) BuildContractUpgrade(name, version string, runtime RuntimeType, bytecode []byte, params []fab.KeyValuePair, meta VersionMetadata) (*fab.Payload, error) {
	return b.buildInstall(MethodUpgradeContract, name, version, runtime, bytecode, params, meta)
}

// BuildEVMContractCreate creates a payload that installs an EVM contract under
// the name derived from name. The data parameter holds the encoded
// constructor arguments, without a selector.
func (b *Builder) BuildEVMContractCreate(name, version string, bytecode []byte, constructorArgs []abi.TypedValue, meta VersionMetadata) (*fab.Payload, error) {
	var params []fab.KeyValuePair
	if len(constructorArgs) > 0 {
		data, err := abi.EncodeArgs(constructorArgs)
		if err != nil {
			return nil, err
		}
		params = append(params, fab.KeyValuePair{Key: KeyEVMData, Value: []byte(hex.EncodeToString(data))})
	}
	return b.BuildContractCreate(evm.CalcContractName(name), version, RuntimeEVM, bytecode, params, meta)
}

// BuildContractFreeze creates a payload that freezes a contract
func (b *Builder) BuildContractFreeze(name string, meta VersionMetadata) (*fab.Payload, error) {
	return b.buildManage(MethodFreezeContract, name, meta)
}

// BuildContractUnfreeze creates a payload that unfreezes a contract
func (b *Builder) BuildContractUnfreeze(name string, meta VersionMetadata) (*fab.Payload, error) {
	return b.buildManage(MethodUnfreezeContract, name, meta)
}

// BuildContractRevoke creates a payload that permanently revokes a contract
func (b *Builder) BuildContractRevoke(name string, meta VersionMetadata) (*fab.Payload, error) {
	return b.buildManage(MethodRevokeContract, name, meta)
}

// BuildContractEventSubscribe creates a payload that subscribes to events of
// a contract. An empty topic subscribes to every topic.
func (b *Builder) BuildContractEventSubscribe(name, topic string, meta VersionMetadata) (*fab.Payload, error) {
	if name == "" {
		return nil, invalidPayload("contract name is required")
	}
	params := []fab.KeyValuePair{{Key: KeyContractName, Value: []byte(name)}}
	if topic != "" {
		params = append(params, fab.KeyValuePair{Key: KeyTopic, Value: []byte(topic)})
	}
	return b.build(fab.Subscribe, SubscribeManageName, MethodSubscribeContractEvent, params, meta)
}

func (b *Builder) buildInstall(method, name, version string, runtime RuntimeType, bytecode []byte, params []fab.KeyValuePair, meta VersionMetadata) (*fab.Payload, error) {
	if name == "" {
		return nil, invalidPayload("contract name is required")
	}
	if version == "" {
		return nil, invalidPayload("contract version is required")
	}
	if _, ok := runtimeTypeName[runtime]; !ok || runtime == RuntimeInvalid {
		return nil, invalidPayload("invalid runtime type %d", runtime)
	}
	if len(bytecode) == 0 {
		return nil, invalidPayload("contract bytecode is required")
	}

	all := []fab.KeyValuePair{
		{Key: KeyContractName, Value: []byte(name)},
		{Key: KeyContractVersion, Value: []byte(version)},
		{Key: KeyContractRuntimeType, Value: []byte(runtime.String())},
		{Key: KeyContractBytecode, Value: bytecode},
	}
	all = append(all, params...)
	return b.build(fab.ContractManage, ContractManageName, method, all, meta)
}

func (b *Builder) buildManage(method, name string, meta VersionMetadata) (*fab.Payload, error) {
	if name == "" {
		return nil, invalidPayload("contract name is required")
	}
	params := []fab.KeyValuePair{{Key: KeyContractName, Value: []byte(name)}}
	return b.build(fab.ContractManage, ContractManageName, method, params, meta)
}

func (b *Builder) build(txType fab.TxType, contractName, method string, params []fab.KeyValuePair, meta VersionMetadata) (*fab.Payload, error) {
	if contractName == "" {
		return nil, invalidPayload("contract name is required")
	}
	if method == "" {
		return nil, invalidPayload("method is required")
	}

	frozen, err := copyParams(params)
	if err != nil {
		return nil, err
	}

	txID := meta.TxID
	if txID == "" {
		txID, err = b.ids.Next()
	} else {
		err = b.ids.Reserve(txID)
	}
	if err != nil {
		return nil, err
	}

	now := b.clock()
	p := &fab.Payload{
		ChainID:      b.chainID,
		TxType:       txType,
		TxID:         txID,
		Timestamp:    now.Unix(),
		ContractName: contractName,
		Method:       method,
		Parameters:   frozen,
		Sequence:     meta.Sequence,
		Version:      meta.Version,
	}
	if b.expiration > 0 {
		p.ExpirationTime = now.Add(b.expiration).Unix()
	}

	logger.Debugf("built %s payload [%s] for %s.%s", txType, txID, contractName, method)
	return p, nil
}

// copyParams returns a sorted deep copy of params and rejects duplicate keys
func copyParams(params []fab.KeyValuePair) ([]fab.KeyValuePair, error) {
	frozen := make([]fab.KeyValuePair, len(params))
	seen := make(map[string]struct{}, len(params))
	for i, kv := range params {
		if kv.Key == "" {
			return nil, invalidPayload("parameter %d has an empty key", i)
		}
		if _, ok := seen[kv.Key]; ok {
			return nil, invalidPayload("duplicate parameter %s", kv.Key)
		}
		seen[kv.Key] = struct{}{}
		frozen[i] = fab.KeyValuePair{Key: kv.Key, Value: append([]byte{}, kv.Value...)}
	}
	sort.Slice(frozen, func(i, j int) bool { return frozen[i].Key < frozen[j].Key })
	return frozen, nil
}

// Params converts a parameter map into a key-sorted parameter list
func Params(m map[string][]byte) []fab.KeyValuePair {
	params := make([]fab.KeyValuePair, 0, len(m))
	for k, v := range m {
		params = append(params, fab.KeyValuePair{Key: k, Value: v})
	}
	sort.Slice(params, func(i, j int) bool { return params[i].Key < params[j].Key })
	return params
}

func invalidPayload(format string, args ...interface{}) error {
	return status.New(status.ClientStatus, status.InvalidPayload.ToInt32(), errors.Errorf(format, args...).Error(), nil)
}

/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package msp

import (
	"github.com/pkg/errors"

	"github.com/fish1208/chainmaker-sdk-go/pkg/common/providers/core"
	"github.com/fish1208/chainmaker-sdk-go/pkg/common/providers/msp"
)

type addressKey interface {
	Address() string
}

// SigningIdentity pairs an Identity with the crypto suite that signs for it
type SigningIdentity struct {
	identity   *Identity
	suite      core.CryptoSuite
	key        core.Key
	memberInfo []byte
}

// NewSigningIdentity imports the identity's sign key into suite
func NewSigningIdentity(id *Identity, suite core.CryptoSuite) (*SigningIdentity, error) {
	if id == nil {
		return nil, errors.New("identity is required")
	}
	if suite == nil {
		return nil, errors.New("crypto suite is required")
	}

	key, err := suite.KeyImport(id.signKey)
	if err != nil {
		return nil, errors.WithMessagef(err, "failed to import sign key for org [%s]", id.orgID)
	}
	if !key.Private() {
		return nil, errors.Errorf("sign key for org [%s] is not a private key", id.orgID)
	}

	var memberInfo []byte
	switch id.memberType {
	case msp.Cert:
		memberInfo = clone(id.signCert)
	case msp.PublicKey:
		ak, ok := key.(addressKey)
		if !ok {
			return nil, errors.Errorf("sign key for org [%s] has no account address", id.orgID)
		}
		memberInfo = []byte(ak.Address())
	}

	return &SigningIdentity{
		identity:   id,
		suite:      suite,
		key:        key,
		memberInfo: memberInfo,
	}, nil
}

// Identity returns the underlying identity
func (s *SigningIdentity) Identity() *Identity {
	return s.identity
}

// OrgID returns the organization id
func (s *SigningIdentity) OrgID() string {
	return s.identity.orgID
}

// MemberType returns how the identity is presented to nodes
func (s *SigningIdentity) MemberType() msp.MemberType {
	return s.identity.memberType
}

// Serialize returns the member info: the PEM sign certificate for Cert
// members, the 0x account address for PublicKey members.
func (s *SigningIdentity) Serialize() ([]byte, error) {
	return clone(s.memberInfo), nil
}

// Sign signs msg with the identity's sign key
func (s *SigningIdentity) Sign(msg []byte) ([]byte, error) {
	sig, err := s.suite.Sign(s.key, msg)
	if err != nil {
		return nil, errors.WithMessagef(err, "org [%s] failed to sign", s.identity.orgID)
	}
	return sig, nil
}

// Verify checks a signature over msg against this identity's public key
func (s *SigningIdentity) Verify(msg, sig []byte) error {
	pub, err := s.key.PublicKey()
	if err != nil {
		return err
	}
	return s.suite.Verify(pub, sig, msg)
}

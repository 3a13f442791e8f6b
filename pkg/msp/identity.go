/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package msp holds organization identities and turns them into signers.
package msp

import (
	"bytes"
	"encoding/hex"
	"strings"

	"github.com/pkg/errors"

	"github.com/fish1208/chainmaker-sdk-go/pkg/common/providers/msp"
)

// Identity is an organization-scoped credential bundle: a signing key and
// certificate plus a transport (TLS) key and certificate. It is immutable;
// accessors return copies.
type Identity struct {
	orgID      string
	signKey    []byte
	signCert   []byte
	tlsKey     []byte
	tlsCert    []byte
	memberType msp.MemberType
}

// NewIdentity creates an Identity. A hex secp256k1 sign key without a sign
// certificate yields a PublicKey member; everything else is a Cert member.
func NewIdentity(orgID string, signKey, signCert, tlsKey, tlsCert []byte) (*Identity, error) {
	if orgID == "" {
		return nil, errors.New("organization id is required")
	}
	if len(bytes.TrimSpace(signKey)) == 0 {
		return nil, errors.Errorf("sign key is required for org [%s]", orgID)
	}

	memberType := msp.Cert
	if len(signCert) == 0 {
		if !isHexKey(signKey) {
			return nil, errors.Errorf("sign certificate is required for org [%s]", orgID)
		}
		memberType = msp.PublicKey
	}

	return &Identity{
		orgID:      orgID,
		signKey:    clone(signKey),
		signCert:   clone(signCert),
		tlsKey:     clone(tlsKey),
		tlsCert:    clone(tlsCert),
		memberType: memberType,
	}, nil
}

// OrgID returns the organization id
func (i *Identity) OrgID() string {
	return i.orgID
}

// MemberType returns how the identity is presented to nodes
func (i *Identity) MemberType() msp.MemberType {
	return i.memberType
}

// SignKey returns the signing key bytes
func (i *Identity) SignKey() []byte {
	return clone(i.signKey)
}

// SignCert returns the signing certificate bytes
func (i *Identity) SignCert() []byte {
	return clone(i.signCert)
}

// TLSKey returns the transport key bytes
func (i *Identity) TLSKey() []byte {
	return clone(i.tlsKey)
}

// TLSCert returns the transport certificate bytes
func (i *Identity) TLSCert() []byte {
	return clone(i.tlsCert)
}

func isHexKey(b []byte) bool {
	s := strings.TrimPrefix(string(bytes.TrimSpace(b)), "0x")
	raw, err := hex.DecodeString(s)
	return err == nil && len(raw) == 32
}

func clone(b []byte) []byte {
	if b == nil {
		return nil
	}
	c := make([]byte, len(b))
	copy(c, b)
	return c
}

/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package msp

// MemberType describes how a member's identity is carried on the wire
type MemberType int32

const (
	// Cert member info is a PEM x509 certificate
	Cert MemberType = iota
	// PublicKey member info is a 0x-prefixed account address
	PublicKey
)

func (m MemberType) String() string {
	switch m {
	case Cert:
		return "CERT"
	case PublicKey:
		return "PUBLIC_KEY"
	default:
		return "UNKNOWN"
	}
}

// Identity represents an organization member
type Identity interface {

	// OrgID returns the organization the identity belongs to
	OrgID() string

	// MemberType returns the kind of member info carried by Serialize
	MemberType() MemberType

	// Serialize returns the member info sent alongside signatures
	Serialize() ([]byte, error)
}

// SigningIdentity is an extension of Identity to cover signing capabilities.
type SigningIdentity interface {

	// Extends Identity
	Identity

	// Sign the message
	Sign(msg []byte) ([]byte, error)
}

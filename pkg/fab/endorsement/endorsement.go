/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package endorsement collects and checks organization signatures over payloads.
//
// Endorsements sign the canonical payload bytes. A payload must not be changed
// after Collect returns: any change invalidates every entry collected for it.
package endorsement

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/fish1208/chainmaker-sdk-go/pkg/common/errors/multi"
	"github.com/fish1208/chainmaker-sdk-go/pkg/common/errors/status"
	"github.com/fish1208/chainmaker-sdk-go/pkg/common/logging"
	"github.com/fish1208/chainmaker-sdk-go/pkg/common/providers/core"
	"github.com/fish1208/chainmaker-sdk-go/pkg/common/providers/fab"
	"github.com/fish1208/chainmaker-sdk-go/pkg/common/providers/msp"
	"github.com/fish1208/chainmaker-sdk-go/pkg/fab/txn"
)

var logger = logging.NewLogger("chainsdk/fab")

// Collect signs payload with each identity and returns one entry per
// identity, in the order given. Duplicate organizations or any signing
// failure fail the whole collection with EndorsementFailure.
func Collect(payload *fab.Payload, identities ...msp.SigningIdentity) ([]*fab.EndorsementEntry, error) {
	b, err := txn.MarshalPayload(payload)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{}, len(identities))
	entries := make([]*fab.EndorsementEntry, 0, len(identities))
	for i, id := range identities {
		if id == nil {
			return nil, failure(nil, "identity %d is nil", i)
		}
		org := id.OrgID()
		if _, ok := seen[org]; ok {
			return nil, failure(nil, "duplicate endorsement for org [%s]", org)
		}
		seen[org] = struct{}{}

		info, err := id.Serialize()
		if err != nil {
			return nil, failure(err, "org [%s] could not serialize its identity", org)
		}
		sig, err := id.Sign(b)
		if err != nil {
			return nil, failure(err, "org [%s] failed to endorse", org)
		}
		entries = append(entries, &fab.EndorsementEntry{
			OrgID:      org,
			MemberType: id.MemberType(),
			MemberInfo: info,
			Signature:  sig,
		})
	}

	logger.Debugf("collected %d endorsements for transaction [%s]", len(entries), payload.TxID)
	return entries, nil
}

// Verify checks that entry is a valid signature over payload by the member
// the entry names
func Verify(payload *fab.Payload, entry *fab.EndorsementEntry, suite core.CryptoSuite) error {
	if entry == nil {
		return verifyFailure(nil, "endorsement is nil")
	}
	b, err := txn.MarshalPayload(payload)
	if err != nil {
		return err
	}

	key, err := suite.KeyImport(entry.MemberInfo)
	if err != nil {
		return verifyFailure(err, "invalid member info for org [%s]", entry.OrgID)
	}
	if key.Private() {
		return verifyFailure(nil, "member info for org [%s] is a private key", entry.OrgID)
	}
	if err := suite.Verify(key, entry.Signature, b); err != nil {
		return verifyFailure(err, "signature of org [%s] does not match the payload", entry.OrgID)
	}
	return nil
}

// VerifyAll verifies every entry and reports all failures
func VerifyAll(payload *fab.Payload, entries []*fab.EndorsementEntry, suite core.CryptoSuite) error {
	var errs error
	seen := make(map[string]struct{}, len(entries))
	for i, e := range entries {
		if e != nil {
			if _, ok := seen[e.OrgID]; ok {
				errs = multi.Append(errs, verifyFailure(nil, "duplicate endorsement for org [%s]", e.OrgID))
				continue
			}
			seen[e.OrgID] = struct{}{}
		}
		if err := Verify(payload, e, suite); err != nil {
			errs = multi.Append(errs, errors.WithMessagef(err, "endorsement %d", i))
		}
	}
	return errs
}

func failure(cause error, format string, args ...interface{}) error {
	msg := fmt.Sprintf(format, args...)
	if cause != nil {
		msg = fmt.Sprintf("%s: %s", msg, cause)
	}
	return status.New(status.EndorsementStatus, status.EndorsementFailure.ToInt32(), msg, nil)
}

func verifyFailure(cause error, format string, args ...interface{}) error {
	msg := fmt.Sprintf(format, args...)
	if cause != nil {
		msg = fmt.Sprintf("%s: %s", msg, cause)
	}
	return status.New(status.EndorsementStatus, status.SignatureVerificationFailed.ToInt32(), msg, nil)
}

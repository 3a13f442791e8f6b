/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package txn

import (
	"crypto/rand"
	"encoding/binary"
	"encoding/hex"
	"regexp"
	"sync"
	"sync/atomic"

	"github.com/bluele/gcache"
	"github.com/pkg/errors"

	"github.com/fish1208/chainmaker-sdk-go/pkg/common/errors/status"
)

const (
	// TxIDLength is the length of a generated transaction id in hex characters
	TxIDLength = 64

	nonceSize = 24

	// DefaultRecentIDs is the number of ids remembered for reuse checks, kept
	// separately for caller supplied and generated ids
	DefaultRecentIDs = 10000
)

var txIDPattern = regexp.MustCompile(`^[a-zA-Z0-9_\-]{1,64}$`)

var counter uint64

// NewID returns a fresh transaction id: 24 random bytes followed by a
// process-wide monotonic counter, hex encoded. Two calls in the same
// process never return the same id.
func NewID() (string, error) {
	b := make([]byte, nonceSize+8)
	if _, err := rand.Read(b[:nonceSize]); err != nil {
		return "", errors.Wrap(err, "nonce creation failed")
	}
	binary.BigEndian.PutUint64(b[nonceSize:], atomic.AddUint64(&counter, 1))
	return hex.EncodeToString(b), nil
}

// IDRegistry remembers recently used transaction ids. Caller supplied and
// generated ids live in separate windows so generated ids never evict a
// caller's id.
type IDRegistry struct {
	mutex    sync.Mutex
	reserved gcache.Cache
	issued   gcache.Cache
}

// NewIDRegistry returns a registry that remembers the last size caller
// supplied ids and the last size generated ids
func NewIDRegistry(size int) *IDRegistry {
	if size <= 0 {
		size = DefaultRecentIDs
	}
	return &IDRegistry{
		reserved: gcache.New(size).LRU().Build(),
		issued:   gcache.New(size).LRU().Build(),
	}
}

// Next generates a new id and records it
func (r *IDRegistry) Next() (string, error) {
	id, err := NewID()
	if err != nil {
		return "", err
	}
	r.mutex.Lock()
	defer r.mutex.Unlock()
	if err := r.issued.Set(id, struct{}{}); err != nil {
		return "", errors.Wrap(err, "failed to record transaction id")
	}
	return id, nil
}

// Reserve validates a caller supplied id and records it. Ids still inside
// either window are rejected with DuplicateTransactionID.
func (r *IDRegistry) Reserve(id string) error {
	if !txIDPattern.MatchString(id) {
		return status.New(status.ClientStatus, status.InvalidPayload.ToInt32(),
			"transaction id must be 1 to 64 characters of [a-zA-Z0-9_-]", []interface{}{id})
	}

	r.mutex.Lock()
	defer r.mutex.Unlock()
	if r.reserved.Has(id) || r.issued.Has(id) {
		return status.New(status.ClientStatus, status.DuplicateTransactionID.ToInt32(),
			"transaction id was already used", []interface{}{id})
	}
	if err := r.reserved.Set(id, struct{}{}); err != nil {
		return errors.Wrap(err, "failed to record transaction id")
	}
	return nil
}

// Release forgets id, allowing a caller to reuse it after a failed build
func (r *IDRegistry) Release(id string) {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	r.reserved.Remove(id)
	r.issued.Remove(id)
}

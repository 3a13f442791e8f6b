/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package multi is an error type that holds multiple errors. These errors
// typically originate from operations that target several nodes, e.g. a
// submission that is tried against every configured node before giving up.
package multi

import (
	"strings"

	"github.com/pkg/errors"
)

// Errors is used to represent multiple errors
type Errors []error

// New Errors object with the given errors. Only non-nil errors are added.
func New(errs ...error) error {
	var m Errors
	for _, err := range errs {
		if err != nil {
			m = append(m, err)
		}
	}
	return m.ToError()
}

// Append error to Errors. If the first arg is not an Errors object, one will be created
func Append(errs error, err error) error {
	m, ok := errs.(Errors)
	if !ok {
		return New(errs, err)
	}
	if err == nil {
		return errs
	}
	return append(m, err)
}

// ForNode annotates err with the address of the node that produced it
func ForNode(url string, err error) error {
	if err == nil {
		return nil
	}
	return errors.WithMessagef(err, "node [%s]", url)
}

// ToError converts Errors to the error interface
// returns nil if no errors are present, a single error object if only one is present
func (errs Errors) ToError() error {
	switch len(errs) {
	case 0:
		return nil
	case 1:
		return errs[0]
	default:
		return errs
	}
}

// All returns true if every error satisfies the predicate
func (errs Errors) All(pred func(error) bool) bool {
	if len(errs) == 0 {
		return false
	}
	for _, err := range errs {
		if !pred(err) {
			return false
		}
	}
	return true
}

// Unwrap exposes the individual errors to errors.Is and errors.As
func (errs Errors) Unwrap() []error {
	return errs
}

// Error implements the error interface to return a string representation of Errors
func (errs Errors) Error() string {
	if len(errs) == 0 {
		return ""
	}
	if len(errs) == 1 {
		return errs[0].Error()
	}

	msgs := []string{"Multiple errors occurred:"}
	for _, err := range errs {
		msgs = append(msgs, err.Error())
	}
	return strings.Join(msgs, " - ")
}

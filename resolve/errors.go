// SPDX-License-Identifier: BSD-3-Clause
// Copyright (c) 2022, Unikraft GmbH and The KraftKit Authors.
// Licensed under the BSD-3-Clause License (the "License").
// You may not use this file except in compliance with the License.
package resolve

import "github.com/pkg/errors"

// ErrorKind classifies a resolver-level failure per the error taxonomy:
// InputMissing and BadCfg are fatal and surfaced to the caller; everything
// else (unreachable edges, unmatched version requirements) is silently
// ignored by the lower layers and never reaches here.
type ErrorKind int

const (
	// InputMissing: a required triple lacks a target-info record.
	InputMissing ErrorKind = iota
	// BadCfg: a cfg predicate failed to parse.
	BadCfg
	// UnknownPackageId: an internal consistency violation in the
	// PackageIndex or upstream metadata.
	UnknownPackageId
)

func (k ErrorKind) String() string {
	switch k {
	case InputMissing:
		return "InputMissing"
	case BadCfg:
		return "BadCfg"
	case UnknownPackageId:
		return "UnknownPackageId"
	default:
		return "Unknown"
	}
}

// Error wraps a fatal resolver failure with its taxonomy kind.
type Error struct {
	Kind ErrorKind
	err  error
}

func (e *Error) Error() string {
	return e.Kind.String() + ": " + e.err.Error()
}

func (e *Error) Unwrap() error {
	return e.err
}

func newError(kind ErrorKind, msg string, args ...interface{}) *Error {
	return &Error{Kind: kind, err: errors.Errorf(msg, args...)}
}

func wrapError(kind ErrorKind, err error, msg string) *Error {
	return &Error{Kind: kind, err: errors.Wrap(err, msg)}
}

// Copyright (c) 2025 pk910
// SPDX-License-Identifier: Apache-2.0
// This file is part of the dynamic-proxy library.

package proxyutils

import (
	"fmt"

	"github.com/cockroachdb/errors"
)

var (
	ErrParentNotPublic        = errors.New("proxy parent type is not exported")
	ErrParentNotConstructible = errors.New("proxy parent type has no usable zero value")
	ErrReservedMethod         = errors.New("proxy parent declares a reserved capsule method")
	ErrDuplicateUnit          = errors.New("dispatch unit already defined with a different body")
	ErrMethodNotFound         = errors.New("method not found")
	ErrNoImplementation       = errors.New("no reachable implementation")
	ErrUnsupportedType        = errors.New("unsupported type")
	ErrInvalidDescriptor      = errors.New("invalid type descriptor")
	ErrUnknownType            = errors.New("unknown named type")
	ErrTargetMismatch         = errors.New("target does not implement proxy parent")
	ErrArgumentType           = errors.New("invalid argument type")
	ErrArgumentCount          = errors.New("incorrect number of arguments")
	ErrInvalidSelector        = errors.New("invalid method selector")
	ErrNoTemplate             = errors.New("no generated dispatch unit for parent type")
	ErrNotAnInterface         = errors.New("exposed type is not an interface")
	ErrInterfaceMismatch      = errors.New("proxy instance does not implement exposed interface")
	ErrDuplicateSignature     = errors.New("interception table holds equal signatures")
)

// MethodNotFoundError is raised by a dispatch unit when none of its branches
// matches the requested (owner, name, signature) triple.
type MethodNotFoundError struct {
	Owner     string
	Name      string
	Signature string
}

// NewMethodNotFoundError creates the fallback error of a dispatch unit.
func NewMethodNotFoundError(owner, name, signature string) error {
	return &MethodNotFoundError{
		Owner:     owner,
		Name:      name,
		Signature: signature,
	}
}

func (e *MethodNotFoundError) Error() string {
	return fmt.Sprintf("%v: %s.%s%s", ErrMethodNotFound, e.Owner, e.Name, e.Signature)
}

// NewArgumentCountError is returned by dispatch units for calls with the
// wrong number of arguments.
func NewArgumentCountError(owner, name, signature string, expected, got int) error {
	return errors.Wrapf(ErrArgumentCount, "%s.%s%s: got %d, expected %d", owner, name, signature, got, expected)
}

// NewArgumentTypeError is returned by dispatch units when an argument does
// not have the parameter type.
func NewArgumentTypeError(owner, name, signature string, index int, arg any) error {
	return errors.Wrapf(ErrArgumentType, "%s.%s%s: argument %d has type %T", owner, name, signature, index, arg)
}

// NewNoImplementationError is returned by dispatch units without a target.
func NewNoImplementationError(owner, name, signature string) error {
	return errors.Wrapf(ErrNoImplementation, "%s.%s%s", owner, name, signature)
}

// Is reports ErrMethodNotFound as the error kind.
func (e *MethodNotFoundError) Is(target error) bool {
	return target == ErrMethodNotFound
}

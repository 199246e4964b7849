// Copyright (c) 2025 pk910
// SPDX-License-Identifier: Apache-2.0
// This file is part of the dynamic-proxy library.

package proxytypes

import "reflect"

// TargetKind classifies the target of a proxy layer.
type TargetKind uint8

const (
	// TargetNone means the layer has no target at all.
	TargetNone TargetKind = iota
	// TargetConcrete is a plain object.
	TargetConcrete
	// TargetLayered is another proxy instance.
	TargetLayered
)

func (k TargetKind) String() string {
	switch k {
	case TargetConcrete:
		return "concrete"
	case TargetLayered:
		return "layered"
	default:
		return "none"
	}
}

// DirectCall calls a method on the implementation held by a proxy layer,
// bypassing that layer's interceptions.
type DirectCall func(sig *Signature, args []any) (any, error)

// ClassifyTarget returns the kind of target. Nil pointers count as no target.
func ClassifyTarget(target any) TargetKind {
	if target == nil {
		return TargetNone
	}
	if _, ok := target.(Parent); ok {
		return TargetLayered
	}

	rv := reflect.ValueOf(target)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		if rv.IsNil() {
			return TargetNone
		}
	}
	return TargetConcrete
}

// NewInvoker builds the continuation handed to an interception running on
// a layer whose target is target. direct performs the raw call on that
// layer's held implementation and is nil when there is none.
//
// If target is another proxy, the continuation runs the inner layer's
// interception for sig (with its own continuation), or re-enters the inner
// layer's dispatch rule when the inner table has no entry for sig. Inner
// layers are therefore never skipped.
func NewInvoker(target any, sig *Signature, args []any, direct DirectCall) Invoker {
	switch ClassifyTarget(target) {
	case TargetLayered:
		inner := target.(Parent)
		entry, ok := inner.ProxyInterceptions().Lookup(sig)
		if !ok {
			return func() (any, error) {
				return inner.ProxyInvoke(sig, args)
			}
		}

		innerTarget := inner.ProxyTarget()
		next := NewInvoker(innerTarget, sig, args, inner.ProxyDirect(sig))
		return func() (any, error) {
			return entry.Interception.Invoke(innerTarget, args, sig, next)
		}

	case TargetConcrete:
		if direct == nil {
			return nil
		}
		return func() (any, error) {
			return direct(sig, args)
		}

	default:
		if direct == nil {
			return nil
		}
		return func() (any, error) {
			return direct(sig, args)
		}
	}
}

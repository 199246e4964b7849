// Copyright (c) 2025 pk910
// SPDX-License-Identifier: Apache-2.0
// This file is part of the dynamic-proxy library.

package proxytypes

import "github.com/pk910/dynamic-proxy/proxyutils"

// Invoker continues an intercepted call with the next implementation: the
// inner layer, the wrapped target or the embedded super. The returned value
// follows the dispatch result convention (Void, single value or Tuple).
//
// An interception receives a nil Invoker when no implementation is reachable.
type Invoker func() (any, error)

// Interception handles calls of the methods it is registered for.
//
// Whatever Invoke returns is handed to the caller unchanged. Invoke may call
// next any number of times, including zero.
type Interception interface {
	Invoke(target any, args []any, sig *Signature, next Invoker) (any, error)
}

// InterceptionFunc adapts a plain function to Interception.
type InterceptionFunc func(target any, args []any, sig *Signature, next Invoker) (any, error)

// Invoke calls f.
func (f InterceptionFunc) Invoke(target any, args []any, sig *Signature, next Invoker) (any, error) {
	return f(target, args, sig, next)
}

// PassThrough forwards every call to next, or returns Void when there is none.
var PassThrough Interception = InterceptionFunc(func(target any, args []any, sig *Signature, next Invoker) (any, error) {
	if next == nil {
		return proxyutils.Void, nil
	}
	return next()
})

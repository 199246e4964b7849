// Copyright (c) 2025 pk910
// SPDX-License-Identifier: Apache-2.0
// This file is part of the dynamic-proxy library.

package proxyutils

type void struct{}

func (void) String() string { return "<void>" }

// Void is returned by dispatch units for methods without results.
var Void any = void{}

// IsVoid reports whether v is the Void sentinel.
func IsVoid(v any) bool {
	_, ok := v.(void)
	return ok
}

// Tuple carries the results of methods with more than one non-error result.
type Tuple []any

// At returns the i-th element or nil when the tuple is too short.
func (t Tuple) At(i int) any {
	if i < 0 || i >= len(t) {
		return nil
	}
	return t[i]
}

// PackResults boxes a result list the way dispatch units hand them out:
// no results become Void, a single result is returned as is and anything
// longer is wrapped in a Tuple.
func PackResults(results []any) any {
	switch len(results) {
	case 0:
		return Void
	case 1:
		return results[0]
	default:
		return Tuple(results)
	}
}

// UnpackResults is the inverse of PackResults for a method with n results.
func UnpackResults(v any, n int) []any {
	switch n {
	case 0:
		return nil
	case 1:
		return []any{v}
	}

	out := make([]any, n)
	if t, ok := v.(Tuple); ok {
		copy(out, t)
	}
	return out
}

// Copyright (c) 2025 pk910
// SPDX-License-Identifier: Apache-2.0
// This file is part of the dynamic-proxy library.

package proxytypes

import (
	"encoding/binary"
	"fmt"
	"reflect"
	"strconv"
)

// universalDefault computes the identity based default of a universal
// method. Clone has no default.
func (c *Capsule) universalDefault(sig *Signature, args []any) (any, bool) {
	var res any

	switch sig.Key() {
	case SigString.Key(), SigGoString.Key():
		res = c.defaultString()
	case SigEqual.Key():
		res = len(args) == 1 && args[0] != nil && args[0] == c.self
	case SigHash.Key():
		res = c.defaultHash()
	default:
		return nil, false
	}

	return convertResult(res, sig), true
}

// defaultString renders <type>$Proxy@<unit ref>#<instance id>.
func (c *Capsule) defaultString() string {
	ref := c.unit.Ref.String()
	return fmt.Sprintf("%v$Proxy@%s#%d", c.unit.Parent, ref[:8], c.id)
}

func (c *Capsule) defaultHash() uint64 {
	ref := c.unit.Ref
	return binary.BigEndian.Uint64(ref[:8]) ^ binary.BigEndian.Uint64(ref[8:]) ^ (c.id * 0x9e3779b97f4a7c15)
}

// convertResult converts a default value to the declared result type of a
// bound signature, e.g. a Hash() method returning int. A hash declared as
// string is rendered in hex; other non-numeric results are left alone.
func convertResult(value any, sig *Signature) any {
	results := sig.ValueResults()
	if len(results) != 1 {
		return value
	}

	rv := reflect.ValueOf(value)
	rt := results[0]
	if rv.Type() == rt {
		return value
	}
	if rt.Kind() == reflect.String && rv.Kind() == reflect.Uint64 {
		return reflect.ValueOf(strconv.FormatUint(rv.Uint(), 16)).Convert(rt).Interface()
	}
	if !isNumericKind(rv.Kind()) || !isNumericKind(rt.Kind()) {
		return value
	}
	return rv.Convert(rt).Interface()
}

func isNumericKind(kind reflect.Kind) bool {
	switch kind {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}

// String answers the universal string form for parents that do not declare
// one. Interceptions registered for SigString apply.
func (c *Capsule) String() string {
	res, err := c.ProxyInvoke(SigString, nil)
	if err != nil {
		return c.defaultString()
	}
	s, _ := res.(string)
	return s
}

// GoString is the %#v form, see String.
func (c *Capsule) GoString() string {
	res, err := c.ProxyInvoke(SigGoString, nil)
	if err != nil {
		return c.defaultString()
	}
	s, _ := res.(string)
	return s
}

// Equal answers the universal equality. Without interception this is
// identity of the proxy instance.
func (c *Capsule) Equal(other any) bool {
	res, err := c.ProxyInvoke(SigEqual, []any{other})
	if err != nil {
		panic(err)
	}
	eq, _ := res.(bool)
	return eq
}

// Hash answers the universal hash.
func (c *Capsule) Hash() uint64 {
	res, err := c.ProxyInvoke(SigHash, nil)
	if err != nil {
		panic(err)
	}
	h, _ := res.(uint64)
	return h
}

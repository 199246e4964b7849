// Copyright (c) 2025 pk910
// SPDX-License-Identifier: Apache-2.0
// This file is part of the dynamic-proxy library.

package dynproxy

import (
	"reflect"

	"github.com/cockroachdb/errors"

	"github.com/pk910/dynamic-proxy/proxytypes"
	"github.com/pk910/dynamic-proxy/proxyutils"
	"github.com/pk910/dynamic-proxy/reflection"
)

// Dynamic is the instance type of runtime synthesized dispatch units. Go
// cannot declare methods at runtime, so a Dynamic does not implement the
// parent's methods itself; calls go through Call or Invoke instead.
type Dynamic struct {
	*proxytypes.Capsule
	table  *reflection.DispatchTable
	target any
}

func newDynamic(c *proxytypes.Capsule, table *reflection.DispatchTable, target any) *Dynamic {
	d := &Dynamic{
		Capsule: c,
		table:   table,
	}

	super := table.Parent().Kind() == reflect.Struct
	if proxytypes.ClassifyTarget(target) != proxytypes.TargetNone {
		d.target = target
	} else if super {
		d.target = reflect.New(table.Parent()).Interface()
	}

	c.Bind(d, d.ProxyDispatch, super)
	return d
}

// ProxyDispatch routes (owner, name, signature) to the held target.
func (d *Dynamic) ProxyDispatch(owner, name, signature string, args []any) (any, error) {
	if inner, ok := d.target.(proxytypes.Parent); ok && !d.table.Accepts(d.target) {
		sig, found := d.table.Lookup(owner, name, signature)
		if !found {
			return nil, proxyutils.NewMethodNotFoundError(owner, name, signature)
		}
		return inner.ProxyInvoke(sig, args)
	}

	return d.table.Dispatch(d.target, owner, name, signature, args)
}

// Call invokes the named method with args. The result follows the dispatch
// convention: Void, a single value or a proxyutils.Tuple.
func (d *Dynamic) Call(name string, args ...any) (any, error) {
	if sig, ok := proxytypes.FindMethodByName(d.table.Signatures(), name); ok {
		return d.ProxyInvoke(sig, args)
	}
	for _, sig := range proxytypes.UniversalMethods() {
		if sig.Name == name {
			return d.ProxyInvoke(sig, args)
		}
	}
	return nil, errors.Wrapf(proxyutils.ErrMethodNotFound, "%v has no method %s", d.table.Parent(), name)
}

// Invoke calls the method identified by sig with args.
func (d *Dynamic) Invoke(sig *proxytypes.Signature, args ...any) (any, error) {
	if own, ok := proxytypes.FindMethod(d.table.Signatures(), sig); ok {
		return d.ProxyInvoke(own, args)
	}
	if proxytypes.IsUniversalMethod(sig) {
		return d.ProxyInvoke(sig, args)
	}
	return nil, errors.Wrapf(proxyutils.ErrMethodNotFound, "%v has no method %s%s", d.table.Parent(), sig.Name, sig.ParamsDescriptor())
}

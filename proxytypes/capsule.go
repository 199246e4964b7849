// Copyright (c) 2025 pk910
// SPDX-License-Identifier: Apache-2.0
// This file is part of the dynamic-proxy library.

package proxytypes

import (
	"reflect"
	"sync/atomic"

	"github.com/cockroachdb/errors"

	"github.com/pk910/dynamic-proxy/proxyutils"
)

// ReservedMethodNames are the capsule accessors every proxy instance carries.
// A parent type declaring a method with one of these names cannot be proxied.
var ReservedMethodNames = []string{
	"ProxyTarget",
	"ProxyTargetType",
	"ProxyInterfaces",
	"ProxyInterceptions",
	"ProxyInvoke",
	"ProxyDirect",
	"ProxyDispatch",
	"ProxyUnit",
}

// Parent is implemented by every proxy instance. It exposes the capsule
// metadata of the instance, which is what makes proxies composable: a proxy
// wrapping another proxy reaches the inner layer through this interface.
type Parent interface {
	ProxyTarget() any
	ProxyTargetType() reflect.Type
	ProxyInterfaces() []reflect.Type
	ProxyInterceptions() *Table
	ProxyInvoke(sig *Signature, args []any) (any, error)
	ProxyDirect(sig *Signature) DirectCall
	ProxyDispatch(owner, name, signature string, args []any) (any, error)
}

// DispatchFunc is the single dispatch entry point of a unit instance. It
// routes (owner, name, signature) to a direct call on the held target.
type DispatchFunc func(owner, name, signature string, args []any) (any, error)

var instanceCounter atomic.Uint64

// Capsule carries the proxy metadata of one instance. Dispatch units embed
// a *Capsule; its accessors are promoted onto the instance and are never
// intercepted.
//
// A capsule is immutable once bound.
type Capsule struct {
	unit       *Unit
	target     any
	interfaces []reflect.Type
	table      *Table
	id         uint64

	self     any
	dispatch DispatchFunc
	super    bool
}

// NewCapsule creates the capsule of a new instance of unit. The table is
// frozen (copied) so later changes to the caller's table have no effect.
func NewCapsule(unit *Unit, target any, interfaces []reflect.Type, table *Table) *Capsule {
	if !table.Frozen() {
		table = table.Freeze()
	}

	ifaces := make([]reflect.Type, len(interfaces))
	copy(ifaces, interfaces)

	return &Capsule{
		unit:       unit,
		target:     target,
		interfaces: ifaces,
		table:      table,
		id:         instanceCounter.Add(1),
	}
}

// Bind attaches the capsule to the instance built around it. self is the
// instance itself, dispatch its dispatch entry point and super tells whether
// the instance embeds a parent struct that serves calls without a target.
// Dispatch unit constructors call Bind exactly once.
func (c *Capsule) Bind(self any, dispatch DispatchFunc, super bool) {
	if c.self != nil {
		panic("proxytypes: capsule bound twice")
	}
	c.self = self
	c.dispatch = dispatch
	c.super = super
}

// ProxyTarget returns the wrapped target, or nil for bare proxies.
func (c *Capsule) ProxyTarget() any {
	return c.target
}

// ProxyTargetType returns the proxied parent type.
func (c *Capsule) ProxyTargetType() reflect.Type {
	return c.unit.Parent
}

// ProxyInterfaces returns the additional interfaces the instance was built for.
func (c *Capsule) ProxyInterfaces() []reflect.Type {
	ifaces := make([]reflect.Type, len(c.interfaces))
	copy(ifaces, c.interfaces)
	return ifaces
}

// ProxyInterceptions returns the read only interception table.
func (c *Capsule) ProxyInterceptions() *Table {
	return c.table
}

// ProxyUnit returns the dispatch unit the instance was created from.
func (c *Capsule) ProxyUnit() *Unit {
	return c.unit
}

// ProxyInvoke applies the dispatch rule to an incoming call:
//
//  1. an interception registered for sig is called once, with a continuation
//     built by NewInvoker
//  2. universal methods fall back to their identity defaults
//  3. otherwise the held target (or embedded super) is called directly
//
// When none of these applies there is no implementation to call, which
// dispatch units prevent by construction.
func (c *Capsule) ProxyInvoke(sig *Signature, args []any) (any, error) {
	if entry, ok := c.table.Lookup(sig); ok {
		next := NewInvoker(c.target, sig, args, c.ProxyDirect(sig))
		return entry.Interception.Invoke(c.target, args, sig, next)
	}

	if IsUniversalMethod(sig) {
		if res, ok := c.universalDefault(sig, args); ok {
			return res, nil
		}
	}

	if c.reachable() {
		return c.directCall(sig, args)
	}

	return nil, errors.Wrapf(proxyutils.ErrNoImplementation, "%v on %s", sig, c.defaultString())
}

// ProxyDirect returns the raw call of sig on this layer's implementation,
// or nil if the layer has none. Universal methods without implementation
// resolve to their defaults.
func (c *Capsule) ProxyDirect(sig *Signature) DirectCall {
	if c.reachable() {
		return c.directCall
	}

	if IsUniversalMethod(sig) {
		if _, ok := c.universalDefault(sig, nil); ok {
			return func(sig *Signature, args []any) (any, error) {
				res, _ := c.universalDefault(sig, args)
				return res, nil
			}
		}
	}

	return nil
}

func (c *Capsule) reachable() bool {
	return c.super || ClassifyTarget(c.target) != TargetNone
}

func (c *Capsule) directCall(sig *Signature, args []any) (any, error) {
	if c.dispatch == nil {
		return nil, errors.Wrapf(proxyutils.ErrNoImplementation, "capsule of %v is not bound", c.unit.Parent)
	}

	own := sig
	if resolved, ok := c.unit.Resolve(sig); ok {
		own = resolved
	}

	return c.dispatch(own.OwnerDescriptor(), own.Name, own.Descriptor(), args)
}

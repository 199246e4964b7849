// Copyright (c) 2025 pk910
// SPDX-License-Identifier: Apache-2.0
// This file is part of the dynamic-proxy library.

package dynproxy

import (
	"reflect"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"

	"github.com/pk910/dynamic-proxy/proxytypes"
	"github.com/pk910/dynamic-proxy/proxyutils"
)

// Builder collects the interceptions, target and exposed interfaces of a
// proxy. Registration methods return the builder for chaining; the first
// registration error is kept and returned by Build.
//
// A builder is not safe for concurrent use.
type Builder struct {
	dp         *DynProxy
	parent     reflect.Type
	candidates []*proxytypes.Signature
	config     builderConfig
	table      *proxytypes.Table
	target     any
	interfaces []reflect.Type
	err        error
}

// Parent returns the validated parent type.
func (b *Builder) Parent() reflect.Type {
	return b.parent
}

// Methods returns the proxyable methods of the parent.
func (b *Builder) Methods() []*proxytypes.Signature {
	return append([]*proxytypes.Signature(nil), b.candidates...)
}

// Interceptions returns a copy of the table registered so far.
func (b *Builder) Interceptions() *proxytypes.Table {
	return b.table.Clone()
}

func (b *Builder) fail(err error) *Builder {
	if b.err == nil {
		b.err = err
	}
	return b
}

// resolve maps sig to the parent's own method signature. Universal methods
// are accepted even when the parent does not declare them.
func (b *Builder) resolve(sig *proxytypes.Signature) (*proxytypes.Signature, bool) {
	if candidate, ok := proxytypes.FindMethod(b.candidates, sig); ok {
		return candidate, true
	}
	if proxytypes.IsUniversalMethod(sig) {
		return sig, true
	}
	return nil, false
}

// ProxyMethod routes calls of sig to interception. A later registration for
// an equal signature replaces an earlier one.
func (b *Builder) ProxyMethod(sig *proxytypes.Signature, interception proxytypes.Interception) *Builder {
	if sig == nil || interception == nil {
		return b.fail(errors.New("ProxyMethod requires a signature and an interception"))
	}

	resolved, ok := b.resolve(sig)
	if !ok {
		return b.fail(errors.WithHint(
			errors.Wrapf(proxyutils.ErrMethodNotFound, "%v has no method %s%s", b.parent, sig.Name, sig.ParamsDescriptor()),
			"use Builder.Methods to list the proxyable methods",
		))
	}

	b.table.Put(resolved, interception)
	return b
}

// ProxyMethodByName is like ProxyMethod, addressing the method by name.
func (b *Builder) ProxyMethodByName(name string, interception proxytypes.Interception) *Builder {
	if sig, ok := proxytypes.FindMethodByName(b.candidates, name); ok {
		return b.ProxyMethod(sig, interception)
	}
	for _, sig := range proxytypes.UniversalMethods() {
		if sig.Name == name {
			return b.ProxyMethod(sig, interception)
		}
	}
	return b.fail(errors.Wrapf(proxyutils.ErrMethodNotFound, "%v has no method %s", b.parent, name))
}

// FilterMethod registers selector(sig) for every proxyable method for which
// the selector returns a non-nil interception.
func (b *Builder) FilterMethod(selector func(sig *proxytypes.Signature) proxytypes.Interception) *Builder {
	for _, sig := range b.candidates {
		if interception := selector(sig); interception != nil {
			b.table.Put(sig, interception)
		}
	}
	return b
}

// FilterExpr registers interception for every proxyable method matching a
// selector expression (see proxytypes.Selector).
func (b *Builder) FilterExpr(expr string, interception proxytypes.Interception) *Builder {
	selector, err := proxytypes.CompileSelector(expr)
	if err != nil {
		return b.fail(err)
	}

	for _, sig := range b.candidates {
		matched, err := selector.Match(sig)
		if err != nil {
			return b.fail(err)
		}
		if matched {
			b.table.Put(sig, interception)
		}
	}
	return b
}

// InterceptAll registers interception for every proxyable method.
func (b *Builder) InterceptAll(interception proxytypes.Interception) *Builder {
	return b.FilterMethod(func(*proxytypes.Signature) proxytypes.Interception {
		return interception
	})
}

// Target sets the object the proxy wraps.
func (b *Builder) Target(target any) *Builder {
	b.target = target
	return b
}

// Interfaces adds interface types the built instance must implement.
func (b *Builder) Interfaces(types ...reflect.Type) *Builder {
	for _, t := range types {
		if t == nil || t.Kind() != reflect.Interface {
			return b.fail(errors.Wrapf(proxyutils.ErrNotAnInterface, "%v", t))
		}
		b.interfaces = append(b.interfaces, t)
	}
	return b
}

// Build resolves the dispatch unit and creates a new proxy instance.
// Every call returns a fresh instance; instances never share their
// interception table with the builder or with each other.
func (b *Builder) Build() (any, error) {
	if b.err != nil {
		return nil, b.err
	}

	layered, err := checkTarget(b.parent, b.target)
	if err != nil {
		return nil, err
	}

	cfg := b.config
	if layered && !reflect.TypeOf(b.target).AssignableTo(targetFieldType(b.parent)) {
		// only the runtime backend can hold a foreign proxy as target
		cfg.backend = proxytypes.BackendRuntime
	}

	table := b.table.Freeze()
	unit, err := b.dp.resolveUnit(b.parent, b.candidates, table.Mapping(), cfg)
	if err != nil {
		return nil, err
	}

	capsule := proxytypes.NewCapsule(unit, b.target, b.interfaces, table)
	instance := unit.New(capsule, b.target)

	instanceType := reflect.TypeOf(instance)
	for _, iface := range b.interfaces {
		if !instanceType.Implements(iface) {
			return nil, errors.Wrapf(proxyutils.ErrInterfaceMismatch, "%v does not implement %v", unit.Name, iface)
		}
	}

	b.dp.logger.Debug("built proxy",
		zap.String("unit", unit.Name),
		zap.String("parent", b.parent.String()),
		zap.Int("interceptions", table.Len()),
		zap.Bool("target", b.target != nil),
		zap.Bool("layered", layered),
	)

	return instance, nil
}

func targetFieldType(parent reflect.Type) reflect.Type {
	if parent.Kind() == reflect.Struct {
		return reflect.PointerTo(parent)
	}
	return parent
}

// BuildAs builds the proxy and returns it as T.
func BuildAs[T any](b *Builder) (T, error) {
	var zero T

	instance, err := b.Build()
	if err != nil {
		return zero, err
	}

	typed, ok := instance.(T)
	if !ok {
		return zero, errors.Wrapf(proxyutils.ErrInterfaceMismatch, "%T is not %v", instance, reflect.TypeOf((*T)(nil)).Elem())
	}
	return typed, nil
}

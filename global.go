// Copyright (c) 2025 pk910
// SPDX-License-Identifier: Apache-2.0
// This file is part of the dynamic-proxy library.

package dynproxy

import (
	"reflect"
	"sync"

	"github.com/cockroachdb/errors"

	"github.com/pk910/dynamic-proxy/proxytypes"
	"github.com/pk910/dynamic-proxy/proxyutils"
)

var (
	globalMutex    sync.Mutex
	globalDynProxy *DynProxy
)

func GetGlobalDynProxy() *DynProxy {
	globalMutex.Lock()
	defer globalMutex.Unlock()

	if globalDynProxy == nil {
		globalDynProxy = NewDynProxy()
	}
	return globalDynProxy
}

func SetGlobalDynProxy(opts ...DynProxyOption) {
	globalMutex.Lock()
	defer globalMutex.Unlock()

	globalDynProxy = NewDynProxy(opts...)
}

// CreateBuilder creates a builder on the global client.
func CreateBuilder(parent reflect.Type, opts ...BuilderOption) (*Builder, error) {
	return GetGlobalDynProxy().CreateBuilder(parent, opts...)
}

// CreateBuilderFor creates a builder for the parent type T on the global client.
func CreateBuilderFor[T any](opts ...BuilderOption) (*Builder, error) {
	return GetGlobalDynProxy().CreateBuilder(typeOf[T](), opts...)
}

// Create builds a bare proxy of parent on the global client.
func Create(parent reflect.Type, interception proxytypes.Interception) (any, error) {
	return GetGlobalDynProxy().Create(parent, interception)
}

// CreateWithTable builds a bare proxy of parent on the global client.
func CreateWithTable(parent reflect.Type, table map[*proxytypes.Signature]proxytypes.Interception) (any, error) {
	return GetGlobalDynProxy().CreateWithTable(parent, table)
}

// Wrap builds a proxy of parent around target on the global client.
func Wrap(parent reflect.Type, target any, interception proxytypes.Interception) (any, error) {
	return GetGlobalDynProxy().Wrap(parent, target, interception)
}

// CreateAs builds a bare proxy of T routing every method to interception.
// T must have a generated dispatch unit, runtime units do not implement T.
func CreateAs[T any](interception proxytypes.Interception) (T, error) {
	var zero T

	instance, err := Create(typeOf[T](), interception)
	if err != nil {
		return zero, err
	}

	typed, ok := instance.(T)
	if !ok {
		return zero, errors.WithHint(
			errors.Wrapf(proxyutils.ErrInterfaceMismatch, "%T is not %v", instance, typeOf[T]()),
			"generate the proxy code with dynproxy-gen",
		)
	}
	return typed, nil
}

func typeOf[T any]() reflect.Type {
	return reflect.TypeOf((*T)(nil)).Elem()
}

// Copyright (c) 2025 pk910
// SPDX-License-Identifier: Apache-2.0
// This file is part of the dynamic-proxy library.

package proxytypes

import (
	"reflect"
	"sort"
	"sync"

	"github.com/cockroachdb/errors"

	"github.com/pk910/dynamic-proxy/proxyutils"
)

// TypeRegistry maps qualified type names back to their reflect.Type. It is
// the lookup side of the descriptor codec: a named type can only be decoded
// when it was registered (explicitly or by being described).
type TypeRegistry struct {
	mutex sync.RWMutex
	types map[string]reflect.Type
}

// DefaultRegistry is consulted by Decode and fed by Describe.
var DefaultRegistry = NewTypeRegistry()

// NewTypeRegistry creates a registry that knows the predeclared error type.
func NewTypeRegistry() *TypeRegistry {
	r := &TypeRegistry{
		types: map[string]reflect.Type{},
	}
	r.types["error"] = errorType
	return r
}

// Register adds named types to the registry. Registering the same type twice
// is a no-op; registering a different type under an already used name fails.
func (r *TypeRegistry) Register(types ...reflect.Type) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	for _, t := range types {
		if t == nil || t.Name() == "" {
			return errors.Wrapf(proxyutils.ErrUnsupportedType, "cannot register unnamed type %v", t)
		}

		name := qualifiedName(t)
		if existing, ok := r.types[name]; ok && existing != t {
			return errors.Newf("type name %s already registered for a different type", name)
		}
		r.types[name] = t
	}

	return nil
}

// Lookup returns the type registered for a qualified name.
func (r *TypeRegistry) Lookup(name string) (reflect.Type, bool) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	t, ok := r.types[name]
	return t, ok
}

// Names returns all registered names in sorted order.
func (r *TypeRegistry) Names() []string {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	names := make([]string, 0, len(r.types))
	for name := range r.types {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// remember registers t under its qualified name. Two distinct types sharing
// a name (e.g. declared in different function bodies) cannot be told apart
// by their descriptor, so the second one is rejected.
func (r *TypeRegistry) remember(t reflect.Type) error {
	name := qualifiedName(t)

	r.mutex.RLock()
	existing, exists := r.types[name]
	r.mutex.RUnlock()
	if !exists {
		r.mutex.Lock()
		if existing, exists = r.types[name]; !exists {
			r.types[name] = t
			existing = t
		}
		r.mutex.Unlock()
	}

	if existing != t {
		return errors.Wrapf(proxyutils.ErrUnsupportedType, "type name %s is shared by %v and another type", name, t)
	}
	return nil
}

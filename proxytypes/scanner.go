// Copyright (c) 2025 pk910
// SPDX-License-Identifier: Apache-2.0
// This file is part of the dynamic-proxy library.

package proxytypes

import (
	"reflect"
)

// MethodFilter reports whether a method should be left out of a candidate list.
type MethodFilter func(sig *Signature) bool

// ListMethods enumerates the proxyable methods of t: the methods of an
// interface type, or the pointer method set of a struct type. Unexported
// methods and methods whose types have no descriptor are skipped, as is any
// method rejected by one of the excludes. Methods are returned in reflect
// order (sorted by name).
//
// Pointer-to-struct types are normalized to the struct type, which also
// becomes the owner of all returned signatures.
func ListMethods(t reflect.Type, excludes ...MethodFilter) []*Signature {
	if t.Kind() == reflect.Pointer && t.Elem().Kind() == reflect.Struct {
		t = t.Elem()
	}

	mt := methodSetType(t)
	methods := make([]*Signature, 0, mt.NumMethod())

methodLoop:
	for i := 0; i < mt.NumMethod(); i++ {
		m := mt.Method(i)
		if m.PkgPath != "" {
			continue
		}

		sig, err := SignatureOf(t, m)
		if err != nil {
			continue
		}

		for _, exclude := range excludes {
			if exclude(sig) {
				continue methodLoop
			}
		}

		methods = append(methods, sig)
	}

	return methods
}

// FindMethod returns the candidate equal to sig.
func FindMethod(candidates []*Signature, sig *Signature) (*Signature, bool) {
	for _, candidate := range candidates {
		if candidate.Equal(sig) {
			return candidate, true
		}
	}
	return nil, false
}

// FindMethodByName returns the candidate with the given name.
func FindMethodByName(candidates []*Signature, name string) (*Signature, bool) {
	for _, candidate := range candidates {
		if candidate.Name == name {
			return candidate, true
		}
	}
	return nil, false
}

// Copyright (c) 2025 pk910
// SPDX-License-Identifier: Apache-2.0
// This file is part of the dynamic-proxy library.

package dynproxy

import (
	"go/token"
	"reflect"

	"github.com/cockroachdb/errors"

	"github.com/pk910/dynamic-proxy/proxytypes"
	"github.com/pk910/dynamic-proxy/proxyutils"
)

// validateParent checks that t can be proxied and returns its normalized form.
func validateParent(t reflect.Type) (reflect.Type, error) {
	if t == nil {
		return nil, errors.Wrap(proxyutils.ErrParentNotConstructible, "nil parent type")
	}
	if t.Kind() == reflect.Pointer && t.Elem().Kind() == reflect.Struct {
		t = t.Elem()
	}

	if t.Name() == "" || t.PkgPath() == "" || !token.IsExported(t.Name()) {
		return nil, errors.WithHint(
			errors.Wrapf(proxyutils.ErrParentNotPublic, "%v", t),
			"proxy parents must be exported named types declared in a package",
		)
	}

	methodSet := t
	switch t.Kind() {
	case reflect.Interface:
	case reflect.Struct:
		methodSet = reflect.PointerTo(t)
	default:
		return nil, errors.WithHint(
			errors.Wrapf(proxyutils.ErrParentNotConstructible, "%v is a %v", t, t.Kind()),
			"proxy parents must be interface or struct types",
		)
	}

	for _, name := range proxytypes.ReservedMethodNames {
		if _, ok := methodSet.MethodByName(name); ok {
			return nil, errors.Wrapf(proxyutils.ErrReservedMethod, "%v declares %s", t, name)
		}
	}

	return t, nil
}

// checkTarget validates a target object for parent. Valid targets implement
// the parent interface, are pointers to the parent struct, or are proxies of
// the same parent (layering). layered reports the last case.
func checkTarget(parent reflect.Type, target any) (layered bool, err error) {
	if target == nil {
		return false, nil
	}

	targetType := reflect.TypeOf(target)
	switch {
	case parent.Kind() == reflect.Interface && targetType.Implements(parent):
		return false, nil
	case parent.Kind() == reflect.Struct && targetType == reflect.PointerTo(parent):
		return false, nil
	}

	if inner, ok := target.(proxytypes.Parent); ok && inner.ProxyTargetType() == parent {
		return true, nil
	}

	if parent.Kind() == reflect.Struct {
		return false, errors.Wrapf(proxyutils.ErrTargetMismatch, "%T is not *%v", target, parent)
	}
	return false, errors.Wrapf(proxyutils.ErrTargetMismatch, "%T does not implement %v", target, parent)
}

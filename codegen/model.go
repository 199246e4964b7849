// Copyright (c) 2025 pk910
// SPDX-License-Identifier: Apache-2.0
// This file is part of the dynamic-proxy library.

package codegen

import (
	"reflect"
	"unicode"
	"unicode/utf8"

	"github.com/cockroachdb/errors"
	"github.com/dave/jennifer/jen"

	"github.com/pk910/dynamic-proxy/proxytypes"
	"github.com/pk910/dynamic-proxy/proxyutils"
)

// ProxyModel is the input of the emitter: one parent type and the methods
// its dispatch unit branches on.
type ProxyModel struct {
	PkgPath     string
	PkgName     string
	TypeName    string
	IsInterface bool
	UnitName    string
	ProxyName   string
	OwnerDesc   string
	Methods     []*MethodModel
}

// MethodModel is one proxied method.
type MethodModel struct {
	Name         string
	Params       []jen.Code
	VariadicElem jen.Code
	Results      []jen.Code
	Variadic     bool
	ReturnsError bool
	Descriptor   string
}

// ValueResults returns the number of results without a trailing error.
func (m *MethodModel) ValueResults() int {
	if m.ReturnsError {
		return len(m.Results) - 1
	}
	return len(m.Results)
}

func newProxyModel(pkgPath, pkgName, typeName string, isInterface bool, unitName string) *ProxyModel {
	if unitName == "" {
		unitName = pkgPath + "." + typeName + "$Proxy"
	}
	return &ProxyModel{
		PkgPath:     pkgPath,
		PkgName:     pkgName,
		TypeName:    typeName,
		IsInterface: isInterface,
		UnitName:    unitName,
		ProxyName:   lowerFirst(typeName) + "Proxy",
		OwnerDesc:   "L" + pkgPath + "." + typeName + ";",
	}
}

// modelFromReflect builds the model of a parent type known at runtime.
// excludes only apply to struct parents.
func modelFromReflect(t reflect.Type, unitName string, excludes []*proxytypes.Selector) (*ProxyModel, error) {
	if t.Kind() == reflect.Pointer && t.Elem().Kind() == reflect.Struct {
		t = t.Elem()
	}
	if t.Name() == "" || t.PkgPath() == "" {
		return nil, errors.Wrapf(proxyutils.ErrParentNotPublic, "%v", t)
	}
	if t.PkgPath() == "main" {
		return nil, errors.WithHint(
			errors.Wrapf(proxyutils.ErrParentNotPublic, "%v is declared in package main", t),
			"move the type into an importable package",
		)
	}
	if t.Kind() != reflect.Interface && t.Kind() != reflect.Struct {
		return nil, errors.Wrapf(proxyutils.ErrParentNotConstructible, "%v is a %v", t, t.Kind())
	}
	if t.Kind() == reflect.Interface && len(excludes) > 0 {
		return nil, errors.Newf("%v: methods of interface parents cannot be excluded", t)
	}

	if err := checkReservedReflect(t); err != nil {
		return nil, err
	}

	filters := make([]proxytypes.MethodFilter, len(excludes))
	for i, exclude := range excludes {
		filters[i] = exclude.Filter()
	}

	// the package name is not known to reflect, jen guesses it from the path
	model := newProxyModel(t.PkgPath(), "", t.Name(), t.Kind() == reflect.Interface, unitName)

	if t.Kind() == reflect.Interface {
		for i := 0; i < t.NumMethod(); i++ {
			if m := t.Method(i); m.PkgPath != "" {
				return nil, errors.Newf("%v has unexported method %s", t, m.Name)
			}
		}
	}

	for _, sig := range proxytypes.ListMethods(t, filters...) {
		method, err := methodFromSignature(sig)
		if err != nil {
			return nil, errors.Wrapf(err, "%v.%s", t, sig.Name)
		}
		model.Methods = append(model.Methods, method)
	}

	return model, nil
}

func methodFromSignature(sig *proxytypes.Signature) (*MethodModel, error) {
	method := &MethodModel{
		Name:         sig.Name,
		Variadic:     sig.Variadic,
		ReturnsError: sig.ReturnsError(),
		Descriptor:   sig.Descriptor(),
	}

	for i, param := range sig.Params {
		code, err := reflectTypeCode(param)
		if err != nil {
			return nil, err
		}
		method.Params = append(method.Params, code)

		if sig.Variadic && i == len(sig.Params)-1 {
			elem, err := reflectTypeCode(param.Elem())
			if err != nil {
				return nil, err
			}
			method.VariadicElem = elem
		}
	}

	for _, result := range sig.Results {
		code, err := reflectTypeCode(result)
		if err != nil {
			return nil, err
		}
		method.Results = append(method.Results, code)
	}

	return method, nil
}

func checkReservedReflect(t reflect.Type) error {
	methodSet := t
	if t.Kind() == reflect.Struct {
		methodSet = reflect.PointerTo(t)
	}
	for _, name := range proxytypes.ReservedMethodNames {
		if _, ok := methodSet.MethodByName(name); ok {
			return errors.Wrapf(proxyutils.ErrReservedMethod, "%v declares %s", t, name)
		}
	}
	return nil
}

func lowerFirst(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToLower(r)) + s[size:]
}

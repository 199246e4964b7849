// Copyright (c) 2025 pk910
// SPDX-License-Identifier: Apache-2.0
// This file is part of the dynamic-proxy library.

package codegen

import (
	"go/types"
	"reflect"

	"github.com/cockroachdb/errors"
	"github.com/dave/jennifer/jen"

	"github.com/pk910/dynamic-proxy/proxyutils"
)

var errorType = reflect.TypeOf((*error)(nil)).Elem()

// reflectTypeCode renders a reflect.Type as jennifer code. Package
// qualification and import aliases are left to jen.File.
func reflectTypeCode(t reflect.Type) (*jen.Statement, error) {
	if t == errorType {
		return jen.Error(), nil
	}

	if t.Name() != "" {
		if t.PkgPath() == "" {
			return jen.Id(t.Name()), nil
		}
		return jen.Qual(t.PkgPath(), t.Name()), nil
	}

	switch t.Kind() {
	case reflect.Pointer:
		elem, err := reflectTypeCode(t.Elem())
		if err != nil {
			return nil, err
		}
		return jen.Op("*").Add(elem), nil

	case reflect.Slice:
		elem, err := reflectTypeCode(t.Elem())
		if err != nil {
			return nil, err
		}
		return jen.Index().Add(elem), nil

	case reflect.Array:
		elem, err := reflectTypeCode(t.Elem())
		if err != nil {
			return nil, err
		}
		return jen.Index(jen.Lit(t.Len())).Add(elem), nil

	case reflect.Map:
		key, err := reflectTypeCode(t.Key())
		if err != nil {
			return nil, err
		}
		elem, err := reflectTypeCode(t.Elem())
		if err != nil {
			return nil, err
		}
		return jen.Map(key).Add(elem), nil

	case reflect.Chan:
		elem, err := reflectTypeCode(t.Elem())
		if err != nil {
			return nil, err
		}
		switch t.ChanDir() {
		case reflect.RecvDir:
			return jen.Op("<-").Chan().Add(elem), nil
		case reflect.SendDir:
			return jen.Chan().Op("<-").Add(elem), nil
		default:
			return jen.Chan().Add(elem), nil
		}

	case reflect.Func:
		params := make([]jen.Code, t.NumIn())
		for i := range params {
			in := t.In(i)
			if t.IsVariadic() && i == t.NumIn()-1 {
				elem, err := reflectTypeCode(in.Elem())
				if err != nil {
					return nil, err
				}
				params[i] = jen.Op("...").Add(elem)
				continue
			}
			code, err := reflectTypeCode(in)
			if err != nil {
				return nil, err
			}
			params[i] = code
		}
		results := make([]jen.Code, t.NumOut())
		for i := range results {
			code, err := reflectTypeCode(t.Out(i))
			if err != nil {
				return nil, err
			}
			results[i] = code
		}
		return funcTypeCode(params, results), nil

	case reflect.Interface:
		if t.NumMethod() == 0 {
			return jen.Id("any"), nil
		}
	}

	return nil, errors.Wrapf(proxyutils.ErrUnsupportedType, "cannot render %v", t)
}

// goTypeCode renders a go/types type as jennifer code. Aliases keep their
// name in the generated source.
func goTypeCode(t types.Type) (*jen.Statement, error) {
	switch tt := t.(type) {
	case *types.Alias:
		obj := tt.Obj()
		if obj.Pkg() == nil {
			return jen.Id(obj.Name()), nil
		}
		return jen.Qual(obj.Pkg().Path(), obj.Name()), nil

	case *types.Basic:
		if tt.Kind() == types.UnsafePointer {
			return jen.Qual("unsafe", "Pointer"), nil
		}
		return jen.Id(tt.Name()), nil

	case *types.Named:
		obj := tt.Obj()
		if tt.TypeArgs().Len() > 0 {
			return nil, errors.Wrapf(proxyutils.ErrUnsupportedType, "generic type %v", t)
		}
		if obj.Pkg() == nil {
			return jen.Id(obj.Name()), nil
		}
		return jen.Qual(obj.Pkg().Path(), obj.Name()), nil

	case *types.Pointer:
		elem, err := goTypeCode(tt.Elem())
		if err != nil {
			return nil, err
		}
		return jen.Op("*").Add(elem), nil

	case *types.Slice:
		elem, err := goTypeCode(tt.Elem())
		if err != nil {
			return nil, err
		}
		return jen.Index().Add(elem), nil

	case *types.Array:
		elem, err := goTypeCode(tt.Elem())
		if err != nil {
			return nil, err
		}
		return jen.Index(jen.Lit(int(tt.Len()))).Add(elem), nil

	case *types.Map:
		key, err := goTypeCode(tt.Key())
		if err != nil {
			return nil, err
		}
		elem, err := goTypeCode(tt.Elem())
		if err != nil {
			return nil, err
		}
		return jen.Map(key).Add(elem), nil

	case *types.Chan:
		elem, err := goTypeCode(tt.Elem())
		if err != nil {
			return nil, err
		}
		switch tt.Dir() {
		case types.RecvOnly:
			return jen.Op("<-").Chan().Add(elem), nil
		case types.SendOnly:
			return jen.Chan().Op("<-").Add(elem), nil
		default:
			return jen.Chan().Add(elem), nil
		}

	case *types.Signature:
		params := make([]jen.Code, tt.Params().Len())
		for i := range params {
			ptype := tt.Params().At(i).Type()
			if tt.Variadic() && i == len(params)-1 {
				elem, err := goTypeCode(ptype.(*types.Slice).Elem())
				if err != nil {
					return nil, err
				}
				params[i] = jen.Op("...").Add(elem)
				continue
			}
			code, err := goTypeCode(ptype)
			if err != nil {
				return nil, err
			}
			params[i] = code
		}
		results := make([]jen.Code, tt.Results().Len())
		for i := range results {
			code, err := goTypeCode(tt.Results().At(i).Type())
			if err != nil {
				return nil, err
			}
			results[i] = code
		}
		return funcTypeCode(params, results), nil

	case *types.Interface:
		if tt.Empty() {
			return jen.Id("any"), nil
		}
	}

	return nil, errors.Wrapf(proxyutils.ErrUnsupportedType, "cannot render %v", t)
}

func funcTypeCode(params, results []jen.Code) *jen.Statement {
	fn := jen.Func().Params(params...)
	switch len(results) {
	case 0:
		return fn
	case 1:
		return fn.Add(results[0])
	default:
		return fn.Parens(jen.List(results...))
	}
}

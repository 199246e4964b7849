// Copyright (c) 2025 pk910
// SPDX-License-Identifier: Apache-2.0
// This file is part of the dynamic-proxy library.

package codegen

import (
	"fmt"

	"github.com/dave/jennifer/jen"
)

const (
	proxyPkgPath   = "github.com/pk910/dynamic-proxy"
	proxytypesPath = proxyPkgPath + "/proxytypes"
	proxyutilsPath = proxyPkgPath + "/proxyutils"
)

// newFile creates the generated file for a package. pkgName may be empty,
// jen then derives it from the path.
func newFile(pkgPath, pkgName string) *jen.File {
	var f *jen.File
	if pkgName != "" {
		f = jen.NewFilePathName(pkgPath, pkgName)
	} else {
		f = jen.NewFilePath(pkgPath)
	}

	f.HeaderComment("Code generated by dynproxy-gen. DO NOT EDIT.")
	f.HeaderComment("version: " + Version)
	f.ImportName(proxyPkgPath, "dynproxy")
	f.ImportName(proxytypesPath, "proxytypes")
	f.ImportName(proxyutilsPath, "proxyutils")
	return f
}

// emitter renders the dispatch unit of one parent type.
type emitter struct {
	model *ProxyModel
}

func (e *emitter) typeVar() string {
	return e.model.ProxyName + "Type"
}

func (e *emitter) sigVar(m *MethodModel) string {
	return e.model.ProxyName + "Sig" + m.Name
}

func (e *emitter) parentCode() *jen.Statement {
	return jen.Qual(e.model.PkgPath, e.model.TypeName)
}

func (e *emitter) targetCode() *jen.Statement {
	if e.model.IsInterface {
		return e.parentCode()
	}
	return jen.Op("*").Add(e.parentCode())
}

func (e *emitter) emit(f *jen.File) {
	e.emitVars(f)
	e.emitStruct(f)
	e.emitConstructor(f)
	for _, m := range e.model.Methods {
		e.emitMethod(f, m)
	}
	e.emitDispatch(f)
	e.emitRegistration(f)
}

func (e *emitter) emitVars(f *jen.File) {
	f.Var().DefsFunc(func(g *jen.Group) {
		g.Id(e.typeVar()).Op("=").Qual("reflect", "TypeOf").Call(
			jen.Parens(jen.Op("*").Add(e.parentCode())).Parens(jen.Nil()),
		).Dot("Elem").Call()

		for _, m := range e.model.Methods {
			g.Id(e.sigVar(m)).Op("=").Qual(proxytypesPath, "MustSignature").Call(jen.Id(e.typeVar()), jen.Lit(m.Name))
		}
	})
	f.Line()
}

func (e *emitter) emitStruct(f *jen.File) {
	f.Type().Id(e.model.ProxyName).StructFunc(func(g *jen.Group) {
		g.Op("*").Qual(proxytypesPath, "Capsule")
		if !e.model.IsInterface {
			g.Add(e.parentCode())
		}
		g.Id("target").Add(e.targetCode())
	})
	f.Line()
}

func (e *emitter) emitConstructor(f *jen.File) {
	name := "new" + e.model.TypeName + "Proxy"

	f.Func().Id(name).Params(
		jen.Id("c").Op("*").Qual(proxytypesPath, "Capsule"),
		jen.Id("target").Id("any"),
	).Qual(proxytypesPath, "Parent").BlockFunc(func(g *jen.Group) {
		g.Id("p").Op(":=").Op("&").Id(e.model.ProxyName).Values(jen.Dict{
			jen.Id("Capsule"): jen.Id("c"),
		})

		if e.model.IsInterface {
			g.If(
				jen.Qual(proxytypesPath, "ClassifyTarget").Call(jen.Id("target")).Op("!=").Qual(proxytypesPath, "TargetNone"),
			).Block(
				jen.List(jen.Id("p").Dot("target"), jen.Id("_")).Op("=").Id("target").Assert(e.targetCode()),
			)
			g.Id("c").Dot("Bind").Call(jen.Id("p"), jen.Id("p").Dot("ProxyDispatch"), jen.False())
		} else {
			g.If(
				jen.List(jen.Id("t"), jen.Id("ok")).Op(":=").Id("target").Assert(e.targetCode()),
				jen.Id("ok").Op("&&").Id("t").Op("!=").Nil(),
			).Block(
				jen.Id("p").Dot("target").Op("=").Id("t"),
			).Else().Block(
				jen.Id("p").Dot("target").Op("=").Op("&").Id("p").Dot(e.model.TypeName),
			)
			g.Id("c").Dot("Bind").Call(jen.Id("p"), jen.Id("p").Dot("ProxyDispatch"), jen.True())
		}

		g.Return(jen.Id("p"))
	})
	f.Line()
}

func argName(i int) string {
	return fmt.Sprintf("a%d", i)
}

func resultName(i int) string {
	return fmt.Sprintf("r%d", i)
}

func resultsCode(results []jen.Code) *jen.Statement {
	switch len(results) {
	case 0:
		return jen.Null()
	case 1:
		return jen.Add(results[0])
	default:
		return jen.Parens(jen.List(results...))
	}
}

func (e *emitter) emitMethod(f *jen.File, m *MethodModel) {
	params := make([]jen.Code, len(m.Params))
	args := make([]jen.Code, len(m.Params))
	for i, param := range m.Params {
		if m.Variadic && i == len(m.Params)-1 {
			params[i] = jen.Id(argName(i)).Op("...").Add(m.VariadicElem)
		} else {
			params[i] = jen.Id(argName(i)).Add(param)
		}
		args[i] = jen.Id(argName(i))
	}

	invoke := jen.Id("p").Dot("ProxyInvoke").Call(
		jen.Id(e.sigVar(m)),
		jen.Index().Id("any").Values(args...),
	)

	values := m.ValueResults()

	f.Func().Params(jen.Id("p").Op("*").Id(e.model.ProxyName)).Id(m.Name).Params(params...).Add(resultsCode(m.Results)).BlockFunc(func(g *jen.Group) {
		switch {
		case values == 0 && !m.ReturnsError:
			g.If(
				jen.List(jen.Id("_"), jen.Err()).Op(":=").Add(invoke),
				jen.Err().Op("!=").Nil(),
			).Block(jen.Panic(jen.Err()))
			return

		case values == 0:
			g.List(jen.Id("_"), jen.Err()).Op(":=").Add(invoke)
			g.Return(jen.Err())
			return
		}

		g.List(jen.Id("res"), jen.Err()).Op(":=").Add(invoke)
		if !m.ReturnsError {
			g.If(jen.Err().Op("!=").Nil()).Block(jen.Panic(jen.Err()))
		}

		returns := make([]jen.Code, 0, len(m.Results))
		if values == 1 {
			g.List(jen.Id(resultName(0)), jen.Id("_")).Op(":=").Id("res").Assert(m.Results[0])
			returns = append(returns, jen.Id(resultName(0)))
		} else {
			g.List(jen.Id("tuple"), jen.Id("_")).Op(":=").Id("res").Assert(jen.Qual(proxyutilsPath, "Tuple"))
			for i := 0; i < values; i++ {
				g.List(jen.Id(resultName(i)), jen.Id("_")).Op(":=").Id("tuple").Dot("At").Call(jen.Lit(i)).Assert(m.Results[i])
				returns = append(returns, jen.Id(resultName(i)))
			}
		}
		if m.ReturnsError {
			returns = append(returns, jen.Err())
		}
		g.Return(returns...)
	})
	f.Line()
}

func (e *emitter) emitDispatch(f *jen.File) {
	f.Comment("ProxyDispatch routes (owner, name, signature) to a direct call on the target.")
	f.Func().Params(jen.Id("p").Op("*").Id(e.model.ProxyName)).Id("ProxyDispatch").Params(
		jen.List(jen.Id("owner"), jen.Id("name"), jen.Id("signature")).String(),
		jen.Id("args").Index().Id("any"),
	).Params(jen.Id("any"), jen.Error()).BlockFunc(func(g *jen.Group) {
		if e.model.IsInterface {
			g.If(jen.Id("p").Dot("target").Op("==").Nil()).Block(
				jen.Return(jen.Nil(), jen.Qual(proxyutilsPath, "NewNoImplementationError").Call(jen.Id("owner"), jen.Id("name"), jen.Id("signature"))),
			)
		}

		for _, m := range e.model.Methods {
			g.If(
				jen.Id("owner").Op("==").Lit(e.model.OwnerDesc).Op("&&").
					Id("name").Op("==").Lit(m.Name).Op("&&").
					Id("signature").Op("==").Lit(m.Descriptor),
			).BlockFunc(func(b *jen.Group) {
				e.emitBranch(b, m)
			})
		}

		g.Return(jen.Nil(), jen.Qual(proxyutilsPath, "NewMethodNotFoundError").Call(jen.Id("owner"), jen.Id("name"), jen.Id("signature")))
	})
	f.Line()
}

func (e *emitter) emitBranch(g *jen.Group, m *MethodModel) {
	g.If(jen.Len(jen.Id("args")).Op("!=").Lit(len(m.Params))).Block(
		jen.Return(jen.Nil(), jen.Qual(proxyutilsPath, "NewArgumentCountError").Call(
			jen.Id("owner"), jen.Id("name"), jen.Id("signature"), jen.Lit(len(m.Params)), jen.Len(jen.Id("args")),
		)),
	)

	callArgs := make([]jen.Code, len(m.Params))
	for i, param := range m.Params {
		g.List(jen.Id(argName(i)), jen.Id("ok")).Op(":=").Id("args").Index(jen.Lit(i)).Assert(param)
		g.If(jen.Op("!").Id("ok").Op("&&").Id("args").Index(jen.Lit(i)).Op("!=").Nil()).Block(
			jen.Return(jen.Nil(), jen.Qual(proxyutilsPath, "NewArgumentTypeError").Call(
				jen.Id("owner"), jen.Id("name"), jen.Id("signature"), jen.Lit(i), jen.Id("args").Index(jen.Lit(i)),
			)),
		)

		if m.Variadic && i == len(m.Params)-1 {
			callArgs[i] = jen.Id(argName(i)).Op("...")
		} else {
			callArgs[i] = jen.Id(argName(i))
		}
	}

	call := jen.Id("p").Dot("target").Dot(m.Name).Call(callArgs...)
	values := m.ValueResults()

	switch {
	case values == 0 && !m.ReturnsError:
		g.Add(call)
		g.Return(jen.Qual(proxyutilsPath, "Void"), jen.Nil())

	case values == 0:
		g.Return(jen.Qual(proxyutilsPath, "Void"), call)

	case values == 1:
		if m.ReturnsError {
			g.Return(call)
		} else {
			g.Return(call, jen.Nil())
		}

	default:
		names := make([]jen.Code, 0, len(m.Results))
		tuple := make([]jen.Code, 0, values)
		for i := 0; i < values; i++ {
			names = append(names, jen.Id(resultName(i)))
			tuple = append(tuple, jen.Id(resultName(i)))
		}
		if m.ReturnsError {
			names = append(names, jen.Err())
		}
		g.List(names...).Op(":=").Add(call)
		if m.ReturnsError {
			g.Return(jen.Qual(proxyutilsPath, "Tuple").Values(tuple...), jen.Err())
		} else {
			g.Return(jen.Qual(proxyutilsPath, "Tuple").Values(tuple...), jen.Nil())
		}
	}
}

func (e *emitter) emitRegistration(f *jen.File) {
	keys := jen.Index().Qual(proxytypesPath, "DispatchKey").ValuesFunc(func(g *jen.Group) {
		for _, m := range e.model.Methods {
			g.Line().Values(jen.Dict{
				jen.Id("Owner"):     jen.Lit(e.model.OwnerDesc),
				jen.Id("Name"):      jen.Lit(m.Name),
				jen.Id("Signature"): jen.Lit(m.Descriptor),
			})
		}
		if len(e.model.Methods) > 0 {
			g.Line()
		}
	})

	sigs := jen.Index().Op("*").Qual(proxytypesPath, "Signature").ValuesFunc(func(g *jen.Group) {
		for _, m := range e.model.Methods {
			g.Line().Id(e.sigVar(m))
		}
		if len(e.model.Methods) > 0 {
			g.Line()
		}
	})

	f.Func().Id("init").Params().Block(
		jen.Qual(proxyPkgPath, "RegisterTemplate").Call(
			jen.Op("&").Qual(proxytypesPath, "UnitTemplate").Values(jen.Dict{
				jen.Id("Name"):       jen.Lit(e.model.UnitName),
				jen.Id("Parent"):     jen.Id(e.typeVar()),
				jen.Id("Backend"):    jen.Qual(proxytypesPath, "BackendGenerated"),
				jen.Id("Keys"):       keys,
				jen.Id("Signatures"): sigs,
				jen.Id("New"):        jen.Id("new" + e.model.TypeName + "Proxy"),
			}),
		),
	)
	f.Line()
}

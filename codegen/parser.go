package codegen

import (
	"go/types"
	"sort"

	"github.com/cockroachdb/errors"
	"golang.org/x/tools/go/packages"

	"github.com/pk910/dynamic-proxy/proxytypes"
	"github.com/pk910/dynamic-proxy/proxyutils"
)

// Parser builds proxy models from go/types information, so proxy code can
// be generated for packages that are not compiled into the generator.
type Parser struct {
	excludes []*proxytypes.Selector
}

// NewParser creates a parser. Methods matching one of excludes are left
// to the embedded parent struct.
func NewParser(excludes ...*proxytypes.Selector) *Parser {
	return &Parser{
		excludes: excludes,
	}
}

// LoadPackage loads and type checks a package by import path.
func LoadPackage(pkgPath string) (*packages.Package, error) {
	cfg := &packages.Config{
		Mode: packages.NeedTypes | packages.NeedTypesInfo | packages.NeedSyntax | packages.NeedName,
	}

	pkgs, err := packages.Load(cfg, pkgPath)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to load package %s", pkgPath)
	}
	if len(pkgs) == 0 {
		return nil, errors.Newf("no packages found for %s", pkgPath)
	}

	pkg := pkgs[0]
	if len(pkg.Errors) > 0 {
		return nil, errors.Wrapf(pkg.Errors[0], "package %s has %d errors", pkgPath, len(pkg.Errors))
	}

	return pkg, nil
}

// LookupTypes resolves type names in the package scope.
func LookupTypes(pkg *packages.Package, names []string) ([]types.Type, error) {
	found := make([]types.Type, 0, len(names))
	scope := pkg.Types.Scope()

	for _, name := range names {
		obj := scope.Lookup(name)
		if obj == nil {
			return nil, errors.Newf("type %s not found in package %s", name, pkg.PkgPath)
		}

		typeObj, ok := obj.(*types.TypeName)
		if !ok {
			return nil, errors.Newf("object %s is not a type in package %s", name, pkg.PkgPath)
		}
		found = append(found, typeObj.Type())
	}

	return found, nil
}

// ParseType builds the model of a named interface or struct type.
func (p *Parser) ParseType(t types.Type, unitName string) (*ProxyModel, error) {
	named, ok := types.Unalias(t).(*types.Named)
	if !ok {
		return nil, errors.Wrapf(proxyutils.ErrParentNotPublic, "%v is not a named type", t)
	}

	obj := named.Obj()
	if obj.Pkg() == nil || !obj.Exported() {
		return nil, errors.Wrapf(proxyutils.ErrParentNotPublic, "%v", t)
	}
	if obj.Pkg().Name() == "main" {
		return nil, errors.WithHint(
			errors.Wrapf(proxyutils.ErrParentNotPublic, "%v is declared in package main", t),
			"move the type into an importable package",
		)
	}
	if named.TypeParams().Len() > 0 {
		return nil, errors.Wrapf(proxyutils.ErrUnsupportedType, "generic type %v", t)
	}

	var methodSet *types.MethodSet
	isInterface := false
	switch underlying := named.Underlying().(type) {
	case *types.Interface:
		isInterface = true
		if len(p.excludes) > 0 {
			return nil, errors.Newf("%v: methods of interface parents cannot be excluded", t)
		}
		for i := 0; i < underlying.NumMethods(); i++ {
			if !underlying.Method(i).Exported() {
				return nil, errors.Newf("%v has unexported method %s", t, underlying.Method(i).Name())
			}
		}
		methodSet = types.NewMethodSet(named)
	case *types.Struct:
		methodSet = types.NewMethodSet(types.NewPointer(named))
	default:
		return nil, errors.Wrapf(proxyutils.ErrParentNotConstructible, "%v is not an interface or struct", t)
	}

	model := newProxyModel(obj.Pkg().Path(), obj.Pkg().Name(), obj.Name(), isInterface, unitName)

	for i := 0; i < methodSet.Len(); i++ {
		fn, ok := methodSet.At(i).Obj().(*types.Func)
		if !ok || !fn.Exported() {
			continue
		}
		for _, reserved := range proxytypes.ReservedMethodNames {
			if fn.Name() == reserved {
				return nil, errors.Wrapf(proxyutils.ErrReservedMethod, "%v declares %s", t, reserved)
			}
		}

		method, err := p.parseMethod(fn)
		if err != nil {
			return nil, errors.Wrapf(err, "%v.%s", t, fn.Name())
		}

		excluded, err := p.excluded(model, fn, method)
		if err != nil {
			return nil, err
		}
		if !excluded {
			model.Methods = append(model.Methods, method)
		}
	}

	sort.Slice(model.Methods, func(i, j int) bool {
		return model.Methods[i].Name < model.Methods[j].Name
	})

	return model, nil
}

func (p *Parser) parseMethod(fn *types.Func) (*MethodModel, error) {
	sig := fn.Type().(*types.Signature)

	descriptor, err := DescribeGoMethod(sig)
	if err != nil {
		return nil, err
	}

	method := &MethodModel{
		Name:       fn.Name(),
		Variadic:   sig.Variadic(),
		Descriptor: descriptor,
	}

	params := sig.Params()
	for i := 0; i < params.Len(); i++ {
		code, err := goTypeCode(params.At(i).Type())
		if err != nil {
			return nil, err
		}
		method.Params = append(method.Params, code)

		if sig.Variadic() && i == params.Len()-1 {
			slice, ok := types.Unalias(params.At(i).Type()).(*types.Slice)
			if !ok {
				return nil, errors.Wrapf(proxyutils.ErrUnsupportedType, "variadic parameter %v", params.At(i).Type())
			}
			elem, err := goTypeCode(slice.Elem())
			if err != nil {
				return nil, err
			}
			method.VariadicElem = elem
		}
	}

	results := sig.Results()
	for i := 0; i < results.Len(); i++ {
		code, err := goTypeCode(results.At(i).Type())
		if err != nil {
			return nil, err
		}
		method.Results = append(method.Results, code)
	}
	if results.Len() > 0 {
		last := results.At(results.Len() - 1).Type()
		method.ReturnsError = types.Identical(last, types.Universe.Lookup("error").Type())
	}

	return method, nil
}

func (p *Parser) excluded(model *ProxyModel, fn *types.Func, method *MethodModel) (bool, error) {
	if len(p.excludes) == 0 {
		return false, nil
	}

	sig := fn.Type().(*types.Signature)
	params := proxytypes.MethodParameters(
		method.Name,
		model.OwnerDesc,
		method.Descriptor,
		sig.Params().Len(),
		method.ValueResults(),
		method.Variadic,
		method.ReturnsError,
	)

	for _, exclude := range p.excludes {
		matched, err := exclude.Evaluate(params)
		if err != nil {
			return false, err
		}
		if matched {
			return true, nil
		}
	}
	return false, nil
}

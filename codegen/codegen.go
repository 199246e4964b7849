package codegen

import (
	"reflect"

	"go.uber.org/zap"
)

type CodeGenOption func(*CodeGenOptions)

type CodeGenOptions struct {
	Logger   *zap.Logger
	Verbose  bool
	UnitName string
	Excludes []string
}

func WithLogger(logger *zap.Logger) CodeGenOption {
	return func(opts *CodeGenOptions) {
		opts.Logger = logger
	}
}

func WithVerbose() CodeGenOption {
	return func(opts *CodeGenOptions) {
		opts.Verbose = true
	}
}

// WithProxyUnitName sets the unit name for GenerateProxyCode.
func WithProxyUnitName(name string) CodeGenOption {
	return func(opts *CodeGenOptions) {
		opts.UnitName = name
	}
}

// WithProxyExclude adds an exclude selector for GenerateProxyCode.
func WithProxyExclude(expr string) CodeGenOption {
	return func(opts *CodeGenOptions) {
		opts.Excludes = append(opts.Excludes, expr)
	}
}

// GenerateProxyCode generates the dispatch unit of a single parent type
// and returns the source of a complete file in the parent's package.
func GenerateProxyCode(parent reflect.Type, opts ...CodeGenOption) (string, error) {
	cg := NewCodeGenerator(opts...)

	typeOpts := []TypeOption{}
	if cg.options.UnitName != "" {
		typeOpts = append(typeOpts, WithUnitName(cg.options.UnitName))
	}
	for _, expr := range cg.options.Excludes {
		typeOpts = append(typeOpts, WithExclude(expr))
	}

	req := &typeRequest{}
	WithReflectType(parent, typeOpts...)(req)

	model, err := req.model()
	if err != nil {
		return "", err
	}

	return cg.render(model.PkgPath, model.PkgName, []*ProxyModel{model})
}

// Package codegen generates dispatch units for proxy parent types as Go
// source. Generated units register themselves with dynproxy.RegisterTemplate
// and give proxies real method implementations of the parent type, which the
// reflection based runtime units cannot provide.
package codegen

import (
	"bytes"
	"go/types"
	"os"
	"path/filepath"
	"reflect"
	"sort"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"

	"github.com/pk910/dynamic-proxy/proxytypes"
)

// TypeOption selects one parent type for a generated file.
type TypeOption func(*typeRequest)

type typeRequest struct {
	reflectType reflect.Type
	goType      types.Type
	unitName    string
	excludes    []string
}

// WithReflectType generates a unit for a type compiled into the generator.
func WithReflectType(t reflect.Type, opts ...TypeOption) TypeOption {
	return func(req *typeRequest) {
		req.reflectType = t
		for _, opt := range opts {
			opt(req)
		}
	}
}

// WithGoTypesType generates a unit for a type loaded with go/packages.
func WithGoTypesType(t types.Type, opts ...TypeOption) TypeOption {
	return func(req *typeRequest) {
		req.goType = t
		for _, opt := range opts {
			opt(req)
		}
	}
}

// WithUnitName overrides the default unit name <pkgpath>.<Type>$Proxy.
func WithUnitName(name string) TypeOption {
	return func(req *typeRequest) {
		req.unitName = name
	}
}

// WithExclude leaves methods matching the selector expression to the
// embedded parent struct. Not allowed for interface parents.
func WithExclude(expr string) TypeOption {
	return func(req *typeRequest) {
		req.excludes = append(req.excludes, expr)
	}
}

// GenerationRequest is one output file and the types generated into it.
type GenerationRequest struct {
	FileName string
	Types    []*typeRequest
}

// CodeGenerator manages batch generation of dispatch units for multiple
// types and files.
type CodeGenerator struct {
	requests []*GenerationRequest
	options  *CodeGenOptions
}

// NewCodeGenerator creates a new code generator instance.
func NewCodeGenerator(opts ...CodeGenOption) *CodeGenerator {
	options := &CodeGenOptions{}
	for _, opt := range opts {
		opt(options)
	}
	if options.Logger == nil {
		options.Logger = zap.NewNop()
	}

	return &CodeGenerator{
		requests: make([]*GenerationRequest, 0),
		options:  options,
	}
}

// BuildFile queues a file with the given types. All types must come from
// the same package, the file is generated into that package.
func (cg *CodeGenerator) BuildFile(fileName string, opts ...TypeOption) error {
	req := &GenerationRequest{
		FileName: fileName,
		Types:    make([]*typeRequest, 0, len(opts)),
	}

	for _, opt := range opts {
		typeReq := &typeRequest{}
		opt(typeReq)
		if typeReq.reflectType == nil && typeReq.goType == nil {
			return errors.Newf("%s: type option without a type", fileName)
		}
		req.Types = append(req.Types, typeReq)
	}
	if len(req.Types) == 0 {
		return errors.Newf("%s: no types requested", fileName)
	}

	cg.requests = append(cg.requests, req)
	return nil
}

// GenerateToMap generates code for all requested files and returns it as a
// map of file name to code.
func (cg *CodeGenerator) GenerateToMap() (map[string]string, error) {
	if len(cg.requests) == 0 {
		return nil, errors.New("no types requested for generation")
	}

	results := make(map[string]string, len(cg.requests))
	for _, req := range cg.requests {
		code, err := cg.generateFile(req)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to generate code for %s", req.FileName)
		}
		results[req.FileName] = code
	}

	return results, nil
}

// Generate writes all requested files.
func (cg *CodeGenerator) Generate() error {
	results, err := cg.GenerateToMap()
	if err != nil {
		return errors.Wrap(err, "failed to generate code")
	}

	fileNames := make([]string, 0, len(results))
	for fileName := range results {
		fileNames = append(fileNames, fileName)
	}
	sort.Strings(fileNames)

	for _, fileName := range fileNames {
		dir := filepath.Dir(fileName)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return errors.Wrapf(err, "failed to create directory %s", dir)
		}

		if err := os.WriteFile(fileName, []byte(results[fileName]), 0644); err != nil {
			return errors.Wrapf(err, "failed to write code to file %s", fileName)
		}

		cg.options.Logger.Info("wrote proxy code", zap.String("file", fileName), zap.Int("bytes", len(results[fileName])))
	}

	return nil
}

func (cg *CodeGenerator) generateFile(req *GenerationRequest) (string, error) {
	models := make([]*ProxyModel, 0, len(req.Types))
	for _, typeReq := range req.Types {
		model, err := typeReq.model()
		if err != nil {
			return "", err
		}
		models = append(models, model)
	}

	pkgPath, pkgName := models[0].PkgPath, models[0].PkgName
	for _, model := range models[1:] {
		if model.PkgPath != pkgPath {
			return "", errors.Newf("type %s has different package path than %s. cannot combine types from different packages in a single file", model.TypeName, models[0].TypeName)
		}
		if pkgName == "" {
			pkgName = model.PkgName
		}
	}

	return cg.render(pkgPath, pkgName, models)
}

func (req *typeRequest) model() (*ProxyModel, error) {
	excludes := make([]*proxytypes.Selector, len(req.excludes))
	for i, expr := range req.excludes {
		selector, err := proxytypes.CompileSelector(expr)
		if err != nil {
			return nil, err
		}
		excludes[i] = selector
	}

	if req.goType != nil {
		return NewParser(excludes...).ParseType(req.goType, req.unitName)
	}
	return modelFromReflect(req.reflectType, req.unitName, excludes)
}

func (cg *CodeGenerator) render(pkgPath, pkgName string, models []*ProxyModel) (string, error) {
	f := newFile(pkgPath, pkgName)

	for _, model := range models {
		if cg.options.Verbose {
			cg.options.Logger.Debug("generating dispatch unit",
				zap.String("unit", model.UnitName),
				zap.String("parent", model.PkgPath+"."+model.TypeName),
				zap.Int("methods", len(model.Methods)),
			)
		}

		e := &emitter{model: model}
		e.emit(f)
	}

	buf := bytes.Buffer{}
	if err := f.Render(&buf); err != nil {
		return "", errors.Wrap(err, "failed to render proxy code")
	}
	return buf.String(), nil
}

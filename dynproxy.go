// Package dynproxy creates interception proxies for Go interface and struct types.
// A proxy routes every method call through a table of user supplied interceptions
// before (optionally) continuing to a wrapped target, an embedded zero value of the
// parent struct or, for layered proxies, the next inner proxy.
//
// Dispatch units are either generated ahead of time with dynproxy-gen or synthesized
// at runtime with reflection.
//
// Copyright (c) 2025 by pk910. See LICENSE file for details.
package dynproxy

import (
	"reflect"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"

	"github.com/pk910/dynamic-proxy/proxytypes"
	"github.com/pk910/dynamic-proxy/proxyutils"
	"github.com/pk910/dynamic-proxy/reflection"
)

// DynProxy is the proxy client. It validates parent types, resolves dispatch
// units (generated or runtime synthesized) and caches them per proxy shape.
//
// A DynProxy is safe for concurrent use. Reuse one instance to benefit from
// the unit cache.
//
// Example usage:
//
//	dp := dynproxy.NewDynProxy(dynproxy.WithLogger(logger))
//
//	builder, err := dp.CreateBuilder(reflect.TypeOf((*Greeter)(nil)).Elem())
//	if err != nil {
//	    return err
//	}
//	proxy, err := builder.
//	    ProxyMethodByName("Greet", logCalls).
//	    Target(&impl{}).
//	    Build()
type DynProxy struct {
	logger     *zap.Logger
	scope      *Scope
	backend    proxytypes.Backend
	templates  *TemplateRegistry
	unitCache  *UnitCache
	reflection *reflection.ReflectionCtx

	// Verbose enables debug logging of synthesized dispatch branches.
	Verbose bool
}

// NewDynProxy creates a new proxy client.
//
// Without options the client logs nothing, defines its units in a private
// scope, prefers generated dispatch units registered with RegisterTemplate and
// falls back to runtime synthesis.
func NewDynProxy(opts ...DynProxyOption) *DynProxy {
	options := &DynProxyOptions{}
	for _, opt := range opts {
		opt(options)
	}

	if options.Logger == nil {
		options.Logger = zap.NewNop()
	}
	if options.Scope == nil {
		options.Scope = NewScope("default", options.Logger)
	}
	if options.Templates == nil {
		options.Templates = globalTemplates
	}

	return &DynProxy{
		logger:     options.Logger,
		scope:      options.Scope,
		backend:    options.Backend,
		templates:  options.Templates,
		unitCache:  NewUnitCache(options.Logger),
		reflection: reflection.NewReflectionCtx(options.Logger, options.Verbose),
		Verbose:    options.Verbose,
	}
}

// GetUnitCache returns the unit cache of the client.
func (d *DynProxy) GetUnitCache() *UnitCache {
	return d.unitCache
}

// GetScope returns the default scope of the client.
func (d *DynProxy) GetScope() *Scope {
	return d.scope
}

// CreateBuilder validates parent and returns a builder for proxies of it.
//
// The parent must be an exported, named interface or struct type (a pointer
// to a struct is accepted and normalized). It must not declare any of the
// capsule methods listed in proxytypes.ReservedMethodNames. Violations are
// reported here, before any interception is registered.
func (d *DynProxy) CreateBuilder(parent reflect.Type, opts ...BuilderOption) (*Builder, error) {
	parent, err := validateParent(parent)
	if err != nil {
		return nil, err
	}

	cfg := builderConfig{
		scope:   d.scope,
		backend: d.backend,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	candidates := proxytypes.ListMethods(parent)

	d.logger.Debug("created proxy builder",
		zap.String("parent", parent.String()),
		zap.Int("candidates", len(candidates)),
		zap.Stringer("backend", cfg.backend),
	)

	return &Builder{
		dp:         d,
		parent:     parent,
		candidates: candidates,
		config:     cfg,
		table:      proxytypes.NewTable(),
	}, nil
}

// Create builds a bare proxy of parent routing every method to interception.
func (d *DynProxy) Create(parent reflect.Type, interception proxytypes.Interception) (any, error) {
	builder, err := d.CreateBuilder(parent)
	if err != nil {
		return nil, err
	}
	return builder.InterceptAll(interception).Build()
}

// CreateWithTable builds a bare proxy of parent with one interception per
// signature. Map order is random, so two equal signatures (same name and
// parameters) are rejected instead of letting one of them win.
func (d *DynProxy) CreateWithTable(parent reflect.Type, table map[*proxytypes.Signature]proxytypes.Interception) (any, error) {
	builder, err := d.CreateBuilder(parent)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]*proxytypes.Signature, len(table))
	for sig := range table {
		if sig == nil {
			continue
		}
		if other, ok := seen[sig.Key()]; ok {
			return nil, errors.Wrapf(proxyutils.ErrDuplicateSignature, "%v and %v", other, sig)
		}
		seen[sig.Key()] = sig
	}

	for sig, interception := range table {
		builder.ProxyMethod(sig, interception)
	}
	return builder.Build()
}

// Wrap builds a proxy of parent around target routing every method to
// interception.
func (d *DynProxy) Wrap(parent reflect.Type, target any, interception proxytypes.Interception) (any, error) {
	builder, err := d.CreateBuilder(parent)
	if err != nil {
		return nil, err
	}
	return builder.InterceptAll(interception).Target(target).Build()
}

// resolveUnit returns the dispatch unit for a proxy descriptor.
func (d *DynProxy) resolveUnit(parent reflect.Type, candidates []*proxytypes.Signature, mapping string, cfg builderConfig) (*proxytypes.Unit, error) {
	key := unitKey{
		parent:  parent,
		scope:   cfg.scope,
		name:    cfg.unitName,
		backend: cfg.backend,
		mapping: mapping,
	}

	return d.unitCache.GetUnit(key, func() (*proxytypes.Unit, error) {
		tpl, err := d.unitTemplate(parent, candidates, cfg.backend)
		if err != nil {
			return nil, err
		}
		if cfg.unitName != "" {
			tpl = tpl.WithName(cfg.unitName)
		}
		return cfg.scope.Define(tpl)
	})
}

func (d *DynProxy) unitTemplate(parent reflect.Type, candidates []*proxytypes.Signature, backend proxytypes.Backend) (*proxytypes.UnitTemplate, error) {
	switch backend {
	case proxytypes.BackendGenerated:
		tpl, ok := d.templates.Lookup(parent)
		if !ok {
			return nil, errors.WithHint(
				errors.Wrapf(proxyutils.ErrNoTemplate, "%v", parent),
				"run dynproxy-gen for the parent type or use the runtime backend",
			)
		}
		return tpl, nil

	case proxytypes.BackendRuntime:
		return d.synthesizeTemplate(parent, candidates)

	default:
		if tpl, ok := d.templates.Lookup(parent); ok {
			return tpl, nil
		}
		return d.synthesizeTemplate(parent, candidates)
	}
}

func (d *DynProxy) synthesizeTemplate(parent reflect.Type, candidates []*proxytypes.Signature) (*proxytypes.UnitTemplate, error) {
	table, err := d.reflection.Synthesize(parent, candidates)
	if err != nil {
		return nil, errors.Wrapf(err, "synthesizing dispatch unit for %v", parent)
	}

	return &proxytypes.UnitTemplate{
		Name:       runtimeUnitName(parent),
		Parent:     parent,
		Backend:    proxytypes.BackendRuntime,
		Keys:       table.Keys(),
		Signatures: table.Signatures(),
		New: func(c *proxytypes.Capsule, target any) proxytypes.Parent {
			return newDynamic(c, table, target)
		},
	}, nil
}

func runtimeUnitName(parent reflect.Type) string {
	return parent.PkgPath() + "." + parent.Name() + "$Dynamic"
}

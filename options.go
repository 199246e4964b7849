// Copyright (c) 2025 pk910
// SPDX-License-Identifier: Apache-2.0
// This file is part of the dynamic-proxy library.

package dynproxy

import (
	"go.uber.org/zap"

	"github.com/pk910/dynamic-proxy/proxytypes"
)

type DynProxyOption func(*DynProxyOptions)

type DynProxyOptions struct {
	Logger    *zap.Logger
	Scope     *Scope
	Backend   proxytypes.Backend
	Templates *TemplateRegistry
	Verbose   bool
}

// WithLogger sets the logger used by builders, scopes and the unit cache.
func WithLogger(logger *zap.Logger) DynProxyOption {
	return func(opts *DynProxyOptions) {
		opts.Logger = logger
	}
}

// WithVerbose enables debug logging of synthesized dispatch branches.
func WithVerbose() DynProxyOption {
	return func(opts *DynProxyOptions) {
		opts.Verbose = true
	}
}

// WithDefaultScope sets the scope units are defined in unless a builder
// selects another one.
func WithDefaultScope(scope *Scope) DynProxyOption {
	return func(opts *DynProxyOptions) {
		opts.Scope = scope
	}
}

// WithDefaultBackend selects the synthesizer used unless a builder selects
// another one.
func WithDefaultBackend(backend proxytypes.Backend) DynProxyOption {
	return func(opts *DynProxyOptions) {
		opts.Backend = backend
	}
}

// WithTemplates sets the registry generated units are looked up in.
func WithTemplates(templates *TemplateRegistry) DynProxyOption {
	return func(opts *DynProxyOptions) {
		opts.Templates = templates
	}
}

// BuilderOption configures a single builder.
type BuilderOption func(*builderConfig)

type builderConfig struct {
	scope    *Scope
	unitName string
	backend  proxytypes.Backend
}

// WithScope defines the unit of the built proxies in scope.
func WithScope(scope *Scope) BuilderOption {
	return func(cfg *builderConfig) {
		cfg.scope = scope
	}
}

// WithUnitName overrides the name of the dispatch unit. Units are unique by
// name within a scope.
func WithUnitName(name string) BuilderOption {
	return func(cfg *builderConfig) {
		cfg.unitName = name
	}
}

// WithBackend selects the synthesizer for this builder.
func WithBackend(backend proxytypes.Backend) BuilderOption {
	return func(cfg *builderConfig) {
		cfg.backend = backend
	}
}

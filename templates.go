// Copyright (c) 2025 pk910
// SPDX-License-Identifier: Apache-2.0
// This file is part of the dynamic-proxy library.

package dynproxy

import (
	"reflect"
	"sync"

	"github.com/pk910/dynamic-proxy/proxytypes"
)

// TemplateRegistry holds the unit templates of generated proxy code.
type TemplateRegistry struct {
	mutex     sync.RWMutex
	templates map[reflect.Type][]*proxytypes.UnitTemplate
}

var globalTemplates = NewTemplateRegistry()

// NewTemplateRegistry creates an empty registry.
func NewTemplateRegistry() *TemplateRegistry {
	return &TemplateRegistry{
		templates: map[reflect.Type][]*proxytypes.UnitTemplate{},
	}
}

// Register adds a validated template. Registering a template with a name
// that is already registered for the same parent replaces it.
func (r *TemplateRegistry) Register(tpl *proxytypes.UnitTemplate) error {
	if err := tpl.Validate(); err != nil {
		return err
	}

	r.mutex.Lock()
	defer r.mutex.Unlock()

	templates := r.templates[tpl.Parent]
	for i, existing := range templates {
		if existing.Name == tpl.Name {
			templates[i] = tpl
			return nil
		}
	}
	r.templates[tpl.Parent] = append(templates, tpl)
	return nil
}

// Lookup returns the first template registered for parent.
func (r *TemplateRegistry) Lookup(parent reflect.Type) (*proxytypes.UnitTemplate, bool) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	templates := r.templates[parent]
	if len(templates) == 0 {
		return nil, false
	}
	return templates[0], true
}

// Templates returns all templates registered for parent.
func (r *TemplateRegistry) Templates(parent reflect.Type) []*proxytypes.UnitTemplate {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	return append([]*proxytypes.UnitTemplate(nil), r.templates[parent]...)
}

// RegisterTemplate registers a generated unit template globally. Generated
// code calls it from init; an invalid template panics.
func RegisterTemplate(tpl *proxytypes.UnitTemplate) {
	if err := globalTemplates.Register(tpl); err != nil {
		panic(err)
	}
}

// GetGlobalTemplates returns the registry RegisterTemplate adds to.
func GetGlobalTemplates() *TemplateRegistry {
	return globalTemplates
}

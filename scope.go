// Copyright (c) 2025 pk910
// SPDX-License-Identifier: Apache-2.0
// This file is part of the dynamic-proxy library.

package dynproxy

import (
	"sort"
	"sync"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"

	"github.com/pk910/dynamic-proxy/proxytypes"
	"github.com/pk910/dynamic-proxy/proxyutils"
)

// Scope is the namespace dispatch units are defined in. Unit names are
// unique within a scope; separate scopes never see each other's units.
type Scope struct {
	name   string
	logger *zap.Logger
	mutex  sync.RWMutex
	units  map[string]*proxytypes.Unit
}

// NewScope creates an empty scope.
func NewScope(name string, logger *zap.Logger) *Scope {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Scope{
		name:   name,
		logger: logger,
		units:  map[string]*proxytypes.Unit{},
	}
}

// Name returns the scope name.
func (s *Scope) Name() string {
	return s.name
}

// Define materializes a unit template in the scope.
//
// Defining a name that is already taken returns the existing unit when the
// bodies are identical (same digest) and fails with ErrDuplicateUnit when
// they differ.
func (s *Scope) Define(tpl *proxytypes.UnitTemplate) (*proxytypes.Unit, error) {
	digest := tpl.Digest()

	s.mutex.RLock()
	unit, exists := s.units[tpl.Name]
	s.mutex.RUnlock()
	if exists {
		return s.checkExisting(unit, digest)
	}

	s.mutex.Lock()
	defer s.mutex.Unlock()

	if unit, exists := s.units[tpl.Name]; exists {
		return s.checkExisting(unit, digest)
	}

	unit, err := proxytypes.NewUnit(tpl)
	if err != nil {
		return nil, errors.Wrapf(err, "scope %s", s.name)
	}
	s.units[unit.Name] = unit

	s.logger.Debug("defined dispatch unit",
		zap.String("scope", s.name),
		zap.String("unit", unit.Name),
		zap.String("parent", unit.Parent.String()),
		zap.Stringer("backend", unit.Backend),
		zap.String("digest", unit.Digest),
		zap.Int("branches", len(unit.Keys)),
	)

	return unit, nil
}

func (s *Scope) checkExisting(unit *proxytypes.Unit, digest string) (*proxytypes.Unit, error) {
	if unit.Digest != digest {
		return nil, errors.WithHint(
			errors.Wrapf(proxyutils.ErrDuplicateUnit, "%s in scope %s", unit.Name, s.name),
			"choose a different unit name or define the unit in a separate scope",
		)
	}
	return unit, nil
}

// Lookup returns the unit defined under name.
func (s *Scope) Lookup(name string) (*proxytypes.Unit, bool) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	unit, ok := s.units[name]
	return unit, ok
}

// Units returns all units of the scope sorted by name.
func (s *Scope) Units() []*proxytypes.Unit {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	units := make([]*proxytypes.Unit, 0, len(s.units))
	for _, unit := range s.units {
		units = append(units, unit)
	}
	sort.Slice(units, func(i, j int) bool {
		return units[i].Name < units[j].Name
	})
	return units
}

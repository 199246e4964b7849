// Copyright (c) 2025 pk910
// SPDX-License-Identifier: Apache-2.0
// This file is part of the dynamic-proxy library.

package dynproxy

import (
	"reflect"
	"sync"

	"go.uber.org/zap"

	"github.com/pk910/dynamic-proxy/proxytypes"
)

// unitKey identifies a proxy descriptor: the parent type, where and under
// which name its unit lives, the backend and the interception mapping.
type unitKey struct {
	parent  reflect.Type
	scope   *Scope
	name    string
	backend proxytypes.Backend
	mapping string
}

// UnitCache caches resolved dispatch units per proxy descriptor, so repeated
// builds of the same proxy shape skip synthesis and scope definition.
type UnitCache struct {
	logger *zap.Logger
	mutex  sync.RWMutex
	units  map[unitKey]*proxytypes.Unit
}

// NewUnitCache creates an empty unit cache.
func NewUnitCache(logger *zap.Logger) *UnitCache {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &UnitCache{
		logger: logger,
		units:  make(map[unitKey]*proxytypes.Unit),
	}
}

// GetUnit returns the cached unit for key, building it with build if
// necessary. Concurrent requests for the same key build the unit once.
func (uc *UnitCache) GetUnit(key unitKey, build func() (*proxytypes.Unit, error)) (*proxytypes.Unit, error) {
	uc.mutex.RLock()
	if unit, exists := uc.units[key]; exists {
		uc.mutex.RUnlock()
		return unit, nil
	}
	uc.mutex.RUnlock()

	uc.mutex.Lock()
	defer uc.mutex.Unlock()

	if unit, exists := uc.units[key]; exists {
		return unit, nil
	}

	unit, err := build()
	if err != nil {
		return nil, err
	}
	uc.units[key] = unit

	uc.logger.Debug("cached dispatch unit",
		zap.String("unit", unit.Name),
		zap.String("parent", key.parent.String()),
		zap.String("mapping", key.mapping),
	)

	return unit, nil
}

// GetAllUnits returns all cached units. A unit shared by several proxy
// descriptors is returned once.
func (uc *UnitCache) GetAllUnits() []*proxytypes.Unit {
	uc.mutex.RLock()
	defer uc.mutex.RUnlock()

	seen := make(map[*proxytypes.Unit]bool, len(uc.units))
	units := make([]*proxytypes.Unit, 0, len(uc.units))
	for _, unit := range uc.units {
		if seen[unit] {
			continue
		}
		seen[unit] = true
		units = append(units, unit)
	}

	return units
}

// Len returns the number of cached proxy descriptors.
func (uc *UnitCache) Len() int {
	uc.mutex.RLock()
	defer uc.mutex.RUnlock()

	return len(uc.units)
}

// RemoveParent drops all cached descriptors of a parent type. Units stay
// defined in their scopes.
func (uc *UnitCache) RemoveParent(parent reflect.Type) {
	uc.mutex.Lock()
	defer uc.mutex.Unlock()

	for key := range uc.units {
		if key.parent == parent {
			delete(uc.units, key)
		}
	}
}

// RemoveAllUnits clears the cache.
func (uc *UnitCache) RemoveAllUnits() {
	uc.mutex.Lock()
	defer uc.mutex.Unlock()

	uc.units = make(map[unitKey]*proxytypes.Unit)
}

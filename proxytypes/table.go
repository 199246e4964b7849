// Copyright (c) 2025 pk910
// SPDX-License-Identifier: Apache-2.0
// This file is part of the dynamic-proxy library.

package proxytypes

import (
	"sort"
	"strings"
)

// TableEntry binds an interception to a method signature.
type TableEntry struct {
	Signature    *Signature
	Interception Interception
}

// Table maps signatures to interceptions. Entries are keyed by signature
// identity, so putting an equal signature again replaces the interception.
//
// A frozen table is read only; capsules hold frozen tables only.
type Table struct {
	entries map[string]*TableEntry
	order   []string
	frozen  bool
}

// NewTable creates an empty, mutable table.
func NewTable() *Table {
	return &Table{
		entries: map[string]*TableEntry{},
	}
}

// Put registers an interception for sig, replacing an earlier one.
func (t *Table) Put(sig *Signature, interception Interception) {
	if t.frozen {
		panic("proxytypes: put on frozen interception table")
	}

	key := sig.Key()
	if _, exists := t.entries[key]; !exists {
		t.order = append(t.order, key)
	}
	t.entries[key] = &TableEntry{
		Signature:    sig,
		Interception: interception,
	}
}

// Lookup returns the entry registered for a signature equal to sig.
func (t *Table) Lookup(sig *Signature) (*TableEntry, bool) {
	if t == nil || sig == nil {
		return nil, false
	}
	entry, ok := t.entries[sig.Key()]
	return entry, ok
}

// Len returns the number of entries.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.entries)
}

// Entries returns the entries in registration order.
func (t *Table) Entries() []*TableEntry {
	if t == nil {
		return nil
	}
	entries := make([]*TableEntry, 0, len(t.order))
	for _, key := range t.order {
		entries = append(entries, t.entries[key])
	}
	return entries
}

// Mapping returns the sorted, comma separated signature keys of the table.
func (t *Table) Mapping() string {
	if t == nil {
		return ""
	}
	keys := make([]string, len(t.order))
	copy(keys, t.order)
	sort.Strings(keys)
	return strings.Join(keys, ",")
}

// Clone returns a mutable copy of the table.
func (t *Table) Clone() *Table {
	clone := NewTable()
	if t == nil {
		return clone
	}
	clone.order = append(clone.order, t.order...)
	for key, entry := range t.entries {
		clone.entries[key] = entry
	}
	return clone
}

// Freeze returns a read only copy of the table.
func (t *Table) Freeze() *Table {
	frozen := t.Clone()
	frozen.frozen = true
	return frozen
}

// Frozen reports whether the table is read only.
func (t *Table) Frozen() bool {
	return t != nil && t.frozen
}

// Copyright (c) 2025 pk910
// SPDX-License-Identifier: Apache-2.0
// This file is part of the dynamic-proxy library.

package proxytypes

import (
	"crypto/sha256"
	"encoding/hex"
	"reflect"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
)

// Backend names the synthesizer that produced a dispatch unit.
type Backend uint8

const (
	// BackendAuto prefers a generated unit and falls back to the runtime one.
	BackendAuto Backend = iota
	// BackendGenerated units are emitted as Go source by dynproxy-gen.
	BackendGenerated
	// BackendRuntime units are synthesized with reflection.
	BackendRuntime
)

func (b Backend) String() string {
	switch b {
	case BackendGenerated:
		return "generated"
	case BackendRuntime:
		return "runtime"
	default:
		return "auto"
	}
}

// DispatchKey is the (owner, name, signature) triple a dispatch branch
// compares against.
type DispatchKey struct {
	Owner     string
	Name      string
	Signature string
}

func (k DispatchKey) String() string {
	return k.Owner + " " + k.Name + " " + k.Signature
}

// UnitFactory constructs an instance of a dispatch unit around a capsule.
type UnitFactory func(c *Capsule, target any) Parent

// UnitTemplate describes a dispatch unit before it is defined in a scope.
// Keys and Signatures are parallel: Keys[i] is the branch for Signatures[i].
type UnitTemplate struct {
	Name       string
	Parent     reflect.Type
	Backend    Backend
	Keys       []DispatchKey
	Signatures []*Signature
	New        UnitFactory
}

// Validate checks that the template is complete and that its branch keys
// match its signatures. A mismatch means generated code is out of date.
func (t *UnitTemplate) Validate() error {
	if t.Name == "" {
		return errors.New("dispatch unit has no name")
	}
	if t.Parent == nil {
		return errors.Newf("dispatch unit %s has no parent type", t.Name)
	}
	if t.New == nil {
		return errors.Newf("dispatch unit %s has no factory", t.Name)
	}
	if len(t.Keys) != len(t.Signatures) {
		return errors.Newf("dispatch unit %s has %d keys for %d signatures", t.Name, len(t.Keys), len(t.Signatures))
	}

	for i, sig := range t.Signatures {
		if sig.DispatchKey() != t.Keys[i] {
			return errors.WithHint(
				errors.Newf("dispatch unit %s: key %v does not match method %v", t.Name, t.Keys[i], sig),
				"regenerate the proxy code with dynproxy-gen",
			)
		}
	}

	return nil
}

// Body returns the canonical text of the unit: its name, the parent
// descriptor, the backend and one line per dispatch branch.
func (t *UnitTemplate) Body() string {
	b := strings.Builder{}
	b.WriteString(t.Name)
	b.WriteByte('\n')
	if desc, err := Describe(t.Parent); err == nil {
		b.WriteString(desc)
	} else {
		b.WriteString(t.Parent.String())
	}
	b.WriteByte('\n')
	b.WriteString(t.Backend.String())
	b.WriteByte('\n')
	for _, key := range t.Keys {
		b.WriteString(key.String())
		b.WriteByte('\n')
	}
	return b.String()
}

// Digest returns the hex encoded sha256 of Body.
func (t *UnitTemplate) Digest() string {
	sum := sha256.Sum256([]byte(t.Body()))
	return hex.EncodeToString(sum[:])
}

// WithName returns a copy of the template under a different name.
func (t *UnitTemplate) WithName(name string) *UnitTemplate {
	clone := *t
	clone.Name = name
	return &clone
}

// Unit is a dispatch unit defined in a scope. Every unit gets a fresh
// anonymous reference on definition, which the identity defaults of its
// instances derive from.
type Unit struct {
	Name    string
	Parent  reflect.Type
	Backend Backend
	Keys    []DispatchKey
	Digest  string
	Ref     uuid.UUID

	signatures []*Signature
	byKey      map[string]*Signature
	factory    UnitFactory
}

// NewUnit materializes a validated template.
func NewUnit(tpl *UnitTemplate) (*Unit, error) {
	if err := tpl.Validate(); err != nil {
		return nil, err
	}

	unit := &Unit{
		Name:       tpl.Name,
		Parent:     tpl.Parent,
		Backend:    tpl.Backend,
		Keys:       append([]DispatchKey(nil), tpl.Keys...),
		Digest:     tpl.Digest(),
		Ref:        uuid.New(),
		signatures: append([]*Signature(nil), tpl.Signatures...),
		byKey:      make(map[string]*Signature, len(tpl.Signatures)),
		factory:    tpl.New,
	}
	for _, sig := range tpl.Signatures {
		unit.byKey[sig.Key()] = sig
	}

	return unit, nil
}

// Resolve returns the unit's own signature equal to sig.
func (u *Unit) Resolve(sig *Signature) (*Signature, bool) {
	if sig == nil {
		return nil, false
	}
	own, ok := u.byKey[sig.Key()]
	return own, ok
}

// Signatures returns the candidate methods in branch order.
func (u *Unit) Signatures() []*Signature {
	return append([]*Signature(nil), u.signatures...)
}

// New creates an instance around c.
func (u *Unit) New(c *Capsule, target any) Parent {
	return u.factory(c, target)
}

func (u *Unit) String() string {
	return u.Name + "@" + u.Ref.String()
}

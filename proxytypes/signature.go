// Copyright (c) 2025 pk910
// SPDX-License-Identifier: Apache-2.0
// This file is part of the dynamic-proxy library.

package proxytypes

import (
	"hash/fnv"
	"reflect"
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/pk910/dynamic-proxy/proxyutils"
)

// Signature is the canonical identity of a method: its name and ordered
// parameter types. A signature built from reflection is additionally bound
// to the owning type and the concrete method, which gives it result types
// and a full method descriptor.
//
// Two signatures are equal when name and parameters match; the owner is not
// compared. Matching against a raw reflect.Method (MatchesMethod) does compare
// the owner. Key is derived from name and parameters only, so signatures of
// different owners with the same shape share a key.
type Signature struct {
	Name     string
	Owner    reflect.Type
	Params   []reflect.Type
	Results  []reflect.Type
	Variadic bool
	Method   *reflect.Method

	bound      bool
	key        string
	paramsDesc string
	methodDesc string
	ownerDesc  string
}

// NewSignature creates an unbound signature from a method name and its
// parameter types. Unbound signatures are used to address methods in
// interception tables; they carry no owner and no results.
func NewSignature(name string, params ...reflect.Type) (*Signature, error) {
	return newSignature(name, params, false)
}

// NewVariadicSignature is like NewSignature with the last parameter being
// the variadic slice.
func NewVariadicSignature(name string, params ...reflect.Type) (*Signature, error) {
	return newSignature(name, params, true)
}

// MustNewSignature is like NewSignature but panics on error.
func MustNewSignature(name string, params ...reflect.Type) *Signature {
	sig, err := NewSignature(name, params...)
	if err != nil {
		panic(err)
	}
	return sig
}

func newSignature(name string, params []reflect.Type, variadic bool) (*Signature, error) {
	paramsDesc, err := DescribeParams(params, variadic)
	if err != nil {
		return nil, errors.Wrapf(err, "signature %s", name)
	}

	return &Signature{
		Name:       name,
		Params:     params,
		Variadic:   variadic,
		key:        name + paramsDesc,
		paramsDesc: paramsDesc,
		methodDesc: paramsDesc,
	}, nil
}

// SignatureOf builds a bound signature for a method of owner. The method
// must come from owner's method set (or from *owner for struct owners).
func SignatureOf(owner reflect.Type, m reflect.Method) (*Signature, error) {
	ownerDesc, err := Describe(owner)
	if err != nil {
		return nil, errors.Wrapf(err, "owner of %s", m.Name)
	}

	mt := m.Type
	first := 0
	if m.Func.IsValid() {
		// concrete method: In(0) is the receiver
		first = 1
	}

	params := make([]reflect.Type, 0, mt.NumIn()-first)
	for i := first; i < mt.NumIn(); i++ {
		params = append(params, mt.In(i))
	}
	results := make([]reflect.Type, mt.NumOut())
	for i := range results {
		results[i] = mt.Out(i)
	}

	paramsDesc, err := DescribeParams(params, mt.IsVariadic())
	if err != nil {
		return nil, errors.Wrapf(err, "method %s.%s", owner, m.Name)
	}
	methodDesc, err := DescribeMethod(params, results, mt.IsVariadic())
	if err != nil {
		return nil, errors.Wrapf(err, "method %s.%s", owner, m.Name)
	}

	method := m
	return &Signature{
		Name:       m.Name,
		Owner:      owner,
		Params:     params,
		Results:    results,
		Variadic:   mt.IsVariadic(),
		Method:     &method,
		bound:      true,
		key:        m.Name + paramsDesc,
		paramsDesc: paramsDesc,
		methodDesc: methodDesc,
		ownerDesc:  ownerDesc,
	}, nil
}

// LookupSignature builds the bound signature of the named method of owner.
func LookupSignature(owner reflect.Type, name string) (*Signature, error) {
	m, ok := methodSetType(owner).MethodByName(name)
	if !ok {
		return nil, errors.Wrapf(proxyutils.ErrMethodNotFound, "%v.%s", owner, name)
	}
	return SignatureOf(owner, m)
}

// MustSignature is like LookupSignature but panics on error. Generated
// dispatch units use it to resolve their signatures once at init time.
func MustSignature(owner reflect.Type, name string) *Signature {
	sig, err := LookupSignature(owner, name)
	if err != nil {
		panic(err)
	}
	return sig
}

// Key returns the identity key (name + parameter descriptor).
func (s *Signature) Key() string { return s.key }

// Hash returns a 64 bit hash of Key.
func (s *Signature) Hash() uint64 {
	h := fnv.New64a()
	h.Write([]byte(s.key))
	return h.Sum64()
}

// Bound reports whether the signature is bound to an owner and method.
func (s *Signature) Bound() bool { return s.bound }

// Descriptor returns the method descriptor. Unbound signatures only know
// their parameter part.
func (s *Signature) Descriptor() string { return s.methodDesc }

// ParamsDescriptor returns the parameter part of the descriptor.
func (s *Signature) ParamsDescriptor() string { return s.paramsDesc }

// OwnerDescriptor returns the descriptor of the owning type, or "" for
// unbound signatures.
func (s *Signature) OwnerDescriptor() string { return s.ownerDesc }

// DispatchKey returns the (owner, name, signature) triple dispatch units
// branch on.
func (s *Signature) DispatchKey() DispatchKey {
	return DispatchKey{
		Owner:     s.ownerDesc,
		Name:      s.Name,
		Signature: s.methodDesc,
	}
}

// Equal compares name and parameter types.
func (s *Signature) Equal(other *Signature) bool {
	if s == nil || other == nil {
		return s == other
	}
	return s.key == other.key
}

// MatchesMethod compares the signature with a raw method of owner. Unlike
// Equal this requires the owner to be the signature's owner.
func (s *Signature) MatchesMethod(owner reflect.Type, m reflect.Method) bool {
	if s == nil || s.Owner != owner || s.Name != m.Name {
		return false
	}

	other, err := SignatureOf(owner, m)
	if err != nil {
		return false
	}
	return s.key == other.key
}

// ReturnsError reports whether the last result is the error type.
func (s *Signature) ReturnsError() bool {
	return len(s.Results) > 0 && s.Results[len(s.Results)-1] == errorType
}

// ValueResults returns the results without a trailing error.
func (s *Signature) ValueResults() []reflect.Type {
	if s.ReturnsError() {
		return s.Results[:len(s.Results)-1]
	}
	return s.Results
}

func (s *Signature) String() string {
	b := strings.Builder{}
	if s.Owner != nil {
		b.WriteString(s.Owner.String())
		b.WriteByte('.')
	}
	b.WriteString(s.Name)
	b.WriteString(s.methodDesc)
	return b.String()
}

// methodSetType returns the type whose method set holds the proxyable
// methods: structs contribute their pointer method set.
func methodSetType(t reflect.Type) reflect.Type {
	if t.Kind() == reflect.Struct {
		return reflect.PointerTo(t)
	}
	return t
}

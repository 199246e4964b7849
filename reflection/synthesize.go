// Copyright (c) 2025 pk910
// SPDX-License-Identifier: Apache-2.0
// This file is part of the dynamic-proxy library.

package reflection

import (
	"reflect"

	"github.com/cockroachdb/errors"

	"github.com/pk910/dynamic-proxy/proxytypes"
	"github.com/pk910/dynamic-proxy/proxyutils"
)

// thunk is one dispatch branch: the key it answers and a precomputed call
// into the method set of the receiver type.
type thunk struct {
	key          proxytypes.DispatchKey
	sig          *proxytypes.Signature
	index        int
	params       []reflect.Type
	variadic     bool
	returnsError bool
}

// DispatchTable is a synthesized dispatch unit body: a linear chain of
// branches over the candidate methods of a parent type.
type DispatchTable struct {
	parent    reflect.Type
	methodSet reflect.Type
	thunks    []*thunk
}

// Synthesize builds the dispatch table of parent using a default context.
func Synthesize(parent reflect.Type, candidates []*proxytypes.Signature) (*DispatchTable, error) {
	return synthesize(parent, candidates)
}

func synthesize(parent reflect.Type, candidates []*proxytypes.Signature) (*DispatchTable, error) {
	methodSet := parent
	if parent.Kind() == reflect.Struct {
		methodSet = reflect.PointerTo(parent)
	} else if parent.Kind() != reflect.Interface {
		return nil, errors.Wrapf(proxyutils.ErrParentNotConstructible, "%v", parent)
	}

	table := &DispatchTable{
		parent:    parent,
		methodSet: methodSet,
		thunks:    make([]*thunk, 0, len(candidates)),
	}

	for _, sig := range candidates {
		m, ok := methodSet.MethodByName(sig.Name)
		if !ok || !sig.MatchesMethod(parent, m) {
			return nil, errors.Wrapf(proxyutils.ErrMethodNotFound, "%v is not a method of %v", sig, parent)
		}

		table.thunks = append(table.thunks, &thunk{
			key:          sig.DispatchKey(),
			sig:          sig,
			index:        m.Index,
			params:       sig.Params,
			variadic:     sig.Variadic,
			returnsError: sig.ReturnsError(),
		})
	}

	return table, nil
}

// Parent returns the type the table dispatches for.
func (dt *DispatchTable) Parent() reflect.Type {
	return dt.parent
}

// Keys returns the branch keys in order.
func (dt *DispatchTable) Keys() []proxytypes.DispatchKey {
	keys := make([]proxytypes.DispatchKey, len(dt.thunks))
	for i, th := range dt.thunks {
		keys[i] = th.key
	}
	return keys
}

// Signatures returns the branch signatures in order.
func (dt *DispatchTable) Signatures() []*proxytypes.Signature {
	sigs := make([]*proxytypes.Signature, len(dt.thunks))
	for i, th := range dt.thunks {
		sigs[i] = th.sig
	}
	return sigs
}

// Lookup returns the signature of the branch answering the given key.
func (dt *DispatchTable) Lookup(owner, name, signature string) (*proxytypes.Signature, bool) {
	for _, th := range dt.thunks {
		if th.key.Owner == owner && th.key.Name == name && th.key.Signature == signature {
			return th.sig, true
		}
	}
	return nil, false
}

// Accepts reports whether target can be called through the table.
func (dt *DispatchTable) Accepts(target any) bool {
	return target != nil && reflect.TypeOf(target).AssignableTo(dt.methodSet)
}

// Dispatch routes a call to the matching branch and calls it on target.
// Branches are tested in order by owner, name and signature.
func (dt *DispatchTable) Dispatch(target any, owner, name, signature string, args []any) (any, error) {
	for _, th := range dt.thunks {
		if th.key.Owner == owner && th.key.Name == name && th.key.Signature == signature {
			receiver, err := dt.receiver(target)
			if err != nil {
				return nil, err
			}
			return th.call(receiver, args)
		}
	}

	return nil, proxyutils.NewMethodNotFoundError(owner, name, signature)
}

// receiver converts target to a value of the method set type, so the
// precomputed method indices apply.
func (dt *DispatchTable) receiver(target any) (reflect.Value, error) {
	if target == nil {
		return reflect.Value{}, errors.Wrapf(proxyutils.ErrNoImplementation, "no target for %v", dt.parent)
	}

	rv := reflect.ValueOf(target)
	if !rv.Type().AssignableTo(dt.methodSet) {
		return reflect.Value{}, errors.Wrapf(proxyutils.ErrTargetMismatch, "%T is not assignable to %v", target, dt.methodSet)
	}
	if rv.Kind() == reflect.Pointer && rv.IsNil() {
		return reflect.Value{}, errors.Wrapf(proxyutils.ErrNoImplementation, "nil target for %v", dt.parent)
	}

	if dt.methodSet.Kind() == reflect.Interface {
		iv := reflect.New(dt.methodSet).Elem()
		iv.Set(rv)
		return iv, nil
	}
	return rv, nil
}

func (th *thunk) call(receiver reflect.Value, args []any) (any, error) {
	if len(args) != len(th.params) {
		return nil, errors.Wrapf(proxyutils.ErrArgumentCount, "%s: got %d, expected %d", th.sig, len(args), len(th.params))
	}

	in := make([]reflect.Value, len(args))
	for i, arg := range args {
		value, err := narrow(arg, th.params[i])
		if err != nil {
			return nil, errors.Wrapf(err, "%s: argument %d", th.sig, i)
		}
		in[i] = value
	}

	method := receiver.Method(th.index)

	var out []reflect.Value
	if th.variadic {
		out = method.CallSlice(in)
	} else {
		out = method.Call(in)
	}

	return packOutputs(out, th.returnsError)
}

// narrow converts a boxed argument to the parameter type. nil becomes the
// zero value; otherwise the value must be assignable to the parameter type.
func narrow(arg any, t reflect.Type) (reflect.Value, error) {
	if arg == nil {
		return reflect.Zero(t), nil
	}

	rv := reflect.ValueOf(arg)
	if rv.Type().AssignableTo(t) {
		return rv, nil
	}

	return reflect.Value{}, errors.Wrapf(proxyutils.ErrArgumentType, "%T is not assignable to %v", arg, t)
}

// packOutputs boxes call results: a trailing error is split off, the rest
// is packed with proxyutils.PackResults.
func packOutputs(out []reflect.Value, returnsError bool) (any, error) {
	var err error
	if returnsError {
		last := out[len(out)-1]
		if !last.IsNil() {
			err = last.Interface().(error)
		}
		out = out[:len(out)-1]
	}

	values := make([]any, len(out))
	for i, v := range out {
		values[i] = v.Interface()
	}

	return proxyutils.PackResults(values), err
}

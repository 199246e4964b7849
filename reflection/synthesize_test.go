// Copyright (c) 2025 pk910
// SPDX-License-Identifier: Apache-2.0
// This file is part of the dynamic-proxy library.

package reflection

import (
	"reflect"
	"strings"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/pk910/dynamic-proxy/proxytypes"
	"github.com/pk910/dynamic-proxy/proxyutils"
)

type KVStore interface {
	Get(key string) (string, error)
	Pair() (int, string)
	Put(key, value string)
	Sum(vals ...int) int
}

var errMissing = errors.New("missing key")

type memStore struct {
	data map[string]string
}

func (s *memStore) Get(key string) (string, error) {
	v, ok := s.data[key]
	if !ok {
		return "", errMissing
	}
	return v, nil
}

func (s *memStore) Pair() (int, string)   { return len(s.data), "entries" }
func (s *memStore) Put(key, value string) { s.data[key] = value }

func (s *memStore) Sum(vals ...int) int {
	total := 0
	for _, v := range vals {
		total += v
	}
	return total
}

type Tally struct {
	count int
}

func (t *Tally) Inc() int   { t.count++; return t.count }
func (t Tally) Value() int  { return t.count }
func (t *Tally) Set(n *int) { t.count = *n }

var (
	kvStoreType = reflect.TypeOf((*KVStore)(nil)).Elem()
	tallyType   = reflect.TypeOf(Tally{})
)

func sigOf(t reflect.Type, name string) *proxytypes.Signature {
	return proxytypes.MustSignature(t, name)
}

func dispatch(t *testing.T, dt *DispatchTable, target any, sig *proxytypes.Signature, args ...any) (any, error) {
	t.Helper()
	key := sig.DispatchKey()
	return dt.Dispatch(target, key.Owner, key.Name, key.Signature, args)
}

func TestSynthesizeInterface(t *testing.T) {
	candidates := proxytypes.ListMethods(kvStoreType)
	dt, err := Synthesize(kvStoreType, candidates)
	require.NoError(t, err)
	require.Equal(t, kvStoreType, dt.Parent())
	require.Len(t, dt.Keys(), 4)
	require.Len(t, dt.Signatures(), 4)

	for i, sig := range candidates {
		require.Equal(t, sig.DispatchKey(), dt.Keys()[i])
		found, ok := dt.Lookup(sig.OwnerDescriptor(), sig.Name, sig.Descriptor())
		require.True(t, ok)
		require.Same(t, sig, found)
	}

	_, ok := dt.Lookup(candidates[0].OwnerDescriptor(), "Get", "(T)V")
	require.False(t, ok)
}

func TestDispatchInterface(t *testing.T) {
	dt, err := Synthesize(kvStoreType, proxytypes.ListMethods(kvStoreType))
	require.NoError(t, err)

	store := &memStore{data: map[string]string{}}
	get := sigOf(kvStoreType, "Get")

	tests := []struct {
		name     string
		sig      *proxytypes.Signature
		args     []any
		expected any
		err      error
	}{
		{"void result", sigOf(kvStoreType, "Put"), []any{"a", "1"}, proxyutils.Void, nil},
		{"value and error", get, []any{"a"}, "1", nil},
		{"returned error", get, []any{"b"}, "", errMissing},
		{"tuple", sigOf(kvStoreType, "Pair"), nil, proxyutils.Tuple{1, "entries"}, nil},
		{"variadic", sigOf(kvStoreType, "Sum"), []any{[]int{1, 2, 3}}, 6, nil},
		{"nil variadic", sigOf(kvStoreType, "Sum"), []any{nil}, 0, nil},
		{"nil argument", get, []any{nil}, "", errMissing},
		{"argument count", get, []any{"a", "b"}, nil, proxyutils.ErrArgumentCount},
		{"argument type", get, []any{5}, nil, proxyutils.ErrArgumentType},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			res, err := dispatch(t, dt, store, test.sig, test.args...)
			if test.err != nil {
				require.ErrorIs(t, err, test.err)
			} else {
				require.NoError(t, err)
			}
			require.Equal(t, test.expected, res)
		})
	}
}

func TestDispatchTargets(t *testing.T) {
	dt, err := Synthesize(kvStoreType, proxytypes.ListMethods(kvStoreType))
	require.NoError(t, err)
	pair := sigOf(kvStoreType, "Pair")

	var nilStore *memStore
	require.True(t, dt.Accepts(&memStore{}))
	require.False(t, dt.Accepts(memStore{}))
	require.False(t, dt.Accepts(nil))

	_, err = dispatch(t, dt, nil, pair)
	require.ErrorIs(t, err, proxyutils.ErrNoImplementation)

	_, err = dispatch(t, dt, nilStore, pair)
	require.ErrorIs(t, err, proxyutils.ErrNoImplementation)

	_, err = dispatch(t, dt, "not a store", pair)
	require.ErrorIs(t, err, proxyutils.ErrTargetMismatch)

	_, err = dt.Dispatch(&memStore{}, pair.OwnerDescriptor(), "Pair", "(N)V", nil)
	require.ErrorIs(t, err, proxyutils.ErrMethodNotFound)
}

func TestDispatchStruct(t *testing.T) {
	dt, err := Synthesize(tallyType, proxytypes.ListMethods(tallyType))
	require.NoError(t, err)

	tally := &Tally{}
	res, err := dispatch(t, dt, tally, sigOf(tallyType, "Inc"))
	require.NoError(t, err)
	require.Equal(t, 1, res)

	n := 10
	res, err = dispatch(t, dt, tally, sigOf(tallyType, "Set"), &n)
	require.NoError(t, err)
	require.True(t, proxyutils.IsVoid(res))

	res, err = dispatch(t, dt, tally, sigOf(tallyType, "Value"))
	require.NoError(t, err)
	require.Equal(t, 10, res)

	require.False(t, dt.Accepts(Tally{}))
	_, err = dispatch(t, dt, Tally{}, sigOf(tallyType, "Value"))
	require.ErrorIs(t, err, proxyutils.ErrTargetMismatch)
}

func TestSynthesizeErrors(t *testing.T) {
	_, err := Synthesize(reflect.TypeOf(0), nil)
	require.ErrorIs(t, err, proxyutils.ErrParentNotConstructible)

	_, err = Synthesize(kvStoreType, []*proxytypes.Signature{sigOf(tallyType, "Inc")})
	require.ErrorIs(t, err, proxyutils.ErrMethodNotFound)

	// same name, different parameters
	_, err = Synthesize(kvStoreType, []*proxytypes.Signature{proxytypes.MustNewSignature("Get", reflect.TypeOf(0))})
	require.ErrorIs(t, err, proxyutils.ErrMethodNotFound)
}

func TestReflectionCtxLogging(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)

	ctx := NewReflectionCtx(zap.New(core), true)
	_, err := ctx.Synthesize(tallyType, proxytypes.ListMethods(tallyType))
	require.NoError(t, err)

	entries := logs.FilterMessage("synthesized dispatch branch").All()
	require.Len(t, entries, 3)
	require.Equal(t, "Inc", entries[0].ContextMap()["name"])
	require.True(t, strings.HasSuffix(entries[0].ContextMap()["owner"].(string), ".Tally;"))

	quiet, logs := observer.New(zapcore.DebugLevel)
	_, err = NewReflectionCtx(zap.New(quiet), false).Synthesize(tallyType, proxytypes.ListMethods(tallyType))
	require.NoError(t, err)
	require.Equal(t, 0, logs.Len())

	_, err = NewReflectionCtx(nil, true).Synthesize(reflect.TypeOf(""), nil)
	require.Error(t, err)
}

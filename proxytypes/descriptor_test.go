// Copyright (c) 2025 pk910
// SPDX-License-Identifier: Apache-2.0
// This file is part of the dynamic-proxy library.

package proxytypes

import (
	"reflect"
	"testing"
	"unsafe"

	"github.com/stretchr/testify/require"

	"github.com/pk910/dynamic-proxy/proxyutils"
)

type descTestKey string

type descTestRecord struct {
	ID   int
	Tags []string
}

func TestDescribe(t *testing.T) {
	tests := []struct {
		name     string
		typ      reflect.Type
		expected string
	}{
		{"bool", reflect.TypeOf(false), "Z"},
		{"int", reflect.TypeOf(0), "N"},
		{"uint32", reflect.TypeOf(uint32(0)), "i"},
		{"byte", reflect.TypeOf(byte(0)), "b"},
		{"rune", reflect.TypeOf(rune(0)), "I"},
		{"string", reflect.TypeOf(""), "T"},
		{"complex128", reflect.TypeOf(complex128(0)), "C"},
		{"any", anyType, "A"},
		{"unsafe pointer", reflect.TypeOf(unsafe.Pointer(nil)), "U"},
		{"error", errorType, "Lerror;"},
		{"byte slice", reflect.TypeOf([]byte{}), "[b"},
		{"nested slice", reflect.TypeOf([][]int64{}), "[[J"},
		{"array", reflect.TypeOf([4]uint16{}), "[4]s"},
		{"matrix", reflect.TypeOf([2][3]float32{}), "[2][3]F"},
		{"pointer", reflect.TypeOf((*int)(nil)), "*N"},
		{"map", reflect.TypeOf(map[string][]byte{}), "MT[b"},
		{"recv chan", reflect.TypeOf((<-chan int)(nil)), "<N"},
		{"send chan", reflect.TypeOf((chan<- string)(nil)), ">T"},
		{"chan", reflect.TypeOf((chan bool)(nil)), "=Z"},
		{"func", reflect.TypeOf(func(int, ...string) (bool, error) { return false, nil }), "(N.[T)(ZLerror;)"},
		{"named string", reflect.TypeOf(descTestKey("")), "Lgithub.com/pk910/dynamic-proxy/proxytypes.descTestKey;"},
		{"named struct pointer", reflect.TypeOf(&descTestRecord{}), "*Lgithub.com/pk910/dynamic-proxy/proxytypes.descTestRecord;"},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			desc, err := Describe(test.typ)
			require.NoError(t, err)
			require.Equal(t, test.expected, desc)

			decoded, err := Decode(desc)
			require.NoError(t, err)
			require.Equal(t, test.typ, decoded)
		})
	}
}

func TestDescribeUnsupported(t *testing.T) {
	tests := []struct {
		name string
		typ  reflect.Type
	}{
		{"nil", nil},
		{"anonymous struct", reflect.TypeOf(struct{ A int }{})},
		{"anonymous interface", reflect.TypeOf((*interface{ Run() })(nil)).Elem()},
		{"slice of anonymous struct", reflect.TypeOf([]struct{}{})},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, err := Describe(test.typ)
			require.ErrorIs(t, err, proxyutils.ErrUnsupportedType)
			require.Panics(t, func() { MustDescribe(test.typ) })
		})
	}
}

func localIntType() reflect.Type {
	type descLocal int
	return reflect.TypeOf(descLocal(0))
}

func localStringType() reflect.Type {
	type descLocal string
	return reflect.TypeOf(descLocal(""))
}

func TestDescribeSharedTypeName(t *testing.T) {
	intType, stringType := localIntType(), localStringType()
	require.NotEqual(t, intType, stringType)

	desc, err := Describe(intType)
	require.NoError(t, err)
	decoded, err := Decode(desc)
	require.NoError(t, err)
	require.Equal(t, intType, decoded)

	_, err = Describe(stringType)
	require.ErrorIs(t, err, proxyutils.ErrUnsupportedType)
	_, err = Describe(reflect.SliceOf(stringType))
	require.ErrorIs(t, err, proxyutils.ErrUnsupportedType)

	_, err = NewSignature("Do", stringType)
	require.ErrorIs(t, err, proxyutils.ErrUnsupportedType)

	again, err := Describe(intType)
	require.NoError(t, err)
	require.Equal(t, desc, again)
}

func TestDescribeMethod(t *testing.T) {
	bytesType := reflect.TypeOf([]byte{})
	stringType := reflect.TypeOf("")

	desc, err := DescribeMethod([]reflect.Type{stringType}, []reflect.Type{bytesType, errorType}, false)
	require.NoError(t, err)
	require.Equal(t, "(T)[bLerror;", desc)

	desc, err = DescribeMethod(nil, nil, false)
	require.NoError(t, err)
	require.Equal(t, "()V", desc)

	desc, err = DescribeMethod([]reflect.Type{stringType, reflect.TypeOf([]int{})}, []reflect.Type{reflect.TypeOf(0)}, true)
	require.NoError(t, err)
	require.Equal(t, "(T.[N)N", desc)

	_, err = DescribeMethod([]reflect.Type{stringType}, nil, true)
	require.ErrorIs(t, err, proxyutils.ErrUnsupportedType)
}

func TestDecodeMethod(t *testing.T) {
	params, results, variadic, err := DecodeMethod("(T.[N)[bLerror;")
	require.NoError(t, err)
	require.True(t, variadic)
	require.Equal(t, []reflect.Type{reflect.TypeOf(""), reflect.TypeOf([]int{})}, params)
	require.Equal(t, []reflect.Type{reflect.TypeOf([]byte{}), errorType}, results)

	params, results, variadic, err = DecodeMethod("()V")
	require.NoError(t, err)
	require.False(t, variadic)
	require.Empty(t, params)
	require.Empty(t, results)
}

func TestDecodeErrors(t *testing.T) {
	tests := []struct {
		name     string
		desc     string
		expected error
	}{
		{"empty", "", proxyutils.ErrInvalidDescriptor},
		{"unknown code", "X", proxyutils.ErrInvalidDescriptor},
		{"trailing data", "NN", proxyutils.ErrInvalidDescriptor},
		{"unterminated name", "Lfoo.Bar", proxyutils.ErrInvalidDescriptor},
		{"unknown name", "Lexample.com/nothing.Here;", proxyutils.ErrUnknownType},
		{"missing array bracket", "[4N", proxyutils.ErrInvalidDescriptor},
		{"uncomparable map key", "M[NT", proxyutils.ErrInvalidDescriptor},
		{"func without results", "(N)", proxyutils.ErrInvalidDescriptor},
		{"variadic not last", "(.[NT)()", proxyutils.ErrInvalidDescriptor},
		{"variadic not slice", "(.N)()", proxyutils.ErrInvalidDescriptor},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, err := Decode(test.desc)
			require.ErrorIs(t, err, test.expected)
		})
	}

	t.Run("method without results", func(t *testing.T) {
		_, _, _, err := DecodeMethod("(N)")
		require.ErrorIs(t, err, proxyutils.ErrInvalidDescriptor)
	})
	t.Run("method without params", func(t *testing.T) {
		_, _, _, err := DecodeMethod("N")
		require.ErrorIs(t, err, proxyutils.ErrInvalidDescriptor)
	})
}

func TestTypeRegistry(t *testing.T) {
	r := NewTypeRegistry()
	keyType := reflect.TypeOf(descTestKey(""))

	_, err := r.Decode("Lgithub.com/pk910/dynamic-proxy/proxytypes.descTestKey;")
	require.ErrorIs(t, err, proxyutils.ErrUnknownType)

	require.NoError(t, r.Register(keyType))
	require.NoError(t, r.Register(keyType))

	decoded, err := r.Decode("*Lgithub.com/pk910/dynamic-proxy/proxytypes.descTestKey;")
	require.NoError(t, err)
	require.Equal(t, reflect.PointerTo(keyType), decoded)

	errType, ok := r.Lookup("error")
	require.True(t, ok)
	require.Equal(t, errorType, errType)

	require.Equal(t, []string{"error", "github.com/pk910/dynamic-proxy/proxytypes.descTestKey"}, r.Names())

	err = r.Register(reflect.TypeOf([]int{}))
	require.ErrorIs(t, err, proxyutils.ErrUnsupportedType)

	require.NoError(t, r.remember(localIntType()))
	require.NoError(t, r.remember(localIntType()))
	require.ErrorIs(t, r.remember(localStringType()), proxyutils.ErrUnsupportedType)
	require.Error(t, r.Register(localStringType()))
}

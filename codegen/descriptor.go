// Copyright (c) 2025 pk910
// SPDX-License-Identifier: Apache-2.0
// This file is part of the dynamic-proxy library.

package codegen

import (
	"go/types"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/pk910/dynamic-proxy/proxyutils"
)

var basicCodes = map[types.BasicKind]byte{
	types.Bool:          'Z',
	types.Int8:          'B',
	types.Int16:         'S',
	types.Int32:         'I',
	types.Int64:         'J',
	types.Int:           'N',
	types.Uint8:         'b',
	types.Uint16:        's',
	types.Uint32:        'i',
	types.Uint64:        'j',
	types.Uint:          'n',
	types.Uintptr:       'P',
	types.Float32:       'F',
	types.Float64:       'D',
	types.Complex64:     'c',
	types.Complex128:    'C',
	types.String:        'T',
	types.UnsafePointer: 'U',
}

// DescribeGoType renders the descriptor of a go/types type. It produces the
// same descriptors as proxytypes.Describe does for the corresponding
// reflect.Type, so generated dispatch branches match runtime signatures.
func DescribeGoType(t types.Type) (string, error) {
	b := strings.Builder{}
	if err := writeGoDescriptor(&b, t); err != nil {
		return "", err
	}
	return b.String(), nil
}

// DescribeGoMethod renders a method descriptor from a go/types signature.
func DescribeGoMethod(sig *types.Signature) (string, error) {
	b := strings.Builder{}
	if err := writeGoParams(&b, sig.Params(), sig.Variadic()); err != nil {
		return "", err
	}

	if sig.Results().Len() == 0 {
		b.WriteByte('V')
		return b.String(), nil
	}
	for i := 0; i < sig.Results().Len(); i++ {
		if err := writeGoDescriptor(&b, sig.Results().At(i).Type()); err != nil {
			return "", err
		}
	}
	return b.String(), nil
}

func writeGoParams(b *strings.Builder, params *types.Tuple, variadic bool) error {
	b.WriteByte('(')
	for i := 0; i < params.Len(); i++ {
		if variadic && i == params.Len()-1 {
			b.WriteByte('.')
		}
		if err := writeGoDescriptor(b, params.At(i).Type()); err != nil {
			return err
		}
	}
	b.WriteByte(')')
	return nil
}

func writeGoDescriptor(b *strings.Builder, t types.Type) error {
	t = types.Unalias(t)

	switch tt := t.(type) {
	case *types.Basic:
		code, ok := basicCodes[tt.Kind()]
		if !ok {
			return errors.Wrapf(proxyutils.ErrUnsupportedType, "%v has no descriptor", t)
		}
		b.WriteByte(code)
		return nil

	case *types.Named:
		obj := tt.Obj()
		if tt.TypeArgs().Len() > 0 || tt.TypeParams().Len() > 0 {
			return errors.Wrapf(proxyutils.ErrUnsupportedType, "generic type %v", t)
		}
		b.WriteByte('L')
		if obj.Pkg() != nil {
			b.WriteString(obj.Pkg().Path())
			b.WriteByte('.')
		}
		b.WriteString(obj.Name())
		b.WriteByte(';')
		return nil

	case *types.Pointer:
		b.WriteByte('*')
		return writeGoDescriptor(b, tt.Elem())

	case *types.Slice:
		b.WriteByte('[')
		return writeGoDescriptor(b, tt.Elem())

	case *types.Array:
		b.WriteByte('[')
		b.WriteString(strconv.FormatInt(tt.Len(), 10))
		b.WriteByte(']')
		return writeGoDescriptor(b, tt.Elem())

	case *types.Map:
		b.WriteByte('M')
		if err := writeGoDescriptor(b, tt.Key()); err != nil {
			return err
		}
		return writeGoDescriptor(b, tt.Elem())

	case *types.Chan:
		switch tt.Dir() {
		case types.RecvOnly:
			b.WriteByte('<')
		case types.SendOnly:
			b.WriteByte('>')
		default:
			b.WriteByte('=')
		}
		return writeGoDescriptor(b, tt.Elem())

	case *types.Signature:
		if err := writeGoParams(b, tt.Params(), tt.Variadic()); err != nil {
			return err
		}
		b.WriteByte('(')
		for i := 0; i < tt.Results().Len(); i++ {
			if err := writeGoDescriptor(b, tt.Results().At(i).Type()); err != nil {
				return err
			}
		}
		b.WriteByte(')')
		return nil

	case *types.Interface:
		if tt.Empty() {
			b.WriteByte('A')
			return nil
		}
	}

	return errors.Wrapf(proxyutils.ErrUnsupportedType, "%v has no descriptor", t)
}

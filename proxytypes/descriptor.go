// Copyright (c) 2025 pk910
// SPDX-License-Identifier: Apache-2.0
// This file is part of the dynamic-proxy library.

package proxytypes

import (
	"reflect"
	"strconv"
	"strings"
	"unsafe"

	"github.com/cockroachdb/errors"

	"github.com/pk910/dynamic-proxy/proxyutils"
)

var (
	anyType           = reflect.TypeOf((*any)(nil)).Elem()
	errorType         = reflect.TypeOf((*error)(nil)).Elem()
	unsafePointerType = reflect.TypeOf(unsafe.Pointer(nil))
)

// primitive descriptor codes, one character per predeclared basic type
var primitiveCodes = map[reflect.Kind]byte{
	reflect.Bool:       'Z',
	reflect.Int8:       'B',
	reflect.Int16:      'S',
	reflect.Int32:      'I',
	reflect.Int64:      'J',
	reflect.Int:        'N',
	reflect.Uint8:      'b',
	reflect.Uint16:     's',
	reflect.Uint32:     'i',
	reflect.Uint64:     'j',
	reflect.Uint:       'n',
	reflect.Uintptr:    'P',
	reflect.Float32:    'F',
	reflect.Float64:    'D',
	reflect.Complex64:  'c',
	reflect.Complex128: 'C',
	reflect.String:     'T',
}

var primitiveTypes = map[byte]reflect.Type{
	'Z': reflect.TypeOf(false),
	'B': reflect.TypeOf(int8(0)),
	'S': reflect.TypeOf(int16(0)),
	'I': reflect.TypeOf(int32(0)),
	'J': reflect.TypeOf(int64(0)),
	'N': reflect.TypeOf(int(0)),
	'b': reflect.TypeOf(uint8(0)),
	's': reflect.TypeOf(uint16(0)),
	'i': reflect.TypeOf(uint32(0)),
	'j': reflect.TypeOf(uint64(0)),
	'n': reflect.TypeOf(uint(0)),
	'P': reflect.TypeOf(uintptr(0)),
	'F': reflect.TypeOf(float32(0)),
	'D': reflect.TypeOf(float64(0)),
	'c': reflect.TypeOf(complex64(0)),
	'C': reflect.TypeOf(complex128(0)),
	'T': reflect.TypeOf(""),
	'U': unsafePointerType,
	'A': anyType,
}

// Describe returns the compact descriptor of a type.
//
// Predeclared basic types map to a single character, named types to
// L<pkgpath>.<Name>; and composite types to a prefix followed by the
// descriptors of their element types. Slices prepend one '[' per dimension.
// Named types seen by Describe are remembered in DefaultRegistry so the
// descriptor can be decoded again later in the same process.
//
// Unnamed struct types and unnamed interfaces with methods have no
// descriptor and fail with ErrUnsupportedType.
func Describe(t reflect.Type) (string, error) {
	b := strings.Builder{}
	if err := writeDescriptor(&b, t); err != nil {
		return "", err
	}
	return b.String(), nil
}

// MustDescribe is like Describe but panics on unsupported types.
func MustDescribe(t reflect.Type) string {
	desc, err := Describe(t)
	if err != nil {
		panic(err)
	}
	return desc
}

// DescribeMethod composes a method descriptor: (<params>)<results>, with V
// standing in for an empty result list.
func DescribeMethod(params, results []reflect.Type, variadic bool) (string, error) {
	b := strings.Builder{}
	if err := writeParams(&b, params, variadic); err != nil {
		return "", err
	}

	if len(results) == 0 {
		b.WriteByte('V')
		return b.String(), nil
	}

	for _, r := range results {
		if err := writeDescriptor(&b, r); err != nil {
			return "", err
		}
	}
	return b.String(), nil
}

// DescribeParams composes the parameter part of a method descriptor only.
// This is the part that takes part in signature identity.
func DescribeParams(params []reflect.Type, variadic bool) (string, error) {
	b := strings.Builder{}
	if err := writeParams(&b, params, variadic); err != nil {
		return "", err
	}
	return b.String(), nil
}

func writeParams(b *strings.Builder, params []reflect.Type, variadic bool) error {
	b.WriteByte('(')
	for i, p := range params {
		if variadic && i == len(params)-1 {
			if p.Kind() != reflect.Slice {
				return errors.Wrapf(proxyutils.ErrUnsupportedType, "variadic parameter %v is not a slice", p)
			}
			b.WriteByte('.')
		}
		if err := writeDescriptor(b, p); err != nil {
			return err
		}
	}
	b.WriteByte(')')
	return nil
}

func writeDescriptor(b *strings.Builder, t reflect.Type) error {
	if t == nil {
		return errors.Wrap(proxyutils.ErrUnsupportedType, "nil type")
	}

	if t == unsafePointerType {
		b.WriteByte('U')
		return nil
	}

	if t.Name() != "" {
		if t.PkgPath() == "" {
			if code, ok := primitiveCodes[t.Kind()]; ok {
				b.WriteByte(code)
				return nil
			}
		}

		if err := DefaultRegistry.remember(t); err != nil {
			return err
		}
		b.WriteByte('L')
		b.WriteString(qualifiedName(t))
		b.WriteByte(';')
		return nil
	}

	switch t.Kind() {
	case reflect.Pointer:
		b.WriteByte('*')
		return writeDescriptor(b, t.Elem())
	case reflect.Slice:
		b.WriteByte('[')
		return writeDescriptor(b, t.Elem())
	case reflect.Array:
		b.WriteByte('[')
		b.WriteString(strconv.Itoa(t.Len()))
		b.WriteByte(']')
		return writeDescriptor(b, t.Elem())
	case reflect.Map:
		b.WriteByte('M')
		if err := writeDescriptor(b, t.Key()); err != nil {
			return err
		}
		return writeDescriptor(b, t.Elem())
	case reflect.Chan:
		switch t.ChanDir() {
		case reflect.RecvDir:
			b.WriteByte('<')
		case reflect.SendDir:
			b.WriteByte('>')
		default:
			b.WriteByte('=')
		}
		return writeDescriptor(b, t.Elem())
	case reflect.Func:
		params := make([]reflect.Type, t.NumIn())
		for i := range params {
			params[i] = t.In(i)
		}
		if err := writeParams(b, params, t.IsVariadic()); err != nil {
			return err
		}
		b.WriteByte('(')
		for i := 0; i < t.NumOut(); i++ {
			if err := writeDescriptor(b, t.Out(i)); err != nil {
				return err
			}
		}
		b.WriteByte(')')
		return nil
	case reflect.Interface:
		if t.NumMethod() == 0 {
			b.WriteByte('A')
			return nil
		}
	}

	return errors.Wrapf(proxyutils.ErrUnsupportedType, "%v has no descriptor", t)
}

func qualifiedName(t reflect.Type) string {
	if t.PkgPath() == "" {
		return t.Name()
	}
	return t.PkgPath() + "." + t.Name()
}

// Decode resolves a type descriptor back to its type using DefaultRegistry.
func Decode(desc string) (reflect.Type, error) {
	return DefaultRegistry.Decode(desc)
}

// DecodeMethod splits a method descriptor into its parameter and result
// types using DefaultRegistry.
func DecodeMethod(desc string) (params, results []reflect.Type, variadic bool, err error) {
	return DefaultRegistry.DecodeMethod(desc)
}

// Decode resolves a type descriptor back to its type. Named types are
// looked up in the registry.
func (r *TypeRegistry) Decode(desc string) (reflect.Type, error) {
	d := &descriptorReader{src: desc, registry: r}
	t, err := d.readType()
	if err != nil {
		return nil, err
	}
	if d.pos != len(d.src) {
		return nil, d.fail("trailing data")
	}
	return t, nil
}

// DecodeMethod splits a method descriptor into its parameter and result types.
func (r *TypeRegistry) DecodeMethod(desc string) (params, results []reflect.Type, variadic bool, err error) {
	d := &descriptorReader{src: desc, registry: r}
	if !d.consume('(') {
		return nil, nil, false, d.fail("expected '('")
	}

	params, variadic, err = d.readParams()
	if err != nil {
		return nil, nil, false, err
	}

	if d.src[d.pos:] == "V" {
		return params, nil, variadic, nil
	}

	for d.pos < len(d.src) {
		res, err := d.readType()
		if err != nil {
			return nil, nil, false, err
		}
		results = append(results, res)
	}
	if len(results) == 0 {
		return nil, nil, false, d.fail("missing result descriptor")
	}

	return params, results, variadic, nil
}

type descriptorReader struct {
	src      string
	pos      int
	registry *TypeRegistry
}

func (d *descriptorReader) fail(reason string) error {
	return errors.Wrapf(proxyutils.ErrInvalidDescriptor, "%s at offset %d in %q", reason, d.pos, d.src)
}

func (d *descriptorReader) consume(c byte) bool {
	if d.pos < len(d.src) && d.src[d.pos] == c {
		d.pos++
		return true
	}
	return false
}

func (d *descriptorReader) readParams() ([]reflect.Type, bool, error) {
	params := []reflect.Type{}
	variadic := false

	for {
		if d.pos >= len(d.src) {
			return nil, false, d.fail("unterminated parameter list")
		}
		if d.consume(')') {
			return params, variadic, nil
		}
		if variadic {
			return nil, false, d.fail("variadic parameter must be last")
		}
		if d.consume('.') {
			variadic = true
		}

		p, err := d.readType()
		if err != nil {
			return nil, false, err
		}
		if variadic && p.Kind() != reflect.Slice {
			return nil, false, d.fail("variadic parameter is not a slice")
		}
		params = append(params, p)
	}
}

func (d *descriptorReader) readType() (reflect.Type, error) {
	if d.pos >= len(d.src) {
		return nil, d.fail("unexpected end")
	}

	c := d.src[d.pos]
	d.pos++

	if t, ok := primitiveTypes[c]; ok {
		return t, nil
	}

	switch c {
	case '*':
		elem, err := d.readType()
		if err != nil {
			return nil, err
		}
		return reflect.PointerTo(elem), nil

	case '[':
		start := d.pos
		for d.pos < len(d.src) && d.src[d.pos] >= '0' && d.src[d.pos] <= '9' {
			d.pos++
		}
		if d.pos == start {
			elem, err := d.readType()
			if err != nil {
				return nil, err
			}
			return reflect.SliceOf(elem), nil
		}

		length, err := strconv.Atoi(d.src[start:d.pos])
		if err != nil {
			return nil, d.fail("invalid array length")
		}
		if !d.consume(']') {
			return nil, d.fail("expected ']'")
		}
		elem, err := d.readType()
		if err != nil {
			return nil, err
		}
		return reflect.ArrayOf(length, elem), nil

	case 'M':
		key, err := d.readType()
		if err != nil {
			return nil, err
		}
		if !key.Comparable() {
			return nil, d.fail("map key is not comparable")
		}
		elem, err := d.readType()
		if err != nil {
			return nil, err
		}
		return reflect.MapOf(key, elem), nil

	case '<', '>', '=':
		dir := reflect.BothDir
		if c == '<' {
			dir = reflect.RecvDir
		} else if c == '>' {
			dir = reflect.SendDir
		}
		elem, err := d.readType()
		if err != nil {
			return nil, err
		}
		return reflect.ChanOf(dir, elem), nil

	case '(':
		params, variadic, err := d.readParams()
		if err != nil {
			return nil, err
		}
		if !d.consume('(') {
			return nil, d.fail("expected result list")
		}
		results := []reflect.Type{}
		for !d.consume(')') {
			res, err := d.readType()
			if err != nil {
				return nil, err
			}
			results = append(results, res)
		}
		return reflect.FuncOf(params, results, variadic), nil

	case 'L':
		end := strings.IndexByte(d.src[d.pos:], ';')
		if end <= 0 {
			return nil, d.fail("unterminated type name")
		}
		name := d.src[d.pos : d.pos+end]
		d.pos += end + 1

		t, ok := d.registry.Lookup(name)
		if !ok {
			return nil, errors.Wrapf(proxyutils.ErrUnknownType, "%s", name)
		}
		return t, nil
	}

	d.pos--
	return nil, d.fail("unknown descriptor code")
}

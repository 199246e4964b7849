// Copyright (c) 2025 pk910
// SPDX-License-Identifier: Apache-2.0
// This file is part of the dynamic-proxy library.

package dynproxy

import (
	"fmt"
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

type Notifier interface {
	Notify(msg string) error
	Sent() int
}

type notifierImpl struct {
	sent []string
}

func (n *notifierImpl) Notify(msg string) error {
	if msg == "" {
		return errors.New("empty message")
	}
	n.sent = append(n.sent, msg)
	return nil
}

func (n *notifierImpl) Sent() int { return len(n.sent) }

type Meter struct {
	Count int
}

func (m *Meter) Mark(n int) int { m.Count += n; return m.Count }
func (m *Meter) Total() int     { return m.Count }

type ReservedNotifier interface {
	Notify(msg string) error
	ProxyTarget() any
}

type hiddenNotifier interface {
	Notify(msg string) error
}

type Number int

var (
	notifierType = reflect.TypeOf((*Notifier)(nil)).Elem()
	meterType    = reflect.TypeOf(Meter{})
	sigNotify    = proxytypes.MustSignature(notifierType, "Notify")
	sigSent      = proxytypes.MustSignature(notifierType, "Sent")
)

// countingInterception counts calls and continues with next.
type countingInterception struct {
	calls []string
}

func (c *countingInterception) Invoke(target any, args []any, sig *proxytypes.Signature, next proxytypes.Invoker) (any, error) {
	c.calls = append(c.calls, sig.Name)
	if next == nil {
		return proxyutils.Void, nil
	}
	return next()
}

func constInterception(value any) proxytypes.Interception {
	return proxytypes.InterceptionFunc(func(target any, args []any, sig *proxytypes.Signature, next proxytypes.Invoker) (any, error) {
		return value, nil
	})
}

func buildDynamic(t *testing.T, b *Builder) *Dynamic {
	t.Helper()
	instance, err := BuildAs[*Dynamic](b)
	require.NoError(t, err)
	return instance
}

func TestCreateBuilderValidation(t *testing.T) {
	tests := []struct {
		name   string
		parent reflect.Type
		err    error
	}{
		{"nil", nil, proxyutils.ErrParentNotConstructible},
		{"unexported", reflect.TypeOf((*hiddenNotifier)(nil)).Elem(), proxyutils.ErrParentNotPublic},
		{"anonymous", reflect.TypeOf((*interface{ Run() })(nil)).Elem(), proxyutils.ErrParentNotPublic},
		{"predeclared", reflect.TypeOf(""), proxyutils.ErrParentNotPublic},
		{"not constructible", reflect.TypeOf(Number(0)), proxyutils.ErrParentNotConstructible},
		{"reserved method", reflect.TypeOf((*ReservedNotifier)(nil)).Elem(), proxyutils.ErrReservedMethod},
	}

	dp := NewDynProxy()
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, err := dp.CreateBuilder(test.parent)
			require.ErrorIs(t, err, test.err)
		})
	}

	t.Run("struct pointer is normalized", func(t *testing.T) {
		b, err := dp.CreateBuilder(reflect.TypeOf(&Meter{}))
		require.NoError(t, err)
		require.Equal(t, meterType, b.Parent())
		require.Len(t, b.Methods(), 2)
	})
}

func TestBuilderRegistrationErrors(t *testing.T) {
	dp := NewDynProxy()

	tests := []struct {
		name  string
		apply func(b *Builder) *Builder
		err   error
	}{
		{
			name: "unknown signature",
			apply: func(b *Builder) *Builder {
				return b.ProxyMethod(proxytypes.MustNewSignature("Notify", reflect.TypeOf(0)), proxytypes.PassThrough)
			},
			err: proxyutils.ErrMethodNotFound,
		},
		{
			name: "unknown name",
			apply: func(b *Builder) *Builder {
				return b.ProxyMethodByName("Missing", proxytypes.PassThrough)
			},
			err: proxyutils.ErrMethodNotFound,
		},
		{
			name: "invalid selector",
			apply: func(b *Builder) *Builder {
				return b.FilterExpr(`name ==`, proxytypes.PassThrough)
			},
			err: proxyutils.ErrInvalidSelector,
		},
		{
			name: "not an interface",
			apply: func(b *Builder) *Builder {
				return b.Interfaces(meterType)
			},
			err: proxyutils.ErrNotAnInterface,
		},
		{
			name: "first error wins",
			apply: func(b *Builder) *Builder {
				return b.ProxyMethodByName("Missing", proxytypes.PassThrough).Interfaces(nil)
			},
			err: proxyutils.ErrMethodNotFound,
		},
		{
			name: "target mismatch",
			apply: func(b *Builder) *Builder {
				return b.Target("not a notifier")
			},
			err: proxyutils.ErrTargetMismatch,
		},
		{
			name: "exposed interface not implemented",
			apply: func(b *Builder) *Builder {
				return b.Interfaces(notifierType)
			},
			err: proxyutils.ErrInterfaceMismatch,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			b, err := dp.CreateBuilder(notifierType)
			require.NoError(t, err)

			_, err = test.apply(b).Build()
			require.ErrorIs(t, err, test.err)
		})
	}

	t.Run("missing interception", func(t *testing.T) {
		b, err := dp.CreateBuilder(notifierType)
		require.NoError(t, err)
		_, err = b.ProxyMethod(sigNotify, nil).Build()
		require.Error(t, err)
	})
}

func TestBuilderTable(t *testing.T) {
	dp := NewDynProxy()
	b, err := dp.CreateBuilder(notifierType)
	require.NoError(t, err)

	b.FilterExpr(`returnsError`, proxytypes.PassThrough)
	require.Equal(t, "Notify(T)", b.Interceptions().Mapping())

	b.FilterMethod(func(sig *proxytypes.Signature) proxytypes.Interception {
		if sig.Name == "Sent" {
			return proxytypes.PassThrough
		}
		return nil
	})
	b.ProxyMethodByName("String", proxytypes.PassThrough)
	require.Equal(t, "Notify(T),Sent(),String()", b.Interceptions().Mapping())

	// the returned table is a copy
	b.Interceptions().Put(proxytypes.SigHash, proxytypes.PassThrough)
	require.Equal(t, 3, b.Interceptions().Len())
}

func TestDynamicCall(t *testing.T) {
	dp := NewDynProxy()
	impl := &notifierImpl{}
	counter := &countingInterception{}

	instance, err := dp.Wrap(notifierType, impl, counter)
	require.NoError(t, err)
	d := instance.(*Dynamic)

	res, err := d.Call("Notify", "hello")
	require.NoError(t, err)
	require.True(t, proxyutils.IsVoid(res))

	_, err = d.Call("Notify", "")
	require.EqualError(t, err, "empty message")

	res, err = d.Invoke(sigSent)
	require.NoError(t, err)
	require.Equal(t, 1, res)

	res, err = d.Invoke(proxytypes.MustNewSignature("Notify", reflect.TypeOf("")), "again")
	require.NoError(t, err)
	require.True(t, proxyutils.IsVoid(res))

	require.Equal(t, []string{"Notify", "Notify", "Sent", "Notify"}, counter.calls)
	require.Equal(t, []string{"hello", "again"}, impl.sent)

	_, err = d.Call("Missing")
	require.ErrorIs(t, err, proxyutils.ErrMethodNotFound)
	_, err = d.Invoke(proxytypes.MustNewSignature("Sent", reflect.TypeOf(0)))
	require.ErrorIs(t, err, proxyutils.ErrMethodNotFound)
	_, err = d.Call("Notify", 42)
	require.ErrorIs(t, err, proxyutils.ErrArgumentType)

	require.Equal(t, impl, d.ProxyTarget())
	require.Equal(t, notifierType, d.ProxyTargetType())
	require.Equal(t, proxytypes.BackendRuntime, d.ProxyUnit().Backend)
	require.Equal(t, "github.com/pk910/dynamic-proxy.Notifier$Dynamic", d.ProxyUnit().Name)
}

func TestDynamicBareProxy(t *testing.T) {
	dp := NewDynProxy()

	instance, err := dp.Create(notifierType, constInterception(7))
	require.NoError(t, err)
	d := instance.(*Dynamic)

	res, err := d.Call("Sent")
	require.NoError(t, err)
	require.Equal(t, 7, res)
	require.Nil(t, d.ProxyTarget())

	instance, err = dp.CreateWithTable(notifierType, map[*proxytypes.Signature]proxytypes.Interception{
		sigNotify: constInterception(nil),
	})
	require.NoError(t, err)
	d = instance.(*Dynamic)

	res, err = d.Call("Notify", "x")
	require.NoError(t, err)
	require.Nil(t, res)

	_, err = d.Call("Sent")
	require.ErrorIs(t, err, proxyutils.ErrNoImplementation)
}

func TestDynamicUniversalMethods(t *testing.T) {
	dp := NewDynProxy()

	b, err := dp.CreateBuilder(notifierType)
	require.NoError(t, err)
	d1 := buildDynamic(t, b.Target(&notifierImpl{}))
	d2 := buildDynamic(t, b)

	s, err := d1.Call("String")
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(s.(string), "dynproxy.Notifier$Proxy@"), s)
	require.Equal(t, s, d1.String())
	require.Equal(t, s, fmt.Sprint(d1))
	require.NotEqual(t, d1.String(), d2.String())

	eq, err := d1.Call("Equal", d1)
	require.NoError(t, err)
	require.Equal(t, true, eq)
	require.False(t, d1.Equal(d2))

	h, err := d1.Invoke(proxytypes.SigHash)
	require.NoError(t, err)
	require.Equal(t, d1.Hash(), h)

	// Clone has no default and the parent does not declare it
	_, err = d1.Call("Clone")
	require.ErrorIs(t, err, proxyutils.ErrMethodNotFound)

	b.ProxyMethod(proxytypes.SigString, constInterception("custom"))
	d3 := buildDynamic(t, b)
	require.Equal(t, "custom", d3.String())
	require.NotEqual(t, "custom", d1.String())
}

func TestDynamicStructParent(t *testing.T) {
	dp := NewDynProxy()

	b, err := dp.CreateBuilder(meterType)
	require.NoError(t, err)

	// no target: the embedded zero value serves the calls
	d := buildDynamic(t, b)
	res, err := d.Call("Mark", 2)
	require.NoError(t, err)
	require.Equal(t, 2, res)
	res, err = d.Call("Total")
	require.NoError(t, err)
	require.Equal(t, 2, res)

	// separate instances have separate zero values
	other := buildDynamic(t, b)
	res, err = other.Call("Total")
	require.NoError(t, err)
	require.Equal(t, 0, res)

	meter := &Meter{Count: 10}
	counter := &countingInterception{}
	wrapped := buildDynamic(t, b.Target(meter).ProxyMethodByName("Mark", counter))
	res, err = wrapped.Call("Mark", 1)
	require.NoError(t, err)
	require.Equal(t, 11, res)
	require.Equal(t, 11, meter.Count)
	require.Equal(t, []string{"Mark"}, counter.calls)

	b2, err := dp.CreateBuilder(meterType)
	require.NoError(t, err)
	_, err = b2.Target(Meter{}).Build()
	require.ErrorIs(t, err, proxyutils.ErrTargetMismatch)
}

func TestDynamicLayered(t *testing.T) {
	dp := NewDynProxy()
	impl := &notifierImpl{}

	inner := &countingInterception{}
	innerProxy, err := dp.Wrap(notifierType, impl, inner)
	require.NoError(t, err)

	outer := &countingInterception{}
	b, err := dp.CreateBuilder(notifierType)
	require.NoError(t, err)
	d := buildDynamic(t, b.Target(innerProxy).ProxyMethodByName("Notify", outer))

	_, err = d.Call("Notify", "layered")
	require.NoError(t, err)
	require.Equal(t, []string{"Notify"}, outer.calls)
	require.Equal(t, []string{"Notify"}, inner.calls)
	require.Equal(t, []string{"layered"}, impl.sent)

	// the outer layer does not intercept Sent, the inner layer still does
	res, err := d.Call("Sent")
	require.NoError(t, err)
	require.Equal(t, 1, res)
	require.Equal(t, []string{"Notify"}, outer.calls)
	require.Equal(t, []string{"Notify", "Sent"}, inner.calls)

	// a proxy of another parent is no valid target
	meterProxy, err := dp.Create(meterType, proxytypes.PassThrough)
	require.NoError(t, err)
	_, err = dp.Wrap(notifierType, meterProxy, proxytypes.PassThrough)
	require.ErrorIs(t, err, proxyutils.ErrTargetMismatch)
}

func TestBuildsDoNotShareTables(t *testing.T) {
	dp := NewDynProxy()
	b, err := dp.CreateBuilder(notifierType)
	require.NoError(t, err)

	first := buildDynamic(t, b.Target(&notifierImpl{}))
	b.ProxyMethod(sigSent, constInterception(99))
	second := buildDynamic(t, b)

	res, err := first.Call("Sent")
	require.NoError(t, err)
	require.Equal(t, 0, res)

	res, err = second.Call("Sent")
	require.NoError(t, err)
	require.Equal(t, 99, res)

	require.Equal(t, 0, first.ProxyInterceptions().Len())
	require.Equal(t, 1, second.ProxyInterceptions().Len())
}

func TestUnitReuse(t *testing.T) {
	dp := NewDynProxy()
	b, err := dp.CreateBuilder(notifierType)
	require.NoError(t, err)

	a := buildDynamic(t, b)
	c := buildDynamic(t, b)
	require.Same(t, a.ProxyUnit(), c.ProxyUnit())
	require.Equal(t, 1, dp.GetUnitCache().Len())

	// another interception mapping is another cache entry for the same unit
	d := buildDynamic(t, b.ProxyMethod(sigNotify, proxytypes.PassThrough))
	require.Same(t, a.ProxyUnit(), d.ProxyUnit())
	require.Equal(t, 2, dp.GetUnitCache().Len())
	require.Len(t, dp.GetUnitCache().GetAllUnits(), 1)
	require.Len(t, dp.GetScope().Units(), 1)
}

func TestScopesAndUnitNames(t *testing.T) {
	dp := NewDynProxy()
	s1 := NewScope("one", nil)
	s2 := NewScope("two", nil)

	b1, err := dp.CreateBuilder(notifierType, WithScope(s1), WithUnitName("shared"))
	require.NoError(t, err)
	b2, err := dp.CreateBuilder(notifierType, WithScope(s2), WithUnitName("shared"))
	require.NoError(t, err)

	u1 := buildDynamic(t, b1).ProxyUnit()
	u2 := buildDynamic(t, b2).ProxyUnit()
	require.Equal(t, "shared", u1.Name)
	require.Equal(t, "shared", u2.Name)
	require.NotEqual(t, u1.Ref, u2.Ref)
	require.Equal(t, u1.Digest, u2.Digest)

	unit, ok := s1.Lookup("shared")
	require.True(t, ok)
	require.Same(t, u1, unit)
	_, ok = dp.GetScope().Lookup("shared")
	require.False(t, ok)

	// same name, different body
	b3, err := dp.CreateBuilder(meterType, WithScope(s1), WithUnitName("shared"))
	require.NoError(t, err)
	_, err = b3.Build()
	require.ErrorIs(t, err, proxyutils.ErrDuplicateUnit)
}

func TestGeneratedBackendWithoutTemplate(t *testing.T) {
	dp := NewDynProxy(WithTemplates(NewTemplateRegistry()))

	b, err := dp.CreateBuilder(notifierType, WithBackend(proxytypes.BackendGenerated))
	require.NoError(t, err)
	_, err = b.Build()
	require.ErrorIs(t, err, proxyutils.ErrNoTemplate)
	require.NotEmpty(t, errors.GetAllHints(err))

	dp = NewDynProxy(WithTemplates(NewTemplateRegistry()), WithDefaultBackend(proxytypes.BackendGenerated))
	_, err = dp.Create(notifierType, proxytypes.PassThrough)
	require.ErrorIs(t, err, proxyutils.ErrNoTemplate)

	// the builder option wins over the client default
	b, err = dp.CreateBuilder(notifierType, WithBackend(proxytypes.BackendRuntime))
	require.NoError(t, err)
	_, err = b.Build()
	require.NoError(t, err)
}

func TestBuildLogging(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	dp := NewDynProxy(WithLogger(zap.New(core)), WithVerbose())
	require.True(t, dp.Verbose)

	_, err := dp.Wrap(notifierType, &notifierImpl{}, proxytypes.PassThrough)
	require.NoError(t, err)

	require.Equal(t, 1, logs.FilterMessage("created proxy builder").Len())
	require.Equal(t, 1, logs.FilterMessage("defined dispatch unit").Len())
	require.Equal(t, 1, logs.FilterMessage("cached dispatch unit").Len())
	require.Equal(t, 2, logs.FilterMessage("synthesized dispatch branch").Len())

	built := logs.FilterMessage("built proxy").All()
	require.Len(t, built, 1)
	require.Equal(t, int64(2), built[0].ContextMap()["interceptions"])
	require.Equal(t, true, built[0].ContextMap()["target"])
}

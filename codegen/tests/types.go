// Copyright (c) 2025 pk910
// SPDX-License-Identifier: Apache-2.0
// This file is part of the dynamic-proxy library.

// Package tests holds parent types with generated dispatch units.
package tests

import "github.com/cockroachdb/errors"

var ErrDivByZero = errors.New("division by zero")

type Sayer interface {
	Say(s string) string
}

type Calculator interface {
	Add(a, b int) int
	Div(a, b int) (int, error)
	Reset()
	Stats() (int, int)
	Sum(values ...int) int
}

type Store interface {
	Get(key string) ([]byte, error)
	Keys() []string
	Put(key string, value []byte) error
	String() string
}

type Greeter struct {
	Prefix string
}

func (g *Greeter) Greet(name string) string {
	return g.Prefix + name
}

func (g *Greeter) Hello() string {
	return g.Greet("hello")
}

func (g *Greeter) SetPrefix(prefix string) {
	g.Prefix = prefix
}

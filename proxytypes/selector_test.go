// Copyright (c) 2025 pk910
// SPDX-License-Identifier: Apache-2.0
// This file is part of the dynamic-proxy library.

package proxytypes

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/pk910/dynamic-proxy/proxyutils"
)

func TestSelectorMatch(t *testing.T) {
	fetch := MustSignature(sigTestServiceType, "Fetch")
	names := MustSignature(sigTestServiceType, "Names")
	log := MustSignature(sigTestServiceType, "Log")

	tests := []struct {
		expr    string
		matches []bool // fetch, names, log
	}{
		{`name == "Fetch"`, []bool{true, false, false}},
		{`hasPrefix(name, "N")`, []bool{false, true, false}},
		{`hasSuffix(name, "s")`, []bool{false, true, false}},
		{`contains(descriptor, "Lerror;")`, []bool{true, false, false}},
		{`params == 0`, []bool{false, true, false}},
		{`results == 1 && !returnsError`, []bool{false, true, false}},
		{`returnsError`, []bool{true, false, false}},
		{`variadic || params == 1`, []bool{true, false, true}},
		{`contains(owner, "sigTestService")`, []bool{true, true, true}},
	}

	for _, test := range tests {
		t.Run(test.expr, func(t *testing.T) {
			selector, err := CompileSelector(test.expr)
			require.NoError(t, err)
			require.Equal(t, test.expr, selector.String())

			for i, sig := range []*Signature{fetch, names, log} {
				matched, err := selector.Match(sig)
				require.NoError(t, err)
				require.Equal(t, test.matches[i], matched, sig.Name)
				require.Equal(t, test.matches[i], selector.Filter()(sig), sig.Name)
			}
		})
	}
}

func TestSelectorErrors(t *testing.T) {
	_, err := CompileSelector(`name ==`)
	require.ErrorIs(t, err, proxyutils.ErrInvalidSelector)

	fetch := MustSignature(sigTestServiceType, "Fetch")

	tests := []string{
		`params + 1`,
		`hasPrefix(name)`,
		`hasPrefix(params, "F")`,
	}
	for _, expr := range tests {
		t.Run(expr, func(t *testing.T) {
			selector, err := CompileSelector(expr)
			require.NoError(t, err)

			_, err = selector.Match(fetch)
			require.ErrorIs(t, err, proxyutils.ErrInvalidSelector)
			require.False(t, selector.Filter()(fetch))
		})
	}
}

func TestSelectorEvaluate(t *testing.T) {
	selector, err := CompileSelector(`hasPrefix(name, "Get") && params == 2 && variadic`)
	require.NoError(t, err)

	matched, err := selector.Evaluate(MethodParameters("GetAll", "Lx.Y;", "(T.[N)V", 2, 0, true, false))
	require.NoError(t, err)
	require.True(t, matched)

	matched, err = selector.Evaluate(MethodParameters("GetAll", "Lx.Y;", "(TN)V", 2, 0, false, false))
	require.NoError(t, err)
	require.False(t, matched)

	params := SelectorParameters(MustSignature(sigTestServiceType, "Fetch"))
	require.Equal(t, "Fetch", params["name"])
	require.Equal(t, float64(1), params["params"])
	require.Equal(t, float64(1), params["results"])
	require.Equal(t, true, params["returnsError"])
	require.Equal(t, "(T)[bLerror;", params["descriptor"])
}

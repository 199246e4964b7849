// Copyright (c) 2025 pk910
// SPDX-License-Identifier: Apache-2.0
// This file is part of the dynamic-proxy library.

package proxytypes

import (
	"strings"

	"github.com/casbin/govaluate"
	"github.com/cockroachdb/errors"

	"github.com/pk910/dynamic-proxy/proxyutils"
)

// selectorFunctions are available inside selector expressions in addition
// to the govaluate operators.
var selectorFunctions = map[string]govaluate.ExpressionFunction{
	"hasPrefix": func(args ...interface{}) (interface{}, error) {
		s, prefix, err := stringArgs("hasPrefix", args)
		if err != nil {
			return nil, err
		}
		return strings.HasPrefix(s, prefix), nil
	},
	"hasSuffix": func(args ...interface{}) (interface{}, error) {
		s, suffix, err := stringArgs("hasSuffix", args)
		if err != nil {
			return nil, err
		}
		return strings.HasSuffix(s, suffix), nil
	},
	"contains": func(args ...interface{}) (interface{}, error) {
		s, sub, err := stringArgs("contains", args)
		if err != nil {
			return nil, err
		}
		return strings.Contains(s, sub), nil
	},
}

func stringArgs(fn string, args []interface{}) (string, string, error) {
	if len(args) != 2 {
		return "", "", errors.Newf("%s expects 2 arguments, got %d", fn, len(args))
	}
	a, ok1 := args[0].(string)
	b, ok2 := args[1].(string)
	if !ok1 || !ok2 {
		return "", "", errors.Newf("%s expects string arguments", fn)
	}
	return a, b, nil
}

// Selector is a compiled method selector expression.
//
// Expressions are evaluated with govaluate against these parameters:
//
//	name         method name
//	owner        owner descriptor, e.g. "Lexample.com/pkg.Service;"
//	descriptor   method descriptor, e.g. "(T)[bLerror;"
//	params       number of parameters
//	results      number of results, not counting a trailing error
//	variadic     last parameter is variadic
//	returnsError last result is error
//
// Example: `hasPrefix(name, "Get") && params == 1`.
type Selector struct {
	source     string
	expression *govaluate.EvaluableExpression
}

// CompileSelector parses a selector expression.
func CompileSelector(expr string) (*Selector, error) {
	expression, err := govaluate.NewEvaluableExpressionWithFunctions(expr, selectorFunctions)
	if err != nil {
		return nil, errors.WithHint(
			errors.Wrapf(proxyutils.ErrInvalidSelector, "%q: %v", expr, err),
			"selectors are govaluate expressions over name, owner, descriptor, params, results, variadic and returnsError",
		)
	}

	return &Selector{
		source:     expr,
		expression: expression,
	}, nil
}

// Match evaluates the selector for a method. Non boolean results are an error.
func (s *Selector) Match(sig *Signature) (bool, error) {
	return s.Evaluate(SelectorParameters(sig))
}

// Evaluate runs the selector against a parameter map built with
// MethodParameters.
func (s *Selector) Evaluate(params map[string]interface{}) (bool, error) {
	result, err := s.expression.Evaluate(params)
	if err != nil {
		return false, errors.Wrapf(proxyutils.ErrInvalidSelector, "%q: %v", s.source, err)
	}

	matched, ok := result.(bool)
	if !ok {
		return false, errors.Wrapf(proxyutils.ErrInvalidSelector, "%q evaluates to %T, not bool", s.source, result)
	}
	return matched, nil
}

// Filter returns the selector as MethodFilter. Evaluation failures count as
// no match.
func (s *Selector) Filter() MethodFilter {
	return func(sig *Signature) bool {
		matched, err := s.Match(sig)
		return err == nil && matched
	}
}

func (s *Selector) String() string {
	return s.source
}

// SelectorParameters returns the parameter map a selector is evaluated with.
func SelectorParameters(sig *Signature) map[string]interface{} {
	return MethodParameters(sig.Name, sig.OwnerDescriptor(), sig.Descriptor(), len(sig.Params), len(sig.ValueResults()), sig.Variadic, sig.ReturnsError())
}

// MethodParameters builds a selector parameter map from plain method facts.
// results excludes a trailing error.
func MethodParameters(name, owner, descriptor string, params, results int, variadic, returnsError bool) map[string]interface{} {
	return map[string]interface{}{
		"name":         name,
		"owner":        owner,
		"descriptor":   descriptor,
		"params":       float64(params),
		"results":      float64(results),
		"variadic":     variadic,
		"returnsError": returnsError,
	}
}

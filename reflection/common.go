// Copyright (c) 2025 pk910
// SPDX-License-Identifier: Apache-2.0
// This file is part of the dynamic-proxy library.

package reflection

import (
	"reflect"

	"go.uber.org/zap"

	"github.com/pk910/dynamic-proxy/proxytypes"
)

// ReflectionCtx synthesizes dispatch tables with reflection. It is the
// runtime back-end used for parent types without generated proxy code.
type ReflectionCtx struct {
	logger  *zap.Logger
	verbose bool
}

func NewReflectionCtx(logger *zap.Logger, verbose bool) *ReflectionCtx {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &ReflectionCtx{
		logger:  logger,
		verbose: verbose,
	}
}

// Synthesize builds the dispatch table of parent for the given candidates.
func (ctx *ReflectionCtx) Synthesize(parent reflect.Type, candidates []*proxytypes.Signature) (*DispatchTable, error) {
	table, err := synthesize(parent, candidates)
	if err != nil {
		return nil, err
	}

	if ctx.verbose {
		for _, th := range table.thunks {
			ctx.logger.Debug("synthesized dispatch branch",
				zap.String("parent", parent.String()),
				zap.String("owner", th.key.Owner),
				zap.String("name", th.key.Name),
				zap.String("signature", th.key.Signature),
				zap.Int("index", th.index),
			)
		}
	}

	return table, nil
}

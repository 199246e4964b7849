// Copyright (c) 2025 pk910
// SPDX-License-Identifier: Apache-2.0
// This file is part of the dynamic-proxy library.

package codegen

import (
	"runtime/debug"
)

// Version is the dynamic-proxy version used for code generation. It is
// written into the header of generated files so stale proxy code can be
// told apart after library updates.
//
// Defaults to "unknown" when no build information is available, e.g. in tests.
var Version = "unknown"

func init() {
	if info, ok := debug.ReadBuildInfo(); ok {
		if info.Main.Path == proxyPkgPath && info.Main.Version != "" {
			Version = info.Main.Version
			return
		}
		for _, dep := range info.Deps {
			if dep.Path == proxyPkgPath {
				Version = dep.Version
				break
			}
		}
	}
}

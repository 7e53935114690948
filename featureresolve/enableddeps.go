// SPDX-License-Identifier: BSD-3-Clause
// Copyright (c) 2022, Unikraft GmbH and The KraftKit Authors.
// Licensed under the BSD-3-Clause License (the "License").
// You may not use this file except in compliance with the License.
package featureresolve

import (
	"kraftgraph.sh/internal/set"
	"kraftgraph.sh/metadata"
)

// enabledDep is what a package's flattened feature set says about one named
// dependency: whether something activated it outright (a raw `dep:X` or a
// non-optional `X/Y`), and the full set of features any rule asked to be
// turned on for it (from both `X/Y` and the weak `X?/Y` form).
type enabledDep struct {
	activating bool
	features   *set.StringSet
}

// scanEnabledDeps builds the enabled_deps map from the right-hand sides of
// every feature in flattened, as declared on pkg.
func scanEnabledDeps(pkg metadata.Package, flattened []string) map[string]*enabledDep {
	out := make(map[string]*enabledDep)

	get := func(name string) *enabledDep {
		ed, ok := out[name]
		if !ok {
			ed = &enabledDep{features: set.NewStringSet()}
			out[name] = ed
		}
		return ed
	}

	for _, feat := range flattened {
		for _, raw := range pkg.Features[feat] {
			expr := metadata.ParseFeatureExpr(raw)
			switch expr.Kind {
			case metadata.DepActivate:
				get(expr.Dep).activating = true
			case metadata.DepFeature:
				ed := get(expr.Dep)
				ed.activating = true
				ed.features.Add(expr.Feature)
			case metadata.WeakDepFeature:
				get(expr.Dep).features.Add(expr.Feature)
			case metadata.SelfFeature:
				// Already accounted for by the feature closure.
			}
		}
	}

	return out
}

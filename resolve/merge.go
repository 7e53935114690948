// SPDX-License-Identifier: BSD-3-Clause
// Copyright (c) 2022, Unikraft GmbH and The KraftKit Authors.
// Licensed under the BSD-3-Clause License (the "License").
// You may not use this file except in compliance with the License.
package resolve

import (
	"fmt"
	"sort"

	"kraftgraph.sh/annotate"
	"kraftgraph.sh/internal/set"
)

// mergeAnnotations unions two CrateAnnotations for the same crate and
// target triple, deduplicating dependencies observed from more than one
// host candidate.
func mergeAnnotations(a, b annotate.CrateAnnotation) annotate.CrateAnnotation {
	return annotate.CrateAnnotation{
		Features:           mergeStrings(a.Features, b.Features),
		Deps:               mergeDeps(a.Deps, b.Deps),
		DepsDev:            mergeDeps(a.DepsDev, b.DepsDev),
		ProcMacroDeps:      mergeDeps(a.ProcMacroDeps, b.ProcMacroDeps),
		ProcMacroDepsDev:   mergeDeps(a.ProcMacroDepsDev, b.ProcMacroDepsDev),
		BuildDeps:          mergeDeps(a.BuildDeps, b.BuildDeps),
		BuildProcMacroDeps: mergeDeps(a.BuildProcMacroDeps, b.BuildProcMacroDeps),
		BuildLinkDeps:      mergeDeps(a.BuildLinkDeps, b.BuildLinkDeps),
	}
}

func mergeStrings(a, b []string) []string {
	s := set.NewStringSet(a...)
	s.Add(b...)
	out := s.ToSlice()
	sort.Strings(out)
	return out
}

func mergeDeps(a, b []annotate.Dependency) []annotate.Dependency {
	seen := make(map[string]int, len(a)+len(b))
	var out []annotate.Dependency

	add := func(deps []annotate.Dependency) {
		for _, d := range deps {
			key := fmt.Sprintf("%s|%s|%v", d.Dst, d.Alias, d.Optional)
			if i, ok := seen[key]; ok {
				if len(d.Features) > 0 {
					out[i].Features = mergeStrings(out[i].Features, d.Features)
				}
				if len(d.Platform) > 0 {
					out[i].Platform = mergeStrings(out[i].Platform, d.Platform)
				}
				continue
			}
			seen[key] = len(out)
			out = append(out, d)
		}
	}

	add(a)
	add(b)

	sort.Slice(out, func(i, j int) bool {
		if out[i].Dst != out[j].Dst {
			return out[i].Dst < out[j].Dst
		}
		return out[i].Alias < out[j].Alias
	})

	return out
}

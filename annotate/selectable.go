// SPDX-License-Identifier: BSD-3-Clause
// Copyright (c) 2022, Unikraft GmbH and The KraftKit Authors.
// Licensed under the BSD-3-Clause License (the "License").
// You may not use this file except in compliance with the License.
package annotate

import (
	"fmt"
	"sort"
)

// Selectable is a common part plus a per-triple residual map: the compact
// representation used to emit config-conditional build metadata without
// repeating whatever holds for every configured triple.
type Selectable struct {
	Common  CrateAnnotation
	Selects map[string]CrateAnnotation
}

// IsEmpty reports whether the selectable carries no information at all.
func (s Selectable) IsEmpty() bool {
	return s.Common.IsEmpty() && len(s.Selects) == 0
}

// BuildSelectable folds a per-triple set of full CrateAnnotations into a
// {common, selects} selectable. Fields already true of every triple are
// lifted into Common and removed from each triple's residual; an optimised
// selectable is returned directly, so running the collapse again is a
// no-op (Testable property: selectable idempotence).
func BuildSelectable(perTriple map[string]CrateAnnotation) Selectable {
	triples := make([]string, 0, len(perTriple))
	for t := range perTriple {
		triples = append(triples, t)
	}
	sort.Strings(triples)

	if len(triples) == 0 {
		return Selectable{}
	}

	common := CrateAnnotation{
		Features:           intersectStrings(perTriple, triples, func(a CrateAnnotation) []string { return a.Features }),
		Deps:                intersectDeps(perTriple, triples, func(a CrateAnnotation) []Dependency { return a.Deps }),
		DepsDev:             intersectDeps(perTriple, triples, func(a CrateAnnotation) []Dependency { return a.DepsDev }),
		ProcMacroDeps:       intersectDeps(perTriple, triples, func(a CrateAnnotation) []Dependency { return a.ProcMacroDeps }),
		ProcMacroDepsDev:    intersectDeps(perTriple, triples, func(a CrateAnnotation) []Dependency { return a.ProcMacroDepsDev }),
		BuildDeps:           intersectDeps(perTriple, triples, func(a CrateAnnotation) []Dependency { return a.BuildDeps }),
		BuildProcMacroDeps:  intersectDeps(perTriple, triples, func(a CrateAnnotation) []Dependency { return a.BuildProcMacroDeps }),
		BuildLinkDeps:       intersectDeps(perTriple, triples, func(a CrateAnnotation) []Dependency { return a.BuildLinkDeps }),
	}

	selects := make(map[string]CrateAnnotation, len(triples))
	for _, t := range triples {
		residual := CrateAnnotation{
			Features:           subtractStrings(perTriple[t].Features, common.Features),
			Deps:                subtractDeps(perTriple[t].Deps, common.Deps),
			DepsDev:             subtractDeps(perTriple[t].DepsDev, common.DepsDev),
			ProcMacroDeps:       subtractDeps(perTriple[t].ProcMacroDeps, common.ProcMacroDeps),
			ProcMacroDepsDev:    subtractDeps(perTriple[t].ProcMacroDepsDev, common.ProcMacroDepsDev),
			BuildDeps:           subtractDeps(perTriple[t].BuildDeps, common.BuildDeps),
			BuildProcMacroDeps:  subtractDeps(perTriple[t].BuildProcMacroDeps, common.BuildProcMacroDeps),
			BuildLinkDeps:       subtractDeps(perTriple[t].BuildLinkDeps, common.BuildLinkDeps),
		}
		if !residual.IsEmpty() {
			selects[t] = residual
		}
	}

	return Selectable{Common: common, Selects: selects}
}

func depKey(d Dependency) string {
	return fmt.Sprintf("%s|%s|%s|%v|%v|%v", d.Dst, d.TargetName, d.Alias, d.Features, d.Optional, d.Platform)
}

func intersectStrings(perTriple map[string]CrateAnnotation, triples []string, field func(CrateAnnotation) []string) []string {
	first := field(perTriple[triples[0]])
	var out []string
	for _, v := range first {
		inAll := true
		for _, t := range triples[1:] {
			if !containsString(field(perTriple[t]), v) {
				inAll = false
				break
			}
		}
		if inAll {
			out = append(out, v)
		}
	}
	return out
}

func intersectDeps(perTriple map[string]CrateAnnotation, triples []string, field func(CrateAnnotation) []Dependency) []Dependency {
	first := field(perTriple[triples[0]])
	var out []Dependency
	for _, d := range first {
		inAll := true
		for _, t := range triples[1:] {
			if !containsDepKey(field(perTriple[t]), depKey(d)) {
				inAll = false
				break
			}
		}
		if inAll {
			out = append(out, d)
		}
	}
	return out
}

func subtractStrings(from, remove []string) []string {
	var out []string
	for _, v := range from {
		if !containsString(remove, v) {
			out = append(out, v)
		}
	}
	return out
}

func subtractDeps(from, remove []Dependency) []Dependency {
	removeKeys := make(map[string]struct{}, len(remove))
	for _, d := range remove {
		removeKeys[depKey(d)] = struct{}{}
	}
	var out []Dependency
	for _, d := range from {
		if _, ok := removeKeys[depKey(d)]; ok {
			continue
		}
		out = append(out, d)
	}
	return out
}

func containsString(list []string, v string) bool {
	for _, c := range list {
		if c == v {
			return true
		}
	}
	return false
}

func containsDepKey(list []Dependency, key string) bool {
	for _, d := range list {
		if depKey(d) == key {
			return true
		}
	}
	return false
}

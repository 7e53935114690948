// SPDX-License-Identifier: BSD-3-Clause
//
// Authors: Alexander Jung <alex@unikraft.io>
//
// Copyright (c) 2022, Unikraft GmbH.  All rights reserved.
//
// Redistribution and use in source and binary forms, with or without
// modification, are permitted provided that the following conditions
// are met:
//
// 1. Redistributions of source code must retain the above copyright
//    notice, this list of conditions and the following disclaimer.
// 2. Redistributions in binary form must reproduce the above copyright
//    notice, this list of conditions and the following disclaimer in the
//    documentation and/or other materials provided with the distribution.
// 3. Neither the name of the copyright holder nor the names of its
//    contributors may be used to endorse or promote products derived from
//    this software without specific prior written permission.
//
// THIS SOFTWARE IS PROVIDED BY THE COPYRIGHT HOLDERS AND CONTRIBUTORS "AS IS"
// AND ANY EXPRESS OR IMPLIED WARRANTIES, INCLUDING, BUT NOT LIMITED TO, THE
// IMPLIED WARRANTIES OF MERCHANTABILITY AND FITNESS FOR A PARTICULAR PURPOSE
// ARE DISCLAIMED. IN NO EVENT SHALL THE COPYRIGHT HOLDER OR CONTRIBUTORS BE
// LIABLE FOR ANY DIRECT, INDIRECT, INCIDENTAL, SPECIAL, EXEMPLARY, OR
// CONSEQUENTIAL DAMAGES (INCLUDING, BUT NOT LIMITED TO, PROCUREMENT OF
// SUBSTITUTE GOODS OR SERVICES; LOSS OF USE, DATA, OR PROFITS; OR BUSINESS
// INTERRUPTION) HOWEVER CAUSED AND ON ANY THEORY OF LIABILITY, WHETHER IN
// CONTRACT, STRICT LIABILITY, OR TORT (INCLUDING NEGLIGENCE OR OTHERWISE)
// ARISING IN ANY WAY OUT OF THE USE OF THIS SOFTWARE, EVEN IF ADVISED OF THE
// POSSIBILITY OF SUCH DAMAGE.
package render

import (
	"encoding/json"

	"gopkg.in/yaml.v3"

	"kraftgraph.sh/annotate"
	"kraftgraph.sh/resolve"
)

// crateDoc is the stable, marshalling-friendly projection of a selectable
// CrateAnnotation: empty fields are elided via omitempty so that output
// matches the "empty fields are elided" rule of the output contract.
type crateDoc struct {
	Features []string                    `yaml:"features,omitempty" json:"features,omitempty"`
	Deps     map[string]depDoc           `yaml:"deps,omitempty" json:"deps,omitempty"`
	DepsDev  map[string]depDoc           `yaml:"deps_dev,omitempty" json:"deps_dev,omitempty"`
	ProcMacroDeps      map[string]depDoc `yaml:"proc_macro_deps,omitempty" json:"proc_macro_deps,omitempty"`
	ProcMacroDepsDev   map[string]depDoc `yaml:"proc_macro_deps_dev,omitempty" json:"proc_macro_deps_dev,omitempty"`
	BuildDeps          map[string]depDoc `yaml:"build_deps,omitempty" json:"build_deps,omitempty"`
	BuildProcMacroDeps map[string]depDoc `yaml:"build_proc_macro_deps,omitempty" json:"build_proc_macro_deps,omitempty"`
	BuildLinkDeps      map[string]depDoc `yaml:"build_link_deps,omitempty" json:"build_link_deps,omitempty"`
}

type depDoc struct {
	TargetName string   `yaml:"target_name,omitempty" json:"target_name,omitempty"`
	Alias      string   `yaml:"alias,omitempty" json:"alias,omitempty"`
	Features   []string `yaml:"features,omitempty" json:"features,omitempty"`
	Optional   bool     `yaml:"optional,omitempty" json:"optional,omitempty"`
	Platform   []string `yaml:"platform,omitempty" json:"platform,omitempty"`
}

type selectableDoc struct {
	Common  crateDoc             `yaml:"common,omitempty" json:"common,omitempty"`
	Selects map[string]crateDoc  `yaml:"selects,omitempty" json:"selects,omitempty"`
}

func toCrateDoc(a annotate.CrateAnnotation) crateDoc {
	return crateDoc{
		Features:           a.Features,
		Deps:               toDepDocMap(a.Deps),
		DepsDev:            toDepDocMap(a.DepsDev),
		ProcMacroDeps:      toDepDocMap(a.ProcMacroDeps),
		ProcMacroDepsDev:   toDepDocMap(a.ProcMacroDepsDev),
		BuildDeps:          toDepDocMap(a.BuildDeps),
		BuildProcMacroDeps: toDepDocMap(a.BuildProcMacroDeps),
		BuildLinkDeps:      toDepDocMap(a.BuildLinkDeps),
	}
}

func toDepDocMap(deps []annotate.Dependency) map[string]depDoc {
	if len(deps) == 0 {
		return nil
	}
	out := make(map[string]depDoc, len(deps))
	for _, d := range deps {
		key := string(d.Dst)
		if d.Alias != "" {
			key = d.Alias
		}
		// The same alias (or lack of one) can be activated twice against the
		// same destination, once unconditionally and once only when another
		// feature opts it in (featureresolve keeps these as distinct
		// AliasOptional facets); suffix the key so that case doesn't collapse
		// one facet into the other.
		if d.Optional {
			key += "?"
		}
		out[key] = depDoc{
			TargetName: d.TargetName,
			Alias:      d.Alias,
			Features:   d.Features,
			Optional:   d.Optional,
			Platform:   d.Platform,
		}
	}
	return out
}

func toDoc(result resolve.Result) map[string]selectableDoc {
	out := make(map[string]selectableDoc, len(result))
	for _, id := range result.CrateIDs() {
		sel := result[id]
		selects := make(map[string]crateDoc, len(sel.Selects))
		for triple, residual := range sel.Selects {
			selects[triple] = toCrateDoc(residual)
		}
		out[string(id)] = selectableDoc{
			Common:  toCrateDoc(sel.Common),
			Selects: selects,
		}
	}
	return out
}

// YAML renders result as a stably-ordered YAML document.
func YAML(result resolve.Result) ([]byte, error) {
	return yaml.Marshal(toDoc(result))
}

// JSON renders result as a stably-ordered, indented JSON document.
func JSON(result resolve.Result) ([]byte, error) {
	return json.MarshalIndent(toDoc(result), "", "  ")
}

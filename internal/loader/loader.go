// SPDX-License-Identifier: Apache-2.0
//
// Copyright 2020 The Compose Specification Authors.
// Copyright 2022 Unikraft GmbH. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at:
//
// 		http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
package loader

import (
	"fmt"
	"os"
	"strings"

	// Enable support for embedded static resources
	_ "embed"

	"github.com/xeipuuv/gojsonschema"
	"gopkg.in/yaml.v3"

	"kraftgraph.sh/metadata"
	"kraftgraph.sh/platform"
)

//go:embed schema.json
var snapshotSchema string

// Load reads and validates a YAML snapshot document from path, then
// materialises it into a metadata.Snapshot and a platform.Oracle.
func Load(path string) (metadata.Snapshot, *platform.Oracle, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return metadata.Snapshot{}, nil, fmt.Errorf("reading %s: %w", path, err)
	}

	var generic map[string]interface{}
	if err := yaml.Unmarshal(raw, &generic); err != nil {
		return metadata.Snapshot{}, nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	if err := validate(generic); err != nil {
		return metadata.Snapshot{}, nil, fmt.Errorf("validating %s: %w", path, err)
	}

	var doc Document
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return metadata.Snapshot{}, nil, fmt.Errorf("decoding %s: %w", path, err)
	}

	return toSnapshot(doc), toOracle(doc), nil
}

func validate(generic map[string]interface{}) error {
	schemaLoader := gojsonschema.NewStringLoader(snapshotSchema)
	docLoader := gojsonschema.NewGoLoader(generic)

	result, err := gojsonschema.Validate(schemaLoader, docLoader)
	if err != nil {
		return err
	}

	if !result.Valid() {
		var msgs []string
		for _, e := range result.Errors() {
			msgs = append(msgs, e.String())
		}
		return fmt.Errorf("%s", strings.Join(msgs, "; "))
	}

	return nil
}

func toSnapshot(doc Document) metadata.Snapshot {
	snap := metadata.Snapshot{
		WorkspaceMembers: make([]metadata.PackageID, 0, len(doc.WorkspaceMembers)),
		Packages:         make([]metadata.Package, 0, len(doc.Packages)),
	}

	for _, id := range doc.WorkspaceMembers {
		snap.WorkspaceMembers = append(snap.WorkspaceMembers, metadata.PackageID(id))
	}

	for _, p := range doc.Packages {
		pkg := metadata.Package{
			ID:       metadata.PackageID(p.ID),
			Name:     p.Name,
			Version:  p.Version,
			Links:    p.Links,
			Features: p.Features,
		}

		for _, t := range p.Targets {
			pkg.Targets = append(pkg.Targets, metadata.Target{
				Name:  t.Name,
				Kinds: parseKinds(t.Kinds),
			})
		}

		for _, d := range p.Deps {
			pkg.Dependencies = append(pkg.Dependencies, metadata.RawDependency{
				Name:               d.Name,
				Rename:             d.Rename,
				Req:                d.Req,
				Source:             d.Source,
				Optional:           d.Optional,
				UseDefaultFeatures: d.UseDefaultFeatures,
				Features:           d.Features,
				Platform:           d.Platform,
				Kind:               parseKind(d.Kind),
			})
		}

		snap.Packages = append(snap.Packages, pkg)
	}

	return snap
}

func toOracle(doc Document) *platform.Oracle {
	records := make([]platform.Info, 0, len(doc.Platforms))
	for _, p := range doc.Platforms {
		records = append(records, platform.Info{
			Triple:       p.Triple,
			OS:           p.OS,
			Family:       p.Family,
			Arch:         p.Arch,
			Env:          p.Env,
			Endian:       p.Endian,
			PointerWidth: p.PointerWidth,
			Features:     p.Features,
			Flags:        p.Flags,
		})
	}
	return platform.NewOracle(records...)
}

func parseKind(s string) metadata.DependencyKind {
	switch s {
	case "dev":
		return metadata.Development
	case "build":
		return metadata.Build
	default:
		return metadata.Normal
	}
}

var kindNames = map[string]metadata.TargetKind{
	"lib":        metadata.Lib,
	"rlib":       metadata.RLib,
	"dylib":      metadata.DyLib,
	"cdylib":     metadata.CDyLib,
	"staticlib":  metadata.StaticLib,
	"proc-macro": metadata.ProcMacro,
	"bin":        metadata.Bin,
	"example":    metadata.Example,
	"test":       metadata.Test,
	"bench":      metadata.Bench,
}

func parseKinds(raw []string) []metadata.TargetKind {
	out := make([]metadata.TargetKind, 0, len(raw))
	for _, r := range raw {
		if k, ok := kindNames[r]; ok {
			out = append(out, k)
		}
	}
	return out
}

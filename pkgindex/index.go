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

// Package pkgindex builds the once-per-run indexed view over a metadata
// snapshot: packages keyed by identifier and grouped by name, each paired
// with its precomputed library target name, proc-macro flag, transitive
// feature closures and matched (DepMatcher-resolved) dependency edges.
package pkgindex

import (
	"sort"

	"github.com/Masterminds/semver/v3"

	"kraftgraph.sh/depmatch"
	"kraftgraph.sh/metadata"
)

// View is the precomputed, read-only per-package data the resolver consults
// on every step. It is immutable after construction and therefore safe to
// share across concurrently-running (host, target) resolutions.
type View struct {
	pkg        metadata.Package
	libTarget  string
	procMacro  bool
	edges      []metadata.DependencyEdge
	closureMem map[string][]string
}

// LibTargetName is the name of the first target whose kind set intersects
// the library kinds; empty for binary-only packages.
func (v *View) LibTargetName() string { return v.libTarget }

// IsProcMacro reports whether any of the package's targets is a proc macro.
func (v *View) IsProcMacro() bool { return v.procMacro }

// Package returns the underlying raw package record.
func (v *View) Package() metadata.Package { return v.pkg }

// Edges returns the DepMatcher-resolved outgoing dependency edges, already
// filtered per the PackageIndex construction rules.
func (v *View) Edges() []metadata.DependencyEdge { return v.edges }

// FeatureClosure returns the precomputed transitive self-feature set
// reachable from feat by following only self-feature names.
func (v *View) FeatureClosure(feat string) []string {
	return v.closureMem[feat]
}

// Index is the constant, once-built index over a resolved metadata
// snapshot.
type Index struct {
	byID    map[metadata.PackageID]*View
	members map[metadata.PackageID]struct{}
}

// New builds an Index from a snapshot, resolving every declared dependency
// edge via DepMatcher and precomputing each package's feature closures.
func New(snap metadata.Snapshot) (*Index, error) {
	byName := make(map[string][]metadata.Package)
	byID := make(map[metadata.PackageID]metadata.Package, len(snap.Packages))

	for _, p := range snap.Packages {
		byName[p.Name] = append(byName[p.Name], p)
		byID[p.ID] = p
	}

	for name, group := range byName {
		sort.SliceStable(group, func(i, j int) bool {
			vi, erri := semver.NewVersion(group[i].Version)
			vj, errj := semver.NewVersion(group[j].Version)
			if erri != nil || errj != nil {
				return group[i].Version < group[j].Version
			}
			return vi.LessThan(vj)
		})
		byName[name] = group
	}

	members := make(map[metadata.PackageID]struct{}, len(snap.WorkspaceMembers))
	for _, id := range snap.WorkspaceMembers {
		members[id] = struct{}{}
	}

	matcher := depmatch.New(byName)

	idx := &Index{
		byID:    make(map[metadata.PackageID]*View, len(snap.Packages)),
		members: members,
	}

	for _, p := range snap.Packages {
		_, isMember := members[p.ID]

		edges := make([]metadata.DependencyEdge, 0, len(p.Dependencies))
		for _, raw := range p.Dependencies {
			if raw.Kind == metadata.Development && !isMember {
				// A development edge on a non-workspace-member source package
				// is never produced.
				continue
			}

			dst, ok := matcher.Match(raw)
			if !ok {
				continue
			}

			edges = append(edges, metadata.DependencyEdge{
				Dst:                dst,
				Name:               raw.EffectiveName(),
				IsAlias:            raw.IsAlias(),
				Features:           raw.Features,
				Optional:           raw.Optional,
				UseDefaultFeatures: raw.UseDefaultFeatures,
				Platform:           raw.Platform,
				Kind:               raw.Kind,
			})
		}

		view := &View{
			pkg:       p,
			libTarget: libTargetName(p),
			procMacro: isProcMacro(p),
			edges:     edges,
		}
		view.closureMem = computeClosures(p)

		idx.byID[p.ID] = view
	}

	return idx, nil
}

// ByID performs a constant-time lookup, failing only for internal bugs
// (a package identifier that is not present in the index).
func (idx *Index) ByID(id metadata.PackageID) (*View, bool) {
	v, ok := idx.byID[id]
	return v, ok
}

// IsWorkspaceMember reports whether id was named in the snapshot's
// workspace-member set.
func (idx *Index) IsWorkspaceMember(id metadata.PackageID) bool {
	_, ok := idx.members[id]
	return ok
}

// WorkspaceMembers returns the full set of workspace-member identifiers.
func (idx *Index) WorkspaceMembers() []metadata.PackageID {
	out := make([]metadata.PackageID, 0, len(idx.members))
	for id := range idx.members {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func libTargetName(p metadata.Package) string {
	for _, t := range p.Targets {
		if t.HasAnyKind(
			metadata.Lib, metadata.RLib, metadata.DyLib,
			metadata.CDyLib, metadata.StaticLib, metadata.ProcMacro,
		) {
			return t.Name
		}
	}
	return ""
}

func isProcMacro(p metadata.Package) bool {
	for _, t := range p.Targets {
		if t.HasAnyKind(metadata.ProcMacro) {
			return true
		}
	}
	return false
}

// computeClosures precomputes, for every declared feature of p, the set of
// self-features reachable by recursive expansion following only
// self-feature names. `dep:` references and the `<dep>/...`/`<dep>?/...`
// forms stop expansion along that branch: they are dependency-activation
// commands, not self-features.
func computeClosures(p metadata.Package) map[string][]string {
	closures := make(map[string][]string, len(p.Features))

	var expand func(feat string, seen map[string]struct{}) []string
	expand = func(feat string, seen map[string]struct{}) []string {
		if _, ok := seen[feat]; ok {
			return nil
		}
		seen[feat] = struct{}{}

		out := []string{feat}
		for _, raw := range p.Features[feat] {
			expr := metadata.ParseFeatureExpr(raw)
			if expr.Kind != metadata.SelfFeature {
				continue
			}
			if _, ok := p.Features[expr.Self]; !ok {
				// Reference to an unknown feature name: ignored, per the
				// resolver's silent-ignore anomaly handling.
				continue
			}
			out = append(out, expand(expr.Self, seen)...)
		}
		return out
	}

	for feat := range p.Features {
		set := expand(feat, map[string]struct{}{})
		closures[feat] = dedupe(set)
	}

	return closures
}

func dedupe(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, v := range in {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

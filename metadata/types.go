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

// Package metadata holds the input data model consumed by the resolver: the
// locked package snapshot, its dependency declarations and feature
// expressions, and the small value types (identifiers, kinds, locations)
// shared by every downstream package.
package metadata

// PackageID is an opaque, stable string uniquely identifying a specific
// version of a specific package. All indexing and equality in the resolver
// is by this identifier alone.
type PackageID string

// DependencyKind classifies a declared dependency edge.
type DependencyKind int

const (
	Normal DependencyKind = iota
	Development
	Build
)

func (k DependencyKind) String() string {
	switch k {
	case Normal:
		return "normal"
	case Development:
		return "dev"
	case Build:
		return "build"
	default:
		return "unknown"
	}
}

// TargetKind is one of the build-target kinds a package may declare.
type TargetKind int

const (
	Lib TargetKind = iota
	RLib
	DyLib
	CDyLib
	StaticLib
	ProcMacro
	Bin
	Example
	Test
	Bench
)

// libraryKinds is the set of kinds that make a target count as "the" library
// target for lib_target_name purposes.
var libraryKinds = map[TargetKind]struct{}{
	Lib:       {},
	RLib:      {},
	DyLib:     {},
	CDyLib:    {},
	StaticLib: {},
	ProcMacro: {},
}

// IsLibraryKind reports whether k is one of {Lib, RLib, DyLib, CDyLib,
// StaticLib, ProcMacro}.
func IsLibraryKind(k TargetKind) bool {
	_, ok := libraryKinds[k]
	return ok
}

// Target is a single build target declared by a package, e.g. its library
// crate or a binary.
type Target struct {
	Name  string
	Kinds []TargetKind
}

// HasAnyKind reports whether t declares any of the given kinds.
func (t Target) HasAnyKind(kinds ...TargetKind) bool {
	for _, k := range t.Kinds {
		for _, want := range kinds {
			if k == want {
				return true
			}
		}
	}
	return false
}

// RawDependency is a dependency edge as declared in the input metadata,
// before DepMatcher has resolved it to a concrete destination package.
type RawDependency struct {
	Name    string // the name under which this package is required
	Rename  string // non-empty iff the manifest renamed the dependency
	Req     string // semver requirement string, may be empty
	Source  string // source URL, used for the git-scheme fallback rule

	Optional           bool
	UseDefaultFeatures bool
	Features           []string
	Platform           string // cfg(...) expression or literal triple, may be empty
	Kind               DependencyKind
}

// IsAlias reports whether this declaration renamed the dependency.
func (d RawDependency) IsAlias() bool {
	return d.Rename != ""
}

// EffectiveName is the rename if present, else the declared name.
func (d RawDependency) EffectiveName() string {
	if d.Rename != "" {
		return d.Rename
	}
	return d.Name
}

// Package is a single locked package as it appears in the input metadata
// snapshot: its identity, its declared features, and its raw (unmatched)
// dependency edges.
type Package struct {
	ID      PackageID
	Name    string
	Version string

	// Features maps a declared feature name to its ordered list of feature
	// expressions (the right-hand side of the declaration).
	Features map[string][]string

	Dependencies []RawDependency
	Targets      []Target

	// Links is the native link name this package exposes, if any.
	Links string
}

// Snapshot is the full input contract: every locked package plus the set of
// workspace-member identifiers.
type Snapshot struct {
	Packages         []Package
	WorkspaceMembers []PackageID
}

// Location is where a dependency edge is resolved: against the host triple
// (tools that run during the build) or the target triple (the triple being
// built for).
type Location int

const (
	Target Location = iota
	Host
)

func (l Location) String() string {
	if l == Host {
		return "host"
	}
	return "target"
}

// DependencyEdge is a dependency declaration after DepMatcher has resolved
// it to a concrete destination package.
type DependencyEdge struct {
	Dst                PackageID
	Name               string // effective name: rename if present, else declared name
	IsAlias            bool
	Features           []string
	Optional           bool
	UseDefaultFeatures bool
	Platform           string
	Kind               DependencyKind
}

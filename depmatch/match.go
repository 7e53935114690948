// SPDX-License-Identifier: BSD-3-Clause
// Copyright (c) 2022, Unikraft GmbH and The KraftKit Authors.
// Licensed under the BSD-3-Clause License (the "License").
// You may not use this file except in compliance with the License.
package depmatch

import (
	"strings"

	"github.com/Masterminds/semver/v3"

	"kraftgraph.sh/metadata"
)

// gitSchemePrefixes lists the URL schemes that mark a dependency as sourced
// directly from a git remote rather than a registry.
var gitSchemePrefixes = []string{
	"git+https://",
	"git+ssh://",
	"git+http://",
	"git://",
}

// Matcher resolves a declared (name, requirement, source) edge to the
// unique concrete package that satisfies it.
type Matcher struct {
	byName map[string][]metadata.Package
}

// New builds a Matcher over packages already grouped by name and sorted in
// ascending version order (as produced by pkgindex during construction).
func New(byName map[string][]metadata.Package) *Matcher {
	return &Matcher{byName: byName}
}

// Match selects the unique destination package for a raw dependency
// declaration. It iterates candidates in descending version order and
// accepts the first whose version satisfies req's comparators. As a
// fallback, when req has no comparators at all and the source URL uses a
// git scheme, it accepts any candidate (modelling an unpinned git
// dependency). If nothing matches, the edge is dropped silently: this
// mirrors the upstream resolver's decision that the edge is unreachable
// under every feature/target combination.
func (m *Matcher) Match(raw metadata.RawDependency) (metadata.PackageID, bool) {
	group := m.byName[raw.Name]
	if len(group) == 0 {
		return "", false
	}

	constraint, constraintErr := semver.NewConstraint(raw.Req)
	isGit := isGitSource(raw.Source)
	noComparators := strings.TrimSpace(raw.Req) == ""

	for i := len(group) - 1; i >= 0; i-- {
		candidate := group[i]

		ver, err := semver.NewVersion(candidate.Version)
		if err != nil {
			continue
		}

		if constraintErr == nil && constraint.Check(ver) {
			return candidate.ID, true
		}

		if noComparators && isGit {
			return candidate.ID, true
		}
	}

	return "", false
}

func isGitSource(source string) bool {
	for _, prefix := range gitSchemePrefixes {
		if strings.HasPrefix(source, prefix) {
			return true
		}
	}
	return false
}

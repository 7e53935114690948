// SPDX-License-Identifier: BSD-3-Clause
// Copyright (c) 2022, Unikraft GmbH and The KraftKit Authors.
// Licensed under the BSD-3-Clause License (the "License").
// You may not use this file except in compliance with the License.
package metadata

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseFeatureExpr(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want FeatureExpr
	}{
		{
			name: "self feature",
			raw:  "derive",
			want: FeatureExpr{Kind: SelfFeature, Self: "derive"},
		},
		{
			name: "dep activate",
			raw:  "dep:serde_derive",
			want: FeatureExpr{Kind: DepActivate, Dep: "serde_derive"},
		},
		{
			name: "dep feature",
			raw:  "tokio/fs",
			want: FeatureExpr{Kind: DepFeature, Dep: "tokio", Feature: "fs"},
		},
		{
			name: "weak dep feature",
			raw:  "block?/default",
			want: FeatureExpr{Kind: WeakDepFeature, Dep: "block", Feature: "default"},
		},
		{
			name: "dep feature with slash in feature name is not special-cased",
			raw:  "a/b/c",
			want: FeatureExpr{Kind: DepFeature, Dep: "a", Feature: "b/c"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseFeatureExpr(tt.raw)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRawDependencyAliasing(t *testing.T) {
	plain := RawDependency{Name: "serde"}
	assert.False(t, plain.IsAlias())
	assert.Equal(t, "serde", plain.EffectiveName())

	renamed := RawDependency{Name: "serde", Rename: "serde_alias"}
	assert.True(t, renamed.IsAlias())
	assert.Equal(t, "serde_alias", renamed.EffectiveName())
}

func TestDependencyKindString(t *testing.T) {
	assert.Equal(t, "normal", Normal.String())
	assert.Equal(t, "dev", Development.String())
	assert.Equal(t, "build", Build.String())
}

func TestLocationString(t *testing.T) {
	assert.Equal(t, "host", Host.String())
	assert.Equal(t, "target", Target.String())
}

func TestIsLibraryKind(t *testing.T) {
	assert.True(t, IsLibraryKind(Lib))
	assert.True(t, IsLibraryKind(ProcMacro))
	assert.False(t, IsLibraryKind(Bin))
	assert.False(t, IsLibraryKind(Test))
}

func TestTargetHasAnyKind(t *testing.T) {
	target := Target{Name: "mycrate", Kinds: []TargetKind{RLib, ProcMacro}}
	assert.True(t, target.HasAnyKind(Lib, RLib))
	assert.True(t, target.HasAnyKind(ProcMacro))
	assert.False(t, target.HasAnyKind(Bin, Example))
}

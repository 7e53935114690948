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

package metadata

import "strings"

// FeatureExprKind classifies the right-hand side of a feature declaration.
type FeatureExprKind int

const (
	// SelfFeature is a plain feature name of the declaring package.
	SelfFeature FeatureExprKind = iota
	// DepActivate is `dep:<name>`: activates the dependency without enabling
	// any feature on it.
	DepActivate
	// DepFeature is `<dep>/<feature>`: activates `<dep>` and enables
	// `<feature>` on it.
	DepFeature
	// WeakDepFeature is `<dep>?/<feature>`: enables `<feature>` on `<dep>`
	// only if `<dep>` is independently activated; never activates it.
	WeakDepFeature
)

// FeatureExpr is one parsed entry on the right-hand side of a feature
// declaration.
type FeatureExpr struct {
	Kind FeatureExprKind

	// Self is the feature name, set when Kind == SelfFeature.
	Self string

	// Dep is the dependency name, set for DepActivate, DepFeature and
	// WeakDepFeature.
	Dep string

	// Feature is the feature to enable on Dep, set for DepFeature and
	// WeakDepFeature.
	Feature string
}

// ParseFeatureExpr parses a single right-hand-side entry of a feature
// declaration, e.g. "derive", "dep:serde_derive", "tokio/fs", "block?/default".
func ParseFeatureExpr(raw string) FeatureExpr {
	if strings.HasPrefix(raw, "dep:") {
		return FeatureExpr{Kind: DepActivate, Dep: strings.TrimPrefix(raw, "dep:")}
	}

	if idx := strings.Index(raw, "?/"); idx >= 0 {
		return FeatureExpr{
			Kind:    WeakDepFeature,
			Dep:     raw[:idx],
			Feature: raw[idx+2:],
		}
	}

	if idx := strings.Index(raw, "/"); idx >= 0 {
		return FeatureExpr{
			Kind:    DepFeature,
			Dep:     raw[:idx],
			Feature: raw[idx+1:],
		}
	}

	return FeatureExpr{Kind: SelfFeature, Self: raw}
}

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

// Package render formats a resolved Result for human (tree) or machine
// (YAML/JSON) consumption, with stable key ordering throughout so output is
// byte-reproducible across runs with identical inputs.
package render

import (
	"fmt"
	"sort"

	"github.com/xlab/treeprint"

	"kraftgraph.sh/annotate"
	"kraftgraph.sh/resolve"
)

// Tree renders a resolve.Result as a dependency tree, one root per crate.
func Tree(result resolve.Result) string {
	root := treeprint.New()
	root.SetValue("kraftgraph resolution")

	for _, id := range result.CrateIDs() {
		sel := result[id]
		crate := root.AddBranch(string(id))

		if len(sel.Common.Features) > 0 {
			crate.AddBranch(fmt.Sprintf("features (%d)", len(sel.Common.Features)))
		}

		addBucket(crate, "deps", sel.Common.Deps)
		addBucket(crate, "deps_dev", sel.Common.DepsDev)
		addBucket(crate, "proc_macro_deps", sel.Common.ProcMacroDeps)
		addBucket(crate, "proc_macro_deps_dev", sel.Common.ProcMacroDepsDev)
		addBucket(crate, "build_deps", sel.Common.BuildDeps)
		addBucket(crate, "build_proc_macro_deps", sel.Common.BuildProcMacroDeps)
		addBucket(crate, "build_link_deps", sel.Common.BuildLinkDeps)

		triples := make([]string, 0, len(sel.Selects))
		for triple := range sel.Selects {
			triples = append(triples, triple)
		}
		sort.Strings(triples)

		for _, triple := range triples {
			residual := sel.Selects[triple]
			branch := crate.AddBranch(triple)
			addBucket(branch, "deps", residual.Deps)
			addBucket(branch, "deps_dev", residual.DepsDev)
			addBucket(branch, "proc_macro_deps", residual.ProcMacroDeps)
			addBucket(branch, "proc_macro_deps_dev", residual.ProcMacroDepsDev)
			addBucket(branch, "build_deps", residual.BuildDeps)
			addBucket(branch, "build_proc_macro_deps", residual.BuildProcMacroDeps)
			addBucket(branch, "build_link_deps", residual.BuildLinkDeps)
			if len(residual.Features) > 0 {
				branch.AddBranch(fmt.Sprintf("features (%d)", len(residual.Features)))
			}
		}
	}

	return root.String()
}



func addBucket(parent treeprint.Tree, label string, deps []annotate.Dependency) {
	if len(deps) == 0 {
		return
	}
	branch := parent.AddBranch(fmt.Sprintf("%s (%d)", label, len(deps)))
	for _, d := range deps {
		name := string(d.Dst)
		if d.Alias != "" {
			name = fmt.Sprintf("%s as %s", name, d.Alias)
		}
		if d.Optional {
			name += " [optional]"
		}
		branch.AddNode(name)
	}
}

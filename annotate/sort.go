// SPDX-License-Identifier: BSD-3-Clause
// Copyright (c) 2022, Unikraft GmbH and The KraftKit Authors.
// Licensed under the BSD-3-Clause License (the "License").
// You may not use this file except in compliance with the License.
package annotate

import (
	"sort"

	"kraftgraph.sh/featureresolve"
)

// sortStateKeys orders resolution-state keys by (id, location) so that
// annotation output is byte-reproducible across runs with identical inputs.
func sortStateKeys(keys []featureresolve.StateKey) {
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].ID != keys[j].ID {
			return keys[i].ID < keys[j].ID
		}
		return keys[i].Loc < keys[j].Loc
	})
}

func sortDepKeys(keys []featureresolve.DepKey) {
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].Dst != keys[j].Dst {
			return keys[i].Dst < keys[j].Dst
		}
		if keys[i].Loc != keys[j].Loc {
			return keys[i].Loc < keys[j].Loc
		}
		return keys[i].Kind < keys[j].Kind
	})
}

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

// Package platform is the target-info oracle: it resolves a triple string
// to the record of predicates (os, family, arch, target_feature, ...) that
// PlatformGate evaluates cfg(...) expressions and literal triples against.
package platform

import (
	"fmt"
	"strings"

	"kraftgraph.sh/platform/cfgexpr"
)

// Info is a single triple's target-predicate record. It answers the
// predicates a cfg(...) expression may reference.
type Info struct {
	Triple       string
	OS           string
	Family       string
	Arch         string
	Env          string
	Endian       string
	PointerWidth string
	Features     []string // target_feature values, e.g. "sse2"

	// Flags holds bare on/off predicates such as "unix" or "windows".
	Flags []string
}

// Match implements cfgexpr.Matcher. A predicate with no value is looked up
// among the bare Flags; a predicate with a value is compared against the
// matching named field. Any predicate this record does not recognise
// evaluates false, per the resolver's "all non-target predicates evaluate
// false" rule.
func (info Info) Match(key, value string) bool {
	if value == "" {
		for _, f := range info.Flags {
			if f == key {
				return true
			}
		}
		return false
	}

	switch key {
	case "target_os", "os":
		return info.OS == value
	case "target_family", "family":
		return info.Family == value
	case "target_arch", "arch":
		return info.Arch == value
	case "target_env", "env":
		return info.Env == value
	case "target_endian", "endian":
		return info.Endian == value
	case "target_pointer_width":
		return info.PointerWidth == value
	case "target_feature":
		for _, f := range info.Features {
			if f == value {
				return true
			}
		}
		return false
	default:
		return false
	}
}

// Oracle is the caller-supplied database of target-info records keyed by
// triple string.
type Oracle struct {
	records map[string]Info
}

// NewOracle builds an Oracle from a set of records.
func NewOracle(records ...Info) *Oracle {
	o := &Oracle{records: make(map[string]Info, len(records))}
	for _, r := range records {
		o.records[r.Triple] = r
	}
	return o
}

// Lookup returns the target-info record for triple. The caller-supplied
// triple-string set determines which records are requested; a missing
// record is a fatal startup error (InputMissing), raised by the caller.
func (o *Oracle) Lookup(triple string) (Info, bool) {
	r, ok := o.records[triple]
	return r, ok
}

// Gate evaluates a dependency edge's platform predicate (either a cfg(...)
// expression or a literal triple name) against info. An empty predicate
// always passes. A literal triple matches iff it equals info.Triple,
// case-insensitively. A malformed cfg expression is reported as an error
// identifying the offending predicate string; the caller attaches package
// and dependency context (BadCfg).
func Gate(predicate string, info Info) (bool, error) {
	if predicate == "" {
		return true, nil
	}

	trimmed := strings.TrimSpace(predicate)
	if !strings.HasPrefix(trimmed, "cfg(") {
		return strings.EqualFold(trimmed, info.Triple), nil
	}

	expr, err := cfgexpr.ParseCfg(trimmed)
	if err != nil {
		return false, fmt.Errorf("malformed cfg expression %q: %w", predicate, err)
	}

	return cfgexpr.Eval(expr, info), nil
}

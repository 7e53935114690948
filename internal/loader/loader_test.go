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
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kraftgraph.sh/metadata"
)

const validDoc = `
workspace_members:
  - app@0.1.0
packages:
  - id: app@0.1.0
    name: app
    version: 0.1.0
    features:
      default: []
    dependencies:
      - name: serde
        req: "^1.0"
        kind: normal
        use_default_features: true
  - id: serde@1.0.0
    name: serde
    version: 1.0.0
    features:
      default: []
platforms:
  - triple: x86_64-unknown-linux-gnu
    os: linux
    family: unix
    arch: x86_64
    flags: [unix]
`

func writeDoc(t *testing.T, contents string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "snapshot.yaml")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	return path
}

func TestLoadValidSnapshot(t *testing.T) {
	path := writeDoc(t, validDoc)

	snap, oracle, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, []metadata.PackageID{"app@0.1.0"}, snap.WorkspaceMembers)
	require.Len(t, snap.Packages, 2)

	info, ok := oracle.Lookup("x86_64-unknown-linux-gnu")
	require.True(t, ok)
	assert.Equal(t, "linux", info.OS)
}

func TestLoadRejectsSchemaViolation(t *testing.T) {
	path := writeDoc(t, `
workspace_members:
  - app@0.1.0
packages:
  - name: app
    version: 0.1.0
`)

	_, _, err := Load(path)
	assert.Error(t, err)
}

func TestLoadMissingFile(t *testing.T) {
	_, _, err := Load(filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	assert.Error(t, err)
}

func TestParseKindsIgnoresUnknown(t *testing.T) {
	kinds := parseKinds([]string{"rlib", "bogus", "proc-macro"})
	assert.Equal(t, []metadata.TargetKind{metadata.RLib, metadata.ProcMacro}, kinds)
}

func TestParseKindDefaultsToNormal(t *testing.T) {
	assert.Equal(t, metadata.Normal, parseKind(""))
	assert.Equal(t, metadata.Development, parseKind("dev"))
	assert.Equal(t, metadata.Build, parseKind("build"))
}

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

// Package loader materialises a metadata.Snapshot and a platform.Oracle
// from a YAML document: a thin stand-in for a package manager's own
// "metadata" command output. It does not parse manifests or splice
// lockfiles; it assumes that has already happened upstream.
package loader

// Document is the on-disk YAML shape of an input snapshot.
type Document struct {
	WorkspaceMembers []string          `yaml:"workspace_members"`
	Packages         []documentPackage `yaml:"packages"`
	Platforms        []documentPlatform `yaml:"platforms"`
}

type documentPackage struct {
	ID       string              `yaml:"id"`
	Name     string              `yaml:"name"`
	Version  string              `yaml:"version"`
	Links    string              `yaml:"links,omitempty"`
	Features map[string][]string `yaml:"features,omitempty"`
	Targets  []documentTarget    `yaml:"targets,omitempty"`
	Deps     []documentDependency `yaml:"dependencies,omitempty"`
}

type documentTarget struct {
	Name  string   `yaml:"name"`
	Kinds []string `yaml:"kinds"`
}

type documentDependency struct {
	Name               string   `yaml:"name"`
	Rename             string   `yaml:"rename,omitempty"`
	Req                string   `yaml:"req,omitempty"`
	Source             string   `yaml:"source,omitempty"`
	Optional           bool     `yaml:"optional,omitempty"`
	UseDefaultFeatures bool     `yaml:"use_default_features,omitempty"`
	Features           []string `yaml:"features,omitempty"`
	Platform           string   `yaml:"platform,omitempty"`
	Kind               string   `yaml:"kind"`
}

type documentPlatform struct {
	Triple       string   `yaml:"triple"`
	OS           string   `yaml:"os,omitempty"`
	Family       string   `yaml:"family,omitempty"`
	Arch         string   `yaml:"arch,omitempty"`
	Env          string   `yaml:"env,omitempty"`
	Endian       string   `yaml:"endian,omitempty"`
	PointerWidth string   `yaml:"pointer_width,omitempty"`
	Features     []string `yaml:"features,omitempty"`
	Flags        []string `yaml:"flags,omitempty"`
}

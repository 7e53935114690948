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

package config

import (
	"fmt"
	"path/filepath"
	"reflect"
	"strconv"
)

// Config is the top-level configuration structure for kraftgraph. It is fed
// from defaults, then a YAML file, then the environment, in that order, with
// later feeders taking precedence.
type Config struct {
	NoParallel bool   `json:"no_parallel" yaml:"no_parallel" env:"KRAFTGRAPH_NO_PARALLEL" default:"false"`
	Format     string `json:"format"      yaml:"format,omitempty"      env:"KRAFTGRAPH_FORMAT" default:"yaml"`

	Paths struct {
		Config string `json:"config" yaml:"config,omitempty" env:"KRAFTGRAPH_PATHS_CONFIG"`
		Cache  string `json:"cache"  yaml:"cache,omitempty"  env:"KRAFTGRAPH_PATHS_CACHE"`
	} `json:"paths" yaml:"paths,omitempty"`

	Log struct {
		Level      string `json:"level"      yaml:"level"      env:"KRAFTGRAPH_LOG_LEVEL"      default:"info"`
		Timestamps bool   `json:"timestamps" yaml:"timestamps" env:"KRAFTGRAPH_LOG_TIMESTAMPS" default:"false"`
		Type       string `json:"type"       yaml:"type"       env:"KRAFTGRAPH_LOG_TYPE"        default:"fancy"`
	} `json:"log" yaml:"log"`

	// TripleSets lets a user name a reusable group of target triples instead
	// of repeating them on every invocation of `kraftgraph resolve`.
	TripleSets map[string][]string `json:"triple_sets" yaml:"triple_sets,omitempty"`
}

type ConfigDetail struct {
	Key           string
	Description   string
	AllowedValues []string
}

// Descriptions of each configuration parameter as well as valid values
var configDetails = []ConfigDetail{
	{
		Key:         "no_parallel",
		Description: "resolve (host, target) pairs sequentially instead of concurrently",
	},
	{
		Key:         "format",
		Description: "default output format for the resolved annotations",
		AllowedValues: []string{
			"yaml",
			"json",
			"tree",
		},
	},
	{
		Key:         "log.level",
		Description: "set the logging verbosity",
		AllowedValues: []string{
			"fatal",
			"error",
			"warn",
			"info",
			"debug",
			"trace",
		},
	},
	{
		Key:         "log.type",
		Description: "set the logging renderer",
		AllowedValues: []string{
			"quiet",
			"basic",
			"fancy",
			"json",
		},
	},
	{
		Key:         "log.timestamps",
		Description: "show timestamps with log output",
	},
}

func ConfigDetails() []ConfigDetail {
	return configDetails
}

func NewDefaultConfig() (*Config, error) {
	c := &Config{}

	if err := setDefaults(c); err != nil {
		return nil, fmt.Errorf("could not set defaults for config: %s", err)
	}

	// ..for configuration files..
	if len(c.Paths.Config) == 0 {
		c.Paths.Config = ConfigDir()
	}

	// ..and for cached resolution output
	if len(c.Paths.Cache) == 0 {
		c.Paths.Cache = filepath.Join(DataDir(), "cache")
	}

	return c, nil
}

func setDefaults(s interface{}) error {
	return setDefaultValue(reflect.ValueOf(s), "")
}

func setDefaultValue(v reflect.Value, def string) error {
	if v.Kind() != reflect.Ptr {
		return fmt.Errorf("not a pointer value")
	}

	v = reflect.Indirect(v)

	switch v.Kind() {
	case reflect.Int:
		if len(def) > 0 {
			i, err := strconv.ParseInt(def, 10, 64)
			if err != nil {
				return fmt.Errorf("could not parse default integer value: %s", err)
			}
			v.SetInt(i)
		}

	case reflect.String:
		if len(def) > 0 {
			v.SetString(def)
		}

	case reflect.Bool:
		if len(def) > 0 {
			b, err := strconv.ParseBool(def)
			if err != nil {
				return fmt.Errorf("could not parse default boolean value: %s", err)
			}
			v.SetBool(b)
		} else {
			// Assume false by default
			v.SetBool(false)
		}

	case reflect.Struct:
		// Iterate over the struct fields
		for i := 0; i < v.NumField(); i++ {
			// Use the `default:""` tag as a hint for the value to set
			if err := setDefaultValue(
				v.Field(i).Addr(),
				v.Type().Field(i).Tag.Get("default"),
			); err != nil {
				return err
			}
		}

	// TODO: Arrays? Maps?

	default:
		// Ignore this value and property entirely
		return nil
	}

	return nil
}

// SPDX-License-Identifier: BSD-3-Clause
//
// Authors: Stefan Jumarea <stefanjumarea02@gmail.com>
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

// Package config provides the kraftgraph configuration functions
package config

import (
	"os"
	"reflect"
	"strconv"
)

// EnvFeeder feeds Config fields using environment variables named by each
// field's `env` struct tag.
type EnvFeeder struct{}

// Feed the environment variables into the given interface.
func (f EnvFeeder) Feed(structure interface{}) error {
	cfg := *structure.(**Config)
	return feedEnvValue(reflect.ValueOf(cfg).Elem())
}

func feedEnvValue(v reflect.Value) error {
	t := v.Type()

	for i := 0; i < t.NumField(); i++ {
		rsf := t.Field(i)
		rf := v.Field(i)

		if rf.Kind() == reflect.Struct {
			if err := feedEnvValue(rf); err != nil {
				return err
			}
			continue
		}

		tag := rsf.Tag.Get("env")
		if tag == "" {
			continue
		}

		stringValue, ok := os.LookupEnv(tag)
		if !ok {
			continue
		}

		switch rf.Kind() {
		case reflect.String:
			rf.SetString(stringValue)
		case reflect.Bool:
			val, err := strconv.ParseBool(stringValue)
			if err != nil {
				return err
			}
			rf.SetBool(val)
		case reflect.Int:
			val, err := strconv.ParseInt(stringValue, 0, 32)
			if err != nil {
				return err
			}
			rf.SetInt(val)
		}
	}

	return nil
}

// Do nothing, we do not set the environment variables based on the
// given interface.
func (f EnvFeeder) Write(structure interface{}, merge bool) error {
	return nil
}

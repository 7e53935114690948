// SPDX-License-Identifier: BSD-3-Clause
// Copyright (c) 2022, Unikraft GmbH and The KraftKit Authors.
// Licensed under the BSD-3-Clause License (the "License").
// You may not use this file except in compliance with the License.
package platform

// hostCapableTriples is the fixed allow-list of triples that may act as the
// "host" half of a (host, target) pair: the platforms capable of running
// the compiler and proc macros during a build. Every caller-supplied
// triple remains a valid *target* regardless of this list.
//
// Upstream carries a typo, "illumo" instead of "illumos"; we keep both
// spellings so strict byte-for-byte reproduction of upstream output stays
// possible, while "illumos" is the one a new record should actually use.
var hostCapableTriples = []string{
	"aarch64-apple-darwin",
	"aarch64-pc-windows-msvc",
	"aarch64-unknown-linux-gnu",
	"aarch64-unknown-linux-musl",
	"arm-unknown-linux-gnueabi",
	"arm-unknown-linux-gnueabihf",
	"i686-pc-windows-gnu",
	"i686-pc-windows-msvc",
	"i686-unknown-linux-gnu",
	"mips64-unknown-linux-gnuabi64",
	"mips64el-unknown-linux-gnuabi64",
	"mipsel-unknown-linux-gnu",
	"powerpc-unknown-linux-gnu",
	"powerpc64-unknown-linux-gnu",
	"powerpc64le-unknown-linux-gnu",
	"riscv64gc-unknown-linux-gnu",
	"s390x-unknown-linux-gnu",
	"sparcv9-sun-solaris",
	"x86_64-apple-darwin",
	"x86_64-pc-windows-gnu",
	"x86_64-pc-windows-msvc",
	"x86_64-unknown-freebsd",
	"x86_64-unknown-illumo",
	"x86_64-unknown-illumos",
	"x86_64-unknown-linux-gnu",
	"x86_64-unknown-linux-musl",
	"x86_64-unknown-netbsd",
}

// IsHostCapable reports whether triple may serve as the host half of a
// (host, target) resolution pair.
func IsHostCapable(triple string) bool {
	for _, t := range hostCapableTriples {
		if t == triple {
			return true
		}
	}
	return false
}

// HostCapableTriples returns the full allow-list, in declaration order.
func HostCapableTriples() []string {
	out := make([]string, len(hostCapableTriples))
	copy(out, hostCapableTriples)
	return out
}

// SPDX-License-Identifier: BSD-3-Clause
// Copyright (c) 2022, Unikraft GmbH and The KraftKit Authors.
// Licensed under the BSD-3-Clause License (the "License").
// You may not use this file except in compliance with the License.
package watch

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOnChangeInvokesImmediatelyAndOnWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "snapshot.yaml")
	require.NoError(t, os.WriteFile(path, []byte("a"), 0o644))

	var calls int32
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- OnChange(ctx, path, func() { atomic.AddInt32(&calls, 1) }) }()

	require.Eventually(t, func() bool { return atomic.LoadInt32(&calls) >= 1 }, time.Second, 10*time.Millisecond)

	require.NoError(t, os.WriteFile(path, []byte("b"), 0o644))

	require.Eventually(t, func() bool { return atomic.LoadInt32(&calls) >= 2 }, time.Second, 10*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("OnChange did not return after context cancellation")
	}
}

func TestOnChangeMissingPathReturnsError(t *testing.T) {
	err := OnChange(context.Background(), filepath.Join(t.TempDir(), "does-not-exist.yaml"), func() {})
	assert.Error(t, err)
}

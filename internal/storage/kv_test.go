// Copyright (c) 2025-2026 EazziHotech Ltd.
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestKV(t *testing.T) *KV {
	t.Helper()
	kv, err := Open(filepath.Join(t.TempDir(), "state.db"))
	require.NoError(t, err, "Open failed")
	t.Cleanup(func() { kv.Close() })
	return kv
}

func TestKV_PutGet(t *testing.T) {
	kv := newTestKV(t)

	require.NoError(t, kv.Put("tenantId", "t_123"))

	v, ok, err := kv.Get("tenantId")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "t_123", v)

	// Upsert replaces the value.
	require.NoError(t, kv.Put("tenantId", "t_456"))
	v, _, _ = kv.Get("tenantId")
	assert.Equal(t, "t_456", v)
}

func TestKV_GetMissing(t *testing.T) {
	kv := newTestKV(t)

	_, ok, err := kv.Get("nope")
	require.NoError(t, err)
	assert.False(t, ok, "missing key should report absent")
}

func TestKV_ReplaceAll(t *testing.T) {
	kv := newTestKV(t)

	require.NoError(t, kv.Put("stale", "x"))

	err := kv.ReplaceAll(map[string]string{
		"tenantId":    "t_1",
		"accessToken": "tok",
	})
	require.NoError(t, err)

	// Old key must be gone.
	_, ok, _ := kv.Get("stale")
	assert.False(t, ok, "ReplaceAll should remove previous keys")

	all, err := kv.GetAll()
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"tenantId": "t_1", "accessToken": "tok"}, all)
}

func TestKV_ClearIdempotent(t *testing.T) {
	kv := newTestKV(t)

	require.NoError(t, kv.Put("a", "1"))
	require.NoError(t, kv.Put("b", "2"))

	require.NoError(t, kv.Clear())
	n, err := kv.Len()
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	// Clearing an empty store must succeed.
	assert.NoError(t, kv.Clear())
}

func TestKV_Closed(t *testing.T) {
	kv := newTestKV(t)
	require.NoError(t, kv.Close())

	assert.ErrorIs(t, kv.Put("a", "1"), ErrClosed)
	_, _, err := kv.Get("a")
	assert.ErrorIs(t, err, ErrClosed)

	// Double close is fine.
	assert.NoError(t, kv.Close())
}

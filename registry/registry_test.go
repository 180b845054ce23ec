// SPDX-License-Identifier: MIT
// SPDX-FileCopyrightText: 2026 fogline
// SPDX-FileContributor: fogline

package registry

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRegistryBindLookup(t *testing.T) {
	r, err := New(nil)
	require.NoError(t, err)

	require.NoError(t, r.Bind("sensors/temp", 7))
	require.Equal(t, 1, r.Len())

	id, ok := r.Lookup("sensors/temp")
	require.True(t, ok)
	require.Equal(t, uint16(7), id)

	name, ok := r.Name(7)
	require.True(t, ok)
	require.Equal(t, "sensors/temp", name)

	_, ok = r.Lookup("sensors/humidity")
	require.False(t, ok)
}

func TestRegistryRebind(t *testing.T) {
	r, err := New(nil)
	require.NoError(t, err)

	require.NoError(t, r.Bind("sensors/temp", 7))
	require.NoError(t, r.Bind("sensors/temp", 9))

	id, ok := r.Lookup("sensors/temp")
	require.True(t, ok)
	require.Equal(t, uint16(9), id)

	// The superseded id no longer resolves.
	_, ok = r.Name(7)
	require.False(t, ok)
}

func TestRegistryUnbind(t *testing.T) {
	r, err := New(nil)
	require.NoError(t, err)

	require.NoError(t, r.Bind("sensors/temp", 7))
	require.NoError(t, r.Unbind("sensors/temp"))
	require.Equal(t, 0, r.Len())

	_, ok := r.Lookup("sensors/temp")
	require.False(t, ok)
	_, ok = r.Name(7)
	require.False(t, ok)
}

func TestBoltStorePersistence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "topics.db")

	store, err := NewBoltStore(&BoltOptions{Path: path})
	require.NoError(t, err)

	r, err := New(store)
	require.NoError(t, err)
	require.NoError(t, r.Bind("sensors/temp", 7))
	require.NoError(t, r.Bind("sensors/humidity", 8))
	require.NoError(t, r.Unbind("sensors/humidity"))
	require.NoError(t, r.Close())

	// A fresh registry over the same file resumes the surviving binding.
	store, err = NewBoltStore(&BoltOptions{Path: path})
	require.NoError(t, err)

	r, err = New(store)
	require.NoError(t, err)
	defer r.Close()

	require.Equal(t, 1, r.Len())
	id, ok := r.Lookup("sensors/temp")
	require.True(t, ok)
	require.Equal(t, uint16(7), id)
}

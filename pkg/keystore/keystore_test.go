// Copyright 2023 The Sigstore Authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package keystore_test

import (
	"bytes"
	"testing"

	"github.com/kristoffer-paulsson/angelos-go/pkg/keystore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memKeystore is a minimal in-memory keystore.Keystore, exercised here
// only to pin the interface's contract -- the master-password-gated
// implementation is a caller concern outside this module.
type memKeystore struct {
	master []byte
	key    []byte
	set    bool
}

func (k *memKeystore) New(master []byte) error {
	k.master = master
	k.key = nil
	k.set = false
	return nil
}

func (k *memKeystore) Set(master []byte, key []byte) error {
	if !bytes.Equal(master, k.master) {
		return keystore.ErrNotFound
	}
	k.key = key
	k.set = true
	return nil
}

func (k *memKeystore) Get(master []byte) ([]byte, error) {
	if !k.set || !bytes.Equal(master, k.master) {
		return nil, keystore.ErrNotFound
	}
	return k.key, nil
}

func (k *memKeystore) Redo(master []byte, key []byte) error {
	return k.Set(master, key)
}

var _ keystore.Keystore = (*memKeystore)(nil)

func TestKeystoreLifecycle(t *testing.T) {
	k := &memKeystore{}
	master := []byte("hunter2")

	_, err := k.Get(master)
	assert.ErrorIs(t, err, keystore.ErrNotFound)

	require.NoError(t, k.New(master))
	require.NoError(t, k.Set(master, []byte("seed-bytes")))

	got, err := k.Get(master)
	require.NoError(t, err)
	assert.Equal(t, []byte("seed-bytes"), got)

	require.NoError(t, k.Redo(master, []byte("rotated-seed")))
	got, err = k.Get(master)
	require.NoError(t, err)
	assert.Equal(t, []byte("rotated-seed"), got)
}

func TestKeystoreRejectsWrongMaster(t *testing.T) {
	k := &memKeystore{}
	require.NoError(t, k.New([]byte("correct")))
	assert.Error(t, k.Set([]byte("wrong"), []byte("x")))
}

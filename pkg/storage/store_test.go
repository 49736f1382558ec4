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

package storage_test

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/kristoffer-paulsson/angelos-go/pkg/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memStore is a minimal in-memory storage.Store, exercised here only to
// pin the interface's contract -- the B+tree-backed implementation is a
// caller concern outside this module.
type memStore struct {
	mu   sync.Mutex
	data map[uuid.UUID][]byte
}

func newMemStore() *memStore { return &memStore{data: make(map[uuid.UUID][]byte)} }

func (s *memStore) Get(_ context.Context, id uuid.UUID) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.data[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return v, nil
}

func (s *memStore) Put(_ context.Context, id uuid.UUID, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[id] = data
	return nil
}

func (s *memStore) Delete(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, id)
	return nil
}

var _ storage.Store = (*memStore)(nil)

func TestStorePutGetDelete(t *testing.T) {
	ctx := context.Background()
	s := newMemStore()
	id := uuid.New()

	_, err := s.Get(ctx, id)
	assert.ErrorIs(t, err, storage.ErrNotFound)

	require.NoError(t, s.Put(ctx, id, []byte("payload")))
	got, err := s.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, []byte("payload"), got)

	require.NoError(t, s.Delete(ctx, id))
	_, err = s.Get(ctx, id)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

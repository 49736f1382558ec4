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

// Package storage declares a narrow persistence seam: a byte store keyed by
// document id. No other package of this module imports it. The backing B+tree storage engine is out of this module's
// scope -- Store is an interface only, the collaborator contract a caller
// supplies an implementation for.
package storage

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// ErrNotFound is returned by Get when no value is stored under the given
// key.
var ErrNotFound = errors.New("storage: key not found")

// Store is the persistence collaborator: get/put/delete a document's
// stored bytes by its id.
type Store interface {
	Get(ctx context.Context, id uuid.UUID) ([]byte, error)
	Put(ctx context.Context, id uuid.UUID, data []byte) error
	Delete(ctx context.Context, id uuid.UUID) error
}

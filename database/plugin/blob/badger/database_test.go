// Copyright 2025 Inkline Labs
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

package badger

import (
	"crypto/sha256"
	"testing"

	"github.com/inkline-labs/quill/database/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContentRoundTrip(t *testing.T) {
	store, err := New(
		WithGc(false),
	)
	require.NoError(t, err)
	defer store.Close() //nolint:errcheck

	raw := []byte("a story passed down through four generations")
	digest := sha256.Sum256(raw)

	require.NoError(t, store.PutContent(digest[:], raw))

	ret, err := store.GetContent(digest[:])
	require.NoError(t, err)
	assert.Equal(t, raw, ret)

	// Writing the same digest again is a harmless overwrite
	require.NoError(t, store.PutContent(digest[:], raw))
}

func TestContentMissingDigest(t *testing.T) {
	store, err := New(
		WithGc(false),
	)
	require.NoError(t, err)
	defer store.Close() //nolint:errcheck

	missing := sha256.Sum256([]byte("never stored"))
	_, err = store.GetContent(missing[:])
	require.ErrorIs(t, err, types.ErrContentKeyNotFound)
}

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

package sqlite

import (
	"crypto/sha256"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/inkline-labs/quill/database/models"
	"github.com/inkline-labs/quill/database/types"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Concurrent posts for the same submission must produce exactly one
// revenue share row, with every loser observing created=false.
func TestConcurrentRevenueSharePost(t *testing.T) {
	store := setupStore(t)

	const workers = 16
	var wg sync.WaitGroup
	var createdCount atomic.Int64
	var errCount atomic.Int64
	for i := range workers {
		wg.Add(1)
		go func(worker int) {
			defer wg.Done()
			share := &models.RevenueShare{
				SubmissionID:  "sub-1",
				ContributorID: "contrib-1",
				BaseAmount: types.NewDecimal(
					decimal.RequireFromString("50.00"),
				),
				FinalAmount: types.NewDecimal(
					decimal.RequireFromString(
						fmt.Sprintf("%d.00", worker),
					),
				),
				PaymentStatus: models.PaymentStatusPending,
			}
			created, err := store.AddRevenueShare(share, nil)
			if err != nil {
				errCount.Add(1)
				return
			}
			if created {
				createdCount.Add(1)
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, int64(0), errCount.Load())
	assert.Equal(t, int64(1), createdCount.Load())

	var count int64
	result := store.DB().Model(&models.RevenueShare{}).Count(&count)
	require.NoError(t, result.Error)
	assert.Equal(t, int64(1), count)
}

// Concurrent fingerprint registrations of identical content must elect
// a single winner.
func TestConcurrentFingerprintRegister(t *testing.T) {
	store := setupStore(t)

	exactHash := sha256.Sum256([]byte("the same content"))
	const workers = 16
	var wg sync.WaitGroup
	var createdCount atomic.Int64
	for i := range workers {
		wg.Add(1)
		go func(worker int) {
			defer wg.Done()
			fp := &models.Fingerprint{
				ExactHash:     exactHash[:],
				SemanticHash:  exactHash[:],
				SubmissionID:  fmt.Sprintf("sub-%d", worker),
				ContributorID: fmt.Sprintf("contrib-%d", worker),
			}
			created, err := store.AddFingerprint(fp, nil)
			if err != nil {
				return
			}
			if created {
				createdCount.Add(1)
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, int64(1), createdCount.Load())

	var count int64
	result := store.DB().Model(&models.Fingerprint{}).Count(&count)
	require.NoError(t, result.Error)
	assert.Equal(t, int64(1), count)
}

// Suspicion accrual is a single atomic update, so concurrent penalties
// must sum without lost updates and the ban flag must latch.
func TestConcurrentSuspicionAccrual(t *testing.T) {
	store := setupStore(t)

	require.NoError(t, store.AddContributor(
		&models.Contributor{ID: "contrib-1", Tier: "bronze"},
		nil,
	))

	const workers = 8
	var wg sync.WaitGroup
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := store.AddSuspicion("contrib-1", 0.5, 2.0, nil)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	ret, err := store.GetContributor("contrib-1", nil)
	require.NoError(t, err)
	require.NotNil(t, ret)
	assert.InDelta(t, 4.0, ret.SuspicionScore, 0.0001)
	assert.True(t, ret.Banned)
}

package ports

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/aretw0/adbpilot/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunRunStoreContract runs a suite of tests to verify that a RunStore implementation
// adheres to the defined interface contract.
func RunRunStoreContract(t *testing.T, store RunStore) {
	ctx := context.Background()
	runID := "contract-run-" + time.Now().Format("20060102150405")

	newRecord := func(id string) *domain.RunRecord {
		return &domain.RunRecord{
			ID:         id,
			Device:     "emulator-5554",
			StartedAt:  time.Now().UTC().Truncate(time.Second),
			FinishedAt: time.Now().UTC().Truncate(time.Second),
			Steps:      2,
			Failed:     1,
			Report: domain.PlanReport{
				Success: true,
				RunID:   id,
				Results: []domain.StepResult{
					{Step: domain.ActionTap, Reasoning: "focus field", Success: true},
					{Step: "dance", Success: false, Error: "Unknown action: dance"},
				},
			},
		}
	}

	t.Run("Save and Load", func(t *testing.T) {
		record := newRecord(runID)

		err := store.Save(ctx, record)
		require.NoError(t, err, "Save should not return error")

		loaded, err := store.Load(ctx, runID)
		require.NoError(t, err, "Load should not return error")
		assert.Equal(t, record.ID, loaded.ID)
		assert.Equal(t, record.Device, loaded.Device)
		assert.Equal(t, 2, loaded.Steps)
		require.Len(t, loaded.Report.Results, 2)
		assert.Equal(t, domain.ActionTap, loaded.Report.Results[0].Step)
		assert.Equal(t, "Unknown action: dance", loaded.Report.Results[1].Error)
		assert.True(t, record.StartedAt.Equal(loaded.StartedAt))
	})

	t.Run("Load Non-Existent", func(t *testing.T) {
		_, err := store.Load(ctx, "non-existent-"+runID)
		assert.ErrorIs(t, err, domain.ErrRunNotFound)
	})

	t.Run("Delete", func(t *testing.T) {
		err := store.Save(ctx, newRecord(runID))
		require.NoError(t, err)

		err = store.Delete(ctx, runID)
		require.NoError(t, err, "Delete should not return error")

		_, err = store.Load(ctx, runID)
		assert.ErrorIs(t, err, domain.ErrRunNotFound, "Load after Delete should return ErrRunNotFound")
	})

	t.Run("List", func(t *testing.T) {
		id1 := runID + "-1"
		id2 := runID + "-2"
		_ = store.Save(ctx, newRecord(id1))
		_ = store.Save(ctx, newRecord(id2))

		defer func() {
			_ = store.Delete(ctx, id1)
			_ = store.Delete(ctx, id2)
		}()

		runs, err := store.List(ctx)
		require.NoError(t, err)
		assert.Contains(t, runs, id1)
		assert.Contains(t, runs, id2)
	})
}

// RunLockerContract verifies that a DistributedLocker serializes holders of the same key.
func RunLockerContract(t *testing.T, locker DistributedLocker) {
	ctx := context.Background()

	t.Run("Lock and Unlock", func(t *testing.T) {
		unlock, err := locker.Lock(ctx, "device-a", 5*time.Second)
		require.NoError(t, err)
		require.NotNil(t, unlock)
		assert.NoError(t, unlock(ctx))
	})

	t.Run("Contention", func(t *testing.T) {
		unlock, err := locker.Lock(ctx, "device-b", 5*time.Second)
		require.NoError(t, err)

		ctxTimeout, cancel := context.WithTimeout(ctx, 300*time.Millisecond)
		defer cancel()
		_, err = locker.Lock(ctxTimeout, "device-b", 5*time.Second)
		assert.ErrorIs(t, err, context.DeadlineExceeded)

		require.NoError(t, unlock(ctx))

		unlock2, err := locker.Lock(ctx, "device-b", 5*time.Second)
		require.NoError(t, err)
		assert.NoError(t, unlock2(ctx))
	})

	t.Run("Independent Keys", func(t *testing.T) {
		unlock1, err := locker.Lock(ctx, "device-c", 5*time.Second)
		require.NoError(t, err)
		defer unlock1(ctx)

		ctxTimeout, cancel := context.WithTimeout(ctx, time.Second)
		defer cancel()
		unlock2, err := locker.Lock(ctxTimeout, "device-d", 5*time.Second)
		require.NoError(t, err)
		assert.NoError(t, unlock2(ctx))
	})

	t.Run("Serializes Holders", func(t *testing.T) {
		var (
			mu      sync.Mutex
			holders int
			maxSeen int
			wg      sync.WaitGroup
		)
		for i := 0; i < 5; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				unlock, err := locker.Lock(ctx, "device-e", 5*time.Second)
				if !assert.NoError(t, err) {
					return
				}
				mu.Lock()
				holders++
				if holders > maxSeen {
					maxSeen = holders
				}
				mu.Unlock()

				time.Sleep(10 * time.Millisecond)

				mu.Lock()
				holders--
				mu.Unlock()
				_ = unlock(ctx)
			}()
		}
		wg.Wait()
		assert.Equal(t, 1, maxSeen, "at most one holder at a time")
	})
}

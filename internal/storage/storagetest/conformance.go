// Package storagetest holds a behavioural suite every Storage backend must pass.
package storagetest

import (
	"bytes"
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/templui/profiledesk/internal/storage"
)

// RunConformance exercises s. It writes below the "conformance" folder.
func RunConformance(t *testing.T, s storage.Storage) {
	t.Helper()
	ctx := context.Background()

	t.Run("save then read", func(t *testing.T) {
		data := []byte("hello blob")
		require.NoError(t, s.Save(ctx, "conformance/a.bin", data))

		got, err := s.Read(ctx, "conformance/a.bin")
		require.NoError(t, err)
		assert.Equal(t, data, got)

		ok, err := s.Exists(ctx, "conformance/a.bin")
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("save never overwrites", func(t *testing.T) {
		require.NoError(t, s.Save(ctx, "conformance/b.bin", []byte("first")))

		err := s.Save(ctx, "conformance/b.bin", []byte("second"))
		require.ErrorIs(t, err, storage.ErrExists)

		got, err := s.Read(ctx, "conformance/b.bin")
		require.NoError(t, err)
		assert.Equal(t, []byte("first"), got)
	})

	t.Run("empty object", func(t *testing.T) {
		require.NoError(t, s.Save(ctx, "conformance/empty.bin", nil))

		got, err := s.Read(ctx, "conformance/empty.bin")
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("missing object", func(t *testing.T) {
		_, err := s.Read(ctx, "conformance/missing.bin")
		require.ErrorIs(t, err, storage.ErrNotFound)

		ok, err := s.Exists(ctx, "conformance/missing.bin")
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("delete is idempotent", func(t *testing.T) {
		require.NoError(t, s.Save(ctx, "conformance/c.bin", []byte("x")))
		require.NoError(t, s.Delete(ctx, "conformance/c.bin"))
		require.NoError(t, s.Delete(ctx, "conformance/c.bin"))

		ok, err := s.Exists(ctx, "conformance/c.bin")
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("rejects escaping paths", func(t *testing.T) {
		for _, p := range []string{"", "../x", "conformance/../../x", "/abs", `conformance\x`} {
			require.ErrorIs(t, s.Save(ctx, p, []byte("x")), storage.ErrInvalidRef, p)
			_, err := s.Read(ctx, p)
			require.ErrorIs(t, err, storage.ErrInvalidRef, p)
			require.ErrorIs(t, s.Delete(ctx, p), storage.ErrInvalidRef, p)
		}
	})

	t.Run("concurrent saves of one path", func(t *testing.T) {
		const writers = 8
		var (
			wg   sync.WaitGroup
			mu   sync.Mutex
			wins [][]byte
		)
		for i := range writers {
			wg.Add(1)
			go func() {
				defer wg.Done()
				data := bytes.Repeat([]byte{byte('a' + i)}, 64)
				if err := s.Save(ctx, "conformance/race.bin", data); err == nil {
					mu.Lock()
					wins = append(wins, data)
					mu.Unlock()
				}
			}()
		}
		wg.Wait()

		require.Len(t, wins, 1)
		got, err := s.Read(ctx, "conformance/race.bin")
		require.NoError(t, err)
		assert.Equal(t, wins[0], got)
	})
}

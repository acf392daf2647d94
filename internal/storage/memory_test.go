package storage

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"scriptvoice/internal/scripts"
)

func TestMemoryRepositoryGenerations(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository()
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	var ids []uuid.UUID
	for i, v := range []scripts.Voice{scripts.VoiceKore, scripts.VoicePuck, scripts.VoiceKore} {
		gen := scripts.Generation{
			ID:        uuid.New(),
			Speaker1:  v,
			Audio:     []byte{byte(i)},
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}
		ids = append(ids, gen.ID)
		require.NoError(t, repo.CreateGeneration(ctx, gen))
	}

	got, err := repo.GetGeneration(ctx, ids[1])
	require.NoError(t, err)
	require.Equal(t, []byte{1}, got.Audio)

	_, err = repo.GetGeneration(ctx, uuid.New())
	require.ErrorIs(t, err, scripts.ErrNotFound)

	all, err := repo.ListGenerations(ctx, scripts.GenerationFilter{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	require.Equal(t, ids[2], all[0].ID)
	require.Nil(t, all[0].Audio)

	kore := scripts.VoiceKore
	filtered, err := repo.ListGenerations(ctx, scripts.GenerationFilter{Voice: &kore, Limit: 1})
	require.NoError(t, err)
	require.Len(t, filtered, 1)
	require.Equal(t, ids[2], filtered[0].ID)

	paged, err := repo.ListGenerations(ctx, scripts.GenerationFilter{Offset: 2})
	require.NoError(t, err)
	require.Len(t, paged, 1)
	require.Equal(t, ids[0], paged[0].ID)

	none, err := repo.ListGenerations(ctx, scripts.GenerationFilter{Offset: 5})
	require.NoError(t, err)
	require.Empty(t, none)
}

func TestMemoryRepositoryRecentEnhancements(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository()

	for _, out := range []string{"first", "second", "third"} {
		require.NoError(t, repo.SaveEnhancement(ctx, scripts.Enhancement{ID: uuid.New(), Output: out}))
	}

	recent, err := repo.RecentEnhancements(ctx, 2)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	require.Equal(t, "third", recent[0].Output)
	require.Equal(t, "second", recent[1].Output)
}

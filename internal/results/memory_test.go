package results

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"robin/internal/bugstats"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func summary(name string) *Summary {
	return &Summary{
		Kind: KindScope,
		Rows: []*bugstats.Result{{
			Name: name,
			Metrics: map[bugstats.Bucket]*bugstats.Metrics{
				bugstats.BucketAll: {ValidReported: 3, ValidQAContact: 4, CatchRatio: bugstats.NewRatio(3, 4)},
			},
			Links: map[bugstats.Bucket]*bugstats.Links{
				bugstats.BucketAll: {ValidReported: "https://bugzilla.example/buglist.cgi?x=1"},
			},
		}},
	}
}

func TestMemoryStoreEmpty(t *testing.T) {
	store := NewMemoryStore(4)
	ctx := context.Background()

	_, err := store.Latest(ctx)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = store.Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStoreSaveAndGet(t *testing.T) {
	store := NewMemoryStore(4)
	ctx := context.Background()

	first, err := store.Save(ctx, summary("kvm"))
	require.NoError(t, err)
	second, err := store.Save(ctx, summary("qzhang"))
	require.NoError(t, err)
	assert.NotEqual(t, first, second)

	got, err := store.Get(ctx, first)
	require.NoError(t, err)
	assert.Equal(t, "kvm", got.Rows[0].Name)
	assert.False(t, got.CreatedAt.IsZero())

	latest, err := store.Latest(ctx)
	require.NoError(t, err)
	assert.Equal(t, second, latest.ID)
	assert.Equal(t, "qzhang", latest.Rows[0].Name)
}

func TestMemoryStoreEvictsOldest(t *testing.T) {
	store := NewMemoryStore(2)
	ctx := context.Background()

	var ids []string
	for i := 0; i < 3; i++ {
		id, err := store.Save(ctx, summary(fmt.Sprintf("team-%d", i)))
		require.NoError(t, err)
		ids = append(ids, id)
	}

	_, err := store.Get(ctx, ids[0])
	assert.ErrorIs(t, err, ErrNotFound)

	for _, id := range ids[1:] {
		_, err := store.Get(ctx, id)
		assert.NoError(t, err)
	}
}

func TestMemoryStoreConcurrentSaves(t *testing.T) {
	store := NewMemoryStore(8)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := store.Save(ctx, summary(fmt.Sprintf("team-%d", i)))
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	latest, err := store.Latest(ctx)
	require.NoError(t, err)
	assert.NotEmpty(t, latest.ID)
}

func TestNewMemoryStoreDefaultCapacity(t *testing.T) {
	store := NewMemoryStore(0)
	assert.Equal(t, DefaultMemoryCapacity, store.capacity)
}

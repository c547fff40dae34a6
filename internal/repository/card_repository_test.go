package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/tcgvault/card-catalog/internal/domain"
)

func newTestRepo(t *testing.T, seed []domain.Card, opts ...CardRepositoryOption) (CardRepository, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cards.json")
	if seed != nil {
		data, err := json.Marshal(seed)
		require.NoError(t, err)
		require.NoError(t, os.WriteFile(path, data, 0o644))
	}
	return NewFileCardRepository(path, zap.NewNop(), opts...), path
}

func TestListMissingFileIsEmpty(t *testing.T) {
	repo, _ := newTestRepo(t, nil)
	ctx := context.Background()

	cards := repo.List(ctx, nil)
	assert.NotNil(t, cards)
	assert.Empty(t, cards)
	assert.Equal(t, 0, repo.Count(ctx))
}

func TestListCorruptFileDegradesToEmpty(t *testing.T) {
	repo, path := newTestRepo(t, nil)
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	assert.Empty(t, repo.List(context.Background(), nil))
	assert.Error(t, repo.Ping(context.Background()))
}

func TestListPreservesStorageOrder(t *testing.T) {
	repo, _ := newTestRepo(t, sampleCards())

	assert.Equal(t, []string{"1", "2", "3"}, ids(repo.List(context.Background(), nil)))
	assert.Equal(t, 3, repo.Count(context.Background()))
}

func TestCreateThenListAndDelete(t *testing.T) {
	repo, _ := newTestRepo(t, nil)
	ctx := context.Background()

	card := domain.NewCard("id", 1, "name", "Fireball")
	stored, err := repo.Create(ctx, card)
	require.NoError(t, err)
	assert.True(t, stored.Equal(card))

	listed := repo.List(ctx, nil)
	require.Len(t, listed, 1)
	assert.True(t, listed[0].Equal(card))

	removed, err := repo.Delete(ctx, "1")
	require.NoError(t, err)
	assert.True(t, removed.Equal(card))
	assert.Empty(t, repo.List(ctx, nil))
}

func TestCreateRejectsDuplicateID(t *testing.T) {
	repo, _ := newTestRepo(t, nil)
	ctx := context.Background()

	_, err := repo.Create(ctx, domain.NewCard("id", 1, "name", "Fireball"))
	require.NoError(t, err)

	_, err = repo.Create(ctx, domain.NewCard("id", 1, "name", "Other"))
	assert.ErrorIs(t, err, ErrDuplicateCardID)
	assert.Equal(t, 1, repo.Count(ctx))
}

func TestCreateDuplicateCheckIsExact(t *testing.T) {
	repo, _ := newTestRepo(t, nil)
	ctx := context.Background()

	_, err := repo.Create(ctx, domain.NewCard("id", 1))
	require.NoError(t, err)
	_, err = repo.Create(ctx, domain.NewCard("id", "1"))
	require.NoError(t, err)

	assert.Equal(t, 2, repo.Count(ctx))
}

func TestCreateRequiresID(t *testing.T) {
	repo, _ := newTestRepo(t, nil)

	_, err := repo.Create(context.Background(), domain.NewCard("name", "anonymous"))
	assert.ErrorIs(t, err, ErrMissingCardID)
	_, err = repo.Create(context.Background(), domain.NewCard("id", nil))
	assert.ErrorIs(t, err, ErrMissingCardID)
}

func TestCreateFailsOnCorruptStore(t *testing.T) {
	repo, path := newTestRepo(t, nil)
	require.NoError(t, os.WriteFile(path, []byte("garbage"), 0o644))

	_, err := repo.Create(context.Background(), domain.NewCard("id", 1))
	assert.ErrorIs(t, err, ErrStorage)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "garbage", string(data))
}

func TestCreateFailsWhenDirectoryIsGone(t *testing.T) {
	dir := t.TempDir()
	repo := NewFileCardRepository(filepath.Join(dir, "missing", "cards.json"), zap.NewNop())

	_, err := repo.Create(context.Background(), domain.NewCard("id", 1))
	assert.ErrorIs(t, err, ErrStorage)
}

func TestUpdateMergesPatch(t *testing.T) {
	repo, _ := newTestRepo(t, sampleCards())
	ctx := context.Background()

	merged, err := repo.Update(ctx, "1", domain.NewCard("rarity", "rare", "artist", "Q"))
	require.NoError(t, err)

	want := domain.NewCard("id", 1, "name", "Fireball", "set", "Alpha", "type", "spell", "rarity", "rare", "cost", 3, "artist", "Q")
	assert.True(t, merged.Equal(want))

	listed := repo.List(ctx, CardFilter{"id": "1"})
	require.Len(t, listed, 1)
	assert.True(t, listed[0].Equal(want))
}

func TestUpdateUnknownID(t *testing.T) {
	repo, _ := newTestRepo(t, sampleCards())

	_, err := repo.Update(context.Background(), "999", domain.NewCard("rarity", "rare"))
	assert.ErrorIs(t, err, ErrCardNotFound)
}

func TestUpdateIDCollision(t *testing.T) {
	repo, _ := newTestRepo(t, sampleCards())
	ctx := context.Background()

	_, err := repo.Update(ctx, "1", domain.NewCard("id", 2))
	assert.ErrorIs(t, err, ErrDuplicateCardID)

	_, err = repo.Update(ctx, "1", domain.NewCard("id", nil))
	assert.ErrorIs(t, err, ErrMissingCardID)

	// restating the current id is not a collision
	_, err = repo.Update(ctx, "1", domain.NewCard("id", 1, "name", "Fireball II"))
	require.NoError(t, err)

	renamed, err := repo.Update(ctx, "1", domain.NewCard("id", 10))
	require.NoError(t, err)
	id, _ := renamed.ID()
	assert.Equal(t, "10", id.Text())
	assert.Equal(t, []string{"10", "2", "3"}, ids(repo.List(ctx, nil)))
}

func TestDeleteUnknownID(t *testing.T) {
	repo, _ := newTestRepo(t, sampleCards())

	_, err := repo.Delete(context.Background(), "42")
	assert.ErrorIs(t, err, ErrCardNotFound)
	assert.Equal(t, 3, repo.Count(context.Background()))
}

func TestDeleteMatchesStringID(t *testing.T) {
	repo, _ := newTestRepo(t, sampleCards())
	ctx := context.Background()

	_, err := repo.Delete(ctx, "3")
	require.NoError(t, err)
	assert.Equal(t, []string{"1", "2"}, ids(repo.List(ctx, nil)))
}

func TestRandom(t *testing.T) {
	empty, _ := newTestRepo(t, nil)
	_, err := empty.Random(context.Background())
	assert.ErrorIs(t, err, ErrEmptyCollection)

	picks := []int{2, 0}
	repo, _ := newTestRepo(t, sampleCards(), WithRandom(func(n int) int {
		require.Equal(t, 3, n)
		next := picks[0]
		picks = picks[1:]
		return next
	}))

	card, err := repo.Random(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"3"}, ids([]domain.Card{card}))

	card, err = repo.Random(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"1"}, ids([]domain.Card{card}))
}

func TestRandomIsAlwaysMember(t *testing.T) {
	repo, _ := newTestRepo(t, sampleCards())
	members := ids(sampleCards())

	for i := 0; i < 20; i++ {
		card, err := repo.Random(context.Background())
		require.NoError(t, err)
		assert.Contains(t, members, ids([]domain.Card{card})[0])
	}
}

func TestDistinctValues(t *testing.T) {
	seed := append(sampleCards(),
		domain.NewCard("id", 4, "set", ""),
		domain.NewCard("id", 5, "set", "Beta", "rarity", 0),
		domain.NewCard("id", 6, "set", "Gamma", "rarity", "rare"),
	)
	repo, _ := newTestRepo(t, seed)
	ctx := context.Background()

	assert.Equal(t, []string{"Alpha", "Beta", "Gamma"}, repo.DistinctValues(ctx, "set"))
	assert.Equal(t, []string{"common", "rare"}, repo.DistinctValues(ctx, "rarity"))
	assert.Equal(t, []string{}, repo.DistinctValues(ctx, "artist"))
}

func TestPersistedFormatIsIndentedArray(t *testing.T) {
	repo, path := newTestRepo(t, nil)

	_, err := repo.Create(context.Background(), domain.NewCard("id", 1, "name", "Fireball"))
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "[\n  {\n    \"id\": 1,\n    \"name\": \"Fireball\"\n  }\n]", string(data))

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp files must not be left behind")
}

func TestUniquenessInvariantAcrossOperations(t *testing.T) {
	repo, _ := newTestRepo(t, nil)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		_, _ = repo.Create(ctx, domain.NewCard("id", i%3))
	}
	_, _ = repo.Update(ctx, "0", domain.NewCard("id", 1))
	_, _ = repo.Update(ctx, "2", domain.NewCard("id", 7))
	_, _ = repo.Create(ctx, domain.NewCard("id", 2))
	_, _ = repo.Delete(ctx, "1")
	_, _ = repo.Create(ctx, domain.NewCard("id", 7))

	seen := map[string]bool{}
	for _, id := range ids(repo.List(ctx, nil)) {
		assert.False(t, seen[id], "duplicate id %s", id)
		seen[id] = true
	}
}

func TestConcurrentCreatesAreNotLost(t *testing.T) {
	repo, _ := newTestRepo(t, nil)
	ctx := context.Background()

	const writers = 25
	var wg sync.WaitGroup
	errs := make(chan error, writers)
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			_, err := repo.Create(ctx, domain.NewCard("id", n, "name", fmt.Sprintf("card-%d", n)))
			errs <- err
		}(i)
	}

	// readers run alongside the writers and must never see a torn file
	var readers sync.WaitGroup
	for i := 0; i < 5; i++ {
		readers.Add(1)
		go func() {
			defer readers.Done()
			for j := 0; j < 20; j++ {
				for _, card := range repo.List(ctx, nil) {
					_, ok := card.ID()
					assert.True(t, ok)
				}
			}
		}()
	}

	wg.Wait()
	readers.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}
	assert.Equal(t, writers, repo.Count(ctx))
}

func TestMutationHonorsCanceledContext(t *testing.T) {
	repo, _ := newTestRepo(t, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := repo.Create(ctx, domain.NewCard("id", 1))
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, repo.Count(context.Background()))
}

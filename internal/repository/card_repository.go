package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"math/rand"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"

	"github.com/tcgvault/card-catalog/internal/domain"
)

// CardRepository owns the card collection.
type CardRepository interface {
	List(ctx context.Context, filter CardFilter) []domain.Card
	Count(ctx context.Context) int
	Random(ctx context.Context) (domain.Card, error)
	DistinctValues(ctx context.Context, attribute string) []string
	Create(ctx context.Context, card domain.Card) (domain.Card, error)
	Update(ctx context.Context, id string, patch domain.Card) (domain.Card, error)
	Delete(ctx context.Context, id string) (domain.Card, error)
	// Ping checks that the backing file is readable.
	Ping(ctx context.Context) error
}

type fileCardRepository struct {
	path   string
	logger *zap.Logger
	intn   func(n int) int

	// mu serializes the load, mutate, write cycle of every mutation.
	mu sync.Mutex
}

// CardRepositoryOption customizes the file repository.
type CardRepositoryOption func(*fileCardRepository)

// WithRandom replaces the source used by Random.
func WithRandom(intn func(n int) int) CardRepositoryOption {
	return func(r *fileCardRepository) {
		if intn != nil {
			r.intn = intn
		}
	}
}

// NewFileCardRepository returns a repository persisting cards as a JSON array at path.
func NewFileCardRepository(path string, logger *zap.Logger, opts ...CardRepositoryOption) CardRepository {
	if logger == nil {
		logger = zap.NewNop()
	}
	r := &fileCardRepository{path: path, logger: logger, intn: rand.Intn}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *fileCardRepository) List(ctx context.Context, filter CardFilter) []domain.Card {
	cards := filter.Apply(r.snapshot())
	if cards == nil {
		return []domain.Card{}
	}
	return cards
}

func (r *fileCardRepository) Count(ctx context.Context) int {
	return len(r.snapshot())
}

func (r *fileCardRepository) Random(ctx context.Context) (domain.Card, error) {
	cards := r.snapshot()
	if len(cards) == 0 {
		return domain.Card{}, ErrEmptyCollection
	}
	return cards[r.intn(len(cards))], nil
}

func (r *fileCardRepository) DistinctValues(ctx context.Context, attribute string) []string {
	seen := make(map[string]struct{})
	values := make([]string, 0)
	for _, card := range r.snapshot() {
		val, ok := card.Get(attribute)
		if !ok || !val.Truthy() {
			continue
		}
		text := val.Text()
		if _, dup := seen[text]; dup {
			continue
		}
		seen[text] = struct{}{}
		values = append(values, text)
	}
	return values
}

func (r *fileCardRepository) Create(ctx context.Context, card domain.Card) (domain.Card, error) {
	id, ok := card.ID()
	if !ok {
		return domain.Card{}, ErrMissingCardID
	}
	return r.mutate(ctx, func(cards []domain.Card) ([]domain.Card, domain.Card, error) {
		if indexByID(cards, id, -1) >= 0 {
			return nil, domain.Card{}, ErrDuplicateCardID
		}
		stored := card.Clone()
		return append(cards, stored), stored, nil
	})
}

func (r *fileCardRepository) Update(ctx context.Context, id string, patch domain.Card) (domain.Card, error) {
	return r.mutate(ctx, func(cards []domain.Card) ([]domain.Card, domain.Card, error) {
		idx := indexByLooseID(cards, id)
		if idx < 0 {
			return nil, domain.Card{}, ErrCardNotFound
		}
		if newID, present := patch.Get(domain.CardIDField); present {
			current, _ := cards[idx].ID()
			if !newID.Equal(current) {
				if newID.IsNull() {
					return nil, domain.Card{}, ErrMissingCardID
				}
				if indexByID(cards, newID, idx) >= 0 {
					return nil, domain.Card{}, ErrDuplicateCardID
				}
			}
		}
		merged := cards[idx].Merge(patch)
		cards[idx] = merged
		return cards, merged, nil
	})
}

func (r *fileCardRepository) Delete(ctx context.Context, id string) (domain.Card, error) {
	return r.mutate(ctx, func(cards []domain.Card) ([]domain.Card, domain.Card, error) {
		idx := indexByLooseID(cards, id)
		if idx < 0 {
			return nil, domain.Card{}, ErrCardNotFound
		}
		removed := cards[idx]
		return append(cards[:idx], cards[idx+1:]...), removed, nil
	})
}

func (r *fileCardRepository) Ping(ctx context.Context) error {
	_, err := r.load()
	return err
}

type mutation func(cards []domain.Card) ([]domain.Card, domain.Card, error)

func (r *fileCardRepository) mutate(ctx context.Context, fn mutation) (domain.Card, error) {
	if err := ctx.Err(); err != nil {
		return domain.Card{}, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	cards, err := r.load()
	if err != nil {
		return domain.Card{}, err
	}
	next, result, err := fn(cards)
	if err != nil {
		return domain.Card{}, err
	}
	if err := r.save(next); err != nil {
		return domain.Card{}, err
	}
	return result, nil
}

// snapshot loads the collection for read paths, degrading to empty.
func (r *fileCardRepository) snapshot() []domain.Card {
	cards, err := r.load()
	if err != nil {
		r.logger.Warn("card store unreadable; serving empty collection",
			zap.String("path", r.path), zap.Error(err))
		return nil
	}
	return cards
}

// load reads the full collection. A missing file is an empty collection.
func (r *fileCardRepository) load() ([]domain.Card, error) {
	data, err := os.ReadFile(r.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %v", ErrStorage, r.path, err)
	}
	var cards []domain.Card
	if err := json.Unmarshal(data, &cards); err != nil {
		return nil, fmt.Errorf("%w: parse %s: %v", ErrStorage, r.path, err)
	}
	return cards, nil
}

// save replaces the backing file via a temp file and rename so concurrent
// readers see either the old or the new collection.
func (r *fileCardRepository) save(cards []domain.Card) error {
	if cards == nil {
		cards = []domain.Card{}
	}
	data, err := json.MarshalIndent(cards, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: encode cards: %v", ErrStorage, err)
	}
	if err := writeFileAtomic(r.path, data, 0o644); err != nil {
		return fmt.Errorf("%w: write %s: %v", ErrStorage, r.path, err)
	}
	return nil
}

func writeFileAtomic(path string, data []byte, perm os.FileMode) (err error) {
	dir, base := filepath.Split(path)
	if dir == "" {
		dir = "."
	}
	tmp, err := os.CreateTemp(dir, "."+base+".*.tmp")
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = os.Remove(tmp.Name())
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		_ = tmp.Close()
		return err
	}
	if err = tmp.Sync(); err != nil {
		_ = tmp.Close()
		return err
	}
	if err = tmp.Close(); err != nil {
		return err
	}
	if err = os.Chmod(tmp.Name(), perm); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

// indexByID finds an exact id match, skipping the record at skip.
func indexByID(cards []domain.Card, id domain.Value, skip int) int {
	for i, card := range cards {
		if i == skip {
			continue
		}
		if existing, ok := card.ID(); ok && existing.Equal(id) {
			return i
		}
	}
	return -1
}

// indexByLooseID finds the first record whose id loosely equals a path id.
func indexByLooseID(cards []domain.Card, id string) int {
	for i, card := range cards {
		if existing, ok := card.ID(); ok && existing.LooseEqual(id) {
			return i
		}
	}
	return -1
}

package entityloader

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"

	"github.com/rpattn/fedentity/internal/domain"
	"github.com/rpattn/fedentity/internal/repository"
)

type stubRepository struct {
	mu      sync.Mutex
	stored  map[string]repository.StoredEntity
	batches [][]string
}

func (s *stubRepository) Create(_ context.Context, _ domain.Entity) (repository.StoredEntity, error) {
	return repository.StoredEntity{}, errors.New("not implemented")
}

func (s *stubRepository) GetByGUID(_ context.Context, guid string) (repository.StoredEntity, error) {
	if stored, ok := s.stored[guid]; ok {
		return stored, nil
	}
	return repository.StoredEntity{}, repository.ErrNotFound
}

func (s *stubRepository) ListByGUIDs(_ context.Context, guids []string) ([]repository.StoredEntity, error) {
	s.mu.Lock()
	s.batches = append(s.batches, guids)
	s.mu.Unlock()

	var out []repository.StoredEntity
	for _, guid := range guids {
		if stored, ok := s.stored[guid]; ok {
			out = append(out, stored)
		}
	}
	return out, nil
}

func (s *stubRepository) ListByType(_ context.Context, _ string, _, _ int) ([]repository.StoredEntity, int, error) {
	return nil, 0, nil
}

func (s *stubRepository) Count(_ context.Context) (int64, error) {
	return int64(len(s.stored)), nil
}

func (s *stubRepository) Delete(_ context.Context, _ uuid.UUID) error {
	return repository.ErrNotFound
}

func TestParentLoader_BatchesConcurrentLookups(t *testing.T) {
	repo := &stubRepository{stored: map[string]repository.StoredEntity{
		"s1": {ID: uuid.New(), GUID: "s1", EntityType: "StatusMessage"},
		"s2": {ID: uuid.New(), GUID: "s2", EntityType: "StatusMessage"},
	}}
	loader := NewParentLoader(repo)

	var wg sync.WaitGroup
	results := make([]error, 2)
	for i, guid := range []string{"s1", "s2"} {
		wg.Add(1)
		go func(i int, guid string) {
			defer wg.Done()
			_, err := loader.Load(context.Background(), guid)
			results[i] = err
		}(i, guid)
	}
	wg.Wait()

	for i, err := range results {
		if err != nil {
			t.Errorf("lookup %d: %v", i, err)
		}
	}
	repo.mu.Lock()
	batches := len(repo.batches)
	repo.mu.Unlock()
	if batches != 1 {
		t.Errorf("expected one batched repository call, got %d", batches)
	}
}

func TestParentLoader_MissingParent(t *testing.T) {
	loader := NewParentLoader(&stubRepository{stored: map[string]repository.StoredEntity{}})

	_, err := loader.Load(context.Background(), "missing")
	if !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestParentLoader_MissDoesNotStickAcrossBatches(t *testing.T) {
	repo := &stubRepository{stored: map[string]repository.StoredEntity{}}
	loader := NewParentLoader(repo)

	if _, err := loader.Load(context.Background(), "s1"); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected ErrNotFound before parent exists, got %v", err)
	}

	repo.mu.Lock()
	repo.stored["s1"] = repository.StoredEntity{ID: uuid.New(), GUID: "s1", EntityType: "StatusMessage"}
	repo.mu.Unlock()

	stored, err := loader.Load(context.Background(), "s1")
	if err != nil {
		t.Fatalf("expected lookup to succeed once the parent exists, got %v", err)
	}
	if stored.GUID != "s1" {
		t.Errorf("unexpected parent: %+v", stored)
	}

	repo.mu.Lock()
	batches := len(repo.batches)
	repo.mu.Unlock()
	if batches != 2 {
		t.Errorf("expected the second lookup to hit the repository, got %d batches", batches)
	}
}

func TestParentLoader_FoundParent(t *testing.T) {
	repo := &stubRepository{stored: map[string]repository.StoredEntity{
		"s1": {ID: uuid.New(), GUID: "s1", EntityType: "StatusMessage", Author: "alice@pod.example"},
	}}
	loader := NewParentLoader(repo)

	stored, err := loader.Load(context.Background(), "s1")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if stored.GUID != "s1" || stored.Author != "alice@pod.example" {
		t.Errorf("unexpected parent: %+v", stored)
	}
}

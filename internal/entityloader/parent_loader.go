// Package entityloader batches parent lookups for relayable entities so a
// burst of comments and likes against the same posts hits storage once per
// distinct parent.
package entityloader

import (
	"context"
	"fmt"
	"time"

	"github.com/graph-gophers/dataloader"

	"github.com/rpattn/fedentity/internal/repository"
)

// ParentLoader resolves parent entities by federation guid through a
// batching dataloader.
type ParentLoader struct {
	loader *dataloader.Loader
}

// NewParentLoader creates a loader over the entity repository.
func NewParentLoader(repo repository.EntityRepository) *ParentLoader {
	batchFn := func(ctx context.Context, keys dataloader.Keys) []*dataloader.Result {
		guids := make([]string, len(keys))
		for i, key := range keys {
			guids[i] = key.String()
		}

		entities, err := repo.ListByGUIDs(ctx, guids)
		if err != nil {
			results := make([]*dataloader.Result, len(keys))
			for i := range results {
				results[i] = &dataloader.Result{Error: err}
			}
			return results
		}

		byGUID := make(map[string]repository.StoredEntity, len(entities))
		for _, entity := range entities {
			byGUID[entity.GUID] = entity
		}

		results := make([]*dataloader.Result, len(keys))
		for i, guid := range guids {
			if entity, ok := byGUID[guid]; ok {
				results[i] = &dataloader.Result{Data: entity}
			} else {
				results[i] = &dataloader.Result{Error: fmt.Errorf("parent %s: %w", guid, repository.ErrNotFound)}
			}
		}
		return results
	}

	// Results are not cached across batches; a parent missing now may exist
	// by the time the sender retries.
	return &ParentLoader{
		loader: dataloader.NewBatchedLoader(batchFn,
			dataloader.WithWait(5*time.Millisecond),
			dataloader.WithClearCacheOnBatch(),
		),
	}
}

// Load resolves one parent guid through the batch.
func (l *ParentLoader) Load(ctx context.Context, guid string) (repository.StoredEntity, error) {
	data, err := l.loader.Load(ctx, dataloader.StringKey(guid))()
	if err != nil {
		return repository.StoredEntity{}, err
	}
	entity, ok := data.(repository.StoredEntity)
	if !ok {
		return repository.StoredEntity{}, fmt.Errorf("unexpected parent payload for %s", guid)
	}
	return entity, nil
}

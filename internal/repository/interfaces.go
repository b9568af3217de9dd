package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/rpattn/fedentity/internal/domain"
)

// ErrNotFound is returned when no stored entity matches the lookup.
var ErrNotFound = errors.New("entity not found")

// StoredEntity is one accepted entity as persisted. GUID and Author are
// lifted out of the property map for indexed lookups; Properties holds the
// full flattened property map.
type StoredEntity struct {
	ID         uuid.UUID
	EntityType string
	GUID       string
	Author     string
	Public     bool
	Properties map[string]any
	ReceivedAt time.Time
}

// EntityRepository defines storage for accepted entities.
type EntityRepository interface {
	Create(ctx context.Context, entity domain.Entity) (StoredEntity, error)
	GetByGUID(ctx context.Context, guid string) (StoredEntity, error)
	ListByGUIDs(ctx context.Context, guids []string) ([]StoredEntity, error)
	ListByType(ctx context.Context, entityType string, limit, offset int) ([]StoredEntity, int, error)
	Count(ctx context.Context) (int64, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

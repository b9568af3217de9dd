package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/rpattn/fedentity/internal/domain"
)

// entityRepository implements EntityRepository on Postgres.
type entityRepository struct {
	pool *pgxpool.Pool
}

// NewEntityRepository creates a Postgres-backed entity repository.
func NewEntityRepository(pool *pgxpool.Pool) EntityRepository {
	return &entityRepository{pool: pool}
}

// Create persists an accepted entity.
func (r *entityRepository) Create(ctx context.Context, entity domain.Entity) (StoredEntity, error) {
	properties := entity.StorableProperties()
	propertiesJSON, err := json.Marshal(properties)
	if err != nil {
		return StoredEntity{}, fmt.Errorf("failed to marshal properties: %w", err)
	}

	stored := StoredEntity{
		ID:         uuid.New(),
		EntityType: entity.TypeName(),
		GUID:       entity.GetString("guid"),
		Author:     entity.GetString("author"),
		Public:     entity.GetBool("public"),
		Properties: properties,
		ReceivedAt: time.Now().UTC(),
	}

	_, err = r.pool.Exec(ctx,
		`INSERT INTO entities (id, entity_type, guid, author, public, properties, received_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		stored.ID, stored.EntityType, stored.GUID, stored.Author, stored.Public, propertiesJSON, stored.ReceivedAt,
	)
	if err != nil {
		return StoredEntity{}, fmt.Errorf("failed to create entity: %w", err)
	}

	return stored, nil
}

// GetByGUID retrieves an accepted entity by its federation guid.
func (r *entityRepository) GetByGUID(ctx context.Context, guid string) (StoredEntity, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT id, entity_type, guid, author, public, properties, received_at
		 FROM entities WHERE guid = $1`,
		guid,
	)
	stored, err := scanStoredEntity(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return StoredEntity{}, ErrNotFound
		}
		return StoredEntity{}, fmt.Errorf("failed to get entity by guid: %w", err)
	}
	return stored, nil
}

// ListByGUIDs retrieves accepted entities by guid in one round trip. Unknown
// guids are simply absent from the result.
func (r *entityRepository) ListByGUIDs(ctx context.Context, guids []string) ([]StoredEntity, error) {
	if len(guids) == 0 {
		return []StoredEntity{}, nil
	}

	rows, err := r.pool.Query(ctx,
		`SELECT id, entity_type, guid, author, public, properties, received_at
		 FROM entities WHERE guid = ANY($1)`,
		guids,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list entities by guids: %w", err)
	}
	defer rows.Close()

	return collectStoredEntities(rows)
}

// ListByType retrieves accepted entities of one type, newest first, along
// with the total count for that type.
func (r *entityRepository) ListByType(ctx context.Context, entityType string, limit, offset int) ([]StoredEntity, int, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, entity_type, guid, author, public, properties, received_at,
		        COUNT(*) OVER() AS total_count
		 FROM entities WHERE entity_type = $1
		 ORDER BY received_at DESC
		 LIMIT $2 OFFSET $3`,
		entityType, limit, offset,
	)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list entities: %w", err)
	}
	defer rows.Close()

	var entities []StoredEntity
	total := 0
	for rows.Next() {
		var stored StoredEntity
		var propertiesJSON []byte
		if err := rows.Scan(&stored.ID, &stored.EntityType, &stored.GUID, &stored.Author,
			&stored.Public, &propertiesJSON, &stored.ReceivedAt, &total); err != nil {
			return nil, 0, fmt.Errorf("failed to scan entity: %w", err)
		}
		if err := json.Unmarshal(propertiesJSON, &stored.Properties); err != nil {
			return nil, 0, fmt.Errorf("failed to unmarshal properties: %w", err)
		}
		entities = append(entities, stored)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to read entities: %w", err)
	}

	return entities, total, nil
}

// Count returns the number of accepted entities.
func (r *entityRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM entities`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count entities: %w", err)
	}
	return count, nil
}

// Delete removes a stored entity by row id.
func (r *entityRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM entities WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete entity: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func scanStoredEntity(row pgx.Row) (StoredEntity, error) {
	var stored StoredEntity
	var propertiesJSON []byte
	if err := row.Scan(&stored.ID, &stored.EntityType, &stored.GUID, &stored.Author,
		&stored.Public, &propertiesJSON, &stored.ReceivedAt); err != nil {
		return StoredEntity{}, err
	}
	if err := json.Unmarshal(propertiesJSON, &stored.Properties); err != nil {
		return StoredEntity{}, fmt.Errorf("failed to unmarshal properties: %w", err)
	}
	return stored, nil
}

func collectStoredEntities(rows pgx.Rows) ([]StoredEntity, error) {
	var entities []StoredEntity
	for rows.Next() {
		stored, err := scanStoredEntity(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan entity: %w", err)
		}
		entities = append(entities, stored)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read entities: %w", err)
	}
	return entities, nil
}

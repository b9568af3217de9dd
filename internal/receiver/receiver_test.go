package receiver

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/rpattn/fedentity/internal/auth"
	"github.com/rpattn/fedentity/internal/domain"
	"github.com/rpattn/fedentity/internal/entities"
	"github.com/rpattn/fedentity/internal/entityloader"
	"github.com/rpattn/fedentity/internal/repository"
)

// fakeRepository keeps accepted entities in memory, keyed by guid.
type fakeRepository struct {
	created []repository.StoredEntity
}

func (f *fakeRepository) Create(_ context.Context, entity domain.Entity) (repository.StoredEntity, error) {
	stored := repository.StoredEntity{
		ID:         uuid.New(),
		EntityType: entity.TypeName(),
		GUID:       entity.GetString("guid"),
		Author:     entity.GetString("author"),
		Public:     entity.GetBool("public"),
		Properties: entity.StorableProperties(),
		ReceivedAt: time.Now().UTC(),
	}
	f.created = append(f.created, stored)
	return stored, nil
}

func (f *fakeRepository) GetByGUID(_ context.Context, guid string) (repository.StoredEntity, error) {
	for _, stored := range f.created {
		if stored.GUID == guid {
			return stored, nil
		}
	}
	return repository.StoredEntity{}, repository.ErrNotFound
}

func (f *fakeRepository) ListByGUIDs(_ context.Context, guids []string) ([]repository.StoredEntity, error) {
	var out []repository.StoredEntity
	for _, guid := range guids {
		for _, stored := range f.created {
			if stored.GUID == guid {
				out = append(out, stored)
			}
		}
	}
	return out, nil
}

func (f *fakeRepository) ListByType(_ context.Context, entityType string, limit, offset int) ([]repository.StoredEntity, int, error) {
	var matching []repository.StoredEntity
	for _, stored := range f.created {
		if stored.EntityType == entityType {
			matching = append(matching, stored)
		}
	}
	total := len(matching)
	if offset >= total {
		return nil, total, nil
	}
	end := offset + limit
	if end > total {
		end = total
	}
	return matching[offset:end], total, nil
}

func (f *fakeRepository) Count(_ context.Context) (int64, error) {
	return int64(len(f.created)), nil
}

func (f *fakeRepository) Delete(_ context.Context, id uuid.UUID) error {
	for i, stored := range f.created {
		if stored.ID == id {
			f.created = append(f.created[:i], f.created[i+1:]...)
			return nil
		}
	}
	return repository.ErrNotFound
}

// fakeVerifier records the sender it was asked to verify.
type fakeVerifier struct {
	sender string
	err    error
}

func (f *fakeVerifier) VerifySender(_ context.Context, sender string, _ domain.Entity) error {
	f.sender = sender
	return f.err
}

func TestReceivePublic_PersistsAcceptedEntity(t *testing.T) {
	repo := &fakeRepository{}
	recv := New(nil, repo, nil)

	entity := buildEntity(t, entities.TypeStatusMessage, map[string]any{
		"author": "alice@pod.example",
		"guid":   "s1",
		"text":   "hello",
		"public": true,
	})
	if err := recv.ReceivePublic(context.Background(), "alice@pod.example", entity); err != nil {
		t.Fatalf("receive: %v", err)
	}

	if len(repo.created) != 1 {
		t.Fatalf("expected one stored entity, got %d", len(repo.created))
	}
	stored := repo.created[0]
	if stored.EntityType != entities.TypeStatusMessage || stored.GUID != "s1" || !stored.Public {
		t.Errorf("unexpected stored entity: %+v", stored)
	}
}

func TestReceivePublic_RejectsNonPublicWithoutStoring(t *testing.T) {
	repo := &fakeRepository{}
	recv := New(nil, repo, nil)

	entity := buildEntity(t, entities.TypeStatusMessage, map[string]any{
		"author": "alice@pod.example",
		"guid":   "s1",
		"text":   "hello",
	})
	err := recv.ReceivePublic(context.Background(), "alice@pod.example", entity)
	var notPublic *domain.NotPublicError
	if !errors.As(err, &notPublic) {
		t.Fatalf("expected NotPublicError, got %v", err)
	}
	if len(repo.created) != 0 {
		t.Errorf("expected nothing stored, got %d", len(repo.created))
	}
}

func TestReceivePrivate_SkipsPublicRule(t *testing.T) {
	repo := &fakeRepository{}
	recv := New(nil, repo, nil)

	entity := buildEntity(t, entities.TypeStatusMessage, map[string]any{
		"author": "alice@pod.example",
		"guid":   "s1",
		"text":   "just for you",
	})
	if err := recv.ReceivePrivate(context.Background(), "alice@pod.example", entity); err != nil {
		t.Fatalf("receive: %v", err)
	}
	if len(repo.created) != 1 {
		t.Errorf("expected one stored entity, got %d", len(repo.created))
	}
}

func TestReceive_InvokesVerifier(t *testing.T) {
	verifier := &fakeVerifier{}
	recv := New(verifier, &fakeRepository{}, nil)

	entity := buildEntity(t, entities.TypeStatusMessage, map[string]any{
		"author": "alice@pod.example",
		"guid":   "s1",
		"text":   "hello",
		"public": true,
	})
	if err := recv.ReceivePublic(context.Background(), "alice@pod.example", entity); err != nil {
		t.Fatalf("receive: %v", err)
	}
	if verifier.sender != "alice@pod.example" {
		t.Errorf("expected verifier invoked with sender, got %q", verifier.sender)
	}
}

func TestReceive_VerifierErrorAborts(t *testing.T) {
	verifier := &fakeVerifier{err: errors.New("bad signature")}
	repo := &fakeRepository{}
	recv := New(verifier, repo, nil)

	entity := buildEntity(t, entities.TypeStatusMessage, map[string]any{
		"author": "alice@pod.example",
		"guid":   "s1",
		"text":   "hello",
		"public": true,
	})
	if err := recv.ReceivePublic(context.Background(), "alice@pod.example", entity); err == nil {
		t.Fatalf("expected verification failure to abort")
	}
	if len(repo.created) != 0 {
		t.Errorf("expected nothing stored, got %d", len(repo.created))
	}
}

func TestReceive_SenderScopeMismatchAborts(t *testing.T) {
	repo := &fakeRepository{}
	recv := New(nil, repo, nil)

	entity := buildEntity(t, entities.TypeStatusMessage, map[string]any{
		"author": "alice@pod.example",
		"guid":   "s1",
		"text":   "hello",
		"public": true,
	})
	ctx := auth.ContextWithSender(context.Background(), "mallory@pod.example")
	if err := recv.ReceivePublic(ctx, "alice@pod.example", entity); err == nil {
		t.Fatalf("expected sender scope mismatch to abort")
	}
	if len(repo.created) != 0 {
		t.Errorf("expected nothing stored, got %d", len(repo.created))
	}
}

func TestReceive_RelayableRequiresKnownParent(t *testing.T) {
	repo := &fakeRepository{}
	parents := entityloader.NewParentLoader(repo)
	recv := New(nil, repo, parents)

	parent := buildEntity(t, entities.TypeStatusMessage, map[string]any{
		"author": "alice@pod.example",
		"guid":   "s1",
		"text":   "hello",
		"public": true,
	})
	if err := recv.ReceivePublic(context.Background(), "alice@pod.example", parent); err != nil {
		t.Fatalf("store parent: %v", err)
	}

	comment := buildEntity(t, entities.TypeComment, map[string]any{
		"author":      "bob@pod.example",
		"guid":        "c1",
		"parent_guid": "s1",
		"text":        "nice",
	})
	if err := recv.ReceivePublic(context.Background(), "bob@pod.example", comment); err != nil {
		t.Fatalf("expected comment with known parent accepted, got %v", err)
	}

	orphan := buildEntity(t, entities.TypeComment, map[string]any{
		"author":      "bob@pod.example",
		"guid":        "c2",
		"parent_guid": "missing",
		"text":        "lost",
	})
	err := recv.ReceivePublic(context.Background(), "bob@pod.example", orphan)
	var invalidData *domain.InvalidDataError
	if !errors.As(err, &invalidData) {
		t.Fatalf("expected InvalidDataError for unknown parent, got %v", err)
	}
}

func TestReceive_ResentRelayableAcceptedOnceParentArrives(t *testing.T) {
	repo := &fakeRepository{}
	parents := entityloader.NewParentLoader(repo)
	recv := New(nil, repo, parents)

	comment := buildEntity(t, entities.TypeComment, map[string]any{
		"author":      "bob@pod.example",
		"guid":        "c1",
		"parent_guid": "s1",
		"text":        "first",
	})
	err := recv.ReceivePublic(context.Background(), "bob@pod.example", comment)
	var invalidData *domain.InvalidDataError
	if !errors.As(err, &invalidData) {
		t.Fatalf("expected comment ahead of its parent rejected, got %v", err)
	}

	parent := buildEntity(t, entities.TypeStatusMessage, map[string]any{
		"author": "alice@pod.example",
		"guid":   "s1",
		"text":   "hello",
		"public": true,
	})
	if err := recv.ReceivePublic(context.Background(), "alice@pod.example", parent); err != nil {
		t.Fatalf("store parent: %v", err)
	}

	if err := recv.ReceivePublic(context.Background(), "bob@pod.example", comment); err != nil {
		t.Fatalf("expected resent comment accepted after parent arrived, got %v", err)
	}
	if len(repo.created) != 2 {
		t.Errorf("expected parent and comment stored, got %d", len(repo.created))
	}
}

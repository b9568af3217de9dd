// Package receiver accepts decoded entities into the system: generic sender
// checks first, then type-specific protocol validation, then storage. A
// failure rejects the one message at hand and nothing else.
package receiver

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/rpattn/fedentity/internal/auth"
	"github.com/rpattn/fedentity/internal/domain"
	"github.com/rpattn/fedentity/internal/entityloader"
	"github.com/rpattn/fedentity/internal/repository"
)

// Verifier performs the generic sender checks (signature, authorization)
// that run before any type-specific validation. The envelope layer supplies
// the implementation; a nil Verifier means verification happened upstream.
type Verifier interface {
	VerifySender(ctx context.Context, sender string, entity domain.Entity) error
}

// Receiver is the acceptance pipeline for decoded entities.
type Receiver struct {
	verifier Verifier
	entities repository.EntityRepository
	parents  *entityloader.ParentLoader
	log      *logrus.Entry
}

// New creates a receiver. The repository and parent loader are optional:
// without a repository accepted entities are validated but not stored, and
// without a parent loader relayables skip the parent-existence check.
func New(verifier Verifier, entities repository.EntityRepository, parents *entityloader.ParentLoader) *Receiver {
	return &Receiver{
		verifier: verifier,
		entities: entities,
		parents:  parents,
		log:      logrus.WithField("component", "receiver"),
	}
}

// ReceivePublic runs the generic checks and the public-flag rule, then hands
// the entity to storage.
func (r *Receiver) ReceivePublic(ctx context.Context, sender string, entity domain.Entity) error {
	if err := r.verify(ctx, sender, entity); err != nil {
		return err
	}
	if err := ValidatePublic(entity); err != nil {
		r.log.WithFields(logrus.Fields{
			"entity_type": entity.TypeName(),
			"sender":      sender,
		}).Warn("rejected non-public entity")
		return err
	}
	return r.persist(ctx, sender, entity)
}

// ReceivePrivate accepts entities addressed to a single recipient; the
// public-flag rule does not apply.
func (r *Receiver) ReceivePrivate(ctx context.Context, sender string, entity domain.Entity) error {
	if err := r.verify(ctx, sender, entity); err != nil {
		return err
	}
	return r.persist(ctx, sender, entity)
}

// verify runs the generic pipeline checks shared by both channels.
func (r *Receiver) verify(ctx context.Context, sender string, entity domain.Entity) error {
	if err := auth.EnforceSenderScope(ctx, sender); err != nil {
		return err
	}
	if r.verifier != nil {
		if err := r.verifier.VerifySender(ctx, sender, entity); err != nil {
			return fmt.Errorf("sender verification failed: %w", err)
		}
	}
	if r.parents != nil {
		if parentGUID, ok := relayableParent(entity); ok {
			if _, err := r.parents.Load(ctx, parentGUID); err != nil {
				return &domain.InvalidDataError{
					TypeName: entity.TypeName(),
					Reason:   err.Error(),
				}
			}
		}
	}
	return nil
}

// relayableParent returns the parent guid for entities that declare one.
func relayableParent(entity domain.Entity) (string, bool) {
	if !entity.Schema().HasProperty("parent_guid") {
		return "", false
	}
	guid := entity.GetString("parent_guid")
	return guid, guid != ""
}

func (r *Receiver) persist(ctx context.Context, sender string, entity domain.Entity) error {
	if r.entities == nil {
		return nil
	}
	stored, err := r.entities.Create(ctx, entity)
	if err != nil {
		return fmt.Errorf("failed to store accepted entity: %w", err)
	}
	r.log.WithFields(logrus.Fields{
		"entity_type": stored.EntityType,
		"guid":        stored.GUID,
		"sender":      sender,
	}).Info("accepted entity")
	return nil
}

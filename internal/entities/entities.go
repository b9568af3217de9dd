// Package entities declares every federation entity type. Each type states
// its properties exactly once, at definition time; the resulting registry is
// immutable and shared by all concurrent receipts.
package entities

import (
	"github.com/rpattn/fedentity/internal/domain"
	"github.com/rpattn/fedentity/internal/schema"
)

// Declared entity type names.
const (
	TypeProfile       = "Profile"
	TypeStatusMessage = "StatusMessage"
	TypePhoto         = "Photo"
	TypeLocation      = "Location"
	TypePoll          = "Poll"
	TypePollAnswer    = "PollAnswer"
	TypeComment       = "Comment"
	TypeLike          = "Like"
)

// NewRegistry declares every entity type and assembles the process-wide
// registry. Call it once at startup; declaration failures are programming
// errors and surface immediately.
func NewRegistry() (*schema.Registry, error) {
	profile, err := newProfileSchema()
	if err != nil {
		return nil, err
	}
	photo, err := newPhotoSchema()
	if err != nil {
		return nil, err
	}
	location, err := newLocationSchema()
	if err != nil {
		return nil, err
	}
	pollAnswer, err := newPollAnswerSchema()
	if err != nil {
		return nil, err
	}
	poll, err := newPollSchema(pollAnswer)
	if err != nil {
		return nil, err
	}
	statusMessage, err := newStatusMessageSchema(photo, location, poll)
	if err != nil {
		return nil, err
	}
	comment, err := newCommentSchema()
	if err != nil {
		return nil, err
	}
	like, err := newLikeSchema()
	if err != nil {
		return nil, err
	}

	return schema.NewRegistry(profile, statusMessage, photo, location, poll, pollAnswer, comment, like)
}

// declarer keeps a sticky error so type definitions read as a flat property
// list instead of a ladder of error checks.
type declarer struct {
	b   *schema.Builder
	err error
}

func declare(typeName string) *declarer {
	return &declarer{b: schema.NewBuilder(typeName)}
}

func (d *declarer) scalar(name string, kind domain.PropertyKind, opts schema.Options) {
	if d.err != nil {
		return
	}
	d.err = d.b.DeclareScalar(name, kind, opts)
}

func (d *declarer) entity(name string, nested domain.EntityType, opts schema.Options) {
	if d.err != nil {
		return
	}
	d.err = d.b.DeclareEntity(name, nested, opts)
}

func (d *declarer) entityList(name string, nested domain.EntityType, opts schema.Options) {
	if d.err != nil {
		return
	}
	d.err = d.b.DeclareEntityList(name, []domain.EntityType{nested}, opts)
}

func (d *declarer) seal() (*domain.Schema, error) {
	if d.err != nil {
		return nil, d.err
	}
	return d.b.Seal()
}

package receiver

import (
	"github.com/rpattn/fedentity/internal/domain"
	"github.com/rpattn/fedentity/internal/entities"
)

// profileExemptFields is the fixed set of profile properties inspected when
// a profile arrives without the public flag. A profile with all of these
// blank carries nothing that requires public distribution, so rejecting it
// would only break harmless housekeeping updates. The list is part of the
// wire protocol: changing it is a versioned compatibility decision, not a
// refactor.
var profileExemptFields = []string{"bio", "birthday", "gender", "location", "tag_string"}

// ValidatePublic enforces the protocol rule that an entity arriving on the
// public channel must declare itself public. Types without a public property
// are out of the rule's reach, and an empty profile is the one sanctioned
// exception. The check is pure and stateless: it either passes or returns
// NotPublicError for this single entity.
func ValidatePublic(entity domain.Entity) error {
	if !entity.Schema().HasProperty("public") {
		return nil
	}
	if entity.GetBool("public") {
		return nil
	}
	if entity.TypeName() == entities.TypeProfile && emptyProfile(entity) {
		return nil
	}
	return &domain.NotPublicError{
		TypeName: entity.TypeName(),
		Author:   entity.GetString("author"),
	}
}

func emptyProfile(entity domain.Entity) bool {
	for _, name := range profileExemptFields {
		if value, ok := entity.Get(name); ok && !domain.IsBlank(value) {
			return false
		}
	}
	return true
}

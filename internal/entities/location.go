package entities

import (
	"github.com/rpattn/fedentity/internal/domain"
	"github.com/rpattn/fedentity/internal/schema"
)

// newLocationSchema declares the Location entity type, nested inside status
// messages that carry a geotag.
func newLocationSchema() (*domain.Schema, error) {
	d := declare(TypeLocation)
	d.scalar("address", domain.KindString, schema.Options{})
	d.scalar("lat", domain.KindFloat, schema.Options{})
	d.scalar("lng", domain.KindFloat, schema.Options{})
	return d.seal()
}

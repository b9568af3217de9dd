package entities

import (
	"github.com/rpattn/fedentity/internal/domain"
	"github.com/rpattn/fedentity/internal/schema"
)

// newProfileSchema declares the Profile entity type: the author's
// self-description. The author property is also accepted under its
// historical wire name diaspora_handle.
func newProfileSchema() (*domain.Schema, error) {
	d := declare(TypeProfile)
	d.scalar("author", domain.KindString, schema.Options{Alias: "diaspora_handle"})
	d.scalar("first_name", domain.KindString, schema.Options{Optional: true})
	d.scalar("last_name", domain.KindString, schema.Options{Optional: true})
	d.scalar("image_url", domain.KindString, schema.Options{Optional: true})
	d.scalar("image_url_medium", domain.KindString, schema.Options{Optional: true})
	d.scalar("image_url_small", domain.KindString, schema.Options{Optional: true})
	d.scalar("bio", domain.KindString, schema.Options{Optional: true})
	d.scalar("birthday", domain.KindTimestamp, schema.Options{Optional: true})
	d.scalar("gender", domain.KindString, schema.Options{Optional: true})
	d.scalar("location", domain.KindString, schema.Options{Optional: true})
	d.scalar("searchable", domain.KindBoolean, schema.Options{Default: true})
	d.scalar("public", domain.KindBoolean, schema.Options{Default: false})
	d.scalar("nsfw", domain.KindBoolean, schema.Options{Default: false})
	d.scalar("tag_string", domain.KindString, schema.Options{Optional: true})
	return d.seal()
}

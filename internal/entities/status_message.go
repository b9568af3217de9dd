package entities

import (
	"time"

	"github.com/rpattn/fedentity/internal/domain"
	"github.com/rpattn/fedentity/internal/schema"
)

// newStatusMessageSchema declares the StatusMessage entity type: a text post
// optionally carrying photos, a location, and a poll. The text property keeps
// its legacy wire name raw_message as an alias, and created_at is stamped
// fresh per instance when the sender omits it.
func newStatusMessageSchema(photo, location, poll *domain.Schema) (*domain.Schema, error) {
	d := declare(TypeStatusMessage)
	d.scalar("author", domain.KindString, schema.Options{Alias: "diaspora_handle"})
	d.scalar("guid", domain.KindString, schema.Options{})
	d.scalar("text", domain.KindString, schema.Options{Alias: "raw_message"})
	d.entityList("photos", photo, schema.Options{Optional: true})
	d.entity("location", location, schema.Options{Optional: true})
	d.entity("poll", poll, schema.Options{Optional: true})
	d.scalar("public", domain.KindBoolean, schema.Options{Default: false})
	d.scalar("provider_display_name", domain.KindString, schema.Options{Optional: true})
	d.scalar("created_at", domain.KindTimestamp, schema.Options{DefaultFunc: func() any { return time.Now().UTC() }})
	return d.seal()
}

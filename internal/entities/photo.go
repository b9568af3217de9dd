package entities

import (
	"time"

	"github.com/rpattn/fedentity/internal/domain"
	"github.com/rpattn/fedentity/internal/schema"
)

// newPhotoSchema declares the Photo entity type. Photos federate either on
// their own or nested inside a status message; status_message_guid links the
// nested case back to its post.
func newPhotoSchema() (*domain.Schema, error) {
	d := declare(TypePhoto)
	d.scalar("author", domain.KindString, schema.Options{Alias: "diaspora_handle"})
	d.scalar("guid", domain.KindString, schema.Options{})
	d.scalar("public", domain.KindBoolean, schema.Options{Default: false})
	d.scalar("created_at", domain.KindTimestamp, schema.Options{DefaultFunc: func() any { return time.Now().UTC() }})
	d.scalar("remote_photo_path", domain.KindString, schema.Options{})
	d.scalar("remote_photo_name", domain.KindString, schema.Options{})
	d.scalar("text", domain.KindString, schema.Options{Optional: true})
	d.scalar("status_message_guid", domain.KindString, schema.Options{Optional: true})
	d.scalar("width", domain.KindInteger, schema.Options{Optional: true})
	d.scalar("height", domain.KindInteger, schema.Options{Optional: true})
	return d.seal()
}

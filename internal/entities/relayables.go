package entities

import (
	"time"

	"github.com/rpattn/fedentity/internal/domain"
	"github.com/rpattn/fedentity/internal/schema"
)

// Comment and Like are relayable entities: they reference a parent entity by
// guid and only make sense once that parent is known locally.

func newCommentSchema() (*domain.Schema, error) {
	d := declare(TypeComment)
	d.scalar("author", domain.KindString, schema.Options{Alias: "diaspora_handle"})
	d.scalar("guid", domain.KindString, schema.Options{})
	d.scalar("parent_guid", domain.KindString, schema.Options{})
	d.scalar("text", domain.KindString, schema.Options{})
	d.scalar("created_at", domain.KindTimestamp, schema.Options{DefaultFunc: func() any { return time.Now().UTC() }})
	return d.seal()
}

func newLikeSchema() (*domain.Schema, error) {
	d := declare(TypeLike)
	d.scalar("author", domain.KindString, schema.Options{Alias: "diaspora_handle"})
	d.scalar("guid", domain.KindString, schema.Options{})
	d.scalar("parent_guid", domain.KindString, schema.Options{})
	d.scalar("parent_type", domain.KindString, schema.Options{})
	d.scalar("positive", domain.KindBoolean, schema.Options{Default: true})
	return d.seal()
}

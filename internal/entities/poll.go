package entities

import (
	"github.com/rpattn/fedentity/internal/domain"
	"github.com/rpattn/fedentity/internal/schema"
)

// newPollSchema declares the Poll entity type with its ordered answer list.
func newPollSchema(pollAnswer *domain.Schema) (*domain.Schema, error) {
	d := declare(TypePoll)
	d.scalar("guid", domain.KindString, schema.Options{})
	d.scalar("question", domain.KindString, schema.Options{})
	d.entityList("poll_answers", pollAnswer, schema.Options{})
	return d.seal()
}

func newPollAnswerSchema() (*domain.Schema, error) {
	d := declare(TypePollAnswer)
	d.scalar("guid", domain.KindString, schema.Options{})
	d.scalar("answer", domain.KindString, schema.Options{})
	return d.seal()
}

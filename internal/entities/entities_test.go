package entities

import (
	"testing"

	"github.com/rpattn/fedentity/internal/domain"
)

func TestNewRegistry_DeclaresAllTypes(t *testing.T) {
	registry, err := NewRegistry()
	if err != nil {
		t.Fatalf("registry: %v", err)
	}

	expected := []string{
		TypeProfile, TypeStatusMessage, TypePhoto, TypeLocation,
		TypePoll, TypePollAnswer, TypeComment, TypeLike,
	}
	for _, typeName := range expected {
		if _, ok := registry.Lookup(typeName); !ok {
			t.Errorf("expected type %s to be declared", typeName)
		}
	}
}

func TestProfile_AuthorAlias(t *testing.T) {
	registry, err := NewRegistry()
	if err != nil {
		t.Fatalf("registry: %v", err)
	}
	profile, _ := registry.Lookup(TypeProfile)

	if name, ok := profile.CanonicalName("diaspora_handle"); !ok || name != "author" {
		t.Errorf("expected diaspora_handle to alias author, got %q ok=%v", name, ok)
	}
}

func TestProfile_Defaults(t *testing.T) {
	registry, err := NewRegistry()
	if err != nil {
		t.Fatalf("registry: %v", err)
	}
	profile, _ := registry.Lookup(TypeProfile)

	defaults := profile.ResolveDefaults()
	if defaults["searchable"] != true {
		t.Errorf("expected searchable default true, got %v", defaults["searchable"])
	}
	if defaults["public"] != false {
		t.Errorf("expected public default false, got %v", defaults["public"])
	}
	if !domain.IsUnset(defaults["bio"]) {
		t.Errorf("expected bio to default to unset, got %v", defaults["bio"])
	}
}

func TestStatusMessage_CompositeProperties(t *testing.T) {
	registry, err := NewRegistry()
	if err != nil {
		t.Fatalf("registry: %v", err)
	}
	statusMessage, _ := registry.Lookup(TypeStatusMessage)

	photos, ok := statusMessage.Property("photos")
	if !ok || photos.Kind != domain.KindEntityList || photos.Nested.TypeName() != TypePhoto {
		t.Errorf("unexpected photos declaration: %+v", photos)
	}
	poll, ok := statusMessage.Property("poll")
	if !ok || poll.Kind != domain.KindEntity || poll.Nested.TypeName() != TypePoll {
		t.Errorf("unexpected poll declaration: %+v", poll)
	}
	if name, ok := statusMessage.CanonicalName("raw_message"); !ok || name != "text" {
		t.Errorf("expected raw_message to alias text, got %q ok=%v", name, ok)
	}
}

func TestRelayables_DeclareParentGUID(t *testing.T) {
	registry, err := NewRegistry()
	if err != nil {
		t.Fatalf("registry: %v", err)
	}
	for _, typeName := range []string{TypeComment, TypeLike} {
		sch, _ := registry.Lookup(typeName)
		if !sch.HasProperty("parent_guid") {
			t.Errorf("expected %s to declare parent_guid", typeName)
		}
	}
}

package receiver

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/rpattn/fedentity/internal/auth"
	"github.com/rpattn/fedentity/internal/domain"
	"github.com/rpattn/fedentity/internal/ingestion"
)

// Handler exposes the receiver as HTTP endpoints for decoded, verified
// payloads: POST /receive/public and POST /receive/private.
type Handler struct {
	builder  *ingestion.Builder
	receiver *Receiver
}

// NewHTTPHandler wires the instance builder and receiver behind HTTP.
func NewHTTPHandler(builder *ingestion.Builder, receiver *Receiver) http.Handler {
	return &Handler{builder: builder, receiver: receiver}
}

type receivePayload struct {
	Sender     string         `json:"sender"`
	EntityType string         `json:"entity_type"`
	Payload    map[string]any `json:"payload"`
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	public := strings.HasSuffix(r.URL.Path, "/public")
	if !public && !strings.HasSuffix(r.URL.Path, "/private") {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}

	var payload receivePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
		return
	}
	if strings.TrimSpace(payload.Sender) == "" {
		writeError(w, http.StatusBadRequest, fmt.Errorf("sender is required"))
		return
	}
	if strings.TrimSpace(payload.EntityType) == "" {
		writeError(w, http.StatusBadRequest, fmt.Errorf("entity_type is required"))
		return
	}

	entity, err := h.builder.Build(payload.EntityType, payload.Payload)
	if err != nil {
		writeError(w, statusForError(err), err)
		return
	}

	ctx := auth.ContextWithSender(r.Context(), payload.Sender)
	if public {
		err = h.receiver.ReceivePublic(ctx, payload.Sender, entity)
	} else {
		err = h.receiver.ReceivePrivate(ctx, payload.Sender, entity)
	}
	if err != nil {
		writeError(w, statusForError(err), err)
		return
	}

	writeJSON(w, http.StatusAccepted, map[string]string{
		"status":      "accepted",
		"entity_type": entity.TypeName(),
	})
}

// statusForError maps the protocol error taxonomy onto HTTP statuses.
// Malformed input is the sender's fault; a rejected-but-well-formed entity
// is unprocessable; anything else is ours.
func statusForError(err error) int {
	var notPublic *domain.NotPublicError
	if errors.As(err, &notPublic) {
		return http.StatusUnprocessableEntity
	}
	var invalidData *domain.InvalidDataError
	if errors.As(err, &invalidData) {
		return http.StatusBadRequest
	}
	var invalidType *domain.InvalidTypeError
	if errors.As(err, &invalidType) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

package export

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/rpattn/fedentity/internal/domain"
)

type Handler struct {
	service *Service
}

func NewHTTPHandler(service *Service) http.Handler {
	return &Handler{service: service}
}

type exportPayload struct {
	EntityType string `json:"entity_type"`
}

type exportResponse struct {
	EntityType string `json:"entity_type"`
	File       string `json:"file"`
	Rows       int    `json:"rows"`
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	defer r.Body.Close()

	var payload exportPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, fmt.Sprintf("invalid payload: %v", err), http.StatusBadRequest)
		return
	}
	entityType := strings.TrimSpace(payload.EntityType)
	if entityType == "" {
		http.Error(w, "entity_type is required", http.StatusBadRequest)
		return
	}

	path, rows, err := h.service.ExportEntityType(r.Context(), entityType)
	if err != nil {
		var invalidType *domain.InvalidTypeError
		if errors.As(err, &invalidType) {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, exportResponse{
		EntityType: entityType,
		File:       path,
		Rows:       rows,
	})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

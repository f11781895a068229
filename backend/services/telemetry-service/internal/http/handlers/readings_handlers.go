package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"water360/backend/libs/httpx"
	"water360/backend/services/telemetry-service/internal/service"
)

// ReadingHandlers serves single-reading endpoints.
type ReadingHandlers struct {
	service *service.ReadingService
	logger  *zap.Logger
}

// NewReadingHandlers returns handler struct.
func NewReadingHandlers(svc *service.ReadingService, logger *zap.Logger) *ReadingHandlers {
	return &ReadingHandlers{service: svc, logger: logger}
}

// List handles GET /data/readings.
func (h *ReadingHandlers) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	rows, err := h.service.List(r.Context(), service.ListQuery{
		Location: q.Get("location"),
		Date:     q.Get("date"),
	})
	if err != nil {
		writeServiceError(w, h.logger, "list readings", err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, listResponse{Count: len(rows), Data: rows})
}

// Create handles POST /data/readings.
func (h *ReadingHandlers) Create(w http.ResponseWriter, r *http.Request) {
	var input service.CreateReadingInput
	if err := httpx.DecodeJSON(r, &input); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	id, err := h.service.Create(r.Context(), input)
	if err != nil {
		writeServiceError(w, h.logger, "store reading", err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, map[string]int64{"id": id})
}

// Get handles GET /data/readings/{id}.
func (h *ReadingHandlers) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		httpx.WriteError(w, http.StatusBadRequest, "invalid reading id")
		return
	}
	reading, err := h.service.Get(r.Context(), id)
	if err != nil {
		writeServiceError(w, h.logger, "load reading", err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, reading)
}

// Update handles PUT /data/readings/{id}.
func (h *ReadingHandlers) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		httpx.WriteError(w, http.StatusBadRequest, "invalid reading id")
		return
	}
	var input service.UpdateReadingInput
	if err := httpx.DecodeJSON(r, &input); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	affected, err := h.service.Update(r.Context(), id, input)
	if err != nil {
		writeServiceError(w, h.logger, "update reading", err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]int64{"id": id, "affected": affected})
}

// Delete handles DELETE /data/readings/{id}. Deleting an unknown id reports zero affected rows.
func (h *ReadingHandlers) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		httpx.WriteError(w, http.StatusBadRequest, "invalid reading id")
		return
	}
	affected, err := h.service.Delete(r.Context(), id)
	if err != nil {
		writeServiceError(w, h.logger, "delete reading", err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]int64{"id": id, "affected": affected})
}

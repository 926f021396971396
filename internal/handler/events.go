package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/osse101/BrandishIdle_Go/internal/logger"
	"github.com/osse101/BrandishIdle_Go/internal/repository"
)

// EventJournal reads the journal of committed ledger events
type EventJournal interface {
	OwnerEvents(ctx context.Context, ownerID string, limit int) ([]repository.EventLogEntry, error)
}

// EventsQuery is the validated form of the events query string
type EventsQuery struct {
	Limit int `validate:"gte=0,lte=500"`
}

// EventsResponse lists an owner's most recent journaled events
type EventsResponse struct {
	OwnerID string                     `json:"owner_id"`
	Events  []repository.EventLogEntry `json:"events"`
}

// EventHandlers serves the event journal
type EventHandlers struct {
	journal EventJournal
}

// NewEventHandlers creates the journal handlers
func NewEventHandlers(journal EventJournal) *EventHandlers {
	return &EventHandlers{journal: journal}
}

// HandleGetOwnerEvents returns an owner's journaled assignments, unassignments and removals, newest first
// @Summary Owner event journal
// @Tags events
// @Produce json
// @Param ownerID path string true "Owner ID"
// @Param limit query int false "Maximum entries (default 50, max 500)"
// @Success 200 {object} EventsResponse
// @Failure 400 {object} ValidationErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /api/v1/owners/{ownerID}/events [get]
func (h *EventHandlers) HandleGetOwnerEvents() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ownerID, ok := ownerFromPath(w, r)
		if !ok {
			return
		}

		var query EventsQuery
		if raw := r.URL.Query().Get(ParamLimit); raw != "" {
			limit, err := strconv.Atoi(raw)
			if err != nil {
				respondJSON(w, http.StatusBadRequest, ValidationErrorResponse{
					Error:  ErrMsgInvalidLimit,
					Fields: map[string]string{ParamLimit: "Must be a whole number"},
				})
				return
			}
			query.Limit = limit
		}
		if err := GetValidator().ValidateStruct(query); err != nil {
			respondJSON(w, http.StatusBadRequest, ValidationErrorResponse{
				Error:  ErrMsgInvalidLimit,
				Fields: FormatValidationError(err),
			})
			return
		}

		entries, err := h.journal.OwnerEvents(r.Context(), ownerID, query.Limit)
		if err != nil {
			logger.FromContext(r.Context()).Error(LogMsgOwnerEventsFail, "owner_id", ownerID, "error", err)
			status, msg := mapServiceError(err)
			respondError(w, status, msg)
			return
		}
		if entries == nil {
			entries = []repository.EventLogEntry{}
		}
		respondJSON(w, http.StatusOK, EventsResponse{OwnerID: ownerID, Events: entries})
	}
}

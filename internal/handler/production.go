package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/osse101/BrandishIdle_Go/internal/domain"
	"github.com/osse101/BrandishIdle_Go/internal/logger"
)

// StatusProvider exposes the last maintenance outcomes
type StatusProvider interface {
	Status() domain.MaintenanceStatus
}

// LedgerReader is the read side of the ledger service
type LedgerReader interface {
	ListAssigned(ctx context.Context, ownerID string) ([]domain.AssignedEntry, error)
	Capacity(ctx context.Context, ownerID string) (domain.CapacityInfo, error)
}

// AssignedView is one assignment as shown to API clients
type AssignedView struct {
	domain.AssignedEntry
	DisplayName string `json:"display_name"`
	VariantKey  string `json:"variant_key"`
}

// AssignedResponse lists an owner's assignments
type AssignedResponse struct {
	OwnerID  string         `json:"owner_id"`
	Total    int            `json:"total"`
	Assigned []AssignedView `json:"assigned"`
}

// ProductionHandlers serves the read-only production endpoints
type ProductionHandlers struct {
	ledger LedgerReader
	status StatusProvider
}

// NewProductionHandlers creates the production handlers
func NewProductionHandlers(ledger LedgerReader, status StatusProvider) *ProductionHandlers {
	return &ProductionHandlers{ledger: ledger, status: status}
}

// ownerFromPath reads and validates {ownerID}; on failure the response is already written
func ownerFromPath(w http.ResponseWriter, r *http.Request) (string, bool) {
	path := OwnerPath{OwnerID: chi.URLParam(r, ParamOwnerID)}
	if err := GetValidator().ValidateStruct(path); err != nil {
		logger.FromContext(r.Context()).Debug(LogMsgOwnerIDValidation, "error", err)
		respondJSON(w, http.StatusBadRequest, ValidationErrorResponse{
			Error:  ErrMsgInvalidOwnerID,
			Fields: FormatValidationError(err),
		})
		return "", false
	}
	return path.OwnerID, true
}

// HandleGetStatus returns the last maintenance reports and the number of live tasks
// @Summary Engine status
// @Description Last migration, recovery and reconciliation reports
// @Tags production
// @Produce json
// @Success 200 {object} domain.MaintenanceStatus
// @Router /api/v1/status [get]
func (h *ProductionHandlers) HandleGetStatus() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, h.status.Status())
	}
}

// HandleGetAssigned lists the producers an owner has put to work
// @Summary Assigned producers
// @Tags production
// @Produce json
// @Param ownerID path string true "Owner ID"
// @Success 200 {object} AssignedResponse
// @Failure 400 {object} ValidationErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /api/v1/owners/{ownerID}/assigned [get]
func (h *ProductionHandlers) HandleGetAssigned() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ownerID, ok := ownerFromPath(w, r)
		if !ok {
			return
		}

		entries, err := h.ledger.ListAssigned(r.Context(), ownerID)
		if err != nil {
			logger.FromContext(r.Context()).Error(LogMsgListAssignedFail, "owner_id", ownerID, "error", err)
			status, msg := mapServiceError(err)
			respondError(w, status, msg)
			return
		}

		resp := AssignedResponse{OwnerID: ownerID, Assigned: make([]AssignedView, 0, len(entries))}
		for _, e := range entries {
			resp.Total += e.Quantity
			resp.Assigned = append(resp.Assigned, AssignedView{
				AssignedEntry: e,
				DisplayName:   e.Variant.DisplayName(),
				VariantKey:    e.Variant.Key(),
			})
		}
		respondJSON(w, http.StatusOK, resp)
	}
}

// HandleGetCapacity returns an owner's slot breakdown and current usage
// @Summary Assignment capacity
// @Tags production
// @Produce json
// @Param ownerID path string true "Owner ID"
// @Success 200 {object} domain.CapacityInfo
// @Failure 400 {object} ValidationErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /api/v1/owners/{ownerID}/capacity [get]
func (h *ProductionHandlers) HandleGetCapacity() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ownerID, ok := ownerFromPath(w, r)
		if !ok {
			return
		}

		info, err := h.ledger.Capacity(r.Context(), ownerID)
		if err != nil {
			logger.FromContext(r.Context()).Error(LogMsgCapacityFail, "owner_id", ownerID, "error", err)
			status, msg := mapServiceError(err)
			respondError(w, status, msg)
			return
		}
		respondJSON(w, http.StatusOK, info)
	}
}

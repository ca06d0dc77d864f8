package controller

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/cactus377/japede-cardapio/internal/domain"
	apperrors "github.com/cactus377/japede-cardapio/internal/errors"
)

type TableService interface {
	BindOrderToTable(ctx context.Context, tableID, orderID string) (*domain.Table, error)
	ReleaseForCleaning(ctx context.Context, tableID string) (*domain.Table, error)
	MarkClean(ctx context.Context, tableID string) (*domain.Table, error)
	Reserve(ctx context.Context, tableID string, details domain.ReservationDetails) (*domain.Table, error)
	CancelReservation(ctx context.Context, tableID string) (*domain.Table, error)
}

type Controller struct {
	tables TableService
	logger *zap.Logger
}

func NewController(tables TableService, logger *zap.Logger) *Controller {
	return &Controller{
		tables: tables,
		logger: logger,
	}
}

type bindOrderRequest struct {
	OrderID string `json:"order_id"`
}

type reserveRequest struct {
	CustomerName string `json:"customer_name"`
	Time         string `json:"time"`
	GuestCount   int    `json:"guest_count"`
	Notes        string `json:"notes"`
}

type tableResponse struct {
	ID                 string                     `json:"id"`
	Name               string                     `json:"name"`
	Capacity           int                        `json:"capacity"`
	Status             string                     `json:"status"`
	CurrentOrderID     *string                    `json:"current_order_id,omitempty"`
	ReservationDetails *domain.ReservationDetails `json:"reservation_details,omitempty"`
}

func newTableResponse(t *domain.Table) tableResponse {
	return tableResponse{
		ID:                 t.ID,
		Name:               t.Name,
		Capacity:           t.Capacity,
		Status:             t.Status,
		CurrentOrderID:     t.CurrentOrderID,
		ReservationDetails: t.ReservationDetails,
	}
}

func (c *Controller) HandleBindOrder(w http.ResponseWriter, r *http.Request) {
	traceID := uuid.New().String()
	logger := c.logger.With(zap.String("traceId", traceID))
	tableID := chi.URLParam(r, "tableId")

	var req bindOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("invalid JSON body", zap.Error(err))
		c.writeValidationError(w, traceID, "invalid JSON body", apperrors.ValidationDetail{
			Field:   "body",
			Message: "request body must be valid JSON",
		})
		return
	}

	if req.OrderID == "" {
		c.writeValidationError(w, traceID, "order_id is required", apperrors.ValidationDetail{
			Field:   "order_id",
			Message: "order_id is required",
		})
		return
	}

	table, err := c.tables.BindOrderToTable(r.Context(), tableID, req.OrderID)
	if err != nil {
		c.handleServiceError(w, traceID, err, logger)
		return
	}

	c.writeJSON(w, http.StatusOK, newTableResponse(table))
}

func (c *Controller) HandleReleaseForCleaning(w http.ResponseWriter, r *http.Request) {
	traceID := uuid.New().String()
	logger := c.logger.With(zap.String("traceId", traceID))

	table, err := c.tables.ReleaseForCleaning(r.Context(), chi.URLParam(r, "tableId"))
	if err != nil {
		c.handleServiceError(w, traceID, err, logger)
		return
	}

	c.writeJSON(w, http.StatusOK, newTableResponse(table))
}

func (c *Controller) HandleMarkClean(w http.ResponseWriter, r *http.Request) {
	traceID := uuid.New().String()
	logger := c.logger.With(zap.String("traceId", traceID))

	table, err := c.tables.MarkClean(r.Context(), chi.URLParam(r, "tableId"))
	if err != nil {
		c.handleServiceError(w, traceID, err, logger)
		return
	}

	c.writeJSON(w, http.StatusOK, newTableResponse(table))
}

func (c *Controller) HandleReserve(w http.ResponseWriter, r *http.Request) {
	traceID := uuid.New().String()
	logger := c.logger.With(zap.String("traceId", traceID))
	tableID := chi.URLParam(r, "tableId")

	var req reserveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("invalid JSON body", zap.Error(err))
		c.writeValidationError(w, traceID, "invalid JSON body", apperrors.ValidationDetail{
			Field:   "body",
			Message: "request body must be valid JSON",
		})
		return
	}

	details := domain.ReservationDetails{
		CustomerName: req.CustomerName,
		Time:         req.Time,
		GuestCount:   req.GuestCount,
		Notes:        req.Notes,
	}

	table, err := c.tables.Reserve(r.Context(), tableID, details)
	if err != nil {
		c.handleServiceError(w, traceID, err, logger)
		return
	}

	c.writeJSON(w, http.StatusOK, newTableResponse(table))
}

func (c *Controller) HandleCancelReservation(w http.ResponseWriter, r *http.Request) {
	traceID := uuid.New().String()
	logger := c.logger.With(zap.String("traceId", traceID))

	table, err := c.tables.CancelReservation(r.Context(), chi.URLParam(r, "tableId"))
	if err != nil {
		c.handleServiceError(w, traceID, err, logger)
		return
	}

	c.writeJSON(w, http.StatusOK, newTableResponse(table))
}

func (c *Controller) handleServiceError(w http.ResponseWriter, traceID string, err error, logger *zap.Logger) {
	if _, ok := apperrors.IsNotFoundError(err); ok {
		c.writeErrorResponse(w, traceID, http.StatusNotFound, "NOT_FOUND", err.Error())
		return
	}
	if _, ok := apperrors.IsOrderStillActiveError(err); ok {
		c.writeErrorResponse(w, traceID, http.StatusConflict, "ORDER_STILL_ACTIVE", err.Error())
		return
	}
	if _, ok := apperrors.IsConflictError(err); ok {
		c.writeErrorResponse(w, traceID, http.StatusConflict, "CONFLICT", err.Error())
		return
	}
	if ve, ok := apperrors.IsValidationError(err); ok {
		c.writeValidationError(w, traceID, ve.Message, ve.Details...)
		return
	}

	logger.Error("unexpected error", zap.Error(err))
	c.writeErrorResponse(w, traceID, http.StatusInternalServerError, "INTERNAL_ERROR", "an unexpected error occurred")
}

type errorResponse struct {
	TraceID   string    `json:"trace_id"`
	Code      string    `json:"code"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

func (c *Controller) writeErrorResponse(w http.ResponseWriter, traceID string, status int, code, message string) {
	c.writeJSON(w, status, errorResponse{
		TraceID:   traceID,
		Code:      code,
		Message:   message,
		Timestamp: time.Now().UTC(),
	})
}

type validationErrorResponse struct {
	TraceID string                       `json:"trace_id"`
	Error   string                       `json:"error"`
	Message string                       `json:"message"`
	Details []apperrors.ValidationDetail `json:"details"`
}

func (c *Controller) writeValidationError(w http.ResponseWriter, traceID, message string, details ...apperrors.ValidationDetail) {
	c.writeJSON(w, http.StatusBadRequest, validationErrorResponse{
		TraceID: traceID,
		Error:   "VALIDATION_ERROR",
		Message: message,
		Details: details,
	})
}

func (c *Controller) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		c.logger.Error("failed to encode response", zap.Error(err))
	}
}

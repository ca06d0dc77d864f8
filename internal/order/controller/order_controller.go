package controller

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/cactus377/japede-cardapio/internal/domain"
	"github.com/cactus377/japede-cardapio/internal/dto"
	apperrors "github.com/cactus377/japede-cardapio/internal/errors"
)

type LifecycleService interface {
	AdvanceManually(ctx context.Context, orderID, target string) (*domain.Order, error)
	Cancel(ctx context.Context, orderID string) (*domain.Order, error)
	ToggleAutoProgress(ctx context.Context, orderID string) (*domain.Order, error)
}

type Sweeper interface {
	Sweep(ctx context.Context) ([]domain.Order, error)
}

type AccountCloser interface {
	CloseTableAccount(ctx context.Context, orderID, paymentMethod string, amountPaid decimal.Decimal) (*dto.CloseAccountResult, error)
}

type OrderFinder interface {
	FindByID(ctx context.Context, id string) (*domain.Order, error)
}

type Controller struct {
	orders    OrderFinder
	lifecycle LifecycleService
	sweeper   Sweeper
	closer    AccountCloser
	logger    *zap.Logger
}

func NewController(orders OrderFinder, lifecycle LifecycleService, sweeper Sweeper, closer AccountCloser, logger *zap.Logger) *Controller {
	return &Controller{
		orders:    orders,
		lifecycle: lifecycle,
		sweeper:   sweeper,
		closer:    closer,
		logger:    logger,
	}
}

func (c *Controller) HandleGetOrder(w http.ResponseWriter, r *http.Request) {
	traceID := uuid.New().String()
	logger := c.logger.With(zap.String("traceId", traceID))

	order, err := c.orders.FindByID(r.Context(), chi.URLParam(r, "orderId"))
	if err != nil {
		c.handleServiceError(w, traceID, err, logger)
		return
	}

	c.writeJSON(w, http.StatusOK, dto.NewOrderResponse(order, time.Now().UTC()))
}

// HandleUpdateStatus is the manual advance command. The target must be the
// immediate successor for the order's type, or CANCELLED.
func (c *Controller) HandleUpdateStatus(w http.ResponseWriter, r *http.Request) {
	traceID := uuid.New().String()
	logger := c.logger.With(zap.String("traceId", traceID))
	orderID := chi.URLParam(r, "orderId")

	var req dto.UpdateOrderStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("invalid JSON body", zap.Error(err))
		c.writeValidationError(w, traceID, "invalid JSON body", apperrors.ValidationDetail{
			Field:   "body",
			Message: "request body must be valid JSON",
		})
		return
	}

	if req.Status == "" {
		c.writeValidationError(w, traceID, "status is required", apperrors.ValidationDetail{
			Field:   "status",
			Message: "status is required",
		})
		return
	}

	var order *domain.Order
	var err error
	if req.Status == domain.OrderStatusCancelled {
		order, err = c.lifecycle.Cancel(r.Context(), orderID)
	} else {
		order, err = c.lifecycle.AdvanceManually(r.Context(), orderID, req.Status)
	}
	if err != nil {
		c.handleServiceError(w, traceID, err, logger)
		return
	}

	c.writeJSON(w, http.StatusOK, dto.NewOrderResponse(order, time.Now().UTC()))
}

func (c *Controller) HandleToggleAutoProgress(w http.ResponseWriter, r *http.Request) {
	traceID := uuid.New().String()
	logger := c.logger.With(zap.String("traceId", traceID))

	order, err := c.lifecycle.ToggleAutoProgress(r.Context(), chi.URLParam(r, "orderId"))
	if err != nil {
		c.handleServiceError(w, traceID, err, logger)
		return
	}

	c.writeJSON(w, http.StatusOK, dto.NewOrderResponse(order, time.Now().UTC()))
}

// HandleCheckTransitions triggers an immediate sweep and returns the orders
// it changed.
func (c *Controller) HandleCheckTransitions(w http.ResponseWriter, r *http.Request) {
	traceID := uuid.New().String()
	logger := c.logger.With(zap.String("traceId", traceID))

	changed, err := c.sweeper.Sweep(r.Context())
	if err != nil {
		c.handleServiceError(w, traceID, err, logger)
		return
	}

	now := time.Now().UTC()
	resp := dto.CheckTransitionsResponse{
		UpdatedOrders: make([]dto.OrderResponse, len(changed)),
	}
	for i := range changed {
		resp.UpdatedOrders[i] = dto.NewOrderResponse(&changed[i], now)
	}

	c.writeJSON(w, http.StatusOK, resp)
}

func (c *Controller) HandleCloseTableAccount(w http.ResponseWriter, r *http.Request) {
	traceID := uuid.New().String()
	logger := c.logger.With(zap.String("traceId", traceID))
	orderID := chi.URLParam(r, "orderId")

	var req dto.CloseAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("invalid JSON body", zap.Error(err))
		c.writeValidationError(w, traceID, "invalid JSON body", apperrors.ValidationDetail{
			Field:   "body",
			Message: "request body must be valid JSON",
		})
		return
	}

	if err := validateCloseAccountRequest(req); err != nil {
		ve, _ := apperrors.IsValidationError(err)
		c.writeValidationError(w, traceID, ve.Message, ve.Details...)
		return
	}

	amountPaid := decimal.NewFromFloat(req.AmountPaid).Round(2)
	result, err := c.closer.CloseTableAccount(r.Context(), orderID, req.PaymentMethod, amountPaid)
	if err != nil {
		c.handleServiceError(w, traceID, err, logger)
		return
	}

	resp := dto.CloseAccountResponse{
		Order:        dto.NewOrderResponse(result.Order, time.Now().UTC()),
		Unattributed: result.Unattributed,
		Warnings:     result.Warnings,
	}

	c.writeJSON(w, http.StatusOK, resp)
}

var knownPaymentMethods = map[string]bool{
	domain.PaymentMethodCash:       true,
	domain.PaymentMethodDebitCard:  true,
	domain.PaymentMethodCreditCard: true,
	domain.PaymentMethodPix:        true,
	domain.PaymentMethodMultiple:   true,
}

func validateCloseAccountRequest(req dto.CloseAccountRequest) error {
	var details []apperrors.ValidationDetail

	if !knownPaymentMethods[req.PaymentMethod] {
		details = append(details, apperrors.ValidationDetail{
			Field:   "payment_method",
			Message: "payment_method must be one of CASH, DEBIT_CARD, CREDIT_CARD, PIX, MULTIPLE",
		})
	}

	if req.AmountPaid < 0 {
		details = append(details, apperrors.ValidationDetail{
			Field:   "amount_paid",
			Message: "amount_paid must not be negative",
		})
	}

	if len(details) > 0 {
		return apperrors.NewValidationError("validation failed", details...)
	}

	return nil
}

func (c *Controller) handleServiceError(w http.ResponseWriter, traceID string, err error, logger *zap.Logger) {
	if _, ok := apperrors.IsNotFoundError(err); ok {
		c.writeErrorResponse(w, traceID, http.StatusNotFound, "NOT_FOUND", err.Error())
		return
	}
	if _, ok := apperrors.IsInvalidTransitionError(err); ok {
		c.writeErrorResponse(w, traceID, http.StatusConflict, "INVALID_TRANSITION", err.Error())
		return
	}
	if _, ok := apperrors.IsStaleVersionError(err); ok {
		c.writeErrorResponse(w, traceID, http.StatusConflict, "STALE_VERSION", "order changed, please retry")
		return
	}
	if _, ok := apperrors.IsInsufficientPaymentError(err); ok {
		c.writeErrorResponse(w, traceID, http.StatusConflict, "INSUFFICIENT_PAYMENT", err.Error())
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

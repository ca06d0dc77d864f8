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
	apperrors "github.com/cactus377/japede-cardapio/internal/errors"
)

type LedgerService interface {
	Open(ctx context.Context, openingBalance decimal.Decimal, notes *string) (*domain.CashRegisterSession, error)
	Close(ctx context.Context, sessionID string, closingBalanceInformed decimal.Decimal, notes *string) (*domain.CashRegisterSession, error)
	Active(ctx context.Context) (*domain.CashRegisterSession, error)
	AddAdjustment(ctx context.Context, sessionID, adjType string, amount decimal.Decimal, reason string) (*domain.CashAdjustment, error)
	Adjustments(ctx context.Context, sessionID string) ([]domain.CashAdjustment, error)
}

type Controller struct {
	ledger LedgerService
	logger *zap.Logger
}

func NewController(ledger LedgerService, logger *zap.Logger) *Controller {
	return &Controller{
		ledger: ledger,
		logger: logger,
	}
}

type openSessionRequest struct {
	OpeningBalance float64 `json:"opening_balance"`
	Notes          *string `json:"notes,omitempty"`
}

type closeSessionRequest struct {
	ClosingBalanceInformed float64 `json:"closing_balance_informed"`
	Notes                  *string `json:"notes,omitempty"`
}

type addAdjustmentRequest struct {
	SessionID string  `json:"session_id"`
	Type      string  `json:"type"`
	Amount    float64 `json:"amount"`
	Reason    string  `json:"reason"`
}

type sessionResponse struct {
	ID                     string     `json:"id"`
	Status                 string     `json:"status"`
	OpenedAt               time.Time  `json:"opened_at"`
	ClosedAt               *time.Time `json:"closed_at,omitempty"`
	OpeningBalance         float64    `json:"opening_balance"`
	CalculatedSales        *float64   `json:"calculated_sales,omitempty"`
	ExpectedInCash         *float64   `json:"expected_in_cash,omitempty"`
	ClosingBalanceInformed *float64   `json:"closing_balance_informed,omitempty"`
	Difference             *float64   `json:"difference,omitempty"`
	NotesOpening           *string    `json:"notes_opening,omitempty"`
	NotesClosing           *string    `json:"notes_closing,omitempty"`
}

func newSessionResponse(s *domain.CashRegisterSession) sessionResponse {
	resp := sessionResponse{
		ID:             s.ID,
		Status:         s.Status,
		OpenedAt:       s.OpenedAt,
		ClosedAt:       s.ClosedAt,
		OpeningBalance: s.OpeningBalance.InexactFloat64(),
		NotesOpening:   s.NotesOpening,
		NotesClosing:   s.NotesClosing,
	}
	if s.CalculatedSales != nil {
		v := s.CalculatedSales.InexactFloat64()
		resp.CalculatedSales = &v
	}
	if s.ExpectedInCash != nil {
		v := s.ExpectedInCash.InexactFloat64()
		resp.ExpectedInCash = &v
	}
	if s.ClosingBalanceInformed != nil {
		v := s.ClosingBalanceInformed.InexactFloat64()
		resp.ClosingBalanceInformed = &v
	}
	if s.Difference != nil {
		v := s.Difference.InexactFloat64()
		resp.Difference = &v
	}
	return resp
}

type adjustmentResponse struct {
	ID         string    `json:"id"`
	SessionID  string    `json:"session_id"`
	Type       string    `json:"type"`
	Amount     float64   `json:"amount"`
	Reason     string    `json:"reason"`
	AdjustedAt time.Time `json:"adjusted_at"`
}

func (c *Controller) HandleOpenSession(w http.ResponseWriter, r *http.Request) {
	traceID := uuid.New().String()
	logger := c.logger.With(zap.String("traceId", traceID))

	var req openSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("invalid JSON body", zap.Error(err))
		c.writeValidationError(w, traceID, "invalid JSON body", apperrors.ValidationDetail{
			Field:   "body",
			Message: "request body must be valid JSON",
		})
		return
	}

	session, err := c.ledger.Open(r.Context(), decimal.NewFromFloat(req.OpeningBalance), req.Notes)
	if err != nil {
		c.handleServiceError(w, traceID, err, logger)
		return
	}

	c.writeJSON(w, http.StatusCreated, newSessionResponse(session))
}

func (c *Controller) HandleCloseSession(w http.ResponseWriter, r *http.Request) {
	traceID := uuid.New().String()
	logger := c.logger.With(zap.String("traceId", traceID))
	sessionID := chi.URLParam(r, "sessionId")

	var req closeSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("invalid JSON body", zap.Error(err))
		c.writeValidationError(w, traceID, "invalid JSON body", apperrors.ValidationDetail{
			Field:   "body",
			Message: "request body must be valid JSON",
		})
		return
	}

	session, err := c.ledger.Close(r.Context(), sessionID, decimal.NewFromFloat(req.ClosingBalanceInformed), req.Notes)
	if err != nil {
		c.handleServiceError(w, traceID, err, logger)
		return
	}

	c.writeJSON(w, http.StatusOK, newSessionResponse(session))
}

func (c *Controller) HandleGetActiveSession(w http.ResponseWriter, r *http.Request) {
	traceID := uuid.New().String()
	logger := c.logger.With(zap.String("traceId", traceID))

	session, err := c.ledger.Active(r.Context())
	if err != nil {
		c.handleServiceError(w, traceID, err, logger)
		return
	}

	c.writeJSON(w, http.StatusOK, newSessionResponse(session))
}

func (c *Controller) HandleAddAdjustment(w http.ResponseWriter, r *http.Request) {
	traceID := uuid.New().String()
	logger := c.logger.With(zap.String("traceId", traceID))

	var req addAdjustmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("invalid JSON body", zap.Error(err))
		c.writeValidationError(w, traceID, "invalid JSON body", apperrors.ValidationDetail{
			Field:   "body",
			Message: "request body must be valid JSON",
		})
		return
	}

	if req.SessionID == "" {
		c.writeValidationError(w, traceID, "session_id is required", apperrors.ValidationDetail{
			Field:   "session_id",
			Message: "session_id is required",
		})
		return
	}

	adj, err := c.ledger.AddAdjustment(r.Context(), req.SessionID, req.Type,
		decimal.NewFromFloat(req.Amount), req.Reason)
	if err != nil {
		c.handleServiceError(w, traceID, err, logger)
		return
	}

	c.writeJSON(w, http.StatusCreated, adjustmentResponse{
		ID:         adj.ID,
		SessionID:  adj.SessionID,
		Type:       adj.Type,
		Amount:     adj.Amount.InexactFloat64(),
		Reason:     adj.Reason,
		AdjustedAt: adj.AdjustedAt,
	})
}

func (c *Controller) HandleListAdjustments(w http.ResponseWriter, r *http.Request) {
	traceID := uuid.New().String()
	logger := c.logger.With(zap.String("traceId", traceID))

	adjustments, err := c.ledger.Adjustments(r.Context(), chi.URLParam(r, "sessionId"))
	if err != nil {
		c.handleServiceError(w, traceID, err, logger)
		return
	}

	resp := make([]adjustmentResponse, len(adjustments))
	for i, adj := range adjustments {
		resp[i] = adjustmentResponse{
			ID:         adj.ID,
			SessionID:  adj.SessionID,
			Type:       adj.Type,
			Amount:     adj.Amount.InexactFloat64(),
			Reason:     adj.Reason,
			AdjustedAt: adj.AdjustedAt,
		}
	}

	c.writeJSON(w, http.StatusOK, resp)
}

func (c *Controller) handleServiceError(w http.ResponseWriter, traceID string, err error, logger *zap.Logger) {
	if _, ok := apperrors.IsNotFoundError(err); ok {
		c.writeErrorResponse(w, traceID, http.StatusNotFound, "NOT_FOUND", err.Error())
		return
	}
	if _, ok := apperrors.IsNoActiveSessionError(err); ok {
		c.writeErrorResponse(w, traceID, http.StatusNotFound, "NO_ACTIVE_SESSION", err.Error())
		return
	}
	if _, ok := apperrors.IsSessionAlreadyOpenError(err); ok {
		c.writeErrorResponse(w, traceID, http.StatusConflict, "SESSION_ALREADY_OPEN", err.Error())
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

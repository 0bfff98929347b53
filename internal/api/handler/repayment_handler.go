package handler

import (
	"fmt"
	"loan-backoffice/internal/api/handler/dto"
	"loan-backoffice/internal/domain/repayment"
	"loan-backoffice/internal/pkg/apperrors"
	"log/slog"
	"net/http"
)

type RepaymentHandler struct {
	service repayment.Service
	logger  *slog.Logger
}

func NewRepaymentHandler(s repayment.Service, l *slog.Logger) *RepaymentHandler {
	if s == nil {
		panic("repayment service cannot be nil")
	}
	if l == nil {
		panic("logger cannot be nil")
	}
	return &RepaymentHandler{
		service: s,
		logger:  l.With("component", "RepaymentHandler"),
	}
}

// RecordRepayment handles POST /loan-repayments
//
// @Summary Record a repayment
// @Description Appends a repayment to a loan. The loan's stored total_paid is left as it is.
// @Tags Repayments
// @Accept json
// @Produce json
// @Param request body dto.CreateRepaymentRequest true "Repayment payload"
// @Success 201 {object} dto.RepaymentResponse "Repayment recorded"
// @Failure 400 {object} dto.ErrorResponse "Malformed request body"
// @Failure 422 {object} dto.ErrorResponse "Validation failed or unknown loan"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /loan-repayments [post]
// @Security BearerAuth
func (h *RepaymentHandler) RecordRepayment(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateRepaymentRequest
	if err := decodeJSON(r, &req); err != nil {
		h.logger.WarnContext(r.Context(), "Failed to decode request body", slog.Any("error", err))
		respondError(w, fmt.Errorf("%w: %v", apperrors.ErrInvalidArgument, err))
		return
	}
	if err := validateRequest(req); err != nil {
		respondError(w, err)
		return
	}

	recorded, err := h.service.RecordRepayment(r.Context(), req.LoanID, req.Details())
	if err != nil {
		h.logger.Log(r.Context(), logLevelFor(err), "Service failed to record repayment", slog.Any("error", err))
		respondError(w, err)
		return
	}

	h.logger.InfoContext(r.Context(), "Repayment recorded",
		slog.Int64("repaymentID", recorded.ID),
		slog.Int64("loanID", recorded.LoanID),
	)
	respondJSON(w, http.StatusCreated, dto.NewRepaymentResponse(recorded))
}

// ListRepayments handles GET /loan-repayments
//
// @Summary List repayments
// @Tags Repayments
// @Produce json
// @Success 200 {array} dto.RepaymentResponse "List of repayments"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /loan-repayments [get]
// @Security BearerAuth
func (h *RepaymentHandler) ListRepayments(w http.ResponseWriter, r *http.Request) {
	repayments, err := h.service.ListRepayments(r.Context())
	if err != nil {
		h.logger.ErrorContext(r.Context(), "Service failed to list repayments", slog.Any("error", err))
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, dto.NewRepaymentListResponse(repayments))
}

// GetRepayment handles GET /loan-repayments/{repaymentID}
//
// @Summary Retrieve a repayment
// @Tags Repayments
// @Produce json
// @Param repaymentID path int true "Repayment ID"
// @Success 200 {object} dto.RepaymentResponse "Repayment"
// @Failure 400 {object} dto.ErrorResponse "Invalid repayment ID"
// @Failure 404 {object} dto.ErrorResponse "Repayment not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /loan-repayments/{repaymentID} [get]
// @Security BearerAuth
func (h *RepaymentHandler) GetRepayment(w http.ResponseWriter, r *http.Request) {
	repaymentID, err := idFromURL(r, "repaymentID")
	if err != nil {
		respondError(w, err)
		return
	}

	found, err := h.service.GetRepayment(r.Context(), repaymentID)
	if err != nil {
		h.logger.Log(r.Context(), logLevelFor(err), "Service failed to get repayment", slog.Any("error", err))
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, dto.NewRepaymentResponse(found))
}

// UpdateRepayment handles PUT /loan-repayments/{repaymentID}
//
// @Summary Update a repayment
// @Description Replaces amount, method, date and reference. The owning loan cannot be changed.
// @Tags Repayments
// @Accept json
// @Produce json
// @Param repaymentID path int true "Repayment ID"
// @Param request body dto.UpdateRepaymentRequest true "Repayment payload"
// @Success 200 {object} dto.RepaymentResponse "Repayment updated"
// @Failure 400 {object} dto.ErrorResponse "Invalid repayment ID or malformed body"
// @Failure 404 {object} dto.ErrorResponse "Repayment not found"
// @Failure 422 {object} dto.ErrorResponse "Validation failed"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /loan-repayments/{repaymentID} [put]
// @Security BearerAuth
func (h *RepaymentHandler) UpdateRepayment(w http.ResponseWriter, r *http.Request) {
	repaymentID, err := idFromURL(r, "repaymentID")
	if err != nil {
		respondError(w, err)
		return
	}

	var req dto.UpdateRepaymentRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, fmt.Errorf("%w: %v", apperrors.ErrInvalidArgument, err))
		return
	}
	if err := validateRequest(req); err != nil {
		respondError(w, err)
		return
	}

	updated, err := h.service.UpdateRepayment(r.Context(), repaymentID, req.Details())
	if err != nil {
		h.logger.Log(r.Context(), logLevelFor(err), "Service failed to update repayment", slog.Any("error", err))
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, dto.NewRepaymentResponse(updated))
}

// DeleteRepayment handles DELETE /loan-repayments/{repaymentID}
//
// @Summary Delete a repayment
// @Tags Repayments
// @Param repaymentID path int true "Repayment ID"
// @Success 204 "Repayment deleted"
// @Failure 400 {object} dto.ErrorResponse "Invalid repayment ID"
// @Failure 404 {object} dto.ErrorResponse "Repayment not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /loan-repayments/{repaymentID} [delete]
// @Security BearerAuth
func (h *RepaymentHandler) DeleteRepayment(w http.ResponseWriter, r *http.Request) {
	repaymentID, err := idFromURL(r, "repaymentID")
	if err != nil {
		respondError(w, err)
		return
	}

	if err := h.service.DeleteRepayment(r.Context(), repaymentID); err != nil {
		h.logger.Log(r.Context(), logLevelFor(err), "Service failed to delete repayment", slog.Any("error", err))
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusNoContent, nil)
}

package handler

import (
	"errors"
	"fmt"
	"io"
	"loan-backoffice/internal/api/handler/dto"
	"loan-backoffice/internal/domain/loan"
	"loan-backoffice/internal/pkg/apperrors"
	"log/slog"
	"net/http"
)

type LoanHandler struct {
	service loan.LoanService
	logger  *slog.Logger
}

func NewLoanHandler(s loan.LoanService, l *slog.Logger) *LoanHandler {
	if s == nil {
		panic("loan service cannot be nil")
	}
	if l == nil {
		panic("logger cannot be nil")
	}
	return &LoanHandler{
		service: s,
		logger:  l.With("component", "LoanHandler"),
	}
}

// CreateLoan handles POST /loan-applications
//
// @Summary Create a loan application
// @Description Creates a pending application. total_to_pay is fixed here as amount plus amount*interest_rate/100.
// @Tags Loans
// @Accept json
// @Produce json
// @Param request body dto.CreateLoanRequest true "Loan application payload"
// @Success 201 {object} dto.LoanResponse "Loan application created"
// @Failure 400 {object} dto.ErrorResponse "Malformed request body"
// @Failure 422 {object} dto.ErrorResponse "Validation failed or unknown customer/guarantor"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /loan-applications [post]
// @Security BearerAuth
func (h *LoanHandler) CreateLoan(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateLoanRequest
	if err := decodeJSON(r, &req); err != nil {
		h.logger.WarnContext(r.Context(), "Failed to decode request body", slog.Any("error", err))
		respondError(w, fmt.Errorf("%w: %v", apperrors.ErrInvalidArgument, err))
		return
	}
	if err := validateRequest(req); err != nil {
		respondError(w, err)
		return
	}

	created, err := h.service.CreateLoanApplication(r.Context(), req.ToInput())
	if err != nil {
		h.logger.Log(r.Context(), logLevelFor(err), "Service failed to create loan application", slog.Any("error", err))
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, dto.NewLoanResponse(created))
}

// ListLoans handles GET /loan-applications
//
// @Summary List loan applications
// @Description Lists every application, newest first, with its borrower and guarantors.
// @Tags Loans
// @Produce json
// @Success 200 {array} dto.LoanResponse "List of loan applications"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /loan-applications [get]
// @Security BearerAuth
func (h *LoanHandler) ListLoans(w http.ResponseWriter, r *http.Request) {
	apps, err := h.service.ListLoanApplications(r.Context())
	if err != nil {
		h.logger.ErrorContext(r.Context(), "Service failed to list loan applications", slog.Any("error", err))
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, dto.NewLoanListResponse(apps))
}

// GetLoan handles GET /loan-applications/{loanID}
//
// @Summary Retrieve a loan application
// @Tags Loans
// @Produce json
// @Param loanID path int true "Loan ID"
// @Success 200 {object} dto.LoanResponse "Loan application"
// @Failure 400 {object} dto.ErrorResponse "Invalid loan ID"
// @Failure 404 {object} dto.ErrorResponse "Loan not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /loan-applications/{loanID} [get]
// @Security BearerAuth
func (h *LoanHandler) GetLoan(w http.ResponseWriter, r *http.Request) {
	loanID, err := idFromURL(r, "loanID")
	if err != nil {
		respondError(w, err)
		return
	}

	app, err := h.service.GetLoanApplication(r.Context(), loanID)
	if err != nil {
		h.logger.Log(r.Context(), logLevelFor(err), "Service failed to get loan application", slog.Any("error", err))
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, dto.NewLoanResponse(app))
}

// UpdateLoan handles PUT /loan-applications/{loanID}
//
// @Summary Update a loan application
// @Description Replaces the editable fields. total_to_pay is not recomputed. When guarantors is present the set is replaced.
// @Tags Loans
// @Accept json
// @Produce json
// @Param loanID path int true "Loan ID"
// @Param request body dto.UpdateLoanRequest true "Loan update payload"
// @Success 200 {object} dto.LoanResponse "Loan application updated"
// @Failure 400 {object} dto.ErrorResponse "Invalid loan ID or malformed body"
// @Failure 404 {object} dto.ErrorResponse "Loan not found"
// @Failure 422 {object} dto.ErrorResponse "Validation failed"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /loan-applications/{loanID} [put]
// @Security BearerAuth
func (h *LoanHandler) UpdateLoan(w http.ResponseWriter, r *http.Request) {
	loanID, err := idFromURL(r, "loanID")
	if err != nil {
		respondError(w, err)
		return
	}

	var req dto.UpdateLoanRequest
	if err := decodeJSON(r, &req); err != nil {
		h.logger.WarnContext(r.Context(), "Failed to decode request body", slog.Any("error", err))
		respondError(w, fmt.Errorf("%w: %v", apperrors.ErrInvalidArgument, err))
		return
	}
	if err := validateRequest(req); err != nil {
		respondError(w, err)
		return
	}

	updated, err := h.service.UpdateLoanApplication(r.Context(), loanID, req.ToInput())
	if err != nil {
		h.logger.Log(r.Context(), logLevelFor(err), "Service failed to update loan application", slog.Any("error", err))
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, dto.NewLoanResponse(updated))
}

// DeleteLoan handles DELETE /loan-applications/{loanID}
//
// @Summary Delete a loan application
// @Tags Loans
// @Param loanID path int true "Loan ID"
// @Success 204 "Loan application deleted"
// @Failure 400 {object} dto.ErrorResponse "Invalid loan ID"
// @Failure 404 {object} dto.ErrorResponse "Loan not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /loan-applications/{loanID} [delete]
// @Security BearerAuth
func (h *LoanHandler) DeleteLoan(w http.ResponseWriter, r *http.Request) {
	loanID, err := idFromURL(r, "loanID")
	if err != nil {
		respondError(w, err)
		return
	}

	if err := h.service.DeleteLoanApplication(r.Context(), loanID); err != nil {
		h.logger.Log(r.Context(), logLevelFor(err), "Service failed to delete loan application", slog.Any("error", err))
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusNoContent, nil)
}

// ApproveLoan handles POST /loan-applications/{loanID}/approve
//
// @Summary Approve a loan application
// @Description Sets status to approved and approvedOn to today, whatever the current status.
// @Tags Loans
// @Produce json
// @Param loanID path int true "Loan ID"
// @Success 200 {object} dto.LoanResponse "Loan approved"
// @Failure 400 {object} dto.ErrorResponse "Invalid loan ID"
// @Failure 404 {object} dto.ErrorResponse "Loan not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /loan-applications/{loanID}/approve [post]
// @Security BearerAuth
func (h *LoanHandler) ApproveLoan(w http.ResponseWriter, r *http.Request) {
	loanID, err := idFromURL(r, "loanID")
	if err != nil {
		respondError(w, err)
		return
	}

	app, err := h.service.ApproveLoanApplication(r.Context(), loanID)
	if err != nil {
		h.logger.Log(r.Context(), logLevelFor(err), "Service failed to approve loan application", slog.Any("error", err))
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, dto.NewLoanResponse(app))
}

// RejectLoan handles POST /loan-applications/{loanID}/reject
//
// @Summary Reject a loan application
// @Description Sets status to rejected and stores the given reason, whatever the current status. The body is optional.
// @Tags Loans
// @Accept json
// @Produce json
// @Param loanID path int true "Loan ID"
// @Param request body dto.RejectLoanRequest false "Rejection reason"
// @Success 200 {object} dto.LoanResponse "Loan rejected"
// @Failure 400 {object} dto.ErrorResponse "Invalid loan ID or malformed body"
// @Failure 404 {object} dto.ErrorResponse "Loan not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /loan-applications/{loanID}/reject [post]
// @Security BearerAuth
func (h *LoanHandler) RejectLoan(w http.ResponseWriter, r *http.Request) {
	loanID, err := idFromURL(r, "loanID")
	if err != nil {
		respondError(w, err)
		return
	}

	var req dto.RejectLoanRequest
	if err := decodeJSON(r, &req); err != nil && !errors.Is(err, io.EOF) {
		h.logger.WarnContext(r.Context(), "Failed to decode request body", slog.Any("error", err))
		respondError(w, fmt.Errorf("%w: %v", apperrors.ErrInvalidArgument, err))
		return
	}

	var reason string
	if req.Reason != nil {
		reason = *req.Reason
	}

	app, err := h.service.RejectLoanApplication(r.Context(), loanID, reason)
	if err != nil {
		h.logger.Log(r.Context(), logLevelFor(err), "Service failed to reject loan application", slog.Any("error", err))
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, dto.NewLoanResponse(app))
}

// SetGuarantors handles PUT /loan-applications/{loanID}/guarantors
//
// @Summary Replace the guarantors of a loan
// @Description Replaces the whole guarantor set. An empty list removes every guarantor.
// @Tags Loans
// @Accept json
// @Produce json
// @Param loanID path int true "Loan ID"
// @Param request body dto.SetGuarantorsRequest true "Guarantor customer IDs"
// @Success 200 {object} dto.LoanResponse "Guarantors replaced"
// @Failure 400 {object} dto.ErrorResponse "Invalid loan ID or malformed body"
// @Failure 404 {object} dto.ErrorResponse "Loan not found"
// @Failure 422 {object} dto.ErrorResponse "Unknown guarantor"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /loan-applications/{loanID}/guarantors [put]
// @Security BearerAuth
func (h *LoanHandler) SetGuarantors(w http.ResponseWriter, r *http.Request) {
	loanID, err := idFromURL(r, "loanID")
	if err != nil {
		respondError(w, err)
		return
	}

	var req dto.SetGuarantorsRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, fmt.Errorf("%w: %v", apperrors.ErrInvalidArgument, err))
		return
	}
	if err := validateRequest(req); err != nil {
		respondError(w, err)
		return
	}

	app, err := h.service.SetGuarantors(r.Context(), loanID, req.Guarantors)
	if err != nil {
		h.logger.Log(r.Context(), logLevelFor(err), "Service failed to set guarantors", slog.Any("error", err))
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, dto.NewLoanResponse(app))
}

// GetBalance handles GET /loan-applications/{loanID}/balance
//
// @Summary Loan balance
// @Description Compares total_to_pay with the live sum of recorded repayments.
// @Tags Loans
// @Produce json
// @Param loanID path int true "Loan ID"
// @Success 200 {object} dto.BalanceResponse "Loan balance"
// @Failure 400 {object} dto.ErrorResponse "Invalid loan ID"
// @Failure 404 {object} dto.ErrorResponse "Loan not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /loan-applications/{loanID}/balance [get]
// @Security BearerAuth
func (h *LoanHandler) GetBalance(w http.ResponseWriter, r *http.Request) {
	loanID, err := idFromURL(r, "loanID")
	if err != nil {
		respondError(w, err)
		return
	}

	balance, err := h.service.GetBalance(r.Context(), loanID)
	if err != nil {
		h.logger.Log(r.Context(), logLevelFor(err), "Service failed to compute balance", slog.Any("error", err))
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, dto.NewBalanceResponse(balance))
}

package handler

import (
	"loan-backoffice/internal/api/handler/dto"
	"loan-backoffice/internal/domain/report"
	"log/slog"
	"net/http"
)

// ReportHandler serves the dashboard aggregates. Every call recomputes from storage.
type ReportHandler struct {
	service report.Service
	logger  *slog.Logger
}

func NewReportHandler(s report.Service, l *slog.Logger) *ReportHandler {
	if s == nil {
		panic("report service cannot be nil")
	}
	if l == nil {
		panic("logger cannot be nil")
	}
	return &ReportHandler{
		service: s,
		logger:  l.With("component", "ReportHandler"),
	}
}

// CustomerCount handles GET /customer-count
//
// @Summary Number of customers
// @Tags Reports
// @Produce json
// @Success 200 {object} dto.CountResponse
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /customer-count [get]
func (h *ReportHandler) CustomerCount(w http.ResponseWriter, r *http.Request) {
	count, err := h.service.CustomerCount(r.Context())
	if err != nil {
		h.logger.ErrorContext(r.Context(), "Failed to count customers", slog.Any("error", err))
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, dto.CountResponse{Count: count})
}

// PendingLoanTotal handles GET /loan-pending-total
//
// @Summary Sum of pending loan amounts
// @Tags Reports
// @Produce json
// @Success 200 {object} dto.PendingTotalResponse
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /loan-pending-total [get]
func (h *ReportHandler) PendingLoanTotal(w http.ResponseWriter, r *http.Request) {
	total, err := h.service.PendingLoanTotal(r.Context())
	if err != nil {
		h.logger.ErrorContext(r.Context(), "Failed to sum pending loans", slog.Any("error", err))
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, dto.PendingTotalResponse{Pending: dto.Money(total)})
}

// DisbursementSummary handles GET /loan-disbursement-summary
//
// @Summary Approved amounts this week and this month
// @Description Weeks start on Monday and months on the 1st, in the configured timezone.
// @Tags Reports
// @Produce json
// @Success 200 {object} dto.WindowSummaryResponse
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /loan-disbursement-summary [get]
func (h *ReportHandler) DisbursementSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.service.DisbursementSummary(r.Context())
	if err != nil {
		h.logger.ErrorContext(r.Context(), "Failed to build disbursement summary", slog.Any("error", err))
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, dto.NewWindowSummaryResponse(summary))
}

// RepaymentSummary handles GET /repayment-summary
//
// @Summary Repaid amounts this week and this month
// @Tags Reports
// @Produce json
// @Success 200 {object} dto.WindowSummaryResponse
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /repayment-summary [get]
func (h *ReportHandler) RepaymentSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.service.RepaymentSummary(r.Context())
	if err != nil {
		h.logger.ErrorContext(r.Context(), "Failed to build repayment summary", slog.Any("error", err))
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, dto.NewWindowSummaryResponse(summary))
}

// LoanTrend handles GET /loan-trends
//
// @Summary Monthly disbursed and repaid series
// @Description Month keys are YYYY-MM. In the combined view a side is omitted for months that have no value in that series.
// @Tags Reports
// @Produce json
// @Success 200 {object} dto.TrendResponse
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /loan-trends [get]
func (h *ReportHandler) LoanTrend(w http.ResponseWriter, r *http.Request) {
	trend, err := h.service.LoanTrend(r.Context())
	if err != nil {
		h.logger.ErrorContext(r.Context(), "Failed to build loan trend", slog.Any("error", err))
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, dto.NewTrendResponse(trend))
}

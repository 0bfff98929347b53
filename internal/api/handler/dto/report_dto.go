package dto

import "loan-backoffice/internal/domain/report"

type PendingTotalResponse struct {
	Pending string `json:"pending"`
}

type WindowSummaryResponse struct {
	Week  string `json:"week"`
	Month string `json:"month"`
}

func NewWindowSummaryResponse(s *report.WindowSummary) WindowSummaryResponse {
	return WindowSummaryResponse{Week: Money(s.Week), Month: Money(s.Month)}
}

type MonthTotalResponse struct {
	Month string `json:"month"`
	Total string `json:"total"`
}

// TrendPointResponse omits a side entirely when the month has no value in that series.
type TrendPointResponse struct {
	Month     string  `json:"month"`
	Disbursed *string `json:"disbursed,omitempty"`
	Repaid    *string `json:"repaid,omitempty"`
}

type TrendResponse struct {
	Disbursed []MonthTotalResponse `json:"disbursed"`
	Repaid    []MonthTotalResponse `json:"repaid"`
	Combined  []TrendPointResponse `json:"combined"`
}

func NewTrendResponse(t *report.Trend) TrendResponse {
	resp := TrendResponse{
		Disbursed: monthTotals(t.Disbursed),
		Repaid:    monthTotals(t.Repaid),
		Combined:  make([]TrendPointResponse, len(t.Combined)),
	}
	for i, p := range t.Combined {
		resp.Combined[i] = TrendPointResponse{
			Month:     p.Month,
			Disbursed: optionalMoney(p.Disbursed),
			Repaid:    optionalMoney(p.Repaid),
		}
	}
	return resp
}

func monthTotals(series []report.MonthTotal) []MonthTotalResponse {
	out := make([]MonthTotalResponse, len(series))
	for i, m := range series {
		out[i] = MonthTotalResponse{Month: m.Month, Total: Money(m.Total)}
	}
	return out
}

package monitoring

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type DBMetrics struct {
	QueryDuration *prometheus.HistogramVec
}

type BusinessMetrics struct {
	LoanApplicationsTotal *prometheus.CounterVec
	RepaymentsTotal       prometheus.Counter
	ReconciledLoansTotal  prometheus.Counter
}

var (
	DB = DBMetrics{
		QueryDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "loan_backoffice_db_query_duration_seconds",
				Help:    "Histogram of database query latencies.",
				Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
			},
			[]string{"query_name", "status"},
		),
	}

	Business = BusinessMetrics{
		LoanApplicationsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "loan_backoffice_loan_applications_total",
				Help: "Loan application lifecycle events by outcome.",
			},
			[]string{"outcome"},
		),
		RepaymentsTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "loan_backoffice_repayments_recorded_total",
				Help: "Total number of repayments recorded.",
			},
		),
		ReconciledLoansTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "loan_backoffice_reconciled_loans_total",
				Help: "Total number of loans whose total_paid was corrected by reconciliation.",
			},
		),
	}
)

func RecordDBQuery(queryName, status string, duration time.Duration) {
	DB.QueryDuration.WithLabelValues(queryName, status).Observe(duration.Seconds())
}

// RecordLoanEvent counts created, approved, rejected and deleted applications.
func RecordLoanEvent(outcome string) {
	Business.LoanApplicationsTotal.WithLabelValues(outcome).Inc()
}

func RecordRepayment() {
	Business.RepaymentsTotal.Inc()
}

func RecordReconciledLoans(n int) {
	Business.ReconciledLoansTotal.Add(float64(n))
}

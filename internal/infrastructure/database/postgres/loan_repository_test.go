package postgres

import (
	"context"
	"regexp"
	"testing"
	"time"

	"loan-backoffice/internal/domain/loan"
	"loan-backoffice/internal/pkg/apperrors"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var loanCols = []string{
	"id", "customer_id", "amount", "duration", "interest_rate",
	"total_to_pay", "total_paid", "status", "approved_on",
	"rejection_reason", "reason", "created_at", "updated_at",
	"c_id", "c_name", "c_email", "c_phone",
}

var guarantorCols = []string{"loan_application_id", "id", "name", "email", "phone"}

var loanCreatedAt = time.Date(2025, 6, 10, 8, 0, 0, 0, time.UTC)

const (
	loanByIDFragment      = "JOIN customers c ON c.id = la.customer_id WHERE la.id = $1"
	guarantorLoadFragment = "WHERE gl.loan_application_id = ANY($1)"
)

func setupLoanRepo(t *testing.T) (context.Context, *LoanRepository, pgxmock.PgxPoolIface) {
	t.Helper()
	mockPool := newMockPool(t)
	return context.Background(), NewLoanRepository(mockPool, newTestLogger()), mockPool
}

func pendingLoanRow(rows *pgxmock.Rows, id int64) *pgxmock.Rows {
	return rows.AddRow(
		id, int64(3), 1000.0, 30.0, 10.0,
		1100.0, 0.0, loan.StatusPending, nil,
		nil, nil, loanCreatedAt, loanCreatedAt,
		int64(3), "Amina", "amina@example.com", "0700",
	)
}

func expectLoanLoad(mockPool pgxmock.PgxPoolIface, id int64, guarantors *pgxmock.Rows) {
	mockPool.ExpectQuery(regexp.QuoteMeta(loanByIDFragment)).
		WithArgs(id).
		WillReturnRows(pendingLoanRow(pgxmock.NewRows(loanCols), id))
	mockPool.ExpectQuery(regexp.QuoteMeta(guarantorLoadFragment)).
		WithArgs([]int64{id}).
		WillReturnRows(guarantors)
}

func TestLoanRepositoryCreateWithGuarantors(t *testing.T) {
	ctx, repo, mockPool := setupLoanRepo(t)
	app := &loan.LoanApplication{CustomerID: 3, Amount: 1000, Duration: 30, InterestRate: 10, TotalToPay: 1100, Status: loan.StatusPending}

	mockPool.ExpectBegin()
	mockPool.ExpectQuery(regexp.QuoteMeta("INSERT INTO loan_applications")).
		WithArgs(int64(3), 1000.0, 30.0, 10.0, 1100.0, 0.0, loan.StatusPending, (*string)(nil)).
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(int64(11)))
	mockPool.ExpectExec(regexp.QuoteMeta("INSERT INTO guarantor_loan (loan_application_id, customer_id)")).
		WithArgs(int64(11), []int64{2, 5}).
		WillReturnResult(pgxmock.NewResult("INSERT", 2))
	mockPool.ExpectCommit()
	expectLoanLoad(mockPool, 11, pgxmock.NewRows(guarantorCols).
		AddRow(int64(11), int64(2), "Baraka", "b@example.com", "0711").
		AddRow(int64(11), int64(5), "Chiku", "c@example.com", "0722"))

	created, err := repo.Create(ctx, app, []int64{2, 5})

	require.NoError(t, err)
	assert.Equal(t, int64(11), created.ID)
	assert.Equal(t, "Amina", created.Customer.Name)
	require.Len(t, created.Guarantors, 2)
	assert.Equal(t, int64(5), created.Guarantors[1].ID)
	assert.NoError(t, mockPool.ExpectationsWereMet(), pgxmockExpectationsNotMetMsg)
}

func TestLoanRepositoryCreateUnknownGuarantorRollsBack(t *testing.T) {
	ctx, repo, mockPool := setupLoanRepo(t)
	app := &loan.LoanApplication{CustomerID: 3, Amount: 1000, Duration: 30, InterestRate: 10, TotalToPay: 1100, Status: loan.StatusPending}

	mockPool.ExpectBegin()
	mockPool.ExpectQuery(regexp.QuoteMeta("INSERT INTO loan_applications")).
		WithArgs(int64(3), 1000.0, 30.0, 10.0, 1100.0, 0.0, loan.StatusPending, (*string)(nil)).
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(int64(11)))
	mockPool.ExpectExec(regexp.QuoteMeta("INSERT INTO guarantor_loan")).
		WithArgs(int64(11), []int64{99}).
		WillReturnError(&pgconn.PgError{Code: "23503", ConstraintName: "guarantor_loan_customer_id_fkey"})
	mockPool.ExpectRollback()

	_, err := repo.Create(ctx, app, []int64{99})

	var ce *apperrors.ConstraintError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, "guarantors", ce.Field)
	assert.NoError(t, mockPool.ExpectationsWereMet(), pgxmockExpectationsNotMetMsg)
}

func TestLoanRepositoryFindByIDNotFound(t *testing.T) {
	ctx, repo, mockPool := setupLoanRepo(t)
	mockPool.ExpectQuery(regexp.QuoteMeta(loanByIDFragment)).
		WithArgs(int64(404)).
		WillReturnRows(pgxmock.NewRows(loanCols))

	_, err := repo.FindByID(ctx, 404)

	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestLoanRepositoryFindAll(t *testing.T) {
	ctx, repo, mockPool := setupLoanRepo(t)
	approvedOn := time.Date(2025, 6, 12, 0, 0, 0, 0, time.UTC)
	reason := "school fees"

	rows := pgxmock.NewRows(loanCols).
		AddRow(
			int64(2), int64(4), 500.0, 14.0, 10.0,
			550.0, 0.0, loan.StatusApproved, &approvedOn,
			nil, &reason, loanCreatedAt, loanCreatedAt,
			int64(4), "Baraka", "b@example.com", "0711",
		)
	rows = pendingLoanRow(rows, 1)

	mockPool.ExpectQuery(regexp.QuoteMeta("ORDER BY la.created_at DESC, la.id DESC")).WillReturnRows(rows)
	mockPool.ExpectQuery(regexp.QuoteMeta(guarantorLoadFragment)).
		WithArgs([]int64{2, 1}).
		WillReturnRows(pgxmock.NewRows(guarantorCols).AddRow(int64(1), int64(4), "Baraka", "b@example.com", "0711"))

	apps, err := repo.FindAll(ctx)

	require.NoError(t, err)
	require.Len(t, apps, 2)
	assert.Equal(t, loan.StatusApproved, apps[0].Status)
	require.NotNil(t, apps[0].ApprovedOn)
	assert.Equal(t, approvedOn, *apps[0].ApprovedOn)
	assert.Equal(t, "school fees", *apps[0].Reason)
	assert.Empty(t, apps[0].Guarantors)
	require.Len(t, apps[1].Guarantors, 1)
	assert.NoError(t, mockPool.ExpectationsWereMet(), pgxmockExpectationsNotMetMsg)
}

func TestLoanRepositoryUpdate(t *testing.T) {
	reason := "expansion"
	app := &loan.LoanApplication{ID: 7, CustomerID: 3, Amount: 2000, Duration: 60, InterestRate: 12, Status: loan.StatusPending, Reason: &reason}

	t.Run("Leaves Guarantors Alone When Nil", func(t *testing.T) {
		ctx, repo, mockPool := setupLoanRepo(t)
		mockPool.ExpectBegin()
		mockPool.ExpectExec(regexp.QuoteMeta("UPDATE loan_applications")).
			WithArgs(int64(7), int64(3), 2000.0, 60.0, 12.0, loan.StatusPending, &reason).
			WillReturnResult(pgxmock.NewResult("UPDATE", 1))
		mockPool.ExpectCommit()

		require.NoError(t, repo.Update(ctx, app, nil))
		assert.NoError(t, mockPool.ExpectationsWereMet(), pgxmockExpectationsNotMetMsg)
	})

	t.Run("Synchronizes Guarantors", func(t *testing.T) {
		ctx, repo, mockPool := setupLoanRepo(t)
		mockPool.ExpectBegin()
		mockPool.ExpectExec(regexp.QuoteMeta("UPDATE loan_applications")).
			WithArgs(int64(7), int64(3), 2000.0, 60.0, 12.0, loan.StatusPending, &reason).
			WillReturnResult(pgxmock.NewResult("UPDATE", 1))
		mockPool.ExpectExec(regexp.QuoteMeta("DELETE FROM guarantor_loan WHERE loan_application_id = $1")).
			WithArgs(int64(7)).
			WillReturnResult(pgxmock.NewResult("DELETE", 2))
		mockPool.ExpectExec(regexp.QuoteMeta("INSERT INTO guarantor_loan")).
			WithArgs(int64(7), []int64{7}).
			WillReturnResult(pgxmock.NewResult("INSERT", 1))
		mockPool.ExpectCommit()

		require.NoError(t, repo.Update(ctx, app, []int64{7}))
		assert.NoError(t, mockPool.ExpectationsWereMet(), pgxmockExpectationsNotMetMsg)
	})

	t.Run("Not Found Rolls Back", func(t *testing.T) {
		ctx, repo, mockPool := setupLoanRepo(t)
		mockPool.ExpectBegin()
		mockPool.ExpectExec(regexp.QuoteMeta("UPDATE loan_applications")).
			WithArgs(int64(7), int64(3), 2000.0, 60.0, 12.0, loan.StatusPending, &reason).
			WillReturnResult(pgxmock.NewResult("UPDATE", 0))
		mockPool.ExpectRollback()

		assert.ErrorIs(t, repo.Update(ctx, app, []int64{1}), apperrors.ErrNotFound)
		assert.NoError(t, mockPool.ExpectationsWereMet(), pgxmockExpectationsNotMetMsg)
	})
}

func TestLoanRepositorySetGuarantorsReplacesSet(t *testing.T) {
	ctx, repo, mockPool := setupLoanRepo(t)

	for _, set := range [][]int64{{2, 5}, {7}} {
		mockPool.ExpectBegin()
		mockPool.ExpectQuery(regexp.QuoteMeta("SELECT id FROM loan_applications WHERE id = $1 FOR UPDATE")).
			WithArgs(int64(4)).
			WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(int64(4)))
		mockPool.ExpectExec(regexp.QuoteMeta("DELETE FROM guarantor_loan WHERE loan_application_id = $1")).
			WithArgs(int64(4)).
			WillReturnResult(pgxmock.NewResult("DELETE", 0))
		mockPool.ExpectExec(regexp.QuoteMeta("INSERT INTO guarantor_loan")).
			WithArgs(int64(4), set).
			WillReturnResult(pgxmock.NewResult("INSERT", int64(len(set))))
		mockPool.ExpectCommit()
	}

	require.NoError(t, repo.SetGuarantors(ctx, 4, []int64{2, 5}))
	require.NoError(t, repo.SetGuarantors(ctx, 4, []int64{7}))
	assert.NoError(t, mockPool.ExpectationsWereMet(), pgxmockExpectationsNotMetMsg)
}

func TestLoanRepositorySetGuarantorsEmptyClears(t *testing.T) {
	ctx, repo, mockPool := setupLoanRepo(t)
	mockPool.ExpectBegin()
	mockPool.ExpectQuery(regexp.QuoteMeta("FOR UPDATE")).
		WithArgs(int64(4)).
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(int64(4)))
	mockPool.ExpectExec(regexp.QuoteMeta("DELETE FROM guarantor_loan")).
		WithArgs(int64(4)).
		WillReturnResult(pgxmock.NewResult("DELETE", 3))
	mockPool.ExpectCommit()

	require.NoError(t, repo.SetGuarantors(ctx, 4, []int64{}))
	assert.NoError(t, mockPool.ExpectationsWereMet(), pgxmockExpectationsNotMetMsg)
}

func TestLoanRepositorySetGuarantorsUnknownLoan(t *testing.T) {
	ctx, repo, mockPool := setupLoanRepo(t)
	mockPool.ExpectBegin()
	mockPool.ExpectQuery(regexp.QuoteMeta("FOR UPDATE")).
		WithArgs(int64(404)).
		WillReturnRows(pgxmock.NewRows([]string{"id"}))
	mockPool.ExpectRollback()

	assert.ErrorIs(t, repo.SetGuarantors(ctx, 404, []int64{1}), apperrors.ErrNotFound)
	assert.NoError(t, mockPool.ExpectationsWereMet(), pgxmockExpectationsNotMetMsg)
}

func TestLoanRepositoryApproveAndReject(t *testing.T) {
	ctx, repo, mockPool := setupLoanRepo(t)
	today := time.Date(2025, 6, 18, 0, 0, 0, 0, time.UTC)

	mockPool.ExpectExec(regexp.QuoteMeta("SET status = $2, approved_on = $3")).
		WithArgs(int64(7), loan.StatusApproved, today).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mockPool.ExpectExec(regexp.QuoteMeta("SET status = $2, rejection_reason = $3")).
		WithArgs(int64(7), loan.StatusRejected, "no collateral").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mockPool.ExpectExec(regexp.QuoteMeta("SET status = $2, approved_on = $3")).
		WithArgs(int64(8), loan.StatusApproved, today).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	assert.NoError(t, repo.Approve(ctx, 7, today))
	assert.NoError(t, repo.Reject(ctx, 7, "no collateral"))
	assert.ErrorIs(t, repo.Approve(ctx, 8, today), apperrors.ErrNotFound)
	assert.NoError(t, mockPool.ExpectationsWereMet(), pgxmockExpectationsNotMetMsg)
}

func TestLoanRepositoryDeleteAndExists(t *testing.T) {
	ctx, repo, mockPool := setupLoanRepo(t)
	mockPool.ExpectExec(regexp.QuoteMeta("DELETE FROM loan_applications WHERE id = $1")).
		WithArgs(int64(7)).
		WillReturnResult(pgxmock.NewResult("DELETE", 1))
	mockPool.ExpectQuery(regexp.QuoteMeta("SELECT EXISTS (SELECT 1 FROM loan_applications WHERE id = $1)")).
		WithArgs(int64(7)).
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(false))

	assert.NoError(t, repo.Delete(ctx, 7))
	exists, err := repo.Exists(ctx, 7)
	require.NoError(t, err)
	assert.False(t, exists)
	assert.NoError(t, mockPool.ExpectationsWereMet(), pgxmockExpectationsNotMetMsg)
}

func TestLoanRepositoryGetBalance(t *testing.T) {
	ctx, repo, mockPool := setupLoanRepo(t)
	mockPool.ExpectQuery(regexp.QuoteMeta("SELECT SUM(rp.amount) FROM loan_repayments rp WHERE rp.loan_id = la.id")).
		WithArgs(int64(7)).
		WillReturnRows(pgxmock.NewRows([]string{"id", "total_to_pay", "total_paid", "repaid"}).
			AddRow(int64(7), 1100.0, 0.0, 1100.0))

	b, err := repo.GetBalance(ctx, 7)

	require.NoError(t, err)
	assert.Equal(t, 0.0, b.TotalPaid)
	assert.Equal(t, 1100.0, b.Repaid)
	assert.Equal(t, 0.0, b.Outstanding)
	assert.NoError(t, mockPool.ExpectationsWereMet(), pgxmockExpectationsNotMetMsg)
}

func TestLoanRepositoryDriftAndCorrection(t *testing.T) {
	ctx, repo, mockPool := setupLoanRepo(t)
	mockPool.ExpectQuery(regexp.QuoteMeta("HAVING la.total_paid <> COALESCE(SUM(rp.amount), 0)")).
		WillReturnRows(pgxmock.NewRows([]string{"id", "total_paid", "repaid"}).
			AddRow(int64(1), 0.0, 300.0).
			AddRow(int64(2), 50.0, 0.0))
	mockPool.ExpectExec(regexp.QuoteMeta("UPDATE loan_applications SET total_paid = $2")).
		WithArgs(int64(1), 300.0).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	drifts, err := repo.FindDriftedTotals(ctx)
	require.NoError(t, err)
	assert.Equal(t, []loan.TotalDrift{{LoanID: 1, TotalPaid: 0, Repaid: 300}, {LoanID: 2, TotalPaid: 50, Repaid: 0}}, drifts)

	require.NoError(t, repo.SetTotalPaid(ctx, 1, 300))
	assert.NoError(t, mockPool.ExpectationsWereMet(), pgxmockExpectationsNotMetMsg)
}

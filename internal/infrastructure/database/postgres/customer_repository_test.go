package postgres

import (
	"context"
	"regexp"
	"testing"
	"time"

	"loan-backoffice/internal/domain/customer"
	"loan-backoffice/internal/pkg/apperrors"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var customerCols = []string{"id", "name", "email", "phone", "id_number", "created_at", "updated_at"}

var customerCreatedAt = time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)

func setupCustomerRepo(t *testing.T) (context.Context, *CustomerRepository, pgxmock.PgxPoolIface) {
	t.Helper()
	mockPool := newMockPool(t)
	return context.Background(), NewCustomerRepository(mockPool, newTestLogger()), mockPool
}

func TestCustomerRepositoryCreate(t *testing.T) {
	ctx, repo, mockPool := setupCustomerRepo(t)
	in := &customer.Customer{Name: "Amina", Email: "amina@example.com", Phone: "0700", IDNumber: "X1"}

	mockPool.ExpectQuery(regexp.QuoteMeta("INSERT INTO customers (name, email, phone, id_number, created_at, updated_at)")).
		WithArgs("Amina", "amina@example.com", "0700", "X1").
		WillReturnRows(pgxmock.NewRows(customerCols).
			AddRow(int64(1), "Amina", "amina@example.com", "0700", "X1", customerCreatedAt, customerCreatedAt))

	created, err := repo.Create(ctx, in)

	require.NoError(t, err)
	assert.Equal(t, int64(1), created.ID)
	assert.Equal(t, customerCreatedAt, created.CreatedAt)
	assert.NoError(t, mockPool.ExpectationsWereMet(), pgxmockExpectationsNotMetMsg)
}

func TestCustomerRepositoryCreateDuplicateEmail(t *testing.T) {
	ctx, repo, mockPool := setupCustomerRepo(t)

	mockPool.ExpectQuery(regexp.QuoteMeta("INSERT INTO customers")).
		WithArgs("Amina", "dup@example.com", "0700", "X1").
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "customers_email_key"})

	_, err := repo.Create(ctx, &customer.Customer{Name: "Amina", Email: "dup@example.com", Phone: "0700", IDNumber: "X1"})

	assert.ErrorIs(t, err, apperrors.ErrAlreadyExists)
}

func TestCustomerRepositoryFindByID(t *testing.T) {
	t.Run("Found", func(t *testing.T) {
		ctx, repo, mockPool := setupCustomerRepo(t)
		mockPool.ExpectQuery(regexp.QuoteMeta("FROM customers WHERE id = $1")).
			WithArgs(int64(1)).
			WillReturnRows(pgxmock.NewRows(customerCols).
				AddRow(int64(1), "Amina", "amina@example.com", "0700", "X1", customerCreatedAt, customerCreatedAt))

		c, err := repo.FindByID(ctx, 1)

		require.NoError(t, err)
		assert.Equal(t, "Amina", c.Name)
		assert.NoError(t, mockPool.ExpectationsWereMet(), pgxmockExpectationsNotMetMsg)
	})

	t.Run("Not Found", func(t *testing.T) {
		ctx, repo, mockPool := setupCustomerRepo(t)
		mockPool.ExpectQuery(regexp.QuoteMeta("FROM customers WHERE id = $1")).
			WithArgs(int64(9)).
			WillReturnRows(pgxmock.NewRows(customerCols))

		_, err := repo.FindByID(ctx, 9)

		assert.ErrorIs(t, err, apperrors.ErrNotFound)
	})
}

func TestCustomerRepositoryFindAll(t *testing.T) {
	ctx, repo, mockPool := setupCustomerRepo(t)
	later := customerCreatedAt.Add(time.Hour)
	mockPool.ExpectQuery(regexp.QuoteMeta("FROM customers ORDER BY created_at DESC, id DESC")).
		WillReturnRows(pgxmock.NewRows(customerCols).
			AddRow(int64(2), "Baraka", "b@example.com", "0711", "X2", later, later).
			AddRow(int64(1), "Amina", "a@example.com", "0700", "X1", customerCreatedAt, customerCreatedAt))

	list, err := repo.FindAll(ctx)

	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, int64(2), list[0].ID)
	assert.NoError(t, mockPool.ExpectationsWereMet(), pgxmockExpectationsNotMetMsg)
}

func TestCustomerRepositoryUpdate(t *testing.T) {
	ctx, repo, mockPool := setupCustomerRepo(t)
	c := &customer.Customer{ID: 1, Name: "Amina K", Email: "amina@example.com", Phone: "0700", IDNumber: "X1"}
	mockPool.ExpectQuery(regexp.QuoteMeta("UPDATE customers")).
		WithArgs(int64(1), "Amina K", "amina@example.com", "0700", "X1").
		WillReturnRows(pgxmock.NewRows(customerCols).
			AddRow(int64(1), "Amina K", "amina@example.com", "0700", "X1", customerCreatedAt, time.Now()))

	updated, err := repo.Update(ctx, c)

	require.NoError(t, err)
	assert.Equal(t, "Amina K", updated.Name)
	assert.NoError(t, mockPool.ExpectationsWereMet(), pgxmockExpectationsNotMetMsg)
}

func TestCustomerRepositoryDelete(t *testing.T) {
	t.Run("Deleted", func(t *testing.T) {
		ctx, repo, mockPool := setupCustomerRepo(t)
		mockPool.ExpectExec(regexp.QuoteMeta("DELETE FROM customers WHERE id = $1")).
			WithArgs(int64(1)).
			WillReturnResult(pgxmock.NewResult("DELETE", 1))

		assert.NoError(t, repo.Delete(ctx, 1))
		assert.NoError(t, mockPool.ExpectationsWereMet(), pgxmockExpectationsNotMetMsg)
	})

	t.Run("Not Found", func(t *testing.T) {
		ctx, repo, mockPool := setupCustomerRepo(t)
		mockPool.ExpectExec(regexp.QuoteMeta("DELETE FROM customers WHERE id = $1")).
			WithArgs(int64(2)).
			WillReturnResult(pgxmock.NewResult("DELETE", 0))

		assert.ErrorIs(t, repo.Delete(ctx, 2), apperrors.ErrNotFound)
	})
}

func TestCustomerRepositoryExistsAndCount(t *testing.T) {
	ctx, repo, mockPool := setupCustomerRepo(t)
	mockPool.ExpectQuery(regexp.QuoteMeta("SELECT EXISTS (SELECT 1 FROM customers WHERE id = $1)")).
		WithArgs(int64(3)).
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(true))
	mockPool.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM customers")).
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(int64(5)))

	exists, err := repo.Exists(ctx, 3)
	require.NoError(t, err)
	assert.True(t, exists)

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(5), count)
	assert.NoError(t, mockPool.ExpectationsWereMet(), pgxmockExpectationsNotMetMsg)
}

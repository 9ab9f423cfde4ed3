package repository

import (
	"context"
	"testing"

	"payroll/internal/model"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	return db, mock
}

func TestInvoiceRepository_BulkUpdateStatus(t *testing.T) {
	db, mock := setupTestDB(t)
	repo := NewInvoiceRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "invoices" SET "status"=\$1,"updated_at"=\$2 WHERE month = \$3 AND status IN \(\$4,\$5\)`).
		WithArgs("approved", sqlmock.AnyArg(), "2025-01", "pending", "rejected").
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectCommit()

	n, err := repo.BulkUpdateStatus(context.Background(), "2025-01", []string{"pending", "rejected"}, "approved")
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInvoiceRepository_BulkUpdateStatusWholePeriod(t *testing.T) {
	db, mock := setupTestDB(t)
	repo := NewInvoiceRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "invoices" SET "status"=\$1,"updated_at"=\$2 WHERE month = \$3$`).
		WithArgs("pending", sqlmock.AnyArg(), "2025-01").
		WillReturnResult(sqlmock.NewResult(0, 5))
	mock.ExpectCommit()

	n, err := repo.BulkUpdateStatus(context.Background(), "2025-01", nil, "pending")
	require.NoError(t, err)
	assert.Equal(t, int64(5), n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInvoiceRepository_StatusTotalsByMonth(t *testing.T) {
	db, mock := setupTestDB(t)
	repo := NewInvoiceRepository(db)

	rows := sqlmock.NewRows([]string{"status", "count", "amount", "expenses"}).
		AddRow("pending", 1, 10000, 0).
		AddRow("approved", 2, 25050, 1200)
	mock.ExpectQuery(`SELECT status, COUNT\(\*\) AS count.* FROM "invoices" WHERE month = \$1 GROUP BY`).
		WithArgs("2025-01").
		WillReturnRows(rows)

	totals, err := repo.StatusTotalsByMonth(context.Background(), "2025-01")
	require.NoError(t, err)
	require.Len(t, totals, 2)
	assert.Equal(t, StatusTotal{Status: "approved", Count: 2, Amount: 25050, Expenses: 1200}, totals[1])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInvoiceRepository_StatusTotals(t *testing.T) {
	db, mock := setupTestDB(t)
	repo := NewInvoiceRepository(db)

	mock.ExpectQuery(`SELECT status, COUNT\(\*\) AS count.* FROM "invoices" GROUP BY`).
		WillReturnRows(sqlmock.NewRows([]string{"status", "count", "amount", "expenses"}).
			AddRow("pending", 3, 30000, 0).
			AddRow("rejected", 1, 5000, 250))

	totals, err := repo.StatusTotals(context.Background(), nil)
	require.NoError(t, err)
	require.Len(t, totals, 2)
	assert.Equal(t, StatusTotal{Status: "rejected", Count: 1, Amount: 5000, Expenses: 250}, totals[1])

	ownerID := uuid.New()
	mock.ExpectQuery(`SELECT status, COUNT\(\*\) AS count.* FROM "invoices" WHERE user_id = \$1 GROUP BY`).
		WithArgs(ownerID).
		WillReturnRows(sqlmock.NewRows([]string{"status", "count", "amount", "expenses"}).AddRow("approved", 2, 800, 0))

	totals, err = repo.StatusTotals(context.Background(), &ownerID)
	require.NoError(t, err)
	require.Len(t, totals, 1)
	assert.Equal(t, int64(2), totals[0].Count)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_CountSkipsDeleted(t *testing.T) {
	db, mock := setupTestDB(t)
	repo := NewUserRepository(db)

	mock.ExpectQuery(`SELECT count\(\*\) FROM "users" WHERE "users"."deleted_at" IS NULL`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(7))

	n, err := repo.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(7), n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInvoiceRepository_ExistsForUserMonth(t *testing.T) {
	db, mock := setupTestDB(t)
	repo := NewInvoiceRepository(db)
	userID := uuid.New()
	self := uuid.New()

	mock.ExpectQuery(`SELECT count\(\*\) FROM "invoices" WHERE .*user_id = \$1 AND month = \$2.* AND id != \$3`).
		WithArgs(userID, "2025-01", self).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

	exists, err := repo.ExistsForUserMonth(context.Background(), userID, "2025-01", &self)
	require.NoError(t, err)
	assert.False(t, exists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInvoiceRepository_DeleteMissing(t *testing.T) {
	db, mock := setupTestDB(t)
	repo := NewInvoiceRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM "invoices" WHERE id = \$1`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	err := repo.Delete(context.Background(), uuid.New())
	assert.True(t, IsNotFound(err))
}

func TestPeriodRepository_CreateIfMissing(t *testing.T) {
	db, mock := setupTestDB(t)
	repo := NewPeriodRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "periods" \("period","status"\) VALUES \(\$1,\$2\) ON CONFLICT \("period"\) DO NOTHING`).
		WithArgs("2025-02", model.PeriodOpen).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(7))
	mock.ExpectCommit()

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "periods" .* ON CONFLICT \("period"\) DO NOTHING`).
		WithArgs("2025-02", model.PeriodClosed).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectCommit()

	created, err := repo.CreateIfMissing(context.Background(), &model.Period{Label: "2025-02", Status: model.PeriodOpen})
	require.NoError(t, err)
	assert.True(t, created)

	created, err = repo.CreateIfMissing(context.Background(), &model.Period{Label: "2025-02", Status: model.PeriodClosed})
	require.NoError(t, err)
	assert.False(t, created)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTransactionManager_NestedJoinsOuter(t *testing.T) {
	db, mock := setupTestDB(t)
	tm := NewTransactionManager(db)

	mock.ExpectBegin()
	mock.ExpectCommit()

	calls := 0
	err := tm.RunInTx(context.Background(), func(txCtx context.Context) error {
		return tm.RunInTx(txCtx, func(inner context.Context) error {
			calls++
			assert.Same(t, txCtx.Value(txKey), inner.Value(txKey))
			return nil
		})
	})
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
	assert.NoError(t, mock.ExpectationsWereMet())
}

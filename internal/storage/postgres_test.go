package storage_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"smartgriev/backend/internal/models"
	"smartgriev/backend/internal/storage"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const (
	selectSequence = `SELECT value FROM complaint_sequences WHERE year = \$1`
	upsertSequence = `INSERT INTO complaint_sequences \(year, value\) VALUES \(\$1, \$2\) ` +
		`ON CONFLICT \(year\) DO UPDATE SET value = complaint_sequences\.value \+ 1 RETURNING value`
)

// newMockDB opens gorm on a sqlmock connection configured like production.
func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	return db, mock
}

func newMockService(t *testing.T) (*storage.Service, sqlmock.Sqlmock) {
	db, mock := newMockDB(t)
	return storage.NewStorageService(db, nil), mock
}

// TestSQLCounter_SeedsFirstValueOfYear verifies that a year without a row is
// seeded from the last stored ID and continues after it.
func TestSQLCounter_SeedsFirstValueOfYear(t *testing.T) {
	// Arrange
	db, mock := newMockDB(t)
	var seededYear int
	counter := storage.NewSQLCounter(db, func(_ context.Context, year int) (int64, error) {
		seededYear = year
		return 41, nil
	})
	mock.ExpectQuery(selectSequence).WithArgs(2025).
		WillReturnRows(sqlmock.NewRows([]string{"value"}))
	mock.ExpectQuery(upsertSequence).WithArgs(2025, int64(42)).
		WillReturnRows(sqlmock.NewRows([]string{"value"}).AddRow(42))

	// Act
	seq, err := counter.Next(context.Background(), 2025)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, int64(42), seq)
	assert.Equal(t, 2025, seededYear)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// TestSQLCounter_IncrementsExistingYear verifies that an existing row is
// incremented by the upsert without consulting the seed.
func TestSQLCounter_IncrementsExistingYear(t *testing.T) {
	// Arrange
	db, mock := newMockDB(t)
	counter := storage.NewSQLCounter(db, func(context.Context, int) (int64, error) {
		t.Fatal("seed must not run when the year already has a counter")
		return 0, nil
	})
	mock.ExpectQuery(selectSequence).WithArgs(2025).
		WillReturnRows(sqlmock.NewRows([]string{"value"}).AddRow(7))
	mock.ExpectQuery(upsertSequence).WithArgs(2025, int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"value"}).AddRow(8))

	// Act
	seq, err := counter.Next(context.Background(), 2025)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, int64(8), seq)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// TestSQLCounter_SeedFailureSurfaces verifies that a failed last-ID lookup
// stops the draw instead of restarting the sequence.
func TestSQLCounter_SeedFailureSurfaces(t *testing.T) {
	// Arrange
	db, mock := newMockDB(t)
	lookup := errors.New("connection reset")
	counter := storage.NewSQLCounter(db, func(context.Context, int) (int64, error) {
		return 0, lookup
	})
	mock.ExpectQuery(selectSequence).WithArgs(2026).
		WillReturnRows(sqlmock.NewRows([]string{"value"}))

	// Act
	_, err := counter.Next(context.Background(), 2026)

	// Assert
	assert.ErrorIs(t, err, lookup)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// TestService_LastComplaintID verifies the prefix lookup ordered by creation.
func TestService_LastComplaintID(t *testing.T) {
	// Arrange
	svc, mock := newMockService(t)
	query := `SELECT .*"id".* FROM "complaints" WHERE id LIKE \$1 ORDER BY created_at desc,\s?id desc LIMIT \$2`
	mock.ExpectQuery(query).WithArgs("SMG-2025-%", 1).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("SMG-2025-0042"))
	mock.ExpectQuery(query).WithArgs("SMG-2026-%", 1).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	// Act
	last, err := svc.LastComplaintID(context.Background(), "SMG-2025-")
	none, noneErr := svc.LastComplaintID(context.Background(), "SMG-2026-")

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "SMG-2025-0042", last)
	require.NoError(t, noneErr)
	assert.Empty(t, none)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// TestService_ListComplaintsFilters verifies the filter columns and the
// newest-first ordering, and that MatchNone skips the query.
func TestService_ListComplaintsFilters(t *testing.T) {
	// Arrange
	svc, mock := newMockService(t)
	dept := "Public Works"
	now := time.Now()
	mock.ExpectQuery(`SELECT \* FROM "complaints" WHERE department = \$1 ORDER BY date_submitted desc,\s?id desc`).
		WithArgs(dept).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "department", "status", "date_submitted"}).
			AddRow("SMG-2025-0002", "u2", dept, models.StatusSubmitted, now).
			AddRow("SMG-2025-0001", "u1", dept, models.StatusAssigned, now.Add(-time.Hour)))
	mock.ExpectQuery(`SELECT \* FROM "complaints" WHERE user_id = \$1 ORDER BY date_submitted desc,\s?id desc`).
		WithArgs("u1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id"}).AddRow("SMG-2025-0001", "u1"))

	// Act
	byDept, err := svc.ListComplaints(context.Background(), models.ComplaintFilter{Department: &dept})
	require.NoError(t, err)
	byUser, err := svc.ListComplaints(context.Background(), models.ComplaintFilter{UserID: "u1"})
	require.NoError(t, err)
	none, err := svc.ListComplaints(context.Background(), models.ComplaintFilter{MatchNone: true})
	require.NoError(t, err)

	// Assert
	require.Len(t, byDept, 2)
	assert.Equal(t, "SMG-2025-0002", byDept[0].ID)
	require.Len(t, byUser, 1)
	assert.Empty(t, none)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// TestService_LockComplaint verifies the row lock and not-found translation.
func TestService_LockComplaint(t *testing.T) {
	// Arrange
	svc, mock := newMockService(t)
	query := `SELECT \* FROM "complaints" WHERE id = \$1 ORDER BY "complaints"\."id" LIMIT \$2 FOR UPDATE`
	mock.ExpectQuery(query).WithArgs("SMG-2025-0001", 1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "status"}).
			AddRow("SMG-2025-0001", "u1", models.StatusSubmitted))
	mock.ExpectQuery(query).WithArgs("SMG-2025-0404", 1).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	// Act
	c, err := svc.LockComplaint(context.Background(), "SMG-2025-0001")
	_, missingErr := svc.LockComplaint(context.Background(), "SMG-2025-0404")

	// Assert
	require.NoError(t, err)
	assert.Equal(t, models.StatusSubmitted, c.Status)
	assert.ErrorIs(t, missingErr, storage.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// TestService_MarkNotificationReadScopedToOwner verifies that only the
// owner's notification is updated and anyone else gets ErrNotFound.
func TestService_MarkNotificationReadScopedToOwner(t *testing.T) {
	// Arrange
	svc, mock := newMockService(t)
	query := `SELECT \* FROM "notifications" WHERE id = \$1 AND user_id = \$2 ORDER BY "notifications"\."id" LIMIT \$3`
	mock.ExpectQuery(query).WithArgs("n1", "u1", 1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "complaint_id", "type", "message", "is_read", "created_at"}).
			AddRow("n1", "u1", "SMG-2025-0001", models.NotificationStatusUpdated, "updated", false, time.Now()))
	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "notifications" SET "is_read"=\$1 WHERE "id" = \$2`).
		WithArgs(true, "n1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()
	mock.ExpectQuery(query).WithArgs("n1", "u2", 1).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	// Act
	n, err := svc.MarkNotificationRead(context.Background(), "n1", "u1")
	_, otherErr := svc.MarkNotificationRead(context.Background(), "n1", "u2")

	// Assert
	require.NoError(t, err)
	assert.True(t, n.IsRead)
	assert.ErrorIs(t, otherErr, storage.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// TestService_SaveDepartmentsUpsertsByName verifies the ON CONFLICT clause
// that refreshes keywords of existing departments.
func TestService_SaveDepartmentsUpsertsByName(t *testing.T) {
	// Arrange
	svc, mock := newMockService(t)
	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "departments" .* ON CONFLICT \("name"\) DO UPDATE SET ` +
		`"code"="excluded"\."code","keywords"="excluded"\."keywords","default_priority"="excluded"\."default_priority" RETURNING "id"`).
		WithArgs("Public Works", "PWD", sqlmock.AnyArg(), "High").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
	mock.ExpectCommit()

	// Act
	err := svc.SaveDepartments(context.Background(), []models.Department{
		{Name: "Public Works", Code: "PWD", Keywords: []string{"road", "pothole"}, DefaultPriority: "High"},
	})

	// Assert
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// TestService_CreateAccountDuplicate verifies that a unique violation is
// reported as ErrDuplicate.
func TestService_CreateAccountDuplicate(t *testing.T) {
	// Arrange
	svc, mock := newMockService(t)
	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO "accounts"`).
		WillReturnError(&pgconn.PgError{Code: "23505", Message: "duplicate key value violates unique constraint"})
	mock.ExpectRollback()

	// Act
	err := svc.CreateAccount(context.Background(), &models.Account{Email: "asha@example.com", PasswordHash: "x"})

	// Assert
	assert.ErrorIs(t, err, storage.ErrDuplicate)
	assert.NoError(t, mock.ExpectationsWereMet())
}

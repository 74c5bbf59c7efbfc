package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/require"

	"github.com/ensino-labs/agenda-api/internal/models"
	"github.com/ensino-labs/agenda-api/pkg/dateutil"
)

func newRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func TestHolidayRepositoryListInRange(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewHolidayRepository(db)

	start, _ := dateutil.ParseDate("2025-01-01")
	end, _ := dateutil.ParseDate("2025-12-31")

	rows := sqlmock.NewRows([]string{"id", "date", "name", "is_national", "created_at", "updated_at"}).
		AddRow("hol-1", time.Date(2025, 4, 21, 0, 0, 0, 0, time.UTC), "Tiradentes", true, time.Now(), time.Now())
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, date, name, is_national, created_at, updated_at\nFROM holidays WHERE date >= $1 AND date <= $2 ORDER BY date ASC")).
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnRows(rows)

	holidays, err := repo.ListInRange(context.Background(), start, end)
	require.NoError(t, err)
	require.Len(t, holidays, 1)
	require.Equal(t, "2025-04-21", holidays[0].Date.String())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestHolidayRepositoryCreateDuplicateDate(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewHolidayRepository(db)

	date, _ := dateutil.ParseDate("2025-12-25")
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO holidays")).
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(), "Natal", true, sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnError(&pq.Error{Code: "23505"})

	err := repo.Create(context.Background(), &models.Holiday{Date: date, Name: "Natal", IsNational: true})
	require.ErrorIs(t, err, ErrDuplicateDate)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestHolidayRepositoryCreateAssignsID(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewHolidayRepository(db)

	date, _ := dateutil.ParseDate("2025-09-07")
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO holidays")).
		WillReturnResult(sqlmock.NewResult(0, 1))

	holiday := &models.Holiday{Date: date, Name: "Independencia", IsNational: true}
	require.NoError(t, repo.Create(context.Background(), holiday))
	require.NotEmpty(t, holiday.ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestHolidayRepositoryUpdateMissing(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewHolidayRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE holidays SET")).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Update(context.Background(), &models.Holiday{ID: "missing", Name: "Renamed"})
	require.Error(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

package repository

import (
	"context"
	"database/sql"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"

	"github.com/ensino-labs/agenda-api/internal/models"
)

func TestAvailabilityRepositoryListActiveByTeacher(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewAvailabilityRepository(db)

	rows := sqlmock.NewRows([]string{"id", "teacher_id", "day_of_week", "start_time", "end_time", "max_students", "is_active", "created_at", "updated_at"}).
		AddRow("tpl-1", "teacher-1", 1, "09:00", "10:00", 5, true, time.Now(), time.Now()).
		AddRow("tpl-2", "teacher-1", 3, "14:00", "16:00", 8, true, time.Now(), time.Now())
	mock.ExpectQuery("SELECT (.+) FROM teacher_availability").
		WithArgs("teacher-1").
		WillReturnRows(rows)

	templates, err := repo.ListActiveByTeacher(context.Background(), "teacher-1")
	require.NoError(t, err)
	require.Len(t, templates, 2)
	require.Equal(t, "09:00", templates[0].StartTime.String())
	require.Equal(t, 8, templates[1].MaxStudents)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAvailabilityRepositoryCreateAssignsID(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewAvailabilityRepository(db)

	mock.ExpectExec("INSERT INTO teacher_availability").
		WillReturnResult(sqlmock.NewResult(0, 1))

	template := &models.AvailabilityTemplate{TeacherID: "teacher-1", DayOfWeek: 1, MaxStudents: 5, IsActive: true}
	require.NoError(t, repo.Create(context.Background(), template))
	require.NotEmpty(t, template.ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAvailabilityRepositoryDeactivateMissing(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewAvailabilityRepository(db)

	mock.ExpectExec("UPDATE teacher_availability SET is_active = FALSE").
		WithArgs("missing", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Deactivate(context.Background(), "missing")
	require.ErrorIs(t, err, sql.ErrNoRows)
	require.NoError(t, mock.ExpectationsWereMet())
}

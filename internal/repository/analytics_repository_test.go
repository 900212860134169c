package repository

import (
	"context"
	"regexp"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnalyticsRepositoryTeacherWorkload(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewAnalyticsRepository(db)

	rows := sqlmock.NewRows([]string{"teacher_id", "teacher_name", "total_classes", "days_teaching"}).
		AddRow("t1", "Dr. Smith", 12, 5).
		AddRow("t2", "Dr. Jones", 8, 4)
	mock.ExpectQuery("FROM teachers t").
		WithArgs("u1").
		WillReturnRows(rows)

	workload, err := repo.TeacherWorkload(context.Background(), "u1")
	require.NoError(t, err)
	require.Len(t, workload, 2)
	assert.Equal(t, 12, workload[0].TotalClasses)
	assert.Equal(t, "Dr. Jones", workload[1].TeacherName)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAnalyticsRepositoryDayDistribution(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewAnalyticsRepository(db)

	rows := sqlmock.NewRows([]string{"day", "entries"}).
		AddRow("Monday", 10).
		AddRow("Tuesday", 8)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT day, COUNT(*) AS entries")).
		WithArgs("u1").
		WillReturnRows(rows)

	dist, err := repo.DayDistribution(context.Background(), "u1")
	require.NoError(t, err)
	require.Len(t, dist, 2)
	assert.Equal(t, "Monday", dist[0].Day)
	assert.Equal(t, 10, dist[0].Entries)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAnalyticsRepositoryDashboardStats(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewAnalyticsRepository(db)

	rows := sqlmock.NewRows([]string{"teachers", "subjects", "rooms", "classes", "entries"}).
		AddRow(5, 8, 4, 3, 60)
	mock.ExpectQuery("SELECT").
		WithArgs("u1").
		WillReturnRows(rows)

	stats, err := repo.DashboardStats(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, 5, stats.Teachers)
	assert.Equal(t, 60, stats.Entries)
	assert.NoError(t, mock.ExpectationsWereMet())
}

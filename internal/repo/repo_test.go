package repo

import (
	"regexp"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/require"

	"github.com/shaiso/WorkerStore/internal/domain"
)

// newMockRepo создаёт WorkerRepo поверх pgxmock и проверяет ожидания по завершении теста.
func newMockRepo(t *testing.T) (*WorkerRepo, pgxmock.PgxPoolIface) {
	t.Helper()

	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, mock.ExpectationsWereMet())
		mock.Close()
	})

	return NewWorkerRepo(mock, nil), mock
}

// sql превращает фрагмент запроса в регулярное выражение для pgxmock.
func sql(fragment string) string {
	return regexp.QuoteMeta(fragment)
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func dateArg(t time.Time) pgtype.Date {
	return pgtype.Date{Time: t, Valid: true}
}

// alice — сотрудник из основного сценария.
func alice() *domain.Worker {
	return &domain.Worker{
		ID:          1,
		Name:        "Alice",
		Coordinates: domain.Coordinates{X: 1.5, Y: 2},
		Salary:      50000,
		StartDate:   date(2023, time.March, 1),
		EndDate:     date(2025, time.March, 1),
		Status:      domain.StatusHired,
		Person:      domain.Person{Height: 1.7, Weight: 60, HairColor: domain.ColorBlack},
		UserID:      10,
	}
}

var workerColumns = []string{
	"worker_id", "worker_name", "creationdate", "salary", "startdate", "enddate", "user_id",
	"coordinates_id", "x", "y", "status_name", "person_id", "height", "weight", "color_name",
	"username", "userpassword",
}

// workerRow возвращает значения строки selectWorkers для w.
func workerRow(w *domain.Worker, status, color string) []any {
	return []any{
		w.ID, w.Name, date(2024, time.January, 1), w.Salary, w.StartDate, w.EndDate, w.UserID,
		int64(100 + w.ID), w.Coordinates.X, w.Coordinates.Y, status,
		int64(200 + w.ID), w.Person.Height, w.Person.Weight, color,
		"user", "secret",
	}
}

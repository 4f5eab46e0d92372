package repo

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shaiso/WorkerStore/internal/domain"
	"github.com/shaiso/WorkerStore/internal/telemetry"
)

func expectInsertParts(mock pgxmock.PgxPoolIface, w *domain.Worker, coordinatesID, personID int64) {
	mock.ExpectQuery(sql("INSERT INTO coordinates (x, y)")).
		WithArgs(w.Coordinates.X, w.Coordinates.Y).
		WillReturnRows(mock.NewRows([]string{"id"}).AddRow(coordinatesID))
	mock.ExpectQuery(sql("SELECT id FROM color")).
		WithArgs(w.Person.HairColor.String()).
		WillReturnRows(mock.NewRows([]string{"id"}).AddRow(int64(1)))
	mock.ExpectQuery(sql("INSERT INTO person (height, weight, color_id)")).
		WithArgs(w.Person.Height, w.Person.Weight, int64(1)).
		WillReturnRows(mock.NewRows([]string{"id"}).AddRow(personID))
}

func TestInsertCoordinates(t *testing.T) {
	r, mock := newMockRepo(t)

	mock.ExpectQuery(sql("INSERT INTO coordinates (x, y)")).
		WithArgs(float32(3.25), 7).
		WillReturnRows(mock.NewRows([]string{"id"}).AddRow(int64(42)))

	id, err := r.InsertCoordinates(context.Background(), 3.25, 7)
	require.NoError(t, err)
	assert.Equal(t, int64(42), id)
}

func TestInsertPerson_UnknownColor(t *testing.T) {
	r, mock := newMockRepo(t)

	mock.ExpectQuery(sql("SELECT id FROM color")).
		WithArgs("green").
		WillReturnRows(mock.NewRows([]string{"id"}))

	_, err := r.InsertPerson(context.Background(), 1.8, 80, domain.Color("green"))
	require.ErrorIs(t, err, ErrNotFound)
}

func TestInsert(t *testing.T) {
	r, mock := newMockRepo(t)
	w := alice()

	expectInsertParts(mock, w, 11, 21)
	mock.ExpectQuery(sql("SELECT id FROM status")).
		WithArgs("hired").
		WillReturnRows(mock.NewRows([]string{"id"}).AddRow(int64(2)))
	mock.ExpectExec(sql("INSERT INTO worker (worker_id, name, coordinates_id")).
		WithArgs(int64(1), "Alice", int64(11), 50000,
			dateArg(w.StartDate), dateArg(w.EndDate), int64(2), int64(21), int64(10)).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	require.NoError(t, r.Insert(context.Background(), w))
	assert.Equal(t, int64(11), w.Coordinates.ID)
	assert.Equal(t, int64(21), w.Person.ID)
}

func TestInsert_StopsAfterFailedStep(t *testing.T) {
	r, mock := newMockRepo(t)
	w := alice()

	mock.ExpectQuery(sql("INSERT INTO coordinates (x, y)")).
		WithArgs(w.Coordinates.X, w.Coordinates.Y).
		WillReturnError(&pgconn.PgError{Code: "08006", Message: "connection failure"})

	err := r.Insert(context.Background(), w)
	require.ErrorIs(t, err, ErrConnection)
	assert.Equal(t, OutcomeConnectionError, Classify(err))
}

func TestInsert_DuplicateID(t *testing.T) {
	r, mock := newMockRepo(t)
	w := alice()

	expectInsertParts(mock, w, 11, 21)
	mock.ExpectQuery(sql("SELECT id FROM status")).
		WithArgs("hired").
		WillReturnRows(mock.NewRows([]string{"id"}).AddRow(int64(2)))
	mock.ExpectExec(sql("INSERT INTO worker")).
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(),
			pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnError(&pgconn.PgError{Code: "23505", Message: "duplicate key value violates unique constraint"})

	err := r.Insert(context.Background(), w)
	require.ErrorIs(t, err, ErrAlreadyExists)
	assert.ErrorIs(t, err, ErrConstraintViolation)
}

func TestInsert_ZeroDate(t *testing.T) {
	r, _ := newMockRepo(t)
	w := alice()
	w.EndDate = time.Time{}

	err := r.Insert(context.Background(), w)
	require.ErrorIs(t, err, ErrConversion)
}

func TestInsertWorkerRow_DatesKeepOwnZone(t *testing.T) {
	r, mock := newMockRepo(t)

	// 2024-05-02 01:30 в UTC+3 — это ещё 2024-05-01 в UTC.
	zone := time.FixedZone("UTC+3", 3*60*60)
	start := time.Date(2024, time.May, 2, 1, 30, 0, 0, zone)
	end := time.Date(2024, time.June, 2, 1, 30, 0, 0, zone)

	mock.ExpectQuery(sql("SELECT id FROM status")).
		WithArgs("regular").
		WillReturnRows(mock.NewRows([]string{"id"}).AddRow(int64(4)))
	mock.ExpectExec(sql("INSERT INTO worker")).
		WithArgs(int64(5), "Bob", int64(1), 100, dateArg(date(2024, time.May, 2)),
			dateArg(date(2024, time.June, 2)), int64(4), int64(2), int64(10)).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	err := r.InsertWorkerRow(context.Background(), WorkerRow{
		WorkerID:      5,
		Name:          "Bob",
		CoordinatesID: 1,
		Salary:        100,
		StartDate:     start,
		EndDate:       end,
		Status:        domain.StatusRegular,
		PersonID:      2,
		UserID:        10,
	})
	require.NoError(t, err)
}

func TestInsert_SameLocalDayEastOfUTC(t *testing.T) {
	r, mock := newMockRepo(t)
	w := alice()

	zone := time.FixedZone("UTC+3", 3*60*60)
	w.StartDate = time.Date(2024, time.July, 1, 0, 0, 0, 0, zone)
	w.EndDate = time.Date(2024, time.July, 1, 0, 0, 0, 0, zone)

	expectInsertParts(mock, w, 11, 21)
	mock.ExpectQuery(sql("SELECT id FROM status")).
		WithArgs("hired").
		WillReturnRows(mock.NewRows([]string{"id"}).AddRow(int64(2)))
	mock.ExpectExec(sql("INSERT INTO worker")).
		WithArgs(int64(1), "Alice", int64(11), 50000,
			dateArg(date(2024, time.July, 1)), dateArg(date(2024, time.July, 1)),
			int64(2), int64(21), int64(10)).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	require.NoError(t, r.Insert(context.Background(), w))
}

func TestUpdate(t *testing.T) {
	r, mock := newMockRepo(t)
	w := alice()
	w.Coordinates = domain.Coordinates{X: 9, Y: 9}

	mock.ExpectBegin()
	expectInsertParts(mock, w, 12, 22)
	mock.ExpectQuery(sql("DELETE FROM worker WHERE worker_id = $1 AND user_id = $2 RETURNING coordinates_id, person_id")).
		WithArgs(int64(1), int64(10)).
		WillReturnRows(mock.NewRows([]string{"coordinates_id", "person_id"}).AddRow(int64(11), int64(21)))
	mock.ExpectQuery(sql("SELECT id FROM status")).
		WithArgs("hired").
		WillReturnRows(mock.NewRows([]string{"id"}).AddRow(int64(2)))
	mock.ExpectExec(sql("INSERT INTO worker")).
		WithArgs(int64(1), "Alice", int64(12), 50000,
			dateArg(w.StartDate), dateArg(w.EndDate), int64(2), int64(22), int64(10)).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectExec(sql("DELETE FROM coordinates WHERE id = ANY($1)")).
		WithArgs([]int64{11}).
		WillReturnResult(pgxmock.NewResult("DELETE", 1))
	mock.ExpectExec(sql("DELETE FROM person WHERE id = ANY($1)")).
		WithArgs([]int64{21}).
		WillReturnResult(pgxmock.NewResult("DELETE", 1))
	mock.ExpectCommit()

	require.NoError(t, r.Update(context.Background(), w))
	assert.Equal(t, int64(12), w.Coordinates.ID)
	assert.Equal(t, int64(22), w.Person.ID)
}

func TestUpdate_RollsBackOnInsertFailure(t *testing.T) {
	r, mock := newMockRepo(t)
	w := alice()

	mock.ExpectBegin()
	expectInsertParts(mock, w, 12, 22)
	mock.ExpectQuery(sql("DELETE FROM worker")).
		WithArgs(int64(1), int64(10)).
		WillReturnRows(mock.NewRows([]string{"coordinates_id", "person_id"}))
	mock.ExpectQuery(sql("SELECT id FROM status")).
		WithArgs("hired").
		WillReturnRows(mock.NewRows([]string{"id"}).AddRow(int64(2)))
	mock.ExpectExec(sql("INSERT INTO worker")).
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(),
			pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnError(&pgconn.PgError{Code: "23505"})
	mock.ExpectRollback()

	err := r.Update(context.Background(), w)
	require.ErrorIs(t, err, ErrAlreadyExists)
}

func TestRepoMetrics(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	reg := prometheus.NewRegistry()
	r := NewWorkerRepo(mock, telemetry.NewRepoMetrics(reg))

	mock.ExpectQuery(sql("SELECT id FROM status")).
		WithArgs("fired").
		WillReturnRows(mock.NewRows([]string{"id"}).AddRow(int64(1)))
	mock.ExpectQuery(sql("SELECT id FROM status")).
		WithArgs("retired").
		WillReturnRows(mock.NewRows([]string{"id"}))

	_, err = r.StatusID(context.Background(), domain.StatusFired)
	require.NoError(t, err)
	_, err = r.StatusID(context.Background(), domain.Status("retired"))
	require.ErrorIs(t, err, ErrNotFound)

	count, err := testutil.GatherAndCount(reg, "workerstore_repo_operations_total")
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

package repo

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shaiso/WorkerStore/internal/domain"
)

// openTestDB мигрирует тестовую БД и очищает таблицы сотрудников.
// Без WORKERSTORE_TEST_DB_URL тест пропускается.
func openTestDB(t *testing.T) *pgxpool.Pool {
	t.Helper()

	url := os.Getenv("WORKERSTORE_TEST_DB_URL")
	if url == "" {
		t.Skip("WORKERSTORE_TEST_DB_URL not set")
	}

	ctx := context.Background()
	_, _, err := Migrate(ctx, url, zerolog.Nop())
	require.NoError(t, err)

	pool, err := pgxpool.New(ctx, url)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	_, err = pool.Exec(ctx, `TRUNCATE worker, person, coordinates, user_worker RESTART IDENTITY`)
	require.NoError(t, err)
	_, err = pool.Exec(ctx, `
		INSERT INTO user_worker (id, username, userpassword)
		VALUES (10, 'ten', 'p10'), (11, 'eleven', 'p11')
	`)
	require.NoError(t, err)

	return pool
}

func countRows(t *testing.T, pool *pgxpool.Pool, table string) int {
	t.Helper()
	var n int
	require.NoError(t, pool.QueryRow(context.Background(), `SELECT count(*) FROM `+table).Scan(&n))
	return n
}

func TestIntegration_Lookups(t *testing.T) {
	pool := openTestDB(t)
	r := NewWorkerRepo(pool, nil)
	ctx := context.Background()

	for _, c := range domain.Colors() {
		_, err := r.ColorID(ctx, c)
		assert.NoError(t, err, "color %s", c)
	}
	for _, s := range domain.Statuses() {
		_, err := r.StatusID(ctx, s)
		assert.NoError(t, err, "status %s", s)
	}

	_, err := r.ColorID(ctx, domain.Color("green"))
	assert.ErrorIs(t, err, ErrNotFound)

	id, err := r.InsertCoordinates(ctx, 1.25, 3)
	require.NoError(t, err)
	var x float32
	var y int
	require.NoError(t, pool.QueryRow(ctx, `SELECT x, y FROM coordinates WHERE id = $1`, id).Scan(&x, &y))
	assert.Equal(t, float32(1.25), x)
	assert.Equal(t, 3, y)
}

func TestIntegration_AliceRoundTrip(t *testing.T) {
	pool := openTestDB(t)
	r := NewWorkerRepo(pool, nil)
	ctx := context.Background()

	w := alice()
	require.NoError(t, r.Insert(ctx, w))

	set, err := r.List(ctx)
	require.NoError(t, err)

	got, ok := set.Get(1)
	require.True(t, ok)
	assert.Equal(t, "Alice", got.Name)
	assert.Equal(t, float32(1.5), got.Coordinates.X)
	assert.Equal(t, 2, got.Coordinates.Y)
	assert.Equal(t, 50000, got.Salary)
	assert.True(t, w.StartDate.Equal(got.StartDate))
	assert.True(t, w.EndDate.Equal(got.EndDate))
	assert.Equal(t, domain.StatusHired, got.Status)
	assert.Equal(t, domain.ColorBlack, got.Person.HairColor)
	assert.Equal(t, float32(1.7), got.Person.Height)
	assert.Equal(t, int64(10), got.UserID)
	assert.False(t, got.CreationDate.IsZero())

	id, err := r.WorkerID(ctx, "ALICE", 10)
	require.NoError(t, err)
	assert.Equal(t, int64(1), id)

	_, err = r.WorkerID(ctx, "alice", 11)
	assert.ErrorIs(t, err, ErrNotFound)

	assert.ErrorIs(t, r.Insert(ctx, alice()), ErrAlreadyExists)
}

func TestIntegration_Update(t *testing.T) {
	pool := openTestDB(t)
	r := NewWorkerRepo(pool, nil)
	ctx := context.Background()

	require.NoError(t, r.Insert(ctx, alice()))

	w := alice()
	w.Coordinates = domain.Coordinates{X: 8, Y: 9}
	w.Person = domain.Person{Height: 1.9, Weight: 90, HairColor: domain.ColorWhite}
	require.NoError(t, r.Update(ctx, w))

	got, err := r.Get(ctx, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, float32(8), got.Coordinates.X)
	assert.Equal(t, domain.ColorWhite, got.Person.HairColor)
	assert.Equal(t, int64(1), got.ID)
	assert.Equal(t, int64(10), got.UserID)

	assert.Equal(t, 1, countRows(t, pool, "coordinates"))
	assert.Equal(t, 1, countRows(t, pool, "person"))

	// Чужой пользователь не может перезаписать сотрудника.
	foreign := alice()
	foreign.UserID = 11
	assert.ErrorIs(t, r.Update(ctx, foreign), ErrAlreadyExists)

	got, err = r.Get(ctx, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, float32(8), got.Coordinates.X)
}

func TestIntegration_Deletes(t *testing.T) {
	pool := openTestDB(t)
	r := NewWorkerRepo(pool, nil)
	ctx := context.Background()

	for i, salary := range []int{100, 200, 300} {
		w := alice()
		w.ID = int64(i + 1)
		w.Salary = salary
		require.NoError(t, r.Insert(ctx, w))
	}
	other := alice()
	other.ID, other.UserID, other.Salary = 4, 11, 300
	require.NoError(t, r.Insert(ctx, other))

	n, err := r.DeleteBySalaryAtLeast(ctx, 300, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	n, err = r.DeleteBySalaryAtMost(ctx, 100, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	n, err = r.DeleteByID(ctx, 4, 10)
	require.NoError(t, err)
	assert.Zero(t, n)

	n, err = r.DeleteByStartDate(ctx, date(2023, time.March, 1), 10)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	set, err := r.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []int64{4}, set.IDs())
	assert.Equal(t, 1, countRows(t, pool, "coordinates"))
}

func TestIntegration_DeleteByUser(t *testing.T) {
	pool := openTestDB(t)
	r := NewWorkerRepo(pool, nil)
	ctx := context.Background()

	for id := int64(1); id <= 3; id++ {
		w := alice()
		w.ID = id
		require.NoError(t, r.Insert(ctx, w))
	}
	other := alice()
	other.ID, other.UserID = 4, 11
	require.NoError(t, r.Insert(ctx, other))

	n, err := r.DeleteByUser(ctx, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)

	set, err := r.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []int64{4}, set.IDs())

	n, err = r.DeleteByID(ctx, 1, 10)
	require.NoError(t, err)
	assert.Zero(t, n)
}

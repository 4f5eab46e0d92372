package repo

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/shaiso/WorkerStore/internal/domain"
	"github.com/shaiso/WorkerStore/internal/telemetry"
)

// --- Read ---

// selectWorkers — соединение worker со всеми справочниками.
// Строки с висячими ссылками отбрасываются inner join.
const selectWorkers = `
	SELECT
		worker.worker_id,
		worker.name AS worker_name,
		worker.creationdate,
		worker.salary,
		worker.startdate,
		worker.enddate,
		worker.user_id,
		coordinates.id AS coordinates_id,
		coordinates.x,
		coordinates.y,
		status.name AS status_name,
		person.id AS person_id,
		person.height,
		person.weight,
		color.name AS color_name,
		user_worker.username,
		user_worker.userpassword
	FROM worker
		INNER JOIN coordinates ON worker.coordinates_id = coordinates.id
		INNER JOIN status ON worker.status_id = status.id
		INNER JOIN person ON worker.person_id = person.id
		INNER JOIN color ON person.color_id = color.id
		INNER JOIN user_worker ON worker.user_id = user_worker.id
`

// List возвращает всех сотрудников всех пользователей.
func (r *WorkerRepo) List(ctx context.Context) (set *domain.WorkerSet, err error) {
	defer r.done(opListWorkers, time.Now(), &err)

	set, err = r.queryWorkers(ctx, "list workers", selectWorkers)
	if err != nil {
		return nil, err
	}

	telemetry.FromContext(ctx).Debug().
		Int("count", set.Len()).
		Msg("listed workers")
	return set, nil
}

// ListByUser возвращает сотрудников пользователя userID.
func (r *WorkerRepo) ListByUser(ctx context.Context, userID int64) (set *domain.WorkerSet, err error) {
	defer r.done(opListByUser, time.Now(), &err)
	return r.queryWorkers(ctx, "list workers by user", selectWorkers+`WHERE worker.user_id = $1`, userID)
}

// Get возвращает сотрудника workerID пользователя userID.
func (r *WorkerRepo) Get(ctx context.Context, workerID, userID int64) (w *domain.Worker, err error) {
	defer r.done(opGetWorker, time.Now(), &err)

	query := selectWorkers + `WHERE worker.worker_id = $1 AND worker.user_id = $2`
	w, err = scanWorker(r.db.QueryRow(ctx, query, workerID, userID))
	if err != nil {
		return nil, fmt.Errorf("get worker %d: %w", workerID, err)
	}
	return w, nil
}

func (r *WorkerRepo) queryWorkers(ctx context.Context, op, query string, args ...any) (*domain.WorkerSet, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, storeError(op, err)
	}
	defer rows.Close()

	set := domain.NewWorkerSet()
	for rows.Next() {
		w, err := scanWorker(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		set.Put(w)
	}
	if err := rows.Err(); err != nil {
		return nil, storeError(op, err)
	}
	return set, nil
}

// scanWorker сканирует строку selectWorkers в Worker.
func scanWorker(row pgx.Row) (*domain.Worker, error) {
	var (
		w          domain.Worker
		user       domain.User
		statusName string
		colorName  string
	)
	err := row.Scan(
		&w.ID,
		&w.Name,
		&w.CreationDate,
		&w.Salary,
		&w.StartDate,
		&w.EndDate,
		&w.UserID,
		&w.Coordinates.ID,
		&w.Coordinates.X,
		&w.Coordinates.Y,
		&statusName,
		&w.Person.ID,
		&w.Person.Height,
		&w.Person.Weight,
		&colorName,
		&user.Username,
		&user.Password,
	)
	if err != nil {
		return nil, storeError("scan worker", err)
	}

	status, err := domain.ParseStatus(statusName)
	if err != nil {
		return nil, fmt.Errorf("scan worker %d: %w: %w", w.ID, ErrConversion, err)
	}
	color, err := domain.ParseColor(colorName)
	if err != nil {
		return nil, fmt.Errorf("scan worker %d: %w: %w", w.ID, ErrConversion, err)
	}

	w.Status = status
	w.Person.HairColor = color
	user.ID = w.UserID
	w.User = &user
	return &w, nil
}

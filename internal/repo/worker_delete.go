package repo

import (
	"context"
	"fmt"
	"time"

	"github.com/shaiso/WorkerStore/internal/domain"
	"github.com/shaiso/WorkerStore/internal/telemetry"
)

// --- Delete ---
//
// Все удаления ограничены владельцем и возвращают число удалённых
// сотрудников. Ноль строк — не ошибка. Вместе с сотрудниками в той же
// транзакции удаляются их строки coordinates и person.

// DeleteByID удаляет сотрудника workerID пользователя userID.
func (r *WorkerRepo) DeleteByID(ctx context.Context, workerID, userID int64) (n int64, err error) {
	defer r.done(opDeleteByID, time.Now(), &err)
	return r.deleteWhere(ctx, "delete worker by id",
		`worker_id = $1 AND user_id = $2`, workerID, userID)
}

// DeleteByUser удаляет всех сотрудников пользователя.
func (r *WorkerRepo) DeleteByUser(ctx context.Context, userID int64) (n int64, err error) {
	defer r.done(opDeleteByUser, time.Now(), &err)
	return r.deleteWhere(ctx, "delete workers by user",
		`user_id = $1`, userID)
}

// DeleteBySalaryAtLeast удаляет сотрудников с salary >= threshold.
func (r *WorkerRepo) DeleteBySalaryAtLeast(ctx context.Context, threshold int, userID int64) (n int64, err error) {
	defer r.done(opDeleteBySalaryMin, time.Now(), &err)
	return r.deleteWhere(ctx, "delete workers by greater salary",
		`salary >= $1 AND user_id = $2`, threshold, userID)
}

// DeleteBySalaryAtMost удаляет сотрудников с salary <= threshold.
func (r *WorkerRepo) DeleteBySalaryAtMost(ctx context.Context, threshold int, userID int64) (n int64, err error) {
	defer r.done(opDeleteBySalaryMax, time.Now(), &err)
	return r.deleteWhere(ctx, "delete workers by lower salary",
		`salary <= $1 AND user_id = $2`, threshold, userID)
}

// DeleteByEndDate удаляет сотрудников с enddate, равной календарной
// дате endDate в её собственной зоне.
func (r *WorkerRepo) DeleteByEndDate(ctx context.Context, endDate time.Time, userID int64) (n int64, err error) {
	defer r.done(opDeleteByEndDate, time.Now(), &err)

	date, err := dateParam(endDate, nil)
	if err != nil {
		return 0, fmt.Errorf("delete workers by end date: %w", err)
	}
	return r.deleteWhere(ctx, "delete workers by end date",
		`enddate = $1 AND user_id = $2`, date, userID)
}

// DeleteByStartDate удаляет сотрудников с startdate, равной календарной
// дате startDate в domain.ReferenceZone, независимо от зоны аргумента.
func (r *WorkerRepo) DeleteByStartDate(ctx context.Context, startDate time.Time, userID int64) (n int64, err error) {
	defer r.done(opDeleteByStartDate, time.Now(), &err)

	date, err := dateParam(startDate, domain.ReferenceZone)
	if err != nil {
		return 0, fmt.Errorf("delete workers by start date: %w", err)
	}
	return r.deleteWhere(ctx, "delete workers by start date",
		`startdate = $1 AND user_id = $2`, date, userID)
}

// deleteWhere удаляет сотрудников по условию в отдельной транзакции.
func (r *WorkerRepo) deleteWhere(ctx context.Context, op, where string, args ...any) (int64, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return 0, storeError("begin "+op, err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	removed, err := deleteWorkers(ctx, tx, where, args...)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	if err := deleteOrphans(ctx, tx, removed); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, storeError("commit "+op, err)
	}

	n := int64(len(removed.coordinateIDs))
	telemetry.FromContext(ctx).Debug().
		Str("op", op).
		Int64("rows", n).
		Msg("deleted workers")
	return n, nil
}

// removedRefs — ссылки удалённых строк worker.
type removedRefs struct {
	coordinateIDs []int64
	personIDs     []int64
}

// deleteWorkers удаляет строки worker по условию where и возвращает
// их coordinates_id и person_id.
func deleteWorkers(ctx context.Context, q querier, where string, args ...any) (removedRefs, error) {
	query := `DELETE FROM worker WHERE ` + where + ` RETURNING coordinates_id, person_id`

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return removedRefs{}, storeError("delete worker", err)
	}
	defer rows.Close()

	var refs removedRefs
	for rows.Next() {
		var coordinatesID, personID int64
		if err := rows.Scan(&coordinatesID, &personID); err != nil {
			return removedRefs{}, storeError("scan deleted worker", err)
		}
		refs.coordinateIDs = append(refs.coordinateIDs, coordinatesID)
		refs.personIDs = append(refs.personIDs, personID)
	}
	if err := rows.Err(); err != nil {
		return removedRefs{}, storeError("delete worker", err)
	}
	return refs, nil
}

// deleteOrphans удаляет coordinates и person, на которые ссылались
// удалённые строки worker.
func deleteOrphans(ctx context.Context, q querier, refs removedRefs) error {
	if len(refs.coordinateIDs) == 0 {
		return nil
	}

	if _, err := q.Exec(ctx, `DELETE FROM coordinates WHERE id = ANY($1)`, refs.coordinateIDs); err != nil {
		return storeError("delete coordinates", err)
	}
	if _, err := q.Exec(ctx, `DELETE FROM person WHERE id = ANY($1)`, refs.personIDs); err != nil {
		return storeError("delete person", err)
	}
	return nil
}

package repo

import (
	"context"
	"fmt"
	"time"

	"github.com/shaiso/WorkerStore/internal/domain"
	"github.com/shaiso/WorkerStore/internal/telemetry"
)

// --- Lookups ---

// ColorID возвращает id цвета из справочника color.
// Имя сравнивается без учёта регистра. Отсутствие строки — ErrNotFound.
func (r *WorkerRepo) ColorID(ctx context.Context, color domain.Color) (id int64, err error) {
	defer r.done(opColorID, time.Now(), &err)
	return r.colorID(ctx, r.db, color)
}

func (r *WorkerRepo) colorID(ctx context.Context, q querier, color domain.Color) (int64, error) {
	query := `SELECT id FROM color WHERE lower(name) = lower($1)`

	var id int64
	if err := q.QueryRow(ctx, query, color.String()).Scan(&id); err != nil {
		return 0, storeError(fmt.Sprintf("get color id %q", color), err)
	}
	return id, nil
}

// StatusID возвращает id статуса из справочника status.
// Имя сравнивается без учёта регистра. Отсутствие строки — ErrNotFound.
func (r *WorkerRepo) StatusID(ctx context.Context, status domain.Status) (id int64, err error) {
	defer r.done(opStatusID, time.Now(), &err)
	return r.statusID(ctx, r.db, status)
}

func (r *WorkerRepo) statusID(ctx context.Context, q querier, status domain.Status) (int64, error) {
	query := `SELECT id FROM status WHERE lower(name) = lower($1)`

	var id int64
	if err := q.QueryRow(ctx, query, status.String()).Scan(&id); err != nil {
		return 0, storeError(fmt.Sprintf("get status id %q", status), err)
	}
	return id, nil
}

// WorkerID ищет сотрудника пользователя userID по имени без учёта регистра.
// Если совпадений несколько, возвращается наименьший worker_id.
func (r *WorkerRepo) WorkerID(ctx context.Context, name string, userID int64) (id int64, err error) {
	defer r.done(opWorkerID, time.Now(), &err)

	telemetry.FromContext(ctx).Debug().
		Str("name", name).
		Int64("user_id", userID).
		Msg("get worker id")

	query := `
		SELECT worker_id
		FROM worker
		WHERE lower(name) = lower($1) AND user_id = $2
		ORDER BY worker_id
		LIMIT 1
	`
	if err := r.db.QueryRow(ctx, query, name, userID).Scan(&id); err != nil {
		return 0, storeError(fmt.Sprintf("get worker id %q", name), err)
	}
	return id, nil
}

package repo

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgtype"

	"github.com/shaiso/WorkerStore/internal/domain"
	"github.com/shaiso/WorkerStore/internal/telemetry"
)

// WorkerRepo — репозиторий сотрудников и связанных с ними строк
// coordinates, person, color, status и user_worker.
//
// Методы не хранят состояния между вызовами: каждый берёт соединение
// из DB и возвращает его по завершении.
type WorkerRepo struct {
	db      DB
	metrics *telemetry.RepoMetrics
}

// NewWorkerRepo создаёт новый WorkerRepo. metrics может быть nil.
func NewWorkerRepo(db DB, metrics *telemetry.RepoMetrics) *WorkerRepo {
	return &WorkerRepo{db: db, metrics: metrics}
}

// WorkerRow — скалярные поля строки worker со ссылками на уже
// созданные coordinates и person.
type WorkerRow struct {
	WorkerID      int64
	Name          string
	CoordinatesID int64
	Salary        int
	StartDate     time.Time
	EndDate       time.Time
	Status        domain.Status
	PersonID      int64
	UserID        int64
}

// rowFromWorker собирает WorkerRow из Worker и id новых строк.
func rowFromWorker(w *domain.Worker, coordinatesID, personID int64) WorkerRow {
	return WorkerRow{
		WorkerID:      w.ID,
		Name:          w.Name,
		CoordinatesID: coordinatesID,
		Salary:        w.Salary,
		StartDate:     w.StartDate,
		EndDate:       w.EndDate,
		Status:        w.Status,
		PersonID:      personID,
		UserID:        w.UserID,
	}
}

// Имена операций для метрик.
const (
	opInsertCoordinates = "insert_coordinates"
	opInsertPerson      = "insert_person"
	opInsertWorkerRow   = "insert_worker_row"
	opInsertWorker      = "insert_worker"
	opUpdateWorker      = "update_worker"
	opColorID           = "color_id"
	opStatusID          = "status_id"
	opWorkerID          = "worker_id"
	opDeleteByID        = "delete_by_id"
	opDeleteByUser      = "delete_by_user"
	opDeleteBySalaryMin = "delete_by_salary_min"
	opDeleteBySalaryMax = "delete_by_salary_max"
	opDeleteByEndDate   = "delete_by_end_date"
	opDeleteByStartDate = "delete_by_start_date"
	opGetWorker         = "get_worker"
	opListWorkers       = "list_workers"
	opListByUser        = "list_workers_by_user"
)

// done учитывает операцию в метриках. Вызывается через defer
// с указателем на именованную ошибку.
func (r *WorkerRepo) done(op string, start time.Time, errp *error) {
	r.metrics.Observe(op, string(Classify(*errp)), time.Since(start))
}

// --- Coordinates & Person ---

// InsertCoordinates создаёт строку coordinates и возвращает её id.
func (r *WorkerRepo) InsertCoordinates(ctx context.Context, x float32, y int) (id int64, err error) {
	defer r.done(opInsertCoordinates, time.Now(), &err)
	return r.insertCoordinates(ctx, r.db, x, y)
}

func (r *WorkerRepo) insertCoordinates(ctx context.Context, q querier, x float32, y int) (int64, error) {
	telemetry.FromContext(ctx).Debug().
		Float32("x", x).
		Int("y", y).
		Msg("insert coordinates")

	query := `
		INSERT INTO coordinates (x, y)
		VALUES ($1, $2)
		RETURNING id
	`
	var id int64
	if err := q.QueryRow(ctx, query, x, y).Scan(&id); err != nil {
		return 0, storeError("insert coordinates", err)
	}
	return id, nil
}

// InsertPerson создаёт строку person и возвращает её id.
// Цвет сначала разрешается в color.id; неизвестный цвет — ErrNotFound.
func (r *WorkerRepo) InsertPerson(ctx context.Context, height float32, weight int, color domain.Color) (id int64, err error) {
	defer r.done(opInsertPerson, time.Now(), &err)
	return r.insertPerson(ctx, r.db, height, weight, color)
}

func (r *WorkerRepo) insertPerson(ctx context.Context, q querier, height float32, weight int, color domain.Color) (int64, error) {
	telemetry.FromContext(ctx).Debug().
		Float32("height", height).
		Int("weight", weight).
		Stringer("color", color).
		Msg("insert person")

	colorID, err := r.colorID(ctx, q, color)
	if err != nil {
		return 0, fmt.Errorf("insert person: %w", err)
	}

	query := `
		INSERT INTO person (height, weight, color_id)
		VALUES ($1, $2, $3)
		RETURNING id
	`
	var id int64
	if err := q.QueryRow(ctx, query, height, weight, colorID).Scan(&id); err != nil {
		return 0, storeError("insert person", err)
	}
	return id, nil
}

// --- Worker ---

// InsertWorkerRow вставляет строку worker. Статус разрешается в status.id.
// worker_id задаёт вызывающая сторона, уникальность проверяет БД:
// повтор даёт ErrAlreadyExists.
func (r *WorkerRepo) InsertWorkerRow(ctx context.Context, row WorkerRow) (err error) {
	defer r.done(opInsertWorkerRow, time.Now(), &err)
	return r.insertWorkerRow(ctx, r.db, row)
}

func (r *WorkerRepo) insertWorkerRow(ctx context.Context, q querier, row WorkerRow) error {
	telemetry.FromContext(ctx).Debug().
		Int64("worker_id", row.WorkerID).
		Int64("user_id", row.UserID).
		Msg("insert worker")

	startDate, endDate, err := workerDates(row.StartDate, row.EndDate)
	if err != nil {
		return fmt.Errorf("insert worker: %w", err)
	}

	statusID, err := r.statusID(ctx, q, row.Status)
	if err != nil {
		return fmt.Errorf("insert worker: %w", err)
	}

	query := `
		INSERT INTO worker (worker_id, name, coordinates_id, salary, startdate, enddate,
			status_id, person_id, user_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err = q.Exec(ctx, query,
		row.WorkerID,
		row.Name,
		row.CoordinatesID,
		row.Salary,
		startDate,
		endDate,
		statusID,
		row.PersonID,
		row.UserID,
	)
	if err != nil {
		return storeError("insert worker", err)
	}
	return nil
}

// Insert сохраняет сотрудника: coordinates, затем person, затем worker.
//
// Операция не атомарна. Ошибка на любом шаге прерывает следующие,
// но строки, созданные предыдущими шагами, остаются в БД.
func (r *WorkerRepo) Insert(ctx context.Context, w *domain.Worker) (err error) {
	defer r.done(opInsertWorker, time.Now(), &err)

	// Даты проверяются до первой записи, чтобы не оставлять лишних строк.
	if _, _, err := workerDates(w.StartDate, w.EndDate); err != nil {
		return fmt.Errorf("insert worker %d: %w", w.ID, err)
	}

	coordinatesID, err := r.insertCoordinates(ctx, r.db, w.Coordinates.X, w.Coordinates.Y)
	if err != nil {
		return fmt.Errorf("insert worker %d: %w", w.ID, err)
	}

	personID, err := r.insertPerson(ctx, r.db, w.Person.Height, w.Person.Weight, w.Person.HairColor)
	if err != nil {
		return fmt.Errorf("insert worker %d: %w", w.ID, err)
	}

	if err := r.insertWorkerRow(ctx, r.db, rowFromWorker(w, coordinatesID, personID)); err != nil {
		return fmt.Errorf("insert worker %d: %w", w.ID, err)
	}

	w.Coordinates.ID = coordinatesID
	w.Person.ID = personID
	return nil
}

// Update заменяет сотрудника (worker_id, user_id) новой версией.
//
// Всё выполняется в одной транзакции: новые coordinates и person,
// удаление старой строки worker, вставка новой и удаление
// coordinates/person старой строки. При ошибке сотрудник остаётся прежним.
//
// Если сотрудник принадлежит другому пользователю, удалять нечего,
// а вставка завершится ErrAlreadyExists.
func (r *WorkerRepo) Update(ctx context.Context, w *domain.Worker) (err error) {
	defer r.done(opUpdateWorker, time.Now(), &err)

	if _, _, err := workerDates(w.StartDate, w.EndDate); err != nil {
		return fmt.Errorf("update worker %d: %w", w.ID, err)
	}

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return storeError("begin update worker", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	coordinatesID, err := r.insertCoordinates(ctx, tx, w.Coordinates.X, w.Coordinates.Y)
	if err != nil {
		return fmt.Errorf("update worker %d: %w", w.ID, err)
	}

	personID, err := r.insertPerson(ctx, tx, w.Person.Height, w.Person.Weight, w.Person.HairColor)
	if err != nil {
		return fmt.Errorf("update worker %d: %w", w.ID, err)
	}

	removed, err := deleteWorkers(ctx, tx, `worker_id = $1 AND user_id = $2`, w.ID, w.UserID)
	if err != nil {
		return fmt.Errorf("update worker %d: %w", w.ID, err)
	}

	if err := r.insertWorkerRow(ctx, tx, rowFromWorker(w, coordinatesID, personID)); err != nil {
		return fmt.Errorf("update worker %d: %w", w.ID, err)
	}

	if err := deleteOrphans(ctx, tx, removed); err != nil {
		return fmt.Errorf("update worker %d: %w", w.ID, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return storeError("commit update worker", err)
	}

	w.Coordinates.ID = coordinatesID
	w.Person.ID = personID

	telemetry.FromContext(ctx).Debug().
		Int64("worker_id", w.ID).
		Int64("user_id", w.UserID).
		Bool("replaced", len(removed.coordinateIDs) > 0).
		Msg("updated worker")
	return nil
}

// --- Dates ---

// workerDates переводит даты сотрудника в параметры типа date.
// Обе даты берутся в собственной зоне значения, без сдвига.
func workerDates(start, end time.Time) (pgtype.Date, pgtype.Date, error) {
	startDate, err := dateParam(start, nil)
	if err != nil {
		return pgtype.Date{}, pgtype.Date{}, fmt.Errorf("start date: %w", err)
	}
	endDate, err := dateParam(end, nil)
	if err != nil {
		return pgtype.Date{}, pgtype.Date{}, fmt.Errorf("end date: %w", err)
	}
	return startDate, endDate, nil
}

// dateParam возвращает календарную дату t в зоне loc (nil — зона t).
// Нулевое время не является датой и даёт ErrConversion.
func dateParam(t time.Time, loc *time.Location) (pgtype.Date, error) {
	if t.IsZero() {
		return pgtype.Date{}, fmt.Errorf("%w: zero date", ErrConversion)
	}
	return pgtype.Date{Time: domain.CalendarDate(t, loc), Valid: true}, nil
}

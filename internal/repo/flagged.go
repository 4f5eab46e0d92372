package repo

import (
	"context"
	"time"

	"github.com/shaiso/WorkerStore/internal/domain"
	"github.com/shaiso/WorkerStore/internal/telemetry"
)

// FlaggedRepo — обёртка над WorkerRepo для вызывающих, которым нужны
// флаги вместо ошибок: false, -1, nil или пустой набор.
//
// Каждая поглощённая ошибка пишется в лог на уровне debug вместе с
// категорией Outcome. Метрики при этом считает WorkerRepo.
type FlaggedRepo struct {
	repo *WorkerRepo
}

// NewFlaggedRepo создаёт FlaggedRepo поверх repo.
func NewFlaggedRepo(repo *WorkerRepo) *FlaggedRepo {
	return &FlaggedRepo{repo: repo}
}

// InsertCoordinates возвращает id новой строки или -1.
func (f *FlaggedRepo) InsertCoordinates(ctx context.Context, x float32, y int) int64 {
	id, err := f.repo.InsertCoordinates(ctx, x, y)
	if absorb(ctx, "insert coordinates", err) {
		return -1
	}
	return id
}

// InsertPerson возвращает id новой строки или -1.
func (f *FlaggedRepo) InsertPerson(ctx context.Context, height float32, weight int, color domain.Color) int64 {
	id, err := f.repo.InsertPerson(ctx, height, weight, color)
	if absorb(ctx, "insert person", err) {
		return -1
	}
	return id
}

// InsertWorkerRow сообщает, вставлена ли строка.
func (f *FlaggedRepo) InsertWorkerRow(ctx context.Context, row WorkerRow) bool {
	return !absorb(ctx, "insert worker row", f.repo.InsertWorkerRow(ctx, row))
}

// Insert сообщает, сохранён ли сотрудник.
func (f *FlaggedRepo) Insert(ctx context.Context, w *domain.Worker) bool {
	return !absorb(ctx, "insert worker", f.repo.Insert(ctx, w))
}

// Update сообщает, обновлён ли сотрудник.
func (f *FlaggedRepo) Update(ctx context.Context, w *domain.Worker) bool {
	return !absorb(ctx, "update worker", f.repo.Update(ctx, w))
}

// ColorID возвращает id цвета или nil.
func (f *FlaggedRepo) ColorID(ctx context.Context, color domain.Color) *int64 {
	id, err := f.repo.ColorID(ctx, color)
	if absorb(ctx, "get color id", err) {
		return nil
	}
	return &id
}

// StatusID возвращает id статуса или nil.
func (f *FlaggedRepo) StatusID(ctx context.Context, status domain.Status) *int64 {
	id, err := f.repo.StatusID(ctx, status)
	if absorb(ctx, "get status id", err) {
		return nil
	}
	return &id
}

// WorkerID возвращает worker_id по имени или nil.
func (f *FlaggedRepo) WorkerID(ctx context.Context, name string, userID int64) *int64 {
	id, err := f.repo.WorkerID(ctx, name, userID)
	if absorb(ctx, "get worker id", err) {
		return nil
	}
	return &id
}

// DeleteByID сообщает, выполнено ли удаление. Ноль строк — true.
func (f *FlaggedRepo) DeleteByID(ctx context.Context, workerID, userID int64) bool {
	_, err := f.repo.DeleteByID(ctx, workerID, userID)
	return !absorb(ctx, "delete worker by id", err)
}

// DeleteByUser сообщает, выполнено ли удаление.
func (f *FlaggedRepo) DeleteByUser(ctx context.Context, userID int64) bool {
	_, err := f.repo.DeleteByUser(ctx, userID)
	return !absorb(ctx, "delete workers by user", err)
}

// DeleteBySalaryAtLeast сообщает, выполнено ли удаление.
func (f *FlaggedRepo) DeleteBySalaryAtLeast(ctx context.Context, threshold int, userID int64) bool {
	_, err := f.repo.DeleteBySalaryAtLeast(ctx, threshold, userID)
	return !absorb(ctx, "delete workers by greater salary", err)
}

// DeleteBySalaryAtMost сообщает, выполнено ли удаление.
func (f *FlaggedRepo) DeleteBySalaryAtMost(ctx context.Context, threshold int, userID int64) bool {
	_, err := f.repo.DeleteBySalaryAtMost(ctx, threshold, userID)
	return !absorb(ctx, "delete workers by lower salary", err)
}

// DeleteByEndDate сообщает, выполнено ли удаление.
func (f *FlaggedRepo) DeleteByEndDate(ctx context.Context, endDate time.Time, userID int64) bool {
	_, err := f.repo.DeleteByEndDate(ctx, endDate, userID)
	return !absorb(ctx, "delete workers by end date", err)
}

// DeleteByStartDate сообщает, выполнено ли удаление.
func (f *FlaggedRepo) DeleteByStartDate(ctx context.Context, startDate time.Time, userID int64) bool {
	_, err := f.repo.DeleteByStartDate(ctx, startDate, userID)
	return !absorb(ctx, "delete workers by start date", err)
}

// List возвращает всех сотрудников или пустой набор при ошибке.
func (f *FlaggedRepo) List(ctx context.Context) *domain.WorkerSet {
	set, err := f.repo.List(ctx)
	if absorb(ctx, "list workers", err) {
		return domain.NewWorkerSet()
	}
	return set
}

// absorb пишет ошибку в лог и сообщает, была ли она.
func absorb(ctx context.Context, op string, err error) bool {
	if err == nil {
		return false
	}
	telemetry.FromContext(ctx).Debug().
		Err(err).
		Str("op", op).
		Str("outcome", string(Classify(err))).
		Msg("repository call failed")
	return true
}

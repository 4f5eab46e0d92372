package domain

import (
	"encoding/json"
	"slices"
	"sync"
)

// WorkerSet — потокобезопасное отображение worker_id → Worker.
//
// Возвращается массовым чтением. Порядок элементов не определён,
// IDs и MarshalJSON упорядочивают по worker_id.
type WorkerSet struct {
	mu      sync.RWMutex
	workers map[int64]*Worker
}

// NewWorkerSet создаёт пустой WorkerSet.
func NewWorkerSet() *WorkerSet {
	return &WorkerSet{workers: make(map[int64]*Worker)}
}

// Put добавляет или заменяет сотрудника по его ID.
func (s *WorkerSet) Put(w *Worker) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.workers[w.ID] = w
}

// Get возвращает сотрудника по ID.
func (s *WorkerSet) Get(id int64) (*Worker, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	w, ok := s.workers[id]
	return w, ok
}

// Delete удаляет сотрудника по ID.
func (s *WorkerSet) Delete(id int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.workers, id)
}

// Len возвращает количество сотрудников.
func (s *WorkerSet) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.workers)
}

// IDs возвращает отсортированный список worker_id.
func (s *WorkerSet) IDs() []int64 {
	s.mu.RLock()
	ids := make([]int64, 0, len(s.workers))
	for id := range s.workers {
		ids = append(ids, id)
	}
	s.mu.RUnlock()

	slices.Sort(ids)
	return ids
}

// Snapshot возвращает копию отображения.
func (s *WorkerSet) Snapshot() map[int64]*Worker {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[int64]*Worker, len(s.workers))
	for id, w := range s.workers {
		out[id] = w
	}
	return out
}

// Range вызывает fn для каждого сотрудника, пока fn возвращает true.
// Итерация идёт по снимку, поэтому fn может изменять набор.
func (s *WorkerSet) Range(fn func(w *Worker) bool) {
	for _, w := range s.Snapshot() {
		if !fn(w) {
			return
		}
	}
}

// Sorted возвращает сотрудников, упорядоченных по worker_id.
func (s *WorkerSet) Sorted() []*Worker {
	snapshot := s.Snapshot()
	out := make([]*Worker, 0, len(snapshot))
	for _, id := range s.IDs() {
		if w, ok := snapshot[id]; ok {
			out = append(out, w)
		}
	}
	return out
}

// MarshalJSON кодирует набор как массив, упорядоченный по worker_id.
func (s *WorkerSet) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Sorted())
}

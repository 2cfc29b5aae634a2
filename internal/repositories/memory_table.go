package repositories

import (
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// row is a stored record plus its insertion sequence, used to break ordering ties.
type row[T any] struct {
	seq    uint64
	record T
}

// memoryTable is the shared in-memory storage behind every Memory*Repository.
type memoryTable[T any] struct {
	mu   sync.RWMutex
	rows map[string]row[T]
	seq  uint64
	now  func() time.Time

	id      func(*T) *string
	stamp   func(r *T, created, updated time.Time)
	created func(T) time.Time
	clone   func(T) T
	// conflict reports a uniqueness violation between a stored record and a candidate.
	conflict func(stored, candidate T) error
}

func newMemoryTable[T any](id func(*T) *string, stamp func(*T, time.Time, time.Time), created func(T) time.Time, clone func(T) T) *memoryTable[T] {
	return &memoryTable[T]{
		rows:    make(map[string]row[T]),
		now:     time.Now,
		id:      id,
		stamp:   stamp,
		created: created,
		clone:   clone,
	}
}

func (t *memoryTable[T]) all(less func(a, b T) bool) []T {
	t.mu.RLock()
	defer t.mu.RUnlock()

	rows := make([]row[T], 0, len(t.rows))
	for _, r := range t.rows {
		rows = append(rows, r)
	}
	sort.Slice(rows, func(i, j int) bool {
		a, b := rows[i].record, rows[j].record
		if less(a, b) {
			return true
		}
		if less(b, a) {
			return false
		}
		return rows[i].seq > rows[j].seq
	})

	out := make([]T, 0, len(rows))
	for _, r := range rows {
		out = append(out, t.clone(r.record))
	}
	return out
}

func (t *memoryTable[T]) get(id string) (T, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	r, ok := t.rows[id]
	if !ok {
		var zero T
		return zero, false
	}
	return t.clone(r.record), true
}

func (t *memoryTable[T]) find(match func(T) bool) (T, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	for _, r := range t.rows {
		if match(r.record) {
			return t.clone(r.record), true
		}
	}
	var zero T
	return zero, false
}

func (t *memoryTable[T]) checkConflicts(candidate T, skipID string) error {
	if t.conflict == nil {
		return nil
	}
	for id, r := range t.rows {
		if id == skipID {
			continue
		}
		if err := t.conflict(r.record, candidate); err != nil {
			return err
		}
	}
	return nil
}

func (t *memoryTable[T]) insert(record *T) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	id := t.id(record)
	if *id == "" {
		*id = uuid.New().String()
	}
	if _, exists := t.rows[*id]; exists {
		return errors.New("duplicate key value violates unique constraint on id")
	}
	if err := t.checkConflicts(*record, *id); err != nil {
		return err
	}

	now := t.now()
	created := t.created(*record)
	if created.IsZero() {
		created = now
	}
	t.stamp(record, created, now)

	t.seq++
	t.rows[*id] = row[T]{seq: t.seq, record: t.clone(*record)}
	return nil
}

// replace overwrites every field but the creation time. It reports false when the id is unknown.
func (t *memoryTable[T]) replace(record *T) (bool, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	id := *t.id(record)
	existing, ok := t.rows[id]
	if !ok {
		return false, nil
	}
	if err := t.checkConflicts(*record, id); err != nil {
		return true, err
	}

	t.stamp(record, t.created(existing.record), t.now())
	t.rows[id] = row[T]{seq: existing.seq, record: t.clone(*record)}
	return true, nil
}

func (t *memoryTable[T]) remove(id string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if _, ok := t.rows[id]; !ok {
		return false
	}
	delete(t.rows, id)
	return true
}

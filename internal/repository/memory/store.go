// Package memory keeps every repository in process memory. It backs the service tests
// and the APP_STORAGE=memory mode used for local runs without Postgres.
package memory

import (
	"context"
	"maps"
	"sync"
	"time"

	"github.com/cmlabs-hris/attendance-engine/internal/domain/absence"
	"github.com/cmlabs-hris/attendance-engine/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-engine/internal/domain/employee"
	"github.com/cmlabs-hris/attendance-engine/internal/domain/extrahours"
	"github.com/cmlabs-hris/attendance-engine/internal/domain/schedule"
	"github.com/cmlabs-hris/attendance-engine/internal/domain/validation"
	"github.com/cmlabs-hris/attendance-engine/internal/pkg/database"
)

type tables struct {
	employees  map[string]employee.Employee
	schedules  map[string]schedule.Schedule
	workCycles map[string]schedule.WorkCycle
	entries    map[string]attendance.TimeEntry
	absences   map[string]absence.Absence
	extraHours map[string]extrahours.Record
	reports    map[string]validation.Report
}

func (t tables) clone() tables {
	return tables{
		employees:  maps.Clone(t.employees),
		schedules:  maps.Clone(t.schedules),
		workCycles: maps.Clone(t.workCycles),
		entries:    maps.Clone(t.entries),
		absences:   maps.Clone(t.absences),
		extraHours: maps.Clone(t.extraHours),
		reports:    maps.Clone(t.reports),
	}
}

// Store holds all tables behind one lock. A transaction holds the write lock until it
// commits or rolls back, so writers outside it wait instead of being lost on rollback.
type Store struct {
	mu sync.RWMutex
	t  tables
}

func NewStore() *Store {
	return &Store{t: tables{
		employees:  make(map[string]employee.Employee),
		schedules:  make(map[string]schedule.Schedule),
		workCycles: make(map[string]schedule.WorkCycle),
		entries:    make(map[string]attendance.TimeEntry),
		absences:   make(map[string]absence.Absence),
		extraHours: make(map[string]extrahours.Record),
		reports:    make(map[string]validation.Report),
	}}
}

type txKey struct{}

// inTx reports whether ctx runs inside a transaction of this store, which already owns mu.
func (s *Store) inTx(ctx context.Context) bool {
	owner, _ := ctx.Value(txKey{}).(*Store)
	return owner == s
}

func (s *Store) lock(ctx context.Context) (unlock func()) {
	if s.inTx(ctx) {
		return func() {}
	}
	s.mu.Lock()
	return s.mu.Unlock
}

func (s *Store) rlock(ctx context.Context) (unlock func()) {
	if s.inTx(ctx) {
		return func() {}
	}
	s.mu.RLock()
	return s.mu.RUnlock
}

type transactor struct {
	s *Store
}

func (s *Store) Transactor() database.Transactor {
	return &transactor{s: s}
}

// WithinTx restores the tables to their state before fn when fn fails. Repository calls
// made with the ctx handed to fn run under the transaction's lock; calls made with any
// other ctx block until the transaction ends.
func (tx *transactor) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if tx.s.inTx(ctx) {
		return fn(ctx)
	}

	tx.s.mu.Lock()
	defer tx.s.mu.Unlock()

	snapshot := tx.s.t.clone()
	if err := fn(context.WithValue(ctx, txKey{}, tx.s)); err != nil {
		tx.s.t = snapshot
		return err
	}
	return nil
}

// PutEmployee seeds an employee. The engine never creates employees itself.
func (s *Store) PutEmployee(e employee.Employee) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.t.employees[e.ID] = e
}

func paginate[T any](items []T, page, limit int) []T {
	if limit <= 0 {
		return items
	}
	if page < 1 {
		page = 1
	}
	start := (page - 1) * limit
	if start >= len(items) {
		return []T{}
	}
	end := min(start+limit, len(items))
	return items[start:end]
}

func inRange(day, start, end time.Time) bool {
	return !day.Before(start) && !day.After(end)
}

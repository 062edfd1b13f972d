// Package scheduler runs named one-shot tasks after a delay.
//
// Tasks live only in memory: a restart drops every pending task. Callers that
// need the effect to survive restarts pair a task with a startup sweep (see
// uploads.Store.Sweep).
package scheduler

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/PancyStudios/PancyModGo/pkg/errors"
	"github.com/PancyStudios/PancyModGo/pkg/logger"
	"github.com/google/uuid"
)

// Task is a pending one-shot task
type Task struct {
	ID    string
	Name  string
	DueAt time.Time
	timer *time.Timer
}

// Scheduler tracks pending tasks. It is safe for concurrent use.
type Scheduler struct {
	mu     sync.Mutex
	tasks  map[string]*Task
	closed bool
	now    func() time.Time
}

// New creates an empty Scheduler
func New() *Scheduler {
	return &Scheduler{
		tasks: make(map[string]*Task),
		now:   time.Now,
	}
}

// After schedules fn to run once after d and returns the task id.
// A panic inside fn is recovered and logged.
func (s *Scheduler) After(name string, d time.Duration, fn func()) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return "", fmt.Errorf("scheduler stopped, cannot schedule %q", name)
	}

	task := &Task{
		ID:    uuid.New().String(),
		Name:  name,
		DueAt: s.now().Add(d),
	}
	task.timer = time.AfterFunc(d, func() {
		s.mu.Lock()
		_, pending := s.tasks[task.ID]
		delete(s.tasks, task.ID)
		s.mu.Unlock()

		if !pending {
			return
		}

		defer errors.RecoverMiddleware()()
		fn()
		logger.Debug(fmt.Sprintf("Tarea ejecutada: %s", task.Name), "Scheduler")
	})
	s.tasks[task.ID] = task

	logger.Debug(fmt.Sprintf("Tarea programada: %s para %s", name, task.DueAt.Format(time.RFC3339)), "Scheduler")
	return task.ID, nil
}

// Cancel stops a pending task. It reports whether the task was still pending.
func (s *Scheduler) Cancel(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	task, ok := s.tasks[id]
	if !ok {
		return false
	}
	task.timer.Stop()
	delete(s.tasks, id)
	return true
}

// Pending returns the pending tasks ordered by due time
func (s *Scheduler) Pending() []Task {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Task, 0, len(s.tasks))
	for _, t := range s.tasks {
		out = append(out, Task{ID: t.ID, Name: t.Name, DueAt: t.DueAt})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DueAt.Before(out[j].DueAt) })
	return out
}

// Len returns the number of pending tasks
func (s *Scheduler) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.tasks)
}

// Stop cancels every pending task and rejects new ones
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, t := range s.tasks {
		t.timer.Stop()
		delete(s.tasks, id)
	}
	s.closed = true
}

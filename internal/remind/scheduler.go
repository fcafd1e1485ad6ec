// Package remind classifies reminder requests, extracts target times from
// natural language, and runs one-shot delivery jobs.
package remind

import (
	"fmt"
	"sync"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/rs/zerolog"
)

// DeliverFunc sends reminder text to a delivery target. Supplied by the
// messaging layer; a returned error counts as delivery failure and is not
// retried.
type DeliverFunc func(destination, content string) error

// Task is a pending one-shot reminder. Tasks live only until they fire or
// are cancelled.
type Task struct {
	ID          int64
	FireAt      time.Time
	OwnerID     string
	Destination string
	Body        string
	SourceText  string
}

type entry struct {
	task    Task
	job     gocron.Job
	deliver DeliverFunc
}

// Scheduler owns the pending task collection. Each task is an independent
// one-time job; the job runner invokes fire on its own goroutine, so all
// map access is serialized through the mutex.
type Scheduler struct {
	mu     sync.Mutex
	sched  gocron.Scheduler
	tasks  map[int64]*entry
	order  []int64 // insertion order for listing
	nextID int64
	log    zerolog.Logger
}

func NewScheduler(log zerolog.Logger) (*Scheduler, error) {
	sched, err := gocron.NewScheduler(gocron.WithLocation(time.Local))
	if err != nil {
		return nil, fmt.Errorf("creating job scheduler: %w", err)
	}
	return &Scheduler{
		sched: sched,
		tasks: make(map[int64]*entry),
		log:   log,
	}, nil
}

func (s *Scheduler) Start() {
	s.sched.Start()
	s.log.Info().Msg("reminder scheduler started")
}

func (s *Scheduler) Stop() error {
	return s.sched.Shutdown()
}

// Schedule registers a one-shot reminder. The caller guarantees fireAt is
// in the future; it is not re-validated here. Returns the task ID
// immediately, never blocking on the eventual firing.
func (s *Scheduler) Schedule(fireAt time.Time, destination, ownerID, body string, deliver DeliverFunc, sourceText string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	id := s.nextID

	job, err := s.sched.NewJob(
		gocron.OneTimeJob(gocron.OneTimeJobStartDateTime(fireAt)),
		gocron.NewTask(func() { s.fire(id) }),
		gocron.WithName(fmt.Sprintf("reminder-%d", id)),
	)
	if err != nil {
		s.nextID--
		return 0, fmt.Errorf("registering reminder job: %w", err)
	}

	s.tasks[id] = &entry{
		task: Task{
			ID:          id,
			FireAt:      fireAt,
			OwnerID:     ownerID,
			Destination: destination,
			Body:        body,
			SourceText:  sourceText,
		},
		job:     job,
		deliver: deliver,
	}
	s.order = append(s.order, id)

	s.log.Info().
		Int64("task", id).
		Str("owner", ownerID).
		Time("fire_at", fireAt).
		Msg("reminder scheduled")
	return id, nil
}

// fire runs on the job runner's goroutine. The task is removed from the
// live collection before the callback is invoked, so a cancel racing this
// fire resolves to exactly one winner.
func (s *Scheduler) fire(id int64) {
	s.mu.Lock()
	e, ok := s.tasks[id]
	if !ok {
		// Cancelled between trigger and lock acquisition.
		s.mu.Unlock()
		return
	}
	s.remove(id)
	s.mu.Unlock()

	content := formatReminder(e.task)
	if err := e.deliver(e.task.Destination, content); err != nil {
		s.log.Error().Err(err).
			Int64("task", id).
			Str("destination", e.task.Destination).
			Msg("reminder delivery failed")
		return
	}
	s.log.Info().Int64("task", id).Msg("reminder delivered")
}

func formatReminder(t Task) string {
	content := fmt.Sprintf("⏰ **Reminder** <@%s>\n\n%s", t.OwnerID, t.Body)
	if t.SourceText != "" {
		content += fmt.Sprintf("\n\n_You asked: %q_", t.SourceText)
	}
	return content
}

// Cancel removes a pending task before it fires. Returns false when the
// task is unknown, already fired, or already cancelled.
func (s *Scheduler) Cancel(id int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.tasks[id]
	if !ok {
		return false
	}
	if err := s.sched.RemoveJob(e.job.ID()); err != nil {
		s.log.Warn().Err(err).Int64("task", id).Msg("removing reminder job")
	}
	s.remove(id)
	s.log.Info().Int64("task", id).Msg("reminder cancelled")
	return true
}

// remove deletes a task from the map and order slice. Callers hold the lock.
func (s *Scheduler) remove(id int64) {
	delete(s.tasks, id)
	for i, oid := range s.order {
		if oid == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
}

// ListForOwner returns pending tasks for one owner in insertion order.
func (s *Scheduler) ListForOwner(ownerID string) []Task {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []Task
	for _, id := range s.order {
		if e, ok := s.tasks[id]; ok && e.task.OwnerID == ownerID {
			out = append(out, e.task)
		}
	}
	return out
}

// ListAll returns every pending task in insertion order.
func (s *Scheduler) ListAll() []Task {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Task, 0, len(s.order))
	for _, id := range s.order {
		if e, ok := s.tasks[id]; ok {
			out = append(out, e.task)
		}
	}
	return out
}

// Count returns the number of pending tasks.
func (s *Scheduler) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.tasks)
}

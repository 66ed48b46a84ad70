package a2a

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Store is the in-memory task registry behind message/send and the tasks
// endpoints. Every read hands out a snapshot; after submission only the
// executor goroutine and the cancel endpoint write.
type Store struct {
	mu    sync.RWMutex
	tasks map[string]*Task
}

func NewStore() *Store {
	return &Store{tasks: make(map[string]*Task)}
}

// Create registers a new submitted task holding the opening message.
func (s *Store) Create(msg Message) Task {
	now := time.Now().UTC()
	t := &Task{
		ID:       uuid.New().String(),
		Messages: []Message{msg},
		Status:   TaskStatus{State: TaskSubmitted, CreatedAt: now, UpdatedAt: now},
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tasks[t.ID] = t
	return snapshot(t)
}

// Get returns a snapshot of the task, if it exists.
func (s *Store) Get(id string) (Task, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.tasks[id]
	if !ok {
		return Task{}, false
	}
	return snapshot(t), true
}

// SetState advances a task. Terminal states are final: the call is a no-op
// on them and returns the unchanged snapshot.
func (s *Store) SetState(id string, state TaskState, reason string) (Task, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.tasks[id]
	if !ok {
		return Task{}, false
	}
	if !t.Status.State.Terminal() {
		t.Status.State = state
		t.Status.Reason = reason
		t.Status.UpdatedAt = time.Now().UTC()
	}
	return snapshot(t), true
}

// Complete finishes a task with its output artifact unless it already
// reached a terminal state (a cancel that won the race sticks).
func (s *Store) Complete(id string, art Artifact) (Task, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.tasks[id]
	if !ok {
		return Task{}, false
	}
	if !t.Status.State.Terminal() {
		t.Artifacts = append(t.Artifacts, art)
		t.Status.State = TaskCompleted
		t.Status.Reason = ""
		t.Status.UpdatedAt = time.Now().UTC()
	}
	return snapshot(t), true
}

func snapshot(t *Task) Task {
	out := *t
	out.Messages = append([]Message(nil), t.Messages...)
	out.Artifacts = append([]Artifact(nil), t.Artifacts...)
	return out
}

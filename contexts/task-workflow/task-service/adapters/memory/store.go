package memory

import (
	"context"
	"strings"
	"sync"
	"time"

	"taskhive/contexts/task-workflow/task-service/domain/entities"
	domainerrors "taskhive/contexts/task-workflow/task-service/domain/errors"
	"taskhive/contexts/task-workflow/task-service/ports"

	"github.com/google/uuid"
)

// Store keeps tasks in insertion order so unsorted listings preserve
// storage order the way a database scan would.
type Store struct {
	mu sync.RWMutex

	tasks map[string]entities.Task
	order []string
}

func NewStore(seed []entities.Task) *Store {
	tasks := make(map[string]entities.Task, len(seed))
	order := make([]string, 0, len(seed))
	for _, item := range seed {
		tasks[item.TaskID] = item
		order = append(order, item.TaskID)
	}
	return &Store{tasks: tasks, order: order}
}

func (s *Store) CreateTask(_ context.Context, task entities.Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.tasks[task.TaskID]; !exists {
		s.order = append(s.order, task.TaskID)
	}
	s.tasks[task.TaskID] = task
	return nil
}

func (s *Store) UpdateTask(_ context.Context, task entities.Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.tasks[task.TaskID]; !exists {
		return domainerrors.ErrTaskNotFound
	}
	s.tasks[task.TaskID] = task
	return nil
}

func (s *Store) GetTask(_ context.Context, taskID string) (entities.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	item, exists := s.tasks[strings.TrimSpace(taskID)]
	if !exists {
		return entities.Task{}, domainerrors.ErrTaskNotFound
	}
	return item, nil
}

func (s *Store) ListTasks(_ context.Context, filter ports.TaskFilter) ([]entities.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := make([]entities.Task, 0, len(s.order))
	for _, taskID := range s.order {
		item, exists := s.tasks[taskID]
		if !exists {
			continue
		}
		if strings.TrimSpace(filter.AssignedUserID) != "" && item.AssignedUserID != strings.TrimSpace(filter.AssignedUserID) {
			continue
		}
		if filter.Status != "" && item.Status != filter.Status {
			continue
		}
		items = append(items, item)
	}
	return items, nil
}

func (s *Store) DeleteTask(_ context.Context, taskID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	taskID = strings.TrimSpace(taskID)
	if _, exists := s.tasks[taskID]; !exists {
		return nil
	}
	delete(s.tasks, taskID)
	for i, id := range s.order {
		if id == taskID {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return nil
}

func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.tasks)
}

func (s *Store) Now() time.Time {
	return time.Now().UTC()
}

func (s *Store) NewID(_ context.Context) (string, error) {
	return uuid.NewString(), nil
}

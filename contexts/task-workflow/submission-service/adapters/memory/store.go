package memory

import (
	"context"
	"strings"
	"sync"
	"time"

	"taskhive/contexts/task-workflow/submission-service/domain/entities"
	domainerrors "taskhive/contexts/task-workflow/submission-service/domain/errors"
	"taskhive/contexts/task-workflow/submission-service/ports"

	"github.com/google/uuid"
)

// Store keeps submissions in insertion order so listings preserve storage
// order the way a database scan would.
type Store struct {
	mu sync.RWMutex

	submissions map[string]entities.Submission
	order       []string
}

func NewStore(seed []entities.Submission) *Store {
	submissions := make(map[string]entities.Submission, len(seed))
	order := make([]string, 0, len(seed))
	for _, item := range seed {
		submissions[item.SubmissionID] = item
		order = append(order, item.SubmissionID)
	}
	return &Store{submissions: submissions, order: order}
}

func (s *Store) CreateSubmission(_ context.Context, submission entities.Submission) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.submissions[submission.SubmissionID]; !exists {
		s.order = append(s.order, submission.SubmissionID)
	}
	s.submissions[submission.SubmissionID] = submission
	return nil
}

func (s *Store) UpdateSubmission(_ context.Context, submission entities.Submission) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.submissions[submission.SubmissionID]; !exists {
		return domainerrors.ErrSubmissionNotFound
	}
	s.submissions[submission.SubmissionID] = submission
	return nil
}

func (s *Store) GetSubmission(_ context.Context, submissionID string) (entities.Submission, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	item, exists := s.submissions[strings.TrimSpace(submissionID)]
	if !exists {
		return entities.Submission{}, domainerrors.ErrSubmissionNotFound
	}
	return item, nil
}

func (s *Store) ListSubmissions(_ context.Context, filter ports.SubmissionFilter) ([]entities.Submission, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := make([]entities.Submission, 0, len(s.order))
	for _, submissionID := range s.order {
		item, exists := s.submissions[submissionID]
		if !exists {
			continue
		}
		if strings.TrimSpace(filter.TaskID) != "" && item.TaskID != strings.TrimSpace(filter.TaskID) {
			continue
		}
		if strings.TrimSpace(filter.UserID) != "" && item.UserID != strings.TrimSpace(filter.UserID) {
			continue
		}
		items = append(items, item)
	}
	return items, nil
}

func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.submissions)
}

func (s *Store) Now() time.Time {
	return time.Now().UTC()
}

func (s *Store) NewID(_ context.Context) (string, error) {
	return uuid.NewString(), nil
}

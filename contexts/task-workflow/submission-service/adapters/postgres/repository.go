package postgresadapter

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"taskhive/contexts/task-workflow/submission-service/domain/entities"
	domainerrors "taskhive/contexts/task-workflow/submission-service/domain/errors"
	"taskhive/contexts/task-workflow/submission-service/ports"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

type Repository struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewRepository(db *gorm.DB, logger *slog.Logger) *Repository {
	if logger == nil {
		logger = slog.Default()
	}
	return &Repository{db: db, logger: logger}
}

func (r *Repository) CreateSubmission(ctx context.Context, submission entities.Submission) error {
	row := submissionModelFromEntity(submission)
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		if isUniqueViolation(err) {
			return domainerrors.ErrInvalidSubmissionInput
		}
		return err
	}
	return nil
}

func (r *Repository) UpdateSubmission(ctx context.Context, submission entities.Submission) error {
	row := submissionModelFromEntity(submission)
	result := r.db.WithContext(ctx).
		Model(&submissionModel{}).
		Where("submission_id = ?", row.SubmissionID).
		Updates(map[string]any{
			"task_id":     row.TaskID,
			"github_link": row.GithubLink,
			"status":      row.Status,
			"user_id":     row.UserID,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrSubmissionNotFound
	}
	return nil
}

func (r *Repository) GetSubmission(ctx context.Context, submissionID string) (entities.Submission, error) {
	var row submissionModel
	err := r.db.WithContext(ctx).
		Where("submission_id = ?", strings.TrimSpace(submissionID)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Submission{}, domainerrors.ErrSubmissionNotFound
		}
		return entities.Submission{}, err
	}
	return row.toEntity(), nil
}

func (r *Repository) ListSubmissions(ctx context.Context, filter ports.SubmissionFilter) ([]entities.Submission, error) {
	tx := r.db.WithContext(ctx).Model(&submissionModel{})
	if strings.TrimSpace(filter.TaskID) != "" {
		tx = tx.Where("task_id = ?", strings.TrimSpace(filter.TaskID))
	}
	if strings.TrimSpace(filter.UserID) != "" {
		tx = tx.Where("user_id = ?", strings.TrimSpace(filter.UserID))
	}

	var rows []submissionModel
	if err := tx.Order("submission_time ASC").Find(&rows).Error; err != nil {
		return nil, err
	}

	items := make([]entities.Submission, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toEntity())
	}
	return items, nil
}

type submissionModel struct {
	SubmissionID   string    `gorm:"column:submission_id;primaryKey"`
	TaskID         string    `gorm:"column:task_id"`
	GithubLink     string    `gorm:"column:github_link"`
	Status         string    `gorm:"column:status"`
	UserID         string    `gorm:"column:user_id"`
	SubmissionTime time.Time `gorm:"column:submission_time"`
}

func (submissionModel) TableName() string {
	return "submissions"
}

func submissionModelFromEntity(item entities.Submission) submissionModel {
	submittedAt := item.SubmissionTime.UTC()
	if submittedAt.IsZero() {
		submittedAt = time.Now().UTC()
	}
	return submissionModel{
		SubmissionID:   strings.TrimSpace(item.SubmissionID),
		TaskID:         strings.TrimSpace(item.TaskID),
		GithubLink:     strings.TrimSpace(item.GithubLink),
		Status:         string(item.Status),
		UserID:         strings.TrimSpace(item.UserID),
		SubmissionTime: submittedAt,
	}
}

func (m submissionModel) toEntity() entities.Submission {
	return entities.Submission{
		SubmissionID:   m.SubmissionID,
		TaskID:         m.TaskID,
		GithubLink:     m.GithubLink,
		Status:         entities.SubmissionStatus(m.Status),
		UserID:         m.UserID,
		SubmissionTime: m.SubmissionTime,
	}
}

type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now().UTC() }

type UUIDGenerator struct{}

func (UUIDGenerator) NewID(_ context.Context) (string, error) {
	return uuid.NewString(), nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

package postgresadapter

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"time"

	"taskhive/contexts/task-workflow/task-service/domain/entities"
	domainerrors "taskhive/contexts/task-workflow/task-service/domain/errors"
	"taskhive/contexts/task-workflow/task-service/ports"

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

func (r *Repository) CreateTask(ctx context.Context, task entities.Task) error {
	row, err := taskModelFromEntity(task)
	if err != nil {
		return err
	}
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		if isUniqueViolation(err) {
			return domainerrors.ErrInvalidTaskInput
		}
		return err
	}
	return nil
}

func (r *Repository) UpdateTask(ctx context.Context, task entities.Task) error {
	row, err := taskModelFromEntity(task)
	if err != nil {
		return err
	}
	result := r.db.WithContext(ctx).
		Model(&taskModel{}).
		Where("task_id = ?", row.TaskID).
		Updates(map[string]any{
			"title":            row.Title,
			"description":      row.Description,
			"image_url":        row.ImageURL,
			"assigned_user_id": row.AssignedUserID,
			"status":           row.Status,
			"deadline":         row.Deadline,
			"tags":             row.Tags,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrTaskNotFound
	}
	return nil
}

func (r *Repository) GetTask(ctx context.Context, taskID string) (entities.Task, error) {
	var row taskModel
	err := r.db.WithContext(ctx).
		Where("task_id = ?", strings.TrimSpace(taskID)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Task{}, domainerrors.ErrTaskNotFound
		}
		return entities.Task{}, err
	}
	return row.toEntity()
}

func (r *Repository) ListTasks(ctx context.Context, filter ports.TaskFilter) ([]entities.Task, error) {
	tx := r.db.WithContext(ctx).Model(&taskModel{})
	if strings.TrimSpace(filter.AssignedUserID) != "" {
		tx = tx.Where("assigned_user_id = ?", strings.TrimSpace(filter.AssignedUserID))
	}
	if filter.Status != "" {
		tx = tx.Where("status = ?", string(filter.Status))
	}

	var rows []taskModel
	if err := tx.Order("created_at ASC").Find(&rows).Error; err != nil {
		return nil, err
	}

	items := make([]entities.Task, 0, len(rows))
	for _, row := range rows {
		item, err := row.toEntity()
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}

func (r *Repository) DeleteTask(ctx context.Context, taskID string) error {
	// RowsAffected is deliberately ignored: deleting an absent id succeeds.
	return r.db.WithContext(ctx).
		Where("task_id = ?", strings.TrimSpace(taskID)).
		Delete(&taskModel{}).
		Error
}

type taskModel struct {
	TaskID         string     `gorm:"column:task_id;primaryKey"`
	Title          string     `gorm:"column:title"`
	Description    string     `gorm:"column:description"`
	ImageURL       string     `gorm:"column:image_url"`
	AssignedUserID string     `gorm:"column:assigned_user_id"`
	Status         string     `gorm:"column:status"`
	Deadline       *time.Time `gorm:"column:deadline"`
	CreatedAt      time.Time  `gorm:"column:created_at"`
	Tags           []byte     `gorm:"column:tags;type:jsonb"`
}

func (taskModel) TableName() string {
	return "tasks"
}

func taskModelFromEntity(item entities.Task) (taskModel, error) {
	tags, err := json.Marshal(append([]string(nil), item.Tags...))
	if err != nil {
		return taskModel{}, err
	}
	createdAt := item.CreatedAt.UTC()
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}
	return taskModel{
		TaskID:         strings.TrimSpace(item.TaskID),
		Title:          strings.TrimSpace(item.Title),
		Description:    strings.TrimSpace(item.Description),
		ImageURL:       strings.TrimSpace(item.ImageURL),
		AssignedUserID: strings.TrimSpace(item.AssignedUserID),
		Status:         string(item.Status),
		Deadline:       normalizeOptionalTime(item.Deadline),
		CreatedAt:      createdAt,
		Tags:           tags,
	}, nil
}

func (m taskModel) toEntity() (entities.Task, error) {
	var tags []string
	if len(m.Tags) > 0 {
		if err := json.Unmarshal(m.Tags, &tags); err != nil {
			return entities.Task{}, err
		}
	}
	return entities.Task{
		TaskID:         m.TaskID,
		Title:          m.Title,
		Description:    m.Description,
		ImageURL:       m.ImageURL,
		AssignedUserID: m.AssignedUserID,
		Status:         entities.TaskStatus(m.Status),
		Deadline:       m.Deadline,
		CreatedAt:      m.CreatedAt,
		Tags:           tags,
	}, nil
}

func normalizeOptionalTime(value *time.Time) *time.Time {
	if value == nil {
		return nil
	}
	normalized := value.UTC()
	return &normalized
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

package postgresadapter

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"time"

	"taskhive/contexts/identity-access/user-service/domain/entities"
	domainerrors "taskhive/contexts/identity-access/user-service/domain/errors"
	"taskhive/internal/shared/token"

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

func (r *Repository) CreateUser(ctx context.Context, user entities.User) error {
	row, err := userModelFromEntity(user)
	if err != nil {
		return err
	}
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		if isUniqueViolation(err) {
			return domainerrors.ErrEmailTaken
		}
		return err
	}
	return nil
}

func (r *Repository) GetUserByEmail(ctx context.Context, email string) (entities.User, error) {
	var row userModel
	err := r.db.WithContext(ctx).
		Where("email = ?", strings.TrimSpace(email)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.User{}, domainerrors.ErrUserNotFound
		}
		return entities.User{}, err
	}
	return row.toEntity()
}

func (r *Repository) GetUserByID(ctx context.Context, userID string) (entities.User, error) {
	var row userModel
	err := r.db.WithContext(ctx).
		Where("user_id = ?", strings.TrimSpace(userID)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.User{}, domainerrors.ErrUserNotFound
		}
		return entities.User{}, err
	}
	return row.toEntity()
}

func (r *Repository) ListUsers(ctx context.Context) ([]entities.User, error) {
	var rows []userModel
	if err := r.db.WithContext(ctx).Order("created_at ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	items := make([]entities.User, 0, len(rows))
	for _, row := range rows {
		item, err := row.toEntity()
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}

type userModel struct {
	UserID         string    `gorm:"column:user_id;primaryKey"`
	FullName       string    `gorm:"column:full_name"`
	Email          string    `gorm:"column:email;uniqueIndex"`
	PasswordHash   string    `gorm:"column:password_hash"`
	Role           string    `gorm:"column:role"`
	Mobile         string    `gorm:"column:mobile"`
	CompletedTasks []byte    `gorm:"column:completed_tasks;type:jsonb"`
	CreatedAt      time.Time `gorm:"column:created_at"`
}

func (userModel) TableName() string {
	return "users"
}

func userModelFromEntity(item entities.User) (userModel, error) {
	completed, err := json.Marshal(append([]string(nil), item.CompletedTasks...))
	if err != nil {
		return userModel{}, err
	}
	createdAt := item.CreatedAt.UTC()
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}
	return userModel{
		UserID:         strings.TrimSpace(item.UserID),
		FullName:       strings.TrimSpace(item.FullName),
		Email:          strings.TrimSpace(item.Email),
		PasswordHash:   item.PasswordHash,
		Role:           string(item.Role),
		Mobile:         strings.TrimSpace(item.Mobile),
		CompletedTasks: completed,
		CreatedAt:      createdAt,
	}, nil
}

func (m userModel) toEntity() (entities.User, error) {
	var completed []string
	if len(m.CompletedTasks) > 0 {
		if err := json.Unmarshal(m.CompletedTasks, &completed); err != nil {
			return entities.User{}, err
		}
	}
	return entities.User{
		UserID:         m.UserID,
		FullName:       m.FullName,
		Email:          m.Email,
		PasswordHash:   m.PasswordHash,
		Role:           token.Role(m.Role),
		Mobile:         m.Mobile,
		CompletedTasks: completed,
		CreatedAt:      m.CreatedAt,
	}, nil
}

// SystemClock and UUIDGenerator satisfy the service ports for production wiring.
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

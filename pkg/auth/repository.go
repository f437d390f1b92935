package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/oncentra/registry/pkg/common/apperr"
	"github.com/oncentra/registry/pkg/common/models"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

type centerModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	Code      string    `gorm:"uniqueIndex"`
	Name      string
	Region    string
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (centerModel) TableName() string { return "centers" }

type userModel struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	CenterID     uuid.UUID `gorm:"type:uuid;index"`
	Email        string    `gorm:"uniqueIndex"`
	Name         string
	Role         string `gorm:"index"`
	PasswordHash string
	MFASecret    string
	MFAEnabled   bool
	Metadata     datatypes.JSONMap `gorm:"type:jsonb"`
	CreatedAt    time.Time
	UpdatedAt    time.Time

	Center centerModel `gorm:"foreignKey:CenterID"`
}

func (userModel) TableName() string { return "users" }

func (r *Repository) AutoMigrate() error {
	return r.db.AutoMigrate(&centerModel{}, &userModel{})
}

type CreateCenterInput struct {
	Code   string
	Name   string
	Region string
}

func (r *Repository) CreateCenter(ctx context.Context, input CreateCenterInput) (models.Center, error) {
	center := centerModel{
		ID:        uuid.New(),
		Code:      strings.ToUpper(strings.TrimSpace(input.Code)),
		Name:      input.Name,
		Region:    input.Region,
		CreatedAt: time.Now().UTC(),
		UpdatedAt: time.Now().UTC(),
	}

	if err := r.db.WithContext(ctx).Create(&center).Error; err != nil {
		return models.Center{}, err
	}

	return toCenter(center), nil
}

func (r *Repository) GetCenter(ctx context.Context, id uuid.UUID) (models.Center, error) {
	var center centerModel
	err := r.db.WithContext(ctx).First(&center, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.Center{}, apperr.NotFound("center %s not found", id)
	}
	if err != nil {
		return models.Center{}, err
	}
	return toCenter(center), nil
}

func (r *Repository) ListCenters(ctx context.Context) ([]models.Center, error) {
	var rows []centerModel
	if err := r.db.WithContext(ctx).Order("code asc").Find(&rows).Error; err != nil {
		return nil, err
	}
	centers := make([]models.Center, 0, len(rows))
	for _, row := range rows {
		centers = append(centers, toCenter(row))
	}
	return centers, nil
}

type CreateUserInput struct {
	CenterID     uuid.UUID
	Email        string
	Name         string
	Role         string
	PasswordHash string
	Metadata     map[string]interface{}
}

func (r *Repository) CreateUser(ctx context.Context, input CreateUserInput) (models.User, error) {
	user := userModel{
		ID:           uuid.New(),
		CenterID:     input.CenterID,
		Email:        strings.ToLower(strings.TrimSpace(input.Email)),
		Name:         input.Name,
		Role:         input.Role,
		PasswordHash: input.PasswordHash,
		Metadata:     toJSONMap(input.Metadata),
		CreatedAt:    time.Now().UTC(),
		UpdatedAt:    time.Now().UTC(),
	}

	if err := r.db.WithContext(ctx).Create(&user).Error; err != nil {
		if isUniqueViolation(err) {
			return models.User{}, apperr.Conflict("email already registered")
		}
		return models.User{}, err
	}

	return toUser(user), nil
}

func (r *Repository) GetUser(ctx context.Context, id uuid.UUID) (models.User, error) {
	var user userModel
	err := r.db.WithContext(ctx).First(&user, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.User{}, apperr.NotFound("user %s not found", id)
	}
	if err != nil {
		return models.User{}, err
	}
	return toUser(user), nil
}

// getUserRow returns the raw row including the password hash and MFA secret,
// which never leave this package.
func (r *Repository) getUserRow(ctx context.Context, email string) (userModel, error) {
	var user userModel
	err := r.db.WithContext(ctx).First(&user, "email = ?", strings.ToLower(strings.TrimSpace(email))).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return userModel{}, apperr.NotFound("user not found")
	}
	return user, err
}

func (r *Repository) getUserRowByID(ctx context.Context, id uuid.UUID) (userModel, error) {
	var user userModel
	err := r.db.WithContext(ctx).First(&user, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return userModel{}, apperr.NotFound("user %s not found", id)
	}
	return user, err
}

func (r *Repository) CountUsers(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&userModel{}).Count(&count).Error
	return count, err
}

func (r *Repository) SetMFASecret(ctx context.Context, userID uuid.UUID, secret string, enabled bool) error {
	result := r.db.WithContext(ctx).Model(&userModel{}).
		Where("id = ?", userID).
		Updates(map[string]interface{}{
			"mfa_secret":  secret,
			"mfa_enabled": enabled,
			"updated_at":  time.Now().UTC(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return apperr.NotFound("user %s not found", userID)
	}
	return nil
}

func toCenter(row centerModel) models.Center {
	return models.Center{
		ID:        row.ID,
		Code:      row.Code,
		Name:      row.Name,
		Region:    row.Region,
		CreatedAt: row.CreatedAt,
		UpdatedAt: row.UpdatedAt,
	}
}

func toUser(row userModel) models.User {
	return models.User{
		ID:         row.ID,
		CenterID:   row.CenterID,
		Email:      row.Email,
		Name:       row.Name,
		Role:       row.Role,
		MFAEnabled: row.MFAEnabled,
		Metadata:   map[string]interface{}(row.Metadata),
		CreatedAt:  row.CreatedAt,
		UpdatedAt:  row.UpdatedAt,
	}
}

func toJSONMap(in map[string]interface{}) datatypes.JSONMap {
	if in == nil {
		return datatypes.JSONMap{}
	}
	return datatypes.JSONMap(in)
}

func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	return strings.Contains(err.Error(), "duplicate key") ||
		strings.Contains(err.Error(), "UNIQUE constraint")
}

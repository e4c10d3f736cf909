package gormstore

import (
	"context"
	"errors"
	"time"

	"github.com/MrEthical07/mediaguard/permission"
	"github.com/MrEthical07/mediaguard/reset"
	"github.com/oklog/ulid/v2"
	"gorm.io/gorm"
)

// ResetRepository stores password-reset records.
type ResetRepository struct {
	DB *gorm.DB
}

func NewResetRepository(db *gorm.DB) *ResetRepository {
	return &ResetRepository{DB: db}
}

func (r *ResetRepository) FindActiveByResource(ctx context.Context, resourceID string, userType permission.Role, now time.Time) (*reset.Record, error) {
	var row PasswordReset
	err := r.DB.WithContext(ctx).
		Where("resource_id = ? AND user_type = ? AND is_active = ? AND reset_token_expiry > ?", resourceID, string(userType), true, now).
		Order("reset_token_expiry DESC").
		First(&row).Error
	return recordFrom(&row, err)
}

func (r *ResetRepository) FindActiveByToken(ctx context.Context, token string, now time.Time) (*reset.Record, error) {
	var row PasswordReset
	err := r.DB.WithContext(ctx).
		Where("reset_token = ? AND is_active = ? AND reset_token_expiry > ?", token, true, now).
		First(&row).Error
	return recordFrom(&row, err)
}

// Insert assigns a ULID when rec.ID is empty.
func (r *ResetRepository) Insert(ctx context.Context, rec *reset.Record) error {
	if rec.ID == "" {
		rec.ID = ulid.Make().String()
	}
	row := PasswordReset{
		ID:               rec.ID,
		ResourceID:       rec.ResourceID,
		UserType:         string(rec.UserType),
		Email:            rec.Email,
		ResetToken:       rec.Token,
		ResetTokenExpiry: rec.ExpiresAt,
		IsActive:         rec.Active,
		CreatedAt:        rec.CreatedAt,
		UpdatedAt:        rec.UpdatedAt,
	}
	return r.DB.WithContext(ctx).Create(&row).Error
}

func (r *ResetRepository) Deactivate(ctx context.Context, id string) error {
	result := r.DB.WithContext(ctx).Model(&PasswordReset{}).Where("id = ?", id).Update("is_active", false)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return reset.ErrNotFound
	}
	return nil
}

func recordFrom(row *PasswordReset, err error) (*reset.Record, error) {
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, reset.ErrNotFound
		}
		return nil, err
	}
	return &reset.Record{
		ID:         row.ID,
		ResourceID: row.ResourceID,
		UserType:   permission.Role(row.UserType),
		Email:      row.Email,
		Token:      row.ResetToken,
		ExpiresAt:  row.ResetTokenExpiry,
		Active:     row.IsActive,
		CreatedAt:  row.CreatedAt,
		UpdatedAt:  row.UpdatedAt,
	}, nil
}

package gormstore

import (
	"context"
	"errors"

	"github.com/MrEthical07/mediaguard/permission"
	"github.com/MrEthical07/mediaguard/reset"
	"gorm.io/gorm"
)

// AccountStore reads and updates the admins and users tables.
type AccountStore struct {
	DB *gorm.DB
}

func NewAccountStore(db *gorm.DB) *AccountStore {
	return &AccountStore{DB: db}
}

func modelFor(userType permission.Role) (any, error) {
	switch userType {
	case permission.RoleAdmin:
		return &AdminAccount{}, nil
	case permission.RoleUser:
		return &UserAccount{}, nil
	}
	return nil, reset.ErrInvalidUserType
}

func toAccount(row any) *reset.Account {
	switch r := row.(type) {
	case *AdminAccount:
		return &reset.Account{ID: r.ID, Email: r.Email, Active: r.IsActive}
	case *UserAccount:
		return &reset.Account{ID: r.ID, Email: r.Email, Active: r.IsActive}
	}
	return nil
}

func (s *AccountStore) FindByEmail(ctx context.Context, userType permission.Role, email string, activeOnly bool) (*reset.Account, error) {
	row, err := modelFor(userType)
	if err != nil {
		return nil, err
	}

	q := s.DB.WithContext(ctx).Where("email = ?", email)
	if activeOnly {
		q = q.Where("is_active = ?", true)
	}
	if err := q.First(row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, reset.ErrNotFound
		}
		return nil, err
	}
	return toAccount(row), nil
}

func (s *AccountStore) FindByID(ctx context.Context, userType permission.Role, id string) (*reset.Account, error) {
	row, err := modelFor(userType)
	if err != nil {
		return nil, err
	}
	if err := s.DB.WithContext(ctx).Where("id = ?", id).First(row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, reset.ErrNotFound
		}
		return nil, err
	}
	return toAccount(row), nil
}

func (s *AccountStore) UpdatePasswordHash(ctx context.Context, userType permission.Role, id, email string, activeOnly bool, hash string) (int64, error) {
	row, err := modelFor(userType)
	if err != nil {
		return 0, err
	}

	q := s.DB.WithContext(ctx).Model(row).Where("id = ? AND email = ?", id, email)
	if activeOnly {
		q = q.Where("is_active = ?", true)
	}
	result := q.Update("password_hash", hash)
	return result.RowsAffected, result.Error
}

// PasswordHash returns the stored hash for the account, for credential checks
// at login.
func (s *AccountStore) PasswordHash(ctx context.Context, userType permission.Role, email string) (id, hash string, err error) {
	switch userType {
	case permission.RoleAdmin:
		var a AdminAccount
		err = s.DB.WithContext(ctx).Where("email = ? AND is_active = ?", email, true).First(&a).Error
		id, hash = a.ID, a.PasswordHash
	case permission.RoleUser:
		var u UserAccount
		err = s.DB.WithContext(ctx).Where("email = ? AND is_active = ?", email, true).First(&u).Error
		id, hash = u.ID, u.PasswordHash
	default:
		return "", "", reset.ErrInvalidUserType
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", "", reset.ErrNotFound
	}
	return id, hash, err
}

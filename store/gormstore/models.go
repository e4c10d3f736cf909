package gormstore

import "time"

// AdminAccount is a row of the admins table.
type AdminAccount struct {
	ID           string `gorm:"primaryKey;size:64"`
	Email        string `gorm:"uniqueIndex;not null"`
	PasswordHash string `gorm:"not null"`
	IsActive     bool   `gorm:"not null"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (AdminAccount) TableName() string { return "admins" }

// UserAccount is a row of the users table.
type UserAccount struct {
	ID           string `gorm:"primaryKey;size:64"`
	Email        string `gorm:"uniqueIndex;not null"`
	PasswordHash string `gorm:"not null"`
	IsActive     bool   `gorm:"not null"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (UserAccount) TableName() string { return "users" }

// PasswordReset is a row of the password_resets table.
type PasswordReset struct {
	ID               string    `gorm:"primaryKey;size:26"`
	ResourceID       string    `gorm:"index:idx_reset_resource;not null"`
	UserType         string    `gorm:"index:idx_reset_resource;size:16;not null"`
	Email            string    `gorm:"not null"`
	ResetToken       string    `gorm:"uniqueIndex;not null"`
	ResetTokenExpiry time.Time `gorm:"not null"`
	IsActive         bool      `gorm:"index;not null"`
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// Channel is a row of the channels table. OrderPosition is dense over the
// whole table and deliberately not unique so a range shift can run as one
// UPDATE.
type Channel struct {
	ID            string `gorm:"primaryKey;size:64"`
	Name          string `gorm:"not null"`
	IsActive      bool   `gorm:"not null"`
	OrderPosition int    `gorm:"index;not null"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

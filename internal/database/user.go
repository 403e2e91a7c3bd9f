package database

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
	"gorm.io/gorm"
)

// UserDB defines the user related database operations.
type UserDB interface {
	CreateUser(ctx context.Context, user *User) error
	GetUserByUsername(ctx context.Context, username string) (*User, error)
	GetAllUsers(ctx context.Context) ([]User, error)
	UpdateUserLastLogin(ctx context.Context, userID uint, at time.Time) error
	UpdateUserEmail(ctx context.Context, userID uint, email string) error
}

// User represents a user in the database.
// It explicitly doesn't track if a user is an admin.
// The admin status is always determined during the login process and stored in the session.
type User struct {
	gorm.Model
	Username string `gorm:"uniqueIndex;not null"`
	// PasswordHash is the bcrypt hash of the password. It is empty for users created through OIDC.
	PasswordHash string
	Name         string
	Email        string
	LastLoginAt  *time.Time
	Bookings     []Booking `gorm:"constraint:OnDelete:SET NULL;"`
	Uploads      []Upload  `gorm:"constraint:OnDelete:SET NULL;"`
}

func (c *Client) CreateUser(ctx context.Context, user *User) error {
	if err := c.db.WithContext(ctx).Create(user).Error; err != nil {
		log.Error("failed to create user", "error", err)
		return err
	}
	return nil
}

func (c *Client) GetUserByUsername(ctx context.Context, username string) (*User, error) {
	var user User
	if err := c.db.WithContext(ctx).Where("username = ?", username).First(&user).Error; err != nil {
		if err != gorm.ErrRecordNotFound {
			log.Error("failed to get user by username", "error", err)
		}
		return nil, err
	}
	return &user, nil
}

func (c *Client) GetAllUsers(ctx context.Context) ([]User, error) {
	var users []User
	if err := c.db.WithContext(ctx).Order("username ASC").Find(&users).Error; err != nil {
		log.Error("failed to get all users", "error", err)
		return nil, err
	}
	return users, nil
}

func (c *Client) UpdateUserLastLogin(ctx context.Context, userID uint, at time.Time) error {
	result := c.db.WithContext(ctx).Model(&User{}).Where("id = ?", userID).Update("last_login_at", at)
	if result.Error != nil {
		log.Error("failed to update user last login", "error", result.Error)
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (c *Client) UpdateUserEmail(ctx context.Context, userID uint, email string) error {
	result := c.db.WithContext(ctx).Model(&User{}).Where("id = ?", userID).Update("email", email)
	if result.Error != nil {
		log.Error("failed to update user email", "error", result.Error)
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/diewo77/food-tracker/internal/models"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// ErrDuplicateUsername is returned by Create when the username is taken.
var ErrDuplicateUsername = errors.New("username_taken")

// UserService is the credential store backed by the users table.
type UserService struct {
	DB *gorm.DB
	// HashCost is the bcrypt cost used for new passwords.
	HashCost int
}

func NewUserService(db *gorm.DB) *UserService {
	return &UserService{DB: db, HashCost: bcrypt.DefaultCost}
}

// Create inserts a new user. Either the full row is written or nothing is.
func (s *UserService) Create(ctx context.Context, username, password string) (*models.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.HashCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	user := models.User{Username: username, Password: string(hash)}
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.User{}).Where("username = ?", username).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return ErrDuplicateUsername
		}
		return tx.Create(&user).Error
	})
	switch {
	case err == nil:
		return &user, nil
	case errors.Is(err, ErrDuplicateUsername), isUniqueViolation(err):
		return nil, ErrDuplicateUsername
	default:
		return nil, fmt.Errorf("create user: %w", err)
	}
}

// Authenticate returns the id of the user matching username and password.
// A missing user or a wrong password yields ok == false with a nil error.
func (s *UserService) Authenticate(ctx context.Context, username, password string) (id uint, ok bool, err error) {
	user, err := s.FindByUsername(ctx, username)
	if err != nil {
		return 0, false, err
	}
	if user == nil {
		return 0, false, nil
	}
	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) != nil {
		return 0, false, nil
	}
	return user.ID, true, nil
}

// FindByUsername returns the user or nil when none exists.
func (s *UserService) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	err := s.DB.WithContext(ctx).Where("username = ?", username).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	return &user, nil
}

// Exists reports whether a user with id is present.
func (s *UserService) Exists(ctx context.Context, id uint) (bool, error) {
	var count int64
	if err := s.DB.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Limit(1).Count(&count).Error; err != nil {
		return false, fmt.Errorf("user exists: %w", err)
	}
	return count > 0, nil
}

// Count returns the number of users.
func (s *UserService) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := s.DB.WithContext(ctx).Model(&models.User{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("count users: %w", err)
	}
	return count, nil
}

// isUniqueViolation recognises unique index failures from sqlite and postgres
// when gorm error translation is not enabled on the connection.
func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint failed") ||
		strings.Contains(msg, "duplicate key value") ||
		strings.Contains(msg, "sqlstate 23505")
}

package services

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	apperrors "budgetmate/internal/errors"
	"budgetmate/internal/models"
)

// resetTokenTTL is how long a password reset token stays valid.
const resetTokenTTL = 30 * time.Minute

// userService handles user-related business logic.
type userService struct {
	db *gorm.DB
}

// NewUserService creates a new UserServicer.
func NewUserService(db *gorm.DB) UserServicer {
	return &userService{db: db}
}

// Register creates a new user account with a hashed password.
func (s *userService) Register(name, email, password string, salary decimal.Decimal) (*models.User, error) {
	if name == "" || email == "" || password == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "name, email and password are required")
	}
	if salary.IsNegative() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "salary cannot be negative")
	}

	// Check if user with email exists
	var count int64
	s.db.Model(&models.User{}).Where("email = ?", strings.ToLower(email)).Count(&count)
	if count > 0 {
		return nil, apperrors.ErrDuplicateEmail
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	user := &models.User{
		Name:         name,
		Email:        strings.ToLower(email),
		PasswordHash: string(hashedPassword),
		Salary:       salary,
		Role:         models.UserRoleUser,
	}

	if err := s.db.Create(user).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return user, nil
}

// Authenticate verifies an email/password pair and returns the user.
// A missing user and a bad password are indistinguishable to the caller.
func (s *userService) Authenticate(email, password string) (*models.User, error) {
	user, err := s.GetUserByEmail(email)
	if err != nil {
		return nil, apperrors.ErrInvalidCredentials
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, apperrors.ErrInvalidCredentials
	}

	return user, nil
}

// GetUserByEmail retrieves a user by email
func (s *userService) GetUserByEmail(email string) (*models.User, error) {
	var user models.User
	if err := s.db.Where("email = ?", strings.ToLower(email)).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &user, nil
}

// GetUserByID retrieves a user by ID
func (s *userService) GetUserByID(id uint) (*models.User, error) {
	var user models.User
	if err := s.db.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &user, nil
}

// UpdateUser applies a partial update to a user. Only non-nil fields
// change; an empty update is a plain read.
func (s *userService) UpdateUser(id uint, updates UserUpdate) (*models.User, error) {
	user, err := s.GetUserByID(id)
	if err != nil {
		return nil, err
	}

	fields := make(map[string]interface{})
	if updates.Name != nil {
		fields["name"] = *updates.Name
	}
	if updates.Email != nil {
		email := strings.ToLower(*updates.Email)
		if email != user.Email {
			var count int64
			s.db.Model(&models.User{}).Where("email = ? AND id <> ?", email, id).Count(&count)
			if count > 0 {
				return nil, apperrors.ErrDuplicateEmail
			}
		}
		fields["email"] = email
	}
	if updates.Salary != nil {
		if updates.Salary.IsNegative() {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "salary cannot be negative")
		}
		fields["salary"] = *updates.Salary
	}
	if updates.Password != nil {
		hashed, err := bcrypt.GenerateFromPassword([]byte(*updates.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		fields["password_hash"] = string(hashed)
	}
	if updates.Role != nil {
		fields["role"] = *updates.Role
	}

	if len(fields) > 0 {
		if err := s.db.Model(user).Updates(fields).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}

	return s.GetUserByID(id)
}

// ListUsers returns all users, newest first.
func (s *userService) ListUsers() ([]models.User, error) {
	var users []models.User
	if err := s.db.Order("created_at DESC").Find(&users).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return users, nil
}

// DeleteUser removes a user account.
func (s *userService) DeleteUser(id uint) error {
	if _, err := s.GetUserByID(id); err != nil {
		return err
	}
	if err := s.db.Delete(&models.User{}, id).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// IssuePasswordReset invalidates any still-active reset tokens for the
// user behind email and issues a fresh single-use token valid for 30
// minutes. Returns ErrUserNotFound when the email is unknown; the
// handler hides that from the client.
func (s *userService) IssuePasswordReset(email string) (string, error) {
	user, err := s.GetUserByEmail(email)
	if err != nil {
		return "", err
	}

	raw := make([]byte, 32)
	if _, err := rand.Read(raw); err != nil {
		return "", apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	token := hex.EncodeToString(raw)

	err = s.db.Transaction(func(tx *gorm.DB) error {
		now := time.Now()
		if err := tx.Model(&models.PasswordResetToken{}).
			Where("user_id = ? AND used_at IS NULL", user.ID).
			Update("used_at", now).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}

		record := &models.PasswordResetToken{
			UserID:    user.ID,
			Token:     token,
			ExpiresAt: now.Add(resetTokenTTL),
		}
		if err := tx.Create(record).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return nil
	})
	if err != nil {
		return "", err
	}

	return token, nil
}

// ResetPassword consumes a valid reset token and sets the new password.
func (s *userService) ResetPassword(token, password string) error {
	if password == "" {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "password is required")
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		var record models.PasswordResetToken
		err := tx.Where("token = ? AND used_at IS NULL AND expires_at > ?", token, time.Now()).
			First(&record).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.ErrResetTokenInvalid
			}
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}

		hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}

		if err := tx.Model(&models.User{}).Where("id = ?", record.UserID).
			Update("password_hash", string(hashed)).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}

		now := time.Now()
		if err := tx.Model(&record).Update("used_at", now).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return nil
	})
}

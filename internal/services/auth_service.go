package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/taskflow-app/taskflow-api/internal/constants"
	"github.com/taskflow-app/taskflow-api/internal/logging"
	"github.com/taskflow-app/taskflow-api/internal/mailer"
	"github.com/taskflow-app/taskflow-api/internal/models"
	"github.com/taskflow-app/taskflow-api/internal/repository"
	"github.com/taskflow-app/taskflow-api/internal/utils"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrUsernameTaken        = errors.New("username already exists")
	ErrEmailTaken           = errors.New("email already registered")
	ErrInvalidCredentials   = errors.New("invalid email or password")
	ErrPasswordTooShort     = errors.New("password too short")
	ErrUserNotFound         = errors.New("user not found")
	ErrUserNotVerified      = errors.New("email not verified")
	ErrAlreadyVerified      = errors.New("user already verified")
	ErrInvalidOTP           = errors.New("invalid verification code")
	ErrOTPExpired           = errors.New("verification code expired")
	ErrSearchQueryTooShort  = errors.New("search query too short")
	ErrFailedToHashPassword = errors.New("failed to hash password")
)

// AuthService handles identity: registration, OTP verification, login,
// profile management, and account deletion.
type AuthService struct {
	userRepo repository.UserRepository
	mail     mailer.Mailer
}

// NewAuthService creates a new AuthService.
func NewAuthService(userRepo repository.UserRepository, mail mailer.Mailer) *AuthService {
	return &AuthService{
		userRepo: userRepo,
		mail:     mail,
	}
}

// RegisterInput represents the required information to create a new user.
type RegisterInput struct {
	Username string
	Email    string
	Password string
}

// Register creates a new unverified user and sends the verification code.
// Mail delivery is fire-and-forget; a failed send never rolls back the user.
func (s *AuthService) Register(input RegisterInput) (*models.User, error) {
	username := strings.TrimSpace(input.Username)
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if username == "" || email == "" {
		return nil, fmt.Errorf("username and email are required")
	}
	if len(input.Password) < constants.MinPasswordLength {
		return nil, ErrPasswordTooShort
	}

	if _, err := s.userRepo.FindByEmail(email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}

	if _, err := s.userRepo.FindByUsername(username); err == nil {
		return nil, ErrUsernameTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check username: %w", err)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, ErrFailedToHashPassword
	}

	otp, err := utils.GenerateOTP()
	if err != nil {
		return nil, fmt.Errorf("failed to generate verification code: %w", err)
	}
	otpExpiry := time.Now().Add(constants.OTPTTL)

	user := &models.User{
		Username:     username,
		Email:        email,
		PasswordHash: string(hashedPassword),
		Role:         models.RoleUser,
		OTP:          &otp,
		OTPExpiresAt: &otpExpiry,
	}

	if err := s.userRepo.Create(user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	go func() {
		if err := s.mail.SendOTP(user.Email, user.Username, otp); err != nil {
			logging.Logger.WithError(err).WithField("email", user.Email).
				Warn("Failed to send verification email")
		}
	}()

	return user, nil
}

// VerifyOTP marks the user as verified when the code matches and has not
// expired. Verification is one-way.
func (s *AuthService) VerifyOTP(userID uint64, code string) (*models.User, error) {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if user.IsVerified {
		return nil, ErrAlreadyVerified
	}
	if user.OTP == nil || *user.OTP != code {
		return nil, ErrInvalidOTP
	}
	if user.OTPExpiresAt == nil || user.OTPExpiresAt.Before(time.Now()) {
		return nil, ErrOTPExpired
	}

	user.IsVerified = true
	user.OTP = nil
	user.OTPExpiresAt = nil

	if err := s.userRepo.Update(user); err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	go func() {
		if err := s.mail.SendWelcome(user.Email, user.Username); err != nil {
			logging.Logger.WithError(err).WithField("email", user.Email).
				Warn("Failed to send welcome email")
		}
	}()

	return user, nil
}

// LoginInput holds the credentials for authentication.
type LoginInput struct {
	Email    string
	Password string
}

// Login verifies credentials and returns the authenticated user. Unverified
// accounts cannot log in.
func (s *AuthService) Login(input LoginInput) (*models.User, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))

	user, err := s.userRepo.FindByEmail(email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	if !user.IsVerified {
		return nil, ErrUserNotVerified
	}

	return user, nil
}

// GetUser retrieves a user by ID.
func (s *AuthService) GetUser(id uint64) (*models.User, error) {
	user, err := s.userRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	return user, nil
}

// UpdateProfileInput holds profile fields a user may change.
type UpdateProfileInput struct {
	Username string
	Email    string
}

// UpdateProfile changes username and email, keeping both unique.
func (s *AuthService) UpdateProfile(userID uint64, input UpdateProfileInput) (*models.User, error) {
	user, err := s.GetUser(userID)
	if err != nil {
		return nil, err
	}

	username := strings.TrimSpace(input.Username)
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if username == "" || email == "" {
		return nil, fmt.Errorf("username and email are required")
	}

	if other, err := s.userRepo.FindByUsername(username); err == nil && other.ID != userID {
		return nil, ErrUsernameTaken
	} else if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check username: %w", err)
	}

	if other, err := s.userRepo.FindByEmail(email); err == nil && other.ID != userID {
		return nil, ErrEmailTaken
	} else if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}

	user.Username = username
	user.Email = email

	if err := s.userRepo.Update(user); err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	return user, nil
}

// ChangePassword replaces the password after re-proving the current one.
func (s *AuthService) ChangePassword(userID uint64, currentPassword, newPassword string) error {
	user, err := s.GetUser(userID)
	if err != nil {
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(currentPassword)); err != nil {
		return ErrInvalidCredentials
	}

	if len(newPassword) < constants.MinPasswordLength {
		return ErrPasswordTooShort
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return ErrFailedToHashPassword
	}

	user.PasswordHash = string(hashed)
	if err := s.userRepo.Update(user); err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}

	return nil
}

// DeleteAccount removes the account after re-proving the password.
func (s *AuthService) DeleteAccount(userID uint64, password string) error {
	user, err := s.GetUser(userID)
	if err != nil {
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return ErrInvalidCredentials
	}

	if err := s.userRepo.Delete(userID); err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}

	return nil
}

// SearchUsers finds verified users to invite, excluding the caller.
func (s *AuthService) SearchUsers(query string, excludeID uint64) ([]models.User, error) {
	query = strings.TrimSpace(query)
	if len(query) < constants.MinSearchQueryLength {
		return nil, ErrSearchQueryTooShort
	}

	users, err := s.userRepo.SearchVerified(query, excludeID, constants.SearchResultLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to search users: %w", err)
	}

	return users, nil
}

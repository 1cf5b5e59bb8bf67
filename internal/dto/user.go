package dto

import (
	"time"

	"github.com/taskflow-app/taskflow-api/internal/models"
)

// UserDTO represents a user in API responses. Credentials and OTP fields
// never leave the service.
type UserDTO struct {
	ID         uint64          `json:"id"`
	Username   string          `json:"username"`
	Email      string          `json:"email"`
	Role       models.UserRole `json:"role"`
	IsVerified bool            `json:"is_verified"`
	CreatedAt  time.Time       `json:"created_at"`
}

// ToUserDTO converts a user to DTO
func ToUserDTO(user models.User) UserDTO {
	return UserDTO{
		ID:         user.ID,
		Username:   user.Username,
		Email:      user.Email,
		Role:       user.Role,
		IsVerified: user.IsVerified,
		CreatedAt:  user.CreatedAt,
	}
}

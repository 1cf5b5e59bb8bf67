package repository

import (
	"fmt"
	"time"

	"github.com/taskflow-app/taskflow-api/internal/models"
	"gorm.io/gorm"
)

// GormUserRepository is a GORM implementation of UserRepository
type GormUserRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(db *gorm.DB) UserRepository {
	return &GormUserRepository{db: db}
}

// Create creates a new user
func (r *GormUserRepository) Create(user *models.User) error {
	return r.db.Create(user).Error
}

// FindByID finds a user by ID
func (r *GormUserRepository) FindByID(id uint64) (*models.User, error) {
	var user models.User
	if err := r.db.First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByEmail finds a user by email
func (r *GormUserRepository) FindByEmail(email string) (*models.User, error) {
	var user models.User
	if err := r.db.Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByUsername finds a user by username
func (r *GormUserRepository) FindByUsername(username string) (*models.User, error) {
	var user models.User
	if err := r.db.Where("username = ?", username).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// Update updates a user
func (r *GormUserRepository) Update(user *models.User) error {
	return r.db.Save(user).Error
}

// Delete soft deletes a user. The soft-deleted row would otherwise keep
// holding the unique username and email, so both are tombstoned first to
// free them for future registrations.
func (r *GormUserRepository) Delete(id uint64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		tombstone := fmt.Sprintf("deleted-%d-%d", id, time.Now().Unix())
		err := tx.Model(&models.User{}).
			Where("id = ?", id).
			Updates(map[string]interface{}{
				"username": tombstone,
				"email":    tombstone + "@deleted.invalid",
			}).Error
		if err != nil {
			return err
		}

		return tx.Delete(&models.User{}, id).Error
	})
}

// SearchVerified finds verified users matching the query by username or email
func (r *GormUserRepository) SearchVerified(query string, excludeID uint64, limit int) ([]models.User, error) {
	var users []models.User
	pattern := "%" + query + "%"
	err := r.db.
		Where("is_verified = ?", true).
		Where("id <> ?", excludeID).
		Where("username LIKE ? OR email LIKE ?", pattern, pattern).
		Limit(limit).
		Find(&users).Error
	if err != nil {
		return nil, err
	}
	return users, nil
}

package repository

import (
	"context"

	"recipehub/internal/microservices/http-api/models"

	"gorm.io/gorm"
)

// UserRepository defines the interface for user data operations.
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	FindByID(ctx context.Context, id string) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByUsername(ctx context.Context, username string) (*models.User, error)
	Exists(ctx context.Context, id string) (bool, error)
	UpdatePassword(ctx context.Context, id, passwordHash string) error
	// FindAnnotated loads one user with recipes_count and is_subscribed computed for viewerID.
	FindAnnotated(ctx context.Context, id, viewerID string) (*models.User, error)
	List(ctx context.Context, viewerID string, limit, offset int) ([]models.User, int64, error)
	// ListSubscriptions returns the authors followed by subscriberID with their recipe counts.
	ListSubscriptions(ctx context.Context, subscriberID string, limit, offset int) ([]models.User, int64, error)
}

// userRepository is the GORM implementation of UserRepository.
type userRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new instance of UserRepository in a GORM implementation
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	return wrap("create user", r.db.WithContext(ctx).Create(user).Error)
}

func (r *userRepository) FindByID(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	// return nil on error, a zero-value user would look like a hit
	if err := r.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		return nil, wrap("find user", err)
	}
	return &user, nil
}

func (r *userRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, wrap("find user by email", err)
	}
	return &user, nil
}

func (r *userRepository) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("username = ?", username).First(&user).Error; err != nil {
		return nil, wrap("find user by username", err)
	}
	return &user, nil
}

func (r *userRepository) Exists(ctx context.Context, id string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", id).
		Count(&count).Error; err != nil {
		return false, wrap("check user", err)
	}
	return count > 0, nil
}

func (r *userRepository) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	result := r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", id).
		Update("password_hash", passwordHash)
	if result.Error != nil {
		return wrap("update password", result.Error)
	}
	if result.RowsAffected == 0 {
		return wrap("update password", ErrNotFound)
	}
	return nil
}

func (r *userRepository) FindAnnotated(ctx context.Context, id, viewerID string) (*models.User, error) {
	var user models.User
	if err := annotateUsers(r.db.WithContext(ctx), viewerID).
		Where("users.id = ?", id).
		Take(&user).Error; err != nil {
		return nil, wrap("find user", err)
	}
	return &user, nil
}

func (r *userRepository) List(ctx context.Context, viewerID string, limit, offset int) ([]models.User, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&models.User{}).Count(&total).Error; err != nil {
		return nil, 0, wrap("count users", err)
	}

	var users []models.User
	if err := annotateUsers(r.db.WithContext(ctx), viewerID).
		Order("users.created_at, users.id").
		Limit(limit).
		Offset(offset).
		Find(&users).Error; err != nil {
		return nil, 0, wrap("list users", err)
	}
	return users, total, nil
}

func (r *userRepository) ListSubscriptions(ctx context.Context, subscriberID string, limit, offset int) ([]models.User, int64, error) {
	followed := r.db.Model(&models.Subscription{}).
		Select("author_id").
		Where("subscriber_id = ?", subscriberID)

	var total int64
	if err := r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id IN (?)", followed).
		Count(&total).Error; err != nil {
		return nil, 0, wrap("count subscriptions", err)
	}

	var users []models.User
	if err := annotateUsers(r.db.WithContext(ctx), subscriberID).
		Where("users.id IN (?)", followed).
		Order("users.created_at, users.id").
		Limit(limit).
		Offset(offset).
		Find(&users).Error; err != nil {
		return nil, 0, wrap("list subscriptions", err)
	}
	return users, total, nil
}

const recipesCountColumn = "(SELECT COUNT(*) FROM recipes WHERE recipes.author_id = users.id) AS recipes_count"

// annotateUsers selects users with their recipe count and is_subscribed relative to viewerID.
// The anonymous viewer gets no subscription subquery.
func annotateUsers(db *gorm.DB, viewerID string) *gorm.DB {
	if viewerID == "" {
		return db.Model(&models.User{}).Select("users.*, " + recipesCountColumn)
	}
	return db.Model(&models.User{}).Select(`users.*, `+recipesCountColumn+`,
		EXISTS (SELECT 1 FROM subscriptions s WHERE s.author_id = users.id AND s.subscriber_id = ?) AS is_subscribed`,
		viewerID)
}

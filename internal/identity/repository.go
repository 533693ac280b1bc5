package identity

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/skillsenselab/prodman/internal/auth"
	"github.com/skillsenselab/prodman/internal/database"
)

// ErrNotFound is returned when no user matches the query.
var ErrNotFound = errors.New("identity: user not found")

// ErrEmailTaken is returned when creating or updating a user with an email
// that another account already uses.
var ErrEmailTaken = errors.New("identity: email already registered")

// ListFilter narrows and paginates user listings.
type ListFilter struct {
	Email  string
	Name   string
	Status string
	Offset int
	Limit  int
}

// Repository persists users in the database.
type Repository struct {
	db *database.DB
}

// NewRepository creates a user repository.
func NewRepository(db *database.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a new user. Email uniqueness violations map to ErrEmailTaken.
func (r *Repository) Create(ctx context.Context, user *User) error {
	var count int64
	if err := r.db.WithContext(ctx).Model(&User{}).
		Where("email = ?", strings.ToLower(user.Email)).Count(&count).Error; err != nil {
		return fmt.Errorf("identity: check email: %w", err)
	}
	if count > 0 {
		return ErrEmailTaken
	}

	user.Email = strings.ToLower(user.Email)
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrEmailTaken
		}
		return fmt.Errorf("identity: create user: %w", err)
	}
	return nil
}

// Get returns the user with the given id.
func (r *Repository) Get(ctx context.Context, id uuid.UUID) (*User, error) {
	var user User
	if err := r.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("identity: get user: %w", err)
	}
	return &user, nil
}

// GetByEmail returns the user with the given email.
func (r *Repository) GetByEmail(ctx context.Context, email string) (*User, error) {
	var user User
	if err := r.db.WithContext(ctx).First(&user, "email = ?", strings.ToLower(email)).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("identity: get user by email: %w", err)
	}
	return &user, nil
}

// List returns users matching the filter plus the unpaginated total.
func (r *Repository) List(ctx context.Context, filter ListFilter) ([]User, int64, error) {
	q := r.db.WithContext(ctx).Model(&User{})
	if filter.Email != "" {
		q = q.Where("email LIKE ?", "%"+strings.ToLower(filter.Email)+"%")
	}
	if filter.Name != "" {
		q = q.Where("name LIKE ?", "%"+filter.Name+"%")
	}
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("identity: count users: %w", err)
	}

	var users []User
	if err := q.Order("created_at").Offset(filter.Offset).Limit(filter.Limit).Find(&users).Error; err != nil {
		return nil, 0, fmt.Errorf("identity: list users: %w", err)
	}
	return users, total, nil
}

// Update saves changes to an existing user.
func (r *Repository) Update(ctx context.Context, user *User) error {
	if err := r.db.WithContext(ctx).Save(user).Error; err != nil {
		return fmt.Errorf("identity: update user: %w", err)
	}
	return nil
}

// Delete soft-deletes the user with the given id.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Delete(&User{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("identity: delete user: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// --- auth.IdentityStore ---

// FindBySubject implements auth.IdentityStore. The subject is the user's
// UUID; anything unparseable is reported as not found.
func (r *Repository) FindBySubject(ctx context.Context, subject string) (*auth.Identity, error) {
	id, err := uuid.Parse(subject)
	if err != nil {
		return nil, auth.ErrSubjectNotFound
	}
	user, err := r.Get(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, auth.ErrSubjectNotFound
		}
		return nil, err
	}
	return user.ToIdentity(), nil
}

// FindByEmail implements auth.IdentityStore.
func (r *Repository) FindByEmail(ctx context.Context, email string) (*auth.Identity, error) {
	user, err := r.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, auth.ErrSubjectNotFound
		}
		return nil, err
	}
	return user.ToIdentity(), nil
}

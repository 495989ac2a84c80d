package repositories

import (
	"context"
	"fmt"
	"strings"

	"kirana/internal/models"
	"kirana/internal/store"

	"github.com/google/uuid"
)

// UserRepository provides lookups and writes over the users collection.
type UserRepository struct {
	acc store.Accessor
}

// NewUserRepository creates a UserRepository reading and writing through acc.
func NewUserRepository(acc store.Accessor) *UserRepository {
	return &UserRepository{acc: acc}
}

// GetAll returns every user.
func (r *UserRepository) GetAll(ctx context.Context) ([]models.User, error) {
	users, err := store.LoadCollection[models.User](ctx, r.acc, store.UsersKey())
	if err != nil {
		return nil, fmt.Errorf("failed to load users: %w", err)
	}
	return users, nil
}

// GetByID returns the user with the given ID.
func (r *UserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	users, err := r.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	for i := range users {
		if users[i].ID == id {
			return &users[i], nil
		}
	}
	return nil, fmt.Errorf("user with ID %s: %w", id, models.ErrNotFound)
}

// FindByEmailAndRole returns the user registered with email (case-insensitive) under role.
func (r *UserRepository) FindByEmailAndRole(ctx context.Context, email string, role models.Role) (*models.User, error) {
	users, err := r.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	for i := range users {
		if strings.EqualFold(users[i].Email, email) && users[i].Role == role {
			return &users[i], nil
		}
	}
	return nil, fmt.Errorf("user with email %s and role %s: %w", email, role, models.ErrNotFound)
}

// FindByCredentials returns the user matching the email, password and role triple,
// or ErrAuthentication.
func (r *UserRepository) FindByCredentials(ctx context.Context, email, password string, role models.Role) (*models.User, error) {
	users, err := r.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	for i := range users {
		u := users[i]
		if strings.EqualFold(u.Email, email) && u.Password == password && u.Role == role {
			return &u, nil
		}
	}
	return nil, models.ErrAuthentication
}

// Create appends a new user, assigning an ID when none is set.
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	users, err := r.GetAll(ctx)
	if err != nil {
		return err
	}
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	users = append(users, user.Clone())
	if err := store.SaveCollection(ctx, r.acc, store.UsersKey(), users); err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// Update replaces the stored user with the same ID and returns the stored copy.
func (r *UserRepository) Update(ctx context.Context, user models.User) (*models.User, error) {
	users, err := r.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	found := false
	for i := range users {
		if users[i].ID == user.ID {
			users[i] = user.Clone()
			found = true
			break
		}
	}
	if !found {
		return nil, fmt.Errorf("user with ID %s not found for update: %w", user.ID, models.ErrNotFound)
	}
	if err := store.SaveCollection(ctx, r.acc, store.UsersKey(), users); err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}
	return r.GetByID(ctx, user.ID)
}

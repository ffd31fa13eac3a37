package usecase

import (
	"context"
	"errors"
	"time"

	"planward/model"
	"planward/services"
	"planward/utils"
)

var (
	ErrUsernameTaken      = errors.New("username already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// UserStore and CategoryStore are the persistence seams the user service
// needs; the Mongo repositories satisfy them.
type UserStore interface {
	AddUser(ctx context.Context, user *model.User) error
	FindUser(ctx context.Context, userID string) (*model.User, error)
	FindUserByUsername(ctx context.Context, username string) (*model.User, error)
	UpdateUserPassword(ctx context.Context, userID, hashedPassword string) error
	DeleteUser(ctx context.Context, userID string) error
}

type CategoryStore interface {
	CreateCategory(ctx context.Context, category *model.Category) error
	DeleteUserCategories(ctx context.Context, userID string) error
}

type StateDeleter interface {
	DeleteState(ctx context.Context, userID string) error
}

type UserService struct {
	users      UserStore
	categories CategoryStore
	states     StateStore
	deleter    StateDeleter
}

func NewUserService(users UserStore, categories CategoryStore, states StateStore, deleter StateDeleter) *UserService {
	return &UserService{users: users, categories: categories, states: states, deleter: deleter}
}

// CreateUser registers a new account: unique username check, argon2id hash,
// then default categories and the starter plan are seeded so a fresh login
// lands on a populated tracker.
func (svc *UserService) CreateUser(ctx context.Context, username, email, password string) (*model.User, error) {
	existing, err := svc.users.FindUserByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrUsernameTaken
	}

	hashed, err := services.HashPassword(password)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		UserID:    utils.GenerateUserID(),
		Username:  username,
		Email:     email,
		Password:  hashed,
		CreatedAt: time.Now(),
	}
	if err := svc.users.AddUser(ctx, user); err != nil {
		return nil, err
	}

	if err := SeedNewUser(ctx, svc.categories, svc.states, user.UserID); err != nil {
		// the account exists; seeding is best-effort
		utils.TrackError("seed", "new_user")
	}
	return user, nil
}

// Authenticate checks a username/password pair and returns the user on
// success.
func (svc *UserService) Authenticate(ctx context.Context, username, password string) (*model.User, error) {
	user, err := svc.users.FindUserByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrInvalidCredentials
	}
	ok, err := services.VerifyPassword(user.Password, password)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

func (svc *UserService) GetUser(ctx context.Context, userID string) (*model.User, error) {
	return svc.users.FindUser(ctx, userID)
}

// ChangePassword verifies the current password before storing a new hash.
func (svc *UserService) ChangePassword(ctx context.Context, userID, currentPassword, newPassword string) error {
	user, err := svc.users.FindUser(ctx, userID)
	if err != nil {
		return err
	}
	if user == nil {
		return ErrInvalidCredentials
	}
	ok, err := services.VerifyPassword(user.Password, currentPassword)
	if err != nil {
		return err
	}
	if !ok {
		return ErrInvalidCredentials
	}
	hashed, err := services.HashPassword(newPassword)
	if err != nil {
		return err
	}
	return svc.users.UpdateUserPassword(ctx, userID, hashed)
}

// DeleteUser removes the account and everything hanging off it.
func (svc *UserService) DeleteUser(ctx context.Context, userID string) error {
	if err := svc.users.DeleteUser(ctx, userID); err != nil {
		return err
	}
	if err := svc.categories.DeleteUserCategories(ctx, userID); err != nil {
		return err
	}
	return svc.deleter.DeleteState(ctx, userID)
}

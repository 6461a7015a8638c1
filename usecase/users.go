package usecase

import (
	"context"
	"fmt"
	"time"

	"main/model"
	"main/repository"
	"main/services"
	"main/utils"
)

type UserService struct {
	UsersRepo *repository.UserRepo
}

// Register creates a user with an Argon2id-hashed password.
func (svc *UserService) Register(ctx context.Context, username, email, password string) (*model.User, error) {
	existing, err := svc.UsersRepo.FindUserByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("username already taken")
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

	if err := svc.UsersRepo.AddUser(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

// CheckCredentials looks the user up by username and verifies the password
// against the stored hash. Both a missing user and a wrong password come
// back as ErrInvalidCredentials so the response never reveals which part was
// wrong.
func (svc *UserService) CheckCredentials(ctx context.Context, username, password string) (*model.User, error) {
	user, err := svc.UsersRepo.FindUserByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, repository.ErrInvalidCredentials
	}

	match, err := services.VerifyPassword(user.Password, password)
	if err != nil || !match {
		return nil, repository.ErrInvalidCredentials
	}

	return user, nil
}

// ChangePassword verifies the old password before storing the new hash.
func (svc *UserService) ChangePassword(ctx context.Context, userID, oldPassword, newPassword string) error {
	user, err := svc.UsersRepo.FindUser(ctx, userID)
	if err != nil {
		return err
	}
	if user == nil {
		return repository.ErrNotFound
	}

	match, err := services.VerifyPassword(user.Password, oldPassword)
	if err != nil || !match {
		return repository.ErrInvalidCredentials
	}

	hashed, err := services.HashPassword(newPassword)
	if err != nil {
		return err
	}

	return svc.UsersRepo.UpdateUserPassword(ctx, userID, hashed)
}

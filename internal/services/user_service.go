package services

import (
	"context"
	"errors"
	"fmt"
	"updoot/internal/models"
	"updoot/internal/repository"
	"updoot/internal/utils"
)

// ResetMailer sends password reset codes. Satisfied by MailService;
// tests substitute a recorder.
type ResetMailer interface {
	SendPasswordResetEmail(email, code string)
}

type UserService struct {
	store  repository.Store
	mailer ResetMailer
}

func NewUserService(store repository.Store, mailer ResetMailer) *UserService {
	return &UserService{store: store, mailer: mailer}
}

// Register creates an account. Invalid input and taken names come back
// as field errors, not as faults.
func (s *UserService) Register(ctx context.Context, username, email, password string) (*models.User, []utils.FieldError, error) {
	if errs := utils.ValidateRegister(username, email, password); len(errs) != 0 {
		return nil, errs, nil
	}

	hash, err := utils.HashPassword(password)
	if err != nil {
		return nil, nil, err
	}

	user := &models.User{Username: username, Email: email, Password: hash}
	err = s.store.Users().Create(ctx, user)
	if errors.Is(err, repository.ErrDuplicateKey) {
		return nil, []utils.FieldError{{Field: "username", Message: "username or email already taken"}}, nil
	}
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}
	return user, nil, nil
}

func (s *UserService) Login(ctx context.Context, username, password string) (*models.User, error) {
	user, err := s.store.Users().FindByUsername(ctx, username)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}

	if !utils.CheckPasswordHash(password, user.Password) {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

func (s *UserService) Get(ctx context.Context, id uint) (*models.User, error) {
	user, err := s.store.Users().FindByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}
	return user, nil
}

// ForgotPassword emails a one-time code. Whether the address exists is
// never revealed to the caller.
func (s *UserService) ForgotPassword(ctx context.Context, email string) error {
	user, err := s.store.Users().FindByEmail(ctx, email)
	if errors.Is(err, repository.ErrNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}

	code := utils.GenerateRandomCode(6)
	user.VerifyCode = code
	if err := s.store.Users().Save(ctx, user); err != nil {
		return fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}

	s.mailer.SendPasswordResetEmail(user.Email, code)
	return nil
}

// ResetPassword trades a valid emailed code for a new password and
// clears the code so it cannot be replayed.
func (s *UserService) ResetPassword(ctx context.Context, email, code, newPassword string) ([]utils.FieldError, error) {
	if len(newPassword) <= 3 {
		return []utils.FieldError{{Field: "password", Message: "password too weak"}}, nil
	}

	user, err := s.store.Users().FindByEmail(ctx, email)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrInvalidResetCode
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}

	if user.VerifyCode == "" || user.VerifyCode != code {
		return nil, ErrInvalidResetCode
	}

	hash, err := utils.HashPassword(newPassword)
	if err != nil {
		return nil, err
	}
	user.Password = hash
	user.VerifyCode = ""
	if err := s.store.Users().Save(ctx, user); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}
	return nil, nil
}

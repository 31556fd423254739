package device

import (
	"context"
	"fmt"

	"golang.org/x/crypto/bcrypt"
	"golang.org/x/exp/slog"
)

type Servicer interface {
	Register(ctx context.Context, name, password string) (int, error)
	Authenticate(ctx context.Context, name, password string) (Device, error)
}

type Service struct {
	repo      Repository
	validator Validator
	log       *slog.Logger
}

func NewService(repo Repository, validator Validator, log *slog.Logger) *Service {
	return &Service{
		repo:      repo,
		validator: validator,
		log:       log,
	}
}

func (s *Service) Register(ctx context.Context, name, password string) (int, error) {
	if err := s.validator.ValidateRegister(name, password); err != nil {
		s.log.Debug("registration rejected", "name", name, "error", err)
		return 0, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return 0, fmt.Errorf("hash password: %w", err)
	}

	return s.repo.Create(ctx, name, string(hash))
}

func (s *Service) Authenticate(ctx context.Context, name, password string) (Device, error) {
	if err := s.validator.ValidateName(name); err != nil {
		return Device{}, ErrInvalidAuth
	}

	d, err := s.repo.FindByName(ctx, name)
	if err != nil {
		return d, ErrNotFound
	}

	if err := bcrypt.CompareHashAndPassword([]byte(d.Password), []byte(password)); err != nil {
		return d, ErrInvalidAuth
	}

	return d, nil
}

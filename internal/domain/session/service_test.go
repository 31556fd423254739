package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/exp/slog"
)

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) Create(ctx context.Context, deviceID int, tokenHash string, expiresAt time.Time) error {
	args := m.Called(ctx, deviceID, tokenHash, expiresAt)
	return args.Error(0)
}

func (m *MockRepository) Validate(ctx context.Context, tokenHash string) (int, error) {
	args := m.Called(ctx, tokenHash)
	return args.Int(0), args.Error(1)
}

func TestServiceCreate(t *testing.T) {
	mockRepo := new(MockRepository)
	service := NewService(mockRepo, slog.Default())

	deviceID := 7

	// The hash is unpredictable; check device id, non-empty hash, and a
	// future expiry.
	mockRepo.On("Create", mock.Anything, deviceID, mock.MatchedBy(func(hash string) bool {
		return hash != ""
	}), mock.MatchedBy(func(expiresAt time.Time) bool {
		return expiresAt.After(time.Now())
	})).Return(nil)

	token, err := service.Create(context.Background(), deviceID)
	assert.NoError(t, err)
	assert.NotEmpty(t, token)
	// 32 random bytes base64-encoded with padding
	assert.Len(t, token, 44)

	mockRepo.AssertExpectations(t)
}

func TestServiceCreateRepositoryError(t *testing.T) {
	mockRepo := new(MockRepository)
	service := NewService(mockRepo, slog.Default())

	mockRepo.On("Create", mock.Anything, 7, mock.AnythingOfType("string"), mock.AnythingOfType("time.Time")).
		Return(errors.New("database error"))

	_, err := service.Create(context.Background(), 7)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "database error")

	mockRepo.AssertExpectations(t)
}

func TestServiceValidate(t *testing.T) {
	mockRepo := new(MockRepository)
	service := NewService(mockRepo, slog.Default())

	mockRepo.On("Validate", mock.Anything, mock.MatchedBy(func(hash string) bool {
		return hash != ""
	})).Return(7, nil)

	deviceID, err := service.Validate(context.Background(), "some_token")
	assert.NoError(t, err)
	assert.Equal(t, 7, deviceID)

	mockRepo.AssertExpectations(t)
}

func TestServiceValidateInvalidToken(t *testing.T) {
	mockRepo := new(MockRepository)
	service := NewService(mockRepo, slog.Default())

	mockRepo.On("Validate", mock.Anything, mock.AnythingOfType("string")).
		Return(0, errors.New("invalid session"))

	_, err := service.Validate(context.Background(), "bogus")
	assert.Error(t, err)

	mockRepo.AssertExpectations(t)
}

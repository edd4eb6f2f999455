package services

import (
	"context"
	"testing"
	"time"

	"cantina/internal/common"
	"cantina/internal/models"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetByEmployeeID(ctx context.Context, employeeID string) (*models.User, error) {
	args := m.Called(ctx, employeeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

type AuthServiceTestSuite struct {
	suite.Suite
	mockRepo *MockUserRepository
	service  AuthService
	ctx      context.Context
	user     *models.User
}

const testJWTSecret = "test-secret"

func (suite *AuthServiceTestSuite) SetupTest() {
	suite.mockRepo = &MockUserRepository{}
	suite.service = NewAuthService(suite.mockRepo, testJWTSecret, func() time.Time {
		return time.Date(2024, 5, 10, 9, 0, 0, 0, time.UTC)
	})
	suite.ctx = context.Background()
	suite.user = &models.User{
		ID:           uuid.New(),
		EmployeeID:   "E1001",
		FullName:     "Alice Zhang",
		PasswordHash: HashPassword("secret123"),
		Role:         models.RoleEmployee,
		IsActive:     true,
	}
}

func TestAuthServiceTestSuite(t *testing.T) {
	suite.Run(t, new(AuthServiceTestSuite))
}

func (suite *AuthServiceTestSuite) TestLogin() {
	suite.mockRepo.On("GetByEmployeeID", suite.ctx, "E1001").Return(suite.user, nil)

	token, user, err := suite.service.Login(suite.ctx, "E1001", "secret123")

	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), suite.user.ID, user.ID)

	parsed, err := jwt.Parse(token, func(t *jwt.Token) (any, error) {
		return []byte(testJWTSecret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(func() time.Time {
		return time.Date(2024, 5, 10, 9, 1, 0, 0, time.UTC)
	}))
	assert.NoError(suite.T(), err)

	claims := parsed.Claims.(jwt.MapClaims)
	assert.Equal(suite.T(), suite.user.ID.String(), claims["sub"])
	assert.Equal(suite.T(), models.RoleEmployee, claims["role"])
}

func (suite *AuthServiceTestSuite) TestLogin_WrongPassword() {
	suite.mockRepo.On("GetByEmployeeID", suite.ctx, "E1001").Return(suite.user, nil)

	_, _, err := suite.service.Login(suite.ctx, "E1001", "wrong")
	assert.ErrorIs(suite.T(), err, common.ErrInvalidPassword)
}

func (suite *AuthServiceTestSuite) TestLogin_UnknownEmployee() {
	suite.mockRepo.On("GetByEmployeeID", suite.ctx, "E9999").Return(nil, nil)

	// An unknown account gets the same rejection as a wrong password.
	_, _, err := suite.service.Login(suite.ctx, "E9999", "secret123")
	assert.ErrorIs(suite.T(), err, common.ErrInvalidPassword)
}

func (suite *AuthServiceTestSuite) TestLogin_EmptyCredentials() {
	_, _, err := suite.service.Login(suite.ctx, "", "")
	assert.ErrorIs(suite.T(), err, common.ErrInvalidParam)
}

func (suite *AuthServiceTestSuite) TestGetUserInfo_NotFound() {
	userID := uuid.New()
	suite.mockRepo.On("GetByID", suite.ctx, userID).Return(nil, nil)

	_, err := suite.service.GetUserInfo(suite.ctx, userID)
	assert.ErrorIs(suite.T(), err, common.ErrUserNotFound)
}

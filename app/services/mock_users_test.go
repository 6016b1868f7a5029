package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/shashiranjanraj/storegraph/app/models"
	"github.com/shashiranjanraj/storegraph/pkg/auth"
)

// ─── mockUsers: testify-backed UserRepository ────────────────────────────────

type mockUsers struct {
	mock.Mock
}

func (m *mockUsers) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	args := m.Called(ctx, username)
	u, _ := args.Get(0).(*models.User)
	return u, args.Error(1)
}

func (m *mockUsers) FindByID(ctx context.Context, id string) (*models.User, error) {
	args := m.Called(ctx, id)
	u, _ := args.Get(0).(*models.User)
	return u, args.Error(1)
}

func (m *mockUsers) All(ctx context.Context, id string) ([]*models.User, error) {
	args := m.Called(ctx, id)
	us, _ := args.Get(0).([]*models.User)
	return us, args.Error(1)
}

func (m *mockUsers) Create(ctx context.Context, u *models.User) error {
	return m.Called(ctx, u).Error(0)
}

func (m *mockUsers) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func TestRegisterNeverStoresPlainPassword(t *testing.T) {
	users := new(mockUsers)
	users.On("Create", mock.Anything, mock.MatchedBy(func(u *models.User) bool {
		return u.Username == "eve" && u.Password != "secret" && auth.CheckPassword(u.Password, "secret")
	})).Return(nil).Once()

	svc := NewAuthService(users, auth.NewIssuer("mock", time.Hour))
	msg, err := svc.Register(context.Background(), "eve", "e@x.io", "secret", false)

	require.NoError(t, err)
	assert.Equal(t, RegisteredMessage, msg)
	users.AssertExpectations(t)
}

func TestLoginStoreErrorIsNotUserNotFound(t *testing.T) {
	users := new(mockUsers)
	users.On("FindByUsername", mock.Anything, "eve").Return(nil, errors.New("socket closed")).Once()

	svc := NewAuthService(users, auth.NewIssuer("mock", time.Hour))
	_, err := svc.Login(context.Background(), "eve", "secret")

	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrUserNotFound)
	users.AssertExpectations(t)
}

func TestAuthenticateLooksUpSubject(t *testing.T) {
	issuer := auth.NewIssuer("mock", time.Hour)
	id := primitive.NewObjectID()
	token, err := issuer.Issue(id.Hex())
	require.NoError(t, err)

	users := new(mockUsers)
	users.On("FindByID", mock.Anything, id.Hex()).
		Return(&models.User{ID: id, Username: "eve", IsAdmin: true}, nil).Once()

	ident, err := NewAuthService(users, issuer).Authenticate(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, &auth.Identity{UserID: id.Hex(), Username: "eve", IsAdmin: true}, ident)
	users.AssertExpectations(t)
}

func TestAuthenticateStoreErrorIsNotInvalidToken(t *testing.T) {
	issuer := auth.NewIssuer("mock", time.Hour)
	token, err := issuer.Issue(primitive.NewObjectID().Hex())
	require.NoError(t, err)

	users := new(mockUsers)
	users.On("FindByID", mock.Anything, mock.Anything).Return(nil, errors.New("timeout"))

	_, err = NewAuthService(users, issuer).Authenticate(context.Background(), token)
	require.Error(t, err)
	assert.NotErrorIs(t, err, auth.ErrInvalidToken)
}

package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/aya-loyalty/aya-api/internal/domain"
	"github.com/aya-loyalty/aya-api/internal/repository"
)

type fakeAuthRepository struct {
	users map[string]domain.User
}

func newFakeAuthRepository() *fakeAuthRepository {
	return &fakeAuthRepository{users: make(map[string]domain.User)}
}

func (f *fakeAuthRepository) Create(_ context.Context, user domain.User) (domain.User, error) {
	if _, ok := f.users[user.Email]; ok {
		return domain.User{}, repository.ErrUserEmailExists
	}

	user.ID = uint(len(f.users) + 1)
	f.users[user.Email] = user

	return user, nil
}

func (f *fakeAuthRepository) FindByEmail(_ context.Context, email string) (domain.User, error) {
	user, ok := f.users[email]
	if !ok {
		return domain.User{}, repository.ErrUserNotFound
	}

	return user, nil
}

func TestAuthService_Signup(t *testing.T) {
	repo := newFakeAuthRepository()
	svc := NewAuthService(repo)

	created, err := svc.Signup(context.Background(), domain.User{
		Email:    "alex@example.com",
		Password: "password1",
		Name:     "Alex",
	})

	require.NoError(t, err)
	assert.Equal(t, domain.RoleUser, created.Role)
	assert.NotEqual(t, "password1", created.Password)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(created.Password), []byte("password1")))
}

func TestAuthService_Signup_DuplicateEmail(t *testing.T) {
	repo := newFakeAuthRepository()
	svc := NewAuthService(repo)

	_, err := svc.Signup(context.Background(), domain.User{Email: "alex@example.com", Password: "password1"})
	require.NoError(t, err)

	_, err = svc.Signup(context.Background(), domain.User{Email: "alex@example.com", Password: "password2"})
	assert.ErrorIs(t, err, ErrUserEmailExists)
}

func TestAuthService_Login(t *testing.T) {
	repo := newFakeAuthRepository()
	svc := NewAuthService(repo)

	_, err := svc.Signup(context.Background(), domain.User{Email: "alex@example.com", Password: "password1"})
	require.NoError(t, err)

	user, err := svc.Login(context.Background(), "alex@example.com", "password1")
	require.NoError(t, err)
	assert.Equal(t, "alex@example.com", user.Email)

	_, err = svc.Login(context.Background(), "alex@example.com", "wrong")
	assert.ErrorIs(t, err, ErrWrongPassword)

	_, err = svc.Login(context.Background(), "nobody@example.com", "password1")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

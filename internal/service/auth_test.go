package service

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/templui/profiledesk/internal/model"
)

func newAuth(t *testing.T) (*AuthService, *fakeUsers) {
	t.Helper()
	users := newFakeUsers()
	email := NewEmailService("", "noreply@example.com", "http://localhost:3000", "Profiledesk", true)
	return NewAuthService(users, email, "test-secret", time.Hour, false), users
}

func validRegistration() RegisterInput {
	return RegisterInput{
		Username: "ana",
		Password: "correct horse",
		Email:    "Ana@Example.com",
		Name:     "Ana Lima",
		Year:     "3",
	}
}

func TestRegister(t *testing.T) {
	auth, users := newAuth(t)
	logs := captureLogs(t)

	user, err := auth.Register(context.Background(), validRegistration())
	require.NoError(t, err)

	stored := users.get(t, user.ID)
	assert.Equal(t, "ana@example.com", stored.Email)
	assert.Equal(t, "Ana Lima", stored.FullName)
	assert.Equal(t, model.DefaultProfilePhoto, stored.ProfilePhoto)
	assert.NotEqual(t, "correct horse", stored.PasswordHash)
	require.NoError(t, auth.ComparePassword("correct horse", stored.PasswordHash))
	assert.Contains(t, logs.String(), "type=welcome")
}

func TestRegister_Duplicate(t *testing.T) {
	auth, _ := newAuth(t)
	ctx := context.Background()

	_, err := auth.Register(ctx, validRegistration())
	require.NoError(t, err)

	sameName := validRegistration()
	sameName.Email = "other@example.com"
	_, err = auth.Register(ctx, sameName)
	require.ErrorIs(t, err, ErrUsernameOrEmailTaken)

	sameEmail := validRegistration()
	sameEmail.Username = "other"
	_, err = auth.Register(ctx, sameEmail)
	require.ErrorIs(t, err, ErrUsernameOrEmailTaken)
}

func TestRegister_Validation(t *testing.T) {
	auth, _ := newAuth(t)

	for name, mutate := range map[string]func(*RegisterInput){
		"no username":  func(in *RegisterInput) { in.Username = "" },
		"no password":  func(in *RegisterInput) { in.Password = "" },
		"bad email":    func(in *RegisterInput) { in.Email = "ana" },
		"no name":      func(in *RegisterInput) { in.Name = "  " },
		"spaced login": func(in *RegisterInput) { in.Username = "ana lima" },
	} {
		t.Run(name, func(t *testing.T) {
			in := validRegistration()
			mutate(&in)
			_, err := auth.Register(context.Background(), in)
			require.ErrorIs(t, err, ErrValidation)
		})
	}
}

func TestLogin(t *testing.T) {
	auth, _ := newAuth(t)
	ctx := context.Background()

	registered, err := auth.Register(ctx, validRegistration())
	require.NoError(t, err)

	user, err := auth.Login(ctx, "ana", "correct horse")
	require.NoError(t, err)
	assert.Equal(t, registered.ID, user.ID)

	_, err = auth.Login(ctx, "ana", "wrong")
	require.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = auth.Login(ctx, "nobody", "correct horse")
	require.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestJWT_RoundTrip(t *testing.T) {
	auth, _ := newAuth(t)

	token, err := auth.GenerateJWT(&model.User{ID: "u-1"})
	require.NoError(t, err)

	userID, err := auth.UserIDFromToken(token)
	require.NoError(t, err)
	assert.Equal(t, "u-1", userID)
}

func TestJWT_Rejects(t *testing.T) {
	auth, _ := newAuth(t)

	other := NewAuthService(nil, nil, "other-secret", time.Hour, false)
	foreign, err := other.GenerateJWT(&model.User{ID: "u-1"})
	require.NoError(t, err)
	_, err = auth.UserIDFromToken(foreign)
	require.Error(t, err)

	expired := NewAuthService(nil, nil, "test-secret", -time.Minute, false)
	old, err := expired.GenerateJWT(&model.User{ID: "u-1"})
	require.NoError(t, err)
	_, err = auth.UserIDFromToken(old)
	require.ErrorIs(t, err, jwt.ErrTokenExpired)

	noID, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"exp": time.Now().Add(time.Hour).Unix()}).
		SignedString([]byte("test-secret"))
	require.NoError(t, err)
	_, err = auth.UserIDFromToken(noID)
	require.Error(t, err)

	_, err = auth.UserIDFromToken("garbage")
	require.Error(t, err)
}

func TestSessionCookies(t *testing.T) {
	auth, _ := newAuth(t)

	rec := httptest.NewRecorder()
	require.NoError(t, auth.StartSession(rec, &model.User{ID: "u-1"}))

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, SessionCookie, cookies[0].Name)
	assert.True(t, cookies[0].HttpOnly)
	assert.False(t, cookies[0].Secure)

	userID, err := auth.UserIDFromToken(cookies[0].Value)
	require.NoError(t, err)
	assert.Equal(t, "u-1", userID)

	rec = httptest.NewRecorder()
	auth.ClearSessionCookie(rec)
	cleared := rec.Result().Cookies()
	require.Len(t, cleared, 1)
	assert.Empty(t, cleared[0].Value)
	assert.Negative(t, cleared[0].MaxAge)
}

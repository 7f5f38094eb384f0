package services

import (
	stderrors "errors"
	"testing"
	"time"

	"dm-lab/auth"
	"dm-lab/errors"
	"dm-lab/mocks"
	"dm-lab/repositories"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestAuthService_Register(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := mocks.NewMockIUserRepository(ctrl)
	svc := NewAuthService(mockRepo, time.Hour)

	t.Run("should register successfully when input is valid", func(t *testing.T) {
		req := require.New(t)
		in := auth.RegistrationInput{
			Username:        "alice",
			Email:           "alice@example.com",
			Password:        "secret1",
			ConfirmPassword: "secret1",
		}

		// The repository must receive a hash, never the plain password.
		mockRepo.EXPECT().
			CreateUser("alice", "alice@example.com", gomock.Any()).
			DoAndReturn(func(username, email, hashedPassword string) (repositories.User, error) {
				require.NotEqual(t, in.Password, hashedPassword)
				require.True(t, auth.ComparePassword(in.Password, hashedPassword))
				return repositories.User{
					Username:     username,
					Email:        email,
					PasswordHash: hashedPassword,
					CreatedAt:    time.Now().UTC(),
				}, nil
			}).
			Times(1)

		user, err := svc.Register(in)

		req.NoError(err)
		req.Equal("alice", user.Username)
		req.Equal("alice@example.com", user.Email)
	})

	t.Run("should fail with a field error when passwords do not match", func(t *testing.T) {
		req := require.New(t)
		in := auth.RegistrationInput{
			Username:        "alice",
			Email:           "alice@example.com",
			Password:        "secret1",
			ConfirmPassword: "secret2",
		}

		// The repository must never be reached.
		mockRepo.EXPECT().CreateUser(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

		_, err := svc.Register(in)

		var fields errors.FieldErrors
		req.ErrorAs(err, &fields)
		req.Contains(fields, "confirmPassword")
	})

	t.Run("should translate uniqueness conflicts into field errors", func(t *testing.T) {
		req := require.New(t)
		in := auth.RegistrationInput{
			Username:        "alice",
			Email:           "alice@example.com",
			Password:        "secret1",
			ConfirmPassword: "secret1",
		}

		mockRepo.EXPECT().
			CreateUser("alice", "alice@example.com", gomock.Any()).
			Return(repositories.User{}, stderrors.Join(errors.ErrUsernameTaken, errors.ErrEmailTaken)).
			Times(1)

		_, err := svc.Register(in)

		var fields errors.FieldErrors
		req.ErrorAs(err, &fields)
		req.Equal("username is already taken", fields["username"])
		req.Equal("email is already taken", fields["email"])
	})
}

func TestAuthService_Login(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := mocks.NewMockIUserRepository(ctrl)
	svc := NewAuthService(mockRepo, time.Hour)

	t.Run("should login successfully with correct credentials", func(t *testing.T) {
		req := require.New(t)
		password := "secret1"

		hashedPassword, err := auth.HashPassword(password)
		req.NoError(err)
		storedUser := repositories.User{
			Username:     "alice",
			Email:        "alice@example.com",
			PasswordHash: hashedPassword,
			CreatedAt:    time.Now().UTC(),
		}

		mockRepo.EXPECT().
			GetUserByUsername("alice").
			Return(storedUser, true, nil).
			Times(1)

		result, err := svc.Login("alice", password)

		req.NoError(err)
		req.Equal("alice", result.User.Username)
		req.NotEmpty(result.Token)

		// The token carries exactly the identity claims and a one hour expiry.
		claims, err := auth.ValidateToken(result.Token)
		req.NoError(err)
		req.Equal("alice", claims.Username)
		req.Equal("alice@example.com", claims.Email)
		req.WithinDuration(time.Now().Add(time.Hour), claims.ExpiresAt.Time, 5*time.Second)
	})

	t.Run("should surface an unknown user as a username field error", func(t *testing.T) {
		req := require.New(t)

		mockRepo.EXPECT().
			GetUserByUsername("ghost").
			Return(repositories.User{}, false, nil).
			Times(1)

		_, err := svc.Login("ghost", "whatever")

		var fields errors.FieldErrors
		req.ErrorAs(err, &fields)
		req.Equal("User not found", fields["username"])
	})

	t.Run("should surface a wrong password as a password field error", func(t *testing.T) {
		req := require.New(t)

		hashedPassword, err := auth.HashPassword("correctpass")
		req.NoError(err)
		storedUser := repositories.User{
			Username:     "alice",
			Email:        "alice@example.com",
			PasswordHash: hashedPassword,
		}

		mockRepo.EXPECT().
			GetUserByUsername("alice").
			Return(storedUser, true, nil).
			Times(1)

		result, err := svc.Login("alice", "wrongpass")

		var fields errors.FieldErrors
		req.ErrorAs(err, &fields)
		req.Equal("Password is incorrect", fields["password"])
		req.Empty(result.Token)
	})

	t.Run("should fail with field errors when input is empty", func(t *testing.T) {
		req := require.New(t)

		mockRepo.EXPECT().GetUserByUsername(gomock.Any()).Times(0)

		_, err := svc.Login("", "")

		var fields errors.FieldErrors
		req.ErrorAs(err, &fields)
		req.Contains(fields, "username")
		req.Contains(fields, "password")
	})
}

package services

import (
	"fmt"
	"time"

	"dm-lab/auth"
	"dm-lab/domain"
	"dm-lab/errors"
	"dm-lab/repositories"
)

type IAuthService interface {
	Register(in auth.RegistrationInput) (domain.User, error)
	Login(username, password string) (LoginResult, error)
}

// LoginResult is the user record merged with the freshly issued session token.
type LoginResult struct {
	User  domain.User
	Token string
}

type AuthService struct {
	userRepository repositories.IUserRepository
	tokenDuration  time.Duration
}

func NewAuthService(repo repositories.IUserRepository, tokenDuration time.Duration) IAuthService {
	return &AuthService{userRepository: repo, tokenDuration: tokenDuration}
}

// Register creates a new account: validate, hash, persist.
// Uniqueness conflicts reported by the store are translated into the
// field-scoped "already taken" messages before reaching the caller.
func (s *AuthService) Register(in auth.RegistrationInput) (domain.User, error) {
	// 1. Validate input before any expensive cryptographic operation.
	if fields := auth.ValidateRegistration(in); fields != nil {
		return domain.User{}, fields
	}

	// 2. Hash the password. Done in the service layer to keep the
	// repository unaware of plain passwords.
	hashedPassword, err := auth.HashPassword(in.Password)
	if err != nil {
		return domain.User{}, fmt.Errorf("hashing failed: %w", err)
	}

	// 3. Persist the user with the generated hash.
	user, err := s.userRepository.CreateUser(in.Username, in.Email, hashedPassword)
	if err != nil {
		if fields := errors.ConflictFields(err); fields != nil {
			return domain.User{}, fields
		}
		return domain.User{}, err
	}

	return user.ToDomain(), nil
}

// Login verifies credentials and issues a session token. A missing user and
// a wrong password both come back as field errors, never as a distinct
// "not found" kind, so the response shape leaks nothing about which part
// was wrong beyond what the field itself says.
func (s *AuthService) Login(username, password string) (LoginResult, error) {
	// 1. Validate input shape.
	if fields := auth.ValidateLogin(auth.LoginInput{Username: username, Password: password}); fields != nil {
		return LoginResult{}, fields
	}

	// 2. Retrieve the user from storage.
	user, found, err := s.userRepository.GetUserByUsername(username)
	if err != nil {
		return LoginResult{}, fmt.Errorf("user lookup failed: %w", err)
	}
	if !found {
		return LoginResult{}, errors.FieldErrors{"username": "User not found"}
	}

	// 3. Compare the provided password with the stored hash.
	if !auth.ComparePassword(password, user.PasswordHash) {
		return LoginResult{}, errors.FieldErrors{"password": "Password is incorrect"}
	}

	// 4. Issue the session token. Its expiry is fixed here and never
	// renewed server-side.
	token, err := auth.GenerateToken(user.Username, user.Email, s.tokenDuration)
	if err != nil {
		return LoginResult{}, errors.ErrTokenGeneration
	}

	return LoginResult{User: user.ToDomain(), Token: token}, nil
}

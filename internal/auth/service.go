package auth

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	apperrors "github.com/pinmapa/pinmapa-backend/internal/errors"
	"github.com/pinmapa/pinmapa-backend/internal/token"
	"github.com/pinmapa/pinmapa-backend/internal/users"
	"github.com/sirupsen/logrus"
)

var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// AuthService implements the identity issuance flows: registration, login,
// profile updates and current-user lookup. Every successful flow ends in the
// token manager minting a fresh token from {user_id, username, email}.
type AuthService struct {
	users  users.Repository
	tokens *token.Manager
	logger *logrus.Logger
}

// NewAuthService creates a new AuthService with the given repository and
// token manager. This enables dependency injection and testability.
func NewAuthService(repo users.Repository, tokens *token.Manager, logger *logrus.Logger) *AuthService {
	return &AuthService{
		users:  repo,
		tokens: tokens,
		logger: logger,
	}
}

// Register validates and creates a new account, then mints a token
// immediately so no separate login round-trip is needed.
func (s *AuthService) Register(ctx context.Context, req RegisterRequest) (*Session, error) {
	username := strings.TrimSpace(req.Username)
	email := normalizeEmail(req.Email)
	if username == "" || email == "" || req.Password == "" {
		return nil, apperrors.ErrMissingFields
	}
	if !emailPattern.MatchString(email) {
		return nil, apperrors.ErrInvalidEmail
	}
	if n := utf8.RuneCountInString(username); n < 3 || n > 50 {
		return nil, apperrors.ErrUsernameLength
	}
	if len(req.Password) < 6 {
		return nil, apperrors.ErrPasswordTooShort
	}

	taken, err := s.users.ExistsByEmailOrUsername(ctx, email, username)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, apperrors.ErrDuplicateUser
	}

	hash, err := HashPassword(req.Password)
	if err != nil {
		return nil, err
	}
	user, err := s.users.Create(ctx, users.CreateUserParams{
		Username: username,
		Email:    email,
		Password: hash,
	})
	if err != nil {
		// The existence probe races with concurrent registrations; the
		// unique constraints are the authority.
		if apperrors.IsUniqueViolation(err) {
			return nil, apperrors.ErrDuplicateUser
		}
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"user_id":  user.ID,
		"username": user.Username,
	}).Info("user registered")
	return s.newSession(user, false)
}

// Login verifies the submitted credentials and mints a token from the
// stored identity fields. Unknown email and wrong password produce the same
// error so the response never reveals which one was wrong.
func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*Session, error) {
	email := normalizeEmail(req.Email)
	if email == "" || req.Password == "" {
		return nil, apperrors.ErrMissingCredentials
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user == nil || !CheckPassword(req.Password, user.Password) {
		return nil, apperrors.ErrInvalidCredentials
	}

	s.logger.WithField("user_id", user.ID).Info("user logged in")
	return s.newSession(user, false)
}

// CurrentUser loads the fresh record behind a verified identity.
func (s *AuthService) CurrentUser(ctx context.Context, userID int64) (*UserPayload, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperrors.ErrUserNotFound
	}
	payload := publicUser(user, true)
	return &payload, nil
}

// UpdateProfile applies a partial update to username, email and/or password
// and mints a replacement token carrying the new claims. Previously issued
// tokens stay valid until their own expiry; there is no revocation store.
func (s *AuthService) UpdateProfile(ctx context.Context, userID int64, req UpdateProfileRequest) (*Session, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperrors.ErrUserNotFound
	}

	params := users.UpdateUserParams{ID: user.ID}

	if username := strings.TrimSpace(req.Username); username != "" {
		if n := utf8.RuneCountInString(username); n < 3 || n > 50 {
			return nil, apperrors.ErrUsernameLength
		}
		taken, err := s.users.UsernameTaken(ctx, username, user.ID)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, apperrors.ErrUsernameTaken
		}
		params.Username = &username
	}

	if email := normalizeEmail(req.Email); email != "" {
		if !emailPattern.MatchString(email) {
			return nil, apperrors.ErrInvalidEmail
		}
		taken, err := s.users.EmailTaken(ctx, email, user.ID)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, apperrors.ErrEmailTaken
		}
		params.Email = &email
	}

	if req.NewPassword != "" {
		if req.CurrentPassword == "" {
			return nil, apperrors.ErrCurrentPasswordMissing
		}
		if !CheckPassword(req.CurrentPassword, user.Password) {
			return nil, apperrors.ErrCurrentPasswordMismatch
		}
		if len(req.NewPassword) < 6 {
			return nil, apperrors.ErrNewPasswordTooShort
		}
		hash, err := HashPassword(req.NewPassword)
		if err != nil {
			return nil, err
		}
		params.Password = &hash
	}

	if params.Username == nil && params.Email == nil && params.Password == nil {
		return nil, apperrors.ErrNothingToUpdate
	}

	updated, err := s.users.Update(ctx, params)
	if err != nil {
		if apperrors.IsUniqueViolation(err) {
			return nil, apperrors.ErrDuplicateUser
		}
		return nil, err
	}

	s.logger.WithField("user_id", updated.ID).Info("profile updated")
	return s.newSession(updated, true)
}

func (s *AuthService) newSession(user *users.User, withCreatedAt bool) (*Session, error) {
	tok, err := s.tokens.Generate(token.CreateTokenParams{
		UserID:   user.ID,
		Username: user.Username,
		Email:    user.Email,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}
	return &Session{Token: tok, User: publicUser(user, withCreatedAt)}, nil
}

func publicUser(u *users.User, withCreatedAt bool) UserPayload {
	payload := UserPayload{ID: u.ID, Username: u.Username, Email: u.Email}
	if withCreatedAt {
		payload.CreatedAt = u.CreatedAt.UTC().Format(time.RFC3339)
	}
	return payload
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

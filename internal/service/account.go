package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/PaulBabatuyi/chatapp-rest/internal/apperr"
	"github.com/PaulBabatuyi/chatapp-rest/internal/auth"
	"github.com/PaulBabatuyi/chatapp-rest/internal/data"
	"github.com/PaulBabatuyi/chatapp-rest/internal/metrics"
	"github.com/PaulBabatuyi/chatapp-rest/internal/normalize"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.uber.org/zap"
)

// SignupParams carries a validated signup request.
type SignupParams struct {
	Email    string
	Password string
	Username string
	Info     string
	Age      int
}

// LoginResult is returned on a successful login.
type LoginResult struct {
	Token string
	User  *data.User
}

// Account handles signup, login and user lookups.
type Account struct {
	users  UserStore
	tokens TokenIssuer
	logger *zap.Logger
}

func NewAccount(users UserStore, tokens TokenIssuer, logger *zap.Logger) *Account {
	return &Account{users: users, tokens: tokens, logger: logger}
}

// Signup creates a user and returns its id.
func (a *Account) Signup(ctx context.Context, p SignupParams) (bson.ObjectID, error) {
	email := normalize.Email(p.Email)
	a.logger.Debug("Account service: signup", zap.String("email", email))

	// bcrypt counts bytes, so multibyte passwords can pass request validation
	// and still be too long
	if len(p.Password) > auth.MaxPasswordBytes {
		metrics.RecordSignup("invalid")
		return bson.ObjectID{}, ErrPasswordTooLong
	}

	exists, err := a.users.UserExists(ctx, email)
	if err != nil {
		a.logger.Error("Account service: failed to check user existence",
			zap.String("email", email),
			zap.Error(err))
		return bson.ObjectID{}, apperr.Internal(fmt.Errorf("check user exists: %w", err))
	}
	if exists {
		a.logger.Info("Account service: email already registered", zap.String("email", email))
		metrics.RecordSignup("conflict")
		return bson.ObjectID{}, ErrUserExists
	}

	hashed, err := auth.HashPassword(p.Password)
	if err != nil {
		if errors.Is(err, auth.ErrPasswordTooLong) {
			return bson.ObjectID{}, ErrPasswordTooLong.Wrap(err)
		}
		return bson.ObjectID{}, apperr.Internal(fmt.Errorf("hash password: %w", err))
	}

	user, err := a.users.CreateUser(ctx, &data.User{
		Email:    email,
		Password: hashed,
		Username: p.Username,
		Info:     p.Info,
		Age:      p.Age,
	})
	if err != nil {
		if errors.Is(err, data.ErrDuplicateEmail) {
			a.logger.Info("Account service: concurrent signup lost", zap.String("email", email))
			metrics.RecordSignup("conflict")
			return bson.ObjectID{}, ErrUserExists.Wrap(err)
		}
		a.logger.Error("Account service: failed to create user",
			zap.String("email", email),
			zap.Error(err))
		return bson.ObjectID{}, apperr.Internal(fmt.Errorf("create user: %w", err))
	}

	a.logger.Info("Account service: user created",
		zap.String("email", email),
		zap.String("user_id", user.ID.Hex()))
	metrics.RecordSignup("success")
	return user.ID, nil
}

// Login checks credentials, issues a session token and rotates the stored
// refresh token. Unknown email and wrong password fail the same way.
func (a *Account) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	email = normalize.Email(email)

	user, err := a.users.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, data.ErrUserNotFound) {
			a.logger.Info("Account service: login for unknown email", zap.String("email", email))
			metrics.RecordLogin("invalid_credentials")
			return nil, ErrInvalidCredentials
		}
		a.logger.Error("Account service: failed to get user by email",
			zap.String("email", email),
			zap.Error(err))
		return nil, apperr.Internal(fmt.Errorf("get user by email: %w", err))
	}

	if err := auth.CheckPassword(user.Password, password); err != nil {
		a.logger.Info("Account service: wrong password", zap.String("email", email))
		metrics.RecordLogin("invalid_credentials")
		return nil, ErrInvalidCredentials
	}

	token, _, err := a.tokens.GenerateToken(user.ID, user.Email)
	if err != nil {
		return nil, apperr.Internal(fmt.Errorf("generate token: %w", err))
	}

	refresh, err := auth.NewRefreshToken()
	if err != nil {
		return nil, apperr.Internal(fmt.Errorf("generate refresh token: %w", err))
	}
	if err := a.users.SetRefreshToken(ctx, user.ID, refresh); err != nil {
		a.logger.Error("Account service: failed to store refresh token",
			zap.String("user_id", user.ID.Hex()),
			zap.Error(err))
		return nil, apperr.Internal(fmt.Errorf("set refresh token: %w", err))
	}
	user.RefreshToken = refresh

	a.logger.Info("Account service: user logged in", zap.String("user_id", user.ID.Hex()))
	metrics.RecordLogin("success")
	return &LoginResult{Token: token, User: user}, nil
}

// FindAll returns summaries of every user whose email contains pattern.
func (a *Account) FindAll(ctx context.Context, pattern string) ([]data.UserSummary, error) {
	users, err := a.users.FindByEmailSubstring(ctx, pattern)
	if err != nil {
		a.logger.Error("Account service: failed to search users",
			zap.String("pattern", pattern),
			zap.Error(err))
		return nil, apperr.Internal(fmt.Errorf("find users: %w", err))
	}
	return users, nil
}

// GetUserID resolves an email to a user id.
func (a *Account) GetUserID(ctx context.Context, email string) (bson.ObjectID, error) {
	user, err := a.users.GetUserByEmail(ctx, normalize.ID(email))
	if err != nil {
		if errors.Is(err, data.ErrUserNotFound) {
			return bson.ObjectID{}, ErrUnknownEmail
		}
		return bson.ObjectID{}, apperr.Internal(fmt.Errorf("get user by email: %w", err))
	}
	return user.ID, nil
}

// GetFriends returns the full user document, friend edges included.
func (a *Account) GetFriends(ctx context.Context, rawID string) (*data.User, error) {
	id, err := parseID(rawID)
	if err != nil {
		return nil, err
	}

	user, err := a.users.GetUserByID(ctx, id)
	if err != nil {
		if errors.Is(err, data.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		a.logger.Error("Account service: failed to get user by id",
			zap.String("user_id", id.Hex()),
			zap.Error(err))
		return nil, apperr.Internal(fmt.Errorf("get user by id: %w", err))
	}
	return user, nil
}

// Package mocks provides testify mocks for the service and handler
// dependencies.
package mocks

import (
	"context"
	"time"

	"github.com/PaulBabatuyi/chatapp-rest/internal/data"
	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/v2/bson"
)

// TestingT is what the constructors need from *testing.T.
type TestingT interface {
	mock.TestingT
	Cleanup(func())
}

// UserStore mocks service.UserStore.
type UserStore struct {
	mock.Mock
}

func NewUserStore(t TestingT) *UserStore {
	m := &UserStore{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *UserStore) CreateUser(ctx context.Context, user *data.User) (*data.User, error) {
	args := m.Called(ctx, user)
	u, _ := args.Get(0).(*data.User)
	return u, args.Error(1)
}

func (m *UserStore) UserExists(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}

func (m *UserStore) GetUserByEmail(ctx context.Context, email string) (*data.User, error) {
	args := m.Called(ctx, email)
	u, _ := args.Get(0).(*data.User)
	return u, args.Error(1)
}

func (m *UserStore) GetUserByID(ctx context.Context, id bson.ObjectID) (*data.User, error) {
	args := m.Called(ctx, id)
	u, _ := args.Get(0).(*data.User)
	return u, args.Error(1)
}

func (m *UserStore) SetRefreshToken(ctx context.Context, id bson.ObjectID, token string) error {
	args := m.Called(ctx, id, token)
	return args.Error(0)
}

func (m *UserStore) FindByEmailSubstring(ctx context.Context, pattern string) ([]data.UserSummary, error) {
	args := m.Called(ctx, pattern)
	s, _ := args.Get(0).([]data.UserSummary)
	return s, args.Error(1)
}

func (m *UserStore) AddPendingFriend(ctx context.Context, ownerID bson.ObjectID, friendEmail string) (bool, error) {
	args := m.Called(ctx, ownerID, friendEmail)
	return args.Bool(0), args.Error(1)
}

func (m *UserStore) AcceptFriend(ctx context.Context, ownerID bson.ObjectID, friendEmail string) (bool, error) {
	args := m.Called(ctx, ownerID, friendEmail)
	return args.Bool(0), args.Error(1)
}

func (m *UserStore) EnsureAcceptedFriend(ctx context.Context, ownerID bson.ObjectID, friendEmail string) error {
	args := m.Called(ctx, ownerID, friendEmail)
	return args.Error(0)
}

// ChatStore mocks service.ChatStore.
type ChatStore struct {
	mock.Mock
}

func NewChatStore(t TestingT) *ChatStore {
	m := &ChatStore{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *ChatStore) CreateChat(ctx context.Context, a, b string) (bool, error) {
	args := m.Called(ctx, a, b)
	return args.Bool(0), args.Error(1)
}

// MessageStore mocks service.MessageStore.
type MessageStore struct {
	mock.Mock
}

func NewMessageStore(t TestingT) *MessageStore {
	m := &MessageStore{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MessageStore) SaveMessage(ctx context.Context, from, to, text string) (*data.Message, error) {
	args := m.Called(ctx, from, to, text)
	msg, _ := args.Get(0).(*data.Message)
	return msg, args.Error(1)
}

func (m *MessageStore) GetMessages(ctx context.Context, a, b string) ([]*data.Message, error) {
	args := m.Called(ctx, a, b)
	msgs, _ := args.Get(0).([]*data.Message)
	return msgs, args.Error(1)
}

// TokenIssuer mocks service.TokenIssuer.
type TokenIssuer struct {
	mock.Mock
}

func NewTokenIssuer(t TestingT) *TokenIssuer {
	m := &TokenIssuer{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *TokenIssuer) GenerateToken(userID bson.ObjectID, email string) (string, time.Time, error) {
	args := m.Called(userID, email)
	exp, _ := args.Get(1).(time.Time)
	return args.String(0), exp, args.Error(2)
}

// Transactor mocks service.Transactor. Run executes fn unless a Return
// error is configured.
type Transactor struct {
	mock.Mock
}

func NewTransactor(t TestingT) *Transactor {
	m := &Transactor{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *Transactor) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	args := m.Called(ctx, fn)
	if err := args.Error(0); err != nil {
		return err
	}
	return fn(ctx)
}

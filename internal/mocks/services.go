package mocks

import (
	"context"

	"github.com/PaulBabatuyi/chatapp-rest/internal/data"
	"github.com/PaulBabatuyi/chatapp-rest/internal/service"
	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/v2/bson"
)

// Account mocks the account service used by the HTTP handlers.
type Account struct {
	mock.Mock
}

func NewAccount(t TestingT) *Account {
	m := &Account{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *Account) Signup(ctx context.Context, p service.SignupParams) (bson.ObjectID, error) {
	args := m.Called(ctx, p)
	id, _ := args.Get(0).(bson.ObjectID)
	return id, args.Error(1)
}

func (m *Account) Login(ctx context.Context, email, password string) (*service.LoginResult, error) {
	args := m.Called(ctx, email, password)
	r, _ := args.Get(0).(*service.LoginResult)
	return r, args.Error(1)
}

func (m *Account) FindAll(ctx context.Context, pattern string) ([]data.UserSummary, error) {
	args := m.Called(ctx, pattern)
	s, _ := args.Get(0).([]data.UserSummary)
	return s, args.Error(1)
}

func (m *Account) GetUserID(ctx context.Context, email string) (bson.ObjectID, error) {
	args := m.Called(ctx, email)
	id, _ := args.Get(0).(bson.ObjectID)
	return id, args.Error(1)
}

func (m *Account) GetFriends(ctx context.Context, rawID string) (*data.User, error) {
	args := m.Called(ctx, rawID)
	u, _ := args.Get(0).(*data.User)
	return u, args.Error(1)
}

// Social mocks the social graph service.
type Social struct {
	mock.Mock
}

func NewSocial(t TestingT) *Social {
	m := &Social{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *Social) FriendRequest(ctx context.Context, requesterID, recipientEmail string) error {
	return m.Called(ctx, requesterID, recipientEmail).Error(0)
}

func (m *Social) AddFriend(ctx context.Context, accepterID, requesterEmail string) error {
	return m.Called(ctx, accepterID, requesterEmail).Error(0)
}

// Conversation mocks the conversation service.
type Conversation struct {
	mock.Mock
}

func NewConversation(t TestingT) *Conversation {
	m := &Conversation{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *Conversation) CreateChat(ctx context.Context, membersID []string) error {
	return m.Called(ctx, membersID).Error(0)
}

func (m *Conversation) GetMessages(ctx context.Context, membersID []string) ([]*data.Message, error) {
	args := m.Called(ctx, membersID)
	msgs, _ := args.Get(0).([]*data.Message)
	return msgs, args.Error(1)
}

func (m *Conversation) CreateMessage(ctx context.Context, from, to, text string) (*data.Message, error) {
	args := m.Called(ctx, from, to, text)
	msg, _ := args.Get(0).(*data.Message)
	return msg, args.Error(1)
}

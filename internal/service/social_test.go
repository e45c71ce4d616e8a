package service_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/PaulBabatuyi/chatapp-rest/internal/apperr"
	"github.com/PaulBabatuyi/chatapp-rest/internal/data"
	"github.com/PaulBabatuyi/chatapp-rest/internal/mocks"
	"github.com/PaulBabatuyi/chatapp-rest/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.uber.org/zap/zaptest"
)

// memUsers is an in-memory UserStore with the same edge semantics as the
// MongoDB store.
type memUsers struct {
	mu    sync.Mutex
	users map[bson.ObjectID]*data.User
}

func newMemUsers(emails ...string) *memUsers {
	m := &memUsers{users: map[bson.ObjectID]*data.User{}}
	for _, e := range emails {
		id := bson.NewObjectID()
		m.users[id] = &data.User{ID: id, Email: e, Friends: []data.FriendEdge{}}
	}
	return m
}

func (m *memUsers) byEmail(email string) *data.User {
	for _, u := range m.users {
		if u.Email == email {
			return u
		}
	}
	return nil
}

func (m *memUsers) CreateUser(context.Context, *data.User) (*data.User, error) {
	return nil, errors.New("not supported")
}

func (m *memUsers) UserExists(_ context.Context, email string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.byEmail(email) != nil, nil
}

func (m *memUsers) GetUserByEmail(_ context.Context, email string) (*data.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u := m.byEmail(email)
	if u == nil {
		return nil, data.ErrUserNotFound
	}
	cp := *u
	cp.Friends = append([]data.FriendEdge{}, u.Friends...)
	return &cp, nil
}

func (m *memUsers) GetUserByID(_ context.Context, id bson.ObjectID) (*data.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return nil, data.ErrUserNotFound
	}
	cp := *u
	cp.Friends = append([]data.FriendEdge{}, u.Friends...)
	return &cp, nil
}

func (m *memUsers) SetRefreshToken(context.Context, bson.ObjectID, string) error { return nil }

func (m *memUsers) FindByEmailSubstring(context.Context, string) ([]data.UserSummary, error) {
	return nil, nil
}

func (m *memUsers) AddPendingFriend(_ context.Context, ownerID bson.ObjectID, email string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.push(ownerID, data.FriendEdge{Username: email}), nil
}

func (m *memUsers) AcceptFriend(_ context.Context, ownerID bson.ObjectID, email string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u := m.users[ownerID]
	for i := range u.Friends {
		if u.Friends[i].Username == email {
			u.Friends[i].Accepted = true
			return true, nil
		}
	}
	return false, nil
}

func (m *memUsers) EnsureAcceptedFriend(ctx context.Context, ownerID bson.ObjectID, email string) error {
	if ok, _ := m.AcceptFriend(ctx, ownerID, email); ok {
		return nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.push(ownerID, data.FriendEdge{Username: email, Accepted: true})
	return nil
}

func (m *memUsers) push(ownerID bson.ObjectID, edge data.FriendEdge) bool {
	u := m.users[ownerID]
	for _, f := range u.Friends {
		if f.Username == edge.Username {
			return false
		}
	}
	u.Friends = append(u.Friends, edge)
	return true
}

func TestSocial_RequestThenAccept(t *testing.T) {
	ctx := context.Background()
	users := newMemUsers("u1@x.com", "u2@x.com")
	u1 := users.byEmail("u1@x.com")
	u2 := users.byEmail("u2@x.com")

	s := service.NewSocial(users, nil, zaptest.NewLogger(t))

	require.NoError(t, s.FriendRequest(ctx, u1.ID.Hex(), "u2@x.com"))
	assert.Equal(t, []data.FriendEdge{{Username: "u1@x.com", Accepted: false}}, u2.Friends)
	assert.Empty(t, u1.Friends)

	err := s.FriendRequest(ctx, u1.ID.Hex(), "u2@x.com")
	require.ErrorIs(t, err, service.ErrAlreadyPending)
	assert.Len(t, u2.Friends, 1)

	require.NoError(t, s.AddFriend(ctx, `"`+u2.ID.Hex()+`"`, "U1@x.com"))
	assert.Equal(t, []data.FriendEdge{{Username: "u1@x.com", Accepted: true}}, u2.Friends)
	assert.Equal(t, []data.FriendEdge{{Username: "u2@x.com", Accepted: true}}, u1.Friends)

	err = s.FriendRequest(ctx, u1.ID.Hex(), "u2@x.com")
	assert.ErrorIs(t, err, service.ErrAlreadyAccepted)

	// accepting twice does not duplicate edges
	require.NoError(t, s.AddFriend(ctx, u2.ID.Hex(), "u1@x.com"))
	assert.Len(t, u1.Friends, 1)
	assert.Len(t, u2.Friends, 1)
}

func TestSocial_ConcurrentRequests(t *testing.T) {
	ctx := context.Background()
	users := newMemUsers("a@x.com", "b@x.com")
	a := users.byEmail("a@x.com")
	b := users.byEmail("b@x.com")

	s := service.NewSocial(users, nil, zaptest.NewLogger(t))

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		sent    int
		pending int
	)
	for range 10 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := s.FriendRequest(ctx, a.ID.Hex(), "b@x.com")
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				sent++
			case errors.Is(err, service.ErrAlreadyPending):
				pending++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, sent)
	assert.Equal(t, 9, pending)
	assert.Len(t, b.Friends, 1)
}

func TestSocial_FriendRequest_Errors(t *testing.T) {
	ctx := context.Background()
	users := newMemUsers("a@x.com")
	a := users.byEmail("a@x.com")

	s := service.NewSocial(users, nil, zaptest.NewLogger(t))

	tests := []struct {
		name  string
		id    string
		email string
		want  error
		kind  apperr.Kind
	}{
		{name: "self", id: a.ID.Hex(), email: "A@x.com", want: service.ErrSelfRequest, kind: apperr.KindValidation},
		{name: "unknown recipient", id: a.ID.Hex(), email: "ghost@x.com", want: service.ErrUserNotFound, kind: apperr.KindNotFound},
		{name: "unknown requester", id: bson.NewObjectID().Hex(), email: "a@x.com", want: service.ErrUserNotFound, kind: apperr.KindNotFound},
		{name: "bad id", id: "xyz", email: "a@x.com", want: service.ErrInvalidID, kind: apperr.KindValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := s.FriendRequest(ctx, tt.id, tt.email)
			require.ErrorIs(t, err, tt.want)
			assert.Equal(t, tt.kind, apperr.KindOf(err))
		})
	}
}

func TestSocial_FriendRequest_LostRace(t *testing.T) {
	users := mocks.NewUserStore(t)
	requester := &data.User{ID: bson.NewObjectID(), Email: "a@x.com"}
	recipient := &data.User{ID: bson.NewObjectID(), Email: "b@x.com"}

	users.On("GetUserByID", mock.Anything, requester.ID).Return(requester, nil)
	users.On("GetUserByEmail", mock.Anything, "b@x.com").Return(recipient, nil)
	users.On("AddPendingFriend", mock.Anything, recipient.ID, "a@x.com").Return(false, nil)

	s := service.NewSocial(users, nil, zaptest.NewLogger(t))

	err := s.FriendRequest(context.Background(), requester.ID.Hex(), "b@x.com")
	assert.ErrorIs(t, err, service.ErrAlreadyPending)
}

func TestSocial_AddFriend_UsesTransaction(t *testing.T) {
	users := mocks.NewUserStore(t)
	tx := mocks.NewTransactor(t)
	accepter := &data.User{ID: bson.NewObjectID(), Email: "b@x.com"}
	requester := &data.User{ID: bson.NewObjectID(), Email: "a@x.com"}

	users.On("GetUserByID", mock.Anything, accepter.ID).Return(accepter, nil)
	users.On("GetUserByEmail", mock.Anything, "a@x.com").Return(requester, nil)
	tx.On("RunInTransaction", mock.Anything, mock.Anything).Return(nil).Once()
	users.On("AcceptFriend", mock.Anything, accepter.ID, "a@x.com").Return(true, nil).Once()
	users.On("EnsureAcceptedFriend", mock.Anything, requester.ID, "b@x.com").Return(nil).Once()

	s := service.NewSocial(users, tx, zaptest.NewLogger(t))

	require.NoError(t, s.AddFriend(context.Background(), accepter.ID.Hex(), "a@x.com"))
}

func TestSocial_AddFriend_Failures(t *testing.T) {
	accepter := &data.User{ID: bson.NewObjectID(), Email: "b@x.com"}
	requester := &data.User{ID: bson.NewObjectID(), Email: "a@x.com"}

	t.Run("transaction aborted", func(t *testing.T) {
		users := mocks.NewUserStore(t)
		tx := mocks.NewTransactor(t)
		users.On("GetUserByID", mock.Anything, accepter.ID).Return(accepter, nil)
		users.On("GetUserByEmail", mock.Anything, "a@x.com").Return(requester, nil)
		tx.On("RunInTransaction", mock.Anything, mock.Anything).Return(errors.New("write conflict"))

		s := service.NewSocial(users, tx, zaptest.NewLogger(t))

		err := s.AddFriend(context.Background(), accepter.ID.Hex(), "a@x.com")
		assert.Equal(t, apperr.KindInternal, apperr.KindOf(err))
	})

	t.Run("unknown requester", func(t *testing.T) {
		users := mocks.NewUserStore(t)
		users.On("GetUserByID", mock.Anything, accepter.ID).Return(accepter, nil)
		users.On("GetUserByEmail", mock.Anything, "ghost@x.com").Return(nil, data.ErrUserNotFound)

		s := service.NewSocial(users, nil, zaptest.NewLogger(t))

		err := s.AddFriend(context.Background(), accepter.ID.Hex(), "ghost@x.com")
		assert.ErrorIs(t, err, service.ErrUserNotFound)
	})

	t.Run("unknown accepter", func(t *testing.T) {
		users := mocks.NewUserStore(t)
		missing := bson.NewObjectID()
		users.On("GetUserByID", mock.Anything, missing).Return(nil, data.ErrUserNotFound)

		s := service.NewSocial(users, nil, zaptest.NewLogger(t))

		err := s.AddFriend(context.Background(), missing.Hex(), "a@x.com")
		assert.ErrorIs(t, err, service.ErrUserNotFound)
	})
}

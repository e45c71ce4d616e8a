package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/PaulBabatuyi/chatapp-rest/internal/apperr"
	"github.com/PaulBabatuyi/chatapp-rest/internal/data"
	"github.com/PaulBabatuyi/chatapp-rest/internal/metrics"
	"github.com/PaulBabatuyi/chatapp-rest/internal/normalize"
	"go.uber.org/zap"
)

// Social manages friend requests and their acceptance.
//
// A request from A to B is stored on B as {A's email, accepted=false}.
// Accepting flips that edge and gives A an accepted edge for B, so an
// established friendship is two accepted edges, one per document.
type Social struct {
	users  UserStore
	tx     Transactor
	logger *zap.Logger
}

// NewSocial returns a Social service. tx may be nil, in which case the two
// writes of an accept run one after the other.
func NewSocial(users UserStore, tx Transactor, logger *zap.Logger) *Social {
	return &Social{users: users, tx: tx, logger: logger}
}

// FriendRequest records a pending request from requesterID to the user
// owning recipientEmail.
func (s *Social) FriendRequest(ctx context.Context, requesterID, recipientEmail string) error {
	requester, err := s.userByID(ctx, requesterID)
	if err != nil {
		return err
	}
	recipientEmail = normalize.Email(normalize.ID(recipientEmail))
	if recipientEmail == requester.Email {
		return ErrSelfRequest
	}
	recipient, err := s.userByEmail(ctx, recipientEmail)
	if err != nil {
		return err
	}

	if edge, ok := recipient.FindFriend(requester.Email); ok {
		if edge.Accepted {
			metrics.RecordFriendRequest("request", "already_accepted")
			return ErrAlreadyAccepted
		}
		metrics.RecordFriendRequest("request", "already_pending")
		return ErrAlreadyPending
	}

	added, err := s.users.AddPendingFriend(ctx, recipient.ID, requester.Email)
	if err != nil {
		s.logger.Error("Social service: failed to add pending friend",
			zap.String("from", requester.Email),
			zap.String("to", recipient.Email),
			zap.Error(err))
		return apperr.Internal(fmt.Errorf("add pending friend: %w", err))
	}
	if !added {
		// a concurrent request for the same pair won the conditional update
		metrics.RecordFriendRequest("request", "already_pending")
		return ErrAlreadyPending
	}

	s.logger.Info("Social service: friend request sent",
		zap.String("from", requester.Email),
		zap.String("to", recipient.Email))
	metrics.RecordFriendRequest("request", "sent")
	return nil
}

// AddFriend accepts the request requesterEmail sent to accepterID.
func (s *Social) AddFriend(ctx context.Context, accepterID, requesterEmail string) error {
	accepter, err := s.userByID(ctx, accepterID)
	if err != nil {
		return err
	}
	requesterEmail = normalize.Email(normalize.ID(requesterEmail))
	if requesterEmail == accepter.Email {
		return ErrSelfRequest
	}
	requester, err := s.userByEmail(ctx, requesterEmail)
	if err != nil {
		return err
	}

	accept := func(ctx context.Context) error {
		// a missing edge on the accepter is not an error; the requester
		// still gets an accepted edge
		if _, err := s.users.AcceptFriend(ctx, accepter.ID, requester.Email); err != nil {
			return err
		}
		return s.users.EnsureAcceptedFriend(ctx, requester.ID, accepter.Email)
	}

	if s.tx != nil {
		err = s.tx.RunInTransaction(ctx, accept)
	} else {
		err = accept(ctx)
	}
	if err != nil {
		s.logger.Error("Social service: failed to accept friend",
			zap.String("accepter", accepter.Email),
			zap.String("requester", requester.Email),
			zap.Error(err))
		return apperr.Internal(fmt.Errorf("accept friend: %w", err))
	}

	s.logger.Info("Social service: friend request accepted",
		zap.String("accepter", accepter.Email),
		zap.String("requester", requester.Email))
	metrics.RecordFriendRequest("accept", "accepted")
	return nil
}

func (s *Social) userByID(ctx context.Context, rawID string) (*data.User, error) {
	id, err := parseID(rawID)
	if err != nil {
		return nil, err
	}
	user, err := s.users.GetUserByID(ctx, id)
	if err != nil {
		if errors.Is(err, data.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, apperr.Internal(fmt.Errorf("get user by id: %w", err))
	}
	return user, nil
}

func (s *Social) userByEmail(ctx context.Context, email string) (*data.User, error) {
	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, data.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, apperr.Internal(fmt.Errorf("get user by email: %w", err))
	}
	return user, nil
}

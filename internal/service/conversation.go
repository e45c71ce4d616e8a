package service

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/PaulBabatuyi/chatapp-rest/internal/apperr"
	"github.com/PaulBabatuyi/chatapp-rest/internal/data"
	"github.com/PaulBabatuyi/chatapp-rest/internal/metrics"
	"github.com/PaulBabatuyi/chatapp-rest/internal/normalize"
	"go.uber.org/zap"
)

// Conversation manages chats and the messages exchanged in them.
type Conversation struct {
	chats  ChatStore
	msgs   MessageStore
	logger *zap.Logger
}

func NewConversation(chats ChatStore, msgs MessageStore, logger *zap.Logger) *Conversation {
	return &Conversation{chats: chats, msgs: msgs, logger: logger}
}

// CreateChat ensures a chat exists for the two members. Calling it again,
// in either member order, is a no-op.
func (c *Conversation) CreateChat(ctx context.Context, membersID []string) error {
	a, b, err := parseMembers(membersID)
	if err != nil {
		return err
	}

	created, err := c.chats.CreateChat(ctx, a, b)
	if err != nil {
		c.logger.Error("Conversation service: failed to create chat",
			zap.String("a", a),
			zap.String("b", b),
			zap.Error(err))
		return apperr.Internal(fmt.Errorf("create chat: %w", err))
	}
	if created {
		c.logger.Info("Conversation service: chat created", zap.String("a", a), zap.String("b", b))
	}
	return nil
}

// GetMessages returns the messages exchanged by the two members, oldest first.
func (c *Conversation) GetMessages(ctx context.Context, membersID []string) ([]*data.Message, error) {
	a, b, err := parseMembers(membersID)
	if err != nil {
		return nil, err
	}

	msgs, err := c.msgs.GetMessages(ctx, a, b)
	if err != nil {
		c.logger.Error("Conversation service: failed to get messages",
			zap.String("a", a),
			zap.String("b", b),
			zap.Error(err))
		return nil, apperr.Internal(fmt.Errorf("get messages: %w", err))
	}
	return msgs, nil
}

// CreateMessage stores text sent from one user to another. Text is trimmed
// and must be 1 to MaxMessageLength characters; it is stored HTML-escaped.
func (c *Conversation) CreateMessage(ctx context.Context, from, to, text string) (*data.Message, error) {
	fromID, err := parseID(from)
	if err != nil {
		return nil, err
	}
	toID, err := parseID(to)
	if err != nil {
		return nil, err
	}

	n := utf8.RuneCountInString(strings.TrimSpace(text))
	if n == 0 || n > MaxMessageLength {
		return nil, ErrInvalidMessage
	}

	msg, err := c.msgs.SaveMessage(ctx, fromID.Hex(), toID.Hex(), normalize.Text(text))
	if err != nil {
		c.logger.Error("Conversation service: failed to save message",
			zap.String("from", fromID.Hex()),
			zap.String("to", toID.Hex()),
			zap.Error(err))
		return nil, apperr.Internal(fmt.Errorf("save message: %w", err))
	}

	metrics.RecordMessage()
	return msg, nil
}

func parseMembers(membersID []string) (string, string, error) {
	if len(membersID) != 2 {
		return "", "", ErrInvalidMembers
	}
	a, err := parseID(membersID[0])
	if err != nil {
		return "", "", err
	}
	b, err := parseID(membersID[1])
	if err != nil {
		return "", "", err
	}
	return a.Hex(), b.Hex(), nil
}

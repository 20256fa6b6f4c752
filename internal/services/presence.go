package services

import (
	"context"
	"errors"
	"time"

	stream "github.com/GetStream/stream-chat-go/v7"
)

var ErrPresenceDisabled = errors.New("chat presence is not configured")

// PresenceUser is the identity mirrored into the chat platform.
type PresenceUser struct {
	ID    string
	Name  string
	Image string
}

// PresenceSyncer mirrors user identity into the third-party chat platform and
// mints the tokens its clients connect with.
type PresenceSyncer interface {
	UpsertUser(ctx context.Context, user PresenceUser) error
	CreateToken(userID string) (string, error)
}

// StreamPresence is the PresenceSyncer backed by Stream Chat.
type StreamPresence struct {
	client *stream.Client
}

func NewStreamPresence(apiKey, apiSecret string) (*StreamPresence, error) {
	client, err := stream.NewClient(apiKey, apiSecret)
	if err != nil {
		return nil, err
	}
	return &StreamPresence{client: client}, nil
}

func (s *StreamPresence) UpsertUser(ctx context.Context, user PresenceUser) error {
	_, err := s.client.UpsertUser(ctx, &stream.User{
		ID:    user.ID,
		Name:  user.Name,
		Image: user.Image,
	})
	return err
}

// CreateToken returns a non-expiring chat token, matching what the web client
// expects when it connects.
func (s *StreamPresence) CreateToken(userID string) (string, error) {
	return s.client.CreateToken(userID, time.Time{})
}

// DisabledPresence is used when no chat credentials are configured.
type DisabledPresence struct{}

func (DisabledPresence) UpsertUser(context.Context, PresenceUser) error {
	return ErrPresenceDisabled
}

func (DisabledPresence) CreateToken(string) (string, error) {
	return "", ErrPresenceDisabled
}

package channel

import (
	"context"
	"fmt"
	"strings"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/google/uuid"
	"google.golang.org/api/iterator"
)

const Collection = "channels"

type Service struct {
	client *firestore.Client
}

func NewService(client *firestore.Client) *Service {
	return &Service{client: client}
}

func (s *Service) col() *firestore.CollectionRef {
	return s.client.Collection(Collection)
}

func (s *Service) messagesCol(channelID string) *firestore.CollectionRef {
	return s.col().Doc(channelID).Collection("messages")
}

func (s *Service) getChannel(ctx context.Context, channelID string) (*Channel, error) {
	doc, err := s.col().Doc(channelID).Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: channel not found", ErrNotFound)
	}
	var ch Channel
	if err := doc.DataTo(&ch); err != nil {
		return nil, fmt.Errorf("failed to decode channel: %w", err)
	}
	if ch.ID == "" {
		ch.ID = doc.Ref.ID
	}
	return &ch, nil
}

func (ch *Channel) hasMember(uid string) bool {
	for _, m := range ch.Members {
		if m == uid {
			return true
		}
	}
	return false
}

func (s *Service) CreateChannel(ctx context.Context, creatorUID string, in CreateChannelInput) (*Channel, error) {
	in.Trim()
	creatorUID = strings.TrimSpace(creatorUID)

	if in.ClubID == "" || in.Name == "" {
		return nil, fmt.Errorf("%w: clubId and name are required", ErrBadRequest)
	}
	if creatorUID == "" {
		return nil, fmt.Errorf("%w: missing uid", ErrUnauthorized)
	}

	ref := s.col().NewDoc()
	ch := Channel{
		ID:        ref.ID,
		ClubID:    in.ClubID,
		Name:      in.Name,
		Members:   []string{creatorUID},
		CreatedBy: creatorUID,
		CreatedAt: time.Now().UTC(),
	}
	if _, err := ref.Create(ctx, ch); err != nil {
		return nil, fmt.Errorf("failed to create channel: %w", err)
	}
	return &ch, nil
}

func (s *Service) ListChannels(ctx context.Context, clubID string) ([]Channel, error) {
	clubID = strings.TrimSpace(clubID)
	if clubID == "" {
		return nil, fmt.Errorf("%w: clubId is required", ErrBadRequest)
	}

	it := s.col().Where("clubId", "==", clubID).Documents(ctx)
	out := []Channel{}
	for {
		doc, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to list channels: %w", err)
		}
		var ch Channel
		if err := doc.DataTo(&ch); err != nil {
			continue
		}
		if ch.ID == "" {
			ch.ID = doc.Ref.ID
		}
		out = append(out, ch)
	}
	return out, nil
}

func (s *Service) JoinChannel(ctx context.Context, uid, channelID string) error {
	uid = strings.TrimSpace(uid)
	channelID = strings.TrimSpace(channelID)
	if channelID == "" {
		return fmt.Errorf("%w: channelId is required", ErrBadRequest)
	}

	if _, err := s.getChannel(ctx, channelID); err != nil {
		return err
	}

	_, err := s.col().Doc(channelID).Update(ctx, []firestore.Update{
		{Path: "members", Value: firestore.ArrayUnion(uid)},
	})
	if err != nil {
		return fmt.Errorf("failed to join channel: %w", err)
	}
	return nil
}

// PostMessage appends a message; only channel members can post.
func (s *Service) PostMessage(ctx context.Context, uid string, in PostMessageInput) (*Message, error) {
	in.Trim()
	uid = strings.TrimSpace(uid)

	if in.ChannelID == "" {
		return nil, fmt.Errorf("%w: channelId is required", ErrBadRequest)
	}
	if in.Text == "" {
		return nil, fmt.Errorf("%w: text is required", ErrBadRequest)
	}

	ch, err := s.getChannel(ctx, in.ChannelID)
	if err != nil {
		return nil, err
	}
	if !ch.hasMember(uid) {
		return nil, fmt.Errorf("%w: not a channel member", ErrForbidden)
	}

	msg := Message{
		ID:        uuid.NewString(),
		SenderID:  uid,
		Text:      in.Text,
		CreatedAt: time.Now().UTC(),
	}
	if _, err := s.messagesCol(in.ChannelID).Doc(msg.ID).Create(ctx, msg); err != nil {
		return nil, fmt.Errorf("failed to post message: %w", err)
	}
	return &msg, nil
}

// ListMessages returns messages ordered by creation time, newest last.
func (s *Service) ListMessages(ctx context.Context, uid, channelID string, limit int) ([]Message, error) {
	channelID = strings.TrimSpace(channelID)
	if channelID == "" {
		return nil, fmt.Errorf("%w: channelId is required", ErrBadRequest)
	}

	ch, err := s.getChannel(ctx, channelID)
	if err != nil {
		return nil, err
	}
	if !ch.hasMember(strings.TrimSpace(uid)) {
		return nil, fmt.Errorf("%w: not a channel member", ErrForbidden)
	}

	if limit <= 0 || limit > 200 {
		limit = 100
	}

	it := s.messagesCol(channelID).
		OrderBy("createdAt", firestore.Asc).
		Limit(limit).
		Documents(ctx)

	out := []Message{}
	for {
		doc, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to list messages: %w", err)
		}
		var m Message
		if err := doc.DataTo(&m); err != nil {
			continue
		}
		if m.ID == "" {
			m.ID = doc.Ref.ID
		}
		out = append(out, m)
	}
	return out, nil
}

// DeleteMessage removes a message; messages are never edited, deletion
// is the only moderation. Allowed for the sender or the channel creator.
func (s *Service) DeleteMessage(ctx context.Context, uid, channelID, messageID string) error {
	uid = strings.TrimSpace(uid)
	channelID = strings.TrimSpace(channelID)
	messageID = strings.TrimSpace(messageID)
	if channelID == "" || messageID == "" {
		return fmt.Errorf("%w: channelId and messageId are required", ErrBadRequest)
	}

	ch, err := s.getChannel(ctx, channelID)
	if err != nil {
		return err
	}

	doc, err := s.messagesCol(channelID).Doc(messageID).Get(ctx)
	if err != nil {
		return fmt.Errorf("%w: message not found", ErrNotFound)
	}
	var m Message
	_ = doc.DataTo(&m)

	if m.SenderID != uid && ch.CreatedBy != uid {
		return fmt.Errorf("%w: only the sender or channel creator can delete", ErrForbidden)
	}

	if _, err := s.messagesCol(channelID).Doc(messageID).Delete(ctx); err != nil {
		return fmt.Errorf("failed to delete message: %w", err)
	}
	return nil
}

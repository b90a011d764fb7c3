package notifications

import (
	"context"
	"fmt"
	"strings"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
)

type Service struct {
	client *firestore.Client
}

func NewService(client *firestore.Client) *Service {
	return &Service{client: client}
}

func (s *Service) itemsCol(uid string) *firestore.CollectionRef {
	return s.client.Collection("notifications").Doc(uid).Collection("items")
}

// Create writes one notification item. Best-effort callers (workflow
// side effects) ignore the error; the workflow itself must not fail
// because a notification could not be written.
func (s *Service) Create(ctx context.Context, senderUID string, in CreateNotificationInput) (*Notification, error) {
	in.Trim()
	if in.TargetUID == "" {
		return nil, fmt.Errorf("%w: targetUid is required", ErrBadRequest)
	}
	if in.Title == "" {
		return nil, fmt.Errorf("%w: title is required", ErrBadRequest)
	}

	ref := s.itemsCol(in.TargetUID).NewDoc()
	n := Notification{
		ID:        ref.ID,
		Title:     in.Title,
		Body:      in.Body,
		Type:      in.Type,
		Data:      in.Data,
		ClubID:    in.ClubID,
		Read:      false,
		SenderUID: strings.TrimSpace(senderUID),
		CreatedAt: time.Now().UTC(),
	}
	if _, err := ref.Create(ctx, n); err != nil {
		return nil, fmt.Errorf("failed to create notification: %w", err)
	}
	return &n, nil
}

func (s *Service) List(ctx context.Context, uid string, unreadOnly bool, limit int) (*NotificationsListResult, error) {
	uid = strings.TrimSpace(uid)
	if uid == "" {
		return nil, fmt.Errorf("%w: uid is required", ErrBadRequest)
	}

	query := s.itemsCol(uid).Query
	if unreadOnly {
		query = query.Where("read", "==", false)
	}
	query = query.OrderBy("createdAt", firestore.Desc)

	if limit <= 0 || limit > 100 {
		limit = 50
	}
	query = query.Limit(limit)

	it := query.Documents(ctx)
	var items []Notification
	for {
		doc, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to list notifications: %w", err)
		}
		var n Notification
		if err := doc.DataTo(&n); err != nil {
			continue
		}
		if n.ID == "" {
			n.ID = doc.Ref.ID
		}
		items = append(items, n)
	}

	// unread count (simple scan)
	unreadIter := s.itemsCol(uid).Query.Where("read", "==", false).Documents(ctx)
	unreadCount := int64(0)
	for {
		_, err := unreadIter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			break
		}
		unreadCount++
	}

	return &NotificationsListResult{
		Notifications: items,
		UnreadCount:   unreadCount,
	}, nil
}

// MarkRead marks the given items (or all unread items) as read in one
// batch. Returns the number of items updated.
func (s *Service) MarkRead(ctx context.Context, uid string, in MarkReadInput) (int, error) {
	uid = strings.TrimSpace(uid)
	in.Trim()
	if uid == "" {
		return 0, fmt.Errorf("%w: uid is required", ErrBadRequest)
	}
	if !in.MarkAll && len(in.IDs) == 0 {
		return 0, fmt.Errorf("%w: ids or markAll is required", ErrBadRequest)
	}

	now := time.Now().UTC()
	batch := s.client.Batch()
	count := 0

	if in.MarkAll {
		it := s.itemsCol(uid).Query.Where("read", "==", false).Documents(ctx)
		for {
			doc, err := it.Next()
			if err == iterator.Done {
				break
			}
			if err != nil {
				return 0, fmt.Errorf("failed to scan notifications: %w", err)
			}
			batch.Update(doc.Ref, []firestore.Update{
				{Path: "read", Value: true},
				{Path: "readAt", Value: now},
			})
			count++
		}
	} else {
		for _, id := range in.IDs {
			batch.Update(s.itemsCol(uid).Doc(id), []firestore.Update{
				{Path: "read", Value: true},
				{Path: "readAt", Value: now},
			})
			count++
		}
	}

	if count == 0 {
		return 0, nil
	}
	if _, err := batch.Commit(ctx); err != nil {
		return 0, fmt.Errorf("failed to mark read: %w", err)
	}
	return count, nil
}

func (s *Service) Delete(ctx context.Context, uid, notificationID string) error {
	uid = strings.TrimSpace(uid)
	notificationID = strings.TrimSpace(notificationID)
	if uid == "" || notificationID == "" {
		return fmt.Errorf("%w: uid and notificationId are required", ErrBadRequest)
	}
	if _, err := s.itemsCol(uid).Doc(notificationID).Get(ctx); err != nil {
		return fmt.Errorf("%w: notification not found", ErrNotFound)
	}
	if _, err := s.itemsCol(uid).Doc(notificationID).Delete(ctx); err != nil {
		return fmt.Errorf("failed to delete notification: %w", err)
	}
	return nil
}

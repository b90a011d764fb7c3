package rating

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
)

var (
	ErrNotFound   = errors.New("not found")
	ErrBadRequest = errors.New("bad request")
	ErrConflict   = errors.New("conflict")
)

func IsErrNotFound(err error) bool   { return errors.Is(err, ErrNotFound) }
func IsErrBadRequest(err error) bool { return errors.Is(err, ErrBadRequest) }
func IsErrConflict(err error) bool   { return errors.Is(err, ErrConflict) }

// Invitation asks a user to rate a club or educator after a completed
// booking ("ratingInvitations" collection). One invitation per booking.
type Invitation struct {
	ID         string    `firestore:"id" json:"id"`
	BookingID  string    `firestore:"bookingId" json:"bookingId"`
	UserID     string    `firestore:"userId" json:"userId"`
	ClubID     string    `firestore:"clubId" json:"clubId"`
	EducatorID string    `firestore:"educatorId,omitempty" json:"educatorId,omitempty"`
	Status     string    `firestore:"status" json:"status"` // pending / submitted / dismissed
	Score      int       `firestore:"score,omitempty" json:"score,omitempty"`
	Comment    string    `firestore:"comment,omitempty" json:"comment,omitempty"`
	CreatedAt  time.Time `firestore:"createdAt" json:"createdAt"`
	UpdatedAt  time.Time `firestore:"updatedAt" json:"updatedAt"`
}

const (
	StatusPending   = "pending"
	StatusSubmitted = "submitted"
	StatusDismissed = "dismissed"
)

type Service struct {
	client *firestore.Client
}

func NewService(client *firestore.Client) *Service {
	return &Service{client: client}
}

func (s *Service) col() *firestore.CollectionRef {
	return s.client.Collection("ratingInvitations")
}

// CreateForBooking issues one invitation per booking; the bookingId is
// the document key, so a repeat issue fails instead of duplicating.
func (s *Service) CreateForBooking(ctx context.Context, bookingID, userID, clubID, educatorID string) (*Invitation, error) {
	bookingID = strings.TrimSpace(bookingID)
	userID = strings.TrimSpace(userID)
	clubID = strings.TrimSpace(clubID)
	if bookingID == "" || userID == "" || clubID == "" {
		return nil, fmt.Errorf("%w: bookingId, userId and clubId are required", ErrBadRequest)
	}

	now := time.Now().UTC()
	inv := Invitation{
		ID:         bookingID,
		BookingID:  bookingID,
		UserID:     userID,
		ClubID:     clubID,
		EducatorID: strings.TrimSpace(educatorID),
		Status:     StatusPending,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if _, err := s.col().Doc(bookingID).Create(ctx, inv); err != nil {
		return nil, fmt.Errorf("%w: invitation already exists for this booking", ErrConflict)
	}
	return &inv, nil
}

func (s *Service) ListForUser(ctx context.Context, userID string, pendingOnly bool) ([]Invitation, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, fmt.Errorf("%w: userId is required", ErrBadRequest)
	}

	query := s.col().Where("userId", "==", userID)
	if pendingOnly {
		query = query.Where("status", "==", StatusPending)
	}

	it := query.Documents(ctx)
	out := []Invitation{}
	for {
		doc, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to list invitations: %w", err)
		}
		var inv Invitation
		if err := doc.DataTo(&inv); err != nil {
			continue
		}
		if inv.ID == "" {
			inv.ID = doc.Ref.ID
		}
		out = append(out, inv)
	}
	return out, nil
}

// Respond records a score (1..5) or dismisses the invitation.
func (s *Service) Respond(ctx context.Context, userID, invitationID string, score int, comment string) (*Invitation, error) {
	userID = strings.TrimSpace(userID)
	invitationID = strings.TrimSpace(invitationID)
	if invitationID == "" {
		return nil, fmt.Errorf("%w: invitationId is required", ErrBadRequest)
	}

	doc, err := s.col().Doc(invitationID).Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: invitation not found", ErrNotFound)
	}
	var inv Invitation
	if err := doc.DataTo(&inv); err != nil {
		return nil, fmt.Errorf("failed to decode invitation: %w", err)
	}
	if inv.UserID != userID {
		return nil, fmt.Errorf("%w: invitation belongs to another user", ErrBadRequest)
	}
	if inv.Status != StatusPending {
		return nil, fmt.Errorf("%w: invitation is %s", ErrConflict, inv.Status)
	}

	now := time.Now().UTC()
	if score == 0 {
		inv.Status = StatusDismissed
	} else {
		if score < 1 || score > 5 {
			return nil, fmt.Errorf("%w: score must be 1..5", ErrBadRequest)
		}
		inv.Status = StatusSubmitted
		inv.Score = score
		inv.Comment = strings.TrimSpace(comment)
	}
	inv.UpdatedAt = now

	if _, err := s.col().Doc(invitationID).Set(ctx, inv); err != nil {
		return nil, fmt.Errorf("failed to save invitation: %w", err)
	}
	return &inv, nil
}
